package yamlgraph

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/lattice/pkg/domain"
	"github.com/aretw0/lattice/pkg/registry"
)

const pipelineYAML = `
schema:
  steps: sum
nodes:
  - name: fetch
    action: test.fetch
  - name: decide
    action: test.noop
  - name: publish
    action: test.publish
edges:
  - from: start
    to: fetch
  - from: fetch
    to: decide
  - from: publish
    to: end
routes:
  - from: decide
    decide: test.route
    mapping:
      publish: publish
      stop: end
`

func testRegistry(t *testing.T) *registry.Registry {
	t.Helper()
	reg := registry.New()

	actions := map[string]domain.Action{
		"test.fetch": func(_ context.Context, _ domain.State) (domain.State, error) {
			return domain.State{"payload": "data", "steps": 1}, nil
		},
		"test.noop": func(_ context.Context, _ domain.State) (domain.State, error) {
			return domain.State{"steps": 1}, nil
		},
		"test.publish": func(_ context.Context, _ domain.State) (domain.State, error) {
			return domain.State{"published": true, "steps": 1}, nil
		},
	}
	for name, handler := range actions {
		require.NoError(t, reg.Register(registry.Descriptor{Name: name, Handler: handler}))
	}
	require.NoError(t, reg.RegisterRouter(registry.RouterDescriptor{
		Name: "test.route",
		Handler: func(_ context.Context, state domain.State) (string, error) {
			if state["payload"] == "data" {
				return "publish", nil
			}
			return "stop", nil
		},
	}))
	return reg
}

func TestLoadAndInvoke(t *testing.T) {
	g, err := Load([]byte(pipelineYAML), testRegistry(t))
	require.NoError(t, err)

	runnable, err := g.Compile()
	require.NoError(t, err)

	final, err := runnable.Invoke(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, true, final["published"])
	assert.Equal(t, int64(3), final["steps"])
}

func TestLoadRequiresRegistry(t *testing.T) {
	_, err := Load([]byte(pipelineYAML), nil)
	assert.Error(t, err)
}

func TestLoadUnregisteredAction(t *testing.T) {
	reg := registry.New()
	_, err := Load([]byte(pipelineYAML), reg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "test.fetch")
}

func TestValidateWithoutHandlers(t *testing.T) {
	// Validation binds stubs; no registry needed.
	assert.NoError(t, Validate([]byte(pipelineYAML)))
}

func TestValidateCatchesUnknownTarget(t *testing.T) {
	const broken = `
nodes:
  - name: a
    action: test.noop
edges:
  - from: start
    to: a
  - from: a
    to: ghost
`
	err := Validate([]byte(broken))
	var incomplete *domain.IncompleteGraphError
	require.ErrorAs(t, err, &incomplete)
	assert.Equal(t, "ghost", incomplete.Node)
}

func TestParseRejectsUnknownKeys(t *testing.T) {
	const stray = `
nodes:
  - name: a
    action: test.noop
vertices:
  - nope
`
	_, err := Parse([]byte(stray))
	require.Error(t, err)
}

func TestParseRejectsBadYAML(t *testing.T) {
	_, err := Parse([]byte("nodes: [whoops"))
	assert.Error(t, err)
}

func TestTopologySnapshot(t *testing.T) {
	topo, err := Topology([]byte(pipelineYAML))
	require.NoError(t, err)

	assert.Equal(t, []string{"decide", "fetch", "publish"}, topo.Nodes)
	require.Len(t, topo.Routes, 1)
	assert.Equal(t, "decide", topo.Routes[0].Source)
	assert.Equal(t, domain.End, topo.Routes[0].Mapping["stop"])
}

func TestBadSchemaPolicy(t *testing.T) {
	const badPolicy = `
schema:
  steps: median
nodes:
  - name: a
    action: test.noop
edges:
  - from: start
    to: a
  - from: a
    to: end
`
	err := Validate([]byte(badPolicy))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "median")
}
