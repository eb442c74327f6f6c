package graph

import (
	"fmt"
	"sort"
	"strings"

	"github.com/aretw0/lattice/pkg/domain"
)

// Overlay contains dynamic run data to visualize on top of the topology.
type Overlay struct {
	VisitedNodes []string
	CurrentNode  string
}

// GenerateMermaid produces Mermaid flowchart syntax for a topology.
// Sentinels render as circles, regular steps as rectangles; conditional
// routes become labeled arrows. Overlay styles (visited/current) are
// appended when provided.
func GenerateMermaid(topo domain.Topology, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	sb.WriteString(fmt.Sprintf("    %s((\"start\"))\n", sanitizeMermaidID(domain.Start)))
	for _, name := range topo.Nodes {
		sb.WriteString(fmt.Sprintf("    %s[\"%s\"]\n", sanitizeMermaidID(name), name))
	}
	sb.WriteString(fmt.Sprintf("    %s((\"end\"))\n", sanitizeMermaidID(domain.End)))

	for _, e := range topo.Edges {
		sb.WriteString(fmt.Sprintf("    %s --> %s\n",
			sanitizeMermaidID(e.Source), sanitizeMermaidID(e.Target)))
	}

	for _, r := range topo.Routes {
		labels := make([]string, 0, len(r.Mapping))
		for label := range r.Mapping {
			labels = append(labels, label)
		}
		sort.Strings(labels)
		for _, label := range labels {
			safeLabel := strings.ReplaceAll(label, "\"", "'")
			sb.WriteString(fmt.Sprintf("    %s -- \"%s\" --> %s\n",
				sanitizeMermaidID(r.Source), safeLabel, sanitizeMermaidID(r.Mapping[label])))
		}
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		visitedSet := make(map[string]bool)
		for _, id := range overlay.VisitedNodes {
			safeID := sanitizeMermaidID(id)
			if safeID != "" && !visitedSet[safeID] {
				visitedSet[safeID] = true
				sb.WriteString(fmt.Sprintf("    class %s visited;\n", safeID))
			}
		}
		if overlay.CurrentNode != "" {
			sb.WriteString(fmt.Sprintf("    class %s current;\n", sanitizeMermaidID(overlay.CurrentNode)))
		}
	}

	return sb.String()
}

func sanitizeMermaidID(id string) string {
	replacer := strings.NewReplacer(".", "_", "-", "_", "/", "_", "\\", "_")
	return strings.Trim(replacer.Replace(id), "_")
}
