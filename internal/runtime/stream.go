package runtime

import (
	"context"
	"iter"

	"github.com/aretw0/lattice/pkg/domain"
)

// Stream runs the program like Invoke but surfaces each step's partial
// update as it is produced. The sequence is lazy, finite and
// non-restartable: breaking out of the range stops execution at the next
// step boundary. A terminal failure is yielded as the final pair with a
// zero Delta.
func (e *Engine) Stream(ctx context.Context, initial domain.State) iter.Seq2[domain.Delta, error] {
	return func(yield func(domain.Delta, error) bool) {
		stopped := false
		_, err := e.run(ctx, initial, func(d domain.Delta) bool {
			if !yield(d, nil) {
				stopped = true
				return false
			}
			return true
		})
		if err != nil && !stopped {
			yield(domain.Delta{}, err)
		}
	}
}
