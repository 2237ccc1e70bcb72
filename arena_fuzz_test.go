package arena

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// FuzzArenaStack drives an arena with fuzzer-chosen alloc/free sequences,
// mostly in stack order with occasional out-of-order frees, and checks
// that a full drain always restores the empty state.
func FuzzArenaStack(f *testing.F) {
	f.Add([]byte{10, 3, 200, 0, 7, 1, 90, 2})
	f.Add([]byte{255, 254, 253, 4, 8, 12, 16, 20})

	f.Fuzz(func(t *testing.T, ops []byte) {
		assert := assert.New(t)

		a := NewMemArena(make([]byte, 1024), 2)
		var live []Block

		for _, op := range ops {
			if op%4 != 0 || len(live) == 0 {
				b := a.Alloc(1 + int(op)%64)
				if b.IsNil() {
					continue // exhausted, not an error
				}
				assert.True(a.Owns(b.Ptr))
				live = append(live, b)
				continue
			}

			// free the top block, or occasionally the one below it
			// while a pending slot is available
			i := len(live) - 1
			if op%8 == 0 && i > 0 && len(a.pending) < cap(a.pending) {
				i--
			}
			a.Free(live[i])
			live = append(live[:i], live[i+1:]...)
		}

		// drain in reverse order; the mark must come all the way back
		for i := len(live) - 1; i >= 0; i-- {
			a.Free(live[i])
		}
		assert.Equal(0, a.Used())
		assert.Equal(0, a.Stats().PendingFrees)
	})
}
