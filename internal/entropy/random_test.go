package entropy_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/talgya/hexcrawl/internal/entropy"
)

func TestSeededReplaysSequence(t *testing.T) {
	a := entropy.Seeded(99)
	b := entropy.Seeded(99)

	for i := 0; i < 50; i++ {
		assert.Equal(t, a.Float(), b.Float())
		assert.Equal(t, a.IntN(17), b.IntN(17))
	}
}

func TestSeedsDiverge(t *testing.T) {
	a := entropy.Seeded(1)
	b := entropy.Seeded(2)

	same := 0
	for i := 0; i < 20; i++ {
		if a.Float() == b.Float() {
			same++
		}
	}
	assert.Less(t, same, 20)
}

func TestFloatBounds(t *testing.T) {
	for _, src := range []entropy.Source{entropy.Seeded(7), entropy.Crypto()} {
		for i := 0; i < 1000; i++ {
			v := src.Float()
			assert.GreaterOrEqual(t, v, 0.0)
			assert.Less(t, v, 1.0)
		}
	}
}

func TestIntNBounds(t *testing.T) {
	for _, src := range []entropy.Source{entropy.Seeded(7), entropy.Crypto()} {
		for i := 0; i < 1000; i++ {
			v := src.IntN(6)
			assert.GreaterOrEqual(t, v, 0)
			assert.Less(t, v, 6)
		}
	}
}

func TestLockedSourceUnderContention(t *testing.T) {
	src := entropy.Locked(entropy.Seeded(3))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				v := src.Float()
				assert.GreaterOrEqual(t, v, 0.0)
				assert.Less(t, v, 1.0)
				src.IntN(10)
			}
		}()
	}
	wg.Wait()
}
