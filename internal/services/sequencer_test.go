package services

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSequencer_LatestWins(t *testing.T) {
	seq := NewSequencer()

	first := seq.Next("scope")
	second := seq.Next("scope")

	assert.False(t, seq.IsLatest("scope", first))
	assert.True(t, seq.IsLatest("scope", second))
}

func TestSequencer_KeysAreIndependent(t *testing.T) {
	seq := NewSequencer()

	a := seq.Next("a")
	seq.Next("b")

	assert.True(t, seq.IsLatest("a", a))
}

func TestSequencer_Expire(t *testing.T) {
	seq := NewSequencer()
	token := seq.Next("scope")

	seq.Expire()

	assert.False(t, seq.IsLatest("scope", token))
	assert.True(t, seq.IsLatest("scope", seq.Next("scope")))
}

func TestSequencer_Concurrent(t *testing.T) {
	seq := NewSequencer()

	var wg sync.WaitGroup
	tokens := make(chan uint64, 100)
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tokens <- seq.Next("scope")
		}()
	}
	wg.Wait()
	close(tokens)

	seen := make(map[uint64]bool)
	latest := 0
	for tok := range tokens {
		assert.False(t, seen[tok], "tokens are unique")
		seen[tok] = true
		if seq.IsLatest("scope", tok) {
			latest++
		}
	}
	assert.Equal(t, 1, latest)
}
