package scanpipeline

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFindingBudget_TakeWithinCap(t *testing.T) {
	b := NewFindingBudget(10)
	assert.Equal(t, 5, b.Take(5))
	assert.Equal(t, 5, b.Used())
	assert.False(t, b.Exhausted())
}

func TestFindingBudget_TakePartialAtCap(t *testing.T) {
	b := NewFindingBudget(10)
	assert.Equal(t, 7, b.Take(7))
	assert.Equal(t, 3, b.Take(7))
	assert.Equal(t, 10, b.Used())
	assert.True(t, b.Exhausted())
}

func TestFindingBudget_TakeAfterExhausted(t *testing.T) {
	b := NewFindingBudget(5)
	assert.Equal(t, 5, b.Take(5))
	assert.Equal(t, 0, b.Take(3))
}

func TestFindingBudget_DisabledWhenNonPositive(t *testing.T) {
	b := NewFindingBudget(0)
	assert.Equal(t, 100, b.Take(100))
	assert.False(t, b.Exhausted())
}

func TestFindingBudget_ConcurrentTake(t *testing.T) {
	b := NewFindingBudget(1000)

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			b.Take(10)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1000, b.Used())
	assert.True(t, b.Exhausted())
}
