package containers

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRingQueue_FIFO(t *testing.T) {
	rq := NewRingQueue[int](2)
	assert.True(t, rq.IsEmpty())

	_, err := rq.Dequeue()
	assert.True(t, errors.Is(err, ErrQueueEmpty))
	_, err = rq.Peek()
	assert.True(t, errors.Is(err, ErrQueueEmpty))

	rq.Enqueue(1)
	rq.Enqueue(2)
	v, err := rq.Dequeue()
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	// wraps, then grows past the initial capacity
	rq.Enqueue(3)
	rq.Enqueue(4)
	rq.Enqueue(5)
	assert.Equal(t, 4, rq.Len())

	v, err = rq.Peek()
	require.NoError(t, err)
	assert.Equal(t, 2, v)
	assert.Equal(t, []int{2, 3, 4, 5}, rq.Drain())
	assert.True(t, rq.IsEmpty())
	assert.Empty(t, rq.Drain())

	rq.Enqueue(6)
	v, err = rq.Dequeue()
	require.NoError(t, err)
	assert.Equal(t, 6, v)
}

func TestRingQueue_ZeroSize(t *testing.T) {
	rq := NewRingQueue[string](0)
	rq.Enqueue("a")
	rq.Enqueue("b")
	assert.Equal(t, []string{"a", "b"}, rq.Drain())
}

func TestRingQueue_ConcurrentProducers(t *testing.T) {
	rq := NewRingQueue[int](4)
	var wg sync.WaitGroup
	for p := 0; p < 8; p++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				rq.Enqueue(i)
			}
		}()
	}
	wg.Wait()
	assert.Len(t, rq.Drain(), 800)
}
