package queue

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func implementations() map[string]func() EventQueue {
	return map[string]func() EventQueue{
		"ring": func() EventQueue { return NewRing() },
		"mpsc": func() EventQueue { return NewMpsc() },
	}
}

func TestEventQueueFIFO(t *testing.T) {
	for name, newQueue := range implementations() {
		t.Run(name, func(t *testing.T) {
			q := newQueue()
			assert.True(t, q.IsEmpty())
			_, ok := q.Poll()
			assert.False(t, ok)

			for i := 0; i < 100; i++ {
				q.Put(i)
			}
			assert.Equal(t, 100, q.Len())
			assert.False(t, q.IsEmpty())

			for i := 0; i < 100; i++ {
				v, ok := q.Poll()
				require.True(t, ok)
				assert.Equal(t, i, v)
			}
			assert.True(t, q.IsEmpty())
			assert.Equal(t, 0, q.Len())
		})
	}
}

func TestEventQueueInterleaved(t *testing.T) {
	for name, newQueue := range implementations() {
		t.Run(name, func(t *testing.T) {
			q := newQueue()
			q.Put("a")
			q.Put("b")
			v, _ := q.Poll()
			assert.Equal(t, "a", v)
			q.Put("c")
			v, _ = q.Poll()
			assert.Equal(t, "b", v)
			v, _ = q.Poll()
			assert.Equal(t, "c", v)
			assert.True(t, q.IsEmpty())
		})
	}
}

func TestMpscConcurrentProducers(t *testing.T) {
	const producers, perProducer = 8, 1000
	q := NewMpsc()

	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func(p int) {
			defer wg.Done()
			for i := 0; i < perProducer; i++ {
				q.Put([2]int{p, i})
			}
		}(p)
	}
	wg.Wait()

	require.Equal(t, producers*perProducer, q.Len())
	last := make([]int, producers)
	for i := range last {
		last[i] = -1
	}
	for {
		v, ok := q.Poll()
		if !ok {
			break
		}
		item := v.([2]int)
		// 同一生产者内部保持顺序
		assert.Greater(t, item[1], last[item[0]])
		last[item[0]] = item[1]
	}
	for _, l := range last {
		assert.Equal(t, perProducer-1, l)
	}
}
