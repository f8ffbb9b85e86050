package queue

import (
	"github.com/eapache/queue"
)

var _ EventQueue = (*Ring)(nil)

// Ring 基于环形缓冲区的队列，容量按需翻倍/收缩
type Ring struct {
	q *queue.Queue
}

func NewRing() *Ring {
	return &Ring{q: queue.New()}
}

func (r *Ring) Put(event interface{}) {
	r.q.Add(event)
}

func (r *Ring) Poll() (interface{}, bool) {
	if r.q.Length() == 0 {
		return nil, false
	}
	return r.q.Remove(), true
}

func (r *Ring) IsEmpty() bool {
	return r.q.Length() == 0
}

func (r *Ring) Len() int {
	return r.q.Length()
}
