package queue

import (
	"sync/atomic"
)

var _ EventQueue = (*Mpsc)(nil)

type node struct {
	next atomic.Pointer[node]
	val  interface{}
}

// Mpsc 无锁多生产者单消费者队列
// Put 可并发调用；Poll 同一时刻只能有一个调用方
type Mpsc struct {
	head   atomic.Pointer[node]
	tail   *node
	length atomic.Int64
}

func NewMpsc() *Mpsc {
	q := &Mpsc{}
	stub := &node{}
	q.head.Store(stub)
	q.tail = stub
	return q
}

func (q *Mpsc) Put(x interface{}) {
	n := &node{val: x}
	q.length.Add(1)
	prev := q.head.Swap(n)
	prev.next.Store(n)
}

func (q *Mpsc) Poll() (interface{}, bool) {
	next := q.tail.next.Load()
	if next == nil {
		return nil, false
	}
	q.tail = next
	v := next.val
	next.val = nil
	q.length.Add(-1)
	return v, true
}

func (q *Mpsc) IsEmpty() bool {
	return q.tail.next.Load() == nil
}

// Len 近似长度：与 Put 并发时可能短暂领先于可 Poll 的元素数
func (q *Mpsc) Len() int {
	return int(q.length.Load())
}
