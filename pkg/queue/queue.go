// Package queue 单向事件传输：邮箱组合这里的队列而不自己管理存储
package queue

// EventQueue 先进先出的事件队列
//
// 实现本身不要求线程安全，Mailbox 在自己的锁内调用这些方法。
type EventQueue interface {
	// Put 追加事件到队尾
	Put(event interface{})
	// Poll 取出队头事件，队列为空时返回 false
	Poll() (interface{}, bool)
	// IsEmpty 队列是否为空
	IsEmpty() bool
	// Len 当前队列长度
	Len() int
}
