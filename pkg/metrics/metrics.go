// Package metrics 线程池与邮箱的指标接口
//
// 核心包只依赖这里的接口，Prometheus 实现见 prometheus.go，未配置时使用 Nop。
package metrics

// 事件被接收后的分发方式
const (
	DispatchInline = "inline" // 在投递方协程上同步排空
	DispatchAsync  = "async"  // 交给线程池
	DispatchQueued = "queued" // 邮箱正忙，只入队
)

// 事件被拒绝的原因
const (
	RejectCapacity = "capacity"
	RejectClosed   = "closed"
	RejectDispatch = "dispatch"
)

// Timer 记录一次操作的耗时，操作结束时调用 ObserveDuration
type Timer interface {
	ObserveDuration()
}

// PoolMetrics 线程池指标
type PoolMetrics interface {
	TaskQueued()
	TaskRejected()
	TaskCompleted(success bool)
	TaskDuration() Timer
	PendingTasks(n int)
}

// MailboxMetrics 邮箱指标
type MailboxMetrics interface {
	EventAccepted(dispatch string)
	EventRejected(reason string)
	EventProcessed(success bool)
	ReentrantPost()
	DrainDuration(dispatch string) Timer
}
