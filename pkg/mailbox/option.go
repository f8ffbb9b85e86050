package mailbox

import (
	"time"

	"lpc/pkg/metrics"
	"lpc/pkg/queue"
	"lpc/pkg/threadmgr"
)

// Option 邮箱选项
type Option func(*Mailbox)

// WithCapacity 最大队列长度，0 表示无界
func WithCapacity(capacity int) Option {
	return func(mb *Mailbox) {
		if capacity < 0 {
			capacity = 0
		}
		mb.capacity = capacity
	}
}

// WithAsync 为 true 时事件总是交给线程池处理，不在投递方协程上执行
func WithAsync(async bool) Option {
	return func(mb *Mailbox) {
		mb.async = async
	}
}

// WithEventQueue 替换底层事件队列
func WithEventQueue(q queue.EventQueue) Option {
	return func(mb *Mailbox) {
		if q != nil {
			mb.queue = q
		}
	}
}

// WithInvoker 设置事件执行器
func WithInvoker(invoker Invoker) Option {
	return func(mb *Mailbox) {
		if invoker != nil {
			mb.invoker = invoker
		}
	}
}

// WithThroughput 每处理 n 个事件让出一次 CPU，0 表示不让出
func WithThroughput(n int) Option {
	return func(mb *Mailbox) {
		if n < 0 {
			n = 0
		}
		mb.throughput = n
	}
}

// WithName 邮箱名，用于日志
func WithName(name string) Option {
	return func(mb *Mailbox) {
		if name != "" {
			mb.name = name
		}
	}
}

// FactoryOption 工厂选项
type FactoryOption func(*Factory)

// WithMailboxMetrics 工厂创建的所有邮箱共用的指标
func WithMailboxMetrics(m metrics.MailboxMetrics) FactoryOption {
	return func(f *Factory) {
		if m != nil {
			f.metrics = m
		}
	}
}

// WithThroughputDefault 工厂创建邮箱时的默认 throughput
func WithThroughputDefault(n int) FactoryOption {
	return func(f *Factory) {
		if n > 0 {
			f.throughput = n
		}
	}
}

// WithTimerTick 延迟投递时间轮的刻度
func WithTimerTick(tick time.Duration) FactoryOption {
	return func(f *Factory) {
		if tick > 0 {
			f.tick = tick
		}
	}
}

// WithTimerWheelSize 延迟投递时间轮的槽数
func WithTimerWheelSize(size int64) FactoryOption {
	return func(f *Factory) {
		if size > 0 {
			f.wheelSize = size
		}
	}
}

// WithThreadOptions 仅对 NewFactoryWithThreads 生效，透传给线程池
func WithThreadOptions(opts ...threadmgr.Option) FactoryOption {
	return func(f *Factory) {
		f.threadOpts = append(f.threadOpts, opts...)
	}
}
