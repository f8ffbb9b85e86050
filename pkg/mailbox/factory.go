package mailbox

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/RussellLuo/timingwheel"
	"github.com/duke-git/lancet/v2/convertor"
	"github.com/pkg/errors"

	"lpc/internal/errs"
	"lpc/pkg/metrics"
	"lpc/pkg/queue"
	"lpc/pkg/threadmgr"
)

const (
	defaultTimerTick      = 10 * time.Millisecond
	defaultTimerWheelSize = 3600
)

// Factory 创建绑定到同一个线程池的邮箱
//
// 一个进程通常只有一个 Factory，由持有运行时的一方显式创建并负责 Close。
type Factory struct {
	manager    threadmgr.ThreadManager
	capacity   int
	throughput int
	metrics    metrics.MailboxMetrics
	threadOpts []threadmgr.Option

	seq    atomic.Uint64
	closed atomic.Bool

	tick      time.Duration
	wheelSize int64
	timerMu   sync.Mutex
	timers    *timingwheel.TimingWheel
}

// NewFactory 基于已有线程池创建工厂，capacity 为邮箱默认容量（0 表示无界）
func NewFactory(manager threadmgr.ThreadManager, capacity int, opts ...FactoryOption) (*Factory, error) {
	if manager == nil {
		return nil, errs.ErrThreadManagerIsNil
	}
	f := newFactory(capacity, opts...)
	if f.capacity < 0 {
		return nil, errors.Wrapf(errs.ErrInvalidConfig, "mailbox capacity %d", capacity)
	}
	f.manager = manager
	return f, nil
}

// NewFactoryWithThreads 创建 threadCount 个线程的线程池及其工厂
func NewFactoryWithThreads(threadCount, capacity int, opts ...FactoryOption) (*Factory, error) {
	f := newFactory(capacity, opts...)
	if f.capacity < 0 {
		return nil, errors.Wrapf(errs.ErrInvalidConfig, "mailbox capacity %d", capacity)
	}
	manager, err := threadmgr.New(threadCount, f.threadOpts...)
	if err != nil {
		return nil, err
	}
	f.manager = manager
	return f, nil
}

func newFactory(capacity int, opts ...FactoryOption) *Factory {
	f := &Factory{
		capacity:  capacity,
		metrics:   metrics.NopMailbox(),
		tick:      defaultTimerTick,
		wheelSize: defaultTimerWheelSize,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// ThreadManager 返回工厂使用的线程池
func (f *Factory) ThreadManager() threadmgr.ThreadManager {
	return f.manager
}

// MailboxSize 邮箱默认容量
func (f *Factory) MailboxSize() int {
	return f.capacity
}

// NewMailbox 按选项创建邮箱，默认同步、容量取工厂默认值
func (f *Factory) NewMailbox(opts ...Option) *Mailbox {
	id := f.seq.Add(1)
	mb := &Mailbox{
		id:         id,
		name:       "mailbox-" + convertor.ToString(id),
		factory:    f,
		queue:      queue.NewRing(),
		capacity:   f.capacity,
		throughput: f.throughput,
		invoker:    DefaultInvoker,
		metrics:    f.metrics,
	}
	for _, opt := range opts {
		opt(mb)
	}
	return mb
}

// CreateMailbox 默认容量的同步邮箱
func (f *Factory) CreateMailbox() *Mailbox {
	return f.NewMailbox()
}

// CreateMailboxSize 指定容量的同步邮箱
func (f *Factory) CreateMailboxSize(maxSize int) *Mailbox {
	return f.NewMailbox(WithCapacity(maxSize))
}

// CreateAsyncMailbox 无界的异步邮箱，不使用工厂默认容量
func (f *Factory) CreateAsyncMailbox() *Mailbox {
	return f.NewMailbox(WithAsync(true), WithCapacity(0))
}

// CreateAsyncMailboxSize 指定容量的异步邮箱
func (f *Factory) CreateAsyncMailboxSize(maxSize int) *Mailbox {
	return f.NewMailbox(WithAsync(true), WithCapacity(maxSize))
}

// IsClosed 是否已关闭
func (f *Factory) IsClosed() bool {
	return f.closed.Load()
}

// Close 停止时间轮并关闭线程池，阻塞到工作线程退出（调用方自身除外）
func (f *Factory) Close() error {
	if f.closed.CompareAndSwap(false, true) {
		f.timerMu.Lock()
		if f.timers != nil {
			f.timers.Stop()
		}
		f.timerMu.Unlock()
	}
	return errors.Wrap(f.manager.Close(), "close thread manager")
}

// afterFunc 时间轮按需启动
func (f *Factory) afterFunc(d time.Duration, fn func()) (*timingwheel.Timer, error) {
	f.timerMu.Lock()
	defer f.timerMu.Unlock()
	if f.closed.Load() {
		return nil, errs.ErrPoolClosed
	}
	if f.timers == nil {
		f.timers = timingwheel.NewTimingWheel(f.tick, f.wheelSize)
		f.timers.Start()
	}
	return f.timers.AfterFunc(d, fn), nil
}
