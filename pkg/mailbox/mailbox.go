// Package mailbox 带本地调用优化的邮箱
//
// 同步邮箱空闲时，投递方协程直接排空队列（本地调用），不经过线程池；
// 邮箱正忙或为异步邮箱时，事件入队，必要时提交一个排空任务给线程池。
// 任一时刻最多只有一个协程在排空同一个邮箱，事件严格按到达顺序执行。
package mailbox

import (
	"runtime"
	"sync"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"lpc/internal/errs"
	"lpc/pkg/glog"
	"lpc/pkg/metrics"
	"lpc/pkg/queue"
	"lpc/pkg/threadmgr"
)

type Mailbox struct {
	id         uint64
	name       string
	factory    *Factory
	queue      queue.EventQueue
	capacity   int
	async      bool
	throughput int
	invoker    Invoker
	metrics    metrics.MailboxMetrics

	// mu 同时保护 queue、busy、owner、closed：
	// 入队与抢占排空权、判空与释放排空权必须各自在同一临界区内完成
	mu     sync.Mutex
	busy   bool
	owner  int64 // 正在排空的协程 id
	closed bool
}

// Post 投递事件
//
// 容量已满返回 ErrCapacityExceeded，已关闭返回 ErrMailboxClosed，均不阻塞。
// 同步邮箱空闲时在当前协程上排空后返回；异步邮箱提交给线程池失败时返回该错误，
// 事件不入队，不会被执行。返回 nil 的事件都会被执行恰好一次。
func (mb *Mailbox) Post(event interface{}) error {
	if event == nil {
		return errs.ErrEventIsNil
	}
	self := threadmgr.GoroutineID()

	mb.mu.Lock()
	if mb.closed {
		mb.mu.Unlock()
		mb.metrics.EventRejected(metrics.RejectClosed)
		return errors.Wrapf(errs.ErrMailboxClosed, "mailbox %s", mb.name)
	}
	if mb.capacity > 0 && mb.queue.Len() >= mb.capacity {
		mb.mu.Unlock()
		mb.metrics.EventRejected(metrics.RejectCapacity)
		return errors.Wrapf(errs.ErrCapacityExceeded, "mailbox %s capacity %d", mb.name, mb.capacity)
	}
	mb.queue.Put(event)

	if mb.busy {
		// 正在排空的协程回到判空时会取到它
		reentrant := mb.owner == self
		mb.mu.Unlock()
		if reentrant {
			mb.metrics.ReentrantPost()
		}
		mb.metrics.EventAccepted(metrics.DispatchQueued)
		return nil
	}
	mb.busy = true

	if mb.async {
		err := mb.dispatch()
		mb.mu.Unlock()
		if err != nil {
			mb.metrics.EventRejected(metrics.RejectDispatch)
			glog.Error("mailbox dispatch failed", zap.String("mailbox", mb.name), zap.Error(err))
			return errors.Wrapf(err, "mailbox %s dispatch", mb.name)
		}
		mb.metrics.EventAccepted(metrics.DispatchAsync)
		return nil
	}
	mb.owner = self
	mb.mu.Unlock()

	mb.metrics.EventAccepted(metrics.DispatchInline)
	mb.drain(metrics.DispatchInline)
	return nil
}

// dispatch 调用方持有 mu 并刚抢到排空权
// 提交成功之前其它投递方拿不到 mu，也就看不到 busy，不会把事件排在一个不存在的排空任务后面。
// 提交失败时邮箱原本空闲，队列里只有刚放入的事件，撤回它并释放排空权。
// ThreadManager.Process 不能在调用方协程上直接执行任务，否则 drain 会在 mu 上自锁。
func (mb *Mailbox) dispatch() error {
	err := mb.factory.manager.Process(func() {
		mb.drain(metrics.DispatchAsync)
	})
	if err != nil {
		mb.queue.Poll()
		mb.busy = false
	}
	return err
}

// drain 循环取队头执行，直到观察到队列为空
// 判空与清除 busy 在同一临界区，避免丢失并发投递的事件
func (mb *Mailbox) drain(dispatch string) {
	timer := mb.metrics.DrainDuration(dispatch)
	defer timer.ObserveDuration()

	self := threadmgr.GoroutineID()
	processed := 0
	for {
		mb.mu.Lock()
		event, ok := mb.queue.Poll()
		if !ok {
			mb.busy = false
			mb.owner = 0
			mb.mu.Unlock()
			return
		}
		mb.owner = self
		mb.mu.Unlock()

		mb.invoke(event)

		processed++
		if mb.throughput > 0 && processed%mb.throughput == 0 {
			runtime.Gosched()
		}
	}
}

// invoke 执行单个事件，错误和 panic 只记录，不影响后续事件
func (mb *Mailbox) invoke(event interface{}) {
	var err error
	if perr := threadmgr.Try(func() { err = mb.invoker.Invoke(event) }); perr != nil {
		err = perr
	}
	mb.metrics.EventProcessed(err == nil)
	if err == nil {
		return
	}

	fields := []zap.Field{zap.String("mailbox", mb.name), zap.Error(err)}
	var pe *threadmgr.PanicError
	if errors.As(err, &pe) {
		fields = append(fields, zap.ByteString("stack", pe.Stack))
	}
	glog.Error("mailbox event failed", fields...)
}

// Close 之后 Post 返回 ErrMailboxClosed，已入队的事件照常执行
func (mb *Mailbox) Close() {
	mb.mu.Lock()
	mb.closed = true
	mb.mu.Unlock()
}

// Factory 创建该邮箱的工厂
func (mb *Mailbox) Factory() *Factory {
	return mb.factory
}

func (mb *Mailbox) ID() uint64 {
	return mb.id
}

func (mb *Mailbox) Name() string {
	return mb.name
}

func (mb *Mailbox) Capacity() int {
	return mb.capacity
}

func (mb *Mailbox) IsAsync() bool {
	return mb.async
}

// Len 尚未取出的事件数
func (mb *Mailbox) Len() int {
	mb.mu.Lock()
	defer mb.mu.Unlock()
	return mb.queue.Len()
}

func (mb *Mailbox) IsEmpty() bool {
	mb.mu.Lock()
	defer mb.mu.Unlock()
	return mb.queue.IsEmpty()
}

// IsBusy 是否有协程正在排空（或已提交排空任务）
func (mb *Mailbox) IsBusy() bool {
	mb.mu.Lock()
	defer mb.mu.Unlock()
	return mb.busy
}

// IsDrainingOnCaller 当前协程是否正在排空该邮箱
func (mb *Mailbox) IsDrainingOnCaller() bool {
	self := threadmgr.GoroutineID()
	mb.mu.Lock()
	defer mb.mu.Unlock()
	return mb.busy && mb.owner == self
}

func (mb *Mailbox) IsClosed() bool {
	mb.mu.Lock()
	defer mb.mu.Unlock()
	return mb.closed
}
