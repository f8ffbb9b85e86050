// Package threadmgr 固定大小的工作线程池
//
// 所有线程共享一个任务队列，用计数信号唤醒：每入队一个任务释放一个许可，
// 线程先取得许可再取任务，因此队列长度永远不超过未消费的许可数。
package threadmgr

import (
	"sync"

	"github.com/eapache/queue"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/exp/slices"

	"lpc/internal/errs"
	"lpc/pkg/glog"
	"lpc/pkg/metrics"
)

// Task 交给线程池执行的任务
type Task func()

// ThreadManager 执行任务的线程池
type ThreadManager interface {
	// Process 提交任务，由某个空闲线程执行，不能在调用方协程上同步执行 task
	Process(task Task) error
	// Close 停止所有线程，返回前等待除调用方自身以外的线程退出
	Close() error
}

var _ ThreadManager = (*Manager)(nil)

// Manager 固定线程数的 ThreadManager
type Manager struct {
	mu      sync.Mutex
	wake    *sync.Cond
	tasks   *queue.Queue
	permits int
	closing bool

	threads []*Thread
	factory ThreadFactory
	metrics metrics.PoolMetrics

	releaseOnce sync.Once
	releaseErr  error
}

// New 创建并启动 threadCount 个线程，线程名前缀为 DefaultThreadName
func New(threadCount int, opts ...Option) (*Manager, error) {
	return NewManager(threadCount, NewGoThreadFactory(DefaultThreadName), opts...)
}

// NewNamed 创建并启动 threadCount 个线程，线程名前缀为 baseThreadName
func NewNamed(threadCount int, baseThreadName string, opts ...Option) (*Manager, error) {
	return NewManager(threadCount, NewGoThreadFactory(baseThreadName), opts...)
}

// NewManager 用 factory 创建并启动 threadCount 个线程
// 所有线程启动后返回，不等待它们进入循环
func NewManager(threadCount int, factory ThreadFactory, opts ...Option) (*Manager, error) {
	if threadCount < 1 {
		return nil, errors.Wrapf(errs.ErrInvalidThreadCount, "got %d", threadCount)
	}
	if factory == nil {
		return nil, errs.ErrThreadFactoryIsNil
	}
	m := &Manager{
		tasks:   queue.New(),
		factory: factory,
		metrics: metrics.NopPool(),
		threads: make([]*Thread, 0, threadCount),
	}
	m.wake = sync.NewCond(&m.mu)
	for _, opt := range opts {
		opt(m)
	}

	for i := 0; i < threadCount; i++ {
		t, err := factory.NewThread(m.work)
		if err != nil {
			// 已启动的线程需要收回
			_ = m.Close()
			return nil, errors.Wrap(err, "start thread manager")
		}
		m.threads = append(m.threads, t)
	}
	glog.Debug("thread manager started", zap.Int("threads", threadCount))
	return m, nil
}

func (m *Manager) work() {
	for {
		task, ok := m.acquire()
		if !ok {
			return
		}
		m.run(task)
	}
}

// acquire 取得一个许可后取队头任务
// 关闭后每个线程各分到一个多余的许可，队列排空时拿到它就退出
func (m *Manager) acquire() (Task, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for m.permits == 0 {
		m.wake.Wait()
	}
	m.permits--
	if m.tasks.Length() == 0 {
		return nil, false
	}
	task := m.tasks.Remove().(Task)
	m.metrics.PendingTasks(m.tasks.Length())
	return task, true
}

func (m *Manager) run(task Task) {
	timer := m.metrics.TaskDuration()
	err := Try(task)
	timer.ObserveDuration()
	m.metrics.TaskCompleted(err == nil)
	if err == nil {
		return
	}
	fields := []zap.Field{zap.Error(err)}
	if t := m.Current(); t != nil {
		fields = append(fields, zap.String("thread", t.Name()))
	}
	var pe *PanicError
	if errors.As(err, &pe) {
		fields = append(fields, zap.ByteString("stack", pe.Stack))
	}
	glog.Error("thread manager task failed", fields...)
}

// Process 入队并唤醒一个空闲线程
// 关闭后提交的任务不会被执行，返回 ErrPoolClosed
func (m *Manager) Process(task Task) error {
	if task == nil {
		return errs.ErrTaskIsNil
	}
	m.mu.Lock()
	if m.closing {
		m.mu.Unlock()
		m.metrics.TaskRejected()
		glog.Warn("task submitted after thread manager close is dropped")
		return errs.ErrPoolClosed
	}
	m.tasks.Add(task)
	m.permits++
	pending := m.tasks.Length()
	m.mu.Unlock()

	m.wake.Signal()
	m.metrics.TaskQueued()
	m.metrics.PendingTasks(pending)
	return nil
}

// Close 设置关闭标记，为每个线程释放一个许可，然后等待除自身外的线程退出
// 已入队的任务会先执行完。可重复调用。
func (m *Manager) Close() error {
	m.mu.Lock()
	if !m.closing {
		m.closing = true
		m.permits += len(m.threads)
		m.wake.Broadcast()
	}
	threads := m.threads
	m.mu.Unlock()

	self := GoroutineID()
	for _, t := range threads {
		if t.ID() == self {
			continue
		}
		t.Join()
	}

	m.releaseOnce.Do(func() {
		m.releaseErr = m.factory.Release()
		glog.Debug("thread manager closed", zap.Int("threads", len(threads)))
	})
	return m.releaseErr
}

// Threads 返回线程句柄，创建后不再变化
func (m *Manager) Threads() []*Thread {
	out := make([]*Thread, len(m.threads))
	copy(out, m.threads)
	return out
}

// ThreadCount 线程数
func (m *Manager) ThreadCount() int {
	return len(m.threads)
}

// Current 当前协程对应的线程句柄，不在池内时返回 nil
func (m *Manager) Current() *Thread {
	id := GoroutineID()
	if i := slices.IndexFunc(m.threads, func(t *Thread) bool { return t.ID() == id }); i >= 0 {
		return m.threads[i]
	}
	return nil
}

// Pending 已入队尚未被领取的任务数
func (m *Manager) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tasks.Length()
}

// IsClosed 是否已调用 Close
func (m *Manager) IsClosed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closing
}
