package threadmgr

import (
	"sync/atomic"
	"time"

	"github.com/duke-git/lancet/v2/convertor"
	"github.com/panjf2000/ants/v2"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"lpc/pkg/glog"
)

// DefaultThreadName 默认线程名前缀
const DefaultThreadName = "lpc-thread"

const antsReleaseTimeout = 3 * time.Second

// ThreadFactory 创建并启动工作线程
type ThreadFactory interface {
	// NewThread 启动一个运行 run 的线程并返回其句柄
	NewThread(run func()) (*Thread, error)
	// Release 释放工厂持有的资源，所有线程退出后由 Manager 调用
	Release() error
}

type namer struct {
	base string
	seq  atomic.Int64
}

func (n *namer) next() string {
	return n.base + "-" + convertor.ToString(n.seq.Add(1))
}

func baseName(base string) string {
	if base == "" {
		return DefaultThreadName
	}
	return base
}

// GoThreadFactory 每个线程一个独立协程
type GoThreadFactory struct {
	namer
}

var _ ThreadFactory = (*GoThreadFactory)(nil)

func NewGoThreadFactory(base string) *GoThreadFactory {
	f := &GoThreadFactory{}
	f.base = baseName(base)
	return f
}

func (f *GoThreadFactory) NewThread(run func()) (*Thread, error) {
	t := newThread(f.next())
	go t.body(run)()
	return t, nil
}

func (f *GoThreadFactory) Release() error {
	return nil
}

// AntsThreadFactory 线程由预分配的 ants 协程池承载，池大小即线程上限
type AntsThreadFactory struct {
	namer
	pool *ants.Pool
}

var _ ThreadFactory = (*AntsThreadFactory)(nil)

func NewAntsThreadFactory(base string, size int) (*AntsThreadFactory, error) {
	pool, err := ants.NewPool(size,
		ants.WithPreAlloc(true),
		ants.WithNonblocking(true),
		ants.WithDisablePurge(true),
		ants.WithPanicHandler(func(r interface{}) {
			glog.Error("ants thread panic", zap.Any("panic", r))
		}),
	)
	if err != nil {
		return nil, errors.Wrapf(err, "create ants pool size=%d", size)
	}
	f := &AntsThreadFactory{pool: pool}
	f.base = baseName(base)
	return f, nil
}

func (f *AntsThreadFactory) NewThread(run func()) (*Thread, error) {
	t := newThread(f.next())
	if err := f.pool.Submit(t.body(run)); err != nil {
		return nil, errors.Wrapf(err, "start thread %s", t.name)
	}
	return t, nil
}

// Release 关闭 ants 池；若调用方本身运行在池内则不等待
func (f *AntsThreadFactory) Release() error {
	if f.pool.Running() > 0 {
		f.pool.Release()
		return nil
	}
	return f.pool.ReleaseTimeout(antsReleaseTimeout)
}

// Running 池中正在运行的协程数
func (f *AntsThreadFactory) Running() int {
	return f.pool.Running()
}
