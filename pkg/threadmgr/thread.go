package threadmgr

import (
	"context"
	"runtime/pprof"
	"sync/atomic"

	"github.com/petermattis/goid"
)

// GoroutineID 返回当前协程 id，用于识别“当前线程”
func GoroutineID() int64 {
	return goid.Get()
}

// Thread 工作协程句柄，可 Join
type Thread struct {
	name string
	id   atomic.Int64
	done chan struct{}
}

func newThread(name string) *Thread {
	return &Thread{
		name: name,
		done: make(chan struct{}),
	}
}

// Name 线程名，同时作为 pprof 标签 thread=<name>
func (t *Thread) Name() string {
	return t.name
}

// ID 运行该线程的协程 id，协程尚未开始运行时为 0
func (t *Thread) ID() int64 {
	return t.id.Load()
}

// Done 线程退出后关闭
func (t *Thread) Done() <-chan struct{} {
	return t.done
}

// Join 阻塞直到线程退出
func (t *Thread) Join() {
	<-t.done
}

// Alive 线程是否仍在运行（或尚未开始）
func (t *Thread) Alive() bool {
	select {
	case <-t.done:
		return false
	default:
		return true
	}
}

// body 包装 run：绑定协程 id、打 pprof 标签，退出时关闭 done
func (t *Thread) body(run func()) func() {
	return func() {
		t.id.Store(goid.Get())
		defer close(t.done)
		pprof.Do(context.Background(), pprof.Labels("thread", t.name), func(context.Context) {
			run()
		})
	}
}
