package mailbox

import (
	"github.com/pkg/errors"

	"lpc/internal/errs"
)

// Invoker 执行从邮箱取出的事件
type Invoker interface {
	Invoke(event interface{}) error
}

// InvokerFunc 函数形式的 Invoker
type InvokerFunc func(event interface{}) error

func (f InvokerFunc) Invoke(event interface{}) error {
	return f(event)
}

// Task 可直接投递的事件
type Task func() error

// Runnable 自带执行逻辑的事件
type Runnable interface {
	Run() error
}

// DefaultInvoker 执行 Task、func() error、func() 和 Runnable，其它类型返回 ErrUnsupportedEvent
var DefaultInvoker Invoker = InvokerFunc(invokeDefault)

func invokeDefault(event interface{}) error {
	switch e := event.(type) {
	case Task:
		return e()
	case func() error:
		return e()
	case func():
		e()
		return nil
	case Runnable:
		return e.Run()
	default:
		return errors.Wrapf(errs.ErrUnsupportedEvent, "%T", event)
	}
}
