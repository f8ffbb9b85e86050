// Package errs 运行时错误定义，调用方用 errors.Is 判断
package errs

import (
	"errors"
	"fmt"
)

// ========== 线程池相关错误 ==========

var (
	// ErrPoolClosed 线程池已关闭，之后提交的任务不会被执行
	ErrPoolClosed = errors.New("thread manager is closed")
	// ErrTaskIsNil 任务为空
	ErrTaskIsNil = errors.New("task is nil")
	// ErrInvalidThreadCount 线程数必须 >= 1
	ErrInvalidThreadCount = errors.New("thread count must be at least 1")
	// ErrThreadFactoryIsNil 线程工厂为空
	ErrThreadFactoryIsNil = errors.New("thread factory is nil")
)

// ========== Mailbox 相关错误 ==========

var (
	// ErrCapacityExceeded 有界邮箱已满，调用方自行决定重试、丢弃或退避
	ErrCapacityExceeded = errors.New("mailbox capacity exceeded")
	// ErrMailboxClosed 邮箱已关闭
	ErrMailboxClosed = errors.New("mailbox is closed")
	// ErrEventIsNil 事件为空
	ErrEventIsNil = errors.New("event is nil")
	// ErrUnsupportedEvent 默认 invoker 无法执行的事件类型
	ErrUnsupportedEvent = errors.New("unsupported event type")
	// ErrThreadManagerIsNil 工厂缺少线程池
	ErrThreadManagerIsNil = errors.New("thread manager is nil")
)

// ========== Component 相关错误 ==========

var (
	ErrComponentIsNil              = errors.New("component cannot be nil")
	ErrComponentNameEmpty          = errors.New("component name cannot be empty")
	ErrRegisterAfterStarted        = errors.New("cannot register component after manager has started")
	ErrManagerAlreadyStarted       = errors.New("manager has already been started")
	ErrManagerStoppedCannotRestart = errors.New("manager has been stopped and cannot be restarted")
)

func ErrComponentAlreadyRegistered(name string) error {
	return fmt.Errorf("component with name '%s' already registered", name)
}

// ========== Config 相关错误 ==========

var (
	// ErrInvalidConfig 配置校验失败
	ErrInvalidConfig = errors.New("invalid config")
)
