package threadmgr

import (
	"fmt"
	"runtime/debug"
)

// PanicError 任务 panic 时由 Try 返回
type PanicError struct {
	Value interface{}
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

// Unwrap 当 panic 值本身是 error 时可继续 errors.Is/As
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

// Try 执行 fn，捕获 panic 并转为 *PanicError，避免单个任务拖垮执行它的协程
func Try(fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{Value: r, Stack: debug.Stack()}
		}
	}()
	fn()
	return nil
}
