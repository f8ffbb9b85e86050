package mailbox

import (
	"time"

	"github.com/RussellLuo/timingwheel"
	"go.uber.org/zap"

	"lpc/internal/errs"
	"lpc/pkg/glog"
)

// Timer 延迟投递句柄
type Timer struct {
	t *timingwheel.Timer
}

// Stop 取消尚未到期的投递，已到期或已取消时返回 false
func (t *Timer) Stop() bool {
	return t.t.Stop()
}

// PostAfter 在 d 之后把 event 投递到邮箱
// 到期时的投递错误（容量满、已关闭）只记录日志
func (mb *Mailbox) PostAfter(d time.Duration, event interface{}) (*Timer, error) {
	if event == nil {
		return nil, errs.ErrEventIsNil
	}
	if mb.IsClosed() {
		return nil, errs.ErrMailboxClosed
	}
	t, err := mb.factory.afterFunc(d, func() {
		if err := mb.Post(event); err != nil {
			glog.Warn("mailbox delayed post failed", zap.String("mailbox", mb.name), zap.Error(err))
		}
	})
	if err != nil {
		return nil, err
	}
	return &Timer{t: t}, nil
}
