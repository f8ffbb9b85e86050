package mailbox

import "lpc/internal/errs"

var (
	ErrCapacityExceeded = errs.ErrCapacityExceeded
	ErrMailboxClosed    = errs.ErrMailboxClosed
	ErrEventIsNil       = errs.ErrEventIsNil
	ErrUnsupportedEvent = errs.ErrUnsupportedEvent
	ErrPoolClosed       = errs.ErrPoolClosed
)
