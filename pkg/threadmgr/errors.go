package threadmgr

import "lpc/internal/errs"

var (
	ErrPoolClosed         = errs.ErrPoolClosed
	ErrTaskIsNil          = errs.ErrTaskIsNil
	ErrInvalidThreadCount = errs.ErrInvalidThreadCount
)
