package glog

import (
	"io"

	"go.uber.org/zap"
)

type Option func(*options)

type options struct {
	writers   []io.Writer
	zapOption []zap.Option
}

func loadOptions(opts ...Option) *options {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithWriter 额外输出到 w（JSON 编码），常用于测试中捕获日志
func WithWriter(w io.Writer) Option {
	return func(o *options) {
		if w != nil {
			o.writers = append(o.writers, w)
		}
	}
}

// WithZapOptions 追加 zap.Option
func WithZapOptions(opts ...zap.Option) Option {
	return func(o *options) {
		o.zapOption = append(o.zapOption, opts...)
	}
}
