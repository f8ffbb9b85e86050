// Package glog 全局日志，基于 zap，文件输出经 lumberjack 切割
package glog

import (
	"os"
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	loggerValue atomic.Pointer[zap.Logger]
	atomicLevel = zap.NewAtomicLevel()
)

func init() {
	Init(DefaultConfig())
}

func encoderConfig() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		MessageKey:     "M",
		LevelKey:       "L",
		TimeKey:        "T",
		CallerKey:      "C",
		NameKey:        "N",
		StacktraceKey:  "S",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.TimeEncoderOfLayout("2006/01/02 15:04:05.000000Z0700"),
		EncodeDuration: zapcore.SecondsDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}
}

// Init 初始化全局 logger
// cfg 为 nil 时保持当前 logger 不变
func Init(cfg *Config, opts ...Option) {
	if cfg == nil {
		return
	}
	o := loadOptions(opts...)
	atomicLevel.SetLevel(ParseLevel(cfg.Level))
	encCfg := encoderConfig()

	cores := make([]zapcore.Core, 0, 2+len(o.writers))
	if cfg.Path != "" {
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), zapcore.AddSync(newWriter(cfg.Path, cfg.File)), atomicLevel))
	}
	if cfg.PrintConsole {
		cores = append(cores, zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.Lock(os.Stdout), atomicLevel))
	}
	for _, w := range o.writers {
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), zapcore.AddSync(w), atomicLevel))
	}

	zapOpts := []zap.Option{
		zap.AddCaller(),
		zap.AddStacktrace(zap.ErrorLevel),
		zap.AddCallerSkip(1),
	}
	zapOpts = append(zapOpts, o.zapOption...)
	logger := zap.New(zapcore.NewTee(cores...), zapOpts...)

	loggerValue.Store(logger)
}

// Stop 同步所有缓冲的日志
func Stop() {
	if l := loggerValue.Load(); l != nil {
		_ = l.Sync()
	}
}

// SetLogLevel 设置日志级别
func SetLogLevel(logLevel zapcore.Level) {
	atomicLevel.SetLevel(logLevel)
}

// GetLevel 获取当前日志级别
func GetLevel() zapcore.Level {
	return atomicLevel.Level()
}

func Debug(msg string, fields ...zap.Field) {
	if l := loggerValue.Load(); l != nil {
		l.Debug(msg, fields...)
	}
}

func Info(msg string, fields ...zap.Field) {
	if l := loggerValue.Load(); l != nil {
		l.Info(msg, fields...)
	}
}

func Warn(msg string, fields ...zap.Field) {
	if l := loggerValue.Load(); l != nil {
		l.Warn(msg, fields...)
	}
}

func Error(msg string, fields ...zap.Field) {
	if l := loggerValue.Load(); l != nil {
		l.Error(msg, fields...)
	}
}
