package lpc

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"lpc/internal/config"
	"lpc/pkg/glog"
	"lpc/pkg/mailbox"
	"lpc/pkg/metrics"
	"lpc/pkg/threadmgr"
)

// glogComponent 按配置初始化全局日志
type glogComponent struct {
	name    string
	runtime *Runtime
}

func newGlogComponent(name string, runtime *Runtime) *glogComponent {
	return &glogComponent{name: name, runtime: runtime}
}

func (g *glogComponent) Name() string {
	return g.name
}

func (g *glogComponent) Start(ctx context.Context) error {
	cfg := g.runtime.config
	glog.Init(&cfg.Glog, glog.WithZapOptions(zap.Fields(
		zap.String("pool", cfg.Pool.BaseThreadName),
	)))
	return nil
}

func (g *glogComponent) Stop(ctx context.Context) error {
	glog.Stop()
	return nil
}

// mailboxComponent 创建线程池和邮箱工厂，停止时关闭工厂
type mailboxComponent struct {
	name    string
	runtime *Runtime
}

func newMailboxComponent(name string, runtime *Runtime) *mailboxComponent {
	return &mailboxComponent{name: name, runtime: runtime}
}

func (m *mailboxComponent) Name() string {
	return m.name
}

func (m *mailboxComponent) Start(ctx context.Context) error {
	cfg := m.runtime.config

	var threadOpts []threadmgr.Option
	factoryOpts := []mailbox.FactoryOption{
		mailbox.WithThroughputDefault(cfg.Mailbox.Throughput),
		mailbox.WithTimerTick(cfg.Timer.Tick),
		mailbox.WithTimerWheelSize(cfg.Timer.WheelSize),
	}
	if cfg.Metrics.Enabled && m.runtime.registry != nil {
		threadOpts = append(threadOpts, threadmgr.WithMetrics(metrics.NewPoolMetrics(m.runtime.registry, cfg.Metrics.Namespace)))
		factoryOpts = append(factoryOpts, mailbox.WithMailboxMetrics(metrics.NewMailboxMetrics(m.runtime.registry, cfg.Metrics.Namespace)))
	}

	manager, err := newThreadManager(cfg, threadOpts...)
	if err != nil {
		return err
	}
	factory, err := mailbox.NewFactory(manager, cfg.Mailbox.Capacity, factoryOpts...)
	if err != nil {
		_ = manager.Close()
		return err
	}
	m.runtime.setFactory(factory)
	return nil
}

func (m *mailboxComponent) Stop(ctx context.Context) error {
	factory := m.runtime.Factory()
	if factory == nil {
		return nil
	}
	return factory.Close()
}

func newThreadManager(cfg *config.Config, opts ...threadmgr.Option) (*threadmgr.Manager, error) {
	switch cfg.Pool.Factory {
	case config.FactoryAnts:
		tf, err := threadmgr.NewAntsThreadFactory(cfg.Pool.BaseThreadName, cfg.Pool.Threads)
		if err != nil {
			return nil, err
		}
		return threadmgr.NewManager(cfg.Pool.Threads, tf, opts...)
	case "", config.FactoryGoroutine:
		return threadmgr.NewNamed(cfg.Pool.Threads, cfg.Pool.BaseThreadName, opts...)
	default:
		return nil, errors.Errorf("unknown thread factory %q", cfg.Pool.Factory)
	}
}
