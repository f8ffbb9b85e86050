// Package lpc 组装线程池、邮箱工厂、日志和指标，作为一个可启停的运行时
package lpc

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"lpc/internal/config"
	"lpc/pkg/component"
	"lpc/pkg/glog"
	"lpc/pkg/mailbox"
)

type Config = config.Config

// DefaultConfig 默认配置
func DefaultConfig() *Config {
	return config.Default()
}

// LoadConfig 读取 YAML 配置文件
func LoadConfig(path string) (*Config, error) {
	return config.Load(path)
}

// Runtime 运行时
//
// 内置组件按 glog、mailbox 的顺序启动，之后是调用方传入的组件；停止时逆序。
// 调用方组件在 Start 中即可通过 Factory 创建邮箱。
type Runtime struct {
	config   *Config
	registry prometheus.Registerer

	mu      sync.RWMutex
	factory *mailbox.Factory

	componentManager *component.Manager
}

// New 从配置文件创建运行时
func New(path string, comps ...component.Component) (*Runtime, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, errors.Wrap(err, "load config failed")
	}
	return NewWithConfig(cfg, prometheus.DefaultRegisterer, comps...)
}

// NewWithConfig 用给定配置创建运行时，reg 为空时不注册指标
func NewWithConfig(cfg *Config, reg prometheus.Registerer, comps ...component.Component) (*Runtime, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	r := &Runtime{
		config:           cfg,
		registry:         reg,
		componentManager: component.New(),
	}

	components := []component.Component{
		newGlogComponent("glog", r),
		newMailboxComponent("mailbox", r),
	}
	components = append(components, comps...)
	for _, c := range components {
		if err := r.componentManager.Register(c); err != nil {
			return nil, errors.Wrapf(err, "register %s component failed", c.Name())
		}
	}
	return r, nil
}

// Startup 启动所有组件
func (r *Runtime) Startup(ctx context.Context) error {
	if err := r.componentManager.Start(ctx); err != nil {
		return errors.Wrap(err, "start components failed")
	}
	glog.Info("runtime started",
		zap.Int("threads", r.config.Pool.Threads),
		zap.String("factory", r.config.Pool.Factory),
		zap.Int("mailboxCapacity", r.config.Mailbox.Capacity))
	return nil
}

// Shutdown 逆序停止所有组件，线程池会先执行完已提交的任务
func (r *Runtime) Shutdown(ctx context.Context) error {
	return r.componentManager.Stop(ctx)
}

func (r *Runtime) Config() *Config {
	return r.config
}

// Factory 邮箱工厂，mailbox 组件启动前为 nil
func (r *Runtime) Factory() *mailbox.Factory {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.factory
}

func (r *Runtime) setFactory(f *mailbox.Factory) {
	r.mu.Lock()
	r.factory = f
	r.mu.Unlock()
}
