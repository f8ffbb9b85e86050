// Package component 生命周期管理：按注册顺序启动，逆序停止
package component

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"lpc/internal/errs"
	"lpc/pkg/glog"
)

// Component 需要管理生命周期的组件
type Component interface {
	// Start 启动组件
	Start(ctx context.Context) error
	// Stop 停止组件，ctx 用于控制超时
	Stop(ctx context.Context) error
	// Name 用于日志和错误报告
	Name() string
}

// Manager 生命周期管理器
type Manager struct {
	components []Component
	mu         sync.RWMutex
	started    bool
	stopped    bool
	stopOnce   sync.Once
}

func New() *Manager {
	return &Manager{
		components: make([]Component, 0),
	}
}

// Register 注册组件，启动后不能再注册
func (m *Manager) Register(component Component) error {
	if component == nil {
		return errs.ErrComponentIsNil
	}
	if component.Name() == "" {
		return errs.ErrComponentNameEmpty
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.started {
		return errs.ErrRegisterAfterStarted
	}
	for _, c := range m.components {
		if c.Name() == component.Name() {
			return errs.ErrComponentAlreadyRegistered(component.Name())
		}
	}

	m.components = append(m.components, component)
	glog.Debug("component registered", zap.String("component", component.Name()))
	return nil
}

// Start 按注册顺序启动，某个组件失败时逆序回滚已启动的组件
func (m *Manager) Start(ctx context.Context) error {
	m.mu.Lock()
	if m.started {
		m.mu.Unlock()
		return errs.ErrManagerAlreadyStarted
	}
	if m.stopped {
		m.mu.Unlock()
		return errs.ErrManagerStoppedCannotRestart
	}
	components := make([]Component, len(m.components))
	copy(components, m.components)
	m.mu.Unlock()

	glog.Info("component starting", zap.Int("count", len(components)))

	var started []Component
	for i, component := range components {
		glog.Info("component starting", zap.String("component", component.Name()),
			zap.Int("current", i+1), zap.Int("total", len(components)))

		if err := component.Start(ctx); err != nil {
			glog.Error("component start failed", zap.String("component", component.Name()), zap.Error(err))
			rollbackErr := m.stopComponents(ctx, started, true)
			return multierr.Append(errors.Wrapf(err, "start component '%s'", component.Name()), rollbackErr)
		}
		started = append(started, component)
	}

	m.mu.Lock()
	m.started = true
	m.mu.Unlock()

	glog.Info("component all started", zap.Int("count", len(components)))
	return nil
}

// Stop 逆序停止所有组件，只生效一次
// 单个组件失败不会中断其它组件的停止，所有错误合并返回
func (m *Manager) Stop(ctx context.Context) error {
	var err error
	m.stopOnce.Do(func() {
		m.mu.Lock()
		if !m.started || m.stopped {
			m.mu.Unlock()
			return
		}
		m.stopped = true
		components := make([]Component, len(m.components))
		copy(components, m.components)
		m.mu.Unlock()

		glog.Info("component stopping", zap.Int("count", len(components)))
		err = m.stopComponents(ctx, components, false)
	})
	return err
}

func (m *Manager) stopComponents(ctx context.Context, components []Component, isRollback bool) error {
	action := "stopping"
	if isRollback {
		action = "rolling back"
	}

	var err error
	for i := len(components) - 1; i >= 0; i-- {
		component := components[i]
		glog.Info("component stop", zap.String("action", action), zap.String("component", component.Name()))

		if stopErr := component.Stop(ctx); stopErr != nil {
			glog.Error("component stop failed", zap.String("component", component.Name()), zap.Error(stopErr))
			err = multierr.Append(err, errors.Wrapf(stopErr, "stop component '%s'", component.Name()))
		}
	}

	if !isRollback {
		glog.Info("component all stopped")
	}
	return err
}

// StopWithTimeout 使用超时停止所有组件
func (m *Manager) StopWithTimeout(timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	return m.Stop(ctx)
}

func (m *Manager) IsStarted() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.started
}

func (m *Manager) IsStopped() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.stopped
}

// ComponentCount 已注册的组件数量
func (m *Manager) ComponentCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.components)
}

// GetComponentNames 按注册顺序返回组件名
func (m *Manager) GetComponentNames() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, len(m.components))
	for i, c := range m.components {
		names[i] = c.Name()
	}
	return names
}
