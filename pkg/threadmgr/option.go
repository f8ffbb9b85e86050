package threadmgr

import "lpc/pkg/metrics"

type Option func(*Manager)

// WithMetrics 设置线程池指标
func WithMetrics(m metrics.PoolMetrics) Option {
	return func(mgr *Manager) {
		if m != nil {
			mgr.metrics = m
		}
	}
}
