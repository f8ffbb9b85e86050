package metrics

import (
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"lpc/pkg/glog"
)

var defaultBuckets = []float64{.00001, .00005, .0001, .0005, .001, .005, .01, .05, .1, .5, 1}

type promTimer struct {
	t *prometheus.Timer
}

func (p promTimer) ObserveDuration() { p.t.ObserveDuration() }

func newTimer(o prometheus.Observer) Timer {
	return promTimer{t: prometheus.NewTimer(o)}
}

// register 同名指标已注册时复用已有的 collector，多个运行时可以共享同一个 Registerer
// 其它注册错误只记录日志，返回的 collector 仍可使用，只是不会被采集
func register[C prometheus.Collector](reg prometheus.Registerer, c C) C {
	err := reg.Register(c)
	if err == nil {
		return c
	}
	var are prometheus.AlreadyRegisteredError
	if errors.As(err, &are) {
		if existing, ok := are.ExistingCollector.(C); ok {
			return existing
		}
	}
	glog.Warn("metrics register failed", zap.Error(err))
	return c
}

func boolToStr(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

type poolMetrics struct {
	tasksQueued   prometheus.Counter
	tasksRejected prometheus.Counter
	tasksTotal    *prometheus.CounterVec
	taskDuration  prometheus.Histogram
	pending       prometheus.Gauge
}

// NewPoolMetrics 创建线程池的 Prometheus 指标并注册到 reg，reg 中已有同名指标时复用
func NewPoolMetrics(reg prometheus.Registerer, namespace string) PoolMetrics {
	m := &poolMetrics{
		tasksQueued: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pool_tasks_queued_total",
			Help:      "Total number of tasks submitted to the thread manager",
		}),
		tasksRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pool_tasks_rejected_total",
			Help:      "Total number of tasks rejected because the thread manager was closed",
		}),
		tasksTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pool_tasks_total",
			Help:      "Total number of tasks run by worker threads",
		}, []string{"success"}),
		taskDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "pool_task_duration_seconds",
			Help:      "Task run time in seconds",
			Buckets:   defaultBuckets,
		}),
		pending: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "pool_pending_tasks",
			Help:      "Tasks queued but not yet claimed by a worker",
		}),
	}
	m.tasksQueued = register(reg, m.tasksQueued)
	m.tasksRejected = register(reg, m.tasksRejected)
	m.tasksTotal = register(reg, m.tasksTotal)
	m.taskDuration = register(reg, m.taskDuration)
	m.pending = register(reg, m.pending)
	return m
}

func (m *poolMetrics) TaskQueued()   { m.tasksQueued.Inc() }
func (m *poolMetrics) TaskRejected() { m.tasksRejected.Inc() }

func (m *poolMetrics) TaskCompleted(success bool) {
	m.tasksTotal.WithLabelValues(boolToStr(success)).Inc()
}

func (m *poolMetrics) TaskDuration() Timer {
	return newTimer(m.taskDuration)
}

func (m *poolMetrics) PendingTasks(n int) { m.pending.Set(float64(n)) }

type mailboxMetrics struct {
	accepted  *prometheus.CounterVec
	rejected  *prometheus.CounterVec
	processed *prometheus.CounterVec
	reentrant prometheus.Counter
	drain     *prometheus.HistogramVec
}

// NewMailboxMetrics 创建邮箱的 Prometheus 指标并注册到 reg，reg 中已有同名指标时复用
func NewMailboxMetrics(reg prometheus.Registerer, namespace string) MailboxMetrics {
	m := &mailboxMetrics{
		accepted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "mailbox_events_accepted_total",
			Help:      "Events accepted by mailboxes, by dispatch mode",
		}, []string{"dispatch"}),
		rejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "mailbox_events_rejected_total",
			Help:      "Events rejected by mailboxes, by reason",
		}, []string{"reason"}),
		processed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "mailbox_events_processed_total",
			Help:      "Events drained and executed",
		}, []string{"success"}),
		reentrant: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "mailbox_reentrant_posts_total",
			Help:      "Posts issued by the goroutine currently draining the target mailbox",
		}),
		drain: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "mailbox_drain_duration_seconds",
			Help:      "Time spent in one drain loop",
			Buckets:   defaultBuckets,
		}, []string{"dispatch"}),
	}
	m.accepted = register(reg, m.accepted)
	m.rejected = register(reg, m.rejected)
	m.processed = register(reg, m.processed)
	m.reentrant = register(reg, m.reentrant)
	m.drain = register(reg, m.drain)
	return m
}

func (m *mailboxMetrics) EventAccepted(dispatch string) {
	m.accepted.WithLabelValues(dispatch).Inc()
}

func (m *mailboxMetrics) EventRejected(reason string) {
	m.rejected.WithLabelValues(reason).Inc()
}

func (m *mailboxMetrics) EventProcessed(success bool) {
	m.processed.WithLabelValues(boolToStr(success)).Inc()
}

func (m *mailboxMetrics) ReentrantPost() { m.reentrant.Inc() }

func (m *mailboxMetrics) DrainDuration(dispatch string) Timer {
	return newTimer(m.drain.WithLabelValues(dispatch))
}

var (
	_ PoolMetrics    = (*poolMetrics)(nil)
	_ MailboxMetrics = (*mailboxMetrics)(nil)
)
