package lpc

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"lpc/internal/config"
	"lpc/internal/errs"
	"lpc/pkg/threadmgr"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// echoComponent 启动时通过运行时拿到工厂并投递一个事件
type echoComponent struct {
	runtime *Runtime
	done    chan struct{}
	err     error
}

func (e *echoComponent) Name() string { return "echo" }

func (e *echoComponent) Start(ctx context.Context) error {
	f := e.runtime.Factory()
	if f == nil {
		return errors.New("factory not ready")
	}
	return f.CreateAsyncMailbox().Post(func() { close(e.done) })
}

func (e *echoComponent) Stop(ctx context.Context) error { return e.err }

func testConfig(kind string) *Config {
	cfg := DefaultConfig()
	cfg.Pool.Threads = 2
	cfg.Pool.Factory = kind
	cfg.Metrics.Enabled = true
	cfg.Glog.PrintConsole = false
	return cfg
}

func TestRuntimeLifecycle(t *testing.T) {
	for _, kind := range []string{config.FactoryGoroutine, config.FactoryAnts} {
		t.Run(kind, func(t *testing.T) {
			reg := prometheus.NewRegistry()
			echo := &echoComponent{done: make(chan struct{})}
			r, err := NewWithConfig(testConfig(kind), reg, echo)
			require.NoError(t, err)
			echo.runtime = r
			assert.Nil(t, r.Factory())

			require.NoError(t, r.Startup(context.Background()))
			select {
			case <-echo.done:
			case <-time.After(5 * time.Second):
				t.Fatal("event not processed")
			}

			f := r.Factory()
			require.NotNil(t, f)
			manager := f.ThreadManager().(*threadmgr.Manager)
			assert.Equal(t, 2, manager.ThreadCount())
			assert.Contains(t, manager.Threads()[0].Name(), "lpc-thread")

			count, err := testutil.GatherAndCount(reg, "lpc_mailbox_events_accepted_total", "lpc_pool_tasks_queued_total")
			require.NoError(t, err)
			assert.GreaterOrEqual(t, count, 2)

			require.NoError(t, r.Shutdown(context.Background()))
			assert.True(t, f.IsClosed())
			assert.True(t, manager.IsClosed())
		})
	}
}

func TestRuntimeShutdownError(t *testing.T) {
	boom := errors.New("boom")
	echo := &echoComponent{done: make(chan struct{}), err: boom}
	r, err := NewWithConfig(testConfig(config.FactoryGoroutine), nil, echo)
	require.NoError(t, err)
	echo.runtime = r

	require.NoError(t, r.Startup(context.Background()))
	<-echo.done
	err = r.Shutdown(context.Background())
	assert.ErrorIs(t, err, boom)
	// echo 失败不影响之后的 mailbox 组件停止
	assert.True(t, r.Factory().IsClosed())
}

func TestNewWithConfigValidates(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Pool.Threads = 0
	_, err := NewWithConfig(cfg, nil)
	assert.ErrorIs(t, err, errs.ErrInvalidConfig)

	r, err := NewWithConfig(nil, nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().Pool.Threads, r.Config().Pool.Threads)
}

func TestNewFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lpc.yaml")
	require.NoError(t, os.WriteFile(path, []byte("pool:\n  threads: 3\nglog:\n  printConsole: false\n"), 0o644))

	r, err := New(path)
	require.NoError(t, err)
	assert.Equal(t, 3, r.Config().Pool.Threads)

	require.NoError(t, r.Startup(context.Background()))
	assert.Equal(t, 3, r.Factory().ThreadManager().(*threadmgr.Manager).ThreadCount())
	require.NoError(t, r.Shutdown(context.Background()))

	_, err = New(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestRuntimesShareRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	first, err := NewWithConfig(testConfig(config.FactoryGoroutine), reg)
	require.NoError(t, err)
	second, err := NewWithConfig(testConfig(config.FactoryGoroutine), reg)
	require.NoError(t, err)

	require.NoError(t, first.Startup(context.Background()))
	require.NotPanics(t, func() {
		require.NoError(t, second.Startup(context.Background()))
	})

	done := make(chan struct{}, 2)
	require.NoError(t, first.Factory().CreateAsyncMailbox().Post(func() { done <- struct{}{} }))
	require.NoError(t, second.Factory().CreateAsyncMailbox().Post(func() { done <- struct{}{} }))
	<-done
	<-done

	require.NoError(t, second.Shutdown(context.Background()))
	require.NoError(t, first.Shutdown(context.Background()))

	count, err := testutil.GatherAndCount(reg, "lpc_mailbox_events_accepted_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
