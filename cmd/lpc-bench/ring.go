package main

import (
	"context"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/duke-git/lancet/v2/maputil"
	"github.com/pkg/errors"
	"golang.org/x/exp/slices"
	"golang.org/x/sync/errgroup"

	"lpc/pkg/mailbox"
	"lpc/pkg/threadmgr"
)

type benchOptions struct {
	mailboxes int
	producers int
	events    int
	hops      int
	async     bool
}

// ringBench 每个事件沿邮箱环转发 hops 次
// 同步邮箱下转发大多是本地调用，异步邮箱下每一跳都交给线程池
type ringBench struct {
	opts      benchOptions
	factory   *mailbox.Factory
	mailboxes []*mailbox.Mailbox

	chains    sync.WaitGroup
	processed atomic.Int64
	rejected  atomic.Int64

	mu           sync.Mutex
	perGoroutine map[int64]int
}

func newRingBench(factory *mailbox.Factory, opts benchOptions) *ringBench {
	if opts.mailboxes < 1 {
		opts.mailboxes = 1
	}
	if opts.producers < 1 {
		opts.producers = 1
	}
	if opts.hops < 0 {
		opts.hops = 0
	}
	b := &ringBench{
		opts:         opts,
		factory:      factory,
		perGoroutine: make(map[int64]int),
	}
	for i := 0; i < opts.mailboxes; i++ {
		b.mailboxes = append(b.mailboxes, factory.NewMailbox(
			mailbox.WithAsync(opts.async),
			mailbox.WithName(fmt.Sprintf("ring-%d", i)),
		))
	}
	return b
}

func (b *ringBench) record() {
	id := threadmgr.GoroutineID()
	b.mu.Lock()
	b.perGoroutine[id]++
	b.mu.Unlock()
	b.processed.Add(1)
}

// send 链在最后一跳或投递失败时结束
func (b *ringBench) send(idx, hops int) {
	mb := b.mailboxes[idx%len(b.mailboxes)]
	err := mb.Post(func() {
		b.record()
		if hops == 0 {
			b.chains.Done()
			return
		}
		b.send(idx+1, hops-1)
	})
	if err != nil {
		b.rejected.Add(1)
		b.chains.Done()
	}
}

func (b *ringBench) run(ctx context.Context) (*benchResult, error) {
	callers := make(map[int64]struct{})
	var callersMu sync.Mutex

	start := time.Now()
	g, ctx := errgroup.WithContext(ctx)
	for p := 0; p < b.opts.producers; p++ {
		p := p
		g.Go(func() error {
			callersMu.Lock()
			callers[threadmgr.GoroutineID()] = struct{}{}
			callersMu.Unlock()
			for i := 0; i < b.opts.events; i++ {
				if err := ctx.Err(); err != nil {
					return err
				}
				b.chains.Add(1)
				b.send(p+i, b.opts.hops)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, errors.Wrap(err, "producers")
	}
	b.chains.Wait()
	elapsed := time.Since(start)

	b.mu.Lock()
	perGoroutine := maputil.Filter(b.perGoroutine, func(_ int64, n int) bool { return n > 0 })
	b.mu.Unlock()

	pool := make(map[int64]struct{})
	if m, ok := b.factory.ThreadManager().(*threadmgr.Manager); ok {
		for _, t := range m.Threads() {
			pool[t.ID()] = struct{}{}
		}
	}

	return &benchResult{
		elapsed:      elapsed,
		processed:    b.processed.Load(),
		rejected:     b.rejected.Load(),
		perGoroutine: perGoroutine,
		pool:         pool,
		callers:      callers,
		async:        b.opts.async,
	}, nil
}

type benchResult struct {
	elapsed      time.Duration
	processed    int64
	rejected     int64
	perGoroutine map[int64]int
	pool         map[int64]struct{}
	callers      map[int64]struct{}
	async        bool
}

func (r *benchResult) role(id int64) string {
	if _, ok := r.pool[id]; ok {
		return "pool"
	}
	if _, ok := r.callers[id]; ok {
		return "caller"
	}
	return "other"
}

func (r *benchResult) print(w io.Writer) {
	mode := "sync"
	if r.async {
		mode = "async"
	}
	rate := float64(r.processed) / r.elapsed.Seconds()
	fmt.Fprintf(w, "mode=%s processed=%d rejected=%d elapsed=%s rate=%.0f/s\n",
		mode, r.processed, r.rejected, r.elapsed.Round(time.Microsecond), rate)

	ids := maputil.Keys(r.perGoroutine)
	slices.Sort(ids)
	byRole := make(map[string]int)
	for _, id := range ids {
		n := r.perGoroutine[id]
		byRole[r.role(id)] += n
		fmt.Fprintf(w, "  goroutine %-6d %-6s %d\n", id, r.role(id), n)
	}
	roles := maputil.Keys(byRole)
	slices.Sort(roles)
	for _, role := range roles {
		fmt.Fprintf(w, "  %-6s total %d\n", role, byRole[role])
	}
}
