// Copyright (c) 2025, the cellgate authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package pool

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/cellgate/cellgate/pkg/defaults"
	"github.com/cellgate/cellgate/pkg/errors"
	"github.com/cellgate/cellgate/pkg/kernel"
)

// Factory creates a ready-to-use kernel session. For the gateway this
// means a started interpreter with every seed cell already executed, so a
// factory error is a startup error.
type Factory func(ctx context.Context) (kernel.Session, error)

// Option configures the pool.
type Option func(*Pool)

// WithSize sets the number of kernel sessions the pool maintains.
func WithSize(n int) Option {
	return func(p *Pool) {
		p.size = n
	}
}

// WithPingInterval enables a background liveness check of idle sessions.
// Zero disables the check.
func WithPingInterval(d time.Duration) Option {
	return func(p *Pool) {
		p.pingInterval = d
	}
}

// WithReplaceBackoff sets the delay between failed replacement attempts.
func WithReplaceBackoff(d time.Duration) Option {
	return func(p *Pool) {
		p.replaceBackoff = d
	}
}

// Pool maintains a fixed set of kernel sessions handed out one borrower
// at a time.
type Pool struct {
	factory        Factory
	size           int
	pingInterval   time.Duration
	replaceBackoff time.Duration

	sem *semaphore.Weighted

	mu     sync.Mutex
	idle   []kernel.Session
	closed bool

	// lifecycle of background respawns and the ping loop
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a pool. Start must be called before Checkout.
func New(factory Factory, opts ...Option) (*Pool, error) {
	if factory == nil {
		return nil, errors.New(errors.ErrCodeInvalidRequest, "kernel factory is required")
	}

	p := &Pool{
		factory:        factory,
		size:           defaults.PoolPrespawnCount,
		replaceBackoff: defaults.PoolReplaceBackoff,
	}
	for _, opt := range opts {
		opt(p)
	}

	if p.size < 1 {
		return nil, errors.NewWithContext(errors.ErrCodeInvalidRequest, "pool size must be at least 1",
			map[string]any{"size": p.size})
	}

	p.sem = semaphore.NewWeighted(int64(p.size))
	p.ctx, p.cancel = context.WithCancel(context.Background())

	return p, nil
}

// Start prespawns all sessions concurrently. Any factory failure tears
// down the sessions that did start and fails the whole pool.
func (p *Pool) Start(ctx context.Context) error {
	sessions := make([]kernel.Session, p.size)

	g, gctx := errgroup.WithContext(ctx)
	for i := range sessions {
		g.Go(func() error {
			s, err := p.factory(gctx)
			if err != nil {
				return err
			}
			sessions[i] = s
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		for _, s := range sessions {
			if s != nil {
				closeSession(s)
			}
		}
		return errors.Wrap(errors.ErrCodeUnavailable, "failed to prespawn kernel pool", err)
	}

	p.mu.Lock()
	p.idle = sessions
	poolIdleSessions.Set(float64(len(p.idle)))
	p.mu.Unlock()

	if p.pingInterval > 0 {
		p.wg.Add(1)
		go p.pingLoop()
	}

	slog.Info("kernel pool ready", slog.Int("size", p.size))
	return nil
}

// Checkout borrows a session, waiting in FIFO order behind other callers
// until one frees up or the context expires.
func (p *Pool) Checkout(ctx context.Context) (*Lease, error) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil, errors.New(errors.ErrCodeUnavailable, "kernel pool is shut down")
	}
	p.mu.Unlock()

	start := time.Now()
	poolWaiters.Inc()
	err := p.sem.Acquire(ctx, 1)
	poolWaiters.Dec()
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			poolCheckoutTimeouts.Inc()
			return nil, errors.New(errors.ErrCodePoolExhausted, "no kernel session became available in time")
		}
		return nil, errors.Wrap(errors.ErrCodeInternal, "kernel checkout canceled", err)
	}
	poolCheckoutWait.Observe(time.Since(start).Seconds())

	p.mu.Lock()
	if p.closed || len(p.idle) == 0 {
		p.mu.Unlock()
		p.sem.Release(1)
		return nil, errors.New(errors.ErrCodeUnavailable, "kernel pool is shut down")
	}
	s := p.idle[0]
	p.idle = p.idle[1:]
	poolIdleSessions.Set(float64(len(p.idle)))
	p.mu.Unlock()

	poolCheckoutsTotal.Inc()
	poolBusySessions.Inc()

	return &Lease{pool: p, session: s}, nil
}

// Shutdown stops background work and closes all idle sessions. Sessions
// still leased are closed when released.
func (p *Pool) Shutdown(ctx context.Context) error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	p.mu.Unlock()

	p.cancel()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		slog.Warn("kernel pool shutdown abandoned background work", slog.Any("error", ctx.Err()))
	}

	p.mu.Lock()
	sessions := p.idle
	p.idle = nil
	poolIdleSessions.Set(0)
	p.mu.Unlock()

	var g errgroup.Group
	for _, s := range sessions {
		g.Go(func() error {
			return s.Close(ctx)
		})
	}
	if err := g.Wait(); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, "failed to close kernel sessions", err)
	}

	slog.Info("kernel pool shut down", slog.Int("size", p.size))
	return nil
}

// put returns a healthy session to the idle set. On a closed pool the
// session is closed instead.
func (p *Pool) put(s kernel.Session) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		closeSession(s)
		p.sem.Release(1)
		return
	}
	p.idle = append(p.idle, s)
	poolIdleSessions.Set(float64(len(p.idle)))
	p.mu.Unlock()
	p.sem.Release(1)
}

// replace closes a damaged session and spawns its successor, retrying
// with backoff. The slot's semaphore permit stays held until the
// replacement lands in the idle set.
func (p *Pool) replace(damaged kernel.Session) {
	slog.Warn("replacing damaged kernel session", slog.String("kernel", damaged.ID()))
	closeSession(damaged)
	kernelReplacements.Inc()

	for {
		if p.ctx.Err() != nil {
			p.sem.Release(1)
			return
		}
		s, err := p.factory(p.ctx)
		if err == nil {
			p.put(s)
			return
		}
		slog.Error("failed to spawn replacement kernel", slog.Any("error", err))

		select {
		case <-time.After(p.replaceBackoff):
		case <-p.ctx.Done():
			p.sem.Release(1)
			return
		}
	}
}

func (p *Pool) pingLoop() {
	defer p.wg.Done()

	t := time.NewTicker(p.pingInterval)
	defer t.Stop()

	for {
		select {
		case <-p.ctx.Done():
			return
		case <-t.C:
			p.pingIdle()
		}
	}
}

// pingIdle borrows each currently idle session once and pings it. Dead
// sessions are replaced; requests are never blocked, only free slots are
// checked.
func (p *Pool) pingIdle() {
	p.mu.Lock()
	count := len(p.idle)
	p.mu.Unlock()

	for i := 0; i < count; i++ {
		if !p.sem.TryAcquire(1) {
			return
		}
		p.mu.Lock()
		if len(p.idle) == 0 {
			p.mu.Unlock()
			p.sem.Release(1)
			return
		}
		s := p.idle[0]
		p.idle = p.idle[1:]
		poolIdleSessions.Set(float64(len(p.idle)))
		p.mu.Unlock()

		pctx, cancel := context.WithTimeout(p.ctx, defaults.KernelPingTimeout)
		err := s.Ping(pctx)
		cancel()

		if err != nil {
			slog.Warn("idle kernel session failed ping",
				slog.String("kernel", s.ID()),
				slog.Any("error", err))
			p.wg.Add(1)
			go func() {
				defer p.wg.Done()
				p.replace(s)
			}()
			continue
		}
		p.put(s)
	}
}

func closeSession(s kernel.Session) {
	ctx, cancel := context.WithTimeout(context.Background(), defaults.KernelShutdownTimeout)
	defer cancel()
	if err := s.Close(ctx); err != nil {
		slog.Warn("failed to close kernel session",
			slog.String("kernel", s.ID()),
			slog.Any("error", err))
	}
}

// Lease is a borrowed session. Exactly one Release call is honored.
type Lease struct {
	pool    *Pool
	session kernel.Session
	once    sync.Once
}

// Session returns the borrowed kernel session.
func (l *Lease) Session() kernel.Session {
	return l.session
}

// Release returns the session to the pool. A damaged session is closed
// and replaced in the background instead of being reused.
func (l *Lease) Release(damaged bool) {
	l.once.Do(func() {
		poolBusySessions.Dec()
		if damaged {
			l.pool.wg.Add(1)
			go func() {
				defer l.pool.wg.Done()
				l.pool.replace(l.session)
			}()
			return
		}
		l.pool.put(l.session)
	})
}
