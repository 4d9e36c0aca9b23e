package worker

import (
	"context"
	"sync"
	"time"

	"github.com/facebookgo/clock"
	"go.uber.org/zap"

	"github.com/fleetflow/support-engine/internal/config"
	"github.com/fleetflow/support-engine/internal/service"
)

// Scheduler drives the engine's periodic work: the stale-ticket sweep,
// the metrics recomputation, and the chat activity heartbeat. Each task
// runs on its own ticker and can be stopped on its own, so a slow sweep
// never delays the heartbeat and operators can silence one loop without
// the others.
type Scheduler struct {
	svc    *service.SupportService
	clock  clock.Clock
	logger *zap.Logger
	cfg    config.SchedulerConfig

	mu        sync.Mutex
	wg        sync.WaitGroup
	started   bool
	sweep     *loop
	metrics   *loop
	heartbeat *loop
}

// loop is one periodic task. Stopping it is idempotent and touches no
// ticket or chat state, only the ticker.
type loop struct {
	stop chan struct{}
	once sync.Once
}

func (l *loop) halt() {
	l.once.Do(func() { close(l.stop) })
}

// NewScheduler constructs a stopped scheduler.
func NewScheduler(cfg config.SchedulerConfig, svc *service.SupportService, clk clock.Clock, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{
		svc:    svc,
		clock:  clk,
		logger: logger,
		cfg:    cfg,
	}
}

// Start launches the periodic loops. Calling Start on a running
// scheduler is a no-op.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return
	}
	s.started = true

	s.sweep = s.launch("stale_sweep", s.cfg.SweepInterval, func(ctx context.Context) {
		s.svc.SweepStaleTickets(ctx)
	})
	s.metrics = s.launch("metrics", s.cfg.MetricsInterval, func(ctx context.Context) {
		s.svc.RecomputeMetrics(ctx)
	})
	s.heartbeat = s.launch("chat_heartbeat", s.cfg.HeartbeatInterval, func(ctx context.Context) {
		s.svc.EmitChatActivity(ctx)
	})

	s.logger.Info("scheduler started",
		zap.Duration("sweep_interval", s.cfg.SweepInterval),
		zap.Duration("metrics_interval", s.cfg.MetricsInterval),
		zap.Duration("heartbeat_interval", s.cfg.HeartbeatInterval),
	)
}

// Stop halts all loops and waits for in-flight ticks to finish. Safe to
// call on a stopped scheduler.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return
	}
	s.started = false
	s.sweep.halt()
	s.metrics.halt()
	s.heartbeat.halt()
	s.mu.Unlock()

	s.wg.Wait()
	s.logger.Info("scheduler stopped")
}

// StopSweep cancels only the stale-ticket sweep loop.
func (s *Scheduler) StopSweep() { s.haltLoop(s.sweep) }

// StopMetrics cancels only the metrics recompute loop.
func (s *Scheduler) StopMetrics() { s.haltLoop(s.metrics) }

// StopHeartbeat cancels only the chat activity heartbeat loop.
func (s *Scheduler) StopHeartbeat() { s.haltLoop(s.heartbeat) }

func (s *Scheduler) haltLoop(l *loop) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if l != nil {
		l.halt()
	}
}

func (s *Scheduler) launch(name string, interval time.Duration, task func(context.Context)) *loop {
	l := &loop{stop: make(chan struct{})}
	ticker := s.clock.Ticker(interval)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer ticker.Stop()
		for {
			select {
			case <-l.stop:
				return
			case <-ticker.C:
				s.runTask(name, task)
			}
		}
	}()
	return l
}

// runTask shields the loop from a panicking task; one bad tick must not
// kill the whole schedule.
func (s *Scheduler) runTask(name string, task func(context.Context)) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("scheduled task panicked",
				zap.String("task", name),
				zap.Any("panic", r),
			)
		}
	}()
	task(context.Background())
}
