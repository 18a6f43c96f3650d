package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"MarketAcquirer/internal/collector"
	"MarketAcquirer/internal/config"
	"MarketAcquirer/internal/model"
	"MarketAcquirer/internal/notifier"
	"MarketAcquirer/internal/recorder"

	"github.com/robfig/cron/v3"
)

// Acquirer runs both pipelines for a list of symbols.
type Acquirer interface {
	AcquireAll(ctx context.Context, symbols []string, plan collector.Plan, sink func(model.SymbolResult)) []model.SymbolResult
}

// Scheduler runs the acquisition once or on a cron schedule.
type Scheduler struct {
	Cron     *cron.Cron
	Acquirer Acquirer
	Symbols  []string
	Plan     collector.Plan
	Recorder recorder.Recorder
	Notifier notifier.Notifier
	Ctx      context.Context

	mu sync.Mutex
}

// NewScheduler creates a new Scheduler. A nil notifier disables run reports.
func NewScheduler(ctx context.Context, acq Acquirer, symbols []string, plan collector.Plan, rec recorder.Recorder, n notifier.Notifier) *Scheduler {
	if n == nil {
		n = notifier.NoopNotifier{}
	}
	return &Scheduler{
		Cron: cron.New(
			cron.WithParser(config.CronParser),
			cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)),
		),
		Acquirer: acq,
		Symbols:  symbols,
		Plan:     plan,
		Recorder: rec,
		Notifier: n,
		Ctx:      ctx,
	}
}

// Register schedules the acquisition run.
func (s *Scheduler) Register(spec string) error {
	if _, err := s.Cron.AddFunc(spec, func() { s.RunNow() }); err != nil {
		return fmt.Errorf("register acquisition task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler and waits for a running acquisition,
// including one started by RunNow outside the cron.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.mu.Lock()
	s.mu.Unlock()
	log.Println("[INFO] scheduler stopped")
}

// RunNow executes one acquisition run immediately and returns its results.
// Runs never overlap.
func (s *Scheduler) RunNow() []model.SymbolResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	log.Printf("[INFO] running acquisition for %d symbols (%s to %s)", len(s.Symbols),
		s.Plan.From.Format(time.DateTime), s.Plan.To.Format(time.DateTime))
	results := s.Acquirer.AcquireAll(s.Ctx, s.Symbols, s.Plan, func(res model.SymbolResult) {
		if err := recorder.Record(s.Recorder, &res); err != nil {
			log.Printf("[ERROR] record %s: %v", res.Symbol, err)
		}
	})

	summary := notifier.FormatRunSummary(results)
	log.Printf("[INFO] acquisition finished\n%s", summary)
	s.trySend(notifier.FormatTelegramReport(results, time.Now()))
	return results
}

func (s *Scheduler) trySend(text string) {
	if err := s.Notifier.SendWithRetry(s.Ctx, text, 3); err != nil {
		log.Printf("[ERROR] send notification: %v", err)
	}
}
