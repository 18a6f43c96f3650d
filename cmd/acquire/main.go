package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"MarketAcquirer/internal/collector"
	"MarketAcquirer/internal/config"
	"MarketAcquirer/internal/model"
	"MarketAcquirer/internal/notifier"
	"MarketAcquirer/internal/recorder"
	"MarketAcquirer/internal/scheduler"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] MarketAcquirer starting...")

	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}

	plan, err := buildPlan(cfg)
	if err != nil {
		log.Fatalf("[FATAL] acquisition plan: %v", err)
	}
	loc, _ := cfg.Location()

	// Init fetcher
	policy := collector.RetryPolicy{
		MaxAttempts: *cfg.Acquisition.MaxRequests,
		Backoff:     cfg.Acquisition.Backoff,
	}
	fetcher := collector.NewRetryingFetcher(cfg.AlphaVantage.BaseURL, cfg.AlphaVantage.APIKey,
		cfg.Proxy, cfg.AlphaVantage.RequestTimeout, policy)
	log.Printf("[INFO] data source: %s", fetcher.Name())

	col := collector.NewCollector(fetcher, loc)

	// Init recorders
	rec, err := buildRecorder(cfg)
	if err != nil {
		log.Fatalf("[FATAL] init recorder: %v", err)
	}
	defer func() {
		if err := rec.Close(); err != nil {
			log.Printf("[ERROR] close recorder: %v", err)
		}
	}()

	// Init Telegram notifier
	var tn notifier.Notifier
	if cfg.Telegram.BotToken != "" && cfg.Telegram.ChatID != "" {
		tn = notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)
		log.Println("[INFO] Telegram reports enabled")
	}

	// Context for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sched := scheduler.NewScheduler(ctx, col, cfg.Acquisition.Symbols, plan, rec, tn)

	if cfg.Schedule.Cron == "" {
		results := sched.RunNow()
		for i := range results {
			if !results[i].OK() {
				log.Printf("[WARN] %s finished with failures", results[i].Symbol)
			}
		}
		log.Println("[INFO] MarketAcquirer finished")
		return
	}

	if err := sched.Register(cfg.Schedule.Cron); err != nil {
		log.Fatalf("[FATAL] register cron task: %v", err)
	}
	sched.Start()

	if os.Getenv("RUN_ON_START") == "true" {
		log.Println("[INFO] RUN_ON_START enabled, executing acquisition now")
		go sched.RunNow()
	}

	log.Println("[INFO] MarketAcquirer is running. Press Ctrl+C to stop.")
	<-ctx.Done()

	log.Println("[INFO] shutdown signal received, stopping...")
	sched.Stop()
	log.Println("[INFO] MarketAcquirer stopped")
}

func buildPlan(cfg *config.Config) (collector.Plan, error) {
	interval, err := model.ParseInterval(cfg.Acquisition.Interval)
	if err != nil {
		return collector.Plan{}, err
	}
	topics, err := cfg.Topics()
	if err != nil {
		return collector.Plan{}, err
	}
	from, to, err := cfg.Range()
	if err != nil {
		return collector.Plan{}, err
	}
	return collector.Plan{
		Interval:      interval,
		Adjusted:      cfg.Acquisition.Adjusted,
		ExtendedHours: cfg.Acquisition.ExtendedHours,
		Topics:        topics,
		From:          from,
		To:            to,
	}, nil
}

func buildRecorder(cfg *config.Config) (recorder.Recorder, error) {
	var multi recorder.Multi
	if cfg.HasFormat(config.FormatCSV) {
		r, err := recorder.NewCSVRecorder(cfg.Output.DataPath)
		if err != nil {
			return nil, err
		}
		multi = append(multi, r)
	}
	if cfg.HasFormat(config.FormatParquet) {
		r, err := recorder.NewParquetRecorder(cfg.Output.DataPath)
		if err != nil {
			return nil, err
		}
		multi = append(multi, r)
	}
	if cfg.Output.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Output.SQLitePath)
		if err != nil {
			log.Printf("[WARN] init sqlite recorder failed, skipping: %v", err)
		} else {
			log.Printf("[INFO] sqlite run id: %s", sr.RunID())
			multi = append(multi, sr)
		}
	}
	if len(multi) == 0 {
		return recorder.NewNoopRecorder(), nil
	}
	return multi, nil
}
