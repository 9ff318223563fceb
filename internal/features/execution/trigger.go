package execution

import (
	"context"

	"go-assistant/internal/config"

	"github.com/robfig/cron/v3"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Trigger drives periodic batch passes from in-process cron. It is disabled
// by default; most deployments fire passes from an external scheduler
// through the API instead.
type Trigger struct {
	cron      *cron.Cron
	processor BatchProcessor
	config    *config.Config
	logger    *zap.Logger
}

func NewTrigger(lc fx.Lifecycle, processor BatchProcessor, cfg *config.Config, logger *zap.Logger) *Trigger {
	t := &Trigger{
		cron:      cron.New(),
		processor: processor,
		config:    cfg,
		logger:    logger,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if !cfg.SchedulerEnabled {
				logger.Info("scheduler trigger disabled")
				return nil
			}
			return t.start()
		},
		OnStop: func(ctx context.Context) error {
			t.cron.Stop()
			return nil
		},
	})

	return t
}

func (t *Trigger) start() error {
	_, err := t.cron.AddFunc(t.config.SchedulerCron, t.runPass)
	if err != nil {
		return err
	}
	t.cron.Start()
	t.logger.Info("scheduler trigger started", zap.String("cron", t.config.SchedulerCron))
	return nil
}

func (t *Trigger) runPass() {
	ctx := context.Background()

	var results []PromptExecutionResult
	if t.config.SchedulerParallel {
		results = t.processor.ProcessDuePromptsParallel(ctx)
	} else {
		results = t.processor.ProcessDuePrompts(ctx)
	}

	for i := range results {
		r := &results[i]
		if r.Failed() {
			t.logger.Warn("scheduled prompt pass entry failed",
				zap.String("prompt_id", r.PromptID),
				zap.Int("success", r.SuccessCount),
				zap.Int("failure", r.FailureCount),
				zap.Strings("errors", r.Errors))
		}
	}
}
