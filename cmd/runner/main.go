package main

import (
	"context"

	"go-assistant/internal/config"
	"go-assistant/internal/database"
	"go-assistant/internal/executor"
	"go-assistant/internal/executor/openai"
	"go-assistant/internal/features/aiconfig"
	"go-assistant/internal/features/execution"
	"go-assistant/internal/features/notification"
	"go-assistant/internal/features/prompt"
	"go-assistant/internal/features/thread"
	"go-assistant/internal/features/tokenusage"
	"go-assistant/internal/features/user"
	"go-assistant/internal/logger"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

// The runner performs exactly one batch pass over due prompts and exits.
// Deployments that fire the scheduler from external cron run this binary
// instead of keeping the in-process trigger enabled.
func main() {
	app := fx.New(
		fx.Provide(
			config.LoadConfig,
			logger.NewLogger,
			database.NewDatabase,

			user.NewRepository,
			prompt.NewRepository,
			thread.NewRepository,
			aiconfig.NewRepository,
			notification.NewRepository,
			tokenusage.NewRepository,
			execution.NewRepository,

			tokenusage.NewService,
			notification.NewService,
			execution.NewOrchestrator,
			execution.NewBatchProcessor,

			func(usage tokenusage.Service, l *zap.Logger) executor.Executor {
				return openai.New(usage, 2, l)
			},
			func(r user.Repository) execution.UserDirectory { return r },
		),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log}
		}),
		fx.Invoke(runOnce),
	)

	app.Run()
}

func runOnce(lc fx.Lifecycle, processor execution.BatchProcessor, cfg *config.Config, l *zap.Logger, shutdowner fx.Shutdowner) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				defer shutdowner.Shutdown()

				passCtx := context.Background()
				var results []execution.PromptExecutionResult
				if cfg.SchedulerParallel {
					results = processor.ProcessDuePromptsParallel(passCtx)
				} else {
					results = processor.ProcessDuePrompts(passCtx)
				}

				success, failed := 0, 0
				for i := range results {
					if results[i].Failed() {
						failed++
					} else {
						success++
					}
				}
				l.Info("batch pass finished",
					zap.Int("processed", len(results)),
					zap.Int("succeeded", success),
					zap.Int("failed", failed))
			}()
			return nil
		},
	})
}
