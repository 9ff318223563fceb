package execution

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go-assistant/internal/common/models"
	"go-assistant/internal/config"
	"go-assistant/internal/executor"
	"go-assistant/internal/features/aiconfig"
	"go-assistant/internal/features/notification"
	"go-assistant/internal/features/prompt"
	"go-assistant/internal/features/thread"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// UserDirectory is the slice of the user repository the orchestrator needs
// to resolve prompt audiences.
type UserDirectory interface {
	FindByIDs(ctx context.Context, ids []string) ([]models.User, error)
	ListByBusiness(ctx context.Context, business string) ([]models.User, error)
}

type Orchestrator interface {
	// ExecuteScheduledPrompt runs one prompt against its whole audience and
	// returns the per-user outcome summary. The prompt is always released
	// back to idle and rescheduled, whatever happens inside the run.
	ExecuteScheduledPrompt(ctx context.Context, promptID string) (*PromptExecutionResult, error)
}

type OrchestratorImpl struct {
	prompts       prompt.Repository
	users         UserDirectory
	threads       thread.Repository
	configs       aiconfig.Repository
	notifications notification.Service
	executor      executor.Executor
	logs          Repository
	config        *config.Config
	logger        *zap.Logger
}

func NewOrchestrator(
	prompts prompt.Repository,
	users UserDirectory,
	threads thread.Repository,
	configs aiconfig.Repository,
	notifications notification.Service,
	exec executor.Executor,
	logs Repository,
	cfg *config.Config,
	logger *zap.Logger,
) Orchestrator {
	return &OrchestratorImpl{
		prompts:       prompts,
		users:         users,
		threads:       threads,
		configs:       configs,
		notifications: notifications,
		executor:      exec,
		logs:          logs,
		config:        cfg,
		logger:        logger,
	}
}

func (o *OrchestratorImpl) ExecuteScheduledPrompt(ctx context.Context, promptID string) (*PromptExecutionResult, error) {
	p, err := o.prompts.GetByID(ctx, promptID)
	if err != nil {
		return nil, fmt.Errorf("failed to load prompt %s: %w", promptID, err)
	}
	if p == nil || p.Status != prompt.StatusActive {
		return nil, fmt.Errorf("prompt %s not found or not active", promptID)
	}

	// Claim before anything else: losing the race means another pass is
	// already running this prompt, and we must not double-execute.
	claimed, err := o.prompts.ClaimForExecution(ctx, p.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to claim prompt %s: %w", promptID, err)
	}
	if !claimed {
		return nil, fmt.Errorf("prompt %s is already running", promptID)
	}

	logEntry := &ExecutionLog{
		PromptID:    p.ID,
		Business:    p.Business,
		PromptTitle: p.Title,
		PromptText:  p.Description,
		StartedAt:   time.Now(),
	}
	// The run proceeds without a log record rather than holding the claim
	// forever over a transient insert failure.
	if err := o.logs.CreateLog(ctx, logEntry); err != nil {
		o.logger.Warn("failed to create execution log",
			zap.String("prompt_id", promptID),
			zap.Error(err))
		logEntry = nil
	}

	result := &PromptExecutionResult{
		PromptID:    promptID,
		PromptTitle: p.Title,
		ExecutedAt:  time.Now(),
	}

	defer o.finalize(promptID, logEntry, result)

	users, err := o.resolveAudience(ctx, p)
	if err != nil {
		result.FailureCount = 1
		result.Errors = append(result.Errors, err.Error())
		return result, nil
	}
	if len(users) == 0 {
		result.FailureCount = 1
		result.Errors = append(result.Errors, "no target users resolved for prompt")
		return result, nil
	}

	o.logger.Info("executing scheduled prompt",
		zap.String("prompt_id", promptID),
		zap.String("title", p.Title),
		zap.Int("audience", len(users)))

	o.fanOut(ctx, p, users, result)
	return result, nil
}

// finalize runs whatever happened inside the pass: the claim is released,
// the next occurrence is recomputed from a fresh read (the definition may
// have been edited mid-run), and the log record is closed.
func (o *OrchestratorImpl) finalize(promptID string, logEntry *ExecutionLog, result *PromptExecutionResult) {
	if r := recover(); r != nil {
		o.logger.Error("panic during scheduled prompt execution",
			zap.String("prompt_id", promptID),
			zap.Any("panic", r))
		result.FailureCount++
		result.Errors = append(result.Errors, fmt.Sprintf("internal error: %v", r))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	now := time.Now()
	var next *time.Time
	if fresh, err := o.prompts.GetByID(ctx, promptID); err != nil {
		o.logger.Warn("failed to reload prompt for reschedule",
			zap.String("prompt_id", promptID),
			zap.Error(err))
	} else if fresh != nil {
		next = prompt.NextExecution(fresh, now)
	}

	if id, err := primitive.ObjectIDFromHex(promptID); err == nil {
		if err := o.prompts.FinalizeRun(ctx, id, now, next); err != nil {
			o.logger.Error("failed to release prompt claim",
				zap.String("prompt_id", promptID),
				zap.Error(err))
		}
	}

	if logEntry != nil {
		status := LogCompleted
		successMsg := fmt.Sprintf("Executed for %d user(s)", result.SuccessCount)
		errorMsg := ""
		if result.Failed() {
			status = LogFailed
			errorMsg = strings.Join(result.Errors, " | ")
		}
		if err := o.logs.FinalizeLog(ctx, logEntry.ID, status, successMsg, errorMsg); err != nil {
			o.logger.Error("failed to finalize execution log",
				zap.String("prompt_id", promptID),
				zap.Error(err))
		}
	}

	o.logger.Info("scheduled prompt finished",
		zap.String("prompt_id", promptID),
		zap.Int("success", result.SuccessCount),
		zap.Int("failure", result.FailureCount),
		zap.Timep("next_execution", next))
}

// resolveAudience maps the prompt's targeting to concrete users. TargetAllUsers
// wins over an explicit ID list when both are set.
func (o *OrchestratorImpl) resolveAudience(ctx context.Context, p *prompt.Prompt) ([]models.User, error) {
	if p.TargetAllUsers {
		users, err := o.users.ListByBusiness(ctx, p.Business)
		if err != nil {
			return nil, fmt.Errorf("failed to list business users: %w", err)
		}
		return users, nil
	}
	if len(p.TargetUserIDs) == 0 {
		return nil, nil
	}
	users, err := o.users.FindByIDs(ctx, p.TargetUserIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve target users: %w", err)
	}
	return users, nil
}

// fanOut runs the prompt for every user concurrently, capped by the
// configured per-user concurrency. One user's failure never stops the rest.
func (o *OrchestratorImpl) fanOut(ctx context.Context, p *prompt.Prompt, users []models.User, result *PromptExecutionResult) {
	concurrency := o.config.UserConcurrency
	if concurrency <= 0 {
		concurrency = 1
	}

	var (
		wg  sync.WaitGroup
		mu  sync.Mutex
		sem = make(chan struct{}, concurrency)
	)

	for i := range users {
		user := users[i]
		wg.Add(1)
		sem <- struct{}{}

		go func() {
			defer wg.Done()
			defer func() { <-sem }()
			defer func() {
				if r := recover(); r != nil {
					mu.Lock()
					result.FailureCount++
					result.Errors = append(result.Errors,
						fmt.Sprintf("User %s: internal error: %v", user.Email, r))
					mu.Unlock()
				}
			}()

			userCtx, cancel := context.WithTimeout(ctx, o.config.UserTimeout)
			defer cancel()

			err := o.executeForUser(userCtx, p, &user)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				result.FailureCount++
				result.Errors = append(result.Errors, fmt.Sprintf("User %s: %v", user.Email, err))
			} else {
				result.SuccessCount++
			}
		}()
	}

	wg.Wait()
}

// executeForUser runs one agent conversation for one user: resolve their
// credentials, open a thread, stream the conversation to completion, then
// deliver the result.
func (o *OrchestratorImpl) executeForUser(ctx context.Context, p *prompt.Prompt, user *models.User) error {
	aiCfg, err := o.configs.ActiveAIConfig(ctx, user.ID)
	if err != nil {
		return fmt.Errorf("failed to load AI config: %w", err)
	}
	if aiCfg == nil {
		return fmt.Errorf("no active AI configuration, set one up under Settings > AI Providers")
	}

	commerceCfg, err := o.configs.ActiveCommerceConfig(ctx, user.ID)
	if err != nil {
		return fmt.Errorf("failed to load commerce config: %w", err)
	}
	if commerceCfg == nil {
		return fmt.Errorf("no active commerce configuration, connect a store under Settings > Store")
	}

	th := &thread.Thread{
		Business: p.Business,
		UserID:   user.ID,
		Title:    p.Title,
		Metadata: map[string]interface{}{
			thread.MetaScheduledPromptID: p.ID.Hex(),
			thread.MetaPromptTitle:       p.Title,
		},
	}
	if err := o.threads.Create(ctx, th); err != nil {
		return fmt.Errorf("failed to create thread: %w", err)
	}

	stream, err := o.executor.Execute(ctx, executor.Request{
		RequestID: uuid.NewString(),
		ThreadID:  th.ID.Hex(),
		UserText:  p.Description,
		AI: executor.Credentials{
			Provider: aiCfg.Provider,
			Model:    aiCfg.Model,
			APIKey:   aiCfg.APIKey,
			BaseURL:  aiCfg.BaseURL,
		},
		Commerce: executor.CommerceCredentials{
			BaseURL:        commerceCfg.BaseURL,
			ConsumerKey:    commerceCfg.ConsumerKey,
			ConsumerSecret: commerceCfg.ConsumerSecret,
		},
		// Scheduled runs are unattended: nobody is there to approve tools.
		ApproveAllTools: true,
	})
	if err != nil {
		return fmt.Errorf("failed to start agent conversation: %w", err)
	}

	// Drain the whole stream; the first error chunk decides the outcome.
	var streamErr error
	for chunk := range stream {
		if chunk.Type == executor.ChunkError && streamErr == nil {
			streamErr = chunk.Err
			if streamErr == nil {
				streamErr = fmt.Errorf("agent stream reported an error")
			}
		}
	}
	if streamErr != nil {
		return fmt.Errorf("agent conversation failed: %w", streamErr)
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("agent conversation interrupted: %w", err)
	}

	o.deliver(p, user, th)
	return nil
}

// deliver pushes the completed run to the channels the prompt asked for.
// Delivery is best-effort: a notification failure never fails the run.
func (o *OrchestratorImpl) deliver(p *prompt.Prompt, user *models.User, th *thread.Thread) {
	if !p.DeliveryOptions.Notifier {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := o.notifications.Notify(ctx, &notification.Notification{
		UserID:   user.ID,
		Title:    p.Title,
		Message:  fmt.Sprintf("Scheduled assistant run %q finished. Open the thread to see the result.", p.Title),
		Type:     notification.NotificationTypeInfo,
		Group:    notification.GroupScheduled,
		ThreadID: th.ID,
	})
	if err != nil {
		o.logger.Warn("failed to deliver notification",
			zap.String("prompt_id", p.ID.Hex()),
			zap.String("user_id", user.ID.Hex()),
			zap.Error(err))
	}
}
