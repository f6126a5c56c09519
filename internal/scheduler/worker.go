package scheduler

import (
	"context"
	"fmt"
	"time"

	"crm_followup_backend/internal/email"
	"crm_followup_backend/internal/followup/compose"
	"crm_followup_backend/internal/followup/ports"
	"crm_followup_backend/internal/followup/repository"
	"crm_followup_backend/internal/whatsapp"
	"crm_followup_backend/platform/apperr"
	"crm_followup_backend/platform/config"
	"crm_followup_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Worker consumes reminder tasks and notifies the workspace that a
// follow-up is due, via email and optionally WhatsApp.
type Worker struct {
	server    *asynq.Server
	mux       *asynq.ServeMux
	repo      *repository.Repo
	leads     ports.LeadReader
	composer  *compose.Composer
	sender    email.Sender
	wa        *whatsapp.Client
	recipient string
	log       *logger.Logger
}

func NewWorker(
	cfg config.SchedulerConfig,
	emailCfg config.EmailConfig,
	pool *pgxpool.Pool,
	leads ports.LeadReader,
	composer *compose.Composer,
	sender email.Sender,
	wa *whatsapp.Client,
	log *logger.Logger,
) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL)
	if err != nil {
		return nil, err
	}

	queue := cfg.GetAsynqQueueName()
	if queue == "" {
		queue = "default"
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 10
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queue: 1,
		},
	})

	mux := asynq.NewServeMux()
	w := &Worker{
		server:    server,
		mux:       mux,
		repo:      repository.New(pool),
		leads:     leads,
		composer:  composer,
		sender:    sender,
		wa:        wa,
		recipient: emailCfg.GetReminderRecipient(),
		log:       log,
	}

	mux.HandleFunc(TaskFollowUpReminderDue, w.handleFollowUpReminder)

	return w, nil
}

func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}

func (w *Worker) handleFollowUpReminder(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseFollowUpReminderPayload(task)
	if err != nil {
		return err
	}

	taskID, err := uuid.Parse(payload.TaskID)
	if err != nil {
		return err
	}

	stored, err := w.repo.GetTask(ctx, taskID)
	if err != nil {
		if apperr.GetKind(err) == apperr.KindNotFound {
			return nil
		}
		return err
	}

	if !stored.IsOpen() {
		return nil
	}

	// A skip or advance moves the due date and enqueues a fresh reminder;
	// this one is stale and must not fire a second notification.
	if rescheduled(stored.DueAt, payload.DueAt) {
		return nil
	}

	lead, err := w.leads.GetLead(ctx, stored.LeadID)
	if err != nil {
		if apperr.GetKind(err) == apperr.KindNotFound {
			return nil
		}
		return err
	}

	message := w.composer.Compose(ctx, stored.TemplateKey, lead)

	leadName := "Unbenannter Lead"
	if lead.Name != nil && *lead.Name != "" {
		leadName = *lead.Name
	}

	dueLabel := ""
	if stored.DueAt != nil {
		dueLabel = stored.DueAt.Format("02.01.2006")
	}

	if w.sender != nil && w.recipient != "" {
		err := w.sender.SendFollowUpReminder(ctx, w.recipient, email.ReminderData{
			LeadName: leadName,
			StepKey:  stored.TemplateKey,
			DueAt:    dueLabel,
			Message:  message,
		})
		if err != nil {
			return fmt.Errorf("send reminder email: %w", err)
		}
	}

	if w.wa != nil && lead.Phone != nil {
		if err := w.wa.SendMessage(ctx, *lead.Phone, message); err != nil {
			// Email already went out; a gateway hiccup should not retry the
			// whole reminder.
			w.log.Warn("whatsapp reminder delivery failed", "task", taskID, "error", err)
		}
	}

	w.log.Info("follow-up reminder delivered", "task", taskID, "lead", stored.LeadID, "step", stored.TemplateKey)
	return nil
}

func rescheduled(stored, pinned *time.Time) bool {
	if stored == nil || pinned == nil {
		return stored != nil || pinned != nil
	}
	return !stored.Equal(*pinned)
}
