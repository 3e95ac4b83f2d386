package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"travelagency/models"
	"travelagency/services/notification"
	"travelagency/utils"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

const TypeBroadcastSend = "newsletter:broadcast"

// BroadcastPayload is the queued newsletter.
type BroadcastPayload struct {
	Subject string `json:"subject"`
	HTML    string `json:"html"`
}

func NewBroadcastTask(payload BroadcastPayload) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeBroadcastSend, b)
	opts := []asynq.Option{asynq.MaxRetry(3), asynq.Queue("default")}
	return task, opts, nil
}

// Enqueuer is satisfied by *asynq.Client.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// SubscriberSource lists newsletter recipients.
type SubscriberSource interface {
	SubscriberEmails(ctx context.Context) ([]string, error)
}

// BroadcastResult reports how a newsletter was dispatched.
type BroadcastResult struct {
	Queued     bool               `json:"queued"`
	TaskID     string             `json:"taskId,omitempty"`
	Recipients int                `json:"recipients"`
	Result     *models.SendResult `json:"result,omitempty"`
}

// Broadcaster sends one bcc email to every subscriber, through the queue when
// one is configured and inline otherwise.
type Broadcaster struct {
	Queue       Enqueuer
	Subscribers SubscriberSource
	Mailer      notification.Mailer
}

func (b *Broadcaster) Broadcast(ctx context.Context, req models.BroadcastRequest) (*BroadcastResult, error) {
	p := BroadcastPayload{Subject: strings.TrimSpace(req.Subject), HTML: req.HTML}
	if p.Subject == "" || strings.TrimSpace(p.HTML) == "" {
		return nil, utils.NewValidationError("subject", "subject and content are required")
	}

	if b.Queue != nil {
		task, opts, err := NewBroadcastTask(p)
		if err != nil {
			return nil, err
		}
		info, err := b.Queue.EnqueueContext(ctx, task, opts...)
		if err == nil {
			utils.GetLogger().Info("Broadcast queued", zap.String("task", info.ID))
			return &BroadcastResult{Queued: true, TaskID: info.ID}, nil
		}
		utils.GetLogger().Warn("Broadcast queue unavailable, sending inline", zap.Error(err))
	}

	res, n, err := b.Send(ctx, p)
	if err != nil {
		return nil, err
	}
	return &BroadcastResult{Recipients: n, Result: res}, nil
}

// Send delivers the newsletter now. It is the queue worker's handler body.
func (b *Broadcaster) Send(ctx context.Context, p BroadcastPayload) (*models.SendResult, int, error) {
	emails, err := b.Subscribers.SubscriberEmails(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("load subscribers: %w", err)
	}
	if len(emails) == 0 {
		return nil, 0, utils.NewBusinessError("there are no subscribers to send to")
	}
	res, err := b.Mailer.Send(ctx, models.Email{Bcc: emails, Subject: p.Subject, HTML: p.HTML})
	if err != nil {
		return nil, 0, err
	}
	return res, len(emails), nil
}
