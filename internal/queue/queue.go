package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/lstlabs/lst-staking-service/internal/config"
	"github.com/lstlabs/lst-staking-service/internal/pipeline"
	"github.com/lstlabs/lst-staking-service/internal/queue/client"
	"github.com/lstlabs/lst-staking-service/internal/utils"
)

var _ pipeline.EventPublisher = (*Queues)(nil)

type Queues struct {
	JobEventsQueueClient client.QueueClient
	publishTimeout       time.Duration
}

func New(cfg *config.QueueConfig) (*Queues, error) {
	queueName := cfg.JobEventsQueueName
	if queueName == "" {
		queueName = client.JobEventsQueueName
	}
	var (
		jobEventsQueueClient client.QueueClient
		err                  error
	)
	if cfg.IsSqs() {
		jobEventsQueueClient, err = client.NewSQSClient(cfg.Url, cfg.Region, queueName)
	} else {
		jobEventsQueueClient, err = client.NewQueueClient(cfg, queueName)
	}
	if err != nil {
		return nil, fmt.Errorf("error while creating JobEventsQueueClient: %w", err)
	}
	return NewWithClient(jobEventsQueueClient, cfg.PublishTimeout), nil
}

func NewWithClient(jobEvents client.QueueClient, publishTimeout time.Duration) *Queues {
	return &Queues{
		JobEventsQueueClient: jobEvents,
		publishTimeout:       publishTimeout,
	}
}

// PublishJobEvent sends the terminal snapshot of a job to the job events queue.
func (q *Queues) PublishJobEvent(ctx context.Context, snapshot pipeline.JobSnapshot) error {
	body, err := json.Marshal(NewJobEvent(snapshot))
	if err != nil {
		return fmt.Errorf("failed to marshal job event: %w", err)
	}

	if q.publishTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, q.publishTimeout)
		defer cancel()
	}
	if err := q.JobEventsQueueClient.SendMessage(ctx, string(body)); err != nil {
		return fmt.Errorf("failed to publish a message to queue %s: %w", q.JobEventsQueueClient.GetQueueName(), err)
	}
	log.Ctx(ctx).Debug().Str("jobId", snapshot.ID).Msg("job event published")
	return nil
}

func NewJobEvent(snapshot pipeline.JobSnapshot) client.JobEvent {
	intent := snapshot.Intent
	event := client.JobEvent{
		EventType:    client.JobFinishedEventType,
		JobID:        snapshot.ID,
		Protocol:     intent.Protocol,
		Kind:         intent.Kind.ToString(),
		From:         intent.From.Hex(),
		State:        snapshot.State.ToString(),
		TxHash:       snapshot.TxHash,
		Attempts:     snapshot.Attempts,
		RevertReason: snapshot.RevertReason,
		UnlockAt:     utils.FormatTimestamp(snapshot.UnlockAt),
		CreatedAt:    utils.FormatTimestamp(snapshot.CreatedAt),
		FinishedAt:   utils.FormatTimestamp(snapshot.UpdatedAt),
	}
	if intent.Amount != nil {
		event.Amount = intent.Amount.String()
	}
	switch {
	case snapshot.WithdrawalID != nil:
		event.WithdrawalID = snapshot.WithdrawalID.String()
	case intent.WithdrawalID != nil:
		event.WithdrawalID = intent.WithdrawalID.String()
	}
	if snapshot.Err != nil {
		event.Error = snapshot.Err.Error()
	}
	return event
}

func (q *Queues) IsConnectionHealthy() error {
	if err := q.JobEventsQueueClient.Ping(); err != nil {
		return fmt.Errorf("queue %s: %w", q.JobEventsQueueClient.GetQueueName(), err)
	}
	return nil
}

func (q *Queues) Stop() error {
	return q.JobEventsQueueClient.Stop()
}
