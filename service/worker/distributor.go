package worker

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"gatepass/util"

	"github.com/hibiken/asynq"
)

// Queues the background work of the ticket lifecycle
type TaskDistributor interface {
	DistributeSendPurchaseReceipt(ctx context.Context, payload SendPurchaseReceiptPayload, opts ...asynq.Option) error
	DistributeResendCredential(ctx context.Context, payload ResendCredentialPayload, opts ...asynq.Option) error
}

// The part of asynq.Client the distributor needs
type enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
	Close() error
}

// Options applied to each task type before the caller's own
var taskDefaults = map[string][]asynq.Option{
	SendPurchaseReceipt: {asynq.MaxRetry(5), asynq.Queue(QueueDefault), asynq.Timeout(time.Minute)},
	ResendCredential:    {asynq.MaxRetry(3), asynq.Queue(QueueCritical), asynq.Timeout(2 * time.Minute)},
}

// Redis task distributor
type RedisTaskDistributor struct {
	client enqueuer
}

func NewRedisTaskDistributor(redisOpt asynq.RedisClientOpt) *RedisTaskDistributor {
	return &RedisTaskDistributor{client: asynq.NewClient(redisOpt)}
}

// A ticket gets one receipt, however often its creation is retried
func (distributor *RedisTaskDistributor) DistributeSendPurchaseReceipt(ctx context.Context, payload SendPurchaseReceiptPayload, opts ...asynq.Option) error {
	opts = append([]asynq.Option{asynq.TaskID("receipt:" + payload.TicketID.String())}, opts...)
	err := distributor.enqueue(ctx, SendPurchaseReceipt, payload, opts...)
	if errors.Is(err, asynq.ErrTaskIDConflict) {
		util.LOGGER.Info("Receipt already queued", "ticket_id", payload.TicketID)
		return nil
	}
	return err
}

func (distributor *RedisTaskDistributor) DistributeResendCredential(ctx context.Context, payload ResendCredentialPayload, opts ...asynq.Option) error {
	return distributor.enqueue(ctx, ResendCredential, payload, opts...)
}

func (distributor *RedisTaskDistributor) enqueue(ctx context.Context, taskType string, payload any, opts ...asynq.Option) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	// Later options win, so callers can override the defaults
	options := append(append([]asynq.Option{}, taskDefaults[taskType]...), opts...)
	info, err := distributor.client.EnqueueContext(ctx, asynq.NewTask(taskType, data), options...)
	if err != nil {
		return err
	}

	util.LOGGER.Info("Task queued", "task_type", taskType, "task_id", info.ID, "queue", info.Queue, "max_retry", info.MaxRetry)
	return nil
}

// Close the underlying Redis connection
func (distributor *RedisTaskDistributor) Close() error {
	return distributor.client.Close()
}
