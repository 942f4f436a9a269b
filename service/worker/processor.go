package worker

import (
	"context"

	"gatepass/db"
	"gatepass/service/ticketing"
	"gatepass/util"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

// Queue names
const (
	QueueCritical = "critical"
	QueueDefault  = "default"
)

// Task processor interface
type TaskProcessor interface {
	Start() error
	Shutdown()
}

// Loads tickets for tasks. Implemented by *db.Queries
type TicketStore interface {
	GetTicketByID(ctx context.Context, id uuid.UUID) (*db.Ticket, error)
}

type ReceiptSender interface {
	SendReceipt(ctx context.Context, ticket *db.Ticket) error
}

type CredentialResender interface {
	Resend(ctx context.Context, id uuid.UUID, eventKey string) (*ticketing.ApproveResult, error)
}

// Redis task processor
type RedisTaskProcessor struct {
	// Asynq server
	server *asynq.Server

	// Dependencies
	store    TicketStore
	receipts ReceiptSender
	resender CredentialResender
}

// Constructor method for Redis task processor
func NewRedisTaskProcessor(
	redisOpts asynq.RedisClientOpt,
	concurrency int,
	store TicketStore,
	receipts ReceiptSender,
	resender CredentialResender,
) *RedisTaskProcessor {
	server := asynq.NewServer(redisOpts, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			QueueCritical: 6,
			QueueDefault:  3,
		},
		ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
			util.LOGGER.Error("background log: task failed", "task_name", task.Type(), "payload", string(task.Payload()), "error", err)
		}),
	})

	return newProcessor(server, store, receipts, resender)
}

func newProcessor(server *asynq.Server, store TicketStore, receipts ReceiptSender, resender CredentialResender) *RedisTaskProcessor {
	return &RedisTaskProcessor{
		server:   server,
		store:    store,
		receipts: receipts,
		resender: resender,
	}
}

// Register every task handler
func (processor *RedisTaskProcessor) mux() *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(SendPurchaseReceipt, processor.SendPurchaseReceipt)
	mux.HandleFunc(ResendCredential, processor.ResendCredential)
	return mux
}

// Method to start the worker server
func (processor *RedisTaskProcessor) Start() error {
	return processor.server.Start(processor.mux())
}

// Wait for running tasks then stop
func (processor *RedisTaskProcessor) Shutdown() {
	processor.server.Shutdown()
}
