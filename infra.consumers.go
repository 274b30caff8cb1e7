package main

import (
	"context"

	"go.uber.org/zap"
)

type Consumer interface {
	Consume(ctx context.Context, qids ...string) error
}

type boltDBConsumer struct {
	logger *zap.Logger
	queue  Queuer
	repo   AuditStorage
}

func NewBoltDBConsumer(logger *zap.Logger, q Queuer, repo AuditStorage) Consumer {
	return &boltDBConsumer{logger, q, repo}
}

// Consume drains the audit queues and persists every entry. It only
// returns once the context is done.
func (bc *boltDBConsumer) Consume(ctx context.Context, qids ...string) error {
	var entry AuditEntry
	var err error
	var qid string
	for {
		qid, entry, err = bc.queue.Pop(ctx, qids...)
		if err != nil && ctx.Err() != nil {
			bc.logger.Info("consumer: queue pop call: context is done: exit", zap.String("reason", ctx.Err().Error()))
			return nil
		}

		if err != nil {
			bc.logger.Error("consumer: error on queue pop call", zap.Error(err))
			continue
		}

		if err = bc.repo.Save(ctx, entry); err != nil {
			bc.logger.Error("consumer: failed to save audit entry",
				zap.String("audit.queue", qid),
				zap.Any("audit.entry", entry),
				zap.Error(err),
			)
		}
	}
}
