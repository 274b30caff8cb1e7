package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Predefinied Queue IDs.
const (
	CreateQueue = "creation"
	UpdateQueue = "updating"
	DeleteQueue = "deletion"
)

// AuditEntry is one recorded admin action.
type AuditEntry struct {
	ID        string `json:"id"`
	Action    string `json:"action"`
	Resource  string `json:"resource"`
	RequestID string `json:"requestid"`
	At        string `json:"at"`
}

// Ensure implementations satisfy their contracts.
var (
	_ Queuer  = (*redisQueue)(nil)
	_ Auditor = (*queueAuditor)(nil)
	_ Auditor = (*nopAuditor)(nil)
)

// Queuer describes a queue of audit entries.
type Queuer interface {
	Push(ctx context.Context, qid string, entry AuditEntry) error
	Pop(ctx context.Context, qids ...string) (string, AuditEntry, error)
}

// redisQueue represents a queue which implements the Queuer interface.
type redisQueue struct {
	client *redis.Client
}

func NewRedisQueue(client *redis.Client) Queuer {
	return &redisQueue{client: client}
}

// GetRedisClient provides a ready to use redis client.
func GetRedisClient(config *Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%s", config.Redis.Host, config.Redis.Port),
		DialTimeout:  config.Redis.DialTimeout,
		ReadTimeout:  config.Redis.ReadTimeout,
		WriteTimeout: config.Redis.WriteTimeout,
		PoolSize:     config.Redis.PoolSize,
		PoolTimeout:  config.Redis.PoolTimeout,
		Password:     config.Redis.Password,
		Username:     config.Redis.Username,
		DB:           config.Redis.DatabaseIndex,
	})

	// test connection.
	if pong, err := client.Ping(context.Background()).Result(); pong != "PONG" || err != nil {
		return client, fmt.Errorf("test connection failed: %v", err)
	}
	return client, nil
}

// Push enqueues an audit entry onto the queue identified by qid.
func (q *redisQueue) Push(ctx context.Context, qid string, entry AuditEntry) error {
	entryBytes, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	return q.client.RPush(ctx, qid, entryBytes).Err()
}

// Pop returns the first dequeued audit entry from the list of queue ids.
func (q *redisQueue) Pop(ctx context.Context, qids ...string) (string, AuditEntry, error) {
	var entry AuditEntry
	var qid string
	infos, err := q.client.BLPop(ctx, 0*time.Second, qids...).Result()
	if err != nil {
		return qid, entry, err
	}

	if err = json.Unmarshal([]byte(infos[1]), &entry); err != nil {
		return qid, entry, err
	}
	qid = infos[0]
	return qid, entry, nil
}

// Auditor records admin actions for the audit trail. Recording never
// blocks a client request: failures are logged and swallowed.
type Auditor interface {
	Record(ctx context.Context, qid string, entry AuditEntry)
}

type queueAuditor struct {
	logger *zap.Logger
	queue  Queuer
}

// NewQueueAuditor provides an auditor backed by a queue.
func NewQueueAuditor(logger *zap.Logger, q Queuer) Auditor {
	return &queueAuditor{logger: logger, queue: q}
}

// Record pushes the entry onto its queue.
func (a *queueAuditor) Record(ctx context.Context, qid string, entry AuditEntry) {
	if err := a.queue.Push(ctx, qid, entry); err != nil {
		a.logger.Error("failed to record audit entry",
			zap.String("audit.id", entry.ID),
			zap.String("audit.action", entry.Action),
			zap.Error(err),
		)
	}
}

type nopAuditor struct{}

// NewNopAuditor provides an auditor which drops everything. It serves
// the setups running with the audit trail disabled.
func NewNopAuditor() Auditor {
	return &nopAuditor{}
}

func (a *nopAuditor) Record(_ context.Context, _ string, _ AuditEntry) {}
