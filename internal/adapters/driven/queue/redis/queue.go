// Package redis implements the sync job queue on Redis so several worker
// hosts can share one queue.
//
// Keys, all under the configured prefix:
//
//	jobs     hash of job ID to JSON payload
//	pending  list of job IDs in FIFO order
//	running  sorted set of leased job IDs scored by lease deadline (unix ms)
//	buried   hash of job ID to bury reason
//	done     counter of acknowledged jobs
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/custodia-labs/storesync/internal/core/domain"
	"github.com/custodia-labs/storesync/internal/core/ports/driven"
)

// DefaultKeyPrefix namespaces queue keys when no prefix is configured.
const DefaultKeyPrefix = "storesync:"

// DefaultLeaseTimeout is how long a dequeued job may run before redelivery.
const DefaultLeaseTimeout = 5 * time.Minute

// Config holds Redis connection configuration.
type Config struct {
	Addr         string
	Password     string
	DB           int
	KeyPrefix    string
	LeaseTimeout time.Duration
}

// dequeueScript moves the head of pending into running and returns its payload.
var dequeueScript = goredis.NewScript(`
local id = redis.call('LPOP', KEYS[1])
if not id then
	return false
end
redis.call('ZADD', KEYS[2], ARGV[1], id)
return redis.call('HGET', KEYS[3], id)
`)

// requeueScript returns expired leases to the head of pending.
var requeueScript = goredis.NewScript(`
local ids = redis.call('ZRANGEBYSCORE', KEYS[1], '-inf', ARGV[1])
for i = #ids, 1, -1 do
	if redis.call('ZREM', KEYS[1], ids[i]) == 1 then
		redis.call('LPUSH', KEYS[2], ids[i])
	end
end
return #ids
`)

// Queue implements driven.JobQueue on Redis.
type Queue struct {
	client       *goredis.Client
	prefix       string
	leaseTimeout time.Duration
	now          func() time.Time
}

var _ driven.JobQueue = (*Queue)(nil)

// NewQueue connects to Redis and verifies the connection.
func NewQueue(cfg Config) (*Queue, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewQueueWithClient(client, cfg.KeyPrefix, cfg.LeaseTimeout), nil
}

// NewQueueWithClient creates a queue over an existing client.
func NewQueueWithClient(client *goredis.Client, keyPrefix string, leaseTimeout time.Duration) *Queue {
	if keyPrefix == "" {
		keyPrefix = DefaultKeyPrefix
	}
	if leaseTimeout <= 0 {
		leaseTimeout = DefaultLeaseTimeout
	}
	return &Queue{
		client:       client,
		prefix:       keyPrefix,
		leaseTimeout: leaseTimeout,
		now:          time.Now,
	}
}

func (q *Queue) key(name string) string {
	return q.prefix + name
}

// Enqueue stores the job payload and appends it to pending.
func (q *Queue) Enqueue(ctx context.Context, job domain.SyncJob) error {
	payload, err := encodeJob(job)
	if err != nil {
		return err
	}

	_, err = q.client.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		pipe.HSet(ctx, q.key("jobs"), job.ID, payload)
		pipe.HDel(ctx, q.key("buried"), job.ID)
		pipe.ZRem(ctx, q.key("running"), job.ID)
		pipe.RPush(ctx, q.key("pending"), job.ID)
		return nil
	})
	if err != nil {
		return fmt.Errorf("enqueueing job: %w", err)
	}
	return nil
}

// Dequeue leases the oldest pending job after returning expired leases to pending.
func (q *Queue) Dequeue(ctx context.Context) (*domain.SyncJob, error) {
	now := q.now()

	err := requeueScript.Run(ctx, q.client,
		[]string{q.key("running"), q.key("pending")},
		now.UnixMilli()).Err()
	if err != nil {
		return nil, fmt.Errorf("requeueing expired jobs: %w", err)
	}

	deadline := now.Add(q.leaseTimeout).UnixMilli()
	payload, err := dequeueScript.Run(ctx, q.client,
		[]string{q.key("pending"), q.key("running"), q.key("jobs")},
		deadline).Text()
	if errors.Is(err, goredis.Nil) {
		return nil, domain.ErrQueueEmpty
	}
	if err != nil {
		return nil, fmt.Errorf("dequeueing job: %w", err)
	}
	return decodeJob(payload)
}

// Complete acknowledges a leased job.
func (q *Queue) Complete(ctx context.Context, jobID string) error {
	if err := q.release(ctx, jobID); err != nil {
		return err
	}
	_, err := q.client.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		pipe.HDel(ctx, q.key("jobs"), jobID)
		pipe.Incr(ctx, q.key("done"))
		return nil
	})
	if err != nil {
		return fmt.Errorf("completing job %s: %w", jobID, err)
	}
	return nil
}

// Bury marks a leased job permanently failed. The payload is kept.
func (q *Queue) Bury(ctx context.Context, jobID, reason string) error {
	if err := q.release(ctx, jobID); err != nil {
		return err
	}
	if err := q.client.HSet(ctx, q.key("buried"), jobID, reason).Err(); err != nil {
		return fmt.Errorf("burying job %s: %w", jobID, err)
	}
	return nil
}

// release drops a job's lease; a job that is not leased is not found.
func (q *Queue) release(ctx context.Context, jobID string) error {
	n, err := q.client.ZRem(ctx, q.key("running"), jobID).Result()
	if err != nil {
		return fmt.Errorf("releasing job %s: %w", jobID, err)
	}
	if n == 0 {
		return fmt.Errorf("job %s is not running: %w", jobID, domain.ErrNotFound)
	}
	return nil
}

// Stats returns queue depth by status.
func (q *Queue) Stats(ctx context.Context) (domain.QueueStats, error) {
	var stats domain.QueueStats

	var pending, running, buried *goredis.IntCmd
	var done *goredis.StringCmd
	_, err := q.client.Pipelined(ctx, func(pipe goredis.Pipeliner) error {
		pending = pipe.LLen(ctx, q.key("pending"))
		running = pipe.ZCard(ctx, q.key("running"))
		buried = pipe.HLen(ctx, q.key("buried"))
		done = pipe.Get(ctx, q.key("done"))
		return nil
	})
	if err != nil && !errors.Is(err, goredis.Nil) {
		return stats, fmt.Errorf("querying queue stats: %w", err)
	}

	stats.Pending = int(pending.Val())
	stats.Running = int(running.Val())
	stats.Buried = int(buried.Val())
	if v := done.Val(); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return stats, fmt.Errorf("parsing done counter: %w", err)
		}
		stats.Done = n
	}
	return stats, nil
}

// BuriedReason returns the reason a job was buried.
func (q *Queue) BuriedReason(ctx context.Context, jobID string) (string, error) {
	reason, err := q.client.HGet(ctx, q.key("buried"), jobID).Result()
	if errors.Is(err, goredis.Nil) {
		return "", domain.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("querying buried job: %w", err)
	}
	return reason, nil
}

// Close closes the Redis client.
func (q *Queue) Close() error {
	return q.client.Close()
}

// GetClient returns the underlying Redis client.
func (q *Queue) GetClient() *goredis.Client {
	return q.client
}

func encodeJob(job domain.SyncJob) (string, error) {
	data, err := json.Marshal(job)
	if err != nil {
		return "", fmt.Errorf("encoding job %s: %w", job.ID, err)
	}
	return string(data), nil
}

func decodeJob(payload string) (*domain.SyncJob, error) {
	var job domain.SyncJob
	if err := json.Unmarshal([]byte(payload), &job); err != nil {
		return nil, fmt.Errorf("decoding job: %w", err)
	}
	return &job, nil
}
