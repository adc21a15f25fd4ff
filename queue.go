/*
Copyright 2024 Blnk Finance Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package onboard

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/blnkfinance/onboard/config"
	redis_db "github.com/blnkfinance/onboard/internal/redis-db"
	"github.com/hibiken/asynq"
)

// Queue wraps the asynq client used for webhook delivery and document sweeps.
type Queue struct {
	Client    *asynq.Client
	Inspector *asynq.Inspector
}

// RedisClientOpt converts the configured Redis DSN into asynq connection options.
func RedisClientOpt(conf *config.Configuration) (asynq.RedisClientOpt, error) {
	redisOption, err := redis_db.ParseRedisURL(conf.Redis.Dns, conf.Redis.SkipTLSVerify)
	if err != nil {
		return asynq.RedisClientOpt{}, err
	}
	return asynq.RedisClientOpt{
		Addr:      redisOption.Addr,
		Password:  redisOption.Password,
		DB:        redisOption.DB,
		TLSConfig: redisOption.TLSConfig,
	}, nil
}

// NewQueue initializes a new Queue instance with the provided configuration.
func NewQueue(conf *config.Configuration) *Queue {
	queueOptions, err := RedisClientOpt(conf)
	if err != nil {
		log.Fatalf("Error parsing Redis URL: %v", err)
	}

	return &Queue{
		Client:    asynq.NewClient(queueOptions),
		Inspector: asynq.NewInspector(queueOptions),
	}
}

// Close releases the queue's Redis connections.
func (q *Queue) Close() error {
	if err := q.Inspector.Close(); err != nil {
		return err
	}
	return q.Client.Close()
}

// NewReconcileTask builds the document sweep task. Unique keeps a burst of triggers from
// piling up identical sweeps.
func NewReconcileTask(queue string, opts ReconcileOptions) (*asynq.Task, error) {
	payload, err := json.Marshal(opts)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(queue, payload,
		asynq.Queue(queue),
		asynq.MaxRetry(1),
		asynq.Unique(10*time.Minute),
	), nil
}

// EnqueueReconcile schedules a document sweep on the reconcile queue.
func (q *Queue) EnqueueReconcile(ctx context.Context, opts ReconcileOptions) (*asynq.TaskInfo, error) {
	cfg, err := config.Fetch()
	if err != nil {
		return nil, err
	}

	task, err := NewReconcileTask(cfg.Queue.ReconcileQueue, opts)
	if err != nil {
		return nil, err
	}
	info, err := q.Client.EnqueueContext(ctx, task)
	if err != nil {
		return nil, err
	}
	log.Printf(" [*] Successfully enqueued document reconciliation: %s", info.ID)
	return info, nil
}
