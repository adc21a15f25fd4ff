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
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/blnkfinance/onboard/config"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewReconcileTask(t *testing.T) {
	task, err := NewReconcileTask("documents:reconcile", ReconcileOptions{Prune: true, GracePeriod: time.Minute})
	require.NoError(t, err)
	assert.Equal(t, "documents:reconcile", task.Type())

	var opts ReconcileOptions
	require.NoError(t, json.Unmarshal(task.Payload(), &opts))
	assert.True(t, opts.Prune)
	assert.Equal(t, time.Minute, opts.GracePeriod)
}

func TestEnqueueReconcile(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := &config.Configuration{
		Redis: config.RedisConfig{Dns: mr.Addr()},
		Queue: config.QueueConfig{ReconcileQueue: "documents:reconcile"},
	}
	config.MockConfig(cfg)

	q := NewQueue(cfg)
	defer q.Close()

	info, err := q.EnqueueReconcile(context.Background(), ReconcileOptions{})
	require.NoError(t, err)
	assert.Equal(t, "documents:reconcile", info.Queue)
	assert.Equal(t, "documents:reconcile", info.Type)
	assert.Equal(t, 1, info.MaxRetry)

	_, err = q.EnqueueReconcile(context.Background(), ReconcileOptions{})
	assert.True(t, errors.Is(err, asynq.ErrDuplicateTask))
}

func TestRedisClientOpt(t *testing.T) {
	opt, err := RedisClientOpt(&config.Configuration{Redis: config.RedisConfig{Dns: "redis://:pw@cache.internal:6380"}})
	require.NoError(t, err)
	assert.Equal(t, "cache.internal:6380", opt.Addr)
	assert.Equal(t, "pw", opt.Password)
}
