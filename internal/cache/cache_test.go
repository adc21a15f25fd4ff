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

package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cachedCustomer struct {
	CustomerID string `json:"customer_id"`
	Name       string `json:"name"`
}

func newTestCache(t *testing.T) *RedisCache {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisCache(client)
}

func TestSetAndGet(t *testing.T) {
	ctx := context.Background()
	c := newTestCache(t)

	want := cachedCustomer{CustomerID: "0586000", Name: "Ali Hassan"}
	require.NoError(t, c.Set(ctx, CustomerKey(want.CustomerID), want, 10*time.Minute))

	var got cachedCustomer
	require.NoError(t, c.Get(ctx, CustomerKey(want.CustomerID), &got))
	assert.Equal(t, want, got)
	assert.True(t, c.Exists(ctx, CustomerKey(want.CustomerID)))
}

func TestGetMissIsNotAnError(t *testing.T) {
	ctx := context.Background()
	c := newTestCache(t)

	var got cachedCustomer
	err := c.Get(ctx, CustomerKey("missing"), &got)
	assert.NoError(t, err)
	assert.Empty(t, got.CustomerID)
	assert.False(t, c.Exists(ctx, CustomerKey("missing")))
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	c := newTestCache(t)

	key := CustomerKey("0586001")
	require.NoError(t, c.Set(ctx, key, cachedCustomer{CustomerID: "0586001"}, time.Minute))
	require.NoError(t, c.Delete(ctx, key))
	assert.False(t, c.Exists(ctx, key))

	assert.NoError(t, c.Delete(ctx, key))
}

func TestCustomerKey(t *testing.T) {
	assert.Equal(t, "customer:0586000", CustomerKey("0586000"))
}
