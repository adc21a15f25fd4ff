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
	"embed"
	"time"

	"github.com/blnkfinance/onboard/config"
	"github.com/blnkfinance/onboard/database"
	"github.com/blnkfinance/onboard/internal/blob"
	redis_db "github.com/blnkfinance/onboard/internal/redis-db"
	"github.com/blnkfinance/onboard/model"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("onboard")

// Onboard is the customer onboarding and review service.
type Onboard struct {
	queue      *Queue
	redis      redis.UniversalClient
	datasource database.IDataSource
	blobs      blob.Store
	now        func() time.Time
}

//go:embed sql/*.sql
var SQLFiles embed.FS

// NewOnboard wires the service to its datasource, the configured blob store, Redis and the task queue.
func NewOnboard(db database.IDataSource) (*Onboard, error) {
	configuration, err := config.Fetch()
	if err != nil {
		return nil, err
	}
	redisClient, err := redis_db.FromConfig(configuration)
	if err != nil {
		return nil, err
	}
	blobs, err := blob.New(configuration.BlobStore)
	if err != nil {
		return nil, err
	}

	return NewOnboardWithStores(db, blobs, NewQueue(configuration), redisClient.Client()), nil
}

// NewOnboardWithStores builds the service over stores the caller already owns. queue and
// client may be nil when webhooks and document sweeps are not used.
func NewOnboardWithStores(db database.IDataSource, blobs blob.Store, queue *Queue, client redis.UniversalClient) *Onboard {
	return &Onboard{
		datasource: db,
		queue:      queue,
		redis:      client,
		blobs:      blobs,
		now:        time.Now,
	}
}

// Queue exposes the task queue used for webhooks and document sweeps.
func (o *Onboard) Queue() *Queue {
	return o.queue
}

func (o *Onboard) clock() time.Time {
	if o.now == nil {
		return time.Now().UTC()
	}
	return o.now().UTC()
}

// settings are the onboarding knobs with fallbacks for a partially filled configuration.
type settings struct {
	floor           int64
	attempts        int
	defaultPageSize int
	maxPageSize     int
}

func loadSettings() settings {
	s := settings{
		floor:           model.MinCustomerSequence,
		attempts:        3,
		defaultPageSize: config.DEFAULT_PAGE_SIZE,
		maxPageSize:     config.MAX_PAGE_SIZE,
	}
	cfg, err := config.Fetch()
	if err != nil {
		return s
	}
	if cfg.Onboarding.SequenceFloor > 0 {
		s.floor = cfg.Onboarding.SequenceFloor
	}
	if cfg.Onboarding.SequenceRetries > 0 {
		s.attempts = cfg.Onboarding.SequenceRetries
	}
	if cfg.Onboarding.DefaultPageSize > 0 {
		s.defaultPageSize = cfg.Onboarding.DefaultPageSize
	}
	if cfg.Onboarding.MaxPageSize > 0 {
		s.maxPageSize = cfg.Onboarding.MaxPageSize
	}
	return s
}

// invalidate drops the cached aggregate of a customer. Failures only cost freshness.
func (o *Onboard) invalidate(ctx context.Context, customerID string) {
	if err := o.datasource.InvalidateCustomer(ctx, customerID); err != nil {
		logrus.WithError(err).WithField("customer_id", customerID).Warn("failed to invalidate customer cache")
	}
}
