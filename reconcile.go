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
	"time"

	"github.com/blnkfinance/onboard/config"
	"github.com/blnkfinance/onboard/internal/apierror"
	"github.com/blnkfinance/onboard/internal/blob"
	redlock "github.com/blnkfinance/onboard/internal/lock"
	"github.com/blnkfinance/onboard/model"
	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus"
)

const (
	reconcileLockKey   = "onboard:documents:reconcile"
	reconcileLockTTL   = 10 * time.Minute
	reconcileBatchSize = 500
)

var errNoRedis = errors.New("document reconciliation requires a redis client")

// ReconcileOptions controls one document sweep.
type ReconcileOptions struct {
	// Prune deletes what the sweep finds instead of only reporting it.
	Prune bool `json:"prune"`
	// GracePeriod protects fresh blobs whose row may still be on its way.
	GracePeriod time.Duration `json:"grace_period"`
}

// ReconcileReport lists the inconsistencies found between document rows and stored blobs.
type ReconcileReport struct {
	DocumentsChecked int              `json:"documents_checked"`
	MissingBlobs     []model.Document `json:"missing_blobs"`
	OrphanBlobs      []blob.Info      `json:"orphan_blobs"`
	PrunedRows       int              `json:"pruned_rows"`
	PrunedBlobs      int              `json:"pruned_blobs"`
}

// ReconcileOptionsFromConfig reads the sweep defaults from the queue configuration.
func ReconcileOptionsFromConfig(cfg *config.Configuration) ReconcileOptions {
	return ReconcileOptions{
		Prune:       cfg.Queue.PruneOrphans,
		GracePeriod: time.Duration(cfg.Queue.OrphanGracePeriodSec) * time.Second,
	}
}

// ReconcileDocuments finds document rows whose blob is gone and blobs no row owns. Only one
// sweep runs at a time; a concurrent call gets redlock.ErrLockHeld.
func (o *Onboard) ReconcileDocuments(ctx context.Context, opts ReconcileOptions) (*ReconcileReport, error) {
	ctx, span := tracer.Start(ctx, "ReconcileDocuments")
	defer span.End()

	if o.redis == nil {
		return nil, errNoRedis
	}
	locker := redlock.NewLocker(o.redis, reconcileLockKey, model.GenerateUUIDWithSuffix("sweep"))
	if err := locker.Lock(ctx, reconcileLockTTL); err != nil {
		return nil, err
	}
	defer func() {
		if err := locker.Unlock(context.Background()); err != nil {
			logrus.WithError(err).Warn("failed to release reconciliation lock")
		}
	}()

	report, err := o.reconcile(ctx, opts, locker)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"documents_checked": report.DocumentsChecked,
		"missing_blobs":     len(report.MissingBlobs),
		"orphan_blobs":      len(report.OrphanBlobs),
		"pruned_rows":       report.PrunedRows,
		"pruned_blobs":      report.PrunedBlobs,
	}).Info("document reconciliation finished")
	return report, nil
}

func (o *Onboard) reconcile(ctx context.Context, opts ReconcileOptions, locker *redlock.Locker) (*ReconcileReport, error) {
	report := &ReconcileReport{MissingBlobs: []model.Document{}, OrphanBlobs: []blob.Info{}}
	owned := make(map[string]struct{})

	afterID := ""
	for {
		docs, err := o.datasource.ListDocuments(ctx, afterID, reconcileBatchSize)
		if err != nil {
			return nil, err
		}
		for _, doc := range docs {
			report.DocumentsChecked++
			owned[doc.Path] = struct{}{}

			_, err := o.blobs.Stat(ctx, doc.Path)
			if errors.Is(err, blob.ErrNotFound) {
				report.MissingBlobs = append(report.MissingBlobs, doc)
				continue
			}
			if err != nil {
				return nil, err
			}
		}
		if len(docs) < reconcileBatchSize {
			break
		}
		afterID = docs[len(docs)-1].DocumentID
		if err := locker.ExtendLock(ctx, reconcileLockTTL); err != nil {
			return nil, err
		}
	}

	stored, err := o.blobs.List(ctx, "")
	if err != nil {
		return nil, err
	}
	cutoff := o.clock().Add(-opts.GracePeriod)
	for _, info := range stored {
		if _, ok := owned[info.Path]; ok {
			continue
		}
		if info.ModTime.After(cutoff) {
			continue
		}
		report.OrphanBlobs = append(report.OrphanBlobs, info)
	}

	if opts.Prune {
		o.prune(ctx, report)
	}
	return report, nil
}

func (o *Onboard) prune(ctx context.Context, report *ReconcileReport) {
	for _, doc := range report.MissingBlobs {
		_, err := o.datasource.DeleteDocument(ctx, doc.DocumentID)
		if err != nil && !apierror.HasCode(err, apierror.ErrNotFound) {
			logrus.WithError(err).WithField("document_id", doc.DocumentID).Error("failed to prune document row")
			continue
		}
		report.PrunedRows++
		o.invalidate(ctx, doc.CustomerID)
	}

	for _, info := range report.OrphanBlobs {
		err := o.blobs.Delete(ctx, info.Path)
		if err != nil && !errors.Is(err, blob.ErrNotFound) {
			logrus.WithError(err).WithField("path", info.Path).Error("failed to prune orphan blob")
			continue
		}
		report.PrunedBlobs++
	}
}

// ScheduleReconcile queues a sweep for the workers.
func (o *Onboard) ScheduleReconcile(ctx context.Context, opts ReconcileOptions) (*asynq.TaskInfo, error) {
	if o.queue == nil {
		return nil, errors.New("task queue is not configured")
	}
	return o.queue.EnqueueReconcile(ctx, opts)
}

// ProcessReconcileTask runs a sweep queued on asynq. A sweep already in progress makes the
// task a no-op.
func (o *Onboard) ProcessReconcileTask(ctx context.Context, task *asynq.Task) error {
	var opts ReconcileOptions
	if len(task.Payload()) > 0 {
		if err := json.Unmarshal(task.Payload(), &opts); err != nil {
			return err
		}
	}

	_, err := o.ReconcileDocuments(ctx, opts)
	var held redlock.ErrLockHeld
	if errors.As(err, &held) {
		logrus.Info("document reconciliation already running, skipping")
		return nil
	}
	return err
}
