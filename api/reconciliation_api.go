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

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/blnkfinance/onboard"
	model2 "github.com/blnkfinance/onboard/api/model"
	"github.com/blnkfinance/onboard/config"
	redlock "github.com/blnkfinance/onboard/internal/lock"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// ReconcileDocuments triggers a document sweep. By default the sweep is queued for the
// workers; "wait": true runs it inline and returns the report.
//
// Responses:
// - 202 Accepted: the sweep was queued.
// - 200 OK: the inline sweep finished.
// - 409 Conflict: another sweep holds the lock.
func (a Api) ReconcileDocuments(c *gin.Context) {
	var req model2.Reconcile
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}
	if err := req.ValidateReconcile(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	defaults := time.Hour
	if conf, err := config.Fetch(); err == nil {
		defaults = onboard.ReconcileOptionsFromConfig(conf).GracePeriod
	}
	prune, grace := req.ToOptions(defaults)
	opts := onboard.ReconcileOptions{Prune: prune, GracePeriod: grace}

	if !req.Wait {
		info, err := a.onboard.ScheduleReconcile(c.Request.Context(), opts)
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusAccepted, gin.H{"task_id": info.ID, "queue": info.Queue})
		return
	}

	report, err := a.onboard.ReconcileDocuments(c.Request.Context(), opts)
	var held redlock.ErrLockHeld
	if errors.As(err, &held) {
		c.JSON(http.StatusConflict, gin.H{"error": "a document sweep is already running"})
		return
	}
	if err != nil {
		logrus.WithError(err).Error("inline document sweep failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "document sweep failed"})
		return
	}
	c.JSON(http.StatusOK, report)
}
