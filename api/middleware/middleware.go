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


package middleware

import (
	"crypto/subtle"
	"math"
	"strconv"
	"time"

	"github.com/blnkfinance/onboard/config"
	"github.com/blnkfinance/onboard/internal/apierror"
	"github.com/didip/tollbooth/v7"
	"github.com/didip/tollbooth/v7/limiter"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const defaultLimiterTTL = 3 * time.Hour

// RateLimiter throttles requests per caller. Identified callers get one bucket per branch
// and user; anonymous callers are bucketed by client address.
type RateLimiter struct {
	lmt        *limiter.Limiter
	retryAfter string
}

// NewRateLimiter returns nil when rate_limit has no positive requests_per_second or no burst.
// A nil limiter lets every request through.
func NewRateLimiter(conf config.RateLimitConfig) *RateLimiter {
	if conf.RequestsPerSecond == nil || conf.Burst == nil || *conf.RequestsPerSecond <= 0 {
		return nil
	}
	rps := *conf.RequestsPerSecond

	ttl := defaultLimiterTTL
	if conf.CleanupIntervalSec != nil && *conf.CleanupIntervalSec > 0 {
		ttl = time.Duration(*conf.CleanupIntervalSec) * time.Second
	}

	lmt := tollbooth.NewLimiter(rps, &limiter.ExpirableOptions{DefaultExpirationTTL: ttl})
	lmt.SetBurst(*conf.Burst)

	return &RateLimiter{
		lmt:        lmt,
		retryAfter: strconv.Itoa(int(math.Max(1, math.Ceil(1/rps)))),
	}
}

// Key names the bucket a request is charged to.
func (r *RateLimiter) Key(c *gin.Context) string {
	if caller, ok := CallerFromContext(c); ok && caller.UserID != "" && caller.UserID != anonUser {
		return "caller:" + caller.Branch + "/" + caller.UserID
	}
	return "addr:" + c.ClientIP()
}

// Limit runs after Authenticate so that the caller is already on the context.
//
// Responses:
// - 429 Too Many Requests: the caller's bucket is empty. Retry-After carries the refill time in seconds.
func (r *RateLimiter) Limit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if r == nil || c.Request.URL.Path == "/" {
			c.Next()
			return
		}

		key := r.Key(c)
		if httpErr := tollbooth.LimitByKeys(r.lmt, []string{key}); httpErr != nil {
			logrus.WithFields(logrus.Fields{"key": key, "path": c.FullPath()}).Warn("rate limit exceeded")
			err := apierror.NewAPIError(apierror.ErrRateLimited, httpErr.Message, nil)
			c.Header("Retry-After", r.retryAfter)
			c.AbortWithStatusJSON(apierror.MapErrorToHTTPStatus(err), apierror.ClientBody(err))
			return
		}
		c.Next()
	}
}

func secureCompare(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
