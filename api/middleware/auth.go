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
	"errors"
	"net/http"
	"strings"

	"github.com/blnkfinance/onboard/config"
	"github.com/blnkfinance/onboard/internal/apierror"
	"github.com/blnkfinance/onboard/internal/authz"
	"github.com/blnkfinance/onboard/model"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const (
	KeyHeader    = "X-Onboard-Key"
	UserHeader   = "X-Onboard-User"
	RoleHeader   = "X-Onboard-Role"
	BranchHeader = "X-Onboard-Branch"

	callerKey  = "caller"
	masterUser = "master"
	anonUser   = "anonymous"
)

var errAuthRequired = errors.New("authentication required. Use a bearer token or the X-Onboard-Key header")

// AuthMiddleware resolves the caller of every request and checks the route's permission
// against the caller's role.
type AuthMiddleware struct {
	authorizer *authz.Authorizer
}

// NewAuthMiddleware creates a new instance of AuthMiddleware.
func NewAuthMiddleware(authorizer *authz.Authorizer) *AuthMiddleware {
	return &AuthMiddleware{authorizer: authorizer}
}

// Authenticate returns the middleware guarding every route except the root.
//
// Responses:
// - 401 Unauthorized: no credentials, or an invalid key or token.
// - 403 Forbidden: the caller's role lacks the route's permission.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.URL.Path == "/" {
			c.Next()
			return
		}

		conf, err := config.Fetch()
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "configuration is not loaded"})
			return
		}

		caller, err := resolveCaller(c, conf)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}

		permission, ok := RequiredPermission(c.Request.Method, c.Request.URL.Path)
		if !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Unknown resource type"})
			return
		}

		allowed, err := m.authorizer.Allowed(string(caller.Role), permission)
		if err != nil {
			logrus.WithError(err).WithField("permission", permission).Error("permission check failed")
			c.AbortWithStatusJSON(http.StatusInternalServerError, apierror.ClientBody(err))
			return
		}
		if !allowed {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions for " + permission})
			return
		}

		c.Set(callerKey, caller)
		c.Next()
	}
}

// resolveCaller tries the master key, then a bearer token. With secure mode off the
// identity headers are trusted and an anonymous request acts as admin.
func resolveCaller(c *gin.Context, conf *config.Configuration) (model.Caller, error) {
	if key := c.GetHeader(KeyHeader); key != "" {
		if conf.Server.SecretKey == "" || !secureCompare(conf.Server.SecretKey, key) {
			return model.Caller{}, errors.New("invalid secret key")
		}
		return model.Caller{UserID: masterUser, Role: model.RoleAdmin}, nil
	}

	if header := c.GetHeader("Authorization"); header != "" {
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok {
			return model.Caller{}, errors.New("authorization header must be a bearer token")
		}
		claims, err := ParseToken(conf.Server.JWTSecret, strings.TrimSpace(token))
		if err != nil {
			return model.Caller{}, err
		}
		return claims.Caller(), nil
	}

	if conf.Server.Secure {
		return model.Caller{}, errAuthRequired
	}

	caller := model.Caller{
		UserID: c.GetHeader(UserHeader),
		Role:   model.Role(c.GetHeader(RoleHeader)),
		Branch: c.GetHeader(BranchHeader),
	}
	if caller.Role == "" {
		caller.Role = model.RoleAdmin
	}
	if caller.UserID == "" {
		caller.UserID = anonUser
	}
	return caller, nil
}

// CallerFromContext returns the caller stored by Authenticate.
func CallerFromContext(c *gin.Context) (model.Caller, bool) {
	value, ok := c.Get(callerKey)
	if !ok {
		return model.Caller{}, false
	}
	caller, ok := value.(model.Caller)
	return caller, ok
}
