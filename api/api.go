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
	"net/http"

	"github.com/blnkfinance/onboard"
	"github.com/blnkfinance/onboard/api/middleware"
	"github.com/blnkfinance/onboard/config"
	"github.com/blnkfinance/onboard/internal/apierror"
	"github.com/blnkfinance/onboard/internal/authz"
	"github.com/blnkfinance/onboard/model"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

// multipartMemory caps the part of a multipart body kept in memory; the rest spills to
// temporary files.
const multipartMemory = 32 << 20

type Api struct {
	onboard *onboard.Onboard
	router  *gin.Engine
}

func (a Api) Router() *gin.Engine {
	router := a.router
	router.POST("/customers", a.CreateCustomer)
	router.GET("/customers", a.ListCustomers)
	router.GET("/customers/:id", a.GetCustomer)
	router.PUT("/customers/:id", a.UpdateCustomer)
	router.POST("/customers/:id/review", a.ReviewCustomer)
	router.POST("/customers/:id/documents", a.UploadDocument)

	router.POST("/accounts", a.CreateAccount)

	router.GET("/documents/:id", a.GetDocument)
	router.DELETE("/documents/:id", a.DeleteDocument)

	router.POST("/reconciliation/documents", a.ReconcileDocuments)
	return a.router
}

func NewAPI(o *onboard.Onboard) (*Api, error) {
	gin.SetMode(gin.ReleaseMode)
	conf, err := config.Fetch()
	if err != nil {
		return nil, err
	}
	authorizer, err := authz.New(conf.Roles)
	if err != nil {
		return nil, err
	}

	r := gin.New()
	r.MaxMultipartMemory = multipartMemory
	r.Use(gin.Logger(), gin.Recovery())
	r.Use(otelgin.Middleware("onboard"))
	r.Use(middleware.NewAuthMiddleware(authorizer).Authenticate())
	r.Use(middleware.NewRateLimiter(conf.RateLimit).Limit())

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, "server running...")
	})

	return &Api{onboard: o, router: r}, nil
}

func respondError(c *gin.Context, err error) {
	c.JSON(apierror.MapErrorToHTTPStatus(err), apierror.ClientBody(err))
}

func invalidInput(c *gin.Context, message string, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": message, "details": err.Error()})
}

func callerOf(c *gin.Context) model.Caller {
	caller, _ := middleware.CallerFromContext(c)
	return caller
}
