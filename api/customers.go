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
	"encoding/json"
	"net/http"
	"strings"

	model2 "github.com/blnkfinance/onboard/api/model"
	"github.com/blnkfinance/onboard/model"
	"github.com/gin-gonic/gin"
)

// CreateCustomer onboards a customer with its accounts, optional compliance record and
// documents. The body is either JSON, or multipart with the JSON in the "payload" field and
// one file field per document type.
//
// Responses:
// - 400 Bad Request: malformed body, failed validation or duplicates.
// - 403 Forbidden: the caller may not onboard into the requested branch.
// - 201 Created: the stored customer with its accounts and documents.
func (a Api) CreateCustomer(c *gin.Context) {
	var payload model2.OnboardCustomer
	var uploads []model.DocumentUpload

	if strings.HasPrefix(c.ContentType(), "multipart/") {
		form, err := c.MultipartForm()
		if err != nil {
			invalidInput(c, "invalid multipart body", err)
			return
		}
		raw := form.Value["payload"]
		if len(raw) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "payload field is required"})
			return
		}
		if err := json.Unmarshal([]byte(raw[0]), &payload); err != nil {
			invalidInput(c, "invalid payload", err)
			return
		}

		var closeUploads func()
		uploads, closeUploads, err = openUploads(form)
		defer closeUploads()
		if err != nil {
			invalidInput(c, "unreadable document", err)
			return
		}
	} else if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := payload.ValidateOnboardCustomer(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	req := payload.ToRequest(callerOf(c))
	req.Documents = uploads
	resp, err := a.onboard.CreateCustomer(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// ListCustomers returns one page of customers visible to the caller.
func (a Api) ListCustomers(c *gin.Context) {
	query, err := ParseCustomerQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	page, err := a.onboard.ListCustomers(c.Request.Context(), query, callerOf(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// GetCustomer returns a customer with its accounts and documents. Customers hidden from the
// caller are reported as not found.
func (a Api) GetCustomer(c *gin.Context) {
	id, passed := c.Params.Get("id")
	if !passed {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id is required. pass id in the route /:id"})
		return
	}

	resp, err := a.onboard.GetCustomer(c.Request.Context(), id, callerOf(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// UpdateCustomer amends a customer profile and sends it back for review.
func (a Api) UpdateCustomer(c *gin.Context) {
	id, passed := c.Params.Get("id")
	if !passed {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id is required. pass id in the route /:id"})
		return
	}

	var update model2.UpdateCustomer
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := update.ValidateUpdateCustomer(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	resp, err := a.onboard.UpdateCustomer(c.Request.Context(), id, update.Customer, callerOf(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ReviewCustomer moves a pending customer to Approved or Rejected.
//
// Responses:
// - 400 Bad Request: the target status is not Approved or Rejected.
// - 403 Forbidden: the caller's role may not make this decision.
// - 409 Conflict: the customer is no longer pending.
// - 200 OK: the review was recorded.
func (a Api) ReviewCustomer(c *gin.Context) {
	id, passed := c.Params.Get("id")
	if !passed {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id is required. pass id in the route /:id"})
		return
	}

	var review model2.ReviewCustomer
	if err := c.ShouldBindJSON(&review); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := review.ValidateReviewCustomer(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	if _, err := a.onboard.ReviewCustomer(c.Request.Context(), id, review.Status(), callerOf(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"customer_id": id, "review_status": review.Status()})
}
