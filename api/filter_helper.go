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
	"fmt"
	"strconv"
	"strings"

	"github.com/blnkfinance/onboard/model"
	"github.com/gin-gonic/gin"
)

// ParseCustomerQuery reads the customer list query parameters:
//
//   - page, page_size: 1-based page number and size; the service clamps the size
//   - search: case-insensitive substring over name, first name, branch code and sequence number
//   - sort_by: name, branch, seq_id or status; sort_desc=true reverses it
//   - status: comma separated lifecycle statuses (New, Update)
//   - review_status: comma separated review statuses (Pending, Approved, Rejected)
func ParseCustomerQuery(c *gin.Context) (model.CustomerQuery, error) {
	q := model.CustomerQuery{
		PageNumber: 1,
		Search:     strings.TrimSpace(c.Query("search")),
		SortBy:     model.ResolveCustomerSortKey(c.Query("sort_by")),
	}

	var err error
	if q.PageNumber, err = intParam(c, "page", 1); err != nil {
		return q, err
	}
	if q.PageSize, err = intParam(c, "page_size", 0); err != nil {
		return q, err
	}
	if raw := c.Query("sort_desc"); raw != "" {
		if q.SortDescending, err = strconv.ParseBool(raw); err != nil {
			return q, fmt.Errorf("sort_desc must be true or false")
		}
	}

	for _, s := range model.SplitList(c.Query("status")) {
		status := model.LifecycleStatus(s)
		if !status.Valid() {
			return q, fmt.Errorf("unknown status %q", s)
		}
		q.Statuses = append(q.Statuses, status)
	}
	for _, s := range model.SplitList(c.Query("review_status")) {
		status, ok := model.ParseReviewStatus(s)
		if !ok {
			return q, fmt.Errorf("unknown review_status %q", s)
		}
		q.ReviewStatuses = append(q.ReviewStatuses, status)
	}
	return q, nil
}

func intParam(c *gin.Context, name string, fallback int) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%s must be a non-negative integer", name)
	}
	return n, nil
}
