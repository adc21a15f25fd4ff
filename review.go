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
	"fmt"
	"time"

	"github.com/blnkfinance/onboard/internal/apierror"
	"github.com/blnkfinance/onboard/model"
	"github.com/sirupsen/logrus"
	"github.com/wacul/ptr"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// ReviewOutcome is the payload of the customer.reviewed webhook.
type ReviewOutcome struct {
	CustomerID   string             `json:"customer_id"`
	BranchCode   string             `json:"branch_code"`
	ReviewStatus model.ReviewStatus `json:"review_status"`
	ReviewedBy   string             `json:"reviewed_by"`
	ReviewedAt   *time.Time         `json:"reviewed_at"`
}

// ReviewCustomer moves a Pending customer to Approved or Rejected on behalf of caller.
func (o *Onboard) ReviewCustomer(ctx context.Context, customerID string, target model.ReviewStatus, caller model.Caller) (bool, error) {
	ctx, span := tracer.Start(ctx, "ReviewCustomer", trace.WithAttributes(
		attribute.String("customer.id", customerID),
		attribute.String("review.target", string(target)),
	))
	defer span.End()

	if target != model.ReviewApproved && target != model.ReviewRejected {
		return false, apierror.NewAPIError(apierror.ErrInvalidInput,
			fmt.Sprintf("invalid review status %q, expected Approved or Rejected", target), nil)
	}

	current, err := o.datasource.GetCustomerByID(ctx, customerID)
	if err != nil {
		return false, storeError("failed to fetch customer", err, logrus.Fields{"customer_id": customerID})
	}
	if !caller.CanAccessBranch(current.BranchCode) {
		return false, customerNotFound(customerID)
	}

	policy := model.ReviewPolicyFor(caller.Role)
	if !policy.CanAssign(target) || !policy.CanSee(current.ReviewStatus) {
		return false, apierror.NewAPIError(apierror.ErrForbidden,
			fmt.Sprintf("role %s cannot move a %s customer to %s", caller.Role, current.ReviewStatus, target), nil)
	}
	if !model.CanTransition(current.ReviewStatus, target) {
		return false, apierror.NewAPIError(apierror.ErrConflict,
			fmt.Sprintf("customer %s is already %s", customerID, current.ReviewStatus), nil)
	}

	at := o.clock()
	updated, err := o.datasource.SetReviewStatus(ctx, customerID, target, caller.UserID, at)
	if err != nil {
		span.RecordError(err)
		return false, storeError("failed to review customer", err, logrus.Fields{"customer_id": customerID, "target": target})
	}
	if !updated {
		return false, apierror.NewAPIError(apierror.ErrConflict,
			fmt.Sprintf("customer %s is no longer pending review", customerID), nil)
	}

	o.invalidate(ctx, customerID)
	o.notify(EventCustomerReviewed, ReviewOutcome{
		CustomerID:   customerID,
		BranchCode:   current.BranchCode,
		ReviewStatus: target,
		ReviewedBy:   caller.UserID,
		ReviewedAt:   ptr.Time(at),
	})
	return true, nil
}
