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

import "strings"

// Resource is a protected API resource. It matches the first path segment of the routes
// it guards.
type Resource string

// Action is what a request does to a resource.
type Action string

const (
	// Actions
	ActionRead   Action = "read"
	ActionWrite  Action = "write"
	ActionDelete Action = "delete"
	ActionReview Action = "review"

	// Resources
	ResourceCustomers      Resource = "customers"
	ResourceAccounts       Resource = "accounts"
	ResourceDocuments      Resource = "documents"
	ResourceReconciliation Resource = "reconciliation"
)

var pathToResource = map[string]Resource{
	"customers":      ResourceCustomers,
	"accounts":       ResourceAccounts,
	"documents":      ResourceDocuments,
	"reconciliation": ResourceReconciliation,
}

// methodToAction maps HTTP methods to actions
var methodToAction = map[string]Action{
	"GET":    ActionRead,
	"HEAD":   ActionRead,
	"POST":   ActionWrite,
	"PUT":    ActionWrite,
	"PATCH":  ActionWrite,
	"DELETE": ActionDelete,
}

// RequiredPermission returns the resource:action permission a request needs.
// Nested routes borrow the permission of what they act on:
// POST /customers/:id/review needs customers:review and
// POST /customers/:id/documents needs documents:write.
func RequiredPermission(method, path string) (string, bool) {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	resource, ok := pathToResource[parts[0]]
	if !ok {
		return "", false
	}
	action, ok := methodToAction[strings.ToUpper(method)]
	if !ok {
		return "", false
	}

	if resource == ResourceCustomers && len(parts) == 3 {
		switch parts[2] {
		case "review":
			action = ActionReview
		case "documents":
			resource = ResourceDocuments
		default:
			return "", false
		}
	}
	return string(resource) + ":" + string(action), true
}
