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

package authz

import (
	"fmt"
	"strings"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
)

// Permissions gating the onboarding API, in resource:action form.
const (
	CustomersRead   = "customers:read"
	CustomersWrite  = "customers:write"
	CustomersReview = "customers:review"
	AccountsWrite   = "accounts:write"
	DocumentsRead   = "documents:read"
	DocumentsWrite  = "documents:write"
	DocumentsDelete = "documents:delete"
)

const modelText = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = r.sub == p.sub && (p.obj == "*" || r.obj == p.obj) && (p.act == "*" || r.act == p.act)
`

// Authorizer answers whether a role holds a permission.
type Authorizer struct {
	enforcer *casbin.SyncedEnforcer
}

// New builds an in-memory enforcer seeded from a role to permissions table.
func New(roles map[string][]string) (*Authorizer, error) {
	m, err := model.NewModelFromString(modelText)
	if err != nil {
		return nil, err
	}
	enforcer, err := casbin.NewSyncedEnforcer(m)
	if err != nil {
		return nil, err
	}

	for role, permissions := range roles {
		for _, permission := range permissions {
			obj, act, err := splitPermission(permission)
			if err != nil {
				return nil, fmt.Errorf("role %s: %w", role, err)
			}
			if _, err := enforcer.AddPolicy(role, obj, act); err != nil {
				return nil, err
			}
		}
	}
	return &Authorizer{enforcer: enforcer}, nil
}

// Allowed reports whether role grants permission.
func (a *Authorizer) Allowed(role, permission string) (bool, error) {
	obj, act, err := splitPermission(permission)
	if err != nil {
		return false, err
	}
	return a.enforcer.Enforce(role, obj, act)
}

func splitPermission(permission string) (string, string, error) {
	obj, act, ok := strings.Cut(strings.TrimSpace(permission), ":")
	if !ok || obj == "" || act == "" {
		return "", "", fmt.Errorf("invalid permission %q, expected resource:action", permission)
	}
	return obj, act, nil
}
