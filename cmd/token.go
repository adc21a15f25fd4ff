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

package main

import (
	"fmt"
	"log"
	"time"

	"github.com/blnkfinance/onboard/api/middleware"
	"github.com/blnkfinance/onboard/model"
	"github.com/spf13/cobra"
)

// tokenCommands issues a bearer token for a staff member.
func tokenCommands(app *onboardInstance) *cobra.Command {
	var (
		user   string
		role   string
		branch string
		ttl    time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "issue an API token for a staff member",
		Run: func(cmd *cobra.Command, args []string) {
			if _, ok := app.cnf.Roles[role]; !ok {
				log.Fatalf("unknown role %q", role)
			}

			caller := model.Caller{UserID: user, Role: model.Role(role), Branch: branch}
			if !caller.Unrestricted() && branch == "" {
				log.Fatal("--branch is required for non-admin roles")
			}

			token, err := middleware.IssueToken(app.cnf.Server.JWTSecret, caller, ttl)
			if err != nil {
				log.Fatal(err)
			}
			fmt.Println(token)
		},
	}

	cmd.Flags().StringVar(&user, "user", "", "user id carried in the token subject")
	cmd.Flags().StringVar(&role, "role", string(model.RoleDataEntry), "role granted to the token")
	cmd.Flags().StringVar(&branch, "branch", "", "branch the caller belongs to")
	cmd.Flags().DurationVar(&ttl, "ttl", 12*time.Hour, "token lifetime")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}
