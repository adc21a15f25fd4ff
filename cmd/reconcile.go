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
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/blnkfinance/onboard"
	"github.com/spf13/cobra"
)

// reconcileCommands runs one document sweep in the foreground and prints its report.
func reconcileCommands(app *onboardInstance) *cobra.Command {
	var (
		prune bool
		grace time.Duration
	)

	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "compare stored documents with their records",
		Run: func(cmd *cobra.Command, args []string) {
			opts := onboard.ReconcileOptionsFromConfig(app.cnf)
			if cmd.Flags().Changed("prune") {
				opts.Prune = prune
			}
			if cmd.Flags().Changed("grace") {
				opts.GracePeriod = grace
			}

			report, err := app.service().ReconcileDocuments(context.Background(), opts)
			if err != nil {
				log.Fatalf("reconciliation failed: %v", err)
			}

			data, err := json.MarshalIndent(report, "", "    ")
			if err != nil {
				log.Fatalf("Error printing report: %v\n", err)
			}
			fmt.Println(string(data))
		},
	}

	cmd.Flags().BoolVar(&prune, "prune", false, "delete dangling rows and orphaned blobs")
	cmd.Flags().DurationVar(&grace, "grace", time.Hour, "skip orphaned blobs younger than this")
	return cmd
}
