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
	"log"

	"github.com/blnkfinance/onboard"
	"github.com/blnkfinance/onboard/config"
	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"
)

func initializeQueues(cfg *config.Configuration) map[string]int {
	return map[string]int{
		cfg.Queue.WebhookQueue:   3,
		cfg.Queue.ReconcileQueue: 1,
	}
}

func initializeWorkerServer(conf *config.Configuration, queues map[string]int) (*asynq.Server, error) {
	redisOption, err := onboard.RedisClientOpt(conf)
	if err != nil {
		return nil, err
	}

	return asynq.NewServer(redisOption, asynq.Config{
		Concurrency: 2,
		Queues:      queues,
		ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
			logrus.WithError(err).WithField("task", task.Type()).Error("task failed")
		}),
	}), nil
}

func initializeTaskHandlers(o *onboard.Onboard, cfg *config.Configuration, mux *asynq.ServeMux) {
	mux.HandleFunc(cfg.Queue.WebhookQueue, onboard.ProcessWebhook)
	mux.HandleFunc(cfg.Queue.ReconcileQueue, o.ProcessReconcileTask)
}

// initializeScheduler registers the periodic document sweep.
func initializeScheduler(conf *config.Configuration) (*asynq.Scheduler, error) {
	redisOption, err := onboard.RedisClientOpt(conf)
	if err != nil {
		return nil, err
	}

	task, err := onboard.NewReconcileTask(conf.Queue.ReconcileQueue, onboard.ReconcileOptionsFromConfig(conf))
	if err != nil {
		return nil, err
	}

	scheduler := asynq.NewScheduler(redisOption, nil)
	entryID, err := scheduler.Register(conf.Queue.ReconcileCron, task)
	if err != nil {
		return nil, err
	}
	logrus.Infof("document reconciliation scheduled %q (entry %s)", conf.Queue.ReconcileCron, entryID)
	return scheduler, nil
}

// workerCommands starts the queue workers and the reconciliation scheduler.
func workerCommands(app *onboardInstance) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "workers",
		Short: "start onboard workers",
		Run: func(cmd *cobra.Command, args []string) {
			ctx := context.Background()
			conf := app.cnf

			shutdown, err := initializeTracing(ctx, conf)
			if err != nil {
				log.Fatal(err)
			}
			defer func() {
				if err := shutdown(ctx); err != nil {
					log.Printf("Error during shutdown: %v", err)
				}
			}()

			srv, err := initializeWorkerServer(conf, initializeQueues(conf))
			if err != nil {
				log.Fatal(err)
			}

			mux := asynq.NewServeMux()
			mux.Use(tracedTask)
			initializeTaskHandlers(app.service(), conf, mux)

			scheduler, err := initializeScheduler(conf)
			if err != nil {
				log.Fatal(err)
			}
			if err := scheduler.Start(); err != nil {
				log.Fatalf("could not start scheduler: %v", err)
			}
			defer scheduler.Shutdown()

			if err := srv.Run(mux); err != nil {
				log.Fatalf("could not run server: %v", err)
			}
		},
	}

	return cmd
}

// tracedTask wraps every task handler in a span named after the task type.
func tracedTask(next asynq.Handler) asynq.Handler {
	return asynq.HandlerFunc(func(ctx context.Context, t *asynq.Task) error {
		ctx, span := otel.Tracer("onboard.worker").Start(ctx, "Process "+t.Type())
		defer span.End()
		return next.ProcessTask(ctx, t)
	})
}
