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
	"os"

	"github.com/blnkfinance/onboard"
	"github.com/blnkfinance/onboard/config"
	"github.com/blnkfinance/onboard/database"
	"github.com/blnkfinance/onboard/internal/notification"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// Onboard is the CLI application wrapping the root cobra command.
type Onboard struct {
	cmd *cobra.Command
}

// onboardInstance carries the loaded configuration and the lazily built service.
type onboardInstance struct {
	onboard *onboard.Onboard
	cnf     *config.Configuration
}

func recoverPanic() {
	if rec := recover(); rec != nil {
		logrus.Error(rec)
		os.Exit(1)
	}
}

// preRun loads the configuration before any command runs.
func preRun(app *onboardInstance, configFile *string) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if err := config.InitConfig(*configFile); err != nil {
			log.Fatal("error loading config", err)
		}

		cnf, err := config.Fetch()
		if err != nil {
			return err
		}
		app.cnf = cnf
		return nil
	}
}

// service builds the onboarding service on first use. Commands such as migrate never
// need Redis or the blob store, so they never call it.
func (app *onboardInstance) service() *onboard.Onboard {
	if app.onboard != nil {
		return app.onboard
	}

	o, err := setupOnboard(app.cnf)
	if err != nil {
		notification.NotifyError(err)
		log.Fatal(err)
	}
	app.onboard = o
	return o
}

func setupOnboard(cfg *config.Configuration) (*onboard.Onboard, error) {
	db, err := database.NewDataSource(cfg)
	if err != nil {
		return nil, fmt.Errorf("error getting datasource: %v", err)
	}

	o, err := onboard.NewOnboard(db)
	if err != nil {
		return nil, fmt.Errorf("error creating onboard: %v", err)
	}
	return o, nil
}

// NewCLI builds the root command and registers every subcommand.
func NewCLI() *Onboard {
	var configFile string
	app := &onboardInstance{}

	var rootCmd = &cobra.Command{
		Use:   "onboard",
		Short: "Customer onboarding and review service",
		Run:   func(cmd *cobra.Command, args []string) {},
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "./onboard.json", "Configuration file for the onboarding service")
	rootCmd.PersistentPreRunE = preRun(app, &configFile)

	rootCmd.AddCommand(serverCommands(app))
	rootCmd.AddCommand(workerCommands(app))
	rootCmd.AddCommand(migrateCommands(app))
	rootCmd.AddCommand(reconcileCommands(app))
	rootCmd.AddCommand(tokenCommands(app))
	rootCmd.AddCommand(configCommands(app))

	return &Onboard{cmd: rootCmd}
}

func (w Onboard) executeCLI() {
	if err := w.cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func main() {
	defer recoverPanic()

	cli := NewCLI()
	cli.executeCLI()
}
