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

package config

import (
	"encoding/json"
	"errors"
	"log"
	"os"
	"strings"
	"sync/atomic"

	"github.com/kelseyhightower/envconfig"

	"github.com/sirupsen/logrus"
)

const (
	DEFAULT_PORT = "5001"

	DEFAULT_PAGE_SIZE = 10
	MAX_PAGE_SIZE     = 100
)

var ConfigStore atomic.Value

type ServerConfig struct {
	SSL       bool   `json:"ssl" envconfig:"ONBOARD_SERVER_SSL"`
	Secure    bool   `json:"secure" envconfig:"ONBOARD_SERVER_SECURE"`
	SecretKey string `json:"secret_key" envconfig:"ONBOARD_SERVER_SECRET_KEY"`
	JWTSecret string `json:"jwt_secret" envconfig:"ONBOARD_SERVER_JWT_SECRET"`
	Domain    string `json:"domain" envconfig:"ONBOARD_SERVER_SSL_DOMAIN"`
	Email     string `json:"ssl_email" envconfig:"ONBOARD_SERVER_SSL_EMAIL"`
	Port      string `json:"port" envconfig:"ONBOARD_SERVER_PORT"`
}

type DataSourceConfig struct {
	Dns          string `json:"dns" envconfig:"ONBOARD_DATA_SOURCE_DNS"`
	MaxOpenConns int    `json:"max_open_conns" envconfig:"ONBOARD_DATA_SOURCE_MAX_OPEN_CONNS"`
	MaxIdleConns int    `json:"max_idle_conns" envconfig:"ONBOARD_DATA_SOURCE_MAX_IDLE_CONNS"`
}

type RedisConfig struct {
	Dns           string `json:"dns" envconfig:"ONBOARD_REDIS_DNS"`
	SkipTLSVerify bool   `json:"skip_tls_verify" envconfig:"ONBOARD_REDIS_SKIP_TLS_VERIFY"`
}

// BlobStoreConfig selects where uploaded documents are written.
type BlobStoreConfig struct {
	Driver             string `json:"driver" envconfig:"ONBOARD_BLOB_DRIVER"`
	Root               string `json:"root" envconfig:"ONBOARD_BLOB_ROOT"`
	S3Bucket           string `json:"s3_bucket" envconfig:"ONBOARD_BLOB_S3_BUCKET"`
	S3Region           string `json:"s3_region" envconfig:"ONBOARD_BLOB_S3_REGION"`
	S3Endpoint         string `json:"s3_endpoint" envconfig:"ONBOARD_BLOB_S3_ENDPOINT"`
	AwsAccessKeyId     string `json:"aws_access_key_id" envconfig:"ONBOARD_BLOB_AWS_ACCESS_KEY_ID"`
	AwsSecretAccessKey string `json:"aws_secret_access_key" envconfig:"ONBOARD_BLOB_AWS_SECRET_ACCESS_KEY"`
}

type OnboardingConfig struct {
	SequenceFloor    int64 `json:"sequence_floor" envconfig:"ONBOARD_SEQUENCE_FLOOR"`
	SequenceRetries  int   `json:"sequence_retries" envconfig:"ONBOARD_SEQUENCE_RETRIES"`
	DefaultPageSize  int   `json:"default_page_size" envconfig:"ONBOARD_DEFAULT_PAGE_SIZE"`
	MaxPageSize      int   `json:"max_page_size" envconfig:"ONBOARD_MAX_PAGE_SIZE"`
	CustomerCacheTTL int   `json:"customer_cache_ttl_sec" envconfig:"ONBOARD_CUSTOMER_CACHE_TTL_SEC"`
}

type QueueConfig struct {
	WebhookQueue         string `json:"webhook_queue" envconfig:"ONBOARD_QUEUE_WEBHOOK"`
	ReconcileQueue       string `json:"reconcile_queue" envconfig:"ONBOARD_QUEUE_RECONCILE"`
	ReconcileCron        string `json:"reconcile_cron" envconfig:"ONBOARD_QUEUE_RECONCILE_CRON"`
	OrphanGracePeriodSec int    `json:"orphan_grace_period_sec" envconfig:"ONBOARD_QUEUE_ORPHAN_GRACE_SEC"`
	PruneOrphans         bool   `json:"prune_orphans" envconfig:"ONBOARD_QUEUE_PRUNE_ORPHANS"`
}

type RateLimitConfig struct {
	RequestsPerSecond  *float64 `json:"requests_per_second" envconfig:"ONBOARD_RATE_LIMIT_RPS"`
	Burst              *int     `json:"burst" envconfig:"ONBOARD_RATE_LIMIT_BURST"`
	CleanupIntervalSec *int     `json:"cleanup_interval_sec" envconfig:"ONBOARD_RATE_LIMIT_CLEANUP_INTERVAL_SEC"`
}

type SlackWebhook struct {
	WebhookUrl string `json:"webhook_url"`
}

type WebhookConfig struct {
	Url     string            `json:"url"`
	Headers map[string]string `json:"headers"`
}

type Notification struct {
	Slack   SlackWebhook  `json:"slack"`
	Webhook WebhookConfig `json:"webhook"`
}

type Configuration struct {
	ProjectName     string              `json:"project_name" envconfig:"ONBOARD_PROJECT_NAME"`
	EnableTelemetry bool                `json:"enable_telemetry" envconfig:"ONBOARD_ENABLE_TELEMETRY"`
	Server          ServerConfig        `json:"server"`
	DataSource      DataSourceConfig    `json:"data_source"`
	Redis           RedisConfig         `json:"redis"`
	BlobStore       BlobStoreConfig     `json:"blob_store"`
	Onboarding      OnboardingConfig    `json:"onboarding"`
	Queue           QueueConfig         `json:"queue"`
	Roles           map[string][]string `json:"roles" ignored:"true"`
	Notification    Notification        `json:"notification"`
	RateLimit       RateLimitConfig     `json:"rate_limit"`
}

// defaultRoles grants each built-in role its permission strings (resource:action).
var defaultRoles = map[string][]string{
	"admin":          {"*:*"},
	"reviewer":       {"customers:read", "customers:review", "documents:read"},
	"branch_officer": {"customers:read", "accounts:write", "documents:read"},
	"data_entry":     {"customers:read", "customers:write", "accounts:write", "documents:read", "documents:write", "documents:delete"},
}

func loadConfigFromFile(file string) error {
	var cnf Configuration
	_, err := os.Stat(file)
	if err == nil {
		f, err := os.Open(file)
		if err != nil {
			return err
		}
		defer f.Close()
		err = json.NewDecoder(f).Decode(&cnf)
		if err != nil {
			return err
		}

	} else if errors.Is(err, os.ErrNotExist) {
		log.Println("config json not passed, will use env variables")
	}

	// override config from environment variables
	err = envconfig.Process("onboard", &cnf)
	if err != nil {
		return err
	}

	err = cnf.validateAndAddDefaults()
	if err != nil {
		return err
	}

	ConfigStore.Store(&cnf)
	return err
}

func InitConfig(configFile string) error {
	logger()
	return loadConfigFromFile(configFile)
}

func Fetch() (*Configuration, error) {
	config := ConfigStore.Load()
	c, ok := config.(*Configuration)
	if !ok {
		return nil, errors.New("config not loaded from file. Create a json file called onboard.json with your config ❌")
	}
	return c, nil
}

func (cnf *Configuration) validateAndAddDefaults() error {
	if cnf.ProjectName == "" {
		log.Println("Warning: Project name is empty. Setting a default name.")
		cnf.ProjectName = "Onboard Server"
	}

	if cnf.DataSource.Dns == "" {
		log.Println("Error: Data source DNS is empty. It's a required field.")
		return errors.New("data source DNS is required")
	}

	if cnf.Redis.Dns == "" {
		log.Println("Error: Redis DNS is empty. It's a required field.")
		return errors.New("redis DNS is required")
	}

	// Trim white spaces from fields
	cnf.ProjectName = strings.TrimSpace(cnf.ProjectName)
	cnf.Server.Port = strings.TrimSpace(cnf.Server.Port)
	cnf.DataSource.Dns = strings.TrimSpace(cnf.DataSource.Dns)
	cnf.Redis.Dns = strings.TrimSpace(cnf.Redis.Dns)

	if cnf.Server.Port == "" {
		cnf.Server.Port = DEFAULT_PORT
		log.Printf("Warning: Port not specified in config. Setting default port: %s", DEFAULT_PORT)
	}

	if cnf.DataSource.MaxOpenConns == 0 {
		cnf.DataSource.MaxOpenConns = 25
	}
	if cnf.DataSource.MaxIdleConns == 0 {
		cnf.DataSource.MaxIdleConns = 10
	}

	cnf.BlobStore.Driver = strings.ToLower(strings.TrimSpace(cnf.BlobStore.Driver))
	switch cnf.BlobStore.Driver {
	case "":
		cnf.BlobStore.Driver = "local"
	case "local", "s3":
	default:
		return errors.New("blob store driver must be local or s3")
	}
	if cnf.BlobStore.Driver == "local" && cnf.BlobStore.Root == "" {
		cnf.BlobStore.Root = "./uploads"
	}
	if cnf.BlobStore.Driver == "s3" && cnf.BlobStore.S3Bucket == "" {
		return errors.New("s3 bucket is required when blob store driver is s3")
	}

	if cnf.Onboarding.SequenceFloor == 0 {
		cnf.Onboarding.SequenceFloor = 6000
	}
	if cnf.Onboarding.SequenceRetries == 0 {
		cnf.Onboarding.SequenceRetries = 3
	}
	if cnf.Onboarding.DefaultPageSize == 0 {
		cnf.Onboarding.DefaultPageSize = DEFAULT_PAGE_SIZE
	}
	if cnf.Onboarding.MaxPageSize == 0 {
		cnf.Onboarding.MaxPageSize = MAX_PAGE_SIZE
	}
	if cnf.Onboarding.CustomerCacheTTL == 0 {
		cnf.Onboarding.CustomerCacheTTL = 300
	}

	if cnf.Queue.WebhookQueue == "" {
		cnf.Queue.WebhookQueue = "new:webhook"
	}
	if cnf.Queue.ReconcileQueue == "" {
		cnf.Queue.ReconcileQueue = "documents:reconcile"
	}
	if cnf.Queue.ReconcileCron == "" {
		cnf.Queue.ReconcileCron = "@every 1h"
	}
	if cnf.Queue.OrphanGracePeriodSec == 0 {
		cnf.Queue.OrphanGracePeriodSec = 3600
	}

	if len(cnf.Roles) == 0 {
		cnf.Roles = defaultRoles
	}

	// Rate limiting is disabled by default (when both RPS and Burst are nil)
	if cnf.RateLimit.RequestsPerSecond != nil && cnf.RateLimit.Burst == nil {
		defaultBurst := 2 * int(*cnf.RateLimit.RequestsPerSecond)
		cnf.RateLimit.Burst = &defaultBurst
		log.Printf("Warning: Rate limit burst not specified. Setting default value: %d", defaultBurst)
	}
	if cnf.RateLimit.RequestsPerSecond == nil && cnf.RateLimit.Burst != nil {
		defaultRPS := float64(*cnf.RateLimit.Burst) / 2
		cnf.RateLimit.RequestsPerSecond = &defaultRPS
		log.Printf("Warning: Rate limit RPS not specified. Setting default value: %.2f", defaultRPS)
	}

	if cnf.RateLimit.CleanupIntervalSec == nil {
		defaultCleanup := 10800 // 3 hours in seconds
		cnf.RateLimit.CleanupIntervalSec = &defaultCleanup
	}

	return nil
}

// MockConfig sets a mock configuration for testing purposes.
func MockConfig(mockConfig *Configuration) {
	ConfigStore.Store(mockConfig)
}

func logger() {
	logger := logrus.New()
	log.SetOutput(logger.Writer())
}
