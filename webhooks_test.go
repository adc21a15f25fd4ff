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
	"encoding/json"
	"net/http"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/blnkfinance/onboard/config"
	"github.com/blnkfinance/onboard/model"
	"github.com/hibiken/asynq"
	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const hookURL = "https://hooks.onboard.test/events"

func webhookConfig(redisAddr string) *config.Configuration {
	return &config.Configuration{
		Redis: config.RedisConfig{Dns: redisAddr},
		Queue: config.QueueConfig{WebhookQueue: "new:webhook"},
		Notification: config.Notification{Webhook: config.WebhookConfig{
			Url:     hookURL,
			Headers: map[string]string{"X-Onboard-Signature": "s3cret"},
		}},
	}
}

func TestSendWebhook(t *testing.T) {
	mr := miniredis.RunT(t)
	config.MockConfig(webhookConfig(mr.Addr()))

	err := SendWebhook(NewWebhook{
		Event:   EventCustomerCreated,
		Payload: storedCustomer("058", 6000, model.ReviewPending),
	})
	require.NoError(t, err)
	assert.NotEmpty(t, mr.Keys())
}

func TestSendWebhook_NoURL(t *testing.T) {
	mr := miniredis.RunT(t)
	config.MockConfig(&config.Configuration{Redis: config.RedisConfig{Dns: mr.Addr()}})

	require.NoError(t, SendWebhook(NewWebhook{Event: EventCustomerCreated}))
	assert.Empty(t, mr.Keys())
}

func TestProcessWebhook(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()
	config.MockConfig(webhookConfig("localhost:6379"))

	var received map[string]interface{}
	httpmock.RegisterResponder(http.MethodPost, hookURL, func(req *http.Request) (*http.Response, error) {
		assert.Equal(t, "s3cret", req.Header.Get("X-Onboard-Signature"))
		if err := json.NewDecoder(req.Body).Decode(&received); err != nil {
			return httpmock.NewStringResponse(http.StatusBadRequest, ""), nil
		}
		return httpmock.NewStringResponse(http.StatusOK, "accepted"), nil
	})

	payload, err := json.Marshal(NewWebhook{
		Event:   EventCustomerReviewed,
		Payload: map[string]string{"customer_id": "0586000", "review_status": "Approved"},
	})
	require.NoError(t, err)

	require.NoError(t, ProcessWebhook(context.Background(), asynq.NewTask("new:webhook", payload)))
	assert.Equal(t, 1, httpmock.GetTotalCallCount())
	assert.Equal(t, EventCustomerReviewed, received["event"])
	data, ok := received["data"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "0586000", data["customer_id"])
}

func TestProcessWebhook_EndpointFailure(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()
	config.MockConfig(webhookConfig("localhost:6379"))
	httpmock.RegisterResponder(http.MethodPost, hookURL, httpmock.NewStringResponder(http.StatusServiceUnavailable, ""))

	payload, err := json.Marshal(NewWebhook{Event: EventDocumentDeleted})
	require.NoError(t, err)

	assert.Error(t, ProcessWebhook(context.Background(), asynq.NewTask("new:webhook", payload)))
}

func TestProcessWebhook_BadPayload(t *testing.T) {
	config.MockConfig(webhookConfig("localhost:6379"))
	assert.Error(t, ProcessWebhook(context.Background(), asynq.NewTask("new:webhook", []byte("not json"))))
}
