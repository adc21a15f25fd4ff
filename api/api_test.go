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
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"testing"

	"github.com/blnkfinance/onboard"
	"github.com/blnkfinance/onboard/api/middleware"
	"github.com/blnkfinance/onboard/config"
	"github.com/blnkfinance/onboard/database/mocks"
	"github.com/blnkfinance/onboard/internal/blob"
	"github.com/blnkfinance/onboard/model"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var pngContent = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR-api-test")

type TestRequest struct {
	Payload     io.Reader
	Router      *gin.Engine
	Response    interface{}
	Method      string
	Route       string
	ContentType string
	Caller      *model.Caller
	Header      map[string]string
}

func SetUpTestRequest(s TestRequest) (*httptest.ResponseRecorder, error) {
	req := httptest.NewRequest(s.Method, s.Route, s.Payload)
	for key, value := range s.Header {
		req.Header.Set(key, value)
	}
	if s.Caller != nil {
		req.Header.Set(middleware.UserHeader, s.Caller.UserID)
		req.Header.Set(middleware.RoleHeader, string(s.Caller.Role))
		req.Header.Set(middleware.BranchHeader, s.Caller.Branch)
	}
	contentType := s.ContentType
	if contentType == "" {
		contentType = "application/json"
	}
	req.Header.Set("Content-Type", contentType)
	resp := httptest.NewRecorder()
	s.Router.ServeHTTP(resp, req)

	if s.Response == nil {
		return resp, nil
	}
	err := json.NewDecoder(resp.Body).Decode(s.Response)
	if err != nil {
		return resp, err
	}
	return resp, nil
}

type testServer struct {
	router *gin.Engine
	ds     *mocks.MockDataSource
	blobs  *blob.FileStore
}

func setupRouter(t *testing.T) *testServer {
	t.Helper()
	config.MockConfig(&config.Configuration{
		Onboarding: config.OnboardingConfig{
			SequenceFloor:   model.MinCustomerSequence,
			SequenceRetries: 3,
			DefaultPageSize: 10,
			MaxPageSize:     100,
		},
		Roles: map[string][]string{
			"admin":          {"*:*"},
			"reviewer":       {"customers:read", "customers:review", "documents:read"},
			"branch_officer": {"customers:read", "accounts:write", "documents:read"},
			"data_entry":     {"customers:read", "customers:write", "accounts:write", "documents:read", "documents:write", "documents:delete"},
		},
	})

	store, err := blob.NewFileStore(t.TempDir())
	require.NoError(t, err)
	ds := new(mocks.MockDataSource)

	api, err := NewAPI(onboard.NewOnboardWithStores(ds, store, nil, nil))
	require.NoError(t, err)
	return &testServer{router: api.Router(), ds: ds, blobs: store}
}

func (s *testServer) expectUnitOfWork() *mocks.MockUnitOfWork {
	uow := new(mocks.MockUnitOfWork)
	uow.On("Rollback").Return(nil).Maybe()
	uow.On("Commit").Return(nil).Maybe()
	s.ds.On("Begin", mock.Anything).Return(uow, nil)
	return uow
}

func jsonBody(t *testing.T, v interface{}) io.Reader {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewReader(b)
}

// multipartBody writes fields and files into a multipart body and returns it with its
// content type.
func multipartBody(t *testing.T, fields map[string]string, files map[string][]byte) (io.Reader, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for name, value := range fields {
		require.NoError(t, w.WriteField(name, value))
	}
	for name, content := range files {
		part, err := w.CreateFormFile(name, fmt.Sprintf("%s.png", name))
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func stored(branch string, seq int64, review model.ReviewStatus) *model.Customer {
	return &model.Customer{
		CustomerID:        model.CustomerExternalID(branch, seq),
		BranchCode:        branch,
		SeqID:             seq,
		FirstName:         "Ali",
		LastName:          "Hassan",
		SecondaryIDNumber: "S7654321",
		Status:            model.LifecycleNew,
		ReviewStatus:      review,
		Accounts:          []model.Account{},
		Documents:         []model.Document{},
	}
}

var (
	clerk    = model.Caller{UserID: "clerk-1", Role: model.RoleDataEntry, Branch: "058"}
	reviewer = model.Caller{UserID: "rev-1", Role: model.RoleReviewer, Branch: "058"}
	officer  = model.Caller{UserID: "bo-1", Role: model.RoleBranchOfficer, Branch: "058"}
)
