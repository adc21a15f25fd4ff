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
	"bytes"
	"testing"
	"time"

	"github.com/blnkfinance/onboard/config"
	"github.com/blnkfinance/onboard/database/mocks"
	"github.com/blnkfinance/onboard/internal/blob"
	"github.com/blnkfinance/onboard/model"
	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var fixedTime = time.Date(2024, 5, 14, 9, 30, 0, 0, time.UTC)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

type testHarness struct {
	onboard *Onboard
	ds      *mocks.MockDataSource
	blobs   *blob.FileStore
	root    string
}

func newHarness(t *testing.T) *testHarness {
	t.Helper()
	config.MockConfig(&config.Configuration{
		Onboarding: config.OnboardingConfig{
			SequenceFloor:   model.MinCustomerSequence,
			SequenceRetries: 3,
			DefaultPageSize: 10,
			MaxPageSize:     100,
		},
	})

	root := t.TempDir()
	store, err := blob.NewFileStore(root)
	require.NoError(t, err)

	ds := new(mocks.MockDataSource)
	return &testHarness{
		onboard: &Onboard{
			datasource: ds,
			blobs:      store,
			now:        func() time.Time { return fixedTime },
		},
		ds:    ds,
		blobs: store,
		root:  root,
	}
}

// expectUnitOfWork makes Begin hand out a fresh unit of work whose Rollback always succeeds.
func (h *testHarness) expectUnitOfWork(commitErr error) *mocks.MockUnitOfWork {
	uow := new(mocks.MockUnitOfWork)
	uow.On("Rollback").Return(nil).Maybe()
	uow.On("Commit").Return(commitErr).Maybe()
	h.ds.On("Begin", mock.Anything).Return(uow, nil)
	return uow
}

func dataEntry(branch string) model.Caller {
	return model.Caller{UserID: "clerk-1", Role: model.RoleDataEntry, Branch: branch}
}

func newCustomerInput(branch string) model.Customer {
	return model.Customer{
		BranchCode:        branch,
		Name:              gofakeit.Name(),
		FirstName:         gofakeit.FirstName(),
		LastName:          gofakeit.LastName(),
		IdentityNumber:    gofakeit.Numerify("##########"),
		SecondaryIDNumber: gofakeit.Numerify("S#######"),
		PhoneNumber:       gofakeit.Numerify("07########"),
		Email:             gofakeit.Email(),
	}
}

func storedCustomer(branch string, seq int64, review model.ReviewStatus) *model.Customer {
	c := newCustomerInput(branch)
	c.SeqID = seq
	c.CustomerID = model.CustomerExternalID(branch, seq)
	c.Status = model.LifecycleNew
	c.ReviewStatus = review
	c.CreatedAt = fixedTime
	c.UpdatedAt = fixedTime
	c.Accounts = []model.Account{}
	c.Documents = []model.Document{}
	return &c
}

func pngUpload(docType model.DocumentType) model.DocumentUpload {
	content := append(append([]byte{}, pngHeader...), []byte(docType)...)
	return model.DocumentUpload{
		Type:     docType,
		FileName: string(docType) + ".PNG",
		Size:     int64(len(content)),
		Content:  bytes.NewReader(content),
	}
}
