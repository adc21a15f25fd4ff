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
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/blnkfinance/onboard/internal/apierror"
	"github.com/blnkfinance/onboard/internal/blob"
	"github.com/blnkfinance/onboard/internal/files"
	"github.com/blnkfinance/onboard/model"
	"github.com/sirupsen/logrus"
)

var errUnsupportedDocument = errors.New("unsupported document content")

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}

// storeDocument writes one upload to its deterministic path and returns the row describing it.
func (o *Onboard) storeDocument(ctx context.Context, c *model.Customer, upload model.DocumentUpload) (*model.Document, error) {
	path, err := model.DocumentPath(c.BranchCode, c.DocumentFolder(), upload.Type, upload.FileName)
	if err != nil {
		return nil, err
	}

	mimeType, content, err := files.Sniff(upload.Content, upload.FileName)
	if err != nil {
		return nil, err
	}
	if !files.IsAllowedDocument(mimeType) {
		return nil, fmt.Errorf("%w: %s", errUnsupportedDocument, mimeType)
	}

	counter := &countingReader{r: content}
	if err := o.blobs.Put(ctx, path, counter, upload.Size, mimeType); err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", path, err)
	}

	return &model.Document{
		DocumentID:   model.GenerateUUIDWithSuffix("doc"),
		CustomerID:   c.CustomerID,
		DocumentType: upload.Type,
		Path:         path,
		FileName:     filepath.Base(upload.FileName),
		Size:         counter.n,
		MimeType:     mimeType,
		CreatedAt:    o.clock(),
	}, nil
}

// processDocuments stores the uploads of a freshly committed customer. Each file stands on
// its own: a failure is logged and skipped. The rows of the stored files are written in one
// batch; if that fails the blobs are left for the reconciliation sweep.
func (o *Onboard) processDocuments(ctx context.Context, c *model.Customer, uploads []model.DocumentUpload) []model.Document {
	ctx, span := tracer.Start(ctx, "ProcessDocuments")
	defer span.End()

	docs := make([]model.Document, 0, len(uploads))
	for _, upload := range uploads {
		if upload.Empty() {
			continue
		}
		doc, err := o.storeDocument(ctx, c, upload)
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"customer_id":   c.CustomerID,
				"document_type": upload.Type,
				"file_name":     upload.FileName,
			}).WithError(err).Warn("skipping document upload")
			continue
		}
		docs = append(docs, *doc)
	}
	if len(docs) == 0 {
		return docs
	}

	if err := o.datasource.InsertDocuments(ctx, nil, docs); err != nil {
		span.RecordError(err)
		logrus.WithFields(logrus.Fields{
			"customer_id": c.CustomerID,
			"documents":   len(docs),
		}).WithError(err).Error("failed to record uploaded documents, blobs left for reconciliation")
		return []model.Document{}
	}
	return docs
}

// UploadDocument stores a document for an existing customer, replacing any document of the
// same type.
func (o *Onboard) UploadDocument(ctx context.Context, customerID string, upload model.DocumentUpload, caller model.Caller) (*model.Document, error) {
	ctx, span := tracer.Start(ctx, "UploadDocument")
	defer span.End()

	if upload.Empty() {
		return nil, apierror.NewAPIError(apierror.ErrInvalidInput, "document file is required", nil)
	}
	if !upload.Type.Valid() {
		return nil, apierror.NewAPIError(apierror.ErrInvalidInput, fmt.Sprintf("unknown document type %q", upload.Type), nil)
	}

	customer, err := o.GetCustomer(ctx, customerID, caller)
	if err != nil {
		return nil, err
	}

	doc, err := o.storeDocument(ctx, customer, upload)
	if err != nil {
		if errors.Is(err, errUnsupportedDocument) || errors.Is(err, model.ErrUnsafePathSegment) {
			return nil, apierror.NewAPIError(apierror.ErrInvalidInput, err.Error(), nil)
		}
		return nil, apierror.Internal("failed to store document", err, logrus.Fields{"customer_id": customerID, "document_type": upload.Type})
	}

	fields := logrus.Fields{"customer_id": customerID, "document_id": doc.DocumentID}
	uow, err := o.datasource.Begin(ctx)
	if err != nil {
		return nil, storeError("failed to record document", err, fields)
	}
	defer func() { _ = uow.Rollback() }()

	replaced, err := o.datasource.DeleteDocumentsByType(ctx, uow, customer.CustomerID, upload.Type)
	if err != nil {
		return nil, storeError("failed to record document", err, fields)
	}
	if err := o.datasource.InsertDocuments(ctx, uow, []model.Document{*doc}); err != nil {
		return nil, storeError("failed to record document", err, fields)
	}
	if err := uow.Commit(); err != nil {
		return nil, storeError("failed to record document", err, fields)
	}

	for _, old := range replaced {
		if old.Path == doc.Path {
			continue
		}
		o.removeBlob(ctx, old)
	}

	o.invalidate(ctx, customer.CustomerID)
	return doc, nil
}

// DeleteDocument removes a document row and then its blob.
func (o *Onboard) DeleteDocument(ctx context.Context, documentID string, caller model.Caller) error {
	ctx, span := tracer.Start(ctx, "DeleteDocument")
	defer span.End()

	if _, err := o.visibleDocument(ctx, documentID, caller); err != nil {
		return err
	}

	deleted, err := o.datasource.DeleteDocument(ctx, documentID)
	if err != nil {
		return storeError("failed to delete document", err, logrus.Fields{"document_id": documentID})
	}
	o.removeBlob(ctx, *deleted)

	o.invalidate(ctx, deleted.CustomerID)
	o.notify(EventDocumentDeleted, deleted)
	return nil
}

// OpenDocument returns a document and a reader over its content. The caller closes the reader.
func (o *Onboard) OpenDocument(ctx context.Context, documentID string, caller model.Caller) (*model.Document, io.ReadCloser, error) {
	ctx, span := tracer.Start(ctx, "OpenDocument")
	defer span.End()

	doc, err := o.visibleDocument(ctx, documentID, caller)
	if err != nil {
		return nil, nil, err
	}

	content, err := o.blobs.Get(ctx, doc.Path)
	if errors.Is(err, blob.ErrNotFound) {
		return nil, nil, apierror.NewAPIError(apierror.ErrNotFound, fmt.Sprintf("content of document '%s' not found", documentID), nil)
	}
	if err != nil {
		return nil, nil, apierror.Internal("failed to read document", err, logrus.Fields{"document_id": documentID, "path": doc.Path})
	}
	return doc, content, nil
}

// visibleDocument loads a document and checks that its customer is visible to the caller.
func (o *Onboard) visibleDocument(ctx context.Context, documentID string, caller model.Caller) (*model.Document, error) {
	doc, err := o.datasource.GetDocument(ctx, documentID)
	if err != nil {
		return nil, storeError("failed to fetch document", err, logrus.Fields{"document_id": documentID})
	}
	if _, err := o.GetCustomer(ctx, doc.CustomerID, caller); err != nil {
		if apierror.HasCode(err, apierror.ErrNotFound) {
			return nil, apierror.NewAPIError(apierror.ErrNotFound, fmt.Sprintf("document with ID '%s' not found", documentID), nil)
		}
		return nil, err
	}
	return doc, nil
}

func (o *Onboard) removeBlob(ctx context.Context, doc model.Document) {
	err := o.blobs.Delete(ctx, doc.Path)
	switch {
	case err == nil:
	case errors.Is(err, blob.ErrNotFound):
		logrus.WithFields(logrus.Fields{"document_id": doc.DocumentID, "path": doc.Path}).Warn("document blob already missing")
	default:
		logrus.WithFields(logrus.Fields{"document_id": doc.DocumentID, "path": doc.Path}).WithError(err).
			Error("failed to delete document blob, left for reconciliation")
	}
}
