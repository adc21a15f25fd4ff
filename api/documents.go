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
	"fmt"
	"mime/multipart"
	"net/http"

	"github.com/blnkfinance/onboard/model"
	"github.com/gin-gonic/gin"
)

// openUploads opens the file field of every document type present in form. The returned
// func closes whatever was opened and is safe to call on error.
func openUploads(form *multipart.Form) ([]model.DocumentUpload, func(), error) {
	var opened []multipart.File
	closeAll := func() {
		for _, f := range opened {
			_ = f.Close()
		}
	}

	uploads := make([]model.DocumentUpload, 0, len(model.DocumentTypes))
	for _, docType := range model.DocumentTypes {
		headers := form.File[string(docType)]
		if len(headers) == 0 {
			continue
		}
		upload, f, err := openUpload(docType, headers[0])
		if err != nil {
			return nil, closeAll, err
		}
		opened = append(opened, f)
		uploads = append(uploads, upload)
	}
	return uploads, closeAll, nil
}

func openUpload(docType model.DocumentType, header *multipart.FileHeader) (model.DocumentUpload, multipart.File, error) {
	f, err := header.Open()
	if err != nil {
		return model.DocumentUpload{}, nil, fmt.Errorf("%s: %w", docType, err)
	}
	return model.DocumentUpload{
		Type:     docType,
		FileName: header.Filename,
		Size:     header.Size,
		Content:  f,
	}, f, nil
}

// UploadDocument stores one document for a customer, replacing the previous document of
// the same type. The multipart body carries "document_type" and "file".
func (a Api) UploadDocument(c *gin.Context) {
	id, passed := c.Params.Get("id")
	if !passed {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id is required. pass id in the route /:id"})
		return
	}

	header, err := c.FormFile("file")
	if err != nil {
		invalidInput(c, "file is required", err)
		return
	}
	docType := model.DocumentType(c.PostForm("document_type"))
	if !docType.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("unknown document_type %q", docType)})
		return
	}

	upload, f, err := openUpload(docType, header)
	if err != nil {
		invalidInput(c, "unreadable document", err)
		return
	}
	defer f.Close()

	resp, err := a.onboard.UploadDocument(c.Request.Context(), id, upload, callerOf(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// GetDocument streams the content of a document.
func (a Api) GetDocument(c *gin.Context) {
	id, passed := c.Params.Get("id")
	if !passed {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id is required. pass id in the route /:id"})
		return
	}

	doc, content, err := a.onboard.OpenDocument(c.Request.Context(), id, callerOf(c))
	if err != nil {
		respondError(c, err)
		return
	}
	defer content.Close()

	c.DataFromReader(http.StatusOK, doc.Size, doc.MimeType, content, map[string]string{
		"Content-Disposition": fmt.Sprintf("inline; filename=%q", doc.FileName),
	})
}

// DeleteDocument removes a document and its stored content.
func (a Api) DeleteDocument(c *gin.Context) {
	id, passed := c.Params.Get("id")
	if !passed {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id is required. pass id in the route /:id"})
		return
	}

	if err := a.onboard.DeleteDocument(c.Request.Context(), id, callerOf(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Document deleted successfully"})
}
