package model

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"
)

type DocumentType string

const (
	DocumentIdentification        DocumentType = "identification"
	DocumentNationalID            DocumentType = "national_id"
	DocumentPersonalPhoto         DocumentType = "personal_photo"
	DocumentRequesterWithID       DocumentType = "requester_with_id"
	DocumentSignature             DocumentType = "signature"
	DocumentHandwrittenRequest    DocumentType = "handwritten_request"
	DocumentEmploymentCertificate DocumentType = "employment_certificate"
)

// DocumentTypes lists every accepted document type in upload order.
var DocumentTypes = []DocumentType{
	DocumentIdentification,
	DocumentNationalID,
	DocumentPersonalPhoto,
	DocumentRequesterWithID,
	DocumentSignature,
	DocumentHandwrittenRequest,
	DocumentEmploymentCertificate,
}

func (t DocumentType) Valid() bool {
	for _, known := range DocumentTypes {
		if t == known {
			return true
		}
	}
	return false
}

type Document struct {
	DocumentID   string       `json:"document_id"`
	CustomerID   string       `json:"customer_id"`
	DocumentType DocumentType `json:"document_type"`
	Path         string       `json:"path"`
	FileName     string       `json:"file_name"`
	Size         int64        `json:"size"`
	MimeType     string       `json:"mime_type"`
	CreatedAt    time.Time    `json:"created_at"`
}

// DocumentUpload is one uploaded file waiting to be stored.
type DocumentUpload struct {
	Type     DocumentType
	FileName string
	Size     int64
	Content  io.Reader
}

// Empty reports whether nothing was uploaded for this slot.
func (u DocumentUpload) Empty() bool {
	return u.Content == nil || (u.Size == 0 && u.FileName == "")
}

var ErrUnsafePathSegment = errors.New("unsafe path segment")

// DocumentPath builds the deterministic storage path {branch}/{folder}/{type}{ext}.
func DocumentPath(branchCode, folder string, docType DocumentType, fileName string) (string, error) {
	for _, seg := range []string{branchCode, folder} {
		if seg == "" || strings.ContainsAny(seg, `/\`) || strings.Contains(seg, "..") {
			return "", fmt.Errorf("%w: %q", ErrUnsafePathSegment, seg)
		}
	}
	if !docType.Valid() {
		return "", fmt.Errorf("unknown document type %q", docType)
	}
	ext := strings.ToLower(filepath.Ext(fileName))
	if strings.ContainsAny(ext, `/\`) {
		ext = ""
	}
	return fmt.Sprintf("%s/%s/%s%s", branchCode, folder, docType, ext), nil
}
