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

package files

import (
	"bytes"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strings"
)

// sniffLen is the number of bytes http.DetectContentType looks at.
const sniffLen = 512

// DocumentMimeTypes lists the content types accepted for customer documents.
var DocumentMimeTypes = map[string]bool{
	"application/pdf": true,
	"image/jpeg":      true,
	"image/png":       true,
	"image/gif":       true,
	"image/webp":      true,
	"image/tiff":      true,
	"image/bmp":       true,
}

// Sniff reads the head of r to detect its content type and returns a reader
// that still yields the full content.
func Sniff(r io.Reader, filename string) (string, io.Reader, error) {
	head := make([]byte, sniffLen)
	n, err := io.ReadFull(r, head)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return "", nil, fmt.Errorf("error reading file header: %w", err)
	}
	head = head[:n]

	return DetectFileType(head, filename), io.MultiReader(bytes.NewReader(head), r), nil
}

// DetectFileType trusts the content first and only falls back to the extension
// when the content is not recognized.
func DetectFileType(data []byte, filename string) string {
	detected := DetectByContent(data)
	if detected != "application/octet-stream" && detected != "text/plain" {
		return detected
	}
	if byExt := DetectByExtension(filename); byExt != "" {
		return byExt
	}
	return detected
}

// DetectByExtension detects the MIME type by the file extension.
func DetectByExtension(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		return ""
	}
	mimeType := mime.TypeByExtension(ext)
	if i := strings.Index(mimeType, ";"); i >= 0 {
		mimeType = strings.TrimSpace(mimeType[:i])
	}
	return mimeType
}

// DetectByContent detects the MIME type based on the leading bytes.
func DetectByContent(data []byte) string {
	mimeType := http.DetectContentType(data)
	if i := strings.Index(mimeType, ";"); i >= 0 {
		mimeType = strings.TrimSpace(mimeType[:i])
	}
	return mimeType
}

// IsAllowedDocument reports whether mimeType may be stored as a customer document.
func IsAllowedDocument(mimeType string) bool {
	return DocumentMimeTypes[mimeType]
}
