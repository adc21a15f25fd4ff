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
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngHeader = []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A, 0, 0, 0, 0x0D, 'I', 'H', 'D', 'R'}

func TestDetectFileType(t *testing.T) {
	tests := []struct {
		name     string
		data     []byte
		filename string
		want     string
	}{
		{"png by content", pngHeader, "photo.bin", "image/png"},
		{"pdf by content", []byte("%PDF-1.7\n%âãÏÓ"), "scan", "application/pdf"},
		{"jpeg by content", []byte{0xFF, 0xD8, 0xFF, 0xE0, 0, 0x10, 'J', 'F', 'I', 'F'}, "id.png", "image/jpeg"},
		{"unknown falls back to extension", []byte{0x00, 0x01, 0x02}, "signature.pdf", "application/pdf"},
		{"unknown without extension", []byte{0x00, 0x01, 0x02}, "blob", "application/octet-stream"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectFileType(tt.data, tt.filename))
		})
	}
}

func TestSniffPreservesContent(t *testing.T) {
	content := append(append([]byte{}, pngHeader...), bytes.Repeat([]byte("x"), 2048)...)

	mimeType, r, err := Sniff(bytes.NewReader(content), "photo.png")
	require.NoError(t, err)
	assert.Equal(t, "image/png", mimeType)

	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, content, got)
}

func TestSniffShortInput(t *testing.T) {
	mimeType, r, err := Sniff(strings.NewReader("%PDF-1.4"), "a.pdf")
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", mimeType)

	got, _ := io.ReadAll(r)
	assert.Equal(t, "%PDF-1.4", string(got))
}

func TestIsAllowedDocument(t *testing.T) {
	assert.True(t, IsAllowedDocument("image/jpeg"))
	assert.True(t, IsAllowedDocument("application/pdf"))
	assert.False(t, IsAllowedDocument("text/html"))
	assert.False(t, IsAllowedDocument("application/x-msdownload"))
}
