package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"path/filepath"
)

// File is an optional binary part of a multipart request.
type File struct {
	Name        string // file name sent to the server
	ContentType string // defaults to application/octet-stream
	Content     io.Reader
}

// Multipart is a request with an optional JSON part and an optional file part.
// A nil File adds no part at all: the backend treats an empty file part as
// an upload of nothing.
type Multipart struct {
	JSONField string
	JSON      any
	FileField string
	File      *File
}

func (m *Multipart) encode() (io.Reader, string, error) {
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)

	if m.JSONField != "" {
		data, err := json.Marshal(m.JSON)
		if err != nil {
			return nil, "", fmt.Errorf("encode %q part: %w", m.JSONField, err)
		}
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q`, m.JSONField))
		header.Set(headerContentType, contentTypeJSON)
		part, err := w.CreatePart(header)
		if err != nil {
			return nil, "", fmt.Errorf("create %q part: %w", m.JSONField, err)
		}
		if _, err = part.Write(data); err != nil {
			return nil, "", fmt.Errorf("write %q part: %w", m.JSONField, err)
		}
	}

	if m.File != nil && m.File.Content != nil {
		contentType := m.File.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition",
			fmt.Sprintf(`form-data; name=%q; filename=%q`, m.FileField, filepath.Base(m.File.Name)))
		header.Set(headerContentType, contentType)
		part, err := w.CreatePart(header)
		if err != nil {
			return nil, "", fmt.Errorf("create %q part: %w", m.FileField, err)
		}
		if _, err = io.Copy(part, m.File.Content); err != nil {
			return nil, "", fmt.Errorf("write %q part: %w", m.FileField, err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart body: %w", err)
	}
	return buf, w.FormDataContentType(), nil
}
