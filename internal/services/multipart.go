package services

import (
	"bytes"
	"fmt"
	"mime/multipart"
)

// FileUpload is one file destined for a multipart form submission.
type FileUpload struct {
	FieldName string
	FileName  string
	Data      []byte
}

// encodeMultipart builds a multipart/form-data body from scalar fields and
// file uploads. Returns the body and its content type (which carries the
// generated boundary).
func encodeMultipart(fields map[string]string, files []FileUpload) ([]byte, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for field, value := range fields {
		if err := w.WriteField(field, value); err != nil {
			return nil, "", fmt.Errorf("failed to write form field %s: %w", field, err)
		}
	}

	for _, f := range files {
		part, err := w.CreateFormFile(f.FieldName, f.FileName)
		if err != nil {
			return nil, "", fmt.Errorf("failed to create form file %s: %w", f.FileName, err)
		}
		if _, err := part.Write(f.Data); err != nil {
			return nil, "", fmt.Errorf("failed to write form file %s: %w", f.FileName, err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to finalize multipart body: %w", err)
	}

	return buf.Bytes(), w.FormDataContentType(), nil
}
