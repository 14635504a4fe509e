package api

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"

	"github.com/Kiran-879/ResumePilot/internal/errors"
)

// encodeMultipart builds a multipart form body from plain fields and file
// parts, returning the body and its content type.
func encodeMultipart(fields map[string]string, files []FormFile) (io.Reader, string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			return nil, "", errors.NewInternalError(errors.ErrCodeInvalidRequest,
				fmt.Sprintf("Failed to encode form field %q", key), err)
		}
	}

	for _, file := range files {
		part, err := writer.CreateFormFile(file.Field, file.Name)
		if err != nil {
			return nil, "", errors.NewInternalError(errors.ErrCodeInvalidRequest,
				fmt.Sprintf("Failed to create form file %q", file.Field), err)
		}
		if _, err := io.Copy(part, file.Content); err != nil {
			return nil, "", errors.NewIOError(errors.ErrCodeFileNotReadable,
				fmt.Sprintf("Failed to read upload %q", file.Name), err)
		}
	}

	if err := writer.Close(); err != nil {
		return nil, "", errors.NewInternalError(errors.ErrCodeInvalidRequest, "Failed to finalize form body", err)
	}

	return &buf, writer.FormDataContentType(), nil
}
