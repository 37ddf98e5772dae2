package services

import (
	"context"
	"io"

	"github.com/dmalakhov/spravka/core"
)

// UploadService wraps POST /upload (multipart, field name "file").
type UploadService struct {
	client *core.Client
}

func NewUpload(client *core.Client) *UploadService {
	return &UploadService{client: client}
}

// File uploads one file and returns its public URL.
func (s *UploadService) File(ctx context.Context, filename string, r io.Reader) (*core.UploadResult, error) {
	if filename == "" || r == nil {
		return nil, core.ErrFileRequired
	}
	var out core.UploadResult
	if err := s.client.Upload(ctx, "/upload", filename, r, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
