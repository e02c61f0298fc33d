// Package s3 provides an uploader module for S3-compatible pre-signed URLs.
package s3

import (
	"context"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"

	"github.com/vk/modregistry/internal/ctxlog"
	"github.com/vk/modregistry/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

func init() {
	registry.Contribute(&Module{})
}

// UploadResult reports the outcome of a single upload.
type UploadResult struct {
	Success bool
	Status  string
	Size    int64
}

// Uploader pushes local files to pre-signed S3 URLs over plain HTTP PUT.
// Each instance carries its own client so TCP connections are reused
// across uploads from the same instance.
type Uploader struct {
	httpClient *http.Client
}

// Name returns the module's registry name.
func (u *Uploader) Name() string { return "s3" }

// ModuleType returns the module's coarse type tag.
func (u *Uploader) ModuleType() string { return "provider" }

// Upload streams the file at sourcePath to the pre-signed uploadURL. The
// content type is inferred from the file extension, falling back to
// application/octet-stream.
func (u *Uploader) Upload(ctx context.Context, sourcePath, uploadURL string) (*UploadResult, error) {
	logger := ctxlog.FromContext(ctx).With("module", "s3", "action", "upload")

	file, err := os.Open(sourcePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open source file '%s': %w", sourcePath, err)
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to get file stats for '%s': %w", sourcePath, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, uploadURL, file)
	if err != nil {
		return nil, fmt.Errorf("failed to create S3 upload request: %w", err)
	}

	contentType := mime.TypeByExtension(filepath.Ext(sourcePath))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	req.Header.Set("Content-Type", contentType)
	req.ContentLength = stat.Size()

	logger.Info("Uploading file to S3", "source", sourcePath, "size", stat.Size(), "contentType", contentType)

	resp, err := u.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute S3 upload request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("S3 upload failed with status: %s", resp.Status)
	}

	logger.Info("Successfully uploaded file", "status", resp.Status)

	return &UploadResult{
		Success: true,
		Status:  resp.Status,
		Size:    stat.Size(),
	}, nil
}

// New constructs an Uploader with its own HTTP client.
func New() (any, error) {
	return &Uploader{httpClient: &http.Client{}}, nil
}

// Register registers the module's factory with the registry.
func (m *Module) Register(r *registry.Registry) error {
	meta := registry.NewMetadata("s3", "provider", "New", "modules/s3", "Uploader")
	meta.Tags = []string{"storage", "network"}
	meta.Security.Permissions.NetworkAccess = true
	meta.Security.Permissions.FilesystemAccess = true
	return r.RegisterWithMetadata("s3", "provider", New, meta)
}
