package googleapi

import (
	"bytes"
	"context"

	"ct-assessment/internal/domain"

	"golang.org/x/oauth2"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

// DriveClient implements domain.FileUploader against the Google Drive API.
type DriveClient struct{}

// NewDriveClient creates a DriveClient.
func NewDriveClient() *DriveClient {
	return &DriveClient{}
}

// Upload creates a named file with the given content.
func (c *DriveClient) Upload(ctx context.Context, token, name, mimeType string, content []byte) error {
	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	svc, err := drive.NewService(ctx, option.WithTokenSource(src))
	if err != nil {
		return domain.NewError(domain.CodeRemoteError, "failed to build drive client", err)
	}

	meta := &drive.File{Name: name, MimeType: mimeType}
	_, err = svc.Files.Create(meta).
		Media(bytes.NewReader(content)).
		Context(ctx).
		Do()
	if err != nil {
		return translateError(err)
	}
	return nil
}
