package drive

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/markdave123-py/Coursely/internal/config"
	"github.com/markdave123-py/Coursely/internal/core"
	"github.com/markdave123-py/Coursely/internal/core/apperr"
)

var _ core.DriveClient = (*Client)(nil)

type Client struct {
	svc *drive.Service
}

// NewClient authenticates with a service-account file when configured and
// falls back to the API key, which only reaches link-shared files.
func NewClient(ctx context.Context, cfg *config.Config, extra ...option.ClientOption) (*Client, error) {
	opts := GoogleOptions(cfg)
	if len(opts) == 0 && len(extra) == 0 {
		return nil, fmt.Errorf("GOOGLE_API_KEY or GOOGLE_APPLICATION_CREDENTIALS must be set for drive access")
	}
	svc, err := drive.NewService(ctx, append(opts, extra...)...)
	if err != nil {
		return nil, fmt.Errorf("create drive service: %w", err)
	}
	return &Client{svc: svc}, nil
}

// GoogleOptions builds the credential options shared by the Drive and Sheets clients.
func GoogleOptions(cfg *config.Config) []option.ClientOption {
	switch {
	case cfg.GoogleCredentialsFile != "":
		return []option.ClientOption{option.WithCredentialsFile(cfg.GoogleCredentialsFile)}
	case cfg.GoogleAPIKey != "":
		return []option.ClientOption{option.WithAPIKey(cfg.GoogleAPIKey)}
	default:
		return nil
	}
}

// ExportText exports a Docs Editors file as text/plain.
func (c *Client) ExportText(ctx context.Context, fileID string) (string, error) {
	resp, err := c.svc.Files.Export(fileID, "text/plain").Context(ctx).Download()
	if err != nil {
		return "", mapError("export", fileID, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read export body: %w", err)
	}
	return string(body), nil
}

// Download fetches the raw file bytes (alt=media).
func (c *Client) Download(ctx context.Context, fileID string) ([]byte, error) {
	resp, err := c.svc.Files.Get(fileID).SupportsAllDrives(true).Context(ctx).Download()
	if err != nil {
		return nil, mapError("download", fileID, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read download body: %w", err)
	}
	return body, nil
}

// MimeType returns the declared media type of a file.
func (c *Client) MimeType(ctx context.Context, fileID string) (string, error) {
	f, err := c.svc.Files.Get(fileID).SupportsAllDrives(true).Fields("mimeType").Context(ctx).Do()
	if err != nil {
		return "", mapError("metadata", fileID, err)
	}
	return f.MimeType, nil
}

func mapError(op, fileID string, err error) error {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) && gerr.Code == http.StatusNotFound {
		return apperr.New(apperr.KindNotFound, "drive "+op, fmt.Sprintf("file %q not found", fileID), err)
	}
	return fmt.Errorf("drive %s %s: %w", op, fileID, err)
}
