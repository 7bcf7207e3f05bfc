// Package assets uploads images and documents to the external asset store.
package assets

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
)

var ErrEmptyFile = errors.New("file has no content")

// File is one selected file waiting to be uploaded.
type File struct {
	Name string
	Data []byte
}

// Uploader stores a file and returns its persisted URL.
type Uploader interface {
	Upload(ctx context.Context, f File) (string, error)
}

// CloudinaryUploader posts unsigned uploads to a Cloudinary-compatible
// endpoint.
type CloudinaryUploader struct {
	httpClient *http.Client
	endpoint   string
	preset     string
}

type uploadResponse struct {
	SecureURL string `json:"secure_url"`
	Error     *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// NewCloudinaryUploader builds an uploader for {baseURL}/v1_1/{cloud}/auto/upload.
func NewCloudinaryUploader(baseURL, cloudName, preset string, timeout time.Duration) *CloudinaryUploader {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &CloudinaryUploader{
		httpClient: &http.Client{Timeout: timeout},
		endpoint:   strings.TrimRight(baseURL, "/") + "/v1_1/" + cloudName + "/auto/upload",
		preset:     preset,
	}
}

func (u *CloudinaryUploader) Upload(ctx context.Context, f File) (string, error) {
	if len(f.Data) == 0 {
		return "", fmt.Errorf("%s: %w", f.Name, ErrEmptyFile)
	}

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("file", f.Name)
	if err != nil {
		return "", fmt.Errorf("failed to build upload form: %w", err)
	}
	if _, err := part.Write(f.Data); err != nil {
		return "", fmt.Errorf("failed to build upload form: %w", err)
	}
	if err := w.WriteField("upload_preset", u.preset); err != nil {
		return "", fmt.Errorf("failed to build upload form: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("failed to build upload form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.endpoint, &body)
	if err != nil {
		return "", fmt.Errorf("failed to create upload request: %w", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := u.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", f.Name, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("failed to read upload response: %w", err)
	}

	var out uploadResponse
	_ = json.Unmarshal(raw, &out)
	if resp.StatusCode >= 300 {
		if out.Error != nil && out.Error.Message != "" {
			return "", fmt.Errorf("upload %s: %s", f.Name, out.Error.Message)
		}
		return "", fmt.Errorf("upload %s: asset store returned status %d", f.Name, resp.StatusCode)
	}
	if out.SecureURL == "" {
		return "", fmt.Errorf("upload %s: response carried no secure_url", f.Name)
	}
	return out.SecureURL, nil
}

// UploadAll uploads files concurrently. The returned URLs are in the same
// order as files. The first failure cancels the remaining uploads.
func UploadAll(ctx context.Context, u Uploader, files []File) ([]string, error) {
	urls := make([]string, len(files))
	g, gctx := errgroup.WithContext(ctx)
	for i, f := range files {
		g.Go(func() error {
			url, err := u.Upload(gctx, f)
			if err != nil {
				return err
			}
			urls[i] = url
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return urls, nil
}
