package leonardo

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

var (
	// ErrUnsupportedExtension is returned for image types the upload
	// endpoint does not accept
	ErrUnsupportedExtension = errors.New("unsupported file extension: only png, jpg, jpeg, and webp are supported")

	// ErrUploadRejected is returned when the presigned upload does not
	// answer 204 No Content
	ErrUploadRejected = errors.New("image upload rejected")
)

type presignedUpload struct {
	UploadInitImage struct {
		ID     string            `json:"id"`
		Key    string            `json:"key"`
		URL    string            `json:"url"`
		Fields map[string]string `json:"fields"`
	} `json:"uploadInitImage"`
}

// UploadInitImage uploads a local image for use as an init image. The
// API hands out a presigned URL plus form fields; the file goes there
// in a second, unauthenticated multipart POST that must answer 204.
func (c *Client) UploadInitImage(ctx context.Context, imagePath string) (*InitImage, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(imagePath), "."))
	switch ext {
	case "png", "jpg", "jpeg", "webp":
	default:
		return nil, fmt.Errorf("%w (got %q)", ErrUnsupportedExtension, ext)
	}

	imageData, err := os.ReadFile(imagePath)
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}

	var presigned presignedUpload
	if err := c.doJSON(ctx, http.MethodPost, "/init-image", map[string]string{"extension": ext}, &presigned); err != nil {
		return nil, fmt.Errorf("request upload url: %w", err)
	}

	if presigned.UploadInitImage.URL == "" {
		return nil, fmt.Errorf("no upload url returned")
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for key, value := range presigned.UploadInitImage.Fields {
		if err := writer.WriteField(key, value); err != nil {
			return nil, fmt.Errorf("build upload form: %w", err)
		}
	}

	part, err := writer.CreateFormFile("file", "image."+ext)
	if err != nil {
		return nil, fmt.Errorf("build upload form: %w", err)
	}
	if _, err := part.Write(imageData); err != nil {
		return nil, fmt.Errorf("build upload form: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("build upload form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, presigned.UploadInitImage.URL, &buf)
	if err != nil {
		return nil, fmt.Errorf("build upload request: %w", err)
	}
	// The presigned URL carries its own authorization in the form fields
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("upload image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: %s: %s", ErrUploadRejected, resp.Status, strings.TrimSpace(string(bodyBytes)))
	}

	return &InitImage{
		ID:  presigned.UploadInitImage.ID,
		Key: presigned.UploadInitImage.Key,
	}, nil
}
