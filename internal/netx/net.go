// Package netx uploads card images to presigned object-storage URLs.
package netx

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const maxErrorBody = 512

// httpClient is a test seam.
var httpClient = &http.Client{Timeout: 60 * time.Second}

// UploadImage PUTs data to a presigned URL. The Content-Type is sniffed
// from the payload and anything that is not an image is refused.
func UploadImage(ctx context.Context, url string, data []byte) error {
	if len(data) == 0 {
		return fmt.Errorf("upload: empty payload")
	}
	contentType := http.DetectContentType(data)
	if !strings.HasPrefix(contentType, "image/") {
		return fmt.Errorf("upload: %s is not an image", contentType)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return fmt.Errorf("upload failed: %s; body: %s", resp.Status, string(b))
	}
	return nil
}
