package diagnosis

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// HTTPClassifier calls the skin-disease model service over HTTP: the image
// bytes go out as the request body, the service answers with a Result.
type HTTPClassifier struct {
	endpoint string
	client   *http.Client
}

// NewHTTPClassifier returns nil when no endpoint is configured; the handler
// treats a nil classifier as "image diagnosis unavailable".
func NewHTTPClassifier(endpoint string, timeout time.Duration) *HTTPClassifier {
	if endpoint == "" {
		return nil
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &HTTPClassifier{
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
	}
}

func (c *HTTPClassifier) ClassifyImage(ctx context.Context, image []byte) (Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(image))
	if err != nil {
		return Result{}, err
	}
	req.Header.Set("Content-Type", "application/octet-stream")

	resp, err := c.client.Do(req)
	if err != nil {
		return Result{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return Result{}, fmt.Errorf("model service returned %d: %s", resp.StatusCode, body)
	}

	var result Result
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return Result{}, fmt.Errorf("decode model response: %w", err)
	}
	if result.Label == "" {
		return Result{}, fmt.Errorf("model response carries no label")
	}
	return result, nil
}
