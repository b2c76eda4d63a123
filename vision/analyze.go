package vision

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
)

// analyzeAPIVersion is the Image Analysis 4.0 preview API version
const analyzeAPIVersion = "2023-02-01-preview"

// Analyze sends image bytes to the synchronous Image Analysis endpoint with
// the read feature and returns the recognized text. The consolidated content
// field wins; otherwise the per-line blocks are joined in document order.
func (c *Client) Analyze(ctx context.Context, image []byte) (string, error) {
	apiURL := fmt.Sprintf("%s/computervision/imageanalysis:analyze?api-version=%s&features=read",
		c.endpoint, analyzeAPIVersion)

	if c.debug {
		fmt.Printf("[DEBUG] POST %s (%d bytes)\n", apiURL, len(image))
	}

	req, err := http.NewRequestWithContext(ctx, "POST", apiURL, bytes.NewReader(image))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Ocp-Apim-Subscription-Key", c.apiKey)
	req.Header.Set("Content-Type", "application/octet-stream")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("analyze request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if c.debug {
		fmt.Printf("[DEBUG] Analyze response status: %d\n", resp.StatusCode)
		fmt.Printf("[DEBUG] Analyze response body: %s\n", string(body))
	}

	if resp.StatusCode != http.StatusOK {
		return "", &APIError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       string(body),
		}
	}

	var result analyzeResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("failed to parse analyze response: %w", err)
	}

	if result.ReadResult == nil {
		return "", nil
	}
	if content := strings.TrimSpace(result.ReadResult.Content); content != "" {
		return content, nil
	}

	var lines []string
	for _, b := range result.ReadResult.Blocks {
		for _, l := range b.Lines {
			if l.Text != "" {
				lines = append(lines, l.Text)
			}
		}
	}
	return strings.TrimSpace(strings.Join(lines, "\n")), nil
}

// RecognizePage runs OCR on a notebook page image. The synchronous analyze
// call is tried first; an HTTP-level failure or an empty result falls back
// to the async Read API. Transport errors do not fall back.
func (c *Client) RecognizePage(ctx context.Context, image []byte) (string, error) {
	text, err := c.Analyze(ctx, image)
	if err == nil && text != "" {
		return text, nil
	}
	if err != nil {
		var apiErr *APIError
		if !errors.As(err, &apiErr) {
			return "", err
		}
		if c.debug {
			fmt.Printf("[DEBUG] Analyze failed (%d), falling back to Read 3.2\n", apiErr.StatusCode)
		}
	} else if c.debug {
		fmt.Printf("[DEBUG] Analyze returned no text, falling back to Read 3.2\n")
	}

	return c.Read(ctx, image)
}

// RecognizeFile reads an image from disk and runs RecognizePage on it.
func (c *Client) RecognizeFile(ctx context.Context, path string) (string, error) {
	image, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read image: %w", err)
	}
	return c.RecognizePage(ctx, image)
}
