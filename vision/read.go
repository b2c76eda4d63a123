package vision

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Read sends image bytes to the legacy Read 3.2 endpoint, then polls the
// returned operation location until the job succeeds, fails, or the poll
// budget runs out.
func (c *Client) Read(ctx context.Context, image []byte) (string, error) {
	submitURL := fmt.Sprintf("%s/vision/v3.2/read/analyze", c.endpoint)

	if c.debug {
		fmt.Printf("[DEBUG] POST %s (%d bytes)\n", submitURL, len(image))
	}

	req, err := http.NewRequestWithContext(ctx, "POST", submitURL, bytes.NewReader(image))
	if err != nil {
		return "", fmt.Errorf("failed to create submit request: %w", err)
	}
	req.Header.Set("Ocp-Apim-Subscription-Key", c.apiKey)
	req.Header.Set("Content-Type", "application/octet-stream")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("read submit failed: %w", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &APIError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       string(body),
		}
	}

	opLocation := resp.Header.Get("Operation-Location")
	if opLocation == "" {
		return "", fmt.Errorf("read submit: missing Operation-Location header")
	}

	if c.debug {
		fmt.Printf("[DEBUG] Polling operation: %s\n", opLocation)
	}

	return c.pollRead(ctx, opLocation)
}

// pollRead polls an operation location at the configured interval until a
// terminal status or the attempt budget is exhausted.
func (c *Client) pollRead(ctx context.Context, opLocation string) (string, error) {
	for attempt := 0; attempt < c.maxPolls; attempt++ {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(c.pollInterval):
		}

		op, raw, err := c.fetchOperation(ctx, opLocation)
		if err != nil {
			return "", err
		}

		switch strings.ToLower(op.Status) {
		case "succeeded":
			return joinReadLines(op.AnalyzeResult), nil
		case "failed":
			if op.Error != nil {
				return "", fmt.Errorf("read operation failed: %s: %s", op.Error.Code, op.Error.Message)
			}
			return "", fmt.Errorf("read operation failed: %s", raw)
		default:
			if c.debug {
				fmt.Printf("[DEBUG] Read status %q, poll %d/%d\n", op.Status, attempt+1, c.maxPolls)
			}
		}
	}

	return "", fmt.Errorf("read operation timed out after %d polls", c.maxPolls)
}

// fetchOperation performs one poll of the operation location.
func (c *Client) fetchOperation(ctx context.Context, opLocation string) (*readOperation, string, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", opLocation, nil)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create poll request: %w", err)
	}
	req.Header.Set("Ocp-Apim-Subscription-Key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("read poll failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read poll response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, "", &APIError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       string(body),
		}
	}

	var op readOperation
	if err := json.Unmarshal(body, &op); err != nil {
		return nil, "", fmt.Errorf("failed to parse poll response: %w", err)
	}

	return &op, string(body), nil
}

// joinReadLines flattens all recognized lines across pages in order.
func joinReadLines(result *analyzeResult) string {
	if result == nil {
		return ""
	}
	var lines []string
	for _, page := range result.ReadResults {
		for _, l := range page.Lines {
			if l.Text != "" {
				lines = append(lines, l.Text)
			}
		}
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
