package vision

import (
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
)

const (
	// DefaultTimeout for each individual API request
	DefaultTimeout = 60 * time.Second

	// DefaultPollInterval is the delay between read-operation polls
	DefaultPollInterval = 500 * time.Millisecond

	// DefaultMaxPolls is the read-operation poll attempt budget
	DefaultMaxPolls = 60
)

// Client is the Azure AI Vision API client
type Client struct {
	endpoint     string
	apiKey       string
	httpClient   *http.Client
	pollInterval time.Duration
	maxPolls     int
	debug        bool
}

// ClientOption configures the Client
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithTimeout sets the per-request HTTP timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithPollInterval sets the delay between read-operation polls
func WithPollInterval(interval time.Duration) ClientOption {
	return func(c *Client) {
		if interval > 0 {
			c.pollInterval = interval
		}
	}
}

// WithMaxPolls sets the read-operation poll attempt budget
func WithMaxPolls(n int) ClientOption {
	return func(c *Client) {
		if n > 0 {
			c.maxPolls = n
		}
	}
}

// WithDebug enables debug logging
func WithDebug(debug bool) ClientOption {
	return func(c *Client) {
		c.debug = debug
	}
}

// NewClient creates a new Azure AI Vision client
func NewClient(endpoint, apiKey string, opts ...ClientOption) (*Client, error) {
	if endpoint == "" {
		return nil, fmt.Errorf("endpoint is required")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	parsed, err := url.Parse(endpoint)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("invalid endpoint URL: %s", endpoint)
	}

	c := &Client{
		endpoint: strings.TrimSuffix(endpoint, "/"),
		apiKey:   apiKey,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		pollInterval: DefaultPollInterval,
		maxPolls:     DefaultMaxPolls,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// NewClientFromEnv creates a client using the AZURE_VISION_ENDPOINT and
// AZURE_VISION_KEY environment variables
func NewClientFromEnv(opts ...ClientOption) (*Client, error) {
	endpoint := os.Getenv("AZURE_VISION_ENDPOINT")
	if endpoint == "" {
		return nil, fmt.Errorf("AZURE_VISION_ENDPOINT environment variable not set")
	}
	apiKey := os.Getenv("AZURE_VISION_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("AZURE_VISION_KEY environment variable not set")
	}
	return NewClient(endpoint, apiKey, opts...)
}

// APIError is a non-success HTTP response from the Vision API
type APIError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *APIError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("vision API error: %s - %s", e.Status, e.Body)
	}
	return fmt.Sprintf("vision API error: %s", e.Status)
}

// CheckConfig verifies the Azure Vision configuration is set up
func CheckConfig() error {
	if os.Getenv("AZURE_VISION_ENDPOINT") == "" {
		return fmt.Errorf("AZURE_VISION_ENDPOINT not set")
	}
	if os.Getenv("AZURE_VISION_KEY") == "" {
		return fmt.Errorf("AZURE_VISION_KEY not set")
	}
	return nil
}

// GetAPIKeyHelp returns help text for setting up Azure AI Vision
func GetAPIKeyHelp() string {
	return `To scan notebook pages, you need an Azure AI Vision (Computer Vision) resource.

Setup:
  1. Create a Computer Vision resource in the Azure Portal
  2. Copy the endpoint and one of the access keys
  3. Set the environment variables:

     export AZURE_VISION_ENDPOINT="https://your-resource.cognitiveservices.azure.com"
     export AZURE_VISION_KEY="your-access-key"

  Or add them to your .env file.

Optional:
  OPENAI_API_KEY  - enables Markdown cleanup of the OCR text
  OPENAI_MODEL    - cleanup model (default: gpt-4.1-mini)`
}
