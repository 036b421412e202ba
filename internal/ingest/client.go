package ingest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/muurk/sketchui/internal/logging"
	"github.com/muurk/sketchui/internal/screen"
)

const (
	// DefaultBaseURL is where a locally running describer listens
	DefaultBaseURL = "http://127.0.0.1:8000"

	// UploadPath is the describer endpoint accepting an image upload
	UploadPath = "/api/upload"

	// DefaultTimeout is the default HTTP request timeout. Describing an image
	// runs a model, so it is generous.
	DefaultTimeout = 90 * time.Second

	// DefaultMaxRetries is the default number of retry attempts for failed requests
	DefaultMaxRetries = 2

	// DefaultRetryDelay is the default delay between retry attempts
	DefaultRetryDelay = 1 * time.Second

	// DefaultMaxRetryDelay is the maximum delay for exponential backoff
	DefaultMaxRetryDelay = 10 * time.Second

	// maxResponseSize caps how much of a describer response is read
	maxResponseSize = 8 << 20
)

// Client talks to the describer service that turns an image into a
// description.
type Client struct {
	// BaseURL is the describer base URL (e.g., "http://127.0.0.1:8000")
	BaseURL string

	// HTTPClient is the underlying HTTP client
	HTTPClient *http.Client

	// MaxRetries is the maximum number of retry attempts for failed requests
	MaxRetries int

	// RetryDelay is the initial delay between retry attempts
	RetryDelay time.Duration

	// MaxRetryDelay is the maximum delay for exponential backoff
	MaxRetryDelay time.Duration
}

// NewClient creates a describer client for baseURL.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		BaseURL:       strings.TrimRight(baseURL, "/"),
		HTTPClient:    &http.Client{Timeout: DefaultTimeout},
		MaxRetries:    DefaultMaxRetries,
		RetryDelay:    DefaultRetryDelay,
		MaxRetryDelay: DefaultMaxRetryDelay,
	}
}

// SetTimeout sets the HTTP request timeout
func (c *Client) SetTimeout(timeout time.Duration) {
	c.HTTPClient.Timeout = timeout
}

// SetRetry configures retry behavior
func (c *Client) SetRetry(maxRetries int, retryDelay time.Duration) {
	c.MaxRetries = maxRetries
	c.RetryDelay = retryDelay
}

// UploadResponse is the describer's answer to an upload.
type UploadResponse struct {
	Status        string          `json:"status"`
	Filename      string          `json:"filename"`
	UIDescription json.RawMessage `json:"ui_description"`
	Detail        string          `json:"detail,omitempty"`
}

// Health checks that the describer is up. It expects {"status":"ok"} on GET /.
func (c *Client) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/", nil)
	if err != nil {
		return NewNetworkError("failed to create health request", err)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return NewNetworkError("describer unreachable", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return NewHTTPError(resp.StatusCode, fmt.Sprintf("unexpected status code: %d", resp.StatusCode))
	}

	var body struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseSize)).Decode(&body); err != nil {
		return NewParseError("failed to parse health response", err)
	}
	if body.Status != "ok" {
		return NewHTTPError(resp.StatusCode, fmt.Sprintf("describer status %q", body.Status))
	}
	return nil
}

// Describe uploads an image and returns the raw (not yet id-stamped)
// description the describer produced for it.
func (c *Client) Describe(ctx context.Context, filename, contentType string, image []byte) (*screen.Screen, error) {
	if len(image) == 0 {
		return nil, NewEmptyError("image is empty")
	}

	var lastErr error
	currentDelay := c.RetryDelay

	for attempt := 0; attempt <= c.MaxRetries; attempt++ {
		if attempt > 0 {
			logging.Debug("Retrying describe",
				zap.Int("attempt", attempt),
				zap.Duration("delay", currentDelay),
				zap.Error(lastErr),
			)
			select {
			case <-ctx.Done():
				return nil, NewNetworkError("describe cancelled", ctx.Err())
			case <-time.After(currentDelay):
			}

			currentDelay *= 2
			if currentDelay > c.MaxRetryDelay {
				currentDelay = c.MaxRetryDelay
			}
		}

		doc, err := c.describeAttempt(ctx, filename, contentType, image)
		if err == nil {
			return doc, nil
		}

		lastErr = err
		if !IsRetryable(err) {
			return nil, err
		}
	}

	return nil, lastErr
}

func (c *Client) describeAttempt(ctx context.Context, filename, contentType string, image []byte) (*screen.Screen, error) {
	body, formType, err := multipartImage(filename, contentType, image)
	if err != nil {
		return nil, NewParseError("failed to encode upload", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+UploadPath, body)
	if err != nil {
		return nil, NewNetworkError("failed to create upload request", err)
	}
	req.Header.Set("Content-Type", formType)
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, NewNetworkError("upload failed", err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, NewNetworkError("failed to read response body", err)
	}

	if resp.StatusCode != http.StatusOK {
		msg := fmt.Sprintf("unexpected status code: %d", resp.StatusCode)
		var failure UploadResponse
		if json.Unmarshal(data, &failure) == nil && failure.Detail != "" {
			msg = failure.Detail
		}
		return nil, NewHTTPError(resp.StatusCode, msg)
	}

	return ParseUploadResponse(data)
}

// ParseUploadResponse extracts the description from a describer response.
// The description may be embedded as an object or as a string holding JSON,
// possibly surrounded by prose.
func ParseUploadResponse(data []byte) (*screen.Screen, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, NewEmptyError("describer returned an empty response")
	}

	var resp UploadResponse
	if err := json.Unmarshal(trimmed, &resp); err != nil {
		return nil, NewParseError("failed to parse describer response", err)
	}

	raw := bytes.TrimSpace(resp.UIDescription)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, NewEmptyError("response has no ui_description")
	}

	if raw[0] == '"' {
		var text string
		if err := json.Unmarshal(raw, &text); err != nil {
			return nil, NewParseError("failed to decode ui_description text", err)
		}
		return ParseDescription([]byte(text))
	}
	return ParseDescription(raw)
}

// ParseDescription parses description text. When the text is not a JSON
// object on its own, the span from the first '{' to the last '}' is tried.
func ParseDescription(data []byte) (*screen.Screen, error) {
	doc, err := screen.Parse(data)
	if err == nil {
		return doc, nil
	}

	span, ok := ExtractJSON(data)
	if !ok {
		return nil, NewParseError("no JSON object in description", err)
	}
	doc, err = screen.Parse(span)
	if err != nil {
		return nil, NewParseError("failed to parse description", err)
	}
	return doc, nil
}

// ExtractJSON returns the bytes between the first '{' and the last '}'.
func ExtractJSON(data []byte) ([]byte, bool) {
	start := bytes.IndexByte(data, '{')
	end := bytes.LastIndexByte(data, '}')
	if start < 0 || end <= start {
		return nil, false
	}
	return data[start : end+1], true
}

func multipartImage(filename, contentType string, image []byte) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	if contentType == "" {
		contentType = http.DetectContentType(image)
	}
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, filename))
	header.Set("Content-Type", contentType)

	part, err := w.CreatePart(header)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(image); err != nil {
		return nil, "", err
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}

// DescribeFile reads an image from disk and describes it. The content type is
// sniffed from the file's first bytes.
func (c *Client) DescribeFile(ctx context.Context, path string) (*screen.Screen, error) {
	image, err := os.ReadFile(path)
	if err != nil {
		return nil, NewFileError(path, err)
	}
	return c.Describe(ctx, filepath.Base(path), http.DetectContentType(image), image)
}
