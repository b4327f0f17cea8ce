package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/kaptinlin/jsonrepair"
)

// httpClient handles HTTP communication with the backend.
type httpClient struct {
	client     *http.Client
	baseURL    string
	maxRetries int
	token      func() string
}

// newHTTPClient creates a new HTTP client. token is consulted per request so
// login/logout take effect without rebuilding services.
func newHTTPClient(cfg *clientConfig, token func() string) *httpClient {
	return &httpClient{
		client:     cfg.httpClient,
		baseURL:    cfg.baseURL,
		maxRetries: cfg.maxRetries,
		token:      token,
	}
}

// requestJSON makes a JSON request with retry for transient failures.
func (h *httpClient) requestJSON(ctx context.Context, method, path string, body any, result any) error {
	var bodyData []byte
	if body != nil {
		var err error
		bodyData, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
	}

	return h.withRetry(ctx, func() error {
		var bodyReader io.Reader
		if bodyData != nil {
			bodyReader = bytes.NewReader(bodyData)
		}
		req, err := http.NewRequestWithContext(ctx, method, h.baseURL+path, bodyReader)
		if err != nil {
			return fmt.Errorf("create request: %w", err)
		}
		if bodyData != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		return h.do(req, result)
	})
}

// requestForm makes a form-encoded request (the login endpoint).
func (h *httpClient) requestForm(ctx context.Context, path string, form url.Values, result any) error {
	encoded := form.Encode()
	return h.withRetry(ctx, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.baseURL+path, strings.NewReader(encoded))
		if err != nil {
			return fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		return h.do(req, result)
	})
}

// filePart is a named binary part of a multipart upload.
type filePart struct {
	field    string
	filename string
	data     []byte
}

// uploadMultipart posts one or more binary parts plus text fields. Capture
// and enrollment submissions are never retried: resubmitting a frame the
// backend may already have processed would double-enroll.
func (h *httpClient) uploadMultipart(ctx context.Context, path string, files []filePart, fields map[string]string, result any) error {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	for _, f := range files {
		part, err := writer.CreateFormFile(f.field, f.filename)
		if err != nil {
			return fmt.Errorf("create form file: %w", err)
		}
		if _, err := part.Write(f.data); err != nil {
			return fmt.Errorf("write form file: %w", err)
		}
	}
	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			return fmt.Errorf("write field %s: %w", key, err)
		}
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("close writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.baseURL+path, &buf)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return h.do(req, result)
}

// withRetry runs fn with exponential backoff for retryable failures.
func (h *httpClient) withRetry(ctx context.Context, fn func() error) error {
	var lastErr error
	for attempt := 0; attempt <= h.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(1<<uint(attempt-1)) * time.Second
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
		}

		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err

		if apiErr, ok := AsError(err); ok && !apiErr.Retryable() {
			return err
		}
	}
	return lastErr
}

// do performs a single request and decodes the response into result.
func (h *httpClient) do(req *http.Request, result any) error {
	if tok := h.token(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	req.Header.Set("User-Agent", "companion-go/1.0")

	resp, err := h.client.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return parseError(body, resp.StatusCode)
	}

	if result == nil {
		return nil
	}
	if err := json.Unmarshal(body, result); err != nil {
		// The backend occasionally ships truncated or otherwise broken
		// JSON bodies on the chat path. Repair once before giving up.
		repaired, rerr := jsonrepair.JSONRepair(string(body))
		if rerr != nil {
			return fmt.Errorf("unmarshal response: %w", err)
		}
		if err := json.Unmarshal([]byte(repaired), result); err != nil {
			return fmt.Errorf("unmarshal repaired response: %w", err)
		}
	}
	return nil
}

// parseError parses an error response body into *Error.
//
// The backend's "detail" field is usually a string but can be a structured
// validation report; only the string form is user-presentable, anything else
// is left off the error.
func parseError(body []byte, httpStatus int) error {
	apiErr := &Error{HTTPStatus: httpStatus}
	var raw struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &raw); err == nil && len(raw.Detail) > 0 {
		var detail string
		if json.Unmarshal(raw.Detail, &detail) == nil {
			apiErr.Detail = detail
		}
	}
	return apiErr
}
