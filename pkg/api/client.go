package api

import (
	"net/http"
	"sync"
	"time"
)

const (
	// DefaultBaseURL is the default backend base URL.
	DefaultBaseURL = "http://localhost:8000/api/v1"

	// DefaultTimeout is the default request timeout. Recognition and chat
	// requests ride on a slow vision/LLM pipeline, so this is generous.
	DefaultTimeout = 60 * time.Second

	// DefaultMaxRetries is the default maximum number of retries.
	DefaultMaxRetries = 2
)

// Client is the companion backend API client.
type Client struct {
	// Auth provides login and registration.
	Auth *AuthService

	// Recognition provides face and object recognition from still frames.
	Recognition *RecognitionService

	// Enrollment provides person and object enrollment.
	Enrollment *EnrollmentService

	// Chat provides free-text memory queries.
	Chat *ChatService

	// Quiz provides the daily memory quiz lifecycle.
	Quiz *QuizService

	// Tasks provides caregiver task mining operations.
	Tasks *TaskService

	// Reminders provides the push-notification key and subscription sink.
	Reminders *ReminderService

	config *clientConfig
	http   *httpClient

	mu    sync.RWMutex
	token string
}

// clientConfig holds the client configuration.
type clientConfig struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
	maxRetries int
}

// Option is a function that configures the client.
type Option func(*clientConfig)

// WithBaseURL sets a custom base URL for the backend.
func WithBaseURL(url string) Option {
	return func(c *clientConfig) {
		c.baseURL = url
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *clientConfig) {
		c.httpClient = client
	}
}

// WithTimeout sets the request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *clientConfig) {
		c.timeout = timeout
	}
}

// WithRetry sets the maximum number of retries for transient errors.
func WithRetry(maxRetries int) Option {
	return func(c *clientConfig) {
		c.maxRetries = maxRetries
	}
}

// NewClient creates a new backend API client.
//
// Example:
//
//	client := api.NewClient(api.WithBaseURL("https://companion.example/api/v1"))
//	client.SetToken(savedToken)
func NewClient(opts ...Option) *Client {
	cfg := &clientConfig{
		baseURL:    DefaultBaseURL,
		timeout:    DefaultTimeout,
		maxRetries: DefaultMaxRetries,
	}

	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.httpClient == nil {
		cfg.httpClient = &http.Client{
			Timeout: cfg.timeout,
		}
	}

	c := &Client{config: cfg}
	c.http = newHTTPClient(cfg, c.Token)

	c.Auth = &AuthService{client: c}
	c.Recognition = &RecognitionService{client: c}
	c.Enrollment = &EnrollmentService{client: c}
	c.Chat = &ChatService{client: c}
	c.Quiz = &QuizService{client: c}
	c.Tasks = &TaskService{client: c}
	c.Reminders = &ReminderService{client: c}

	return c
}

// SetToken installs the bearer token attached to subsequent requests.
// An empty token clears it (logout).
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

// Token returns the current bearer token, or "" if unauthenticated.
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// BaseURL returns the configured base URL.
func (c *Client) BaseURL() string {
	return c.config.baseURL
}
