package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/kepler/internal/models"
)

const defaultTimeout = 10 * time.Second

// StatusError is a non-2xx answer from the journal service.
type StatusError struct {
	StatusCode int
	Message    string
}

func (err *StatusError) Error() string {
	if err.Message == "" {
		return fmt.Sprintf("journal service returned status %d", err.StatusCode)
	}
	return fmt.Sprintf("journal service returned status %d: %s", err.StatusCode, err.Message)
}

type Option func(*Client)

func WithToken(token string) Option {
	return func(client *Client) {
		client.token = strings.TrimSpace(token)
	}
}

func WithTimeout(timeout time.Duration) Option {
	return func(client *Client) {
		if timeout > 0 {
			client.timeout = timeout
		}
	}
}

// Client talks to the journal service. It satisfies services.LogLoader and
// services.LogSaver.
type Client struct {
	baseURL string
	token   string
	timeout time.Duration
}

func NewClient(baseURL string, options ...Option) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if !strings.HasPrefix(baseURL, "http://") && !strings.HasPrefix(baseURL, "https://") {
		return nil, fmt.Errorf("journal service url %q must start with http:// or https://", baseURL)
	}

	client := &Client{baseURL: baseURL, timeout: defaultTimeout}
	for _, option := range options {
		option(client)
	}
	return client, nil
}

func (client *Client) LoadLog(ctx context.Context) ([]models.LogEntry, error) {
	body, err := client.do(ctx, fiber.Get(client.baseURL+"/api/logs"))
	if err != nil {
		return nil, fmt.Errorf("load log: %w", err)
	}
	entries, err := models.DecodeLog(body)
	if err != nil {
		return nil, fmt.Errorf("load log: %w", err)
	}
	return entries, nil
}

func (client *Client) SaveLog(ctx context.Context, entries []models.LogEntry) error {
	payload, err := models.EncodeLog(entries)
	if err != nil {
		return fmt.Errorf("save log: %w", err)
	}

	agent := fiber.Post(client.baseURL + "/api/logs").
		ContentType(fiber.MIMEApplicationJSON).
		Body(payload)
	if _, err := client.do(ctx, agent); err != nil {
		return fmt.Errorf("save log: %w", err)
	}
	return nil
}

type SignupRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"displayName"`
}

func (client *Client) Signup(ctx context.Context, request SignupRequest) (models.AccountDescriptor, error) {
	body, err := client.do(ctx, fiber.Post(client.baseURL+"/api/signup").JSON(request))
	if err != nil {
		return models.AccountDescriptor{}, fmt.Errorf("signup: %w", err)
	}

	var response struct {
		Data models.AccountDescriptor `json:"data"`
	}
	if err := json.Unmarshal(body, &response); err != nil {
		return models.AccountDescriptor{}, fmt.Errorf("signup: decode response: %w", err)
	}
	return response.Data, nil
}

type Session struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

func (client *Client) Login(ctx context.Context, email string, password string) (Session, error) {
	credentials := map[string]string{"email": email, "password": password}
	body, err := client.do(ctx, fiber.Post(client.baseURL+"/api/auth/login").JSON(credentials))
	if err != nil {
		return Session{}, fmt.Errorf("login: %w", err)
	}

	var session Session
	if err := json.Unmarshal(body, &session); err != nil {
		return Session{}, fmt.Errorf("login: decode response: %w", err)
	}
	if session.Token == "" {
		return Session{}, errors.New("login: response has no token")
	}
	return session, nil
}

// ChangePassword replaces the account password; it also clears a forced
// change after a reset.
func (client *Client) ChangePassword(ctx context.Context, email string, currentPassword string, newPassword string) error {
	request := map[string]string{
		"email":           email,
		"currentPassword": currentPassword,
		"newPassword":     newPassword,
	}
	if _, err := client.do(ctx, fiber.Post(client.baseURL+"/api/auth/password").JSON(request)); err != nil {
		return fmt.Errorf("change password: %w", err)
	}
	return nil
}

// do sends the request with the bearer token and the tighter of the client
// timeout and the context deadline.
func (client *Client) do(ctx context.Context, agent *fiber.Agent) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		fiber.ReleaseAgent(agent)
		return nil, err
	}

	timeout := client.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout {
			timeout = remaining
		}
	}
	agent.Timeout(timeout)
	if client.token != "" {
		agent.Set(fiber.HeaderAuthorization, "Bearer "+client.token)
	}
	if err := agent.Parse(); err != nil {
		fiber.ReleaseAgent(agent)
		return nil, err
	}

	status, body, errs := agent.Bytes()
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	if status < fiber.StatusOK || status >= fiber.StatusMultipleChoices {
		return nil, statusError(status, body)
	}
	return body, nil
}

func statusError(status int, body []byte) error {
	var payload struct {
		Error string `json:"error"`
	}
	_ = json.Unmarshal(body, &payload)
	return &StatusError{StatusCode: status, Message: payload.Error}
}
