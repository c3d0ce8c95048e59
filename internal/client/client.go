// Package client provides HTTP client functionality for the syncdeck API.
// It handles authentication, request/response serialization, and error handling.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/syncdeck/syncdeck/internal/api"
	"github.com/syncdeck/syncdeck/internal/config"
	"github.com/syncdeck/syncdeck/internal/constants"
	apperrors "github.com/syncdeck/syncdeck/internal/errors"
	"github.com/syncdeck/syncdeck/internal/logger"
)

// Client provides a generic HTTP client for API operations.
type Client struct {
	config *config.Config
	logger *slog.Logger
}

// New creates a new API client.
func New(cfg *config.Config, log *slog.Logger) *Client {
	return &Client{
		config: cfg,
		logger: log,
	}
}

// Request represents an API request.
type Request struct {
	Method string
	Path   string
	Body   any
}

// Response represents an API response.
type Response struct {
	StatusCode int
	Body       []byte
}

// buildURL constructs the full API URL from path and query string.
func (c *Client) buildURL(path string) (string, error) {
	var pathPart, queryString string
	if idx := strings.Index(path, "?"); idx != -1 {
		pathPart = path[:idx]
		queryString = path[idx+1:]
	} else {
		pathPart = path
	}

	apiURL, err := url.JoinPath(c.config.APIEndpoint, pathPart)
	if err != nil {
		return "", err
	}

	if queryString != "" {
		apiURL = apiURL + "?" + queryString
	}

	return apiURL, nil
}

// Do makes an HTTP request to the API.
func (c *Client) Do(ctx context.Context, req Request) (*Response, error) {
	var bodyReader io.Reader
	if req.Body != nil {
		jsonData, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewBuffer(jsonData)
	}

	apiURL, err := c.buildURL(req.Path)
	if err != nil {
		return nil, fmt.Errorf("invalid API endpoint: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, apiURL, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set(constants.ContentTypeHeader, "application/json")
	httpReq.Header.Set(constants.APIKeyHeader, c.config.APIKey)

	logArgs := []any{
		"operation", "HTTP.Request",
		"method", req.Method,
		"url", apiURL,
	}
	logArgs = append(logArgs, logger.GetDeadlineInfo(ctx)...)
	c.logger.Debug("calling external service", logArgs...)

	httpClient := &http.Client{}
	resp, err := httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	c.logger.Debug("received HTTP response",
		"status", resp.StatusCode,
		"bodySize", len(body),
		"method", req.Method,
		"url", apiURL)

	return &Response{
		StatusCode: resp.StatusCode,
		Body:       body,
	}, nil
}

// DoJSON makes a request and unmarshals the response into the provided value.
func (c *Client) DoJSON(ctx context.Context, req Request, result any) error {
	resp, err := c.Do(ctx, req)
	if err != nil {
		return err
	}

	if resp.StatusCode >= http.StatusBadRequest {
		var errorResp api.ErrorResponse
		if err = json.Unmarshal(resp.Body, &errorResp); err != nil {
			errorResp.Error = strings.TrimSpace(string(resp.Body))
		}
		return statusError(resp.StatusCode, errorResp)
	}

	if resp.StatusCode == http.StatusNoContent {
		return nil
	}

	if err = json.Unmarshal(resp.Body, result); err != nil {
		c.logger.Debug("response body", "body", string(resp.Body))
		return fmt.Errorf("failed to parse response: %w", err)
	}

	return nil
}

// IssueSocketToken requests a short-lived WebSocket authentication token.
// The request is credentialed with the configured API key.
func (c *Client) IssueSocketToken(ctx context.Context) (*api.SocketTokenResponse, error) {
	var resp api.SocketTokenResponse
	err := c.DoJSON(ctx, Request{
		Method: http.MethodPost,
		Path:   constants.SocketTokenPath,
	}, &resp)
	if err != nil {
		return nil, err
	}
	if resp.Token == "" {
		return nil, apperrors.ErrInternalError("token endpoint returned no token", nil)
	}
	return &resp, nil
}

// statusError maps a non-2xx response to an AppError.
func statusError(statusCode int, body api.ErrorResponse) error {
	message := body.Error
	if message == "" {
		message = http.StatusText(statusCode)
	}
	if body.Details != "" {
		message = fmt.Sprintf("%s: %s", message, body.Details)
	}
	switch {
	case statusCode == http.StatusUnauthorized:
		return apperrors.ErrUnauthorized(message, nil)
	case statusCode == http.StatusNotFound:
		return apperrors.ErrNotFound(message, nil)
	case statusCode >= http.StatusInternalServerError:
		return apperrors.NewServerError(statusCode, apperrors.ErrCodeInternalError, message, nil)
	default:
		return apperrors.NewClientError(statusCode, apperrors.ErrCodeInvalidRequest, message, nil)
	}
}
