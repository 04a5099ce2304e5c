package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/avast/retry-go"
	"resty.dev/v3"
)

// Procedure paths served by olxmark-server.
const (
	PathMakeOLX      = "/makeolx"
	PathMakeHTML     = "/makehtml"
	PathMakeMarkdown = "/makemarkdown"
	PathUnescapeMD   = "/unescapemd"
)

const DefaultMaxRetryAttempts = 5

// Client calls the conversion service over the connect JSON protocol.
type Client struct {
	httpClient       *resty.Client
	maxRetryAttempts uint
}

func NewClient(baseURL string, timeout time.Duration, retryAttempts uint) *Client {
	client := resty.New()
	client.SetBaseURL(strings.TrimRight(baseURL, "/"))
	client.SetTimeout(timeout)
	client.SetHeader("Content-Type", "application/json")
	client.SetHeader("Connect-Protocol-Version", "1")

	return &Client{
		httpClient:       client,
		maxRetryAttempts: retryAttempts,
	}
}

func (client *Client) Close() error {
	return client.httpClient.Close()
}

type ConversionRequest struct {
	Content string `json:"content"`
}

type ConversionResponse struct {
	Content string `json:"content"`
}

// ErrorDetail is an error detail of the connect error body. Debug holds the
// JSON form of the detail message.
type ErrorDetail struct {
	Type  string         `json:"type"`
	Value string         `json:"value"`
	Debug map[string]any `json:"debug,omitempty"`
}

// ServiceError is an error returned by the service.
type ServiceError struct {
	StatusCode int           `json:"-"`
	Code       string        `json:"code"`
	Message    string        `json:"message"`
	Details    []ErrorDetail `json:"details,omitempty"`
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("response error %d: %s: %s", e.StatusCode, e.Code, e.Message)
}

// Reason returns the reason of an ErrorInfo detail, if any.
func (e *ServiceError) Reason() string {
	for _, detail := range e.Details {
		if !strings.HasSuffix(detail.Type, "google.rpc.ErrorInfo") {
			continue
		}
		if reason, ok := detail.Debug["reason"].(string); ok {
			return reason
		}
	}
	return ""
}

func (client *Client) MakeOLX(ctx context.Context, markdown string) (string, error) {
	return client.convert(ctx, PathMakeOLX, markdown)
}

func (client *Client) MakeHTML(ctx context.Context, markdown string) (string, error) {
	return client.convert(ctx, PathMakeHTML, markdown)
}

func (client *Client) MakeMarkdown(ctx context.Context, html string) (string, error) {
	return client.convert(ctx, PathMakeMarkdown, html)
}

func (client *Client) UnescapeMD(ctx context.Context, markdown string) (string, error) {
	return client.convert(ctx, PathUnescapeMD, markdown)
}

// isRetryableError reports errors seen while the service is still starting
// or overloaded.
func isRetryableError(err error) bool {
	if err == nil {
		return false
	}
	var serviceErr *ServiceError
	if errors.As(err, &serviceErr) {
		return serviceErr.StatusCode >= 500 || serviceErr.StatusCode == 429
	}

	errStr := err.Error()
	return strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "i/o timeout") ||
		strings.Contains(errStr, "EOF")
}

func (client *Client) convert(ctx context.Context, path string, content string) (string, error) {
	var result string
	if err := retry.Do(
		func() error {
			converted, err := client.post(ctx, path, content)
			if err != nil {
				if !isRetryableError(err) {
					return retry.Unrecoverable(err)
				}
				slog.Default().Debug("retry conversion request",
					slog.String("path", path),
					slog.Any("error", err),
				)
				return err
			}
			result = converted
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(client.maxRetryAttempts+1),
		retry.LastErrorOnly(true),
		retry.DelayType(func(n uint, err error, config *retry.Config) time.Duration {
			return retry.BackOffDelay(n, err, config)
		}),
	); err != nil {
		return "", err
	}
	return result, nil
}

func (client *Client) post(ctx context.Context, path string, content string) (string, error) {
	response, err := client.httpClient.R().
		SetContext(ctx).
		SetBody(ConversionRequest{Content: content}).
		SetResult(&ConversionResponse{}).
		Post(path)
	if err != nil {
		return "", fmt.Errorf("httpClient.Post(%s) > %w", path, err)
	}
	if response.IsError() {
		serviceErr := &ServiceError{}
		if err := json.Unmarshal([]byte(response.String()), serviceErr); err != nil || serviceErr.Code == "" {
			serviceErr = &ServiceError{Code: "unknown", Message: response.String()}
		}
		serviceErr.StatusCode = response.StatusCode()
		return "", serviceErr
	}

	body, ok := response.Result().(*ConversionResponse)
	if !ok || body == nil {
		return "", fmt.Errorf("empty response body: %s", response.String())
	}
	return body.Content, nil
}
