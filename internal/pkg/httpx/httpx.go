package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// HTTPStatusCoder реализуют ошибки, несущие код ответа внешнего сервиса.
type HTTPStatusCoder interface {
	HTTPStatusCode() int
}

// StatusError - ответ внешнего сервиса с кодом вне 2xx.
type StatusError struct {
	Service string
	Code    int
	Body    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: код ответа %d: %s", e.Service, e.Code, e.Body)
}

func (e *StatusError) HTTPStatusCode() int {
	return e.Code
}

// IsRetryableHTTPStatus: повторяем только таймауты, 429 и 5xx.
func IsRetryableHTTPStatus(code int) bool {
	if code == http.StatusRequestTimeout || code == http.StatusTooManyRequests {
		return true
	}
	return code >= 500 && code <= 599
}

// IsNonRetryableStatus сообщает, что внешний сервис отверг сам запрос.
func IsNonRetryableStatus(err error) bool {
	var sc HTTPStatusCoder
	if errors.As(err, &sc) {
		return !IsRetryableHTTPStatus(sc.HTTPStatusCode())
	}
	return false
}

const maxErrorBody = 512

// GetJSON выполняет GET и декодирует JSON ответ в dst.
func GetJSON(ctx context.Context, client *http.Client, service, url string, dst any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &StatusError{Service: service, Code: resp.StatusCode, Body: string(body)}
	}

	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("%s: не удалось разобрать ответ: %w", service, err)
	}
	return nil
}
