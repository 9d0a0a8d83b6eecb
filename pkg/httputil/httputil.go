package httputil

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// RetryCallback handles a retry attempt error.
type RetryCallback func(attempt, maxAttempts int, err error)

// HTTPStatusError represents a non-2xx HTTP response.
type HTTPStatusError struct {
	StatusCode int
}

func (err HTTPStatusError) Error() string {
	return fmt.Sprintf("non-success status: %d", err.StatusCode)
}

// PostJSONWithRetry sends a JSON POST request with retry support.
func PostJSONWithRetry(ctx context.Context, client *http.Client, url string, payload interface{}, maxRetries int, delay time.Duration, onRetry RetryCallback) error {
	if client == nil {
		client = &http.Client{}
	}
	if maxRetries < 1 {
		maxRetries = 1
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	var lastErr error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		request, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
		if err != nil {
			return err
		}
		request.Header.Set("Content-Type", "application/json")

		response, err := client.Do(request)
		if err != nil {
			lastErr = err
		} else {
			response.Body.Close()
			if response.StatusCode < http.StatusOK || response.StatusCode >= http.StatusMultipleChoices {
				lastErr = HTTPStatusError{StatusCode: response.StatusCode}
			} else {
				return nil
			}
		}

		if onRetry != nil {
			onRetry(attempt, maxRetries, lastErr)
		}
		if attempt < maxRetries && delay > 0 {
			time.Sleep(delay)
		}
	}

	return lastErr
}
