package trigger

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/gymratia/gymratia-api/pkg/circuitbreaker"
	"github.com/gymratia/gymratia-api/pkg/httpclient"
	"github.com/gymratia/gymratia-api/pkg/logger"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// one breaker per trigger URL
var breakers sync.Map

func breakerFor(triggerURL string) *gobreaker.CircuitBreaker {
	if cb, ok := breakers.Load(triggerURL); ok {
		return cb.(*gobreaker.CircuitBreaker)
	}
	cb, _ := breakers.LoadOrStore(triggerURL, circuitbreaker.New(circuitbreaker.DefaultConfig("trigger:"+triggerURL)))
	return cb.(*gobreaker.CircuitBreaker)
}

// CallAsyncWithPayload POSTs payload as JSON to triggerURL in a goroutine.
// An empty URL is a no-op. Failures are logged and never reach the caller.
// While the URL keeps failing its breaker opens and calls are skipped.
// The returned WaitGroup lets callers that care (tests, shutdown) wait for delivery.
func CallAsyncWithPayload(triggerURL string, payload any, httpClient httpclient.Client) *sync.WaitGroup {
	wg := &sync.WaitGroup{}
	if triggerURL == "" {
		return wg
	}

	body, err := json.Marshal(payload)
	if err != nil {
		logger.Error("Failed to encode trigger payload",
			zap.Error(err),
			zap.String("url", triggerURL))
		return wg
	}

	wg.Add(1)
	go func() {
		defer wg.Done()

		status, err := circuitbreaker.Execute(breakerFor(triggerURL), func() (int, error) {
			return post(httpClient, triggerURL, body)
		})
		switch {
		case errors.Is(err, circuitbreaker.ErrOpen):
			logger.Warn("Trigger URL skipped, circuit open", zap.String("url", triggerURL))
		case err != nil:
			logger.Error("Failed to call trigger URL",
				zap.Error(err),
				zap.String("url", triggerURL),
				zap.Int("status_code", status))
		default:
			logger.Info("Trigger URL called successfully",
				zap.String("url", triggerURL),
				zap.Int("status_code", status))
		}
	}()

	return wg
}

func post(httpClient httpclient.Client, triggerURL string, body []byte) (int, error) {
	resp, err := httpClient.Post(triggerURL, "application/json", bytes.NewReader(body))
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resp.StatusCode, fmt.Errorf("trigger returned status %d", resp.StatusCode)
	}
	return resp.StatusCode, nil
}
