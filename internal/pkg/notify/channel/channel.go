package channel

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-arcade/quizhub/pkg/retry"
	"github.com/go-resty/resty/v2"
)

var ErrNotConfigured = errors.New("channel is not configured")

const sendAttempts = 3

var sendBackoff = retry.Exponential(200*time.Millisecond, 2*time.Second)

func retryOptions() []retry.Option {
	return []retry.Option{
		retry.WithMaxAttempts(sendAttempts),
		retry.WithBackoff(sendBackoff),
		retry.WithJitter(retry.HalfJitter),
	}
}

// classify wraps client errors as permanent; 429 and 5xx stay retryable.
func classify(resp *resty.Response, err error) error {
	code := resp.StatusCode()
	if code >= 400 && code < 500 && code != http.StatusTooManyRequests {
		return retry.Permanent(err)
	}
	return err
}
