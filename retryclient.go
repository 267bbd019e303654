package fetchtripper

import (
	"errors"
	"net/http"
	"time"

	"github.com/eapache/go-resiliency/retrier"
)

var errRetriableStatus = errors.New("retriable HTTP status received")

// RetryClient wraps a plain *http.Client with retry-on-failure semantics
// built on retrier.Retrier. Only transport errors and 5xx responses other
// than 501 Not Implemented are retried; every other status (2xx, 3xx, 4xx,
// 304, 501) is returned as-is on the first attempt, error nil, so the
// caller can classify the exact status code itself. A blind
// retry-until-exhausted would otherwise turn a meaningful status like 304
// or 501 into an opaque error once the policy gives up.
type RetryClient struct {
	client  *http.Client
	retrier *retrier.Retrier
}

// NewRetryClient returns a RetryClient that retries a failed request
// retries times, waiting every between attempts, with timeout as the
// per-attempt client timeout.
func NewRetryClient(retries int, every, timeout time.Duration) *RetryClient {
	return &RetryClient{
		client:  &http.Client{Timeout: timeout},
		retrier: retrier.New(retrier.ConstantBackoff(retries, every), retrier.DefaultClassifier{}),
	}
}

// NewRetryClientWithExponentialBackoff returns a RetryClient that retries a
// failed request retries times with exponentially increasing backoff
// starting at initially, with timeout as the per-attempt client timeout.
func NewRetryClientWithExponentialBackoff(retries int, initially, timeout time.Duration) *RetryClient {
	return &RetryClient{
		client:  &http.Client{Timeout: timeout},
		retrier: retrier.New(retrier.ExponentialBackoff(retries, initially), retrier.DefaultClassifier{}),
	}
}

// Do issues req, retrying on transport failures and transient 5xx statuses
// according to the RetryClient's policy. When the final attempt received a
// response, that response, even a non-2xx one, is returned with a nil
// error; when the final attempt failed at the transport level, its error is
// returned and responses from earlier attempts are discarded.
func (w *RetryClient) Do(req *http.Request) (*http.Response, error) {
	var (
		res   *http.Response
		doErr error
	)

	try := func() error {
		res, doErr = w.client.Do(req)
		if doErr != nil {
			res = nil
			return doErr
		}
		if res.StatusCode >= 500 && res.StatusCode != http.StatusNotImplemented {
			return errRetriableStatus
		}
		return nil
	}

	w.retrier.Run(try)
	if res != nil {
		return res, nil
	}
	return nil, doErr
}
