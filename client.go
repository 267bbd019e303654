package fetchtripper

import (
	"net/http"
	"time"
)

// Client is satisfied by *http.Client and by RetryClient. Fetcher uses it
// for the actual GET requests that move bytes; probing (HEAD) always goes
// through http.DefaultClient directly, see probe.go.
type Client interface {
	Do(*http.Request) (*http.Response, error)
}

// DefaultClient is what New uses unless overridden with WithClient.
var DefaultClient Client = NewRetryClient(10, 2*time.Second, 60*time.Second)
