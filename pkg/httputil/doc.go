// Package httputil provides HTTP helpers shared by the field API client.
//
// # Retry
//
// [Retry] re-runs an operation with exponential backoff when it fails with
// a [RetryableError]. Clients wrap transient failures in it:
//
//   - Network errors
//   - 5xx server errors
//   - 429 rate limit responses
//
// Everything else (a 404, a malformed body) is returned immediately:
//
//	err := httputil.Retry(ctx, 3, time.Second, func() error {
//	    resp, err := client.Do(req)
//	    if err != nil {
//	        return &httputil.RetryableError{Err: err}
//	    }
//	    ...
//	})
//
// [RetryWithBackoff] uses three attempts starting at one second.
package httputil
