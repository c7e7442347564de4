// Package apilog records quote-API traffic in the database for debugging
// pricing issues after the fact.
package apilog

import (
	"bytes"
	"context"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/youke3399/youke-uniswap/db"
)

const maxBodySize = 64 * 1024 // 64KB

// Transport is an http.RoundTripper that logs requests and responses to the
// store.
type Transport struct {
	inner http.RoundTripper
	store *db.Store
}

// NewHTTPClient returns an HTTP client whose traffic is persisted to the
// store.
func NewHTTPClient(store *db.Store) *http.Client {
	return &http.Client{
		Timeout: 30 * time.Second,
		Transport: &Transport{
			inner: http.DefaultTransport,
			store: store,
		},
	}
}

func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	var reqBody []byte
	if req.Body != nil {
		reqBody, _ = io.ReadAll(req.Body)
		req.Body = io.NopCloser(bytes.NewReader(reqBody))
	}

	start := time.Now()
	resp, err := t.inner.RoundTrip(req)

	params := db.InsertAPIRequestParams{
		Method:      req.Method,
		URL:         req.URL.String(),
		RequestBody: truncate(string(reqBody)),
		DurationMs:  time.Since(start).Milliseconds(),
	}

	if err != nil {
		params.Error = err.Error()
	} else {
		var respBody []byte
		if resp.Body != nil {
			respBody, _ = io.ReadAll(resp.Body)
			resp.Body = io.NopCloser(bytes.NewReader(respBody))
		}
		params.ResponseStatus = int64(resp.StatusCode)
		params.ResponseBody = truncate(string(respBody))
	}

	// Insert asynchronously so logging never slows down the request.
	go func() {
		if dbErr := t.store.InsertAPIRequest(context.Background(), params); dbErr != nil {
			log.Printf("apilog: failed to log %s %s: %v", params.Method, params.URL, dbErr)
		}
	}()

	return resp, err
}

func truncate(s string) string {
	if len(s) > maxBodySize {
		return s[:maxBodySize] + "...[truncated]"
	}
	return s
}
