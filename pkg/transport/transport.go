/*
Copyright IDResolve Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package transport is the single HTTP path to the identity provider. Every
// flow goes through Client.Do, which classifies provider responses into the
// shared error taxonomy, so status handling, redirect detection and JSON
// decoding behave identically everywhere.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/trustbloc/logutil-go/pkg/log"

	"github.com/idresolve/esia-go/internal/logfields"
	"github.com/idresolve/esia-go/pkg/esiaerr"
	noopMetricsProvider "github.com/idresolve/esia-go/pkg/observability/metrics/noop"
)

var logger = log.New("esia-transport")

const (
	contentTypeJSON = "application/json"
	contentTypeForm = "application/x-www-form-urlencoded"
)

type httpClient interface {
	Do(req *http.Request) (*http.Response, error)
}

type metricsProvider interface {
	RequestTime(value time.Duration)
}

// Request describes one provider call. At most one of Form and JSON may be
// set; Form takes precedence.
type Request struct {
	Method string
	URL    string
	Header http.Header
	Query  url.Values
	Form   url.Values
	JSON   interface{}
}

// Config defines configuration for the provider transport.
type Config struct {
	HTTPClient httpClient
	Metrics    metricsProvider
}

// Client performs provider HTTP requests.
// Client is safe for concurrent use.
type Client struct {
	httpClient httpClient
	metrics    metricsProvider
}

// NewClient creates a provider transport.
func NewClient(config *Config) *Client {
	metrics := config.Metrics
	if metrics == nil {
		metrics = &noopMetricsProvider.NoMetrics{}
	}

	return &Client{
		httpClient: config.HTTPClient,
		metrics:    metrics,
	}
}

// NewHTTPClient returns an http.Client suitable for provider calls: it never
// follows redirects, because a Location response is an application-level
// signal here, not a hop to traverse.
func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

// Do executes req and decodes a JSON response body into out (skipped when out
// is nil). Responses are classified in a fixed order: transport failures,
// then HTTP error statuses, then redirect signals, then non-JSON or
// undecodable bodies.
func (c *Client) Do(ctx context.Context, req *Request, out interface{}) error {
	startTime := time.Now()

	defer func() {
		c.metrics.RequestTime(time.Since(startTime))
	}()

	httpReq, err := c.buildRequest(ctx, req)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return esiaerr.New(esiaerr.CodeTransport, fmt.Errorf("%s %s: %w", req.Method, req.URL, err))
	}

	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			logger.Warnc(ctx, "Failed to close response body", log.WithError(closeErr))
		}
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return esiaerr.New(esiaerr.CodeTransport, fmt.Errorf("read response body: %w", err))
	}

	logger.Debugc(ctx, "Provider response",
		log.WithURL(req.URL),
		log.WithHTTPStatus(resp.StatusCode),
		logfields.WithContentType(resp.Header.Get("Content-Type")))

	return c.classify(resp, body, out)
}

func (c *Client) buildRequest(ctx context.Context, req *Request) (*http.Request, error) {
	var body io.Reader

	contentType := ""

	switch {
	case req.Form != nil:
		body = strings.NewReader(req.Form.Encode())
		contentType = contentTypeForm
	case req.JSON != nil:
		encoded, err := json.Marshal(req.JSON)
		if err != nil {
			return nil, esiaerr.New(esiaerr.CodeTransport, fmt.Errorf("encode request body: %w", err))
		}

		body = bytes.NewReader(encoded)
		contentType = contentTypeJSON
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, req.URL, body)
	if err != nil {
		return nil, esiaerr.New(esiaerr.CodeTransport, fmt.Errorf("create request: %w", err))
	}

	for name, values := range req.Header {
		for _, value := range values {
			httpReq.Header.Add(name, value)
		}
	}

	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}

	if len(req.Query) > 0 {
		httpReq.URL.RawQuery = req.Query.Encode()
	}

	return httpReq, nil
}

func (c *Client) classify(resp *http.Response, body []byte, out interface{}) error {
	if resp.StatusCode >= http.StatusBadRequest {
		return esiaerr.New(esiaerr.CodeHTTPStatus, &esiaerr.HTTPStatusError{
			StatusCode: resp.StatusCode,
			Body:       body,
		})
	}

	if location := resp.Header.Get("Location"); location != "" &&
		(resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusFound) {
		return &esiaerr.RedirectError{Location: location}
	}

	mediaType, _, err := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	if err != nil || mediaType != contentTypeJSON {
		return esiaerr.Newf(esiaerr.CodeMalformedResponse,
			"unexpected content type %q: %s", resp.Header.Get("Content-Type"), body)
	}

	if out == nil {
		return nil
	}

	if err = json.Unmarshal(body, out); err != nil {
		return esiaerr.New(esiaerr.CodeMalformedResponse, fmt.Errorf("decode response body: %w", err))
	}

	return nil
}
