package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"rssz/config"
)

const (
	sparqlQueryContentType = "application/sparql-query"
	sparqlResultsJSON      = "application/sparql-results+json"

	// DefaultMaxResponseBytes applies when the config leaves the limit unset.
	DefaultMaxResponseBytes = 32 << 20
)

// FusekiClient talks to the SPARQL query endpoint of one Fuseki dataset.
type FusekiClient struct {
	endpoint string
	maxBytes int64
	http     *http.Client
	logger   *zap.Logger
}

func NewFusekiClient(cfg config.FusekiConfig, logger *zap.Logger) (*FusekiClient, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("Fuseki endpoint is not configured")
	}

	maxBytes := cfg.MaxResponseBytes
	if maxBytes <= 0 {
		maxBytes = DefaultMaxResponseBytes
	}

	return &FusekiClient{
		endpoint: cfg.URL,
		maxBytes: maxBytes,
		http:     &http.Client{Timeout: cfg.Timeout},
		logger:   logger,
	}, nil
}

func (f *FusekiClient) Endpoint() string {
	return f.endpoint
}

// Response is Fuseki's answer to one query, unchanged.
type Response struct {
	StatusCode  int
	ContentType string
	Body        []byte
}

func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Forward sends query to Fuseki and returns its response as is. An error means
// no response was received.
func (f *FusekiClient) Forward(ctx context.Context, query string) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.endpoint, bytes.NewBufferString(query))
	if err != nil {
		return nil, &TransportError{Err: fmt.Errorf("failed to build request: %w", err)}
	}
	req.Header.Set("Content-Type", sparqlQueryContentType)
	req.Header.Set("Accept", sparqlResultsJSON)

	start := time.Now()
	resp, err := f.http.Do(req)
	if err != nil {
		f.logger.Warn("Fuseki request failed", zap.String("endpoint", f.endpoint), zap.Error(err))
		return nil, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	// One byte past the limit tells a full body from a cut one.
	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes+1))
	if err != nil {
		return nil, &TransportError{StatusCode: resp.StatusCode, Err: fmt.Errorf("failed to read response: %w", err)}
	}
	if int64(len(body)) > f.maxBytes {
		f.logger.Warn("Fuseki response too large", zap.String("endpoint", f.endpoint), zap.Int64("limit", f.maxBytes))
		return nil, &TransportError{StatusCode: resp.StatusCode, Err: fmt.Errorf("response exceeds %d bytes", f.maxBytes)}
	}

	f.logger.Debug("Fuseki responded",
		zap.Int("status", resp.StatusCode),
		zap.Int("bytes", len(body)),
		zap.Duration("elapsed", time.Since(start)))

	return &Response{
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        body,
	}, nil
}

// Ping runs a trivial ASK query to check that the dataset answers.
func (f *FusekiClient) Ping(ctx context.Context) error {
	resp, err := f.Forward(ctx, "ASK {}")
	if err != nil {
		return err
	}
	if !resp.OK() {
		return &TransportError{StatusCode: resp.StatusCode, Body: string(resp.Body)}
	}
	return nil
}
