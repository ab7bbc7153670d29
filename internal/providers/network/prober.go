// Package network probes load balancer endpoints from the machine running
// the verification, i.e. from outside the audited VPCs.
package network

import (
	"context"
	"errors"
	"net"
	"net/http"
	"syscall"
	"time"

	"github.com/pankaj-dahiya-devops/tierguard/internal/models"
)

// Prober issues a single reachability attempt against url. Implementations
// must never retry and must return within timeout.
type Prober interface {
	Probe(ctx context.Context, url string, timeout time.Duration) models.ProbeResult
}

// HTTPProber is the production Prober. It sends one GET and never follows
// redirects: a redirect response already proves the endpoint answered.
type HTTPProber struct {
	client *http.Client
}

// NewHTTPProber returns a prober with its own transport so that connection
// reuse never hides a closed path between attempts.
func NewHTTPProber() *HTTPProber {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.DisableKeepAlives = true
	return &HTTPProber{
		client: &http.Client{
			Transport: transport,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

// Probe implements Prober. Any HTTP response, whatever its status, is
// ProbeReachable.
func (p *HTTPProber) Probe(ctx context.Context, url string, timeout time.Duration) models.ProbeResult {
	result := models.ProbeResult{URL: url}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		result.Outcome = models.ProbeIndeterminate
		result.Detail = "invalid url: " + err.Error()
		return result
	}

	resp, err := p.client.Do(req)
	if err != nil {
		result.Outcome, result.Detail = Classify(err)
		return result
	}
	defer resp.Body.Close()

	result.Outcome = models.ProbeReachable
	result.StatusCode = resp.StatusCode
	result.Detail = resp.Status
	return result
}

// Classify maps a failed attempt to an outcome and a short description.
//
// Timeouts and refused, reset or unroutable connections mean the path is
// closed. Name resolution failures, TLS failures and anything unrecognised
// say nothing about the path and are indeterminate.
func Classify(err error) (models.ProbeOutcome, string) {
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return models.ProbeIndeterminate, "dns resolution failed: " + dnsErr.Err
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return models.ProbeUnreachable, "timeout"
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return models.ProbeUnreachable, "timeout"
	}

	switch {
	case errors.Is(err, syscall.ECONNREFUSED):
		return models.ProbeUnreachable, "connection refused"
	case errors.Is(err, syscall.ECONNRESET):
		return models.ProbeUnreachable, "connection reset"
	case errors.Is(err, syscall.EHOSTUNREACH), errors.Is(err, syscall.ENETUNREACH):
		return models.ProbeUnreachable, "no route to host"
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) && opErr.Op == "dial" {
		return models.ProbeUnreachable, "dial failed: " + opErr.Err.Error()
	}

	return models.ProbeIndeterminate, err.Error()
}
