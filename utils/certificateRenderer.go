package utils

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

var ErrRendererDisabled = errors.New("certificate renderer not configured")

// CertificateRenderer posts certificate fields to an external PDF service and returns the
// rendered document.
type CertificateRenderer struct {
	client *resty.Client
	url    string
}

func NewCertificateRenderer(url string, timeout time.Duration) *CertificateRenderer {
	client := resty.New().
		SetTimeout(timeout).
		SetRetryCount(2).
		SetHeader("Accept", "application/pdf")
	return &CertificateRenderer{client: client, url: url}
}

func (r *CertificateRenderer) Enabled() bool {
	return r != nil && r.url != ""
}

// Render sends payload as JSON. The payload is whatever the caller wants printed.
func (r *CertificateRenderer) Render(ctx context.Context, payload interface{}) ([]byte, error) {
	if !r.Enabled() {
		return nil, ErrRendererDisabled
	}
	resp, err := r.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(payload).
		Post(r.url)
	if err != nil {
		return nil, fmt.Errorf("render certificate: %w", err)
	}
	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("render certificate: status %d: %s", resp.StatusCode(), resp.String())
	}
	return resp.Body(), nil
}
