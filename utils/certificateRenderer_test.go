package utils

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCertificateRendererPostsPayload(t *testing.T) {
	var got map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/pdf")
		_, _ = w.Write([]byte("%PDF-1.4"))
	}))
	defer srv.Close()

	r := NewCertificateRenderer(srv.URL, time.Second)
	pdf, err := r.Render(context.Background(), map[string]string{"certificate_id": "CERT-1"})

	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4", string(pdf))
	assert.Equal(t, "CERT-1", got["certificate_id"])
}

func TestCertificateRendererDisabled(t *testing.T) {
	r := NewCertificateRenderer("", time.Second)

	_, err := r.Render(context.Background(), nil)

	assert.ErrorIs(t, err, ErrRendererDisabled)
}

func TestCertificateRendererReportsStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	_, err := NewCertificateRenderer(srv.URL, time.Second).Render(context.Background(), map[string]string{})

	assert.Error(t, err)
}
