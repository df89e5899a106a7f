package galaxy

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peaqe/orion-utils/pkg/errs"
)

func TestPingOK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	require.NoError(t, Ping(context.Background(), srv.URL, time.Second))
}

func TestPingTrailingSlash(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/", r.URL.Path)
	}))
	defer srv.Close()

	require.NoError(t, Ping(context.Background(), srv.URL+"/", time.Second))
}

func TestPingNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	err := Ping(context.Background(), srv.URL, time.Second)
	require.Error(t, err)
	assert.True(t, errs.IsCode(err, errs.ErrServerUnreachable))
}

func TestPingUnreachable(t *testing.T) {
	err := Ping(context.Background(), "http://127.0.0.1:1", 200*time.Millisecond)
	require.Error(t, err)
	assert.True(t, errs.IsCode(err, errs.ErrServerUnreachable))
}

func TestPingEmptyURL(t *testing.T) {
	err := Ping(context.Background(), "", time.Second)
	require.Error(t, err)
}
