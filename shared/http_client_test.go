package shared

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeSheetURL(t *testing.T) {
	assert.Equal(t,
		"https://docs.google.com/spreadsheets/d/abc123-XY_z/export?format=xlsx",
		NormalizeSheetURL("https://docs.google.com/spreadsheets/d/abc123-XY_z/edit#gid=0"))

	assert.Equal(t,
		"https://1drv.ms/x/s!foo?download=1",
		NormalizeSheetURL("https://1drv.ms/x/s!foo"))

	assert.Equal(t,
		"https://onedrive.live.com/view?id=1&download=1",
		NormalizeSheetURL("https://onedrive.live.com/view?id=1"))

	assert.Equal(t,
		"https://example.com/sheet.xlsx",
		NormalizeSheetURL("https://example.com/sheet.xlsx"))
}

func TestDownloadSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("workbook-bytes"))
	}))
	defer srv.Close()

	d := NewSheetDownloader(5 * time.Second)
	data, err := d.Download(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, []byte("workbook-bytes"), data)
}

func TestDownloadFollowsOneRedirect(t *testing.T) {
	var target *httptest.Server
	target = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("redirected"))
	}))
	defer target.Close()

	redirector := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, target.URL, http.StatusFound)
	}))
	defer redirector.Close()

	d := NewSheetDownloader(5 * time.Second)
	data, err := d.Download(context.Background(), redirector.URL)
	require.NoError(t, err)
	assert.Equal(t, []byte("redirected"), data)
}

func TestDownloadStopsAfterOneRedirect(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, r.URL.String()+"/again", http.StatusFound)
	}))
	defer srv.Close()

	d := NewSheetDownloader(5 * time.Second)
	_, err := d.Download(context.Background(), srv.URL)
	assert.Error(t, err)
}

func TestDownloadNon2xxIsTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	d := NewSheetDownloader(5 * time.Second)
	_, err := d.Download(context.Background(), srv.URL)
	require.Error(t, err)

	svcErr, ok := err.(*ServiceError)
	require.True(t, ok)
	assert.Equal(t, CodeTransportFailure, svcErr.Code)
	assert.True(t, svcErr.IsRetryable())
}

func TestDownloadRateLimiterSpacing(t *testing.T) {
	limiter := NewDownloadRateLimiter(50 * time.Millisecond)

	start := time.Now()
	limiter.EnforceRateLimit()
	limiter.EnforceRateLimit()
	elapsed := time.Since(start)

	assert.GreaterOrEqual(t, elapsed, 50*time.Millisecond)
	assert.Equal(t, int64(2), limiter.GetRequestCount())
}
