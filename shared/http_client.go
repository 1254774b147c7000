package shared

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

var googleSheetsIDPattern = regexp.MustCompile(`/spreadsheets/d/([a-zA-Z0-9-_]+)`)

// SheetDownloader fetches spreadsheet bytes from a remote URL with a bounded
// timeout, following at most one redirect.
type SheetDownloader struct {
	client      *http.Client
	rateLimiter *DownloadRateLimiter
}

// NewSheetDownloader creates a downloader with connection pooling and the
// given overall request timeout.
func NewSheetDownloader(timeout time.Duration) *SheetDownloader {
	client := &http.Client{
		Timeout: timeout,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) > 1 {
				return fmt.Errorf("stopped after one redirect")
			}
			return nil
		},
		Transport: &http.Transport{
			MaxIdleConns:          10,
			MaxIdleConnsPerHost:   2,
			IdleConnTimeout:       90 * time.Second,
			TLSHandshakeTimeout:   10 * time.Second,
			ResponseHeaderTimeout: 10 * time.Second,
		},
	}
	return &SheetDownloader{
		client:      client,
		rateLimiter: NewDownloadRateLimiter(2 * time.Second),
	}
}

// NormalizeSheetURL rewrites share links into direct-download links.
// Google Sheets links become xlsx export URLs; OneDrive share links get the
// download flag appended. Anything else passes through unchanged.
func NormalizeSheetURL(rawURL string) string {
	if strings.Contains(rawURL, "docs.google.com/spreadsheets") {
		if m := googleSheetsIDPattern.FindStringSubmatch(rawURL); m != nil {
			return fmt.Sprintf("https://docs.google.com/spreadsheets/d/%s/export?format=xlsx", m[1])
		}
		return rawURL
	}
	if strings.Contains(rawURL, "1drv.ms") || strings.Contains(rawURL, "onedrive") {
		sep := "?"
		if strings.Contains(rawURL, "?") {
			sep = "&"
		}
		return rawURL + sep + "download=1"
	}
	return rawURL
}

// Download fetches the spreadsheet at rawURL. Non-2xx responses and
// timeouts are reported as transport errors; existing data is never touched
// by a failed download.
func (d *SheetDownloader) Download(ctx context.Context, rawURL string) ([]byte, error) {
	downloadURL := NormalizeSheetURL(rawURL)

	logger := logrus.WithFields(logrus.Fields{
		"component": "SheetDownloader",
		"url":       downloadURL,
	})

	d.rateLimiter.EnforceRateLimit()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, downloadURL, nil)
	if err != nil {
		return nil, NewTransportError("download", err)
	}
	req.Header.Set("User-Agent", "internship-backend/1.0")
	req.Header.Set("Accept", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet,*/*")

	resp, err := d.client.Do(req)
	if err != nil {
		logger.WithError(err).Warn("Sheet download failed")
		return nil, NewTransportError("download", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		logger.WithField("status_code", resp.StatusCode).Warn("Sheet download returned non-2xx status")
		return nil, NewTransportError("download", fmt.Errorf("HTTP %d", resp.StatusCode))
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, NewTransportError("download", err)
	}

	logger.WithField("bytes", len(data)).Debug("Sheet downloaded")
	return data, nil
}
