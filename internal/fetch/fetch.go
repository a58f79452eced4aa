// Package fetch retrieves broadcast navigation data for a named IGS
// station over HTTP, as an alternative to supplying a RINEX file
// already on disk.
//
// Grounded on original_source/gps.c's FTP retrieval block (station
// table lookup, date-templated remote path, gzip'd RINEX nav file) and
// src/download.go's GenPath date-templating convention for the path
// layout, reworked from libcurl FTP plus a shelled-out download command
// to a plain net/http client: no FTP/curl library appears anywhere in
// the retrieval pack, and the same IGS archives mirror their RINEX
// products over HTTPS.
package fetch

import (
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pkg/errors"
)

// DefaultBaseURL mirrors the original RINEX_FTP_URL, pointed at BKG's
// HTTPS mirror of the same near-real-time IGS archive.
const DefaultBaseURL = "https://igs.bkg.bund.de/root_ftp/IGS/"

const (
	rinex2Subfolder = "nrt"
	rinex3Subfolder = "nrt_v3"
)

// Client retrieves gzip-compressed RINEX navigation files from an IGS
// near-real-time archive over HTTP.
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

// NewClient creates a Client against DefaultBaseURL using a Client
// with a 30 second timeout, matching the original's CURLOPT defaults
// for a single-file transfer.
func NewClient() *Client {
	return &Client{
		BaseURL: DefaultBaseURL,
		HTTP:    &http.Client{Timeout: 30 * time.Second},
	}
}

// remotePath builds the date-templated path to a station's navigation
// file, matching RINEX_FTP_FILE's "%s/%03i/%02i/%4s%03i%c.%02in.gz"
// layout: subfolder, day-of-year, 2-digit year, station ID, day-of-year
// again, session letter, 2-digit year.
func remotePath(station Station, rinex3 bool, t time.Time) string {
	subfolder := rinex2Subfolder
	id := station.ID4
	if rinex3 {
		subfolder = rinex3Subfolder
		id = station.ID9
	}
	doy := t.YearDay()
	yy := t.Year() % 100
	return fmt.Sprintf("%s/%03d/%02d/%s%03d0.%02dn.gz", subfolder, doy, yy, id, doy, yy)
}

// FetchNav downloads and decompresses the current navigation file for
// station at time t, returning the decoded RINEX text ready for
// internal/ephemeris.Load's reader (via a temp file or io.Reader
// wrapper at the caller's discretion).
func (c *Client) FetchNav(ctx context.Context, station Station, rinex3 bool, t time.Time) ([]byte, error) {
	url := c.BaseURL + remotePath(station, rinex3, t)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "fetch: building request for %s", url)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "fetch: requesting %s", url)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("fetch: %s returned %s", url, resp.Status)
	}

	gz, err := gzip.NewReader(resp.Body)
	if err != nil {
		return nil, errors.Wrapf(err, "fetch: ungzipping %s", url)
	}
	defer gz.Close()

	data, err := io.ReadAll(gz)
	if err != nil {
		return nil, errors.Wrapf(err, "fetch: reading %s", url)
	}
	return data, nil
}
