package fetch

import (
	"bytes"
	"compress/gzip"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func gzipBytes(t *testing.T, s string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	_, err := w.Write([]byte(s))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func TestRemotePathUsesRinex2IdAndDate(t *testing.T) {
	station := Station{ID4: "zimm", ID9: "ZIMM00CHE"}
	tm := time.Date(2026, time.February, 3, 0, 0, 0, 0, time.UTC)
	path := remotePath(station, false, tm)
	require.Equal(t, "nrt/034/26/zimm0340.26n.gz", path)
}

func TestRemotePathUsesRinex3IdAndSubfolder(t *testing.T) {
	station := Station{ID4: "func", ID9: "FUNC00PRT"}
	tm := time.Date(2026, time.February, 3, 0, 0, 0, 0, time.UTC)
	path := remotePath(station, true, tm)
	require.Equal(t, "nrt_v3/034/26/FUNC00PRT0340.26n.gz", path)
}

func TestFetchNavDecompressesBody(t *testing.T) {
	want := "fake rinex nav body\n"
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(gzipBytes(t, want))
	}))
	defer srv.Close()

	c := &Client{BaseURL: srv.URL + "/", HTTP: srv.Client()}
	station := Station{ID4: "zimm", ID9: "ZIMM00CHE"}

	got, err := c.FetchNav(context.Background(), station, false, time.Now())
	require.NoError(t, err)
	require.Equal(t, want, string(got))
}

func TestFetchNavReturnsErrorOnNon200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := &Client{BaseURL: srv.URL + "/", HTTP: srv.Client()}
	station := Station{ID4: "zimm", ID9: "ZIMM00CHE"}

	_, err := c.FetchNav(context.Background(), station, false, time.Now())
	require.Error(t, err)
}
