package telemetry

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/require"
)

func TestScopedAPI(t *testing.T) {
	inner := NewTestAPI(t)
	scoped := NewScopedAPI("outer", NewScopedAPI("inner", inner))

	scoped.ReportBroken("client.fetch", "param")
	scoped.ReportWarning("client.parse")
	scoped.ReportCount("client.count", 4)

	broken := inner.Broken("")
	require.Len(t, broken, 1)
	require.Equal(t, "inner: outer: client.fetch", broken[0].ID)
	require.Equal(t, []any{"param"}, broken[0].Params)

	require.Len(t, inner.Warnings("client.parse"), 1)

	n, ok := inner.Count("inner: outer: client.count")
	require.True(t, ok)
	require.EqualValues(t, 4, n)
}

func TestInstrumentResty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Test", "yes")
		w.Write([]byte("hello"))
	}))
	defer server.Close()

	tel := NewTestAPI(t)
	client := resty.New()
	InstrumentResty(client, "test", tel)

	res, err := client.R().
		SetContext(context.Background()).
		SetBody("ping").
		Post(server.URL + "/path")
	require.NoError(t, err)
	require.Equal(t, "hello", res.String())
	require.Empty(t, tel.Warnings(""))

	message := FormatHttpMessage(res)
	require.Contains(t, message, "POST "+server.URL+"/path")
	require.Contains(t, message, "ping")
	require.Contains(t, message, "X-Test: yes")
	require.Contains(t, message, "hello")
}

func TestInstrumentRestyError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	closedUrl := server.URL
	server.Close()

	tel := NewTestAPI(t)
	client := resty.New()
	InstrumentResty(client, "test", tel)

	_, err := client.R().Get(closedUrl)
	require.Error(t, err)
	require.Len(t, tel.Warnings(report_resty_response), 1)
}

func TestSetupWithoutEndpoints(t *testing.T) {
	exporter, err := Setup(context.Background(), "test", Config{})
	require.NoError(t, err)
	require.False(t, exporter.Enabled())
	require.NoError(t, exporter.Shutdown(context.Background()))
}

func TestHttpDump(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("dumped body"))
	}))
	defer server.Close()

	dir := filepath.Join(t.TempDir(), "dump")
	out, err := NewFilesystemOutput(dir)
	require.NoError(t, err)
	SetHttpDumpOutput(out)
	defer SetHttpDumpOutput(nil)

	client := resty.New()
	InstrumentResty(client, "scrapers/test", NewTestAPI(t))
	_, err = client.R().Get(server.URL)
	require.NoError(t, err)

	contents, err := os.ReadFile(filepath.Join(dir, "scrapers_test-1.txt"))
	require.NoError(t, err)
	require.Contains(t, string(contents), "---- RESPONSE ----")
	require.Contains(t, string(contents), "dumped body")
}
