package sgcc

import (
	"baredcrawl/internal/components/chrono"
	"baredcrawl/internal/components/telemetry"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const successBody = `{
	"status": 0,
	"message": "Success",
	"data": {
		"secureCode": "0b20f38e205349e8b850660bc61e0f23",
		"pubKey": "0402dd60574dc653acab92f476192e68"
	},
	"success": true
}`

var fixedClock = chrono.FixedImpl{At: time.Date(2025, 3, 4, 5, 6, 7, 8000, time.UTC)}

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *telemetry.TestAPI) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	tel := telemetry.NewTestAPI(t)
	client := NewClient(ClientOptions{
		BaseUrl: server.URL,
		Timeout: 200 * time.Millisecond,
	}, fixedClock, tel)
	return client, tel
}

func TestFetchSecureKeySuccess(t *testing.T) {
	var received *http.Request
	var receivedBody []byte
	client, tel := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		received = r
		receivedBody, _ = io.ReadAll(r.Body)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(successBody))
	})

	result := client.FetchSecureKey(context.Background())

	require.NotNil(t, received)
	require.Equal(t, http.MethodPost, received.Method)
	require.Equal(t, SecureKeyPath, received.URL.Path)
	require.Equal(t, "{}", string(receivedBody))
	require.Equal(t, "OUTNET_BROWSE", received.Header.Get("ClientTag"))
	require.Equal(t, "/outNet", received.Header.Get("CurrentRoute"))
	require.Equal(t, "undefined", received.Header.Get("X-Ticket"))
	require.Equal(t, "null", received.Header.Get("X-Token"))
	require.Equal(t, "application/json;charset=UTF-8", received.Header.Get("Content-Type"))
	require.Equal(t, `"macOS"`, received.Header.Get("sec-ch-ua-platform"))
	require.Equal(t, userAgentChrome, received.Header.Get("User-Agent"))

	require.True(t, result.Success)
	require.Nil(t, result.Error)
	require.Equal(t, "2025-03-04T05:06:07.000008", result.Timestamp)
	require.NotNil(t, result.Data)
	require.Equal(t, "Success", result.Data.Message)
	require.True(t, result.Data.Success)
	require.Equal(t, "0b20f38e205349e8b850660bc61e0f23", result.Data.Data.SecureCode)
	require.Equal(t, "0402dd60574dc653acab92f476192e68", result.Data.Data.PubKey)
	require.Empty(t, tel.Broken(""))
}

func TestFetchSecureKeyFailures(t *testing.T) {
	table := []struct {
		name     string
		handler  http.HandlerFunc
		expected string
	}{
		{
			name: "http status",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadGateway)
			},
			expected: "http error: 502",
		},
		{
			name: "bad json",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte("<html>maintenance</html>"))
			},
			expected: "json decode failed: invalid character '<' looking for beginning of value",
		},
		{
			name: "timeout",
			handler: func(w http.ResponseWriter, r *http.Request) {
				select {
				case <-r.Context().Done():
				case <-time.After(2 * time.Second):
				}
			},
			expected: "request timed out",
		},
	}

	for _, row := range table {
		t.Run(row.name, func(t *testing.T) {
			client, tel := newTestClient(t, row.handler)

			result := client.FetchSecureKey(context.Background())
			require.False(t, result.Success)
			require.Nil(t, result.Data)
			require.NotNil(t, result.Error)
			require.Equal(t, row.expected, *result.Error)
			require.Len(t, tel.Broken(report_client_fetch_secure_key), 1)
		})
	}
}

func TestFetchSecureKeyConnectionError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	baseUrl := server.URL
	server.Close()

	tel := telemetry.NewTestAPI(t)
	client := NewClient(ClientOptions{BaseUrl: baseUrl}, fixedClock, tel)

	result := client.FetchSecureKey(context.Background())
	require.False(t, result.Success)
	require.NotNil(t, result.Error)
	require.Contains(t, *result.Error, "connection error: ")
}

func TestProbe(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(successBody))
	})

	body, err := client.Probe(context.Background())
	require.NoError(t, err)
	require.JSONEq(t, successBody, string(body))

	failing, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte("denied"))
	})
	body, err = failing.Probe(context.Background())
	require.EqualError(t, err, "http error: 403")
	require.Equal(t, "denied", string(body))
}
