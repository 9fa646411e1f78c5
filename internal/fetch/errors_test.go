package fetch

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	table := []struct {
		name     string
		err      error
		kind     Kind
		contains string
	}{
		{
			name:     "deadline",
			err:      fmt.Errorf("post: %w", context.DeadlineExceeded),
			kind:     KindTimeout,
			contains: "request timed out",
		},
		{
			name: "url timeout",
			err: &url.Error{Op: "Post", URL: "http://x", Err: &net.DNSError{
				Err:       "i/o timeout",
				IsTimeout: true,
			}},
			kind:     KindTimeout,
			contains: "request timed out",
		},
		{
			name:     "dns",
			err:      &url.Error{Op: "Post", URL: "http://x", Err: &net.DNSError{Err: "no such host", Name: "x"}},
			kind:     KindConnection,
			contains: "connection error: ",
		},
		{
			name:     "op error",
			err:      &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")},
			kind:     KindConnection,
			contains: "connection refused",
		},
		{
			name:     "other",
			err:      errors.New("boom"),
			kind:     KindUnknown,
			contains: "unknown error: boom",
		},
		{
			name:     "already classified",
			err:      fmt.Errorf("wrapped: %w", StatusError(503)),
			kind:     KindHttpStatus,
			contains: "http error: 503",
		},
	}

	for _, row := range table {
		t.Run(row.name, func(t *testing.T) {
			classified := Classify(row.err)
			require.Equal(t, row.kind, classified.Kind)
			require.Contains(t, classified.Error(), row.contains)
		})
	}
}

func TestDecodeError(t *testing.T) {
	err := DecodeError(errors.New("invalid character 'x'"))
	require.Equal(t, "json decode failed: invalid character 'x'", err.Error())
	require.Equal(t, KindDecode, Classify(err).Kind)
}

func TestClassifyRealTransportErrors(t *testing.T) {
	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer slow.Close()

	client := &http.Client{Timeout: 20 * time.Millisecond}
	_, err := client.Get(slow.URL)
	require.Error(t, err)
	require.Equal(t, KindTimeout, Classify(err).Kind)

	closed := httptest.NewServer(http.NotFoundHandler())
	closedUrl := closed.URL
	closed.Close()

	_, err = http.Get(closedUrl)
	require.Error(t, err)
	require.Equal(t, KindConnection, Classify(err).Kind)
}
