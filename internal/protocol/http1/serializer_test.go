package http1

import (
	"bufio"
	"bytes"
	"io"
	stdhttp "net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestAppendBadRequest(t *testing.T) {
	now := time.Date(2024, time.March, 5, 7, 8, 9, 0, time.FixedZone("UTC+3", 3*60*60))
	data := AppendBadRequest(nil, now)

	stdreq, err := stdhttp.NewRequest(stdhttp.MethodGet, "/", nil)
	require.NoError(t, err)
	resp, err := stdhttp.ReadResponse(bufio.NewReader(bytes.NewReader(data)), stdreq)
	require.NoError(t, err)

	require.Equal(t, 400, resp.StatusCode)
	require.Equal(t, "HTTP/1.1", resp.Proto)
	require.Equal(t, "Tue, 05 Mar 2024 04:08:09 GMT", resp.Header.Get("Date"))
	require.Equal(t, "text/html; charset=utf-8", resp.Header.Get("Content-Type"))
	require.Equal(t, "en", resp.Header.Get("Content-Language"))
	require.True(t, resp.Close)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Empty(t, body)
}
