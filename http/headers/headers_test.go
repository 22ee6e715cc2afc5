package headers

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIdentify(t *testing.T) {
	require.Equal(t, Host, Identify("Host"))
	require.Equal(t, Host, Identify("hOST"))
	require.Equal(t, ContentLength, Identify("content-length"))
	require.Equal(t, UserAgent, Identify("User-Agent"))
	require.Equal(t, Unknown, Identify("Ho"))
	require.Equal(t, Unknown, Identify("X-Forwarded-For"))
	require.Equal(t, "Transfer-Encoding", TransferEncoding.String())
	require.Empty(t, Unknown.String())
}

func TestHeaders(t *testing.T) {
	h := NewPrealloc(4).
		Add("Host", "example.com").
		Add("Accept", "text/html").
		Add("X-Custom", "1").
		Add("x-custom", "2")

	t.Run("get", func(t *testing.T) {
		value, found := h.Get("HOST")
		require.True(t, found)
		require.Equal(t, "example.com", value)

		_, found = h.Get("Cookie")
		require.False(t, found)
		require.Empty(t, h.Value("Cookie"))
	})

	t.Run("known", func(t *testing.T) {
		value, found := h.Known(Accept)
		require.True(t, found)
		require.Equal(t, "text/html", value)
	})

	t.Run("values", func(t *testing.T) {
		require.Equal(t, []string{"1", "2"}, h.Values("X-Custom"))
		require.Nil(t, h.Values("X-Missing"))
	})

	t.Run("unknown", func(t *testing.T) {
		unknown := h.Unknown()
		require.Len(t, unknown, 2)
		require.Equal(t, "x-custom", unknown[1].Name)
	})

	t.Run("iter stops early", func(t *testing.T) {
		var names []string
		for name := range h.Iter() {
			names = append(names, name)
			if len(names) == 2 {
				break
			}
		}

		require.Equal(t, []string{"Host", "Accept"}, names)
	})
}
