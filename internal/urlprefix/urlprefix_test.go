package urlprefix

import (
	"testing"

	"github.com/indigo-web/reqqueue/http/status"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		prefix, err := Parse("http://Example.com:8080/")
		require.NoError(t, err)
		require.Equal(t, "Example.com", prefix.Host)
		require.Equal(t, "8080", prefix.Port)
		require.Equal(t, "/", prefix.Path)
		require.False(t, prefix.IsWildcard())
		require.False(t, prefix.IsRelative())
	})

	t.Run("wildcard", func(t *testing.T) {
		prefix, err := Parse("http://+:80/")
		require.NoError(t, err)
		require.True(t, prefix.IsWildcard())
	})

	t.Run("relative", func(t *testing.T) {
		prefix, err := Parse("http://localhost:80/api/v1/")
		require.NoError(t, err)
		require.True(t, prefix.IsRelative())
		require.Equal(t, "/api/v1/", prefix.Path)
	})

	t.Run("ipv6", func(t *testing.T) {
		prefix, err := Parse("http://[::1]:9000/")
		require.NoError(t, err)
		require.Equal(t, "[::1]", prefix.Host)
		require.Equal(t, "9000", prefix.Port)
	})

	t.Run("errors", func(t *testing.T) {
		tests := []struct {
			URL  string
			Want error
		}{
			{"https://localhost:443/", status.ErrHTTPS},
			{"ftp://localhost:21/", status.ErrBadScheme},
			{"localhost:80/", status.ErrBadScheme},
			{"http://localhost:80", status.ErrNoTrailingSlash},
			{"http://localhost/", status.ErrBadPort},
			{"http://localhost:0/", status.ErrBadPort},
			{"http://localhost:http/", status.ErrBadPort},
			{"http://localhost:65536/", status.ErrBadPort},
			{"http://:80/", status.ErrBadPort},
			{"http://[::1]/", status.ErrBadPort},
		}

		for _, tc := range tests {
			_, err := Parse(tc.URL)
			require.ErrorIs(t, err, tc.Want, tc.URL)
		}

		_, err := Parse("https://localhost:443/")
		require.Equal(t, status.NotImplemented, status.CodeOf(err))
		_, err = Parse("http://localhost/")
		require.Equal(t, status.InvalidParameter, status.CodeOf(err))
	})
}

func TestPrefix_Matches(t *testing.T) {
	mustParse := func(url string) Prefix {
		prefix, err := Parse(url)
		require.NoError(t, err)
		return prefix
	}

	t.Run("exact host", func(t *testing.T) {
		prefix := mustParse("http://host1:80/")
		require.True(t, prefix.Matches("host1"))
		require.True(t, prefix.Matches("host1:80"))
		require.True(t, prefix.Matches("HOST1:80"))
		require.False(t, prefix.Matches("host2"))
		require.False(t, prefix.Matches("host1:81"))
		require.False(t, prefix.Matches("host10:80"))
	})

	t.Run("wildcard", func(t *testing.T) {
		prefix := mustParse("http://+:8080/")
		require.True(t, prefix.Matches("anything:8080"))
		require.True(t, prefix.Matches("localhost:8080"))
		require.False(t, prefix.Matches("localhost"))
		require.False(t, prefix.Matches("localhost:80"))
	})

	t.Run("ipv6", func(t *testing.T) {
		prefix := mustParse("http://[::1]:9000/")
		require.True(t, prefix.Matches("[::1]:9000"))
		require.False(t, prefix.Matches("[::1]"))
	})
}
