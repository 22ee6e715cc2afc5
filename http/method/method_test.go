package method

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMethod(t *testing.T) {
	t.Run("every known method round-trips", func(t *testing.T) {
		for _, method := range List {
			require.Equal(t, method, Parse(method.String()), method.String())
		}
	})

	t.Run("list is complete", func(t *testing.T) {
		require.Len(t, List, int(Count))
	})

	t.Run("unknown", func(t *testing.T) {
		for _, str := range []string{"PATCH", "get", "GETS", "BREW", "PROPFINDS"} {
			require.Equal(t, Unknown, Parse(str), str)
		}

		require.Empty(t, Unknown.String())
	})
}
