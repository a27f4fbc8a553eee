package roomcode_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/duoquiz/duoquiz/internal/roomcode"
)

func TestNew(t *testing.T) {
	seen := make(map[string]bool)

	for i := 0; i < 100; i++ {
		code, err := roomcode.New(4)
		require.NoError(t, err)
		require.Len(t, code, 4)

		for _, r := range code {
			require.NotContains(t, "01IO", string(r), "lookalike characters are excluded")
			require.True(t, strings.ContainsRune("ABCDEFGHJKLMNPQRSTUVWXYZ23456789", r))
		}

		seen[code] = true
	}

	require.Greater(t, len(seen), 90, "codes should be effectively unique")
}

func TestNew_ZeroLength(t *testing.T) {
	code, err := roomcode.New(0)
	require.NoError(t, err)
	require.Empty(t, code)
}
