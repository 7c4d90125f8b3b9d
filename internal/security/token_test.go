package security_test

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/adnanrahim110/payment-portal/internal/security"
)

func TestNewLinkID(t *testing.T) {
	hex32 := regexp.MustCompile(`^[0-9a-f]{32}$`)

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id, err := security.NewLinkID()
		require.NoError(t, err)
		require.Regexp(t, hex32, id)
		require.False(t, seen[id], "duplicate link id generated")
		seen[id] = true
	}
}
