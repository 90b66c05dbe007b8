package jwt

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIssueAndParse(t *testing.T) {
	tok, err := Issue("s3cret", 42, "dev@gamehub.dev", "DEVELOPER", 1)
	require.NoError(t, err)

	claims, err := ParseAuth("Bearer "+tok, "s3cret")
	require.NoError(t, err)
	require.Equal(t, float64(42), claims["sub"])
	require.Equal(t, "dev@gamehub.dev", claims["email"])
	require.Equal(t, "DEVELOPER", claims["role"])

	// raw token without the Bearer prefix also parses
	_, err = ParseAuth(tok, "s3cret")
	require.NoError(t, err)
}

func TestParseFailures(t *testing.T) {
	tok, err := Issue("s3cret", 42, "dev@gamehub.dev", "DEVELOPER", 1)
	require.NoError(t, err)

	_, err = ParseAuth("", "s3cret")
	require.Error(t, err)

	_, err = ParseAuth("Bearer "+tok, "wrong-secret")
	require.Error(t, err)

	_, err = ParseAuth("Bearer not.a.token", "s3cret")
	require.Error(t, err)
}
