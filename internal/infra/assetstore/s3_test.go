package assetstore

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSanitizeEndpoint(t *testing.T) {
	cases := map[string]string{
		"https://assets.example.com":      "assets.example.com",
		"http://assets.example.com/extra": "assets.example.com",
		"assets.example.com":              "assets.example.com",
		"  https://assets.example.com ":   "assets.example.com",
		"":                                "",
	}
	for in, want := range cases {
		require.Equal(t, want, sanitizeEndpoint(in), in)
	}
}
