package osm

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKindOf(t *testing.T) {
	cases := []struct {
		tags map[string]string
		want string
	}{
		{map[string]string{"man_made": "water_well"}, "well"},
		{map[string]string{"natural": "water"}, "water"},
		{map[string]string{"landuse": "farmland"}, "farmland"},
		{map[string]string{"landuse": "orchard"}, "orchard"},
		{map[string]string{"highway": "primary"}, "other"},
		{nil, "other"},
	}
	for _, c := range cases {
		require.Equal(t, c.want, kindOf(c.tags))
	}
}
