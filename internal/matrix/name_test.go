package matrix

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseName(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want Name
	}{
		{
			name: "family version tier",
			raw:  "fedora-31-standard",
			want: Name{Family: "fedora", Version: "31", Tier: TierStandard},
		},
		{
			name: "family tier only",
			raw:  "archlinux-minimal",
			want: Name{Family: "archlinux", Tier: TierMinimal},
		},
		{
			name: "platform prefix stripped",
			raw:  "docker-fedora-31-standard",
			want: Name{Family: "fedora", Version: "31", Tier: TierStandard},
		},
		{
			name: "multi token version",
			raw:  "ubuntu-20-04-maximal",
			want: Name{Family: "ubuntu", Version: "20-04", Tier: TierMaximal},
		},
		{
			name: "codename version",
			raw:  "ubuntu-trusty-maximal",
			want: Name{Family: "ubuntu", Version: "trusty", Tier: TierMaximal},
		},
		{
			name: "surrounding whitespace",
			raw:  "  debian-bullseye-standard\n",
			want: Name{Family: "debian", Version: "bullseye", Tier: TierStandard},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseName(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseNameMalformed(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "empty", raw: ""},
		{name: "single token", raw: "fedora"},
		{name: "missing tier", raw: "fedora-31"},
		{name: "unknown tier", raw: "fedora-31-everything"},
		{name: "empty token", raw: "fedora--standard"},
		{name: "trailing dash", raw: "fedora-31-standard-"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseName(tt.raw)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrMalformedName)
		})
	}
}

func TestNameRoundTrip(t *testing.T) {
	for _, raw := range []string{"fedora-31-standard", "archlinux-minimal", "ubuntu-20-04-maximal"} {
		parsed, err := ParseName(raw)
		require.NoError(t, err)
		assert.Equal(t, raw, parsed.String())
	}
}
