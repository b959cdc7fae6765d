package matrix

import (
	"fmt"
	"strings"
)

// platformPrefix is the leading token CLI callers may include
// (e.g. "docker-fedora-31-standard"). It is not part of the grammar proper
// and is stripped before matching.
const platformPrefix = "docker"

// ParseName splits an environment name into family, optional version, and
// tier. The family is the first token, the tier the last; everything between
// is the version and may itself contain dashes (e.g. "ubuntu-20-04-standard").
func ParseName(raw string) (Name, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Name{}, fmt.Errorf("%w: empty name", ErrMalformedName)
	}

	parts := strings.Split(trimmed, "-")
	if parts[0] == platformPrefix && len(parts) > 2 {
		parts = parts[1:]
	}

	if len(parts) < 2 {
		return Name{}, fmt.Errorf("%w: %q does not match {family}[-{version}]-{tier}", ErrMalformedName, raw)
	}

	for _, part := range parts {
		if part == "" {
			return Name{}, fmt.Errorf("%w: %q contains an empty token", ErrMalformedName, raw)
		}
	}

	tier, ok := parseTier(parts[len(parts)-1])
	if !ok {
		return Name{}, fmt.Errorf("%w: %q does not end in a tier (minimal, standard, maximal)", ErrMalformedName, raw)
	}

	return Name{
		Family:  parts[0],
		Version: strings.Join(parts[1:len(parts)-1], "-"),
		Tier:    tier,
	}, nil
}
