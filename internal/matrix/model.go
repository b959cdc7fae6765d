package matrix

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Tier selects which package categories a build environment installs.
type Tier string

const (
	TierMinimal  Tier = "minimal"
	TierStandard Tier = "standard"
	TierMaximal  Tier = "maximal"
)

// typePatternMaximal is the combined glob selecting both the standard and
// optional package categories. It is consumed verbatim by the package
// installer inside the generated build.
const typePatternMaximal = "@(standard|optional)"

// TypePattern returns the package-category selector for the tier.
func (t Tier) TypePattern() string {
	if t == TierMaximal {
		return typePatternMaximal
	}
	return string(t)
}

func parseTier(raw string) (Tier, bool) {
	switch Tier(raw) {
	case TierMinimal, TierStandard, TierMaximal:
		return Tier(raw), true
	}
	return "", false
}

// Flag is a tri-state toggle: unset, no, or yes. Unset lets a more specific
// rule (or the consumer's default) decide.
type Flag int

const (
	FlagUnset Flag = iota
	FlagNo
	FlagYes
)

func (f Flag) Bool() bool { return f == FlagYes }

func (f Flag) String() string {
	switch f {
	case FlagYes:
		return "yes"
	case FlagNo:
		return "no"
	}
	return ""
}

// ParseFlag accepts the yes/no spellings used in build-arg files.
func ParseFlag(raw string) (Flag, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "yes", "true", "1", "on":
		return FlagYes, nil
	case "no", "false", "0", "off":
		return FlagNo, nil
	case "":
		return FlagUnset, nil
	}
	return FlagUnset, fmt.Errorf("invalid flag value %q (want yes or no)", raw)
}

func (f Flag) MarshalJSON() ([]byte, error) {
	return json.Marshal(f.String())
}

func (f *Flag) UnmarshalJSON(raw []byte) error {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return err
	}
	parsed, err := ParseFlag(s)
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}

func (f Flag) MarshalYAML() (interface{}, error) {
	return f.String(), nil
}

// Name is a parsed environment name: {family}[-{version}]-{tier}, with an
// optional leading platform token (e.g. "docker-") stripped.
type Name struct {
	Family  string
	Version string
	Tier    Tier
}

func (n Name) String() string {
	if n.Version == "" {
		return n.Family + "-" + string(n.Tier)
	}
	return n.Family + "-" + n.Version + "-" + string(n.Tier)
}

// ResolvedConfig is the immutable output of matrix resolution. It is
// constructed fresh per Resolve call and consumed by the Dockerfile renderer
// and the container build invocation.
type ResolvedConfig struct {
	Environment string `json:"environment" yaml:"environment"`
	Family      string `json:"family" yaml:"family"`
	Version     string `json:"version,omitempty" yaml:"version,omitempty"`
	Tier        Tier   `json:"tier" yaml:"tier"`

	BaseImage      string `json:"baseImage" yaml:"base_image"`
	PackageManager string `json:"packageManager" yaml:"package_manager"`
	TypePattern    string `json:"typePattern" yaml:"type_pattern"`

	WithSystemPackages           Flag `json:"withSystemSpkg" yaml:"with_system_spkg"`
	IgnoreMissingSystemPackages  Flag `json:"ignoreMissingSystemPackages" yaml:"ignore_missing_system_packages"`
	ErrorOnMissingSystemPackages Flag `json:"errorOnMissingSystemPackages" yaml:"error_on_missing_system_packages"`

	ExtraConfigureArgs []string `json:"extraConfigureArgs,omitempty" yaml:"extra_configure_args,omitempty"`
	ExtraBuildArgs     []string `json:"extraDockerBuildArgs,omitempty" yaml:"extra_docker_build_args,omitempty"`

	Condarc string `json:"condarc,omitempty" yaml:"condarc,omitempty"`
}

// Overrides carries the per-field override channel (historically process
// environment variables) as an explicit struct. Scalar fields overwrite the
// rule-derived value when set; list fields append after all rules have run.
type Overrides struct {
	WithSystemPackages           Flag
	IgnoreMissingSystemPackages  Flag
	ErrorOnMissingSystemPackages Flag
	TypePattern                  string
	ExtraConfigureArgs           []string
	ExtraBuildArgs               []string
	BaseImage                    string
	Condarc                      string
}
