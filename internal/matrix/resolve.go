package matrix

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedName is returned when an environment name does not split
	// into the {family}[-{version}]-{tier} shape.
	ErrMalformedName = errors.New("malformed environment name")

	// ErrUnknownEnvironment is returned when no rule matches the family tag.
	ErrUnknownEnvironment = errors.New("unknown environment")

	// ErrMissingRequiredVariable is returned when a required configuration
	// value is undefined for the resolved environment.
	ErrMissingRequiredVariable = errors.New("missing required variable")
)

// Resolve turns an environment name into a concrete build configuration by
// applying the rule table, most-specific-wins: tier defaults, then the family
// rule, then the family+version rule, then the cross-cutting per-family
// appends, then explicit overrides. It is pure and deterministic; the same
// name and overrides always yield a field-for-field identical record.
func Resolve(raw string, ov Overrides) (ResolvedConfig, error) {
	name, err := ParseName(raw)
	if err != nil {
		return ResolvedConfig{}, err
	}

	fam := findFamily(name.Family)
	if fam == nil {
		return ResolvedConfig{}, fmt.Errorf("%w: no rule matches family %q in %q", ErrUnknownEnvironment, name.Family, raw)
	}

	cfg := ResolvedConfig{
		Environment: name.String(),
		Family:      name.Family,
		Version:     name.Version,
		Tier:        name.Tier,

		// Tier defaults.
		TypePattern:        name.Tier.TypePattern(),
		WithSystemPackages: FlagYes,
	}
	if name.Tier == TierMaximal {
		// Optional packages are frequently absent from distribution
		// repositories; maximal builds tolerate the gaps.
		cfg.IgnoreMissingSystemPackages = FlagYes
	}

	applyFamily(&cfg, fam)
	applyVersion(&cfg, fam, name.Version)
	cfg.ExtraConfigureArgs = append(cfg.ExtraConfigureArgs, fam.extraConfigureArgs...)
	applyOverrides(&cfg, ov)

	return cfg, nil
}

func applyFamily(cfg *ResolvedConfig, fam *familyRule) {
	cfg.PackageManager = fam.packageManager
	cfg.BaseImage = fam.imageRepo + ":" + fam.defaultTag
	if fam.ignoreMissingSystemPackages != FlagUnset {
		cfg.IgnoreMissingSystemPackages = fam.ignoreMissingSystemPackages
	}
}

// applyVersion applies the first matching version rule. A version token that
// matches no rule falls back to the family default image tag rather than
// failing; the matrix accepts releases it has no specific knowledge of.
func applyVersion(cfg *ResolvedConfig, fam *familyRule, version string) {
	if version == "" {
		return
	}

	for _, rule := range fam.versions {
		if !rule.matches(version) {
			continue
		}

		repo := fam.imageRepo
		if rule.imageRepo != "" {
			repo = rule.imageRepo
		}
		tag := version
		if rule.imageTag != "" {
			tag = rule.imageTag
		}
		cfg.BaseImage = repo + ":" + tag

		if rule.ignoreMissingSystemPackages != FlagUnset {
			cfg.IgnoreMissingSystemPackages = rule.ignoreMissingSystemPackages
		}
		return
	}
}

func applyOverrides(cfg *ResolvedConfig, ov Overrides) {
	if ov.WithSystemPackages != FlagUnset {
		cfg.WithSystemPackages = ov.WithSystemPackages
	}
	if ov.IgnoreMissingSystemPackages != FlagUnset {
		cfg.IgnoreMissingSystemPackages = ov.IgnoreMissingSystemPackages
	}
	if ov.ErrorOnMissingSystemPackages != FlagUnset {
		cfg.ErrorOnMissingSystemPackages = ov.ErrorOnMissingSystemPackages
	}
	if ov.TypePattern != "" {
		cfg.TypePattern = ov.TypePattern
	}
	if ov.BaseImage != "" {
		cfg.BaseImage = ov.BaseImage
	}
	if ov.Condarc != "" {
		cfg.Condarc = ov.Condarc
	}
	cfg.ExtraConfigureArgs = append(cfg.ExtraConfigureArgs, ov.ExtraConfigureArgs...)
	cfg.ExtraBuildArgs = append(cfg.ExtraBuildArgs, ov.ExtraBuildArgs...)
}
