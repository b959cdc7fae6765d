package matrix

import (
	"sort"

	semver "github.com/Masterminds/semver/v3"
)

// versionRule matches a release of a family either by exact codename or by a
// semver constraint over numeric release versions. Matching rules may pin the
// image tag (or repository, for rolling variants) and tighten strictness
// flags for known-old releases.
type versionRule struct {
	codenames  []string
	constraint *semver.Constraints

	imageRepo string // override, "" keeps the family repository
	imageTag  string // override, "" uses the version token itself

	ignoreMissingSystemPackages Flag
}

func (r versionRule) matches(version string) bool {
	for _, codename := range r.codenames {
		if codename == version {
			return true
		}
	}
	if r.constraint == nil {
		return false
	}
	parsed, err := semver.NewVersion(version)
	if err != nil {
		return false
	}
	return r.constraint.Check(parsed)
}

// familyRule carries the family-level defaults plus the ordered version
// rules. Version rules are more specific than the family rule and override
// it; within the same specificity, later rules win for scalar fields.
type familyRule struct {
	family         string
	packageManager string
	imageRepo      string
	defaultTag     string

	versions []versionRule

	// knownVersions drives matrix enumeration only; resolution accepts any
	// version token and falls back to defaultTag for unrecognized ones.
	knownVersions []string

	ignoreMissingSystemPackages Flag

	// extraConfigureArgs are the cross-cutting per-family appends, e.g.
	// opting out of system libraries that are unusable on that family.
	extraConfigureArgs []string
}

func mustConstraint(expr string) *semver.Constraints {
	c, err := semver.NewConstraint(expr)
	if err != nil {
		panic("matrix: bad version constraint " + expr + ": " + err.Error())
	}
	return c
}

// families is the rule table, least to most specific within each entry.
// Read-only after package init.
var families = []familyRule{
	{
		family:         "ubuntu",
		packageManager: "debian",
		imageRepo:      "ubuntu",
		defaultTag:     "latest",
		versions: []versionRule{
			{codenames: []string{"trusty", "xenial"}, ignoreMissingSystemPackages: FlagYes},
			{codenames: []string{"bionic", "focal", "jammy", "noble"}},
		},
		knownVersions: []string{"trusty", "xenial", "bionic", "focal", "jammy", "noble"},
	},
	{
		family:         "debian",
		packageManager: "debian",
		imageRepo:      "debian",
		defaultTag:     "stable",
		versions: []versionRule{
			{codenames: []string{"jessie", "stretch"}, ignoreMissingSystemPackages: FlagYes},
			{codenames: []string{"buster", "bullseye", "bookworm"}},
		},
		knownVersions: []string{"jessie", "stretch", "buster", "bullseye", "bookworm"},
	},
	{
		family:         "fedora",
		packageManager: "fedora",
		imageRepo:      "fedora",
		defaultTag:     "latest",
		versions: []versionRule{
			// Releases before 29 predate several system packages; missing
			// ones are tolerated rather than failing the whole build.
			{constraint: mustConstraint("< 29"), ignoreMissingSystemPackages: FlagYes},
			{constraint: mustConstraint(">= 29")},
		},
		knownVersions: []string{"26", "27", "28", "29", "30", "31", "32", "33", "34", "35"},
	},
	{
		family:         "centos",
		packageManager: "fedora",
		imageRepo:      "centos",
		defaultTag:     "latest",
		versions: []versionRule{
			{constraint: mustConstraint("< 8"), ignoreMissingSystemPackages: FlagYes},
			{constraint: mustConstraint(">= 8")},
		},
		knownVersions:      []string{"7", "8"},
		extraConfigureArgs: []string{"--without-system-python3"},
	},
	{
		family:         "archlinux",
		packageManager: "arch",
		imageRepo:      "archlinux",
		defaultTag:     "latest",
		knownVersions:  []string{},
	},
	{
		family:         "opensuse",
		packageManager: "opensuse",
		imageRepo:      "opensuse/leap",
		defaultTag:     "latest",
		versions: []versionRule{
			{codenames: []string{"tumbleweed"}, imageRepo: "opensuse/tumbleweed", imageTag: "latest"},
			{codenames: []string{"15"}},
		},
		knownVersions:      []string{"15", "tumbleweed"},
		extraConfigureArgs: []string{"--without-system-boost"},
	},
	{
		family:         "conda",
		packageManager: "conda",
		imageRepo:      "condaforge/miniforge3",
		defaultTag:     "latest",
		knownVersions:  []string{"forge"},
		// conda environments never carry the full system package set.
		ignoreMissingSystemPackages: FlagYes,
		extraConfigureArgs:          []string{"--with-system-python3=force"},
	},
}

func findFamily(name string) *familyRule {
	for i := range families {
		if families[i].family == name {
			return &families[i]
		}
	}
	return nil
}

// Environments enumerates every environment name in the matrix:
// families × known versions × tiers, versionless families once per tier.
func Environments() []string {
	tiers := []Tier{TierMinimal, TierStandard, TierMaximal}

	var names []string
	for _, fam := range families {
		if len(fam.knownVersions) == 0 {
			for _, tier := range tiers {
				names = append(names, Name{Family: fam.family, Tier: tier}.String())
			}
			continue
		}
		for _, version := range fam.knownVersions {
			for _, tier := range tiers {
				names = append(names, Name{Family: fam.family, Version: version, Tier: tier}.String())
			}
		}
	}

	sort.Strings(names)
	return names
}

// Families lists the known family names in declaration order.
func Families() []string {
	names := make([]string, 0, len(families))
	for _, fam := range families {
		names = append(names, fam.family)
	}
	return names
}
