package render

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/akshat1136/sage/internal/matrix"
)

type Options struct {
	Configs   []matrix.ResolvedConfig
	OutputDir string
	Cleanup   bool

	// ConfirmWrite is called before overwriting an existing file; returning
	// an error aborts the render.
	ConfirmWrite func(path string) error
}

// Generate writes a Dockerfile and a build-args env file per resolved
// configuration under <output>/<environment>/.
func Generate(opts Options) error {
	if opts.OutputDir == "" {
		return fmt.Errorf("%w: output directory", matrix.ErrMissingRequiredVariable)
	}

	if err := os.MkdirAll(opts.OutputDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	keep := make(map[string]struct{}, len(opts.Configs))
	for _, cfg := range opts.Configs {
		if cfg.PackageManager == "conda" && cfg.Condarc == "" {
			return fmt.Errorf("%w: CONDARC is required for %s", matrix.ErrMissingRequiredVariable, cfg.Environment)
		}

		keep[cfg.Environment] = struct{}{}

		target := filepath.Join(opts.OutputDir, cfg.Environment)
		if err := os.MkdirAll(target, 0o755); err != nil {
			return fmt.Errorf("create output path %q: %w", target, err)
		}

		files := map[string]string{
			filepath.Join(target, "Dockerfile"):     dockerfileFor(cfg),
			filepath.Join(target, "build-args.env"): buildArgsFor(cfg),
		}
		if cfg.PackageManager == "conda" {
			// The generated Dockerfile COPYs the condarc from the build
			// context, so the file has to exist inside it.
			raw, err := os.ReadFile(cfg.Condarc)
			if err != nil {
				return fmt.Errorf("read condarc %q for %s: %w", cfg.Condarc, cfg.Environment, err)
			}
			files[filepath.Join(target, "condarc")] = string(raw)
		}
		for path, content := range files {
			if opts.ConfirmWrite != nil {
				if err := opts.ConfirmWrite(path); err != nil {
					return err
				}
			}
			if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
				return fmt.Errorf("write %q: %w", path, err)
			}
		}
	}

	if opts.Cleanup {
		if err := cleanupObsolete(opts.OutputDir, keep); err != nil {
			return err
		}
	}

	return nil
}

func cleanupObsolete(outputDir string, keep map[string]struct{}) error {
	entries, err := os.ReadDir(outputDir)
	if err != nil {
		return fmt.Errorf("read output directory for cleanup: %w", err)
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		if _, ok := keep[entry.Name()]; ok {
			continue
		}

		if err := os.RemoveAll(filepath.Join(outputDir, entry.Name())); err != nil {
			return fmt.Errorf("remove obsolete output dir %q: %w", entry.Name(), err)
		}
	}

	return nil
}

// buildArgsFor renders the env file consumed by the docker build step and by
// anyone reproducing the build by hand.
func buildArgsFor(cfg matrix.ResolvedConfig) string {
	var b strings.Builder
	fmt.Fprintf(&b, "BASE_IMAGE=%s\n", cfg.BaseImage)
	fmt.Fprintf(&b, "SYSTEM=%s\n", cfg.PackageManager)
	fmt.Fprintf(&b, "TYPE_PATTERN=%s\n", cfg.TypePattern)
	fmt.Fprintf(&b, "WITH_SYSTEM_SPKG=%s\n", cfg.WithSystemPackages)
	fmt.Fprintf(&b, "IGNORE_MISSING_SYSTEM_PACKAGES=%s\n", orNo(cfg.IgnoreMissingSystemPackages))
	fmt.Fprintf(&b, "ERROR_ON_MISSING_SYSTEM_PACKAGES=%s\n", orNo(cfg.ErrorOnMissingSystemPackages))
	fmt.Fprintf(&b, "EXTRA_CONFIGURE_ARGS=%s\n", strings.Join(cfg.ExtraConfigureArgs, " "))
	fmt.Fprintf(&b, "EXTRA_DOCKER_BUILD_ARGS=%s\n", strings.Join(cfg.ExtraBuildArgs, " "))
	if cfg.Condarc != "" {
		fmt.Fprintf(&b, "CONDARC=%s\n", cfg.Condarc)
	}
	return b.String()
}

func orNo(f matrix.Flag) string {
	if f == matrix.FlagUnset {
		return "no"
	}
	return f.String()
}

func dockerfileFor(cfg matrix.ResolvedConfig) string {
	var bootstrapBlock, installPrefix, cleanupBlock string

	switch cfg.PackageManager {
	case "debian":
		bootstrapBlock = `RUN apt-get update && apt-get install -y --no-install-recommends \
  binutils \
  make \
  m4 \
  perl \
  python3 \
  tar \
  bc \
  gcc \
  g++ \
  ca-certificates \
  git \
  && apt-get clean && rm -rf /var/lib/apt/lists/*`
		installPrefix = `apt-get update && DEBIAN_FRONTEND=noninteractive apt-get install -y --no-install-recommends`
		cleanupBlock = `apt-get clean && rm -rf /var/lib/apt/lists/*`
	case "fedora":
		bootstrapBlock = `RUN $(command -v dnf || command -v yum) install -y \
  binutils make m4 perl python3 tar bc gcc gcc-c++ ca-certificates git \
  && $(command -v dnf || command -v yum) clean all`
		installPrefix = `$(command -v dnf || command -v yum) install -y`
		cleanupBlock = `$(command -v dnf || command -v yum) clean all`
	case "arch":
		bootstrapBlock = `RUN pacman -Syu --noconfirm base-devel python git`
		installPrefix = `pacman -Syu --noconfirm`
		cleanupBlock = `pacman -Scc --noconfirm`
	case "opensuse":
		bootstrapBlock = `RUN zypper --non-interactive install \
  binutils make m4 perl python3 tar bc gcc gcc-c++ ca-certificates git \
  && zypper clean --all`
		installPrefix = `zypper --non-interactive install`
		cleanupBlock = `zypper clean --all`
	case "conda":
		bootstrapBlock = `COPY condarc /opt/conda/.condarc
RUN conda update -n base conda && conda install -y compilers make m4 perl python git`
		installPrefix = `conda install -y`
		cleanupBlock = `conda clean --all --yes`
	default:
		bootstrapBlock = `# unknown package manager family; system packages skipped`
		installPrefix = `true`
		cleanupBlock = `true`
	}

	// Whether a failed install aborts the build is decided inside the image
	// from the IGNORE/ERROR args, so overriding them at docker-build time
	// changes the behavior without re-rendering.
	systemPackagesBlock := fmt.Sprintf(`RUN PACKAGES=$(build/bin/sage-get-system-packages %s $(build/bin/sage-package list --has-file spkg-configure.m4 "%s")) && \
  if ! %s $PACKAGES; then \
    [ "${IGNORE_MISSING_SYSTEM_PACKAGES}" = yes ] && [ "${ERROR_ON_MISSING_SYSTEM_PACKAGES}" != yes ] && \
    echo "(ignoring missing system packages)" || exit 1; \
  fi && \
  %s`, cfg.PackageManager, cfg.TypePattern, installPrefix, cleanupBlock)
	if !cfg.WithSystemPackages.Bool() {
		systemPackagesBlock = `# WITH_SYSTEM_SPKG=no: all packages are built from source`
	}

	configureArgs := ""
	if len(cfg.ExtraConfigureArgs) > 0 {
		configureArgs = " " + strings.Join(cfg.ExtraConfigureArgs, " ")
	}

	return fmt.Sprintf(`#
# NOTE: THIS DOCKERFILE IS GENERATED VIA "sage-matrix"
#
# PLEASE DO NOT EDIT IT DIRECTLY.
#
# Environment: %s
#

ARG BASE_IMAGE=%s
FROM ${BASE_IMAGE} AS with-system-packages

ENV LC_ALL=C.UTF-8 LANG=C.UTF-8

# Toolchain needed before any source checkout
%s

ARG SAGE_REPO=https://github.com/sagemath/sage.git
ARG SAGE_BRANCH=develop
RUN git clone --depth 1 --branch ${SAGE_BRANCH} ${SAGE_REPO} /sage
WORKDIR /sage

ARG TYPE_PATTERN="%s"
ARG IGNORE_MISSING_SYSTEM_PACKAGES=%s
ARG ERROR_ON_MISSING_SYSTEM_PACKAGES=%s

# Install the distribution packages selected by the type pattern
%s

FROM with-system-packages AS configured

RUN ./bootstrap
RUN ./configure%s

FROM configured AS built

ARG NUMPROC=4
RUN MAKE="make -j${NUMPROC}" make V=0 build
`,
		cfg.Environment,
		cfg.BaseImage,
		bootstrapBlock,
		cfg.TypePattern,
		orNo(cfg.IgnoreMissingSystemPackages),
		orNo(cfg.ErrorOnMissingSystemPackages),
		systemPackagesBlock,
		configureArgs,
	)
}
