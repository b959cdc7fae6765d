// Package docker shells out to the docker CLI. Builds triggered per resolved
// configuration are independent external processes; scheduling and retries
// are the caller's concern.
package docker

import (
	"context"
	"fmt"
	"io"
	"os/exec"
	"sort"

	"github.com/akshat1136/sage/internal/matrix"
)

type BuildOptions struct {
	ContextDir string
	Dockerfile string
	Tag        string
	BuildArgs  map[string]string
	ExtraArgs  []string

	Stdout io.Writer
	Stderr io.Writer
}

// ImageTag derives the local image tag for a resolved configuration,
// e.g. "sage-fedora-31-standard".
func ImageTag(cfg matrix.ResolvedConfig) string {
	return "sage-" + cfg.Environment
}

// BuildArgs maps a resolved configuration onto docker build arguments. The
// generated Dockerfile declares a matching ARG for each key; the condarc is
// not among them because the renderer materializes it into the build context.
func BuildArgs(cfg matrix.ResolvedConfig) map[string]string {
	return map[string]string{
		"BASE_IMAGE":                       cfg.BaseImage,
		"TYPE_PATTERN":                     cfg.TypePattern,
		"IGNORE_MISSING_SYSTEM_PACKAGES":   flagValue(cfg.IgnoreMissingSystemPackages),
		"ERROR_ON_MISSING_SYSTEM_PACKAGES": flagValue(cfg.ErrorOnMissingSystemPackages),
	}
}

func flagValue(f matrix.Flag) string {
	if f == matrix.FlagUnset {
		return "no"
	}
	return f.String()
}

// Build runs docker build and streams its output. The command inherits ctx,
// so a cancelled matrix run kills in-flight builds.
func Build(ctx context.Context, opts BuildOptions) error {
	if opts.ContextDir == "" {
		return fmt.Errorf("%w: build context directory", matrix.ErrMissingRequiredVariable)
	}

	args := []string{"build", "--tag", opts.Tag}
	if opts.Dockerfile != "" {
		args = append(args, "--file", opts.Dockerfile)
	}

	keys := make([]string, 0, len(opts.BuildArgs))
	for key := range opts.BuildArgs {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		args = append(args, "--build-arg", key+"="+opts.BuildArgs[key])
	}

	args = append(args, opts.ExtraArgs...)
	args = append(args, opts.ContextDir)

	cmd := exec.CommandContext(ctx, "docker", args...)
	cmd.Stdout = opts.Stdout
	cmd.Stderr = opts.Stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("docker build %s: %w", opts.Tag, err)
	}
	return nil
}
