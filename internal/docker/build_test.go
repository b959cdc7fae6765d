package docker

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akshat1136/sage/internal/matrix"
)

func TestImageTag(t *testing.T) {
	cfg, err := matrix.Resolve("fedora-31-standard", matrix.Overrides{})
	require.NoError(t, err)
	assert.Equal(t, "sage-fedora-31-standard", ImageTag(cfg))
}

func TestBuildArgs(t *testing.T) {
	cfg, err := matrix.Resolve("ubuntu-trusty-maximal", matrix.Overrides{})
	require.NoError(t, err)

	args := BuildArgs(cfg)
	assert.Equal(t, "ubuntu:trusty", args["BASE_IMAGE"])
	assert.Equal(t, "@(standard|optional)", args["TYPE_PATTERN"])
	assert.Equal(t, "yes", args["IGNORE_MISSING_SYSTEM_PACKAGES"])
	assert.Equal(t, "no", args["ERROR_ON_MISSING_SYSTEM_PACKAGES"])
}

// The condarc travels as a file in the build context, never as a build arg.
func TestBuildArgsOmitCondarc(t *testing.T) {
	cfg, err := matrix.Resolve("conda-forge-standard", matrix.Overrides{Condarc: "/dev/null"})
	require.NoError(t, err)
	assert.NotContains(t, BuildArgs(cfg), "CONDARC")
}

func TestBuildRequiresContextDir(t *testing.T) {
	err := Build(context.Background(), BuildOptions{Tag: "sage-test"})
	assert.ErrorIs(t, err, matrix.ErrMissingRequiredVariable)
}
