package config

func DefaultTemplate() string {
	return `# sage-matrix configuration
#
# Precedence: flags > environment variables > config file > defaults

# Output root for generated artifacts:
# - <output>/<environment>/Dockerfile
# - <output>/<environment>/build-args.env
output: ./sage-matrix-out

# Concurrent docker builds for the build command (0 = number of CPUs)
jobs: 0

# Remove output directories for environments no longer in the selection
cleanup: false

# Enable debug logging
debug: false

# Use distribution packages where the configure script accepts them.
# One of: yes, no
with_system_spkg: "yes"

# Tolerate system packages the distribution does not ship.
# Old releases and the maximal tier enable this automatically.
#ignore_missing_system_packages: false

# Treat missing system packages as a hard build failure
#error_on_missing_system_packages: false

# Package-category selector. Leave empty to let the environment tier decide:
# minimal, standard, or the combined glob @(standard|optional) for maximal.
type_pattern: ""

# Space-separated extra arguments appended to ./configure
extra_configure_args: ""

# Space-separated extra arguments appended to docker build
extra_docker_build_args: ""

# Override the base container image resolved from the matrix
base_image: ""

# Conda configuration file mounted into conda-family builds
condarc: ""
`
}
