package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/akshat1136/sage/internal/config"
	"github.com/akshat1136/sage/internal/matrix"
)

type runtimeOptions struct {
	ConfigPath      string
	OutputDir       string
	ManifestFile    string
	Jobs            int
	Cleanup         bool
	Debug           bool
	DangerousInline bool

	WithSystemSpkg               string
	IgnoreMissingSystemPackages  string
	ErrorOnMissingSystemPackages string
	TypePattern                  string
	ExtraConfigureArgs           string
	ExtraDockerBuildArgs         string
	BaseImage                    string
	Condarc                      string
}

var rootOpts runtimeOptions

func NewRootCmd(buildVersion, buildDate string) *cobra.Command {
	showVersion := false

	cmd := &cobra.Command{
		Use:           "sage-matrix",
		Short:         "Resolve Sage build environments and generate container build artifacts",
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if showVersion {
				fmt.Fprint(cmd.OutOrStdout(), formatVersion(buildVersion, buildDate))
				return nil
			}
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().StringVarP(&rootOpts.ConfigPath, "config", "f", "", "Path to YAML config file")
	cmd.Flags().BoolVar(&showVersion, "version", false, "Print CLI version")
	cmd.PersistentFlags().BoolVar(&rootOpts.Debug, "debug", false, "Enable debug logging")
	cmd.PersistentFlags().BoolVar(&rootOpts.DangerousInline, "dangerous-inline", false, "Skip write confirmation prompts and perform writes inline")
	cmd.PersistentFlags().StringVarP(&rootOpts.OutputDir, "output", "o", "", "Output root for generated artifacts")
	cmd.PersistentFlags().StringVar(&rootOpts.ManifestFile, "manifest", "", "Path to the resolved-configuration manifest")
	cmd.PersistentFlags().IntVar(&rootOpts.Jobs, "jobs", 0, "Concurrent docker builds (0 = number of CPUs)")
	cmd.PersistentFlags().BoolVar(&rootOpts.Cleanup, "cleanup", false, "Remove output dirs for environments not in the selection")

	cmd.PersistentFlags().StringVar(&rootOpts.WithSystemSpkg, "with-system-spkg", "", "Use distribution packages where possible (yes/no)")
	cmd.PersistentFlags().StringVar(&rootOpts.IgnoreMissingSystemPackages, "ignore-missing-system-packages", "", "Tolerate system packages the distribution does not ship (yes/no)")
	cmd.PersistentFlags().StringVar(&rootOpts.ErrorOnMissingSystemPackages, "error-on-missing-system-packages", "", "Treat missing system packages as a hard failure (yes/no)")
	cmd.PersistentFlags().StringVar(&rootOpts.TypePattern, "type-pattern", "", "Package-category selector overriding the tier default")
	cmd.PersistentFlags().StringVar(&rootOpts.ExtraConfigureArgs, "extra-configure-args", "", "Extra arguments appended to ./configure")
	cmd.PersistentFlags().StringVar(&rootOpts.ExtraDockerBuildArgs, "extra-docker-build-args", "", "Extra arguments appended to docker build")
	cmd.PersistentFlags().StringVar(&rootOpts.BaseImage, "base-image", "", "Override the base container image")
	cmd.PersistentFlags().StringVar(&rootOpts.Condarc, "condarc", "", "Conda configuration file for conda-family builds")

	cmd.AddCommand(newVersionCmd(buildVersion, buildDate))
	cmd.AddCommand(newConfigCmd())
	cmd.AddCommand(newResolveCmd())
	cmd.AddCommand(newRenderCmd())
	cmd.AddCommand(newBuildCmd())
	cmd.AddCommand(newListCmd())

	return cmd
}

func mergedOptions(cmd *cobra.Command) (runtimeOptions, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return runtimeOptions{}, fmt.Errorf("get cwd: %w", err)
	}

	merged := runtimeOptions{
		OutputDir:      filepath.Join(cwd, "sage-matrix-out"),
		ManifestFile:   defaultManifestPath(),
		WithSystemSpkg: "yes",
	}

	if rootOpts.ConfigPath != "" {
		fileCfg, err := config.Load(rootOpts.ConfigPath)
		if err != nil {
			return runtimeOptions{}, err
		}

		if fileCfg.OutputDir != "" {
			merged.OutputDir = fileCfg.OutputDir
		}
		if fileCfg.Jobs != 0 {
			merged.Jobs = fileCfg.Jobs
		}
		if fileCfg.Cleanup != nil {
			merged.Cleanup = *fileCfg.Cleanup
		}
		if fileCfg.Debug != nil {
			merged.Debug = *fileCfg.Debug
		}
		if fileCfg.WithSystemSpkg != "" {
			merged.WithSystemSpkg = fileCfg.WithSystemSpkg
		}
		if fileCfg.IgnoreMissingSystemPackages != nil {
			merged.IgnoreMissingSystemPackages = yesNo(*fileCfg.IgnoreMissingSystemPackages)
		}
		if fileCfg.ErrorOnMissingSystemPackages != nil {
			merged.ErrorOnMissingSystemPackages = yesNo(*fileCfg.ErrorOnMissingSystemPackages)
		}
		if fileCfg.TypePattern != "" {
			merged.TypePattern = fileCfg.TypePattern
		}
		if fileCfg.ExtraConfigureArgs != "" {
			merged.ExtraConfigureArgs = fileCfg.ExtraConfigureArgs
		}
		if fileCfg.ExtraDockerBuildArgs != "" {
			merged.ExtraDockerBuildArgs = fileCfg.ExtraDockerBuildArgs
		}
		if fileCfg.BaseImage != "" {
			merged.BaseImage = fileCfg.BaseImage
		}
		if fileCfg.Condarc != "" {
			merged.Condarc = fileCfg.Condarc
		}
	}

	if err := applyEnvOverrides(&merged); err != nil {
		return runtimeOptions{}, err
	}

	if cmd.Flags().Changed("output") {
		merged.OutputDir = rootOpts.OutputDir
	}
	if cmd.Flags().Changed("manifest") {
		merged.ManifestFile = rootOpts.ManifestFile
	}
	if cmd.Flags().Changed("jobs") {
		merged.Jobs = rootOpts.Jobs
	}
	if cmd.Flags().Changed("cleanup") {
		merged.Cleanup = rootOpts.Cleanup
	}
	if cmd.Flags().Changed("debug") {
		merged.Debug = rootOpts.Debug
	}
	if cmd.Flags().Changed("dangerous-inline") {
		merged.DangerousInline = rootOpts.DangerousInline
	}
	if cmd.Flags().Changed("with-system-spkg") {
		merged.WithSystemSpkg = rootOpts.WithSystemSpkg
	}
	if cmd.Flags().Changed("ignore-missing-system-packages") {
		merged.IgnoreMissingSystemPackages = rootOpts.IgnoreMissingSystemPackages
	}
	if cmd.Flags().Changed("error-on-missing-system-packages") {
		merged.ErrorOnMissingSystemPackages = rootOpts.ErrorOnMissingSystemPackages
	}
	if cmd.Flags().Changed("type-pattern") {
		merged.TypePattern = rootOpts.TypePattern
	}
	if cmd.Flags().Changed("extra-configure-args") {
		merged.ExtraConfigureArgs = rootOpts.ExtraConfigureArgs
	}
	if cmd.Flags().Changed("extra-docker-build-args") {
		merged.ExtraDockerBuildArgs = rootOpts.ExtraDockerBuildArgs
	}
	if cmd.Flags().Changed("base-image") {
		merged.BaseImage = rootOpts.BaseImage
	}
	if cmd.Flags().Changed("condarc") {
		merged.Condarc = rootOpts.Condarc
	}

	merged.OutputDir = strings.TrimSpace(merged.OutputDir)
	merged.ManifestFile = strings.TrimSpace(merged.ManifestFile)
	merged.WithSystemSpkg = strings.TrimSpace(merged.WithSystemSpkg)
	merged.TypePattern = strings.TrimSpace(merged.TypePattern)
	merged.BaseImage = strings.TrimSpace(merged.BaseImage)
	merged.Condarc = strings.TrimSpace(merged.Condarc)

	return merged, nil
}

// applyEnvOverrides reads the documented override variables. The resolver
// itself never touches the process environment; everything funnels through
// the explicit matrix.Overrides built from the merged options.
func applyEnvOverrides(opts *runtimeOptions) error {
	if value, ok := getenvTrim("WITH_SYSTEM_SPKG"); ok {
		opts.WithSystemSpkg = value
	}
	if value, ok := getenvTrim("IGNORE_MISSING_SYSTEM_PACKAGES"); ok {
		opts.IgnoreMissingSystemPackages = value
	}
	if value, ok := getenvTrim("ERROR_ON_MISSING_SYSTEM_PACKAGES"); ok {
		opts.ErrorOnMissingSystemPackages = value
	}
	if value, ok := getenvTrim("TYPE_PATTERN"); ok {
		opts.TypePattern = value
	}
	if value, ok := getenvTrim("EXTRA_CONFIGURE_ARGS"); ok {
		opts.ExtraConfigureArgs = value
	}
	if value, ok := getenvTrim("EXTRA_DOCKER_BUILD_ARGS"); ok {
		opts.ExtraDockerBuildArgs = value
	}
	if value, ok := getenvTrim("BASE_IMAGE"); ok {
		opts.BaseImage = value
	}
	if value, ok := getenvTrim("CONDARC"); ok {
		opts.Condarc = value
	}
	if value, ok := getenvTrim("SAGE_MATRIX_OUTPUT"); ok {
		opts.OutputDir = value
	}
	if value, ok := getenvTrim("SAGE_MATRIX_MANIFEST"); ok {
		opts.ManifestFile = value
	}

	if value, ok := getenvTrim("SAGE_MATRIX_JOBS"); ok {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("parse SAGE_MATRIX_JOBS as int: %w", err)
		}
		opts.Jobs = parsed
	}
	if value, ok := getenvTrim("SAGE_MATRIX_CLEANUP"); ok {
		parsed, err := parseBoolEnv("SAGE_MATRIX_CLEANUP", value)
		if err != nil {
			return err
		}
		opts.Cleanup = parsed
	}
	if value, ok := getenvTrim("SAGE_MATRIX_DEBUG"); ok {
		parsed, err := parseBoolEnv("SAGE_MATRIX_DEBUG", value)
		if err != nil {
			return err
		}
		opts.Debug = parsed
	}
	return nil
}

// overridesFrom converts the merged options into the explicit override record
// handed to matrix.Resolve.
func overridesFrom(opts runtimeOptions) (matrix.Overrides, error) {
	withSystem, err := matrix.ParseFlag(opts.WithSystemSpkg)
	if err != nil {
		return matrix.Overrides{}, fmt.Errorf("WITH_SYSTEM_SPKG: %w", err)
	}
	ignoreMissing, err := matrix.ParseFlag(opts.IgnoreMissingSystemPackages)
	if err != nil {
		return matrix.Overrides{}, fmt.Errorf("IGNORE_MISSING_SYSTEM_PACKAGES: %w", err)
	}
	errorOnMissing, err := matrix.ParseFlag(opts.ErrorOnMissingSystemPackages)
	if err != nil {
		return matrix.Overrides{}, fmt.Errorf("ERROR_ON_MISSING_SYSTEM_PACKAGES: %w", err)
	}

	return matrix.Overrides{
		WithSystemPackages:           withSystem,
		IgnoreMissingSystemPackages:  ignoreMissing,
		ErrorOnMissingSystemPackages: errorOnMissing,
		TypePattern:                  opts.TypePattern,
		ExtraConfigureArgs:           strings.Fields(opts.ExtraConfigureArgs),
		ExtraBuildArgs:               strings.Fields(opts.ExtraDockerBuildArgs),
		BaseImage:                    opts.BaseImage,
		Condarc:                      opts.Condarc,
	}, nil
}

func defaultManifestPath() string {
	if value, ok := getenvTrim("SAGE_MATRIX_CACHE_DIR"); ok && value != "" {
		return filepath.Join(value, "sage-matrix", "matrix.json")
	}

	cacheDir, err := os.UserCacheDir()
	if err != nil || strings.TrimSpace(cacheDir) == "" {
		cacheDir = ".cache"
	}
	return filepath.Join(cacheDir, "sage-matrix", "matrix.json")
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}

func getenvTrim(name string) (string, bool) {
	value, ok := os.LookupEnv(name)
	if !ok {
		return "", false
	}
	return strings.TrimSpace(value), true
}

func parseBoolEnv(name, raw string) (bool, error) {
	parsed, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("parse %s as bool: %w", name, err)
	}
	return parsed, nil
}
