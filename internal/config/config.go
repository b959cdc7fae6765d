package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type FileConfig struct {
	OutputDir string `yaml:"output"`
	Jobs      int    `yaml:"jobs"`
	Cleanup   *bool  `yaml:"cleanup"`
	Debug     *bool  `yaml:"debug"`

	WithSystemSpkg               string `yaml:"with_system_spkg"`
	IgnoreMissingSystemPackages  *bool  `yaml:"ignore_missing_system_packages"`
	ErrorOnMissingSystemPackages *bool  `yaml:"error_on_missing_system_packages"`
	TypePattern                  string `yaml:"type_pattern"`
	ExtraConfigureArgs           string `yaml:"extra_configure_args"`
	ExtraDockerBuildArgs         string `yaml:"extra_docker_build_args"`
	BaseImage                    string `yaml:"base_image"`
	Condarc                      string `yaml:"condarc"`
}

func Load(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return FileConfig{}, fmt.Errorf("read config: %w", err)
	}

	var cfg FileConfig
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return FileConfig{}, fmt.Errorf("parse config YAML: %w", err)
	}

	return cfg, nil
}

func FromString(s string) (FileConfig, error) {
	var cfg FileConfig
	if err := yaml.Unmarshal([]byte(s), &cfg); err != nil {
		return FileConfig{}, fmt.Errorf("parse config YAML: %w", err)
	}
	return cfg, nil
}
