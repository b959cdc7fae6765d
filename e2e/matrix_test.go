package test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/akshat1136/sage/e2e/harness"
	"github.com/akshat1136/sage/internal/matrix"
)

func TestResolveWritesManifest(t *testing.T) {
	h := &harness.Harness{T: t}
	setup := h.NewIsolatedFS(nil)

	manifestFile := filepath.Join(setup.CacheDir, "matrix.json")

	result := h.Run(
		"resolve",
		"--dangerous-inline",
		"--manifest", manifestFile,
		"fedora-31-standard",
		"ubuntu-focal-minimal",
	)
	if result.Err != nil {
		t.Fatalf("resolve failed: %v", result.Err)
	}

	manifest, err := matrix.ReadManifest(manifestFile)
	if err != nil {
		t.Fatalf("read manifest: %v", err)
	}
	if len(manifest.Entries) != 2 {
		t.Fatalf("expected 2 manifest entries, got %d", len(manifest.Entries))
	}

	cfg, ok := manifest.Entries["fedora-31-standard"]
	if !ok {
		t.Fatal("fedora-31-standard missing from manifest")
	}
	if cfg.BaseImage != "fedora:31" {
		t.Errorf("base image = %q, want fedora:31", cfg.BaseImage)
	}
	if cfg.PackageManager != "fedora" {
		t.Errorf("package manager = %q, want fedora", cfg.PackageManager)
	}
}

func TestResolveUnknownFamilyFails(t *testing.T) {
	h := &harness.Harness{T: t}
	h.NewIsolatedFS(nil)

	result := h.Run("resolve", "--dangerous-inline", "solaris-10-minimal")
	if result.Err == nil {
		t.Fatal("expected resolve to fail for unknown family")
	}
	if !errors.Is(result.Err, matrix.ErrUnknownEnvironment) {
		t.Errorf("error = %v, want ErrUnknownEnvironment", result.Err)
	}
}

func TestRenderProducesArtifacts(t *testing.T) {
	h := &harness.Harness{T: t}
	setup := h.NewIsolatedFS(nil)

	result := h.Run(
		"render",
		"--dangerous-inline",
		"--output", setup.OutputDir,
		"fedora-31-standard",
		"ubuntu-trusty-maximal",
	)
	if result.Err != nil {
		t.Fatalf("render failed: %v", result.Err)
	}

	for _, env := range []string{"fedora-31-standard", "ubuntu-trusty-maximal"} {
		for _, name := range []string{"Dockerfile", "build-args.env"} {
			path := filepath.Join(setup.OutputDir, env, name)
			info, err := os.Stat(path)
			if err != nil {
				t.Errorf("expected %s to exist: %v", path, err)
				continue
			}
			if info.Size() == 0 {
				t.Errorf("expected %s to be non-empty", path)
			}
		}
	}

	raw, err := os.ReadFile(filepath.Join(setup.OutputDir, "ubuntu-trusty-maximal", "build-args.env"))
	if err != nil {
		t.Fatalf("read build-args.env: %v", err)
	}
	content := string(raw)
	for _, want := range []string{
		"BASE_IMAGE=ubuntu:trusty",
		"TYPE_PATTERN=@(standard|optional)",
		"IGNORE_MISSING_SYSTEM_PACKAGES=yes",
	} {
		if !strings.Contains(content, want) {
			t.Errorf("build-args.env missing %q", want)
		}
	}
}

func TestRenderFromManifest(t *testing.T) {
	h := &harness.Harness{T: t}
	setup := h.NewIsolatedFS(nil)

	manifestFile := filepath.Join(setup.CacheDir, "matrix.json")

	if result := h.Run("resolve", "--dangerous-inline", "--manifest", manifestFile, "debian-bullseye-standard"); result.Err != nil {
		t.Fatalf("resolve failed: %v", result.Err)
	}

	result := h.Run(
		"render",
		"--dangerous-inline",
		"--from-manifest",
		"--manifest", manifestFile,
		"--output", setup.OutputDir,
	)
	if result.Err != nil {
		t.Fatalf("render failed: %v", result.Err)
	}

	if _, err := os.Stat(filepath.Join(setup.OutputDir, "debian-bullseye-standard", "Dockerfile")); err != nil {
		t.Fatalf("Dockerfile not rendered from manifest: %v", err)
	}
}

func TestRenderRejectsArgsCombinedWithManifestFlag(t *testing.T) {
	h := &harness.Harness{T: t}
	setup := h.NewIsolatedFS(nil)

	manifestFile := filepath.Join(setup.CacheDir, "matrix.json")
	if result := h.Run("resolve", "--dangerous-inline", "--manifest", manifestFile, "fedora-31-standard"); result.Err != nil {
		t.Fatalf("resolve failed: %v", result.Err)
	}

	result := h.Run(
		"render",
		"--dangerous-inline",
		"--from-manifest",
		"--manifest", manifestFile,
		"--output", setup.OutputDir,
		"ubuntu-focal-minimal",
	)
	if result.Err == nil {
		t.Fatal("expected render to reject environment args combined with --from-manifest")
	}
	if !strings.Contains(result.Err.Error(), "not both") {
		t.Errorf("error = %v, want mutual-exclusion message", result.Err)
	}
}

func TestRenderWithoutEnvironmentsFails(t *testing.T) {
	h := &harness.Harness{T: t}
	h.NewIsolatedFS(nil)

	result := h.Run("render", "--dangerous-inline")
	if result.Err == nil {
		t.Fatal("expected render without environments to fail")
	}
}

func TestEnvironmentVariableOverridesBaseImage(t *testing.T) {
	h := &harness.Harness{T: t}
	setup := h.NewIsolatedFS(nil)

	t.Setenv("BASE_IMAGE", "registry.example.com/fedora:31")

	result := h.Run(
		"render",
		"--dangerous-inline",
		"--output", setup.OutputDir,
		"fedora-31-standard",
	)
	if result.Err != nil {
		t.Fatalf("render failed: %v", result.Err)
	}

	raw, err := os.ReadFile(filepath.Join(setup.OutputDir, "fedora-31-standard", "build-args.env"))
	if err != nil {
		t.Fatalf("read build-args.env: %v", err)
	}
	if !strings.Contains(string(raw), "BASE_IMAGE=registry.example.com/fedora:31") {
		t.Error("BASE_IMAGE env override not applied")
	}
}

func TestListContainsKnownEnvironments(t *testing.T) {
	h := &harness.Harness{T: t}
	h.NewIsolatedFS(nil)

	result := h.Run("list")
	if result.Err != nil {
		t.Fatalf("list failed: %v", result.Err)
	}

	for _, want := range []string{"fedora-31-standard", "ubuntu-trusty-maximal", "archlinux-minimal"} {
		if !strings.Contains(result.Stdout, want) {
			t.Errorf("list output missing %s", want)
		}
	}
}

func TestConfigInitWritesTemplate(t *testing.T) {
	h := &harness.Harness{T: t}
	setup := h.NewIsolatedFS(nil)

	target := filepath.Join(setup.BaseDir, "sage-matrix.yaml")
	result := h.Run("config", "init", "--dangerous-inline", "--file", target)
	if result.Err != nil {
		t.Fatalf("config init failed: %v", result.Err)
	}

	raw, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("read template: %v", err)
	}
	if !strings.Contains(string(raw), "with_system_spkg") {
		t.Error("template missing with_system_spkg key")
	}
}
