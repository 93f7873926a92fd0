package app

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lumpiluk/photo-editing-analysis/models"
)

func validConfig(t *testing.T) *models.AppConfig {
	t.Helper()

	cfg := &models.AppConfig{
		Folders: []string{t.TempDir()},
		Plots:   models.PlotsConfig{Delta: filepath.Join(t.TempDir(), "delta.png")},
	}
	ApplyDefaults(cfg)
	return cfg
}

func TestValidate(t *testing.T) {
	t.Run("valid config passes", func(t *testing.T) {
		if err := Validate(validConfig(t)); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("missing folder", func(t *testing.T) {
		cfg := validConfig(t)
		cfg.Folders = []string{"/does/not/exist"}
		if err := Validate(cfg); err == nil {
			t.Error("expected an error for a missing folder")
		}
	})

	t.Run("no plots requested", func(t *testing.T) {
		cfg := validConfig(t)
		cfg.Plots = models.PlotsConfig{}
		if err := Validate(cfg); err == nil {
			t.Error("expected an error when no plot is requested")
		}
	})

	t.Run("folder label count mismatch", func(t *testing.T) {
		cfg := validConfig(t)
		cfg.CompareFolders = "raw"
		cfg.FolderLabels = []string{"June", "July"}
		err := Validate(cfg)
		if err == nil {
			t.Fatal("expected an error for mismatched label count")
		}
		if !strings.Contains(err.Error(), "folder-label") {
			t.Errorf("expected a descriptive message, got: %v", err)
		}
	})

	t.Run("invalid compare mode", func(t *testing.T) {
		cfg := validConfig(t)
		cfg.CompareFolders = "both"
		if err := Validate(cfg); err == nil {
			t.Error("expected an error for an unknown compare mode")
		}
	})

	t.Run("invalid timestamp source", func(t *testing.T) {
		cfg := validConfig(t)
		cfg.TimestampSource = "ctime"
		if err := Validate(cfg); err == nil {
			t.Error("expected an error for an unknown timestamp source")
		}
	})

	t.Run("incomplete custom plot", func(t *testing.T) {
		cfg := validConfig(t)
		cfg.CustomPlots = []models.CustomPlot{{Out: "lens.png", Tag: ""}}
		if err := Validate(cfg); err == nil {
			t.Error("expected an error for a custom plot without a tag")
		}
	})
}

func TestZipCustomPlots(t *testing.T) {
	t.Run("aligned triples", func(t *testing.T) {
		plots, err := ZipCustomPlots(
			[]string{"lens.png"},
			[]string{"EXIF:LensModel"},
			[]string{"Lens"},
		)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(plots) != 1 || plots[0].Tag != "EXIF:LensModel" {
			t.Errorf("unexpected result: %+v", plots)
		}
	})

	t.Run("mismatched counts", func(t *testing.T) {
		if _, err := ZipCustomPlots([]string{"a.png", "b.png"}, []string{"EXIF:ISO"}, []string{"ISO"}); err == nil {
			t.Error("expected an error for mismatched counts")
		}
	})

	t.Run("all empty", func(t *testing.T) {
		plots, err := ZipCustomPlots(nil, nil, nil)
		if err != nil || plots != nil {
			t.Errorf("expected nil, nil; got %v, %v", plots, err)
		}
	})
}

func TestApplyDefaults(t *testing.T) {
	cfg := &models.AppConfig{}
	ApplyDefaults(cfg)

	if cfg.RawGlob != DefaultRawGlob {
		t.Errorf("expected raw glob %q, got %q", DefaultRawGlob, cfg.RawGlob)
	}
	if cfg.EditedGlob != DefaultEditedGlob {
		t.Errorf("expected edited glob %q, got %q", DefaultEditedGlob, cfg.EditedGlob)
	}
	if cfg.TimestampSource != TimestampSourceMtime {
		t.Errorf("expected timestamp source %q, got %q", TimestampSourceMtime, cfg.TimestampSource)
	}
	if cfg.Extractor != ExtractorExifTool {
		t.Errorf("expected extractor %q, got %q", ExtractorExifTool, cfg.Extractor)
	}
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
folders:
  - /photos/2025-06
raw_files_glob: "*.RAF"
cache_metadata: true
plots:
  delta: delta.svg
  sessions: sessions.svg
custom_plots:
  - out: lens.png
    tag: EXIF:LensModel
    label: Lens
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if len(cfg.Folders) != 1 || cfg.Folders[0] != "/photos/2025-06" {
		t.Errorf("unexpected folders: %v", cfg.Folders)
	}
	if cfg.RawGlob != "*.RAF" {
		t.Errorf("unexpected raw glob: %q", cfg.RawGlob)
	}
	if !cfg.CacheMetadata {
		t.Error("expected cache_metadata to be set")
	}
	if cfg.Plots.Delta != "delta.svg" || cfg.Plots.Sessions != "sessions.svg" {
		t.Errorf("unexpected plots config: %+v", cfg.Plots)
	}
	if len(cfg.CustomPlots) != 1 || cfg.CustomPlots[0].Label != "Lens" {
		t.Errorf("unexpected custom plots: %+v", cfg.CustomPlots)
	}
}
