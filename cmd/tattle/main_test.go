package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/tattlecode/tattle/pkg/config"
)

func TestDefaultConfigTemplate_LoadsCleanly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tattle.toml")
	if err := os.WriteFile(path, []byte(defaultConfigTemplate), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("generated config does not load: %v", err)
	}

	defaults := config.DefaultConfig()
	if cfg.Detect != defaults.Detect {
		t.Errorf("detect section diverges from defaults: %+v vs %+v", cfg.Detect, defaults.Detect)
	}
	if cfg.Cache != defaults.Cache {
		t.Errorf("cache section diverges from defaults: %+v vs %+v", cfg.Cache, defaults.Cache)
	}
	if cfg.Server.Port != defaults.Server.Port {
		t.Errorf("port = %q, want %q", cfg.Server.Port, defaults.Server.Port)
	}
}

func TestGetFormat_FallsBack(t *testing.T) {
	if got := getFormat(checkCmd, "markdown"); got != "markdown" {
		t.Errorf("getFormat = %q, want fallback markdown", got)
	}
}
