package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatal(err)
	}

	if cfg.ClipDuration != 15 {
		t.Errorf("expected 15s default clip duration, got %v", cfg.ClipDuration)
	}
	if cfg.MinOutputBytes != 1000 {
		t.Errorf("expected 1000 byte threshold, got %d", cfg.MinOutputBytes)
	}
	if cfg.Background.ClipsPerGame != 3 {
		t.Errorf("expected 3 background clips, got %d", cfg.Background.ClipsPerGame)
	}
	if cfg.Background.RandomSeed != 42 {
		t.Errorf("expected seed 42, got %d", cfg.Background.RandomSeed)
	}
	if cfg.Windows.FreeKick != 10 {
		t.Errorf("expected 10s free kick window, got %v", cfg.Windows.FreeKick)
	}
	if cfg.FFmpeg.AttemptTimeout != 120*time.Second {
		t.Errorf("expected 120s attempt timeout, got %v", cfg.FFmpeg.AttemptTimeout)
	}
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
data_dir: /mnt/soccernet
clip_duration_seconds: 20
windows:
  free_kick: 12
background:
  clips_per_game: 5
`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	if cfg.DataDir != "/mnt/soccernet" {
		t.Errorf("data_dir not applied: %s", cfg.DataDir)
	}
	if cfg.ClipDuration != 20 {
		t.Errorf("clip duration not applied: %v", cfg.ClipDuration)
	}
	if cfg.Windows.FreeKick != 12 {
		t.Errorf("window not applied: %v", cfg.Windows.FreeKick)
	}
	if cfg.Background.ClipsPerGame != 5 {
		t.Errorf("background clips not applied: %d", cfg.Background.ClipsPerGame)
	}
	// untouched keys keep their defaults
	if cfg.Container != "mkv" {
		t.Errorf("container default lost: %s", cfg.Container)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg, _ := Load("")
	cfg.Workers = 8
	if err := cfg.Save(path); err != nil {
		t.Fatal(err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Workers != 8 {
		t.Errorf("expected 8 workers after round trip, got %d", loaded.Workers)
	}
}

func TestConfigContext(t *testing.T) {
	cfg, _ := Load("")
	cfg.OutputDir = "/tmp/clips"

	ctx := WithConfig(context.Background(), cfg)
	if got := FromContext(ctx); got.OutputDir != "/tmp/clips" {
		t.Errorf("config not carried through context: %s", got.OutputDir)
	}

	// absent config falls back to defaults
	if got := FromContext(context.Background()); got.ClipDuration != 15 {
		t.Errorf("expected default fallback, got %v", got.ClipDuration)
	}
}
