package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"github.com/simoneroux/magicbox/internal/config"
)

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("MAGICBOX_CONFIG", "")

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantLogDir := filepath.Join(tempHome, ".local", "share", "magicbox", "logs")
	if cfg.Logging.Dir != wantLogDir {
		t.Fatalf("unexpected log dir: got %q want %q", cfg.Logging.Dir, wantLogDir)
	}
	if cfg.Speaker.Binary != "sonos" {
		t.Fatalf("unexpected speaker binary: %q", cfg.Speaker.Binary)
	}
	if cfg.Speaker.VolumeMax != 60 || cfg.Speaker.VolumeStep != 5 {
		t.Fatalf("unexpected volume defaults: max=%d step=%d", cfg.Speaker.VolumeMax, cfg.Speaker.VolumeStep)
	}
	if len(cfg.Reader.Devices) != 2 || !strings.HasPrefix(cfg.Reader.Devices[0], "pn532_uart:") {
		t.Fatalf("unexpected reader devices: %v", cfg.Reader.Devices)
	}
	if !cfg.Feedback.Enabled {
		t.Fatal("expected feedback enabled by default")
	}
	if cfg.Feedback.SampleRate != 22050 {
		t.Fatalf("unexpected sample rate: %d", cfg.Feedback.SampleRate)
	}

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	info, err := os.Stat(cfg.Logging.Dir)
	if err != nil {
		t.Fatalf("expected log directory to exist: %v", err)
	}
	if !info.IsDir() {
		t.Fatalf("expected %q to be directory", cfg.Logging.Dir)
	}
}

func TestLoadCustomPath(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "magicbox.toml")

	type payload struct {
		Speaker struct {
			VolumeMax int `toml:"volume_max"`
		} `toml:"speaker"`
		Display struct {
			Address string `toml:"address"`
		} `toml:"display"`
		Video struct {
			Binary string `toml:"binary"`
		} `toml:"video"`
	}
	custom := payload{}
	custom.Speaker.VolumeMax = 40
	custom.Display.Address = "192.168.1.50"
	custom.Video.Binary = "/usr/local/bin/mpv"
	data, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal custom config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write custom config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected exists to be true")
	}
	if resolved != configPath {
		t.Fatalf("unexpected resolved path: got %q want %q", resolved, configPath)
	}
	if cfg.Speaker.VolumeMax != 40 {
		t.Fatalf("expected volume max 40, got %d", cfg.Speaker.VolumeMax)
	}
	if cfg.Display.Address != "192.168.1.50" {
		t.Fatalf("expected display address from file, got %q", cfg.Display.Address)
	}
	if cfg.Video.Binary != "/usr/local/bin/mpv" {
		t.Fatalf("expected video binary override, got %q", cfg.Video.Binary)
	}
	if cfg.Speaker.Binary != "sonos" {
		t.Fatalf("expected untouched sections to keep defaults, got %q", cfg.Speaker.Binary)
	}
}

func TestLoadHonorsConfigPathEnv(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "custom.toml")
	if err := os.WriteFile(configPath, []byte("[speaker]\nvolume_max = 30\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("MAGICBOX_CONFIG", configPath)

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != configPath {
		t.Fatalf("expected env path to resolve, got %q exists=%v", resolved, exists)
	}
	if cfg.Speaker.VolumeMax != 30 {
		t.Fatalf("expected volume max from env-pointed file, got %d", cfg.Speaker.VolumeMax)
	}
}

func TestDisplayAddressEnvFallback(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("MAGICBOX_CONFIG", "")
	t.Setenv("MAGICBOX_TV_IP", "10.0.0.9")

	cfg, _, _, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Display.Address != "10.0.0.9" {
		t.Fatalf("expected display address from env, got %q", cfg.Display.Address)
	}

	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "magicbox.toml")
	if err := os.WriteFile(configPath, []byte("[display]\naddress = \"192.168.1.77\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, _, _, err = config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Display.Address != "192.168.1.77" {
		t.Fatalf("expected file value to win over env, got %q", cfg.Display.Address)
	}
}

func TestCreateSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}

	contents, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(contents), "pn532_uart") {
		t.Fatalf("sample config missing reader device example: %s", contents)
	}

	var cfg config.Config
	if err := toml.Unmarshal(contents, &cfg); err != nil {
		t.Fatalf("unmarshal sample: %v", err)
	}
	if cfg.Speaker.Binary != "sonos" {
		t.Fatalf("expected sample to carry default speaker binary, got %q", cfg.Speaker.Binary)
	}
	if len(cfg.Reader.Devices) != 2 {
		t.Fatalf("expected sample to list both reader devices, got %v", cfg.Reader.Devices)
	}
}

func TestValidateDetectsInvalidValues(t *testing.T) {
	cfg := config.Default()
	cfg.Speaker.VolumeMax = 150
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for out-of-range volume max")
	}

	cfg = config.Default()
	cfg.Speaker.VolumeStep = 70
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error when step exceeds max")
	}

	cfg = config.Default()
	cfg.Video.StopGrace = 0
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for non-positive stop grace")
	}

	cfg = config.Default()
	cfg.Reader.Devices = nil
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for empty reader devices")
	}
}
