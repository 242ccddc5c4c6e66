package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Preview.Width != 1280 || cfg.Preview.Height != 720 {
		t.Errorf("expected 1280x720, got %dx%d", cfg.Preview.Width, cfg.Preview.Height)
	}
	if cfg.Preview.Fullscreen {
		t.Error("expected fullscreen to be false by default")
	}
	if !cfg.Preview.VSync {
		t.Error("expected vsync to be true by default")
	}
	if cfg.Preview.Prop != "lift" {
		t.Errorf("expected default prop 'lift', got %s", cfg.Preview.Prop)
	}

	if cfg.Texture.Size != 256 {
		t.Errorf("expected texture size 256, got %d", cfg.Texture.Size)
	}
	if cfg.Animation.AbsoluteSpin {
		t.Error("expected accumulated spin by default")
	}
	if cfg.Animation.TimeScale != 1 {
		t.Errorf("expected time scale 1, got %f", cfg.Animation.TimeScale)
	}

	if cfg.Lift.LEDCount != 12 {
		t.Errorf("expected 12 LEDs, got %d", cfg.Lift.LEDCount)
	}
	if cfg.Lift.CornerRadius*2 >= cfg.Lift.DeckDepth {
		t.Error("default corner radius should not need clamping")
	}
	if cfg.Reactor.RingCount != 3 {
		t.Errorf("expected 3 reactor rings, got %d", cfg.Reactor.RingCount)
	}
	if cfg.Rocket.FinCount != 4 {
		t.Errorf("expected 4 fins, got %d", cfg.Rocket.FinCount)
	}

	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "" {
		t.Errorf("expected empty log file, got %s", cfg.Logging.LogFile)
	}
}

func TestLoadFromFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "propforge.yaml")

	yamlContent := `
texture:
  size: 512

animation:
  absolute_spin: true
  time_scale: 0.5

lift:
  deck_width: 4
  led_count: 20
  led_color: {r: 1, g: 0.2, b: 0}

reactor:
  ring_count: 5

preview:
  prop: reactor
  width: 1920
  height: 1080
  fullscreen: true
  vsync: false

export:
  dir: out
  binary: false

logging:
  level: "debug"
  log_file: "propforge.log"
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Texture.Size != 512 {
		t.Errorf("expected texture size 512, got %d", cfg.Texture.Size)
	}
	if !cfg.Animation.AbsoluteSpin || cfg.Animation.TimeScale != 0.5 {
		t.Errorf("animation section not loaded: %+v", cfg.Animation)
	}
	if cfg.Lift.DeckWidth != 4 || cfg.Lift.LEDCount != 20 {
		t.Errorf("lift section not loaded: width %f, leds %d", cfg.Lift.DeckWidth, cfg.Lift.LEDCount)
	}
	if cfg.Lift.LEDColor != (Color{1, 0.2, 0}) {
		t.Errorf("expected led color {1 0.2 0}, got %+v", cfg.Lift.LEDColor)
	}
	// Keys absent from the file keep their defaults.
	if cfg.Lift.DeckDepth != 2 {
		t.Errorf("expected default deck depth 2, got %f", cfg.Lift.DeckDepth)
	}
	if cfg.Reactor.RingCount != 5 {
		t.Errorf("expected 5 rings, got %d", cfg.Reactor.RingCount)
	}
	if cfg.Preview.Prop != "reactor" || cfg.Preview.Width != 1920 || !cfg.Preview.Fullscreen || cfg.Preview.VSync {
		t.Errorf("preview section not loaded: %+v", cfg.Preview)
	}
	if cfg.Export.Dir != "out" || cfg.Export.Binary {
		t.Errorf("export section not loaded: %+v", cfg.Export)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.LogFile != "propforge.log" {
		t.Errorf("logging section not loaded: %+v", cfg.Logging)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "invalid.yaml")

	invalidYAML := `
lift:
  led_count: not a number
  invalid syntax here
`
	if err := os.WriteFile(configPath, []byte(invalidYAML), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	if err := loadFromFile(Default(), configPath); err == nil {
		t.Error("expected error loading invalid YAML, got nil")
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	if err := loadFromFile(Default(), "/nonexistent/path/config.yaml"); err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()
	if dir == "" {
		t.Fatal("ConfigDir returned empty string")
	}
	if !filepath.IsAbs(dir) {
		t.Errorf("ConfigDir should return absolute path, got %s", dir)
	}
}

func TestFindConfigFile(t *testing.T) {
	origDir, _ := os.Getwd()
	defer os.Chdir(origDir)

	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "xdg"))
	t.Setenv("HOME", tmpDir)
	t.Setenv("APPDATA", filepath.Join(tmpDir, "appdata"))
	os.Chdir(tmpDir)

	if path := findConfigFile(); path != "" {
		t.Errorf("expected empty path when no config exists, got %s", path)
	}

	configPath := filepath.Join(tmpDir, "propforge.yaml")
	if err := os.WriteFile(configPath, []byte("preview:\n  width: 800\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}
	if path := findConfigFile(); path == "" {
		t.Error("expected to find propforge.yaml in current directory")
	}
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name     string
		setup    func()
		verify   func(*Config)
		teardown func()
	}{
		{
			name:  "debug flag",
			setup: func() { *flagDebug = true },
			verify: func(cfg *Config) {
				if cfg.Logging.Level != "debug" {
					t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
				}
				if !cfg.Preview.ShowFPS {
					t.Error("expected show_fps to be enabled with debug flag")
				}
			},
			teardown: func() { *flagDebug = false },
		},
		{
			name:  "prop flag",
			setup: func() { *flagProp = "rocket" },
			verify: func(cfg *Config) {
				if cfg.Preview.Prop != "rocket" {
					t.Errorf("expected prop rocket, got %s", cfg.Preview.Prop)
				}
			},
			teardown: func() { *flagProp = "" },
		},
		{
			name:  "out flag",
			setup: func() { *flagOut = "/tmp/props" },
			verify: func(cfg *Config) {
				if cfg.Export.Dir != "/tmp/props" {
					t.Errorf("expected export dir /tmp/props, got %s", cfg.Export.Dir)
				}
			},
			teardown: func() { *flagOut = "" },
		},
		{
			name:  "windowed flag",
			setup: func() { *flagWindowed = true },
			verify: func(cfg *Config) {
				if cfg.Preview.Fullscreen {
					t.Error("expected fullscreen to be false with windowed flag")
				}
			},
			teardown: func() { *flagWindowed = false },
		},
		{
			name:  "fullscreen flag",
			setup: func() { *flagFullscreen = true },
			verify: func(cfg *Config) {
				if !cfg.Preview.Fullscreen {
					t.Error("expected fullscreen to be true with fullscreen flag")
				}
			},
			teardown: func() { *flagFullscreen = false },
		},
		{
			name: "width and height flags",
			setup: func() {
				*flagWidth = 2560
				*flagHeight = 1440
			},
			verify: func(cfg *Config) {
				if cfg.Preview.Width != 2560 || cfg.Preview.Height != 1440 {
					t.Errorf("expected 2560x1440, got %dx%d", cfg.Preview.Width, cfg.Preview.Height)
				}
			},
			teardown: func() {
				*flagWidth = 0
				*flagHeight = 0
			},
		},
		{
			name:  "absolute spin flag",
			setup: func() { *flagAbsoluteSpin = true },
			verify: func(cfg *Config) {
				if !cfg.Animation.AbsoluteSpin {
					t.Error("expected absolute spin with -absolute-spin")
				}
			},
			teardown: func() { *flagAbsoluteSpin = false },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()
			defer tt.teardown()

			cfg := Default()
			applyFlags(cfg)
			tt.verify(cfg)
		})
	}
}

func TestNormalize(t *testing.T) {
	cfg := Default()
	cfg.Animation.TimeScale = -2
	cfg.Texture.Size = 0
	cfg.Mesh.MaxVertices = -1
	cfg.Preview.Prop = ""
	cfg.Export.Dir = ""
	cfg.Lift.CornerRadius = 99

	normalize(cfg)

	def := Default()
	if cfg.Animation.TimeScale != def.Animation.TimeScale {
		t.Errorf("time scale not restored: %f", cfg.Animation.TimeScale)
	}
	if cfg.Texture.Size != def.Texture.Size || cfg.Mesh.MaxVertices != def.Mesh.MaxVertices {
		t.Error("size limits not restored")
	}
	if cfg.Preview.Prop != "lift" || cfg.Export.Dir != "." {
		t.Errorf("names not restored: prop %q, dir %q", cfg.Preview.Prop, cfg.Export.Dir)
	}
	if cfg.Lift.CornerRadius != 99 {
		t.Error("geometric values are clamped by the builders, not by config")
	}
}

func TestSaveTo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := Default()
	cfg.Reactor.FanBlades = 9
	cfg.Rocket.FlameColor = Color{0.3, 0.4, 1}
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo failed: %v", err)
	}

	loaded := Default()
	if err := loadFromFile(loaded, path); err != nil {
		t.Fatalf("reloading saved config: %v", err)
	}
	if loaded.Reactor.FanBlades != 9 {
		t.Errorf("expected 9 fan blades, got %d", loaded.Reactor.FanBlades)
	}
	if loaded.Rocket.FlameColor != cfg.Rocket.FlameColor {
		t.Errorf("flame color changed: %+v", loaded.Rocket.FlameColor)
	}
}
