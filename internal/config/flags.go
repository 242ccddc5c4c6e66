package config

import "flag"

var (
	flagConfig       = flag.String("config", "", "Path to config file")
	flagDebug        = flag.Bool("debug", false, "Enable debug logging and the FPS counter")
	flagProp         = flag.String("prop", "", "Prop to build (lift, reactor, rocket)")
	flagOut          = flag.String("out", "", "Export directory")
	flagWindowed     = flag.Bool("windowed", false, "Run in windowed mode")
	flagFullscreen   = flag.Bool("fullscreen", false, "Run in fullscreen mode")
	flagWidth        = flag.Int("width", 0, "Window width")
	flagHeight       = flag.Int("height", 0, "Window height")
	flagAbsoluteSpin = flag.Bool("absolute-spin", false, "Derive spin angles from elapsed time")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// Args returns the positional arguments left after flag parsing.
func Args() []string {
	return flag.Args()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
		cfg.Preview.ShowFPS = true
	}
	if *flagProp != "" {
		cfg.Preview.Prop = *flagProp
	}
	if *flagOut != "" {
		cfg.Export.Dir = *flagOut
	}
	if *flagWindowed {
		cfg.Preview.Fullscreen = false
	}
	if *flagFullscreen {
		cfg.Preview.Fullscreen = true
	}
	if *flagWidth > 0 {
		cfg.Preview.Width = *flagWidth
	}
	if *flagHeight > 0 {
		cfg.Preview.Height = *flagHeight
	}
	if *flagAbsoluteSpin {
		cfg.Animation.AbsoluteSpin = true
	}
}
