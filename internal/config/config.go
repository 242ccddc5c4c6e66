// Package config handles propforge configuration loading and management.
package config

import "github.com/go-gl/mathgl/mgl32"

// Config holds all settings.
type Config struct {
	Mesh      MeshConfig      `yaml:"mesh"`
	Texture   TextureConfig   `yaml:"texture"`
	Animation AnimationConfig `yaml:"animation"`
	Lift      LiftConfig      `yaml:"lift"`
	Reactor   ReactorConfig   `yaml:"reactor"`
	Rocket    RocketConfig    `yaml:"rocket"`
	Preview   PreviewConfig   `yaml:"preview"`
	Export    ExportConfig    `yaml:"export"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// MeshConfig holds mesh builder limits.
type MeshConfig struct {
	MaxVertices int `yaml:"max_vertices"` // Hard cap per mesh; 0 selects the builtin limit
}

// TextureConfig holds texture synthesis settings.
type TextureConfig struct {
	Size int `yaml:"size"` // Edge length of synthesized bitmaps
}

// AnimationConfig holds animation driver settings.
type AnimationConfig struct {
	AbsoluteSpin bool    `yaml:"absolute_spin"` // Spin from elapsed time instead of accumulated deltas
	TimeScale    float32 `yaml:"time_scale"`
}

// Color is a linear RGB triple.
type Color struct {
	R float32 `yaml:"r"`
	G float32 `yaml:"g"`
	B float32 `yaml:"b"`
}

// Vec3 returns the color as a vector.
func (c Color) Vec3() mgl32.Vec3 { return mgl32.Vec3{c.R, c.G, c.B} }

// Vec4 returns the color with the given alpha.
func (c Color) Vec4(a float32) mgl32.Vec4 { return mgl32.Vec4{c.R, c.G, c.B, a} }

// LiftConfig shapes the lift platform.
type LiftConfig struct {
	DeckWidth      float32 `yaml:"deck_width"`
	DeckDepth      float32 `yaml:"deck_depth"`
	DeckHeight     float32 `yaml:"deck_height"`
	CornerRadius   float32 `yaml:"corner_radius"`
	CornerSegments int     `yaml:"corner_segments"`
	RestHeight     float32 `yaml:"rest_height"` // Deck bottom above ground

	PistonRadius   float32 `yaml:"piston_radius"`
	PistonChamfer  float32 `yaml:"piston_chamfer"`
	PistonSegments int     `yaml:"piston_segments"`

	RodRadius float32 `yaml:"rod_radius"`
	RodLength float32 `yaml:"rod_length"`
	RodTravel float32 `yaml:"rod_travel"`
	RodSpeed  float32 `yaml:"rod_speed"`

	BobAmplitude float32 `yaml:"bob_amplitude"`
	BobSpeed     float32 `yaml:"bob_speed"`
	TiltDegrees  float32 `yaml:"tilt_degrees"`
	TiltSpeed    float32 `yaml:"tilt_speed"`

	LEDCount       int     `yaml:"led_count"`
	ChaseSpeed     float32 `yaml:"chase_speed"`
	ChasePhaseStep float32 `yaml:"chase_phase_step"`
	ChaseSharpness float32 `yaml:"chase_sharpness"`
	ChaseMin       float32 `yaml:"chase_min"`
	ChaseMax       float32 `yaml:"chase_max"`

	BeaconSpin float32 `yaml:"beacon_spin"` // Degrees per second

	DeckColor   Color `yaml:"deck_color"`
	LEDColor    Color `yaml:"led_color"`
	BeaconColor Color `yaml:"beacon_color"`
}

// ReactorConfig shapes the reactor.
type ReactorConfig struct {
	CoreRadius   float32 `yaml:"core_radius"`
	CoreHeight   float32 `yaml:"core_height"`
	CoreChamfer  float32 `yaml:"core_chamfer"`
	CoreSegments int     `yaml:"core_segments"`

	RingCount     int     `yaml:"ring_count"`
	RingRadius    float32 `yaml:"ring_radius"` // Innermost major radius
	RingSpacing   float32 `yaml:"ring_spacing"`
	RingThickness float32 `yaml:"ring_thickness"`
	RingSpin      float32 `yaml:"ring_spin"` // Degrees per second of the innermost ring

	FanBlades int     `yaml:"fan_blades"`
	FanRadius float32 `yaml:"fan_radius"`
	FanSpin   float32 `yaml:"fan_spin"`

	PulseSpeed       float32 `yaml:"pulse_speed"`
	PulseMin         float32 `yaml:"pulse_min"`
	PulseMax         float32 `yaml:"pulse_max"`
	FlickerAmplitude float32 `yaml:"flicker_amplitude"`
	FlickerSpeed     float32 `yaml:"flicker_speed"`
	ScrollSpeed      float32 `yaml:"scroll_speed"`

	BeaconCount     int     `yaml:"beacon_count"`
	BlinkSpeed      float32 `yaml:"blink_speed"`
	BlinkThreshold  float32 `yaml:"blink_threshold"`
	EnergyFrequency int     `yaml:"energy_frequency"`
	EnergyOctaves   int     `yaml:"energy_octaves"`

	CoreColor   Color `yaml:"core_color"`
	RingColor   Color `yaml:"ring_color"`
	BeaconColor Color `yaml:"beacon_color"`
}

// RocketConfig shapes the rocket.
type RocketConfig struct {
	BodyRadius   float32 `yaml:"body_radius"`
	BodyHeight   float32 `yaml:"body_height"`
	NoseHeight   float32 `yaml:"nose_height"`
	Segments     int     `yaml:"segments"`
	FinCount     int     `yaml:"fin_count"`
	FinSpan      float32 `yaml:"fin_span"`
	FinHeight    float32 `yaml:"fin_height"`
	FlameLength  float32 `yaml:"flame_length"`
	HoverHeight  float32 `yaml:"hover_height"`
	GlowCount    int     `yaml:"glow_count"`
	BobAmplitude float32 `yaml:"bob_amplitude"`
	BobSpeed     float32 `yaml:"bob_speed"`
	TiltDegrees  float32 `yaml:"tilt_degrees"`
	TiltSpeed    float32 `yaml:"tilt_speed"`

	FlamePulseSpeed float32 `yaml:"flame_pulse_speed"`
	FlickerSpeed    float32 `yaml:"flicker_speed"`
	FlameScroll     float32 `yaml:"flame_scroll"`
	BlinkSpeed      float32 `yaml:"blink_speed"`

	BodyColor  Color `yaml:"body_color"`
	FlameColor Color `yaml:"flame_color"`
}

// PreviewConfig holds preview window settings.
type PreviewConfig struct {
	Prop       string `yaml:"prop"`
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	Fullscreen bool   `yaml:"fullscreen"`
	VSync      bool   `yaml:"vsync"`
	MSAA       int    `yaml:"msaa"` // Multisample count; 0 disables
	ShowFPS    bool   `yaml:"show_fps"`
}

// ExportConfig holds export settings.
type ExportConfig struct {
	Dir    string `yaml:"dir"`
	Binary bool   `yaml:"binary"` // .glb instead of .gltf
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Mesh:    MeshConfig{MaxVertices: 1 << 20},
		Texture: TextureConfig{Size: 256},
		Animation: AnimationConfig{
			AbsoluteSpin: false,
			TimeScale:    1,
		},
		Lift: LiftConfig{
			DeckWidth:      3,
			DeckDepth:      2,
			DeckHeight:     0.25,
			CornerRadius:   0.2,
			CornerSegments: 6,
			RestHeight:     1.2,
			PistonRadius:   0.18,
			PistonChamfer:  0.04,
			PistonSegments: 20,
			RodRadius:      0.07,
			RodLength:      0.9,
			RodTravel:      0.35,
			RodSpeed:       1.6,
			BobAmplitude:   0.08,
			BobSpeed:       1.3,
			TiltDegrees:    2,
			TiltSpeed:      0.9,
			LEDCount:       12,
			ChaseSpeed:     5,
			ChasePhaseStep: 0.55,
			ChaseSharpness: 4,
			ChaseMin:       0.05,
			ChaseMax:       3,
			BeaconSpin:     220,
			DeckColor:      Color{0.85, 0.65, 0.1},
			LEDColor:       Color{0.1, 1, 0.45},
			BeaconColor:    Color{1, 0.35, 0.05},
		},
		Reactor: ReactorConfig{
			CoreRadius:       0.8,
			CoreHeight:       2,
			CoreChamfer:      0.12,
			CoreSegments:     32,
			RingCount:        3,
			RingRadius:       1.25,
			RingSpacing:      0.25,
			RingThickness:    0.05,
			RingSpin:         40,
			FanBlades:        6,
			FanRadius:        0.7,
			FanSpin:          300,
			PulseSpeed:       2.2,
			PulseMin:         0.6,
			PulseMax:         2.5,
			FlickerAmplitude: 0.15,
			FlickerSpeed:     23,
			ScrollSpeed:      0.35,
			BeaconCount:      4,
			BlinkSpeed:       4,
			BlinkThreshold:   0.6,
			EnergyFrequency:  4,
			EnergyOctaves:    4,
			CoreColor:        Color{0.2, 0.8, 1},
			RingColor:        Color{0.7, 0.72, 0.75},
			BeaconColor:      Color{1, 0.15, 0.1},
		},
		Rocket: RocketConfig{
			BodyRadius:      0.35,
			BodyHeight:      2.2,
			NoseHeight:      0.7,
			Segments:        24,
			FinCount:        4,
			FinSpan:         0.45,
			FinHeight:       0.6,
			FlameLength:     0.9,
			HoverHeight:     1.2,
			GlowCount:       3,
			BobAmplitude:    0.12,
			BobSpeed:        1.1,
			TiltDegrees:     3,
			TiltSpeed:       0.7,
			FlamePulseSpeed: 9,
			FlickerSpeed:    31,
			FlameScroll:     1.4,
			BlinkSpeed:      3,
			BodyColor:       Color{0.9, 0.9, 0.92},
			FlameColor:      Color{1, 0.55, 0.1},
		},
		Preview: PreviewConfig{
			Prop:       "lift",
			Width:      1280,
			Height:     720,
			Fullscreen: false,
			VSync:      true,
			MSAA:       4,
		},
		Export: ExportConfig{
			Dir:    ".",
			Binary: true,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
