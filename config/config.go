// Package config handles game configuration loading and management.
package config

// Config holds all game settings.
type Config struct {
	Window  WindowConfig  `yaml:"window"`
	Table   TableConfig   `yaml:"table"`
	Audio   AudioConfig   `yaml:"audio"`
	Physics PhysicsConfig `yaml:"physics"`
	Logging LoggingConfig `yaml:"logging"`
	Debug   bool          `yaml:"debug"`
}

// WindowConfig holds display settings.
type WindowConfig struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Title  string `yaml:"title"`
	VSync  bool   `yaml:"vsync"`
}

// TableConfig selects the table file and which embedded assets to decode.
type TableConfig struct {
	Path       string `yaml:"path"`
	LoadImages bool   `yaml:"load_images"`
	LoadSounds bool   `yaml:"load_sounds"`
	WatchRules bool   `yaml:"watch_rules"`
}

// AudioConfig holds audio settings.
type AudioConfig struct {
	SampleRate   int     `yaml:"sample_rate"`
	MasterVolume float64 `yaml:"master_volume"`
	Muted        bool    `yaml:"muted"`
}

// PhysicsConfig tunes the rigid-body host.
type PhysicsConfig struct {
	Substeps   int `yaml:"substeps"`
	Iterations int `yaml:"iterations"`
	// Gravity along -Y in m/s^2. Zero takes the value from prefabs/table.yaml.
	Gravity float64 `yaml:"gravity"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Width:  720,
			Height: 1280,
			Title:  "pinball",
			VSync:  true,
		},
		Table: TableConfig{
			Path:       "exampleTable.vpx",
			LoadImages: true,
			LoadSounds: true,
		},
		Audio: AudioConfig{
			SampleRate:   44100,
			MasterVolume: 0.8,
		},
		Physics: PhysicsConfig{
			Substeps:   8,
			Iterations: 10,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}
