package config

import "flag"

// Flags holds command-line overrides. Zero values leave the config alone.
type Flags struct {
	ConfigPath string
	Table      string
	LogLevel   string
	LogFile    string
	NoSounds   bool
	NoImages   bool
	Debug      bool
}

// BindFlags registers the game flags on fs.
func BindFlags(fs *flag.FlagSet) *Flags {
	f := &Flags{}
	fs.StringVar(&f.ConfigPath, "config", "", "path to config file")
	fs.StringVar(&f.Table, "table", "", "path to a .vpx table file")
	fs.StringVar(&f.LogLevel, "log-level", "", "log level (debug, info, warn, error)")
	fs.StringVar(&f.LogFile, "log-file", "", "write logs to this file as well")
	fs.BoolVar(&f.NoSounds, "no-sounds", false, "skip decoding table sounds")
	fs.BoolVar(&f.NoImages, "no-images", false, "skip decoding table images")
	fs.BoolVar(&f.Debug, "debug", false, "enable debug drawing and logging")
	return f
}

func (f *Flags) apply(cfg *Config) {
	if f.Debug {
		cfg.Debug = true
		cfg.Logging.Level = "debug"
	}
	if f.Table != "" {
		cfg.Table.Path = f.Table
	}
	if f.LogLevel != "" {
		cfg.Logging.Level = f.LogLevel
	}
	if f.LogFile != "" {
		cfg.Logging.LogFile = f.LogFile
	}
	if f.NoSounds {
		cfg.Table.LoadSounds = false
	}
	if f.NoImages {
		cfg.Table.LoadImages = false
	}
}
