package logging

import "time"

type Config struct {
	EnabledSinks     []string       `mapstructure:"sinks" yaml:"sinks" json:"sinks"`
	BufferSize       int            `mapstructure:"buffer_size" yaml:"buffer_size" json:"buffer_size"`
	MinimumSeverity  string         `mapstructure:"level" yaml:"level" json:"level"`
	Fields           map[string]any `mapstructure:"fields" yaml:"fields,omitempty" json:"fields,omitempty"`
	JSON             JSONConfig     `mapstructure:"json" yaml:"json" json:"json"`
	Console          ConsoleConfig  `mapstructure:"console" yaml:"console" json:"console"`
	DropWarnInterval time.Duration  `mapstructure:"drop_warn_interval" yaml:"drop_warn_interval" json:"drop_warn_interval"`
}

// JSONConfig controls the newline-delimited JSON sink. An empty FilePath
// writes to stderr; otherwise the file is rotated by size.
type JSONConfig struct {
	FilePath      string        `mapstructure:"file" yaml:"file" json:"file"`
	MaxSizeMB     int           `mapstructure:"max_size_mb" yaml:"max_size_mb" json:"max_size_mb"`
	MaxBackups    int           `mapstructure:"max_backups" yaml:"max_backups" json:"max_backups"`
	MaxAgeDays    int           `mapstructure:"max_age_days" yaml:"max_age_days" json:"max_age_days"`
	Compress      bool          `mapstructure:"compress" yaml:"compress" json:"compress"`
	FlushInterval time.Duration `mapstructure:"flush_interval" yaml:"flush_interval" json:"flush_interval"`
}

type ConsoleConfig struct {
	Development bool `mapstructure:"development" yaml:"development" json:"development"`
}

func DefaultConfig() Config {
	return Config{
		EnabledSinks:     []string{"console"},
		BufferSize:       512,
		MinimumSeverity:  SeverityInfo.String(),
		DropWarnInterval: 5 * time.Second,
		JSON: JSONConfig{
			MaxSizeMB:     64,
			MaxBackups:    4,
			MaxAgeDays:    7,
			FlushInterval: 2 * time.Second,
		},
	}
}

func (c Config) HasSink(name string) bool {
	for _, s := range c.EnabledSinks {
		if s == name {
			return true
		}
	}
	return false
}

func (c Config) CloneFields() map[string]any {
	if len(c.Fields) == 0 {
		return nil
	}
	cloned := make(map[string]any, len(c.Fields))
	for k, v := range c.Fields {
		cloned[k] = v
	}
	return cloned
}
