package config

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// Load reads path (any format viper understands; empty means defaults only),
// applies OBSTACLES_* environment overrides, then normalizes and validates.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v, DefaultConfig())

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, errors.Wrapf(err, "read config %s", path)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, errors.Wrap(err, "decode config")
	}
	cfg = cfg.normalized()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// setDefaults registers every key so environment overrides resolve even when
// the file omits them.
func setDefaults(v *viper.Viper, def Config) {
	v.SetDefault("mode", def.Mode)
	v.SetDefault("count", def.Count)
	v.SetDefault("shape", def.Shape)
	v.SetDefault("size", def.Size)
	v.SetDefault("quad_size", def.AgentSize)
	v.SetDefault("neighbor_count", def.NeighborCount)
	v.SetDefault("obs_type", def.ObsType)
	v.SetDefault("trajectory", def.Trajectory)
	v.SetDefault("stack_height", def.StackHeight)
	v.SetDefault("level_mode", def.LevelMode)
	v.SetDefault("inf_height", def.InfHeight)
	v.SetDefault("level", def.Level)
	v.SetDefault("scenario", def.Scenario)
	v.SetDefault("seed", def.Seed)
	v.SetDefault("agents", def.Agents)

	v.SetDefault("room.min", def.Room.Min)
	v.SetDefault("room.max", def.Room.Max)
	v.SetDefault("room.spawn_min", def.Room.SpawnMin)
	v.SetDefault("room.spawn_max", def.Room.SpawnMax)

	v.SetDefault("logging.sinks", def.Logging.EnabledSinks)
	v.SetDefault("logging.buffer_size", def.Logging.BufferSize)
	v.SetDefault("logging.level", def.Logging.MinimumSeverity)
	v.SetDefault("logging.drop_warn_interval", def.Logging.DropWarnInterval)
	v.SetDefault("logging.console.development", def.Logging.Console.Development)
	v.SetDefault("logging.json.file", def.Logging.JSON.FilePath)
	v.SetDefault("logging.json.max_size_mb", def.Logging.JSON.MaxSizeMB)
	v.SetDefault("logging.json.max_backups", def.Logging.JSON.MaxBackups)
	v.SetDefault("logging.json.max_age_days", def.Logging.JSON.MaxAgeDays)
	v.SetDefault("logging.json.compress", def.Logging.JSON.Compress)
	v.SetDefault("logging.json.flush_interval", def.Logging.JSON.FlushInterval)

	v.SetDefault("metrics.namespace", def.Metrics.Namespace)
	v.SetDefault("viz.interval", def.Viz.Interval)
}
