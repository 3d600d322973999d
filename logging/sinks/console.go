package sinks

import (
	"context"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/SumeetBatra/quad-swarm-rl/logging"
)

// Console renders events through a zap logger.
type Console struct {
	logger *zap.Logger
}

// NewConsole builds a console sink. Development mode uses zap's colored,
// human-oriented encoder; otherwise a compact console encoder on stderr.
func NewConsole(cfg logging.ConsoleConfig) (*Console, error) {
	zcfg := zap.NewProductionConfig()
	zcfg.Encoding = "console"
	zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	zcfg.Sampling = nil
	zcfg.DisableStacktrace = true
	if cfg.Development {
		zcfg = zap.NewDevelopmentConfig()
		zcfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	logger, err := zcfg.Build(zap.WithCaller(false))
	if err != nil {
		return nil, err
	}
	return &Console{logger: logger}, nil
}

// NewConsoleWithLogger wraps an existing zap logger.
func NewConsoleWithLogger(logger *zap.Logger) *Console {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Console{logger: logger}
}

func (s *Console) Write(event logging.Event) error {
	if s.logger == nil {
		return nil
	}
	ce := s.logger.Check(zapLevel(event.Severity), string(event.Type))
	if ce == nil {
		return nil
	}
	fields := []zap.Field{
		zap.Uint64("episode", event.Episode),
		zap.Uint64("tick", event.Tick),
		zap.String("actor", formatEntity(event.Actor)),
	}
	if event.Category != "" {
		fields = append(fields, zap.String("category", event.Category))
	}
	if len(event.Targets) > 0 {
		targets := make([]string, 0, len(event.Targets))
		for _, target := range event.Targets {
			targets = append(targets, formatEntity(target))
		}
		fields = append(fields, zap.Strings("targets", targets))
	}
	if event.Payload != nil {
		fields = append(fields, zap.Any("payload", event.Payload))
	}
	for k, v := range event.Extra {
		fields = append(fields, zap.Any(k, v))
	}
	ce.Write(fields...)
	return nil
}

func (s *Console) Close(context.Context) error {
	if s.logger == nil {
		return nil
	}
	// Syncing a terminal stdout reports EINVAL on some platforms.
	_ = s.logger.Sync()
	return nil
}

func zapLevel(sev logging.Severity) zapcore.Level {
	switch sev {
	case logging.SeverityDebug:
		return zapcore.DebugLevel
	case logging.SeverityWarn:
		return zapcore.WarnLevel
	case logging.SeverityError:
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

func formatEntity(ref logging.EntityRef) string {
	if ref.ID == "" {
		return string(ref.Kind)
	}
	if ref.Kind == "" {
		return ref.ID
	}
	return string(ref.Kind) + ":" + ref.ID
}
