package logsvc

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/trezcool/tutoria/core"
)

// NewZapLogger builds a JSON production logger, or a colored console one in debug mode.
// Tests get a no-op logger.
func NewZapLogger(conf *core.Config) (*zap.Logger, error) {
	if conf.TestMode {
		return zap.NewNop(), nil
	}

	zc := zap.NewProductionConfig()
	if conf.Debug {
		zc = zap.NewDevelopmentConfig()
		zc.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	zl, err := zc.Build()
	if err != nil {
		return nil, err
	}
	return zl.With(zap.String("app", conf.AppName), zap.String("build", conf.Build)), nil
}

// Component tags every entry of zl with the part of the system that wrote it.
func Component(zl *zap.Logger, name string) *zap.Logger {
	return zl.With(zap.String("component", name))
}
