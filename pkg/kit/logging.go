package kit

import "go.uber.org/zap"

func NewLogger(service, env string) *zap.Logger {
	cfg := zap.NewProductionConfig()
	if env == "dev" {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.InitialFields = map[string]any{"service": service}
	l, _ := cfg.Build()
	return l
}
