package observability

import (
	"context"
	"errors"
	"strings"

	"github.com/riskibarqy/cricket-slots/internal/config"
	"github.com/riskibarqy/cricket-slots/internal/platform/logging"
	"github.com/uptrace/uptrace-go/uptrace"
	"go.opentelemetry.io/otel/attribute"
)

// InitUptrace installs the global OpenTelemetry providers and returns a
// shutdown func that flushes pending spans first. Disabled tracing returns a
// no-op shutdown.
func InitUptrace(cfg config.Config, logger *logging.Logger) (func(context.Context) error, error) {
	if logger == nil {
		logger = logging.Default()
	}

	opts, reason := uptraceOptions(cfg)
	if opts == nil {
		logger.Info("uptrace disabled", "reason", reason)
		return func(context.Context) error { return nil }, nil
	}

	uptrace.ConfigureOpentelemetry(opts...)
	logger.Info("uptrace enabled",
		"service_name", cfg.ServiceName,
		"service_version", cfg.ServiceVersion,
		"environment", cfg.AppEnv,
		"logs_enabled", cfg.UptraceLogsEnabled,
	)

	return func(ctx context.Context) error {
		return errors.Join(uptrace.ForceFlush(ctx), uptrace.Shutdown(ctx))
	}, nil
}

// uptraceOptions returns nil and the reason when tracing must stay off.
func uptraceOptions(cfg config.Config) ([]uptrace.Option, string) {
	if !cfg.UptraceEnabled {
		return nil, "UPTRACE_ENABLED=false"
	}
	dsn := strings.TrimSpace(cfg.UptraceDSN)
	if dsn == "" {
		return nil, "UPTRACE_DSN empty"
	}

	return []uptrace.Option{
		uptrace.WithDSN(dsn),
		uptrace.WithServiceName(cfg.ServiceName),
		uptrace.WithServiceVersion(cfg.ServiceVersion),
		uptrace.WithDeploymentEnvironment(cfg.AppEnv),
		uptrace.WithLoggingEnabled(cfg.UptraceLogsEnabled),
		uptrace.WithResourceAttributes(
			attribute.String("settlement.timezone", cfg.SettlementTimezone),
		),
	}, ""
}
