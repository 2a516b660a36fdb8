package observability

import (
	"context"
	"testing"
	"time"

	"github.com/riskibarqy/cricket-slots/internal/config"
	"github.com/riskibarqy/cricket-slots/internal/platform/logging"
)

func TestInitUptrace_Disabled(t *testing.T) {
	cfg := config.Config{
		UptraceEnabled: false,
		ServiceName:    "cricket-slots-api",
		ServiceVersion: "dev",
		AppEnv:         config.EnvDev,
	}

	shutdown, err := InitUptrace(cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("init uptrace: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown uptrace: %v", err)
	}
}

func TestUptraceOptions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		cfg        config.Config
		wantOpts   bool
		wantReason string
	}{
		{name: "disabled", cfg: config.Config{UptraceDSN: "https://t@api.uptrace.dev"}, wantReason: "UPTRACE_ENABLED=false"},
		{name: "blank dsn", cfg: config.Config{UptraceEnabled: true, UptraceDSN: "  "}, wantReason: "UPTRACE_DSN empty"},
		{name: "enabled", cfg: config.Config{UptraceEnabled: true, UptraceDSN: "https://t@api.uptrace.dev", ServiceName: "cricket-slots-api"}, wantOpts: true},
	}

	for _, tc := range tests {
		opts, reason := uptraceOptions(tc.cfg)
		if (len(opts) > 0) != tc.wantOpts || reason != tc.wantReason {
			t.Fatalf("%s: got opts=%d reason=%q want opts=%v reason=%q", tc.name, len(opts), reason, tc.wantOpts, tc.wantReason)
		}
	}
}

func TestStartProfiling_Disabled(t *testing.T) {
	cfg := config.Config{AppEnv: config.EnvDev}

	p, err := StartProfiling(cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("start profiling: %v", err)
	}
	if p.pprofSrv != nil || p.profiler != nil {
		t.Fatalf("expected nothing started got=%+v", p)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := p.Stop(ctx); err != nil {
		t.Fatalf("stop profiling: %v", err)
	}

	var none *Profiling
	if err := none.Stop(ctx); err != nil {
		t.Fatalf("stop nil profiling: %v", err)
	}
}

func TestPyroscopeConfig_ProfileTypesByEnv(t *testing.T) {
	base := config.Config{
		ServiceName:            "cricket-slots-api",
		ServiceVersion:         "1.4.0",
		PyroscopeAppName:       "cricket-slots-api",
		PyroscopeServerAddress: "https://profiles.example.net",
	}

	dev := base
	dev.AppEnv = config.EnvDev
	prod := base
	prod.AppEnv = config.EnvProd

	devCfg := pyroscopeConfig(dev)
	prodCfg := pyroscopeConfig(prod)
	if len(devCfg.ProfileTypes) <= len(prodCfg.ProfileTypes) {
		t.Fatalf("expected dev to collect more profiles got dev=%d prod=%d", len(devCfg.ProfileTypes), len(prodCfg.ProfileTypes))
	}
	if got := prodCfg.Tags["version"]; got != "1.4.0" {
		t.Fatalf("unexpected version tag got=%q want=1.4.0", got)
	}
}
