package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bnema/zerowrap"
	"github.com/spf13/viper"

	"logrelay/internal/adapters/out/cloudwatch"
	"logrelay/internal/adapters/out/docker"
	"logrelay/internal/adapters/out/dockercli"
	"logrelay/internal/adapters/out/logwriter"
	"logrelay/internal/adapters/out/ratelimit"
	"logrelay/internal/adapters/out/telemetry"
	"logrelay/internal/boundaries/in"
	"logrelay/internal/boundaries/out"
	"logrelay/internal/usecase/pipeline"
	"logrelay/internal/usecase/provision"
	"logrelay/internal/usecase/relay"
	"logrelay/internal/usecase/workload"
)

// Run loads the configuration, wires the adapters and performs one relay
// run. SIGINT and SIGTERM cancel the run; the workload is still torn down.
// version is reported as the telemetry service version.
func Run(ctx context.Context, v *viper.Viper, configPath, version string) error {
	cfg, err := LoadConfig(v, configPath)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log := initLogger(cfg)
	ctx = zerowrap.WithCtx(ctx, log)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	_, shutdownTelemetry, err := telemetry.NewProvider(ctx, cfg.Telemetry, "logrelay", version)
	if err != nil {
		return log.WrapErr(err, "failed to initialize telemetry")
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), telemetryFlushTimeout)
		defer cancel()
		shutdownTelemetry(flushCtx)
	}()

	svc, cleanup, err := buildService(ctx, cfg)
	if err != nil {
		return log.WrapErr(err, "failed to initialize")
	}
	defer cleanup()

	dockerVersion, err := svc.Preflight(ctx)
	if err != nil {
		return log.WrapErr(err, "container runtime is not reachable")
	}
	log.Info().
		Str("runtime", cfg.Workload.Runtime).
		Str("docker_version", dockerVersion).
		Msg("container runtime ready")

	summary, err := svc.Run(ctx, cfg.Request())
	if err != nil {
		return err
	}

	if summary.Failed > 0 {
		log.Warn().
			Int("failed", summary.Failed).
			AnErr("last_error", summary.LastError).
			Msg("some lines were not forwarded")
	}
	return nil
}

const telemetryFlushTimeout = 5 * time.Second

func initLogger(cfg Config) zerowrap.Logger {
	return zerowrap.New(zerowrap.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: os.Stderr,
	})
}

// buildService creates the output adapters and the use cases on top of
// them. The returned cleanup releases the adapters.
func buildService(ctx context.Context, cfg Config) (in.RelayService, func(), error) {
	runtime, err := newRuntime(cfg)
	if err != nil {
		return nil, nil, err
	}

	backend, err := cloudwatch.NewBackend(ctx, cloudwatch.Config{
		Region:          cfg.AWS.Region,
		AccessKeyID:     cfg.AWS.AccessKeyID,
		SecretAccessKey: cfg.AWS.SecretAccessKey,
		SessionToken:    cfg.AWS.SessionToken,
		Endpoint:        cfg.AWS.Endpoint,
	})
	if err != nil {
		return nil, nil, err
	}

	sink, err := logwriter.New(logwriter.Config{
		File:       cfg.Logging.Echo.File,
		MaxSize:    cfg.Logging.Echo.MaxSize,
		MaxBackups: cfg.Logging.Echo.MaxBackups,
		MaxAge:     cfg.Logging.Echo.MaxAge,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open echo file: %w", err)
	}
	cleanup := func() {
		if err := sink.Close(); err != nil {
			zerowrap.FromCtx(ctx).Warn().Err(err).Msg("failed to close echo file")
		}
	}

	// Validate already accepted the policy.
	pull, _ := workload.ParsePullPolicy(cfg.Workload.Pull)

	metrics, err := telemetry.NewMetrics()
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("failed to create metrics: %w", err)
	}
	relaySvc := relay.NewService(backend, sink, ratelimit.NewMemoryStore(cfg.Relay.RateLimit, cfg.Relay.Burst), relay.Config{
		MaxAttempts: cfg.Relay.MaxAttempts,
		RetryDelay:  cfg.Relay.RetryDelay,
	})
	relaySvc.SetMetrics(metrics)

	svc := pipeline.NewService(
		provision.NewService(backend),
		workload.NewManager(runtime, workload.Config{
			Shell:           cfg.Workload.Shell,
			PullPolicy:      pull,
			TeardownTimeout: cfg.Workload.TeardownTimeout,
		}),
		relaySvc,
	)
	return svc, cleanup, nil
}

func newRuntime(cfg Config) (out.ContainerRuntime, error) {
	if cfg.Workload.Runtime == RuntimeCLI {
		return dockercli.NewRuntime(cfg.Workload.DockerBinary, cfg.Workload.StopTimeout), nil
	}
	runtime, err := docker.NewRuntime(cfg.Workload.StopTimeout)
	if err != nil {
		return nil, err
	}
	return runtime, nil
}
