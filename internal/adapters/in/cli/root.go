// Package cli implements the CLI adapter for logrelay.
// This package provides Cobra commands that delegate to the app layer.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"logrelay/internal/app"
)

var (
	// Version information (set at build time)
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

// Process exit codes.
const (
	ExitOK          = 0
	ExitFailure     = 1
	ExitInterrupted = 130
)

// flagKeys maps each command line flag to its configuration key.
var flagKeys = map[string]string{
	"docker-image":          "workload.image",
	"bash-command":          "workload.command",
	"shell":                 "workload.shell",
	"runtime":               "workload.runtime",
	"docker-binary":         "workload.docker_binary",
	"pull":                  "workload.pull",
	"stop-timeout":          "workload.stop_timeout",
	"teardown-timeout":      "workload.teardown_timeout",
	"aws-cloudwatch-group":  "aws.cloudwatch_group",
	"aws-cloudwatch-stream": "aws.cloudwatch_stream",
	"aws-access-key-id":     "aws.access_key_id",
	"aws-secret-access-key": "aws.secret_access_key",
	"aws-session-token":     "aws.session_token",
	"aws-region":            "aws.region",
	"aws-endpoint":          "aws.endpoint",
	"max-attempts":          "relay.max_attempts",
	"retry-delay":           "relay.retry_delay",
	"rate-limit":            "relay.rate_limit",
	"burst":                 "relay.burst",
	"echo-file":             "logging.echo.file",
	"log-level":             "logging.level",
	"log-format":            "logging.format",
	"telemetry":             "telemetry.enabled",
	"telemetry-endpoint":    "telemetry.endpoint",
}

// NewRootCmd creates the root command for the logrelay CLI.
func NewRootCmd() *cobra.Command {
	v := viper.New()
	var configPath, envFile string

	rootCmd := &cobra.Command{
		Use:   "logrelay",
		Short: "Run a container and stream its output to CloudWatch Logs",
		Long: `logrelay starts a container from the given image, runs a shell command in it
and forwards every line the command writes to stdout to an AWS CloudWatch Logs
stream, in order. The log group and stream are created when missing. The
container is stopped and removed when the command ends or on interrupt.

Every flag can also be set in a config file (--config) or through an
environment variable such as LOGRELAY_AWS_REGION.`,
		Example: `  logrelay --docker-image python --bash-command 'pip install pip -U && python -c "print(1)"' \
    --aws-cloudwatch-group test-group --aws-cloudwatch-stream test-stream \
    --aws-access-key-id ... --aws-secret-access-key ... --aws-region eu-west-1`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if envFile != "" {
				if err := godotenv.Load(envFile); err != nil {
					return fmt.Errorf("failed to load env file: %w", err)
				}
			}
			return app.Run(cmd.Context(), v, configPath, Version)
		},
	}

	flags := rootCmd.Flags()
	flags.StringVarP(&configPath, "config", "c", "", "Path to config file")
	flags.StringVar(&envFile, "env-file", "", "Load environment variables from this file first")

	flags.String("docker-image", "", "Docker image to run (required)")
	flags.String("bash-command", "", "Command to run inside the container (required)")
	flags.String("aws-cloudwatch-group", "", "CloudWatch Logs group name (required)")
	flags.String("aws-cloudwatch-stream", "", "CloudWatch Logs stream name (required)")
	flags.String("aws-access-key-id", "", "AWS access key ID (required)")
	flags.String("aws-secret-access-key", "", "AWS secret access key (required)")
	flags.String("aws-region", "", "AWS region (required)")

	flags.String("aws-session-token", "", "AWS session token for temporary credentials")
	flags.String("aws-endpoint", "", "Override the CloudWatch Logs endpoint (e.g. LocalStack)")
	flags.String("shell", "/bin/sh", "Shell used to run the command in the container")
	flags.String("runtime", app.RuntimeAPI, "Container runtime access: api (Docker Engine API) or cli (docker binary)")
	flags.String("docker-binary", "docker", "docker client used by the cli runtime")
	flags.String("pull", "missing", "Image pull policy: missing, always or never")
	flags.Duration("stop-timeout", 10*time.Second, "Grace period before the container is killed")
	flags.Duration("teardown-timeout", 30*time.Second, "Upper bound for stopping and removing the container")
	flags.Int("max-attempts", 3, "Backend calls spent on one line before it is skipped")
	flags.Duration("retry-delay", 200*time.Millisecond, "Pause between two attempts for the same line")
	flags.Float64("rate-limit", 0, "Maximum backend calls per second (0 disables pacing)")
	flags.Int("burst", 1, "Backend calls allowed in a burst when rate limiting")
	flags.String("echo-file", "", "Also write relayed lines to this rotating file")
	flags.String("log-level", "info", "Log level: debug, info, warn or error")
	flags.String("log-format", "console", "Log format: console or json")
	flags.Bool("telemetry", false, "Export relay metrics over OTLP/HTTP")
	flags.String("telemetry-endpoint", "", "OTLP/HTTP endpoint for metrics (e.g. http://localhost:4318)")

	bindFlags(v, flags)

	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

func bindFlags(v *viper.Viper, flags *pflag.FlagSet) {
	for name, key := range flagKeys {
		if err := v.BindPFlag(key, flags.Lookup(name)); err != nil {
			panic(fmt.Sprintf("bind flag %s: %v", name, err))
		}
	}
}

// newVersionCmd creates the version command.
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			color.New(color.FgGreen).Fprintf(out, "logrelay %s\n", Version)
			fmt.Fprintf(out, "Commit: %s\n", Commit)
			fmt.Fprintf(out, "Build Date: %s\n", BuildDate)
		},
	}
}

// SetVersionInfo sets the version information for the CLI.
func SetVersionInfo(version, commit, date string) {
	if version != "" {
		Version = version
	}
	if commit != "" {
		Commit = commit
	}
	if date != "" {
		BuildDate = date
	}
}

// Execute runs the root command with args and returns the process exit code.
func Execute(ctx context.Context, args []string, stderr io.Writer) int {
	cmd := NewRootCmd()
	cmd.SetArgs(args)
	cmd.SetErr(stderr)

	return exitCode(cmd.ExecuteContext(ctx), stderr)
}

func exitCode(err error, stderr io.Writer) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, context.Canceled):
		color.New(color.FgYellow).Fprintln(stderr, "interrupted")
		return ExitInterrupted
	default:
		color.New(color.FgRed).Fprintln(stderr, "Error:", err)
		return ExitFailure
	}
}

// Main is the entry point used by the binary.
func Main() {
	os.Exit(Execute(context.Background(), os.Args[1:], os.Stderr))
}
