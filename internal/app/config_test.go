package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"logrelay/internal/domain"
	"logrelay/internal/usecase/workload"
)

func validConfig() Config {
	var cfg Config
	cfg.Workload.Image = "alpine"
	cfg.Workload.Command = "echo hi"
	cfg.Workload.Runtime = RuntimeAPI
	cfg.Workload.Pull = string(workload.PullMissing)
	cfg.AWS.CloudWatchGroup = "g"
	cfg.AWS.CloudWatchStream = "s"
	cfg.AWS.AccessKeyID = "AKID"
	cfg.AWS.SecretAccessKey = "secret"
	cfg.AWS.Region = "eu-west-1"
	cfg.Relay.MaxAttempts = 3
	cfg.Logging.Format = "console"
	return cfg
}

// emptyConfigPath points viper at a config file with no settings so tests
// never pick up a logrelay.toml from the machine.
func emptyConfigPath(t *testing.T) string {
	path := filepath.Join(t.TempDir(), "logrelay.toml")
	require.NoError(t, os.WriteFile(path, nil, 0o600))
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(viper.New(), emptyConfigPath(t))

	require.NoError(t, err)
	assert.Equal(t, "/bin/sh", cfg.Workload.Shell)
	assert.Equal(t, RuntimeAPI, cfg.Workload.Runtime)
	assert.Equal(t, "missing", cfg.Workload.Pull)
	assert.Equal(t, 10*time.Second, cfg.Workload.StopTimeout)
	assert.Equal(t, 30*time.Second, cfg.Workload.TeardownTimeout)
	assert.Equal(t, 3, cfg.Relay.MaxAttempts)
	assert.Equal(t, 200*time.Millisecond, cfg.Relay.RetryDelay)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
	assert.Empty(t, cfg.Workload.Image)
	assert.False(t, cfg.Telemetry.Enabled)
}

func TestLoadConfig_FromEnvironment(t *testing.T) {
	t.Setenv("LOGRELAY_WORKLOAD_IMAGE", "busybox")
	t.Setenv("LOGRELAY_AWS_CLOUDWATCH_GROUP", "env-group")
	t.Setenv("LOGRELAY_RELAY_RETRY_DELAY", "1s")
	t.Setenv("LOGRELAY_TELEMETRY_ENABLED", "true")
	t.Setenv("LOGRELAY_TELEMETRY_ENDPOINT", "http://collector:4318")

	cfg, err := LoadConfig(viper.New(), emptyConfigPath(t))

	require.NoError(t, err)
	assert.Equal(t, "busybox", cfg.Workload.Image)
	assert.Equal(t, "env-group", cfg.AWS.CloudWatchGroup)
	assert.Equal(t, time.Second, cfg.Relay.RetryDelay)
	assert.True(t, cfg.Telemetry.Enabled)
	assert.Equal(t, "http://collector:4318", cfg.Telemetry.Endpoint)
}

func TestLoadConfig_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "relay.toml")
	content := `
[workload]
image = "alpine:3.20"
command = "ping -c 3 localhost"
runtime = "cli"

[aws]
cloudwatch_group = "file-group"
region = "us-east-1"

[relay]
max_attempts = 5
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := LoadConfig(viper.New(), path)

	require.NoError(t, err)
	assert.Equal(t, "alpine:3.20", cfg.Workload.Image)
	assert.Equal(t, "ping -c 3 localhost", cfg.Workload.Command)
	assert.Equal(t, RuntimeCLI, cfg.Workload.Runtime)
	assert.Equal(t, "file-group", cfg.AWS.CloudWatchGroup)
	assert.Equal(t, "us-east-1", cfg.AWS.Region)
	assert.Equal(t, 5, cfg.Relay.MaxAttempts)
}

func TestLoadConfig_MissingExplicitFile(t *testing.T) {
	_, err := LoadConfig(viper.New(), filepath.Join(t.TempDir(), "nope.toml"))

	assert.Error(t, err)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "valid cli runtime", mutate: func(c *Config) { c.Workload.Runtime = RuntimeCLI }},
		{
			name: "missing everything",
			mutate: func(c *Config) {
				*c = Config{}
			},
			wantErr: "--docker-image, --bash-command, --aws-cloudwatch-group, --aws-cloudwatch-stream, --aws-access-key-id, --aws-secret-access-key, --aws-region",
		},
		{name: "blank region", mutate: func(c *Config) { c.AWS.Region = "  " }, wantErr: "--aws-region"},
		{name: "unknown runtime", mutate: func(c *Config) { c.Workload.Runtime = "podman" }, wantErr: "unknown runtime"},
		{name: "unknown pull policy", mutate: func(c *Config) { c.Workload.Pull = "sometimes" }, wantErr: "unknown pull policy"},
		{name: "unknown log format", mutate: func(c *Config) { c.Logging.Format = "xml" }, wantErr: "unknown log format"},
		{name: "zero attempts", mutate: func(c *Config) { c.Relay.MaxAttempts = 0 }, wantErr: "max attempts"},
		{name: "negative rate", mutate: func(c *Config) { c.Relay.RateLimit = -1 }, wantErr: "rate limit"},
		{name: "telemetry without endpoint", mutate: func(c *Config) { c.Telemetry.Enabled = true }, wantErr: "telemetry-endpoint"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()

			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrInvalidConfig)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestConfig_Request(t *testing.T) {
	req := validConfig().Request()

	assert.Equal(t, domain.WorkloadSpec{Image: "alpine", Command: "echo hi"}, req.Workload)
	assert.Equal(t, domain.LogDestination{Group: "g", Stream: "s"}, req.Destination)
}
