package app

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"logrelay/internal/adapters/out/telemetry"
	"logrelay/internal/domain"
	"logrelay/internal/usecase/relay"
	"logrelay/internal/usecase/workload"
)

// Container runtimes selectable with workload.runtime.
const (
	RuntimeAPI = "api"
	RuntimeCLI = "cli"
)

// Config holds the application configuration.
type Config struct {
	Workload struct {
		Image           string        `mapstructure:"image"`
		Command         string        `mapstructure:"command"`
		Shell           string        `mapstructure:"shell"`
		Runtime         string        `mapstructure:"runtime"` // "api" or "cli"
		DockerBinary    string        `mapstructure:"docker_binary"`
		Pull            string        `mapstructure:"pull"` // "missing", "always" or "never"
		StopTimeout     time.Duration `mapstructure:"stop_timeout"`
		TeardownTimeout time.Duration `mapstructure:"teardown_timeout"`
	} `mapstructure:"workload"`

	AWS struct {
		CloudWatchGroup  string `mapstructure:"cloudwatch_group"`
		CloudWatchStream string `mapstructure:"cloudwatch_stream"`
		AccessKeyID      string `mapstructure:"access_key_id"`
		SecretAccessKey  string `mapstructure:"secret_access_key"`
		SessionToken     string `mapstructure:"session_token"`
		Region           string `mapstructure:"region"`
		Endpoint         string `mapstructure:"endpoint"` // LocalStack and friends
	} `mapstructure:"aws"`

	Relay struct {
		MaxAttempts int           `mapstructure:"max_attempts"`
		RetryDelay  time.Duration `mapstructure:"retry_delay"`
		RateLimit   float64       `mapstructure:"rate_limit"`
		Burst       int           `mapstructure:"burst"`
	} `mapstructure:"relay"`

	Logging struct {
		Level  string `mapstructure:"level"`
		Format string `mapstructure:"format"`
		Echo   struct {
			File       string `mapstructure:"file"`
			MaxSize    int    `mapstructure:"max_size"`
			MaxBackups int    `mapstructure:"max_backups"`
			MaxAge     int    `mapstructure:"max_age"`
		} `mapstructure:"echo"`
	} `mapstructure:"logging"`

	Telemetry telemetry.Config `mapstructure:"telemetry"`
}

// requiredKeys maps each mandatory setting to the flag that provides it.
var requiredKeys = []struct {
	flag  string
	value func(Config) string
}{
	{"--docker-image", func(c Config) string { return c.Workload.Image }},
	{"--bash-command", func(c Config) string { return c.Workload.Command }},
	{"--aws-cloudwatch-group", func(c Config) string { return c.AWS.CloudWatchGroup }},
	{"--aws-cloudwatch-stream", func(c Config) string { return c.AWS.CloudWatchStream }},
	{"--aws-access-key-id", func(c Config) string { return c.AWS.AccessKeyID }},
	{"--aws-secret-access-key", func(c Config) string { return c.AWS.SecretAccessKey }},
	{"--aws-region", func(c Config) string { return c.AWS.Region }},
}

func loadConfig(v *viper.Viper, configPath string) error {
	relayDefaults := relay.DefaultConfig()
	workloadDefaults := workload.DefaultConfig()

	v.SetDefault("workload.image", "")
	v.SetDefault("workload.command", "")
	v.SetDefault("workload.shell", workloadDefaults.Shell)
	v.SetDefault("workload.runtime", RuntimeAPI)
	v.SetDefault("workload.docker_binary", "docker")
	v.SetDefault("workload.pull", string(workloadDefaults.PullPolicy))
	v.SetDefault("workload.stop_timeout", "10s")
	v.SetDefault("workload.teardown_timeout", workloadDefaults.TeardownTimeout.String())
	v.SetDefault("aws.cloudwatch_group", "")
	v.SetDefault("aws.cloudwatch_stream", "")
	v.SetDefault("aws.access_key_id", "")
	v.SetDefault("aws.secret_access_key", "")
	v.SetDefault("aws.session_token", "")
	v.SetDefault("aws.region", "")
	v.SetDefault("aws.endpoint", "")
	v.SetDefault("relay.max_attempts", relayDefaults.MaxAttempts)
	v.SetDefault("relay.retry_delay", relayDefaults.RetryDelay.String())
	v.SetDefault("relay.rate_limit", 0)
	v.SetDefault("relay.burst", 1)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.echo.file", "")
	v.SetDefault("logging.echo.max_size", 100)
	v.SetDefault("logging.echo.max_backups", 3)
	v.SetDefault("logging.echo.max_age", 28)
	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.endpoint", "")
	v.SetDefault("telemetry.auth_token", "")
	v.SetDefault("telemetry.export_interval", "0s")

	ConfigureViper(v, configPath)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix("LOGRELAY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return nil
}

// LoadConfig reads defaults, the config file, the environment and any
// flags already bound to v, in increasing order of precedence.
func LoadConfig(v *viper.Viper, configPath string) (Config, error) {
	var cfg Config
	if err := loadConfig(v, configPath); err != nil {
		return cfg, err
	}
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

// Validate checks that every required setting is present and that the
// enumerated settings hold known values.
func (c Config) Validate() error {
	var missing []string
	for _, k := range requiredKeys {
		if strings.TrimSpace(k.value(c)) == "" {
			missing = append(missing, k.flag)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing required flags: %s", domain.ErrInvalidConfig, strings.Join(missing, ", "))
	}

	switch c.Workload.Runtime {
	case RuntimeAPI, RuntimeCLI:
	default:
		return fmt.Errorf("%w: unknown runtime %q (want %q or %q)", domain.ErrInvalidConfig, c.Workload.Runtime, RuntimeAPI, RuntimeCLI)
	}

	if _, err := workload.ParsePullPolicy(c.Workload.Pull); err != nil {
		return err
	}

	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("%w: unknown log format %q", domain.ErrInvalidConfig, c.Logging.Format)
	}

	if c.Relay.MaxAttempts < 1 {
		return fmt.Errorf("%w: max attempts must be at least 1", domain.ErrInvalidConfig)
	}
	if c.Relay.RateLimit < 0 {
		return fmt.Errorf("%w: rate limit must not be negative", domain.ErrInvalidConfig)
	}
	if c.Telemetry.Enabled && c.Telemetry.Endpoint == "" {
		return fmt.Errorf("%w: telemetry is enabled but --telemetry-endpoint is empty", domain.ErrInvalidConfig)
	}

	return nil
}

// Request builds the run request described by the configuration.
func (c Config) Request() domain.RunRequest {
	return domain.RunRequest{
		Workload: domain.WorkloadSpec{
			Image:   c.Workload.Image,
			Command: c.Workload.Command,
		},
		Destination: domain.LogDestination{
			Group:  c.AWS.CloudWatchGroup,
			Stream: c.AWS.CloudWatchStream,
		},
	}
}
