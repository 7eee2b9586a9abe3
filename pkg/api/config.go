package api

import (
	"fmt"
	"os"
	"time"

	"golang.org/x/time/rate"
	"gopkg.in/yaml.v3"

	"github.com/cellgate/cellgate/pkg/defaults"
	"github.com/cellgate/cellgate/pkg/server"
)

// Config holds gateway configuration. The CLI layers values on top of it:
// flags override environment variables, which override the YAML file loaded
// by LoadConfig, which overrides the defaults from NewConfig.
type Config struct {
	// Notebook is the seed notebook location, a filesystem path, an
	// http(s) URL, or an oci:// registry reference.
	Notebook string `json:"notebook" yaml:"notebook"`

	// KernelArgv overrides the interpreter launcher. Empty selects the
	// embedded Python shim. Custom launchers must speak the gateway
	// protocol on stdin/stdout.
	KernelArgv []string `json:"kernel_argv" yaml:"kernel_argv"`
	// KernelEnv entries are appended to each kernel's environment.
	KernelEnv []string `json:"kernel_env" yaml:"kernel_env"`
	// KernelDir is the working directory of kernel processes.
	KernelDir string `json:"kernel_dir" yaml:"kernel_dir"`

	// PoolSize is the number of long-lived kernel sessions.
	PoolSize int `json:"pool_size" yaml:"pool_size"`

	// AllowDownload exposes the raw notebook at /_api/source.
	AllowDownload bool `json:"allow_download" yaml:"allow_download"`

	// ActivityDB is the SQLite file backing kernel activity tracking.
	// Empty keeps the store in memory.
	ActivityDB string `json:"activity_db" yaml:"activity_db"`

	// ExhaustedStatus is the HTTP status returned when no kernel becomes
	// available within the checkout timeout. Zero selects 503.
	ExhaustedStatus int `json:"exhausted_status" yaml:"exhausted_status"`

	// ExecTimeoutSeconds bounds a single cell execution.
	ExecTimeoutSeconds int `json:"exec_timeout_seconds" yaml:"exec_timeout_seconds"`
	// CheckoutTimeoutSeconds bounds the wait for a free kernel.
	CheckoutTimeoutSeconds int `json:"checkout_timeout_seconds" yaml:"checkout_timeout_seconds"`

	// HTTP surface.
	Address        string            `json:"address" yaml:"address"`
	Port           int               `json:"port" yaml:"port"`
	AuthToken      string            `json:"auth_token" yaml:"auth_token"`
	CORS           server.CORSConfig `json:"cors" yaml:"cors"`
	RateLimit      float64           `json:"rate_limit" yaml:"rate_limit"`
	RateLimitBurst int               `json:"rate_limit_burst" yaml:"rate_limit_burst"`
}

// NewConfig returns the default configuration.
func NewConfig() *Config {
	return &Config{
		PoolSize:               defaults.PoolPrespawnCount,
		ExecTimeoutSeconds:     int(defaults.KernelExecTimeout / time.Second),
		CheckoutTimeoutSeconds: int(defaults.PoolCheckoutTimeout / time.Second),
	}
}

// LoadConfig reads a YAML configuration file over the defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := NewConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	return cfg, nil
}

// serverConfig maps the gateway settings onto the HTTP layer's config. The
// HTTP layer's own environment handling covers anything left unset here.
func (c *Config) serverConfig() *server.Config {
	sc := server.NewConfig()
	if c.Address != "" {
		sc.Address = c.Address
	}
	if c.Port > 0 {
		sc.Port = c.Port
	}
	sc.AuthToken = c.AuthToken
	sc.CORS = c.CORS
	if c.RateLimit > 0 {
		sc.RateLimit = rate.Limit(c.RateLimit)
	}
	if c.RateLimitBurst > 0 {
		sc.RateLimitBurst = c.RateLimitBurst
	}
	return sc
}

func (c *Config) execTimeout() time.Duration {
	if c.ExecTimeoutSeconds > 0 {
		return time.Duration(c.ExecTimeoutSeconds) * time.Second
	}
	return defaults.KernelExecTimeout
}

func (c *Config) checkoutTimeout() time.Duration {
	if c.CheckoutTimeoutSeconds > 0 {
		return time.Duration(c.CheckoutTimeoutSeconds) * time.Second
	}
	return defaults.PoolCheckoutTimeout
}
