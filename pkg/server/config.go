// Copyright (c) 2025, the cellgate authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package server

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/cellgate/cellgate/pkg/defaults"
	"golang.org/x/time/rate"
)

// CORSConfig carries the cross-origin headers injected into every
// response. Each header is only set when its value is non-blank, so the
// zero value disables CORS entirely.
type CORSConfig struct {
	AllowOrigin      string `json:"allow_origin" yaml:"allow_origin"`
	AllowCredentials string `json:"allow_credentials" yaml:"allow_credentials"`
	AllowHeaders     string `json:"allow_headers" yaml:"allow_headers"`
	AllowMethods     string `json:"allow_methods" yaml:"allow_methods"`
	ExposeHeaders    string `json:"expose_headers" yaml:"expose_headers"`
	MaxAge           string `json:"max_age" yaml:"max_age"`
}

func (c CORSConfig) apply(h http.Header) {
	set := func(name, value string) {
		if value != "" {
			h.Set(name, value)
		}
	}
	set("Access-Control-Allow-Origin", c.AllowOrigin)
	set("Access-Control-Allow-Credentials", c.AllowCredentials)
	set("Access-Control-Allow-Headers", c.AllowHeaders)
	set("Access-Control-Allow-Methods", c.AllowMethods)
	set("Access-Control-Expose-Headers", c.ExposeHeaders)
	set("Access-Control-Max-Age", c.MaxAge)
}

// Config holds server configuration
type Config struct {
	// Server identity
	Name    string
	Version string

	// Handlers to register on the mux, keyed by path pattern. Every
	// handler runs behind the full middleware chain.
	Handlers map[string]http.HandlerFunc

	// Server configuration
	Address string
	Port    int

	// AuthToken guards all registered handlers when non-empty. Clients
	// present it as ?token=<value> or "Authorization: token <value>".
	AuthToken string

	// CORS headers applied to all middleware-wrapped responses.
	CORS CORSConfig

	// Rate limiting configuration
	RateLimit      rate.Limit // requests per second
	RateLimitBurst int        // burst size

	// Timeouts
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

// NewConfig returns a new Config with sensible defaults.
// Use this when you want to customize config programmatically.
func NewConfig() *Config {
	return parseConfig()
}

// parseConfig returns sensible defaults
func parseConfig() *Config {
	cfg := &Config{
		Name:            "server",
		Version:         "undefined",
		Address:         "",
		Port:            8080,
		RateLimit:       100, // 100 req/s
		RateLimitBurst:  200, // burst of 200
		ReadTimeout:     defaults.ServerReadTimeout,
		WriteTimeout:    defaults.ServerWriteTimeout,
		IdleTimeout:     defaults.ServerIdleTimeout,
		ShutdownTimeout: defaults.ServerShutdownTimeout,
	}

	// Override with environment variables if set
	if portStr := os.Getenv("PORT"); portStr != "" {
		var port int
		if _, err := fmt.Sscanf(portStr, "%d", &port); err == nil {
			cfg.Port = port
		}
	}

	// Allow customization of shutdown timeout to match K8s eviction grace period
	if shutdownStr := os.Getenv("SHUTDOWN_TIMEOUT_SECONDS"); shutdownStr != "" {
		var seconds int
		if _, err := fmt.Sscanf(shutdownStr, "%d", &seconds); err == nil && seconds > 0 {
			cfg.ShutdownTimeout = time.Duration(seconds) * time.Second
		}
	}

	return cfg
}
