// Package config loads settings for the Mystery Card terminal client.
//
// Sources, later ones winning:
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file given with -c or -config.
//  3. Command-line flags.
//
// JSON keys:
//
//	{
//	  "server_endpoint_addr": "127.0.0.1:50051",
//	  "state_dir": ".mysterycard",
//	  "request_timeout": "10s"
//	}
package config

import (
	"errors"
	"time"
)

// Config holds runtime settings for the client.
//   - ServerEndpointAddr: host:port of the gRPC endpoint.
//   - StateDir: directory holding the local SQLite state (session, history).
//   - RequestTimeout: per-call deadline.
type Config struct {
	ServerEndpointAddr string
	StateDir           string
	RequestTimeout     time.Duration
}

func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "127.0.0.1:50051"
	c.StateDir = ".mysterycard"
	c.RequestTimeout = 10 * time.Second
}

func (c *Config) Validate() error {
	if c.ServerEndpointAddr == "" {
		return errors.New("server endpoint address is empty")
	}
	if c.StateDir == "" {
		return errors.New("state dir is empty")
	}
	if c.RequestTimeout <= 0 {
		return errors.New("request timeout must be positive")
	}
	return nil
}

// LoadConfig applies defaults, the JSON file and flags in that order.
// args excludes the program name.
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseJson(cfg, args); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
