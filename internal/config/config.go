// Package config holds the process-wide configuration shared by every
// handler and background task. A single *Config is built at startup and
// passed by reference; nothing here is a singleton.
package config

import "github.com/spicesharp/mcp-server/internal/constants"

// Config holds all configuration for the spicesharp-mcp-server process.
type Config struct {
	// Port selection
	PortRangeStart int `mapstructure:"port_range_start"`
	PortRangeSize  int `mapstructure:"port_range_size"`

	// Bind address. The discovery endpoint reads Host/Port by pointer so
	// a live config edit is reflected in the very next response.
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	NetworkVisible bool   `mapstructure:"network_visible"`

	// Discovery broadcaster
	DiscoveryEnabled  bool   `mapstructure:"discovery_enabled"`
	DiscoveryPort     int    `mapstructure:"discovery_port"`
	DiscoveryInterval int    `mapstructure:"discovery_interval"` // seconds
	InstanceName      string `mapstructure:"instance_name"`
	InstanceGroup     string `mapstructure:"instance_group"`

	// Observability
	LogBufferCapacity int  `mapstructure:"log_buffer_capacity"`
	Verbose           bool `mapstructure:"verbose"`
}

// Default returns a Config populated with sensible defaults.
func Default() *Config {
	return &Config{
		PortRangeStart:    constants.DefaultPortRangeStart,
		PortRangeSize:     constants.DefaultPortRangeSize,
		Host:              "127.0.0.1",
		NetworkVisible:    false,
		DiscoveryEnabled:  true,
		DiscoveryPort:     constants.DefaultDiscoveryPort,
		DiscoveryInterval: constants.DefaultDiscoveryInterval,
		InstanceName:      constants.MCPServerName,
		InstanceGroup:     "default",
		LogBufferCapacity: constants.DefaultLogBufferCapacity,
	}
}

// ResolvedHost returns the host the discovery endpoint and broadcaster
// should advertise: the configured Host when network-visible, loopback
// otherwise.
func (c *Config) ResolvedHost() string {
	if c.NetworkVisible {
		return c.Host
	}
	return "127.0.0.1"
}

// BindAddress returns the address the HTTP server should bind to: all
// interfaces when network-visible, loopback only otherwise.
func (c *Config) BindAddress() string {
	if c.NetworkVisible {
		return "0.0.0.0"
	}
	return "127.0.0.1"
}
