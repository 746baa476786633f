package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/spicesharp/mcp-server/internal/backend"
	"github.com/spicesharp/mcp-server/internal/cache"
	"github.com/spicesharp/mcp-server/internal/config"
	"github.com/spicesharp/mcp-server/internal/discovery"
	"github.com/spicesharp/mcp-server/internal/dispatcher"
	"github.com/spicesharp/mcp-server/internal/logbuffer"
	"github.com/spicesharp/mcp-server/internal/portalloc"
	"github.com/spicesharp/mcp-server/internal/registry"
	"github.com/spicesharp/mcp-server/internal/server"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "spicesharp-mcp-server",
	Short: "Circuit simulation MCP server - JSON-RPC bridge for circuit analysis tools",
	Long: `spicesharp-mcp-server exposes circuit creation, component editing,
netlist import/export, and analysis tools (DC sweep, transient, AC,
operating point, parameter and temperature sweeps) over JSON-RPC 2.0
on an HTTP endpoint, for use by MCP-speaking agents.

It allocates its own listening port from a configurable range, answers
a /discovery endpoint so proxies can find it, and optionally broadcasts
its presence over UDP so other instances can discover it automatically.`,
	RunE: runServer,
}

func init() {
	godotenv.Load()

	cfg = config.Default()

	rootCmd.Flags().IntVar(&cfg.PortRangeStart, "port-range-start", cfg.PortRangeStart, "first port to try when allocating the HTTP listener")
	rootCmd.Flags().IntVar(&cfg.PortRangeSize, "port-range-size", cfg.PortRangeSize, "number of ports to try starting at --port-range-start")
	rootCmd.Flags().StringVar(&cfg.Host, "host", cfg.Host, "host to advertise in discovery replies and announcements when --network-visible is set")
	rootCmd.Flags().BoolVar(&cfg.NetworkVisible, "network-visible", cfg.NetworkVisible, "bind to all interfaces and advertise --host instead of loopback")

	rootCmd.Flags().BoolVar(&cfg.DiscoveryEnabled, "discovery", cfg.DiscoveryEnabled, "broadcast UDP discovery announcements")
	rootCmd.Flags().IntVar(&cfg.DiscoveryPort, "discovery-port", cfg.DiscoveryPort, "UDP port to broadcast discovery announcements on")
	rootCmd.Flags().IntVar(&cfg.DiscoveryInterval, "discovery-interval", cfg.DiscoveryInterval, "seconds between discovery announcements")
	rootCmd.Flags().StringVar(&cfg.InstanceName, "instance-name", cfg.InstanceName, "instance name advertised in discovery announcements")
	rootCmd.Flags().StringVar(&cfg.InstanceGroup, "instance-group", cfg.InstanceGroup, "instance group advertised in discovery announcements")

	rootCmd.Flags().IntVar(&cfg.LogBufferCapacity, "log-buffer-capacity", cfg.LogBufferCapacity, "number of recent log entries the in-memory log buffer retains")
	rootCmd.Flags().BoolVarP(&cfg.Verbose, "verbose", "v", false, "enable verbose output to stderr")

	viper.BindPFlag("port_range_start", rootCmd.Flags().Lookup("port-range-start"))
	viper.BindPFlag("port_range_size", rootCmd.Flags().Lookup("port-range-size"))
	viper.BindPFlag("host", rootCmd.Flags().Lookup("host"))
	viper.BindPFlag("network_visible", rootCmd.Flags().Lookup("network-visible"))
	viper.BindPFlag("discovery_enabled", rootCmd.Flags().Lookup("discovery"))
	viper.BindPFlag("discovery_port", rootCmd.Flags().Lookup("discovery-port"))
	viper.BindPFlag("discovery_interval", rootCmd.Flags().Lookup("discovery-interval"))
	viper.BindPFlag("instance_name", rootCmd.Flags().Lookup("instance-name"))
	viper.BindPFlag("instance_group", rootCmd.Flags().Lookup("instance-group"))
	viper.BindPFlag("log_buffer_capacity", rootCmd.Flags().Lookup("log-buffer-capacity"))
	viper.BindPFlag("verbose", rootCmd.Flags().Lookup("verbose"))

	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
	viper.SetEnvPrefix("SPICESHARP_MCP")
}

func runServer(cmd *cobra.Command, args []string) error {
	if err := viper.Unmarshal(cfg); err != nil {
		return fmt.Errorf("reading configuration: %w", err)
	}

	if cfg.Verbose {
		fmt.Fprintf(os.Stderr, "[VERBOSE] starting with port range %d-%d, discovery enabled=%v\n",
			cfg.PortRangeStart, cfg.PortRangeStart+cfg.PortRangeSize-1, cfg.DiscoveryEnabled)
	}

	log := logbuffer.New(cfg.LogBufferCapacity)
	resultsCache := cache.New()
	simBackend := backend.NewInMemory()

	defs := dispatcher.Definitions()
	reg, err := registry.New(dispatcher.Descriptors(defs))
	if err != nil {
		return fmt.Errorf("building tool registry: %w", err)
	}

	disp := dispatcher.New(defs, &dispatcher.Context{
		Cache:   resultsCache,
		Backend: simBackend,
		Log:     log,
	})

	port, err := portalloc.Find(cfg.PortRangeStart, cfg.PortRangeSize)
	if err != nil {
		return fmt.Errorf("allocating a port in range %d-%d: %w", cfg.PortRangeStart, cfg.PortRangeStart+cfg.PortRangeSize-1, err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := server.New(cfg, reg, disp, log)

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Run(ctx, port)
	}()

	if err := portalloc.Verify(port); err != nil {
		log.Warning(fmt.Sprintf("post-start port verification failed: %v", err))
		if cfg.Verbose {
			fmt.Fprintf(os.Stderr, "[VERBOSE] port verification failed: %v\n", err)
		}
	} else if cfg.Verbose {
		fmt.Fprintf(os.Stderr, "[VERBOSE] listening on %s:%d, verified reachable\n", cfg.BindAddress(), port)
	}

	if cfg.DiscoveryEnabled {
		broadcaster := discovery.New(cfg, reg, log, os.Getpid())
		go func() {
			if err := broadcaster.Run(ctx); err != nil && ctx.Err() == nil {
				log.Warning(fmt.Sprintf("discovery broadcaster stopped: %v", err))
			}
		}()
	}

	fmt.Fprintf(os.Stderr, "spicesharp-mcp-server listening on %s:%d\n", cfg.BindAddress(), port)

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		<-errChan
		return nil
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "\n--- FATAL ERROR ---\n")
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}
