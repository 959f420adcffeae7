package main

import (
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/xactodb/xacto/internal/config"
	"github.com/xactodb/xacto/internal/engine"
	"github.com/xactodb/xacto/internal/registry"
	"github.com/xactodb/xacto/internal/session"
	"github.com/xactodb/xacto/pkg/log"
	"github.com/xactodb/xacto/pkg/metrics"
)

var (
	// Version information (set via ldflags during build)
	Version = "dev"
	Commit  = "unknown"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "xacto-server",
	Short: "Xacto transactional key-value store server",
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the Xacto server",
	Long: `Start the Xacto server, listening for client connections and
servicing PUT/GET/COMMIT requests against the transactional store.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntP("port", "p", 0, "Port to listen on (required, 0-65535)")
	serveCmd.Flags().String("metrics-addr", ":9090", "Address for the metrics/health HTTP server")
	serveCmd.Flags().String("log-level", "", "Log level (debug, info, warn, error)")
	serveCmd.Flags().Bool("log-json", false, "Output logs in JSON format")
	serveCmd.Flags().String("config", "", "Path to a YAML config file")
	_ = serveCmd.MarkFlagRequired("port")

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	configPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if cmd.Flags().Changed("port") {
		cfg.Port, _ = cmd.Flags().GetInt("port")
	}
	if cmd.Flags().Changed("metrics-addr") {
		cfg.MetricsAddr, _ = cmd.Flags().GetString("metrics-addr")
	}
	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel, _ = cmd.Flags().GetString("log-level")
	}
	if cmd.Flags().Changed("log-json") {
		cfg.LogJSON, _ = cmd.Flags().GetBool("log-json")
	}

	if err := config.ValidatePort(cfg.Port); err != nil {
		fmt.Fprintf(os.Stderr, "%v\nUsage: %s serve -p <port> [0 - 65535]\n", err, os.Args[0])
		os.Exit(1)
	}

	log.Init(log.Config{Level: log.Level(cfg.LogLevel), JSONOutput: cfg.LogJSON})
	serverLog := log.WithComponent("server")

	listener, err := net.Listen("tcp", fmt.Sprintf(":%d", cfg.Port))
	if err != nil {
		return fmt.Errorf("listen on port %d: %w", cfg.Port, err)
	}
	serverLog.Info().Str("addr", listener.Addr().String()).Msg("listening")

	mgr := engine.NewManager()
	store := engine.NewStore()
	reg := registry.New()

	metrics.SetVersion(Version)
	metrics.RegisterComponent("engine", true, "")
	metrics.RegisterComponent("listener", true, "")

	collector := metrics.NewCollector(mgr, store, reg, 15*time.Second)
	collector.Start()
	defer collector.Stop()

	go serveMetrics(cfg.MetricsAddr, serverLog)

	shutdown := make(chan struct{})
	go acceptLoop(listener, store, mgr, reg, serverLog, shutdown)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	<-sigCh

	serverLog.Info().Msg("shutting down")
	close(shutdown)
	_ = listener.Close()
	reg.Shutdown()
	reg.Wait()
	serverLog.Info().Msg("all sessions terminated, exiting")
	return nil
}

// acceptLoop accepts connections until listener is closed (the expected
// way this loop ends during shutdown), starting one session goroutine per
// connection.
func acceptLoop(listener net.Listener, store *engine.Store, mgr *engine.Manager, reg *registry.Registry, serverLog zerolog.Logger, shutdown <-chan struct{}) {
	for {
		conn, err := listener.Accept()
		if err != nil {
			select {
			case <-shutdown:
				return
			default:
				serverLog.Error().Err(err).Msg("accept failed")
				return
			}
		}
		// A random session ID, not the remote address, identifies the
		// connection in logs: a client reconnecting from the same
		// address/port (common behind NAT, or with rapid port reuse)
		// would otherwise share a conn_id with its predecessor.
		connLog := log.WithConnID(uuid.NewString()).With().Str("remote_addr", conn.RemoteAddr().String()).Logger()
		sess := session.New(conn, store, mgr, reg, connLog)
		go sess.Run()
	}
}

func serveMetrics(addr string, serverLog zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	mux.Handle("/healthz", metrics.HealthHandler())
	mux.Handle("/readyz", metrics.ReadyHandler())
	if err := http.ListenAndServe(addr, mux); err != nil {
		serverLog.Error().Err(err).Msg("metrics server exited")
	}
}
