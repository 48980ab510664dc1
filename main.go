// Command gridsnake runs the Grid Snake game.
//
// It has three subcommands:
//  1. "serve" runs the HTTP server exposing the REST API, the WebSocket stream and an /mcp endpoint
//  2. "mcp" runs an MCP stdio server and spins up an internal HTTP API if none is available
//  3. "play" runs a single game in the terminal
//
// Flags control host/port, config directory, debug logging, idle session
// cleanup and optional ngrok tunneling for easy external access during development.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"
	"golang.ngrok.com/ngrok"
	ngrokConfig "golang.ngrok.com/ngrok/config"

	"github.com/wricardo/gridsnake/api"
	"github.com/wricardo/gridsnake/game/config"
	"github.com/wricardo/gridsnake/game/engine"
	"github.com/wricardo/gridsnake/game/service"
	"github.com/wricardo/gridsnake/game/session"
	"github.com/wricardo/gridsnake/play"
	"github.com/wricardo/gridsnake/transport/mcp"
	"github.com/wricardo/gridsnake/transport/websocket"
)

// Version information
const (
	Version = "1.0.0"
	AppName = "Grid Snake"
)

func main() {
	if err := newApp().Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

// newApp builds the root command
func newApp() *cli.Command {
	return &cli.Command{
		Name:    "gridsnake",
		Usage:   "Snake on a wraparound grid, playable over HTTP, WebSocket, MCP or in a terminal",
		Version: Version,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "debug",
				Usage:   "Enable debug logging",
				Sources: cli.EnvVars("DEBUG"),
			},
			&cli.StringFlag{
				Name:    "config-dir",
				Value:   "configs",
				Usage:   "Directory containing game configurations",
				Sources: cli.EnvVars("CONFIG_DIR"),
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			loadEnv()
			setupLogging(cmd.Bool("debug"))
			return ctx, nil
		},
		Commands: []*cli.Command{
			serveCommand(),
			mcpCommand(),
			playCommand(),
		},
	}
}

// loadEnv loads a .env file if it exists
func loadEnv() {
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			log.Warnf("Error loading .env file: %v", err)
		}
		return
	}
	log.Debug("Loaded environment variables from .env file")
}

func setupLogging(debug bool) {
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	if debug {
		log.SetLevel(log.DebugLevel)
		log.SetReportCaller(true)
		return
	}
	log.SetLevel(log.InfoLevel)
	log.SetReportCaller(false)
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the HTTP server with REST API, WebSocket and MCP endpoint",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "port", Value: 8080, Usage: "HTTP server port", Sources: cli.EnvVars("PORT")},
			&cli.StringFlag{Name: "host", Value: "localhost", Usage: "HTTP server host", Sources: cli.EnvVars("HOST")},
			&cli.DurationFlag{Name: "session-ttl", Value: 24 * time.Hour, Usage: "Remove sessions idle for longer than this"},
			&cli.DurationFlag{Name: "cleanup-interval", Value: time.Hour, Usage: "How often idle sessions are removed"},
			&cli.BoolFlag{Name: "ngrok", Usage: "Enable ngrok tunnel", Sources: cli.EnvVars("NGROK_ENABLED")},
			&cli.StringFlag{Name: "ngrok-auth", Usage: "Ngrok auth token", Sources: cli.EnvVars("NGROK_AUTHTOKEN", "NGROK_AUTH_TOKEN")},
			&cli.StringFlag{Name: "ngrok-domain", Usage: "Custom ngrok domain (optional)", Sources: cli.EnvVars("NGROK_DOMAIN")},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return runHTTPServer(ctx, serveOptions{
				configDir:       cmd.String("config-dir"),
				addr:            fmt.Sprintf("%s:%d", cmd.String("host"), cmd.Int("port")),
				sessionTTL:      cmd.Duration("session-ttl"),
				cleanupInterval: cmd.Duration("cleanup-interval"),
				ngrok:           cmd.Bool("ngrok"),
				ngrokAuth:       cmd.String("ngrok-auth"),
				ngrokDomain:     cmd.String("ngrok-domain"),
			})
		},
	}
}

func mcpCommand() *cli.Command {
	return &cli.Command{
		Name:    "mcp",
		Aliases: []string{"stdio-mcp"},
		Usage:   "Run an MCP stdio server backed by the REST API",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "api-url", Value: "http://localhost:8080", Usage: "REST API to proxy to; an internal one starts if it is unreachable", Sources: cli.EnvVars("API_URL")},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return runStdioMCP(ctx, cmd.String("config-dir"), cmd.String("api-url"))
		},
	}
}

func playCommand() *cli.Command {
	return &cli.Command{
		Name:  "play",
		Usage: "Play in the terminal (arrows steer, r restarts, q quits)",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Value: "classic", Usage: "Config ID from the config directory"},
			&cli.StringFlag{Name: "config-file", Usage: "Path to a config file (overrides --config)"},
			&cli.BoolFlag{Name: "sound", Value: true, Usage: "Play audio cues"},
			&cli.Int64Flag{Name: "seed", Usage: "Random seed for apple placement (0 keeps the config's)"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			gameConfig, err := resolvePlayConfig(cmd.String("config-dir"), cmd.String("config"), cmd.String("config-file"))
			if err != nil {
				return err
			}
			if seed := cmd.Int64("seed"); seed != 0 {
				gameConfig.Seed = seed
			}

			// Log lines would tear the terminal drawing
			log.SetOutput(io.Discard)

			ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()

			return play.Run(ctx, play.Options{
				Config: gameConfig,
				Sound:  cmd.Bool("sound"),
			})
		},
	}
}

// resolvePlayConfig loads the config for the play command. A missing
// config directory falls back to the built-in classic field.
func resolvePlayConfig(configDir, name, file string) (*engine.GameConfig, error) {
	if file != "" {
		return engine.LoadGameConfig(file)
	}

	manager, err := config.NewManager(configDir)
	if err != nil {
		if name == "" || name == "classic" {
			return engine.DefaultConfig(), nil
		}
		return nil, err
	}
	if name == "" {
		return manager.GetDefault(), nil
	}
	return manager.LoadConfig(name)
}

type serveOptions struct {
	configDir       string
	addr            string
	sessionTTL      time.Duration
	cleanupInterval time.Duration
	ngrok           bool
	ngrokAuth       string
	ngrokDomain     string
}

// runHTTPServer starts the HTTP server with REST API, WebSocket hub, and an /mcp proxy endpoint.
// If ngrok is enabled, it also provisions a public tunnel.
func runHTTPServer(ctx context.Context, opts serveOptions) error {
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	log.Infof("Starting %s v%s", AppName, Version)

	gameService, hub, err := newBackend(ctx, opts.configDir)
	if err != nil {
		return err
	}
	defer gameService.Shutdown()

	apiServer := api.NewServer(gameService, hub)
	mcpClient := mcp.NewClient(fmt.Sprintf("http://%s", opts.addr))

	mainRouter := http.NewServeMux()
	mainRouter.Handle("/", apiServer)
	mainRouter.Handle("/mcp", mcpHandler(mcpClient.GetMCPServer()))

	httpServer := &http.Server{
		Addr:         opts.addr,
		Handler:      mainRouter,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		sessionCleanupRoutine(ctx, gameService, opts.cleanupInterval, opts.sessionTTL)
	}()

	serveErr := make(chan error, 1)
	wg.Add(1)
	go func() {
		defer wg.Done()

		log.Infof("HTTP server listening on %s", opts.addr)
		log.Infof("REST API: http://%s/api", opts.addr)
		log.Infof("WebSocket: ws://%s/ws?session=<session_id>", opts.addr)
		log.Infof("MCP endpoint: http://%s/mcp", opts.addr)

		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
			cancel()
		}
	}()

	if opts.ngrok {
		wg.Add(1)
		go func() {
			defer wg.Done()
			runNgrokTunnel(ctx, opts, mainRouter)
		}()
	}

	<-ctx.Done()
	log.Info("Shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Warnf("HTTP server shutdown error: %v", err)
	}

	wg.Wait()
	log.Info("Server stopped")

	select {
	case err := <-serveErr:
		return fmt.Errorf("HTTP server failed: %w", err)
	default:
		return nil
	}
}

func runNgrokTunnel(ctx context.Context, opts serveOptions, handler http.Handler) {
	if opts.ngrokAuth == "" {
		log.Warn("Ngrok enabled but no auth token provided (use --ngrok-auth, NGROK_AUTHTOKEN, or NGROK_AUTH_TOKEN env var)")
		return
	}

	log.Info("Starting ngrok tunnel...")

	var tunnel ngrokConfig.Tunnel
	if opts.ngrokDomain != "" {
		tunnel = ngrokConfig.HTTPEndpoint(ngrokConfig.WithDomain(opts.ngrokDomain))
		log.Infof("Using custom ngrok domain: %s", opts.ngrokDomain)
	} else {
		tunnel = ngrokConfig.HTTPEndpoint()
	}

	tun, err := ngrok.Listen(ctx, tunnel, ngrok.WithAuthtoken(opts.ngrokAuth))
	if err != nil {
		log.Errorf("Failed to start ngrok tunnel: %v", err)
		return
	}

	go func() {
		<-ctx.Done()
		if err := tun.Close(); err != nil {
			log.Warnf("Failed to close ngrok tunnel: %v", err)
		}
	}()

	ngrokURL := tun.URL()
	log.Infof("Ngrok tunnel established: %s", ngrokURL)
	log.Infof("  REST API (ngrok): %s/api", ngrokURL)
	log.Infof("  WebSocket (ngrok): %s/ws?session=<session_id>", ngrokURL)
	log.Infof("  MCP endpoint (ngrok): %s/mcp", ngrokURL)

	if err := http.Serve(tun, handler); err != nil && !errors.Is(err, http.ErrServerClosed) && ctx.Err() == nil {
		log.Warnf("Ngrok server error: %v", err)
	}
	log.Info("Ngrok tunnel closed")
}

// mcpHandler answers single JSON-RPC messages posted to /mcp
func mcpHandler(mcpServer *server.MCPServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "Failed to read request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		response := mcpServer.HandleMessage(r.Context(), body)

		w.Header().Set("Content-Type", "application/json")
		responseData, err := json.Marshal(response)
		if err != nil {
			http.Error(w, "Failed to marshal response", http.StatusInternalServerError)
			return
		}
		w.Write(responseData)
	}
}

// initializeServices wires session/config managers and the game service
func initializeServices(configDir string, opts ...service.Option) (service.Service, error) {
	configManager, err := config.NewManager(configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to create config manager: %w", err)
	}

	sessionManager := session.NewManager()

	return service.NewGameService(sessionManager, configManager, opts...), nil
}

// newBackend starts a WebSocket hub and the game service feeding it. Key
// messages from WebSocket clients are routed to PressKey. The hub stops with ctx.
func newBackend(ctx context.Context, configDir string) (service.Service, *websocket.Hub, error) {
	hub := websocket.NewHub()

	gameService, err := initializeServices(configDir, service.WithSnapshotListener(hub.BroadcastSnapshot))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	hub.SetInputHandler(func(ctx context.Context, sessionID, key string) (interface{}, error) {
		return gameService.PressKey(ctx, sessionID, key)
	})
	go hub.Run(ctx)

	return gameService, hub, nil
}

// sessionCleanupRoutine periodically removes sessions that have not been accessed
// within the provided retention window.
func sessionCleanupRoutine(ctx context.Context, svc service.Service, interval, ttl time.Duration) {
	if interval <= 0 || ttl <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := svc.CleanupIdle(ctx, ttl); removed > 0 {
				log.Infof("Cleaned up %d idle sessions", removed)
			}
		}
	}
}

// runStdioMCP runs an MCP stdio server. It reuses the API at apiURL when it
// answers; otherwise it starts an internal HTTP API on a random loopback port.
func runStdioMCP(ctx context.Context, configDir, apiURL string) error {
	baseURL := apiURL

	log.Infof("Checking for external API server at %s...", apiURL)
	testClient := &http.Client{Timeout: 2 * time.Second}
	resp, err := testClient.Get(apiURL + "/api/health")
	if err == nil {
		resp.Body.Close()
	}
	if err == nil && resp.StatusCode < 500 {
		log.Infof("External API server found at %s, using it for MCP", apiURL)
	} else {
		log.Info("No external API server found, starting internal HTTP server")

		listener, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			return fmt.Errorf("failed to get available port: %w", err)
		}

		ctx, cancel := context.WithCancel(ctx)
		defer cancel()

		gameService, hub, err := newBackend(ctx, configDir)
		if err != nil {
			listener.Close()
			return err
		}
		defer gameService.Shutdown()

		httpServer := &http.Server{Handler: api.NewServer(gameService, hub)}
		go func() {
			if err := httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Errorf("Internal HTTP server error: %v", err)
			}
		}()
		defer httpServer.Close()

		baseURL = fmt.Sprintf("http://%s", listener.Addr().String())
		log.Infof("Internal HTTP server for MCP stdio on %s", baseURL)
	}

	mcpClient := mcp.NewClient(baseURL)
	log.Info("MCP stdio server ready")

	if err := server.ServeStdio(mcpClient.GetMCPServer()); err != nil {
		return fmt.Errorf("MCP stdio server error: %w", err)
	}
	return nil
}
