// Command cookiemilk serves the Cookies & Milk connect-four board.
//
// It supports two modes:
//  1. "server" (default) runs the HTTP server exposing the shared /12 board,
//     the JSON session API, WebSocket updates, Prometheus metrics and /mcp
//  2. "stdio-mcp" runs an MCP stdio server and spins up an internal HTTP API
//     if none is reachable
//  3. "new-preset" writes a validated preset file
//
// SIGHUP makes a running server re-read its presets.
//
// Every flag can also be set through the environment or a .env file.
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
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"
	"golang.ngrok.com/ngrok"
	ngrokConfig "golang.ngrok.com/ngrok/config"

	"github.com/wricardo/cookie-milk-connect4/api"
	"github.com/wricardo/cookie-milk-connect4/game/config"
	"github.com/wricardo/cookie-milk-connect4/game/engine"
	"github.com/wricardo/cookie-milk-connect4/game/service"
	"github.com/wricardo/cookie-milk-connect4/game/session"
	"github.com/wricardo/cookie-milk-connect4/transport/mcp"
	"github.com/wricardo/cookie-milk-connect4/transport/websocket"
)

// Version information
const (
	Version = "1.0.0"
	AppName = "Cookies & Milk Server"
)

// cleanupInterval is how often expired sessions are pruned.
const cleanupInterval = 10 * time.Minute

func main() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "warning: error loading .env file: %v\n", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newCommand().Run(ctx, os.Args); err != nil {
		log.Fatal().Err(err).Msg("exiting")
	}
}

// newCommand builds the CLI. The root action runs the HTTP server.
func newCommand() *cli.Command {
	return &cli.Command{
		Name:    "cookiemilk",
		Usage:   AppName,
		Version: Version,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "host", Value: "localhost", Usage: "HTTP server host", Sources: cli.EnvVars("HOST")},
			&cli.IntFlag{Name: "port", Value: 8080, Usage: "HTTP server port", Sources: cli.EnvVars("PORT")},
			&cli.StringFlag{Name: "config-dir", Value: "configs", Usage: "directory containing preset YAML files", Sources: cli.EnvVars("CONFIG_DIR")},
			&cli.StringFlag{Name: "default-preset", Usage: "preset ID for new sessions (classic when empty)", Sources: cli.EnvVars("DEFAULT_PRESET")},
			&cli.BoolFlag{Name: "debug", Usage: "enable debug logging", Sources: cli.EnvVars("DEBUG")},
			&cli.StringFlag{Name: "log-format", Value: "console", Usage: "console or json", Sources: cli.EnvVars("LOG_FORMAT")},
			&cli.FloatFlag{Name: "place-rate", Value: 5, Usage: "JSON API place requests per second per client IP, 0 disables", Sources: cli.EnvVars("PLACE_RATE")},
			&cli.IntFlag{Name: "place-burst", Value: 10, Usage: "place request burst per client IP", Sources: cli.EnvVars("PLACE_BURST")},
			&cli.DurationFlag{Name: "session-ttl", Value: 24 * time.Hour, Usage: "idle time before a session is removed", Sources: cli.EnvVars("SESSION_TTL")},
			&cli.BoolFlag{Name: "ngrok", Usage: "enable ngrok tunnel", Sources: cli.EnvVars("NGROK_ENABLED")},
			&cli.StringFlag{Name: "ngrok-auth", Usage: "ngrok auth token", Sources: cli.EnvVars("NGROK_AUTHTOKEN", "NGROK_AUTH_TOKEN")},
			&cli.StringFlag{Name: "ngrok-domain", Usage: "custom ngrok domain", Sources: cli.EnvVars("NGROK_DOMAIN")},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			setupLogging(cmd.Bool("debug"), cmd.String("log-format"), os.Stderr)
			return ctx, nil
		},
		Action: runHTTPServer,
		Commands: []*cli.Command{
			{
				Name:    "server",
				Aliases: []string{"http"},
				Usage:   "run the HTTP server with API, WebSocket, metrics and MCP endpoint",
				Action:  runHTTPServer,
			},
			{
				Name:      "new-preset",
				Usage:     "validate and write a preset YAML file into --config-dir",
				ArgsUsage: "<id>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "name", Usage: "display name (defaults to the ID)"},
					&cli.StringFlag{Name: "description", Usage: "preset description"},
					&cli.Int64Flag{Name: "seed", Value: 2024, Usage: "random board seed"},
					&cli.StringSliceFlag{Name: "row", Usage: "layout row, top first; repeat 4 times or omit for an empty board"},
				},
				Action: runNewPreset,
			},
			{
				Name:    "stdio-mcp",
				Aliases: []string{"mcp-stdio", "mcp"},
				Usage:   "run an MCP stdio server backed by the HTTP API",
				Action:  runStdioMCP,
			},
		},
	}
}

// setupLogging configures the global zerolog logger. stdout is never used so
// stdio-mcp keeps it for the protocol.
func setupLogging(debug bool, format string, w io.Writer) {
	zerolog.TimeFieldFormat = time.RFC3339
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)

	if format == "json" {
		log.Logger = zerolog.New(w).With().Timestamp().Logger()
		return
	}
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}).With().Timestamp().Logger()
}

// services bundles what both modes need.
type services struct {
	game     service.GameService
	sessions *session.Manager
	configs  *config.Manager
}

// initializeServices wires the preset and session managers into the game
// service and makes sure the default session exists. defaultPreset, when
// set, replaces classic as the preset for the default session and for new
// sessions created without one.
func initializeServices(configDir, defaultPreset string) (*services, error) {
	configManager, err := config.NewManager(configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to create config manager: %w", err)
	}
	if defaultPreset != "" {
		if err := configManager.SetDefault(defaultPreset); err != nil {
			return nil, fmt.Errorf("failed to set default preset: %w", err)
		}
	}
	log.Debug().Str("default", configManager.GetDefault().Name).Int("cached", configManager.Count()).Msg("presets loaded")

	sessionManager := session.NewManager()
	if _, err := sessionManager.GetOrCreate(service.DefaultSessionID, configManager.GetDefault()); err != nil {
		return nil, fmt.Errorf("failed to create default session: %w", err)
	}

	return &services{
		game:     service.NewGameService(sessionManager, configManager),
		sessions: sessionManager,
		configs:  configManager,
	}, nil
}

// reloadPresets drops cached presets so edited files are picked up, then
// re-applies the configured default.
func reloadPresets(configs *config.Manager, defaultPreset string) error {
	configs.RefreshCache()
	if defaultPreset == "" {
		return nil
	}
	return configs.SetDefault(defaultPreset)
}

// reloadOnHangup calls reloadPresets on every SIGHUP until ctx is done.
func reloadOnHangup(ctx context.Context, configs *config.Manager, defaultPreset string) {
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)

	for {
		select {
		case <-ctx.Done():
			return
		case <-hup:
			if err := reloadPresets(configs, defaultPreset); err != nil {
				log.Warn().Err(err).Msg("preset reload failed")
				continue
			}
			log.Info().Str("default", configs.GetDefault().Name).Msg("presets reloaded")
		}
	}
}

// sessionCleanupRoutine periodically removes sessions idle for longer than ttl.
func sessionCleanupRoutine(ctx context.Context, manager *session.Manager, interval, ttl time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			manager.CleanupExpiredSessions(ttl)
		}
	}
}

func apiOptions(cmd *cli.Command) api.Options {
	return api.Options{
		PlaceRate:  cmd.Float("place-rate"),
		PlaceBurst: int(cmd.Int("place-burst")),
	}
}

// mcpHandler serves single JSON-RPC messages over HTTP POST.
func mcpHandler(mcpClient *mcp.Client) http.HandlerFunc {
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

		response := mcpClient.GetMCPServer().HandleMessage(r.Context(), body)

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(response); err != nil {
			log.Warn().Err(err).Msg("failed to write MCP response")
		}
	}
}

// runHTTPServer starts the HTTP server, the WebSocket hub, the cleanup
// routine and, when enabled, an ngrok tunnel. It returns after ctx is
// cancelled and everything has shut down.
func runHTTPServer(ctx context.Context, cmd *cli.Command) error {
	svc, err := initializeServices(cmd.String("config-dir"), cmd.String("default-preset"))
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go reloadOnHangup(ctx, svc.configs, cmd.String("default-preset"))
	hub := websocket.NewHub()
	go hub.Run(ctx)
	go sessionCleanupRoutine(ctx, svc.sessions, cleanupInterval, cmd.Duration("session-ttl"))

	apiServer := api.NewServer(svc.game, hub, apiOptions(cmd))

	addr := net.JoinHostPort(cmd.String("host"), fmt.Sprint(cmd.Int("port")))
	mcpClient := mcp.NewClient("http://" + addr)

	mainRouter := http.NewServeMux()
	mainRouter.Handle("/", apiServer)
	mainRouter.HandleFunc("/mcp", mcpHandler(mcpClient))

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      mainRouter,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	var wg sync.WaitGroup
	serveErr := make(chan error, 1)

	wg.Add(1)
	go func() {
		defer wg.Done()

		log.Info().
			Str("addr", addr).
			Str("board", "http://"+addr+"/12/board").
			Str("api", "http://"+addr+"/api").
			Str("ws", "ws://"+addr+"/ws?session=<id>").
			Str("mcp", "http://"+addr+"/mcp").
			Msgf("%s v%s listening", AppName, Version)

		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
			cancel()
		}
	}()

	if cmd.Bool("ngrok") {
		wg.Add(1)
		go func() {
			defer wg.Done()
			runNgrok(ctx, cmd.String("ngrok-auth"), cmd.String("ngrok-domain"), mainRouter)
		}()
	}

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("HTTP server shutdown error")
	}

	wg.Wait()
	log.Info().Msg("server stopped")

	select {
	case err := <-serveErr:
		return fmt.Errorf("HTTP server failed: %w", err)
	default:
		return nil
	}
}

// runNgrok serves handler through an ngrok tunnel until ctx is done.
func runNgrok(ctx context.Context, authToken, domain string, handler http.Handler) {
	if authToken == "" {
		log.Warn().Msg("ngrok enabled but no auth token provided (use --ngrok-auth or NGROK_AUTHTOKEN)")
		return
	}

	var tunnel ngrokConfig.Tunnel
	if domain != "" {
		tunnel = ngrokConfig.HTTPEndpoint(ngrokConfig.WithDomain(domain))
	} else {
		tunnel = ngrokConfig.HTTPEndpoint()
	}

	tun, err := ngrok.Listen(ctx, tunnel, ngrok.WithAuthtoken(authToken))
	if err != nil {
		log.Error().Err(err).Msg("failed to start ngrok tunnel")
		return
	}
	go func() {
		<-ctx.Done()
		if err := tun.Close(); err != nil {
			log.Warn().Err(err).Msg("failed to close ngrok tunnel")
		}
	}()

	ngrokURL := tun.URL()
	log.Info().Str("url", ngrokURL).Str("board", ngrokURL+"/12/board").Msg("ngrok tunnel established")

	if err := http.Serve(tun, handler); err != nil && !errors.Is(err, http.ErrServerClosed) && ctx.Err() == nil {
		log.Error().Err(err).Msg("ngrok server error")
	}
	log.Info().Msg("ngrok tunnel closed")
}

// runNewPreset writes a preset from flags, refusing anything the loader
// would reject.
func runNewPreset(ctx context.Context, cmd *cli.Command) error {
	id := cmd.Args().First()
	if id == "" {
		return fmt.Errorf("preset id is required")
	}

	name := cmd.String("name")
	if name == "" {
		name = id
	}
	preset := &engine.Preset{
		Name:        name,
		Description: cmd.String("description"),
		Seed:        cmd.Int64("seed"),
		Layout:      cmd.StringSlice("row"),
	}
	if err := savePreset(cmd.String("config-dir"), id, preset); err != nil {
		return err
	}

	log.Info().Str("id", id).Str("dir", cmd.String("config-dir")).Msg("preset saved")
	return nil
}

func savePreset(configDir, id string, preset *engine.Preset) error {
	configs, err := config.NewManager(configDir)
	if err != nil {
		return fmt.Errorf("failed to create config manager: %w", err)
	}
	return configs.SaveConfig(id, preset)
}

// runStdioMCP runs an MCP stdio server. It reuses an API already listening
// on --host/--port; otherwise it starts an internal one on a random loopback
// port.
func runStdioMCP(ctx context.Context, cmd *cli.Command) error {
	externalURL := "http://" + net.JoinHostPort(cmd.String("host"), fmt.Sprint(cmd.Int("port")))

	baseURL := externalURL
	if !apiReachable(externalURL) {
		log.Info().Str("url", externalURL).Msg("no API server found, starting internal HTTP server")

		svc, err := initializeServices(cmd.String("config-dir"), cmd.String("default-preset"))
		if err != nil {
			return err
		}

		listener, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			return fmt.Errorf("failed to get available port: %w", err)
		}

		hub := websocket.NewHub()
		go hub.Run(ctx)
		go sessionCleanupRoutine(ctx, svc.sessions, cleanupInterval, cmd.Duration("session-ttl"))

		httpServer := &http.Server{Handler: api.NewServer(svc.game, hub, apiOptions(cmd))}
		go func() {
			if err := httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error().Err(err).Msg("internal HTTP server error")
			}
		}()
		defer httpServer.Close()

		baseURL = "http://" + listener.Addr().String()
	}

	log.Info().Str("api", baseURL).Msg("MCP stdio server ready")
	return server.ServeStdio(mcp.NewClient(baseURL).GetMCPServer())
}

// apiReachable reports whether a Cookies & Milk API answers /health at baseURL.
func apiReachable(baseURL string) bool {
	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get(baseURL + "/health")
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}
