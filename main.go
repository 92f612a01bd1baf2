package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/Mistranger/stratagus-sub001/agent"
	"github.com/Mistranger/stratagus-sub001/catalog"
	"github.com/Mistranger/stratagus-sub001/config"
	"github.com/Mistranger/stratagus-sub001/game"
	"github.com/Mistranger/stratagus-sub001/ipc"
	"github.com/Mistranger/stratagus-sub001/pathfind"
	"github.com/Mistranger/stratagus-sub001/rules"
	"github.com/Mistranger/stratagus-sub001/world"
)

const banner = `
 ___ _____ ___    _ _____ _   ___ _   _ ___
/ __|_   _| _ \  /_\_   _/_\ / __| | | / __|
\__ \ | | |   / / _ \| |/ _ \ (_ | |_| \__ \
|___/ |_| |_|_\/_/ \_\_/_/ \_\___|\___/|___/

Unit Action Engine`

func main() {
	configPath := pflag.StringP("config", "c", "", "path to a YAML config file")
	pflag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	level, _ := config.ParseLevel(cfg.LogLevel)
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	fmt.Println(banner)

	if err := run(cfg); err != nil {
		slog.Error("engine failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	slog.Info("starting engine", "map", fmt.Sprintf("%dx%d", cfg.Map.Width, cfg.Map.Height),
		"strategy", cfg.Index.Strategy, "tps", cfg.TickRate, "players", cfg.Players)

	cat, err := loadCatalog(cfg.CatalogPath)
	if err != nil {
		return err
	}

	w, err := world.New(world.Config{
		Width:      cfg.Map.Width,
		Height:     cfg.Map.Height,
		Strategy:   cfg.Index.Strategy,
		MaxUnits:   cfg.Units.Max,
		Seed:       cfg.Seed,
		TPS:        cfg.TickRate,
		SpeedTrain: cfg.Speed.Train,
		SpeedBuild: cfg.Speed.Build,
	}, nil)
	if err != nil {
		return err
	}
	w.Path = pathfind.New(w)

	players, err := game.Setup(w, cat, cfg.Players)
	if err != nil {
		return err
	}

	g, err := game.New(w, cat, cfg.StateEvery)
	if err != nil {
		return err
	}

	doctrine, err := rules.DoctrineByName(cfg.AI.Doctrine)
	if err != nil {
		return err
	}
	for _, p := range players[:cfg.AI.Players] {
		a, err := agent.New(p, cat, doctrine, cfg.AI.Interval)
		if err != nil {
			return err
		}
		g.AddAgent(a)
	}

	// Unix sockets leave behind a file on unclean shutdown; remove it so we can rebind.
	if err := os.RemoveAll(cfg.SocketPath); err != nil {
		return fmt.Errorf("clean up socket %s: %w", cfg.SocketPath, err)
	}
	listener, err := net.Listen("unix", cfg.SocketPath)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", cfg.SocketPath, err)
	}
	defer listener.Close()
	defer os.Remove(cfg.SocketPath)

	slog.Info("listening on domain socket", "path", cfg.SocketPath)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		for {
			conn, err := listener.Accept()
			if err != nil {
				select {
				case <-ctx.Done():
					return
				default:
					slog.Error("failed to accept connection", "error", err)
					continue
				}
			}
			slog.Info("new connection accepted")
			go g.Serve(ipc.Stream(conn))
		}
	}()

	if cfg.WSAddr != "" {
		srv := &http.Server{Addr: cfg.WSAddr, Handler: ipc.WebSocketHandler(g.Serve)}
		go func() {
			slog.Info("listening for websocket controllers", "addr", cfg.WSAddr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				slog.Error("websocket listener failed", "error", err)
			}
		}()
		defer func() {
			shutdown, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			srv.Shutdown(shutdown)
		}()
	}

	if err := g.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	slog.Info("shutting down", "cycle", w.Cycle)
	return nil
}

func loadCatalog(path string) (*catalog.Catalog, error) {
	if path == "" {
		return catalog.Default()
	}
	slog.Info("loading catalog", "path", path)
	return catalog.LoadFile(path)
}
