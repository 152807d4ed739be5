package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/udisondev/auracore/internal/config"
	"github.com/udisondev/auracore/internal/data"
	"github.com/udisondev/auracore/internal/db"
	"github.com/udisondev/auracore/internal/game/aura"
	"github.com/udisondev/auracore/internal/game/aura/luascript"
	"github.com/udisondev/auracore/internal/game/party"
	"github.com/udisondev/auracore/internal/gameserver"
	"github.com/udisondev/auracore/internal/model"
	"github.com/udisondev/auracore/internal/telemetry"
	"github.com/udisondev/auracore/internal/world"
)

const (
	ConfigPath      = "config/auraserver.yaml"
	shutdownTimeout = 10 * time.Second
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("failed to load .env", "err", err)
	}

	if err := run(context.Background()); err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfgPath := ConfigPath
	if p := os.Getenv("AURA_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.LoadAuraServer(cfgPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	})))
	slog.Info("auraserver starting", "log_level", cfg.LogLevel, "tick", cfg.TickInterval)

	shutdownTracing, err := telemetry.Setup(ctx, cfg.Telemetry)
	if err != nil {
		return fmt.Errorf("setting up telemetry: %w", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdownTracing(sctx); err != nil {
			slog.Warn("tracing shutdown", "err", err)
		}
	}()

	spells, err := data.LoadFile(cfg.Data.SpellsPath)
	if err != nil {
		return err
	}
	slog.Info("spell data loaded", "spells", spells.SpellCount())

	w := world.New()
	unitIDs, err := populate(w, party.NewManager(), cfg.Data.UnitsPath)
	if err != nil {
		return err
	}

	database, err := db.New(ctx, cfg.Database.DSN())
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer database.Close()
	if err := db.Migrate(ctx, database.Pool()); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	slog.Info("database ready")
	auras := db.NewAuraRepository(database.Pool())

	scripts := aura.NewScriptRegistry()
	if _, err := luascript.Load(cfg.Data.ScriptsDir, scripts); err != nil {
		return fmt.Errorf("loading scripts: %w", err)
	}

	sink := gameserver.NewPacketSink(nil)
	mgr := aura.NewManager(cfg.Aura, spells, w, aura.WithSink(sink), aura.WithScripts(scripts))

	if err := restore(ctx, mgr, auras, unitIDs); err != nil {
		return err
	}

	sim := gameserver.NewSimulation(mgr, cfg.TickInterval)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return sim.Run(gctx)
	})
	g.Go(func() error {
		return watchSignals(gctx)
	})
	if err := g.Wait(); err != nil && !errors.Is(err, errShutdown) {
		return err
	}

	// Simulation goroutine has exited, the manager is ours.
	byUnit := make(map[uint32][]aura.SavedAura, len(unitIDs))
	for _, id := range unitIDs {
		byUnit[id] = mgr.SaveAuras(id)
	}
	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := auras.SaveAll(sctx, byUnit); err != nil {
		return fmt.Errorf("saving auras: %w", err)
	}
	slog.Info("auras saved", "units", len(byUnit), "packets", sink.Sent())
	return nil
}

var errShutdown = errors.New("shutdown requested")

// watchSignals returns errShutdown on SIGINT/SIGTERM, which cancels the group.
func watchSignals(ctx context.Context) error {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case sig := <-sigCh:
		slog.Info("shutting down", "signal", sig)
		return errShutdown
	case <-ctx.Done():
		return nil
	}
}

// populate adds the initial units to the world and forms their groups.
// A missing units file starts an empty world.
func populate(w *world.World, parties *party.Manager, path string) ([]uint32, error) {
	loaded, err := data.LoadUnitsFile(path)
	if errors.Is(err, os.ErrNotExist) {
		slog.Warn("units file not found, world is empty", "path", path)
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	ids := make([]uint32, 0, len(loaded.Units))
	byID := make(map[uint32]*model.Unit, len(loaded.Units))
	for _, u := range loaded.Units {
		if err := w.AddUnit(u); err != nil {
			return nil, fmt.Errorf("adding unit: %w", err)
		}
		ids = append(ids, u.ObjectID())
		byID[u.ObjectID()] = u
	}

	for _, gd := range loaded.Groups {
		members := make([]*model.Unit, 0, len(gd.Members))
		for _, id := range gd.Members {
			members = append(members, byID[id])
		}
		if _, err := parties.Form(members, gd.Raid); err != nil {
			return nil, err
		}
	}
	slog.Info("world populated", "units", len(ids), "groups", parties.GroupCount())
	return ids, nil
}

// restore reapplies persisted auras of every unit.
func restore(ctx context.Context, mgr *aura.Manager, repo *db.AuraRepository, unitIDs []uint32) error {
	total := 0
	for _, id := range unitIDs {
		saved, err := repo.Load(ctx, id)
		if err != nil {
			return fmt.Errorf("loading auras of unit %d: %w", id, err)
		}
		if len(saved) == 0 {
			continue
		}
		n, err := mgr.LoadAuras(id, saved)
		if err != nil {
			return fmt.Errorf("restoring auras of unit %d: %w", id, err)
		}
		total += n
	}
	slog.Info("auras restored", "count", total)
	return nil
}

// parseLogLevel converts string log level to slog.Level.
// Defaults to Info if invalid or empty.
func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
