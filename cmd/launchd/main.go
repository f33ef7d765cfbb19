package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"math/big"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"launchpool/config"
	"launchpool/native/launch"
	"launchpool/native/registry"
	"launchpool/native/staking"
	"launchpool/native/treasury"
	"launchpool/observability"
	"launchpool/observability/logging"
	"launchpool/rpc"
	"launchpool/storage"
)

const (
	authSecretEnv = "LAUNCH_AUTH_SECRET"
	adminCapEnv   = "LAUNCH_ADMIN_CAP"
)

func main() {
	configFile := flag.String("config", "./launch.toml", "Path to the configuration file")
	flag.Parse()

	env := strings.TrimSpace(os.Getenv("LAUNCH_ENV"))

	cfg, err := config.Load(*configFile)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}
	logger := logging.Setup("launchd", env, cfg.LogFile)

	db, err := storage.NewLevelDB(cfg.DataDir)
	if err != nil {
		panic(fmt.Sprintf("Failed to open database: %v", err))
	}
	defer db.Close()

	kv := storage.NewKVStore(db)
	store := launch.NewStore(kv)
	pauses := storage.NewPauseSet(kv)

	adminCapID, err := resolveAdminCap(os.Getenv(adminCapEnv))
	if err != nil {
		logger.Error("Failed to resolve admin capability", slog.Any("error", err))
		os.Exit(1)
	}

	stakingAdapter := staking.NewAdapter()
	stakingAdapter.SetEnabled(cfg.StakingEnabled)
	if err := stakingAdapter.SetBackerShareBps(cfg.BackerShareBps); err != nil {
		logger.Error("Invalid staking split", slog.Any("error", err))
		os.Exit(1)
	}
	if err := stakingAdapter.SetStorage(kv); err != nil {
		logger.Error("Failed to restore staking book", slog.Any("error", err))
		os.Exit(1)
	}
	feeVault := treasury.NewVault()
	if err := feeVault.SetStorage(kv); err != nil {
		logger.Error("Failed to restore fee vault", slog.Any("error", err))
		os.Exit(1)
	}

	engine := launch.NewEngine()
	engine.SetState(store)
	engine.SetPauses(pauses)
	engine.SetStaking(stakingAdapter)
	engine.SetTreasury(feeVault)
	engine.SetAdminCap(adminCapID)
	engine.SetEmitter(observability.NewEmitter(nil))
	if err := engine.SetRaiseFeeBps(cfg.RaiseFeeBps); err != nil {
		logger.Error("Invalid raise fee", slog.Any("error", err))
		os.Exit(1)
	}
	engine.SetMinDeposit(big.NewInt(cfg.MinDeposit))

	catalogue := registry.NewRegistry(kv)
	catalogue.SetPauses(pauses)
	catalogue.SetEmitter(observability.NewEmitter(nil))

	authSecret := strings.TrimSpace(os.Getenv(authSecretEnv))
	if authSecret == "" {
		authSecret = cfg.AuthSecret
	}
	if authSecret == "" {
		logger.Warn("Admin routes are unauthenticated; set " + authSecretEnv + " outside development")
	}

	server := rpc.NewServer(rpc.ServerConfig{
		Engine:    engine,
		Registry:  catalogue,
		Logger:    logger,
		Auth:      rpc.AuthConfig{Secret: authSecret},
		RateLimit: cfg.RateLimit,
		RateBurst: cfg.RateBurst,
	})

	httpServer := &http.Server{
		Addr:              cfg.ListenAddress,
		Handler:           server,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("launchd listening",
			slog.String("address", cfg.ListenAddress),
			slog.String("network", cfg.NetworkName))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server failed", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("Shutdown failed", slog.Any("error", err))
	}
	logger.Info("launchd stopped")
}

// resolveAdminCap reads the admin capability identifier from the environment,
// generating an ephemeral one for development when unset. The generated value
// is logged once so local operators can authorise themselves.
func resolveAdminCap(raw string) ([32]byte, error) {
	var out [32]byte
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		if _, err := rand.Read(out[:]); err != nil {
			return out, err
		}
		slog.Warn("Generated ephemeral admin capability", slog.String("adminCap", hex.EncodeToString(out[:])))
		return out, nil
	}
	decoded, err := hex.DecodeString(strings.TrimPrefix(trimmed, "0x"))
	if err != nil {
		return out, fmt.Errorf("launchd: invalid %s: %w", adminCapEnv, err)
	}
	if len(decoded) != 32 {
		return out, fmt.Errorf("launchd: %s must be 32 bytes", adminCapEnv)
	}
	copy(out[:], decoded)
	return out, nil
}
