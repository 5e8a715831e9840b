// Command world is the authoritative simulation process: ECS store,
// command dispatch, persistence manager, and memory store, exposed to
// gateways over the GatewayManagement/SessionToWorld gRPC-shaped contract.
package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"google.golang.org/grpc"
	"google.golang.org/grpc/keepalive"

	"github.com/huhlig/wyldlands-go/internal/config"
	"github.com/huhlig/wyldlands-go/internal/rpcapi"
	"github.com/huhlig/wyldlands-go/internal/world/command"
	"github.com/huhlig/wyldlands-go/internal/world/component"
	"github.com/huhlig/wyldlands-go/internal/world/content"
	"github.com/huhlig/wyldlands-go/internal/world/ecs"
	"github.com/huhlig/wyldlands-go/internal/world/event"
	"github.com/huhlig/wyldlands-go/internal/world/memory"
	"github.com/huhlig/wyldlands-go/internal/world/persist"
	"github.com/huhlig/wyldlands-go/internal/world/rpcserver"
	"github.com/huhlig/wyldlands-go/internal/world/scripting"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

// ── Startup display helpers, adapted from cmd/l1jgo/main.go's
// printBanner/printSection/printStat/printOK/printReady console helpers. ──

func printBanner() {
	fmt.Println()
	fmt.Println("\033[36;1m  ┌───────────────────────────────────────────┐\033[0m")
	fmt.Println("\033[36;1m  │\033[0m           Wyldlands World  v0.1.0         \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  │\033[0m     Authoritative simulation process       \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  └───────────────────────────────────────────┘\033[0m")
	fmt.Println()
}

func printSection(title string) {
	lineLen := 46 - len(title) - 1
	if lineLen < 3 {
		lineLen = 3
	}
	fmt.Printf("  \033[33m── %s %s\033[0m\n", title, strings.Repeat("─", lineLen))
}

func printStat(label string, count int) {
	numStr := fmt.Sprintf("%d", count)
	dotsLen := 42 - len(label) - len(numStr)
	if dotsLen < 3 {
		dotsLen = 3
	}
	fmt.Printf("  %s \033[90m%s\033[0m \033[32m%s\033[0m\n", label, strings.Repeat("·", dotsLen), numStr)
}

func printOK(msg string) {
	fmt.Printf("  \033[32m✓\033[0m %s\n", msg)
}

func printReady(msg string) {
	fmt.Printf("  \033[32m▶\033[0m %s\n", msg)
}

func run() error {
	cfgPath := "config/world.toml"
	if p := os.Getenv("WYLDLANDS_WORLD_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := loadOrDefault(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	printBanner()

	printSection("資料庫")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := persist.NewDB(ctx, persist.Config{
		DSN:             cfg.Database.DSN,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		AutoSaveEvery:   cfg.Server.AutoSaveEvery,
	}, log)
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}
	defer db.Close()
	printOK("PostgreSQL 連線成功")

	if err := persist.RunMigrations(ctx, db.Pool); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}
	printOK("資料庫遷移完成")
	fmt.Println()

	printSection("世界載入")
	world := ecs.NewWorld()
	stores := component.NewStores(world.Registry())
	pm := persist.NewManager(db, world, stores)

	loadResult, err := pm.LoadWorld(ctx, log)
	if err != nil {
		return fmt.Errorf("load world: %w", err)
	}
	printStat("成功載入實體", loadResult.Succeeded)
	if loadResult.Failed > 0 {
		printStat("載入失敗實體", loadResult.Failed)
	}

	bus := event.NewBus()

	scriptEngine, err := scripting.NewEngine(cfg.Scripting.ScriptsDir, log)
	if err != nil {
		return fmt.Errorf("lua engine: %w", err)
	}
	defer scriptEngine.Close()
	printOK("Lua 腳本載入完成")

	helpTopics, err := content.LoadHelpTopics("data/help_topics.yaml")
	if err != nil {
		log.Warn("no help topics file, starting with an empty table", zap.Error(err))
		helpTopics = content.NewEmptyHelpTopics()
	}

	reg := command.NewRegistry()
	command.RegisterCore(reg)
	printStat("註冊指令", len(reg.Visible(command.Admin)))
	fmt.Println()

	embeddings := newEmbeddingProvider(cfg.Embedding)
	memStore := memory.NewStore(db.Pool, memory.Config{
		MaxMemoriesPerEntity:   cfg.Memory.MaxMemoriesPerEntity,
		MaxRecallResults:       cfg.Memory.MaxRecallResults,
		DefaultDecayRate:       cfg.Memory.DefaultDecayRate,
		MinImportanceThreshold: cfg.Memory.MinImportanceThreshold,
		ConsolidationThreshold: cfg.Memory.ConsolidationThreshold,
		SimilarityThreshold:    cfg.Memory.SimilarityThreshold,
	}, embeddings)
	llm := newLLM(cfg.LLM)

	deps := &command.Deps{
		World:   world,
		Stores:  stores,
		Bus:     bus,
		Persist: pm,
		Help:    helpTopics,
		Script:  scriptEngine,
		Memory:  memStore,
		LLM:     llm,
	}

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go pm.RunAutoSaveLoop(rootCtx, cfg.Server.AutoSaveEvery, log)

	lis, err := net.Listen("tcp", cfg.Server.BindAddress)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}

	grpcServer := grpc.NewServer(
		grpc.KeepaliveParams(keepalive.ServerParameters{
			Time:    30 * time.Second,
			Timeout: 10 * time.Second,
		}),
	)
	srv := rpcserver.New(cfg.Server.AuthKey, world, reg, deps, pm, log)
	rpcapi.RegisterGatewayManagementServer(grpcServer, srv)
	rpcapi.RegisterSessionToWorldServer(grpcServer, srv)

	printSection("伺服器就緒")
	printReady(fmt.Sprintf("監聽位址 %s", cfg.Server.BindAddress))
	printReady(fmt.Sprintf("自動儲存間隔 %s", cfg.Server.AutoSaveEvery))
	fmt.Println()

	serveErr := make(chan error, 1)
	go func() { serveErr <- grpcServer.Serve(lis) }()

	select {
	case err := <-serveErr:
		return fmt.Errorf("serve: %w", err)
	case <-rootCtx.Done():
		log.Info("shutdown signal received, flushing dirty set")
		grpcServer.GracefulStop()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()
		pm.AutoSave(shutdownCtx, log)
		log.Info("world server stopped")
		return nil
	}
}

func loadOrDefault(path string) (*config.WorldConfig, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return config.LoadWorld(os.DevNull)
	}
	return config.LoadWorld(path)
}

// newEmbeddingProvider wires the Ollama-backed adapter when enabled in
// config, or the always-failing fallback otherwise (spec §1 treats the
// embedding model runtime itself as an external collaborator).
func newEmbeddingProvider(cfg config.ProviderConfig) memory.EmbeddingProvider {
	if !cfg.Enabled {
		return memory.NoopEmbeddingProvider{}
	}
	return memory.NewOllamaEmbedder(cfg.Model, cfg.BaseURL)
}

func newLLM(cfg config.ProviderConfig) memory.LLM {
	if !cfg.Enabled {
		return nil
	}
	return memory.NewOllamaLLM(cfg.Model, cfg.BaseURL)
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)
	return zapCfg.Build()
}
