// Command gateway is the client-facing process: it accepts raw connections,
// runs each one through the session state machine, and forwards Playing-state
// input to the world process over the RPC client manager.
package main

import (
	"bufio"
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/huhlig/wyldlands-go/internal/config"
	"github.com/huhlig/wyldlands-go/internal/gateway/rpcclient"
	"github.com/huhlig/wyldlands-go/internal/gateway/session"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func printBanner() {
	fmt.Println()
	fmt.Println("\033[36;1m  ┌───────────────────────────────────────────┐\033[0m")
	fmt.Println("\033[36;1m  │\033[0m          Wyldlands Gateway  v0.1.0         \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  │\033[0m       Session frontend process              \033[36;1m│\033[0m")
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

func printOK(msg string) {
	fmt.Printf("  \033[32m✓\033[0m %s\n", msg)
}

func printReady(msg string) {
	fmt.Printf("  \033[32m▶\033[0m %s\n", msg)
}

func run() error {
	cfgPath := "config/gateway.toml"
	if p := os.Getenv("WYLDLANDS_GATEWAY_CONFIG"); p != "" {
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

	printSection("世界連線")
	manager := rpcclient.New(cfg.World, log)

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		manager.Run(rootCtx)
	}()
	printOK(fmt.Sprintf("連線管理員啟動，目標 %s", cfg.World.Address))
	fmt.Println()

	lis, err := net.Listen("tcp", cfg.Server.BindAddress)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}

	printSection("伺服器就緒")
	printReady(fmt.Sprintf("監聽位址 %s", cfg.Server.BindAddress))
	fmt.Println()

	var nextID int64
	var connWG sync.WaitGroup

	acceptErr := make(chan error, 1)
	go func() {
		for {
			conn, err := lis.Accept()
			if err != nil {
				acceptErr <- err
				return
			}
			id := strconv.FormatInt(atomic.AddInt64(&nextID, 1), 10)
			connWG.Add(1)
			go func() {
				defer connWG.Done()
				serveConn(rootCtx, conn, id, manager, cfg.Server, log)
			}()
		}
	}()

	select {
	case err := <-acceptErr:
		if rootCtx.Err() != nil {
			log.Info("listener closed on shutdown")
			break
		}
		return fmt.Errorf("accept: %w", err)
	case <-rootCtx.Done():
		log.Info("shutdown signal received, closing listener")
	}

	lis.Close()
	connWG.Wait()
	wg.Wait()
	log.Info("gateway stopped")
	return nil
}

// serveConn drives one accepted connection through its Session state
// machine. Telnet byte-level concerns (IAC negotiation, IAC escaping,
// character-at-a-time delivery while Editing) are not handled here: this
// reads whole lines with a bufio.Scanner, which covers every state this
// gateway implements except the Editing character-mode contract.
func serveConn(ctx context.Context, conn net.Conn, id string, manager *rpcclient.Manager, cfg config.GatewayServerConfig, log *zap.Logger) {
	defer conn.Close()

	sess := session.New(id, conn.RemoteAddr().String(), manager, cfg, log)
	reader := bufio.NewScanner(conn)
	reader.Buffer(make([]byte, 4096), 64*1024)

	writeLine := func(text string) bool {
		if text == "" {
			return true
		}
		if cfg.WriteTimeout > 0 {
			conn.SetWriteDeadline(time.Now().Add(cfg.WriteTimeout))
		}
		_, err := conn.Write([]byte(text))
		if err != nil {
			log.Debug("write failed, disconnecting session", zap.String("session", id), zap.Error(err))
			return false
		}
		return true
	}

	if !writeLine(sess.HandleLine(ctx, "")) {
		return
	}

	for reader.Scan() {
		if cfg.ReadTimeout > 0 {
			conn.SetReadDeadline(time.Now().Add(cfg.ReadTimeout))
		}
		reply := sess.HandleLine(ctx, reader.Text())
		if sess.State == session.StateDisconnected {
			writeLine(reply)
			return
		}
		if !writeLine(reply) {
			sess.Disconnect()
			return
		}
	}
	sess.Disconnect()
}

func loadOrDefault(path string) (*config.GatewayConfig, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return config.LoadGateway(os.DevNull)
	}
	return config.LoadGateway(path)
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
