package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/jimelj/machine-scheduler/internal/config"
	"github.com/jimelj/machine-scheduler/internal/server"
	"github.com/jimelj/machine-scheduler/internal/util"
)

var (
	port      = flag.Int("port", 0, "server port (overrides config.toml)")
	devMode   = flag.Bool("dev", false, "development mode")
	dataDir   = flag.String("dataDir", "", "data directory (overrides config.toml)")
	noBrowser = flag.Bool("no-browser", false, "do not open the browser on startup")
)

func main() {
	flag.Parse()

	// Optional .env for local overrides; absence is fine.
	_ = godotenv.Load()

	fmt.Println("==========================================")
	fmt.Println("  Machine Scheduler - Pick List Balancer")
	fmt.Println("==========================================")

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Printf("failed to load config, using defaults: %v", err)
		cfg = config.DefaultConfig()
	}

	if *port > 0 {
		cfg.Server.Port = *port
	}
	if *devMode {
		cfg.Server.DevMode = true
	}
	if *dataDir != "" {
		cfg.Data.DataDir = *dataDir
	}

	if dir, err := config.EnsureDataDir(cfg); err != nil {
		log.Printf("failed to create data directory: %v", err)
	} else {
		fmt.Printf("data directory: %s\n", dir)
	}

	srv := server.NewServer(cfg)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	url := fmt.Sprintf("http://localhost:%d", cfg.Server.Port)

	go func() {
		fmt.Printf("listening on port %d ...\n", cfg.Server.Port)
		if err := srv.Run(addr); err != nil {
			log.Fatalf("server failed: %v", err)
		}
	}()

	if !cfg.Server.DevMode && !*noBrowser {
		if err := util.OpenBrowserWithFallback(url); err != nil {
			fmt.Printf("could not open browser, visit %s\n", url)
		}
	} else {
		fmt.Printf("visit %s\n", url)
	}

	fmt.Println("\npress Ctrl+C to stop...")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	fmt.Println("\nshutting down...")
}
