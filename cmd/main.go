package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/duoquiz/duoquiz/internal/config"
	"github.com/duoquiz/duoquiz/internal/server"
)

const defaultConfigPath = "configs/duoquiz.yaml"

func main() {
	if err := run(); err != nil {
		log.Fatalf("duoquiz: %v", err)
	}
}

func run() error {
	var c server.Config

	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = defaultConfigPath
	}
	if err := config.Load(path, &c); err != nil {
		return fmt.Errorf("load config %s: %w", path, err)
	}

	s, err := server.Init(c)
	if err != nil {
		return fmt.Errorf("init server: %w", err)
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGTERM, os.Interrupt)

	go s.Start()

	<-stop
	s.Shutdown()
	return nil
}
