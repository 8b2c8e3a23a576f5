package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"

	"go.uber.org/zap"

	"github.com/statalabs/stallama/config"
	"github.com/statalabs/stallama/ollama"
	"github.com/statalabs/stallama/server"
)

var version = "dev"

func main() {
	configFlag := flag.String("config", "", "Path to config file (YAML)")
	addrFlag := flag.String("addr", "", "Listen address (overrides config)")
	showVersion := flag.Bool("version", false, "Show version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("stallama-server %s\n", version)
		os.Exit(0)
	}

	log, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "stallama-server: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	cfg, err := config.Load(*configFlag)
	if err != nil {
		log.Fatal("load config", zap.Error(err))
	}
	addr := cfg.Server.Addr
	if *addrFlag != "" {
		addr = *addrFlag
	}

	gen := ollama.NewClient(ollama.Config{
		Host:        cfg.Model.Host,
		Model:       cfg.Model.Name,
		System:      cfg.Prompts.SystemMessage,
		Temperature: cfg.Model.Temperature,
		TopP:        cfg.Model.TopP,
		MaxTokens:   cfg.Model.MaxTokens,
	})

	srv := server.New(gen, log, version)

	log.Info("listening",
		zap.String("addr", addr),
		zap.String("model", gen.Model()),
		zap.String("ollama_host", gen.Host()),
	)
	if err := http.ListenAndServe(addr, srv); err != nil {
		log.Fatal("serve", zap.Error(err))
	}
}
