package main

import (
	"github.com/cur8t/agents/internal/config"
	"github.com/cur8t/agents/internal/entrypoint"
)

// Version information - set at build time via ldflags
var (
	Version = "dev"
)

func main() {
	cfg := config.NewConfig()
	entrypoint.Run(cfg, Version)
}
