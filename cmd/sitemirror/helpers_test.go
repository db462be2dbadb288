package main

import "github.com/nao1215/sitemirror/internal/config"

func newTestConfig() *config.Config {
	cfg := config.NewConfig()
	cfg.StartURL = "https://example.test/"
	return cfg
}
