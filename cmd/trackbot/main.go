package main

import (
	"errors"
	"log"
	"os"

	"github.com/joho/godotenv"

	corecmd "github.com/m3rciful/trackbot/core/cmd"
	"github.com/m3rciful/trackbot/internal/app"
	"github.com/m3rciful/trackbot/internal/config"
)

var errUnexpectedConfig = errors.New("unexpected config type")

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("dotenv load skipped: %v", err)
	}

	err := corecmd.Run(corecmd.Options{
		DefaultConfigPath: "config/config.yaml",
		LoadConfig: func(path string) (corecmd.ConfigCarrier, error) {
			return config.Load(path)
		},
		Bootstrap: func(carrier corecmd.ConfigCarrier) (corecmd.TelegramApp, error) {
			cfg, ok := carrier.(*config.Config)
			if !ok {
				return nil, errUnexpectedConfig
			}
			return app.New(cfg)
		},
	})
	if err != nil {
		log.Fatal(err)
	}
}
