package main

import (
	"os"

	"ecbrates/internal/app"
	"ecbrates/internal/config"

	"github.com/sirupsen/logrus"
)

// @title ECB Rates API
// @version 1.0
// @description Euro foreign exchange reference rates with cross rates and conversion.
// @BasePath /api/v1
func main() {
	configFile := os.Getenv("CONFIG_FILE")
	if configFile == "" {
		configFile = config.DefaultConfigFile
	}
	if err := app.Run(configFile); err != nil {
		logrus.WithError(err).Fatal("Application stopped with error")
	}
}
