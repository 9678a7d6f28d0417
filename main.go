// @title MindWell Backend API
// @version 1.0
// @description Self-administered mental-health assessment service with an
// @description offline-synchronized history engine.

// @host localhost:8080
// @BasePath /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

package main

import (
	"flag"
	"log"

	"mindwell_backend/internal/app"
	"mindwell_backend/internal/config"
	"mindwell_backend/pkg/configwatcher"
	"mindwell_backend/pkg/logger"
)

func main() {
	configPath := flag.String("config", "configs", "directory holding config.yaml")
	watch := flag.Bool("watch-config", false, "hot-reload config on file change")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	application := app.NewApp(cfg)
	defer logger.Log.Sync()

	if *watch {
		go configwatcher.WatchConfig(*configPath+"/config.yaml", func(newCfg *config.Config) {
			// Only mutable runtime settings take effect without restart.
			application.Config.Sync = newCfg.Sync
			application.Config.Catalog = newCfg.Catalog
			logger.Log.Info("configuration reloaded")
		})
	}

	application.Run()
}
