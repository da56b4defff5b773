package main

import (
	"time"

	"github.com/botanika/portal/config"
	"github.com/botanika/portal/content"
	"github.com/botanika/portal/routes"
	"github.com/botanika/portal/store"
	"github.com/botanika/portal/utils"
)

func main() {
	cfg := config.Load()

	// Initialize logger early
	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}

	lib, err := content.Load(cfg.ContentPath)
	if err != nil {
		utils.Sugar.Fatalf("failed to load portal content: %v", err)
	}

	storeClient := store.NewClient(cfg.StoreBaseURL, time.Duration(cfg.StoreTimeoutSeconds)*time.Second)

	r := routes.SetupRouter(storeClient, lib)

	utils.Sugar.Infof("Starting server on port %s (graceful)", cfg.AppPort)
	if err := utils.GraceServer(":"+cfg.AppPort, r); err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}
