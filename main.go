package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"shipment-sync-service/config"
	"shipment-sync-service/core"
	"shipment-sync-service/workers/shipments"
	"shipment-sync-service/workers/shipments/carrier"
	"shipment-sync-service/workers/shipments/carrier/scrape"
	"shipment-sync-service/workers/shipments/geocode"
	"shipment-sync-service/workers/shipments/intake"
	"shipment-sync-service/workers/shipments/mirror"
	"shipment-sync-service/workers/shipments/models"
	"shipment-sync-service/workers/shipments/notify"
	"shipment-sync-service/workers/shipments/printer"
	"shipment-sync-service/workers/shipments/repositories"
)

func main() {
	cfg := config.LoadConfig()

	logger, err := core.NewLogger(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	db, err := gorm.Open(postgres.Open(cfg.DSN), &gorm.Config{})
	if err != nil {
		log.Fatal(err)
	}

	if err := db.AutoMigrate(
		&models.OutboundShipment{},
		&models.InboundShipment{},
		&models.PackagePickup{},
	); err != nil {
		log.Fatal(err)
	}

	repo := repositories.NewRepository(db)
	mirrorClient := mirror.NewClient(cfg.MirrorApi)
	gateway := carrier.NewClient(cfg.CarrierApi)
	geocoder := geocode.NewClient(cfg.GeocodeApi)
	notifier := notify.NewClient(cfg.MailerApi)
	labelPrinter := printer.NewClient(cfg.PrinterUrl)
	scraper := scrape.NewScraper(logger)

	var sources []intake.RowSource
	for _, path := range cfg.IntakeExports {
		source, err := intake.NewCSVSource(path)
		if err != nil {
			logger.Error("Failed to load intake export", zap.String("path", path), zap.Error(err))
			continue
		}
		sources = append(sources, source)
	}

	orchestrator := core.NewOrchestrator(logger, []core.Worker{
		shipments.NewWorker(logger, cfg, repo, mirrorClient, gateway, geocoder, notifier, labelPrinter, sources),
		shipments.NewInboundWorker(logger, cfg, repo, mirrorClient, gateway, scraper),
		shipments.NewPickupWorker(logger, cfg, repo, mirrorClient, gateway),
	})

	c, err := orchestrator.Start(context.Background())
	if err != nil {
		log.Fatal(err)
	}
	defer c.Stop()

	// Wait for termination signal to exit gracefully
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
}
