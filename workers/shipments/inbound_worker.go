package shipments

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"shipment-sync-service/config"
	"shipment-sync-service/workers/shipments/carrier"
	"shipment-sync-service/workers/shipments/carrier/scrape"
	"shipment-sync-service/workers/shipments/mirror"
	"shipment-sync-service/workers/shipments/models"
)

// InboundWorker reconciles packages on their way to us. Inbound rows are
// entered by humans in the mirror; this worker only enriches them with the
// carrier's tracking feed.
type InboundWorker struct {
	logger  *zap.Logger
	cfg     *config.Config
	repo    Repository
	mirror  mirror.Mirror
	gateway carrier.Gateway
	scraper *scrape.Scraper

	locks *keyLocks
	busy  bool
}

func NewInboundWorker(
	logger *zap.Logger,
	cfg *config.Config,
	repo Repository,
	mir mirror.Mirror,
	gateway carrier.Gateway,
	scraper *scrape.Scraper,
) *InboundWorker {
	return &InboundWorker{
		logger:  logger,
		cfg:     cfg,
		repo:    repo,
		mirror:  mir,
		gateway: gateway,
		scraper: scraper,
		locks:   newKeyLocks(),
	}
}

func (w *InboundWorker) Schedule() string {
	return "15 * * * *"
}

func (w *InboundWorker) Ready(time.Time) bool {
	return !w.busy
}

func (w *InboundWorker) Execute() {
	w.busy = true
	defer func() {
		w.busy = false
	}()

	ctx := context.Background()
	w.logger.Info("Starting inbound shipment reconciliation.")

	candidates, err := w.mirror.ListInbound(ctx)
	if err != nil {
		w.logger.Error("Failed to list inbound records from mirror", zap.Error(err))
		return
	}

	var wg sync.WaitGroup
	for _, candidate := range candidates {
		if candidate.Carrier == "" || candidate.TrackingNumber == "" {
			// Blank row, a human is still filling it in.
			continue
		}

		wg.Add(1)
		go func(c models.InboundShipment) {
			defer wg.Done()
			if err := w.processShipment(ctx, c); err != nil {
				w.logger.Error("Failed to reconcile inbound shipment",
					zap.String("tracking_number", c.TrackingNumber),
					zap.String("carrier", c.Carrier),
					zap.Error(err),
				)
			}
		}(candidate)
	}

	wg.Wait()
	w.logger.Info("Inbound work completed 😴")
}

func (w *InboundWorker) processShipment(ctx context.Context, candidate models.InboundShipment) error {
	unlock := w.locks.acquire(candidate.Key())
	defer unlock()

	existing, err := w.repo.FindInboundByKey(candidate.Carrier, candidate.TrackingNumber)
	if err != nil {
		return err
	}

	shipment := candidate
	if existing != nil {
		shipment = models.MergeInbound(candidate, *existing)
	}
	if shipment.MirrorRecordId == "" {
		shipment.MirrorRecordId = candidate.MirrorRecordId
	}

	if err := w.expand(ctx, &shipment); err != nil {
		return err
	}

	if err := w.repo.UpsertInbound(&shipment); err != nil {
		return err
	}
	if err := w.mirror.WriteInbound(ctx, &shipment); err != nil {
		w.logger.Warn("Failed to publish inbound shipment to mirror",
			zap.String("tracking_number", shipment.TrackingNumber),
			zap.Error(err),
		)
	}
	return nil
}

// expand fills in the tracking details from the gateway, falling back to
// scraping the carrier's public page when the gateway has no coverage.
func (w *InboundWorker) expand(ctx context.Context, sh *models.InboundShipment) error {
	sh.PopulateTrackingLinks(w.cfg.TrackingDomain)

	info, err := w.gateway.GetTrackingStatus(ctx, models.GatewayCarrier(sh.Carrier), sh.TrackingNumber)
	if errors.Is(err, carrier.ErrUnsupportedCarrier) {
		return w.expandFromScrape(sh)
	}
	if err != nil {
		return fmt.Errorf("querying tracking status: %w", err)
	}

	if info.TrackingNumber != "" {
		sh.TrackingNumber = info.TrackingNumber
	}
	sh.Eta = info.Eta

	if event := info.TrackingStatus; event != nil {
		sh.TrackingStatus = event.Status
		sh.Messages = event.StatusDetails
		if event.Status == carrier.TrackStatusDelivered {
			sh.DeliveredTime = event.StatusDate
		}
	}

	// Earliest transit timestamp wins; a set shipped time never moves later.
	for _, event := range info.TrackingHistory {
		if carrier.IsTransit(event.Status) && event.StatusDate != nil {
			sh.SetShippedTime(*event.StatusDate)
		}
	}
	return nil
}

func (w *InboundWorker) expandFromScrape(sh *models.InboundShipment) error {
	result, err := w.scraper.Track(sh.TrackingLink)
	if err != nil {
		return fmt.Errorf("scraping tracking page: %w", err)
	}

	sh.TrackingStatus = result.Status
	if result.StatusDetails != "" {
		sh.Messages = result.StatusDetails
	}
	if result.DeliveredTime != nil {
		sh.DeliveredTime = result.DeliveredTime
	}
	return nil
}
