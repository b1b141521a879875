package shipments

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"shipment-sync-service/config"
	"shipment-sync-service/workers/shipments/carrier"
	"shipment-sync-service/workers/shipments/geocode"
	"shipment-sync-service/workers/shipments/intake"
	"shipment-sync-service/workers/shipments/mirror"
	"shipment-sync-service/workers/shipments/models"
	"shipment-sync-service/workers/shipments/notify"
	"shipment-sync-service/workers/shipments/printer"
)

// Repository is the persistence surface the workers need. Satisfied by
// repositories.Repository.
type Repository interface {
	FindOutboundByKey(email string, createdTime time.Time) (*models.OutboundShipment, error)
	UpsertOutbound(shipment *models.OutboundShipment) error
	UpdateOutbound(shipment *models.OutboundShipment) error
	NonTerminalOutbound() ([]models.OutboundShipment, error)
	PickupCandidates(carrier string) ([]models.OutboundShipment, error)
	CreatePickup(pickup *models.PackagePickup) error

	FindInboundByKey(carrier, trackingNumber string) (*models.InboundShipment, error)
	UpsertInbound(shipment *models.InboundShipment) error
	UpdateInbound(shipment *models.InboundShipment) error
}

// Worker reconciles outbound shipments: it merges intake candidates against
// stored state and drives every open record through the label and tracking
// lifecycle.
type Worker struct {
	logger   *zap.Logger
	cfg      *config.Config
	repo     Repository
	mirror   mirror.Mirror
	gateway  carrier.Gateway
	geocoder geocode.Geocoder
	notifier notify.Notifier
	printer  printer.Printer
	sources  []intake.RowSource

	locks *keyLocks
	busy  bool
}

func NewWorker(
	logger *zap.Logger,
	cfg *config.Config,
	repo Repository,
	mir mirror.Mirror,
	gateway carrier.Gateway,
	geocoder geocode.Geocoder,
	notifier notify.Notifier,
	prn printer.Printer,
	sources []intake.RowSource,
) *Worker {
	return &Worker{
		logger:   logger,
		cfg:      cfg,
		repo:     repo,
		mirror:   mir,
		gateway:  gateway,
		geocoder: geocoder,
		notifier: notifier,
		printer:  prn,
		sources:  sources,
		locks:    newKeyLocks(),
	}
}

func (w *Worker) Schedule() string {
	return "*/30 * * * *"
}

func (w *Worker) Ready(time.Time) bool {
	return !w.busy
}

func (w *Worker) Execute() {
	w.busy = true
	defer func() {
		w.busy = false
	}()

	ctx := context.Background()
	w.logger.Info("Starting outbound shipment reconciliation.")

	w.ingestSources(ctx)

	shipments, err := w.repo.NonTerminalOutbound()
	if err != nil {
		w.logger.Error("Failed to load open outbound shipments", zap.Error(err))
		return
	}

	if len(shipments) == 0 {
		w.logger.Info("No open outbound shipments. Outbound work completed 😴")
		return
	}

	var wg sync.WaitGroup
	for _, shipment := range shipments {
		wg.Add(1)
		go func(sh models.OutboundShipment) {
			defer wg.Done()
			w.processShipment(ctx, sh)
		}(shipment)
	}

	wg.Wait()
	w.logger.Info("Outbound work completed 😴")
}

// ingestSources merges every unfulfilled intake row into the repository.
func (w *Worker) ingestSources(ctx context.Context) {
	for _, source := range w.sources {
		schema := intake.DiscoverSchema(source.Header())

		for _, row := range source.Rows() {
			candidate, fulfilled, err := intake.ParseRow(schema, row)
			if err != nil {
				w.logger.Error("Failed to parse intake row", zap.Error(err))
				continue
			}
			if candidate.Email == "" {
				// Reached the blank tail of the sheet.
				break
			}
			if fulfilled {
				continue
			}

			if err := w.mergeCandidate(ctx, candidate); err != nil {
				w.logger.Error("Failed to merge intake candidate",
					zap.String("email", candidate.Email),
					zap.Error(err),
				)
			}
		}
	}
}

// HandleWebhook merges one webhook-delivered intake event and immediately
// runs the state machine for the merged record.
func (w *Worker) HandleWebhook(ctx context.Context, payload intake.WebhookPayload) error {
	candidate, fulfilled := intake.ParseWebhook(payload)
	if fulfilled || candidate.Email == "" {
		return nil
	}

	if err := w.mergeCandidate(ctx, candidate); err != nil {
		return err
	}

	merged, err := w.repo.FindOutboundByKey(candidate.Email, candidate.CreatedTime)
	if err != nil || merged == nil {
		return err
	}
	w.processShipment(ctx, *merged)
	return nil
}

// mergeCandidate folds a candidate record into repository + mirror state
// under the natural-key lock. New keys are created, known keys merged,
// never duplicated.
func (w *Worker) mergeCandidate(ctx context.Context, candidate models.OutboundShipment) error {
	unlock := w.locks.acquire(candidate.Key())
	defer unlock()

	existing, err := w.repo.FindOutboundByKey(candidate.Email, candidate.CreatedTime)
	if err != nil {
		return err
	}

	if existing == nil {
		candidate.Status = models.StatusQueued
		candidate.Notes = "Automatically generated from the intake form"
		if err := w.repo.UpsertOutbound(&candidate); err != nil {
			return err
		}
		// Confirmation mail is best-effort and only sent on first creation.
		if err := w.notifier.Send(ctx, orderReceivedMessage(&candidate, w.cfg)); err != nil {
			w.logger.Warn("Failed to send order confirmation",
				zap.String("email", candidate.Email),
				zap.Error(err),
			)
		}
		return nil
	}

	w.applyMirrorFields(ctx, existing)
	merged := models.MergeOutbound(candidate, *existing)
	return w.repo.UpsertOutbound(&merged)
}

// applyMirrorFields reads the human-owned fields back from the mirror.
func (w *Worker) applyMirrorFields(ctx context.Context, shipment *models.OutboundShipment) {
	fields, err := w.mirror.GetOutbound(ctx, shipment)
	if err != nil {
		w.logger.Warn("Failed to read mirror record",
			zap.String("email", shipment.Email),
			zap.Error(err),
		)
		return
	}
	if fields == nil {
		return
	}
	shipment.MirrorRecordId = fields.RecordId
	shipment.LocalPickup = fields.LocalPickup
	shipment.PickupLinks = fields.PickupLinks
	if fields.Notes != "" {
		shipment.Notes = fields.Notes
	}
}

// processShipment runs the tracking state machine for one record. Errors are
// isolated to the record: they are logged, the record keeps its last
// checkpointed state, and the next pass retries.
func (w *Worker) processShipment(ctx context.Context, sh models.OutboundShipment) {
	unlock := w.locks.acquire(sh.Key())
	defer unlock()

	w.applyMirrorFields(ctx, &sh)

	if err := w.reconcile(ctx, &sh); err != nil {
		w.logger.Error("Failed to reconcile shipment",
			zap.String("email", sh.Email),
			zap.String("tracking_number", sh.TrackingNumber),
			zap.Error(err),
		)
		return
	}

	w.logger.Info("Shipment successfully reconciled",
		zap.String("email", sh.Email),
		zap.String("status", string(sh.Status)),
	)
}

// persist checkpoints the record: repository first, then the mirror
// projection. A mirror write failure is logged but does not undo the
// checkpoint.
func (w *Worker) persist(ctx context.Context, sh *models.OutboundShipment) error {
	if err := w.repo.UpdateOutbound(sh); err != nil {
		return err
	}
	if err := w.mirror.WriteOutbound(ctx, sh); err != nil {
		w.logger.Warn("Failed to publish shipment to mirror",
			zap.String("email", sh.Email),
			zap.Error(err),
		)
	}
	return nil
}

// keyLocks hands out one mutex per natural key so no two goroutines work the
// same logical shipment at once.
type keyLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newKeyLocks() *keyLocks {
	return &keyLocks{locks: make(map[string]*sync.Mutex)}
}

func (k *keyLocks) acquire(key string) func() {
	k.mu.Lock()
	l, exists := k.locks[key]
	if !exists {
		l = &sync.Mutex{}
		k.locks[key] = l
	}
	k.mu.Unlock()

	l.Lock()
	return l.Unlock
}
