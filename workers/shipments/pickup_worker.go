package shipments

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"shipment-sync-service/config"
	"shipment-sync-service/workers/shipments/carrier"
	"shipment-sync-service/workers/shipments/mirror"
	"shipment-sync-service/workers/shipments/models"
)

// Pickups are scheduled at the office, which runs on Pacific time.
var pacific = loadPacific()

func loadPacific() *time.Location {
	loc, err := time.LoadLocation("America/Los_Angeles")
	if err != nil {
		return time.FixedZone("PST", -8*60*60)
	}
	return loc
}

// PickupWorker batches every labeled-but-unscheduled USPS shipment into one
// carrier pickup for the next business day.
type PickupWorker struct {
	logger  *zap.Logger
	cfg     *config.Config
	repo    Repository
	mirror  mirror.Mirror
	gateway carrier.Gateway

	busy bool
}

func NewPickupWorker(
	logger *zap.Logger,
	cfg *config.Config,
	repo Repository,
	mir mirror.Mirror,
	gateway carrier.Gateway,
) *PickupWorker {
	return &PickupWorker{
		logger:  logger,
		cfg:     cfg,
		repo:    repo,
		mirror:  mir,
		gateway: gateway,
	}
}

func (w *PickupWorker) Schedule() string {
	// Once per weekday afternoon, after the day's labels are printed.
	return "0 15 * * 1-5"
}

func (w *PickupWorker) Ready(time.Time) bool {
	return !w.busy
}

func (w *PickupWorker) Execute() {
	w.busy = true
	defer func() {
		w.busy = false
	}()

	if err := w.CreatePickup(context.Background(), time.Now()); err != nil {
		w.logger.Error("Failed to create package pickup", zap.Error(err))
	}
}

// CreatePickup submits one pickup request bundling every candidate shipment.
// The batch is all-or-nothing: a rejected request stamps no shipment.
func (w *PickupWorker) CreatePickup(ctx context.Context, now time.Time) error {
	shipments, err := w.repo.PickupCandidates("USPS")
	if err != nil {
		return err
	}
	if len(shipments) == 0 {
		return nil
	}

	var transactions []string
	var shipmentLinks []string
	for _, shipment := range shipments {
		w.logger.Info("Adding shipment to pickup", zap.String("name", shipment.Name))
		transactions = append(transactions, shipment.CarrierShipmentId)
		shipmentLinks = append(shipmentLinks, shipment.MirrorRecordId)
	}

	accountId, err := w.uspsAccountId(ctx)
	if err != nil {
		// A missing carrier account is a configuration fault, not a
		// retryable condition.
		return err
	}

	startTime, endTime := NextBusinessDay(now)
	year, month, day := startTime.In(pacific).Date()
	pickupDate := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)

	pickup, err := w.gateway.CreatePickup(ctx, carrier.PickupRequest{
		CarrierAccount: accountId,
		Location: carrier.Location{
			BuildingLocationType: "Office",
			BuildingType:         "building",
			Instructions:         "Knock on the glass door and someone will come open it.",
			Address:              originAddress(w.cfg.Origin),
		},
		Transactions:       transactions,
		RequestedStartTime: startTime,
		RequestedEndTime:   endTime,
	})
	if err != nil {
		return fmt.Errorf("requesting carrier pickup: %w", err)
	}

	batch := &models.PackagePickup{
		CarrierPickupId:    pickup.ObjectId,
		ConfirmationCode:   pickup.ConfirmationCode,
		Carrier:            "USPS",
		Status:             pickup.Status,
		Location:           w.cfg.Origin.Company,
		Transactions:       transactions,
		ShipmentLinks:      shipmentLinks,
		RequestedStartTime: startTime,
		RequestedEndTime:   endTime,
		ConfirmedStartTime: pickup.ConfirmedStartTime,
		ConfirmedEndTime:   pickup.ConfirmedEndTime,
		CancelByTime:       pickup.CancelByTime,
		Messages:           formatMessages(pickup.Messages),
	}
	if err := w.repo.CreatePickup(batch); err != nil {
		return err
	}

	if err := w.mirror.LinkPickup(ctx, batch); err != nil {
		w.logger.Warn("Failed to link pickup batch on mirror", zap.Error(err))
	}

	for i := range shipments {
		shipments[i].PickupDate = &pickupDate
		if err := w.repo.UpdateOutbound(&shipments[i]); err != nil {
			w.logger.Error("Failed to stamp pickup date",
				zap.String("email", shipments[i].Email),
				zap.Error(err),
			)
		}
	}
	return nil
}

// uspsAccountId resolves the carrier account for USPS, first
// case-insensitive match wins.
func (w *PickupWorker) uspsAccountId(ctx context.Context) (string, error) {
	accounts, err := w.gateway.ListCarrierAccounts(ctx)
	if err != nil {
		return "", fmt.Errorf("listing carrier accounts: %w", err)
	}
	for _, account := range accounts {
		if strings.EqualFold(account.Carrier, "usps") {
			return account.ObjectId, nil
		}
	}
	return "", fmt.Errorf("carrier account id for usps cannot be empty")
}

// NextBusinessDay returns tomorrow's pickup window in Pacific time, shifted
// past weekends, as 08:59:59 to 16:59:59 local.
func NextBusinessDay(now time.Time) (time.Time, time.Time) {
	local := now.In(pacific)

	next := local.AddDate(0, 0, 1)
	switch next.Weekday() {
	case time.Saturday:
		next = local.AddDate(0, 0, 3)
	case time.Sunday:
		next = local.AddDate(0, 0, 2)
	}

	startTime := time.Date(next.Year(), next.Month(), next.Day(), 8, 59, 59, 0, pacific)
	endTime := time.Date(next.Year(), next.Month(), next.Day(), 16, 59, 59, 0, pacific)

	return startTime.UTC(), endTime.UTC()
}
