package repositories

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"shipment-sync-service/workers/shipments/models"
)

// Repository is the repo for accessing shipments and pickups
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new repository with DB dependency
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindOutboundByKey looks an outbound shipment up by its natural key.
// A missing row is returned as (nil, nil).
func (r *Repository) FindOutboundByKey(email string, createdTime time.Time) (*models.OutboundShipment, error) {
	var shipment models.OutboundShipment
	err := r.db.Where("email = ? AND created_time = ?", email, createdTime).First(&shipment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &shipment, nil
}

// UpsertOutbound creates the row for a new natural key or saves over the
// existing one, so two intake events for the same key never duplicate.
func (r *Repository) UpsertOutbound(shipment *models.OutboundShipment) error {
	existing, err := r.FindOutboundByKey(shipment.Email, shipment.CreatedTime)
	if err != nil {
		return err
	}
	if existing != nil {
		shipment.ID = existing.ID
	}
	return r.db.Save(shipment).Error
}

// UpdateOutbound saves an already-persisted outbound shipment.
func (r *Repository) UpdateOutbound(shipment *models.OutboundShipment) error {
	return r.db.Save(shipment).Error
}

// NonTerminalOutbound returns every outbound shipment still in flight.
func (r *Repository) NonTerminalOutbound() ([]models.OutboundShipment, error) {
	var shipments []models.OutboundShipment
	err := r.db.
		Where("status NOT IN ?", []models.Status{
			models.StatusDelivered,
			models.StatusReturned,
			models.StatusFailure,
			models.StatusPickedUpLocally,
		}).
		Find(&shipments).Error
	return shipments, err
}

// PickupCandidates returns outbound shipments with a printed label, the given
// carrier, and no pickup scheduled yet.
func (r *Repository) PickupCandidates(carrier string) ([]models.OutboundShipment, error) {
	var shipments []models.OutboundShipment
	err := r.db.
		Where("status = ? AND carrier = ? AND pickup_date IS NULL", models.StatusLabelPrinted, carrier).
		Find(&shipments).Error
	return shipments, err
}

// CreatePickup inserts a new package pickup batch.
func (r *Repository) CreatePickup(pickup *models.PackagePickup) error {
	return r.db.Create(pickup).Error
}

// FindInboundByKey looks an inbound shipment up by its natural key.
// A missing row is returned as (nil, nil).
func (r *Repository) FindInboundByKey(carrier, trackingNumber string) (*models.InboundShipment, error) {
	var shipment models.InboundShipment
	err := r.db.Where("carrier = ? AND tracking_number = ?", carrier, trackingNumber).First(&shipment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &shipment, nil
}

// UpsertInbound creates or saves an inbound shipment by natural key.
func (r *Repository) UpsertInbound(shipment *models.InboundShipment) error {
	existing, err := r.FindInboundByKey(shipment.Carrier, shipment.TrackingNumber)
	if err != nil {
		return err
	}
	if existing != nil {
		shipment.ID = existing.ID
	}
	return r.db.Save(shipment).Error
}

// UpdateInbound saves an already-persisted inbound shipment.
func (r *Repository) UpdateInbound(shipment *models.InboundShipment) error {
	return r.db.Save(shipment).Error
}
