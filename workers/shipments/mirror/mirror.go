// Package mirror talks to the collaborative table that humans use to watch
// and annotate shipments. The mirror is co-authoritative: it owns the
// human-edited fields (local pickup, pickup batch links, notes) and receives
// every computed field this service derives.
package mirror

import (
	"context"

	"shipment-sync-service/workers/shipments/models"
)

// OutboundFields are the human-owned fields read back from the mirror.
type OutboundFields struct {
	RecordId    string
	LocalPickup bool
	PickupLinks []string
	Notes       string
}

type Mirror interface {
	// GetOutbound returns the mirror's human-owned fields for one outbound
	// shipment, or nil when the record has never been mirrored.
	GetOutbound(ctx context.Context, shipment *models.OutboundShipment) (*OutboundFields, error)
	// WriteOutbound publishes the computed fields of an outbound shipment,
	// creating the mirror record on first write.
	WriteOutbound(ctx context.Context, shipment *models.OutboundShipment) error
	// ListInbound returns every inbound row humans have entered.
	ListInbound(ctx context.Context) ([]models.InboundShipment, error)
	// WriteInbound publishes the computed fields of an inbound shipment.
	WriteInbound(ctx context.Context, shipment *models.InboundShipment) error
	// LinkPickup appends a pickup batch link to each given mirror record.
	LinkPickup(ctx context.Context, pickup *models.PackagePickup) error
}
