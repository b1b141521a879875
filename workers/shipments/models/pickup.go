package models

import "time"

// PackagePickup is one carrier pickup request bundling every shipment that
// was ready to go out. It is created once and only ever appended to.
type PackagePickup struct {
	ID uint `gorm:"primaryKey;autoIncrement"`

	CarrierPickupId  string `gorm:"size:100;not null;unique"`
	ConfirmationCode string `gorm:"size:100"`
	Carrier          string `gorm:"size:50"`
	Status           string `gorm:"size:50"`
	Location         string `gorm:"size:256"`

	// Transactions are the carrier shipment ids included in the pickup;
	// ShipmentLinks are the mirror record ids of the bundled shipments.
	Transactions  []string `gorm:"serializer:json"`
	ShipmentLinks []string `gorm:"serializer:json"`

	RequestedStartTime time.Time
	RequestedEndTime   time.Time
	ConfirmedStartTime *time.Time
	ConfirmedEndTime   *time.Time
	CancelByTime       *time.Time

	Messages string
}
