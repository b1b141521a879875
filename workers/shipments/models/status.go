package models

// Status is the lifecycle state of an outbound shipment.
type Status string

const (
	StatusQueued          Status = "Queued"
	StatusLabelCreated    Status = "Label created"
	StatusLabelPrinted    Status = "Label printed"
	StatusShipped         Status = "Shipped"
	StatusDelivered       Status = "Delivered"
	StatusReturned        Status = "Returned"
	StatusFailure         Status = "Failure"
	StatusPickedUpLocally Status = "Picked up"
)

// IsTerminal reports whether no further carrier-driven transition applies.
func (s Status) IsTerminal() bool {
	switch s {
	case StatusDelivered, StatusReturned, StatusFailure, StatusPickedUpLocally:
		return true
	}
	return false
}
