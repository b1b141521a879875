package carrier

import "time"

// Tracking status values reported by the gateway.
const (
	TrackStatusTransit   = "TRANSIT"
	TrackStatusInTransit = "IN_TRANSIT"
	TrackStatusDelivered = "DELIVERED"
	TrackStatusReturned  = "RETURNED"
	TrackStatusFailure   = "FAILURE"
)

// LabelStatusSuccess is the provider's status for a successfully purchased
// label.
const LabelStatusSuccess = "SUCCESS"

// IsTransit reports whether a raw tracking status means the package is
// moving. The gateway uses both spellings depending on the carrier.
func IsTransit(status string) bool {
	return status == TrackStatusTransit || status == TrackStatusInTransit
}

type Address struct {
	Company string `json:"company,omitempty"`
	Name    string `json:"name,omitempty"`
	Street1 string `json:"street1"`
	Street2 string `json:"street2,omitempty"`
	City    string `json:"city"`
	State   string `json:"state"`
	Zip     string `json:"zip"`
	Country string `json:"country"`
	Phone   string `json:"phone,omitempty"`
	Email   string `json:"email,omitempty"`
}

type Parcel struct {
	Metadata     string `json:"metadata,omitempty"`
	Length       string `json:"length"`
	Width        string `json:"width"`
	Height       string `json:"height"`
	DistanceUnit string `json:"distance_unit"`
	Weight       string `json:"weight"`
	MassUnit     string `json:"mass_unit"`
}

type CustomsItem struct {
	ObjectId      string `json:"object_id,omitempty"`
	Description   string `json:"description"`
	Quantity      int    `json:"quantity"`
	NetWeight     string `json:"net_weight"`
	MassUnit      string `json:"mass_unit"`
	ValueAmount   string `json:"value_amount"`
	ValueCurrency string `json:"value_currency"`
	OriginCountry string `json:"origin_country"`
}

type CustomsDeclaration struct {
	CertifySigner       string   `json:"certify_signer"`
	Certify             bool     `json:"certify"`
	NonDeliveryOption   string   `json:"non_delivery_option"`
	ContentsType        string   `json:"contents_type"`
	ContentsExplanation string   `json:"contents_explanation"`
	EelPfc              string   `json:"eel_pfc"`
	Items               []string `json:"items"`
}

type ShipmentRequest struct {
	AddressFrom        Address             `json:"address_from"`
	AddressTo          Address             `json:"address_to"`
	Parcels            []Parcel            `json:"parcels"`
	CustomsDeclaration *CustomsDeclaration `json:"customs_declaration,omitempty"`
}

type Rate struct {
	ObjectId    string   `json:"object_id"`
	Provider    string   `json:"provider"`
	AmountLocal string   `json:"amount_local"`
	Attributes  []string `json:"attributes"`
}

type Shipment struct {
	ObjectId string `json:"object_id"`
	Rates    []Rate `json:"rates"`
}

type Label struct {
	ObjectId            string     `json:"object_id"`
	Status              string     `json:"status"`
	TrackingNumber      string     `json:"tracking_number"`
	TrackingUrlProvider string     `json:"tracking_url_provider"`
	TrackingStatus      string     `json:"tracking_status"`
	LabelUrl            string     `json:"label_url"`
	Eta                 *time.Time `json:"eta"`
	Messages            []Message  `json:"messages"`
}

type Message struct {
	Source string `json:"source"`
	Code   string `json:"code"`
	Text   string `json:"text"`
}

type TrackingEvent struct {
	Status        string     `json:"status"`
	StatusDetails string     `json:"status_details"`
	StatusDate    *time.Time `json:"status_date"`
}

type TrackingInfo struct {
	TrackingNumber  string          `json:"tracking_number"`
	TrackingStatus  *TrackingEvent  `json:"tracking_status"`
	TrackingHistory []TrackingEvent `json:"tracking_history"`
	Eta             *time.Time      `json:"eta"`
}

type CarrierAccount struct {
	ObjectId string `json:"object_id"`
	Carrier  string `json:"carrier"`
}

type Location struct {
	BuildingLocationType string  `json:"building_location_type"`
	BuildingType         string  `json:"building_type"`
	Instructions         string  `json:"instructions"`
	Address              Address `json:"address"`
}

type PickupRequest struct {
	CarrierAccount     string    `json:"carrier_account"`
	Location           Location  `json:"location"`
	Transactions       []string  `json:"transactions"`
	RequestedStartTime time.Time `json:"requested_start_time"`
	RequestedEndTime   time.Time `json:"requested_end_time"`
	Metadata           string    `json:"metadata,omitempty"`
}

type Pickup struct {
	ObjectId           string     `json:"object_id"`
	ConfirmationCode   string     `json:"confirmation_code"`
	Status             string     `json:"status"`
	ConfirmedStartTime *time.Time `json:"confirmed_start_time"`
	ConfirmedEndTime   *time.Time `json:"confirmed_end_time"`
	CancelByTime       *time.Time `json:"cancel_by_time"`
	Messages           []Message  `json:"messages"`
}
