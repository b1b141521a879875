package intake

import (
	"fmt"
	"strings"
	"time"

	"shipment-sync-service/workers/shipments/models"
)

// WebhookPayload is one form-submission event delivered by the intake
// provider. Every mergeable field is a pointer: absent fields stay nil and
// come out of the adapter as zero values, so the merge gap-fill rule applies.
type WebhookPayload struct {
	Timestamp *time.Time    `json:"timestamp"`
	Name      *string       `json:"name"`
	Email     *string       `json:"email"`
	Phone     *string       `json:"phone"`
	Street1   *string       `json:"street_1"`
	Street2   *string       `json:"street_2"`
	City      *string       `json:"city"`
	State     *string       `json:"state"`
	Zipcode   *string       `json:"zipcode"`
	Country   *string       `json:"country"`
	Sizes     *WebhookSizes `json:"sizes"`
	Fulfilled *bool         `json:"fulfilled"`
}

// WebhookSizes groups the per-item size selections of a submission.
type WebhookSizes struct {
	Hoodie      *string `json:"hoodie"`
	Fleece      *string `json:"fleece"`
	WomensShirt *string `json:"womens_shirt"`
	UnisexShirt *string `json:"unisex_shirt"`
	KidsShirt   *string `json:"kids_shirt"`
}

// ParseWebhook maps a webhook payload to the same candidate shape the row
// adapter produces. Pure transform, no network.
func ParseWebhook(payload WebhookPayload) (models.OutboundShipment, bool) {
	shipment := models.OutboundShipment{
		Name:    deref(payload.Name),
		Email:   strings.ToLower(deref(payload.Email)),
		Phone:   strings.ToLower(deref(payload.Phone)),
		Street1: strings.ToUpper(deref(payload.Street1)),
		Street2: strings.ToUpper(deref(payload.Street2)),
		City:    strings.ToUpper(deref(payload.City)),
		State:   strings.ToUpper(deref(payload.State)),
		Zipcode: strings.ToUpper(deref(payload.Zipcode)),
		Country: strings.ToUpper(deref(payload.Country)),
	}
	if payload.Timestamp != nil {
		shipment.CreatedTime = payload.Timestamp.UTC()
	}
	shipment.NormalizeCountry()

	if payload.Sizes != nil {
		var contents []string
		for _, entry := range []struct {
			label string
			size  *string
		}{
			{"Hoodie", payload.Sizes.Hoodie},
			{"Fleece", payload.Sizes.Fleece},
			{"Women's Shirt", payload.Sizes.WomensShirt},
			{"Unisex Shirt", payload.Sizes.UnisexShirt},
			{"Kids Shirt", payload.Sizes.KidsShirt},
		} {
			size := strings.ToUpper(strings.TrimSpace(deref(entry.size)))
			if size == "" || strings.Contains(size, "N/A") {
				continue
			}
			contents = append(contents, fmt.Sprintf("1 x %s, Size: %s", entry.label, size))
		}
		shipment.Contents = strings.Join(contents, "\n")
	}

	fulfilled := payload.Fulfilled != nil && *payload.Fulfilled
	return shipment, fulfilled
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}
