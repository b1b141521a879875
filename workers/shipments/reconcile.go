package shipments

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"shipment-sync-service/config"
	"shipment-sync-service/workers/shipments/carrier"
	"shipment-sync-service/workers/shipments/models"
)

// ratePreference is the ordered list of rate tags we accept, best first.
var ratePreference = []string{"BESTVALUE", "CHEAPEST"}

// reconcile drives one outbound shipment through the tracking state machine.
// Every persist call is a checkpoint: a failure after it leaves the record at
// the last checkpoint and the next pass resumes from there instead of
// repeating completed side effects.
func (w *Worker) reconcile(ctx context.Context, sh *models.OutboundShipment) error {
	sh.AddressFormatted = sh.FormatAddress()

	// (0,0) means the coordinates were never resolved; geocode and
	// checkpoint before any carrier call.
	if sh.Latitude == 0 && sh.Longitude == 0 {
		lat, lng, err := w.geocoder.Lookup(ctx, sh.AddressFormatted)
		if err != nil {
			return fmt.Errorf("geocoding destination: %w", err)
		}
		sh.Latitude = lat
		sh.Longitude = lng
		if err := w.persist(ctx, sh); err != nil {
			return err
		}
	}

	// Picked up at the office, nothing to ship. Re-entrant.
	if sh.LocalPickup {
		sh.Status = models.StatusPickedUpLocally
		return w.persist(ctx, sh)
	}

	if sh.CarrierShipmentId != "" {
		return w.refreshTracking(ctx, sh)
	}
	return w.createLabel(ctx, sh)
}

// refreshTracking updates a labeled shipment from the carrier's tracking
// feed and maps carrier statuses onto the lifecycle.
func (w *Worker) refreshTracking(ctx context.Context, sh *models.OutboundShipment) error {
	info, err := w.gateway.GetTrackingStatus(ctx, models.GatewayCarrier(sh.Carrier), sh.TrackingNumber)
	if err != nil {
		return fmt.Errorf("querying tracking status: %w", err)
	}

	sh.PopulateTrackingLinks(w.cfg.TrackingDomain)
	if info.Eta != nil {
		sh.Eta = info.Eta
	}

	if event := info.TrackingStatus; event != nil {
		sh.TrackingStatus = event.Status
		if sh.Messages == "" {
			sh.Messages = event.StatusDetails
		}

		if carrier.IsTransit(event.Status) {
			// The "on the way" mail goes out exactly once, on the
			// transition into Shipped.
			if sh.Status != models.StatusShipped {
				if err := w.notifier.Send(ctx, onTheWayMessage(sh, w.cfg)); err != nil {
					w.logger.Warn("Failed to send on-the-way notification",
						zap.String("email", sh.Email),
						zap.Error(err),
					)
				}
				if event.StatusDate != nil {
					sh.SetShippedTime(*event.StatusDate)
				}
				sh.Status = models.StatusShipped
			}
		}

		switch event.Status {
		case carrier.TrackStatusDelivered:
			sh.Status = models.StatusDelivered
			sh.DeliveredTime = event.StatusDate
		case carrier.TrackStatusReturned:
			sh.Status = models.StatusReturned
		case carrier.TrackStatusFailure:
			sh.Status = models.StatusFailure
		}
	}

	// The shipped time is the earliest transit timestamp across the full
	// history; it never regresses to a later time.
	for _, event := range info.TrackingHistory {
		if carrier.IsTransit(event.Status) && event.StatusDate != nil {
			sh.SetShippedTime(*event.StatusDate)
		}
	}

	return w.persist(ctx, sh)
}

// createLabel purchases a label for a shipment that has none yet and walks it
// to LabelPrinted.
func (w *Worker) createLabel(ctx context.Context, sh *models.OutboundShipment) error {
	sh.NormalizeCountry()
	if sh.Phone == "" {
		// The carrier requires a contact number; fall back to the office.
		sh.Phone = w.cfg.Origin.Phone
	}

	declaration, err := w.customsDeclaration(ctx, sh)
	if err != nil {
		return err
	}

	shipment, err := w.gateway.CreateShipment(ctx, carrier.ShipmentRequest{
		AddressFrom: originAddress(w.cfg.Origin),
		AddressTo: carrier.Address{
			Name:    sh.Name,
			Street1: sh.Street1,
			Street2: sh.Street2,
			City:    sh.City,
			State:   sh.State,
			Zip:     sh.Zipcode,
			Country: sh.Country,
			Phone:   sh.Phone,
			Email:   sh.Email,
		},
		Parcels: []carrier.Parcel{{
			Metadata:     "Default box for swag",
			Length:       "12",
			Width:        "12",
			Height:       "6",
			DistanceUnit: "in",
			Weight:       "1",
			MassUnit:     "lb",
		}},
		CustomsDeclaration: declaration,
	})
	if err != nil {
		return fmt.Errorf("creating carrier shipment: %w", err)
	}

	rate := pickRate(shipment.Rates)
	if rate == nil {
		// No rate carried a preferred tag; leave the record queued and let
		// a later pass retry rather than buying an unreviewed rate.
		w.logger.Warn("No preferred rate found, skipping label creation",
			zap.String("email", sh.Email),
			zap.Int("rates", len(shipment.Rates)),
		)
		return nil
	}

	label, err := w.gateway.PurchaseLabel(ctx, rate.ObjectId)
	if err != nil {
		return fmt.Errorf("purchasing label: %w", err)
	}

	sh.Carrier = rate.Provider
	if cost, err := strconv.ParseFloat(rate.AmountLocal, 64); err == nil {
		sh.Cost = cost
	}
	sh.TrackingNumber = label.TrackingNumber
	sh.TrackingLink = label.TrackingUrlProvider
	sh.TrackingStatus = label.TrackingStatus
	sh.LabelLink = label.LabelUrl
	sh.Eta = label.Eta
	sh.CarrierShipmentId = label.ObjectId
	sh.Status = models.StatusLabelCreated
	if label.Status != carrier.LabelStatusSuccess {
		sh.Status = models.Status(label.Status)
		sh.Messages = formatMessages(label.Messages)
	}
	sh.BrandedTrackingLink = models.BrandedTrackingLink(w.cfg.TrackingDomain, sh.Carrier, sh.TrackingNumber)

	// Checkpoint: the label purchase must never be repeated.
	if err := w.persist(ctx, sh); err != nil {
		return err
	}

	if _, err := w.gateway.RegisterTrackingWebhook(ctx, models.GatewayCarrier(sh.Carrier), sh.TrackingNumber); err != nil {
		// Tracking still proceeds via polling.
		w.logger.Warn("Registering the tracking webhook failed",
			zap.String("tracking_number", sh.TrackingNumber),
			zap.Error(err),
		)
	}

	if err := w.printer.PrintLabel(ctx, sh.LabelLink); err != nil {
		return fmt.Errorf("printing label: %w", err)
	}
	sh.Status = models.StatusLabelPrinted
	if err := w.persist(ctx, sh); err != nil {
		return err
	}

	if err := w.notifier.Send(ctx, packAndShipMessage(sh, w.cfg)); err != nil {
		w.logger.Warn("Failed to send internal packing notification",
			zap.String("email", sh.Email),
			zap.Error(err),
		)
	}
	return nil
}

// customsDeclaration builds a declaration for non-domestic destinations by
// itemizing the newline-separated content lines.
func (w *Worker) customsDeclaration(ctx context.Context, sh *models.OutboundShipment) (*carrier.CustomsDeclaration, error) {
	if sh.Country == "US" {
		return nil, nil
	}

	declaration := &carrier.CustomsDeclaration{
		CertifySigner:       w.cfg.CustomsSigner,
		Certify:             true,
		NonDeliveryOption:   "RETURN",
		ContentsType:        "GIFT",
		ContentsExplanation: sh.Contents,
		EelPfc:              "NOEEI_30_37_a",
	}

	for _, line := range strings.Split(sh.Contents, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		item, err := w.gateway.CreateCustomsItem(ctx, carrier.CustomsItem{
			Description:   line,
			Quantity:      parseQuantity(line),
			NetWeight:     "0.25",
			MassUnit:      "lb",
			ValueAmount:   "100.00",
			ValueCurrency: "USD",
			OriginCountry: "US",
		})
		if err != nil {
			return nil, fmt.Errorf("creating customs item: %w", err)
		}
		declaration.Items = append(declaration.Items, item.ObjectId)
	}

	return declaration, nil
}

// parseQuantity reads the leading "N x " quantity prefix of a content line.
// Malformed lines count as a single item.
func parseQuantity(line string) int {
	prefix, _, found := strings.Cut(line, " x ")
	if !found {
		return 1
	}
	quantity, err := strconv.Atoi(strings.TrimSpace(prefix))
	if err != nil || quantity < 1 {
		return 1
	}
	return quantity
}

// pickRate walks the preference tags in priority order and returns the first
// matching rate, or nil when nothing is tagged.
func pickRate(rates []carrier.Rate) *carrier.Rate {
	for _, tag := range ratePreference {
		for i := range rates {
			for _, attribute := range rates[i].Attributes {
				if attribute == tag {
					return &rates[i]
				}
			}
		}
	}
	return nil
}

func originAddress(origin *config.OriginAddress) carrier.Address {
	return carrier.Address{
		Company: origin.Company,
		Name:    origin.Name,
		Street1: origin.Street1,
		Street2: origin.Street2,
		City:    origin.City,
		State:   origin.State,
		Zip:     origin.Zip,
		Country: origin.Country,
		Phone:   origin.Phone,
		Email:   origin.Email,
	}
}

func formatMessages(messages []carrier.Message) string {
	var lines []string
	for _, m := range messages {
		lines = append(lines, strings.TrimSpace(fmt.Sprintf("%s %s: %s", m.Source, m.Code, m.Text)))
	}
	return strings.Join(lines, "\n")
}
