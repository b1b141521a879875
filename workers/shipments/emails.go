package shipments

import (
	"fmt"

	"shipment-sync-service/config"
	"shipment-sync-service/workers/shipments/models"
	"shipment-sync-service/workers/shipments/notify"
)

// orderReceivedMessage confirms a new order to the recipient before anything
// ships.
func orderReceivedMessage(sh *models.OutboundShipment, cfg *config.Config) notify.Message {
	return notify.Message{
		Subject: fmt.Sprintf("%s, your order from %s has been received!", sh.Name, cfg.Origin.Company),
		Body: fmt.Sprintf(`Below is the information for your order:

**Contents:**
%s

**Address to:**
%s
%s

You will receive another email once your order has been shipped with your tracking numbers.

If you have any questions or concerns, please respond to this email!
Have a splendid day!

xoxo,
  The Shipping Bot`,
			sh.Contents,
			sh.Name,
			sh.FormatAddress(),
		),
		To: []string{sh.Email},
		Cc: []string{cfg.Origin.Email},
	}
}

// onTheWayMessage tells the recipient their package entered transit. Sent
// exactly once per shipment, on the transition into Shipped.
func onTheWayMessage(sh *models.OutboundShipment, cfg *config.Config) notify.Message {
	return notify.Message{
		Subject: fmt.Sprintf("%s, your package from %s is on the way!", sh.Name, cfg.Origin.Company),
		Body: fmt.Sprintf(`Below is the information for your package:

**Contents:**
%s

**Address to:**
%s
%s

**Tracking link:**
%s

If you have any questions or concerns, please respond to this email!
Have a splendid day!

xoxo,
  The Shipping Bot`,
			sh.Contents,
			sh.Name,
			sh.FormatAddress(),
			sh.BrandedTrackingLink,
		),
		To: []string{sh.Email},
		Cc: []string{cfg.Origin.Email},
	}
}

// packAndShipMessage asks the fulfillment team to pack a shipment whose
// label is already on the printer.
func packAndShipMessage(sh *models.OutboundShipment, cfg *config.Config) notify.Message {
	return notify.Message{
		Subject: fmt.Sprintf("Shipment to %s is ready to be packaged", sh.Name),
		Body: fmt.Sprintf(`Below is the information for the package:

**Contents:**
%s

**Address to:**
%s
%s

**Tracking link:**
%s

The label should already be printed on the cart with the label printers.
Please take the label and affix it to the package with the specified
contents. It can then be dropped off for %s.

xoxo,
  The Shipping Bot`,
			sh.Contents,
			sh.Name,
			sh.FormatAddress(),
			sh.BrandedTrackingLink,
			sh.Carrier,
		),
		To: []string{cfg.Origin.Email},
	}
}
