package models

import (
	"fmt"
	"strings"
)

// CarrierTrackingLink returns the carrier's public tracking page for a
// tracking number, or "" for carriers without a known URL template.
func CarrierTrackingLink(carrier, trackingNumber string) string {
	switch strings.ToLower(carrier) {
	case "usps":
		return fmt.Sprintf("https://tools.usps.com/go/TrackConfirmAction_input?origTrackNum=%s", trackingNumber)
	case "ups":
		return fmt.Sprintf("https://www.ups.com/track?tracknum=%s", trackingNumber)
	case "fedex":
		return fmt.Sprintf("https://www.fedex.com/apps/fedextrack/?tracknumbers=%s", trackingNumber)
	case "dhl":
		return fmt.Sprintf("https://www.dhl.com/en/express/tracking.html?AWB=%s", trackingNumber)
	}
	return ""
}

// BrandedTrackingLink is a pure function of (carrier, tracking number); it is
// the only place the branded link is derived.
func BrandedTrackingLink(domain, carrier, trackingNumber string) string {
	return fmt.Sprintf("https://%s/%s/%s", domain, strings.ToLower(carrier), trackingNumber)
}

// GatewayCarrier normalizes a carrier name to the identifier the tracking
// gateway expects.
func GatewayCarrier(carrier string) string {
	c := strings.ToLower(carrier)
	if c == "dhl" {
		c = "dhl_express"
	}
	return c
}
