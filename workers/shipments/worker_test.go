package shipments

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shipment-sync-service/workers/shipments/carrier"
	"shipment-sync-service/workers/shipments/intake"
	"shipment-sync-service/workers/shipments/models"
)

func ptr[T any](v T) *T { return &v }

func webhookFixture() intake.WebhookPayload {
	created := time.Date(2021, 3, 1, 18, 0, 0, 0, time.UTC)
	return intake.WebhookPayload{
		Timestamp: &created,
		Name:      ptr("Grace Hopper"),
		Email:     ptr("grace@example.com"),
		Phone:     ptr("+15035550123"),
		Street1:   ptr("1 navy way"),
		City:      ptr("arlington"),
		State:     ptr("va"),
		Zipcode:   ptr("22202"),
		Sizes:     &intake.WebhookSizes{Hoodie: ptr("S")},
	}
}

func TestHandleWebhookCreatesAndReconcilesImmediately(t *testing.T) {
	h := newTestHarness()
	h.gateway.rates = []carrier.Rate{
		{ObjectId: "rate_best", Provider: "USPS", AmountLocal: "7.08", Attributes: []string{"BESTVALUE"}},
	}
	h.gateway.label = &carrier.Label{
		ObjectId:       "txn_1",
		Status:         carrier.LabelStatusSuccess,
		TrackingNumber: "9400100000000000000001",
		LabelUrl:       "https://deliver.example.com/label.pdf",
	}

	payload := webhookFixture()
	require.NoError(t, h.worker.HandleWebhook(context.Background(), payload))

	stored, err := h.repo.FindOutboundByKey("grace@example.com", *payload.Timestamp)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, models.StatusLabelPrinted, stored.Status)
	assert.Equal(t, "txn_1", stored.CarrierShipmentId)
	assert.Equal(t, 1, h.geocoder.lookups)
	require.Equal(t, []string{"rate_best"}, h.gateway.purchasedRates)

	// Order confirmation on creation, then the internal packing mail.
	subjects := h.notifier.subjects()
	require.Len(t, subjects, 2)
	assert.Contains(t, subjects[0], "has been received")
	assert.Contains(t, subjects[1], "ready to be packaged")
}

func TestHandleWebhookSkipsFulfilledSubmissions(t *testing.T) {
	h := newTestHarness()

	payload := webhookFixture()
	payload.Fulfilled = ptr(true)
	require.NoError(t, h.worker.HandleWebhook(context.Background(), payload))

	stored, err := h.repo.FindOutboundByKey("grace@example.com", *payload.Timestamp)
	require.NoError(t, err)
	assert.Nil(t, stored)
	assert.Empty(t, h.gateway.shipmentRequests)
	assert.Empty(t, h.notifier.messages)
}

func TestHandleWebhookSkipsPayloadsWithoutEmail(t *testing.T) {
	h := newTestHarness()

	payload := webhookFixture()
	payload.Email = nil
	require.NoError(t, h.worker.HandleWebhook(context.Background(), payload))

	assert.Empty(t, h.repo.outbound)
	assert.Empty(t, h.gateway.shipmentRequests)
	assert.Empty(t, h.notifier.messages)
}
