package shipments

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"shipment-sync-service/workers/shipments/carrier"
	"shipment-sync-service/workers/shipments/models"
)

func newPickupHarness() (*PickupWorker, *fakeRepo, *fakeMirror, *fakeGateway) {
	repo := newFakeRepo()
	mir := newFakeMirror()
	gateway := &fakeGateway{
		accounts: []carrier.CarrierAccount{
			{ObjectId: "acct_fedex", Carrier: "FedEx"},
			{ObjectId: "acct_usps", Carrier: "usps"},
		},
		pickup: &carrier.Pickup{
			ObjectId:         "pickup_1",
			ConfirmationCode: "WTC123456789",
			Status:           "SCHEDULED",
		},
	}
	worker := NewPickupWorker(zap.NewNop(), testConfig(), repo, mir, gateway)
	return worker, repo, mir, gateway
}

func printedShipment(email, carrierShipmentId, mirrorRecordId string) *models.OutboundShipment {
	sh := shipmentFixture()
	sh.Email = email
	sh.Status = models.StatusLabelPrinted
	sh.Carrier = "USPS"
	sh.CarrierShipmentId = carrierShipmentId
	sh.MirrorRecordId = mirrorRecordId
	return sh
}

func TestNextBusinessDayMidweek(t *testing.T) {
	// Wednesday noon Pacific.
	now := time.Date(2021, 1, 6, 20, 0, 0, 0, time.UTC)

	start, end := NextBusinessDay(now)

	localStart := start.In(pacific)
	localEnd := end.In(pacific)
	assert.Equal(t, time.Thursday, localStart.Weekday())
	assert.Equal(t, 7, localStart.Day())
	assert.Equal(t, "08:59:59", localStart.Format("15:04:05"))
	assert.Equal(t, "16:59:59", localEnd.Format("15:04:05"))
	assert.Equal(t, localStart.Day(), localEnd.Day())
}

func TestNextBusinessDaySkipsWeekend(t *testing.T) {
	// Friday afternoon Pacific rolls to Monday.
	friday := time.Date(2021, 1, 8, 23, 0, 0, 0, time.UTC)
	start, _ := NextBusinessDay(friday)
	assert.Equal(t, time.Monday, start.In(pacific).Weekday())
	assert.Equal(t, 11, start.In(pacific).Day())

	// Saturday rolls to Monday as well.
	saturday := time.Date(2021, 1, 9, 20, 0, 0, 0, time.UTC)
	start, _ = NextBusinessDay(saturday)
	assert.Equal(t, time.Monday, start.In(pacific).Weekday())
	assert.Equal(t, 11, start.In(pacific).Day())
}

func TestCreatePickupWithoutCandidatesIsNoOp(t *testing.T) {
	worker, repo, _, gateway := newPickupHarness()

	require.NoError(t, worker.CreatePickup(context.Background(), time.Now()))

	assert.Empty(t, gateway.pickupRequests)
	assert.Empty(t, repo.pickups)
}

func TestCreatePickupBundlesAllCandidates(t *testing.T) {
	worker, repo, mir, gateway := newPickupHarness()
	require.NoError(t, repo.UpsertOutbound(printedShipment("a@example.com", "txn_a", "rec_a")))
	require.NoError(t, repo.UpsertOutbound(printedShipment("b@example.com", "txn_b", "rec_b")))

	// Unlabeled and already-scheduled records stay out of the batch.
	queued := shipmentFixture()
	queued.Email = "c@example.com"
	require.NoError(t, repo.UpsertOutbound(queued))

	now := time.Date(2021, 1, 6, 20, 0, 0, 0, time.UTC)
	require.NoError(t, worker.CreatePickup(context.Background(), now))

	require.Len(t, gateway.pickupRequests, 1)
	request := gateway.pickupRequests[0]
	assert.Equal(t, "acct_usps", request.CarrierAccount)
	assert.ElementsMatch(t, []string{"txn_a", "txn_b"}, request.Transactions)
	assert.Equal(t, "Office", request.Location.BuildingLocationType)
	assert.Equal(t, "Example Computer Company", request.Location.Address.Company)

	require.Len(t, repo.pickups, 1)
	batch := repo.pickups[0]
	assert.Equal(t, "pickup_1", batch.CarrierPickupId)
	assert.Equal(t, "WTC123456789", batch.ConfirmationCode)
	assert.Equal(t, "USPS", batch.Carrier)
	assert.ElementsMatch(t, []string{"rec_a", "rec_b"}, batch.ShipmentLinks)

	require.Len(t, mir.linkedPickups, 1)

	// Every bundled shipment is stamped with the window's calendar date.
	wantDate := time.Date(2021, 1, 7, 0, 0, 0, 0, time.UTC)
	for _, email := range []string{"a@example.com", "b@example.com"} {
		sh, err := repo.FindOutboundByKey(email, shipmentFixture().CreatedTime)
		require.NoError(t, err)
		require.NotNil(t, sh.PickupDate, email)
		assert.True(t, sh.PickupDate.Equal(wantDate), email)
	}
	unscheduled, err := repo.FindOutboundByKey("c@example.com", shipmentFixture().CreatedTime)
	require.NoError(t, err)
	assert.Nil(t, unscheduled.PickupDate)
}

func TestCreatePickupRejectedStampsNothing(t *testing.T) {
	worker, repo, mir, gateway := newPickupHarness()
	gateway.pickupErr = errors.New("window unavailable")
	require.NoError(t, repo.UpsertOutbound(printedShipment("a@example.com", "txn_a", "rec_a")))

	err := worker.CreatePickup(context.Background(), time.Now())
	require.Error(t, err)

	assert.Empty(t, repo.pickups)
	assert.Empty(t, mir.linkedPickups)
	sh, findErr := repo.FindOutboundByKey("a@example.com", shipmentFixture().CreatedTime)
	require.NoError(t, findErr)
	assert.Nil(t, sh.PickupDate)
}

func TestCreatePickupWithoutUspsAccountFails(t *testing.T) {
	worker, repo, _, gateway := newPickupHarness()
	gateway.accounts = []carrier.CarrierAccount{{ObjectId: "acct_fedex", Carrier: "FedEx"}}
	require.NoError(t, repo.UpsertOutbound(printedShipment("a@example.com", "txn_a", "rec_a")))

	err := worker.CreatePickup(context.Background(), time.Now())
	require.Error(t, err)
	assert.Empty(t, gateway.pickupRequests)
}
