package shipments

import (
	"context"
	"fmt"
	"sync"
	"time"

	"shipment-sync-service/config"
	"shipment-sync-service/workers/shipments/carrier"
	"shipment-sync-service/workers/shipments/mirror"
	"shipment-sync-service/workers/shipments/models"
	"shipment-sync-service/workers/shipments/notify"
)

func testConfig() *config.Config {
	return &config.Config{
		TrackingDomain: "track.example.com",
		CustomsSigner:  "Jane Doe",
		Origin: &config.OriginAddress{
			Company: "Example Computer Company",
			Name:    "The Shipping Bot",
			Street1: "1 Factory Row",
			City:    "Emeryville",
			State:   "CA",
			Zip:     "94608",
			Country: "US",
			Phone:   "+15105550100",
			Email:   "packages@example.com",
		},
	}
}

type fakeRepo struct {
	mu       sync.Mutex
	outbound map[string]*models.OutboundShipment
	inbound  map[string]*models.InboundShipment
	pickups  []*models.PackagePickup
	updates  int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		outbound: make(map[string]*models.OutboundShipment),
		inbound:  make(map[string]*models.InboundShipment),
	}
}

func outboundKey(email string, created time.Time) string {
	return fmt.Sprintf("%s/%d", email, created.UTC().Unix())
}

func (r *fakeRepo) FindOutboundByKey(email string, created time.Time) (*models.OutboundShipment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sh, ok := r.outbound[outboundKey(email, created)]
	if !ok {
		return nil, nil
	}
	clone := *sh
	return &clone, nil
}

func (r *fakeRepo) UpsertOutbound(sh *models.OutboundShipment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *sh
	r.outbound[outboundKey(sh.Email, sh.CreatedTime)] = &clone
	return nil
}

func (r *fakeRepo) UpdateOutbound(sh *models.OutboundShipment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.updates++
	clone := *sh
	r.outbound[outboundKey(sh.Email, sh.CreatedTime)] = &clone
	return nil
}

func (r *fakeRepo) NonTerminalOutbound() ([]models.OutboundShipment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.OutboundShipment
	for _, sh := range r.outbound {
		if !sh.Status.IsTerminal() {
			out = append(out, *sh)
		}
	}
	return out, nil
}

func (r *fakeRepo) PickupCandidates(carrierName string) ([]models.OutboundShipment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.OutboundShipment
	for _, sh := range r.outbound {
		if sh.Status == models.StatusLabelPrinted && sh.Carrier == carrierName && sh.PickupDate == nil {
			out = append(out, *sh)
		}
	}
	return out, nil
}

func (r *fakeRepo) CreatePickup(pickup *models.PackagePickup) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pickups = append(r.pickups, pickup)
	return nil
}

func (r *fakeRepo) FindInboundByKey(carrierName, trackingNumber string) (*models.InboundShipment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sh, ok := r.inbound[carrierName+"/"+trackingNumber]
	if !ok {
		return nil, nil
	}
	clone := *sh
	return &clone, nil
}

func (r *fakeRepo) UpsertInbound(sh *models.InboundShipment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *sh
	r.inbound[sh.Carrier+"/"+sh.TrackingNumber] = &clone
	return nil
}

func (r *fakeRepo) UpdateInbound(sh *models.InboundShipment) error {
	return r.UpsertInbound(sh)
}

type fakeMirror struct {
	mu             sync.Mutex
	outboundFields map[string]*mirror.OutboundFields
	inboundRows    []models.InboundShipment
	outboundWrites int
	inboundWrites  int
	linkedPickups  []*models.PackagePickup
}

func newFakeMirror() *fakeMirror {
	return &fakeMirror{outboundFields: make(map[string]*mirror.OutboundFields)}
}

func (m *fakeMirror) GetOutbound(_ context.Context, sh *models.OutboundShipment) (*mirror.OutboundFields, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.outboundFields[outboundKey(sh.Email, sh.CreatedTime)], nil
}

func (m *fakeMirror) WriteOutbound(_ context.Context, sh *models.OutboundShipment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.outboundWrites++
	if sh.MirrorRecordId == "" {
		sh.MirrorRecordId = "rec-" + sh.Email
	}
	return nil
}

func (m *fakeMirror) ListInbound(context.Context) ([]models.InboundShipment, error) {
	return m.inboundRows, nil
}

func (m *fakeMirror) WriteInbound(_ context.Context, _ *models.InboundShipment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.inboundWrites++
	return nil
}

func (m *fakeMirror) LinkPickup(_ context.Context, pickup *models.PackagePickup) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.linkedPickups = append(m.linkedPickups, pickup)
	return nil
}

type fakeGateway struct {
	mu sync.Mutex

	trackingInfo *carrier.TrackingInfo
	trackingErr  error
	rates        []carrier.Rate
	label        *carrier.Label
	accounts     []carrier.CarrierAccount
	pickup       *carrier.Pickup
	pickupErr    error
	webhookErr   error

	shipmentRequests []carrier.ShipmentRequest
	purchasedRates   []string
	customsItems     []carrier.CustomsItem
	webhooks         []string
	pickupRequests   []carrier.PickupRequest
	trackingQueries  int
}

func (g *fakeGateway) CreateShipment(_ context.Context, req carrier.ShipmentRequest) (*carrier.Shipment, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.shipmentRequests = append(g.shipmentRequests, req)
	return &carrier.Shipment{ObjectId: "shp_1", Rates: g.rates}, nil
}

func (g *fakeGateway) PurchaseLabel(_ context.Context, rateId string) (*carrier.Label, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.purchasedRates = append(g.purchasedRates, rateId)
	return g.label, nil
}

func (g *fakeGateway) CreateCustomsItem(_ context.Context, item carrier.CustomsItem) (*carrier.CustomsItem, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	item.ObjectId = fmt.Sprintf("ci_%d", len(g.customsItems))
	g.customsItems = append(g.customsItems, item)
	return &item, nil
}

func (g *fakeGateway) GetTrackingStatus(_ context.Context, _, _ string) (*carrier.TrackingInfo, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.trackingQueries++
	if g.trackingErr != nil {
		return nil, g.trackingErr
	}
	return g.trackingInfo, nil
}

func (g *fakeGateway) RegisterTrackingWebhook(_ context.Context, _, trackingNumber string) (*carrier.TrackingInfo, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.webhookErr != nil {
		return nil, g.webhookErr
	}
	g.webhooks = append(g.webhooks, trackingNumber)
	return &carrier.TrackingInfo{}, nil
}

func (g *fakeGateway) ListCarrierAccounts(context.Context) ([]carrier.CarrierAccount, error) {
	return g.accounts, nil
}

func (g *fakeGateway) CreatePickup(_ context.Context, req carrier.PickupRequest) (*carrier.Pickup, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.pickupRequests = append(g.pickupRequests, req)
	if g.pickupErr != nil {
		return nil, g.pickupErr
	}
	return g.pickup, nil
}

type fakeGeocoder struct {
	lookups int
}

func (g *fakeGeocoder) Lookup(context.Context, string) (float64, float64, error) {
	g.lookups++
	return 37.84, -122.29, nil
}

type fakeNotifier struct {
	mu       sync.Mutex
	messages []notify.Message
}

func (n *fakeNotifier) Send(_ context.Context, msg notify.Message) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages = append(n.messages, msg)
	return nil
}

func (n *fakeNotifier) subjects() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	var out []string
	for _, m := range n.messages {
		out = append(out, m.Subject)
	}
	return out
}

type fakePrinter struct {
	mu     sync.Mutex
	labels []string
}

func (p *fakePrinter) PrintLabel(_ context.Context, labelUrl string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.labels = append(p.labels, labelUrl)
	return nil
}
