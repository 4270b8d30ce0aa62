package order

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/example/bakeshop/pkg/config"
	"github.com/example/bakeshop/pkg/models"
	"github.com/example/bakeshop/pkg/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type fakeCatalog struct {
	products map[primitive.ObjectID]*models.Product
}

func (f *fakeCatalog) FindByID(_ context.Context, id primitive.ObjectID) (*models.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return p, nil
}

type fakeStore struct {
	orders map[primitive.ObjectID]*models.Order
}

func newFakeStore() *fakeStore {
	return &fakeStore{orders: make(map[primitive.ObjectID]*models.Order)}
}

func (f *fakeStore) Create(_ context.Context, order *models.Order) error {
	order.ID = primitive.NewObjectID()
	order.CreatedAt = time.Now()
	order.UpdatedAt = order.CreatedAt
	f.orders[order.ID] = order
	return nil
}

func (f *fakeStore) FindByID(_ context.Context, id primitive.ObjectID) (*models.Order, error) {
	order, ok := f.orders[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	clone := *order
	return &clone, nil
}

func (f *fakeStore) List(_ context.Context, filter repository.OrderFilter) ([]*models.Order, int64, error) {
	var out []*models.Order
	for _, o := range f.orders {
		if filter.Status != "" && o.OrderStatus != filter.Status {
			continue
		}
		if filter.Email != "" && o.CustomerInfo.Email != filter.Email {
			continue
		}
		if filter.OrderNumber != "" && o.OrderNumber != filter.OrderNumber {
			continue
		}
		out = append(out, o)
	}
	return out, int64(len(out)), nil
}

func (f *fakeStore) UpdateFields(_ context.Context, id primitive.ObjectID, fields bson.M) (*models.Order, error) {
	order, ok := f.orders[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	if v, ok := fields["orderStatus"]; ok {
		order.OrderStatus = v.(string)
	}
	if v, ok := fields["paymentStatus"]; ok {
		order.PaymentStatus = v.(string)
	}
	if v, ok := fields["trackingNumber"]; ok {
		order.TrackingNumber = v.(string)
	}
	order.UpdatedAt = time.Now()
	clone := *order
	return &clone, nil
}

var (
	truffleID = primitive.NewObjectID()
	velvetID  = primitive.NewObjectID()
	plainID   = primitive.NewObjectID()
	soldOutID = primitive.NewObjectID()
)

func newTestService() (*Service, *fakeStore) {
	catalog := &fakeCatalog{products: map[primitive.ObjectID]*models.Product{
		truffleID: {ID: truffleID, Name: "Chocolate Truffle Cake", Price: 699, InStock: true, Image: "/truffle.jpg"},
		velvetID:  {ID: velvetID, Name: "Red Velvet Cake", Price: 799, InStock: true, Image: "/velvet.jpg"},
		plainID:   {ID: plainID, Name: "Vanilla Sponge", Price: 500, InStock: true, Image: "/vanilla.jpg"},
		soldOutID: {ID: soldOutID, Name: "Mango Mousse", Price: 650, InStock: false, Image: "/mango.jpg"},
	}}
	store := newFakeStore()
	delivery := config.DeliveryConfig{FreeAbove: 1000, FlatFee: 50}
	return NewService(store, catalog, delivery, zap.NewNop()), store
}

func validRequest(items ...ItemRequest) *CreateRequest {
	return &CreateRequest{
		Items: items,
		CustomerInfo: models.CustomerInfo{
			Name:  "Asha Rao",
			Email: "asha@example.com",
			Phone: "9876543210",
		},
		DeliveryAddress: models.DeliveryAddress{
			Address: "12 MG Road",
			City:    "Bengaluru",
			Pincode: "560001",
		},
		DeliveryDate:  time.Now().Add(48 * time.Hour).Format("2006-01-02"),
		DeliveryTime:  models.DeliveryMorning,
		PaymentMethod: models.PaymentMethodCOD,
	}
}

func TestCreateComputesTotalsWithFreeDelivery(t *testing.T) {
	svc, store := newTestService()

	summary, err := svc.Create(context.Background(), validRequest(
		ItemRequest{ID: truffleID.Hex(), Name: "Chocolate Truffle Cake", Quantity: 1},
		ItemRequest{ID: velvetID.Hex(), Name: "Red Velvet Cake", Quantity: 2},
	))
	require.NoError(t, err)

	// 699 + 2*799 = 2297, over the free-delivery threshold.
	assert.InDelta(t, 2297, summary.TotalAmount, 0.001)
	assert.Equal(t, models.StatusPending, summary.OrderStatus)
	assert.True(t, strings.HasPrefix(summary.OrderNumber, "ORD"))

	require.Len(t, store.orders, 1)
	for _, o := range store.orders {
		assert.InDelta(t, 2297, o.Subtotal, 0.001)
		assert.InDelta(t, 0, o.DeliveryFee, 0.001)
		assert.InDelta(t, o.Subtotal+o.DeliveryFee, o.TotalAmount, 0.001)
		assert.Equal(t, models.PaymentPending, o.PaymentStatus)
	}
}

func TestCreateChargesFlatFeeBelowThreshold(t *testing.T) {
	svc, store := newTestService()

	summary, err := svc.Create(context.Background(), validRequest(
		ItemRequest{ID: plainID.Hex(), Name: "Vanilla Sponge", Quantity: 1},
	))
	require.NoError(t, err)

	assert.InDelta(t, 550, summary.TotalAmount, 0.001)
	for _, o := range store.orders {
		assert.InDelta(t, 500, o.Subtotal, 0.001)
		assert.InDelta(t, 50, o.DeliveryFee, 0.001)
	}
}

func TestCreateUsesCatalogPriceNotClientPrice(t *testing.T) {
	svc, store := newTestService()

	_, err := svc.Create(context.Background(), validRequest(
		ItemRequest{ID: truffleID.Hex(), Name: "Chocolate Truffle Cake", Price: 1, Quantity: 1},
	))
	require.NoError(t, err)

	for _, o := range store.orders {
		assert.InDelta(t, 699, o.Items[0].Price, 0.001)
		assert.InDelta(t, 699, o.Subtotal, 0.001)
	}
}

func TestCreateRejectsEmptyOrder(t *testing.T) {
	svc, store := newTestService()

	_, err := svc.Create(context.Background(), validRequest())

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "no items in order", verr.Error())
	assert.Empty(t, store.orders)
}

func TestCreateRejectsMissingRequiredFields(t *testing.T) {
	svc, store := newTestService()

	req := validRequest(ItemRequest{ID: truffleID.Hex(), Quantity: 1})
	req.CustomerInfo.Email = ""

	_, err := svc.Create(context.Background(), req)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "missing required fields", verr.Error())
	assert.Empty(t, store.orders)
}

func TestCreateRejectsUnknownProductNamingIt(t *testing.T) {
	svc, store := newTestService()

	_, err := svc.Create(context.Background(), validRequest(
		ItemRequest{ID: primitive.NewObjectID().Hex(), Name: "Ghost Cake", Quantity: 1},
	))

	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Contains(t, nf.Error(), "Ghost Cake")
	assert.Empty(t, store.orders)
}

func TestCreateRejectsOutOfStockNamingProduct(t *testing.T) {
	svc, store := newTestService()

	_, err := svc.Create(context.Background(), validRequest(
		ItemRequest{ID: truffleID.Hex(), Name: "Chocolate Truffle Cake", Quantity: 1},
		ItemRequest{ID: soldOutID.Hex(), Name: "Mango Mousse", Quantity: 1},
	))

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Error(), "Mango Mousse")
	assert.Empty(t, store.orders)
}

func TestCreateValidationTable(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*CreateRequest)
		message string
	}{
		{
			name:    "past delivery date",
			mutate:  func(r *CreateRequest) { r.DeliveryDate = "2020-01-01" },
			message: "delivery date cannot be in the past",
		},
		{
			name:    "malformed delivery date",
			mutate:  func(r *CreateRequest) { r.DeliveryDate = "tomorrow" },
			message: "invalid delivery date",
		},
		{
			name:    "bad email",
			mutate:  func(r *CreateRequest) { r.CustomerInfo.Email = "not-an-email" },
			message: "invalid email address",
		},
		{
			name:    "bad phone",
			mutate:  func(r *CreateRequest) { r.CustomerInfo.Phone = "12345" },
			message: "invalid phone number",
		},
		{
			name:    "bad pincode",
			mutate:  func(r *CreateRequest) { r.DeliveryAddress.Pincode = "12" },
			message: "invalid pincode",
		},
		{
			name:    "bad time slot",
			mutate:  func(r *CreateRequest) { r.DeliveryTime = "midnight" },
			message: "invalid delivery time slot",
		},
		{
			name:    "cake message too long",
			mutate:  func(r *CreateRequest) { r.CakeMessage = strings.Repeat("x", 51) },
			message: "cake message too long",
		},
		{
			name:    "bad payment method",
			mutate:  func(r *CreateRequest) { r.PaymentMethod = "crypto" },
			message: "invalid payment method",
		},
		{
			name:    "non-positive quantity",
			mutate:  func(r *CreateRequest) { r.Items[0].Quantity = 0 },
			message: "invalid quantity",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, store := newTestService()
			req := validRequest(ItemRequest{ID: truffleID.Hex(), Name: "Chocolate Truffle Cake", Quantity: 1})
			tt.mutate(req)

			_, err := svc.Create(context.Background(), req)

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Contains(t, verr.All(), tt.message)
			assert.Empty(t, store.orders)
		})
	}
}

func TestCreateAcceptsSameDayDelivery(t *testing.T) {
	svc, store := newTestService()

	req := validRequest(ItemRequest{ID: truffleID.Hex(), Name: "Chocolate Truffle Cake", Quantity: 1})
	req.DeliveryDate = time.Now().Format("2006-01-02")

	_, err := svc.Create(context.Background(), req)
	require.NoError(t, err)
	assert.Len(t, store.orders, 1)
}

func TestCreateAcceptsOnlinePaymentValueWithoutCharging(t *testing.T) {
	svc, store := newTestService()

	req := validRequest(ItemRequest{ID: truffleID.Hex(), Quantity: 1})
	req.PaymentMethod = models.PaymentMethodOnline

	_, err := svc.Create(context.Background(), req)
	require.NoError(t, err)

	for _, o := range store.orders {
		assert.Equal(t, models.PaymentMethodOnline, o.PaymentMethod)
		assert.Equal(t, models.PaymentPending, o.PaymentStatus)
	}
}

func seedOrder(store *fakeStore, status string) primitive.ObjectID {
	order := &models.Order{
		OrderNumber: "ORD17000000000001",
		OrderStatus: status,
		CustomerInfo: models.CustomerInfo{
			Email: "asha@example.com",
		},
		Items: []models.OrderItem{
			{Name: "Chocolate Truffle Cake", Price: 699, Quantity: 1},
		},
	}
	_ = store.Create(context.Background(), order)
	return order.ID
}

func TestCancelAllowedStatuses(t *testing.T) {
	for _, status := range []string{models.StatusPending, models.StatusConfirmed} {
		t.Run(status, func(t *testing.T) {
			svc, store := newTestService()
			id := seedOrder(store, status)

			updated, err := svc.Cancel(context.Background(), id.Hex())
			require.NoError(t, err)
			assert.Equal(t, models.StatusCancelled, updated.OrderStatus)
		})
	}
}

func TestCancelBlockedStatuses(t *testing.T) {
	blocked := []string{
		models.StatusProcessing,
		models.StatusOutForDelivery,
		models.StatusDelivered,
		models.StatusCancelled,
	}
	for _, status := range blocked {
		t.Run(status, func(t *testing.T) {
			svc, store := newTestService()
			id := seedOrder(store, status)

			_, err := svc.Cancel(context.Background(), id.Hex())

			var sc *StateConflictError
			require.ErrorAs(t, err, &sc)
			assert.Equal(t, status, sc.Current)
			assert.Equal(t, status, store.orders[id].OrderStatus)
		})
	}
}

func TestCancelUnknownOrder(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.Cancel(context.Background(), primitive.NewObjectID().Hex())

	var nf *NotFoundError
	assert.ErrorAs(t, err, &nf)
}

func TestUpdateStatusFollowsTransitionTable(t *testing.T) {
	svc, store := newTestService()
	id := seedOrder(store, models.StatusPending)

	updated, err := svc.UpdateStatus(context.Background(), id.Hex(), &UpdateStatusRequest{
		OrderStatus: models.StatusConfirmed,
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusConfirmed, updated.OrderStatus)
}

func TestUpdateStatusRejectsSkippingAhead(t *testing.T) {
	svc, store := newTestService()
	id := seedOrder(store, models.StatusPending)

	_, err := svc.UpdateStatus(context.Background(), id.Hex(), &UpdateStatusRequest{
		OrderStatus: models.StatusDelivered,
	})

	var sc *StateConflictError
	require.ErrorAs(t, err, &sc)
	assert.Equal(t, models.StatusPending, sc.Current)
	assert.Equal(t, models.StatusDelivered, sc.Requested)
	assert.Equal(t, models.StatusPending, store.orders[id].OrderStatus)
}

func TestUpdateStatusTerminalOrdersAreImmutable(t *testing.T) {
	for _, status := range []string{models.StatusDelivered, models.StatusCancelled} {
		t.Run(status, func(t *testing.T) {
			svc, store := newTestService()
			id := seedOrder(store, status)

			_, err := svc.UpdateStatus(context.Background(), id.Hex(), &UpdateStatusRequest{
				OrderStatus: models.StatusPending,
			})

			var sc *StateConflictError
			assert.ErrorAs(t, err, &sc)
		})
	}
}

func TestUpdateStatusRejectsUnknownStatus(t *testing.T) {
	svc, store := newTestService()
	id := seedOrder(store, models.StatusPending)

	_, err := svc.UpdateStatus(context.Background(), id.Hex(), &UpdateStatusRequest{
		OrderStatus: "shipped",
	})

	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestUpdateStatusPaymentAndTrackingAlone(t *testing.T) {
	svc, store := newTestService()
	id := seedOrder(store, models.StatusConfirmed)

	updated, err := svc.UpdateStatus(context.Background(), id.Hex(), &UpdateStatusRequest{
		PaymentStatus:  models.PaymentCompleted,
		TrackingNumber: "TRK-42",
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusConfirmed, updated.OrderStatus)
	assert.Equal(t, models.PaymentCompleted, updated.PaymentStatus)
	assert.Equal(t, "TRK-42", updated.TrackingNumber)
}

func TestUpdateStatusRejectsEmptyUpdate(t *testing.T) {
	svc, store := newTestService()
	id := seedOrder(store, models.StatusPending)

	_, err := svc.UpdateStatus(context.Background(), id.Hex(), &UpdateStatusRequest{})

	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestListFiltersByStatusAndEmail(t *testing.T) {
	svc, store := newTestService()
	seedOrder(store, models.StatusPending)
	seedOrder(store, models.StatusDelivered)

	pending, total, err := svc.List(context.Background(), repository.OrderFilter{Status: models.StatusPending})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, pending, 1)
	assert.Equal(t, models.StatusPending, pending[0].OrderStatus)

	byEmail, _, err := svc.List(context.Background(), repository.OrderFilter{Email: "asha@example.com"})
	require.NoError(t, err)
	assert.Len(t, byEmail, 2)
}

func TestOrderNumberFormat(t *testing.T) {
	number := newOrderNumber()
	assert.True(t, strings.HasPrefix(number, "ORD"))
	// millis timestamp plus a suffix in [0, 1000)
	assert.GreaterOrEqual(t, len(number), len("ORD")+13+1)
}

func TestDeliveryFeeBoundary(t *testing.T) {
	svc, _ := newTestService()

	assert.InDelta(t, 50, svc.DeliveryFee(999.99), 0.001)
	assert.InDelta(t, 0, svc.DeliveryFee(1000), 0.001)
	assert.InDelta(t, 0, svc.DeliveryFee(2297), 0.001)
}
