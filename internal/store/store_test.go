package store

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/omrawatw/ratnaya-sparkle-shop/internal/domain"
)

func setupTestDB(t *testing.T) (*Store, func()) {
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)

	host, err := pgContainer.Host(ctx)
	require.NoError(t, err)

	port, err := pgContainer.MappedPort(ctx, "5432")
	require.NoError(t, err)

	cred := &Credentials{
		Host:              host,
		Port:              port.Int(),
		User:              "testuser",
		Password:          "testpass",
		DBName:            "testdb",
		MigrationsDirPath: "../../migrations",
	}

	s, err := NewStore(cred)
	require.NoError(t, err)

	require.NoError(t, s.RunMigrations(cred))

	cleanup := func() {
		s.Close()
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	}

	return s, cleanup
}

func insertProduct(t *testing.T, s *Store) *domain.Product {
	t.Helper()
	p := &domain.Product{
		Name:        "Kundan Necklace",
		Description: "Handcrafted kundan necklace",
		Price:       349900,
		ImageURL:    "https://cdn.example.com/necklace.jpg",
		Category:    "necklaces",
		Stock:       5,
		Featured:    true,
	}
	id, err := s.CreateProduct(context.Background(), p)
	require.NoError(t, err)
	p.ID = id
	return p
}

func sampleOrder() *domain.Order {
	return &domain.Order{
		CustomerName:    "Asha Verma",
		CustomerEmail:   "asha@example.com",
		CustomerPhone:   "9876543210",
		ShippingAddress: "12 MG Road",
		City:            "Jaipur",
		State:           "Rajasthan",
		Pincode:         "302001",
		PaymentMethod:   domain.PaymentMethodCOD,
		Status:          domain.OrderStatusPending,
		TotalAmount:     359800,
	}
}

func TestProducts_CRUD(t *testing.T) {
	s, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	created := insertProduct(t, s)

	got, err := s.GetProduct(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Name, got.Name)
	assert.Equal(t, created.Price, got.Price)
	assert.Nil(t, got.OriginalPrice)

	original := int64(399900)
	got.OriginalPrice = &original
	got.Price = 299900
	require.NoError(t, s.UpdateProduct(ctx, got))

	updated, err := s.GetProduct(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(299900), updated.Price)
	require.NotNil(t, updated.OriginalPrice)
	assert.Equal(t, original, *updated.OriginalPrice)

	require.NoError(t, s.SetProductImage(ctx, created.ID, "https://cdn.example.com/new.jpg"))
	withImage, err := s.GetProduct(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/new.jpg", withImage.ImageURL)

	require.NoError(t, s.DeleteProduct(ctx, created.ID))
	_, err = s.GetProduct(ctx, created.ID)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestListProducts_Filters(t *testing.T) {
	s, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	featured := insertProduct(t, s) // category necklaces, featured

	plain := &domain.Product{Name: "Plain Band", Price: 99900, Category: "rings"}
	_, err := s.CreateProduct(ctx, plain)
	require.NoError(t, err)

	all, err := s.ListProducts(ctx, ProductFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	rings, err := s.ListProducts(ctx, ProductFilter{Category: "rings"})
	require.NoError(t, err)
	require.Len(t, rings, 1)
	assert.Equal(t, "Plain Band", rings[0].Name)

	featuredOnly, err := s.ListProducts(ctx, ProductFilter{FeaturedOnly: true})
	require.NoError(t, err)
	require.Len(t, featuredOnly, 1)
	assert.Equal(t, featured.ID, featuredOnly[0].ID)
}

func TestOrders_HeaderAndItems(t *testing.T) {
	s, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	product := insertProduct(t, s)

	order := sampleOrder()
	orderID, err := s.CreateOrder(ctx, order)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, orderID)
	assert.Equal(t, orderID, order.ID)
	assert.False(t, order.CreatedAt.IsZero())

	items := []domain.OrderItem{
		{OrderID: orderID, ProductID: product.ID, ProductName: product.Name, Quantity: 1, Price: product.Price},
	}
	require.NoError(t, s.CreateOrderItems(ctx, items))

	got, err := s.GetOrderByID(ctx, orderID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusPending, got.Status)
	assert.Equal(t, int64(359800), got.TotalAmount)

	gotItems, err := s.ListOrderItems(ctx, orderID)
	require.NoError(t, err)
	require.Len(t, gotItems, 1)
	assert.Equal(t, product.Name, gotItems[0].ProductName)
	assert.Equal(t, product.Price, gotItems[0].Price)
}

func TestCreateOrderItems_EmptySliceIsNoop(t *testing.T) {
	s, cleanup := setupTestDB(t)
	defer cleanup()

	assert.NoError(t, s.CreateOrderItems(context.Background(), nil))
}

func TestGetOrderByID_NotFound(t *testing.T) {
	s, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := s.GetOrderByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestUpdateOrderStatus_WritesTimeline(t *testing.T) {
	s, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	order := sampleOrder()
	orderID, err := s.CreateOrder(ctx, order)
	require.NoError(t, err)

	require.NoError(t, s.UpdateOrderStatus(ctx, orderID, domain.OrderStatusConfirmed, "payment verified"))
	require.NoError(t, s.UpdateOrderStatus(ctx, orderID, domain.OrderStatusShipped, ""))

	got, err := s.GetOrderByID(ctx, orderID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusShipped, got.Status)

	history, err := s.ListStatusHistory(ctx, orderID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, domain.OrderStatusConfirmed, history[0].Status)
	assert.Equal(t, "payment verified", history[0].Note)
	assert.Equal(t, domain.OrderStatusShipped, history[1].Status)
}

func TestUpdateOrderStatus_NotFound(t *testing.T) {
	s, cleanup := setupTestDB(t)
	defer cleanup()

	err := s.UpdateOrderStatus(context.Background(), uuid.New(), domain.OrderStatusConfirmed, "")
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestDeliveryOptions_UpsertAndList(t *testing.T) {
	s, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	min := int64(200000)
	free := &domain.DeliveryOption{
		Name:           "Free Delivery",
		IsFree:         true,
		MinOrderAmount: &min,
		IsActive:       true,
		DisplayOrder:   1,
	}
	require.NoError(t, s.UpsertDeliveryOption(ctx, free))
	assert.NotEqual(t, uuid.Nil, free.ID)

	standard := &domain.DeliveryOption{
		Name:         "Standard Delivery",
		Charge:       9900,
		IsActive:     true,
		DisplayOrder: 2,
	}
	require.NoError(t, s.UpsertDeliveryOption(ctx, standard))

	inactive := &domain.DeliveryOption{
		Name:         "Legacy Courier",
		Charge:       14900,
		IsActive:     false,
		DisplayOrder: 3,
	}
	require.NoError(t, s.UpsertDeliveryOption(ctx, inactive))

	active, err := s.ActiveDeliveryOptions(ctx)
	require.NoError(t, err)
	require.Len(t, active, 2)
	assert.Equal(t, "Free Delivery", active[0].Name)
	require.NotNil(t, active[0].MinOrderAmount)
	assert.Equal(t, min, *active[0].MinOrderAmount)
	assert.Equal(t, "Standard Delivery", active[1].Name)

	// Updating by id changes the row in place.
	standard.Charge = 12900
	require.NoError(t, s.UpsertDeliveryOption(ctx, standard))

	active, err = s.ActiveDeliveryOptions(ctx)
	require.NoError(t, err)
	require.Len(t, active, 2)
	assert.Equal(t, int64(12900), active[1].Charge)
}

func TestWishlist(t *testing.T) {
	s, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	product := insertProduct(t, s)
	key := "session-1"

	require.NoError(t, s.AddToWishlist(ctx, key, product.ID))

	// Adding the same product twice trips the unique constraint.
	err := s.AddToWishlist(ctx, key, product.ID)
	assert.ErrorIs(t, err, ErrAlreadyInWishlist)

	list, err := s.ListWishlist(ctx, key)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, product.ID, list[0].ID)

	// Another session sees nothing.
	other, err := s.ListWishlist(ctx, "session-2")
	require.NoError(t, err)
	assert.Empty(t, other)

	require.NoError(t, s.RemoveFromWishlist(ctx, key, product.ID))
	list, err = s.ListWishlist(ctx, key)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestNotifications(t *testing.T) {
	s, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	order := sampleOrder()
	orderID, err := s.CreateOrder(ctx, order)
	require.NoError(t, err)

	first := &domain.Notification{
		OrderID:       orderID,
		CustomerEmail: "asha@example.com",
		Message:       "Your order has been placed.",
	}
	require.NoError(t, s.CreateNotification(ctx, first))

	second := &domain.Notification{
		OrderID:       orderID,
		CustomerEmail: "asha@example.com",
		Message:       "Your order is now shipped.",
	}
	require.NoError(t, s.CreateNotification(ctx, second))

	list, err := s.ListNotifications(ctx, "asha@example.com", 10)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.False(t, list[0].IsRead)

	require.NoError(t, s.MarkNotificationRead(ctx, list[0].ID))

	list, err = s.ListNotifications(ctx, "asha@example.com", 10)
	require.NoError(t, err)
	read := 0
	for _, n := range list {
		if n.IsRead {
			read++
		}
	}
	assert.Equal(t, 1, read)

	require.NoError(t, s.MarkAllNotificationsRead(ctx, "asha@example.com"))
	list, err = s.ListNotifications(ctx, "asha@example.com", 10)
	require.NoError(t, err)
	for _, n := range list {
		assert.True(t, n.IsRead)
	}
}

func TestBanners(t *testing.T) {
	s, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	offer := &domain.Banner{
		Kind:     domain.BannerKindOffer,
		Title:    "Monsoon Sale",
		Message:  "Flat 20% off on silver",
		IsActive: true,
	}
	require.NoError(t, s.CreateBanner(ctx, offer))
	assert.NotEqual(t, uuid.Nil, offer.ID)

	festival := &domain.Banner{
		Kind:     domain.BannerKindFestival,
		Title:    "Diwali Collection",
		IsActive: true,
	}
	require.NoError(t, s.CreateBanner(ctx, festival))

	offers, err := s.ActiveBanners(ctx, domain.BannerKindOffer)
	require.NoError(t, err)
	require.Len(t, offers, 1)
	assert.Equal(t, "Monsoon Sale", offers[0].Title)

	all, err := s.ActiveBanners(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	require.NoError(t, s.DeactivateBanner(ctx, offer.ID))

	offers, err = s.ActiveBanners(ctx, domain.BannerKindOffer)
	require.NoError(t, err)
	assert.Empty(t, offers)

	err = s.DeactivateBanner(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrBannerNotFound)
}

func TestProductReviews(t *testing.T) {
	s, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	product := insertProduct(t, s)

	first := &domain.Review{
		ProductID:   product.ID,
		CustomerKey: "session-1",
		Rating:      5,
		ReviewText:  "Beautiful craftsmanship",
	}
	require.NoError(t, s.UpsertProductReview(ctx, first))
	assert.NotEqual(t, uuid.Nil, first.ID)

	// Resubmitting from the same session overwrites in place instead of
	// adding a second row.
	again := &domain.Review{
		ProductID:   product.ID,
		CustomerKey: "session-1",
		Rating:      3,
		ReviewText:  "Clasp broke after a week",
	}
	require.NoError(t, s.UpsertProductReview(ctx, again))
	assert.Equal(t, first.ID, again.ID)

	second := &domain.Review{
		ProductID:   product.ID,
		CustomerKey: "session-2",
		Rating:      4,
	}
	require.NoError(t, s.UpsertProductReview(ctx, second))

	list, err := s.ListProductReviews(ctx, product.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	// Newest first.
	assert.Equal(t, "session-2", list[0].CustomerKey)
	assert.Equal(t, 3, list[1].Rating)
	assert.Equal(t, "Clasp broke after a week", list[1].ReviewText)

	// A session can only delete its own review.
	err = s.DeleteProductReview(ctx, product.ID, "session-3")
	assert.ErrorIs(t, err, ErrReviewNotFound)

	require.NoError(t, s.DeleteProductReview(ctx, product.ID, "session-1"))
	list, err = s.ListProductReviews(ctx, product.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "session-2", list[0].CustomerKey)
}
