package models

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func createTestOrder(t *testing.T, db *gorm.DB) *Order {
	t.Helper()
	plan := createTestPlan(t, db, "Order Test Plan")
	price := decimal.RequireFromString("79.00")
	plan.Price = &price
	require.NoError(t, db.Save(plan).Error)

	order := NewOrder(plan, "Buyer@Example.com ", " Jane Buyer ", PaymentMethodPayoneer, "receipts/r.jpg")
	require.NoError(t, db.Create(order).Error)
	return order
}

func TestGenerateOrderNumberFormat(t *testing.T) {
	number := GenerateOrderNumber()
	parts := strings.Split(number, "-")
	require.Len(t, parts, 3)
	assert.Equal(t, "ORD", parts[0])
	assert.Len(t, parts[1], 8)
	assert.Len(t, parts[2], 8)
	assert.Equal(t, strings.ToUpper(parts[2]), parts[2])
}

func TestNewOrderSnapshotsPriceAndNormalizesEmail(t *testing.T) {
	db := setupTestDB(t)
	order := createTestOrder(t, db)

	assert.Equal(t, "79.00", order.PricePaid.StringFixed(2))
	assert.Equal(t, "buyer@example.com", order.BuyerEmail)
	assert.Equal(t, "Jane Buyer", order.BuyerName)
	assert.Equal(t, OrderStatusPending, order.PaymentStatus)
	assert.Equal(t, DefaultMaxDownloads, order.MaxDownloads)
	assert.NotEmpty(t, order.OrderNumber)
	assert.Len(t, order.AccessToken, 48)
}

func TestOrderPriceSnapshotSurvivesPlanEdit(t *testing.T) {
	db := setupTestDB(t)
	order := createTestOrder(t, db)

	newPrice := decimal.RequireFromString("129.00")
	require.NoError(t, db.Model(&Plan{}).Where("id = ?", order.PlanID).
		Update("price", newPrice).Error)

	var reloaded Order
	require.NoError(t, db.First(&reloaded, order.ID).Error)
	assert.Equal(t, "79.00", reloaded.PricePaid.StringFixed(2))
}

func TestApprovePayment(t *testing.T) {
	db := setupTestDB(t)
	order := createTestOrder(t, db)
	admin := createTestAdmin(t, db)

	require.NoError(t, order.ApprovePayment(db, admin, "receipt checked"))
	assert.Equal(t, OrderStatusCompleted, order.PaymentStatus)
	require.NotNil(t, order.VerifiedAt)
	require.NotNil(t, order.CompletedAt)
	require.NotNil(t, order.VerifiedByID)
	assert.Equal(t, admin.ID, *order.VerifiedByID)

	// a second approval is a hard error, not a silent no-op
	err := order.ApprovePayment(db, admin, "again")
	assert.ErrorIs(t, err, ErrOrderNotPending)
}

func TestRejectPayment(t *testing.T) {
	db := setupTestDB(t)
	order := createTestOrder(t, db)
	admin := createTestAdmin(t, db)

	require.NoError(t, order.RejectPayment(db, admin, "receipt unreadable"))
	assert.Equal(t, OrderStatusRejected, order.PaymentStatus)
	assert.Equal(t, "receipt unreadable", order.AdminComment)

	err := order.ApprovePayment(db, admin, "")
	assert.ErrorIs(t, err, ErrOrderNotPending)
	err = order.RejectPayment(db, admin, "")
	assert.ErrorIs(t, err, ErrOrderNotPending)
}

func TestCanDownload(t *testing.T) {
	past := time.Now().Add(-time.Hour)
	future := time.Now().Add(time.Hour)

	cases := []struct {
		name  string
		order Order
		want  bool
	}{
		{"pending order", Order{PaymentStatus: OrderStatusPending, MaxDownloads: 5}, false},
		{"rejected order", Order{PaymentStatus: OrderStatusRejected, MaxDownloads: 5}, false},
		{"completed with budget", Order{PaymentStatus: OrderStatusCompleted, MaxDownloads: 5}, true},
		{"budget exhausted", Order{PaymentStatus: OrderStatusCompleted, DownloadCount: 5, MaxDownloads: 5}, false},
		{"last download left", Order{PaymentStatus: OrderStatusCompleted, DownloadCount: 4, MaxDownloads: 5}, true},
		{"expired access", Order{PaymentStatus: OrderStatusCompleted, MaxDownloads: 5, AccessExpiresAt: &past}, false},
		{"not yet expired", Order{PaymentStatus: OrderStatusCompleted, MaxDownloads: 5, AccessExpiresAt: &future}, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.order.CanDownload())
		})
	}
}

func TestIncrementDownloadExhaustsBudget(t *testing.T) {
	db := setupTestDB(t)
	order := createTestOrder(t, db)
	admin := createTestAdmin(t, db)
	require.NoError(t, order.ApprovePayment(db, admin, ""))

	for i := 0; i < DefaultMaxDownloads; i++ {
		require.True(t, order.CanDownload())
		require.NoError(t, order.IncrementDownload(db))
	}
	assert.False(t, order.CanDownload())
	assert.Equal(t, 0, order.DownloadsRemaining())

	// past the budget the conditional update claims nothing
	err := order.IncrementDownload(db)
	assert.ErrorIs(t, err, ErrDownloadLimitReached)

	var reloaded Order
	require.NoError(t, db.First(&reloaded, order.ID).Error)
	assert.Equal(t, DefaultMaxDownloads, reloaded.DownloadCount)
}

func TestFindOrderByAccessToken(t *testing.T) {
	db := setupTestDB(t)
	order := createTestOrder(t, db)

	found, err := FindOrderByAccessToken(db, order.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, order.ID, found.ID)
	assert.NotEmpty(t, found.Plan.Title)

	_, err = FindOrderByAccessToken(db, "no-such-token")
	assert.Error(t, err)
}

func TestPurchaseFlowFromDraftToExhaustedDownloads(t *testing.T) {
	db := setupTestDB(t)
	admin := createTestAdmin(t, db)

	plan := createTestPlan(t, db, "Lakeside Cabin")
	price := decimal.RequireFromString("129.00")
	plan.Price = &price
	require.NoError(t, db.Save(plan).Error)
	require.True(t, plan.IsDraft())

	require.NoError(t, plan.Publish(db, admin, ""))
	require.True(t, plan.IsVisible())

	order := NewOrder(plan, "buyer@example.com", "Jane Buyer", PaymentMethodBank, "receipts/r.pdf")
	require.NoError(t, db.Create(order).Error)
	assert.Equal(t, OrderStatusPending, order.PaymentStatus)
	assert.False(t, order.CanDownload())

	// a later price change must not touch the snapshot
	newPrice := decimal.RequireFromString("199.00")
	plan.Price = &newPrice
	require.NoError(t, db.Save(plan).Error)
	assert.True(t, order.PricePaid.Equal(price))

	require.NoError(t, order.ApprovePayment(db, admin, "verified"))
	require.True(t, order.CanDownload())

	require.NoError(t, order.IncrementDownload(db))
	assert.Equal(t, 1, order.DownloadCount)
	for order.CanDownload() {
		require.NoError(t, order.IncrementDownload(db))
	}
	assert.Equal(t, order.MaxDownloads, order.DownloadCount)
	assert.False(t, order.CanDownload())
}
