package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/planhaus/planhaus/internal/pkg/security"
)

// Payment status values
const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusCompleted  = "completed"
	OrderStatusFailed     = "failed"
	OrderStatusRejected   = "rejected"
	OrderStatusRefunded   = "refunded"
)

// Manual payment methods
const (
	PaymentMethodPayoneer = "payoneer"
	PaymentMethodBank     = "bank_transfer"
)

// DefaultMaxDownloads caps how often one order may fetch its file.
const DefaultMaxDownloads = 5

// ErrOrderNotPending rejects verification of an order that already left the
// pending state. Re-approving would silently double-send buyer mail, so it
// is a hard error rather than an idempotent no-op.
var ErrOrderNotPending = &ValidationError{Message: "order is not pending verification"}

// ErrDownloadLimitReached means the download budget is spent; the
// conditional counter update found no headroom left.
var ErrDownloadLimitReached = &ValidationError{Message: "download limit reached"}

// Order is a purchase of a house plan. Buyers have no accounts; an order is
// tracked by email plus an unguessable access token.
type Order struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	OrderNumber string `gorm:"type:varchar(32);uniqueIndex" json:"order_number"`

	BuyerEmail string `gorm:"type:varchar(200);index;not null" json:"buyer_email" validate:"required,email"`
	BuyerName  string `gorm:"type:varchar(200)" json:"buyer_name"`

	// A plan cannot be hard-deleted while any order references it.
	PlanID uint `gorm:"index;not null" json:"plan_id"`
	Plan   Plan `gorm:"foreignKey:PlanID" json:"plan,omitempty"`

	// Snapshot at purchase time, immune to later price edits
	PricePaid decimal.Decimal `gorm:"type:decimal(10,2)" json:"price_paid"`
	Currency  string          `gorm:"type:varchar(3);default:'USD'" json:"currency"`

	PaymentStatus string `gorm:"type:varchar(20);default:'pending';index" json:"payment_status"`
	PaymentMethod string `gorm:"type:varchar(20)" json:"payment_method"`
	ReceiptFile   string `gorm:"type:varchar(255)" json:"-"`

	VerifiedAt   *time.Time `json:"verified_at"`
	VerifiedByID *uint      `json:"verified_by_id"`
	AdminComment string     `gorm:"type:text" json:"-"`

	AccessToken     string     `gorm:"type:varchar(64);uniqueIndex" json:"-"`
	DownloadCount   int        `gorm:"default:0" json:"download_count"`
	MaxDownloads    int        `gorm:"default:5" json:"max_downloads"`
	AccessExpiresAt *time.Time `json:"access_expires_at"`

	CompletedAt *time.Time `json:"completed_at"`
	Notes       string     `gorm:"type:text" json:"-"`
	CreatedAt   time.Time  `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (o *Order) Validate() error {
	v := validator.New()
	return v.Struct(o)
}

// BeforeCreate assigns the order number and access token.
func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.OrderNumber == "" {
		o.OrderNumber = GenerateOrderNumber()
	}
	if o.AccessToken == "" {
		token, err := security.GenerateAccessToken()
		if err != nil {
			return err
		}
		o.AccessToken = token
	}
	if o.MaxDownloads == 0 {
		o.MaxDownloads = DefaultMaxDownloads
	}
	return nil
}

// GenerateOrderNumber builds a unique order identifier: ORD-YYYYMMDD-XXXXXXXX.
func GenerateOrderNumber() string {
	datePart := time.Now().Format("20060102")
	randomPart := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:8])
	return fmt.Sprintf("ORD-%s-%s", datePart, randomPart)
}

// NewOrder creates a pending order for the plan, snapshotting its current
// price.
func NewOrder(plan *Plan, buyerEmail, buyerName, paymentMethod, receiptFile string) *Order {
	price := decimal.Zero
	if plan.Price != nil {
		price = *plan.Price
	}
	return &Order{
		BuyerEmail:    strings.TrimSpace(strings.ToLower(buyerEmail)),
		BuyerName:     strings.TrimSpace(buyerName),
		PlanID:        plan.ID,
		PricePaid:     price,
		Currency:      "USD",
		PaymentStatus: OrderStatusPending,
		PaymentMethod: paymentMethod,
		ReceiptFile:   receiptFile,
		MaxDownloads:  DefaultMaxDownloads,
	}
}

// ApprovePayment marks a pending order as completed after manual receipt
// verification. Fails with ErrOrderNotPending for any other state.
func (o *Order) ApprovePayment(db *gorm.DB, admin *User, comment string) error {
	if o.PaymentStatus != OrderStatusPending {
		return ErrOrderNotPending
	}
	now := time.Now()
	o.PaymentStatus = OrderStatusCompleted
	o.VerifiedAt = &now
	o.CompletedAt = &now
	if admin != nil {
		o.VerifiedByID = &admin.ID
	}
	if comment != "" {
		o.AdminComment = comment
	}
	return db.Model(o).Select(
		"payment_status", "verified_at", "verified_by_id", "completed_at", "admin_comment",
	).Updates(o).Error
}

// RejectPayment marks a pending order as rejected.
func (o *Order) RejectPayment(db *gorm.DB, admin *User, comment string) error {
	if o.PaymentStatus != OrderStatusPending {
		return ErrOrderNotPending
	}
	now := time.Now()
	o.PaymentStatus = OrderStatusRejected
	o.VerifiedAt = &now
	if admin != nil {
		o.VerifiedByID = &admin.ID
	}
	if comment != "" {
		o.AdminComment = comment
	}
	return db.Model(o).Select(
		"payment_status", "verified_at", "verified_by_id", "admin_comment",
	).Updates(o).Error
}

// CanDownload reports whether the order may fetch its file right now:
// payment completed, download budget left, access not expired.
func (o *Order) CanDownload() bool {
	if o.PaymentStatus != OrderStatusCompleted {
		return false
	}
	if o.DownloadCount >= o.MaxDownloads {
		return false
	}
	if o.AccessExpiresAt != nil && time.Now().After(*o.AccessExpiresAt) {
		return false
	}
	return true
}

// IncrementDownload claims one download from the remaining budget and
// returns ErrDownloadLimitReached when none is left.
func (o *Order) IncrementDownload(db *gorm.DB) error {
	// conditional update so parallel requests on one token can never
	// push the counter past the budget
	res := db.Model(&Order{}).
		Where("id = ? AND download_count < max_downloads", o.ID).
		UpdateColumn("download_count", gorm.Expr("download_count + ?", 1))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrDownloadLimitReached
	}
	o.DownloadCount++
	return nil
}

// IsExpired reports whether the access window has closed.
func (o *Order) IsExpired() bool {
	return o.AccessExpiresAt != nil && time.Now().After(*o.AccessExpiresAt)
}

// DownloadsRemaining never goes below zero.
func (o *Order) DownloadsRemaining() int {
	remaining := o.MaxDownloads - o.DownloadCount
	if remaining < 0 {
		return 0
	}
	return remaining
}

// StatusLabel renders the payment status for buyers.
func (o *Order) StatusLabel() string {
	switch o.PaymentStatus {
	case OrderStatusPending:
		return "Pending Verification"
	case OrderStatusProcessing:
		return "Processing"
	case OrderStatusCompleted:
		return "Approved"
	case OrderStatusFailed:
		return "Failed"
	case OrderStatusRejected:
		return "Rejected"
	case OrderStatusRefunded:
		return "Refunded"
	}
	return o.PaymentStatus
}

// FindOrderByAccessToken resolves the opaque download token.
func FindOrderByAccessToken(db *gorm.DB, token string) (*Order, error) {
	var order Order
	err := db.Preload("Plan").Where("access_token = ?", token).First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// FindOrderByNumber resolves a public order number.
func FindOrderByNumber(db *gorm.DB, orderNumber string) (*Order, error) {
	var order Order
	err := db.Preload("Plan").Where("order_number = ?", orderNumber).First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}
