package repository

import (
	"strings"
	"time"

	"github.com/planhaus/planhaus/app/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// orderRepository implements the OrderRepository interface
type orderRepository struct {
	db *gorm.DB
}

// NewOrderRepository creates a new order repository instance
func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) Create(order *models.Order) error {
	return r.db.Create(order).Error
}

func (r *orderRepository) GetByID(id uint) (*models.Order, error) {
	var order models.Order
	err := r.db.Preload("Plan").First(&order, id).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) GetByNumber(orderNumber string) (*models.Order, error) {
	return models.FindOrderByNumber(r.db, orderNumber)
}

func (r *orderRepository) GetByAccessToken(token string) (*models.Order, error) {
	return models.FindOrderByAccessToken(r.db, token)
}

func (r *orderRepository) GetByBuyerEmail(email string) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.Preload("Plan").
		Where("buyer_email = ?", strings.TrimSpace(strings.ToLower(email))).
		Order("created_at DESC").
		Find(&orders).Error
	return orders, err
}

func (r *orderRepository) Update(order *models.Order) error {
	return r.db.Save(order).Error
}

func (r *orderRepository) ListByStatus(status string, offset, limit int) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.Preload("Plan").
		Where("payment_status = ?", status).
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&orders).Error
	return orders, err
}

func (r *orderRepository) CountByStatus(status string) (int64, error) {
	var count int64
	err := r.db.Model(&models.Order{}).
		Where("payment_status = ?", status).
		Count(&count).Error
	return count, err
}

func (r *orderRepository) List(offset, limit int) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.Preload("Plan").
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&orders).Error
	return orders, err
}

func (r *orderRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.Order{}).Count(&count).Error
	return count, err
}

// RevenueSince sums completed-order revenue from the cutoff until now.
func (r *orderRepository) RevenueSince(since time.Time) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	err := r.db.Model(&models.Order{}).
		Select("SUM(price_paid)").
		Where("payment_status = ? AND completed_at >= ?", models.OrderStatusCompleted, since).
		Scan(&total).Error
	if err != nil {
		return decimal.Zero, err
	}
	if !total.Valid {
		return decimal.Zero, nil
	}
	return total.Decimal, nil
}
