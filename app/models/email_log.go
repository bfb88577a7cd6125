package models

import (
	"time"

	"gorm.io/gorm"
)

// Email send states
const (
	EmailStatusPending = "pending"
	EmailStatusSent    = "sent"
	EmailStatusFailed  = "failed"
)

// Email categories for the send log
const (
	EmailCategoryOrderConfirmation   = "order_confirmation"
	EmailCategoryPaymentInstructions = "payment_instructions"
	EmailCategoryPaymentApproved     = "payment_approved"
	EmailCategoryPaymentRejected     = "payment_rejected"
	EmailCategoryAdminAlert          = "admin_alert"
	EmailCategoryOther               = "other"
)

// EmailLog records every outbound notification attempt, successful or not.
type EmailLog struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	ToEmail        string     `gorm:"type:varchar(200);index" json:"to_email"`
	FromEmail      string     `gorm:"type:varchar(200)" json:"from_email"`
	Subject        string     `gorm:"type:varchar(255)" json:"subject"`
	Category       string     `gorm:"type:varchar(50);index" json:"category"`
	Status         string     `gorm:"type:varchar(20);default:'pending';index" json:"status"`
	ErrorMessage   string     `gorm:"type:text" json:"error_message"`
	HasAttachment  bool       `gorm:"default:false" json:"has_attachment"`
	AttachmentName string     `gorm:"type:varchar(255)" json:"attachment_name"`
	RelatedOrderID *uint      `gorm:"index" json:"related_order_id"`
	SentAt         *time.Time `json:"sent_at"`
	CreatedAt      time.Time  `gorm:"autoCreateTime;index" json:"created_at"`
}

// MarkSent stamps the entry as delivered.
func (e *EmailLog) MarkSent(db *gorm.DB) error {
	now := time.Now()
	e.Status = EmailStatusSent
	e.SentAt = &now
	return db.Model(e).Select("status", "sent_at").Updates(e).Error
}

// MarkFailed stamps the entry as failed with the SMTP error.
func (e *EmailLog) MarkFailed(db *gorm.DB, errMsg string) error {
	e.Status = EmailStatusFailed
	e.ErrorMessage = errMsg
	return db.Model(e).Select("status", "error_message").Updates(e).Error
}
