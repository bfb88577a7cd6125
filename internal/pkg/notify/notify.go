// Package notify sends the order lifecycle emails. Every attempt is
// recorded in the email log; delivery failures are logged and swallowed
// so a broken SMTP relay never blocks checkout or admin verification.
package notify

import (
	"fmt"
	"path/filepath"

	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"

	"github.com/planhaus/planhaus/app/models"
	"github.com/planhaus/planhaus/internal/pkg/env"
	"github.com/planhaus/planhaus/internal/pkg/mail"
)

// Service sends buyer and admin notifications.
type Service struct {
	db      *gorm.DB
	mailer  mail.Mailer
	baseURL string
	brand   string
}

// NewService builds the notification service.
func NewService(db *gorm.DB, mailer mail.Mailer) *Service {
	return &Service{
		db:      db,
		mailer:  mailer,
		baseURL: env.GetEnv("PUBLIC_DOMAIN", "http://localhost:8080"),
		brand:   env.GetEnv("BRAND_NAME", "PlanHaus"),
	}
}

// send logs the attempt, delivers, and updates the log entry. It never
// returns an error to the caller.
func (s *Service) send(msg mail.Message, category string, orderID *uint) {
	entry := &models.EmailLog{
		ToEmail:        msg.To,
		FromEmail:      s.mailer.From(),
		Subject:        msg.Subject,
		Category:       category,
		Status:         models.EmailStatusPending,
		HasAttachment:  msg.AttachmentPath != "",
		AttachmentName: filepath.Base(msg.AttachmentPath),
		RelatedOrderID: orderID,
	}
	if msg.AttachmentPath == "" {
		entry.AttachmentName = ""
	}
	if err := s.db.Create(entry).Error; err != nil {
		log.Errorf("[Notify] failed to create email log entry: %v", err)
	}

	if err := s.mailer.Send(msg); err != nil {
		log.Errorf("[Notify] failed to send %s to %s: %v", category, msg.To, err)
		if entry.ID != 0 {
			if dbErr := entry.MarkFailed(s.db, err.Error()); dbErr != nil {
				log.Errorf("[Notify] failed to mark email log failed: %v", dbErr)
			}
		}
		return
	}
	if entry.ID != 0 {
		if dbErr := entry.MarkSent(s.db); dbErr != nil {
			log.Errorf("[Notify] failed to mark email log sent: %v", dbErr)
		}
	}
}

// OrderReceived confirms the order and repeats the payment instructions.
func (s *Service) OrderReceived(order *models.Order) {
	subject := fmt.Sprintf("%s order %s received", s.brand, order.OrderNumber)
	statusURL := fmt.Sprintf("%s/orders/%s", s.baseURL, order.OrderNumber)

	plain := fmt.Sprintf(`Hello %s,

thank you for your order of "%s" (%s).

Order number: %s
Amount: %s %s
Payment method: %s

We verify payments manually. You will receive your download link by
email as soon as your payment is confirmed, usually within one business
day.

You can check your order status at any time:
%s

%s`,
		order.BuyerName, order.Plan.Title, order.Plan.Reference,
		order.OrderNumber, order.PricePaid.StringFixed(2), order.Currency,
		paymentMethodLabel(order.PaymentMethod), statusURL, s.brand)

	s.send(mail.Message{
		To:        order.BuyerEmail,
		Subject:   subject,
		PlainBody: plain,
		HTMLBody:  htmlWrap(plain),
	}, models.EmailCategoryOrderConfirmation, &order.ID)
}

// PaymentApproved delivers the personal download link.
func (s *Service) PaymentApproved(order *models.Order) {
	subject := fmt.Sprintf("%s: your plan %s is ready for download", s.brand, order.Plan.Reference)
	downloadURL := fmt.Sprintf("%s/download/%s", s.baseURL, order.AccessToken)

	plain := fmt.Sprintf(`Hello %s,

your payment for order %s has been confirmed.

Download "%s" here:
%s

The link allows up to %d downloads. Keep this email; the link is
personal and must not be shared.

%s`,
		order.BuyerName, order.OrderNumber, order.Plan.Title,
		downloadURL, order.MaxDownloads, s.brand)

	s.send(mail.Message{
		To:        order.BuyerEmail,
		Subject:   subject,
		PlainBody: plain,
		HTMLBody:  htmlWrap(plain),
	}, models.EmailCategoryPaymentApproved, &order.ID)
}

// PaymentRejected informs the buyer that the receipt was not accepted.
func (s *Service) PaymentRejected(order *models.Order, reason string) {
	subject := fmt.Sprintf("%s: problem with your order %s", s.brand, order.OrderNumber)
	if reason == "" {
		reason = "We could not verify your payment receipt."
	}

	plain := fmt.Sprintf(`Hello %s,

unfortunately we could not confirm the payment for order %s.

Reason: %s

If you believe this is a mistake, simply reply to this email with a
readable copy of your payment receipt.

%s`,
		order.BuyerName, order.OrderNumber, reason, s.brand)

	s.send(mail.Message{
		To:        order.BuyerEmail,
		Subject:   subject,
		PlainBody: plain,
		HTMLBody:  htmlWrap(plain),
	}, models.EmailCategoryPaymentRejected, &order.ID)
}

// AdminNewOrder alerts the shop operators, attaching the uploaded
// receipt when it is available on local disk.
func (s *Service) AdminNewOrder(order *models.Order, receiptLocalPath string) {
	adminEmail := env.GetEnv("ADMIN_NOTIFY_EMAIL", "")
	if adminEmail == "" {
		return
	}
	subject := fmt.Sprintf("New order %s: %s", order.OrderNumber, order.Plan.Title)
	verifyURL := fmt.Sprintf("%s/admin/orders/%d", s.baseURL, order.ID)

	plain := fmt.Sprintf(`New order waiting for verification.

Order:   %s
Plan:    %s (%s)
Buyer:   %s <%s>
Amount:  %s %s
Method:  %s

Verify: %s`,
		order.OrderNumber, order.Plan.Title, order.Plan.Reference,
		order.BuyerName, order.BuyerEmail,
		order.PricePaid.StringFixed(2), order.Currency,
		paymentMethodLabel(order.PaymentMethod), verifyURL)

	s.send(mail.Message{
		To:             adminEmail,
		Subject:        subject,
		PlainBody:      plain,
		HTMLBody:       htmlWrap(plain),
		AttachmentPath: receiptLocalPath,
	}, models.EmailCategoryAdminAlert, &order.ID)
}

func paymentMethodLabel(method string) string {
	switch method {
	case models.PaymentMethodPayoneer:
		return "Payoneer"
	case models.PaymentMethodBank:
		return "Bank transfer"
	default:
		return method
	}
}

func htmlWrap(plain string) string {
	return "<html><body><pre style=\"font-family:inherit;white-space:pre-wrap\">" +
		plain + "</pre></body></html>"
}
