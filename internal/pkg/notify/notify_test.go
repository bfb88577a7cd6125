package notify

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/planhaus/planhaus/app/models"
	"github.com/planhaus/planhaus/internal/pkg/mail"
)

type fakeMailer struct {
	sent []mail.Message
	fail bool
}

func (f *fakeMailer) Send(msg mail.Message) error {
	if f.fail {
		return errors.New("relay down")
	}
	f.sent = append(f.sent, msg)
	return nil
}

func (f *fakeMailer) From() string { return "no-reply@planhaus.example" }

func setupNotify(t *testing.T, mailer mail.Mailer) (*Service, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared&_fk=1"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Category{}, &models.Plan{}, &models.PlanReferenceSequence{},
		&models.PlanSlugHistory{}, &models.PlanAuditLog{},
		&models.Order{}, &models.EmailLog{},
	))
	t.Cleanup(func() {
		sqlDB, err := db.DB()
		if err == nil {
			sqlDB.Close()
		}
	})
	return NewService(db, mailer), db
}

func testOrder(t *testing.T, db *gorm.DB) *models.Order {
	t.Helper()
	cat := &models.Category{Name: "Modern", IsActive: true}
	require.NoError(t, db.Create(cat).Error)
	price := decimal.RequireFromString("59.00")
	plan := &models.Plan{Title: "Notify Plan", CategoryID: cat.ID, Price: &price}
	require.NoError(t, db.Create(plan).Error)

	order := models.NewOrder(plan, "buyer@example.com", "Jane", models.PaymentMethodBank, "")
	require.NoError(t, db.Create(order).Error)
	order.Plan = *plan
	return order
}

func TestOrderReceivedLogsAndSends(t *testing.T) {
	mailer := &fakeMailer{}
	svc, db := setupNotify(t, mailer)
	order := testOrder(t, db)

	svc.OrderReceived(order)

	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "buyer@example.com", mailer.sent[0].To)
	assert.Contains(t, mailer.sent[0].PlainBody, order.OrderNumber)

	var entry models.EmailLog
	require.NoError(t, db.First(&entry).Error)
	assert.Equal(t, models.EmailStatusSent, entry.Status)
	assert.Equal(t, models.EmailCategoryOrderConfirmation, entry.Category)
	require.NotNil(t, entry.RelatedOrderID)
	assert.Equal(t, order.ID, *entry.RelatedOrderID)
	assert.NotNil(t, entry.SentAt)
}

func TestPaymentApprovedIncludesDownloadLink(t *testing.T) {
	mailer := &fakeMailer{}
	svc, db := setupNotify(t, mailer)
	order := testOrder(t, db)

	svc.PaymentApproved(order)

	require.Len(t, mailer.sent, 1)
	assert.Contains(t, mailer.sent[0].PlainBody, "/download/"+order.AccessToken)
}

func TestSendFailureIsSwallowedAndLogged(t *testing.T) {
	svc, db := setupNotify(t, &fakeMailer{fail: true})
	order := testOrder(t, db)

	// must not panic or surface the failure
	svc.PaymentRejected(order, "receipt unreadable")

	var entry models.EmailLog
	require.NoError(t, db.First(&entry).Error)
	assert.Equal(t, models.EmailStatusFailed, entry.Status)
	assert.Contains(t, entry.ErrorMessage, "relay down")
}
