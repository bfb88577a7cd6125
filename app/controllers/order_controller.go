package controllers

import (
	"errors"
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/planhaus/planhaus/app/models"
	"github.com/planhaus/planhaus/internal/pkg/env"
	"github.com/planhaus/planhaus/internal/pkg/notify"
	"github.com/planhaus/planhaus/internal/pkg/statistics"
)

var notifySvc *notify.Service

// InitializeNotifyService wires the notification service into the
// controllers.
func InitializeNotifyService(svc *notify.Service) {
	notifySvc = svc
}

// maxReceiptSize caps uploaded payment receipts at 10 MiB.
const maxReceiptSize = 10 * 1024 * 1024

var allowedReceiptExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".pdf":  true,
}

// HandleCheckoutGet renders the checkout form with the manual payment
// instructions.
func HandleCheckoutGet(c *fiber.Ctx) error {
	plan, err := repos.Plan.GetBySlug(c.Params("slug"))
	if err != nil {
		return fiber.ErrNotFound
	}
	if !plan.IsVisible() || !plan.HasPaidPlan() {
		return fiber.ErrNotFound
	}

	return c.Render("orders/checkout", viewData(c, "Checkout "+plan.Title, fiber.Map{
		"Plan":             plan,
		"Price":            plan.Price.StringFixed(2),
		"PayoneerAccount":  env.GetEnv("PAYONEER_ACCOUNT", ""),
		"BankInstructions": env.GetEnv("BANK_INSTRUCTIONS", ""),
	}), "layouts/main")
}

// HandleCheckoutPost creates a pending order from the checkout form.
// The buyer uploads their payment receipt; admins verify it manually.
func HandleCheckoutPost(c *fiber.Ctx) error {
	slug := c.Params("slug")
	checkoutURL := "/plans/" + slug + "/checkout"

	plan, err := repos.Plan.GetBySlug(slug)
	if err != nil {
		return fiber.ErrNotFound
	}
	if !plan.IsVisible() || !plan.HasPaidPlan() {
		return fiber.ErrNotFound
	}

	email := strings.TrimSpace(c.FormValue("email"))
	name := strings.TrimSpace(c.FormValue("name"))
	method := c.FormValue("payment_method")
	if email == "" || name == "" {
		return flashError(c, "Please fill in your name and email address.", checkoutURL)
	}
	if method != models.PaymentMethodPayoneer && method != models.PaymentMethodBank {
		return flashError(c, "Please choose a payment method.", checkoutURL)
	}

	fileHeader, err := c.FormFile("receipt")
	if err != nil {
		return flashError(c, "Please attach your payment receipt.", checkoutURL)
	}
	if fileHeader.Size > maxReceiptSize {
		return flashError(c, "The receipt file is too large (max 10 MB).", checkoutURL)
	}
	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if !allowedReceiptExtensions[ext] {
		return flashError(c, "Receipts must be a JPG, PNG, or PDF file.", checkoutURL)
	}

	receiptName := fmt.Sprintf("receipts/%s%s", uuid.New().String(), ext)
	src, err := fileHeader.Open()
	if err != nil {
		log.Errorf("[Checkout] failed to open receipt upload: %v", err)
		return flashError(c, "We could not read your receipt, please try again.", checkoutURL)
	}
	defer src.Close()
	if err := fileStore.Save(receiptName, src); err != nil {
		log.Errorf("[Checkout] failed to store receipt: %v", err)
		return flashError(c, "We could not save your receipt, please try again.", checkoutURL)
	}

	order := models.NewOrder(plan, email, name, method, receiptName)
	if err := order.Validate(); err != nil {
		return flashError(c, "Please check your email address.", checkoutURL)
	}
	if err := repos.Order.Create(order); err != nil {
		log.Errorf("[Checkout] failed to create order: %v", err)
		return flashError(c, "Something went wrong, please try again.", checkoutURL)
	}
	order.Plan = *plan
	statistics.Invalidate()

	// buyer confirmation and admin alert; failures are logged, never block
	notifySvc.OrderReceived(order)
	notifySvc.AdminNewOrder(order, localReceiptPath(receiptName))

	return flashSuccess(c,
		"Your order was received. We will email your download link once the payment is verified.",
		"/orders/"+order.OrderNumber)
}

// localReceiptPath maps a receipt storage name to a local file path for
// mail attachment. Returns empty when the backend is not local disk.
func localReceiptPath(name string) string {
	if env.GetEnv("S3_STORAGE_ENABLED", "false") == "true" {
		return ""
	}
	return filepath.Join(env.GetEnv("STORAGE_ROOT", "./uploads"), filepath.FromSlash(name))
}

// HandleOrderStatus shows the public status page for one order.
func HandleOrderStatus(c *fiber.Ctx) error {
	order, err := repos.Order.GetByNumber(c.Params("number"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.ErrNotFound
		}
		log.Errorf("[Order] status lookup failed: %v", err)
		return fiber.ErrInternalServerError
	}

	return c.Render("orders/status", viewData(c, "Order "+order.OrderNumber, fiber.Map{
		"Order":       order,
		"StatusLabel": order.StatusLabel(),
		"Remaining":   order.DownloadsRemaining(),
	}), "layouts/main")
}

// HandleMyOrders lists a buyer's orders looked up by email.
func HandleMyOrders(c *fiber.Ctx) error {
	email := strings.TrimSpace(c.Query("email"))
	var orders []models.Order
	if email != "" {
		var err error
		orders, err = repos.Order.GetByBuyerEmail(email)
		if err != nil {
			log.Errorf("[Order] buyer lookup failed: %v", err)
		}
	}
	return c.Render("orders/my_orders", viewData(c, "My Orders", fiber.Map{
		"Email":  email,
		"Orders": orders,
	}), "layouts/main")
}

// downloadLinkGoneReason is shared by the unknown-token and expired
// cases so the denial never reveals whether a token ever existed.
const downloadLinkGoneReason = "This download link is not valid or has expired. Please contact us if you believe this is an error."

const downloadLimitReason = "The download limit for this order has been reached. Please contact us if you need the files again."

// HandleOrderDownload is the token-gated paid download. Denials for
// orders the buyer legitimately holds carry a readable reason; nothing
// leaks about other orders or about token validity.
func HandleOrderDownload(c *fiber.Ctx) error {
	token := c.Params("token")
	if token == "" {
		return fiber.ErrNotFound
	}

	order, err := repos.Order.GetByAccessToken(token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return denyDownload(c, downloadLinkGoneReason)
		}
		log.Errorf("[Download] token lookup failed: %v", err)
		return fiber.ErrInternalServerError
	}

	switch {
	case order.PaymentStatus == models.OrderStatusPending,
		order.PaymentStatus == models.OrderStatusProcessing:
		return denyDownload(c, "Your payment has not been verified yet. You will receive an email once it is.")
	case order.PaymentStatus == models.OrderStatusRejected,
		order.PaymentStatus == models.OrderStatusFailed:
		return denyDownload(c, "This order was not completed. Please contact us if you believe this is an error.")
	case order.PaymentStatus == models.OrderStatusRefunded:
		return denyDownload(c, "This order was refunded; the download is no longer available.")
	case order.IsExpired():
		return denyDownload(c, downloadLinkGoneReason)
	case order.DownloadsRemaining() == 0:
		return denyDownload(c, downloadLimitReason)
	}
	if !order.CanDownload() {
		return denyDownload(c, "This download is currently not available.")
	}

	if order.Plan.PaidPlanFile == "" {
		log.Errorf("[Download] order %s has no paid file", order.OrderNumber)
		return denyDownload(c, "The file for this order is being prepared. Please try again shortly.")
	}

	file, err := fileStore.Open(order.Plan.PaidPlanFile)
	if err != nil {
		log.Errorf("[Download] failed to open %s: %v", order.Plan.PaidPlanFile, err)
		return denyDownload(c, "The file is temporarily unavailable. Please try again shortly.")
	}

	// the counter update is conditional; a parallel request may have
	// claimed the last download between the check above and here
	if err := order.IncrementDownload(db); err != nil {
		file.Close()
		if errors.Is(err, models.ErrDownloadLimitReached) {
			return denyDownload(c, downloadLimitReason)
		}
		log.Errorf("[Download] failed to count download for %s: %v", order.OrderNumber, err)
		return fiber.ErrInternalServerError
	}

	filename := fmt.Sprintf("%s-%s%s", order.Plan.Slug, order.Plan.Reference,
		path.Ext(order.Plan.PaidPlanFile))
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	c.Set(fiber.HeaderContentType, contentTypeFor(order.Plan.PaidPlanFile))
	return c.SendStream(file)
}

func denyDownload(c *fiber.Ctx, reason string) error {
	return c.Status(fiber.StatusForbidden).Render("orders/download_denied",
		viewData(c, "Download unavailable", fiber.Map{"Reason": reason}),
		"layouts/main")
}
