package controllers

import (
	"errors"
	"path"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/planhaus/planhaus/app/models"
	"github.com/planhaus/planhaus/internal/pkg/statistics"
)

const adminOrdersURL = "/admin/orders"

func adminOrderByID(c *fiber.Ctx) (*models.Order, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return nil, fiber.ErrNotFound
	}
	order, err := repos.Order.GetByID(uint(id))
	if err != nil {
		return nil, fiber.ErrNotFound
	}
	return order, nil
}

// HandleAdminOrderList lists orders, pending first by default.
func HandleAdminOrderList(c *fiber.Ctx) error {
	page := pageParam(c)
	status := c.Query("status", models.OrderStatusPending)

	var orders []models.Order
	var total int64
	var err error
	if status == "all" {
		orders, err = repos.Order.List((page-1)*50, 50)
		if err == nil {
			total, err = repos.Order.Count()
		}
	} else {
		orders, err = repos.Order.ListByStatus(status, (page-1)*50, 50)
		if err == nil {
			total, err = repos.Order.CountByStatus(status)
		}
	}
	if err != nil {
		log.Errorf("[Admin] failed to list orders: %v", err)
	}

	return c.Render("admin/orders/index", viewData(c, "Orders", fiber.Map{
		"Orders":     orders,
		"Status":     status,
		"Page":       page,
		"TotalPages": totalPages(total, 50),
	}), "layouts/admin")
}

// HandleAdminOrderShow renders the verification view for one order.
func HandleAdminOrderShow(c *fiber.Ctx) error {
	order, err := adminOrderByID(c)
	if err != nil {
		return err
	}
	return c.Render("admin/orders/show", viewData(c, "Order "+order.OrderNumber, fiber.Map{
		"Order":       order,
		"StatusLabel": order.StatusLabel(),
		"CanVerify":   order.PaymentStatus == models.OrderStatusPending,
	}), "layouts/admin")
}

// HandleAdminOrderReceipt streams the uploaded payment receipt.
func HandleAdminOrderReceipt(c *fiber.Ctx) error {
	order, err := adminOrderByID(c)
	if err != nil {
		return err
	}
	if order.ReceiptFile == "" {
		return fiber.ErrNotFound
	}
	file, err := fileStore.Open(order.ReceiptFile)
	if err != nil {
		log.Errorf("[Admin] failed to open receipt %s: %v", order.ReceiptFile, err)
		return fiber.ErrNotFound
	}
	c.Set(fiber.HeaderContentType, contentTypeFor(order.ReceiptFile))
	c.Set(fiber.HeaderContentDisposition, "inline; filename="+path.Base(order.ReceiptFile))
	return c.SendStream(file)
}

// HandleAdminOrderApprove completes a pending order and emails the
// buyer their download link. Approving a non-pending order is refused
// so the buyer is never mailed twice.
func HandleAdminOrderApprove(c *fiber.Ctx) error {
	order, err := adminOrderByID(c)
	if err != nil {
		return err
	}
	orderURL := adminOrdersURL + "/" + strconv.FormatUint(uint64(order.ID), 10)

	if err := order.ApprovePayment(db, currentAdmin(c), c.FormValue("comment")); err != nil {
		if errors.Is(err, models.ErrOrderNotPending) {
			return flashError(c, "This order has already been processed.", orderURL)
		}
		log.Errorf("[Admin] failed to approve order %s: %v", order.OrderNumber, err)
		return flashError(c, "Could not approve the order.", orderURL)
	}
	statistics.Invalidate()
	notifySvc.PaymentApproved(order)

	return flashSuccess(c, "Order "+order.OrderNumber+" approved, download link sent.", orderURL)
}

// HandleAdminOrderReject rejects a pending order with a reason the
// buyer receives by email.
func HandleAdminOrderReject(c *fiber.Ctx) error {
	order, err := adminOrderByID(c)
	if err != nil {
		return err
	}
	orderURL := adminOrdersURL + "/" + strconv.FormatUint(uint64(order.ID), 10)
	reason := c.FormValue("comment")

	if err := order.RejectPayment(db, currentAdmin(c), reason); err != nil {
		if errors.Is(err, models.ErrOrderNotPending) {
			return flashError(c, "This order has already been processed.", orderURL)
		}
		log.Errorf("[Admin] failed to reject order %s: %v", order.OrderNumber, err)
		return flashError(c, "Could not reject the order.", orderURL)
	}
	statistics.Invalidate()
	notifySvc.PaymentRejected(order, reason)

	return flashSuccess(c, "Order "+order.OrderNumber+" rejected, buyer informed.", orderURL)
}
