package bot

import (
	"fmt"

	tele "gopkg.in/telebot.v4"

	tghelpers "github.com/m3rciful/trackbot/core/telegram/helpers"
	"github.com/m3rciful/trackbot/core/telegram/state"
	"github.com/m3rciful/trackbot/internal/domain"
	"github.com/m3rciful/trackbot/internal/service"
)

// Shared reply texts.
const (
	msgDatePrompt    = "📝 Enter the order date\n\nFormat: DD.MM.YYYY\nExample: 25.11.2025"
	msgDateInvalid   = "❌ Wrong format!\n\nFormat: DD.MM.YYYY\nExample: 25.11.2025"
	msgGenericFail   = "❌ Something went wrong. Try again later"
	msgAdminsOnly    = "❌ Admins only"
	msgOrderNotFound = "❌ Order not found!"
	msgAdminPanel    = "⚙️ ADMIN PANEL"
)

// Handlers implements the bot's commands, callbacks and conversation steps.
type Handlers struct {
	adminID  int64
	fsm      state.Manager
	orders   *service.Orders
	statuses *service.Statuses
}

// New wires the handler set over its collaborators. The session manager is
// injected rather than shared package state.
func New(adminID int64, fsm state.Manager, orders *service.Orders, statuses *service.Statuses) *Handlers {
	return &Handlers{
		adminID:  adminID,
		fsm:      fsm,
		orders:   orders,
		statuses: statuses,
	}
}

func (h *Handlers) isAdmin(c tele.Context) bool {
	sender := c.Sender()
	return sender != nil && h.adminID != 0 && sender.ID == h.adminID
}

// AdminReject answers an admin-only invocation by a non-admin. It changes no
// state and leaks nothing about the configured administrator.
func (h *Handlers) AdminReject(c tele.Context) error {
	return tghelpers.SendText(c, msgAdminsOnly)
}

func orderCard(order domain.CustomerOrder) string {
	paid := "❌ Not paid"
	if order.IsPaid {
		paid = "✅ Paid"
	}
	return fmt.Sprintf("🔖 Order: %s\n📅 Date: %s\n💳 %s", order.OrderID, order.OrderDate, paid)
}

func statusCard(order domain.CustomerOrder, rng domain.StatusRange) string {
	return fmt.Sprintf(
		"✅ YOUR ORDER STATUS\n\n🔖 Order: %s\n📅 Date: %s\n📊 Status: %s\n📝 %s",
		order.OrderID, order.OrderDate, rng.Status.Label(), rng.Info,
	)
}
