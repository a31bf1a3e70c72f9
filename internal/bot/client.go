package bot

import (
	"errors"
	"fmt"
	"strings"

	tele "gopkg.in/telebot.v4"

	tghelpers "github.com/m3rciful/trackbot/core/telegram/helpers"
	"github.com/m3rciful/trackbot/internal/domain"
	"github.com/m3rciful/trackbot/internal/repository"
)

// Start greets the user: a returning customer gets their order card, a new
// one gets the entry menu. Any in-progress flow is dropped.
func (h *Handlers) Start(c tele.Context) error {
	userID := c.Sender().ID
	h.fsm.Clear(userID)

	ctx := tghelpers.BuildContext(c)
	order, err := tghelpers.CurrentCustomer(ctx, h.orders, userID)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return tghelpers.SendText(c,
			"👋 Welcome to the order tracker! 📦\n\nWhat would you like to do?",
			&tele.SendOptions{ReplyMarkup: entryMarkup()},
		)
	case err != nil:
		return tghelpers.SendText(c, msgGenericFail)
	default:
		return tghelpers.SendText(c,
			"👋 Hi!\n\n"+orderCard(order),
			&tele.SendOptions{ReplyMarkup: clientKeyboard()},
		)
	}
}

// RegisterOrderCallback enters the registration flow.
func (h *Handlers) RegisterOrderCallback(c tele.Context) error {
	userID := c.Sender().ID
	h.fsm.Clear(userID)
	if err := c.Edit(msgDatePrompt); err != nil {
		return err
	}
	h.fsm.SetState(userID, StateOrderDate)
	return nil
}

// QuickCheckCallback enters the read-only status check flow.
func (h *Handlers) QuickCheckCallback(c tele.Context) error {
	userID := c.Sender().ID
	h.fsm.Clear(userID)
	if err := c.Edit("🔍 Enter an order date to check:\n\nFormat: DD.MM.YYYY"); err != nil {
		return err
	}
	h.fsm.SetState(userID, StateCheckDate)
	return nil
}

// ChangeDate re-enters the registration flow for an existing customer.
func (h *Handlers) ChangeDate(c tele.Context) error {
	userID := c.Sender().ID
	h.fsm.Clear(userID)
	if err := tghelpers.SendText(c, "📝 Enter the new order date:\n\nFormat: DD.MM.YYYY"); err != nil {
		return err
	}
	h.fsm.SetState(userID, StateOrderDate)
	return nil
}

// MyStatus reports the current status of the caller's registered order.
func (h *Handlers) MyStatus(c tele.Context) error {
	userID := c.Sender().ID
	ctx := tghelpers.BuildContext(c)

	order, err := tghelpers.CurrentCustomer(ctx, h.orders, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return tghelpers.SendText(c, msgOrderNotFound+"\n\nPress /start")
	}
	if err != nil {
		return tghelpers.SendText(c, msgGenericFail)
	}

	if !order.IsPaid {
		return tghelpers.SendText(c,
			fmt.Sprintf(
				"❌ ORDER NOT PAID\n\n🔖 Order: %s\n📅 Date: %s\n\nPlease pay for the order to start tracking its status 💳",
				order.OrderID, order.OrderDate,
			),
			&tele.SendOptions{ReplyMarkup: clientKeyboard()},
		)
	}

	date, err := domain.ParseDate(order.OrderDate)
	if err != nil {
		return tghelpers.SendText(c, msgGenericFail)
	}
	rng, found, err := h.statuses.Resolve(ctx, date)
	if err != nil {
		return tghelpers.SendText(c, msgGenericFail)
	}
	if !found {
		return tghelpers.SendText(c,
			fmt.Sprintf(
				"⏳ Order %s from %s\n\n❌ No status declared yet\n\nCheck back later 👍",
				order.OrderID, order.OrderDate,
			),
			&tele.SendOptions{ReplyMarkup: clientKeyboard()},
		)
	}
	return tghelpers.SendText(c, statusCard(order, rng),
		&tele.SendOptions{ReplyMarkup: clientKeyboard()})
}

// OrderDateInput handles text while registering an order date. A malformed
// date re-prompts and keeps the state.
func (h *Handlers) OrderDateInput(c tele.Context) error {
	userID := c.Sender().ID
	date, err := domain.ParseDate(strings.TrimSpace(c.Text()))
	if err != nil {
		return tghelpers.SendText(c, msgDateInvalid)
	}

	ctx := tghelpers.BuildContext(c)
	orderID, err := h.orders.Register(ctx, userID, date)
	h.fsm.Clear(userID)
	if err != nil {
		return tghelpers.SendText(c, msgGenericFail)
	}
	return tghelpers.SendText(c,
		fmt.Sprintf("✅ Done!\n\n🔖 Order: %s\n📅 Date: %s", orderID, date),
		&tele.SendOptions{ReplyMarkup: clientKeyboard()},
	)
}

// CheckDateInput handles text during a read-only status check. It resolves
// the status for the entered date without writing anything.
func (h *Handlers) CheckDateInput(c tele.Context) error {
	userID := c.Sender().ID
	date, err := domain.ParseDate(strings.TrimSpace(c.Text()))
	if err != nil {
		return tghelpers.SendText(c, msgDateInvalid)
	}

	ctx := tghelpers.BuildContext(c)
	rng, found, err := h.statuses.Resolve(ctx, date)
	h.fsm.Clear(userID)
	if err != nil {
		return tghelpers.SendText(c, msgGenericFail)
	}
	if !found {
		return tghelpers.SendText(c,
			fmt.Sprintf("⏳ No status declared for %s yet\n\nCheck back later 👍", date))
	}
	return tghelpers.SendText(c,
		fmt.Sprintf("📊 Status for %s: %s\n📝 %s", date, rng.Status.Label(), rng.Info))
}
