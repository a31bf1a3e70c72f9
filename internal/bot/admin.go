package bot

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/trackbot/core/telegram/callbacks"
	tghelpers "github.com/m3rciful/trackbot/core/telegram/helpers"
	"github.com/m3rciful/trackbot/internal/domain"
	"github.com/m3rciful/trackbot/internal/repository"
	"github.com/m3rciful/trackbot/internal/service"
)

const deleteCommandPrefix = "/delete_"

// Admin opens the admin panel. Authorization is enforced by the command
// router; this handler only resets the session and shows the menu.
func (h *Handlers) Admin(c tele.Context) error {
	h.fsm.Clear(c.Sender().ID)
	return tghelpers.SendText(c, msgAdminPanel, &tele.SendOptions{ReplyMarkup: adminKeyboard()})
}

// ExitAdmin leaves the admin panel and restores the client keyboard.
func (h *Handlers) ExitAdmin(c tele.Context) error {
	h.fsm.Clear(c.Sender().ID)
	return tghelpers.SendText(c, "👋 Left the admin panel",
		&tele.SendOptions{ReplyMarkup: clientKeyboard()})
}

// SetStatuses enters the status-range declaration flow.
func (h *Handlers) SetStatuses(c tele.Context) error {
	userID := c.Sender().ID
	h.fsm.Clear(userID)
	if err := tghelpers.SendText(c,
		"📝 Enter the start date:\n\nFormat: DD.MM.YYYY\nExample: 01.11.2025"); err != nil {
		return err
	}
	h.fsm.SetState(userID, StateRangeDateFrom)
	return nil
}

// RangeDateFromInput collects the range start date.
func (h *Handlers) RangeDateFromInput(c tele.Context) error {
	userID := c.Sender().ID
	date, err := domain.ParseDate(strings.TrimSpace(c.Text()))
	if err != nil {
		return tghelpers.SendText(c, msgDateInvalid)
	}
	h.fsm.SetTemp(userID, tempDateFrom, date.String())
	if err := tghelpers.SendText(c,
		"📝 Enter the end date:\n\nFormat: DD.MM.YYYY\nExample: 10.11.2025"); err != nil {
		return err
	}
	h.fsm.SetState(userID, StateRangeDateTo)
	return nil
}

// RangeDateToInput collects the range end date and presents the status choice.
func (h *Handlers) RangeDateToInput(c tele.Context) error {
	userID := c.Sender().ID
	date, err := domain.ParseDate(strings.TrimSpace(c.Text()))
	if err != nil {
		return tghelpers.SendText(c, msgDateInvalid)
	}
	h.fsm.SetTemp(userID, tempDateTo, date.String())
	if err := tghelpers.SendText(c, "📊 Choose a status:",
		&tele.SendOptions{ReplyMarkup: statusChoiceMarkup()}); err != nil {
		return err
	}
	h.fsm.SetState(userID, StateRangeStatus)
	return nil
}

// RangeStatusInput nudges users typing free text while a button choice is
// expected. The state does not advance.
func (h *Handlers) RangeStatusInput(c tele.Context) error {
	return tghelpers.SendText(c, "📊 Pick a status with the buttons above")
}

// SetStatusCallback receives the status choice. It is only valid inside the
// range flow and only for the administrator.
func (h *Handlers) SetStatusCallback(c tele.Context) error {
	userID := c.Sender().ID
	if h.fsm.GetState(userID) != StateRangeStatus {
		return nil
	}
	if !h.isAdmin(c) {
		return h.AdminReject(c)
	}

	code := domain.StatusCode(callbacks.CallbackPayload(c))
	if !code.Valid() {
		return tghelpers.SendText(c, "❌ Unknown status")
	}
	h.fsm.SetTemp(userID, tempStatus, string(code))
	if err := c.Edit("📝 Add a note (up to 100 characters)\n\nExample: \"Arriving tomorrow\""); err != nil {
		return err
	}
	h.fsm.SetState(userID, StateRangeInfo)
	return nil
}

// RangeInfoInput collects the free-text note and commits the range.
func (h *Handlers) RangeInfoInput(c tele.Context) error {
	userID := c.Sender().ID
	if !h.isAdmin(c) {
		h.fsm.Clear(userID)
		return h.AdminReject(c)
	}

	fromStr, okFrom := h.fsm.GetTempString(userID, tempDateFrom)
	toStr, okTo := h.fsm.GetTempString(userID, tempDateTo)
	codeStr, okCode := h.fsm.GetTempString(userID, tempStatus)
	h.fsm.Clear(userID)
	if !okFrom || !okTo || !okCode {
		return tghelpers.SendText(c, msgGenericFail)
	}

	from, errFrom := domain.ParseDate(fromStr)
	to, errTo := domain.ParseDate(toStr)
	if errFrom != nil || errTo != nil {
		return tghelpers.SendText(c, msgGenericFail)
	}

	ctx := tghelpers.BuildContext(c)
	rng, err := h.statuses.AddRange(ctx, from, to, domain.StatusCode(codeStr), c.Text())
	if err != nil {
		return tghelpers.SendText(c, msgGenericFail)
	}

	if err := tghelpers.SendText(c, fmt.Sprintf(
		"✅ DONE!\n\n📅 Dates: %s - %s\n📊 Status: %s\n📝 %s",
		rng.DateFrom, rng.DateTo, rng.Status.Label(), rng.Info,
	)); err != nil {
		return err
	}
	return tghelpers.SendText(c, msgAdminPanel, &tele.SendOptions{ReplyMarkup: adminKeyboard()})
}

// ViewRanges lists every declared range with a delete hint per row.
func (h *Handlers) ViewRanges(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	ranges, err := h.statuses.ListRanges(ctx)
	if err != nil {
		return tghelpers.SendText(c, msgGenericFail)
	}

	var text string
	if len(ranges) == 0 {
		text = "❌ No ranges declared"
	} else {
		var b strings.Builder
		b.WriteString("📋 ALL RANGES:\n\n")
		for _, rng := range ranges {
			fmt.Fprintf(&b, "🔖 #%d\n📅 Dates: %s → %s\n📊 %s\n📝 %s\n⏰ %s\n➡️ %s%d\n\n",
				rng.ID, rng.DateFrom, rng.DateTo, rng.Status.Label(), rng.Info,
				rng.CreatedAt, deleteCommandPrefix, rng.ID)
		}
		text = b.String()
	}
	return tghelpers.SendText(c, text, &tele.SendOptions{ReplyMarkup: adminKeyboard()})
}

// DeleteRange handles the /delete_<id> pseudo-command. The id is parsed once
// here before any action runs.
func (h *Handlers) DeleteRange(c tele.Context, rawID string) error {
	if !h.isAdmin(c) {
		return h.AdminReject(c)
	}
	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		return tghelpers.SendText(c, "❌ Invalid range id")
	}

	ctx := tghelpers.BuildContext(c)
	switch err := h.statuses.DeleteRange(ctx, id); {
	case errors.Is(err, repository.ErrNotFound):
		return tghelpers.SendText(c, "❌ Not found")
	case err != nil:
		return tghelpers.SendText(c, msgGenericFail)
	}
	return tghelpers.SendText(c, fmt.Sprintf("✅ Range #%d deleted!", id),
		&tele.SendOptions{ReplyMarkup: adminKeyboard()})
}

// ManagePayment enters the payment toggle micro-flow.
func (h *Handlers) ManagePayment(c tele.Context) error {
	userID := c.Sender().ID
	h.fsm.Clear(userID)
	if err := tghelpers.SendText(c, "💳 Enter the customer's order id:"); err != nil {
		return err
	}
	h.fsm.SetState(userID, StatePayOrderID)
	return nil
}

// PayOrderIDInput looks up the order to toggle. An unknown id aborts the flow.
func (h *Handlers) PayOrderIDInput(c tele.Context) error {
	userID := c.Sender().ID
	if !h.isAdmin(c) {
		h.fsm.Clear(userID)
		return h.AdminReject(c)
	}

	ctx := tghelpers.BuildContext(c)
	order, err := h.orders.CustomerByOrderID(ctx, c.Text())
	if errors.Is(err, repository.ErrNotFound) {
		h.fsm.Clear(userID)
		return tghelpers.SendText(c, msgOrderNotFound)
	}
	if err != nil {
		h.fsm.Clear(userID)
		return tghelpers.SendText(c, msgGenericFail)
	}

	h.fsm.SetTemp(userID, tempOrderID, order.OrderID)
	if err := tghelpers.SendText(c,
		orderCard(order)+"\n\nChoose the payment status:",
		&tele.SendOptions{ReplyMarkup: paymentChoiceMarkup()}); err != nil {
		return err
	}
	h.fsm.SetState(userID, StatePayChoice)
	return nil
}

// SetPaidCallback receives the paid/unpaid choice and updates the flag.
func (h *Handlers) SetPaidCallback(c tele.Context) error {
	userID := c.Sender().ID
	if h.fsm.GetState(userID) != StatePayChoice {
		return nil
	}
	if !h.isAdmin(c) {
		return h.AdminReject(c)
	}

	var paid bool
	switch callbacks.CallbackPayload(c) {
	case "1":
		paid = true
	case "0":
		paid = false
	default:
		return nil
	}

	orderID, ok := h.fsm.GetTempString(userID, tempOrderID)
	h.fsm.Clear(userID)
	if !ok {
		return tghelpers.SendText(c, msgGenericFail)
	}

	ctx := tghelpers.BuildContext(c)
	switch err := h.orders.SetPaid(ctx, orderID, paid); {
	case errors.Is(err, repository.ErrNotFound):
		return c.Edit(msgOrderNotFound)
	case err != nil:
		return c.Edit(msgGenericFail)
	}

	label := "❌ Not paid"
	if paid {
		label = "✅ Paid"
	}
	return c.Edit(fmt.Sprintf("✅ DONE!\n\n📦 Order: %s\n💳 New status: %s",
		service.NormalizeOrderID(orderID), label))
}
