package bot

import (
	"errors"
	"strings"

	tele "gopkg.in/telebot.v4"

	coretelegram "github.com/m3rciful/trackbot/core/telegram"
	"github.com/m3rciful/trackbot/core/telegram/commands"
	tghelpers "github.com/m3rciful/trackbot/core/telegram/helpers"
	"github.com/m3rciful/trackbot/core/telegram/ui"
)

var _ ui.FallbackProvider = (*Handlers)(nil)

// Register binds commands and callbacks to the registry. Menu labels are
// wired as command aliases so button taps and slash commands share handlers.
func (h *Handlers) Register(reg *coretelegram.Registry) error {
	reg.RegisterCommand("/start", commands.Command{
		Handler:     h.Start,
		Description: "Show your order or the entry menu",
	})
	reg.RegisterCommand("/status", commands.Command{
		Handler:     h.MyStatus,
		Description: "Check your order status",
		Aliases:     []string{labelMyStatus},
	})
	reg.RegisterCommand("/changedate", commands.Command{
		Handler:     h.ChangeDate,
		Description: "Change your order date",
		Aliases:     []string{labelChangeDate},
	})
	reg.RegisterCommand("/admin", commands.Command{
		Handler:     h.Admin,
		Description: "Open the admin panel",
		AdminOnly:   true,
	})
	reg.RegisterCommand("/setstatus", commands.Command{
		Handler:     h.SetStatuses,
		Description: "Declare a status range",
		AdminOnly:   true,
		Hidden:      true,
		Aliases:     []string{labelSetStatuses},
	})
	reg.RegisterCommand("/ranges", commands.Command{
		Handler:     h.ViewRanges,
		Description: "List declared status ranges",
		AdminOnly:   true,
		Hidden:      true,
		Aliases:     []string{labelViewRanges},
	})
	reg.RegisterCommand("/payment", commands.Command{
		Handler:     h.ManagePayment,
		Description: "Toggle an order's payment flag",
		AdminOnly:   true,
		Hidden:      true,
		Aliases:     []string{labelManagePayment},
	})
	reg.RegisterCommand("/exitadmin", commands.Command{
		Handler:     h.ExitAdmin,
		Description: "Leave the admin panel",
		Hidden:      true,
		Aliases:     []string{labelExitAdmin},
	})

	var errs []error
	errs = append(errs, reg.RegisterCallback(cbRegisterOrder, h.RegisterOrderCallback))
	errs = append(errs, reg.RegisterCallback(cbQuickCheck, h.QuickCheckCallback))
	errs = append(errs, reg.RegisterCallback(cbSetStatus, h.SetStatusCallback))
	errs = append(errs, reg.RegisterCallback(cbSetPaid, h.SetPaidCallback))

	reg.SetTextFallback(h.UnknownText())
	reg.SetCallbackNotFound(h.UnknownCallback())

	return errors.Join(errs...)
}

// RegisterFSM binds conversation states to their handlers on the injected
// session manager.
func (h *Handlers) RegisterFSM() {
	h.fsm.RegisterHandler(StateOrderDate, h.OrderDateInput)
	h.fsm.RegisterHandler(StateCheckDate, h.CheckDateInput)
	h.fsm.RegisterHandler(StateRangeDateFrom, h.RangeDateFromInput)
	h.fsm.RegisterHandler(StateRangeDateTo, h.RangeDateToInput)
	h.fsm.RegisterHandler(StateRangeStatus, h.RangeStatusInput)
	h.fsm.RegisterHandler(StateRangeInfo, h.RangeInfoInput)
	h.fsm.RegisterHandler(StatePayOrderID, h.PayOrderIDInput)
	h.fsm.RegisterHandler(StatePayChoice, h.payChoiceText)
}

// payChoiceText nudges users typing free text while a paid/unpaid button
// choice is expected.
func (h *Handlers) payChoiceText(c tele.Context) error {
	return tghelpers.SendText(c, "💳 Pick the payment status with the buttons above")
}

// UnknownText routes unmatched text. The /delete_<id> pseudo-command is
// recognized here; everything else gets a hint.
func (h *Handlers) UnknownText() tele.HandlerFunc {
	return func(c tele.Context) error {
		text := strings.TrimSpace(c.Text())
		if rawID, ok := strings.CutPrefix(text, deleteCommandPrefix); ok {
			return h.DeleteRange(c, rawID)
		}
		return tghelpers.SendText(c, "🤔 I didn't get that\n\nPress /start")
	}
}

// UnknownDocument rejects file uploads; the bot has no use for them.
func (h *Handlers) UnknownDocument() tele.HandlerFunc {
	return func(c tele.Context) error {
		return tghelpers.SendText(c, "📎 I can't do anything with files here")
	}
}

// UnknownCallback answers callbacks that map to no registered key.
func (h *Handlers) UnknownCallback() tele.HandlerFunc {
	return func(c tele.Context) error {
		return c.Respond(&tele.CallbackResponse{Text: "Unsupported action"})
	}
}
