package bot

import (
	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/trackbot/core/telegram/keyboard"
	"github.com/m3rciful/trackbot/internal/domain"
)

// Menu labels doubling as command aliases.
const (
	labelMyStatus      = "📦 My status"
	labelChangeDate    = "🔄 Change date"
	labelSetStatuses   = "📊 Set statuses"
	labelViewRanges    = "📋 View ranges"
	labelManagePayment = "💳 Manage payment"
	labelExitAdmin     = "❌ Exit admin"
)

// Callback keys.
const (
	cbRegisterOrder = "register_order"
	cbQuickCheck    = "quick_check"
	cbSetStatus     = "set_status"
	cbSetPaid       = "set_paid"
)

func clientKeyboard() *tele.ReplyMarkup {
	return keyboard.ReplyButtons(
		[]string{labelMyStatus},
		[]string{labelChangeDate},
	)
}

func adminKeyboard() *tele.ReplyMarkup {
	return keyboard.ReplyButtons(
		[]string{labelSetStatuses},
		[]string{labelViewRanges},
		[]string{labelManagePayment},
		[]string{labelExitAdmin},
	)
}

func entryMarkup() *tele.ReplyMarkup {
	return keyboard.InlineButtons([]keyboard.InlineBtn{
		{Text: "📝 Enter order date", Unique: cbRegisterOrder},
		{Text: "🔍 Check a status", Unique: cbQuickCheck},
	})
}

func statusChoiceMarkup() *tele.ReplyMarkup {
	buttons := make([]keyboard.InlineBtn, 0, len(domain.AllStatuses()))
	for _, code := range domain.AllStatuses() {
		buttons = append(buttons, keyboard.InlineBtn{
			Text:   code.Label(),
			Unique: cbSetStatus,
			Data:   string(code),
		})
	}
	return keyboard.InlineButtons(buttons)
}

func paymentChoiceMarkup() *tele.ReplyMarkup {
	return keyboard.InlineButtons([]keyboard.InlineBtn{
		{Text: "✅ Paid", Unique: cbSetPaid, Data: "1"},
		{Text: "❌ Not paid", Unique: cbSetPaid, Data: "0"},
	})
}
