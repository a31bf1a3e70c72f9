package bot

import "github.com/m3rciful/trackbot/core/telegram/state"

// Conversation states. A new flow entry always clears any prior in-progress
// flow for the user; there is no flow stacking.
const (
	// StateOrderDate collects the order date for registration. Completing it
	// writes the customer row.
	StateOrderDate state.State = "order_date"
	// StateCheckDate collects a date for a read-only status check. It never
	// touches the customer row.
	StateCheckDate state.State = "check_date"

	// Admin status-range flow.
	StateRangeDateFrom state.State = "range_date_from"
	StateRangeDateTo   state.State = "range_date_to"
	StateRangeStatus   state.State = "range_status"
	StateRangeInfo     state.State = "range_info"

	// Payment toggle micro-flow.
	StatePayOrderID state.State = "pay_order_id"
	StatePayChoice  state.State = "pay_choice"
)

// Temp-data keys for fields collected mid-flow.
const (
	tempDateFrom = "date_from"
	tempDateTo   = "date_to"
	tempStatus   = "status"
	tempOrderID  = "order_id"
)
