package domain

// StatusCode is one of the fixed delivery status tokens.
type StatusCode string

const (
	// StatusWaiting marks orders that have not shipped yet.
	StatusWaiting StatusCode = "waiting"
	// StatusInTransit marks orders currently on the way.
	StatusInTransit StatusCode = "in_transit"
	// StatusDelivered marks orders that have arrived.
	StatusDelivered StatusCode = "delivered"
)

// InfoMaxLen caps the free-text note attached to a status range.
const InfoMaxLen = 100

var statusLabels = map[StatusCode]string{
	StatusWaiting:   "⏳ Waiting",
	StatusInTransit: "🚚 In transit",
	StatusDelivered: "✅ Delivered",
}

// AllStatuses lists the closed set of status codes in display order.
func AllStatuses() []StatusCode {
	return []StatusCode{StatusWaiting, StatusInTransit, StatusDelivered}
}

// Valid reports whether s belongs to the closed status set.
func (s StatusCode) Valid() bool {
	_, ok := statusLabels[s]
	return ok
}

// Label returns the human-readable label, falling back to the raw token.
func (s StatusCode) Label() string {
	if label, ok := statusLabels[s]; ok {
		return label
	}
	return string(s)
}

// CustomerOrder is a customer's registered order. One row per Telegram user;
// re-registration overwrites order_id, order_date and is_paid wholesale.
type CustomerOrder struct {
	UserID    int64  `db:"user_id"`
	OrderID   string `db:"order_id"`
	OrderDate string `db:"order_date"`
	IsPaid    bool   `db:"is_paid"`
	CreatedAt string `db:"created_at"`
}

// StatusRange is an admin-declared [DateFrom, DateTo] interval carrying a
// status announcement. Overlaps are allowed; the highest id wins.
type StatusRange struct {
	ID        int64      `db:"id"`
	DateFrom  string     `db:"date_from"`
	DateTo    string     `db:"date_to"`
	Status    StatusCode `db:"status"`
	Info      string     `db:"info"`
	CreatedAt string     `db:"created_at"`
}

// Contains reports whether the range covers the given date. Ranges with
// malformed stored dates never match.
func (r StatusRange) Contains(d Date) bool {
	from, err := ParseDate(r.DateFrom)
	if err != nil {
		return false
	}
	to, err := ParseDate(r.DateTo)
	if err != nil {
		return false
	}
	return d.Within(from, to)
}
