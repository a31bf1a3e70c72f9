package helpers

import "context"

// CurrentCustomer resolves a Telegram user ID to a domain entity via a service
// that implements CustomerByUserID. The generic type T allows different bots
// to supply their own customer model.
func CurrentCustomer[T any](
	ctx context.Context,
	service interface {
		CustomerByUserID(context.Context, int64) (T, error)
	},
	tgID int64,
) (T, error) {
	var zero T
	if service == nil {
		return zero, nil
	}
	return service.CustomerByUserID(ctx, tgID)
}
