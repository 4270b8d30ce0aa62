package order

import "github.com/example/bakeshop/pkg/models"

// transitions is the explicit lifecycle table: each status maps to the
// set of statuses it may move to. Fulfillment moves strictly forward;
// cancellation is reachable only before fulfillment starts. Terminal
// states (delivered, cancelled) have no outgoing edges.
var transitions = map[string]map[string]bool{
	models.StatusPending: {
		models.StatusConfirmed: true,
		models.StatusCancelled: true,
	},
	models.StatusConfirmed: {
		models.StatusProcessing: true,
		models.StatusCancelled:  true,
	},
	models.StatusProcessing: {
		models.StatusOutForDelivery: true,
	},
	models.StatusOutForDelivery: {
		models.StatusDelivered: true,
	},
	models.StatusDelivered: {},
	models.StatusCancelled: {},
}

// CanTransition reports whether the lifecycle allows moving an order
// from current to next. Unknown statuses never transition.
func CanTransition(current, next string) bool {
	return transitions[current][next]
}

// ValidStatus reports whether s is a known order status.
func ValidStatus(s string) bool {
	_, ok := transitions[s]
	return ok
}

// ValidPaymentStatus reports whether s is a known payment status.
func ValidPaymentStatus(s string) bool {
	switch s {
	case models.PaymentPending, models.PaymentCompleted, models.PaymentFailed:
		return true
	}
	return false
}
