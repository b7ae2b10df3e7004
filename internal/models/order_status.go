package models

import (
	"fmt"
	"strings"
)

// OrderStatus is the closed set of order states. Any status may follow any
// other; only membership in the set is enforced.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusCompleted OrderStatus = "COMPLETED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

func AllOrderStatuses() []OrderStatus {
	return []OrderStatus{OrderStatusPending, OrderStatusCompleted, OrderStatusCancelled}
}

func AllowedOrderStatusNames() string {
	statuses := AllOrderStatuses()
	names := make([]string, 0, len(statuses))
	for _, status := range statuses {
		names = append(names, string(status))
	}
	return strings.Join(names, ", ")
}

// ParseOrderStatus normalizes case and whitespace before matching, so
// "completed" and " Completed " both resolve. Unknown names return an error
// carrying the full allowed list.
func ParseOrderStatus(value string) (OrderStatus, error) {
	normalized := OrderStatus(strings.ToUpper(strings.TrimSpace(value)))
	switch normalized {
	case OrderStatusPending, OrderStatusCompleted, OrderStatusCancelled:
		return normalized, nil
	default:
		return "", fmt.Errorf("Invalid status. Allowed values are: %s", AllowedOrderStatusNames())
	}
}
