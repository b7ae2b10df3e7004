package models

import (
	"strings"
	"testing"
)

func TestParseOrderStatusIsCaseInsensitive(t *testing.T) {
	tests := map[string]OrderStatus{
		"PENDING":     OrderStatusPending,
		"pending":     OrderStatusPending,
		"Completed":   OrderStatusCompleted,
		" completed ": OrderStatusCompleted,
		"cancelled":   OrderStatusCancelled,
		"CANCELLED":   OrderStatusCancelled,
	}

	for input, want := range tests {
		got, err := ParseOrderStatus(input)
		if err != nil {
			t.Fatalf("ParseOrderStatus(%q) returned error: %v", input, err)
		}
		if got != want {
			t.Fatalf("ParseOrderStatus(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestParseOrderStatusRejectsUnknownValues(t *testing.T) {
	for _, input := range []string{"", "SHIPPED", "done", "pending2"} {
		_, err := ParseOrderStatus(input)
		if err == nil {
			t.Fatalf("expected error for %q", input)
		}
		for _, status := range AllOrderStatuses() {
			if !strings.Contains(err.Error(), string(status)) {
				t.Fatalf("error for %q should list %s, got: %v", input, status, err)
			}
		}
	}
}

func TestParseRole(t *testing.T) {
	for input, want := range map[string]Role{
		"admin":    RoleAdmin,
		"Admin":    RoleAdmin,
		"customer": RoleCustomer,
		" CUSTOMER ": RoleCustomer,
	} {
		got, err := ParseRole(input)
		if err != nil {
			t.Fatalf("ParseRole(%q) returned error: %v", input, err)
		}
		if got != want {
			t.Fatalf("ParseRole(%q) = %q, want %q", input, got, want)
		}
	}

	if _, err := ParseRole("superuser"); err == nil {
		t.Fatal("expected error for unknown role")
	}
}
