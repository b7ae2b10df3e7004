package handlers

import (
	"errors"
	"strings"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"beautyshop/internal/models"
)

func TestComputeOrderTotal(t *testing.T) {
	tests := []struct {
		name  string
		items []models.OrderItem
		want  string
	}{
		{
			name:  "empty",
			items: nil,
			want:  "0",
		},
		{
			name: "single line with quantity",
			items: []models.OrderItem{
				{Quantity: 3, Price: models.MustPrice("19.99")},
			},
			want: "59.97",
		},
		{
			name: "two products",
			items: []models.OrderItem{
				{Quantity: 1, Price: models.MustPrice("19.99")},
				{Quantity: 1, Price: models.MustPrice("9.99")},
			},
			want: "29.98",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := computeOrderTotal(tt.items)
			if got.String() != tt.want {
				t.Fatalf("computeOrderTotal = %s, want %s", got.String(), tt.want)
			}
		})
	}
}

func TestBuildRequestedLinesRejectsEmptyItems(t *testing.T) {
	if _, err := buildRequestedLines(nil); err == nil {
		t.Fatal("expected error for empty item list")
	}
}

func TestBuildRequestedLinesRejectsNonPositiveQuantity(t *testing.T) {
	for _, quantity := range []int{0, -1} {
		_, err := buildRequestedLines([]createOrderItemRequest{
			{ProductID: primitive.NewObjectID().Hex(), Quantity: quantity},
		})
		if err == nil {
			t.Fatalf("expected error for quantity %d", quantity)
		}
		if !strings.Contains(err.Error(), "greater than zero") {
			t.Fatalf("unexpected error: %v", err)
		}
	}
}

func TestBuildRequestedLinesMalformedIDReportsNotFound(t *testing.T) {
	_, err := buildRequestedLines([]createOrderItemRequest{
		{ProductID: "9999", Quantity: 1},
	})
	if err == nil {
		t.Fatal("expected error for malformed product id")
	}

	var notFound productNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected productNotFoundError, got %T", err)
	}
	if err.Error() != "Product with ID 9999 not found" {
		t.Fatalf("unexpected message: %q", err.Error())
	}
}

func TestBuildRequestedLinesKeepsOrderAndTrimsIDs(t *testing.T) {
	first := primitive.NewObjectID()
	second := primitive.NewObjectID()

	lines, err := buildRequestedLines([]createOrderItemRequest{
		{ProductID: " " + first.Hex() + " ", Quantity: 2},
		{ProductID: second.Hex(), Quantity: 5},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if lines[0].ProductID != first || lines[0].Quantity != 2 {
		t.Fatalf("first line mismatch: %+v", lines[0])
	}
	if lines[0].RawID != first.Hex() {
		t.Fatalf("expected trimmed raw id, got %q", lines[0].RawID)
	}
	if lines[1].ProductID != second || lines[1].Quantity != 5 {
		t.Fatalf("second line mismatch: %+v", lines[1])
	}
}
