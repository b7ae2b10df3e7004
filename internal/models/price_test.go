package models

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
)

func TestPriceMultiplicationHasNoFloatDrift(t *testing.T) {
	unit := MustPrice("19.99")
	total := unit.Mul(decimal.NewFromInt(3))
	if total.String() != "59.97" {
		t.Fatalf("expected 59.97, got %s", total.String())
	}
}

func TestPriceAdditionIsExact(t *testing.T) {
	total := MustPrice("19.99").Add(MustPrice("9.99").Decimal)
	if total.String() != "29.98" {
		t.Fatalf("expected 29.98, got %s", total.String())
	}
}

func TestPriceJSONMarshalsAsString(t *testing.T) {
	body, err := json.Marshal(MustPrice("29.98"))
	if err != nil {
		t.Fatalf("json marshal failed: %v", err)
	}
	if string(body) != `"29.98"` {
		t.Fatalf("expected \"29.98\", got %s", body)
	}
}

func TestPriceJSONAcceptsNumberAndString(t *testing.T) {
	for _, input := range []string{`19.99`, `"19.99"`} {
		var p Price
		if err := json.Unmarshal([]byte(input), &p); err != nil {
			t.Fatalf("unmarshal %s failed: %v", input, err)
		}
		if p.String() != "19.99" {
			t.Fatalf("expected 19.99 from %s, got %s", input, p.String())
		}
	}
}

func TestPriceBSONRoundTrip(t *testing.T) {
	original := MustPrice("14.99")

	valueType, data, err := bson.MarshalValue(original)
	if err != nil {
		t.Fatalf("bson marshal failed: %v", err)
	}

	var decoded Price
	if err := bson.UnmarshalValue(valueType, data, &decoded); err != nil {
		t.Fatalf("bson unmarshal failed: %v", err)
	}
	if !decoded.Equal(original.Decimal) {
		t.Fatalf("expected %s after round trip, got %s", original, decoded)
	}
}

func TestPriceDecodesLegacyDoubleAndString(t *testing.T) {
	for _, doc := range []interface{}{
		bson.M{"price": 9.99},
		bson.M{"price": "9.99"},
	} {
		raw, err := bson.Marshal(doc)
		if err != nil {
			t.Fatalf("marshal fixture failed: %v", err)
		}

		var decoded struct {
			Price Price `bson:"price"`
		}
		if err := bson.Unmarshal(raw, &decoded); err != nil {
			t.Fatalf("unmarshal fixture failed: %v", err)
		}
		if decoded.Price.String() != "9.99" {
			t.Fatalf("expected 9.99, got %s", decoded.Price.String())
		}
	}
}
