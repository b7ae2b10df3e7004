package models

import (
	"fmt"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Price is a fixed-point money amount. It wraps decimal.Decimal so totals
// like 19.99 * 3 stay exact instead of drifting through float64, and it is
// stored as BSON Decimal128 so $inc updates against money fields stay exact
// on the database side too.
type Price struct {
	decimal.Decimal
}

func ZeroPrice() Price {
	return Price{decimal.Zero}
}

func NewPrice(value string) (Price, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return Price{}, fmt.Errorf("invalid price %q: %w", value, err)
	}
	return Price{d}, nil
}

// MustPrice panics on a malformed literal. Seed data and tests only.
func MustPrice(value string) Price {
	p, err := NewPrice(value)
	if err != nil {
		panic(err)
	}
	return p
}

func PriceFromDecimal(d decimal.Decimal) Price {
	return Price{d}
}

// Decimal128 converts the amount for use inside bson.M update documents,
// where the driver does not consult the ValueMarshaler interface.
func (p Price) Decimal128() (primitive.Decimal128, error) {
	return primitive.ParseDecimal128(p.String())
}

func (p Price) MarshalBSONValue() (bsontype.Type, []byte, error) {
	d128, err := p.Decimal128()
	if err != nil {
		return 0, nil, err
	}
	return bson.MarshalValue(d128)
}

// UnmarshalBSONValue accepts Decimal128, double and string values so
// documents written before the Decimal128 migration still decode.
func (p *Price) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	switch t {
	case bsontype.Null:
		p.Decimal = decimal.Zero
		return nil
	case bsontype.Decimal128:
		var d128 primitive.Decimal128
		if err := bson.UnmarshalValue(t, data, &d128); err != nil {
			return err
		}
		d, err := decimal.NewFromString(d128.String())
		if err != nil {
			return err
		}
		p.Decimal = d
		return nil
	case bsontype.Double:
		var f float64
		if err := bson.UnmarshalValue(t, data, &f); err != nil {
			return err
		}
		p.Decimal = decimal.NewFromFloat(f)
		return nil
	case bsontype.String:
		var s string
		if err := bson.UnmarshalValue(t, data, &s); err != nil {
			return err
		}
		d, err := decimal.NewFromString(s)
		if err != nil {
			return err
		}
		p.Decimal = d
		return nil
	default:
		return fmt.Errorf("cannot decode %s into Price", t)
	}
}
