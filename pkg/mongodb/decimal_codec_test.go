package mongodb

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

type wallet struct {
	Balance decimal.Decimal   `bson:"balance"`
	Limit   *decimal.Decimal  `bson:"limit,omitempty"`
	Presets []decimal.Decimal `bson:"presets"`
}

func TestDecimalCodec_StoresDecimal128(t *testing.T) {
	reg := NewRegistry()
	limit := decimal.RequireFromString("500.00")
	in := wallet{
		Balance: decimal.RequireFromString("12.40"),
		Limit:   &limit,
		Presets: []decimal.Decimal{decimal.RequireFromString("10"), decimal.RequireFromString("0.01")},
	}

	raw, err := bson.MarshalWithRegistry(reg, in)
	require.NoError(t, err)

	assert.Equal(t, bsontype.Decimal128, bson.Raw(raw).Lookup("balance").Type)

	var out wallet
	require.NoError(t, bson.UnmarshalWithRegistry(reg, raw, &out))
	assert.True(t, out.Balance.Equal(in.Balance), "balance = %s", out.Balance)
	require.NotNil(t, out.Limit)
	assert.True(t, out.Limit.Equal(limit))
	require.Len(t, out.Presets, 2)
	assert.True(t, out.Presets[1].Equal(decimal.RequireFromString("0.01")))
}

func TestDecimalCodec_ReadsLegacyTypes(t *testing.T) {
	reg := NewRegistry()
	for name, doc := range map[string]bson.M{
		"string": {"balance": "3.25"},
		"int32":  {"balance": int32(3)},
		"int64":  {"balance": int64(3)},
		"double": {"balance": 3.25},
	} {
		raw, err := bson.Marshal(doc)
		require.NoError(t, err, name)

		var out wallet
		require.NoError(t, bson.UnmarshalWithRegistry(reg, raw, &out), name)
		assert.True(t, out.Balance.GreaterThanOrEqual(decimal.NewFromInt(3)), name)
	}
}

func TestDecimalCodec_NilPointerOmitted(t *testing.T) {
	raw, err := bson.MarshalWithRegistry(NewRegistry(), wallet{Balance: decimal.Zero})
	require.NoError(t, err)
	_, lookupErr := bson.Raw(raw).LookupErr("limit")
	assert.Error(t, lookupErr)
}
