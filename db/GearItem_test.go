package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string {
	return &s
}

func TestGearItem_Validate(t *testing.T) {
	item := GearItem{
		Type:     " shelter ",
		Name:     " 2-person tent ",
		Capacity: strPtr(" "),
		Brand:    strPtr("Mountain Hardwear"),
		Attributes: GearAttributes{
			"color":     "green",
			"seasons":   3,
			"freestand": true,
			"blank":     " ",
			"missing":   nil,
		},
	}

	require.NoError(t, item.Validate())
	assert.Equal(t, GearShelter, item.Type)
	assert.Equal(t, "2-person tent", item.Name)
	assert.Nil(t, item.Capacity)
	assert.Equal(t, GearAttributes{"color": "green", "seasons": float64(3), "freestand": true}, item.Attributes)
}

func TestGearItem_ValidateDefaultsToOther(t *testing.T) {
	item := GearItem{Name: "Spork"}
	require.NoError(t, item.Validate())
	assert.Equal(t, GearOther, item.Type)
}

func TestGearItem_ValidateRejects(t *testing.T) {
	tests := []GearItem{
		{Name: ""},
		{Name: "Thing", Type: "JETPACK"},
		{Name: "Thing", Attributes: GearAttributes{"nested": map[string]any{"a": 1}}},
		{Name: "Thing", Attributes: GearAttributes{"list": []any{1, 2}}},
	}

	for _, item := range tests {
		assert.ErrorIs(t, item.Validate(), ErrMissingField, item.Name)
	}
}

func TestGearAttributes_ValueScan(t *testing.T) {
	attrs := GearAttributes{"weight": 2.5, "brand": "MSR"}

	value, err := attrs.Value()
	require.NoError(t, err)

	var restored GearAttributes
	require.NoError(t, restored.Scan(value))
	assert.Equal(t, attrs, restored)

	require.NoError(t, restored.Scan(nil))
	assert.Empty(t, restored)
}
