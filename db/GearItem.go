package db

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

type GearType string

const (
	GearSleepingBag    GearType = "SLEEPING_BAG"
	GearSleepingPad    GearType = "SLEEPING_PAD"
	GearShelter        GearType = "SHELTER"
	GearCookSet        GearType = "COOK_SET"
	GearBackpack       GearType = "BACKPACK"
	GearClothing       GearType = "CLOTHING"
	GearWaterTreatment GearType = "WATER_TREATMENT"
	GearNavigation     GearType = "NAVIGATION"
	GearFirstAid       GearType = "FIRST_AID"
	GearLightSource    GearType = "LIGHT_SOURCE"
	GearLuxury         GearType = "LUXURY"
	GearOther          GearType = "OTHER"
)

var GearTypes = []GearType{
	GearSleepingBag,
	GearSleepingPad,
	GearShelter,
	GearCookSet,
	GearBackpack,
	GearClothing,
	GearWaterTreatment,
	GearNavigation,
	GearFirstAid,
	GearLightSource,
	GearLuxury,
	GearOther,
}

func (t GearType) IsValid() bool {
	for _, known := range GearTypes {
		if t == known {
			return true
		}
	}
	return false
}

// GearAttributes holds free-form item qualities. Values are limited to
// strings, numbers and booleans.
type GearAttributes map[string]any

func (a GearAttributes) Value() (driver.Value, error) {
	if len(a) == 0 {
		return nil, nil
	}
	b, err := json.Marshal(a)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (a *GearAttributes) Scan(value any) error {
	var raw []byte

	switch v := value.(type) {
	case nil:
		*a = GearAttributes{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("unsupported gear attributes type %T", value)
	}

	res := make(GearAttributes)
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &res); err != nil {
			return err
		}
	}
	*a = res
	return nil
}

// normalize drops blank values and converts numbers to float64.
func (a GearAttributes) normalize() (GearAttributes, error) {
	res := make(GearAttributes, len(a))

	for key, value := range a {
		key = strings.TrimSpace(key)
		if key == "" {
			return nil, NewValidationError("attributes", "attribute keys can not be empty")
		}

		switch v := value.(type) {
		case nil:
			continue
		case string:
			v = strings.TrimSpace(v)
			if v == "" {
				continue
			}
			res[key] = v
		case bool:
			res[key] = v
		case float64:
			res[key] = v
		case float32:
			res[key] = float64(v)
		case int:
			res[key] = float64(v)
		case int64:
			res[key] = float64(v)
		default:
			return nil, NewValidationError("attributes", "attribute %q must be a string, number or boolean", key)
		}
	}

	return res, nil
}

const maxGearFieldLength = 50

type GearItem struct {
	ID         int            `db:"id" json:"id"`
	UserID     int            `db:"user_id" json:"user_id"`
	Type       GearType       `db:"type" json:"type"`
	Name       string         `db:"name" json:"name"`
	Capacity   *string        `db:"capacity" json:"capacity,omitempty"`
	WeightOz   *float64       `db:"weight_oz" json:"weight_oz,omitempty"`
	Brand      *string        `db:"brand" json:"brand,omitempty"`
	Condition  *string        `db:"item_condition" json:"condition,omitempty"`
	Notes      *string        `db:"notes" json:"notes,omitempty"`
	Attributes GearAttributes `db:"attributes" json:"attributes"`
	Created    time.Time      `db:"created" json:"created"`
}

func trimOptional(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

// Validate normalises the item in place: the type is upper-cased (blank
// means OTHER), optional strings are trimmed and empty ones dropped.
func (item *GearItem) Validate() (err error) {
	item.Type = GearType(strings.ToUpper(strings.TrimSpace(string(item.Type))))
	if item.Type == "" {
		item.Type = GearOther
	}
	if !item.Type.IsValid() {
		return NewValidationError("type", "unknown gear type %q", item.Type)
	}

	item.Name = strings.TrimSpace(item.Name)
	if item.Name == "" {
		return NewValidationError("name", "gear name is required")
	}
	if len(item.Name) > maxGearFieldLength {
		return NewValidationError("name", "gear name must be at most %d characters", maxGearFieldLength)
	}

	item.Capacity = trimOptional(item.Capacity)
	if item.Capacity != nil && len(*item.Capacity) > maxGearFieldLength {
		return NewValidationError("capacity", "capacity must be at most %d characters", maxGearFieldLength)
	}

	if item.WeightOz != nil && *item.WeightOz < 0 {
		return NewValidationError("weight_oz", "weight can not be negative")
	}

	item.Brand = trimOptional(item.Brand)
	item.Condition = trimOptional(item.Condition)
	item.Notes = trimOptional(item.Notes)

	item.Attributes, err = item.Attributes.normalize()
	return
}
