package sql

import (
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/trailfeathers/trailfeathers/db"
)

func (d *SqlDb) CreateGearItem(item db.GearItem) (newItem db.GearItem, err error) {
	if err = item.Validate(); err != nil {
		return
	}

	item.Created = time.Now().UTC()

	item.ID, err = d.insert(
		d.sql,
		"id",
		"insert into `gear_item` (`user_id`, `type`, `name`, `capacity`, `weight_oz`, `brand`, `item_condition`, `notes`, `attributes`, `created`) "+
			"values (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		item.UserID,
		item.Type,
		item.Name,
		item.Capacity,
		item.WeightOz,
		item.Brand,
		item.Condition,
		item.Notes,
		item.Attributes,
		item.Created)

	if err != nil {
		return
	}

	newItem = item
	return
}

func (d *SqlDb) GetGearItems(userID int) (items []db.GearItem, err error) {
	items = make([]db.GearItem, 0)

	query, args, err := squirrel.Select(
		"g.id",
		"g.user_id",
		"g.type",
		"g.name",
		"g.capacity",
		"g.weight_oz",
		"g.brand",
		"g.item_condition",
		"g.notes",
		"g.attributes",
		"g.created",
	).
		From("`gear_item` g").
		Where(squirrel.Eq{"g.user_id": userID}).
		OrderBy("g.created desc", "g.id desc").
		ToSql()

	if err != nil {
		return
	}

	_, err = d.selectAll(d.sql, &items, query, args...)
	return
}
