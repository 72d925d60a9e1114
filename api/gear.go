package api

import (
	"net/http"

	"github.com/trailfeathers/trailfeathers/api/helpers"
	"github.com/trailfeathers/trailfeathers/db"
	"github.com/trailfeathers/trailfeathers/services/server"
)

type GearController struct {
	Gear server.GearService
}

func (c *GearController) GetGear(w http.ResponseWriter, r *http.Request) {
	user := helpers.UserFromContext(r)

	items, err := c.Gear.ListItems(user.ID)
	if err != nil {
		helpers.WriteError(w, err)
		return
	}

	helpers.WriteJSON(w, http.StatusOK, items)
}

func (c *GearController) AddGear(w http.ResponseWriter, r *http.Request) {
	user := helpers.UserFromContext(r)

	var item db.GearItem
	if !helpers.Bind(w, r, &item) {
		return
	}

	newItem, err := c.Gear.AddItem(user.ID, item)
	if err != nil {
		helpers.WriteError(w, err)
		return
	}

	helpers.WriteJSON(w, http.StatusCreated, newItem)
}
