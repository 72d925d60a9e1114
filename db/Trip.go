package db

import (
	"strings"
	"time"
)

type ActivityType string

const (
	ActivityBackpacking       ActivityType = "Backpacking"
	ActivityHiking            ActivityType = "Hiking"
	ActivityCarCamping        ActivityType = "Car Camping"
	ActivityBirdWatching      ActivityType = "Bird Watching"
	ActivityBackcountrySkiing ActivityType = "Backcountry Skiing"
	ActivityMountaineering    ActivityType = "Mountaineering"
)

// ActivityTypes is the closed set of values a trip may use, in form order.
var ActivityTypes = []ActivityType{
	ActivityBackpacking,
	ActivityHiking,
	ActivityCarCamping,
	ActivityBirdWatching,
	ActivityBackcountrySkiing,
	ActivityMountaineering,
}

var checklists = map[ActivityType][]string{
	ActivityBackpacking:       {"Backpack", "Tent", "Sleeping bag", "Stove", "Water filter", "First aid"},
	ActivityHiking:            {"Daypack", "Water", "Snacks", "First aid", "Map"},
	ActivityCarCamping:        {"Tent", "Sleeping bag", "Cooler", "Lantern", "First aid"},
	ActivityBirdWatching:      {"Binoculars", "Field guide", "Notebook", "Water"},
	ActivityBackcountrySkiing: {"Skis", "Avalanche gear", "Beacon", "First aid"},
	ActivityMountaineering:    {"Helmet", "Harness", "Rope", "First aid", "Layers"},
}

func (a ActivityType) IsValid() bool {
	_, ok := checklists[a]
	return ok
}

// Checklist returns a copy of the barebones packing list for the activity.
func (a ActivityType) Checklist() []string {
	items := checklists[a]
	res := make([]string, len(items))
	copy(res, items)
	return res
}

const maxTripNameLength = 255

type Trip struct {
	ID                int          `db:"id" json:"id"`
	CreatorID         int          `db:"creator_id" json:"creator_id"`
	Name              string       `db:"trip_name" json:"trip_name"`
	TrailName         *string      `db:"trail_name" json:"trail_name,omitempty"`
	ActivityType      ActivityType `db:"activity_type" json:"activity_type"`
	IntendedStartDate *time.Time   `db:"intended_start_date" json:"intended_start_date,omitempty"`
	Created           time.Time    `db:"created" json:"created"`
}

// Validate trims the free-text fields and checks the required ones.
func (trip *Trip) Validate() error {
	trip.Name = strings.TrimSpace(trip.Name)

	if trip.Name == "" {
		return NewValidationError("trip_name", "trip name is required")
	}

	if len(trip.Name) > maxTripNameLength {
		return NewValidationError("trip_name", "trip name must be at most %d characters", maxTripNameLength)
	}

	if !trip.ActivityType.IsValid() {
		return NewValidationError("activity_type", "unknown activity type %q", trip.ActivityType)
	}

	if trip.TrailName != nil {
		trail := strings.TrimSpace(*trip.TrailName)
		if trail == "" {
			trip.TrailName = nil
		} else {
			trip.TrailName = &trail
		}
	}

	return nil
}
