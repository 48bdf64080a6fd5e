package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/greenie/internal/constants"
)

type ActivityType string

const (
	ActivityCar         ActivityType = "car"
	ActivityTransit     ActivityType = "transit"
	ActivityElectricity ActivityType = "electricity"
	ActivityShower      ActivityType = "shower"
	ActivityCooking     ActivityType = "cooking"
	ActivityCoffee      ActivityType = "coffee"
	ActivityWaste       ActivityType = "waste"
)

var activityTypes = []ActivityType{
	ActivityCar,
	ActivityTransit,
	ActivityElectricity,
	ActivityShower,
	ActivityCooking,
	ActivityCoffee,
	ActivityWaste,
}

func (t ActivityType) Valid() bool {
	for _, at := range activityTypes {
		if at == t {
			return true
		}
	}
	return false
}

// ParseActivityType parses a case-insensitive activity type name.
func ParseActivityType(s string) (ActivityType, error) {
	t := ActivityType(strings.ToLower(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", fmt.Errorf("invalid activity type: %s", s)
	}
	return t, nil
}

// Activity is one logged carbon-emitting event. It is immutable once created.
type Activity struct {
	ID           string       `json:"id"`
	UserID       string       `json:"user_id"`
	ActivityType ActivityType `json:"activity_type"`
	Quantity     float64      `json:"quantity"`
	Unit         string       `json:"unit"`
	KgCO2        float64      `json:"kg_co2"`
	Timestamp    time.Time    `json:"timestamp"`
}

// Day returns the calendar day (YYYY-MM-DD) the activity was logged on.
func (a Activity) Day() string {
	return a.Timestamp.Format(constants.DateFormat)
}
