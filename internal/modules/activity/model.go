// README: Activity search criteria, recommendation records and the closed time-slot set.
package activity

import (
	"strconv"
	"strings"

	"github.com/shrimpy8/family-activity-finder/internal/types"
)

type TimeSlot string

const (
	TimeSlotAllDay    TimeSlot = "all_day"
	TimeSlotMorning   TimeSlot = "morning"
	TimeSlotAfternoon TimeSlot = "afternoon"
	TimeSlotEvening   TimeSlot = "evening"
	TimeSlotNight     TimeSlot = "night"
)

var timeSlotLabels = map[TimeSlot]string{
	TimeSlotAllDay:    "All Day",
	TimeSlotMorning:   "Morning (8 AM - 12 PM)",
	TimeSlotAfternoon: "Afternoon (12 PM - 4 PM)",
	TimeSlotEvening:   "Evening (4 PM - 8 PM)",
	TimeSlotNight:     "Night (8 PM - 11 PM)",
}

// TimeSlots returns every valid slot in display order.
func TimeSlots() []TimeSlot {
	return []TimeSlot{TimeSlotAllDay, TimeSlotMorning, TimeSlotAfternoon, TimeSlotEvening, TimeSlotNight}
}

// Label is the human-readable hour range used in prompts and the UI.
func (t TimeSlot) Label() string {
	return timeSlotLabels[t]
}

func (t TimeSlot) Valid() bool {
	_, ok := timeSlotLabels[t]
	return ok
}

const (
	MinDistance     = 1
	MaxDistance     = 50
	DefaultDistance = 10

	MinAge      = 0
	MaxAge      = 18
	MaxAgeCount = 10

	MaxCityLength        = 100
	MaxPreferencesLength = 500

	// MaxRecommendations caps every parsed result list.
	MaxRecommendations = 5
)

// SearchCriteria is one validated family-activity search.
type SearchCriteria struct {
	City        string           `json:"city" validate:"required,notblank,max=100,cityname"`
	State       string           `json:"state" validate:"required,usstate"`
	ZipCode     string           `json:"zipCode,omitempty" validate:"omitempty,zipcode5"`
	Ages        []int            `json:"ages" validate:"required,min=1,max=10,dive,min=0,max=18"`
	Date        string           `json:"date" validate:"required,datefmt,calendardate"`
	TimeSlot    TimeSlot         `json:"timeSlot" validate:"required,timeslot"`
	Distance    float64          `json:"distance" validate:"required,min=1,max=50"`
	Preferences string           `json:"preferences,omitempty" validate:"max=500"`
	Provider    types.ProviderID `json:"provider,omitempty"`
}

// Location is "city, state" or "city, state zip" when a ZIP code is present.
func (c SearchCriteria) Location() string {
	if c.ZipCode != "" {
		return c.City + ", " + c.State + " " + c.ZipCode
	}
	return c.City + ", " + c.State
}

// AgesText joins the ages the way they are shown to the model, e.g. "4, 7".
func (c SearchCriteria) AgesText() string {
	parts := make([]string, len(c.Ages))
	for i, a := range c.Ages {
		parts[i] = strconv.Itoa(a)
	}
	return strings.Join(parts, ", ")
}

// DistanceText renders the radius without a trailing ".0" for whole miles.
func (c SearchCriteria) DistanceText() string {
	return strconv.FormatFloat(c.Distance, 'f', -1, 64)
}

// Recommendation is one parsed activity. Every field is display text produced upstream.
type Recommendation struct {
	Emoji       string `json:"emoji"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Location    string `json:"location"`
	Distance    string `json:"distance"`
}

// ProviderResult is one slot of a fan-out response: either recommendations or an error.
type ProviderResult struct {
	Provider        types.ProviderID `json:"provider"`
	ModelName       string           `json:"modelName"`
	Recommendations []Recommendation `json:"recommendations,omitempty"`
	Error           string           `json:"error,omitempty"`
}

// Succeeded reports whether the slot carries recommendations.
func (r ProviderResult) Succeeded() bool {
	return r.Error == "" && len(r.Recommendations) > 0
}
