package model

import "time"

// TimeLayout is fixed-width so stored timestamps sort lexicographically.
const TimeLayout = "2006-01-02T15:04:05.000000Z07:00"

// Stamp formats t the way every created_at/updated_at is stored.
func Stamp(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

const (
	StatusScheduled  = "scheduled"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusCancelled  = "cancelled"
)

func ValidStatus(s string) bool {
	switch s {
	case StatusScheduled, StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

type AppointmentType struct {
	ID        string `json:"id" bson:"id"`
	Name      string `json:"name" bson:"name"`
	Color     string `json:"color" bson:"color"`
	Icon      string `json:"icon" bson:"icon"`
	CreatedAt string `json:"created_at" bson:"created_at"`
}

type Appointment struct {
	ID                string  `json:"id" bson:"id"`
	ClientName        string  `json:"client_name" bson:"client_name"`
	PickupTime        string  `json:"pickup_time" bson:"pickup_time"`
	PickupLocation    string  `json:"pickup_location" bson:"pickup_location"`
	ArrivalTime       string  `json:"arrival_time" bson:"arrival_time"`
	ArrivalLocation   string  `json:"arrival_location" bson:"arrival_location"`
	FlightInfo        string  `json:"flight_info" bson:"flight_info"`
	LuggagePassengers string  `json:"luggage_passengers" bson:"luggage_passengers"`
	OtherDetails      string  `json:"other_details" bson:"other_details"`
	Amount            float64 `json:"amount" bson:"amount"`
	AppointmentTypeID string  `json:"appointment_type_id" bson:"appointment_type_id"`
	Status            string  `json:"status" bson:"status"`
	CreatedAt         string  `json:"created_at" bson:"created_at"`
	UpdatedAt         string  `json:"updated_at" bson:"updated_at"`
}

// AuthConfig is the singleton credential record of the driver account.
type AuthConfig struct {
	User      string `json:"user" bson:"user"`
	Pattern   []int  `json:"pattern,omitempty" bson:"pattern,omitempty"`
	UpdatedAt string `json:"updated_at,omitempty" bson:"updated_at,omitempty"`
}

func (c *AuthConfig) HasPattern() bool {
	return c != nil && len(c.Pattern) > 0
}

type SMSTemplate struct {
	Greeting  string   `json:"greeting" bson:"greeting"`
	Fields    []string `json:"fields" bson:"fields"`
	Closing   string   `json:"closing" bson:"closing"`
	UpdatedAt string   `json:"updated_at,omitempty" bson:"updated_at,omitempty"`
}

// AppointmentFilter is a conjunction; zero-valued fields don't constrain.
type AppointmentFilter struct {
	Status            string
	ClientName        string // case-insensitive substring
	DatePrefix        string // prefix of pickup_time
	AppointmentTypeID string
	PickupFrom        string // inclusive, lexicographic
	PickupTo          string // inclusive, lexicographic
}

type IncomeFilter struct {
	StartDate         string
	EndDate           string
	ClientName        string
	AppointmentTypeID string
	Period            string
}

type ClientIncome struct {
	Count int     `json:"count"`
	Total float64 `json:"total"`
}

type IncomeStats struct {
	TotalIncome   float64                 `json:"total_income"`
	TotalCount    int                     `json:"total_count"`
	AverageIncome float64                 `json:"average_income"`
	ByClient      map[string]ClientIncome `json:"by_client"`
	StartDate     string                  `json:"start_date,omitempty"`
	EndDate       string                  `json:"end_date,omitempty"`
}
