package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// DaySessionRecord is one day's work session inside a monthly record.
// StartHour/EndHour are kept as HH:MM strings; no ordering between the
// two is enforced.
type DaySessionRecord struct {
	Workplace       string  `json:"workplace" bson:"workplace"`
	IsAbsence       bool    `json:"isAbsence" bson:"isAbsence"`
	StartHour       string  `json:"startHour" bson:"startHour"`
	EndHour         string  `json:"endHour" bson:"endHour"`
	FrontalHours    float64 `json:"frontalHours" bson:"frontalHours"`
	IndividualHours float64 `json:"individualHours" bson:"individualHours"`
	StayingHours    float64 `json:"stayingHours" bson:"stayingHours"`
	Comments        string  `json:"comments,omitempty" bson:"comments,omitempty"`
}

// AttendanceRecord is the single document stored per (userId, year, month).
// Data maps day-of-month numbers ("1".."31", digits only) to that day's
// session record.
type AttendanceRecord struct {
	ID     primitive.ObjectID          `json:"id,omitempty" bson:"_id,omitempty"`
	UserID string                      `json:"userId" bson:"userId"`
	Year   int                         `json:"year" bson:"year"`
	Month  int                         `json:"month" bson:"month"`
	Data   map[string]DaySessionRecord `json:"data" bson:"data"`
}
