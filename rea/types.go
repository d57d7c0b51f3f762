package rea

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const dayLayout = "2006-01-02"

// Project is one selectable project on the Rea portal.
type Project struct {
	ID   string
	Name string
	Code string
}

// DisplayName is the form shown to users: "CODE - Name" when a code exists.
func (p Project) DisplayName() string {
	if strings.TrimSpace(p.Code) == "" {
		return p.Name
	}
	return fmt.Sprintf("%s - %s", p.Code, p.Name)
}

// UserProfile identifies the authenticated portal user.
type UserProfile struct {
	UserID string
	Name   string
}

// TimeEntry is one billable time record on the portal. ID is zero until the
// portal has persisted the entry.
type TimeEntry struct {
	ID        FlexInt64  `json:"id"`
	UserID    FlexString `json:"userId"`
	ProjectID FlexString `json:"projectId"`
	Task      FlexString `json:"task"`
	StartDate DayDate    `json:"startDate"`
	EndDate   DayDate    `json:"endDate"`
	Effort    float64    `json:"effort"`
	Comment   FlexString `json:"comment"`
}

// DayDate is a calendar day exchanged with the portal as "2006-01-02" with no
// time-of-day and no timezone. Deployments that return full timestamps are
// truncated to the day.
type DayDate struct {
	time.Time
}

func Day(value time.Time) DayDate {
	return DayDate{time.Date(value.Year(), value.Month(), value.Day(), 0, 0, 0, 0, time.Local)}
}

func (d DayDate) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(d.Format(dayLayout))), nil
}

func (d *DayDate) UnmarshalJSON(data []byte) error {
	var asString string
	if err := json.Unmarshal(data, &asString); err != nil {
		return fmt.Errorf("unsupported date value %s", strings.TrimSpace(string(data)))
	}
	asString = strings.TrimSpace(asString)
	if asString == "" {
		*d = DayDate{}
		return nil
	}

	layouts := []string{
		dayLayout,
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02T15:04:05.999999999",
	}
	for _, layout := range layouts {
		parsed, err := time.ParseInLocation(layout, asString, time.Local)
		if err == nil {
			*d = Day(parsed)
			return nil
		}
	}
	return fmt.Errorf("parse date %q", asString)
}

// FlexString accepts payload fields that may arrive as strings, numbers or
// booleans and normalizes them to a string.
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	text := strings.TrimSpace(string(data))
	if text == "null" {
		*f = ""
		return nil
	}

	var asString string
	if err := json.Unmarshal(data, &asString); err == nil {
		*f = FlexString(asString)
		return nil
	}

	var asNumber json.Number
	if err := json.Unmarshal(data, &asNumber); err == nil {
		*f = FlexString(asNumber.String())
		return nil
	}

	var asBool bool
	if err := json.Unmarshal(data, &asBool); err == nil {
		*f = FlexString(strconv.FormatBool(asBool))
		return nil
	}

	return fmt.Errorf("unsupported string value %s", text)
}

func (f FlexString) String() string {
	return string(f)
}

// FlexInt64 accepts identifier fields that may arrive as numbers or numeric
// strings. It marshals back as a plain number.
type FlexInt64 int64

func (f *FlexInt64) UnmarshalJSON(data []byte) error {
	text := strings.TrimSpace(string(data))
	switch text {
	case "", "null", `""`:
		*f = 0
		return nil
	}

	var number int64
	if err := json.Unmarshal(data, &number); err == nil {
		*f = FlexInt64(number)
		return nil
	}

	var asString string
	if err := json.Unmarshal(data, &asString); err == nil {
		parsed, err := strconv.ParseInt(strings.TrimSpace(asString), 10, 64)
		if err != nil {
			return fmt.Errorf("parse id string %q: %w", asString, err)
		}
		*f = FlexInt64(parsed)
		return nil
	}

	return fmt.Errorf("unsupported id value %s", text)
}

func (f FlexInt64) MarshalJSON() ([]byte, error) {
	return []byte(strconv.FormatInt(int64(f), 10)), nil
}
