package middlewares

import (
	"encoding/json"
	"fmt"
	"html"
	"net/http"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/EyalPoly/attendance-manager/models"
)

// Context keys under which the validators hand validated input to the
// attendance handlers.
const (
	CtxYear  = "attendance_year"
	CtxMonth = "attendance_month"
	CtxData  = "attendance_data"
)

// FieldError is one violated rule, in the error-array shape clients of the
// API already consume.
type FieldError struct {
	Type     string `json:"type"`
	Value    any    `json:"value,omitempty"`
	Msg      string `json:"msg"`
	Path     string `json:"path"`
	Location string `json:"location"`
}

var (
	reDigits = regexp.MustCompile(`^\d+$`)
	reHHMM   = regexp.MustCompile(`^\d{2}:\d{2}$`)
)

// ValidateAttendanceParams checks the :year/:month route segments. Every
// violated rule produces its own error entry; the response carries all of
// them, not just the first. On success the parsed integers are stashed for
// the handler.
func ValidateAttendanceParams(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		year := c.Param("year")
		month := c.Param("month")

		var errs []FieldError
		add := func(value any, msg, path string) {
			errs = append(errs, FieldError{
				Type: "field", Value: value, Msg: msg, Path: path, Location: "params",
			})
		}

		if !reDigits.MatchString(year) {
			add(year, "Year must be a number", "year")
		}
		if len(year) != 4 {
			add(year, "Year must be 4 digits", "year")
		}
		if !reDigits.MatchString(month) {
			add(month, "Month must be a number", "month")
		}
		if n, err := strconv.Atoi(month); err != nil || n < 1 || n > 12 {
			add(month, "Month must be between 1 and 12", "month")
		}
		if len(month) != 2 {
			add(month, "Month must be 2 digits", "month")
		}

		if len(errs) > 0 {
			return c.JSON(http.StatusBadRequest, map[string]any{"errors": errs})
		}

		y, _ := strconv.Atoi(year)
		m, _ := strconv.Atoi(month)
		c.Set(CtxYear, y)
		c.Set(CtxMonth, m)
		return next(c)
	}
}

type fieldKind int

const (
	kindString fieldKind = iota
	kindBool
	kindNumber
)

// dayFieldRules drives validation and normalization of every day entry:
// one row per DaySessionRecord field. String values are trimmed and
// HTML-escaped; booleans and numbers are coerced from their string form.
var dayFieldRules = []struct {
	name       string
	kind       fieldKind
	required   bool
	pattern    *regexp.Regexp
	typeMsg    string
	patternMsg string
	emptyMsg   string
}{
	{name: "workplace", kind: kindString, required: true,
		typeMsg: "Workplace must be a string", emptyMsg: "Workplace cannot be empty"},
	{name: "isAbsence", kind: kindBool, required: true,
		typeMsg: "isAbsence must be a boolean"},
	{name: "startHour", kind: kindString, required: true, pattern: reHHMM,
		typeMsg: "Start hour must be a string", patternMsg: "Start hour must be in HH:MM format"},
	{name: "endHour", kind: kindString, required: true, pattern: reHHMM,
		typeMsg: "End hour must be a string", patternMsg: "End hour must be in HH:MM format"},
	{name: "frontalHours", kind: kindNumber, required: true,
		typeMsg: "Frontal hours must be a number"},
	{name: "individualHours", kind: kindNumber, required: true,
		typeMsg: "Individual hours must be a number"},
	{name: "stayingHours", kind: kindNumber, required: true,
		typeMsg: "Staying hours must be a number"},
	{name: "comments", kind: kindString, required: false,
		typeMsg: "Comments must be a string"},
}

// ValidateAttendanceBody checks a `{data: {day: entry}}` payload against the
// day-field rule table, collecting every violation across every day. On
// success the normalized data map is stashed for the handler.
func ValidateAttendanceBody(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		var body map[string]any
		if err := json.NewDecoder(c.Request().Body).Decode(&body); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]any{"errors": []FieldError{
				{Type: "field", Msg: "Invalid JSON payload", Path: "body", Location: "body"},
			}})
		}

		var errs []FieldError
		add := func(value any, msg, path string) {
			errs = append(errs, FieldError{
				Type: "field", Value: value, Msg: msg, Path: path, Location: "body",
			})
		}

		raw, ok := body["data"].(map[string]any)
		if !ok {
			add(body["data"], "Data must be an object", "data")
			return c.JSON(http.StatusBadRequest, map[string]any{"errors": errs})
		}

		// Sorted keys keep the error order stable across runs.
		days := make([]string, 0, len(raw))
		for day := range raw {
			days = append(days, day)
		}
		sort.Strings(days)

		for _, day := range days {
			if !reDigits.MatchString(day) {
				add(day, fmt.Sprintf("Invalid day number: %s", day), "data")
				break
			}
		}

		data := make(map[string]models.DaySessionRecord, len(raw))
		for _, day := range days {
			entry, _ := raw[day].(map[string]any)
			data[day] = validateDayEntry(day, entry, add)
		}

		if len(errs) > 0 {
			return c.JSON(http.StatusBadRequest, map[string]any{"errors": errs})
		}

		c.Set(CtxData, data)
		return next(c)
	}
}

// validateDayEntry applies the rule table to one day entry, reporting
// violations through add and returning the normalized record. An entry that
// is not an object fails every required field's type rule, matching the
// wildcard-schema behavior the API always had.
func validateDayEntry(day string, entry map[string]any, add func(value any, msg, path string)) models.DaySessionRecord {
	var rec models.DaySessionRecord

	for _, rule := range dayFieldRules {
		path := "data." + day + "." + rule.name
		v, present := entry[rule.name]
		if !present {
			if rule.required {
				add(nil, rule.typeMsg, path)
			}
			continue
		}

		switch rule.kind {
		case kindString:
			s, ok := v.(string)
			if !ok {
				add(v, rule.typeMsg, path)
				continue
			}
			s = strings.TrimSpace(s)
			if rule.emptyMsg != "" && s == "" {
				add(v, rule.emptyMsg, path)
				continue
			}
			if rule.pattern != nil && !rule.pattern.MatchString(s) {
				add(v, rule.patternMsg, path)
				continue
			}
			setDayString(&rec, rule.name, html.EscapeString(s))
		case kindBool:
			b, ok := coerceBool(v)
			if !ok {
				add(v, rule.typeMsg, path)
				continue
			}
			rec.IsAbsence = b
		case kindNumber:
			f, ok := coerceFloat(v)
			if !ok || f < 0 {
				add(v, rule.typeMsg, path)
				continue
			}
			setDayFloat(&rec, rule.name, f)
		}
	}

	return rec
}

func setDayString(rec *models.DaySessionRecord, field, v string) {
	switch field {
	case "workplace":
		rec.Workplace = v
	case "startHour":
		rec.StartHour = v
	case "endHour":
		rec.EndHour = v
	case "comments":
		rec.Comments = v
	}
}

func setDayFloat(rec *models.DaySessionRecord, field string, v float64) {
	switch field {
	case "frontalHours":
		rec.FrontalHours = v
	case "individualHours":
		rec.IndividualHours = v
	case "stayingHours":
		rec.StayingHours = v
	}
}

func coerceBool(v any) (bool, bool) {
	switch t := v.(type) {
	case bool:
		return t, true
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(t))
		return b, err == nil
	default:
		return false, false
	}
}

func coerceFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		return f, err == nil
	default:
		return 0, false
	}
}
