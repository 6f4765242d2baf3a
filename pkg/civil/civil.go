// Package civil models wall-clock dates and times in the organization's fixed
// civil timezone (India Standard Time), independent of the server's local zone.
//
// A Date is a calendar day and a Clock is an HH:MM wall-clock reading. Combining
// them with At yields an absolute instant. Day boundaries (Start, AddDays) are
// always computed in Zone, never by shifting UTC offsets by hand.
package civil

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

const (
	ZoneName    = "Asia/Kolkata"
	DateLayout  = "2006-01-02"
	ClockLayout = "15:04"
)

var Zone = mustLoadZone(ZoneName)

var (
	ErrEmptyDate       = errors.New("date is required")
	ErrInvalidDate     = errors.New("date must be YYYY-MM-DD or an ISO-8601 timestamp")
	ErrEmptyClock      = errors.New("time is required")
	ErrInvalidClock    = errors.New("time must be HH:MM (24-hour)")
	errUnsupportedBSON = errors.New("unsupported BSON type")
)

var clockPattern = regexp.MustCompile(`^([01]?[0-9]|2[0-3]):([0-5][0-9])$`)

// datetime layouts accepted in addition to DateLayout. Layouts without an
// offset are read as civil time.
var isoLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

func mustLoadZone(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic(fmt.Sprintf("civil: cannot load zone %s: %v", name, err))
	}
	return loc
}

type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// DateOf returns the civil date of the instant t.
func DateOf(t time.Time) Date {
	y, m, d := t.In(Zone).Date()
	return Date{Year: y, Month: m, Day: d}
}

// ParseDate accepts "YYYY-MM-DD" or an ISO-8601 timestamp. Timestamps carrying
// an offset are converted into Zone before the date is taken.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Date{}, ErrEmptyDate
	}
	if t, err := time.ParseInLocation(DateLayout, s, Zone); err == nil {
		return DateOf(t), nil
	}
	for _, layout := range isoLayouts {
		if t, err := time.ParseInLocation(layout, s, Zone); err == nil {
			return DateOf(t), nil
		}
	}
	return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
}

func (d Date) IsZero() bool {
	return d == Date{}
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// Start is midnight at the beginning of d in Zone.
func (d Date) Start() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, Zone)
}

func (d Date) AddDays(n int) Date {
	return DateOf(time.Date(d.Year, d.Month, d.Day+n, 12, 0, 0, 0, Zone))
}

func (d Date) Before(other Date) bool {
	return d.Start().Before(other.Start())
}

func (d Date) After(other Date) bool {
	return d.Start().After(other.Start())
}

// At combines the date with a wall-clock reading, taken at face value in Zone.
func (d Date) At(c Clock) time.Time {
	return time.Date(d.Year, d.Month, d.Day, c.Hour, c.Minute, 0, 0, Zone)
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte(`""`), nil
	}
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidDate, string(data))
	}
	if s == "" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// MarshalBSONValue stores the date as the instant of its civil midnight so that
// range queries on day boundaries work on the server.
func (d Date) MarshalBSONValue() (bsontype.Type, []byte, error) {
	if d.IsZero() {
		return bsontype.Null, nil, nil
	}
	return bson.MarshalValue(d.Start())
}

// UnmarshalBSONValue reads BSON datetimes as well as legacy string dates.
func (d *Date) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	raw := bson.RawValue{Type: t, Value: data}
	switch t {
	case bsontype.DateTime:
		*d = DateOf(raw.Time())
		return nil
	case bsontype.String:
		parsed, err := ParseDate(raw.StringValue())
		if err != nil {
			return err
		}
		*d = parsed
		return nil
	case bsontype.Null, bsontype.Undefined:
		*d = Date{}
		return nil
	default:
		return fmt.Errorf("civil date: %w %s", errUnsupportedBSON, t)
	}
}

type Clock struct {
	Hour   int
	Minute int
}

// ParseClock accepts "HH:MM" in 24-hour form; a single-digit hour is tolerated.
func ParseClock(s string) (Clock, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Clock{}, ErrEmptyClock
	}
	m := clockPattern.FindStringSubmatch(s)
	if m == nil {
		return Clock{}, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	hour, _ := strconv.Atoi(m[1])
	minute, _ := strconv.Atoi(m[2])
	return Clock{Hour: hour, Minute: minute}, nil
}

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

func (c Clock) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

func (c *Clock) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidClock, string(data))
	}
	parsed, err := ParseClock(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

func (c Clock) MarshalBSONValue() (bsontype.Type, []byte, error) {
	return bson.MarshalValue(c.String())
}

func (c *Clock) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	if t != bsontype.String {
		return fmt.Errorf("civil clock: %w %s", errUnsupportedBSON, t)
	}
	parsed, err := ParseClock(bson.RawValue{Type: t, Value: data}.StringValue())
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
