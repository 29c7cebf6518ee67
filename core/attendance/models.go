package attendance

import (
	"sort"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/hrms/core"
)

// Statuses
const (
	StatusPresent = "present"
	StatusAbsent  = "absent"
	StatusHalfDay = "half-day"
	StatusLeave   = "leave"
)

const ClockLayout = "15:04"

var AllStatuses = []string{StatusPresent, StatusAbsent, StatusHalfDay, StatusLeave}

// Record is one user's attendance on one day. (UserID, Date) is its key;
// ID is derived from it, see RecordID.
type Record struct {
	ID       string      `json:"id"`
	Date     string      `json:"date" validate:"required,datetime=2006-01-02"`
	UserID   string      `json:"userId" validate:"required"`
	CheckIn  null.String `json:"checkIn"`  // HH:MM
	CheckOut null.String `json:"checkOut"` // HH:MM
	Status   string      `json:"status" validate:"oneof=present absent half-day leave"`
}

// RecordID returns the ID of the record of userID on date.
func RecordID(userID, date string) string {
	return userID + "-" + date
}

func (r Record) HasCheckedIn() bool  { return r.CheckIn.Valid && r.CheckIn.String != "" }
func (r Record) HasCheckedOut() bool { return r.CheckOut.Valid && r.CheckOut.String != "" }

func (r *Record) Validate(validate *validator.Validate, translator ut.Translator) error {
	r.UserID = core.CleanString(r.UserID)
	r.Date = core.CleanString(r.Date)
	r.Status = core.CleanString(r.Status, true /* lower */)
	if r.ID == "" {
		r.ID = RecordID(r.UserID, r.Date)
	}
	return core.Validate(validate, translator, r)
}

// QueryFilter applies AND on its non-empty fields. From and To are inclusive YYYY-MM-DD bounds.
type QueryFilter struct {
	UserID string `query:"userId"`
	Status string `query:"status"`
	From   string `query:"from"`
	To     string `query:"to"`
}

func (qf QueryFilter) Match(r Record) bool {
	return (qf.UserID == "" || r.UserID == qf.UserID) &&
		(qf.Status == "" || r.Status == qf.Status) &&
		(qf.From == "" || r.Date >= qf.From) &&
		(qf.To == "" || r.Date <= qf.To)
}

// Counts holds the number of records per status.
type Counts struct {
	Present int `json:"present"`
	Absent  int `json:"absent"`
	HalfDay int `json:"halfDay"`
	Leave   int `json:"leave"`
}

func CountByStatus(records []Record) Counts {
	var c Counts
	for _, r := range records {
		switch r.Status {
		case StatusPresent:
			c.Present++
		case StatusAbsent:
			c.Absent++
		case StatusHalfDay:
			c.HalfDay++
		case StatusLeave:
			c.Leave++
		}
	}
	return c
}

// SortByDateDesc sorts records, most recent first.
func SortByDateDesc(records []Record) {
	sort.SliceStable(records, func(i, j int) bool { return records[i].Date > records[j].Date })
}
