package leave

import (
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/trezcool/hrms/core"
)

// Leave types
const (
	TypePaid   = "paid"
	TypeSick   = "sick"
	TypeUnpaid = "unpaid"
)

// Statuses
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

const DefaultApprovalComment = "Leave request approved."

var (
	AllTypes = []string{TypePaid, TypeSick, TypeUnpaid}

	ErrInvalidDateRange = errors.New("End date must be after start date.")
)

type Request struct {
	ID           string `json:"id"`
	UserID       string `json:"userId"`
	EmployeeName string `json:"employeeName"`
	LeaveType    string `json:"leaveType"`
	StartDate    string `json:"startDate"` // YYYY-MM-DD, inclusive
	EndDate      string `json:"endDate"`   // YYYY-MM-DD, inclusive
	Remarks      string `json:"remarks"`
	Status       string `json:"status"`
	AdminComment string `json:"adminComment,omitempty"`
	CreatedAt    string `json:"createdAt"` // YYYY-MM-DD
}

func (r Request) IsPending() bool { return r.Status == StatusPending }

// Days returns the number of days covered by r, both ends included.
// It returns 0 for unparsable or inverted ranges.
func (r Request) Days() int {
	start, err1 := time.Parse(core.DateLayout, r.StartDate)
	end, err2 := time.Parse(core.DateLayout, r.EndDate)
	if err1 != nil || err2 != nil || end.Before(start) {
		return 0
	}
	return int(end.Sub(start).Hours()/24) + 1
}

// NewRequest contains information needed to file a leave request.
type NewRequest struct {
	LeaveType string `json:"leaveType" validate:"oneof=paid sick unpaid"`
	StartDate string `json:"startDate" validate:"required,datetime=2006-01-02"`
	EndDate   string `json:"endDate" validate:"required,datetime=2006-01-02"`
	Remarks   string `json:"remarks" validate:"max=500"`
}

func (nr *NewRequest) Validate(validate *validator.Validate, translator ut.Translator) error {
	nr.LeaveType = core.CleanString(nr.LeaveType, true /* lower */)
	nr.StartDate = core.CleanString(nr.StartDate)
	nr.EndDate = core.CleanString(nr.EndDate)
	nr.Remarks = core.CleanString(nr.Remarks)

	if err := core.Validate(validate, translator, nr); err != nil {
		return err
	}
	// same layout, so lexical order is chronological order
	if nr.StartDate > nr.EndDate {
		return core.NewValidationError(ErrInvalidDateRange, core.FieldError{Field: "endDate", Error: ErrInvalidDateRange.Error()})
	}
	return nil
}

// Decision is an admin's answer to a pending request.
type Decision struct {
	Comment string `json:"comment" validate:"max=500"`
}

type QueryFilter struct {
	UserID    string `query:"userId"`
	Status    string `query:"status"`
	LeaveType string `query:"leaveType"`
}

func (qf QueryFilter) Match(r Request) bool {
	return (qf.UserID == "" || r.UserID == qf.UserID) &&
		(qf.Status == "" || r.Status == qf.Status) &&
		(qf.LeaveType == "" || r.LeaveType == qf.LeaveType)
}

// StatusCounts holds the number of requests per status.
type StatusCounts struct {
	Pending  int `json:"pending"`
	Approved int `json:"approved"`
	Rejected int `json:"rejected"`
}

// TypeCounts holds the number of requests per leave type.
type TypeCounts struct {
	Paid   int `json:"paid"`
	Sick   int `json:"sick"`
	Unpaid int `json:"unpaid"`
}

func CountByStatus(requests []Request) StatusCounts {
	var c StatusCounts
	for _, r := range requests {
		switch r.Status {
		case StatusPending:
			c.Pending++
		case StatusApproved:
			c.Approved++
		case StatusRejected:
			c.Rejected++
		}
	}
	return c
}

func CountByType(requests []Request) TypeCounts {
	var c TypeCounts
	for _, r := range requests {
		switch r.LeaveType {
		case TypePaid:
			c.Paid++
		case TypeSick:
			c.Sick++
		case TypeUnpaid:
			c.Unpaid++
		}
	}
	return c
}
