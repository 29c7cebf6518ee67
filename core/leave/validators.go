package leave

import "github.com/trezcool/hrms/core"

var fieldLabels = map[string]string{
	"leaveType":    "Leave type",
	"startDate":    "Start date",
	"endDate":      "End date",
	"remarks":      "Remarks",
	"comment":      "Comment",
	"adminComment": "Comment",
}

// InitValidators registers the leave field labels.
func InitValidators() {
	for field, label := range fieldLabels {
		core.RegisterFieldLabel(field, label)
	}
}
