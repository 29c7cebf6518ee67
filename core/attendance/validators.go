package attendance

import "github.com/trezcool/hrms/core"

// InitValidators registers the attendance field labels.
func InitValidators() {
	core.RegisterFieldLabel("date", "Date")
	core.RegisterFieldLabel("userId", "User")
	core.RegisterFieldLabel("status", "Status")
}
