package user

import (
	"regexp"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/hrms/core"
)

var (
	// password policy; each rule is its own tag so the first violated one is reported
	pwdUpperTag  = "pwdupper"
	pwdUpperText = "Password must contain at least one uppercase letter"
	upperRegex   = regexp.MustCompile("[A-Z]")

	pwdLowerTag  = "pwdlower"
	pwdLowerText = "Password must contain at least one lowercase letter"
	lowerRegex   = regexp.MustCompile("[a-z]")

	pwdDigitTag  = "pwddigit"
	pwdDigitText = "Password must contain at least one number"
	digitRegex   = regexp.MustCompile("[0-9]")

	pwdSpecialTag  = "pwdspecial"
	pwdSpecialText = "Password must contain at least one special character"
	specialRegex   = regexp.MustCompile("[^A-Za-z0-9]")

	fieldLabels = map[string]string{
		"employeeId":     "Employee ID",
		"email":          "Email",
		"password":       "Password",
		"firstName":      "First name",
		"lastName":       "Last name",
		"role":           "Role",
		"phone":          "Phone",
		"address":        "Address",
		"department":     "Department",
		"designation":    "Designation",
		"profilePicture": "Profile picture",
		"basic":          "Basic salary",
		"hra":            "HRA",
		"allowances":     "Allowances",
		"deductions":     "Deductions",
	}
)

// InitValidators registers the user validators and field labels.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	for field, label := range fieldLabels {
		core.RegisterFieldLabel(field, label)
	}

	registerPasswordRule(validate, translator, pwdUpperTag, pwdUpperText, upperRegex)
	registerPasswordRule(validate, translator, pwdLowerTag, pwdLowerText, lowerRegex)
	registerPasswordRule(validate, translator, pwdDigitTag, pwdDigitText, digitRegex)
	registerPasswordRule(validate, translator, pwdSpecialTag, pwdSpecialText, specialRegex)
}

func registerPasswordRule(validate *validator.Validate, translator ut.Translator, tag, text string, re *regexp.Regexp) {
	_ = validate.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
		if pwd, ok := fl.Field().Interface().(string); ok {
			return re.MatchString(pwd)
		}
		return false
	})
	core.RegisterCustomTranslation(validate, translator, tag, text)
}
