package handlers

import (
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Account codes are uppercase alphanumerics with dot/dash/underscore
// separators, e.g. "AR.CUSTOMER" or "REVENUE-RENTAL".
var accountCodeRx = regexp.MustCompile(`^[A-Z0-9][A-Z0-9._-]*$`)

// registerValidations installs custom binding validations on Gin's validator
// engine. Safe to call more than once.
func registerValidations() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("accountcode", validAccountCode)
	}
}

func validAccountCode(fl validator.FieldLevel) bool {
	return accountCodeRx.MatchString(fl.Field().String())
}
