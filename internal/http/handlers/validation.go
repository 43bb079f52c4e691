package handlers

import (
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Generated codes draw from a reduced alphabet with lookalike glyphs
// removed, but acceptance stays at the full uppercase-alphanumeric set
// so externally issued codes are never bounced on format. Unknown codes
// fall through to the lookup, which treats them as a no-op.
var inviteCodePattern = regexp.MustCompile(`^[A-Z0-9]{6}$`)

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("invitecode", func(fl validator.FieldLevel) bool {
			return inviteCodePattern.MatchString(fl.Field().String())
		})
	}
}
