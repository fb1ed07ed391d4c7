package training

import (
	"fmt"
	"strings"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/personal/core"
)

var (
	muscleGroupTag  = "musclegroup"
	muscleGroupText = fmt.Sprintf("muscle group must be one of: %s", strings.Join(MuscleGroups, ", "))
)

// InitValidators registers the training validators.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(muscleGroupTag, muscleGroupValidation)
	core.RegisterCustomTranslation(validate, translator, muscleGroupTag, muscleGroupText)
}

// Custom Validators

// muscleGroupValidation checks that the value is one of MuscleGroups.
func muscleGroupValidation(fl validator.FieldLevel) bool {
	if group, ok := fl.Field().Interface().(string); ok {
		for _, g := range MuscleGroups {
			if g == group {
				return true
			}
		}
	}
	return false
}
