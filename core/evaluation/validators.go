package evaluation

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/pivotpoint/platform/core"
	"github.com/pivotpoint/platform/core/report"
)

var (
	// custom validation tags & texts
	sectionKeyTag  = "sectionkey"
	sectionKeyText = "unknown report section"

	inputTypeTag  = "inputtype"
	inputTypeText = "unknown input type"

	statusTag  = "evalstatus"
	statusText = "status must be one of: in_progress, completed"
)

// InitValidators registers this package's custom validators.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(sectionKeyTag, sectionKeyValidation)
	core.RegisterCustomTranslation(validate, translator, sectionKeyTag, sectionKeyText)

	_ = validate.RegisterValidation(inputTypeTag, inputTypeValidation)
	core.RegisterCustomTranslation(validate, translator, inputTypeTag, inputTypeText)

	_ = validate.RegisterValidation(statusTag, statusValidation)
	core.RegisterCustomTranslation(validate, translator, statusTag, statusText)
}

func sectionKeyValidation(fl validator.FieldLevel) bool {
	_, ok := report.ParseSectionKey(fl.Field().String())
	return ok
}

func inputTypeValidation(fl validator.FieldLevel) bool {
	return InputType(fl.Field().String()).Valid()
}

func statusValidation(fl validator.FieldLevel) bool {
	return Status(fl.Field().String()).Valid()
}
