package utils

import (
	"regexp"
	"sync"

	"github.com/creasty/defaults"
	"github.com/go-home-io/lightmgr/plugins/common"
	"github.com/go-home-io/lightmgr/plugins/light/enums"
	"github.com/go-home-io/lightmgr/providers"
	"gopkg.in/go-playground/validator.v9"
)

var pinNameRegexp = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// Validator implementation.
type validatorProvider struct {
	sync.Mutex
	validator *validator.Validate
	logger    common.ILoggerProvider
}

// NewValidator constructs a new validator.
func NewValidator(logger common.ILoggerProvider) providers.IValidatorProvider {
	val := &validatorProvider{
		logger: logger,
	}
	v := validator.New()
	loadNewValidator(v, logger, "percent", percent)
	loadNewValidator(v, logger, "curve", curve)
	loadNewValidator(v, logger, "pin", pin)

	val.validator = v
	return val
}

// SetLogger updates the logger.
func (v *validatorProvider) SetLogger(logger common.ILoggerProvider) {
	v.logger = logger
}

// Validate applies default values and performs validation.
func (v *validatorProvider) Validate(object interface{}) bool {
	v.Lock()
	defer v.Unlock()

	err := defaults.Set(object)

	if err != nil {
		v.logger.Error("Failed to set default field values", err)
		return false
	}

	err = v.validator.Struct(object)
	if err != nil {
		errs, ok := err.(validator.ValidationErrors)
		if !ok {
			v.logger.Error("Failed to validate object", err)
			return false
		}

		for _, e := range errs {
			v.logger.Warn("Validation error", common.LogFieldToken, e.Field())
		}

		return false
	}
	return true
}

// Percent type validation.
func percent(fl validator.FieldLevel) bool {
	return fl.Field().Uint() <= 100
}

// Luma curve validation.
func curve(fl validator.FieldLevel) bool {
	return enums.Curve(fl.Field().Uint()).IsValid()
}

// Pin name validation.
func pin(fl validator.FieldLevel) bool {
	return pinNameRegexp.MatchString(fl.Field().String())
}

// Attempt to register a new validator
func loadNewValidator(validator *validator.Validate, logger common.ILoggerProvider,
	name string, function validator.Func) {
	if err := validator.RegisterValidation(name, function); err != nil {
		logger.Error("Failed to register validator type", err, "type", name)
	}
}
