package service

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/ebd-admin/ebd-api/internal/models"
)

// NewValidator returns a validator with the roll-call tags registered.
func NewValidator() *validator.Validate {
	v := validator.New()
	registerRollCallValidations(v)
	return v
}

// registerRollCallValidations adds attendance_status and iso_date.
func registerRollCallValidations(v *validator.Validate) {
	_ = v.RegisterValidation("attendance_status", func(fl validator.FieldLevel) bool {
		return models.AttendanceStatus(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation("iso_date", func(fl validator.FieldLevel) bool {
		_, err := time.Parse(models.DateLayout, fl.Field().String())
		return err == nil
	})
}
