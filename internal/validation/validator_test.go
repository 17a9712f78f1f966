package validation

import (
	"testing"

	"convenz-admin/internal/apperr"
	"github.com/stretchr/testify/assert"
)

type sample struct {
	Name   string `validate:"required"`
	PlanID string `validate:"omitempty,objectid"`
}

func TestValidateDetails(t *testing.T) {
	v := New()

	err := v.Validate(sample{PlanID: "xyz"})
	appErr := apperr.As(err)
	assert.Equal(t, apperr.KindValidation, appErr.Kind)
	assert.Equal(t, "required", appErr.Details["Name"])
	assert.Equal(t, "objectid", appErr.Details["PlanID"])
}

func TestValidateOK(t *testing.T) {
	v := New()
	assert.NoError(t, v.Validate(sample{Name: "Gold", PlanID: "64b7f0c2a1b2c3d4e5f60718"}))
	assert.NoError(t, v.Validate(sample{Name: "Gold"}))
}
