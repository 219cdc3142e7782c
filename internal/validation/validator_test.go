package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Email   string `validate:"required,email"`
	Name    string `validate:"required,min=2,max=10"`
	DueDate string `validate:"date"`
	Role    string `validate:"omitempty,oneof=ADMIN TENANT"`
}

func TestValidate_OK(t *testing.T) {
	v := NewValidator()
	err := v.Validate(sample{Email: "a@b.com", Name: "Ravi", DueDate: "2026-02-01"})
	assert.NoError(t, err)
}

func TestValidate_ReportsEveryField(t *testing.T) {
	v := NewValidator()
	err := v.Validate(sample{Email: "nope", DueDate: "01/02/2026", Role: "ROOT"})
	require.Error(t, err)

	msg := err.Error()
	assert.Contains(t, msg, "email must be a valid email")
	assert.Contains(t, msg, "name is required")
	assert.Contains(t, msg, "duedate must be a date")
	assert.Contains(t, msg, "role must be one of")
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("")
	require.NoError(t, err)
	assert.Nil(t, d)

	d, err = ParseDate("2026-03-15")
	require.NoError(t, err)
	require.NotNil(t, d)
	assert.Equal(t, 15, d.Day())

	_, err = ParseDate("15-03-2026")
	assert.Error(t, err)
}
