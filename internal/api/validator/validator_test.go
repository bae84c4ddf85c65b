package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type statusPayload struct {
	Status string `json:"status" validate:"required,user_status"`
}

func TestUserStatusTag(t *testing.T) {
	v := NewValidator()
	require.NotNil(t, v)

	assert.NoError(t, v.Validate(statusPayload{Status: "ACTIVE"}))
	assert.NoError(t, v.Validate(statusPayload{Status: "SUSPENDED"}))

	err := v.Validate(statusPayload{Status: "FROZEN"})
	require.Error(t, err)

	ve, ok := err.(ValidationErrors)
	require.True(t, ok)
	formatted := ve.Format()
	assert.Contains(t, formatted["status"], "PENDING, ACTIVE, REJECTED, SUSPENDED, INACTIVE")
}

func TestMissingFieldUsesJSONName(t *testing.T) {
	v := NewValidator()

	err := v.Validate(statusPayload{})
	require.Error(t, err)

	ve, ok := err.(ValidationErrors)
	require.True(t, ok)
	assert.Equal(t, "status is required", ve.Format()["status"])
}
