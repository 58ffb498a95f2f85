package validation

import (
	"errors"
	"testing"

	"github.com/akash0382/ApniSec/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signup struct {
	Email    string  `json:"email" validate:"required,email"`
	Password string  `json:"password" validate:"required,min=6"`
	Name     *string `json:"name" validate:"omitnil,min=1"`
	Kind     string  `json:"type" validate:"omitempty,oneof=A B"`
}

func ptr(s string) *string { return &s }

func TestStruct_Valid(t *testing.T) {
	v := New()
	require.NoError(t, v.Struct(signup{Email: "a@b.co", Password: "secret"}))
	require.NoError(t, v.Struct(signup{Email: "a@b.co", Password: "secret", Name: ptr("Ann"), Kind: "B"}))
}

func TestStruct_CollectsAllViolations(t *testing.T) {
	v := New()

	err := v.Struct(signup{Email: "nope", Password: "123", Name: ptr(""), Kind: "C"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrorValidation))

	e, ok := common.AsError(err)
	require.True(t, ok)
	assert.Equal(t, FailedMessage, e.Message)
	assert.Equal(t, map[string]string{
		"email":    "must be a valid email address",
		"password": "must be at least 6 characters",
		"name":     "must be at least 1 characters",
		"type":     "must be one of: A, B",
	}, e.Details)
}

func TestStruct_Required(t *testing.T) {
	err := New().Struct(signup{})
	e, ok := common.AsError(err)
	require.True(t, ok)
	assert.Equal(t, "is required", e.Details["email"])
	assert.Equal(t, "is required", e.Details["password"])
	assert.NotContains(t, e.Details, "name")
}

func TestStruct_MaxBytesCountsEncodedLength(t *testing.T) {
	v := New()
	type secret struct {
		Password string `json:"password" validate:"maxbytes=8"`
	}

	require.NoError(t, v.Struct(secret{Password: "12345678"}))
	// four runes, twelve bytes
	err := v.Struct(secret{Password: "ключ"})
	e, ok := common.AsError(err)
	require.True(t, ok)
	assert.Equal(t, map[string]string{"password": "must be at most 8 bytes"}, e.Details)
}

func TestVar(t *testing.T) {
	v := New()
	require.NoError(t, v.Var("type", "VAPT", "oneof=VAPT CLOUD"))

	err := v.Var("type", "X", "oneof=VAPT CLOUD")
	e, ok := common.AsError(err)
	require.True(t, ok)
	assert.Equal(t, map[string]string{"type": "must be one of: VAPT, CLOUD"}, e.Details)
}

func TestStruct_NonStructInput(t *testing.T) {
	err := New().Struct(42)
	require.Error(t, err)
	assert.False(t, errors.Is(err, common.ErrorValidation))
}
