package validator_test

import (
	"context"
	"testing"

	govalidator "github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keboola/go-orchestrator/internal/pkg/validator"
)

type testStruct struct {
	Name  string `json:"name" validate:"required"`
	Count int    `json:"count" validate:"min=1"`
}

func TestValidate_Ok(t *testing.T) {
	t.Parallel()
	value := testStruct{Name: "foo", Count: 3}
	require.NoError(t, validator.Validate(context.Background(), value))
}

func TestValidate_Error(t *testing.T) {
	t.Parallel()
	value := testStruct{}
	err := validator.Validate(context.Background(), value)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "name is a required field")
	assert.Contains(t, err.Error(), "count must be 1 or greater")
}

func TestValidate_CustomRule(t *testing.T) {
	t.Parallel()
	rule := validator.Rule{
		Tag: "odd",
		Func: func(fl govalidator.FieldLevel) bool {
			return fl.Field().Int()%2 == 1
		},
	}
	require.NoError(t, validator.ValidateCtx(context.Background(), 3, "odd", "value", rule))
	err := validator.ValidateCtx(context.Background(), 2, "odd", "value", rule)
	require.Error(t, err)
}
