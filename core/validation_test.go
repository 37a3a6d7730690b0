package core

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateListName(t *testing.T) {
	existing := []*List{{Id: 1, Name: "Groceries"}, {Id: 2, Name: "Chores"}}

	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{name: "valid", input: "Errands"},
		{name: "single character", input: "x"},
		{name: "exactly 100 characters", input: strings.Repeat("a", 100)},
		{name: "100 multibyte characters", input: strings.Repeat("é", 100)},
		{name: "empty", input: "", wantErr: ErrListNameLength},
		{name: "101 characters", input: strings.Repeat("a", 101), wantErr: ErrListNameLength},
		{name: "duplicate", input: "Groceries", wantErr: ErrListNameNotUnique},
		{name: "duplicate is case sensitive", input: "groceries"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateListName(tt.input, existing)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrValidation))
			assert.True(t, errors.Is(err, tt.wantErr))
		})
	}
}

func TestValidateListName_NoExistingLists(t *testing.T) {
	assert.NoError(t, ValidateListName("Groceries", nil))
	assert.NoError(t, ValidateListName("Groceries", []*List{nil}))
}

func TestValidateTodoName(t *testing.T) {
	assert.NoError(t, ValidateTodoName("Milk"))
	assert.NoError(t, ValidateTodoName(strings.Repeat("b", 100)))

	err := ValidateTodoName("")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)
	assert.ErrorIs(t, err, ErrTodoNameLength)
	assert.Contains(t, err.Error(), "todo must be between 1 and 100 characters")

	assert.ErrorIs(t, ValidateTodoName(strings.Repeat("b", 101)), ErrTodoNameLength)
}
