package resolve

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveError_Error(t *testing.T) {
	testCases := []struct {
		name string
		err  *ResolveError
		want string
	}{
		{
			name: "component and slot",
			err:  NewForwardError("Button", "leftIcon"),
			want: "INVALID_FORWARD: template-as-slot binding must carry a concrete value, not a function payload (component=Button, slot=leftIcon)",
		},
		{
			name: "component only",
			err:  NewDefinitionError("Button", "at least one slot is required"),
			want: "INVALID_DEFINITION: at least one slot is required (component=Button)",
		},
		{
			name: "bare",
			err:  &ResolveError{Code: ErrCodeMismatch, Message: "boom"},
			want: "MISMATCH: boom",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.err.Error())
		})
	}
}

func TestNewMismatchError_Fields(t *testing.T) {
	err := NewMismatchError("Button", "leftIcon", []string{"element:icon", "text"}, "number")

	assert.Equal(t, ErrCodeMismatch, err.Code)
	assert.Equal(t, "Button", err.Component)
	assert.Equal(t, "leftIcon", err.Slot)
	assert.Equal(t, []string{"element:icon", "text"}, err.Expected)
	assert.Equal(t, "number", err.Actual)
	assert.Contains(t, err.Error(), "expected element:icon|text, got number")
}

func TestNewUnknownSlotError_ListsDeclared(t *testing.T) {
	err := NewUnknownSlotError("Card", "footer", []string{"header", "body"})
	assert.Contains(t, err.Error(), `slot "footer" is not declared`)
	assert.Contains(t, err.Error(), "header, body")
}

func TestErrorPredicates(t *testing.T) {
	mismatch := NewMismatchError("C", "s", []string{"text"}, "number")
	forward := NewForwardError("C", "s")
	unknown := NewUnknownSlotError("C", "s", nil)

	assert.True(t, IsMismatchError(mismatch))
	assert.False(t, IsMismatchError(forward))

	assert.True(t, IsForwardError(forward))
	assert.False(t, IsForwardError(unknown))

	assert.True(t, IsUnknownSlotError(unknown))
	assert.False(t, IsUnknownSlotError(mismatch))

	assert.False(t, IsMismatchError(errors.New("plain")))
	assert.False(t, IsMismatchError(nil))
}

func TestErrorPredicates_Wrapped(t *testing.T) {
	wrapped := fmt.Errorf("render pass: %w", NewMismatchError("C", "s", []string{"text"}, "number"))
	assert.True(t, IsMismatchError(wrapped))

	var re *ResolveError
	require.ErrorAs(t, wrapped, &re)
	assert.Equal(t, ErrCodeMismatch, re.Code)
}
