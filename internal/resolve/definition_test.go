package resolve

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dovetail-ui/dovetail/internal/node"
)

func TestDefinition_Validate(t *testing.T) {
	testCases := []struct {
		name    string
		def     Definition
		wantErr string
	}{
		{
			name: "valid",
			def:  Definition{Component: "Button", Slots: []string{"leftIcon", "default"}},
		},
		{
			name: "valid with allowed constraint",
			def: Definition{
				Component: "Button",
				Slots:     []string{"leftIcon"},
				Allowed:   map[string][]node.Match{"leftIcon": {node.MatchElementNode("icon")}},
			},
		},
		{
			name:    "missing component name",
			def:     Definition{Slots: []string{"default"}},
			wantErr: "component name is required",
		},
		{
			name:    "no slots",
			def:     Definition{Component: "Button"},
			wantErr: "at least one slot is required",
		},
		{
			name:    "blank slot name",
			def:     Definition{Component: "Button", Slots: []string{"a", "  "}},
			wantErr: "name is required",
		},
		{
			name:    "duplicate slot",
			def:     Definition{Component: "Button", Slots: []string{"a", "a"}},
			wantErr: `slot "a" declared twice`,
		},
		{
			name: "allowed targets undeclared slot",
			def: Definition{
				Component: "Button",
				Slots:     []string{"a"},
				Allowed:   map[string][]node.Match{"b": {node.MatchTextNode()}},
			},
			wantErr: "undeclared slot",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.def.Validate()
			if tc.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)

			var re *ResolveError
			require.ErrorAs(t, err, &re)
			assert.Equal(t, ErrCodeInvalidDefinition, re.Code)
		})
	}
}

func TestDefinition_Declared(t *testing.T) {
	def := Definition{Component: "Card", Slots: []string{"header", " body "}}
	declared := def.Declared()
	assert.True(t, declared["header"])
	assert.True(t, declared["body"])
	assert.False(t, declared["footer"])
}
