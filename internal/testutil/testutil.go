// Package testutil provides shared helpers for engine tests.
package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dovetail-ui/dovetail/internal/node"
)

// Element builds an element node in one expression.
func Element(elementType string, props node.Props, children ...node.Renderable) *node.Element {
	return &node.Element{Type: elementType, Props: props, Children: children}
}

// RequireCanonical asserts that a node list encodes to the expected
// canonical JSON. Comparing canonical bytes keeps failure output readable
// and catches ordering regressions that structural equality would mask.
func RequireCanonical(t *testing.T, want string, nodes []node.Renderable) {
	t.Helper()
	got, err := node.MarshalCanonicalList(nodes)
	require.NoError(t, err)
	require.Equal(t, want, string(got))
}

// RequireCanonicalNode asserts canonical encoding of a single node.
func RequireCanonicalNode(t *testing.T, want string, n node.Renderable) {
	t.Helper()
	got, err := node.MarshalCanonical(n)
	require.NoError(t, err)
	require.Equal(t, want, string(got))
}
