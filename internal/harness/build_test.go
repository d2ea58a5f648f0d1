package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dovetail-ui/dovetail/internal/node"
	"github.com/dovetail-ui/dovetail/internal/testutil"
)

func strptr(s string) *string { return &s }
func intptr(n int64) *int64   { return &n }

func TestBuildChild_Variants(t *testing.T) {
	text, err := buildChild(NodeSpec{Slot: "a", Text: strptr("hi")})
	require.NoError(t, err)
	assert.Equal(t, node.KindOrdinary, text.Kind())
	assert.Equal(t, "a", text.SlotName())

	number, err := buildChild(NodeSpec{Number: intptr(5)})
	require.NoError(t, err)
	assert.Equal(t, node.KindOrdinary, number.Kind())

	override, err := buildChild(NodeSpec{Override: &OverrideSpec{}})
	require.NoError(t, err)
	assert.Equal(t, node.KindOverride, override.Kind())

	forward, err := buildChild(NodeSpec{Forward: &ForwardSpec{}})
	require.NoError(t, err)
	assert.Equal(t, node.KindForward, forward.Kind())
}

func TestBuildChild_ExactlyOneVariant(t *testing.T) {
	_, err := buildChild(NodeSpec{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exactly one of")

	_, err = buildChild(NodeSpec{Text: strptr("x"), Number: intptr(1)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exactly one of")
}

func TestBuildElement_NestedWithProps(t *testing.T) {
	child, err := buildChild(NodeSpec{
		Element: &ElementSpec{
			Type:     "button",
			Identity: "save",
			Props:    map[string]any{"label": "Save", "order": 2},
			Children: []NodeSpec{
				{Text: strptr("caption")},
				{Element: &ElementSpec{Type: "icon"}},
			},
		},
	})
	require.NoError(t, err)

	content := child.Data.(node.Content)
	el := content.Payload.(node.ValuePayload).Node.(*node.Element)
	assert.Equal(t, "button", el.Type)
	assert.Equal(t, "save", el.Identity)
	assert.Equal(t, node.Str("Save"), el.Props["label"])
	assert.Equal(t, node.Int(2), el.Props["order"])
	require.Len(t, el.Children, 2)
}

func TestBuildElement_Errors(t *testing.T) {
	_, err := buildChild(NodeSpec{Element: &ElementSpec{}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "type is required")

	_, err = buildChild(NodeSpec{Element: &ElementSpec{
		Type:  "badge",
		Props: map[string]any{"ratio": 0.5},
	}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "floats are forbidden")
}

func TestBuildFunc_RealizesWithRuntimeProps(t *testing.T) {
	child, err := buildChild(NodeSpec{Func: &FuncSpec{Type: "label"}})
	require.NoError(t, err)

	fn := child.Data.(node.Content).Payload.(node.FuncPayload).Fn
	out := fn(node.Props{"text": node.Str("hello")})
	testutil.RequireCanonicalNode(t,
		`{"kind":"element","props":{"text":"hello"},"type":"label"}`,
		out)
}

func TestBuildOverride_Full(t *testing.T) {
	child, err := buildChild(NodeSpec{
		Override: &OverrideSpec{
			Allowed: []string{"text", "element:button"},
			Enforce: "strict",
			Props: map[string]PropTransformSpec{
				"id": {Append: strptr("-x")},
			},
			Fallback: []NodeSpec{{Text: strptr("fb")}},
		},
	})
	require.NoError(t, err)

	spec := child.Data.(node.OverrideMarker).Spec
	assert.Equal(t, node.Strict, spec.Enforce)
	assert.Equal(t, "text|element:button", spec.MatchSetString())
	assert.Len(t, spec.Props, 1)
	assert.Len(t, spec.Fallback, 1)
}

func TestBuildOverride_Errors(t *testing.T) {
	_, err := buildChild(NodeSpec{Override: &OverrideSpec{Allowed: []string{"banana"}}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown matcher")

	_, err = buildChild(NodeSpec{Override: &OverrideSpec{Enforce: "loose"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "enforce must be strict or permissive")

	_, err = buildChild(NodeSpec{Override: &OverrideSpec{
		Replace: &NodeSpec{Text: strptr("r")},
		Props:   map[string]PropTransformSpec{"id": {Drop: true}},
	}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mutually exclusive")
}

func TestBuildOverride_ReplaceClonesPerApplication(t *testing.T) {
	child, err := buildChild(NodeSpec{
		Override: &OverrideSpec{
			Replace: &NodeSpec{Element: &ElementSpec{Type: "swap"}},
		},
	})
	require.NoError(t, err)

	transform := child.Data.(node.OverrideMarker).Spec.Node
	first := transform(node.Text("in")).(*node.Element)
	second := transform(node.Text("in")).(*node.Element)
	assert.NotSame(t, first, second)
	assert.Equal(t, "swap", first.Type)
}

func TestBuildPropTransform(t *testing.T) {
	t.Run("set replaces", func(t *testing.T) {
		transform, err := buildPropTransform(PropTransformSpec{Set: "new"})
		require.NoError(t, err)
		assert.Equal(t, node.Str("new"), transform(node.Str("old")))
		assert.Equal(t, node.Str("new"), transform(nil))
	})

	t.Run("append concatenates", func(t *testing.T) {
		transform, err := buildPropTransform(PropTransformSpec{Append: strptr("-tail")})
		require.NoError(t, err)
		assert.Equal(t, node.Str("head-tail"), transform(node.Str("head")))
		assert.Equal(t, node.Str("-tail"), transform(nil))
	})

	t.Run("drop deletes", func(t *testing.T) {
		transform, err := buildPropTransform(PropTransformSpec{Drop: true})
		require.NoError(t, err)
		assert.Nil(t, transform(node.Str("gone")))
	})

	t.Run("exactly one required", func(t *testing.T) {
		_, err := buildPropTransform(PropTransformSpec{})
		require.Error(t, err)

		_, err = buildPropTransform(PropTransformSpec{Set: "x", Drop: true})
		require.Error(t, err)
	})

	t.Run("set rejects floats", func(t *testing.T) {
		_, err := buildPropTransform(PropTransformSpec{Set: 1.5})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "floats are forbidden")
	})
}

func TestBuildForward(t *testing.T) {
	child, err := buildChild(NodeSpec{
		Slot: "body",
		Forward: &ForwardSpec{
			Props:    map[string]any{"tone": "caller"},
			Content:  []NodeSpec{{Text: strptr("c")}},
			Fallback: []NodeSpec{{Text: strptr("f")}},
		},
	})
	require.NoError(t, err)

	fw := child.Data.(node.ForwardMarker).Forward
	assert.Equal(t, node.Str("caller"), fw.CallerProps["tone"])
	assert.Len(t, fw.Content, 1)
	assert.Len(t, fw.CallerFallback, 1)
}
