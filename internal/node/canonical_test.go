package node

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalCanonical_Primitives(t *testing.T) {
	testCases := []struct {
		name string
		node Renderable
		want string
	}{
		{"text", Text("hello"), `{"kind":"text","text":"hello"}`},
		{"number", Number(42), `{"kind":"number","value":42}`},
		{"negative number", Number(-3), `{"kind":"number","value":-3}`},
		{"empty element", &Element{Type: "divider"}, `{"kind":"element","type":"divider"}`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := MarshalCanonical(tc.node)
			require.NoError(t, err)
			assert.Equal(t, tc.want, string(got))
		})
	}
}

func TestMarshalCanonical_ElementFull(t *testing.T) {
	el := &Element{
		Type:     "button",
		Identity: "save",
		Props:    Props{"variant": Str("primary"), "disabled": Bool(false)},
		Children: []Renderable{Text("Save"), Number(1)},
	}

	got, err := MarshalCanonical(el)
	require.NoError(t, err)
	assert.Equal(t,
		`{"kind":"element","children":[{"kind":"text","text":"Save"},{"kind":"number","value":1}],"identity":"save","props":{"disabled":false,"variant":"primary"},"type":"button"}`,
		string(got))
}

func TestMarshalCanonical_OmitsEmptyPropsAndChildren(t *testing.T) {
	el := &Element{Type: "spacer", Props: Props{}, Children: []Renderable{}}
	got, err := MarshalCanonical(el)
	require.NoError(t, err)
	assert.Equal(t, `{"kind":"element","type":"spacer"}`, string(got))
}

func TestMarshalCanonical_NoHTMLEscaping(t *testing.T) {
	got, err := MarshalCanonical(Text("<a href=\"x\"> & more"))
	require.NoError(t, err)
	assert.Equal(t, `{"kind":"text","text":"<a href=\"x\"> & more"}`, string(got))
}

func TestMarshalCanonical_NFCNormalization(t *testing.T) {
	// "é" as e + COMBINING ACUTE ACCENT must encode identically to the
	// precomposed form.
	decomposed := Text("café")
	precomposed := Text("café")

	a, err := MarshalCanonical(decomposed)
	require.NoError(t, err)
	b, err := MarshalCanonical(precomposed)
	require.NoError(t, err)
	assert.Equal(t, string(b), string(a))
}

func TestMarshalCanonical_ControlCharacters(t *testing.T) {
	got, err := MarshalCanonical(Text("a\nb\tc\x01d"))
	require.NoError(t, err)
	assert.Equal(t, `{"kind":"text","text":"a\nb\tc\u0001d"}`, string(got))
}

func TestMarshalCanonicalList(t *testing.T) {
	nodes := []Renderable{Text("a"), &Element{Type: "icon"}}
	got, err := MarshalCanonicalList(nodes)
	require.NoError(t, err)
	assert.Equal(t, `[{"kind":"text","text":"a"},{"kind":"element","type":"icon"}]`, string(got))
}

func TestMarshalCanonicalList_Empty(t *testing.T) {
	got, err := MarshalCanonicalList(nil)
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(got))
}

func TestMarshalCanonical_NestedValues(t *testing.T) {
	el := &Element{
		Type: "list",
		Props: Props{
			"items": List{Str("x"), Int(2)},
			"meta":  Obj{"b": Bool(true), "a": Str("first")},
		},
	}
	got, err := MarshalCanonical(el)
	require.NoError(t, err)
	assert.Equal(t,
		`{"kind":"element","props":{"items":["x",2],"meta":{"a":"first","b":true}},"type":"list"}`,
		string(got))
}

func TestMarshalCanonical_NilRenderable(t *testing.T) {
	_, err := MarshalCanonical(nil)
	require.Error(t, err)
}
