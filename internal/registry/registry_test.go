package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func schema(required ...string) map[string]any {
	reqs := make([]any, len(required))
	for i, r := range required {
		reqs[i] = r
	}
	return map[string]any{
		"type":       "object",
		"properties": map[string]any{},
		"required":   reqs,
	}
}

func TestNew_ValidDescriptorsPreserveOrder(t *testing.T) {
	r, err := New([]Descriptor{
		{Name: "b_tool", Description: "does b", InputSchema: schema()},
		{Name: "a_tool", Description: "does a", InputSchema: schema()},
	})
	require.NoError(t, err)

	names := make([]string, 0)
	for _, d := range r.List() {
		names = append(names, d.Name)
	}
	assert.Equal(t, []string{"b_tool", "a_tool"}, names)
}

func TestNew_EmptyNameFails(t *testing.T) {
	_, err := New([]Descriptor{{Name: "", Description: "x", InputSchema: schema()}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "name must not be empty")
}

func TestNew_EmptyDescriptionFails(t *testing.T) {
	_, err := New([]Descriptor{{Name: "t", Description: "", InputSchema: schema()}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "description must not be empty")
}

func TestNew_NilSchemaFails(t *testing.T) {
	_, err := New([]Descriptor{{Name: "t", Description: "x", InputSchema: nil}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "inputSchema must not be null")
}

func TestNew_WrongTypeFails(t *testing.T) {
	s := schema()
	s["type"] = "array"
	_, err := New([]Descriptor{{Name: "t", Description: "x", InputSchema: s}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `inputSchema.type must be "object"`)
}

func TestNew_NonObjectPropertiesFails(t *testing.T) {
	s := schema()
	s["properties"] = "not an object"
	_, err := New([]Descriptor{{Name: "t", Description: "x", InputSchema: s}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "inputSchema.properties must be an object")
}

func TestNew_NonArrayRequiredFails(t *testing.T) {
	s := schema()
	s["required"] = "not an array"
	_, err := New([]Descriptor{{Name: "t", Description: "x", InputSchema: s}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "inputSchema.required must be an array")
}

func TestNew_DuplicateNameFails(t *testing.T) {
	_, err := New([]Descriptor{
		{Name: "t", Description: "x", InputSchema: schema()},
		{Name: "t", Description: "y", InputSchema: schema()},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate tool name")
}

func TestNew_AggregatesAllProblems(t *testing.T) {
	_, err := New([]Descriptor{
		{Name: "", Description: "x", InputSchema: schema()},
		{Name: "t2", Description: "", InputSchema: nil},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "name must not be empty")
	assert.Contains(t, err.Error(), "t2")
}

func TestGet_FoundAndNotFound(t *testing.T) {
	r, err := New([]Descriptor{{Name: "t", Description: "x", InputSchema: schema()}})
	require.NoError(t, err)

	d, ok := r.Get("t")
	assert.True(t, ok)
	assert.Equal(t, "t", d.Name)

	_, ok = r.Get("missing")
	assert.False(t, ok)
}

func TestNames(t *testing.T) {
	r, err := New([]Descriptor{
		{Name: "a", Description: "x", InputSchema: schema()},
		{Name: "b", Description: "x", InputSchema: schema()},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, r.Names())
}
