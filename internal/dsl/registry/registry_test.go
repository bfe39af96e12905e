package registry

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mdwerror "github.com/msto63/dashscript/foundation/core/error"
	"github.com/msto63/dashscript/internal/dsl/command"
)

func newRegistry(t *testing.T) *Registry {
	t.Helper()
	r, err := New()
	require.NoError(t, err)
	return r
}

func TestEveryKindHasSchema(t *testing.T) {
	r := newRegistry(t)
	assert.Len(t, r.Names(), len(command.Kinds()))
	for _, k := range command.Kinds() {
		_, ok := r.schemas[k]
		assert.True(t, ok, "missing schema for %s", k)
	}
}

func TestLookup(t *testing.T) {
	r := newRegistry(t)
	tests := []struct {
		name string
		want command.Kind
		ok   bool
	}{
		{"addKPI", command.KindAddKPI, true},
		{"addkpi", command.KindAddKPI, true},
		{"ADDGROUP", command.KindAddGroup, true},
		{"deleteGroupt", command.KindDeleteGroup, true},
		{"removeWidget", command.KindDeleteWidget, true},
		{"dropTable", command.KindUnknown, false},
		{"", command.KindUnknown, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := r.Lookup(tt.name)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSuggest(t *testing.T) {
	r := newRegistry(t)
	assert.Equal(t, "addGroup", r.Suggest("adGroup"))
	assert.Equal(t, "updateHeader", r.Suggest("updatHeader"))
	assert.Equal(t, "addKPI", r.Suggest("adKPI"))
	assert.Equal(t, "", r.Suggest("zzzzzzzzzzzz"))
	assert.Equal(t, "", r.Suggest(""))
}

func TestValidateRequiredAndEnums(t *testing.T) {
	r := newRegistry(t)

	err := r.Validate(command.KindAddGroup, map[string]any{"title": "x"})
	require.Error(t, err)
	assert.True(t, mdwerror.HasCode(err, mdwerror.CodeRequiredField))
	assert.Contains(t, err.Error(), "id")

	err = r.Validate(command.KindAddGroup, map[string]any{"id": "g", "orientation": "diagonal"})
	require.Error(t, err)
	assert.True(t, mdwerror.HasCode(err, mdwerror.CodeInvalidValue))
	assert.Contains(t, err.Error(), "orientation")

	err = r.Validate(command.KindCreateArticle, map[string]any{"id": "a", "sectionId": "s", "type": "table"})
	require.Error(t, err)
	assert.True(t, mdwerror.HasCode(err, mdwerror.CodeInvalidValue))

	err = r.Validate(command.KindSetDashboard, map[string]any{"dateRange": map[string]any{"startDate": "2024-01-01"}})
	require.Error(t, err)
	assert.True(t, mdwerror.HasCode(err, mdwerror.CodeRequiredField))
}

func TestValidateAcceptsNumbersAndUnknownKeys(t *testing.T) {
	r := newRegistry(t)
	assert.NoError(t, r.Validate(command.KindAddKPI, map[string]any{
		"id":     "k",
		"height": json.Number("120"),
		"extra":  "ignored",
	}))
	assert.NoError(t, r.Validate(command.KindAddSection, map[string]any{"id": "s", "type": "kpis", "gap": json.Number("16")}))

	err := r.Validate(command.KindAddKPI, map[string]any{"id": "k", "height": "tall"})
	require.Error(t, err)
	assert.True(t, mdwerror.HasCode(err, mdwerror.CodeInvalidValue))
}

func TestValidateNilArgs(t *testing.T) {
	r := newRegistry(t)
	assert.NoError(t, r.Validate(command.KindUpdateHeader, nil))
	assert.Error(t, r.Validate(command.KindDeleteWidget, nil))
}
