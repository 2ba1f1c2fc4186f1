package action

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRegistry(t *testing.T) *Registry {
	t.Helper()
	r := NewRegistry()
	require.NoError(t, r.Register(&Action{
		Name:    "Add Books",
		Display: "Add books",
		Enabled: true,
		Children: []*Action{
			{Display: "Add from a single folder", Enabled: true},
			{Display: "Add an empty book", Enabled: true, Children: []*Action{
				{Display: "One entry", Enabled: true},
			}},
		},
	}))
	require.NoError(t, r.Register(&Action{Name: "Choose Library", Display: "Library", Enabled: true}))
	return r
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	r := testRegistry(t)
	err := r.Register(&Action{Name: "Add Books", Display: "Another"})
	assert.Error(t, err)

	err = r.Register(&Action{})
	assert.Error(t, err)
}

func TestActionsSortedByDisplay(t *testing.T) {
	r := testRegistry(t)
	actions := r.Actions()
	require.Len(t, actions, 2)
	assert.Equal(t, "Add books", actions[0].Display)
	assert.Equal(t, "Library", actions[1].Display)
}

func TestActionsKeepDuplicateDisplays(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(&Action{Name: "Plugin A", Display: "Preferences...", Enabled: true}))
	require.NoError(t, r.Register(&Action{Name: "Plugin B", Display: "Preferences...", Enabled: true}))

	actions := r.Actions()
	require.Len(t, actions, 2)
	assert.Equal(t, "Plugin A", actions[0].Name)
	assert.Equal(t, "Plugin B", actions[1].Name)
}

func TestResolve(t *testing.T) {
	r := testRegistry(t)

	top := r.Resolve([]string{"Add Books"})
	require.NotNil(t, top)
	assert.Equal(t, "Add books", top.Display)

	nested := r.Resolve([]string{"Add Books", "Add an empty book", "One entry"})
	require.NotNil(t, nested)
	assert.Equal(t, "One entry", nested.Display)

	assert.Nil(t, r.Resolve(nil))
	assert.Nil(t, r.Resolve([]string{"Gone Plugin"}))
	assert.Nil(t, r.Resolve([]string{"Add Books", "No such entry"}))
}

func TestDeregister(t *testing.T) {
	r := testRegistry(t)
	r.Deregister("Choose Library")
	r.Deregister("Choose Library") // second removal is a no-op

	assert.Nil(t, r.Resolve([]string{"Choose Library"}))
	assert.Len(t, r.Actions(), 1)
}
