package snapshot

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/poiesic/todos/session"
	"github.com/poiesic/todos/storage/sessionstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const groceriesYAML = `lists:
  - name: Groceries
    todos:
      - name: Milk
        completed: true
      - name: Eggs
        completed: false
  - name: Chores
`

func TestRead(t *testing.T) {
	snap, err := Read(strings.NewReader(groceriesYAML))
	require.NoError(t, err)

	expected := &Snapshot{Lists: []List{
		{Name: "Groceries", Todos: []Todo{
			{Name: "Milk", Completed: true},
			{Name: "Eggs"},
		}},
		{Name: "Chores"},
	}}
	assert.Equal(t, expected, snap)
}

func TestRead_Empty(t *testing.T) {
	snap, err := Read(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, snap.Lists)
}

func TestRead_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"unknown field", "lists:\n  - name: A\n    colour: red\n"},
		{"wrong type", "lists: 12\n"},
		{"malformed", "lists: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Read(strings.NewReader(tt.input))
			assert.ErrorIs(t, err, ErrInvalidSnapshot)
		})
	}
}

func TestWrite(t *testing.T) {
	snap := &Snapshot{Lists: []List{
		{Name: "Groceries", Todos: []Todo{{Name: "Milk", Completed: true}}},
	}}

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, snap))
	assert.Contains(t, buf.String(), "name: Groceries")
	assert.Contains(t, buf.String(), "completed: true")

	decoded, err := Read(&buf)
	require.NoError(t, err)
	assert.Equal(t, snap, decoded)
}

func TestExport(t *testing.T) {
	ctx := context.Background()
	repo := sessionstore.NewListRepository(session.New("export"))

	groceries, err := repo.CreateList(ctx, "Groceries")
	require.NoError(t, err)
	milk, err := repo.CreateTodo(ctx, groceries.Id, "Milk")
	require.NoError(t, err)
	_, err = repo.CreateTodo(ctx, groceries.Id, "Eggs")
	require.NoError(t, err)
	require.NoError(t, repo.UpdateTodoStatus(ctx, groceries.Id, milk.Id, true))
	_, err = repo.CreateList(ctx, "Chores")
	require.NoError(t, err)

	snap, err := Export(ctx, repo)
	require.NoError(t, err)

	expected := &Snapshot{Lists: []List{
		{Name: "Chores"},
		{Name: "Groceries", Todos: []Todo{
			{Name: "Milk", Completed: true},
			{Name: "Eggs"},
		}},
	}}
	assert.Equal(t, expected, snap)
}

func TestExport_Empty(t *testing.T) {
	repo := sessionstore.NewListRepository(session.New("empty"))
	snap, err := Export(context.Background(), repo)
	require.NoError(t, err)
	assert.Empty(t, snap.Lists)
}
