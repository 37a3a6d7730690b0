package storage

import (
	"testing"

	"github.com/poiesic/todos/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalUnmarshalLists(t *testing.T) {
	lists := []*core.List{
		{
			Id:   1,
			Name: "Groceries",
			Todos: []core.Todo{
				{Id: 1, Name: "Milk", Completed: true},
				{Id: 2, Name: "Eggs"},
			},
		},
		{Id: 7, Name: "Empty – with ünïcode"},
	}

	data := MarshalLists(lists)
	require.NotEmpty(t, data)

	decoded, err := UnmarshalLists(data)
	require.NoError(t, err)
	require.Len(t, decoded, 2)

	assert.Equal(t, core.ID(1), decoded[0].Id)
	assert.Equal(t, "Groceries", decoded[0].Name)
	assert.Equal(t, lists[0].Todos, decoded[0].Todos)
	assert.Equal(t, 2, decoded[0].TodosCount, "counters are recomputed")
	assert.Equal(t, 1, decoded[0].TodosRemainingCount)

	assert.Equal(t, core.ID(7), decoded[1].Id)
	assert.Equal(t, "Empty – with ünïcode", decoded[1].Name)
	assert.Empty(t, decoded[1].Todos)
	assert.False(t, decoded[1].IsComplete())
}

func TestMarshalLists_Empty(t *testing.T) {
	data := MarshalLists(nil)
	decoded, err := UnmarshalLists(data)
	require.NoError(t, err)
	assert.Empty(t, decoded)
}

func TestUnmarshalLists_Invalid(t *testing.T) {
	valid := MarshalLists([]*core.List{{Id: 1, Name: "Groceries", Todos: []core.Todo{{Id: 1, Name: "Milk"}}}})

	tests := []struct {
		name string
		data []byte
	}{
		{"empty data", []byte{}},
		{"truncated", valid[:len(valid)-2]},
		{"impossible length", []byte{0x7e}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := UnmarshalLists(tt.data)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrSerializationFailed)
		})
	}
}
