package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		kind Kind
	}{
		{"", KindMissing},
		{"NA", KindMissing},
		{"NaN", KindMissing},
		{"None", KindMissing},
		{"na", KindText},
		{"42", KindNumber},
		{" 3.5 ", KindNumber},
		{"1e3", KindNumber},
		{"Great coffee!", KindText},
		{"   ", KindText},
	}
	for _, tt := range tests {
		c := Parse(tt.in, DefaultNAValues)
		assert.Equal(t, tt.kind, c.Kind(), "input %q", tt.in)
		assert.Equal(t, tt.in, c.String(), "raw text must survive for %q", tt.in)
	}
}

func TestCellValue(t *testing.T) {
	_, ok := Missing().Value()
	assert.False(t, ok)

	s, ok := Text("hello").Value()
	assert.True(t, ok)
	assert.Equal(t, "hello", s)

	s, ok = Number(2.5).Value()
	assert.True(t, ok)
	assert.Equal(t, "2.5", s)
}

func TestSetColumn(t *testing.T) {
	ds, err := New([]string{"a", "b"})
	require.NoError(t, err)
	require.NoError(t, ds.AppendRow([]Cell{Text("1"), Text("2")}))
	require.NoError(t, ds.AppendRow([]Cell{Text("3"), Text("4")}))

	require.NoError(t, ds.SetColumn("c", []Cell{Text("x"), Text("y")}))
	assert.Equal(t, []string{"a", "b", "c"}, ds.Columns())

	// Overwriting keeps the column in place.
	require.NoError(t, ds.SetColumn("a", []Cell{Text("p"), Text("q")}))
	assert.Equal(t, []string{"a", "b", "c"}, ds.Columns())
	assert.Equal(t, []Cell{Text("q"), Text("4"), Text("y")}, ds.Row(1))

	err = ds.SetColumn("d", []Cell{Text("only one")})
	require.Error(t, err)
	assert.False(t, ds.Has("d"))
}

func TestAppendRowWidth(t *testing.T) {
	ds, err := New([]string{"a", "b"})
	require.NoError(t, err)
	require.Error(t, ds.AppendRow([]Cell{Text("1")}))
	assert.Equal(t, 0, ds.Len())
}

func TestNewDuplicate(t *testing.T) {
	_, err := New([]string{"x", "x"})
	require.ErrorIs(t, err, ErrDuplicateColumn)
}
