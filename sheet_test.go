package sheetimport

import (
	"math"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSheet(t *testing.T) {
	t.Parallel()

	t.Run("short rows are padded", func(t *testing.T) {
		t.Parallel()

		s := NewSheet("s", []string{"a", "b", "c"}, [][]any{{1}, {1, 2, 3}})
		require.Equal(t, 2, s.NumRows())
		rows := slices.Collect(s.Rows())
		assert.Equal(t, []any{int64(1), nil, nil}, rows[0])
		assert.Equal(t, []any{int64(1), int64(2), int64(3)}, rows[1])
	})

	t.Run("wide rows extend the header", func(t *testing.T) {
		t.Parallel()

		s := NewSheet("s", []string{"a"}, [][]any{{"x", "y"}})
		assert.Equal(t, []string{"a", ""}, s.Header())
		assert.Equal(t, 2, s.NumColumns())
	})

	t.Run("rows with only missing values are dropped", func(t *testing.T) {
		t.Parallel()

		s := NewSheet("s", []string{"a", "b"}, [][]any{
			{nil, math.NaN()},
			{"x", nil},
			{},
		})
		assert.Equal(t, 1, s.NumRows())
	})

	t.Run("no header", func(t *testing.T) {
		t.Parallel()

		s := NewSheet("empty", nil, nil)
		assert.Equal(t, 0, s.NumColumns())
		assert.Equal(t, 0, s.NumRows())
		assert.Equal(t, "empty", s.Name())
	})
}

func TestSheet_Columns(t *testing.T) {
	t.Parallel()

	s := NewSheet("s", []string{"n", "t"}, [][]any{
		{1, "a"},
		{2, nil},
	})

	cols := s.Columns()
	require.Len(t, cols, 2)
	assert.Equal(t, []any{int64(1), int64(2)}, cols[0])
	assert.Equal(t, []any{"a", nil}, cols[1])
}

func TestSheet_RowsYieldsCopies(t *testing.T) {
	t.Parallel()

	s := NewSheet("s", []string{"a"}, [][]any{{"x"}, {"y"}})
	for row := range s.Rows() {
		row[0] = "changed"
	}
	assert.Equal(t, []any{"x", "y"}, s.Column(0))

	count := 0
	for range s.Rows() {
		count++
		break
	}
	assert.Equal(t, 1, count, "iteration stops early")
}

func TestNewWorkbook(t *testing.T) {
	t.Parallel()

	first := NewSheet("One", []string{"a"}, nil)
	second := NewSheet("Two", []string{"b"}, nil)
	replaced := NewSheet("One", []string{"c"}, nil)

	wb := NewWorkbook(first, second, replaced)
	defer wb.Close()

	assert.Equal(t, []string{"One", "Two"}, wb.SheetNames())

	got, err := wb.ReadSheet("One")
	require.NoError(t, err)
	assert.Equal(t, []string{"c"}, got.Header())

	_, err = wb.ReadSheet("Missing")
	require.Error(t, err)
}
