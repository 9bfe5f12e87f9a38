package query

import (
	"slices"
	"testing"
	"time"

	"eventlog/internal/models"
	"eventlog/internal/store"

	"github.com/stretchr/testify/require"
)

func TestRangeContains(t *testing.T) {
	after := at(11, 12, 2013, 0, 0, 0)
	before := at(3, 1, 2014, 23, 59, 59)

	tests := []struct {
		name string
		rng  Range
		date time.Time
		want bool
	}{
		{"inside", Between(after, before), at(12, 12, 2013, 0, 0, 0), true},
		{"equal to lower bound", Between(after, before), after, false},
		{"equal to upper bound", Between(after, before), before, false},
		{"below", Between(after, before), at(1, 1, 2013, 0, 0, 0), false},
		{"open upper bound", Range{After: Bound(after)}, at(1, 1, 2100, 0, 0, 0), true},
		{"open lower bound starts at epoch", Range{Before: Bound(before)}, at(1, 1, 1970, 0, 0, 1), true},
		{"epoch itself is excluded", Range{}, time.Unix(0, 0).UTC(), false},
		{"before epoch", Range{}, at(31, 12, 1969, 23, 0, 0), false},
		{"zero instant is a real upper bound", Range{Before: Bound(time.Time{})}, at(1, 1, 2013, 0, 0, 0), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.want, tt.rng.Contains(tt.date))
		})
	}
}

func TestAnd(t *testing.T) {
	r := record("1.1.1.1", "Amigo", at(1, 1, 2014, 0, 0, 0), models.EventLogin, models.NoTask, models.StatusOK)

	require.True(t, And()(r))
	require.True(t, And(EventIs(models.EventLogin), StatusIs(models.StatusOK))(r))
	require.False(t, And(EventIs(models.EventLogin), StatusIs(models.StatusFailed))(r))
}

func TestTaskIs_NoTaskIsNotZero(t *testing.T) {
	withZero := record("1.1.1.1", "a", at(1, 1, 2014, 0, 0, 0), models.EventSolveTask, models.TaskID(0), models.StatusOK)
	without := record("1.1.1.1", "a", at(1, 1, 2014, 0, 0, 0), models.EventLogin, models.NoTask, models.StatusOK)

	require.True(t, TaskIs(0)(withZero))
	require.False(t, TaskIs(0)(without))
}

func TestFilter(t *testing.T) {
	src := fixture()

	got, err := Filter(src.All(), FieldUser, "Amigo", nil)
	require.NoError(t, err)
	require.Len(t, got, 4)

	rng := Between(at(1, 1, 2013, 0, 0, 0), at(1, 1, 2022, 0, 0, 0))
	got, err = Filter(src.All(), FieldUser, "Amigo", &rng)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "12.12.12.12", got[0].IP)

	got, err = Filter(src.All(), FieldStatus, "ERROR", nil)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "Vasya Pupkin", got[0].User)
}

func TestFilter_BadLiteralOnEmptySource(t *testing.T) {
	_, err := Filter(store.New(nil).All(), FieldStatus, "MAYBE", nil)
	require.ErrorIs(t, err, ErrLiteralParse)

	_, err = Filter(store.New(nil).All(), FieldName(42), "x", nil)
	require.ErrorIs(t, err, ErrUnknownField)
}

func TestWhere_PreservesRecords(t *testing.T) {
	src := fixture()
	all := Where(src.All())
	require.Len(t, all, src.Len())
	require.True(t, slices.ContainsFunc(all, func(r models.Record) bool { return r.Task.Is(0) }))
}
