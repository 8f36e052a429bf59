package series

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tejusbharadwaj/tseries/internal/models"
	"github.com/tejusbharadwaj/tseries/internal/reducer"
)

func wire(t *testing.T, name string, columns []string, points ...[]interface{}) *TimeSeries {
	t.Helper()
	ts, err := FromWire(WireFormat{Name: name, Columns: columns, Points: points})
	require.NoError(t, err)
	return ts
}

func TestListMerge(t *testing.T) {
	in := wire(t, "in", []string{"time", "in"},
		[]interface{}{1000, 1}, []interface{}{2000, 2}, []interface{}{3000, 3})
	out := wire(t, "out", []string{"time", "out"},
		[]interface{}{1000, 10}, []interface{}{2000, 20}, []interface{}{3000, 30})

	merged, err := ListMerge(MergeOptions{Meta: Meta{Name: "traffic"}, Series: []*TimeSeries{in, out}})
	require.NoError(t, err)

	assert.Equal(t, "traffic", merged.Name())
	assert.Equal(t, "Etc/UTC", merged.Timezone())
	assert.Equal(t, 3, merged.Size())
	assert.Equal(t, []string{"in", "out"}, merged.Columns())
	assert.Equal(t, []interface{}{1.0, 2.0, 3.0}, column(merged, "in"))
	assert.Equal(t, []interface{}{10.0, 20.0, 30.0}, column(merged, "out"))
}

func TestListMergeConcatenatesAndLastWins(t *testing.T) {
	early := wire(t, "a", []string{"time", "value"}, []interface{}{1000, 1}, []interface{}{2000, 2})
	late := wire(t, "b", []string{"time", "value"}, []interface{}{2000, 5}, []interface{}{3000, 3})

	merged, err := ListMerge(MergeOptions{Series: []*TimeSeries{early, late}})
	require.NoError(t, err)
	assert.Equal(t, []interface{}{1.0, 5.0, 3.0}, column(merged, "value"))

	reversed, err := ListMerge(MergeOptions{Series: []*TimeSeries{late, early}})
	require.NoError(t, err)
	assert.Equal(t, []interface{}{1.0, 2.0, 3.0}, column(reversed, "value"))
}

func TestListReduce(t *testing.T) {
	a := wire(t, "a", []string{"time", "value"}, []interface{}{1000, 1}, []interface{}{2000, 2})
	b := wire(t, "b", []string{"time", "value"}, []interface{}{1000, 10}, []interface{}{2000, nil})
	c := wire(t, "c", []string{"time", "value"}, []interface{}{1000, 100}, []interface{}{2000, 200})

	summed, err := ListReduce(ReduceOptions{
		Meta:      Meta{Name: "total"},
		Series:    []*TimeSeries{a, b, c},
		FieldSpec: []string{"value"},
		Reducer:   reducer.Sum(nil),
	})
	require.NoError(t, err)
	assert.Equal(t, "total", summed.Name())
	assert.Equal(t, []interface{}{111.0, 202.0}, column(summed, "value"))

	avg, err := ListReduce(ReduceOptions{Series: []*TimeSeries{a, c}, Reducer: reducer.Avg(nil)})
	require.NoError(t, err)
	assert.Equal(t, []interface{}{50.5, 101.0}, column(avg, "value"))
}

func TestListErrors(t *testing.T) {
	a := wire(t, "a", []string{"time", "value"}, []interface{}{1000, 1})

	tests := []struct {
		name string
		run  func() error
	}{
		{"merge empty list", func() error {
			_, err := ListMerge(MergeOptions{})
			return err
		}},
		{"merge nil series", func() error {
			_, err := ListMerge(MergeOptions{Series: []*TimeSeries{a, nil}})
			return err
		}},
		{"reduce empty list", func() error {
			_, err := ListReduce(ReduceOptions{Reducer: reducer.Sum(nil)})
			return err
		}},
		{"reduce without reducer", func() error {
			_, err := ListReduce(ReduceOptions{Series: []*TimeSeries{a}})
			return err
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.run(), models.ErrConfig)
		})
	}
}
