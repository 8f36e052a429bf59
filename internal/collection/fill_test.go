package collection

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tejusbharadwaj/tseries/internal/models"
)

func column(c *Collection, field string) []interface{} {
	out := make([]interface{}, 0, c.Size())
	for _, e := range c.All() {
		out = append(out, e.Get(field))
	}
	return out
}

func TestFillZeroAndPad(t *testing.T) {
	c := New([]*models.Event{
		event(0, map[string]interface{}{"in": 1.0, "out": nil}),
		event(1000, map[string]interface{}{"in": nil, "out": 4.0}),
		event(2000, map[string]interface{}{"in": math.NaN(), "out": nil}),
		event(3000, map[string]interface{}{"in": nil}),
		event(4000, map[string]interface{}{"in": 5.0, "out": 6.0}),
	})

	tests := []struct {
		name    string
		opts    FillOptions
		wantIn  []interface{}
		wantOut []interface{}
	}{
		{
			name:    "zero",
			opts:    FillOptions{FieldSpec: []string{"in", "out"}, Method: Zero},
			wantIn:  []interface{}{1.0, 0.0, 0.0, 0.0, 5.0},
			wantOut: []interface{}{0.0, 4.0, 0.0, 0.0, 6.0},
		},
		{
			name:    "pad",
			opts:    FillOptions{FieldSpec: []string{"in", "out"}, Method: Pad},
			wantIn:  []interface{}{1.0, 1.0, 1.0, 1.0, 5.0},
			wantOut: []interface{}{nil, 4.0, 4.0, 4.0, 6.0},
		},
		{
			name:    "zero with limit",
			opts:    FillOptions{FieldSpec: []string{"in"}, Method: Zero, Limit: 2},
			wantIn:  []interface{}{1.0, 0.0, 0.0, nil, 5.0},
			wantOut: []interface{}{nil, 4.0, nil, nil, 6.0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filled, err := c.Fill(tt.opts)
			require.NoError(t, err)
			assert.Equal(t, tt.wantIn, column(filled, "in"))
			assert.Equal(t, tt.wantOut, column(filled, "out"))
		})
	}
}

func TestFillLinear(t *testing.T) {
	c := values([]int64{0, 1000, 2000, 3000, 4000}, "value", 1.0, nil, nil, 4.0, nil)

	filled, err := c.Fill(FillOptions{Method: Linear})
	require.NoError(t, err)
	assert.Equal(t, []interface{}{1.0, 2.0, 3.0, 4.0, nil}, column(filled, "value"))

	// already filled: a second pass changes nothing
	again, err := filled.Fill(FillOptions{Method: Linear})
	require.NoError(t, err)
	assert.True(t, again.Equal(filled))

	limited, err := c.Fill(FillOptions{Method: Linear, Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, []interface{}{1.0, 2.0, nil, 4.0, nil}, column(limited, "value"))

	// a limited fill leaves a shorter gap that the next pass repairs
	twice, err := limited.Fill(FillOptions{Method: Linear, Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, []interface{}{1.0, 2.0, 3.0, 4.0, nil}, column(twice, "value"))
}

func TestFillLinearLeadingGapAndMultipleFields(t *testing.T) {
	c := New([]*models.Event{
		event(0, map[string]interface{}{"a": nil, "b": 0.0}),
		event(1000, map[string]interface{}{"a": 2.0, "b": nil}),
		event(2000, map[string]interface{}{"a": nil, "b": 10.0}),
		event(3000, map[string]interface{}{"a": 4.0, "b": 20.0}),
	})

	filled, err := c.Fill(FillOptions{FieldSpec: []string{"a", "b"}, Method: Linear})
	require.NoError(t, err)
	assert.Equal(t, []interface{}{nil, 2.0, 3.0, 4.0}, column(filled, "a"))
	assert.Equal(t, []interface{}{0.0, 5.0, 10.0, 20.0}, column(filled, "b"))
}

func TestFillInvalidOptions(t *testing.T) {
	c := values([]int64{0}, "value", 1.0)

	_, err := c.Fill(FillOptions{Method: FillMethod(7)})
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrConfig)
	assert.Contains(t, err.Error(), "FillMethod(7)")

	_, err = c.Fill(FillOptions{Limit: -1})
	assert.ErrorIs(t, err, models.ErrConfig)

	_, err = ParseFillMethod("cubic")
	require.Error(t, err)
	assert.Equal(t, "invalid fill method: cubic, allowed: zero, pad, linear", err.Error())

	m, err := ParseFillMethod("PAD")
	require.NoError(t, err)
	assert.Equal(t, Pad, m)
}
