package series

import (
	"github.com/tejusbharadwaj/tseries/internal/collection"
	"github.com/tejusbharadwaj/tseries/internal/models"
	"github.com/tejusbharadwaj/tseries/internal/reducer"
)

// MergeOptions configures ListMerge.
type MergeOptions struct {
	// Meta describes the merged series. An empty TZ is taken from the first
	// input series.
	Meta   Meta
	Series []*TimeSeries
	// Deep merges nested objects field by field instead of letting the
	// later series replace them whole.
	Deep bool
}

// ReduceOptions configures ListReduce.
type ReduceOptions struct {
	Meta   Meta
	Series []*TimeSeries
	// FieldSpec lists the fields to combine. Empty means every field found
	// at the key.
	FieldSpec []string
	Reducer   reducer.Func
}

func checkList(list []*TimeSeries) error {
	if len(list) == 0 {
		return &models.ConfigError{Option: "series list", Reason: "at least one series is required"}
	}
	for _, ts := range list {
		if ts == nil {
			return &models.ConfigError{Option: "series list", Reason: "nil series"}
		}
	}
	return nil
}

func pool(list []*TimeSeries) []*models.Event {
	var n int
	for _, ts := range list {
		n += ts.Size()
	}
	events := make([]*models.Event, 0, n)
	for _, ts := range list {
		events = append(events, ts.events.Events()...)
	}
	return events
}

func listMeta(meta Meta, list []*TimeSeries) Meta {
	if meta.TZ == "" {
		meta.TZ = list[0].meta.TZ
	}
	return meta
}

// ListMerge pools the events of every series and merges the events that
// share a key, so series carrying different fields at the same times
// combine without loss. On a field collision the later series wins.
func ListMerge(opts MergeOptions) (*TimeSeries, error) {
	if err := checkList(opts.Series); err != nil {
		return nil, err
	}
	merged := models.Merge(pool(opts.Series), opts.Deep)
	return FromCollection(listMeta(opts.Meta, opts.Series), collection.New(merged)), nil
}

// ListReduce pools the events of every series and, at each shared key,
// reduces each field's values across the series with opts.Reducer.
func ListReduce(opts ReduceOptions) (*TimeSeries, error) {
	if err := checkList(opts.Series); err != nil {
		return nil, err
	}
	if opts.Reducer == nil {
		return nil, &models.ConfigError{Option: "reducer", Reason: "required"}
	}
	combined := models.Combine(pool(opts.Series), opts.FieldSpec, opts.Reducer)
	return FromCollection(listMeta(opts.Meta, opts.Series), collection.New(combined)), nil
}
