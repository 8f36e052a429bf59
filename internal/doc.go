// Package tseries implements an in-memory time series engine and the
// tseries command that runs processing pipelines over series documents.
//
// # Architecture
//
// The engine is structured into several key packages:
//   - models: Event keys (time, timerange, index), events and errors
//   - collection: Ordered, immutable event collections and their statistics
//   - reducer: Reducer functions and missing value filters
//   - window: Fixed and calendar windows, grouping and aggregation
//   - series: The TimeSeries type, wire format and multi-series merge
//   - config: YAML configuration and pipeline step definitions
//   - pipeline: Step execution with logging and metrics interceptors
//   - api: Reading and writing series documents
//
// Key Features
//
//   - Immutability:
//     Every operation returns a new series and never modifies its input,
//     so series can be shared between goroutines freely.
//
//   - Time Series Operations:
//     Slicing, cropping, gap filling, alignment, rates and rollups over
//     fixed or calendar windows with any reducer or percentile.
//
//   - Combination:
//     Series collected separately can be merged or reduced key by key.
//
// Example Usage
//
//	ts, err := series.FromWire(series.WireFormat{
//	    Name:    "traffic",
//	    Columns: []string{"time", "in"},
//	    Points:  [][]interface{}{{1400425947000, 52}, {1400425948000, 18}},
//	})
//	hourly, err := ts.HourlyRollup(series.RollupOptions{
//	    Aggregation: window.Aggregation{
//	        {Name: "in_avg", Field: "in", Func: reducer.Avg(nil)},
//	    },
//	})
//
// For more information about specific packages, see their respective
// documentation.
package tseries
