package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/tejusbharadwaj/tseries/internal/config"
	"github.com/tejusbharadwaj/tseries/internal/series"
)

var (
	ErrDecode = errors.New("error decoding series document")
	ErrEncode = errors.New("error encoding series document")
)

// SeriesReader decodes wire-format documents, filling in the name and
// timezone from the configured defaults when a document has none.
type SeriesReader struct {
	defaults config.SeriesConfig
}

func NewSeriesReader(defaults config.SeriesConfig) *SeriesReader {
	return &SeriesReader{defaults: defaults}
}

// Read decodes one document from r.
func (sr *SeriesReader) Read(r io.Reader) (*series.TimeSeries, error) {
	var wire series.WireFormat
	if err := json.NewDecoder(r).Decode(&wire); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if wire.Name == "" {
		wire.Name = sr.defaults.Name
	}
	if wire.TZ == "" {
		wire.TZ = sr.defaults.Timezone
	}

	ts, err := series.FromWire(wire)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return ts, nil
}

// ReadFile decodes the document at path; "-" reads standard input.
func (sr *SeriesReader) ReadFile(path string) (*series.TimeSeries, error) {
	if path == "-" {
		return sr.Read(os.Stdin)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input: %w", err)
	}
	defer f.Close()
	return sr.Read(f)
}

// Write encodes ts to w as an indented wire-format document.
func Write(w io.Writer, ts *series.TimeSeries) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(ts.ToJSON()); err != nil {
		return fmt.Errorf("%w: %v", ErrEncode, err)
	}
	return nil
}

// WriteFile encodes ts to path; "-" writes standard output.
func WriteFile(path string, ts *series.TimeSeries) error {
	if path == "-" {
		return Write(os.Stdout, ts)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output: %w", err)
	}
	if err := Write(f, ts); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
