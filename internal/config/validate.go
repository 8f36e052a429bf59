package config

import (
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"

	"github.com/tejusbharadwaj/tseries/internal/models"
	"github.com/tejusbharadwaj/tseries/internal/tz"
)

var validFormats = map[string]bool{
	"json": true,
	"text": true,
}

// Validate checks the whole configuration and reports every problem found,
// not just the first.
func (c *Config) Validate() error {
	var result *multierror.Error

	if _, err := logrus.ParseLevel(c.Logging.Level); err != nil {
		result = multierror.Append(result, fmt.Errorf("invalid logging level: %s", c.Logging.Level))
	}
	if !validFormats[strings.ToLower(c.Logging.Format)] {
		result = multierror.Append(result, fmt.Errorf("invalid logging format: %s", c.Logging.Format))
	}
	if _, err := tz.Load(c.Series.Timezone); err != nil {
		result = multierror.Append(result, &models.ConfigError{Option: "timezone", Value: c.Series.Timezone, Reason: err.Error()})
	}

	for i, step := range c.Pipeline.Steps {
		if err := step.Validate(c.Series.Timezone); err != nil {
			result = multierror.Append(result, fmt.Errorf("step %d (%s): %w", i, step.Op, err))
		}
	}

	return result.ErrorOrNil()
}
