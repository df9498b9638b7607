package runner

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/lrseq/pipecheck/pkg/teamcity"
)

// tolerance is the relative half-width of the accepted window around
// each etalon value.
const tolerance = 0.01

// CompareMetrics checks every metric in etalon against measured: the key
// must exist and its value must lie within the closed interval
// [etalon*0.99, etalon*1.01]. Keys are checked in sorted order and the
// first violation is returned as a *ToleranceError. When log is non-nil,
// each measured value is published as a build statistic before its
// bounds are checked.
func CompareMetrics(etalon, measured map[string]string, log *teamcity.Logger) error {
	keys := make([]string, 0, len(etalon))
	for k := range etalon {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		want, err := strconv.ParseFloat(etalon[k], 64)
		if err != nil {
			return &ConfigError{Err: fmt.Errorf("etalon value for %q is not numeric: %w", k, err)}
		}
		raw, ok := measured[k]
		if !ok {
			return &ToleranceError{Metric: k, Want: want, Missing: true}
		}
		got, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return fmt.Errorf("quality report value for %q is not numeric: %w", k, err)
		}
		if log != nil {
			log.RecordMetric(k, got)
		}
		lower := want * (1 - tolerance)
		upper := want * (1 + tolerance)
		if got < lower || got > upper {
			return &ToleranceError{Metric: k, Want: want, Got: got, Lower: lower, Upper: upper}
		}
	}
	return nil
}
