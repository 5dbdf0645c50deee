package metrics

import "errors"

// Kinds of data insufficiency.
const (
	MissingSections = "missing_sections"
	NoMetrics       = "no_metrics"
)

// DataError reports that a ticker lacks the data needed for an evaluation.
type DataError struct {
	Kind     string
	Ticker   string
	Sections []string
	Message  string
}

func (e *DataError) Error() string {
	return e.Message
}

// AsDataError extracts a DataError from err's chain.
func AsDataError(err error) (*DataError, bool) {
	var de *DataError
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}
