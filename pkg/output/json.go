package output

import (
	"encoding/json"
	"io"
)

// JSONFormat outputs the report as indented JSON with rounded metrics.
func JSONFormat(w io.Writer, report Report) error {
	report.Metrics = report.Metrics.Rounded()
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}
