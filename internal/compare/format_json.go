package compare

import (
	"encoding/json"
)

// JSONFormatter formats comparison results as JSON
type JSONFormatter struct {
	Pretty bool // If true, format with indentation
}

// Format generates JSON output for comparison results. Empty lists encode as []
// rather than null so consumers can iterate without checks.
func (jf *JSONFormatter) Format(compSet *ComparisonSet) (string, error) {
	out := *compSet
	if out.AlternativeResults == nil {
		out.AlternativeResults = []ComparisonResult{}
	}
	if out.Recommendations == nil {
		out.Recommendations = []string{}
	}

	var data []byte
	var err error
	if jf.Pretty {
		data, err = json.MarshalIndent(out, "", "  ")
	} else {
		data, err = json.Marshal(out)
	}
	if err != nil {
		return "", err
	}

	return string(data), nil
}
