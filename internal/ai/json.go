package ai

import (
	"encoding/json"
	"regexp"
	"strings"
)

var fenceRe = regexp.MustCompile("```json\\n?|```")

// CleanJSON strips markdown code fences the model likes to wrap JSON in.
func CleanJSON(text string) string {
	return strings.TrimSpace(fenceRe.ReplaceAllString(text, ""))
}

// DecodeJSON unmarshals a successful result into v. It returns the result's own
// failure when there is one, and FailureMalformed when the text is not JSON.
func DecodeJSON(r Result, v any) Failure {
	if !r.OK() {
		return r.Failure
	}
	if err := json.Unmarshal([]byte(CleanJSON(r.Text)), v); err != nil {
		return FailureMalformed
	}
	return FailureNone
}
