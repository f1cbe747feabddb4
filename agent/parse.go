package agent

import (
	"encoding/json"
	"regexp"
	"strings"
)

// FinalAnswerMarker introduces the final answer in a model's text output.
const FinalAnswerMarker = "Final Answer:"

var (
	actionRe      = regexp.MustCompile(`(?m)^[ \t]*Action:[ \t]*(\S.*?)[ \t]*$`)
	actionInputRe = regexp.MustCompile(`(?ms)^[ \t]*Action Input:[ \t]*(.*)`)
)

// ParseFinalAnswer returns the trimmed text after the first final-answer
// marker.
func ParseFinalAnswer(text string) (string, bool) {
	i := strings.Index(text, FinalAnswerMarker)
	if i < 0 {
		return "", false
	}
	return strings.TrimSpace(text[i+len(FinalAnswerMarker):]), true
}

// parseTextAction extracts an "Action:" / "Action Input:" pair from text.
// The input runs to the end of the text; surrounding quotes are dropped.
func parseTextAction(text string) (name, input string, ok bool) {
	m := actionRe.FindStringSubmatch(text)
	if m == nil {
		return "", "", false
	}
	name = m[1]
	if in := actionInputRe.FindStringSubmatch(text); in != nil {
		input = strings.TrimSpace(in[1])
		input = strings.Trim(input, "\"")
	}
	return name, input, true
}

// decodeArguments decodes raw tool arguments into a mapping. Anything that
// is not a JSON object is wrapped as {"input": raw}; empty input decodes to
// an empty mapping.
func decodeArguments(raw string) map[string]any {
	if strings.TrimSpace(raw) == "" {
		return map[string]any{}
	}
	var args map[string]any
	if err := json.Unmarshal([]byte(raw), &args); err != nil {
		return map[string]any{"input": raw}
	}
	if args == nil {
		return map[string]any{}
	}
	return args
}
