package playthrough

import (
	"fmt"
	"strings"
)

// Describe summarises the playthrough's issue in one sentence.
func (p *Playthrough) Describe() string {
	args := p.IssueCustomizationArgs
	switch p.IssueType {
	case IssueEarlyQuit:
		return fmt.Sprintf("Learner quit at card %q after %s seconds in the exploration.",
			stringArg(args, ArgStateName), secsText(numberArg(args, ArgTimeSpentInExpInMsecs)/1000))
	case IssueMultipleIncorrectSubmissions:
		return fmt.Sprintf("Learner submitted %d incorrect answers in a row at card %q.",
			int(numberArg(args, ArgNumTimesAnsweredIncorrectly)), stringArg(args, ArgStateName))
	case IssueCyclicStateTransitions:
		return fmt.Sprintf("Learner kept cycling through cards %s.",
			strings.Join(stringsArg(args, ArgStateNames), " -> "))
	}
	return string(p.IssueType)
}

func stringArg(args map[string]any, key string) string {
	s, _ := args[key].(string)
	return s
}

// numberArg accepts both freshly detected values and values decoded
// from JSON.
func numberArg(args map[string]any, key string) float64 {
	switch v := args[key].(type) {
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case float64:
		return v
	}
	return 0
}

func stringsArg(args map[string]any, key string) []string {
	switch v := args[key].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, e := range v {
			out = append(out, fmt.Sprint(e))
		}
		return out
	}
	return nil
}

func secsText(secs float64) string {
	if secs == float64(int64(secs)) {
		return fmt.Sprintf("%d", int64(secs))
	}
	return fmt.Sprintf("%.1f", secs)
}
