package playthrough

import (
	"slices"

	"github.com/abhisek/playlens/internal/learneraction"
)

// IssueType names a problem detected in a playthrough.
type IssueType string

const (
	IssueEarlyQuit                    IssueType = "EarlyQuit"
	IssueMultipleIncorrectSubmissions IssueType = "MultipleIncorrectSubmissions"
	IssueCyclicStateTransitions       IssueType = "CyclicStateTransitions"
)

// Issue customization arg names.
const (
	ArgStateName                   = "state_name"
	ArgStateNames                  = "state_names"
	ArgNumTimesAnsweredIncorrectly = "num_times_answered_incorrectly"
	ArgTimeSpentInExpInMsecs       = "time_spent_in_exp_in_msecs"
)

// Thresholds control when an issue is reported.
type Thresholds struct {
	// NumIncorrectAnswers is how many consecutive answers that leave the
	// learner on the same card count as a MultipleIncorrectSubmissions issue.
	NumIncorrectAnswers int `yaml:"num_incorrect_answers"`
	// NumRepeatedCycles is how many times the same loop of cards must be
	// traversed to count as a CyclicStateTransitions issue.
	NumRepeatedCycles int `yaml:"num_repeated_cycles"`
	// EarlyQuitSecs is the exploration time under which quitting counts as
	// an EarlyQuit issue.
	EarlyQuitSecs int `yaml:"early_quit_secs"`
}

// DefaultThresholds returns the standard detection thresholds.
func DefaultThresholds() Thresholds {
	return Thresholds{
		NumIncorrectAnswers: 3,
		NumRepeatedCycles:   3,
		EarlyQuitSecs:       45,
	}
}

// Issue is a detected problem with its customization args.
type Issue struct {
	Type IssueType
	Args map[string]any
}

// DetectIssue inspects a playthrough's actions and returns the most
// important issue found. MultipleIncorrectSubmissions outranks
// CyclicStateTransitions, which outranks EarlyQuit.
func DetectIssue(actions []learneraction.LearnerAction, th Thresholds) (Issue, bool) {
	if issue, ok := detectMultipleIncorrect(actions, th.NumIncorrectAnswers); ok {
		return issue, true
	}
	if issue, ok := detectCycles(actions, th.NumRepeatedCycles); ok {
		return issue, true
	}
	if issue, ok := detectEarlyQuit(actions, th.EarlyQuitSecs); ok {
		return issue, true
	}
	return Issue{}, false
}

// detectMultipleIncorrect reports the first run of consecutive same-card
// submits reaching the threshold, counting the whole run.
func detectMultipleIncorrect(actions []learneraction.LearnerAction, threshold int) (Issue, bool) {
	if threshold < 1 {
		return Issue{}, false
	}
	var state string
	var run int
	found := false

	for _, a := range actions {
		s, ok := a.AsSubmit()
		if !ok {
			continue
		}
		if !s.StaysInState() {
			if found {
				break
			}
			state, run = "", 0
			continue
		}
		if s.StateName != state {
			if found {
				break
			}
			state, run = s.StateName, 0
		}
		run++
		if run >= threshold {
			found = true
		}
	}
	if !found {
		return Issue{}, false
	}
	return Issue{
		Type: IssueMultipleIncorrectSubmissions,
		Args: map[string]any{
			ArgStateName:                   state,
			ArgNumTimesAnsweredIncorrectly: run,
		},
	}, true
}

// detectCycles follows card transitions and reports a loop of cards the
// learner went around threshold times in a row.
func detectCycles(actions []learneraction.LearnerAction, threshold int) (Issue, bool) {
	if threshold < 1 {
		return Issue{}, false
	}
	var visited []string
	var cycle []string
	repeats := 0

	for _, a := range actions {
		switch p := a.Payload().(type) {
		case learneraction.ExplorationStart:
			visited = []string{p.StateName}
		case learneraction.AnswerSubmit:
			if p.StaysInState() {
				continue
			}
			if len(visited) == 0 {
				visited = []string{p.StateName}
			}
			idx := slices.Index(visited, p.DestStateName)
			if idx < 0 {
				visited = append(visited, p.DestStateName)
				continue
			}
			found := append(slices.Clone(visited[idx:]), p.DestStateName)
			if slices.Equal(found, cycle) {
				repeats++
			} else {
				cycle, repeats = found, 1
			}
			if repeats >= threshold {
				return Issue{
					Type: IssueCyclicStateTransitions,
					Args: map[string]any{ArgStateNames: cycle},
				}, true
			}
			visited = []string{p.DestStateName}
		}
	}
	return Issue{}, false
}

// detectEarlyQuit reports a quit whose total recorded time in the
// exploration is below the threshold.
func detectEarlyQuit(actions []learneraction.LearnerAction, thresholdSecs int) (Issue, bool) {
	if len(actions) == 0 {
		return Issue{}, false
	}
	q, ok := actions[len(actions)-1].AsQuit()
	if !ok {
		return Issue{}, false
	}
	total := TotalTimeMsecs(actions)
	if total >= int64(thresholdSecs)*1000 {
		return Issue{}, false
	}
	return Issue{
		Type: IssueEarlyQuit,
		Args: map[string]any{
			ArgStateName:             q.StateName,
			ArgTimeSpentInExpInMsecs: total,
		},
	}, true
}

// TotalTimeMsecs sums the time recorded across all submits and the quit.
func TotalTimeMsecs(actions []learneraction.LearnerAction) int64 {
	var total int64
	for _, a := range actions {
		switch p := a.Payload().(type) {
		case learneraction.AnswerSubmit:
			total += p.TimeSpentMsecs
		case learneraction.ExplorationQuit:
			total += p.TimeSpentMsecs
		}
	}
	return total
}
