package actionrender

import (
	"fmt"
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/abhisek/playlens/internal/learneraction"
)

var stripTags = bluemonday.StrictPolicy()

// RenderLearnerActionText renders an action as a single line of plain text
// for terminal output. Start, Continue and quit actions read the same as
// their HTML form; answer submits are spelled out instead of embedding a
// widget tag.
func (r *Renderer) RenderLearnerActionText(a learneraction.LearnerAction, index int) string {
	s, ok := a.AsSubmit()
	if !ok || s.InteractionID == ContinueInteractionID {
		return plain(string(r.RenderLearnerAction(a, index)))
	}
	line := fmt.Sprintf("%d. Submitted %s in card %q", index, jsonString(s.SubmittedAnswer), s.StateName)
	if s.StaysInState() {
		line += " and stayed there"
	} else {
		line += fmt.Sprintf(" and moved to card %q", s.DestStateName)
	}
	line += fmt.Sprintf(" after %s seconds.", secs(s.TimeSpentMsecs))
	if fb := strings.TrimSpace(plain(s.Feedback)); fb != "" {
		line += " Feedback: " + fb
	}
	return line
}

// RenderDisplayBlocksText renders blocks as plain text lines with
// continuous numbering.
func (r *Renderer) RenderDisplayBlocksText(blocks [][]learneraction.LearnerAction) [][]string {
	out := make([][]string, 0, len(blocks))
	index := 1
	for _, block := range blocks {
		lines := make([]string, 0, len(block))
		for _, a := range block {
			lines = append(lines, r.RenderLearnerActionText(a, index))
			index++
		}
		out = append(out, lines)
	}
	return out
}

// plain strips markup and decodes the entities bluemonday leaves behind.
func plain(fragment string) string {
	return html.UnescapeString(stripTags.Sanitize(fragment))
}
