package actionrender

import (
	"encoding/json"
	"fmt"
	"html"
	"html/template"
	"strconv"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/abhisek/playlens/internal/learneraction"
)

// ContinueInteractionID is the interaction whose submits render as a
// button press rather than an answer widget.
const ContinueInteractionID = "Continue"

const defaultButtonText = "Continue"

// StateLookup resolves the interaction customization args of a card.
// The returned map holds the backend {"name": {"value": ...}} form.
type StateLookup interface {
	InteractionCustomizationArgs(stateName string) (map[string]any, bool)
}

// Renderer turns learner actions into HTML fragments.
type Renderer struct {
	states StateLookup
	policy *bluemonday.Policy
}

// NewRenderer creates a renderer. states may be nil, in which case every
// card renders without customization args.
func NewRenderer(states StateLookup) *Renderer {
	return &Renderer{
		states: states,
		policy: bluemonday.UGCPolicy(),
	}
}

// innerEscaper matches the escaping applied to JSON before it is embedded
// in an attribute.
var innerEscaper = strings.NewReplacer(
	"&", "&amp;",
	`"`, "&quot;",
	"'", "&#39;",
	"<", "&lt;",
	">", "&gt;",
)

var attrEscaper = strings.NewReplacer(
	"&", "&amp;",
	`"`, "&quot;",
)

// RenderLearnerAction renders a single action numbered index.
func (r *Renderer) RenderLearnerAction(a learneraction.LearnerAction, index int) template.HTML {
	switch p := a.Payload().(type) {
	case learneraction.ExplorationStart:
		return template.HTML(fmt.Sprintf(
			`%d. Started exploration at card "%s".`,
			index, html.EscapeString(p.StateName)))

	case learneraction.AnswerSubmit:
		if p.InteractionID == ContinueInteractionID {
			return template.HTML(fmt.Sprintf(
				`%d. Pressed "%s" to move to card "%s" after %s seconds.`,
				index, html.EscapeString(r.buttonText(p.StateName)),
				html.EscapeString(p.DestStateName), secs(p.TimeSpentMsecs)))
		}
		return template.HTML(fmt.Sprintf(
			`<answer-submit-action answer="%s" dest-state-name="%s" `+
				`time-spent-in-state-secs="%s" current-state-name="%s" `+
				`action-index="%d" interaction-id="%s" `+
				`interaction-customization-args="%s"></answer-submit-action>`,
			escapeJSONAttr(p.SubmittedAnswer),
			attrEscaper.Replace(p.DestStateName),
			secs(p.TimeSpentMsecs),
			attrEscaper.Replace(p.StateName),
			index,
			attrEscaper.Replace(p.InteractionID),
			escapeJSONAttr(r.customizationArgs(p.StateName))))

	case learneraction.ExplorationQuit:
		return template.HTML(fmt.Sprintf(
			`%d. Left the exploration after spending a total of %s seconds on card "%s".`,
			index, secs(p.TimeSpentMsecs), html.EscapeString(p.StateName)))
	}
	panic(fmt.Sprintf("actionrender: unhandled action kind %q", a.Kind()))
}

// RenderFinalDisplayBlockForMISIssue renders the block in which the learner
// repeatedly submitted incorrect answers. Actions before the first submit
// render individually, the submits collapse into an Answer/Feedback table,
// and the block's last action renders after the table.
func (r *Renderer) RenderFinalDisplayBlockForMISIssue(block []learneraction.LearnerAction, startIndex int) template.HTML {
	var sb strings.Builder

	first := -1
	for i, a := range block {
		if a.Kind() == learneraction.KindAnswerSubmit {
			first = i
			break
		}
		sb.WriteString(string(r.RenderLearnerAction(a, startIndex+i)))
	}
	if first < 0 {
		return template.HTML(sb.String())
	}

	fmt.Fprintf(&sb,
		`<span class="oppia-issues-learner-action">%d. Submitted the following answers in card "%s"</span>`,
		startIndex+first, html.EscapeString(block[first].StateName()))
	sb.WriteString(`<table class="oppia-issues-learner-action-table"><tr><th>Answer</th><th>Feedback</th></tr>`)
	for _, a := range block[first : len(block)-1] {
		s, ok := a.AsSubmit()
		if !ok {
			continue
		}
		fmt.Fprintf(&sb, "<tr><td>%s</td><td>%s</td></tr>",
			answerText(s.SubmittedAnswer), r.policy.Sanitize(s.Feedback))
	}
	sb.WriteString("</table>")

	sb.WriteString(string(r.RenderLearnerAction(block[len(block)-1], startIndex+first+1)))
	return template.HTML(sb.String())
}

// RenderDisplayBlocks renders every block with numbering continuing across
// blocks from 1. When misFinal is set the last block is rendered with
// RenderFinalDisplayBlockForMISIssue.
func (r *Renderer) RenderDisplayBlocks(blocks [][]learneraction.LearnerAction, misFinal bool) [][]template.HTML {
	out := make([][]template.HTML, 0, len(blocks))
	index := 1
	for bi, block := range blocks {
		if misFinal && bi == len(blocks)-1 {
			out = append(out, []template.HTML{r.RenderFinalDisplayBlockForMISIssue(block, index)})
			break
		}
		lines := make([]template.HTML, 0, len(block))
		for _, a := range block {
			lines = append(lines, r.RenderLearnerAction(a, index))
			index++
		}
		out = append(out, lines)
	}
	return out
}

func (r *Renderer) customizationArgs(stateName string) map[string]any {
	if r.states == nil {
		return nil
	}
	args, ok := r.states.InteractionCustomizationArgs(stateName)
	if !ok {
		return nil
	}
	return args
}

func (r *Renderer) buttonText(stateName string) string {
	args := r.customizationArgs(stateName)
	if wrapped, ok := args["buttonText"].(map[string]any); ok {
		if s, ok := wrapped["value"].(string); ok && s != "" {
			return s
		}
	}
	return defaultButtonText
}

// secs prints milliseconds as seconds in shortest form.
func secs(msecs int64) string {
	return strconv.FormatFloat(float64(msecs)/1000, 'f', -1, 64)
}

// escapeJSONAttr JSON-encodes v, HTML-escapes the result and then escapes
// it again for use inside a double-quoted attribute. Missing args encode
// as null.
func escapeJSONAttr(v any) string {
	return attrEscaper.Replace(innerEscaper.Replace(jsonString(v)))
}

func jsonString(v any) string {
	var sb strings.Builder
	enc := json.NewEncoder(&sb)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "null"
	}
	return strings.TrimSuffix(sb.String(), "\n")
}

func answerText(v any) string {
	if s, ok := v.(string); ok {
		return html.EscapeString(s)
	}
	return html.EscapeString(jsonString(v))
}
