package actionrender

import (
	"html/template"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/playlens/internal/learneraction"
)

type fakeStates map[string]map[string]any

func (f fakeStates) InteractionCustomizationArgs(name string) (map[string]any, bool) {
	args, ok := f[name]
	return args, ok
}

func start(state string) learneraction.LearnerAction {
	return learneraction.New(learneraction.ExplorationStart{StateName: state})
}

func submit(from, to, interaction string, answer any, feedback string, secs int64) learneraction.LearnerAction {
	return learneraction.New(learneraction.AnswerSubmit{
		StateName:       from,
		DestStateName:   to,
		InteractionID:   interaction,
		SubmittedAnswer: answer,
		Feedback:        feedback,
		TimeSpentMsecs:  secs * 1000,
	})
}

func quit(state string, secs int64) learneraction.LearnerAction {
	return learneraction.New(learneraction.ExplorationQuit{StateName: state, TimeSpentMsecs: secs * 1000})
}

func flatten(blocks [][]learneraction.LearnerAction) []learneraction.LearnerAction {
	var out []learneraction.LearnerAction
	for _, b := range blocks {
		out = append(out, b...)
	}
	return out
}

func TestDisplayBlocks_EarlyQuit(t *testing.T) {
	actions := []learneraction.LearnerAction{
		start("stateName1"),
		submit("stateName1", "stateName2", "Continue", "", "Welcome", 30),
		submit("stateName2", "stateName2", "TextInput", "Hello", "Try again", 30),
		quit("stateName2", 120),
	}

	blocks := DisplayBlocks(actions)
	require.Len(t, blocks, 1)
	assert.Equal(t, actions, blocks[0])
}

func TestDisplayBlocks_ManyActions(t *testing.T) {
	actions := []learneraction.LearnerAction{start("stateName1")}
	for i := 0; i < 3; i++ {
		actions = append(actions,
			submit("stateName1", "stateName2", "TextInput", "Hello", "Try again", 30),
			submit("stateName2", "stateName3", "TextInput", "Hello", "Try again", 30),
			submit("stateName3", "stateName1", "TextInput", "Hello", "Try again", 30),
		)
	}
	actions = append(actions, quit("stateName1", 120))

	blocks := DisplayBlocks(actions)
	require.Len(t, blocks, 3)
	assert.Equal(t, actions[0:3], blocks[0])
	assert.Equal(t, actions[3:7], blocks[1])
	assert.Equal(t, actions[7:11], blocks[2])

	assert.Equal(t, "stateName3", blocks[1][0].StateName())
	assert.Equal(t, "stateName3", blocks[1][3].StateName())
	assert.Equal(t, learneraction.KindExplorationQuit, blocks[2][3].Kind())
}

func TestDisplayBlocks_SameStateStaysTogether(t *testing.T) {
	actions := []learneraction.LearnerAction{start("stateName1")}
	for i := 0; i < 6; i++ {
		actions = append(actions, submit("stateName1", "stateName1", "TextInput", "Hello", "Try again", 30))
	}
	actions = append(actions, quit("stateName1", 120))

	blocks := DisplayBlocks(actions)
	require.Len(t, blocks, 1)
	assert.Len(t, blocks[0], 8)
}

func TestDisplayBlocks_DifferentCardsShareBlockBelowMinSize(t *testing.T) {
	actions := []learneraction.LearnerAction{
		start("A"),
		submit("A", "B", "TextInput", "x", "", 5),
		submit("B", "C", "TextInput", "y", "", 5),
		quit("C", 5),
	}

	blocks := DisplayBlocks(actions)
	require.Len(t, blocks, 1, "three cards fit in one block below the default size")

	blocks = Partitioner{MinBlockSize: 2}.DisplayBlocks(actions)
	require.Len(t, blocks, 2)
	assert.Equal(t, actions[0:2], blocks[0])
	assert.Equal(t, actions[2:4], blocks[1])
}

func TestDisplayBlocks_Empty(t *testing.T) {
	assert.Nil(t, DisplayBlocks(nil))
}

func TestDisplayBlocks_ConcatenatesBackToInput(t *testing.T) {
	states := []string{"A", "B", "C", "A", "A", "D", "B", "B", "C", "E", "E", "A"}
	for n := 1; n <= len(states); n++ {
		for _, size := range []int{0, 1, 2, 4, 7} {
			actions := []learneraction.LearnerAction{start(states[0])}
			for i := 1; i < n; i++ {
				actions = append(actions, submit(states[i-1], states[i], "TextInput", "x", "", 1))
			}
			blocks := Partitioner{MinBlockSize: size}.DisplayBlocks(actions)
			for _, b := range blocks {
				assert.NotEmpty(t, b)
			}
			assert.Equal(t, actions, flatten(blocks), "n=%d size=%d", n, size)
		}
	}
}

func renderStates() fakeStates {
	return fakeStates{
		"stateName3": {
			"choices": map[string]any{
				"value": []any{"Choice1", "Choice2", "Choice3"},
			},
		},
	}
}

func TestRenderLearnerAction(t *testing.T) {
	actions := []learneraction.LearnerAction{
		start("stateName1"),
		submit("stateName1", "stateName2", "Continue", "", "Welcome", 30),
		submit("stateName2", "stateName3", "TextInput", "Hello", "Go ahead", 30),
		submit("stateName3", "stateName3", "MultipleChoiceInput", "Choice1", "Go ahead", 30),
		quit("stateName2", 120),
	}
	blocks := DisplayBlocks(actions)
	require.Len(t, blocks, 1)

	r := NewRenderer(renderStates())
	want := []template.HTML{
		`1. Started exploration at card "stateName1".`,
		`2. Pressed "Continue" to move to card "stateName2" after 30 seconds.`,
		`<answer-submit-action answer="&amp;quot;Hello&amp;quot;" ` +
			`dest-state-name="stateName3" time-spent-in-state-secs="30" ` +
			`current-state-name="stateName2" action-index="3" ` +
			`interaction-id="TextInput" interaction-customization-args=` +
			`"null"></answer-submit-action>`,
		`<answer-submit-action answer="&amp;quot;Choice1&amp;quot;" ` +
			`dest-state-name="stateName3" time-spent-in-state-secs="30" ` +
			`current-state-name="stateName3" action-index="4" ` +
			`interaction-id="MultipleChoiceInput" interaction-customization-args=` +
			`"{&amp;quot;choices&amp;quot;:{&amp;quot;value&amp;quot;:` +
			`[&amp;quot;Choice1&amp;quot;,&amp;quot;Choice2&amp;quot;,` +
			`&amp;quot;Choice3&amp;quot;]}}"></answer-submit-action>`,
		`5. Left the exploration after spending a total of 120 seconds on card "stateName2".`,
	}
	for i, a := range blocks[0] {
		assert.Equal(t, want[i], r.RenderLearnerAction(a, i+1), "action %d", i+1)
	}
}

func TestRenderLearnerAction_ContinueButtonText(t *testing.T) {
	r := NewRenderer(fakeStates{
		"Intro": {"buttonText": map[string]any{"value": "Next"}},
	})
	got := r.RenderLearnerAction(submit("Intro", "Body", "Continue", "", "", 2), 7)
	assert.Equal(t, template.HTML(`7. Pressed "Next" to move to card "Body" after 2 seconds.`), got)
}

func TestRenderLearnerAction_FractionalSeconds(t *testing.T) {
	r := NewRenderer(nil)
	a := learneraction.New(learneraction.ExplorationQuit{StateName: "End", TimeSpentMsecs: 1500})
	assert.Equal(t,
		template.HTML(`1. Left the exploration after spending a total of 1.5 seconds on card "End".`),
		r.RenderLearnerAction(a, 1))
}

func TestRenderLearnerAction_EscapesAnswerMarkup(t *testing.T) {
	r := NewRenderer(nil)
	got := string(r.RenderLearnerAction(submit("A", "B", "TextInput", `<b>"x" & 'y'</b>`, "", 1), 1))
	assert.Contains(t, got,
		`answer="&amp;quot;&amp;lt;b&amp;gt;\&amp;quot;x\&amp;quot; &amp;amp; &amp;#39;y&amp;#39;&amp;lt;/b&amp;gt;&amp;quot;"`)
	assert.NotContains(t, got, "<b>")
}

func TestRenderFinalDisplayBlockForMISIssue(t *testing.T) {
	actions := []learneraction.LearnerAction{start("stateName1")}
	for i := 0; i < 5; i++ {
		actions = append(actions, submit("stateName1", "stateName1", "TextInput", "Hello", "Try again", 30))
	}
	actions = append(actions, quit("stateName1", 120))

	blocks := DisplayBlocks(actions)
	require.Len(t, blocks, 1)

	got := NewRenderer(nil).RenderFinalDisplayBlockForMISIssue(blocks[0], 1)
	want := `1. Started exploration at card "stateName1".` +
		`<span class="oppia-issues-learner-action">2. Submitted the ` +
		`following answers in card "stateName1"</span>` +
		`<table class="oppia-issues-learner-action-table"><tr><th>Answer` +
		`</th><th>Feedback</th></tr>` +
		strings.Repeat(`<tr><td>Hello</td><td>Try again</td></tr>`, 5) +
		`</table>` +
		`3. Left the exploration after spending a total of 120 seconds on ` +
		`card "stateName1".`
	assert.Equal(t, template.HTML(want), got)
}

func TestRenderFinalDisplayBlockForMISIssue_SanitizesFeedback(t *testing.T) {
	block := []learneraction.LearnerAction{
		submit("S", "S", "TextInput", "x", `<p>Close</p><script>alert(1)</script>`, 1),
		quit("S", 3),
	}
	got := string(NewRenderer(nil).RenderFinalDisplayBlockForMISIssue(block, 4))
	assert.Contains(t, got, "<td><p>Close</p></td>")
	assert.NotContains(t, got, "<script>")
	assert.True(t, strings.HasPrefix(got, `<span class="oppia-issues-learner-action">4. Submitted`))
	assert.True(t, strings.HasSuffix(got, `5. Left the exploration after spending a total of 3 seconds on card "S".`))
}

func TestRenderDisplayBlocks_ContinuousNumbering(t *testing.T) {
	actions := []learneraction.LearnerAction{start("stateName1")}
	for i := 0; i < 3; i++ {
		actions = append(actions,
			submit("stateName1", "stateName2", "Continue", "", "", 1),
			submit("stateName2", "stateName3", "Continue", "", "", 1),
			submit("stateName3", "stateName1", "Continue", "", "", 1),
		)
	}
	actions = append(actions, quit("stateName1", 5))

	rendered := NewRenderer(nil).RenderDisplayBlocks(DisplayBlocks(actions), false)
	require.Len(t, rendered, 3)
	assert.True(t, strings.HasPrefix(string(rendered[1][0]), "4. "))
	assert.True(t, strings.HasPrefix(string(rendered[2][3]), "11. Left"))
}

func TestRenderDisplayBlocks_MISFinal(t *testing.T) {
	actions := []learneraction.LearnerAction{
		start("A"),
		submit("A", "A", "TextInput", "1", "no", 1),
		submit("A", "A", "TextInput", "2", "no", 1),
		submit("A", "A", "TextInput", "3", "no", 1),
		quit("A", 2),
	}
	rendered := NewRenderer(nil).RenderDisplayBlocks(DisplayBlocks(actions), true)
	require.Len(t, rendered, 1)
	require.Len(t, rendered[0], 1)
	assert.Contains(t, string(rendered[0][0]), "<tr><td>3</td><td>no</td></tr></table>")
}

func TestRenderLearnerActionText(t *testing.T) {
	r := NewRenderer(nil)
	assert.Equal(t,
		`1. Started exploration at card "Intro".`,
		r.RenderLearnerActionText(start("Intro"), 1))
	assert.Equal(t,
		`2. Submitted "Hello" in card "Intro" and stayed there after 4 seconds. Feedback: Try again`,
		r.RenderLearnerActionText(submit("Intro", "Intro", "TextInput", "Hello", "<p>Try again</p>", 4), 2))
	assert.Equal(t,
		`3. Submitted ["a","b"] in card "Intro" and moved to card "End" after 1 seconds.`,
		r.RenderLearnerActionText(submit("Intro", "End", "SetInput", []any{"a", "b"}, "", 1), 3))
}
