package agentloop

import (
	"context"
	"strings"

	"github.com/aitoearn/mobile-agent-go/internal/agentctx"
	"github.com/aitoearn/mobile-agent-go/internal/flow"
)

const plannerSystemPrompt = "Break the user's task into a short numbered list of " +
	"concrete on-device steps. Reply with nothing but the numbered list."

// plannerState is the flow.Flow state threaded through the one-shot
// planning sub-step: the task going in, the parsed step list coming out.
type plannerState struct {
	task  string
	steps []string
}

// plannerNode asks the model once for a plan and parses the reply into a
// step list. It never retries beyond flow.Node's own retry budget and
// always terminates via ActionEnd — there is no branching, only a single
// call, which is why a one-node flow.Flow is enough to host it (see
// internal/flow's package doc for why this stays in scope here and
// nowhere else).
type plannerNode struct {
	client llmCaller
}

func (p plannerNode) Prep(s *plannerState) []string { return []string{s.task} }

func (p plannerNode) Exec(ctx context.Context, task string) (string, error) {
	msgs := []agentctx.Message{
		agentctx.Text("system", plannerSystemPrompt),
		agentctx.Text("user", task),
	}
	reply, err := p.client.Call(ctx, msgs)
	if err != nil {
		return "", err
	}
	return reply.Text, nil
}

func (p plannerNode) Post(s *plannerState, prepRes []string, execResults ...string) flow.Action {
	if len(execResults) > 0 {
		s.steps = parsePlanSteps(execResults[0])
	}
	return flow.ActionEnd
}

func (p plannerNode) ExecFallback(err error) string { return "" }

// RunPlanner runs the one-shot Planner sub-flow and returns its step
// list. A failed or empty LLM call yields a nil slice and no error — the
// Agent Loop treats planning as optional and degrades to running without
// a plan rather than failing the session over it.
func RunPlanner(ctx context.Context, client llmCaller, task string) ([]string, error) {
	node := flow.NewNode[plannerState, string, string](plannerNode{client: client}, 1)
	f := flow.NewFlow[plannerState](node)
	state := &plannerState{task: task}
	f.Run(ctx, state)
	return state.steps, nil
}

// parsePlanSteps strips numbering/bullet prefixes from each non-blank
// line of a plan reply.
func parsePlanSteps(text string) []string {
	var steps []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		line = strings.TrimLeft(line, "0123456789.)-* \t")
		line = strings.TrimSpace(line)
		if line != "" {
			steps = append(steps, line)
		}
	}
	return steps
}
