package flow

import (
	"context"
	"testing"
)

type counterState struct{ n int }

type incNode struct{}

func (incNode) Prep(s *counterState) []struct{} { return []struct{}{{}} }
func (incNode) Exec(ctx context.Context, _ struct{}) (struct{}, error) {
	return struct{}{}, nil
}
func (incNode) Post(s *counterState, _ []struct{}, _ ...struct{}) Action {
	s.n++
	if s.n >= 3 {
		return ActionEnd
	}
	return ActionContinue
}
func (incNode) ExecFallback(err error) struct{} { return struct{}{} }

func TestFlowLoopsUntilEnd(t *testing.T) {
	node := NewNode[counterState, struct{}, struct{}](incNode{}, 0)
	node.AddSuccessor(node, ActionContinue)

	f := NewFlow[counterState](node)
	state := &counterState{}
	action := f.Run(context.Background(), state)

	if action != ActionEnd {
		t.Fatalf("expected ActionEnd, got %v", action)
	}
	if state.n != 3 {
		t.Fatalf("expected node to run 3 times, got %d", state.n)
	}
}

func TestFlowNilStartNodeFails(t *testing.T) {
	f := NewFlow[counterState](nil)
	if action := f.Run(context.Background(), &counterState{}); action != ActionFailure {
		t.Fatalf("expected ActionFailure for nil start node, got %v", action)
	}
}
