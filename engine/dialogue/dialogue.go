// Package dialogue runs authored dialogue trees against the game
// state: node traversal, condition-gated choices, and side-effect
// actions. One Runner drives at most one conversation at a time.
package dialogue

import (
	"fmt"
	"os"

	"github.com/antares-rpg/antares/content"
	"github.com/antares-rpg/antares/engine/state"
	"github.com/antares-rpg/antares/types"
)

// Runner holds the state of the active conversation. Zero value is
// inactive; Start activates it.
type Runner struct {
	gs *state.GameState

	tree    *content.DialogueTree
	current types.NodeID
	history []types.NodeID

	text    string
	speaker string
	choices []content.DialogueChoice

	// Warnf receives unknown-variant warnings; nil writes to stderr.
	Warnf func(format string, args ...any)
}

// NewRunner returns an inactive runner bound to the game state.
func NewRunner(gs *state.GameState) *Runner {
	return &Runner{gs: gs}
}

// IsActive reports whether a conversation is in progress.
func (r *Runner) IsActive() bool {
	return r.tree != nil
}

// Text returns the current node's text.
func (r *Runner) Text() string { return r.text }

// Speaker returns the current speaker name.
func (r *Runner) Speaker() string { return r.speaker }

// Choices returns the currently selectable choices, conditions already
// applied. The slice is replaced wholesale on every node transition.
func (r *Runner) Choices() []content.DialogueChoice { return r.choices }

// CurrentNode returns the active node ID.
func (r *Runner) CurrentNode() types.NodeID { return r.current }

// History returns the IDs of every node visited, in order.
func (r *Runner) History() []types.NodeID {
	return append([]types.NodeID(nil), r.history...)
}

// Start begins a conversation at the tree's root. speakerName overrides
// the tree's speaker when non-empty (the talking NPC's display name).
func (r *Runner) Start(treeID types.DialogueID, speakerName string) error {
	tree, ok := r.gs.Campaign.Dialogues.Get(treeID)
	if !ok {
		return fmt.Errorf("dialogue %d not found", treeID)
	}
	if _, ok := tree.Nodes[tree.RootNode]; !ok {
		return fmt.Errorf("dialogue %d root node %d missing", treeID, tree.RootNode)
	}
	r.tree = &tree
	r.history = nil
	r.speaker = tree.SpeakerName
	if speakerName != "" {
		r.speaker = speakerName
	}
	r.gs.Mode = state.ModeDialogue
	r.enterNode(tree.RootNode)
	return nil
}

// SelectChoice picks one of the visible choices. A choice without a
// next node ends the conversation after its actions run.
func (r *Runner) SelectChoice(i int) error {
	if !r.IsActive() {
		return fmt.Errorf("no active dialogue")
	}
	if i < 0 || i >= len(r.choices) {
		return fmt.Errorf("choice %d out of range (%d available)", i, len(r.choices))
	}
	choice := r.choices[i]
	if r.applyActions(choice.Actions) {
		r.End()
		return nil
	}
	if choice.NextNode == nil {
		r.End()
		return nil
	}
	return r.AdvanceTo(*choice.NextNode)
}

// AdvanceTo jumps to a node, recording it in the history. The speaker
// carries over unless the node overrides it.
func (r *Runner) AdvanceTo(id types.NodeID) error {
	if !r.IsActive() {
		return fmt.Errorf("no active dialogue")
	}
	if _, ok := r.tree.Nodes[id]; !ok {
		return fmt.Errorf("dialogue %d has no node %d", r.tree.ID, id)
	}
	r.enterNode(id)
	return nil
}

// End clears all conversation state.
func (r *Runner) End() {
	r.tree = nil
	r.current = 0
	r.history = nil
	r.text = ""
	r.speaker = ""
	r.choices = nil
	if r.gs.Mode == state.ModeDialogue {
		r.gs.Mode = state.ModeExploration
	}
}

// enterNode makes id the current node. Node actions apply before the
// text and choices surface; choices overwrite, never append.
func (r *Runner) enterNode(id types.NodeID) {
	node := r.tree.Nodes[id]
	r.current = id
	r.history = append(r.history, id)

	if r.applyActions(node.Actions) {
		r.End()
		return
	}

	r.text = node.Text
	if node.SpeakerOverride != "" {
		r.speaker = node.SpeakerOverride
	}
	r.choices = nil
	for _, choice := range node.Choices {
		if r.evalConditions(choice.Conditions) {
			r.choices = append(r.choices, choice)
		}
	}
}

// evalConditions reports whether every condition holds. Unknown
// condition types are skipped with a warning so newer campaign files
// degrade instead of breaking.
func (r *Runner) evalConditions(conds []content.DialogueCondition) bool {
	for _, cond := range conds {
		ok, known := evalCondition(r.gs, cond)
		if !known {
			r.warnf("skipping unknown dialogue condition %q", cond.Type)
			continue
		}
		if !ok {
			return false
		}
	}
	return true
}

// applyActions runs actions in order and reports whether one of them
// requested the dialogue to end.
func (r *Runner) applyActions(actions []content.DialogueAction) bool {
	ended := false
	for _, act := range actions {
		end, known := applyAction(r.gs, act)
		if !known {
			r.warnf("skipping unknown dialogue action %q", act.Type)
			continue
		}
		if end {
			ended = true
		}
	}
	return ended
}

func (r *Runner) warnf(format string, args ...any) {
	if r.Warnf != nil {
		r.Warnf(format, args...)
		return
	}
	fmt.Fprintf(os.Stderr, "dialogue: "+format+"\n", args...)
}
