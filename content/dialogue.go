package content

import (
	"sort"

	"github.com/antares-rpg/antares/types"
)

// DialogueCondition gates a node or choice. Conditions are tagged
// variants: Type selects the predicate, Params carries its arguments.
// The dialogue runtime skips unknown types with a warning so newer
// campaign files keep working on older engines.
type DialogueCondition struct {
	Type   string
	Params map[string]any
}

// DialogueAction is a side effect attached to a node or choice, in the
// same tagged-variant shape as conditions.
type DialogueAction struct {
	Type   string
	Params map[string]any
}

// DialogueChoice is one selectable answer on a node. A nil NextNode
// ends the dialogue when chosen.
type DialogueChoice struct {
	Text       string
	NextNode   *types.NodeID
	Conditions []DialogueCondition
	Actions    []DialogueAction
}

// DialogueNode is one step of a dialogue tree.
type DialogueNode struct {
	ID              types.NodeID
	Text            string
	SpeakerOverride string
	Choices         []DialogueChoice
	Conditions      []DialogueCondition
	Actions         []DialogueAction
	IsTerminal      bool
}

// DialogueTree is an author-defined conversation graph.
type DialogueTree struct {
	ID              types.DialogueID
	Name            string
	RootNode        types.NodeID
	Nodes           map[types.NodeID]DialogueNode
	Repeatable      bool
	SpeakerName     string
	AssociatedQuest *types.QuestID
}

// Node returns the node with the given ID, if present.
func (t *DialogueTree) Node(id types.NodeID) (DialogueNode, bool) {
	n, ok := t.Nodes[id]
	return n, ok
}

// AddNode inserts or replaces a node.
func (t *DialogueTree) AddNode(n DialogueNode) {
	if t.Nodes == nil {
		t.Nodes = map[types.NodeID]DialogueNode{}
	}
	t.Nodes[n.ID] = n
}

// cloneDialogue deep-copies a tree for authoring sessions.
func cloneDialogue(t DialogueTree) DialogueTree {
	out := t
	out.Nodes = make(map[types.NodeID]DialogueNode, len(t.Nodes))
	for id, node := range t.Nodes {
		n := node
		n.Choices = append([]DialogueChoice(nil), node.Choices...)
		for i := range n.Choices {
			n.Choices[i].Conditions = append([]DialogueCondition(nil), n.Choices[i].Conditions...)
			n.Choices[i].Actions = append([]DialogueAction(nil), n.Choices[i].Actions...)
		}
		n.Conditions = append([]DialogueCondition(nil), node.Conditions...)
		n.Actions = append([]DialogueAction(nil), node.Actions...)
		out.Nodes[id] = n
	}
	if t.AssociatedQuest != nil {
		q := *t.AssociatedQuest
		out.AssociatedQuest = &q
	}
	return out
}

// Validate checks the tree's structural invariants: the root exists and
// every choice target resolves. It returns a message per violation, in
// node ID order so repeated runs agree.
func (t *DialogueTree) Validate() []string {
	var problems []string
	if len(t.Nodes) == 0 {
		problems = append(problems, "dialogue has no nodes")
		return problems
	}
	if _, ok := t.Nodes[t.RootNode]; !ok {
		problems = append(problems, "root node not present in nodes")
	}
	ids := make([]types.NodeID, 0, len(t.Nodes))
	for id := range t.Nodes {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		node := t.Nodes[id]
		for _, choice := range node.Choices {
			if choice.NextNode == nil {
				continue
			}
			if _, ok := t.Nodes[*choice.NextNode]; !ok {
				problems = append(problems, "choice target node missing: "+choice.Text)
			}
		}
		if node.IsTerminal {
			for _, choice := range node.Choices {
				if choice.NextNode != nil {
					problems = append(problems, "terminal node has a continuing choice: "+choice.Text)
				}
			}
		}
	}
	return problems
}
