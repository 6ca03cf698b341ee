package multiagent

import (
	"cmp"
	"slices"
	"strings"

	astar "github.com/pdrpinto/go-astar"
)

// Node is a turn in progress for the whole team: the moves already decided
// this turn and the agents still to decide.
//
// Nodes are compared by content. Two nodes are the same search vertex when
// their Planned sequences match and their Unplanned agents match as a set;
// ExpansionList, costs and parents play no part.
type Node struct {
	Planned       []Move
	ExpansionList []Move // candidate moves of Unplanned[0] not tried yet
	Unplanned     []Agent

	G    int // decisions taken since the start
	Cost int // G plus the heuristic estimate

	// EndOfTurn marks a node whose last decision completed a turn. Its
	// moves were committed into Unplanned and kept in Committed.
	EndOfTurn bool
	Committed []Move

	// Parent is the node this one was generated from. The start node is
	// its own parent.
	Parent *Node
	State  astar.NodeState

	expanded bool
	hash     uint64
}

// NewStart returns the root node of a plan for agents.
func NewStart(agents ...Agent) *Node {
	n := &Node{Unplanned: slices.Clone(agents)}
	n.rehash()
	return n
}

// Goal returns the node every plan ends with: nothing planned and nobody
// left to plan for.
func Goal() *Node {
	n := &Node{}
	n.rehash()
	return n
}

func (n *Node) Hash() uint64 { return n.hash }

func (n *Node) rehash() {
	var code uint64
	for _, m := range n.Planned {
		code = code*31 + m.hash()
	}
	for _, a := range sortedAgents(n.Unplanned) {
		code = code*31 + a.hash()
	}
	n.hash = code
}

// Equal reports whether n and o are the same search vertex.
func (n *Node) Equal(o *Node) bool {
	if n == o {
		return true
	}
	if len(n.Planned) != len(o.Planned) || len(n.Unplanned) != len(o.Unplanned) {
		return false
	}
	for i := range n.Planned {
		if !n.Planned[i].same(o.Planned[i]) {
			return false
		}
	}
	a, b := sortedAgents(n.Unplanned), sortedAgents(o.Unplanned)
	for i := range a {
		if !a[i].same(b[i]) {
			return false
		}
	}
	return true
}

// resetExpansion makes the next expansion regenerate every candidate move.
func (n *Node) resetExpansion() {
	n.expanded = false
	n.ExpansionList = nil
}

func sortedAgents(agents []Agent) []Agent {
	out := slices.Clone(agents)
	slices.SortStableFunc(out, func(a, b Agent) int { return cmp.Compare(a.ID, b.ID) })
	return out
}

// String renders the node as "[planned]<expansion list>{unplanned}".
func (n *Node) String() string {
	return format(n.Planned, n.ExpansionList, n.Unplanned)
}

// Annotation renders an end-of-turn node by the moves it committed, and
// any other node like String.
func (n *Node) Annotation() string {
	if n.EndOfTurn {
		return format(n.Committed, nil, nil)
	}
	return n.String()
}

func format(planned, expansion []Move, unplanned []Agent) string {
	var b strings.Builder
	b.WriteByte('[')
	for i, m := range planned {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(m.String())
	}
	b.WriteString("]<")
	for i, m := range expansion {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(m.String())
	}
	b.WriteString(">{")
	for i, a := range unplanned {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(a.String())
	}
	b.WriteByte('}')
	return b.String()
}
