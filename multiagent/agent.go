package multiagent

import (
	"fmt"

	"github.com/pdrpinto/go-astar/grid"
)

// NoPredecessor is the Predecessor of an agent free to move at any time.
const NoPredecessor = -1

type AgentState uint8

const (
	Unmoved AgentState = iota
	Moved
)

// Agent is a unit moving toward its goal. Speed is the number of turns a
// step takes: after a step the agent must wait Speed-1 turns before the
// next one. An agent with a predecessor may not leave its cell before the
// predecessor has moved at least once.
type Agent struct {
	ID          int
	Start       grid.Coord
	Pos         grid.Coord
	Goal        grid.Coord
	Speed       int
	Cooldown    int
	Predecessor int
	State       AgentState
}

// NewAgent returns an unmoved agent standing at start. A speed below 1 is
// taken as 1.
func NewAgent(id int, start, goal grid.Coord, speed int) Agent {
	speed = max(speed, 1)
	return Agent{
		ID:          id,
		Start:       start,
		Pos:         start,
		Goal:        goal,
		Speed:       speed,
		Cooldown:    speed - 1,
		Predecessor: NoPredecessor,
	}
}

// After returns a copy of a that has to wait for agent id.
func (a Agent) After(id int) Agent {
	a.Predecessor = id
	return a
}

func (a Agent) hash() uint64 {
	code := uint64(a.ID + 1)
	code = code*31 + uint64(a.Cooldown)
	code = code*31 + uint64(a.Pos.X)
	code = code*31 + uint64(a.Pos.Y)
	code = code*31 + uint64(a.State)
	return code
}

// same reports whether a and b are the same agent in the same situation.
func (a Agent) same(b Agent) bool {
	return a.ID == b.ID && a.Cooldown == b.Cooldown && a.Pos == b.Pos && a.State == b.State
}

// String renders the agent as its letter, cooldown and position, e.g.
// "A0|(1,2)".
func (a Agent) String() string {
	return fmt.Sprintf("%c%d|%v", rune('A'+a.ID), a.Cooldown, a.Pos)
}

// Move is one agent's decision for the current turn. Agent is the agent as
// it will be after the move, with its cooldown already updated.
type Move struct {
	Agent Agent
	To    grid.Coord
}

func (m Move) hash() uint64 {
	return (m.Agent.hash()*31+uint64(m.To.X))*31 + uint64(m.To.Y)
}

func (m Move) same(o Move) bool { return m.Agent.same(o.Agent) && m.To == o.To }

// Stays reports whether the move keeps the agent where it is.
func (m Move) Stays() bool { return m.To == m.Agent.Pos }

func (m Move) String() string { return fmt.Sprintf("%v->%v", m.Agent, m.To) }
