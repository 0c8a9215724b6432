// Package rete materializes the least model of a definite program with an
// incremental pattern network.
//
// The network is a single arena of nodes addressed by index. Node 0 is the
// root; alpha nodes match one body pattern, beta nodes join two upstream
// memories, and one leaf per rule grounds the rule head. Every derived head
// is fed back into the root, so propagation runs until no node produces a
// new payload.
package rete

import (
	"fmt"
	"strings"

	"github.com/cognicore/logos/pkg/logos/internalerr"
	"github.com/cognicore/logos/pkg/logos/logic"
	"github.com/cognicore/logos/pkg/logos/term"
)

type kind uint8

const (
	kindRoot kind = iota
	kindAlpha
	kindBeta
	kindLeaf
)

func (k kind) String() string {
	switch k {
	case kindRoot:
		return "root"
	case kindAlpha:
		return "alpha"
	case kindBeta:
		return "beta"
	}
	return "leaf"
}

const root = 0

// payload is one partial match: the ground literals matched so far and the
// bindings they produced.
type payload struct {
	ground []logic.Literal
	sub    term.Substitution
}

func (p payload) key() string {
	var b strings.Builder
	for _, l := range p.ground {
		b.WriteString(l.Key())
		b.WriteByte(';')
	}
	b.WriteByte('#')
	b.WriteString(p.sub.Key())
	return b.String()
}

type node struct {
	kind     kind
	name     string
	pattern  logic.Literal // alpha
	left     int           // beta
	right    int           // beta
	clause   logic.Clause  // leaf
	children []int
	memory   []payload
	seen     map[string]struct{}
}

// remember records p unless an equal payload is already in memory.
func (n *node) remember(p payload) bool {
	k := p.key()
	if _, dup := n.seen[k]; dup {
		return false
	}
	n.seen[k] = struct{}{}
	n.memory = append(n.memory, p)
	return true
}

type activation struct {
	to, from int
	p        payload
}

// Network is a pattern network built for one program. Not safe for
// concurrent use.
type Network struct {
	nodes     []node
	interned  map[string]int
	constants []term.Term
	world     *World
	queue     []activation
}

// Option configures a Network.
type Option func(*networkConfig)

type networkConfig struct {
	extra []term.Term
}

// WithConstants adds terms to the universe used to ground head variables
// that the rule body does not bind.
func WithConstants(ts ...term.Term) Option {
	return func(c *networkConfig) {
		c.extra = append(c.extra, ts...)
	}
}

// New builds the network for the rules of p and feeds it the facts of p.
func New(p logic.Program, opts ...Option) *Network {
	var cfg networkConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	universe := make(map[term.Term]struct{})
	for _, t := range p.Constants() {
		universe[t] = struct{}{}
	}
	for _, t := range cfg.extra {
		if t.IsGround() {
			universe[t] = struct{}{}
		}
	}

	n := &Network{
		nodes:     []node{{kind: kindRoot, name: "root", seen: map[string]struct{}{}}},
		interned:  make(map[string]int),
		constants: logic.SortedTerms(universe),
		world:     newWorld(),
	}
	for _, rule := range p.Rules() {
		n.addRule(rule)
	}
	for _, fact := range p.Facts() {
		n.assertClause(fact)
	}
	n.propagate()
	return n
}

// Materialize returns the least model of p.
func Materialize(p logic.Program, opts ...Option) *World {
	return New(p, opts...).World()
}

// World returns the literals derived so far. The value keeps growing with
// later calls to Assert.
func (n *Network) World() *World { return n.world }

// Constants returns the grounding universe in sorted order.
func (n *Network) Constants() []term.Term {
	return append([]term.Term(nil), n.constants...)
}

// Assert feeds one ground literal and propagates to fixpoint.
func (n *Network) Assert(l logic.Literal) error {
	if !l.IsGround() {
		return fmt.Errorf("assert %s: %w", l, internalerr.ErrNonGround)
	}
	n.assertClause(logic.Fact(l))
	n.propagate()
	return nil
}

func (n *Network) addNode(nd node) int {
	nd.seen = make(map[string]struct{})
	n.nodes = append(n.nodes, nd)
	return len(n.nodes) - 1
}

func (n *Network) alpha(pattern logic.Literal) int {
	key := "a:" + pattern.Key()
	if id, ok := n.interned[key]; ok {
		return id
	}
	id := n.addNode(node{kind: kindAlpha, name: pattern.String(), pattern: pattern})
	n.interned[key] = id
	n.nodes[root].children = append(n.nodes[root].children, id)
	return id
}

func (n *Network) beta(left, right int, key string) int {
	if id, ok := n.interned[key]; ok {
		return id
	}
	name := n.nodes[left].name + ", " + n.nodes[right].name
	id := n.addNode(node{kind: kindBeta, name: name, left: left, right: right})
	n.interned[key] = id
	n.nodes[left].children = append(n.nodes[left].children, id)
	if right != left {
		n.nodes[right].children = append(n.nodes[right].children, id)
	}
	return id
}

// addRule chains one alpha per body literal into left-deep beta joins that
// end in a leaf for the rule.
func (n *Network) addRule(rule logic.Clause) {
	last := -1
	key := ""
	for i := 0; i < rule.BodyLen(); i++ {
		lit := rule.BodyAt(i)
		a := n.alpha(lit)
		if last < 0 {
			last, key = a, "a:"+lit.Key()
			continue
		}
		key = "b:" + key + "," + lit.Key()
		last = n.beta(last, a, key)
	}
	leaf := n.addNode(node{kind: kindLeaf, name: rule.String(), clause: rule})
	n.nodes[last].children = append(n.nodes[last].children, leaf)
}

// assertClause grounds a fact over the universe, records it and pushes it
// into the root.
func (n *Network) assertClause(fact logic.Clause) {
	n.ground(fact.Head, term.Substitution{}, func(head logic.Literal) {
		if n.world.add(logic.Fact(head)) {
			n.notifyRoot(head)
		}
	})
}

func (n *Network) notifyRoot(l logic.Literal) {
	p := payload{ground: []logic.Literal{l}, sub: term.Substitution{}}
	for _, child := range n.nodes[root].children {
		n.queue = append(n.queue, activation{to: child, from: root, p: p})
	}
}

func (n *Network) forward(from int, p payload) {
	for _, child := range n.nodes[from].children {
		n.queue = append(n.queue, activation{to: child, from: from, p: p})
	}
}

func (n *Network) propagate() {
	for len(n.queue) > 0 {
		act := n.queue[0]
		n.queue = n.queue[1:]
		n.activate(act)
	}
	n.queue = nil
}

func (n *Network) activate(act activation) {
	nd := &n.nodes[act.to]
	switch nd.kind {
	case kindAlpha:
		ground := act.p.ground[0]
		sub, ok := nd.pattern.Unify(ground)
		if !ok {
			return
		}
		p := payload{ground: []logic.Literal{ground}, sub: sub}
		if nd.remember(p) {
			n.forward(act.to, p)
		}

	case kindBeta:
		// Snapshot: joins recorded below must not be matched again here.
		left := n.nodes[nd.left].memory
		right := n.nodes[nd.right].memory
		if act.from == nd.left {
			for _, other := range right {
				n.join(act.to, act.p, other)
			}
		}
		if act.from == nd.right {
			for _, other := range left {
				n.join(act.to, other, act.p)
			}
		}

	case kindLeaf:
		if !nd.remember(act.p) {
			return
		}
		clause := nd.clause
		support := act.p.ground
		n.ground(clause.Head, act.p.sub, func(head logic.Literal) {
			if n.world.add(logic.NewClause(head, support...)) {
				n.notifyRoot(head)
			}
		})
	}
}

func (n *Network) join(id int, a, b payload) {
	sub, ok := a.sub.Merge(b.sub)
	if !ok {
		return
	}
	ground := make([]logic.Literal, 0, len(a.ground)+len(b.ground))
	ground = append(ground, a.ground...)
	ground = append(ground, b.ground...)
	p := payload{ground: ground, sub: sub}
	if n.nodes[id].remember(p) {
		n.forward(id, p)
	}
}

// ground substitutes sub into l and enumerates the universe for any
// variables still left.
func (n *Network) ground(l logic.Literal, sub term.Substitution, fn func(logic.Literal)) {
	l = l.Substitute(sub)
	if l.IsGround() {
		fn(l)
		return
	}
	logic.Groundings(l.Vars(), n.constants, term.Substitution{}, func(g term.Substitution) bool {
		fn(l.Substitute(g))
		return true
	})
}

// Describe renders the node graph, one node per line, for diagnostics.
func (n *Network) Describe() string {
	var b strings.Builder
	for id, nd := range n.nodes {
		fmt.Fprintf(&b, "%d %s %q mem=%d ->", id, nd.kind, nd.name, len(nd.memory))
		for _, c := range nd.children {
			fmt.Fprintf(&b, " %d", c)
		}
		b.WriteByte('\n')
	}
	return b.String()
}
