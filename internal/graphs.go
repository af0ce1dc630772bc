// This file contains thin wrappers around the graph module
// for managing the court hierarchies of a ladder.
package internal

import (
	"iter"

	"github.com/dominikbraun/graph"
)

type GraphNode interface {
	// A unique ID that is used as the node hash
	Id() int
}

func getNodeId[T GraphNode](node T) int {
	return node.Id()
}

type DependencyGraph[T GraphNode] struct {
	graph.Graph[int, T]
	adjancencyMap map[int]map[int]graph.Edge[int]
}

func (g *DependencyGraph[T]) AddEdge(source, target T) error {
	g.adjancencyMap = nil
	err := g.Graph.AddEdge(source.Id(), target.Id())
	return err
}

func (g *DependencyGraph[T]) BreadthSearchIter(start T) iter.Seq2[T, int] {
	iterator := func(yield func(v T, depth int) bool) {
		visitor := func(key, depth int) bool {
			v, _ := g.Vertex(key)
			return !yield(v, depth)
		}
		graph.BFSWithDepth(g.Graph, start.Id(), visitor)
	}
	return iterator
}

// Returns the nodes that are on the outgoing edges of the given
// source node (the dependants).
func (g *DependencyGraph[T]) GetDependants(source T) []T {
	if g.adjancencyMap == nil {
		g.adjancencyMap, _ = g.Graph.AdjacencyMap()
	}

	outEdges := g.adjancencyMap[source.Id()]
	dependants := make([]T, 0, len(outEdges))
	for k := range outEdges {
		dependant, _ := g.Vertex(k)
		dependants = append(dependants, dependant)
	}

	return dependants
}

// A LadderGraph contains the courts of one king of court
// hierarchy as its nodes. A directed edge points from a court
// to the court directly below it, so the graph is a chain
// starting at the king court.
//
// Winners move against the edges (promotion) and the
// breadth search from the king court visits the courts
// in the order in which they are filled.
type LadderGraph[T GraphNode] struct {
	DependencyGraph[T]
	top T
}

// Creates a LadderGraph from the given courts which have
// to be ordered from the king court downward.
func NewLadderGraph[T GraphNode](courts []T) *LadderGraph[T] {
	g := DependencyGraph[T]{
		Graph: graph.New(getNodeId[T], graph.Directed(), graph.Acyclic()),
	}
	ladder := &LadderGraph[T]{DependencyGraph: g}
	for i, c := range courts {
		ladder.AddVertex(c)
		if i == 0 {
			ladder.top = c
			continue
		}
		ladder.AddEdge(courts[i-1], c)
	}
	return ladder
}

// Iterates the courts from the king court downward together
// with their position in the hierarchy (0 is the king court).
func (l *LadderGraph[T]) Descending() iter.Seq2[T, int] {
	return func(yield func(T, int) bool) {
		if l.Courts() == 0 {
			return
		}
		position := 0
		for court := range l.BreadthSearchIter(l.top) {
			if !yield(court, position) {
				return
			}
			position += 1
		}
	}
}

// Returns the court directly below the given one and false
// if the given court is the bottom of the hierarchy.
func (l *LadderGraph[T]) Below(court T) (T, bool) {
	dependants := l.GetDependants(court)
	if len(dependants) == 0 {
		var zero T
		return zero, false
	}
	return dependants[0], true
}

// Returns the number of courts in the hierarchy
func (l *LadderGraph[T]) Courts() int {
	n, _ := l.Order()
	return n
}
