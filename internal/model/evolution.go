package model

import "github.com/Makepad-fr/pokedex/internal/pokeapi"

// EvolutionTree is the chain payload as an explicit tree: one species and
// its ordered successors.
type EvolutionTree struct {
	Species  string
	Children []*EvolutionTree
}

// EvolutionNode is one entry of a linearized chain.
type EvolutionNode struct {
	SpeciesName string
}

// EvolutionChain is root first and follows a single path.
type EvolutionChain []EvolutionNode

// Names returns the species names in chain order.
func (c EvolutionChain) Names() []string {
	out := make([]string, len(c))
	for i, n := range c {
		out[i] = n.SpeciesName
	}
	return out
}

// BuildTree converts the recursive payload into an EvolutionTree.
func BuildTree(link *pokeapi.ChainLink) *EvolutionTree {
	if link == nil {
		return nil
	}
	t := &EvolutionTree{Species: link.Species.Name}
	for i := range link.EvolvesTo {
		t.Children = append(t.Children, BuildTree(&link.EvolvesTo[i]))
	}
	return t
}

// Linearize walks from the root taking the first child at every fork,
// dropping siblings. A lone root yields one node; nil yields none.
func Linearize(t *EvolutionTree) EvolutionChain {
	var chain EvolutionChain
	for n := t; n != nil; {
		chain = append(chain, EvolutionNode{SpeciesName: n.Species})
		if len(n.Children) == 0 {
			break
		}
		n = n.Children[0]
	}
	return chain
}

// Branches lists every root-to-leaf path.
func Branches(t *EvolutionTree) []EvolutionChain {
	if t == nil {
		return nil
	}
	self := EvolutionNode{SpeciesName: t.Species}
	if len(t.Children) == 0 {
		return []EvolutionChain{{self}}
	}
	var out []EvolutionChain
	for _, c := range t.Children {
		for _, tail := range Branches(c) {
			out = append(out, append(EvolutionChain{self}, tail...))
		}
	}
	return out
}
