package model

import "fmt"

// PlaceholderSprite stands in for a missing artwork or sprite URL.
const PlaceholderSprite = "placeholder://sprite"

// Record is the displayable shape of one creature.
// It is rebuilt on every successful fetch and never mutated afterwards.
type Record struct {
	ID                int      `json:"id"`
	Name              string   `json:"name"`
	ArtworkURL        string   `json:"artwork_url"`
	SpriteURL         string   `json:"sprite_url"`
	Types             []string `json:"types"`
	SpeciesRef        string   `json:"species_ref,omitempty"`
	EvolutionChainRef string   `json:"evolution_chain_ref,omitempty"`
}

// PrimaryType is the first type, or "" when the record has none.
func (r Record) PrimaryType() string {
	if len(r.Types) == 0 {
		return ""
	}
	return r.Types[0]
}

// Number formats the id the way the dex prints it: #001.
func (r Record) Number() string { return fmt.Sprintf("#%03d", r.ID) }

// HasArtwork reports whether a real image URL is known.
func (r Record) HasArtwork() bool { return r.ArtworkURL != PlaceholderSprite }

// HasSprite reports whether a real sprite URL is known.
func (r Record) HasSprite() bool { return r.SpriteURL != PlaceholderSprite }
