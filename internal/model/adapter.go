package model

import (
	"sort"
	"strings"

	"github.com/Makepad-fr/pokedex/internal/pokeapi"
)

// FromPokemon extracts a Record from a raw payload. Missing images
// degrade to PlaceholderSprite, never to an error. The id always comes
// from the payload so name lookups resolve to a numeric cursor.
func FromPokemon(p *pokeapi.Pokemon) Record {
	if p == nil {
		return Record{ArtworkURL: PlaceholderSprite, SpriteURL: PlaceholderSprite}
	}
	sprite := deref(p.Sprites.FrontDefault)
	artwork := deref(p.Sprites.Other.OfficialArtwork.FrontDefault)
	if artwork == "" {
		artwork = sprite
	}
	if sprite == "" {
		sprite = artwork
	}
	if artwork == "" {
		artwork, sprite = PlaceholderSprite, PlaceholderSprite
	}
	return Record{
		ID:         p.ID,
		Name:       strings.ToLower(p.Name),
		ArtworkURL: artwork,
		SpriteURL:  sprite,
		Types:      typeNames(p.Types),
		SpeciesRef: p.Species.URL,
	}
}

// WithSpecies returns a copy of r carrying the species' evolution chain reference.
func (r Record) WithSpecies(s *pokeapi.Species) Record {
	out := r
	out.Types = append([]string(nil), r.Types...)
	out.EvolutionChainRef = ""
	if s != nil && s.EvolutionChain != nil {
		out.EvolutionChainRef = s.EvolutionChain.URL
	}
	return out
}

// typeNames keeps API order; slots, when all present, are that order.
func typeNames(slots []pokeapi.TypeSlot) []string {
	sorted := append([]pokeapi.TypeSlot(nil), slots...)
	slotted := true
	for _, t := range sorted {
		if t.Slot == 0 {
			slotted = false
			break
		}
	}
	if slotted {
		sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Slot < sorted[j].Slot })
	}
	names := make([]string, 0, len(sorted))
	for _, t := range sorted {
		if t.Type.Name != "" {
			names = append(names, t.Type.Name)
		}
	}
	return names
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}
