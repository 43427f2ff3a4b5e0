package pokeapi

// Only the fields the app consumes are decoded.

// NamedResource is the API's {name, url} reference.
type NamedResource struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Pokemon is the payload of /pokemon/{id or name}.
type Pokemon struct {
	ID      int           `json:"id"`
	Name    string        `json:"name"`
	Species NamedResource `json:"species"`
	Sprites Sprites       `json:"sprites"`
	Types   []TypeSlot    `json:"types"`
}

// Sprites holds image URLs. Any of them may be null.
type Sprites struct {
	FrontDefault *string      `json:"front_default"`
	Other        OtherSprites `json:"other"`
}

type OtherSprites struct {
	OfficialArtwork struct {
		FrontDefault *string `json:"front_default"`
	} `json:"official-artwork"`
}

type TypeSlot struct {
	Slot int           `json:"slot"`
	Type NamedResource `json:"type"`
}

// Species is the payload of /pokemon-species/{id or name}.
type Species struct {
	ID             int            `json:"id"`
	Name           string         `json:"name"`
	EvolutionChain *APIResource   `json:"evolution_chain"`
	EvolvesFrom    *NamedResource `json:"evolves_from_species"`
}

// APIResource is an unnamed {url} reference.
type APIResource struct {
	URL string `json:"url"`
}

// EvolutionChain is the payload of /evolution-chain/{id}.
type EvolutionChain struct {
	ID    int       `json:"id"`
	Chain ChainLink `json:"chain"`
}

// ChainLink is one recursive node of an evolution chain.
type ChainLink struct {
	Species   NamedResource `json:"species"`
	EvolvesTo []ChainLink   `json:"evolves_to"`
	IsBaby    bool          `json:"is_baby"`
}
