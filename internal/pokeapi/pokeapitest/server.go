// Package pokeapitest serves a tiny slice of the PokeAPI for tests.
package pokeapitest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
)

type entry struct {
	ID      int
	Name    string
	Types   []string
	Chain   int // 0 means the species has no evolution_chain
	Sprites bool
}

// Dataset:
//
//	1-3     bulbasaur → ivysaur → venusaur
//	132     ditto, chain of one
//	133-135 eevee → [vaporeon, jolteon]
//	150     mewtwo, no sprites at all
//	151     mew, species without evolution_chain
var entries = []entry{
	{1, "bulbasaur", []string{"grass", "poison"}, 1, true},
	{2, "ivysaur", []string{"grass", "poison"}, 1, true},
	{3, "venusaur", []string{"grass", "poison"}, 1, true},
	{132, "ditto", []string{"normal"}, 66, true},
	{133, "eevee", []string{"normal"}, 67, true},
	{134, "vaporeon", []string{"water"}, 67, true},
	{135, "jolteon", []string{"electric"}, 67, true},
	{150, "mewtwo", []string{"psychic"}, 0, false},
	{151, "mew", []string{"psychic"}, 0, true},
}

type link struct {
	name string
	next []link
}

var chains = map[int]link{
	1:  {"bulbasaur", []link{{"ivysaur", []link{{"venusaur", nil}}}}},
	66: {"ditto", nil},
	67: {"eevee", []link{{"vaporeon", nil}, {"jolteon", nil}}},
}

// MaxID is the highest id the fake knows about.
const MaxID = 151

// Server is an httptest server with per-path hit counters and injectable
// failures.
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	hits     map[string]int
	failures map[string]int
}

// NewServer starts a server that is closed when the test ends.
func NewServer(t testing.TB) *Server {
	t.Helper()
	s := &Server{hits: map[string]int{}, failures: map[string]int{}}
	s.Server = httptest.NewServer(http.HandlerFunc(s.serve))
	t.Cleanup(s.Close)
	return s
}

// BaseURL is the API base to configure clients with.
func (s *Server) BaseURL() string { return s.URL + "/api/v2" }

// SpriteURL is where the fake serves the front sprite of id.
func (s *Server) SpriteURL(id int) string { return fmt.Sprintf("%s/sprites/%d.png", s.URL, id) }

// Fail makes every request to path (e.g. "/api/v2/pokemon/ivysaur")
// answer with status.
func (s *Server) Fail(path string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[strings.TrimRight(path, "/")] = status
}

// Hits reports how many requests reached path.
func (s *Server) Hits(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[strings.TrimRight(path, "/")]
}

func (s *Server) serve(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimRight(r.URL.Path, "/")
	s.mu.Lock()
	s.hits[path]++
	status, failing := s.failures[path]
	s.mu.Unlock()
	if failing {
		http.Error(w, http.StatusText(status), status)
		return
	}

	parts := strings.Split(strings.TrimPrefix(path, "/"), "/")
	switch {
	case len(parts) == 2 && parts[0] == "sprites":
		s.serveSprite(w, strings.TrimSuffix(parts[1], ".png"))
	case len(parts) == 4 && parts[0] == "api" && parts[1] == "v2":
		s.serveAPI(w, parts[2], parts[3])
	default:
		http.NotFound(w, r)
	}
}

func (s *Server) serveAPI(w http.ResponseWriter, resource, key string) {
	var body any
	switch resource {
	case "pokemon":
		if e, ok := lookup(key); ok {
			body = s.pokemon(e)
		}
	case "pokemon-species":
		if e, ok := lookup(key); ok {
			body = s.species(e)
		}
	case "evolution-chain":
		if id, err := strconv.Atoi(key); err == nil {
			if root, ok := chains[id]; ok {
				body = map[string]any{"id": id, "chain": s.link(root)}
			}
		}
	}
	if body == nil {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(body)
}

func (s *Server) pokemon(e entry) map[string]any {
	types := make([]map[string]any, 0, len(e.Types))
	// Reverse slot order on the wire to prove the adapter sorts by slot.
	for i := len(e.Types) - 1; i >= 0; i-- {
		types = append(types, map[string]any{
			"slot": i + 1,
			"type": map[string]string{"name": e.Types[i], "url": s.BaseURL() + "/type/" + e.Types[i] + "/"},
		})
	}
	sprites := map[string]any{"front_default": nil, "other": map[string]any{"official-artwork": map[string]any{"front_default": nil}}}
	if e.Sprites {
		sprites = map[string]any{
			"front_default": s.SpriteURL(e.ID),
			"other": map[string]any{
				"official-artwork": map[string]any{"front_default": fmt.Sprintf("%s/sprites/artwork/%d.png", s.URL, e.ID)},
			},
		}
	}
	return map[string]any{
		"id":      e.ID,
		"name":    e.Name,
		"species": map[string]string{"name": e.Name, "url": fmt.Sprintf("%s/pokemon-species/%d/", s.BaseURL(), e.ID)},
		"sprites": sprites,
		"types":   types,
	}
}

func (s *Server) species(e entry) map[string]any {
	var chain any
	if e.Chain != 0 {
		chain = map[string]string{"url": fmt.Sprintf("%s/evolution-chain/%d/", s.BaseURL(), e.Chain)}
	}
	return map[string]any{"id": e.ID, "name": e.Name, "evolution_chain": chain}
}

func (s *Server) link(l link) map[string]any {
	next := make([]map[string]any, 0, len(l.next))
	for _, n := range l.next {
		next = append(next, s.link(n))
	}
	e, _ := lookup(l.name)
	return map[string]any{
		"species":    map[string]string{"name": l.name, "url": fmt.Sprintf("%s/pokemon-species/%d/", s.BaseURL(), e.ID)},
		"evolves_to": next,
		"is_baby":    false,
	}
}

func (s *Server) serveSprite(w http.ResponseWriter, key string) {
	if _, err := strconv.Atoi(key); err != nil {
		http.NotFound(w, nil)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	_, _ = w.Write(SpritePNG())
}

func lookup(key string) (entry, bool) {
	id, err := strconv.Atoi(key)
	for _, e := range entries {
		if (err == nil && e.ID == id) || e.Name == key {
			return e, true
		}
	}
	return entry{}, false
}

// SpritePNG is a 2x2 image: red and transparent on top, blue and green below.
func SpritePNG() []byte {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.NRGBA{R: 255, A: 255})
	img.Set(1, 0, color.NRGBA{})
	img.Set(0, 1, color.NRGBA{B: 255, A: 255})
	img.Set(1, 1, color.NRGBA{G: 255, A: 255})
	var buf bytes.Buffer
	_ = png.Encode(&buf, img)
	return buf.Bytes()
}
