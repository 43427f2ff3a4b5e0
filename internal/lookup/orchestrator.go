// Package lookup sequences record → species → evolution chain → per-node
// fetches and owns the displayed state.
//
// Begin, Resolve, Reject and IsCurrent must be called from one goroutine
// (the UI event loop). Load and FetchStage run anywhere: they only read
// immutable collaborators and never touch state.
package lookup

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/Makepad-fr/pokedex/internal/model"
	"github.com/Makepad-fr/pokedex/internal/nav"
	"github.com/Makepad-fr/pokedex/internal/pokeapi"
)

// NotFoundMessage is the only failure text users see.
const NotFoundMessage = "Pokémon not found!"

// State of the current display cycle.
type State int

const (
	Idle State = iota
	Loading
	Displayed
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Displayed:
		return "displayed"
	case Failed:
		return "error"
	}
	return "unknown"
}

// Gateway is the slice of *pokeapi.Client the orchestrator needs.
type Gateway interface {
	Pokemon(ctx context.Context, idOrName string) (*pokeapi.Pokemon, error)
	Species(ctx context.Context, ref string) (*pokeapi.Species, error)
	EvolutionChain(ctx context.Context, ref string) (*pokeapi.EvolutionChain, error)
}

// ArtSource renders sprite URLs. Optional.
type ArtSource interface {
	Art(ctx context.Context, url string) (string, error)
}

// Request is one display cycle. Token grows monotonically; only the latest
// token may change state.
type Request struct {
	Token  uint64
	Target nav.Target
	ctx    context.Context
}

// Context is cancelled once a newer request begins.
func (r Request) Context() context.Context {
	if r.ctx == nil {
		return context.Background()
	}
	return r.ctx
}

// Evolution outcome of a cycle.
type Evolution int

const (
	// EvolutionNone: the species has no chain reference.
	EvolutionNone Evolution = iota
	// EvolutionChain: Chain holds the linearized path.
	EvolutionChain
	// EvolutionUnavailable: species or chain lookup failed but the record
	// is kept (non-strict policy).
	EvolutionUnavailable
)

// Result is what Load hands back to the event loop.
type Result struct {
	Request   Request
	Record    model.Record
	Art       string
	Evolution Evolution
	Chain     model.EvolutionChain
	Err       error
}

// Stage is one resolved node of the evolution row.
type Stage struct {
	Index     int
	Name      string
	ID        int
	SpriteURL string
	Art       string
}

// StageResult is what FetchStage hands back.
type StageResult struct {
	Request Request
	Index   int
	Name    string
	Stage   Stage
	Err     error
}

// Orchestrator drives display cycles.
type Orchestrator struct {
	gw       Gateway
	art      ArtSource
	stageArt ArtSource
	nav      *nav.Navigator
	log      *zap.Logger
	strict   bool
	group    singleflight.Group

	token   uint64
	cancel  context.CancelFunc
	state   State
	current *model.Record
	chain   model.EvolutionChain
	evo     Evolution
	err     error
}

// Option customizes an Orchestrator.
type Option func(*Orchestrator)

func WithLogger(l *zap.Logger) Option { return func(o *Orchestrator) { o.log = l.Named("lookup") } }
func WithArt(a ArtSource) Option      { return func(o *Orchestrator) { o.art = a } }

// WithStageArt sets the (usually narrower) renderer for evolution nodes.
func WithStageArt(a ArtSource) Option { return func(o *Orchestrator) { o.stageArt = a } }

// WithStrictSecondary makes species or chain failures fail the whole cycle.
func WithStrictSecondary(strict bool) Option { return func(o *Orchestrator) { o.strict = strict } }

func New(gw Gateway, n *nav.Navigator, opts ...Option) *Orchestrator {
	o := &Orchestrator{gw: gw, nav: n, log: zap.NewNop()}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func (o *Orchestrator) Navigator() *nav.Navigator { return o.nav }
func (o *Orchestrator) State() State              { return o.state }
func (o *Orchestrator) Token() uint64             { return o.token }

// Current is the displayed record; nil unless Displayed.
func (o *Orchestrator) Current() *model.Record {
	if o.state != Displayed {
		return nil
	}
	return o.current
}

// Chain returns the displayed chain and how it was obtained.
func (o *Orchestrator) Chain() (model.EvolutionChain, Evolution) { return o.chain, o.evo }

// Err is the internal cause of the last failure.
func (o *Orchestrator) Err() error { return o.err }

// IsCurrent reports whether token belongs to the latest request.
func (o *Orchestrator) IsCurrent(token uint64) bool { return token != 0 && token == o.token }

// Begin starts a cycle for t, preempting any in-flight one.
func (o *Orchestrator) Begin(t nav.Target) Request {
	o.supersede()
	ctx, cancel := context.WithCancel(context.Background())
	o.cancel = cancel
	o.state = Loading
	o.nav.MarkPending(t)
	o.log.Debug("begin", zap.Uint64("token", o.token), zap.String("target", t.Key()))
	return Request{Token: o.token, Target: t, ctx: ctx}
}

// Reject fails a cycle before any request is made (bad input).
func (o *Orchestrator) Reject(err error) {
	o.supersede()
	o.nav.Abort()
	o.fail(err)
}

func (o *Orchestrator) supersede() {
	if o.cancel != nil {
		o.cancel()
		o.cancel = nil
	}
	o.token++
	o.err = nil
	o.chain = nil
	o.evo = EvolutionNone
}

func (o *Orchestrator) fail(err error) {
	o.state = Failed
	o.current = nil
	o.chain = nil
	o.err = err
	fields := []zap.Field{zap.Uint64("token", o.token), zap.Error(err)}
	if kind, ok := pokeapi.KindOf(err); ok {
		fields = append(fields, zap.Stringer("kind", kind))
	}
	o.log.Info("lookup failed", fields...)
}

// Resolve applies res if it is still current. It returns false for stale
// results, which are dropped untouched.
func (o *Orchestrator) Resolve(res Result) bool {
	if !o.IsCurrent(res.Request.Token) {
		o.log.Debug("stale result dropped",
			zap.Uint64("token", res.Request.Token), zap.Uint64("latest", o.token))
		return false
	}
	if res.Err != nil {
		o.nav.Abort()
		o.fail(res.Err)
		return true
	}
	rec := res.Record
	o.current = &rec
	o.chain = res.Chain
	o.evo = res.Evolution
	o.state = Displayed
	o.nav.Commit(rec.ID)
	return true
}

// Load runs one cycle's fetches in order. It is safe to call off the event
// loop.
func (o *Orchestrator) Load(req Request) Result {
	ctx := req.Context()
	res := Result{Request: req}

	p, err := o.pokemon(ctx, req.Target.Key())
	if err != nil {
		res.Err = fmt.Errorf("record %q: %w", req.Target.Key(), err)
		return res
	}
	res.Record = model.FromPokemon(p)
	res.Art = o.artFor(ctx, o.art, res.Record.SpriteURL, res.Record.HasSprite())

	species, err := o.gw.Species(ctx, speciesRef(res.Record))
	if err != nil {
		return o.secondary(res, fmt.Errorf("species of %s: %w", res.Record.Name, err))
	}
	res.Record = res.Record.WithSpecies(species)
	if res.Record.EvolutionChainRef == "" {
		res.Evolution = EvolutionNone
		return res
	}

	ch, err := o.gw.EvolutionChain(ctx, res.Record.EvolutionChainRef)
	if err != nil {
		return o.secondary(res, fmt.Errorf("evolution chain of %s: %w", res.Record.Name, err))
	}
	res.Evolution = EvolutionChain
	res.Chain = model.Linearize(model.BuildTree(&ch.Chain))
	return res
}

// secondary applies the failure policy for species and chain lookups.
func (o *Orchestrator) secondary(res Result, err error) Result {
	if o.strict || errors.Is(err, context.Canceled) {
		res.Err = err
		return res
	}
	o.log.Warn("evolution data unavailable", zap.String("name", res.Record.Name), zap.Error(err))
	res.Evolution = EvolutionUnavailable
	return res
}

// FetchStage resolves the sprite of one evolution node.
func (o *Orchestrator) FetchStage(req Request, index int, name string) StageResult {
	ctx := req.Context()
	out := StageResult{Request: req, Index: index, Name: name}
	p, err := o.pokemon(ctx, name)
	if err != nil {
		out.Err = fmt.Errorf("evolution stage %q: %w", name, err)
		return out
	}
	rec := model.FromPokemon(p)
	out.Stage = Stage{
		Index:     index,
		Name:      name,
		ID:        rec.ID,
		SpriteURL: rec.SpriteURL,
		Art:       o.artFor(ctx, o.stageArt, rec.SpriteURL, rec.HasSprite()),
	}
	return out
}

// pokemon shares one in-flight call between identical lookups.
func (o *Orchestrator) pokemon(ctx context.Context, key string) (*pokeapi.Pokemon, error) {
	ch := o.group.DoChan(key, func() (interface{}, error) {
		return o.gw.Pokemon(ctx, key)
	})
	select {
	case <-ctx.Done():
		return nil, &pokeapi.Error{Kind: pokeapi.KindNetwork, URL: key, Err: ctx.Err()}
	case r := <-ch:
		// The shared call ran under the first caller's context; if that
		// caller was superseded, fetch again under ours.
		if errors.Is(r.Err, context.Canceled) && ctx.Err() == nil {
			return o.gw.Pokemon(ctx, key)
		}
		if r.Err != nil {
			return nil, r.Err
		}
		return r.Val.(*pokeapi.Pokemon), nil
	}
}

func (o *Orchestrator) artFor(ctx context.Context, src ArtSource, url string, ok bool) string {
	if src == nil || !ok {
		return ""
	}
	art, err := src.Art(ctx, url)
	if err != nil {
		o.log.Debug("sprite unavailable", zap.String("url", url), zap.Error(err))
		return ""
	}
	return art
}

func speciesRef(r model.Record) string {
	if r.SpeciesRef != "" {
		return r.SpeciesRef
	}
	return r.Name
}
