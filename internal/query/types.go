package query

// EntityID is an opaque token referencing a live entity in the world.
// Equality is the only operation the engine performs on it.
type EntityID string

// Attr is an attribute (component) type token.
type Attr string

// Requirement is a single attribute constraint: the entity must hold the
// attribute, or must not hold it when Negated is set. Requirements are passed
// verbatim to the Source; the engine never interprets them.
type Requirement struct {
	Attr    Attr
	Negated bool
}

// Has builds a positive attribute requirement.
func Has(a Attr) Requirement { return Requirement{Attr: a} }

// Not builds a negated attribute requirement.
func Not(a Attr) Requirement { return Requirement{Attr: a, Negated: true} }

// String renders the requirement as "attr" or "!attr".
func (r Requirement) String() string {
	if r.Negated {
		return "!" + string(r.Attr)
	}
	return string(r.Attr)
}

// Source is the attribute-store contract the engine evaluates against.
//
// Lookup returns the ids of all entities currently satisfying every
// requirement in reqs. An empty reqs slice means "all entities" — the engine
// issues that lookup for anchor nodes that carry filters but no attribute
// requirements of their own. Lookup must reflect world state at call time and
// must be safe to call repeatedly within one evaluation.
type Source interface {
	Lookup(reqs []Requirement) []EntityID
}

// Predicate is a caller-supplied relationship check between two entities.
// src is the same handle the evaluation runs against, so predicates may read
// arbitrary entity state. Predicates must be side-effect free; the engine
// does not cache their results across calls.
type Predicate func(src Source, parent, child EntityID) bool

// Term is one element of a specification list: either a Requirement or a
// Filter. The interface is sealed to this package so Compile can type-switch
// exhaustively.
type Term interface {
	term()
}

func (Requirement) term() {}

// Filter applies a relationship predicate to a nested specification.
// Construct filters through a Relation; the zero Filter is invalid.
type Filter struct {
	pred  Predicate
	terms []Term
}

func (Filter) term() {}

// Relation is a reusable filter constructor bound to one predicate.
// Invoking it with a nested specification yields a Term consumable by
// Compile, nestable without depth limit.
type Relation func(terms ...Term) Term

// NewRelation declares a relationship backed by the given predicate and
// returns its filter constructor.
func NewRelation(pred Predicate) Relation {
	return func(terms ...Term) Term {
		return Filter{pred: pred, terms: terms}
	}
}
