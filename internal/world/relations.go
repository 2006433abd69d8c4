package world

import "github.com/roach88/sift/internal/query"

// LinkReader is the view of a Source that stores explicit labeled links.
// Both *World and the SQLite store satisfy it, so link-backed predicates run
// unchanged against either.
type LinkReader interface {
	LinkTargets(kind string, from query.EntityID) []query.EntityID
}

// Linked builds a predicate that holds when the parent entity links directly
// to the child entity via the given kind. Sources without link storage never
// match.
func Linked(kind string) query.Predicate {
	return func(src query.Source, parent, child query.EntityID) bool {
		lr, ok := src.(LinkReader)
		if !ok {
			return false
		}
		for _, t := range lr.LinkTargets(kind, parent) {
			if t == child {
				return true
			}
		}
		return false
	}
}

// LinkedBy builds the inverse of Linked: it holds when the child entity links
// to the parent via the given kind.
func LinkedBy(kind string) query.Predicate {
	return func(src query.Source, parent, child query.EntityID) bool {
		lr, ok := src.(LinkReader)
		if !ok {
			return false
		}
		for _, t := range lr.LinkTargets(kind, child) {
			if t == parent {
				return true
			}
		}
		return false
	}
}

// SharesTarget builds a symmetric "same link target, not self" predicate: it
// holds when two distinct entities link to at least one common target via the
// given kind.
func SharesTarget(kind string) query.Predicate {
	return func(src query.Source, parent, child query.EntityID) bool {
		if parent == child {
			return false
		}
		lr, ok := src.(LinkReader)
		if !ok {
			return false
		}
		parentTargets := lr.LinkTargets(kind, parent)
		if len(parentTargets) == 0 {
			return false
		}
		seen := make(map[query.EntityID]struct{}, len(parentTargets))
		for _, t := range parentTargets {
			seen[t] = struct{}{}
		}
		for _, t := range lr.LinkTargets(kind, child) {
			if _, ok := seen[t]; ok {
				return true
			}
		}
		return false
	}
}
