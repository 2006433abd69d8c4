package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/roach88/sift/internal/query"
)

// Lookup implements query.Source against the snapshot. The requirement set
// compiles to one parameterized compound SELECT; an empty set returns every
// registered entity. Database failures narrow to the empty set and surface
// through Err.
func (s *Store) Lookup(reqs []query.Requirement) []query.EntityID {
	ids, err := s.lookup(context.Background(), reqs)
	if err != nil {
		s.setErr(err)
		return nil
	}
	return ids
}

func (s *Store) lookup(ctx context.Context, reqs []query.Requirement) ([]query.EntityID, error) {
	stmt, params := compileLookup(reqs)

	rows, err := s.db.QueryContext(ctx, stmt, params...)
	if err != nil {
		return nil, fmt.Errorf("query attributes: %w", err)
	}
	defer rows.Close()

	ids := []query.EntityID{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan entity id: %w", err)
		}
		ids = append(ids, query.EntityID(id))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate entities: %w", err)
	}
	return ids, nil
}

// compileLookup renders a requirement set as SQL. Positive requirements
// intersect, negated ones subtract, and compounds chain left to right so the
// subtractions apply last. All values are parameterized, never interpolated,
// and every query carries the deterministic ORDER BY.
func compileLookup(reqs []query.Requirement) (string, []any) {
	var positive, negative []query.Attr
	for _, r := range reqs {
		if r.Negated {
			negative = append(negative, r.Attr)
		} else {
			positive = append(positive, r.Attr)
		}
	}

	var b strings.Builder
	var params []any

	if len(positive) == 0 {
		b.WriteString(`SELECT id FROM entities`)
	} else {
		for i, a := range positive {
			if i == 0 {
				// The alias on the leftmost select names the compound's column.
				b.WriteString(`SELECT entity_id AS id FROM attributes WHERE attr = ?`)
			} else {
				b.WriteString(` INTERSECT SELECT entity_id FROM attributes WHERE attr = ?`)
			}
			params = append(params, string(a))
		}
	}

	for _, a := range negative {
		b.WriteString(` EXCEPT SELECT entity_id FROM attributes WHERE attr = ?`)
		params = append(params, string(a))
	}

	b.WriteString(` ORDER BY id ASC COLLATE BINARY`)
	return b.String(), params
}

// LinkTargets implements world.LinkReader: the entities from links to via
// kind, in deterministic order. Failures surface through Err.
func (s *Store) LinkTargets(kind string, from query.EntityID) []query.EntityID {
	rows, err := s.db.QueryContext(context.Background(),
		`SELECT to_id FROM links WHERE kind = ? AND from_id = ?
		 ORDER BY to_id ASC COLLATE BINARY`, kind, string(from))
	if err != nil {
		s.setErr(fmt.Errorf("query links: %w", err))
		return nil
	}
	defer rows.Close()

	var ids []query.EntityID
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			s.setErr(fmt.Errorf("scan link target: %w", err))
			return nil
		}
		ids = append(ids, query.EntityID(id))
	}
	if err := rows.Err(); err != nil {
		s.setErr(fmt.Errorf("iterate links: %w", err))
		return nil
	}
	return ids
}
