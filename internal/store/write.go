package store

import (
	"context"
	"fmt"

	"github.com/roach88/sift/internal/fixture"
	"github.com/roach88/sift/internal/query"
)

// AddEntity registers an entity id. Adding an existing id is a no-op.
func (s *Store) AddEntity(ctx context.Context, id query.EntityID) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO entities (id) VALUES (?) ON CONFLICT (id) DO NOTHING`, string(id))
	if err != nil {
		return fmt.Errorf("insert entity: %w", err)
	}
	return nil
}

// RemoveEntity deletes an entity; its attributes and links cascade away.
func (s *Store) RemoveEntity(ctx context.Context, id query.EntityID) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM entities WHERE id = ?`, string(id))
	if err != nil {
		return fmt.Errorf("delete entity: %w", err)
	}
	return nil
}

// Tag attaches attributes to a registered entity.
func (s *Store) Tag(ctx context.Context, id query.EntityID, attrs ...query.Attr) error {
	for _, a := range attrs {
		_, err := s.db.ExecContext(ctx,
			`INSERT INTO attributes (entity_id, attr) VALUES (?, ?)
			 ON CONFLICT (entity_id, attr) DO NOTHING`, string(id), string(a))
		if err != nil {
			return fmt.Errorf("insert attribute %q: %w", a, err)
		}
	}
	return nil
}

// Untag detaches attributes from an entity.
func (s *Store) Untag(ctx context.Context, id query.EntityID, attrs ...query.Attr) error {
	for _, a := range attrs {
		_, err := s.db.ExecContext(ctx,
			`DELETE FROM attributes WHERE entity_id = ? AND attr = ?`, string(id), string(a))
		if err != nil {
			return fmt.Errorf("delete attribute %q: %w", a, err)
		}
	}
	return nil
}

// Link records a directed labeled link between two registered entities.
func (s *Store) Link(ctx context.Context, kind string, from, to query.EntityID) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO links (kind, from_id, to_id) VALUES (?, ?, ?)
		 ON CONFLICT (kind, from_id, to_id) DO NOTHING`,
		kind, string(from), string(to))
	if err != nil {
		return fmt.Errorf("insert link: %w", err)
	}
	return nil
}

// Unlink removes a directed labeled link.
func (s *Store) Unlink(ctx context.Context, kind string, from, to query.EntityID) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM links WHERE kind = ? AND from_id = ? AND to_id = ?`,
		kind, string(from), string(to))
	if err != nil {
		return fmt.Errorf("delete link: %w", err)
	}
	return nil
}

// Import loads a validated fixture into the store inside one transaction:
// either the whole snapshot lands or none of it does.
func (s *Store) Import(ctx context.Context, f *fixture.Fixture) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin import: %w", err)
	}
	defer tx.Rollback()

	for _, e := range f.Entities {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO entities (id) VALUES (?) ON CONFLICT (id) DO NOTHING`, e.ID); err != nil {
			return fmt.Errorf("import entity %q: %w", e.ID, err)
		}
		for _, a := range e.Attrs {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO attributes (entity_id, attr) VALUES (?, ?)
				 ON CONFLICT (entity_id, attr) DO NOTHING`, e.ID, a); err != nil {
				return fmt.Errorf("import attribute %q on %q: %w", a, e.ID, err)
			}
		}
	}
	for _, l := range f.Links {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO links (kind, from_id, to_id) VALUES (?, ?, ?)
			 ON CONFLICT (kind, from_id, to_id) DO NOTHING`, l.Kind, l.From, l.To); err != nil {
			return fmt.Errorf("import link %s %s->%s: %w", l.Kind, l.From, l.To, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit import: %w", err)
	}
	return nil
}
