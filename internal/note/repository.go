package note

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/dgallion1/notepen/internal/store"
)

const keyPrefix = "notes/"

// Hook runs on a note after validation and before it is written.
type Hook func(*Note) error

// Repository stores notes as JSON documents in a store.Store.
type Repository struct {
	st    store.Store
	hooks []Hook
	now   func() time.Time
}

// NewRepository always runs TokenizeBody before any extra hooks.
func NewRepository(st store.Store, hooks ...Hook) *Repository {
	return &Repository{
		st:    st,
		hooks: append([]Hook{TokenizeBody}, hooks...),
		now:   time.Now,
	}
}

func key(id string) string { return keyPrefix + id }

// Save validates, runs the hooks and writes n, assigning an id and
// timestamps as needed.
func (r *Repository) Save(ctx context.Context, n *Note) error {
	if err := n.Validate(); err != nil {
		return err
	}
	for _, h := range r.hooks {
		if err := h(n); err != nil {
			return fmt.Errorf("pre-save hook: %w", err)
		}
	}
	if n.ID == "" {
		n.ID = NewID()
	}
	now := r.now().UTC()
	if n.CreatedAt.IsZero() {
		n.CreatedAt = now
	}
	n.UpdatedAt = now

	data, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("marshal note: %w", err)
	}
	if err := r.st.Set(ctx, key(n.ID), string(data)); err != nil {
		return fmt.Errorf("save note %s: %w", n.ID, err)
	}
	return nil
}

func (r *Repository) Get(ctx context.Context, id string) (*Note, error) {
	raw, ok, err := r.st.Get(ctx, key(id))
	if err != nil {
		return nil, fmt.Errorf("get note %s: %w", id, err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	var n Note
	if err := json.Unmarshal([]byte(raw), &n); err != nil {
		return nil, fmt.Errorf("decode note %s: %w", id, err)
	}
	return &n, nil
}

// List returns every note, oldest first.
func (r *Repository) List(ctx context.Context) ([]*Note, error) {
	keys, err := r.st.List(ctx, keyPrefix)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	notes := make([]*Note, 0, len(keys))
	for _, k := range keys {
		n, err := r.Get(ctx, strings.TrimPrefix(k, keyPrefix))
		if err != nil {
			return nil, err
		}
		notes = append(notes, n)
	}
	return notes, nil
}

func (r *Repository) Delete(ctx context.Context, id string) error {
	if _, ok, err := r.st.Get(ctx, key(id)); err != nil {
		return fmt.Errorf("delete note %s: %w", id, err)
	} else if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return r.st.Delete(ctx, key(id))
}
