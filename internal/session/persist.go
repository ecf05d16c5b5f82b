package session

import (
	"context"
	"strconv"

	"github.com/dgallion1/notepen/internal/doctree"
	"github.com/dgallion1/notepen/internal/store"
)

// load restores whatever the store holds. Missing keys keep the defaults.
func (s *Session) load(ctx context.Context) error {
	if !s.storageOK {
		return nil
	}
	for _, f := range []struct {
		key   string
		field doctree.Field
	}{
		{store.KeyHeader, doctree.FieldHeader},
		{store.KeyContent, doctree.FieldContent},
	} {
		v, ok := s.get(ctx, f.key)
		if !ok || v == "" {
			continue
		}
		if err := s.doc.SetMarkup(f.field, v); err != nil {
			return err
		}
	}

	if v, ok := s.get(ctx, store.KeyWordCount); ok && v != "0" {
		if n, err := strconv.Atoi(v); err == nil {
			s.tracker.SetGoal(n)
		} else {
			s.log.Warn("ignoring stored word count goal", "value", v, "error", err)
		}
	}
	if v, ok := s.get(ctx, store.KeyDarkLayout); ok {
		s.darkLayout = v == "true"
	}
	return nil
}

func (s *Session) get(ctx context.Context, key string) (string, bool) {
	v, ok, err := s.kv.Get(ctx, key)
	if err != nil {
		s.log.Warn("load state", "key", key, "error", err)
		return "", false
	}
	return v, ok
}

// set writes one key. Failures are logged and otherwise ignored.
func (s *Session) set(ctx context.Context, key, value string) {
	if !s.storageOK {
		return
	}
	if err := s.kv.Set(ctx, key, value); err != nil {
		s.log.Warn("save state", "key", key, "error", err)
	}
}

func (s *Session) saveContent(ctx context.Context) {
	s.set(ctx, store.KeyHeader, s.doc.Markup(doctree.FieldHeader))
	s.set(ctx, store.KeyContent, s.doc.Markup(doctree.FieldContent))
}

func (s *Session) saveGoal(ctx context.Context) {
	s.set(ctx, store.KeyWordCount, strconv.Itoa(s.tracker.Goal()))
}

func (s *Session) saveTheme(ctx context.Context) {
	s.set(ctx, store.KeyDarkLayout, strconv.FormatBool(s.darkLayout))
}
