package store

import (
	"context"
	"errors"
	"strings"
)

// Editor state keys.
const (
	KeyHeader     = "header"
	KeyContent    = "content"
	KeyWordCount  = "wordCount"
	KeyDarkLayout = "darkLayout"
)

var ErrUnavailable = errors.New("store unavailable")

// KV is the minimum an editor session needs.
type KV interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}

// Store adds deletion and prefix listing.
type Store interface {
	KV
	Delete(ctx context.Context, key string) error
	List(ctx context.Context, prefix string) ([]string, error)
}

const probeKey = "__notepen_probe__"

// Available reports whether kv accepts a write and reads it back.
func Available(ctx context.Context, kv KV) bool {
	if kv == nil {
		return false
	}
	if err := kv.Set(ctx, probeKey, "1"); err != nil {
		return false
	}
	v, ok, err := kv.Get(ctx, probeKey)
	return err == nil && ok && v == "1"
}

type namespaced struct {
	st     Store
	prefix string
}

// Namespace scopes every key of st under prefix.
func Namespace(st Store, prefix string) Store {
	return &namespaced{st: st, prefix: prefix}
}

func (n *namespaced) Get(ctx context.Context, key string) (string, bool, error) {
	return n.st.Get(ctx, n.prefix+key)
}

func (n *namespaced) Set(ctx context.Context, key, value string) error {
	return n.st.Set(ctx, n.prefix+key, value)
}

func (n *namespaced) Delete(ctx context.Context, key string) error {
	return n.st.Delete(ctx, n.prefix+key)
}

func (n *namespaced) List(ctx context.Context, prefix string) ([]string, error) {
	keys, err := n.st.List(ctx, n.prefix+prefix)
	if err != nil {
		return nil, err
	}
	for i, k := range keys {
		keys[i] = strings.TrimPrefix(k, n.prefix)
	}
	return keys, nil
}
