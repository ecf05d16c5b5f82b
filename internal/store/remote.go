package store

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/dgallion1/notepen/internal/pathstore"
)

// Remote keeps values as pathstore nodes under a root path.
type Remote struct {
	client *pathstore.Client
	root   string
}

func NewRemote(client *pathstore.Client, root string) *Remote {
	return &Remote{client: client, root: strings.Trim(root, "/")}
}

func (r *Remote) path(key string) string { return r.root + "/" + key }

func (r *Remote) Get(ctx context.Context, key string) (string, bool, error) {
	node, err := r.client.GetNode(ctx, r.path(key))
	if err != nil {
		return "", false, err
	}
	if node == nil {
		return "", false, nil
	}
	if s, ok := node.Value.(string); ok {
		return s, true, nil
	}
	return fmt.Sprint(node.Value), true, nil
}

func (r *Remote) Set(ctx context.Context, key, value string) error {
	return r.client.PutNode(ctx, r.path(key), pathstore.NodeRequest{
		Value:  value,
		Source: "notepen",
	})
}

func (r *Remote) Delete(ctx context.Context, key string) error {
	return r.client.DeleteNode(ctx, r.path(key), false)
}

// List scans the parent path of prefix and keeps keys starting with it.
// Pathstore reports key paths dot-separated, so they are mapped back to
// slash form.
func (r *Remote) List(ctx context.Context, prefix string) ([]string, error) {
	scan := r.root
	if i := strings.LastIndex(prefix, "/"); i > 0 {
		scan = r.path(prefix[:i])
	}
	nodes, err := r.client.ListChildren(ctx, scan, 0)
	if err != nil {
		return nil, err
	}
	var keys []string
	for _, n := range nodes {
		k := strings.ReplaceAll(n.Key, ".", "/")
		k = strings.TrimPrefix(k, r.root+"/")
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys, nil
}
