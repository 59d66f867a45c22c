package memory

// Package memory is an in-process DocumentStore used by tests and the dev
// server. It applies the same filter semantics as the postgres adapter so
// services exercise identical query behavior in both.

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	jmespath "github.com/jmespath-community/go-jmespath"

	apperrors "github.com/hosteldesk/hosteldesk/internal/errors"
	"github.com/hosteldesk/hosteldesk/internal/ports"
)

// Store keeps documents as raw JSON per collection, guarded by a single
// RWMutex. Query filters are evaluated with JMESPath so dotted field paths
// reach into nested objects the same way the SQL adapter's JSONB operators do.
type Store struct {
	mu          sync.RWMutex
	collections map[string]map[string][]byte
}

var _ ports.DocumentStore = (*Store)(nil)

func NewStore() *Store {
	return &Store{collections: make(map[string]map[string][]byte)}
}

func (s *Store) Get(_ context.Context, collection, id string) (ports.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	raw, ok := s.collections[collection][id]
	if !ok {
		return ports.Document{}, apperrors.NotFoundf("document %s/%s not found", collection, id)
	}
	return ports.Document{ID: id, Fields: cloneBytes(raw)}, nil
}

func (s *Store) Query(_ context.Context, collection string, q ports.Query) ([]ports.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	type entry struct {
		id     string
		raw    []byte
		fields map[string]any
	}

	var matched []entry
	for id, raw := range s.collections[collection] {
		var fields map[string]any
		if err := json.Unmarshal(raw, &fields); err != nil {
			return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, "decode stored document")
		}
		ok, err := matchesAll(fields, q.Filters)
		if err != nil {
			return nil, err
		}
		if ok {
			matched = append(matched, entry{id: id, raw: raw, fields: fields})
		}
	}

	if q.OrderBy != "" {
		desc := q.Dir == ports.Descending
		sort.SliceStable(matched, func(i, j int) bool {
			a := fieldValue(matched[i].fields, q.OrderBy)
			b := fieldValue(matched[j].fields, q.OrderBy)
			cmp, ok := compareValues(a, b)
			if !ok {
				return false
			}
			if desc {
				return cmp > 0
			}
			return cmp < 0
		})
	} else {
		// Deterministic order for unordered queries.
		sort.Slice(matched, func(i, j int) bool { return matched[i].id < matched[j].id })
	}

	if q.Limit > 0 && len(matched) > q.Limit {
		matched = matched[:q.Limit]
	}

	docs := make([]ports.Document, 0, len(matched))
	for _, e := range matched {
		docs = append(docs, ports.Document{ID: e.id, Fields: cloneBytes(e.raw)})
	}
	return docs, nil
}

func (s *Store) Create(_ context.Context, collection, id string, fields any) (string, error) {
	raw, err := json.Marshal(fields)
	if err != nil {
		return "", apperrors.Wrap(err, apperrors.ErrCodeValidation, "encode document")
	}
	if len(raw) == 0 || raw[0] != '{' {
		return "", apperrors.Validation("document fields must be a JSON object")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if id == "" {
		id = uuid.NewString()
	}
	coll, ok := s.collections[collection]
	if !ok {
		coll = make(map[string][]byte)
		s.collections[collection] = coll
	}
	if _, exists := coll[id]; exists {
		return "", apperrors.Conflict("document " + collection + "/" + id + " already exists")
	}
	coll[id] = raw
	return id, nil
}

func (s *Store) Update(_ context.Context, collection, id string, partial map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, ok := s.collections[collection][id]
	if !ok {
		return apperrors.NotFoundf("document %s/%s not found", collection, id)
	}

	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeInternal, "decode stored document")
	}
	for key, value := range partial {
		setPath(fields, key, value)
	}
	updated, err := json.Marshal(fields)
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeValidation, "encode document")
	}
	s.collections[collection][id] = updated
	return nil
}

func (s *Store) Delete(_ context.Context, collection, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.collections[collection], id)
	return nil
}

func matchesAll(fields map[string]any, filters []ports.Filter) (bool, error) {
	for _, f := range filters {
		value := fieldValue(fields, f.Field)
		ok, err := applyOp(value, f.Op, f.Value)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

// fieldValue extracts a possibly nested field. Dotted paths are JMESPath
// expressions over the document.
func fieldValue(fields map[string]any, path string) any {
	if !strings.Contains(path, ".") {
		return fields[path]
	}
	value, err := jmespath.Search(path, fields)
	if err != nil {
		return nil
	}
	return value
}

func applyOp(value any, op ports.FilterOp, want any) (bool, error) {
	switch op {
	case ports.OpEqual:
		cmp, ok := compareValues(value, want)
		return ok && cmp == 0, nil
	case ports.OpNotEqual:
		cmp, ok := compareValues(value, want)
		return !ok || cmp != 0, nil
	case ports.OpGreater, ports.OpGreaterEqual, ports.OpLess, ports.OpLessEqual:
		cmp, ok := compareValues(value, want)
		if !ok {
			return false, nil
		}
		switch op {
		case ports.OpGreater:
			return cmp > 0, nil
		case ports.OpGreaterEqual:
			return cmp >= 0, nil
		case ports.OpLess:
			return cmp < 0, nil
		default:
			return cmp <= 0, nil
		}
	default:
		return false, apperrors.Validation("unsupported filter operator " + string(op))
	}
}

// compareValues orders two scalars of the same kind. Numbers compare
// numerically, strings lexically (RFC3339 timestamps order correctly this
// way), booleans support equality only.
func compareValues(a, b any) (int, bool) {
	switch av := a.(type) {
	case string:
		bv, ok := b.(string)
		if !ok {
			return 0, false
		}
		return strings.Compare(av, bv), true
	case bool:
		bv, ok := b.(bool)
		if !ok {
			return 0, false
		}
		if av == bv {
			return 0, true
		}
		return 1, true
	case nil:
		if b == nil {
			return 0, true
		}
		return 0, false
	default:
		af, aok := toFloat(a)
		bf, bok := toFloat(b)
		if !aok || !bok {
			return 0, false
		}
		switch {
		case af < bf:
			return -1, true
		case af > bf:
			return 1, true
		default:
			return 0, true
		}
	}
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}

// setPath writes value at a dotted path, creating intermediate objects.
func setPath(fields map[string]any, path string, value any) {
	parts := strings.Split(path, ".")
	current := fields
	for _, part := range parts[:len(parts)-1] {
		next, ok := current[part].(map[string]any)
		if !ok {
			next = make(map[string]any)
			current[part] = next
		}
		current = next
	}
	current[parts[len(parts)-1]] = value
}

func cloneBytes(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
