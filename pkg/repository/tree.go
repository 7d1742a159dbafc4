package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
)

// getFunc reads one record.
type getFunc func(ctx context.Context, key string) ([]byte, bool, error)

// updateFunc computes a write from records read through get.
type updateFunc func(get getFunc) (puts map[string][]byte, deletes []string, err error)

// recordStore is the key-value surface the tree session is built on.
//
// update runs fn and writes its puts and deletes atomically. None of the
// records fn read may change between the read and the write: stores
// serialize updates or detect the conflict and run fn again.
type recordStore interface {
	get(ctx context.Context, key string) ([]byte, bool, error)
	update(ctx context.Context, fn updateFunc) error
	close() error
}

// nodeRecord is the stored form of a node.
type nodeRecord struct {
	Type       string           `json:"type"`
	Children   []string         `json:"children,omitempty"`
	Properties map[string]Value `json:"properties,omitempty"`
}

// treeSession implements Session on top of a recordStore. Each node is
// stored as one record keyed by its path.
type treeSession struct {
	store   recordStore
	backend string
	closed  bool
}

func newTreeSession(backend string, store recordStore) *treeSession {
	return &treeSession{store: store, backend: backend}
}

func recordKey(path string) string {
	return "node:" + path
}

func (s *treeSession) fail(op, path string, err error) error {
	return NewStorageError(s.backend, op, path, err)
}

// load returns the record at path.
func (s *treeSession) load(ctx context.Context, path string) (*nodeRecord, bool, error) {
	if s.closed {
		return nil, false, ErrClosed
	}
	return readRecord(ctx, s.store.get, path)
}

// readRecord reads the record at path through get. The root record is
// synthesized when it has never been written.
func readRecord(ctx context.Context, get getFunc, path string) (*nodeRecord, bool, error) {
	data, ok, err := get(ctx, recordKey(path))
	if err != nil {
		return nil, false, err
	}
	if !ok {
		if path == RootPath {
			return &nodeRecord{Type: RootNodeType}, true, nil
		}
		return nil, false, nil
	}

	var rec nodeRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, false, fmt.Errorf("decode node record %s: %w", path, err)
	}
	return &rec, true, nil
}

// mustLoad is load with a missing node reported as ErrPathNotFound.
func (s *treeSession) mustLoad(ctx context.Context, path string) (*nodeRecord, error) {
	rec, ok, err := s.load(ctx, path)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrPathNotFound
	}
	return rec, nil
}

// mustRead is readRecord with a missing node reported as ErrPathNotFound.
func mustRead(ctx context.Context, get getFunc, path string) (*nodeRecord, error) {
	rec, ok, err := readRecord(ctx, get, path)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrPathNotFound
	}
	return rec, nil
}

// update runs a read-modify-write against the store.
func (s *treeSession) update(ctx context.Context, fn updateFunc) error {
	if s.closed {
		return ErrClosed
	}
	return s.store.update(ctx, fn)
}

func encodeRecord(rec *nodeRecord) ([]byte, error) {
	return json.Marshal(rec)
}

func (rec *nodeRecord) node(path string) *Node {
	return &Node{
		Path:       path,
		Name:       Name(path),
		Type:       rec.Type,
		Properties: copyProperties(rec.Properties),
	}
}

// GetNode returns a snapshot of the node at path.
func (s *treeSession) GetNode(ctx context.Context, path string) (*Node, error) {
	p, err := CleanPath(path)
	if err != nil {
		return nil, s.fail("get_node", path, err)
	}
	rec, err := s.mustLoad(ctx, p)
	if err != nil {
		return nil, s.fail("get_node", p, err)
	}
	return rec.node(p), nil
}

// HasNode reports whether a node exists at path.
func (s *treeSession) HasNode(ctx context.Context, path string) (bool, error) {
	p, err := CleanPath(path)
	if err != nil {
		return false, s.fail("has_node", path, err)
	}
	_, ok, err := s.load(ctx, p)
	if err != nil {
		return false, s.fail("has_node", p, err)
	}
	return ok, nil
}

// AddNode creates a node and appends it to its parent's children.
func (s *treeSession) AddNode(ctx context.Context, path, nodeType string) (*Node, error) {
	p, err := CleanPath(path)
	if err != nil || p == RootPath || !validName(Name(p)) {
		return nil, s.fail("add_node", path, ErrInvalidPath)
	}

	parentPath, name := Parent(p), Name(p)

	var rec *nodeRecord
	err = s.update(ctx, func(get getFunc) (map[string][]byte, []string, error) {
		parent, err := mustRead(ctx, get, parentPath)
		if err != nil {
			return nil, nil, err
		}
		if slices.Contains(parent.Children, name) {
			return nil, nil, ErrItemExists
		}

		rec = &nodeRecord{Type: nodeType, Properties: map[string]Value{}}
		parent.Children = append(parent.Children, name)

		puts, err := encodeAll(map[string]*nodeRecord{parentPath: parent, p: rec})
		return puts, nil, err
	})
	if err != nil {
		return nil, s.fail("add_node", p, err)
	}
	return rec.node(p), nil
}

// ChildNodes returns the direct children of the node at path in order.
func (s *treeSession) ChildNodes(ctx context.Context, path string) ([]*Node, error) {
	p, err := CleanPath(path)
	if err != nil {
		return nil, s.fail("child_nodes", path, err)
	}
	rec, err := s.mustLoad(ctx, p)
	if err != nil {
		return nil, s.fail("child_nodes", p, err)
	}

	nodes := make([]*Node, 0, len(rec.Children))
	for _, name := range rec.Children {
		childPath := Join(p, name)
		child, err := s.mustLoad(ctx, childPath)
		if err != nil {
			return nil, s.fail("child_nodes", childPath, err)
		}
		nodes = append(nodes, child.node(childPath))
	}
	return nodes, nil
}

// SetProperty sets a property on the node at path.
func (s *treeSession) SetProperty(ctx context.Context, path, name string, value Value) error {
	p, err := CleanPath(path)
	if err != nil {
		return s.fail("set_property", path, err)
	}
	if name == "" {
		return s.fail("set_property", p, fmt.Errorf("empty property name"))
	}
	if value.Type == PropertyTypeBinary {
		value.Binary = append([]byte(nil), value.Binary...)
	}

	err = s.update(ctx, func(get getFunc) (map[string][]byte, []string, error) {
		rec, err := mustRead(ctx, get, p)
		if err != nil {
			return nil, nil, err
		}
		if rec.Properties == nil {
			rec.Properties = map[string]Value{}
		}
		rec.Properties[name] = value

		puts, err := encodeAll(map[string]*nodeRecord{p: rec})
		return puts, nil, err
	})
	if err != nil {
		return s.fail("set_property", p, err)
	}
	return nil
}

// OrderBefore moves srcName in front of destName.
func (s *treeSession) OrderBefore(ctx context.Context, parentPath, srcName, destName string) error {
	p, err := CleanPath(parentPath)
	if err != nil {
		return s.fail("order_before", parentPath, err)
	}
	err = s.update(ctx, func(get getFunc) (map[string][]byte, []string, error) {
		rec, err := mustRead(ctx, get, p)
		if err != nil {
			return nil, nil, err
		}
		children, err := reorder(rec.Children, srcName, destName)
		if err != nil {
			return nil, nil, err
		}
		rec.Children = children

		puts, err := encodeAll(map[string]*nodeRecord{p: rec})
		return puts, nil, err
	})
	if err != nil {
		return s.fail("order_before", p, err)
	}
	return nil
}

// RemoveNode removes the node at path and its subtree.
func (s *treeSession) RemoveNode(ctx context.Context, path string) error {
	p, err := CleanPath(path)
	if err != nil || p == RootPath {
		return s.fail("remove_node", path, ErrInvalidPath)
	}

	parentPath, name := Parent(p), Name(p)

	err = s.update(ctx, func(get getFunc) (map[string][]byte, []string, error) {
		parent, err := mustRead(ctx, get, parentPath)
		if err != nil {
			return nil, nil, err
		}
		idx := slices.Index(parent.Children, name)
		if idx < 0 {
			return nil, nil, ErrPathNotFound
		}

		var deletes []string
		if err := collect(ctx, get, p, &deletes); err != nil {
			return nil, nil, err
		}
		parent.Children = slices.Delete(parent.Children, idx, idx+1)

		puts, err := encodeAll(map[string]*nodeRecord{parentPath: parent})
		return puts, deletes, err
	})
	if err != nil {
		return s.fail("remove_node", p, err)
	}
	return nil
}

// collect appends the record keys of path and all its descendants.
func collect(ctx context.Context, get getFunc, path string, keys *[]string) error {
	rec, ok, err := readRecord(ctx, get, path)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	*keys = append(*keys, recordKey(path))
	for _, child := range rec.Children {
		if err := collect(ctx, get, Join(path, child), keys); err != nil {
			return err
		}
	}
	return nil
}

// Close releases the underlying store.
func (s *treeSession) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	if err := s.store.close(); err != nil {
		return s.fail("close", "", err)
	}
	return nil
}

func encodeAll(records map[string]*nodeRecord) (map[string][]byte, error) {
	puts := make(map[string][]byte, len(records))
	for path, rec := range records {
		data, err := encodeRecord(rec)
		if err != nil {
			return nil, fmt.Errorf("encode node record %s: %w", path, err)
		}
		puts[recordKey(path)] = data
	}
	return puts, nil
}

// reorder returns names with src moved immediately before dest, or to the
// end when dest is empty.
func reorder(names []string, src, dest string) ([]string, error) {
	srcIdx := slices.Index(names, src)
	if srcIdx < 0 {
		return nil, fmt.Errorf("child %q: %w", src, ErrPathNotFound)
	}
	if dest != "" && !slices.Contains(names, dest) {
		return nil, fmt.Errorf("child %q: %w", dest, ErrPathNotFound)
	}
	if src == dest {
		return names, nil
	}

	out := slices.Delete(slices.Clone(names), srcIdx, srcIdx+1)
	if dest == "" {
		return append(out, src), nil
	}
	destIdx := slices.Index(out, dest)
	return slices.Insert(out, destIdx, src), nil
}
