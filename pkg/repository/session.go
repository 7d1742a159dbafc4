package repository

import "context"

// Session is a handle to a hierarchical content repository.
//
// Paths are absolute. Child order is insertion order unless changed with
// OrderBefore. Errors are *StorageError values; missing nodes wrap
// ErrPathNotFound and name collisions wrap ErrItemExists.
type Session interface {
	// GetNode returns a snapshot of the node at path.
	GetNode(ctx context.Context, path string) (*Node, error)

	// HasNode reports whether a node exists at path.
	HasNode(ctx context.Context, path string) (bool, error)

	// AddNode creates a node of the given type at path and appends it to
	// its parent's children. The parent must exist.
	AddNode(ctx context.Context, path, nodeType string) (*Node, error)

	// ChildNodes returns the direct children of the node at path in order.
	ChildNodes(ctx context.Context, path string) ([]*Node, error)

	// SetProperty sets a property on the node at path, replacing any
	// existing value.
	SetProperty(ctx context.Context, path, name string, value Value) error

	// OrderBefore moves child srcName of parentPath so that it sits
	// immediately before child destName. An empty destName moves srcName
	// to the end.
	OrderBefore(ctx context.Context, parentPath, srcName, destName string) error

	// RemoveNode removes the node at path together with its subtree.
	RemoveNode(ctx context.Context, path string) error

	// Close releases the resources held by the session.
	Close() error
}
