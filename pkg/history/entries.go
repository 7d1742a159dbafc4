package history

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"netcentric/achistory/pkg/repository"
)

// ContainerNode returns the history container, creating it and its parent
// if needed.
func ContainerNode(ctx context.Context, s repository.Session) (*repository.Node, error) {
	if _, err := repository.GetOrAddNode(ctx, s, StatisticsPath, NodeTypeUnstructured); err != nil {
		return nil, err
	}
	return repository.GetOrAddNode(ctx, s, ContainerPath, NodeTypeOrderedFolder)
}

// EntryPath returns the repository path of the named entry.
func EntryPath(name string) string {
	return repository.Join(ContainerPath, name)
}

// Timestamp returns the timestamp property of an entry node. Missing or
// unreadable timestamps sort as 0.
func Timestamp(node *repository.Node) int64 {
	v, ok := node.Property(PropertyTimestamp)
	if !ok {
		return 0
	}
	ts, err := v.Int64()
	if err != nil {
		return 0
	}
	return ts
}

// EntryFromNode decodes the metadata of an entry node.
func EntryFromNode(node *repository.Node) (*Entry, error) {
	if !IsEntryName(node.Name) {
		return nil, fmt.Errorf("%s is not a history entry", node.Path)
	}

	entry := &Entry{
		Name:      node.Name,
		Path:      node.Path,
		Timestamp: Timestamp(node),
		Origin:    OriginTag(node.Name),
		Legacy:    node.HasProperty(PropertyMessages),
	}

	if v, ok := node.Property(PropertyInstallationDate); ok {
		entry.InstallationDate = v.String()
	}
	if v, ok := node.Property(PropertySuccess); ok {
		b, err := v.Boolean()
		if err != nil {
			return nil, fmt.Errorf("%s: %s: %w", node.Path, PropertySuccess, err)
		}
		entry.Success = b
	}
	if v, ok := node.Property(PropertyExecutionTime); ok {
		n, err := v.Int64()
		if err != nil {
			return nil, fmt.Errorf("%s: %s: %w", node.Path, PropertyExecutionTime, err)
		}
		entry.ExecutionTime = n
	}
	if v, ok := node.Property(PropertyInstalledFrom); ok {
		entry.InstalledFrom = v.String()
	}

	return entry, nil
}

// HistoryNodes returns the history entry nodes of the container in
// container order. A missing container has no entries.
func HistoryNodes(ctx context.Context, s repository.Session) ([]*repository.Node, error) {
	children, err := s.ChildNodes(ctx, ContainerPath)
	if repository.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	nodes := children[:0]
	for _, child := range children {
		if IsEntryName(child.Name) {
			nodes = append(nodes, child)
		}
	}
	return nodes, nil
}

// LoadEntries decodes all history entries in container order.
func LoadEntries(ctx context.Context, s repository.Session) ([]*Entry, error) {
	nodes, err := HistoryNodes(ctx, s)
	if err != nil {
		return nil, err
	}

	entries := make([]*Entry, 0, len(nodes))
	for _, node := range nodes {
		entry, err := EntryFromNode(node)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// CommonPrefix returns the longest string prefix shared by all of names.
func CommonPrefix(names []string) string {
	if len(names) == 0 {
		return ""
	}
	prefix := names[0]
	for _, name := range names[1:] {
		for !strings.HasPrefix(name, prefix) {
			_, size := utf8.DecodeLastRuneInString(prefix)
			prefix = prefix[:len(prefix)-size]
		}
		if prefix == "" {
			break
		}
	}
	return prefix
}

// InstalledFrom returns the installedFrom value for a run: the package name
// followed by the common prefix of the config file names. ok is false when
// no config files were given and the property should not be written.
func InstalledFrom(packageName string, configFiles []string) (value string, ok bool) {
	if len(configFiles) == 0 {
		return "", false
	}
	return packageName + CommonPrefix(configFiles), true
}
