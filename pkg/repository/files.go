package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Node types and property names used for file resources.
const (
	NodeTypeFolder   = "nt:folder"
	NodeTypeFile     = "nt:file"
	NodeTypeResource = "nt:resource"

	ContentNodeName      = "jcr:content"
	PropertyData         = "jcr:data"
	PropertyMimeType     = "jcr:mimeType"
	PropertyLastModified = "jcr:lastModified"
)

// GetOrAddNode returns the node at path, creating it with nodeType if it
// does not exist. Missing ancestors are created with the same type.
func GetOrAddNode(ctx context.Context, s Session, path, nodeType string) (*Node, error) {
	p, err := CleanPath(path)
	if err != nil {
		return nil, err
	}

	node, err := s.GetNode(ctx, p)
	if err == nil {
		return node, nil
	}
	if !IsNotFound(err) {
		return nil, err
	}

	if parent := Parent(p); parent != p {
		if _, err := GetOrAddNode(ctx, s, parent, nodeType); err != nil {
			return nil, err
		}
	}

	node, err = s.AddNode(ctx, p, nodeType)
	if errors.Is(err, ErrItemExists) {
		return s.GetNode(ctx, p)
	}
	return node, err
}

// PutFile stores data as a file called name under parentPath. An existing
// file of that name has its content replaced.
func PutFile(ctx context.Context, s Session, parentPath, name, mimeType string, data []byte) (*Node, error) {
	filePath := Join(parentPath, name)
	file, err := GetOrAddNode(ctx, s, filePath, NodeTypeFile)
	if err != nil {
		return nil, err
	}
	if file.Type != NodeTypeFile {
		return nil, fmt.Errorf("put file %s: node exists with type %s", filePath, file.Type)
	}

	contentPath := Join(filePath, ContentNodeName)
	if _, err := GetOrAddNode(ctx, s, contentPath, NodeTypeResource); err != nil {
		return nil, err
	}

	if mimeType == "" {
		mimeType = "application/octet-stream"
	}
	if err := s.SetProperty(ctx, contentPath, PropertyMimeType, StringValue(mimeType)); err != nil {
		return nil, err
	}
	if err := s.SetProperty(ctx, contentPath, PropertyData, BinaryValue(data)); err != nil {
		return nil, err
	}
	if err := s.SetProperty(ctx, contentPath, PropertyLastModified, DateValue(time.Now())); err != nil {
		return nil, err
	}

	return file, nil
}

// ReadFile returns the content of the file at path. For convenience the
// path may also point at the file's jcr:content node.
func ReadFile(ctx context.Context, s Session, path string) ([]byte, error) {
	contentPath := path
	if !strings.HasSuffix(path, "/"+ContentNodeName) {
		contentPath = Join(path, ContentNodeName)
	}

	content, err := s.GetNode(ctx, contentPath)
	if err != nil {
		return nil, err
	}

	data, ok := content.Property(PropertyData)
	if !ok {
		return nil, fmt.Errorf("read file %s: %w", Join(contentPath, PropertyData), ErrPathNotFound)
	}
	return data.Bytes(), nil
}
