package repository

import (
	"context"
	"testing"
)

// TestGetOrAddNode tests creation of missing ancestors.
func TestGetOrAddNode(t *testing.T) {
	ctx := context.Background()
	s := NewMemorySession()
	defer s.Close()

	node, err := GetOrAddNode(ctx, s, "/var/statistics/achistory", "sling:OrderedFolder")
	if err != nil {
		t.Fatalf("GetOrAddNode() failed: %v", err)
	}
	if node.Path != "/var/statistics/achistory" {
		t.Errorf("Unexpected path %s", node.Path)
	}

	for _, p := range []string{"/var", "/var/statistics"} {
		n, err := s.GetNode(ctx, p)
		if err != nil {
			t.Fatalf("Expected ancestor %s: %v", p, err)
		}
		if n.Type != "sling:OrderedFolder" {
			t.Errorf("Expected ancestor type sling:OrderedFolder, got %s", n.Type)
		}
	}

	// Existing node is returned unchanged.
	again, err := GetOrAddNode(ctx, s, "/var", "nt:folder")
	if err != nil {
		t.Fatalf("GetOrAddNode() on existing failed: %v", err)
	}
	if again.Type != "sling:OrderedFolder" {
		t.Errorf("Expected existing type to be kept, got %s", again.Type)
	}
}

// TestPutFile tests storing and reading file content.
func TestPutFile(t *testing.T) {
	ctx := context.Background()
	s := NewMemorySession()
	defer s.Close()

	if _, err := s.AddNode(ctx, "/entry", "nt:unstructured"); err != nil {
		t.Fatalf("AddNode() failed: %v", err)
	}

	file, err := PutFile(ctx, s, "/entry", "actool.log", "text/plain", []byte("first"))
	if err != nil {
		t.Fatalf("PutFile() failed: %v", err)
	}
	if file.Type != NodeTypeFile {
		t.Errorf("Expected %s, got %s", NodeTypeFile, file.Type)
	}

	content, err := s.GetNode(ctx, "/entry/actool.log/jcr:content")
	if err != nil {
		t.Fatalf("Expected content node: %v", err)
	}
	if v, _ := content.Property(PropertyMimeType); v.String() != "text/plain" {
		t.Errorf("Expected text/plain, got %s", v.String())
	}
	if !content.HasProperty(PropertyLastModified) {
		t.Error("Expected jcr:lastModified to be set")
	}

	if _, err := PutFile(ctx, s, "/entry", "actool.log", "text/plain", []byte("second")); err != nil {
		t.Fatalf("PutFile() overwrite failed: %v", err)
	}

	for _, p := range []string{"/entry/actool.log", "/entry/actool.log/jcr:content"} {
		data, err := ReadFile(ctx, s, p)
		if err != nil {
			t.Fatalf("ReadFile(%s) failed: %v", p, err)
		}
		if string(data) != "second" {
			t.Errorf("ReadFile(%s) = %q, want %q", p, data, "second")
		}
	}

	if _, err := ReadFile(ctx, s, "/entry/missing.log"); !IsNotFound(err) {
		t.Errorf("Expected ErrPathNotFound, got %v", err)
	}
}

// TestPutFile_WrongType tests that a non-file node is not overwritten.
func TestPutFile_WrongType(t *testing.T) {
	ctx := context.Background()
	s := NewMemorySession()
	defer s.Close()

	if _, err := s.AddNode(ctx, "/entry", "nt:unstructured"); err != nil {
		t.Fatalf("AddNode() failed: %v", err)
	}
	if _, err := s.AddNode(ctx, "/entry/actool.log", "nt:unstructured"); err != nil {
		t.Fatalf("AddNode() failed: %v", err)
	}

	if _, err := PutFile(ctx, s, "/entry", "actool.log", "text/plain", []byte("x")); err == nil {
		t.Error("Expected error for non-file node")
	}
}
