package loader

import (
	"strings"
	"testing"
)

func TestLoad_OwnPackage(t *testing.T) {
	pkgs, fset, err := Load("", ".")
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if fset == nil {
		t.Fatal("Load returned nil FileSet")
	}
	if len(pkgs) != 1 {
		t.Fatalf("got %d packages, want 1", len(pkgs))
	}
	if pkgs[0].Name != "loader" {
		t.Errorf("package name = %q, want \"loader\"", pkgs[0].Name)
	}
	if len(pkgs[0].Syntax) == 0 {
		t.Error("expected parsed syntax trees")
	}
	if pkgs[0].TypesInfo == nil {
		t.Error("expected type information")
	}
}

func TestLoad_UnknownPattern(t *testing.T) {
	_, _, err := Load("", "./does-not-exist")
	if err == nil {
		t.Fatal("expected error for unknown package pattern")
	}
	if !strings.Contains(err.Error(), "does-not-exist") {
		t.Errorf("unexpected error message: %s", err)
	}
}
