package domain_test

import (
	"errors"
	"testing"

	"go.trai.ch/prcl/internal/core/domain"
	"go.trai.ch/zerr"
)

func TestNewResolutionError(t *testing.T) {
	err := domain.NewResolutionError("./x", "/p/main.js")

	if !errors.Is(err, domain.ErrModuleNotResolved) {
		t.Error("expected error to match ErrModuleNotResolved")
	}
	if !domain.IsResolutionError(err) {
		t.Error("expected IsResolutionError to be true")
	}
	if err.Error() != "could not resolve module name: ./x in /p/main.js: could not resolve module" {
		t.Errorf("unexpected message: %q", err.Error())
	}

	var zErr *zerr.Error
	if !errors.As(err, &zErr) {
		t.Fatalf("expected *zerr.Error, got %T", err)
	}
	meta := zErr.Metadata()
	if meta["specifier"] != "./x" {
		t.Errorf("expected specifier metadata ./x, got %v", meta["specifier"])
	}
	if meta["parent"] != "/p/main.js" {
		t.Errorf("expected parent metadata /p/main.js, got %v", meta["parent"])
	}
}

func TestNewResolutionError_Entry(t *testing.T) {
	err := domain.NewResolutionError("./missing", "")

	if !errors.Is(err, domain.ErrModuleNotResolved) {
		t.Error("expected error to match ErrModuleNotResolved")
	}
	if err.Error() != "could not resolve module name: ./missing: could not resolve module" {
		t.Errorf("unexpected message: %q", err.Error())
	}

	var zErr *zerr.Error
	if !errors.As(err, &zErr) {
		t.Fatalf("expected *zerr.Error, got %T", err)
	}
	if _, ok := zErr.Metadata()["parent"]; ok {
		t.Error("expected no parent metadata for an entry")
	}
}

func TestIsResolutionError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "resolution", err: domain.NewResolutionError("x", "/p/a.js"), want: true},
		{name: "missing package main", err: zerr.Wrap(domain.ErrPackageMainNotFound, "lib/x"), want: true},
		{name: "read failure", err: zerr.Wrap(errors.New("io"), domain.ErrFileReadFailed.Error()), want: false},
		{name: "entry not path", err: domain.ErrEntryNotPath, want: false},
		{name: "nil", err: nil, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := domain.IsResolutionError(tt.err); got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}
