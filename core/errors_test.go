package core

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	goerrors "github.com/goliatone/go-errors"
)

func TestIsNetworkError(t *testing.T) {
	tests := []struct {
		message string
		want    bool
	}{
		{"Unable to resolve host open-api.xyz", true},
		{"dial tcp: lookup open-api.xyz: no such host", true},
		{"connect: network is unreachable", true},
		{"connect: connection refused", true},
		{"read tcp: connection reset by peer", true},
		{"Invalid credentials", false},
		{"", false},
	}
	for _, tc := range tests {
		if got := IsNetworkError(tc.message); got != tc.want {
			t.Fatalf("IsNetworkError(%q) = %v, want %v", tc.message, got, tc.want)
		}
	}
}

func TestMapError_TimeoutMapsToConnectivity(t *testing.T) {
	mapped := MapError(ErrAttemptTimeout)
	if mapped == nil {
		t.Fatalf("expected mapped error")
	}
	if mapped.Category != goerrors.CategoryExternal {
		t.Fatalf("expected external category, got %q", mapped.Category)
	}
	if mapped.TextCode != ResourceErrorConnectivity {
		t.Fatalf("expected connectivity text code, got %q", mapped.TextCode)
	}
	if mapped.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", mapped.Code)
	}
}

func TestMapError_ValidationSniffing(t *testing.T) {
	mapped := MapError(fmt.Errorf("auth: all fields are required"))
	if mapped.TextCode != ResourceErrorValidation {
		t.Fatalf("expected validation text code, got %q", mapped.TextCode)
	}
	if mapped.Category != goerrors.CategoryValidation {
		t.Fatalf("expected validation category, got %q", mapped.Category)
	}
}

func TestMapError_PreservesRichErrors(t *testing.T) {
	source := goerrors.New("boom", goerrors.CategoryInternal).WithTextCode(ResourceErrorPersistence)
	mapped := MapError(source)
	if mapped.TextCode != ResourceErrorPersistence {
		t.Fatalf("existing text code must survive, got %q", mapped.TextCode)
	}
	if mapped.Code != http.StatusInternalServerError {
		t.Fatalf("envelope must fill the status code, got %d", mapped.Code)
	}
}

func TestMapError_Nil(t *testing.T) {
	if MapError(nil) != nil {
		t.Fatalf("nil error must map to nil")
	}
}

func TestMapError_SaveTokenIsPersistence(t *testing.T) {
	mapped := MapError(errors.New("error saving auth token"))
	if mapped.TextCode != ResourceErrorPersistence {
		t.Fatalf("expected persistence text code, got %q", mapped.TextCode)
	}
}
