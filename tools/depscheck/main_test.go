package main

import (
	"reflect"
	"strings"
	"testing"
)

func TestFindViolationsFlagsTransportImports(t *testing.T) {
	input := `{"ImportPath":"` + modulePath + `/internal/world","Imports":["math","` + modulePath + `/internal/physics"]}
{"ImportPath":"` + modulePath + `/internal/physics","Imports":["net/http","` + modulePath + `/internal/sim"]}`

	got, err := findViolations(strings.NewReader(input))
	if err != nil {
		t.Fatalf("findViolations: %v", err)
	}
	want := []string{
		modulePath + "/internal/physics -> " + modulePath + "/internal/sim",
		modulePath + "/internal/physics -> net/http",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestForbiddenMatchesWholePathSegments(t *testing.T) {
	if forbidden(modulePath + "/internal/simulation") {
		t.Fatalf("prefix must match whole path segments")
	}
	if !forbidden(modulePath + "/internal/net/ws") {
		t.Fatalf("expected subpackages to be forbidden")
	}
	if !forbidden("net/http/pprof") {
		t.Fatalf("expected net/http subpackages to be forbidden")
	}
}
