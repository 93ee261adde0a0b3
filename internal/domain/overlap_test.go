package domain

import (
	"slices"
	"testing"
)

func TestFindOverlapsReportsContainment(t *testing.T) {
	inv := Inventory{"10.0.0.128/25", "192.168.0.0/24", "10.0.0.0/24", "10.0.0.0/16"}

	got := FindOverlaps(inv)

	want := []Overlap{
		{Outer: "10.0.0.0/16", Inner: "10.0.0.0/24"},
		{Outer: "10.0.0.0/16", Inner: "10.0.0.128/25"},
		{Outer: "10.0.0.0/24", Inner: "10.0.0.128/25"},
	}
	if !slices.Equal(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestFindOverlapsIgnoresDisjointAndDuplicates(t *testing.T) {
	inv := Inventory{"10.0.0.0/24", "10.0.1.0/24", "10.0.0.0/24", "fd00::/64", "fd00:0:0:1::/64"}

	if got := FindOverlaps(inv); len(got) != 0 {
		t.Fatalf("expected no overlaps, got %v", got)
	}
}

func TestFindOverlapsAcrossFamiliesAndGarbage(t *testing.T) {
	inv := Inventory{"0.0.0.0/0", "not-a-prefix", "fd00::/8", "fd00:1::/64", "10.1.0.0/16"}

	got := FindOverlaps(inv)

	want := []Overlap{
		{Outer: "0.0.0.0/0", Inner: "10.1.0.0/16"},
		{Outer: "fd00::/8", Inner: "fd00:1::/64"},
	}
	if !slices.Equal(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}
