package sim

import (
	"testing"
)

func TestRegistry(t *testing.T) {
	reg := NewRegistry()

	names := reg.List()
	if len(names) != 7 {
		t.Fatalf("expected 7 scenarios, got %d: %v", len(names), names)
	}
	for i := 1; i < len(names); i++ {
		if names[i-1] >= names[i] {
			t.Errorf("names not sorted: %v", names)
		}
	}

	sc, err := reg.Get("stand")
	if err != nil {
		t.Fatalf("Get(stand): %v", err)
	}
	if sc.Name != "stand" {
		t.Errorf("expected name stand, got %q", sc.Name)
	}

	if _, err := reg.Get("parade"); err == nil {
		t.Error("expected error for unknown scenario")
	}
	if reg.Describe("stand") == "" {
		t.Error("expected a description for stand")
	}
}

func TestAllScenariosWellFormed(t *testing.T) {
	reg := NewRegistry()
	for _, name := range reg.List() {
		sc, err := reg.Get(name)
		if err != nil {
			t.Fatalf("Get(%s): %v", name, err)
		}
		if sc.Duration <= 0 {
			t.Errorf("%s: non-positive duration", name)
		}
		if len(sc.Actors) == 0 {
			t.Errorf("%s: no actors", name)
		}
		known := 0
		for _, a := range sc.Actors {
			if a.Path == nil {
				t.Errorf("%s: actor %s has no path", name, a.Name)
			}
			if a.Dist <= 0 {
				t.Errorf("%s: actor %s has no recognition distance", name, a.Name)
			}
			if a.Known {
				known++
			}
		}
		if known == 0 {
			t.Errorf("%s: no known actor to track", name)
		}
	}
}

func TestBindRenamesKnownActorsInOrder(t *testing.T) {
	sc := Decoy().Bind([]string{"alice", "bob"})

	if sc.Actors[0].Name != "alice" || sc.Actors[1].Name != "bob" {
		t.Errorf("known actors not renamed in order: %s, %s",
			sc.Actors[0].Name, sc.Actors[1].Name)
	}
	if sc.Actors[2].Name != "stranger" {
		t.Errorf("unknown actor should keep its name, got %s", sc.Actors[2].Name)
	}

	// binding returns a copy
	if Decoy().Actors[0].Name != "primary" {
		t.Error("Bind mutated the builder's scenario")
	}
}

func TestBindWrapsShortNameLists(t *testing.T) {
	sc := Decoy().Bind([]string{"solo"})
	if sc.Actors[0].Name != "solo" || sc.Actors[1].Name != "solo" {
		t.Errorf("expected both known actors bound to solo, got %s, %s",
			sc.Actors[0].Name, sc.Actors[1].Name)
	}

	unchanged := Decoy().Bind(nil)
	if unchanged.Actors[0].Name != "primary" {
		t.Error("empty bind should leave names alone")
	}
}

func TestActorHidden(t *testing.T) {
	a := Actor{Vanish: []Window{{From: 3, To: 4.2}, {From: 7, To: 8.2}}}

	tests := []struct {
		t    float64
		want bool
	}{
		{2.9, false},
		{3.0, true},
		{4.19, true},
		{4.2, false},
		{7.5, true},
		{9, false},
	}
	for _, tt := range tests {
		if got := a.hidden(tt.t); got != tt.want {
			t.Errorf("hidden(%f) = %v, want %v", tt.t, got, tt.want)
		}
	}
}
