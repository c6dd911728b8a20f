package modules

import "testing"

func TestDefaultModulesIncludeWizard(t *testing.T) {
	t.Parallel()

	registered := DefaultModules(Dependencies{})
	if len(registered) != 1 {
		t.Fatalf("module count = %d, want %d", len(registered), 1)
	}
	if got := registered[0].ID(); got != "wizard" {
		t.Fatalf("default module id = %q, want %q", got, "wizard")
	}
}

func TestDefaultModulesHaveUniquePrefixes(t *testing.T) {
	t.Parallel()

	seen := map[string]struct{}{}
	for _, m := range DefaultModules(Dependencies{}) {
		mount, err := m.Mount()
		if err != nil {
			t.Fatalf("module %q mount error = %v", m.ID(), err)
		}
		if mount.Prefix == "" {
			t.Fatalf("module %q prefix is empty", m.ID())
		}
		if mount.Handler == nil {
			t.Fatalf("module %q handler is nil", m.ID())
		}
		if _, ok := seen[mount.Prefix]; ok {
			t.Fatalf("duplicate mount prefix %q", mount.Prefix)
		}
		seen[mount.Prefix] = struct{}{}
	}
}
