package skeleton

import (
	"reflect"
	"testing"
)

// testRig builds a small humanoid-ish hierarchy:
//
//	hips
//	├── spine
//	│   ├── arm_l
//	│   └── arm_r
//	└── leg_l
func testRig() *Skeleton {
	s := New("hips")
	spine := s.AddJoint(0, "spine")
	s.AddJoint(spine, "arm_l")
	s.AddJoint(spine, "arm_r")
	s.AddJoint(0, "leg_l")
	return s
}

func TestEnumeratePreOrder(t *testing.T) {
	s := testRig()
	e := s.Enumerate()

	wantPaths := []string{
		"hips",
		"hips/spine",
		"hips/spine/arm_l",
		"hips/spine/arm_r",
		"hips/leg_l",
	}
	if !reflect.DeepEqual(e.Paths, wantPaths) {
		t.Fatalf("paths = %v, want %v", e.Paths, wantPaths)
	}
	for pos, idx := range e.Indices {
		parent := s.Joint(idx).Parent
		if parent < 0 {
			continue
		}
		seen := false
		for _, earlier := range e.Indices[:pos] {
			if earlier == parent {
				seen = true
				break
			}
		}
		if !seen {
			t.Fatalf("joint %d enumerated before its parent %d", idx, parent)
		}
	}
}

func TestEnumerateDeterministic(t *testing.T) {
	s := testRig()
	a := s.Enumerate()
	b := s.Enumerate()
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("two enumerations of the same topology differ: %v vs %v", a, b)
	}
}

func TestEnumerateRootOnly(t *testing.T) {
	s := New("root")
	e := s.Enumerate()
	if len(e.Indices) != 1 || len(e.Paths) != 1 {
		t.Fatalf("root-only skeleton enumerated %d joints, want 1", len(e.Indices))
	}
	if e.Paths[0] != "root" {
		t.Fatalf("root path = %q, want %q", e.Paths[0], "root")
	}
}

func TestManifestResolveTiers(t *testing.T) {
	s := testRig()
	m := s.BuildManifest()

	// Tier 1: exact path.
	if pos, ok := m.Resolve("hips/spine/arm_l"); !ok || pos != 2 {
		t.Fatalf("exact resolve = (%d, %v), want (2, true)", pos, ok)
	}
	// Tier 2: same skeleton rooted under a different name.
	if pos, ok := m.Resolve("pelvis/spine/arm_r"); !ok || pos != 3 {
		t.Fatalf("root-stripped resolve = (%d, %v), want (3, true)", pos, ok)
	}
	// Tier 3: terminal name only.
	if pos, ok := m.Resolve("completely/other/chain/leg_l"); !ok || pos != 4 {
		t.Fatalf("terminal resolve = (%d, %v), want (4, true)", pos, ok)
	}
	// Unresolvable.
	if _, ok := m.Resolve("no/such/joint"); ok {
		t.Fatalf("resolved a path that should not exist")
	}
}
