package skeleton

import "strings"

// PathSeparator joins joint names into a path key.
const PathSeparator = "/"

// Enumeration is the deterministic pre-order walk of a skeleton: arena
// indices in traversal order with the parallel path strings. The traversal
// position is the implicit wire index.
type Enumeration struct {
	Indices []int
	Paths   []string
}

// Enumerate walks the hierarchy depth-first from the root joint, parents
// before children, siblings in insertion order. A root with no children
// yields a single entry.
func (s *Skeleton) Enumerate() Enumeration {
	e := Enumeration{
		Indices: make([]int, 0, len(s.joints)),
		Paths:   make([]string, 0, len(s.joints)),
	}
	s.walk(0, s.joints[0].Name, &e)
	return e
}

func (s *Skeleton) walk(i int, path string, e *Enumeration) {
	e.Indices = append(e.Indices, i)
	e.Paths = append(e.Paths, path)
	for _, c := range s.children[i] {
		s.walk(c, path+PathSeparator+s.joints[c].Name, e)
	}
}

// Manifest resolves joint paths back to enumeration positions. byTerminal
// keeps the first joint seen for each terminal name, so duplicates resolve
// deterministically.
type Manifest struct {
	Paths      []string
	byPath     map[string]int
	byStripped map[string]int
	byTerminal map[string]int
}

// BuildManifest enumerates the skeleton and indexes the result for the
// three-tier path resolution used during reconciliation.
func (s *Skeleton) BuildManifest() Manifest {
	e := s.Enumerate()
	m := Manifest{
		Paths:      e.Paths,
		byPath:     make(map[string]int, len(e.Paths)),
		byStripped: make(map[string]int, len(e.Paths)),
		byTerminal: make(map[string]int, len(e.Paths)),
	}
	for pos, p := range e.Paths {
		m.byPath[p] = pos
		if _, ok := m.byStripped[stripRoot(p)]; !ok {
			m.byStripped[stripRoot(p)] = pos
		}
		term := terminal(p)
		if _, ok := m.byTerminal[term]; !ok {
			m.byTerminal[term] = pos
		}
	}
	return m
}

func (m Manifest) Len() int {
	return len(m.Paths)
}

// Resolve maps an incoming joint path to a local enumeration position:
// exact path, then the path with its root segment stripped (skeletons rooted
// under different names), then the terminal joint name alone.
func (m Manifest) Resolve(path string) (int, bool) {
	if pos, ok := m.byPath[path]; ok {
		return pos, true
	}
	if pos, ok := m.byPath[stripRoot(path)]; ok {
		return pos, true
	}
	if pos, ok := m.byStripped[stripRoot(path)]; ok {
		return pos, true
	}
	if pos, ok := m.byTerminal[terminal(path)]; ok {
		return pos, true
	}
	return 0, false
}

func stripRoot(path string) string {
	if i := strings.Index(path, PathSeparator); i >= 0 {
		return path[i+len(PathSeparator):]
	}
	return path
}

func terminal(path string) string {
	if i := strings.LastIndex(path, PathSeparator); i >= 0 {
		return path[i+len(PathSeparator):]
	}
	return path
}
