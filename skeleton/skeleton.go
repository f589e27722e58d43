package skeleton

import "skelcast/mathx"

// Joint is one node in the flat arena. Parent is an index into the same
// arena, -1 for the root joint. Pose is stored in parent-local space.
type Joint struct {
	Name     string
	Parent   int
	LocalPos mathx.Vec3
	LocalRot mathx.Quat
}

// Skeleton is a flat arena of joints plus the character's overall world
// placement. The placement is deliberately not a joint: joint 0 (the root
// joint) still has its own local frame relative to the placement.
type Skeleton struct {
	RootPos mathx.Vec3
	RootRot mathx.Quat

	joints   []Joint
	children [][]int
}

// New creates a skeleton containing only the root joint.
func New(rootName string) *Skeleton {
	return &Skeleton{
		RootRot:  mathx.Identity,
		joints:   []Joint{{Name: rootName, Parent: -1, LocalRot: mathx.Identity}},
		children: [][]int{nil},
	}
}

// AddJoint appends a joint under parent and returns its arena index.
// Sibling order is insertion order, which fixes the enumeration order.
func (s *Skeleton) AddJoint(parent int, name string) int {
	idx := len(s.joints)
	s.joints = append(s.joints, Joint{Name: name, Parent: parent, LocalRot: mathx.Identity})
	s.children = append(s.children, nil)
	s.children[parent] = append(s.children[parent], idx)
	return idx
}

func (s *Skeleton) Len() int {
	return len(s.joints)
}

func (s *Skeleton) Joint(i int) Joint {
	return s.joints[i]
}

// SetLocal replaces joint i's parent-local pose.
func (s *Skeleton) SetLocal(i int, pos mathx.Vec3, rot mathx.Quat) {
	s.joints[i].LocalPos = pos
	s.joints[i].LocalRot = rot
}

// SetWorldRoot places the character in world space.
func (s *Skeleton) SetWorldRoot(pos mathx.Vec3, rot mathx.Quat) {
	s.RootPos = pos
	s.RootRot = rot
}

// World returns joint i's world-space pose by composing local frames up the
// parent chain and through the character placement.
func (s *Skeleton) World(i int) (mathx.Vec3, mathx.Quat) {
	j := s.joints[i]
	if j.Parent < 0 {
		return s.RootPos.Add(s.RootRot.Rotate(j.LocalPos)), s.RootRot.Mul(j.LocalRot)
	}
	pPos, pRot := s.World(j.Parent)
	return pPos.Add(pRot.Rotate(j.LocalPos)), pRot.Mul(j.LocalRot)
}
