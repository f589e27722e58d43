package protocol

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"

	"skelcast/mathx"
)

// Fixed little-endian wire layout for pose frames:
//
//	object_id        u32
//	timestamp        f64
//	root_position    3 × f32
//	root_forward     3 × f32
//	root_up          3 × f32
//	joint_count      i32
//	joint_positions  joint_count × 3 × f32
//	joint_forward    joint_count × 3 × f32
//	joint_up         joint_count × 3 × f32
//	has_paths        u8
//	path_count       i32                      (only if has_paths)
//	paths            path_count × (u16 len + UTF-8 bytes)

// MaxJoints bounds the decoded joint count so a malformed frame cannot force
// a huge allocation.
const MaxJoints = 4096

const maxPathLen = math.MaxUint16

// EncodeMessage serializes a wire message into a pose frame.
func EncodeMessage(m WireMessage) ([]byte, error) {
	s := &m.Snapshot
	n := s.JointCount()
	if n > MaxJoints {
		return nil, fmt.Errorf("joint count %d exceeds limit %d", n, MaxJoints)
	}
	if len(s.JointForward) != n || len(s.JointUp) != n {
		return nil, fmt.Errorf("joint array lengths differ: pos=%d fwd=%d up=%d",
			n, len(s.JointForward), len(s.JointUp))
	}

	buf := new(bytes.Buffer)
	w := &wireWriter{buf: buf}

	w.u32(m.ObjectID)
	w.f64(s.Timestamp)
	w.vec3(s.RootPos)
	w.vec3(s.RootForward)
	w.vec3(s.RootUp)
	w.i32(int32(n))
	for _, v := range s.JointPos {
		w.vec3(v)
	}
	for _, v := range s.JointForward {
		w.vec3(v)
	}
	for _, v := range s.JointUp {
		w.vec3(v)
	}
	if s.JointPaths == nil {
		w.u8(0)
	} else {
		w.u8(1)
		w.i32(int32(len(s.JointPaths)))
		for _, p := range s.JointPaths {
			if len(p) > maxPathLen {
				return nil, fmt.Errorf("joint path %d bytes exceeds limit %d", len(p), maxPathLen)
			}
			w.str(p)
		}
	}
	return buf.Bytes(), nil
}

// DecodeMessage parses a pose frame. Truncated or oversized input is an
// error; the result always satisfies the joint-array length invariant.
func DecodeMessage(data []byte) (WireMessage, error) {
	r := &wireReader{data: data}
	var m WireMessage
	s := &m.Snapshot

	m.ObjectID = r.u32()
	s.Timestamp = r.f64()
	s.RootPos = r.vec3()
	s.RootForward = r.vec3()
	s.RootUp = r.vec3()

	n := r.i32()
	if r.err != nil {
		return WireMessage{}, r.err
	}
	if n < 0 || n > MaxJoints {
		return WireMessage{}, fmt.Errorf("joint count %d out of range", n)
	}
	s.JointPos = r.vecs(int(n))
	s.JointForward = r.vecs(int(n))
	s.JointUp = r.vecs(int(n))

	if r.u8() != 0 {
		pc := r.i32()
		if r.err != nil {
			return WireMessage{}, r.err
		}
		if pc < 0 || pc > MaxJoints {
			return WireMessage{}, fmt.Errorf("path count %d out of range", pc)
		}
		s.JointPaths = make([]string, pc)
		for i := range s.JointPaths {
			s.JointPaths[i] = r.str()
		}
	}
	if r.err != nil {
		return WireMessage{}, r.err
	}
	if r.off != len(data) {
		return WireMessage{}, fmt.Errorf("%d trailing bytes after pose frame", len(data)-r.off)
	}
	return m, nil
}

// PeekObjectID reads just the object id so the relay can route a frame
// without decoding the whole snapshot.
func PeekObjectID(data []byte) (uint32, error) {
	if len(data) < 4 {
		return 0, fmt.Errorf("pose frame too short for object id: %d bytes", len(data))
	}
	return binary.LittleEndian.Uint32(data[:4]), nil
}

type wireWriter struct {
	buf *bytes.Buffer
}

func (w *wireWriter) u8(v uint8)   { w.buf.WriteByte(v) }
func (w *wireWriter) u32(v uint32) { _ = binary.Write(w.buf, binary.LittleEndian, v) }
func (w *wireWriter) i32(v int32)  { _ = binary.Write(w.buf, binary.LittleEndian, v) }
func (w *wireWriter) f32(v float32) {
	_ = binary.Write(w.buf, binary.LittleEndian, math.Float32bits(v))
}
func (w *wireWriter) f64(v float64) {
	_ = binary.Write(w.buf, binary.LittleEndian, math.Float64bits(v))
}
func (w *wireWriter) vec3(v mathx.Vec3) {
	w.f32(v.X)
	w.f32(v.Y)
	w.f32(v.Z)
}
func (w *wireWriter) str(s string) {
	_ = binary.Write(w.buf, binary.LittleEndian, uint16(len(s)))
	w.buf.WriteString(s)
}

// wireReader carries its first error so decode call sites stay flat.
type wireReader struct {
	data []byte
	off  int
	err  error
}

func (r *wireReader) take(n int) []byte {
	if r.err != nil {
		return nil
	}
	if r.off+n > len(r.data) {
		r.err = fmt.Errorf("pose frame truncated at byte %d (need %d more)", r.off, r.off+n-len(r.data))
		return nil
	}
	b := r.data[r.off : r.off+n]
	r.off += n
	return b
}

func (r *wireReader) u8() uint8 {
	b := r.take(1)
	if b == nil {
		return 0
	}
	return b[0]
}

func (r *wireReader) u32() uint32 {
	b := r.take(4)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint32(b)
}

func (r *wireReader) i32() int32 {
	return int32(r.u32())
}

func (r *wireReader) f32() float32 {
	return math.Float32frombits(r.u32())
}

func (r *wireReader) f64() float64 {
	b := r.take(8)
	if b == nil {
		return 0
	}
	return math.Float64frombits(binary.LittleEndian.Uint64(b))
}

func (r *wireReader) vec3() mathx.Vec3 {
	return mathx.Vec3{X: r.f32(), Y: r.f32(), Z: r.f32()}
}

func (r *wireReader) vecs(n int) []mathx.Vec3 {
	if r.err != nil {
		return nil
	}
	out := make([]mathx.Vec3, n)
	for i := range out {
		out[i] = r.vec3()
	}
	return out
}

func (r *wireReader) str() string {
	b := r.take(2)
	if b == nil {
		return ""
	}
	n := int(binary.LittleEndian.Uint16(b))
	sb := r.take(n)
	if sb == nil {
		return ""
	}
	return string(sb)
}
