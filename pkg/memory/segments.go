package memory

import (
	"fmt"

	"github.com/emirpasic/gods/maps/treemap"
	"github.com/emirpasic/gods/utils"
)

// Segment maps [Start, Start+Size) of the target address space onto
// [Offset, Offset+Size) of a backing accessor, like a PT_LOAD header of a
// core file.
type Segment struct {
	Start   uint64
	Size    uint64
	Offset  uint64
	Backing Interface
}

func (s *Segment) End() uint64 {
	return s.Start + s.Size
}

// Segments is a sparse address space assembled from non-overlapping
// segments. A read must fall inside one segment; reads straddling two
// segments fault rather than being split into two physical reads.
type Segments struct {
	segments *treemap.Map
}

func NewSegments() *Segments {
	return &Segments{
		segments: treemap.NewWith(utils.UInt64Comparator),
	}
}

func (s *Segments) Map(seg Segment) error {
	if seg.Size == 0 {
		return fmt.Errorf("empty segment at 0x%x", seg.Start)
	}
	if seg.End() < seg.Start {
		return fmt.Errorf("segment at 0x%x overflows address space", seg.Start)
	}
	if seg.Backing == nil {
		return fmt.Errorf("segment at 0x%x has no backing", seg.Start)
	}

	if _, v := s.segments.Floor(seg.End() - 1); v != nil {
		if prev := v.(*Segment); prev.End() > seg.Start {
			return fmt.Errorf(
				"segment [0x%x, 0x%x) overlaps [0x%x, 0x%x)",
				seg.Start, seg.End(), prev.Start, prev.End(),
			)
		}
	}

	s.segments.Put(seg.Start, &seg)
	return nil
}

func (s *Segments) Lookup(addr uint64) (*Segment, bool) {
	_, v := s.segments.Floor(addr)
	if v == nil {
		return nil, false
	}
	seg := v.(*Segment)
	if addr >= seg.End() {
		return nil, false
	}
	return seg, true
}

func (s *Segments) Len() int {
	return s.segments.Size()
}

func (s *Segments) ReadMemory(buf []byte, addr uint64) error {
	seg, ok := s.Lookup(addr)
	if !ok || !inRange(addr, len(buf), seg.Start, seg.Size) {
		return fault(addr, len(buf), nil)
	}
	return seg.Backing.ReadMemory(buf, seg.Offset+(addr-seg.Start))
}
