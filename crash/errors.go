package crash

import "fmt"

// GeometryError indicates an unusable storage or RAM geometry.
type GeometryError struct {
	Field  string
	Value  uint32
	Reason string
}

func (e *GeometryError) Error() string {
	return fmt.Sprintf("invalid geometry: %s 0x%X %s", e.Field, e.Value, e.Reason)
}

// RegionError indicates that the persisted region does not fit below the
// reserved boundary.
type RegionError struct {
	Base          uint64
	End           uint64
	ReservedStart uint32
}

func (e *RegionError) Error() string {
	return fmt.Sprintf("crash region 0x%08X-0x%08X overlaps reserved area at 0x%08X",
		e.Base, e.End, e.ReservedStart)
}
