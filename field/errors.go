package field

import "fmt"

// InvalidDimensionsError reports a create or resize with a non-positive size,
// or a size that is not a multiple of the tile size.
type InvalidDimensionsError struct {
	Width, Height int
	TileSize      int
}

func (e *InvalidDimensionsError) Error() string {
	if e.Width <= 0 || e.Height <= 0 {
		return fmt.Sprintf("field: invalid dimensions %dx%d: must be positive", e.Width, e.Height)
	}
	return fmt.Sprintf("field: invalid dimensions %dx%d: must be multiples of tile size %d",
		e.Width, e.Height, e.TileSize)
}

// AllocationError reports that field buffers could not be obtained.
type AllocationError struct {
	Width, Height int
	MaxCells      int
	Cause         any // recovered allocation panic, if any
}

func (e *AllocationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("field: allocating %dx%d buffers: %v", e.Width, e.Height, e.Cause)
	}
	return fmt.Sprintf("field: allocating %dx%d buffers: exceeds %d cells", e.Width, e.Height, e.MaxCells)
}
