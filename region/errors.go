package region

import "fmt"

// ShortBufferError indicates that a buffer is too small for the encoded layout.
type ShortBufferError struct {
	// What is being decoded
	What string

	// Need is the required length
	Need int

	// Got is the actual length
	Got int
}

func (e *ShortBufferError) Error() string {
	return fmt.Sprintf("%s: need %d bytes, got %d", e.What, e.Need, e.Got)
}
