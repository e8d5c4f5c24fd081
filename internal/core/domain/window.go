package domain

// TextWindow is a slice of a document handed to the extractor on its own.
// Start and End are character offsets into the full document, so entity
// offsets reported for the window are shifted by Start.
type TextWindow struct {
	// Index is the window position, starting at 0.
	Index int

	// Text is the window content.
	Text string

	// Start is the offset of the window's first character.
	Start int

	// End is the offset one past the window's last character.
	End int
}
