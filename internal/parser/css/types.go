package css

// Declaration is a property declaration found in a stylesheet. Offsets are
// byte offsets into the source the declaration was parsed from.
type Declaration struct {
	// Property is the property name as written
	Property string
	// Value is the source text of the value, without `!important` or `;`
	Value string
	// Start is the byte offset of the first value byte
	Start uint
	// End is the byte offset just past the last value byte
	End uint
}

// Shift moves the declaration's offsets by delta bytes
func (d *Declaration) Shift(delta int) {
	d.Start = uint(int(d.Start) + delta) //nolint:gosec // G115: offsets are bounded by the source length
	d.End = uint(int(d.End) + delta)     //nolint:gosec // G115: offsets are bounded by the source length
}

// ParseResult contains the declarations of a stylesheet in document order
type ParseResult struct {
	Declarations []*Declaration
}

// Shift moves every declaration by delta bytes
func (r *ParseResult) Shift(delta int) {
	for _, d := range r.Declarations {
		d.Shift(delta)
	}
}
