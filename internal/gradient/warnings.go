package gradient

const (
	// WarningStopPosition is reported for a transparent stop that needs an
	// explicit position to be split, when none can be inferred
	WarningStopPosition = "Unable to calculate transparency stop positions. Please use explicit stop positions."

	// WarningInvalidColor is reported when a color next to a transparent stop
	// cannot be parsed
	WarningInvalidColor = "Unable to parse the color next to a transparent stop. Please check the color value."
)

// Warning is a non-fatal problem found while fixing a gradient
type Warning struct {
	// Message is one of the Warning* constants
	Message string
	// Stop is the source text of the stop the warning belongs to
	Stop string
}

func (w Warning) String() string {
	return w.Message
}
