package tui

// Color constants for the punch TUI theme
const (
	ColorBorder = "#3A3F55" // Grey-blue

	// Text Colors
	ColorPrimaryText   = "#E6EAF2" // Primary text (labels, titles)
	ColorSecondaryText = "#B1B8C7" // Secondary text
	ColorDisabledText  = "#6D7383" // Muted text, empty values
	ColorHelpText      = "240"     // Dark grey for help text

	// Accent Colors
	ColorAccentMain   = "#7C3AED" // Logo, active borders
	ColorAccentBright = "#A78BFA" // Clock, highlights

	// State Colors
	ColorError   = "#EF4444"
	ColorSuccess = "#22C55E" // running
	ColorWarning = "#F59E0B" // paused, check-in prompt
)
