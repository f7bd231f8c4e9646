package tui

// Key binding constants used in handleKey.
const (
	KeyQuit        = "q"
	KeyCtrlC       = "ctrl+c"
	KeySpace       = " "
	KeyTab         = "tab"
	KeyUp          = "up"
	KeyDown        = "down"
	KeyJ           = "j"
	KeyK           = "k"
	KeyLeft        = "left"
	KeyRight       = "right"
	KeySearch      = "/"
	KeyEscape      = "esc"
	KeyEnter       = "enter"
	KeyBackspace   = "backspace"
	KeyConsolidate = "c"
	KeyRawView     = "C"
	KeyMoreGap     = "+"
	KeyMoreGapAlt  = "="
	KeyLessGap     = "-"
	KeyRetry       = "r"
	KeyExportText  = "t"
	KeyExportSRT   = "s"
	KeyExportJSON  = "e"
)

// seekStep is the left/right arrow jump in seconds.
const seekStep = 5.0

// thresholdStep is the +/- adjustment to the consolidation gap in seconds.
const thresholdStep = 0.5
