package config

// Documented defaults for any style field absent from a box's
// definition (§6).
const (
	DefaultRefreshInterval = 1
	DefaultFill            = false
	DefaultFillColor       = "black"
	DefaultFillChar        = "█"
	DefaultBorderColor     = "white"
	DefaultTitleColor      = "yellow"
	DefaultTextColor       = "white"
)

// EventSeparator joins multi-command event scripts in storage (§6). It
// is an internal token: implementations MUST NOT expose it to user
// config, and the Render Engine never sees it directly — the Event
// Dispatcher converts captured output into real newlines before it
// reaches a box's body (§6).
const EventSeparator = "____"
