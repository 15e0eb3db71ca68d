// Where: internal/hooks/priority.go
// What: Named priorities for filter items.
// Why: Plugins order their contributions relative to the host default.
package hooks

// Priority orders items inside a filter. Lower values come first.
type Priority int

const (
	// PriorityHighest puts items before everything else.
	PriorityHighest Priority = 0
	// PriorityHigh puts items ahead of default-priority items.
	PriorityHigh Priority = 5
	// PriorityDefault is used when no priority is given.
	PriorityDefault Priority = 10
	// PriorityLow puts items after default-priority items.
	PriorityLow Priority = 50
	// PriorityLowest puts items after everything else.
	PriorityLowest Priority = 100
)
