package diff

// ContextWindow tracks the number of context lines requested from git for
// the whole diff. Git only supports one context width per request, so
// expanding widens every hunk at once.
type ContextWindow struct {
	Default   int
	Increment int
	Current   int
}

// NewContextWindow returns a window at its default width.
func NewContextWindow(defaultLines, increment int) ContextWindow {
	return ContextWindow{Default: defaultLines, Increment: increment, Current: defaultLines}
}

// Expand widens the window by one increment and returns the new width.
func (w *ContextWindow) Expand() int {
	w.Current += w.Increment
	return w.Current
}

// Reset restores the default width and returns it.
func (w *ContextWindow) Reset() int {
	w.Current = w.Default
	return w.Current
}

// Expanded reports whether the window is wider than its default.
func (w ContextWindow) Expanded() bool {
	return w.Current != w.Default
}
