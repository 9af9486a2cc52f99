package diff

// ViewState is the cursor and scroll position over the global row layout.
// It is owned by the caller and passed to every component that needs it;
// nothing else keeps a copy of these positions.
type ViewState struct {
	Cursor  int // row under the cursor
	Scroll  int // first visible row
	HScroll int // horizontal character offset (side-by-side)
	Height  int // visible rows
}

// Reset moves the view back to the top left.
func (v *ViewState) Reset() {
	v.Cursor = 0
	v.Scroll = 0
	v.HScroll = 0
}

// ScrollBy moves cursor and scroll together by delta rows, clamped to a
// layout of total rows.
func (v *ViewState) ScrollBy(delta, total int) {
	maxScroll := max(total-v.Height, 0)
	v.Scroll = clamp(v.Scroll+delta, 0, maxScroll)
	v.Cursor = clamp(v.Cursor+delta, 0, max(total-1, 0))
	v.follow()
}

// JumpTo places the cursor on row, scrolling only as far as needed to
// keep it visible.
func (v *ViewState) JumpTo(row, total int) {
	v.Cursor = clamp(row, 0, max(total-1, 0))
	v.follow()
	v.Scroll = clamp(v.Scroll, 0, max(total-v.Height, 0))
}

// CenterOn places the cursor on row and scrolls so it is mid-screen.
func (v *ViewState) CenterOn(row, total int) {
	v.Cursor = clamp(row, 0, max(total-1, 0))
	v.Scroll = clamp(v.Cursor-v.Height/2, 0, max(total-v.Height, 0))
}

// ScrollHorizontal shifts the horizontal offset, never below zero.
func (v *ViewState) ScrollHorizontal(delta int) {
	v.HScroll = max(v.HScroll+delta, 0)
}

// Visible reports whether row is inside the viewport.
func (v *ViewState) Visible(row int) bool {
	return row >= v.Scroll && row < v.Scroll+v.Height
}

func (v *ViewState) follow() {
	if v.Height <= 0 {
		return
	}
	if v.Cursor < v.Scroll {
		v.Scroll = v.Cursor
	}
	if v.Cursor >= v.Scroll+v.Height {
		v.Scroll = v.Cursor - v.Height + 1
	}
}

func clamp(n, lo, hi int) int {
	return max(lo, min(n, hi))
}
