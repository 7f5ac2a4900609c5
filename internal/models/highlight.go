package models

// Rect is an axis-aligned rectangle in page units, origin at the bottom-left
// corner of the page. Rects are value types; merging produces new ones.
type Rect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Right returns the x coordinate of the rectangle's right edge.
func (r Rect) Right() float64 {
	return r.X + r.W
}

// Top returns the y coordinate of the rectangle's upper edge.
func (r Rect) Top() float64 {
	return r.Y + r.H
}

// Highlight is the result of locating a phrase: the page it was found on and
// the regions to draw. The caller owns the value after it is returned.
type Highlight struct {
	ID        string `json:"id"`
	Phrase    string `json:"phrase"`
	PageIndex int    `json:"page_index"`
	Rects     []Rect `json:"rects"`
	// Approximate is set when the page matched but the exact span could not
	// be resolved, so Rects holds a single placeholder region.
	Approximate bool `json:"approximate,omitempty"`
}
