package align

import (
	"sync"

	"github.com/mattn/go-runewidth"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
)

// MonospaceWidth measures text in terminal cells (East Asian wide runes count
// twice) and multiplies by cellPx. A cellPx of 1 yields plain cell counts.
func MonospaceWidth(cellPx float64) WidthFunc {
	return func(text string) float64 {
		return float64(runewidth.StringWidth(text)) * cellPx
	}
}

// FontWidth measures the advance width of text drawn with face, in pixels.
// A nil face uses the 7x13 fixed bitmap font.
func FontWidth(face font.Face) WidthFunc {
	if face == nil {
		face = basicfont.Face7x13
	}
	var mu sync.Mutex
	return func(text string) float64 {
		// font.Face implementations are not safe for concurrent use
		mu.Lock()
		adv := font.MeasureString(face, text)
		mu.Unlock()
		return float64(adv) / 64
	}
}

// CachedWidth memoizes fn by exact input string. The cache is unbounded and
// safe for concurrent use; it never changes results, only how often fn runs.
func CachedWidth(fn WidthFunc) WidthFunc {
	var cache sync.Map
	return func(text string) float64 {
		if v, ok := cache.Load(text); ok {
			return v.(float64)
		}
		w := fn(text)
		cache.Store(text, w)
		return w
	}
}
