package scene

import (
	"image/color"
	"strconv"
)

// GalleryItem is one entry of the gallery as supplied by the embedding layer.
type GalleryItem struct {
	// Image is the image source: a filesystem path, a file:// URL or an http(s):// URL.
	Image string
	// Text is the caption drawn under the plane.
	Text string
	// Description is optional longer text shown on the overlay card.
	Description string
	// Year is optional; numeric years are normalized to their decimal string by the manifest reader.
	Year string
}

// Prop defaults used when the corresponding Props field is unset.
const (
	DefaultBend         float32 = 3
	DefaultBorderRadius float32 = 0.05
	DefaultFont                 = "bold 30px Figtree"
	DefaultScrollSpeed  float32 = 2
	DefaultScrollEase   float32 = 0.05
)

// DefaultTextColor is the caption color used when Props.TextColor is the zero value.
var DefaultTextColor = color.NRGBA{R: 255, G: 255, B: 255, A: 255}

// Props are the construction parameters of a gallery scene.
//
// Bend and BorderRadius are used as given, including zero. The remaining fields fall back to their
// defaults when left at the zero value.
type Props struct {
	// Items is the ordered list of entries. Empty means PlaceholderItems.
	Items []GalleryItem

	// Bend is the signed curvature of the belt; 0 is flat.
	Bend float32
	// TextColor is the caption color.
	TextColor color.NRGBA
	// Font is a CSS-like font shorthand such as "bold 30px Figtree".
	Font string
	// BorderRadius is the rounded-mask radius in uv units, clamped to [0, 0.5].
	BorderRadius float32
	// ScrollSpeed scales drag and wheel input.
	ScrollSpeed float32
	// ScrollEase is the fraction of the remaining scroll distance covered per tick.
	ScrollEase float32

	// OnItemSelect is called after an item is selected, with its index in the doubled sequence and
	// its projected screen position in logical pixels.
	OnItemSelect func(index int, item GalleryItem, screenX, screenY float32)
	// OnItemMove is called every tick while an item is selected.
	OnItemMove func(screenX, screenY float32)
	// OnItemDeselect is called after the selection is cleared.
	OnItemDeselect func()
}

// DefaultProps returns Props with every default applied and no items.
func DefaultProps() Props {
	return Props{
		Bend:         DefaultBend,
		TextColor:    DefaultTextColor,
		Font:         DefaultFont,
		BorderRadius: DefaultBorderRadius,
		ScrollSpeed:  DefaultScrollSpeed,
		ScrollEase:   DefaultScrollEase,
	}
}

func (p Props) withDefaults() Props {
	if p.TextColor == (color.NRGBA{}) {
		p.TextColor = DefaultTextColor
	}
	if p.Font == "" {
		p.Font = DefaultFont
	}
	if p.ScrollSpeed <= 0 {
		p.ScrollSpeed = DefaultScrollSpeed
	}
	if p.ScrollEase <= 0 || p.ScrollEase > 1 {
		p.ScrollEase = DefaultScrollEase
	}
	return p
}

var placeholderSeeds = []int{1, 2, 3, 4, 5, 16, 17, 8, 9, 10, 21, 12}

var placeholderLabels = []string{
	"Bridge", "Desk Setup", "Waterfall", "Strawberries", "Deep Diving", "Train Track",
	"Santorini", "Blurry Lights", "New York", "Good Boy", "Coastline", "Palm Trees",
}

// PlaceholderItems returns the built-in sequence shown when no items are supplied.
func PlaceholderItems() []GalleryItem {
	items := make([]GalleryItem, len(placeholderSeeds))
	for i, seed := range placeholderSeeds {
		items[i] = GalleryItem{
			Image: "https://picsum.photos/seed/" + strconv.Itoa(seed) + "/800/600?grayscale",
			Text:  placeholderLabels[i],
		}
	}
	return items
}

// doubled returns items followed by a copy of itself, falling back to the placeholders.
func doubled(items []GalleryItem) []GalleryItem {
	if len(items) == 0 {
		items = PlaceholderItems()
	}
	out := make([]GalleryItem, 0, 2*len(items))
	out = append(out, items...)
	return append(out, items...)
}
