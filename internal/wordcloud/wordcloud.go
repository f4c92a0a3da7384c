// Package wordcloud lays out frequency-weighted words on a canvas and renders
// the result as an image.
package wordcloud

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"
	"sort"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
)

// Word is one token with its frequency.
type Word struct {
	Text  string `json:"text"`
	Count int    `json:"count"`
}

// Options controls the canvas and the font scaling.
type Options struct {
	Width           int
	Height          int
	MinFontSize     int
	MaxFontSize     int
	MaxWords        int
	RelativeScaling float64
	Background      string
	Palette         []string
}

// DefaultOptions mirrors a 500x500 white canvas with a 10pt minimum font.
func DefaultOptions() Options {
	return Options{
		Width:           500,
		Height:          500,
		MinFontSize:     10,
		MaxFontSize:     80,
		MaxWords:        200,
		RelativeScaling: 0.5,
		Background:      "#ffffff",
		Palette:         []string{"#440154", "#3b528b", "#21918c", "#5ec962", "#d1a000", "#7b2d8e"},
	}
}

// Placement is a word positioned on the canvas. X and Y are the top-left
// corner of its bounding box; Ascent is the baseline offset inside the box.
type Placement struct {
	Text     string     `json:"text"`
	Count    int        `json:"count"`
	FontSize int        `json:"font_size"`
	X        int        `json:"x"`
	Y        int        `json:"y"`
	Width    int        `json:"width"`
	Height   int        `json:"height"`
	Ascent   int        `json:"ascent"`
	Color    color.RGBA `json:"-"`
}

// Layout is the image-ready word cloud.
type Layout struct {
	Width      int         `json:"width"`
	Height     int         `json:"height"`
	Background color.RGBA  `json:"-"`
	Words      []Placement `json:"words"`
}

// ErrInvalidColor is returned for colors that are not #rgb or #rrggbb.
var ErrInvalidColor = errors.New("invalid hex color")

var loadFont = sync.OnceValues(func() (*sfnt.Font, error) {
	return opentype.Parse(goregular.TTF)
})

// faceCache keeps one face per font size for the duration of a build or render.
type faceCache struct {
	font  *sfnt.Font
	faces map[int]font.Face
}

func newFaceCache() (*faceCache, error) {
	f, err := loadFont()
	if err != nil {
		return nil, fmt.Errorf("failed to load font: %w", err)
	}
	return &faceCache{font: f, faces: make(map[int]font.Face)}, nil
}

func (c *faceCache) face(size int) (font.Face, error) {
	if face, ok := c.faces[size]; ok {
		return face, nil
	}
	face, err := opentype.NewFace(c.font, &opentype.FaceOptions{
		Size:    float64(size),
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create %dpt face: %w", size, err)
	}
	c.faces[size] = face
	return face, nil
}

func (c *faceCache) close() {
	for _, face := range c.faces {
		_ = face.Close()
	}
}

// Build places the most frequent words first along an Archimedean spiral
// starting at the canvas center. The font size is carried from word to word
// and scaled by the frequency ratio to the previous word, so sizes never
// grow. A word that does not fit is retried one point smaller; a word that
// does not fit at the minimum size is left out. The result only depends on
// its inputs.
func Build(words []Word, opts Options) (*Layout, error) {
	opts = withDefaults(opts)

	bg, err := ParseHexColor(opts.Background)
	if err != nil {
		return nil, err
	}
	palette := make([]color.RGBA, 0, len(opts.Palette))
	for _, p := range opts.Palette {
		c, err := ParseHexColor(p)
		if err != nil {
			return nil, err
		}
		palette = append(palette, c)
	}
	if len(palette) == 0 {
		palette = append(palette, color.RGBA{A: 0xff})
	}

	layout := &Layout{Width: opts.Width, Height: opts.Height, Background: bg}

	ranked := make([]Word, 0, len(words))
	for _, w := range words {
		if w.Count > 0 && strings.TrimSpace(w.Text) != "" {
			ranked = append(ranked, w)
		}
	}
	if len(ranked) == 0 {
		return layout, nil
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Count > ranked[j].Count })
	if len(ranked) > opts.MaxWords {
		ranked = ranked[:opts.MaxWords]
	}

	faces, err := newFaceCache()
	if err != nil {
		return nil, err
	}
	defer faces.close()

	grid := newOccupancy(opts.Width, opts.Height)
	size := opts.MaxFontSize
	lastCount := ranked[0].Count
	for i, w := range ranked {
		ratio := float64(w.Count) / float64(lastCount)
		lastCount = w.Count
		size = int(math.Round((opts.RelativeScaling*ratio + 1 - opts.RelativeScaling) * float64(size)))
		size = max(size, opts.MinFontSize)

		for ; size >= opts.MinFontSize; size-- {
			face, err := faces.face(size)
			if err != nil {
				return nil, err
			}
			metrics := face.Metrics()
			width := font.MeasureString(face, w.Text).Ceil()
			height := (metrics.Ascent + metrics.Descent).Ceil()
			if width > opts.Width || height > opts.Height {
				continue
			}

			x, y, ok := grid.findSpot(width, height)
			if !ok {
				continue
			}
			grid.fill(x, y, width, height)
			layout.Words = append(layout.Words, Placement{
				Text:     w.Text,
				Count:    w.Count,
				FontSize: size,
				X:        x,
				Y:        y,
				Width:    width,
				Height:   height,
				Ascent:   metrics.Ascent.Ceil(),
				Color:    palette[i%len(palette)],
			})
			break
		}
		size = max(size, opts.MinFontSize)
	}
	return layout, nil
}

// occupancy tracks the covered pixels of the canvas with a summed-area
// table, so testing a rectangle for free space is constant time.
type occupancy struct {
	width, height int
	used          []bool
	sums          []int32 // (width+1) x (height+1), row-major
}

func newOccupancy(width, height int) *occupancy {
	return &occupancy{
		width:  width,
		height: height,
		used:   make([]bool, width*height),
		sums:   make([]int32, (width+1)*(height+1)),
	}
}

func (o *occupancy) sum(x, y int) int32 {
	return o.sums[y*(o.width+1)+x]
}

func (o *occupancy) free(x, y, w, h int) bool {
	return o.sum(x+w, y+h)-o.sum(x, y+h)-o.sum(x+w, y)+o.sum(x, y) == 0
}

// fill marks the rectangle as used and rebuilds the table rows below it.
func (o *occupancy) fill(x, y, w, h int) {
	for row := y; row < y+h; row++ {
		for col := x; col < x+w; col++ {
			o.used[row*o.width+col] = true
		}
	}
	stride := o.width + 1
	for row := y; row < o.height; row++ {
		var line int32
		for col := 0; col < o.width; col++ {
			if o.used[row*o.width+col] {
				line++
			}
			o.sums[(row+1)*stride+col+1] = o.sums[row*stride+col+1] + line
		}
	}
}

// findSpot walks the spiral outward from the centered position in steps of
// about one pixel of arc and returns the first free top-left corner.
func (o *occupancy) findSpot(w, h int) (int, int, bool) {
	const spacing = 1.0 // radius gained per radian
	cx := float64(o.width-w) / 2
	cy := float64(o.height-h) / 2
	maxRadius := math.Hypot(cx, cy) + 1

	for theta := 0.0; ; {
		r := spacing * theta
		if r > maxRadius {
			return 0, 0, false
		}
		x := int(math.Round(cx + r*math.Cos(theta)))
		y := int(math.Round(cy + r*math.Sin(theta)))
		if x >= 0 && y >= 0 && x+w <= o.width && y+h <= o.height && o.free(x, y, w, h) {
			return x, y, true
		}
		theta += 1 / math.Hypot(r, spacing)
	}
}

// Bounds returns the bounding box of the placed word.
func (p Placement) Bounds() image.Rectangle {
	return image.Rect(p.X, p.Y, p.X+p.Width, p.Y+p.Height)
}

func withDefaults(opts Options) Options {
	def := DefaultOptions()
	if opts.Width <= 0 {
		opts.Width = def.Width
	}
	if opts.Height <= 0 {
		opts.Height = def.Height
	}
	if opts.MinFontSize <= 0 {
		opts.MinFontSize = def.MinFontSize
	}
	if opts.MaxFontSize < opts.MinFontSize {
		opts.MaxFontSize = max(def.MaxFontSize, opts.MinFontSize)
	}
	if opts.MaxWords <= 0 {
		opts.MaxWords = def.MaxWords
	}
	if opts.RelativeScaling <= 0 || opts.RelativeScaling > 1 {
		opts.RelativeScaling = def.RelativeScaling
	}
	if opts.Background == "" {
		opts.Background = def.Background
	}
	if len(opts.Palette) == 0 {
		opts.Palette = def.Palette
	}
	return opts
}

// ParseHexColor parses "#rgb" or "#rrggbb" into an opaque color.
func ParseHexColor(s string) (color.RGBA, error) {
	hex := strings.TrimPrefix(s, "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return color.RGBA{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
}
