package wordcloud

import (
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"io"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// Render draws the layout onto a new RGBA image.
func (l *Layout) Render() (*image.RGBA, error) {
	img := image.NewRGBA(image.Rect(0, 0, l.Width, l.Height))
	draw.Draw(img, img.Bounds(), image.NewUniform(l.Background), image.Point{}, draw.Src)

	if len(l.Words) == 0 {
		return img, nil
	}

	faces, err := newFaceCache()
	if err != nil {
		return nil, err
	}
	defer faces.close()

	for _, p := range l.Words {
		face, err := faces.face(p.FontSize)
		if err != nil {
			return nil, err
		}
		d := &font.Drawer{
			Dst:  img,
			Src:  image.NewUniform(p.Color),
			Face: face,
			Dot:  fixed.P(p.X, p.Y+p.Ascent),
		}
		d.DrawString(p.Text)
	}
	return img, nil
}

// EncodePNG renders the layout and writes it as PNG.
func EncodePNG(w io.Writer, l *Layout) error {
	img, err := l.Render()
	if err != nil {
		return err
	}
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("failed to encode word cloud: %w", err)
	}
	return nil
}
