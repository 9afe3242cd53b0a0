package game

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

// defaultSnapshotName suggests a file name for a frame captured at t.
func defaultSnapshotName(t time.Time) string {
	return "particle-field-" + t.Format("20060102-150405") + ".png"
}

// ensurePNG appends .png unless path already ends with it.
func ensurePNG(path string) string {
	if strings.EqualFold(filepath.Ext(path), ".png") {
		return path
	}
	return path + ".png"
}

// encodePNG writes premultiplied RGBA pixels as a PNG.
func encodePNG(w io.Writer, pix []byte, width, height int) error {
	if len(pix) != 4*width*height {
		return fmt.Errorf("snapshot: %d bytes for %dx%d pixels", len(pix), width, height)
	}
	img := &image.RGBA{Pix: pix, Stride: 4 * width, Rect: image.Rect(0, 0, width, height)}
	return png.Encode(w, img)
}

// writeSnapshot saves the current contents of src to path.
func writeSnapshot(src *ebiten.Image, path string) (err error) {
	b := src.Bounds()
	pix := make([]byte, 4*b.Dx()*b.Dy())
	src.ReadPixels(pix)

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("snapshot: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("snapshot: %w", cerr)
		}
	}()
	if err := encodePNG(f, pix, b.Dx(), b.Dy()); err != nil {
		return fmt.Errorf("snapshot %s: %w", path, err)
	}
	return nil
}
