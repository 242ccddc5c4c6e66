package export

import (
	"io"
	"os"
	"path/filepath"

	"github.com/anthonynsimon/bild/imgio"
	"github.com/anthonynsimon/bild/transform"
	"github.com/pkg/errors"

	"github.com/Faultbox/propforge/pkg/texture"
)

// EncodePNG writes bm to w as an RGBA PNG.
func EncodePNG(w io.Writer, bm *texture.Bitmap) error {
	if bm == nil {
		return errors.New("export: nil bitmap")
	}
	return errors.Wrap(imgio.PNGEncoder()(w, bm.Image()), "encoding png")
}

// SavePNG writes bm to path, scaled to size×size when size is positive and
// differs from the bitmap. Scaling honours the bitmap's filter mode.
func SavePNG(bm *texture.Bitmap, path string, size int) error {
	if bm == nil {
		return errors.New("export: nil bitmap")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrap(err, "creating export directory")
	}

	img := bm.Image()
	if size > 0 && (size != bm.Width || size != bm.Height) {
		filter := transform.Linear
		if bm.Filter == texture.FilterPoint {
			filter = transform.NearestNeighbor
		}
		return errors.Wrapf(imgio.Save(path, transform.Resize(img, size, size, filter), imgio.PNGEncoder()), "saving %s", path)
	}
	return errors.Wrapf(imgio.Save(path, img, imgio.PNGEncoder()), "saving %s", path)
}
