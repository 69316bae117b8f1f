package system

import (
	"image"
	"sync"
)

// surfacePools reuses fixed-size *image.RGBA surfaces between render ticks
// to keep the compose loop off the allocator. One pool per surface size.
var surfacePools sync.Map

type poolKey struct {
	w, h int
}

// GetImage returns a pooled surface of the given size, allocating one when
// the pool is empty. Contents are whatever the last user left; callers
// clear before drawing.
func GetImage(rect image.Rectangle) *image.RGBA {
	key := poolKey{w: rect.Dx(), h: rect.Dy()}
	v, _ := surfacePools.LoadOrStore(key, &sync.Pool{
		New: func() any {
			return image.NewRGBA(image.Rect(0, 0, key.w, key.h))
		},
	})
	return v.(*sync.Pool).Get().(*image.RGBA)
}

// PutImage returns a surface to its size pool.
func PutImage(img *image.RGBA) {
	if img == nil {
		return
	}
	key := poolKey{w: img.Rect.Dx(), h: img.Rect.Dy()}
	if v, ok := surfacePools.Load(key); ok {
		v.(*sync.Pool).Put(img)
	}
}
