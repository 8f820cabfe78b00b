// Package render caches decoded images by asset key for the draw pass.
package render

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/linkpage/assets"
)

var (
	images  = map[string]*ebiten.Image{}
	missing = map[string]error{}
)

// RegisterImage stores an image by key.
func RegisterImage(key string, img *ebiten.Image) {
	if key == "" || img == nil {
		return
	}
	images[key] = img
	delete(missing, key)
}

// GetImage returns a cached image by key.
func GetImage(key string) *ebiten.Image {
	if key == "" {
		return nil
	}
	return images[key]
}

// LoadImage returns the cached image for key, loading it from assets on first
// use. A failed load is remembered so the draw loop does not retry it every
// frame; ResetImages clears that.
func LoadImage(key string) (*ebiten.Image, error) {
	if key == "" {
		return nil, fmt.Errorf("empty image key")
	}
	if img := GetImage(key); img != nil {
		return img, nil
	}
	if err, ok := missing[key]; ok {
		return nil, err
	}
	img, err := assets.LoadImage(key)
	if err != nil {
		missing[key] = err
		return nil, err
	}
	RegisterImage(key, img)
	return img, nil
}

// ResetImages drops every cached image and remembered failure.
func ResetImages() {
	images = map[string]*ebiten.Image{}
	missing = map[string]error{}
}
