// Package common contains small shared types and helpers used throughout the gallery engine. They are not
// interface-wrapped structs, just plain structs and functions that express commonly used data.
package common

import (
	"image"
	"image/draw"

	"github.com/cogentcore/webgpu/wgpu"
)

// TextureStagingData holds RGBA pixel data for a texture binding pending GPU upload.
// The BindGroupProvider consumes it to create the GPU texture and bind group.
type TextureStagingData struct {
	// Pixels is the RGBA8 pixel data, 4 bytes per pixel, row-major, top row first.
	Pixels []byte
	// Width is the width of the texture in pixels.
	Width uint32
	// Height is the height of the texture in pixels.
	Height uint32
}

// BlankTexture returns a 1x1 fully transparent texture. It stands in for images that are still loading,
// failed to decode, or captions that could not be rasterized.
//
// Returns:
//   - TextureStagingData: the blank texture
func BlankTexture() TextureStagingData {
	return TextureStagingData{Pixels: []byte{0, 0, 0, 0}, Width: 1, Height: 1}
}

// TextureFromImage converts any image into straight-alpha RGBA staging data, matching the
// src-alpha blend state of the gallery pipelines. Images that are already *image.NRGBA with
// a zero origin and tight stride are used without copying.
//
// Parameters:
//   - img: the source image
//
// Returns:
//   - TextureStagingData: the converted texture
func TextureFromImage(img image.Image) TextureStagingData {
	b := img.Bounds()
	if nrgba, ok := img.(*image.NRGBA); ok && b.Min == (image.Point{}) && nrgba.Stride == b.Dx()*4 {
		return TextureStagingData{Pixels: nrgba.Pix, Width: uint32(b.Dx()), Height: uint32(b.Dy())}
	}
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return TextureStagingData{Pixels: dst.Pix, Width: uint32(b.Dx()), Height: uint32(b.Dy())}
}

// SamplerStagingData holds the configuration for a sampler binding pending GPU creation.
// Zero values fall back to linear filtering with repeat addressing.
type SamplerStagingData struct {
	// AddressModeU, AddressModeV, AddressModeW specify the addressing mode outside the [0, 1] range.
	AddressModeU, AddressModeV, AddressModeW wgpu.AddressMode
	// MagFilter and MinFilter specify the filtering mode for magnification and minification.
	MagFilter, MinFilter wgpu.FilterMode
	// MipmapFilter specifies the filtering mode for mipmap level selection.
	MipmapFilter wgpu.MipmapFilterMode
	// LodMinClamp and LodMaxClamp specify the level of detail range.
	LodMinClamp, LodMaxClamp float32
	// MaxAnisotropy specifies the maximum anisotropy level.
	MaxAnisotropy uint16
}

// ClampSampler is the sampler used for gallery images and captions. Edge clamping keeps the cover-fit
// UV transform from bleeding the opposite edge into the frame.
var ClampSampler = SamplerStagingData{
	AddressModeU: wgpu.AddressModeClampToEdge,
	AddressModeV: wgpu.AddressModeClampToEdge,
	AddressModeW: wgpu.AddressModeClampToEdge,
}
