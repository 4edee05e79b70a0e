package staging

import (
	"bytes"
	"image"
	"image/jpeg"
	"image/png"

	"golang.org/x/image/draw"
)

const jpegQuality = 85

// Shrink downscales JPEG and PNG data so neither side exceeds maxDim,
// keeping the original format. Anything that is not a decodable JPEG or
// PNG, or already fits, is returned unchanged.
func Shrink(data []byte, maxDim int) []byte {
	if maxDim <= 0 {
		return data
	}
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil || (format != "jpeg" && format != "png") {
		return data
	}
	if cfg.Width <= maxDim && cfg.Height <= maxDim {
		return data
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return data
	}
	scaled := downscale(img, maxDim)

	var buf bytes.Buffer
	switch format {
	case "jpeg":
		err = jpeg.Encode(&buf, scaled, &jpeg.Options{Quality: jpegQuality})
	default:
		err = png.Encode(&buf, scaled)
	}
	if err != nil {
		return data
	}
	return buf.Bytes()
}

func downscale(img image.Image, maxDim int) image.Image {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	newW, newH := w, h
	if w > h {
		newW = maxDim
		newH = int(float64(h) * float64(maxDim) / float64(w))
	} else {
		newH = maxDim
		newW = int(float64(w) * float64(maxDim) / float64(h))
	}
	newW = max(newW, 1)
	newH = max(newH, 1)

	dst := image.NewRGBA(image.Rect(0, 0, newW, newH))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return dst
}
