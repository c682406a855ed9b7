package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"log/slog"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"

	apperrors "github.com/nurturemyplants/plantcare/pkg/errors"
)

// Config bounds what the preprocessor accepts and how it re-encodes.
type Config struct {
	MaxSizeBytes int64
	MaxEdge      int
	JPEGQuality  int
}

// Processed is the normalized image handed to the identification pipeline.
type Processed struct {
	Data   []byte
	MIME   string
	Width  int
	Height int
}

// Preprocessor validates uploads and downsizes them before they are sent to
// the remote model. It never touches the network.
type Preprocessor struct {
	cfg    Config
	logger *slog.Logger
}

// NewPreprocessor constructs a preprocessor.
func NewPreprocessor(cfg Config, logger *slog.Logger) *Preprocessor {
	return &Preprocessor{cfg: cfg, logger: logger.With("component", "imaging.preprocessor")}
}

var allowedFormats = map[string]string{
	"jpeg": "image/jpeg",
	"png":  "image/png",
	"webp": "image/webp",
}

// Process validates the raw bytes, scales the image so the longer edge does
// not exceed MaxEdge (aspect ratio preserved) and re-encodes it. WebP inputs
// come back as JPEG: Go has no webp encoder.
func (p *Preprocessor) Process(data []byte) (Processed, error) {
	if len(data) == 0 {
		return Processed{}, apperrors.Wrap("invalid_input", "image data is empty", nil)
	}
	if int64(len(data)) > p.cfg.MaxSizeBytes {
		return Processed{}, apperrors.Wrap("invalid_input",
			fmt.Sprintf("image exceeds the %d byte limit", p.cfg.MaxSizeBytes), nil)
	}

	src, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return Processed{}, apperrors.Wrap("invalid_input", "image could not be decoded", err)
	}
	if _, ok := allowedFormats[format]; !ok {
		return Processed{}, apperrors.Wrap("invalid_input",
			fmt.Sprintf("unsupported image type %q, use JPEG, PNG or WebP", format), nil)
	}

	bounds := src.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	outW, outH := fitWithin(width, height, p.cfg.MaxEdge)
	if outW != width || outH != height {
		dst := image.NewRGBA(image.Rect(0, 0, outW, outH))
		draw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, draw.Over, nil)
		src = dst
		p.logger.Debug("image downsized", "from_width", width, "from_height", height,
			"to_width", outW, "to_height", outH)
	}

	encoded, mime, err := p.encode(src, format)
	if err != nil {
		return Processed{}, apperrors.Wrap("invalid_input", "image re-encoding failed", err)
	}

	return Processed{Data: encoded, MIME: mime, Width: outW, Height: outH}, nil
}

func (p *Preprocessor) encode(img image.Image, format string) ([]byte, string, error) {
	var buf bytes.Buffer
	switch format {
	case "png":
		if err := png.Encode(&buf, img); err != nil {
			return nil, "", err
		}
		return buf.Bytes(), "image/png", nil
	default:
		// jpeg and webp both re-encode as jpeg at the configured quality.
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: p.cfg.JPEGQuality}); err != nil {
			return nil, "", err
		}
		return buf.Bytes(), "image/jpeg", nil
	}
}

// fitWithin computes output dimensions with the longer edge capped at maxEdge.
func fitWithin(width, height, maxEdge int) (int, int) {
	longer := width
	if height > width {
		longer = height
	}
	if longer <= maxEdge {
		return width, height
	}
	if width >= height {
		scaled := (height*maxEdge + width/2) / width
		return maxEdge, max(scaled, 1)
	}
	scaled := (width*maxEdge + height/2) / height
	return max(scaled, 1), maxEdge
}
