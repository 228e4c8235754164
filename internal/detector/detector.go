package detector

import "errors"

// ErrDecode means the payload bytes could not be decoded as an image.
var ErrDecode = errors.New("undecodable image data")

// Detection is one object found by the model, in pixel coordinates.
type Detection struct {
	Label      string
	Confidence float64
	X          int
	Y          int
	Width      int
	Height     int
}

// Detector runs a pretrained object-detection model over encoded image bytes.
type Detector interface {
	// Detect returns all objects above the configured confidence threshold.
	Detect(imageData []byte) ([]Detection, error)

	// Annotate draws rectangles and labels over the image and re-encodes it as PNG.
	Annotate(imageData []byte, detections []Detection) ([]byte, error)

	// Close releases the loaded network.
	Close()
}
