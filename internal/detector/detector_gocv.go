//go:build gocv
// +build gocv

package detector

import (
	"fmt"
	"image"
	"image/color"
	"os"
	"sync"

	"gocv.io/x/gocv"

	"github.com/gopaljadhavv/ai-microservices-docker/internal/config"
	"github.com/gopaljadhavv/ai-microservices-docker/internal/logger"
)

// DNNDetector runs an SSD MobileNet network loaded through OpenCV's DNN module.
// The network is loaded once at startup and guarded by a mutex across requests.
type DNNDetector struct {
	net       gocv.Net
	threshold float64
	mu        sync.Mutex
	logger    *logger.Logger
}

// NewDNNDetector loads the network from the configured model and config files.
// When loading fails the detector is still returned; Detect reports the error
// per request so /health stays reachable.
func NewDNNDetector(cfg *config.Config, logger *logger.Logger) *DNNDetector {
	d := &DNNDetector{
		threshold: cfg.ConfidenceThreshold,
		logger:    logger,
	}

	if err := d.initializeNet(cfg.ModelPath, cfg.ConfigPath); err != nil {
		d.logger.Warning("Could not initialize detection network: %v", err)
		return d
	}

	return d
}

// initializeNet loads the DNN network and sets backend/target preferences.
func (d *DNNDetector) initializeNet(modelPath, configPath string) error {
	if _, err := os.Stat(modelPath); os.IsNotExist(err) {
		return fmt.Errorf("model file not found: %s", modelPath)
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return fmt.Errorf("config file not found: %s", configPath)
	}

	net := gocv.ReadNet(modelPath, configPath)

	if net.Empty() {
		return fmt.Errorf("failed to load network")
	}
	errBackend := net.SetPreferableBackend(gocv.NetBackendDefault)
	errTarget := net.SetPreferableTarget(gocv.NetTargetCPU)

	if errBackend != nil || errTarget != nil {
		return fmt.Errorf("failed to set preferable backend or target")
	}

	d.net = net
	d.logger.Info("Detection network initialized successfully")
	return nil
}

// Detect runs the DNN on the image and returns detections above the confidence threshold.
func (d *DNNDetector) Detect(imageData []byte) ([]Detection, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.net.Empty() {
		return nil, fmt.Errorf("detection network not initialized")
	}

	mat, err := gocv.IMDecode(imageData, gocv.IMReadColor)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	defer mat.Close()

	if mat.Empty() {
		return nil, ErrDecode
	}

	// Blob parameters match the SSD MobileNet COCO input.
	blob := gocv.BlobFromImage(mat, 1.0/127.5, image.Pt(300, 300), gocv.NewScalar(127.5, 127.5, 127.5, 0), true, false)
	defer blob.Close()

	d.net.SetInput(blob, "")

	output := d.net.Forward("")
	defer output.Close()

	var results []Detection

	// Output rows are [batch_id, class_id, confidence, x1, y1, x2, y2].
	outputReshaped := output.Reshape(1, output.Total()/7)
	defer outputReshaped.Close()
	for i := 0; i < outputReshaped.Rows(); i++ {
		confidence := float64(outputReshaped.GetFloatAt(i, 2))
		if confidence > d.threshold {
			classID := int(outputReshaped.GetFloatAt(i, 1))
			x := int(outputReshaped.GetFloatAt(i, 3) * float32(mat.Cols()))
			y := int(outputReshaped.GetFloatAt(i, 4) * float32(mat.Rows()))
			width := int(outputReshaped.GetFloatAt(i, 5)*float32(mat.Cols())) - x
			height := int(outputReshaped.GetFloatAt(i, 6)*float32(mat.Rows())) - y

			results = append(results, Detection{
				Label:      classLabel(classID),
				Confidence: confidence,
				X:          x,
				Y:          y,
				Width:      width,
				Height:     height,
			})
			d.logger.Info("Detected %s (%.2f)", classLabel(classID), confidence)
		}
	}

	return results, nil
}

// Annotate draws detection rectangles and labels on the image and returns a PNG buffer.
func (d *DNNDetector) Annotate(imageData []byte, detections []Detection) ([]byte, error) {
	red := color.RGBA{R: 255, G: 0, B: 0, A: 0}

	mat, err := gocv.IMDecode(imageData, gocv.IMReadColor)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	defer mat.Close()

	if mat.Empty() {
		return nil, ErrDecode
	}

	for _, detection := range detections {
		rect := image.Rect(detection.X, detection.Y, detection.X+detection.Width, detection.Y+detection.Height)
		if err := gocv.Rectangle(&mat, rect, red, 2); err != nil {
			return nil, fmt.Errorf("failed to draw rectangle: %v", err)
		}

		label := fmt.Sprintf("%s (%.2f)", detection.Label, detection.Confidence)
		pt := image.Pt(detection.X, detection.Y-5)
		if err := gocv.PutText(&mat, label, pt, gocv.FontHersheySimplex, 0.5, red, 1); err != nil {
			return nil, fmt.Errorf("failed to draw text: %v", err)
		}
	}

	buf, err := gocv.IMEncode(".png", mat)
	if err != nil {
		return nil, fmt.Errorf("failed to encode image: %v", err)
	}
	defer buf.Close()

	annotated := make([]byte, len(buf.GetBytes()))
	copy(annotated, buf.GetBytes())

	return annotated, nil
}

// Close releases the loaded network.
func (d *DNNDetector) Close() {
	if !d.net.Empty() {
		d.net.Close()
	}
}

var _ Detector = (*DNNDetector)(nil)
