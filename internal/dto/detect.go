package dto

// DetectionResult is one labeled bounding box with a confidence score.
type DetectionResult struct {
	Label      string  `json:"label"`
	X          int     `json:"x"`
	Y          int     `json:"y"`
	Width      int     `json:"width"`
	Height     int     `json:"height"`
	Confidence float64 `json:"confidence"`
}

// DetectRequest carries a base64-encoded image to the worker.
type DetectRequest struct {
	Image     string `json:"image"`
	ImagePath string `json:"image_path,omitempty"`
}

// DetectResponse is the worker's reply: detections plus the annotated image.
// Count always equals len(Objects).
type DetectResponse struct {
	Filename string            `json:"filename"`
	Objects  []DetectionResult `json:"objects"`
	Count    int               `json:"count"`
	Image    string            `json:"image"`
}
