package dto

// SaveResultsRequest asks the gateway to persist a prior detection result.
type SaveResultsRequest struct {
	Result   DetectResponse `json:"result"`
	Filename string         `json:"filename"`
}

// SaveResultsResponse lists the files written to the output directory.
type SaveResultsResponse struct {
	Success bool     `json:"success"`
	Files   []string `json:"files"`
	Message string   `json:"message"`
}
