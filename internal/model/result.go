package model

import "time"

// Result records one processed detect request.
type Result struct {
	ID        int64     `json:"id"`
	Filename  string    `json:"filename"`
	Count     int       `json:"count"`
	CreatedAt time.Time `json:"created_at"`
}

// Detection is one stored bounding box belonging to a Result.
type Detection struct {
	ID         int64   `json:"id"`
	ResultID   int64   `json:"result_id"`
	Label      string  `json:"label"`
	X          int     `json:"x"`
	Y          int     `json:"y"`
	Width      int     `json:"width"`
	Height     int     `json:"height"`
	Confidence float64 `json:"confidence"`
}
