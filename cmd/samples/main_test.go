package main

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gopaljadhavv/ai-microservices-docker/internal/dto"
)

func TestWriteSummary_EmptyRunWritesArray(t *testing.T) {
	dir := t.TempDir()

	require.NoError(t, writeSummary(dir, nil))

	data, err := os.ReadFile(filepath.Join(dir, "summary.json"))
	require.NoError(t, err)
	require.JSONEq(t, `[]`, string(data))
}

func TestWriteSummary_Entries(t *testing.T) {
	dir := t.TempDir()

	require.NoError(t, writeSummary(dir, []summaryEntry{{File: "dog.jpg", Count: 2}}))

	data, err := os.ReadFile(filepath.Join(dir, "summary.json"))
	require.NoError(t, err)
	require.JSONEq(t, `[{"file":"dog.jpg","count":2}]`, string(data))
}

func TestSaveOutputs(t *testing.T) {
	dir := t.TempDir()

	resp := &dto.DetectResponse{
		Filename: "dog.jpg",
		Objects:  []dto.DetectionResult{{Label: "dog", Confidence: 0.9}},
		Count:    1,
		Image:    base64.StdEncoding.EncodeToString([]byte("png-bytes")),
	}
	require.NoError(t, saveOutputs(dir, "dog.jpg", resp))

	data, err := os.ReadFile(filepath.Join(dir, "dog_results.json"))
	require.NoError(t, err)
	require.Contains(t, string(data), `"dog"`)

	img, err := os.ReadFile(filepath.Join(dir, "dog_detected.png"))
	require.NoError(t, err)
	require.Equal(t, []byte("png-bytes"), img)
}
