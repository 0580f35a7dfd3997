package model

import (
	"path/filepath"
	"strings"

	"github.com/capgarrick/deepfake-detector/internal/domain"
)

type MediaKind string

const (
	MediaVideo MediaKind = "video"
	MediaAudio MediaKind = "audio"
)

// MaxUploadBytes caps uploads at 100 MiB, matching the backend limit.
const MaxUploadBytes int64 = 100 << 20

var videoExts = map[string]bool{
	".mp4": true, ".avi": true, ".mov": true, ".mkv": true, ".webm": true,
}

var audioExts = map[string]bool{
	".mp3": true, ".wav": true, ".ogg": true, ".flac": true, ".m4a": true,
}

// ClassifyMedia decides the media kind from the filename extension or, when
// the extension is unknown, the declared MIME type. Extensions are matched
// case-insensitively.
func ClassifyMedia(name, declaredMIME string) (MediaKind, error) {
	ext := strings.ToLower(filepath.Ext(name))
	switch {
	case videoExts[ext]:
		return MediaVideo, nil
	case audioExts[ext]:
		return MediaAudio, nil
	}
	mt := strings.ToLower(declaredMIME)
	switch {
	case strings.HasPrefix(mt, "video/"):
		return MediaVideo, nil
	case strings.HasPrefix(mt, "audio/"):
		return MediaAudio, nil
	}
	return "", domain.ErrUnsupportedMedia
}

// UploadCandidate is a validated file waiting for analysis. Exactly one may
// be active per workflow at a time.
type UploadCandidate struct {
	Name      string
	Path      string
	Kind      MediaKind
	SizeBytes int64
}

// NewUploadCandidate classifies and validates a picked file. The candidate
// keeps the path, not an open handle; the upload opens it at submit time.
func NewUploadCandidate(path, declaredMIME string, size int64) (*UploadCandidate, error) {
	name := filepath.Base(path)
	kind, err := ClassifyMedia(name, declaredMIME)
	if err != nil {
		return nil, err
	}
	if size > MaxUploadBytes {
		return nil, domain.ErrFileTooLarge
	}
	return &UploadCandidate{Name: name, Path: path, Kind: kind, SizeBytes: size}, nil
}

// AllowedTypes lists the analysis pipelines valid for this candidate. Audio
// files carry no video track so they only ever run the audio pipeline; the
// backend extracts the audio track from video files, so those may run any.
func (c *UploadCandidate) AllowedTypes() []AnalysisType {
	if c.Kind == MediaAudio {
		return []AnalysisType{AnalysisAudio}
	}
	return []AnalysisType{AnalysisFull, AnalysisVideo, AnalysisAudio}
}

// DefaultType is the pipeline preselected on acceptance.
func (c *UploadCandidate) DefaultType() AnalysisType {
	if c.Kind == MediaAudio {
		return AnalysisAudio
	}
	return AnalysisFull
}
