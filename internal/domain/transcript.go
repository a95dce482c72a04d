package domain

import "time"

type TranscriptKind string

const (
	TranscriptSpoken      TranscriptKind = "spoken"
	TranscriptTranslation TranscriptKind = "translation"
)

// TranscriptEvent is one utterance (or its translation) inside a room.
// Append-only; never mutated after creation.
type TranscriptEvent struct {
	RoomID     RoomID         `json:"roomId"`
	Sender     string         `json:"sender"`
	Kind       TranscriptKind `json:"kind"`
	Text       string         `json:"text"`
	Timestamp  time.Time      `json:"timestamp"`
	SourceLang string         `json:"sourceLang,omitempty"`
	TargetLang string         `json:"targetLang,omitempty"`
}
