package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// MediaKind represents the kind of a timeline media entry
type MediaKind string

const (
	KindPhoto MediaKind = "photo"
	KindVideo MediaKind = "video"
	KindGIF   MediaKind = "gif"
)

// ValidateKind checks if a media kind is valid
func ValidateKind(kind MediaKind) bool {
	return kind == KindPhoto || kind == KindVideo || kind == KindGIF
}

// Subfolder returns the destination subfolder for this kind
func (k MediaKind) Subfolder() string {
	switch k {
	case KindVideo:
		return "videos"
	case KindGIF:
		return "gifs"
	default:
		return "images"
	}
}

// TweetID is an int64 that marshals as a JSON string.
// JavaScript consumers lose precision above 2^53, so the ID crosses
// serialization boundaries as a string while staying a native integer here.
type TweetID int64

// MarshalJSON converts TweetID to a JSON string
func (t TweetID) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf(`"%d"`, t)), nil
}

// UnmarshalJSON accepts both a JSON number and a JSON string
func (t *TweetID) UnmarshalJSON(data []byte) error {
	var num int64
	if err := json.Unmarshal(data, &num); err == nil {
		*t = TweetID(num)
		return nil
	}
	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		parsed, err := strconv.ParseInt(strings.TrimSpace(str), 10, 64)
		if err != nil {
			return fmt.Errorf("invalid tweet_id string: %s", str)
		}
		*t = TweetID(parsed)
		return nil
	}
	return fmt.Errorf("tweet_id must be number or string")
}

// String returns the decimal form used for filenames
func (t TweetID) String() string {
	return strconv.FormatInt(int64(t), 10)
}

// MediaItem is one unit of downloadable work in a batch
type MediaItem struct {
	URL     string    `json:"url"`
	Date    string    `json:"date"`
	TweetID TweetID   `json:"tweet_id"`
	Kind    MediaKind `json:"type"`
}

// BatchResult is the aggregate outcome of one batch download invocation
type BatchResult struct {
	BatchID    string `json:"batch_id"`
	Downloaded int    `json:"downloaded"`
	Failed     int    `json:"failed"`
	Cancelled  bool   `json:"cancelled"`
	Message    string `json:"message"`
}

// Attempted returns the number of items actually processed
func (r BatchResult) Attempted() int {
	return r.Downloaded + r.Failed
}

// Progress is emitted after each item of a batch completes
type Progress struct {
	Current int `json:"current"`
	Total   int `json:"total"`
	Percent int `json:"percent"`
}

// NewProgress builds a progress event with truncating percent math
func NewProgress(current, total int) Progress {
	percent := 0
	if total > 0 {
		percent = current * 100 / total
	}
	return Progress{Current: current, Total: total, Percent: percent}
}

// ProgressFunc receives progress events during a batch download
type ProgressFunc func(Progress)
