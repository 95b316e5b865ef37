package domain

import (
	"fmt"
	"strings"
)

// AccountInfo represents X/Twitter account information from the extractor
type AccountInfo struct {
	Name           string `json:"name"`
	Nick           string `json:"nick"`
	Date           string `json:"date"`
	FollowersCount int    `json:"followers_count"`
	FriendsCount   int    `json:"friends_count"`
	ProfileImage   string `json:"profile_image"`
	StatusesCount  int    `json:"statuses_count"`
}

// TimelineEntry represents a single media entry from the extractor
type TimelineEntry struct {
	URL       string    `json:"url"`
	Date      string    `json:"date"`
	TweetID   TweetID   `json:"tweet_id"`
	Type      MediaKind `json:"type"`
	IsRetweet bool      `json:"is_retweet"`
}

// ExtractMetadata represents pagination metadata from the extractor
type ExtractMetadata struct {
	NewEntries int  `json:"new_entries"`
	Page       int  `json:"page"`
	BatchSize  int  `json:"batch_size"`
	HasMore    bool `json:"has_more"`
}

// TimelineResponse is the full document returned by the metadata extractor
type TimelineResponse struct {
	AccountInfo AccountInfo     `json:"account_info"`
	TotalURLs   int             `json:"total_urls"`
	Timeline    []TimelineEntry `json:"timeline"`
	Metadata    ExtractMetadata `json:"metadata"`
}

// MediaItems converts the timeline into a downloadable batch
func (r *TimelineResponse) MediaItems() []MediaItem {
	items := make([]MediaItem, 0, len(r.Timeline))
	for _, entry := range r.Timeline {
		items = append(items, MediaItem{
			URL:     entry.URL,
			Date:    entry.Date,
			TweetID: entry.TweetID,
			Kind:    entry.Type,
		})
	}
	return items
}

// TimelineRequest represents request parameters for timeline extraction
type TimelineRequest struct {
	Username     string `json:"username"`
	AuthToken    string `json:"auth_token"`
	TimelineType string `json:"timeline_type"` // media, timeline, tweets, with_replies
	BatchSize    int    `json:"batch_size"`    // 0 = all
	Page         int    `json:"page"`
	MediaType    string `json:"media_type"` // all, image, video, gif
	Retweets     bool   `json:"retweets"`
}

// Validate checks required timeline request fields
func (r *TimelineRequest) Validate() error {
	if r.Username == "" {
		return fmt.Errorf("username is required")
	}
	if r.AuthToken == "" {
		return fmt.Errorf("auth token is required")
	}
	return nil
}

// DateRangeRequest represents request parameters for date range extraction
type DateRangeRequest struct {
	Username    string `json:"username"`
	AuthToken   string `json:"auth_token"`
	StartDate   string `json:"start_date"` // YYYY-MM-DD
	EndDate     string `json:"end_date"`   // YYYY-MM-DD
	MediaFilter string `json:"media_filter"`
}

// Validate checks required date range request fields
func (r *DateRangeRequest) Validate() error {
	if r.Username == "" {
		return fmt.Errorf("username is required")
	}
	if r.AuthToken == "" {
		return fmt.Errorf("auth token is required")
	}
	if r.StartDate == "" {
		return fmt.Errorf("start date is required")
	}
	if r.EndDate == "" {
		return fmt.Errorf("end date is required")
	}
	return nil
}

// ThumbnailURL converts an X media URL to its thumbnail variant
func ThumbnailURL(url string) string {
	if !strings.Contains(url, "pbs.twimg.com/media/") {
		return url
	}
	if strings.Contains(url, "?format=") {
		if strings.Contains(url, "&name=") {
			parts := strings.Split(url, "&name=")
			return parts[0] + "&name=thumb"
		}
		return url + "&name=thumb"
	}
	if strings.Contains(url, "?") {
		return url + "&name=thumb"
	}
	return url + "?format=jpg&name=thumb"
}

// TimelineSource produces timeline documents for an account.
// The production implementation shells out to the bundled metadata
// extractor; tests substitute a stub.
type TimelineSource interface {
	// ExtractTimeline extracts media entries from a user timeline
	ExtractTimeline(req TimelineRequest) (*TimelineResponse, error)

	// ExtractDateRange extracts media entries within a date range
	ExtractDateRange(req DateRangeRequest) (*TimelineResponse, error)
}
