package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimelineRequest_Validate(t *testing.T) {
	req := TimelineRequest{Username: "someuser", AuthToken: "token"}
	assert.NoError(t, req.Validate())

	req = TimelineRequest{AuthToken: "token"}
	assert.Error(t, req.Validate())

	req = TimelineRequest{Username: "someuser"}
	assert.Error(t, req.Validate())
}

func TestDateRangeRequest_Validate(t *testing.T) {
	req := DateRangeRequest{
		Username:  "someuser",
		AuthToken: "token",
		StartDate: "2024-01-01",
		EndDate:   "2024-06-30",
	}
	assert.NoError(t, req.Validate())

	req.StartDate = ""
	assert.Error(t, req.Validate())

	req.StartDate = "2024-01-01"
	req.EndDate = ""
	assert.Error(t, req.Validate())
}

func TestTimelineResponse_MediaItems(t *testing.T) {
	response := TimelineResponse{
		Timeline: []TimelineEntry{
			{URL: "https://pbs.twimg.com/media/a?format=jpg", TweetID: 100, Type: KindPhoto, Date: "2024-05-01"},
			{URL: "https://video.twimg.com/b.mp4", TweetID: 200, Type: KindVideo, Date: "2024-05-02"},
		},
	}

	items := response.MediaItems()
	require.Len(t, items, 2)
	assert.Equal(t, TweetID(100), items[0].TweetID)
	assert.Equal(t, KindPhoto, items[0].Kind)
	assert.Equal(t, TweetID(200), items[1].TweetID)
	assert.Equal(t, KindVideo, items[1].Kind)
}

func TestTimelineResponse_DecodesExtractorDocument(t *testing.T) {
	raw := `{
		"account_info": {"name": "Some User", "nick": "someuser", "followers_count": 42, "profile_image": "https://pbs.twimg.com/profile_images/1/x.jpg"},
		"total_urls": 2,
		"timeline": [
			{"url": "https://pbs.twimg.com/media/a?format=jpg&name=orig", "date": "2024-05-01 10:00:00", "tweet_id": 1786999999999999999, "type": "photo"},
			{"url": "https://video.twimg.com/ext_tw_video/b/vid.mp4", "date": "2024-05-02 11:00:00", "tweet_id": "1787000000000000000", "type": "video"}
		],
		"metadata": {"new_entries": 2, "page": 1, "batch_size": 0, "has_more": false}
	}`

	var response TimelineResponse
	require.NoError(t, json.Unmarshal([]byte(raw), &response))

	assert.Equal(t, "someuser", response.AccountInfo.Nick)
	assert.Equal(t, 2, response.TotalURLs)
	require.Len(t, response.Timeline, 2)
	assert.Equal(t, TweetID(1786999999999999999), response.Timeline[0].TweetID)
	assert.Equal(t, TweetID(1787000000000000000), response.Timeline[1].TweetID)
	assert.False(t, response.Metadata.HasMore)
}

func TestThumbnailURL(t *testing.T) {
	// Standard media URL with format and name parameters
	assert.Equal(t,
		"https://pbs.twimg.com/media/abc?format=jpg&name=thumb",
		ThumbnailURL("https://pbs.twimg.com/media/abc?format=jpg&name=orig"))

	// Format without name
	assert.Equal(t,
		"https://pbs.twimg.com/media/abc?format=jpg&name=thumb",
		ThumbnailURL("https://pbs.twimg.com/media/abc?format=jpg"))

	// Bare media URL
	assert.Equal(t,
		"https://pbs.twimg.com/media/abc?format=jpg&name=thumb",
		ThumbnailURL("https://pbs.twimg.com/media/abc"))

	// Non-media URLs pass through untouched
	assert.Equal(t,
		"https://example.com/image.jpg",
		ThumbnailURL("https://example.com/image.jpg"))
}
