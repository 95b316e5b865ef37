package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/x-batch-go/internal/domain"
)

type stubSource struct {
	response *domain.TimelineResponse
	err      error
	lastReq  interface{}
}

func (s *stubSource) ExtractTimeline(req domain.TimelineRequest) (*domain.TimelineResponse, error) {
	s.lastReq = req
	return s.response, s.err
}

func (s *stubSource) ExtractDateRange(req domain.DateRangeRequest) (*domain.TimelineResponse, error) {
	s.lastReq = req
	return s.response, s.err
}

type memoryRepo struct {
	accounts map[string]*domain.Account
	nextID   int64
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{accounts: make(map[string]*domain.Account), nextID: 1}
}

func (m *memoryRepo) Upsert(account *domain.Account) error {
	if existing, ok := m.accounts[account.Username]; ok {
		account.ID = existing.ID
	} else {
		account.ID = m.nextID
		m.nextID++
	}
	m.accounts[account.Username] = account
	return nil
}

func (m *memoryRepo) FindAll() ([]*domain.Account, error) {
	var out []*domain.Account
	for _, a := range m.accounts {
		out = append(out, a)
	}
	return out, nil
}

func (m *memoryRepo) FindByID(id int64) (*domain.Account, error) {
	for _, a := range m.accounts {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, errAccountNotFound
}

func (m *memoryRepo) FindByUsername(username string) (*domain.Account, error) {
	if a, ok := m.accounts[username]; ok {
		return a, nil
	}
	return nil, errAccountNotFound
}

func (m *memoryRepo) Delete(id int64) error {
	for username, a := range m.accounts {
		if a.ID == id {
			delete(m.accounts, username)
		}
	}
	return nil
}

func (m *memoryRepo) DeleteAll() error {
	m.accounts = make(map[string]*domain.Account)
	return nil
}

func (m *memoryRepo) UpdateGroup(id int64, name, color string) error {
	for _, a := range m.accounts {
		if a.ID == id {
			a.GroupName = name
			a.GroupColor = color
		}
	}
	return nil
}

func (m *memoryRepo) Groups() ([]domain.AccountGroup, error) { return nil, nil }

func (m *memoryRepo) Count() (int64, error) { return int64(len(m.accounts)), nil }

var errAccountNotFound = os.ErrNotExist

func sampleResponse() *domain.TimelineResponse {
	return &domain.TimelineResponse{
		AccountInfo: domain.AccountInfo{
			Name:         "Some User",
			Nick:         "someuser",
			ProfileImage: "https://pbs.twimg.com/profile_images/1/x.jpg",
		},
		TotalURLs: 2,
		Timeline: []domain.TimelineEntry{
			{URL: "https://pbs.twimg.com/media/a?format=jpg", TweetID: 1, Type: domain.KindPhoto},
			{URL: "https://video.twimg.com/b.mp4", TweetID: 2, Type: domain.KindVideo},
		},
	}
}

func TestExtractTimeline_SavesAccount(t *testing.T) {
	repo := newMemoryRepo()
	service := NewTimelineService(&stubSource{response: sampleResponse()}, repo, nil)

	response, err := service.ExtractTimeline(domain.TimelineRequest{
		Username:  "someuser",
		AuthToken: "token",
	})
	require.NoError(t, err)
	assert.Equal(t, 2, response.TotalURLs)

	saved, err := repo.FindByUsername("someuser")
	require.NoError(t, err)
	assert.Equal(t, "Some User", saved.Name)
	assert.Equal(t, 2, saved.TotalMedia)
	assert.Contains(t, saved.ResponseJSON, `"total_urls":2`)
	assert.Contains(t, saved.ProfileImage, "name=thumb")
	assert.False(t, saved.LastFetched.IsZero())
}

func TestExtractTimeline_ValidatesRequest(t *testing.T) {
	service := NewTimelineService(&stubSource{response: sampleResponse()}, newMemoryRepo(), nil)

	_, err := service.ExtractTimeline(domain.TimelineRequest{Username: "someuser"})
	assert.Error(t, err)

	_, err = service.ExtractTimeline(domain.TimelineRequest{AuthToken: "token"})
	assert.Error(t, err)
}

func TestExtractTimeline_SourceErrorPropagates(t *testing.T) {
	repo := newMemoryRepo()
	service := NewTimelineService(&stubSource{err: errAccountNotFound}, repo, nil)

	_, err := service.ExtractTimeline(domain.TimelineRequest{
		Username:  "someuser",
		AuthToken: "token",
	})
	require.Error(t, err)

	count, _ := repo.Count()
	assert.Zero(t, count)
}

func TestExtractDateRange_SavesAccount(t *testing.T) {
	repo := newMemoryRepo()
	service := NewTimelineService(&stubSource{response: sampleResponse()}, repo, nil)

	_, err := service.ExtractDateRange(domain.DateRangeRequest{
		Username:  "someuser",
		AuthToken: "token",
		StartDate: "2024-01-01",
		EndDate:   "2024-06-30",
	})
	require.NoError(t, err)

	count, _ := repo.Count()
	assert.Equal(t, int64(1), count)
}

func TestExportAccount_WritesBackupFile(t *testing.T) {
	repo := newMemoryRepo()
	require.NoError(t, repo.Upsert(&domain.Account{
		Username:     "someuser",
		ResponseJSON: `{"total_urls":2}`,
	}))
	service := NewTimelineService(&stubSource{}, repo, nil)

	outputDir := t.TempDir()
	path, err := service.ExportAccount(1, outputDir)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(outputDir, "x-batch_backups", "someuser.json"), path)
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"total_urls":2}`, string(content))
}

func TestExportAccount_UnknownID(t *testing.T) {
	service := NewTimelineService(&stubSource{}, newMemoryRepo(), nil)

	_, err := service.ExportAccount(42, t.TempDir())
	assert.Error(t, err)
}
