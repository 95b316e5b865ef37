package domain

import "time"

// Account represents a fetched account stored in the database
type Account struct {
	ID           int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	Username     string    `json:"username" gorm:"uniqueIndex;not null"`
	Name         string    `json:"name"`
	ProfileImage string    `json:"profile_image"`
	TotalMedia   int       `json:"total_media" gorm:"default:0"`
	LastFetched  time.Time `json:"last_fetched"`
	ResponseJSON string    `json:"response_json" gorm:"type:text"`
	GroupName    string    `json:"group_name" gorm:"default:''"`
	GroupColor   string    `json:"group_color" gorm:"default:''"`
}

// AccountSummary is the list form of an account, without the stored response body
type AccountSummary struct {
	ID           int64  `json:"id"`
	Username     string `json:"username"`
	Name         string `json:"name"`
	ProfileImage string `json:"profile_image"`
	TotalMedia   int    `json:"total_media"`
	LastFetched  string `json:"last_fetched"`
	GroupName    string `json:"group_name"`
	GroupColor   string `json:"group_color"`
}

// Summary converts an account to its list form
func (a *Account) Summary() AccountSummary {
	return AccountSummary{
		ID:           a.ID,
		Username:     a.Username,
		Name:         a.Name,
		ProfileImage: a.ProfileImage,
		TotalMedia:   a.TotalMedia,
		LastFetched:  a.LastFetched.Format("2006-01-02 15:04"),
		GroupName:    a.GroupName,
		GroupColor:   a.GroupColor,
	}
}

// AccountGroup is a user-defined grouping of accounts
type AccountGroup struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}
