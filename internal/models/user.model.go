package models

type User struct {
	BaseUUIDModel
	// DiscordID is the external identity every other community surface keys on
	DiscordID string  `gorm:"type:text;uniqueIndex;not null" json:"discordId"`
	Nickname  string  `gorm:"type:text;not null"             json:"nickname"`
	Email     *string `gorm:"type:text;uniqueIndex"          json:"email,omitempty"`
	AvatarURL string  `gorm:"type:text"                      json:"avatarUrl"`
	IsAdmin   bool    `gorm:"type:bool;default:false"        json:"isAdmin"`
	IsActive  bool    `gorm:"type:bool;default:true"         json:"isActive"`
}

// UserProfile is the public shape returned by handlers
type UserProfile struct {
	ID        string `json:"id"`
	DiscordID string `json:"discordId"`
	Nickname  string `json:"nickname"`
	AvatarURL string `json:"avatarUrl"`
	IsAdmin   bool   `json:"isAdmin"`
	IsActive  bool   `json:"isActive"`
}

func (u *User) ToProfile() UserProfile {
	return UserProfile{
		ID:        u.ID.String(),
		DiscordID: u.DiscordID,
		Nickname:  u.Nickname,
		AvatarURL: u.AvatarURL,
		IsAdmin:   u.IsAdmin,
		IsActive:  u.IsActive,
	}
}
