package db

import (
	"time"
)

// LikeType values for Like.LikeType.
const (
	LikeTypeLike    = "like"
	LikeTypeDislike = "dislike"
)

// User is one row per Telegram account. TelegramID is the sole lookup key
// for authentication and is immutable after creation.
type User struct {
	ID           uint64 `gorm:"primaryKey;autoIncrement"`
	TelegramID   int64  `gorm:"uniqueIndex;not null"`
	Username     string `gorm:"size:64"`
	FirstName    string `gorm:"size:128"`
	LastName     string `gorm:"size:128"`
	LanguageCode string `gorm:"size:10"`
	Active       bool   `gorm:"column:is_active;default:true"`
	Premium      bool   `gorm:"column:is_premium;default:false"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
}

// Profile holds the dating profile, at most one per user (unique FK).
// Photos are owned by the profile and are removed together with it by the
// repository's transactional delete, not by a DB-level cascade.
type Profile struct {
	ID          uint64 `gorm:"primaryKey;autoIncrement"`
	UserID      uint64 `gorm:"uniqueIndex;not null"`
	DisplayName string `gorm:"size:100;not null"`
	Age         int    `gorm:"not null"`
	Bio         string `gorm:"type:text"`
	City        string `gorm:"size:100"`
	Interests   string `gorm:"type:text"` // serialized JSON blob, opaque to the backend
	Gender      string `gorm:"size:20"`
	LookingFor  string `gorm:"size:20"`
	MinAge      int    `gorm:"default:18"`
	MaxAge      int    `gorm:"default:99"`
	Visible     bool   `gorm:"column:is_visible;default:true"`
	Complete    bool   `gorm:"column:is_complete;default:false"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`

	Photos []Photo `gorm:"foreignKey:ProfileID"`
}

// Photo belongs to exactly one profile. At most one photo per profile may be
// primary; the repository enforces this with a clear-then-set transaction.
type Photo struct {
	ID           uint64 `gorm:"primaryKey;autoIncrement"`
	ProfileID    uint64 `gorm:"index;not null"`
	URL          string `gorm:"size:500;not null"`
	Primary      bool   `gorm:"column:is_primary;default:false"`
	DisplayOrder int    `gorm:"default:0"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
}

// Like is a directed edge liker -> liked.
//
// Indexes:
//   - idx_liker_liked(liker_id, liked_id): O(1) lookup of the edge itself
//     and of the opposite direction during mutual-like checks.
//
// LikerID != LikedID is enforced at the service layer. MatchID is set once
// a mutual like is detected.
type Like struct {
	ID        uint64 `gorm:"primaryKey;autoIncrement"`
	LikerID   uint64 `gorm:"not null;index:idx_liker_liked,priority:1"`
	LikedID   uint64 `gorm:"not null;index:idx_liker_liked,priority:2"`
	LikeType  string `gorm:"size:10;not null"`
	Active    bool   `gorm:"column:is_active;default:true"`
	MatchID   *uint64
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// Match is an undirected pairing. User1ID < User2ID always (normalized at
// creation) so the unordered pair has a single canonical row; uniqueness of
// the active pair is checked inside the creating transaction.
type Match struct {
	ID        uint64 `gorm:"primaryKey;autoIncrement"`
	User1ID   uint64 `gorm:"not null;index:idx_match_pair,priority:1"`
	User2ID   uint64 `gorm:"not null;index:idx_match_pair,priority:2"`
	Active    bool   `gorm:"column:is_active;default:true"`
	MatchedAt time.Time
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	Likes []Like `gorm:"foreignKey:MatchID"`
}
