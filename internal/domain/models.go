package domain

import "time"

// UserState is the persisted form of a UserData document. One row exists
// per storage key (namespace + owner); Document holds the JSON aggregate.
type UserState struct {
	Key       string    `gorm:"type:varchar(191);primaryKey"`
	Document  string    `gorm:"type:text;not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// TableName returns the database table name for UserState.
func (UserState) TableName() string { return "user_states" }
