package model

// User is an account row in the "user" collection. Credentials are stored
// as-is; the store is a trusted local collaborator and hardening them is
// out of scope here.
type User struct {
	ID       int    `json:"id" gorm:"primaryKey;autoIncrement"`
	Username string `json:"username" gorm:"uniqueIndex;not null"`
	Password string `json:"password" gorm:"not null"`
}

func (User) TableName() string { return "user" }
