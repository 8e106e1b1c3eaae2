package models

import "time"

// User is a platform account
type User struct {
	ID          int64  `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	IsActive    bool   `json:"is_active"`
}

// Space is a tenant workspace owned by one user and shared with members
type Space struct {
	ID                   int64     `json:"id"`
	Code                 string    `json:"code"`
	Title                string    `json:"title"`
	OwnerID              int64     `json:"owner_id"`
	LastModificationDate time.Time `json:"last_modification_date"`
}
