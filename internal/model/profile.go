package model

import "time"

// Profile is a named set of requirements saved by a user.
type Profile struct {
	ID            int64
	UserID        int64
	Name          string
	Length        uint16
	Numbers       uint16
	Specials      uint16
	FirstIsLetter bool
	AllowRepeats  bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ProfileResponse is the API view of a Profile.
type ProfileResponse struct {
	Name         string       `json:"name"`
	Requirements Requirements `json:"requirements"`
	UpdatedAt    time.Time    `json:"updated_at"`
}
