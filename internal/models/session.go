package models

import "time"

// Session is the server-side state behind a session cookie.
type Session struct {
	UserID    string    `json:"userId"`
	Username  string    `json:"username"`
	BoothID   *string   `json:"boothId"`
	BoothName string    `json:"boothName"`
	EventID   *string   `json:"eventId"`
	IsAdmin   bool      `json:"isAdmin"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Identity converts the session into the identity it was issued for.
func (s *Session) Identity() *Identity {
	return &Identity{
		SubjectID: s.UserID,
		Username:  s.Username,
		BoothID:   s.BoothID,
		BoothName: s.BoothName,
		EventID:   s.EventID,
		IsAdmin:   s.IsAdmin,
		ExpiresAt: s.ExpiresAt,
	}
}
