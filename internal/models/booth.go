package models

// Booth is an exhibitor account within an event.
type Booth struct {
	ID      string  `db:"id" json:"id"`
	EventID *string `db:"event_id" json:"event_id"`
	Name    string  `db:"name" json:"name"`
}

// BoothUser is a self-hosted credential. A null BoothID means an admin account.
type BoothUser struct {
	ID           int64   `db:"id"`
	Username     string  `db:"username"`
	PasswordHash string  `db:"password_hash"`
	BoothID      *string `db:"booth_id"`
	IsAdmin      bool    `db:"is_admin"`
	BoothName    *string `db:"booth_name"`
	EventID      *string `db:"event_id"`
}

// Profile is the role record joined to an identity-provider user.
type Profile struct {
	ID        string  `db:"id"`
	Username  *string `db:"username"`
	Role      string  `db:"role"`
	BoothID   *string `db:"booth_id"`
	BoothName *string `db:"booth_name"`
	EventID   *string `db:"event_id"`
}
