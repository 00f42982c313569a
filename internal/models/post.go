package models

// PostedAtLayout is the text layout stored in booth_posts.posted_at.
const PostedAtLayout = "2006-01-02 15:04:05"

// TimelineLimit caps the cross-event timeline.
const TimelineLimit = 15

// BoothPost is a booth-submitted update. BoothName comes from a join and is nil when the
// booth is unset or missing.
type BoothPost struct {
	ID        int64   `db:"id" json:"id"`
	EventID   string  `db:"event_id" json:"event_id"`
	BoothID   *string `db:"booth_id" json:"booth_id"`
	Title     string  `db:"title" json:"title"`
	Body      string  `db:"body" json:"body"`
	PostedAt  string  `db:"posted_at" json:"posted_at"`
	BoothName *string `db:"booth_name" json:"booth_name"`
}

// CreatePostRequest is the body of POST /api/posts. The booth is never read from the body;
// it comes from the caller's identity.
type CreatePostRequest struct {
	Title    string `json:"title" validate:"required"`
	Body     string `json:"body" validate:"required"`
	PostedAt string `json:"posted_at"`
	EventID  string `json:"eventId"`
}
