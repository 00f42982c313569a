package models

// ScheduleEntry is one slot of an event's programme.
type ScheduleEntry struct {
	ID        int64   `db:"id" json:"id"`
	EventID   string  `db:"event_id" json:"event_id"`
	Title     string  `db:"title" json:"title"`
	StartTime string  `db:"start_time" json:"start_time"`
	EndTime   *string `db:"end_time" json:"end_time"`
}

// Export formats for a schedule download.
const (
	ExportFormatCSV = "csv"
	ExportFormatPDF = "pdf"
)

// ExportFile is a rendered download.
type ExportFile struct {
	Filename    string
	ContentType string
	Data        []byte
}
