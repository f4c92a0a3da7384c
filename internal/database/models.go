package database

import "time"

// Export is one chat export saved to the database.
type Export struct {
	ID           string    `db:"id"`
	SourceName   string    `db:"source_name"`
	Grammar      string    `db:"grammar"`
	Anchors      int       `db:"anchors"`
	Dropped      int       `db:"dropped"`
	MessageCount int       `db:"message_count"`
	CreatedAt    time.Time `db:"created_at"`
}

// MessageRow is one chat record of a saved export. Seq keeps the chat order.
type MessageRow struct {
	ID        int64     `db:"id"`
	ExportID  string    `db:"export_id"`
	Seq       int       `db:"seq"`
	Timestamp time.Time `db:"timestamp"`
	Sender    string    `db:"sender"`
	Text      string    `db:"text"`
	DayName   string    `db:"day_name"`
	Period    string    `db:"period"`
}

// SenderCount is the number of saved messages of one sender.
type SenderCount struct {
	Sender   string `db:"sender"`
	Messages int    `db:"messages"`
}
