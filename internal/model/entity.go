package model

import "time"

// TimestampLayout — формат created_at/updated_at в JSON и CSV.
const TimestampLayout = "2006-01-02 15:04:05"

type Ticket struct {
	ID          uint64       `gorm:"primaryKey" json:"id"`
	FirstName   string       `gorm:"type:text;not null" json:"first_name"`
	Title       string       `gorm:"type:text;not null" json:"title"`
	Description string       `gorm:"type:text;not null" json:"description"`
	Status      TicketStatus `gorm:"type:varchar(32);index;not null" json:"status"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// EnrichedTicket — тикет плюс производные поля для отображения. Всегда строится заново из Ticket.
type EnrichedTicket struct {
	ID          uint64       `json:"id"`
	FirstName   string       `json:"first_name"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Status      TicketStatus `json:"status"`
	CreatedAt   Timestamp    `json:"created_at"`
	UpdatedAt   Timestamp    `json:"updated_at"`

	StatusLabel         string `json:"status_label"`
	StatusBadgeClass    string `json:"status_badge_class"`
	RenderedDescription string `json:"rendered_description"`
	DescriptionPreview  string `json:"description_preview"`
	PublicURL           string `json:"public_url"`
}

// StatusCounts backs the admin console counters.
type StatusCounts struct {
	New        int64 `json:"new"`
	InProgress int64 `json:"in_progress"`
	Done       int64 `json:"done"`
	Total      int64 `json:"total"`
}

// Timestamp serializes as "YYYY-MM-DD HH:MM:SS" in UTC.
type Timestamp time.Time

func (t Timestamp) String() string {
	return time.Time(t).UTC().Format(TimestampLayout)
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.String() + `"`), nil
}

func (t *Timestamp) UnmarshalJSON(b []byte) error {
	s := string(b)
	if s == "null" {
		return nil
	}
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return &time.ParseError{Layout: TimestampLayout, Value: s}
	}
	parsed, err := time.ParseInLocation(TimestampLayout, s[1:len(s)-1], time.UTC)
	if err != nil {
		return err
	}
	*t = Timestamp(parsed)
	return nil
}
