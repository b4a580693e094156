package api

import "time"

type ReportRow struct {
	Columns       []string `json:"columns"`
	IndentLevel   int      `json:"indent_level"`
	Marker        string   `json:"marker,omitempty"`
	HighlightDone bool     `json:"highlight_done"`
}

type Report struct {
	ProjectKey  string      `json:"project_key"`
	GeneratedAt time.Time   `json:"generated_at"`
	Epics       int         `json:"epics"`
	Rows        []ReportRow `json:"rows"`
}

type Run struct {
	ID         string    `json:"id"`
	ProjectKey string    `json:"project_key"`
	FilePath   string    `json:"file_path"`
	Epics      int       `json:"epics"`
	Rows       int       `json:"rows"`
	Plain      bool      `json:"plain"`
	Recipient  string    `json:"recipient,omitempty"`
	Status     string    `json:"status"`
	Error      *string   `json:"error,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

type Error struct {
	Message string `json:"error"`
}
