package store

// SearchPage is one page of a tracker issue search
type SearchPage struct {
	StartAt    int     `json:"startAt"`
	MaxResults int     `json:"maxResults"`
	Total      int     `json:"total"`
	Issues     []Issue `json:"issues"`
}

type Issue struct {
	Key    string      `json:"key"`
	Fields IssueFields `json:"fields"`
}

type IssueFields struct {
	Summary string      `json:"summary"`
	Status  IssueStatus `json:"status"`
}

type IssueStatus struct {
	Name string `json:"name"`
}

// CommentPage is one page of an issue comment list, oldest first
type CommentPage struct {
	StartAt    int       `json:"startAt"`
	MaxResults int       `json:"maxResults"`
	Total      int       `json:"total"`
	Comments   []Comment `json:"comments"`
}

type Comment struct {
	ID      string `json:"id"`
	Body    any    `json:"body"`
	Created string `json:"created"`
}
