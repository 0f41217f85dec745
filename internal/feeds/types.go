package feeds

// Entry is one normalized piece of ingested content before summarization.
// Published is an ISO-8601 string rather than a time.Time: deduplication
// orders entries by lexicographic string comparison, and an unknown
// publication time is the empty string, which sorts after every real
// timestamp.
type Entry struct {
	Title       string
	Link        string
	Published   string
	Description string
}
