package reddit

// DeletedAuthor replaces the author of comments whose author is unavailable.
const DeletedAuthor = "[deleted]"

const kindComment = "t1"

type CommentRecord struct {
	Author     string   `json:"author"`
	Body       string   `json:"body"`
	Score      int64    `json:"score"`
	CreatedUTC *float64 `json:"created_utc"`
}

type ThreadResult struct {
	Title    string          `json:"title"`
	Body     string          `json:"body"`
	Comments []CommentRecord `json:"comments"`
}
