package reddit

import (
	"github.com/tidwall/gjson"
)

// ParseThread extracts the post and its flattened comments from a thread
// document. Only a document that is not a JSON array is rejected; missing
// parts fall back to empty values.
func ParseThread(doc []byte) (*ThreadResult, error) {
	if !gjson.ValidBytes(doc) {
		return nil, ErrMalformedDocument
	}

	root := gjson.ParseBytes(doc)
	if !root.IsArray() {
		return nil, ErrMalformedDocument
	}

	post := root.Get("0.data.children.0.data")

	return &ThreadResult{
		Title:    post.Get("title").String(),
		Body:     post.Get("selftext").String(),
		Comments: Flatten(root.Get("1.data.children")),
	}, nil
}

// Flatten walks a listing's children depth first and returns the comments in
// pre-order: every comment precedes its replies, which precede its next sibling.
//
// Comments without a body are left out, their replies are not. Nodes of any
// other kind ("more" stubs) are skipped together with whatever they contain.
func Flatten(children gjson.Result) []CommentRecord {
	comments := make([]CommentRecord, 0)

	// explicit stack, top is the next node in pre-order
	stack := pushReversed(nil, children.Array())
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if node.Get("kind").String() != kindComment {
			continue
		}

		data := node.Get("data")
		if body := data.Get("body").String(); body != "" {
			comments = append(comments, newCommentRecord(data, body))
		}

		stack = pushReversed(stack, data.Get("replies.data.children").Array())
	}

	return comments
}

func pushReversed(stack, nodes []gjson.Result) []gjson.Result {
	for i := len(nodes) - 1; i >= 0; i-- {
		stack = append(stack, nodes[i])
	}
	return stack
}

func newCommentRecord(data gjson.Result, body string) CommentRecord {
	c := CommentRecord{
		Author: data.Get("author").String(),
		Body:   body,
		Score:  data.Get("score").Int(),
	}
	if c.Author == "" {
		c.Author = DeletedAuthor
	}
	if created := data.Get("created_utc"); created.Type == gjson.Number {
		ts := created.Float()
		c.CreatedUTC = &ts
	}

	return c
}
