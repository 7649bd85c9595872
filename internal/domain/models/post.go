package model

import "math/big"

// Post is a ledger record merged with its body from the content store.
type Post struct {
	ID         string  `json:"id"`
	Title      string  `json:"title"`
	ContentRef string  `json:"content"`
	Published  bool    `json:"published"`
	Body       *string `json:"body,omitempty"`
	BodyError  string  `json:"body_error,omitempty"`
}

// Complete reports whether both the ledger fields and the body have resolved.
func (p *Post) Complete() bool {
	return p.Body != nil
}

// LedgerPost is a raw post record as returned by the blog contract.
type LedgerPost struct {
	ID        *big.Int
	Title     string
	Content   string
	Published bool
}

// ToPost maps a ledger record into the Post shape. The body is left unresolved.
func (l *LedgerPost) ToPost() *Post {
	id := ""
	if l.ID != nil {
		id = l.ID.String()
	}
	return &Post{
		ID:         id,
		Title:      l.Title,
		ContentRef: l.Content,
		Published:  l.Published,
	}
}
