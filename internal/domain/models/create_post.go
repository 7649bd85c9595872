package model

type CreatePostDTO struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}
