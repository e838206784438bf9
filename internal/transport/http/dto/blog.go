package dto

import "mime/multipart"

// CreateBlogPostRequest is the JSON create body. Multipart requests carry the
// same fields as form values plus an optional imageFile part.
type CreateBlogPostRequest struct {
	Heading  string `json:"heading" form:"heading"`
	Content  string `json:"content" form:"content"`
	ImageURL string `json:"imageUrl" form:"imageUrl" validate:"omitempty,url"`
}

type UpdateBlogPostRequest struct {
	Heading  *string `json:"heading" form:"heading"`
	Content  *string `json:"content" form:"content"`
	ImageURL *string `json:"imageUrl" form:"imageUrl" validate:"omitempty,url"`
}

// CreateBlogPostInput is what the transport hands to the service after parsing
// either body shape. A non-nil File takes precedence over ImageURL.
type CreateBlogPostInput struct {
	Heading  string
	Content  string
	ImageURL string
	File     *multipart.FileHeader
}

// UpdateBlogPostInput carries a partial update; nil fields keep their stored
// values.
type UpdateBlogPostInput struct {
	Heading  *string
	Content  *string
	ImageURL *string
	File     *multipart.FileHeader
}
