package dto

import "time"

// CommentQuery holds the filters accepted by the comment listing endpoint.
type CommentQuery struct {
	Symbol       string `query:"symbol" validate:"max=10"`
	IsDescending bool   `query:"isDescending"`
}

// GetCommentsParam is the filter passed to the comment repository.
type GetCommentsParam struct {
	Symbol     string
	StockIDs   []uint
	Descending bool
}

// CreateCommentRequest is the DTO for creating a comment on a stock.
type CreateCommentRequest struct {
	Title   string `json:"title" validate:"required,min=5,max=280"`
	Content string `json:"content" validate:"required,min=5,max=280"`
}

// UpdateCommentRequest is the DTO for updating an existing comment.
type UpdateCommentRequest struct {
	Title   string `json:"title" validate:"required,min=5,max=280"`
	Content string `json:"content" validate:"required,min=5,max=280"`
}

// CommentResponse is the DTO for API responses containing comment details.
type CommentResponse struct {
	ID        uint      `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedOn time.Time `json:"createdOn"`
	CreatedBy string    `json:"createdBy"`
	StockID   uint      `json:"stockId"`
}
