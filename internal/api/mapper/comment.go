package mapper

import (
	"golang-stock-portfolio/internal/api/dto"
	"golang-stock-portfolio/internal/entity"
)

// ToCommentResponse expects comment.User to be loaded for CreatedBy.
func ToCommentResponse(comment *entity.Comment) *dto.CommentResponse {
	return &dto.CommentResponse{
		ID:        comment.ID,
		Title:     comment.Title,
		Content:   comment.Content,
		CreatedOn: comment.CreatedOn,
		CreatedBy: comment.User.Username,
		StockID:   comment.StockID,
	}
}

func ToCommentResponses(comments []entity.Comment) []*dto.CommentResponse {
	responses := make([]*dto.CommentResponse, 0, len(comments))
	for i := range comments {
		responses = append(responses, ToCommentResponse(&comments[i]))
	}
	return responses
}
