package dto

import (
	"Videoboxd/internal/model"
	"time"
)

type CommentResponse struct {
	ID        uint64    `json:"id"`
	ReviewID  uint64    `json:"review_id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
	Author    UserInfo  `json:"author"`
}

func ToCommentResponse(comment *model.ReviewComment) CommentResponse {
	resp := CommentResponse{
		ID:        comment.ID,
		ReviewID:  comment.ReviewID,
		Text:      comment.Text,
		CreatedAt: comment.CreatedAt,
	}
	// 安全地填充作者信息
	resp.Author.ID = comment.UserID
	if comment.User.ID != 0 {
		resp.Author.Username = comment.User.Username
	}
	return resp
}

func ToCommentResponses(comments []model.ReviewComment) []CommentResponse {
	response := make([]CommentResponse, 0, len(comments))
	for i := range comments {
		response = append(response, ToCommentResponse(&comments[i]))
	}
	return response
}
