package dto

import (
	"Videoboxd/internal/model"
	"time"
)

type ReviewResponse struct {
	ID        uint64    `json:"id"`
	VideoID   uint64    `json:"video_id"`
	Rating    int       `json:"rating"`
	Text      string    `json:"text"`
	LikeCount int64     `json:"like_count"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Author    UserInfo  `json:"author"`
}

func ToReviewResponse(review *model.Review, likeCount int64) *ReviewResponse {
	resp := &ReviewResponse{
		ID:        review.ID,
		VideoID:   review.VideoID,
		Rating:    review.Rating,
		Text:      review.Text,
		LikeCount: likeCount,
		CreatedAt: review.CreatedAt,
		UpdatedAt: review.UpdatedAt,
	}
	resp.Author.ID = review.UserID
	if review.User.ID != 0 {
		resp.Author.Username = review.User.Username
	}
	return resp
}

// 点赞数从map里取，没有就是0
func ToReviewResponses(reviews []model.Review, likeCounts map[uint64]int64) []ReviewResponse {
	response := make([]ReviewResponse, 0, len(reviews))
	for i := range reviews {
		response = append(response, *ToReviewResponse(&reviews[i], likeCounts[reviews[i].ID]))
	}
	return response
}
