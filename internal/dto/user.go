package dto

import (
	"Videoboxd/internal/model"
	"time"
)

// UserResponse 公开的用户信息，不含邮箱和密码
type UserResponse struct {
	ID        uint64    `json:"id"`
	Username  string    `json:"username"`
	FullName  string    `json:"full_name"`
	AvatarURL string    `json:"avatar_url"`
	CreatedAt time.Time `json:"created_at"`
}

type UserDetailResponse struct {
	UserResponse
	Reviews []ReviewResponse `json:"reviews"`
}

// ProfileResponse 只返回给本人，可以带邮箱
type ProfileResponse struct {
	UserResponse
	Email string `json:"email"`
}

func ToUserResponse(user *model.User) UserResponse {
	return UserResponse{
		ID:        user.ID,
		Username:  user.Username,
		FullName:  user.FullName,
		AvatarURL: user.AvatarURL,
		CreatedAt: user.CreatedAt,
	}
}

func ToUserResponses(users []model.User) []UserResponse {
	response := make([]UserResponse, 0, len(users))
	for i := range users {
		response = append(response, ToUserResponse(&users[i]))
	}
	return response
}

func ToUserDetailResponse(user *model.User, reviews []model.Review, likeCounts map[uint64]int64) UserDetailResponse {
	return UserDetailResponse{
		UserResponse: ToUserResponse(user),
		Reviews:      ToReviewResponses(reviews, likeCounts),
	}
}

func ToProfileResponse(user *model.User) ProfileResponse {
	return ProfileResponse{
		UserResponse: ToUserResponse(user),
		Email:        user.Email,
	}
}
