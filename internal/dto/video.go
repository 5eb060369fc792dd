package dto

import (
	"Videoboxd/internal/model"
	"time"
)

// UserInfo 是在DTO中使用的、简化的用户信息
type UserInfo struct {
	ID       uint64 `json:"id"`
	Username string `json:"username"`
}

type PlatformInfo struct {
	ID   uint64 `json:"id"`
	Slug string `json:"slug"`
	Name string `json:"name"`
}

type VideoResponse struct {
	ID              uint64             `json:"id"`
	CreatedAt       time.Time          `json:"created_at"`
	PlatformVideoID string             `json:"platform_video_id"`
	OriginalURL     string             `json:"original_url"`
	Title           string             `json:"title"`
	Description     string             `json:"description"`
	ThumbnailURL    *string            `json:"thumbnail_url"`
	UploadedAt      *string            `json:"uploaded_at"` // YYYY-MM-DD，未知时为null
	Platform        PlatformInfo       `json:"platform"`
	Categories      []CategoryResponse `json:"categories"`
	Owner           UserInfo           `json:"owner"`
}

// ToVideoResponse 把DB模型转换为API响应模型，关联没有preload时退回到外键
func ToVideoResponse(video *model.Video) VideoResponse {
	resp := VideoResponse{
		ID:              video.ID,
		CreatedAt:       video.CreatedAt,
		PlatformVideoID: video.PlatformVideoID,
		OriginalURL:     video.OriginalURL,
		Title:           video.Title,
		Description:     video.Description,
		ThumbnailURL:    video.ThumbnailURL,
		Categories:      ToCategoryResponses(video.Categories),
	}
	if video.UploadedAt != nil {
		date := video.UploadedAt.UTC().Format("2006-01-02")
		resp.UploadedAt = &date
	}
	resp.Platform.ID = video.PlatformID
	if video.Platform.ID != 0 {
		resp.Platform.Slug = video.Platform.Slug
		resp.Platform.Name = video.Platform.Name
	}
	resp.Owner.ID = video.UserID
	if video.User.ID != 0 {
		resp.Owner.Username = video.User.Username
	}
	return resp
}

func ToVideoResponses(videos []model.Video) []VideoResponse {
	response := make([]VideoResponse, 0, len(videos))
	for i := range videos {
		response = append(response, ToVideoResponse(&videos[i]))
	}
	return response
}

// SubmitVideoResponse 提交视频（带评测和点赞）的响应
type SubmitVideoResponse struct {
	Video    VideoResponse   `json:"video"`
	Review   *ReviewResponse `json:"review"`
	Liked    bool            `json:"liked"`
	Existing bool            `json:"existing"` // true表示视频之前已入库，视频行没有改动
}
