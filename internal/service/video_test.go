package service

import (
	"context"
	"strconv"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetVideoByIDOrPlatformID(t *testing.T) {
	f := newFixture(t)
	videoID := f.seedVideo(t, f.alice.ID, "https://youtube.com/watch?v=abc123")
	svc := NewVideoService(f.videoRepo, f.categoryRepo, f.uow())
	ctx := context.Background()

	byID, err := svc.GetVideo(ctx, strconv.FormatUint(videoID, 10))
	require.NoError(t, err)
	byPlatformID, err := svc.GetVideo(ctx, "abc123")
	require.NoError(t, err)
	assert.Equal(t, byID.ID, byPlatformID.ID)
	assert.Equal(t, "youtube", byID.Platform.Slug)

	_, err = svc.GetVideo(ctx, "missing")
	assert.True(t, errors.Is(err, ErrVideoNotFound), "got %v", err)
	_, err = svc.GetVideo(ctx, "4242")
	assert.True(t, errors.Is(err, ErrVideoNotFound), "got %v", err)
}

func TestListAndSearchVideos(t *testing.T) {
	f := newFixture(t)
	f.seedVideo(t, f.alice.ID, "https://youtube.com/watch?v=abc123")
	f.seedVideo(t, f.bob.ID, "https://youtube.com/watch?v=def456")
	svc := NewVideoService(f.videoRepo, f.categoryRepo, f.uow())
	ctx := context.Background()

	videos, err := svc.ListVideos(ctx, 0)
	require.NoError(t, err)
	require.Len(t, videos, 2)
	assert.Equal(t, "def456", videos[0].PlatformVideoID)
	assert.Len(t, videos[0].Categories, 1)

	found, err := svc.SearchVideos(ctx, "T", 10)
	require.NoError(t, err)
	assert.Len(t, found, 2)

	none, err := svc.SearchVideos(ctx, "nothing like this", 10)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestUpdateVideoOwnerOnly(t *testing.T) {
	f := newFixture(t)
	videoID := f.seedVideo(t, f.alice.ID, "https://youtube.com/watch?v=abc123")
	svc := NewVideoService(f.videoRepo, f.categoryRepo, f.uow())
	ctx := context.Background()

	title := "New title"
	_, err := svc.UpdateVideo(ctx, UpdateVideoInput{UserID: f.bob.ID, VideoID: videoID, Title: &title})
	assert.True(t, errors.Is(err, ErrForbidden), "got %v", err)

	slugs := []string{"music"}
	video, err := svc.UpdateVideo(ctx, UpdateVideoInput{UserID: f.alice.ID, VideoID: videoID, Title: &title, CategorySlugs: &slugs})
	require.NoError(t, err)
	assert.Equal(t, "New title", video.Title)
	assert.Equal(t, "D", video.Description)
	require.Len(t, video.Categories, 1)
	assert.Equal(t, "music", video.Categories[0].Slug)

	bad := []string{"music", "cooking"}
	_, err = svc.UpdateVideo(ctx, UpdateVideoInput{UserID: f.alice.ID, VideoID: videoID, CategorySlugs: &bad})
	assert.True(t, errors.Is(err, ErrCategoryNotFound), "got %v", err)
}

func TestDeleteVideoCascadesAndAllowsResubmit(t *testing.T) {
	f := newFixture(t)
	videoID := f.seedVideo(t, f.alice.ID, "https://youtube.com/watch?v=abc123")
	svc := NewVideoService(f.videoRepo, f.categoryRepo, f.uow())
	reviews := NewReviewService(f.reviewRepo, f.videoRepo, f.likeRepo, f.uow())
	ctx := context.Background()

	review, err := reviews.UpsertReview(ctx, UpsertReviewInput{UserID: f.bob.ID, VideoID: videoID, Rating: 3})
	require.NoError(t, err)
	_, err = NewLikeService(f.likeRepo, f.reviewRepo).LikeReview(ctx, f.alice.ID, review.ID)
	require.NoError(t, err)

	err = svc.DeleteVideo(ctx, f.bob.ID, videoID)
	assert.True(t, errors.Is(err, ErrForbidden), "got %v", err)

	require.NoError(t, svc.DeleteVideo(ctx, f.alice.ID, videoID))
	assert.EqualValues(t, 0, f.count(t, "videos"))
	assert.EqualValues(t, 0, f.count(t, "reviews"))
	assert.EqualValues(t, 0, f.count(t, "likes"))
	assert.EqualValues(t, 0, f.count(t, "video_categories"))

	// 唯一索引不会被已删除的行占住
	f.seedVideo(t, f.bob.ID, "https://youtube.com/watch?v=abc123")
	assert.EqualValues(t, 1, f.count(t, "videos"))
}

func TestCategoryLookup(t *testing.T) {
	f := newFixture(t)
	svc := NewCategoryService(f.categoryRepo)
	ctx := context.Background()

	all, err := svc.ListCategories(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	bySlug, err := svc.GetCategory(ctx, "gaming")
	require.NoError(t, err)
	byID, err := svc.GetCategory(ctx, strconv.FormatUint(bySlug.ID, 10))
	require.NoError(t, err)
	assert.Equal(t, bySlug.ID, byID.ID)

	_, err = svc.GetCategory(ctx, "cooking")
	assert.True(t, errors.Is(err, ErrCategoryNotFound), "got %v", err)
}
