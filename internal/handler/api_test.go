package handler_test

import (
	"Videoboxd/internal/data"
	"Videoboxd/internal/handler"
	"Videoboxd/internal/model"
	"Videoboxd/internal/repository"
	"Videoboxd/internal/router"
	"Videoboxd/internal/service"
	"Videoboxd/internal/source"
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type fixedProvider struct{}

func (fixedProvider) Fetch(ctx context.Context, videoID string) (*source.Metadata, error) {
	return &source.Metadata{Title: "T", Description: "D", PublishedAt: source.ParseCompactDate("20240312")}, nil
}

// api 真实的service和内存SQLite拼起来的整套路由
type api struct {
	t      *testing.T
	r      *gin.Engine
	db     *gorm.DB
	alice  *model.User
	bob    *model.User
	gaming *model.Category
}

func newAPI(t *testing.T) *api {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(model.All()...))

	a := &api{
		t:      t,
		db:     db,
		alice:  &model.User{Username: "alice", Email: "alice@example.com", Password: "x", FullName: "Alice A"},
		bob:    &model.User{Username: "bob", Email: "bob@example.com", Password: "x"},
		gaming: &model.Category{Slug: "gaming", Name: "Gaming"},
	}
	for _, row := range []interface{}{a.alice, a.bob, a.gaming, &model.Platform{Slug: source.PlatformYouTube, Name: "YouTube"}} {
		require.NoError(t, db.Create(row).Error)
	}

	userRepo := repository.NewUserRepository(db)
	videoRepo := repository.NewVideoRepository(db, nil)
	categoryRepo := repository.NewCategoryRepository(db)
	reviewRepo := repository.NewReviewRepository(db)
	likeRepo := repository.NewLikeRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	uow := data.NewUnitOfWork(db, videoRepo, reviewRepo, likeRepo, commentRepo)

	ingest := service.NewIngestService(
		videoRepo,
		service.NewEntityResolver(repository.NewPlatformRepository(db), categoryRepo),
		service.NewCommitCoordinator(uow, 5*time.Second),
		fixedProvider{},
		nil,
		time.Second,
	)
	a.r = router.SetupRouter(
		testSecret,
		handler.NewUserHandler(service.NewUserService(userRepo, reviewRepo, likeRepo, testSecret, time.Hour)),
		handler.NewVideoHandler(ingest, service.NewVideoService(videoRepo, categoryRepo, uow)),
		handler.NewCategoryHandler(service.NewCategoryService(categoryRepo)),
		handler.NewReviewHandler(service.NewReviewService(reviewRepo, videoRepo, likeRepo, uow)),
		handler.NewLikeHandler(service.NewLikeService(likeRepo, reviewRepo)),
		handler.NewCommentHandler(service.NewCommentService(commentRepo, reviewRepo)),
	)
	return a
}

func (a *api) do(method, path string, userID uint64, body interface{}) *httptest.ResponseRecorder {
	a.t.Helper()
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		require.NoError(a.t, err)
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	if userID != 0 {
		req.Header.Set("Authorization", bearer(a.t, userID))
	}
	w := httptest.NewRecorder()
	a.r.ServeHTTP(w, req)
	return w
}

// decodeData 取出响应里的data字段
func decodeData(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	var body struct {
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	require.NoError(t, json.Unmarshal(body.Data, out), string(body.Data))
}

func (a *api) createVideo(ownerID uint64) uint64 {
	a.t.Helper()
	w := a.do(http.MethodPost, "/api/v1/videos", ownerID, map[string]string{"url": "https://youtube.com/watch?v=abc123", "category": "gaming"})
	require.Equal(a.t, http.StatusCreated, w.Code, w.Body.String())
	var video struct {
		ID uint64 `json:"id"`
	}
	decodeData(a.t, w, &video)
	return video.ID
}

func (a *api) createReview(videoID, userID uint64, rating int) uint64 {
	a.t.Helper()
	w := a.do(http.MethodPost, "/api/v1/videos/"+strconv.FormatUint(videoID, 10)+"/reviews", userID, map[string]interface{}{"rating": rating, "text": "ok"})
	require.Equal(a.t, http.StatusCreated, w.Code, w.Body.String())
	var review struct {
		ID uint64 `json:"id"`
	}
	decodeData(a.t, w, &review)
	return review.ID
}

func TestUserEndpoints(t *testing.T) {
	a := newAPI(t)

	w := a.do(http.MethodPost, "/api/v1/users/register", 0, map[string]string{"username": "carol", "email": "carol@example.com", "password": "secret1"})
	assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	w = a.do(http.MethodPost, "/api/v1/users/register", 0, map[string]string{"username": "carol", "email": "c2@example.com", "password": "secret1"})
	assert.Equal(t, http.StatusConflict, w.Code)
	w = a.do(http.MethodPost, "/api/v1/users/register", 0, map[string]string{"username": "dave", "email": "not-an-email", "password": "secret1"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = a.do(http.MethodPost, "/api/v1/users/login", 0, map[string]string{"username": "carol", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	w = a.do(http.MethodPost, "/api/v1/users/login", 0, map[string]string{"username": "carol", "password": "secret1"})
	require.Equal(t, http.StatusOK, w.Code)
	var login struct {
		Token string `json:"token"`
	}
	decodeData(t, w, &login)
	assert.NotEmpty(t, login.Token)

	w = a.do(http.MethodGet, "/api/v1/users", 0, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "email")
	assert.NotContains(t, w.Body.String(), "password")
	var users []map[string]interface{}
	decodeData(t, w, &users)
	assert.Len(t, users, 3)

	for _, identifier := range []string{strconv.FormatUint(a.alice.ID, 10), "alice", "alice@example.com"} {
		w = a.do(http.MethodGet, "/api/v1/users/"+identifier, 0, nil)
		require.Equal(t, http.StatusOK, w.Code, identifier)
		assert.NotContains(t, w.Body.String(), "alice@example.com")
		var user struct {
			ID       uint64        `json:"id"`
			FullName string        `json:"full_name"`
			Reviews  []interface{} `json:"reviews"`
		}
		decodeData(t, w, &user)
		assert.Equal(t, a.alice.ID, user.ID)
		assert.Equal(t, "Alice A", user.FullName)
		assert.NotNil(t, user.Reviews)
	}
	w = a.do(http.MethodGet, "/api/v1/users/nobody", 0, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = a.do(http.MethodGet, "/api/v1/profile", 0, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	w = a.do(http.MethodGet, "/api/v1/profile", a.alice.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var profile struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		FullName string `json:"full_name"`
	}
	decodeData(t, w, &profile)
	assert.Equal(t, "alice", profile.Username)
	assert.Equal(t, "alice@example.com", profile.Email)
	assert.Equal(t, "Alice A", profile.FullName)
}

func TestCategoryEndpoints(t *testing.T) {
	a := newAPI(t)

	w := a.do(http.MethodGet, "/api/v1/categories", 0, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var categories []struct {
		Slug string `json:"slug"`
	}
	decodeData(t, w, &categories)
	require.Len(t, categories, 1)
	assert.Equal(t, "gaming", categories[0].Slug)

	for _, identifier := range []string{"gaming", strconv.FormatUint(a.gaming.ID, 10)} {
		w = a.do(http.MethodGet, "/api/v1/categories/"+identifier, 0, nil)
		assert.Equal(t, http.StatusOK, w.Code, identifier)
	}
	w = a.do(http.MethodGet, "/api/v1/categories/cooking", 0, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestReviewEndpoints(t *testing.T) {
	a := newAPI(t)
	videoID := a.createVideo(a.alice.ID)

	w := a.do(http.MethodPost, "/api/v1/videos/"+strconv.FormatUint(videoID, 10)+"/reviews", 0, map[string]interface{}{"rating": 4})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	w = a.do(http.MethodPost, "/api/v1/videos/"+strconv.FormatUint(videoID, 10)+"/reviews", a.bob.ID, map[string]interface{}{"rating": 9})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = a.do(http.MethodPost, "/api/v1/videos/999/reviews", a.bob.ID, map[string]interface{}{"rating": 4})
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = a.do(http.MethodPost, "/api/v1/videos/abc/reviews", a.bob.ID, map[string]interface{}{"rating": 4})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	reviewID := a.createReview(videoID, a.bob.ID, 4)
	path := "/api/v1/reviews/" + strconv.FormatUint(reviewID, 10)

	w = a.do(http.MethodGet, path, 0, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w = a.do(http.MethodGet, "/api/v1/reviews/999", 0, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = a.do(http.MethodGet, "/api/v1/reviews?video_id="+strconv.FormatUint(videoID, 10), 0, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var reviews []struct {
		ID uint64 `json:"id"`
	}
	decodeData(t, w, &reviews)
	require.Len(t, reviews, 1)
	w = a.do(http.MethodGet, "/api/v1/reviews?video_id=x", 0, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = a.do(http.MethodPatch, path, a.alice.ID, map[string]interface{}{"text": "hijack"})
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = a.do(http.MethodPatch, path, a.bob.ID, map[string]interface{}{"rating": 2})
	require.Equal(t, http.StatusOK, w.Code)
	var updated struct {
		Rating int `json:"rating"`
	}
	decodeData(t, w, &updated)
	assert.Equal(t, 2, updated.Rating)

	w = a.do(http.MethodDelete, path, a.alice.ID, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = a.do(http.MethodDelete, path, a.bob.ID, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w = a.do(http.MethodGet, path, 0, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestLikeAndCommentEndpoints(t *testing.T) {
	a := newAPI(t)
	videoID := a.createVideo(a.alice.ID)
	reviewID := a.createReview(videoID, a.bob.ID, 5)
	likePath := "/api/v1/reviews/" + strconv.FormatUint(reviewID, 10) + "/like"
	commentsPath := "/api/v1/reviews/" + strconv.FormatUint(reviewID, 10) + "/comments"

	w := a.do(http.MethodPost, likePath, 0, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	w = a.do(http.MethodPost, likePath, a.alice.ID, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w = a.do(http.MethodPost, likePath, a.alice.ID, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	w = a.do(http.MethodPost, "/api/v1/reviews/999/like", a.alice.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = a.do(http.MethodGet, "/api/v1/reviews/"+strconv.FormatUint(reviewID, 10), 0, nil)
	var review struct {
		LikeCount int64 `json:"like_count"`
	}
	decodeData(t, w, &review)
	assert.EqualValues(t, 1, review.LikeCount)

	w = a.do(http.MethodDelete, likePath, a.alice.ID, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w = a.do(http.MethodDelete, likePath, a.alice.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = a.do(http.MethodPost, commentsPath, a.alice.ID, map[string]string{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	for _, text := range []string{"first", "second", "third"} {
		w = a.do(http.MethodPost, commentsPath, a.alice.ID, map[string]string{"text": text})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	}
	w = a.do(http.MethodPost, "/api/v1/reviews/999/comments", a.alice.ID, map[string]string{"text": "lost"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = a.do(http.MethodGet, commentsPath+"?page=2&page_size=2", 0, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var comments []struct {
		Text string `json:"text"`
	}
	decodeData(t, w, &comments)
	require.Len(t, comments, 1)
	assert.Equal(t, "third", comments[0].Text)
}

func TestSubmitVideoAddsReviewToExistingVideo(t *testing.T) {
	a := newAPI(t)
	a.createVideo(a.alice.ID)

	w := a.do(http.MethodPost, "/api/v1/videos/submit", a.bob.ID, map[string]interface{}{
		"url":         "https://youtu.be/abc123",
		"category":    "gaming",
		"review_text": "late to the party",
		"rating":      4,
		"is_liked":    true,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp struct {
		Existing bool `json:"existing"`
		Liked    bool `json:"liked"`
		Review   *struct {
			Rating int `json:"rating"`
			Author struct {
				ID uint64 `json:"id"`
			} `json:"author"`
		} `json:"review"`
	}
	decodeData(t, w, &resp)
	assert.True(t, resp.Existing)
	assert.True(t, resp.Liked)
	require.NotNil(t, resp.Review)
	assert.Equal(t, 4, resp.Review.Rating)
	assert.Equal(t, a.bob.ID, resp.Review.Author.ID)

	var videos int64
	require.NoError(t, a.db.Model(&model.Video{}).Count(&videos).Error)
	assert.EqualValues(t, 1, videos)
}
