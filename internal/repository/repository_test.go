package repository

import (
	"Videoboxd/internal/model"
	"context"
	"strconv"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/glebarez/sqlite"
	"github.com/go-redis/redis/v8"
	"github.com/go-sql-driver/mysql"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
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
	return db
}

// seedVideos 一个用户、一个平台，再按标题各建一个视频
func seedVideos(t *testing.T, db *gorm.DB, titles ...string) *model.User {
	t.Helper()
	user := &model.User{Username: "alice", Email: "alice@example.com", Password: "$2a$10$hash"}
	platform := &model.Platform{Slug: "youtube", Name: "YouTube"}
	require.NoError(t, db.Create(user).Error)
	require.NoError(t, db.Create(platform).Error)
	for i, title := range titles {
		require.NoError(t, db.Create(&model.Video{
			UserID:          user.ID,
			PlatformID:      platform.ID,
			PlatformVideoID: string(rune('a'+i)) + "vid",
			OriginalURL:     "https://youtu.be/x",
			Title:           title,
		}).Error)
	}
	return user
}

func TestIsDuplicateKey(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"gorm translated", gorm.ErrDuplicatedKey, true},
		{"gorm translated and wrapped", errors.Wrap(gorm.ErrDuplicatedKey, "create video"), true},
		{"mysql 1062", &mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'abc123'"}, true},
		{"mysql 1062 wrapped", errors.Wrapf(&mysql.MySQLError{Number: 1062}, "create video %s", "abc123"), true},
		{"mysql other code", &mysql.MySQLError{Number: 1452}, false},
		{"not found", gorm.ErrRecordNotFound, false},
		{"plain", errors.New("boom"), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, IsDuplicateKey(tc.err))
		})
	}
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, IsNotFound(errors.Wrap(gorm.ErrRecordNotFound, "find video")))
	assert.False(t, IsNotFound(gorm.ErrDuplicatedKey))
	assert.False(t, IsNotFound(nil))
}

func TestSearchTreatsWildcardsLiterally(t *testing.T) {
	db := newTestDB(t)
	seedVideos(t, db, "100% speedrun", "my_first_clip", "plain title", "wow!")
	repo := NewVideoRepository(db, nil)
	ctx := context.Background()

	cases := []struct {
		query string
		want  []string
	}{
		{"%", []string{"100% speedrun"}},
		{"_", []string{"my_first_clip"}},
		{"!", []string{"wow!"}},
		{"title", []string{"plain title"}},
		{"", []string{"100% speedrun", "my_first_clip", "plain title", "wow!"}},
	}
	for _, tc := range cases {
		videos, err := repo.Search(ctx, tc.query, 10)
		require.NoError(t, err)
		var titles []string
		for _, v := range videos {
			titles = append(titles, v.Title)
		}
		assert.ElementsMatch(t, tc.want, titles, "query %q", tc.query)
	}
}

func TestVideoCacheOmitsOwnerCredentials(t *testing.T) {
	db := newTestDB(t)
	seedVideos(t, db, "cached")
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	repo := NewVideoRepository(db, rdb)
	ctx := context.Background()

	video, err := repo.FindByPlatformVideoID(ctx, "avid")
	require.NoError(t, err)
	require.Equal(t, "alice@example.com", video.User.Email)
	require.NoError(t, repo.SetVideoCache(ctx, video))

	raw, err := mr.Get("videoboxd:video:info:" + strconv.FormatUint(video.ID, 10))
	require.NoError(t, err)
	assert.NotContains(t, raw, "alice@example.com")
	assert.NotContains(t, raw, "$2a$10$hash")
	assert.Contains(t, raw, "alice")

	cached, err := repo.GetVideoCache(ctx, video.ID)
	require.NoError(t, err)
	require.NotNil(t, cached)
	assert.Equal(t, video.ID, cached.ID)
	assert.Equal(t, "cached", cached.Title)
	assert.Empty(t, cached.User.Password)

	require.NoError(t, repo.DeleteVideoCache(ctx, video.ID))
	cached, err = repo.GetVideoCache(ctx, video.ID)
	require.NoError(t, err)
	assert.Nil(t, cached)
}
