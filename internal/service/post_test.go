package service_test

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"liftsocial/internal/apperr"
	"liftsocial/internal/models"
	"liftsocial/internal/service"
)

func imageUpload(size int) *service.Upload {
	payload := bytes.Repeat([]byte("x"), size)
	return &service.Upload{
		Filename:    "lift.jpg",
		Size:        int64(size),
		ContentType: "image/jpeg",
		Reader:      bytes.NewReader(payload),
	}
}

func createTestPost(t *testing.T, services *service.Services, userID uint, input service.CreatePostInput) *models.Post {
	t.Helper()

	if input.Media == nil {
		input.Media = imageUpload(64)
	}
	if input.MediaType == "" {
		input.MediaType = models.MediaImage
	}
	post, err := services.Post.Create(userID, input)
	require.NoError(t, err)
	return post
}

func TestToggleLikeIdempotent(t *testing.T) {
	services, _, _ := newTestServices(t)

	author := createTestUser(t, services, "author@example.com", "author")
	liker := createTestUser(t, services, "liker@example.com", "liker")
	post := createTestPost(t, services, author, service.CreatePostInput{Caption: "heavy triples"})

	liked, err := services.Post.ToggleLike(liker, post.ID)
	require.NoError(t, err)
	assert.True(t, liked.LikedBy(liker))
	assert.Len(t, liked.Likes, 1)

	// 再按一次回到原本的集合
	unliked, err := services.Post.ToggleLike(liker, post.ID)
	require.NoError(t, err)
	assert.False(t, unliked.LikedBy(liker))
	assert.Len(t, unliked.Likes, 0)
}

func TestToggleLikeKeepsOtherMembers(t *testing.T) {
	services, _, _ := newTestServices(t)

	author := createTestUser(t, services, "author@example.com", "author")
	first := createTestUser(t, services, "first@example.com", "first")
	second := createTestUser(t, services, "second@example.com", "second")
	post := createTestPost(t, services, author, service.CreatePostInput{})

	_, err := services.Post.ToggleLike(first, post.ID)
	require.NoError(t, err)
	updated, err := services.Post.ToggleLike(second, post.ID)
	require.NoError(t, err)
	require.Len(t, updated.Likes, 2)

	updated, err = services.Post.ToggleLike(first, post.ID)
	require.NoError(t, err)
	require.Len(t, updated.Likes, 1)
	assert.True(t, updated.LikedBy(second))
}

func TestCreatePostWithPR(t *testing.T) {
	services, _, _ := newTestServices(t)

	userID := createTestUser(t, services, "author@example.com", "author")
	post := createTestPost(t, services, userID, service.CreatePostInput{
		Caption:  "new squat PR",
		IsPR:     true,
		LiftType: models.LiftSquat,
		Weight:   180.5,
	})

	assert.True(t, post.IsPR)
	assert.Equal(t, models.LiftSquat, post.LiftType)

	// 恰好一筆個人紀錄指向這則貼文
	records, err := services.Post.Records(userID)
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.NotNil(t, records[0].PostID)
	assert.Equal(t, post.ID, *records[0].PostID)
	assert.Equal(t, 180.5, records[0].Weight)
	assert.Equal(t, models.LiftSquat, records[0].LiftType)
}

func TestCreatePostWithoutPR(t *testing.T) {
	services, _, _ := newTestServices(t)

	userID := createTestUser(t, services, "author@example.com", "author")
	createTestPost(t, services, userID, service.CreatePostInput{Caption: "just training"})

	records, err := services.Post.Records(userID)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestCreatePostInvalidPRWeight(t *testing.T) {
	services, _, mediaRoot := newTestServices(t)

	userID := createTestUser(t, services, "author@example.com", "author")
	_, err := services.Post.Create(userID, service.CreatePostInput{
		MediaType: models.MediaImage,
		Media:     imageUpload(64),
		IsPR:      true,
		LiftType:  models.LiftBench,
		Weight:    0,
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrValidation))

	// 驗證失敗發生在任何寫入之前
	_, statErr := os.Stat(filepath.Join(mediaRoot, "posts"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestCreatePostImageTooLarge(t *testing.T) {
	services, _, mediaRoot := newTestServices(t)

	userID := createTestUser(t, services, "author@example.com", "author")
	_, err := services.Post.Create(userID, service.CreatePostInput{
		MediaType: models.MediaImage,
		Media: &service.Upload{
			Filename:    "big.jpg",
			Size:        6 * 1024 * 1024, // 超過 5MB 上限
			ContentType: "image/jpeg",
			Reader:      bytes.NewReader([]byte("stub")),
		},
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrValidation))

	_, statErr := os.Stat(filepath.Join(mediaRoot, "posts"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestCreatePostWrongContentType(t *testing.T) {
	services, _, _ := newTestServices(t)

	userID := createTestUser(t, services, "author@example.com", "author")
	_, err := services.Post.Create(userID, service.CreatePostInput{
		MediaType: models.MediaImage,
		Media: &service.Upload{
			Filename:    "clip.mp4",
			Size:        64,
			ContentType: "video/mp4",
			Reader:      bytes.NewReader([]byte("stub")),
		},
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrValidation))
}

func TestDeletePostCascade(t *testing.T) {
	services, _, _ := newTestServices(t)

	author := createTestUser(t, services, "author@example.com", "author")
	commenter := createTestUser(t, services, "commenter@example.com", "commenter")
	post := createTestPost(t, services, author, service.CreatePostInput{
		IsPR:     true,
		LiftType: models.LiftDeadlift,
		Weight:   220,
	})

	_, err := services.Post.AddComment(commenter, post.ID, "strong!")
	require.NoError(t, err)

	require.NoError(t, services.Post.Delete(author, post.ID))

	// 貼文立即從快照消失
	feed, err := services.Post.Feed()
	require.NoError(t, err)
	assert.Empty(t, feed)

	// 留言一併刪除
	comments, err := services.Post.Comments(post.ID)
	require.NoError(t, err)
	assert.Empty(t, comments)

	// 個人紀錄保留，但回溯參照被清空
	records, err := services.Post.Records(author)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Nil(t, records[0].PostID)
}

func TestDeletePostOnlyAuthor(t *testing.T) {
	services, _, _ := newTestServices(t)

	author := createTestUser(t, services, "author@example.com", "author")
	other := createTestUser(t, services, "other@example.com", "other")
	post := createTestPost(t, services, author, service.CreatePostInput{})

	err := services.Post.Delete(other, post.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrForbidden))
}

func TestAddCommentEmpty(t *testing.T) {
	services, _, _ := newTestServices(t)

	userID := createTestUser(t, services, "author@example.com", "author")
	post := createTestPost(t, services, userID, service.CreatePostInput{})

	_, err := services.Post.AddComment(userID, post.ID, "   ")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrValidation))
}

func TestCommentsOrderedAscending(t *testing.T) {
	services, _, _ := newTestServices(t)

	userID := createTestUser(t, services, "author@example.com", "author")
	post := createTestPost(t, services, userID, service.CreatePostInput{})

	for _, text := range []string{"first", "second", "third"} {
		_, err := services.Post.AddComment(userID, post.ID, text)
		require.NoError(t, err)
	}

	comments, err := services.Post.Comments(post.ID)
	require.NoError(t, err)
	require.Len(t, comments, 3)
	for i := 1; i < len(comments); i++ {
		assert.False(t, comments[i].CreatedAt.Before(comments[i-1].CreatedAt))
	}
	assert.Equal(t, "first", comments[0].Text)
	assert.Equal(t, "third", comments[2].Text)
}

func TestFeedDropsAuthorlessPosts(t *testing.T) {
	services, repos, _ := newTestServices(t)

	userID := createTestUser(t, services, "author@example.com", "author")
	createTestPost(t, services, userID, service.CreatePostInput{Caption: "visible"})

	// 沒有個人資料的作者發出的貼文無法渲染
	orphan := models.Post{
		UserID:   9999,
		ImageURL: "http://test/media/posts/orphan.jpg",
		Likes:    []uint{},
	}
	require.NoError(t, repos.Post.Create(&orphan))

	feed, err := services.Post.Feed()
	require.NoError(t, err)
	require.Len(t, feed, 1)
	assert.Equal(t, "visible", feed[0].Caption)
}
