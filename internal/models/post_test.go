package models_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"liftsocial/internal/models"
)

func TestToggleLikeRoundTrip(t *testing.T) {
	post := models.Post{Likes: []uint{1, 2, 3}}

	post.ToggleLike(4)
	assert.True(t, post.LikedBy(4))
	assert.Len(t, post.Likes, 4)

	post.ToggleLike(4)
	assert.False(t, post.LikedBy(4))
	assert.Equal(t, []uint{1, 2, 3}, post.Likes)
}

func TestToggleLikeRemovesOnlyTarget(t *testing.T) {
	post := models.Post{Likes: []uint{1, 2, 3}}

	post.ToggleLike(2)
	assert.Equal(t, []uint{1, 3}, post.Likes)
	assert.True(t, post.LikedBy(1))
	assert.True(t, post.LikedBy(3))
}

func TestValidLiftType(t *testing.T) {
	assert.True(t, models.ValidLiftType(models.LiftSquat))
	assert.True(t, models.ValidLiftType(models.LiftBench))
	assert.True(t, models.ValidLiftType(models.LiftDeadlift))
	assert.False(t, models.ValidLiftType(models.LiftType("curl")))
}
