package service

import (
	"strconv"
	"strings"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"liftsocial/internal/repository"
	"liftsocial/internal/storage"
)

type Services struct {
	User     *UserService
	Profile  *ProfileService
	Post     *PostService
	Chat     *ChatService
	Realtime *RealtimeHub
}

func NewServices(repos *repository.Repositories, media storage.MediaStore, rdb *redis.Client,
	logger zerolog.Logger) *Services {
	hub := NewRealtimeHub(rdb, logger)

	userService := NewUserService(repos.User, repos.Profile)
	profileService := NewProfileService(repos.Profile, media, logger)
	postService := NewPostService(repos.Post, repos.Comment, repos.Record, media, hub, logger)
	chatService := NewChatService(repos.Chat, repos.Profile, hub)

	// 訂閱授權：貼文 scope 對所有登入用戶開放，聊天 scope 只對參與者開放
	hub.SetAuthorizer(func(userID uint, scope string) bool {
		if scope == ScopePosts {
			return true
		}
		if roomID, ok := parseChatScope(scope); ok {
			return chatService.CanAccess(userID, roomID)
		}
		return false
	})

	return &Services{
		User:     userService,
		Profile:  profileService,
		Post:     postService,
		Chat:     chatService,
		Realtime: hub,
	}
}

// parseChatScope 解析 "chat:<roomID>" 形式的 scope
func parseChatScope(scope string) (uint, bool) {
	raw, ok := strings.CutPrefix(scope, "chat:")
	if !ok {
		return 0, false
	}
	roomID, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, false
	}
	return uint(roomID), true
}
