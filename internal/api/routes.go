package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"liftsocial/internal/api/handlers"
	"liftsocial/internal/middleware"
	"liftsocial/internal/service"
)

// SetupRoutes 設置所有路由
// mediaRoot 不為空時以靜態路由對外提供本地媒體儲存
func SetupRoutes(r *gin.Engine, services *service.Services, mediaRoot string) {
	// 初始化 handlers
	authHandler := handlers.NewAuthHandler(services.User)
	profileHandler := handlers.NewProfileHandler(services.Profile)
	postHandler := handlers.NewPostHandler(services.Post)
	chatHandler := handlers.NewChatHandler(services.Chat)
	wsHandler := handlers.NewWebSocketHandler(services.Realtime)

	// API 路由群組
	api := r.Group("/api")

	// 處理 404 錯誤
	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "找不到該路徑",
		})
	})

	// 本地媒體儲存的公開路由
	if mediaRoot != "" {
		r.Static("/media", mediaRoot)
	}

	// 公開路由
	{
		// 用戶認證相關
		api.POST("/register", authHandler.Register)
		api.POST("/login", authHandler.Login)

		// 基本的健康檢查
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"status": "ok",
			})
		})
	}

	// 需要驗證的路由
	authorized := api.Group("/")
	authorized.Use(middleware.AuthMiddleware())
	{
		// 目前身份
		authorized.GET("/session", authHandler.Session)

		// 個人資料相關
		authorized.GET("/profile", profileHandler.GetProfile)
		authorized.PUT("/profile", profileHandler.SaveProfile)
		authorized.GET("/profiles", profileHandler.ListProfiles)

		// 貼文相關
		posts := authorized.Group("/posts")
		{
			posts.GET("", postHandler.ListPosts)      // 獲取貼文列表
			posts.POST("", postHandler.CreatePost)    // 建立貼文
			posts.DELETE("/:id", postHandler.DeletePost)
			posts.POST("/:id/like", postHandler.ToggleLike)
			posts.GET("/:id/comments", postHandler.ListComments)
			posts.POST("/:id/comments", postHandler.AddComment)
		}

		// 個人紀錄歷史
		authorized.GET("/records", postHandler.ListRecords)

		// 私訊相關
		chat := authorized.Group("/chat")
		{
			chat.GET("/rooms", chatHandler.ListRooms)
			chat.POST("/rooms", chatHandler.CreateRoom)
			chat.GET("/rooms/:id/messages", chatHandler.ListMessages)
			chat.POST("/rooms/:id/messages", chatHandler.SendMessage)
		}

		// 變動通知的 WebSocket 連接點
		authorized.GET("/ws", wsHandler.HandleWebSocket)
	}
}
