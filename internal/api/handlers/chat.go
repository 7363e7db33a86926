package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"liftsocial/internal/service"
)

// ChatHandler 處理與私訊相關的請求
type ChatHandler struct {
	chatService *service.ChatService
}

// NewChatHandler 創建一個新的 ChatHandler 實例
func NewChatHandler(chatService *service.ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

// ListRooms 回傳目前用戶參與的所有聊天室
func (h *ChatHandler) ListRooms(c *gin.Context) {
	rooms, err := h.chatService.Rooms(currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, rooms)
}

// CreateRoom 取得與指定用戶的聊天室，不存在時建立
func (h *ChatHandler) CreateRoom(c *gin.Context) {
	var input struct {
		UserID uint `json:"user_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	room, err := h.chatService.RoomForPair(currentUserID(c), input.UserID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, room)
}

// ListMessages 回傳聊天室內的訊息，由舊到新
func (h *ChatHandler) ListMessages(c *gin.Context) {
	roomID, err := parseIDParam(c)
	if err != nil {
		return
	}

	messages, err := h.chatService.Messages(currentUserID(c), roomID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, messages)
}

// SendMessage 在聊天室內送出訊息
func (h *ChatHandler) SendMessage(c *gin.Context) {
	roomID, err := parseIDParam(c)
	if err != nil {
		return
	}

	var input struct {
		Content string `json:"content" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	message, err := h.chatService.Send(currentUserID(c), roomID, input.Content)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, message)
}
