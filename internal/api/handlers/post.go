package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"liftsocial/internal/models"
	"liftsocial/internal/service"
)

// PostHandler 處理與貼文、留言和個人紀錄相關的請求
type PostHandler struct {
	postService *service.PostService
}

// NewPostHandler 創建一個新的 PostHandler 實例
func NewPostHandler(postService *service.PostService) *PostHandler {
	return &PostHandler{postService: postService}
}

// ListPosts 回傳所有貼文，由新到舊
func (h *PostHandler) ListPosts(c *gin.Context) {
	posts, err := h.postService.Feed()
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, posts)
}

// CreatePost 建立新貼文，媒體以 multipart 附帶
func (h *PostHandler) CreatePost(c *gin.Context) {
	fileHeader, err := c.FormFile("media")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "請選擇要上傳的圖片或影片"})
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "無法讀取媒體檔案"})
		return
	}
	defer file.Close()

	input := service.CreatePostInput{
		Caption:   c.PostForm("caption"),
		MediaType: models.MediaType(c.DefaultPostForm("media_type", string(models.MediaImage))),
		Media: &service.Upload{
			Filename:    fileHeader.Filename,
			Size:        fileHeader.Size,
			ContentType: fileHeader.Header.Get("Content-Type"),
			Reader:      file,
		},
	}

	if c.PostForm("is_pr") == "true" {
		input.IsPR = true
		input.LiftType = models.LiftType(c.PostForm("lift_type"))
		weight, err := strconv.ParseFloat(c.PostForm("weight"), 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "請輸入有效的 PR 重量"})
			return
		}
		input.Weight = weight
	}

	post, err := h.postService.Create(currentUserID(c), input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, post)
}

// DeletePost 刪除貼文，只有作者可以執行
func (h *PostHandler) DeletePost(c *gin.Context) {
	postID, err := parseIDParam(c)
	if err != nil {
		return
	}

	if err := h.postService.Delete(currentUserID(c), postID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "貼文已刪除"})
}

// ToggleLike 切換目前用戶對貼文的按讚狀態
func (h *PostHandler) ToggleLike(c *gin.Context) {
	postID, err := parseIDParam(c)
	if err != nil {
		return
	}

	post, err := h.postService.ToggleLike(currentUserID(c), postID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, post)
}

// ListComments 回傳貼文的留言，由舊到新
func (h *PostHandler) ListComments(c *gin.Context) {
	postID, err := parseIDParam(c)
	if err != nil {
		return
	}

	comments, err := h.postService.Comments(postID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, comments)
}

// AddComment 在貼文底下新增留言
func (h *PostHandler) AddComment(c *gin.Context) {
	postID, err := parseIDParam(c)
	if err != nil {
		return
	}

	var input struct {
		Text string `json:"text" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	comment, err := h.postService.AddComment(currentUserID(c), postID, input.Text)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, comment)
}

// ListRecords 回傳目前用戶的個人紀錄歷史
func (h *PostHandler) ListRecords(c *gin.Context) {
	records, err := h.postService.Records(currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, records)
}

// parseIDParam 解析路徑中的 :id 參數，失敗時直接回應 400
func parseIDParam(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "無效的 ID"})
		return 0, err
	}
	return uint(id), nil
}
