package service

import "io"

// Upload 表示一個等待寫入媒體儲存的檔案
type Upload struct {
	Filename    string
	Size        int64
	ContentType string
	Reader      io.Reader
}
