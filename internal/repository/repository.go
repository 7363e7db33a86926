package repository

import "liftsocial/internal/storage"

type Repositories struct {
	User    UserRepository
	Profile ProfileRepository
	Post    PostRepository
	Comment CommentRepository
	Record  RecordRepository
	Chat    ChatRepository
}

func NewRepositories(db *storage.PostgresDB) *Repositories {
	return &Repositories{
		User:    NewUserRepository(db),
		Profile: NewProfileRepository(db),
		Post:    NewPostRepository(db),
		Comment: NewCommentRepository(db),
		Record:  NewRecordRepository(db),
		Chat:    NewChatRepository(db),
	}
}
