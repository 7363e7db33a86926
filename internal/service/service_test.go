package service_test

import (
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"liftsocial/internal/models"
	"liftsocial/internal/repository"
	"liftsocial/internal/service"
	"liftsocial/internal/storage"
)

// newTestServices 建立一套跑在記憶體 sqlite 上的完整服務
func newTestServices(t *testing.T) (*service.Services, *repository.Repositories, string) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	gormDB, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	db := &storage.PostgresDB{DB: gormDB}
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Profile{},
		&models.Post{},
		&models.Comment{},
		&models.PersonalRecord{},
		&models.ChatRoom{},
		&models.Message{},
	))

	mediaRoot := t.TempDir()
	media, err := storage.NewLocalMediaStore(mediaRoot, "http://test/media")
	require.NoError(t, err)

	repos := repository.NewRepositories(db)
	services := service.NewServices(repos, media, nil, zerolog.Nop())
	return services, repos, mediaRoot
}

// createTestUser 建立帳號與個人資料，回傳用戶 ID
func createTestUser(t *testing.T, services *service.Services, email, username string) uint {
	t.Helper()

	user, err := services.User.Register(email, "password123")
	require.NoError(t, err)

	_, err = services.Profile.Save(user.ID, service.ProfileInput{
		Username: username,
		Role:     models.RoleLifter,
	})
	require.NoError(t, err)
	return user.ID
}
