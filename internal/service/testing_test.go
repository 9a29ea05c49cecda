package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/socialnet/internal/db"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupServiceTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:service-%d?mode=memory&cache=shared&_foreign_keys=on", time.Now().UnixNano())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err, "failed to open test database")
	require.NoError(t, db.Migrate(gdb), "failed to migrate test database")

	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return gdb
}

func createTestUser(t *testing.T, gdb *gorm.DB, email string) db.User {
	t.Helper()
	user := db.User{Email: email, Password: "hashed", FirstName: "Test", LastName: email}
	require.NoError(t, gdb.Create(&user).Error, "create user")
	return user
}

func createTestPost(t *testing.T, gdb *gorm.DB, owner db.User, title string, published bool) db.Post {
	t.Helper()
	post := db.Post{UserID: owner.ID, Title: title, Content: "content of " + title, Published: published}
	if !published {
		future := time.Now().UTC().Add(24 * time.Hour)
		post.PublishTime = &future
	}
	require.NoError(t, gdb.Create(&post).Error, "create post")
	return post
}

func follow(t *testing.T, gdb *gorm.DB, follower, followed db.User) {
	t.Helper()
	require.NoError(t, gdb.Create(&db.Follow{FollowerID: follower.ID, FollowedID: followed.ID}).Error, "create follow")
}

func postIDs(posts []db.Post) []uint {
	ids := make([]uint, 0, len(posts))
	for _, p := range posts {
		ids = append(ids, p.ID)
	}
	return ids
}

func userIDs(users []db.User) []uint {
	ids := make([]uint, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}
	return ids
}
