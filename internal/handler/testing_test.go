package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/socialnet/internal/auth"
	"github.com/socialnet/internal/db"
	"github.com/socialnet/internal/service"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestAPI(t *testing.T) *API {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:handler-%d?mode=memory&cache=shared&_foreign_keys=on", time.Now().UnixNano())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			sqlDB.Close()
		}
	})

	tokens := auth.NewTokenIssuer("test-secret", time.Minute, time.Hour)
	return NewAPI(gdb, tokens, t.TempDir(), "/uploads", 1<<20)
}

func seedUser(t *testing.T, api *API, email string) db.User {
	t.Helper()
	user, err := api.users.Register(service.RegisterInput{Email: email, Password: "password", FirstName: "Test", LastName: "User"})
	if err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	return *user
}

func seedPost(t *testing.T, api *API, owner db.User, title string, tags ...string) db.Post {
	t.Helper()
	published := true
	content := "content of " + title
	post, err := api.posts.Create(service.Actor{UserID: owner.ID}, service.PostInput{
		Title:     &title,
		Content:   &content,
		Published: &published,
		Tags:      &tags,
	})
	if err != nil {
		t.Fatalf("failed to seed post: %v", err)
	}
	return *post
}

func seedFollow(t *testing.T, api *API, follower, followed db.User) {
	t.Helper()
	if _, err := api.graph.FollowOrUnfollow(service.Actor{UserID: follower.ID}, followed.ID); err != nil {
		t.Fatalf("failed to follow: %v", err)
	}
}

// newTestContext builds a gin context acting as actor. body may be nil, a
// raw io.Reader, or a value encoded as JSON.
func newTestContext(method, target string, body interface{}, actor db.User, params ...gin.Param) (*gin.Context, *httptest.ResponseRecorder) {
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case io.Reader:
		reader = b
	default:
		payload, _ := json.Marshal(b)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, target, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req
	c.Params = params
	auth.SetActor(c, service.Actor{UserID: actor.ID})
	return c, w
}

func idParamOf(id uint) gin.Param {
	return gin.Param{Key: "id", Value: fmt.Sprint(id)}
}

func decodeJSON(t *testing.T, w *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), dst); err != nil {
		t.Fatalf("failed to decode response %q: %v", w.Body.String(), err)
	}
}

// call runs h and flushes the status the way the engine does after the chain.
func call(c *gin.Context, h gin.HandlerFunc) {
	h(c)
	c.Writer.WriteHeaderNow()
}

func currentActorOf(user db.User) service.Actor {
	return service.Actor{UserID: user.ID}
}

func userUpdateName(first, last string) service.UserUpdate {
	return service.UserUpdate{FirstName: &first, LastName: &last}
}
