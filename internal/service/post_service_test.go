package service

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/socialnet/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func boolPtr(b bool) *bool { return &b }

func TestPostService_VisiblePostsScenario(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := NewPostService(gdb, nil)

	a := createTestUser(t, gdb, "a@test.com")
	b := createTestUser(t, gdb, "b@test.com")

	p1 := createTestPost(t, gdb, a, "P1", true)
	follow(t, gdb, b, a)
	createTestPost(t, gdb, b, "P2", false)

	forB, err := svc.VisiblePosts(Actor{UserID: b.ID}, PostFilter{})
	require.NoError(t, err)
	assert.Equal(t, []uint{p1.ID}, postIDs(forB.Posts))

	forA, err := svc.VisiblePosts(Actor{UserID: a.ID}, PostFilter{})
	require.NoError(t, err)
	assert.Equal(t, []uint{p1.ID}, postIDs(forA.Posts))
}

func TestPostService_VisiblePostsOwnAndFollowedOnly(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := NewPostService(gdb, nil)

	viewer := createTestUser(t, gdb, "bart@test.com")
	followed := createTestUser(t, gdb, "brian@test.com")
	stranger := createTestUser(t, gdb, "lisa@test.com")
	follow(t, gdb, viewer, followed)

	own := createTestPost(t, gdb, viewer, "own", true)
	time.Sleep(5 * time.Millisecond)
	followedPost := createTestPost(t, gdb, followed, "followed", true)
	createTestPost(t, gdb, stranger, "stranger", true)

	result, err := svc.VisiblePosts(Actor{UserID: viewer.ID}, PostFilter{})
	require.NoError(t, err)
	assert.Equal(t, []uint{followedPost.ID, own.ID}, postIDs(result.Posts))
	assert.Equal(t, int64(2), result.Total)
}

// 穷举一个小型关注图，校验可见性谓词不会泄露未关注用户或未发布的文章。
func TestPostService_VisiblePostsNeverLeaks(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := NewPostService(gdb, nil)

	users := make([]db.User, 4)
	for i := range users {
		users[i] = createTestUser(t, gdb, fmt.Sprintf("u%d@test.com", i))
	}
	edges := [][2]int{{0, 1}, {1, 2}, {2, 0}, {3, 0}, {3, 1}, {3, 2}}
	for _, e := range edges {
		follow(t, gdb, users[e[0]], users[e[1]])
	}
	for i, u := range users {
		createTestPost(t, gdb, u, fmt.Sprintf("pub-%d", i), true)
		createTestPost(t, gdb, u, fmt.Sprintf("draft-%d", i), false)
	}

	followsOf := func(i int) map[uint]bool {
		set := map[uint]bool{users[i].ID: true}
		for _, e := range edges {
			if e[0] == i {
				set[users[e[1]].ID] = true
			}
		}
		return set
	}

	for i, viewer := range users {
		result, err := svc.VisiblePosts(Actor{UserID: viewer.ID}, PostFilter{PerPage: maxPerPage})
		require.NoError(t, err)

		allowed := followsOf(i)
		assert.Len(t, result.Posts, len(allowed), "viewer %d", i)
		for _, post := range result.Posts {
			assert.True(t, post.Published, "viewer %d saw unpublished post %d", i, post.ID)
			assert.True(t, allowed[post.UserID], "viewer %d saw post of user %d", i, post.UserID)
		}
	}
}

func TestPostService_TagFilter(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := NewPostService(gdb, nil)
	owner := createTestUser(t, gdb, "tagger@test.com")
	stranger := createTestUser(t, gdb, "stranger@test.com")
	actor := Actor{UserID: owner.ID}

	tagged, err := svc.Create(actor, PostInput{
		Title:     strPtr("Target post"),
		Content:   strPtr("Test content"),
		Published: boolPtr(true),
		Tags:      &[]string{"family", "pets"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"family", "pets"}, tagged.TagNames())

	other, err := svc.Create(actor, PostInput{
		Title:     strPtr("Other"),
		Content:   strPtr("Other content"),
		Published: boolPtr(true),
		Tags:      &[]string{"sports"},
	})
	require.NoError(t, err)

	// 未关注用户的同标签文章不能借标签过滤绕过可见性
	_, err = NewPostService(gdb, nil).Create(Actor{UserID: stranger.ID}, PostInput{
		Title:     strPtr("Hidden"),
		Content:   strPtr("hidden"),
		Published: boolPtr(true),
		Tags:      &[]string{"family"},
	})
	require.NoError(t, err)

	family, err := svc.VisiblePosts(actor, PostFilter{TagSlugs: []string{"family"}})
	require.NoError(t, err)
	assert.Equal(t, []uint{tagged.ID}, postIDs(family.Posts))

	sports, err := svc.VisiblePosts(actor, PostFilter{TagSlugs: []string{"sports"}})
	require.NoError(t, err)
	assert.Equal(t, []uint{other.ID}, postIDs(sports.Posts))

	either, err := svc.VisiblePosts(actor, PostFilter{TagSlugs: []string{"pets", "sports"}})
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint{tagged.ID, other.ID}, postIDs(either.Posts))

	none, err := svc.VisiblePosts(actor, PostFilter{TagSlugs: []string{"cooking"}})
	require.NoError(t, err)
	assert.Empty(t, none.Posts)
}

func TestPostService_Pagination(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := NewPostService(gdb, nil)
	owner := createTestUser(t, gdb, "pager@test.com")
	for i := 0; i < 5; i++ {
		createTestPost(t, gdb, owner, fmt.Sprintf("post %d", i), true)
	}

	page, err := svc.VisiblePosts(Actor{UserID: owner.ID}, PostFilter{Page: 2, PerPage: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(5), page.Total)
	assert.Equal(t, 3, page.TotalPages)
	assert.Len(t, page.Posts, 2)

	capped, err := svc.VisiblePosts(Actor{UserID: owner.ID}, PostFilter{PerPage: 1000})
	require.NoError(t, err)
	assert.Equal(t, maxPerPage, capped.PerPage)
}

func TestPostService_CreateValidatesPublishTime(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := NewPostService(gdb, nil)
	owner := createTestUser(t, gdb, "writer@test.com")
	actor := Actor{UserID: owner.ID}

	_, err := svc.Create(actor, PostInput{
		Title:     strPtr("Draft"),
		Content:   strPtr("body"),
		Published: boolPtr(false),
	})
	assert.ErrorIs(t, err, ErrPublishTimeRequired)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.Create(actor, PostInput{Title: strPtr("Implicit draft"), Content: strPtr("body")})
	assert.ErrorIs(t, err, ErrPublishTimeRequired)

	publishAt := time.Now().Add(time.Hour)
	scheduled, err := svc.Create(actor, PostInput{
		Title:       strPtr("Scheduled"),
		Content:     strPtr("body"),
		Published:   boolPtr(false),
		PublishTime: &publishAt,
	})
	require.NoError(t, err)
	assert.False(t, scheduled.Published)
	require.NotNil(t, scheduled.PublishTime)
	assert.Equal(t, owner.ID, scheduled.UserID)
}

func TestPostService_CreateValidatesFields(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := NewPostService(gdb, nil)
	owner := createTestUser(t, gdb, "fields@test.com")
	actor := Actor{UserID: owner.ID}

	tests := []struct {
		name  string
		input PostInput
		want  error
	}{
		{name: "missing title", input: PostInput{Content: strPtr("c"), Published: boolPtr(true)}, want: ErrTitleRequired},
		{name: "markup only title", input: PostInput{Title: strPtr("<br>"), Content: strPtr("c"), Published: boolPtr(true)}, want: ErrTitleRequired},
		{name: "long title", input: PostInput{Title: strPtr(strings.Repeat("x", 256)), Content: strPtr("c"), Published: boolPtr(true)}, want: ErrTitleTooLong},
		{name: "missing content", input: PostInput{Title: strPtr("t"), Content: strPtr("  "), Published: boolPtr(true)}, want: ErrContentRequired},
		{name: "bad tag", input: PostInput{Title: strPtr("t"), Content: strPtr("c"), Published: boolPtr(true), Tags: &[]string{"???"}}, want: ErrTagInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(actor, tt.input)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	var count int64
	require.NoError(t, gdb.Model(&db.Post{}).Count(&count).Error)
	assert.Zero(t, count, "failed creates must not leave rows behind")

	_, err := svc.Create(Anonymous, PostInput{Title: strPtr("t"), Content: strPtr("c"), Published: boolPtr(true)})
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestPostService_UpdateOwnership(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := NewPostService(gdb, nil)
	owner := createTestUser(t, gdb, "owner@test.com")
	other := createTestUser(t, gdb, "other@test.com")
	follow(t, gdb, other, owner)
	post := createTestPost(t, gdb, owner, "Original", true)

	_, err := svc.Update(Actor{UserID: other.ID}, post.ID, PostInput{Title: strPtr("Hijacked")})
	assert.ErrorIs(t, err, ErrForbidden)

	var stored db.Post
	require.NoError(t, gdb.First(&stored, post.ID).Error)
	assert.Equal(t, "Original", stored.Title)

	updated, err := svc.Update(Actor{UserID: owner.ID}, post.ID, PostInput{
		Title: strPtr("Renamed"),
		Tags:  &[]string{"news"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Title)
	assert.Equal(t, []string{"news"}, updated.TagNames())
	assert.WithinDuration(t, post.CreatedAt, updated.CreatedAt, time.Second)

	_, err = svc.Update(Actor{UserID: owner.ID}, post.ID, PostInput{Published: boolPtr(false)})
	assert.ErrorIs(t, err, ErrPublishTimeRequired)

	_, err = svc.Update(Actor{UserID: owner.ID}, 9999, PostInput{Title: strPtr("x")})
	assert.ErrorIs(t, err, ErrPostNotFound)
}

func TestPostService_ReplaceAllClearsPublishTime(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := NewPostService(gdb, nil)
	owner := createTestUser(t, gdb, "owner@test.com")
	scheduled := createTestPost(t, gdb, owner, "Scheduled", false)
	require.NotNil(t, scheduled.PublishTime)

	// A partial update keeps the stored schedule.
	patched, err := svc.Update(Actor{UserID: owner.ID}, scheduled.ID, PostInput{Title: strPtr("Still scheduled")})
	require.NoError(t, err)
	assert.NotNil(t, patched.PublishTime)

	_, err = svc.Update(Actor{UserID: owner.ID}, scheduled.ID, PostInput{
		Title:      strPtr("Replaced"),
		Content:    strPtr("body"),
		Published:  boolPtr(false),
		Tags:       &[]string{},
		ReplaceAll: true,
	})
	assert.ErrorIs(t, err, ErrPublishTimeRequired)

	replaced, err := svc.Update(Actor{UserID: owner.ID}, scheduled.ID, PostInput{
		Title:      strPtr("Replaced"),
		Content:    strPtr("body"),
		Published:  boolPtr(true),
		Tags:       &[]string{},
		ReplaceAll: true,
	})
	require.NoError(t, err)
	assert.Nil(t, replaced.PublishTime)
	assert.True(t, replaced.Published)
}

func TestPostService_DeleteCascades(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := NewPostService(gdb, nil)
	owner := createTestUser(t, gdb, "owner@test.com")
	fan := createTestUser(t, gdb, "fan@test.com")

	post, err := svc.Create(Actor{UserID: owner.ID}, PostInput{
		Title: strPtr("Doomed"), Content: strPtr("c"), Published: boolPtr(true), Tags: &[]string{"gone"},
	})
	require.NoError(t, err)
	require.NoError(t, gdb.Create(&db.PostLike{PostID: post.ID, UserID: fan.ID}).Error)
	require.NoError(t, gdb.Create(&db.Commentary{PostID: post.ID, UserID: fan.ID, Content: "nice"}).Error)
	require.NoError(t, gdb.Create(&db.PostImage{PostID: post.ID, Image: "/uploads/posts/x.jpg"}).Error)

	assert.ErrorIs(t, svc.Delete(Actor{UserID: fan.ID}, post.ID), ErrForbidden)
	require.NoError(t, svc.Delete(Actor{UserID: owner.ID}, post.ID))

	for _, model := range []interface{}{&db.Post{}, &db.PostLike{}, &db.Commentary{}, &db.PostImage{}} {
		var count int64
		require.NoError(t, gdb.Model(model).Count(&count).Error)
		assert.Zero(t, count, "%T rows left", model)
	}

	var tagCount int64
	require.NoError(t, gdb.Model(&db.Tag{}).Count(&tagCount).Error)
	assert.Equal(t, int64(1), tagCount, "tags are shared and survive post deletion")
}

func TestPostService_GetVisible(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := NewPostService(gdb, nil)
	owner := createTestUser(t, gdb, "owner@test.com")
	follower := createTestUser(t, gdb, "follower@test.com")
	stranger := createTestUser(t, gdb, "stranger@test.com")
	follow(t, gdb, follower, owner)

	published := createTestPost(t, gdb, owner, "published", true)
	draft := createTestPost(t, gdb, owner, "draft", false)

	tests := []struct {
		name   string
		viewer db.User
		post   db.Post
		want   error
	}{
		{name: "owner sees draft", viewer: owner, post: draft},
		{name: "follower sees published", viewer: follower, post: published},
		{name: "follower cannot see draft", viewer: follower, post: draft, want: ErrPostNotFound},
		{name: "stranger cannot see published", viewer: stranger, post: published, want: ErrPostNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.GetVisible(Actor{UserID: tt.viewer.ID}, tt.post.ID)
			if tt.want != nil {
				assert.ErrorIs(t, err, tt.want)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.post.ID, got.ID)
		})
	}

	_, err := svc.GetVisible(Anonymous, published.ID)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestPostService_OwnAndUserListings(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := NewPostService(gdb, nil)
	owner := createTestUser(t, gdb, "owner@test.com")
	viewer := createTestUser(t, gdb, "viewer@test.com")

	published := createTestPost(t, gdb, owner, "published", true)
	draft := createTestPost(t, gdb, owner, "draft", false)

	own, err := svc.ListOwn(Actor{UserID: owner.ID})
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint{published.ID, draft.ID}, postIDs(own))

	byUser, err := svc.ListPublishedByUser(Actor{UserID: viewer.ID}, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{published.ID}, postIDs(byUser))

	_, err = svc.ListPublishedByUser(Actor{UserID: viewer.ID}, 9999)
	assert.ErrorIs(t, err, ErrUserNotFound)

	require.NoError(t, gdb.Create(&db.PostLike{PostID: published.ID, UserID: viewer.ID}).Error)
	liked, err := svc.ListLikedBy(Actor{UserID: viewer.ID})
	require.NoError(t, err)
	assert.Equal(t, []uint{published.ID}, postIDs(liked))
}
