package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSocialGraphService_ToggleIsInvolution(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := NewSocialGraphService(gdb)
	a := createTestUser(t, gdb, "a@test.com")
	b := createTestUser(t, gdb, "b@test.com")
	actor := Actor{UserID: a.ID}

	followed, err := svc.FollowOrUnfollow(actor, b.ID)
	require.NoError(t, err)
	assert.True(t, followed)

	isFollowing, err := svc.IsFollowing(a.ID, b.ID)
	require.NoError(t, err)
	assert.True(t, isFollowing)

	// 关注是单向的
	reverse, err := svc.IsFollowing(b.ID, a.ID)
	require.NoError(t, err)
	assert.False(t, reverse)

	followed, err = svc.FollowOrUnfollow(actor, b.ID)
	require.NoError(t, err)
	assert.False(t, followed)

	isFollowing, err = svc.IsFollowing(a.ID, b.ID)
	require.NoError(t, err)
	assert.False(t, isFollowing)
}

func TestSocialGraphService_RejectsSelfFollow(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := NewSocialGraphService(gdb)
	a := createTestUser(t, gdb, "self@test.com")

	_, err := svc.FollowOrUnfollow(Actor{UserID: a.ID}, a.ID)
	assert.ErrorIs(t, err, ErrSelfFollow)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestSocialGraphService_Errors(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := NewSocialGraphService(gdb)
	a := createTestUser(t, gdb, "a@test.com")

	_, err := svc.FollowOrUnfollow(Anonymous, a.ID)
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = svc.FollowOrUnfollow(Actor{UserID: a.ID}, 999)
	assert.ErrorIs(t, err, ErrUserNotFound)

	_, err = svc.Followers(Actor{UserID: a.ID}, 999)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.Following(Anonymous, a.ID)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestSocialGraphService_ListsInInsertionOrder(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := NewSocialGraphService(gdb)
	hub := createTestUser(t, gdb, "hub@test.com")
	zed := createTestUser(t, gdb, "zed@test.com")
	amy := createTestUser(t, gdb, "amy@test.com")
	moe := createTestUser(t, gdb, "moe@test.com")

	for _, target := range []uint{zed.ID, amy.ID, moe.ID} {
		_, err := svc.FollowOrUnfollow(Actor{UserID: hub.ID}, target)
		require.NoError(t, err)
	}
	for _, follower := range []uint{moe.ID, zed.ID} {
		_, err := svc.FollowOrUnfollow(Actor{UserID: follower}, hub.ID)
		require.NoError(t, err)
	}

	following, err := svc.Following(Actor{UserID: amy.ID}, hub.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{zed.ID, amy.ID, moe.ID}, userIDs(following))

	followers, err := svc.Followers(Actor{UserID: amy.ID}, hub.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{moe.ID, zed.ID}, userIDs(followers))

	followersOfAmy, err := svc.Followers(Actor{UserID: amy.ID}, amy.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{hub.ID}, userIDs(followersOfAmy))
}
