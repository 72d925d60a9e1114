package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/trailfeathers/trailfeathers/api/helpers"
	"github.com/trailfeathers/trailfeathers/db"
	"github.com/trailfeathers/trailfeathers/services/cache"
	"github.com/trailfeathers/trailfeathers/services/server"
)

type recordingFriends struct {
	server.FriendshipService

	request    db.FriendRequest
	requestErr error
	calls      []string
}

func (f *recordingFriends) GetRequest(requestID int, userID int) (db.FriendRequest, error) {
	f.calls = append(f.calls, "get")
	return f.request, f.requestErr
}

func (f *recordingFriends) Accept(requestID int, userID int) (bool, error) {
	f.calls = append(f.calls, "accept")
	return true, nil
}

func acceptRequest(c *FriendController, userID int) *httptest.ResponseRecorder {
	r := httptest.NewRequest(http.MethodPost, "/api/friends/requests/7/accept", nil)
	r = mux.SetURLVars(r, map[string]string{"request_id": "7"})
	r = helpers.SetContextValue(r, "user", &db.User{ID: userID})

	w := httptest.NewRecorder()
	c.AcceptRequest(w, r)
	return w
}

func TestAcceptRequestClearsBothFriendLists(t *testing.T) {
	ctx := context.Background()
	listCache := cache.NewMemoryCache(time.Minute)
	listCache.Set(ctx, cache.FriendsKey(1), []byte("[]"))
	listCache.Set(ctx, cache.FriendsKey(2), []byte("[]"))

	friends := &recordingFriends{
		request: db.FriendRequest{ID: 7, SenderID: 1, ReceiverID: 2, Status: db.FriendRequestPending},
	}
	c := &FriendController{Friends: friends, Cache: listCache}

	w := acceptRequest(c, 2)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"get", "accept"}, friends.calls)

	_, ok := listCache.Get(ctx, cache.FriendsKey(1))
	assert.False(t, ok)
	_, ok = listCache.Get(ctx, cache.FriendsKey(2))
	assert.False(t, ok)
}

func TestAcceptRequestDoesNotAcceptWhenLookupFails(t *testing.T) {
	friends := &recordingFriends{
		requestErr: db.Unavailable(errors.New("connection reset")),
	}
	c := &FriendController{Friends: friends, Cache: cache.NewMemoryCache(time.Minute)}

	w := acceptRequest(c, 2)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, []string{"get"}, friends.calls)
}
