package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	dbsql "github.com/trailfeathers/trailfeathers/db/sql"
	"github.com/trailfeathers/trailfeathers/services/cache"
	"github.com/trailfeathers/trailfeathers/services/server"
	"github.com/trailfeathers/trailfeathers/util"
)

type testClient struct {
	t      *testing.T
	server *httptest.Server
	http   *http.Client
}

func newTestServer(t *testing.T) *httptest.Server {
	store := dbsql.CreateTestStore()
	t.Cleanup(func() { _ = store.Close() })

	conf := &util.ConfigType{CorsOrigins: []string{"http://localhost:5500"}}

	sessions, err := NewSessionManager(conf)
	require.NoError(t, err)

	friends := server.NewFriendshipService(store, store)
	access := server.NewAccessService(store, store)

	router := Route(Services{
		Users:   server.NewUserService(store),
		Friends: friends,
		Trips:   server.NewTripService(store, access),
		Invites: server.NewTripInviteService(store, friends, access),
		Gear:    server.NewGearService(store),
	}, cache.NewMemoryCache(time.Minute), sessions)

	srv := httptest.NewServer(Handler(router, conf))
	t.Cleanup(srv.Close)
	return srv
}

func newClient(t *testing.T, srv *httptest.Server) *testClient {
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)

	return &testClient{t: t, server: srv, http: &http.Client{Jar: jar}}
}

func (c *testClient) do(method string, path string, body any, out any) int {
	c.t.Helper()

	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(c.t, err)
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, c.server.URL+path, reader)
	require.NoError(c.t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	require.NoError(c.t, err)
	defer resp.Body.Close()

	if out != nil && resp.StatusCode < 300 {
		require.NoError(c.t, json.NewDecoder(resp.Body).Decode(out))
	}

	return resp.StatusCode
}

type userResponse struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
}

func (c *testClient) signup(username string) userResponse {
	c.t.Helper()

	var user userResponse
	code := c.do("POST", "/api/signup", map[string]string{"username": username, "password": "password123"}, &user)
	require.Equal(c.t, http.StatusCreated, code)
	return user
}

func TestUnauthenticatedRequestsAreRejected(t *testing.T) {
	srv := newTestServer(t)
	anon := newClient(t, srv)

	assert.Equal(t, http.StatusUnauthorized, anon.do("GET", "/api/me", nil, nil))
	assert.Equal(t, http.StatusUnauthorized, anon.do("GET", "/api/trips", nil, nil))
}

func TestLoginLogout(t *testing.T) {
	srv := newTestServer(t)
	alice := newClient(t, srv)
	alice.signup("alice")

	assert.Equal(t, http.StatusNoContent, alice.do("POST", "/api/logout", nil, nil))
	assert.Equal(t, http.StatusUnauthorized, alice.do("GET", "/api/me", nil, nil))

	assert.Equal(t, http.StatusUnauthorized,
		alice.do("POST", "/api/login", map[string]string{"username": "alice", "password": "nope"}, nil))

	var me userResponse
	assert.Equal(t, http.StatusOK,
		alice.do("POST", "/api/login", map[string]string{"username": "alice", "password": "password123"}, nil))
	assert.Equal(t, http.StatusOK, alice.do("GET", "/api/me", nil, &me))
	assert.Equal(t, "alice", me.Username)

	other := newClient(t, srv)
	assert.Equal(t, http.StatusConflict,
		other.do("POST", "/api/signup", map[string]string{"username": "alice", "password": "password123"}, nil))
}

func TestTripCollaborationOverHTTP(t *testing.T) {
	srv := newTestServer(t)
	alice := newClient(t, srv)
	bob := newClient(t, srv)
	mallory := newClient(t, srv)

	alice.signup("alice")
	bobUser := bob.signup("bob")
	mallory.signup("mallory")

	assert.Equal(t, http.StatusBadRequest,
		alice.do("POST", "/api/trips", map[string]string{"trip_name": "Jump", "activity_type": "Skydiving"}, nil))

	var trip struct {
		ID int `json:"id"`
	}
	require.Equal(t, http.StatusCreated,
		alice.do("POST", "/api/trips", map[string]string{"trip_name": "T", "activity_type": "Hiking"}, &trip))

	tripPath := fmt.Sprintf("/api/trips/%d", trip.ID)

	assert.Equal(t, http.StatusNotFound, mallory.do("GET", tripPath, nil, nil))
	assert.Equal(t, http.StatusNotFound, bob.do("GET", tripPath, nil, nil))

	assert.Equal(t, http.StatusBadRequest,
		alice.do("POST", "/api/friends/request", map[string]string{"username": "alice"}, nil))
	assert.Equal(t, http.StatusForbidden,
		alice.do("POST", tripPath+"/invites", map[string]string{"username": "bob"}, nil))

	var friends []userResponse
	require.Equal(t, http.StatusOK, alice.do("GET", "/api/friends", nil, &friends))
	assert.Empty(t, friends)

	var req struct {
		ID int `json:"id"`
	}
	require.Equal(t, http.StatusCreated,
		alice.do("POST", "/api/friends/request", map[string]string{"username": "bob"}, &req))
	assert.Equal(t, http.StatusConflict,
		alice.do("POST", "/api/friends/request", map[string]int{"receiver_id": bobUser.ID}, nil))

	var incoming []map[string]any
	require.Equal(t, http.StatusOK, bob.do("GET", "/api/friends/requests", nil, &incoming))
	require.Len(t, incoming, 1)
	assert.Equal(t, "alice", incoming[0]["sender_username"])

	acceptPath := fmt.Sprintf("/api/friends/requests/%d/accept", req.ID)
	assert.Equal(t, http.StatusNotFound, alice.do("POST", acceptPath, nil, nil))
	assert.Equal(t, http.StatusOK, bob.do("POST", acceptPath, nil, nil))
	assert.Equal(t, http.StatusNotFound,
		bob.do("POST", fmt.Sprintf("/api/friends/requests/%d/decline", req.ID), nil, nil))

	// the cached empty list must have been invalidated by the accept
	require.Equal(t, http.StatusOK, alice.do("GET", "/api/friends", nil, &friends))
	require.Len(t, friends, 1)
	assert.Equal(t, "bob", friends[0].Username)

	var invite struct {
		ID int `json:"id"`
	}
	require.Equal(t, http.StatusCreated,
		alice.do("POST", tripPath+"/invites", map[string]string{"username": "bob"}, &invite))
	assert.Equal(t, http.StatusConflict,
		alice.do("POST", tripPath+"/invites", map[string]int{"invitee_id": bobUser.ID}, nil))

	assert.Equal(t, http.StatusOK, bob.do("GET", tripPath, nil, nil), "pending invitee may preview")
	assert.Equal(t, http.StatusNotFound, bob.do("GET", tripPath+"/invites", nil, nil))

	var pending []map[string]any
	require.Equal(t, http.StatusOK, alice.do("GET", tripPath+"/invites", nil, &pending))
	require.Len(t, pending, 1)
	assert.Equal(t, "bob", pending[0]["invitee_username"])

	var bobTrips []map[string]any
	require.Equal(t, http.StatusOK, bob.do("GET", "/api/trips", nil, &bobTrips))
	assert.Empty(t, bobTrips)

	var bobInvites []map[string]any
	require.Equal(t, http.StatusOK, bob.do("GET", "/api/trip-invites", nil, &bobInvites))
	require.Len(t, bobInvites, 1)
	assert.Equal(t, "T", bobInvites[0]["trip_name"])

	assert.Equal(t, http.StatusNotFound,
		mallory.do("POST", fmt.Sprintf("/api/trip-invites/%d/accept", invite.ID), nil, nil))
	assert.Equal(t, http.StatusOK,
		bob.do("POST", fmt.Sprintf("/api/trip-invites/%d/accept", invite.ID), nil, nil))

	require.Equal(t, http.StatusOK, bob.do("GET", "/api/trips", nil, &bobTrips))
	require.Len(t, bobTrips, 1)

	var roster []map[string]any
	require.Equal(t, http.StatusOK, bob.do("GET", tripPath+"/collaborators", nil, &roster))
	require.Len(t, roster, 2)
	assert.Equal(t, "alice", roster[0]["username"])
	assert.Equal(t, "creator", roster[0]["role"])
	assert.Equal(t, "bob", roster[1]["username"])
	assert.Equal(t, "member", roster[1]["role"])

	assert.Equal(t, http.StatusConflict,
		alice.do("POST", tripPath+"/invites", map[string]string{"username": "bob"}, nil))

	var checklist struct {
		Items []string `json:"items"`
	}
	require.Equal(t, http.StatusOK, bob.do("GET", tripPath+"/checklist", nil, &checklist))
	assert.Contains(t, checklist.Items, "Map")
}

func TestGearOverHTTP(t *testing.T) {
	srv := newTestServer(t)
	alice := newClient(t, srv)
	alice.signup("alice")

	var item map[string]any
	require.Equal(t, http.StatusCreated, alice.do("POST", "/api/gear", map[string]any{
		"type":       "shelter",
		"name":       "Trekking pole tent",
		"weight_oz":  24.5,
		"attributes": map[string]any{"doors": 2, "freestanding": false},
	}, &item))
	assert.Equal(t, "SHELTER", item["type"])

	assert.Equal(t, http.StatusBadRequest, alice.do("POST", "/api/gear", map[string]any{"name": ""}, nil))

	var items []map[string]any
	require.Equal(t, http.StatusOK, alice.do("GET", "/api/gear", nil, &items))
	require.Len(t, items, 1)
}

func TestActivityTypes(t *testing.T) {
	srv := newTestServer(t)
	alice := newClient(t, srv)
	alice.signup("alice")

	var types []string
	require.Equal(t, http.StatusOK, alice.do("GET", "/api/trips/activity-types", nil, &types))
	assert.Equal(t, []string{
		"Backpacking", "Hiking", "Car Camping", "Bird Watching", "Backcountry Skiing", "Mountaineering",
	}, types)
}

func TestCreateTripWithDateOnlyStart(t *testing.T) {
	srv := newTestServer(t)
	alice := newClient(t, srv)
	alice.signup("alice")

	var trip struct {
		ID                int    `json:"id"`
		IntendedStartDate string `json:"intended_start_date"`
	}
	require.Equal(t, http.StatusCreated, alice.do("POST", "/api/trips", map[string]string{
		"trip_name":           "Wonderland",
		"activity_type":       "Backpacking",
		"intended_start_date": "2026-07-04",
	}, &trip))
	assert.Equal(t, "2026-07-04T00:00:00Z", trip.IntendedStartDate)

	assert.Equal(t, http.StatusBadRequest, alice.do("POST", "/api/trips", map[string]string{
		"trip_name":           "Wonderland",
		"activity_type":       "Backpacking",
		"intended_start_date": "07/04/2026",
	}, nil))
}
