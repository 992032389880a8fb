package apiclient_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"anoa.com/neoboard/internal/config"
	"anoa.com/neoboard/internal/server"
	"anoa.com/neoboard/internal/testutil"
	"anoa.com/neoboard/pkg/apiclient"
	"anoa.com/neoboard/pkg/apperror"
	"anoa.com/neoboard/pkg/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type backend struct {
	name string
	// newClients returns two clients sharing one store.
	newClients func(t *testing.T) (*apiclient.Client, *apiclient.Client)
}

func backends() []backend {
	return []backend{
		{
			name: "memory",
			newClients: func(t *testing.T) (*apiclient.Client, *apiclient.Client) {
				store := apiclient.NewMemoryStore(apiclient.WithLatency(0), apiclient.WithoutSeed())
				return apiclient.NewWithStore(store, apiclient.NewMemoryTokenStore()),
					apiclient.NewWithStore(store, apiclient.NewMemoryTokenStore())
			},
		},
		{
			name: "http",
			newClients: func(t *testing.T) (*apiclient.Client, *apiclient.Client) {
				gin.SetMode(gin.TestMode)
				cfg := &config.Config{
					AppEnv:            "test",
					JWTSecret:         "test-secret",
					JWTExpiresIn:      time.Hour,
					RateLimitRequests: 1000,
					RateLimitWindow:   time.Minute,
				}
				srv, err := server.NewServer(cfg, testutil.NewDB(t), nil)
				require.NoError(t, err)

				ts := httptest.NewServer(srv.Handler())
				t.Cleanup(ts.Close)
				return apiclient.New(ts.URL), apiclient.New(ts.URL)
			},
		},
	}
}

func TestForumRules(t *testing.T) {
	for _, b := range backends() {
		t.Run(b.name, func(t *testing.T) {
			ctx := context.Background()
			alice, bob := b.newClients(t)

			me, err := alice.Register(ctx, "alice", "alice@example.com", "secret1")
			require.NoError(t, err)
			assert.Equal(t, "alice", me.Username)
			assert.True(t, alice.LoggedIn())

			_, err = bob.Register(ctx, "alice", "other@example.com", "secret1")
			assert.Equal(t, http.StatusBadRequest, apperror.MapErrorToStatus(err))

			_, err = bob.LoginAnonymous(ctx)
			require.NoError(t, err)
			anon, err := bob.Me(ctx)
			require.NoError(t, err)
			assert.Equal(t, "Anonymous", anon.Username)
			assert.True(t, anon.IsAnonymous)

			board, err := alice.CreateBoard(ctx, apiclient.CreateBoardRequest{
				Name:        "/tech/",
				Description: "Technology",
				Category:    "Technology",
			})
			require.NoError(t, err)

			_, err = bob.UpdateBoard(ctx, board.ID, apiclient.UpdateBoardRequest{IsNSFW: ptr(true)})
			assert.ErrorIs(t, err, apperror.ErrForbidden)

			thread, err := alice.CreateThread(ctx, apiclient.CreateThreadRequest{
				BoardID: board.ID,
				Title:   "Hello",
				Content: "First!",
			})
			require.NoError(t, err)

			posts, err := bob.ListPosts(ctx, thread.ID, dto.PageQuery{})
			require.NoError(t, err)
			require.Len(t, posts, 1)
			assert.True(t, posts[0].IsOP)
			assert.Equal(t, "First!", posts[0].Content)

			reply, err := bob.CreatePost(ctx, apiclient.CreatePostRequest{ThreadID: thread.ID, Content: "hi", ReplyTo: &posts[0].ID})
			require.NoError(t, err)
			_, err = bob.CreatePost(ctx, apiclient.CreatePostRequest{ThreadID: thread.ID, Content: "again"})
			require.NoError(t, err)

			got, err := alice.GetBoard(ctx, board.ID)
			require.NoError(t, err)
			assert.Equal(t, 1, got.ThreadCount)
			assert.Equal(t, 3, got.PostCount)

			err = alice.DeletePost(ctx, posts[0].ID)
			assert.ErrorIs(t, err, apperror.ErrForbidden)
			err = alice.DeletePost(ctx, reply.ID)
			assert.ErrorIs(t, err, apperror.ErrForbidden)

			require.NoError(t, bob.DeletePost(ctx, reply.ID))
			th, err := alice.GetThread(ctx, thread.ID)
			require.NoError(t, err)
			assert.Equal(t, 1, th.ReplyCount)

			_, err = alice.UpdateThread(ctx, thread.ID, apiclient.UpdateThreadRequest{IsLocked: ptr(true)})
			require.NoError(t, err)
			_, err = bob.CreatePost(ctx, apiclient.CreatePostRequest{ThreadID: thread.ID, Content: "late"})
			assert.ErrorIs(t, err, apperror.ErrForbidden)

			require.NoError(t, alice.DeleteThread(ctx, thread.ID))
			_, err = bob.ListPosts(ctx, thread.ID, dto.PageQuery{})
			assert.ErrorIs(t, err, apperror.ErrNotFound)

			got, err = alice.GetBoard(ctx, board.ID)
			require.NoError(t, err)
			assert.Zero(t, got.ThreadCount)
			assert.Zero(t, got.PostCount)

			require.NoError(t, alice.Logout(ctx))
			assert.False(t, alice.LoggedIn())
			_, err = alice.CreateBoard(ctx, apiclient.CreateBoardRequest{Name: "/misc/", Description: "x"})
			assert.ErrorIs(t, err, apperror.ErrUnauthorized)
		})
	}
}

func TestThreadSortAndPaging(t *testing.T) {
	for _, b := range backends() {
		t.Run(b.name, func(t *testing.T) {
			ctx := context.Background()
			alice, _ := b.newClients(t)

			_, err := alice.Register(ctx, "alice", "alice@example.com", "secret1")
			require.NoError(t, err)
			board, err := alice.CreateBoard(ctx, apiclient.CreateBoardRequest{Name: "/tech/", Description: "Technology"})
			require.NoError(t, err)
			assert.Equal(t, "General", board.Category)

			var ids []uuid.UUID
			for _, title := range []string{"one", "two", "three"} {
				th, err := alice.CreateThread(ctx, apiclient.CreateThreadRequest{BoardID: board.ID, Title: title, Content: title})
				require.NoError(t, err)
				ids = append(ids, th.ID)
				time.Sleep(5 * time.Millisecond)
			}

			_, err = alice.CreatePost(ctx, apiclient.CreatePostRequest{ThreadID: ids[0], Content: "bump"})
			require.NoError(t, err)

			replies, err := alice.ListThreads(ctx, board.ID, apiclient.ThreadQuery{Sort: "replies"})
			require.NoError(t, err)
			require.Len(t, replies, 3)
			assert.Equal(t, ids[0], replies[0].ID)

			oldest, err := alice.ListThreads(ctx, board.ID, apiclient.ThreadQuery{Sort: "oldest", PageQuery: dto.PageQuery{Page: 2, Limit: 2}})
			require.NoError(t, err)
			require.Len(t, oldest, 1)
			assert.Equal(t, ids[2], oldest[0].ID)

			_, err = alice.ListThreads(ctx, uuid.New(), apiclient.ThreadQuery{})
			assert.ErrorIs(t, err, apperror.ErrNotFound)
		})
	}
}

func TestNewWithoutBaseURLUsesSeededMemoryStore(t *testing.T) {
	c := apiclient.New("")
	_, ok := c.Store().(*apiclient.MemoryStore)
	require.True(t, ok)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	boards, err := c.ListBoards(ctx)
	require.NoError(t, err)
	require.Len(t, boards, 4)
	assert.Equal(t, "/tech/", boards[0].Name)

	threads, err := c.ListThreads(ctx, boards[0].ID, apiclient.ThreadQuery{})
	require.NoError(t, err)
	require.Len(t, threads, 1)
	assert.Equal(t, 1, threads[0].ReplyCount)
	assert.Equal(t, 1, boards[0].ThreadCount)
	assert.Equal(t, 2, boards[0].PostCount)
}

func TestMemoryStoreHonoursContext(t *testing.T) {
	store := apiclient.NewMemoryStore(apiclient.WithLatency(time.Hour))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := store.ListBoards(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMemoryStoreValidation(t *testing.T) {
	ctx := context.Background()
	store := apiclient.NewMemoryStore(apiclient.WithLatency(0))
	c := apiclient.NewWithStore(store, apiclient.NewMemoryTokenStore())

	_, err := c.Register(ctx, "al", "alice@example.com", "secret1")
	assert.ErrorIs(t, err, apperror.ErrBadRequest)

	_, err = c.Register(ctx, "alice", "alice@example.com", "secret1")
	require.NoError(t, err)

	_, err = c.CreateBoard(ctx, apiclient.CreateBoardRequest{Name: "tech", Description: "no slashes"})
	assert.ErrorIs(t, err, apperror.ErrBadRequest)

	_, err = c.CreateBoard(ctx, apiclient.CreateBoardRequest{Name: "/TECH/", Description: "duplicate"})
	assert.ErrorIs(t, err, apperror.ErrConflict)

	_, err = c.Login(ctx, "alice@example.com", "wrong")
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)
	_, err = c.Login(ctx, "ALICE@example.com", "secret1")
	assert.NoError(t, err)
}

func TestMemoryStoreTrimsBeforeValidating(t *testing.T) {
	ctx := context.Background()
	store := apiclient.NewMemoryStore(apiclient.WithLatency(0))
	c := apiclient.NewWithStore(store, apiclient.NewMemoryTokenStore())

	_, err := c.Register(ctx, "  ab  ", "bob@example.com", "secret1")
	assert.EqualError(t, err, "Username must be between 3 and 30 characters")

	res, err := c.Register(ctx, "  bob  ", "bob@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "bob", res.Username)

	_, err = c.CreateBoard(ctx, apiclient.CreateBoardRequest{Name: "/blank/", Description: "   "})
	assert.ErrorIs(t, err, apperror.ErrBadRequest)

	board, err := c.CreateBoard(ctx, apiclient.CreateBoardRequest{Name: "/trim/", Description: "  Trimmed  "})
	require.NoError(t, err)
	assert.Equal(t, "Trimmed", board.Description)

	_, err = c.UpdateBoard(ctx, board.ID, apiclient.UpdateBoardRequest{Description: ptr("\t ")})
	assert.ErrorIs(t, err, apperror.ErrBadRequest)

	_, err = c.CreateThread(ctx, apiclient.CreateThreadRequest{BoardID: board.ID, Title: "    ", Content: "body"})
	assert.EqualError(t, err, "Title is required")

	thread, err := c.CreateThread(ctx, apiclient.CreateThreadRequest{
		BoardID: board.ID, Title: "  Hello  ", Content: "body", Tags: []string{" go ", "  "},
	})
	require.NoError(t, err)
	assert.Equal(t, "Hello", thread.Title)
	assert.Equal(t, []string{"go"}, thread.Tags)
}

func ptr[T any](v T) *T {
	return &v
}
