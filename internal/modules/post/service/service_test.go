package post

import (
	"context"
	"testing"
	"time"

	"anoa.com/neoboard/internal/entity"
	boardRepo "anoa.com/neoboard/internal/modules/board/repository"
	postDto "anoa.com/neoboard/internal/modules/post/dto"
	postRepo "anoa.com/neoboard/internal/modules/post/repository"
	realtime "anoa.com/neoboard/internal/modules/realtime/service"
	threadDto "anoa.com/neoboard/internal/modules/thread/dto"
	threadRepo "anoa.com/neoboard/internal/modules/thread/repository"
	threadService "anoa.com/neoboard/internal/modules/thread/service"
	"anoa.com/neoboard/internal/testutil"
	"anoa.com/neoboard/pkg/apperror"
	"anoa.com/neoboard/pkg/dto"
	"anoa.com/neoboard/pkg/response"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fixture struct {
	posts   PostService
	threads threadService.Service
	db      *gorm.DB
	hub     *realtime.LocalHub
	owner   *entity.User
	board   *entity.Board
	auth    response.AuthContext
}

func setup(t *testing.T) *fixture {
	db := testutil.NewDB(t)
	owner := testutil.CreateUser(t, db, "owner")
	board := testutil.CreateBoard(t, db, owner, "/tech/")
	hub := realtime.NewLocalHub()

	threads := threadRepo.NewRepository(db)
	return &fixture{
		posts:   NewPostService(postRepo.NewPostRepository(db), threads, nil, 0, nil, hub),
		threads: threadService.NewService(threads, boardRepo.NewBoardRepository(db), nil, 0, nil, hub),
		db:      db,
		hub:     hub,
		owner:   owner,
		board:   board,
		auth:    response.AuthContext{UserID: &owner.ID},
	}
}

func (f *fixture) createThread(t *testing.T) uuid.UUID {
	t.Helper()
	resp, err := f.threads.CreateThread(context.Background(), f.auth, threadDto.CreateThreadRequest{
		BoardID: f.board.ID.String(),
		Title:   "Hello",
		Content: "first",
	})
	require.NoError(t, err)
	return resp.ID
}

func (f *fixture) reply(t *testing.T, threadID uuid.UUID, content string) *dto.PostResponse {
	t.Helper()
	resp, err := f.posts.CreatePost(context.Background(), f.auth, postDto.CreatePostRequest{
		ThreadID: threadID.String(),
		Content:  content,
	})
	require.NoError(t, err)
	return resp
}

func TestBoardThreadPostScenario(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	threadID := f.createThread(t)
	board := testutil.ReloadBoard(t, f.db, f.board.ID)
	assert.Equal(t, 1, board.ThreadCount)
	assert.Equal(t, 1, board.PostCount)

	f.reply(t, threadID, "one")
	f.reply(t, threadID, "two")

	thread := testutil.ReloadThread(t, f.db, threadID)
	assert.Equal(t, 2, thread.ReplyCount)
	board = testutil.ReloadBoard(t, f.db, f.board.ID)
	assert.Equal(t, 3, board.PostCount)
	assert.Equal(t, 3, testutil.ReloadUser(t, f.db, f.owner.ID).PostCount)

	require.NoError(t, f.threads.DeleteThread(ctx, f.auth, threadID))

	board = testutil.ReloadBoard(t, f.db, f.board.ID)
	assert.Equal(t, 0, board.ThreadCount)
	assert.Equal(t, 0, board.PostCount)

	_, err := f.posts.ListByThread(ctx, threadID, dto.PageQuery{})
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestCreatePostUpdatesThread(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	threadID := f.createThread(t)
	before := testutil.ReloadThread(t, f.db, threadID)

	events, unsubscribe, err := f.hub.Subscribe(ctx, threadID)
	require.NoError(t, err)
	defer unsubscribe()

	time.Sleep(5 * time.Millisecond)
	resp := f.reply(t, threadID, "hi")
	assert.False(t, resp.IsOP)
	assert.Equal(t, threadID, resp.ThreadID)
	assert.Equal(t, "owner", resp.Author.Username)

	after := testutil.ReloadThread(t, f.db, threadID)
	assert.True(t, after.LastReply.After(before.LastReply))

	select {
	case msg := <-events:
		assert.Contains(t, string(msg), realtime.EventPostCreated)
		assert.Contains(t, string(msg), resp.ID.String())
	case <-time.After(time.Second):
		t.Fatal("no post.created event")
	}
}

func TestCreatePostRejections(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	threadID := f.createThread(t)

	_, err := f.posts.CreatePost(ctx, response.AuthContext{}, postDto.CreatePostRequest{ThreadID: threadID.String(), Content: "x"})
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)

	_, err = f.posts.CreatePost(ctx, f.auth, postDto.CreatePostRequest{ThreadID: uuid.NewString(), Content: "x"})
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	missing := uuid.NewString()
	_, err = f.posts.CreatePost(ctx, f.auth, postDto.CreatePostRequest{ThreadID: threadID.String(), Content: "x", ReplyTo: &missing})
	assert.ErrorIs(t, err, apperror.ErrNotFound)
	assert.Equal(t, "Reply target post not found", apperror.Message(err))

	otherThread := f.createThread(t)
	foreign := f.reply(t, otherThread, "elsewhere")
	foreignID := foreign.ID.String()
	_, err = f.posts.CreatePost(ctx, f.auth, postDto.CreatePostRequest{ThreadID: threadID.String(), Content: "x", ReplyTo: &foreignID})
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	assert.Equal(t, 0, testutil.ReloadThread(t, f.db, threadID).ReplyCount)
}

func TestLockedThreadRejectsPosts(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	threadID := f.createThread(t)

	locked := true
	_, err := f.threads.UpdateThread(ctx, f.auth, threadID, threadDto.UpdateThreadRequest{IsLocked: &locked})
	require.NoError(t, err)

	// The owner is rejected too.
	_, err = f.posts.CreatePost(ctx, f.auth, postDto.CreatePostRequest{ThreadID: threadID.String(), Content: "x"})
	assert.ErrorIs(t, err, apperror.ErrForbidden)
	assert.Equal(t, "Thread is locked", apperror.Message(err))

	other := testutil.CreateUser(t, f.db, "other")
	_, err = f.posts.CreatePost(ctx, response.AuthContext{UserID: &other.ID}, postDto.CreatePostRequest{ThreadID: threadID.String(), Content: "x"})
	assert.ErrorIs(t, err, apperror.ErrForbidden)
}

func TestReplyToPostInSameThread(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	threadID := f.createThread(t)
	first := f.reply(t, threadID, "first reply")

	target := first.ID.String()
	resp, err := f.posts.CreatePost(ctx, f.auth, postDto.CreatePostRequest{ThreadID: threadID.String(), Content: "answer", ReplyTo: &target})
	require.NoError(t, err)
	require.NotNil(t, resp.ReplyTo)
	assert.Equal(t, first.ID, *resp.ReplyTo)
}

func TestListByThreadOrderAndPaging(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	threadID := f.createThread(t)
	f.reply(t, threadID, "one")
	f.reply(t, threadID, "two")

	posts, err := f.posts.ListByThread(ctx, threadID, dto.PageQuery{})
	require.NoError(t, err)
	require.Len(t, posts, 3)
	assert.True(t, posts[0].IsOP)
	assert.Equal(t, "first", posts[0].Content)
	assert.Equal(t, "one", posts[1].Content)
	assert.Equal(t, "two", posts[2].Content)

	page, err := f.posts.ListByThread(ctx, threadID, dto.PageQuery{Page: 2, Limit: 2})
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "two", page[0].Content)
}

func TestUpdatePost(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	threadID := f.createThread(t)
	p := f.reply(t, threadID, "typo")
	other := testutil.CreateUser(t, f.db, "other")

	_, err := f.posts.UpdatePost(ctx, response.AuthContext{UserID: &other.ID}, p.ID, postDto.UpdatePostRequest{Content: "hijack"})
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	updated, err := f.posts.UpdatePost(ctx, f.auth, p.ID, postDto.UpdatePostRequest{Content: "fixed"})
	require.NoError(t, err)
	assert.Equal(t, "fixed", updated.Content)

	posts, err := f.posts.ListByThread(ctx, threadID, dto.PageQuery{})
	require.NoError(t, err)
	assert.Equal(t, "fixed", posts[1].Content)
}

func TestDeletePost(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	threadID := f.createThread(t)
	p := f.reply(t, threadID, "bye")

	posts, err := f.posts.ListByThread(ctx, threadID, dto.PageQuery{})
	require.NoError(t, err)
	op := posts[0]

	err = f.posts.DeletePost(ctx, f.auth, op.ID)
	assert.ErrorIs(t, err, apperror.ErrForbidden)
	assert.Equal(t, "Cannot delete original post. Delete the thread instead.", apperror.Message(err))

	other := testutil.CreateUser(t, f.db, "other")
	err = f.posts.DeletePost(ctx, response.AuthContext{UserID: &other.ID}, p.ID)
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	require.NoError(t, f.posts.DeletePost(ctx, f.auth, p.ID))
	assert.Equal(t, 0, testutil.ReloadThread(t, f.db, threadID).ReplyCount)
	assert.Equal(t, 1, testutil.ReloadBoard(t, f.db, f.board.ID).PostCount)

	posts, err = f.posts.ListByThread(ctx, threadID, dto.PageQuery{})
	require.NoError(t, err)
	assert.Len(t, posts, 1)

	err = f.posts.DeletePost(ctx, f.auth, p.ID)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}
