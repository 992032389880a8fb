package scheduler

import (
	"context"
	"errors"
	"testing"

	"anoa.com/neoboard/internal/entity"
	boardRepo "anoa.com/neoboard/internal/modules/board/repository"
	threadRepo "anoa.com/neoboard/internal/modules/thread/repository"
	"anoa.com/neoboard/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingJob struct {
	schedule string
	runs     int
	err      error
}

func (j *countingJob) Name() string     { return "counting" }
func (j *countingJob) Schedule() string { return j.schedule }
func (j *countingJob) Run(context.Context) error {
	j.runs++
	return j.err
}

func TestRegisterAndRunByName(t *testing.T) {
	s := NewScheduler()
	job := &countingJob{schedule: "@every 1h"}

	require.NoError(t, s.Register(job))
	assert.Equal(t, []string{"counting"}, s.Jobs())

	require.NoError(t, s.RunByName(context.Background(), "counting"))
	assert.Equal(t, 1, job.runs)

	assert.Error(t, s.RunByName(context.Background(), "missing"))
}

func TestRegisterRejectsBadSchedule(t *testing.T) {
	s := NewScheduler()
	err := s.Register(&countingJob{schedule: "every tuesday"})
	assert.Error(t, err)
	assert.Empty(t, s.Jobs())
}

func TestOnDemandJobPropagatesError(t *testing.T) {
	s := NewScheduler()
	boom := errors.New("boom")
	require.NoError(t, s.Register(&countingJob{err: boom}))

	s.Start()
	defer s.Stop()
	assert.ErrorIs(t, s.RunByName(context.Background(), "counting"), boom)
}

func TestCounterJobRepairsDrift(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	owner := testutil.CreateUser(t, db, "owner")
	board := testutil.CreateBoard(t, db, owner, "/tech/")

	threads := threadRepo.NewRepository(db)
	thread := &entity.Thread{BoardID: board.ID, Title: "t", Content: "c", AuthorID: owner.ID, IsActive: true}
	require.NoError(t, threads.CreateWithOriginalPost(ctx, thread, &entity.Post{Content: "c", AuthorID: owner.ID, IsActive: true}))
	reply := &entity.Post{ThreadID: thread.ID, Content: "r", AuthorID: owner.ID, IsActive: true}
	require.NoError(t, db.Omit("Thread", "Author").Create(reply).Error)

	require.NoError(t, db.Model(&entity.Board{}).Where("id = ?", board.ID).
		Updates(map[string]any{"thread_count": 9, "post_count": 42}).Error)

	job := NewCounterJob(boardRepo.NewBoardRepository(db), "")
	assert.Empty(t, job.Schedule())
	require.NoError(t, job.Run(ctx))

	b := testutil.ReloadBoard(t, db, board.ID)
	assert.Equal(t, 1, b.ThreadCount)
	assert.Equal(t, 2, b.PostCount)
	assert.Equal(t, 1, testutil.ReloadThread(t, db, thread.ID).ReplyCount)
}
