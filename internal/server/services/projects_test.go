package services

import (
	"context"
	"strings"
	"testing"

	"github.com/dmitrijs2005/handlekeeper/internal/common"
	"github.com/dmitrijs2005/handlekeeper/internal/logging"
	"github.com/dmitrijs2005/handlekeeper/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProjectService(t *testing.T, repo *fakeProjectsRepo) *ProjectService {
	t.Helper()
	db, _ := newSQLMockDB(t)
	return NewProjectService(db, &fakeRepoManager{p: repo}, logging.Discard())
}

func TestProjectCreate_AttributesOwner(t *testing.T) {
	repo := &fakeProjectsRepo{}
	s := newProjectService(t, repo)

	p, err := s.Create(context.Background(), 7, "alice", ProjectInput{Title: "first", Content: "hello"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), p.ID)
	assert.Equal(t, int64(7), p.OwnerID)
	assert.Equal(t, "alice", p.OwnerHandle)
	require.Len(t, repo.created, 1)
}

func TestProjectCreate_Validation(t *testing.T) {
	s := newProjectService(t, &fakeProjectsRepo{})

	_, err := s.Create(context.Background(), 1, "alice", ProjectInput{})
	require.ErrorIs(t, err, common.ErrorValidation)
	assert.Contains(t, err.Error(), "title")

	_, err = s.Create(context.Background(), 1, "alice", ProjectInput{Title: strings.Repeat("t", 201)})
	require.ErrorIs(t, err, common.ErrorValidation)

	_, err = s.Create(context.Background(), 1, "alice", ProjectInput{Title: "a\x00b"})
	require.ErrorIs(t, err, common.ErrorValidation)

	_, err = s.Create(context.Background(), 1, "alice", ProjectInput{Title: "t", Content: "x\x00y"})
	require.ErrorIs(t, err, common.ErrorValidation)

	_, err = s.Create(context.Background(), 1, "alice", ProjectInput{Title: "t", Content: "\xfe"})
	require.ErrorIs(t, err, common.ErrorValidation)

	_, err = s.Create(context.Background(), 1, "alice", ProjectInput{Title: "t", Content: "line one\n\tline two"})
	require.NoError(t, err)

	_, err = s.Create(context.Background(), 1, "alice", ProjectInput{Title: strings.Repeat("t", 200)})
	require.NoError(t, err)
}

func TestProjectCreate_StorageFailure(t *testing.T) {
	s := newProjectService(t, &fakeProjectsRepo{failWith: errBoom})

	_, err := s.Create(context.Background(), 1, "alice", ProjectInput{Title: "t"})
	require.ErrorIs(t, err, common.ErrorInternal)
}

func TestProjectList(t *testing.T) {
	want := []*models.Project{{ID: 2, Title: "b"}, {ID: 1, Title: "a"}}
	s := newProjectService(t, &fakeProjectsRepo{list: want})

	got, err := s.List(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	s = newProjectService(t, &fakeProjectsRepo{failWith: errBoom})
	_, err = s.List(context.Background(), 1)
	require.ErrorIs(t, err, common.ErrorInternal)
}
