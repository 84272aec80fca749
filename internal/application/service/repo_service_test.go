package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperror "github.com/scvp-dev/scvp/pkg/errors"
)

func TestRepoService_CreateRecordsInitialCommit(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.createUser(t, "alice")

	repo, err := env.repos.Create(ctx, alice, "demo", "A demo project", true, false)
	require.NoError(t, err)
	assert.Equal(t, "demo", repo.Name)
	assert.Equal(t, alice.ID, repo.OwnerID)
	assert.True(t, repo.IsPublic)

	commits, err := env.repos.Commits(ctx, alice, repo.ID)
	require.NoError(t, err)
	require.Len(t, commits, 1)
	assert.Equal(t, "Initial commit", commits[0].Message)
	assert.Equal(t, 1, commits[0].VersionNumber)
	assert.Len(t, commits[0].Hash, 64)
	assert.Nil(t, commits[0].ParentHash)
}

func TestRepoService_CreateWithReadme(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.createUser(t, "alice")

	repo, err := env.repos.Create(ctx, alice, "demo", "A demo project", false, true)
	require.NoError(t, err)

	content, err := env.storage.ReadFile(ctx, repo.ID, "README.md")
	require.NoError(t, err)
	assert.Equal(t, "# demo", strings.Split(string(content), "\n")[0])
	assert.Contains(t, string(content), "A demo project")

	index, err := env.repos.FileIndex(ctx, alice, repo.ID)
	require.NoError(t, err)
	require.Len(t, index, 1)
	assert.Equal(t, "README.md", index[0].Path)
	assert.Len(t, index[0].ContentHash, 64)
	assert.Equal(t, int64(len(content)), index[0].Size)

	// Scaffolding the README is part of creation, not a separate commit
	commits, err := env.repos.Commits(ctx, alice, repo.ID)
	require.NoError(t, err)
	require.Len(t, commits, 1)
}

func TestRepoService_CreateValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.createUser(t, "alice")

	_, err := env.repos.Create(ctx, alice, "ab", "", true, false)
	require.Error(t, err)
	assert.True(t, apperror.IsBadRequest(err))

	_, err = env.repos.Create(ctx, alice, "demo", strings.Repeat("x", 501), true, false)
	require.Error(t, err)
	assert.True(t, apperror.IsBadRequest(err))
}

func TestRepoService_CreateDuplicateName(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")

	env.createRepo(t, alice, "demo", true)

	_, err := env.repos.Create(ctx, alice, "demo", "", true, false)
	require.Error(t, err)
	assert.True(t, apperror.IsConflict(err))

	// The same name under a different owner is fine
	_, err = env.repos.Create(ctx, bob, "demo", "", true, false)
	require.NoError(t, err)
}

func TestRepoService_Visibility(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")

	private := env.createRepo(t, alice, "secret", false)
	public := env.createRepo(t, alice, "open", true)

	// Owner sees both
	_, err := env.repos.Get(ctx, alice, private.ID)
	require.NoError(t, err)
	_, err = env.repos.Get(ctx, alice, public.ID)
	require.NoError(t, err)

	// Anyone sees public
	_, err = env.repos.Get(ctx, bob, public.ID)
	require.NoError(t, err)
	_, err = env.repos.Get(ctx, nil, public.ID)
	require.NoError(t, err)

	// An inaccessible private repository looks like it does not exist
	_, err = env.repos.Get(ctx, bob, private.ID)
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))

	_, err = env.repos.Get(ctx, nil, private.ID)
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}

func TestRepoService_NonOwnerCannotWrite(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")

	public := env.createRepo(t, alice, "open", true)

	newName := "renamed"
	_, err := env.repos.Update(ctx, bob, public.ID, &newName, nil, nil)
	require.Error(t, err)
	assert.True(t, apperror.IsForbidden(err))

	err = env.repos.Delete(ctx, bob, public.ID)
	require.Error(t, err)
	assert.True(t, apperror.IsForbidden(err))
}

func TestRepoService_Update(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.createUser(t, "alice")
	repo := env.createRepo(t, alice, "demo", false)

	newName := "renamed"
	isPublic := true
	updated, err := env.repos.Update(ctx, alice, repo.ID, &newName, nil, &isPublic)
	require.NoError(t, err)
	assert.Equal(t, "renamed", updated.Name)
	assert.True(t, updated.IsPublic)

	// Untouched fields keep their values
	stored, err := env.repos.Get(ctx, alice, repo.ID)
	require.NoError(t, err)
	assert.Equal(t, "renamed", stored.Name)
	assert.Equal(t, repo.Description, stored.Description)
}

func TestRepoService_UpdateNameConflict(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.createUser(t, "alice")
	env.createRepo(t, alice, "first", true)
	second := env.createRepo(t, alice, "second", true)

	taken := "first"
	_, err := env.repos.Update(ctx, alice, second.ID, &taken, nil, nil)
	require.Error(t, err)
	assert.True(t, apperror.IsConflict(err))
}

func TestRepoService_Delete(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.createUser(t, "alice")

	repo, err := env.repos.Create(ctx, alice, "demo", "", true, true)
	require.NoError(t, err)

	require.NoError(t, env.repos.Delete(ctx, alice, repo.ID))

	_, err = env.repos.Get(ctx, alice, repo.ID)
	assert.True(t, apperror.IsNotFound(err))

	// Commit rows cascade with the repository
	var commitCount int64
	require.NoError(t, env.db.Table("commits").Where("repository_id = ?", repo.ID).Count(&commitCount).Error)
	assert.Zero(t, commitCount)

	var fileCount int64
	require.NoError(t, env.db.Table("repo_files").Where("repository_id = ?", repo.ID).Count(&fileCount).Error)
	assert.Zero(t, fileCount)

	// The on-disk tree is gone too
	_, err = env.storage.ReadFile(ctx, repo.ID, "README.md")
	assert.True(t, apperror.IsNotFound(err))
}

func TestRepoService_View(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.createUser(t, "alice")

	repo, err := env.repos.Create(ctx, alice, "demo", "", true, true)
	require.NoError(t, err)

	_, _, err = env.files.Upload(ctx, alice, repo.ID, "notes.txt", "docs", []byte("hello"))
	require.NoError(t, err)

	view, err := env.repos.View(ctx, nil, repo.ID)
	require.NoError(t, err)

	paths := map[string]bool{}
	for _, e := range view.Entries {
		paths[e.Path] = e.IsDir
	}
	assert.Contains(t, paths, "README.md")
	assert.Contains(t, paths, "docs")
	assert.Contains(t, paths, "docs/notes.txt")
	assert.True(t, paths["docs"])

	require.Len(t, view.Commits, 2)
	assert.Equal(t, "Uploaded docs/notes.txt", view.Commits[0].Message)
	assert.Equal(t, "Initial commit", view.Commits[1].Message)
}

func TestRepoService_ListOwnAndPublic(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")

	env.createRepo(t, alice, "private-one", false)
	env.createRepo(t, alice, "public-one", true)
	env.createRepo(t, bob, "public-two", true)

	own, err := env.repos.ListOwn(ctx, alice.ID)
	require.NoError(t, err)
	assert.Len(t, own, 2)

	public, err := env.repos.ListPublic(ctx, 10, 0)
	require.NoError(t, err)
	assert.Len(t, public, 2)
	for _, r := range public {
		assert.True(t, r.IsPublic)
	}

	count, err := env.repos.CountPublic(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}
