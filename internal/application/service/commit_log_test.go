package service

import (
	"context"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommitLog_ConcurrentRecordsStaySequential(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.createUser(t, "alice")
	repo := env.createRepo(t, alice, "demo", true)

	const workers = 16
	var wg sync.WaitGroup
	errs := make([]error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_, errs[n] = env.commitLog.Record(ctx, repo.ID, alice.ID, "concurrent change")
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}

	commits, err := env.repos.Commits(ctx, alice, repo.ID)
	require.NoError(t, err)
	require.Len(t, commits, workers+1)

	versions := make([]int, 0, len(commits))
	hashes := map[string]bool{}
	for _, c := range commits {
		versions = append(versions, c.VersionNumber)
		hashes[c.Hash] = true
	}
	sort.Ints(versions)

	for i, v := range versions {
		assert.Equal(t, i+1, v)
	}
	assert.Len(t, hashes, workers+1)
}

func TestCommitLog_ParentHashChains(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.createUser(t, "alice")
	repo := env.createRepo(t, alice, "demo", true)

	second, err := env.commitLog.Record(ctx, repo.ID, alice.ID, "second")
	require.NoError(t, err)
	third, err := env.commitLog.Record(ctx, repo.ID, alice.ID, "third")
	require.NoError(t, err)

	commits, err := env.repos.Commits(ctx, alice, repo.ID)
	require.NoError(t, err)
	require.Len(t, commits, 3)

	first := commits[2]
	assert.Nil(t, first.ParentHash)
	require.NotNil(t, second.ParentHash)
	assert.Equal(t, first.Hash, *second.ParentHash)
	require.NotNil(t, third.ParentHash)
	assert.Equal(t, second.Hash, *third.ParentHash)
}

func TestCommitLog_IndependentRepositories(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.createUser(t, "alice")
	one := env.createRepo(t, alice, "one", true)
	two := env.createRepo(t, alice, "two", true)

	c, err := env.commitLog.Record(ctx, one.ID, alice.ID, "change")
	require.NoError(t, err)
	assert.Equal(t, 2, c.VersionNumber)

	// Version counters are per repository
	c, err = env.commitLog.Record(ctx, two.ID, alice.ID, "change")
	require.NoError(t, err)
	assert.Equal(t, 2, c.VersionNumber)
}
