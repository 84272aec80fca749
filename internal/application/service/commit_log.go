package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/scvp-dev/scvp/internal/domain/models"
	"github.com/scvp-dev/scvp/internal/domain/repository"
)

// CommitLog is the shared primitive every mutating operation uses to append
// a commit row. Version numbers are assigned under a per-repository mutex
// held across the max-version read and the insert, so concurrent mutations
// of the same repository cannot assign duplicate or non-monotonic versions.
type CommitLog struct {
	commits repository.CommitRepository

	mu    sync.Mutex
	locks map[uuid.UUID]*sync.Mutex
}

// NewCommitLog creates a new CommitLog
func NewCommitLog(commits repository.CommitRepository) *CommitLog {
	return &CommitLog{
		commits: commits,
		locks:   make(map[uuid.UUID]*sync.Mutex),
	}
}

// Record appends a commit for the repository with the next version number
// and returns the stored row
func (l *CommitLog) Record(ctx context.Context, repoID, authorID uuid.UUID, message string) (*models.Commit, error) {
	lock := l.repoLock(repoID)
	lock.Lock()
	defer lock.Unlock()

	maxVersion, err := l.commits.MaxVersion(ctx, repoID)
	if err != nil {
		return nil, err
	}

	var parentHash *string
	if maxVersion > 0 {
		if latest, err := l.latest(ctx, repoID); err == nil && latest != nil {
			parentHash = &latest.Hash
		}
	}

	commit := &models.Commit{
		RepositoryID:  repoID,
		AuthorID:      authorID,
		Message:       message,
		Hash:          computeCommitHash(repoID, message, time.Now()),
		ParentHash:    parentHash,
		VersionNumber: maxVersion + 1,
	}

	if err := l.commits.Create(ctx, commit); err != nil {
		return nil, err
	}

	return commit, nil
}

// repoLock returns the mutex for a repository, allocating it on first use
func (l *CommitLog) repoLock(repoID uuid.UUID) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()

	lock, ok := l.locks[repoID]
	if !ok {
		lock = &sync.Mutex{}
		l.locks[repoID] = lock
	}
	return lock
}

// Release drops the per-repository lock entry after the repository is gone
func (l *CommitLog) Release(repoID uuid.UUID) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.locks, repoID)
}

func (l *CommitLog) latest(ctx context.Context, repoID uuid.UUID) (*models.Commit, error) {
	commits, err := l.commits.FindByRepository(ctx, repoID)
	if err != nil {
		return nil, err
	}
	if len(commits) == 0 {
		return nil, nil
	}
	return commits[0], nil
}

// computeCommitHash derives the opaque commit identifier. It is not a
// content digest; two commits are distinguished by timestamp and version.
func computeCommitHash(repoID uuid.UUID, message string, now time.Time) string {
	seed := fmt.Sprintf("%s:%d:%s", repoID, now.UnixNano(), message)
	sum := sha256.Sum256([]byte(seed))
	return hex.EncodeToString(sum[:])
}
