package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/google/uuid"
	"github.com/scvp-dev/scvp/internal/domain/service"
	apperror "github.com/scvp-dev/scvp/pkg/errors"
)

// S3Storage implements the TreeStorage interface on AWS S3. Repository
// trees are stored as prefix-keyed objects; directories exist as zero-byte
// marker objects with a trailing slash.
type S3Storage struct {
	client *s3.Client
	bucket string
	prefix string
}

// S3Config holds configuration for S3 storage
type S3Config struct {
	Bucket       string
	Region       string
	AccessKey    string
	SecretKey    string
	Endpoint     string // Optional: for S3-compatible services like MinIO
	UsePathStyle bool
	Prefix       string // Base prefix for all objects
}

// NewS3Storage creates a new S3 storage instance
func NewS3Storage(ctx context.Context, cfg S3Config) (*S3Storage, error) {
	var configOpts []func(*awsconfig.LoadOptions) error
	configOpts = append(configOpts, awsconfig.WithRegion(cfg.Region))

	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		configOpts = append(configOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, configOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	var s3Opts []func(*s3.Options)
	if cfg.Endpoint != "" {
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = cfg.UsePathStyle
		})
	}

	client := s3.NewFromConfig(awsCfg, s3Opts...)

	prefix := cfg.Prefix
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}

	storage := &S3Storage{
		client: client,
		bucket: cfg.Bucket,
		prefix: prefix,
	}

	if err := storage.verifyBucket(ctx); err != nil {
		return nil, fmt.Errorf("failed to verify S3 bucket: %w", err)
	}

	return storage, nil
}

// verifyBucket checks if the bucket exists and is accessible
func (s *S3Storage) verifyBucket(ctx context.Context) error {
	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(s.bucket),
	})
	return err
}

// RepoPath returns the key prefix for a repository
func (s *S3Storage) RepoPath(repoID uuid.UUID) string {
	return s.prefix + repoID.String()
}

// objectKey returns the full S3 key for a repository-relative path
func (s *S3Storage) objectKey(repoID uuid.UUID, relPath string) (string, error) {
	cleaned, err := CleanTreePath(relPath)
	if err != nil {
		return "", err
	}
	return s.RepoPath(repoID) + "/" + cleaned, nil
}

// EnsureRepoDir writes the repository's root marker object and returns the
// key prefix
func (s *S3Storage) EnsureRepoDir(ctx context.Context, repoID uuid.UUID) (string, error) {
	repoPrefix := s.RepoPath(repoID)
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(repoPrefix + "/"),
		Body:   bytes.NewReader([]byte{}),
	})
	if err != nil {
		return "", apperror.StorageError("create repository directory", err)
	}
	return repoPrefix, nil
}

// WriteFile uploads the full content to the given relative path
func (s *S3Storage) WriteFile(ctx context.Context, repoID uuid.UUID, relPath string, data []byte) error {
	key, err := s.objectKey(repoID, relPath)
	if err != nil {
		return err
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(data),
	})
	if err != nil {
		return apperror.StorageError("write file", err)
	}
	return nil
}

// ReadFile downloads the file's bytes
func (s *S3Storage) ReadFile(ctx context.Context, repoID uuid.UUID, relPath string) ([]byte, error) {
	key, err := s.objectKey(repoID, relPath)
	if err != nil {
		return nil, err
	}

	result, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var noKey *types.NoSuchKey
		if errors.As(err, &noKey) {
			return nil, apperror.NotFound("file", apperror.ErrNotFound)
		}
		return nil, apperror.StorageError("read file", err)
	}
	defer result.Body.Close()

	data, err := io.ReadAll(result.Body)
	if err != nil {
		return nil, apperror.StorageError("read file body", err)
	}
	return data, nil
}

// CreateDir writes a zero-byte marker object with a trailing slash
func (s *S3Storage) CreateDir(ctx context.Context, repoID uuid.UUID, relPath string) error {
	key, err := s.objectKey(repoID, relPath)
	if err != nil {
		return err
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key + "/"),
		Body:   bytes.NewReader([]byte{}),
	})
	if err != nil {
		return apperror.StorageError("create directory", err)
	}
	return nil
}

// DeleteEntry removes an object or, for directories, every object beneath
// the prefix. Returns whether the removed entry was a directory.
func (s *S3Storage) DeleteEntry(ctx context.Context, repoID uuid.UUID, relPath string) (bool, error) {
	key, err := s.objectKey(repoID, relPath)
	if err != nil {
		return false, err
	}

	// A directory is any key with objects beneath its prefix
	listed, err := s.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
		Bucket:  aws.String(s.bucket),
		Prefix:  aws.String(key + "/"),
		MaxKeys: aws.Int32(1),
	})
	if err != nil {
		return false, apperror.StorageError("list objects", err)
	}

	if len(listed.Contents) > 0 {
		if err := s.deletePrefix(ctx, key+"/"); err != nil {
			return false, err
		}
		return true, nil
	}

	_, err = s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return false, apperror.NotFound("file", apperror.ErrNotFound)
	}

	_, err = s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return false, apperror.StorageError("delete file", err)
	}
	return false, nil
}

// ScanTree lists every object under the repository prefix. Marker objects
// surface as directory entries; their parent prefixes are synthesized so
// the listing matches a filesystem walk.
func (s *S3Storage) ScanTree(ctx context.Context, repoID uuid.UUID) ([]service.TreeEntry, error) {
	repoPrefix := s.RepoPath(repoID) + "/"

	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(repoPrefix),
	})

	entries := []service.TreeEntry{}
	seenDirs := map[string]bool{}

	addDir := func(rel string) {
		if rel == "" || seenDirs[rel] {
			return
		}
		seenDirs[rel] = true
		entries = append(entries, service.TreeEntry{
			Name:  path.Base(rel),
			Path:  rel,
			IsDir: true,
		})
	}

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, apperror.StorageError("scan repository tree", err)
		}

		for _, obj := range page.Contents {
			rel := strings.TrimPrefix(aws.ToString(obj.Key), repoPrefix)
			if rel == "" {
				continue
			}

			if strings.HasSuffix(rel, "/") {
				addDir(strings.TrimSuffix(rel, "/"))
				continue
			}

			// Synthesize the entry chain for intermediate directories
			for dir := path.Dir(rel); dir != "." && dir != "/"; dir = path.Dir(dir) {
				addDir(dir)
			}

			entries = append(entries, service.TreeEntry{
				Name: path.Base(rel),
				Path: rel,
				Size: aws.ToInt64(obj.Size),
			})
		}
	}

	return entries, nil
}

// ScaffoldReadme writes the template README.md at the repository root
func (s *S3Storage) ScaffoldReadme(ctx context.Context, repoID uuid.UUID, name, description string) error {
	content := RenderReadme(name, description, time.Now())
	return s.WriteFile(ctx, repoID, "README.md", []byte(content))
}

// DeleteTree removes every object under the repository prefix
func (s *S3Storage) DeleteTree(ctx context.Context, repoID uuid.UUID) error {
	return s.deletePrefix(ctx, s.RepoPath(repoID)+"/")
}

// deletePrefix batch-deletes all objects sharing the given key prefix
func (s *S3Storage) deletePrefix(ctx context.Context, prefix string) error {
	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(prefix),
	})

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return apperror.StorageError("list objects for deletion", err)
		}
		if len(page.Contents) == 0 {
			continue
		}

		objects := make([]types.ObjectIdentifier, 0, len(page.Contents))
		for _, obj := range page.Contents {
			objects = append(objects, types.ObjectIdentifier{Key: obj.Key})
		}

		_, err = s.client.DeleteObjects(ctx, &s3.DeleteObjectsInput{
			Bucket: aws.String(s.bucket),
			Delete: &types.Delete{
				Objects: objects,
				Quiet:   aws.Bool(true),
			},
		})
		if err != nil {
			return apperror.StorageError("delete objects", err)
		}
	}

	return nil
}

// Verify interface compliance at compile time
var _ service.TreeStorage = (*S3Storage)(nil)
