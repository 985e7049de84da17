package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/connectlink/internal/common"
	sc "github.com/dmitrijs2005/connectlink/internal/server/config"
	"github.com/dmitrijs2005/connectlink/internal/server/models"
	"github.com/dmitrijs2005/connectlink/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

const avatarURLValidity = 15 * time.Minute

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignPutObject(ctx, in, optFns...)
	}
	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}
)

// AvatarUpload is a presigned PUT target for a new avatar.
type AvatarUpload struct {
	Key       string
	URL       string
	ExpiresAt time.Time
}

// AvatarService hands out presigned S3 URLs for profile pictures. The
// server never proxies the image bytes.
type AvatarService struct {
	repos  repomanager.RepositoryManager
	config *sc.Config
	now    func() time.Time
}

func NewAvatarService(repos repomanager.RepositoryManager, cfg *sc.Config) *AvatarService {
	return &AvatarService{repos: repos, config: cfg, now: time.Now}
}

func avatarKey(userID string) string {
	return fmt.Sprintf("avatars/%s/%s", userID, uuid.NewString())
}

func (s *AvatarService) getPresignClient(ctx context.Context) (*s3.PresignClient, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(s.config.S3Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.S3RootUser,
			s.config.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		if s.config.S3BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
			o.UsePathStyle = true
		}
	})

	return newS3PresignClient(client), nil
}

// CreateUpload issues a presigned PUT URL under a fresh key and records the
// key on the user. profileCompleted is left alone.
//
// The key is recorded before the client uploads anything, so a failed or
// abandoned PUT leaves the user pointing at a missing object until the next
// CreateUpload replaces the key. Previous objects are not deleted.
func (s *AvatarService) CreateUpload(ctx context.Context, userID string) (*AvatarUpload, error) {
	if !s.config.AvatarsEnabled() {
		return nil, common.ErrStorageDisabled
	}

	presignClient, err := s.getPresignClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("error creating presign client: %w", err)
	}

	bucket := s.config.S3Bucket
	key := avatarKey(userID)

	req, err := presignPutObject(presignClient, ctx, &s3.PutObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(avatarURLValidity))
	if err != nil {
		return nil, fmt.Errorf("error presigning upload: %w", err)
	}

	if err := s.repos.Users().SetAvatarKey(ctx, userID, key); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("error saving avatar key: %w", err)
	}

	return &AvatarUpload{Key: key, URL: req.URL, ExpiresAt: s.now().Add(avatarURLValidity)}, nil
}

// DownloadURL presigns a GET for the user's current avatar. A user without
// one yields common.ErrorNotFound.
func (s *AvatarService) DownloadURL(ctx context.Context, user *models.User) (string, error) {
	if !s.config.AvatarsEnabled() {
		return "", common.ErrStorageDisabled
	}
	if user.AvatarKey == nil {
		return "", common.ErrorNotFound
	}

	presignClient, err := s.getPresignClient(ctx)
	if err != nil {
		return "", fmt.Errorf("error creating presign client: %w", err)
	}

	bucket := s.config.S3Bucket
	key := *user.AvatarKey

	req, err := presignGetObject(presignClient, ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(avatarURLValidity))
	if err != nil {
		return "", fmt.Errorf("error presigning download: %w", err)
	}

	return req.URL, nil
}
