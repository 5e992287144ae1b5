// internal/services/metadata_service.go
package services

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/google/uuid"

	"github.com/flavorsnap/ip-backend/internal/config"
)

// MetadataService stores asset metadata documents and returns the URI that
// gets recorded as the asset's metadataUri. Backed by S3 when configured,
// with a local fallback for development.
type MetadataService struct {
	s3Client *s3.S3
	config   *config.Config
}

type MetadataUploadResult struct {
	URI      string `json:"uri"`
	Key      string `json:"key"`
	Size     int64  `json:"size"`
	MimeType string `json:"mime_type"`
}

const maxMetadataSize = 5 * 1024 * 1024 // 5MB

var allowedMetadataExtensions = []string{".json", ".txt", ".pdf", ".png", ".jpg", ".jpeg"}

func NewMetadataService(config *config.Config) (*MetadataService, error) {
	if config.AWS.AccessKeyID == "" {
		// Local development without S3
		return &MetadataService{config: config}, nil
	}

	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(config.AWS.Region),
		Credentials: credentials.NewStaticCredentials(
			config.AWS.AccessKeyID,
			config.AWS.SecretAccessKey,
			"",
		),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}

	return &MetadataService{
		s3Client: s3.New(sess),
		config:   config,
	}, nil
}

func (s *MetadataService) UploadMetadata(file multipart.File, header *multipart.FileHeader) (*MetadataUploadResult, error) {
	if header.Size > maxMetadataSize {
		return nil, fmt.Errorf("file size %d bytes exceeds maximum allowed size %d bytes", header.Size, maxMetadataSize)
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	allowed := false
	for _, allowedExt := range allowedMetadataExtensions {
		if ext == allowedExt {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, fmt.Errorf("file type %s is not allowed", ext)
	}

	key := s.generateKey(header.Filename)

	fileBytes, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	contentType := header.Header.Get("Content-Type")
	if s.s3Client != nil {
		return s.uploadToS3(fileBytes, key, contentType)
	}
	return s.uploadToLocal(fileBytes, key, contentType)
}

func (s *MetadataService) uploadToS3(fileBytes []byte, key, contentType string) (*MetadataUploadResult, error) {
	params := &s3.PutObjectInput{
		Bucket:        aws.String(s.config.AWS.S3Bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(fileBytes),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(fileBytes))),
		ACL:           aws.String("public-read"),
	}

	if _, err := s.s3Client.PutObject(params); err != nil {
		return nil, fmt.Errorf("failed to upload to S3: %w", err)
	}

	return &MetadataUploadResult{
		URI:      s.s3URL(key),
		Key:      key,
		Size:     int64(len(fileBytes)),
		MimeType: contentType,
	}, nil
}

func (s *MetadataService) uploadToLocal(fileBytes []byte, key, contentType string) (*MetadataUploadResult, error) {
	uri := fmt.Sprintf("http://localhost:%s/uploads/%s", s.config.Server.Port, key)

	return &MetadataUploadResult{
		URI:      uri,
		Key:      key,
		Size:     int64(len(fileBytes)),
		MimeType: contentType,
	}, nil
}

func (s *MetadataService) generateKey(originalName string) string {
	id := uuid.New()
	ext := filepath.Ext(originalName)
	timestamp := time.Now().Format("20060102")
	return fmt.Sprintf("metadata/%s_%s%s", timestamp, id.String()[:8], ext)
}

func (s *MetadataService) s3URL(key string) string {
	if s.config.AWS.CloudFrontURL != "" {
		return fmt.Sprintf("%s/%s", s.config.AWS.CloudFrontURL, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s",
		s.config.AWS.S3Bucket, s.config.AWS.Region, key)
}
