package images

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	_ "golang.org/x/image/webp" // WebP decode support
)

const MaxUploadSizeMB = 10

// SupportedImageTypes lists the content types the uploader accepts.
var SupportedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// UploadedImage describes an image hosted on S3 behind the CDN.
type UploadedImage struct {
	ID          string    `json:"id"`
	Filename    string    `json:"filename"`
	ContentType string    `json:"contentType"`
	Size        int64     `json:"size"`
	Width       int       `json:"width"`
	Height      int       `json:"height"`
	S3Key       string    `json:"s3Key"`
	URL         string    `json:"url"`
	Checksum    string    `json:"checksum"`
	CreatedAt   time.Time `json:"createdAt"`
}

// s3PutAPI is the slice of the S3 client the uploader needs. Tests
// substitute a recording fake.
type s3PutAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Uploader stores teacher-uploaded images in S3 and returns CDN URLs
// for embedding in image sections.
type Uploader struct {
	s3Client  s3PutAPI
	bucket    string
	cdnDomain string
	region    string
}

// NewUploader creates an uploader with an already-configured S3 client.
func NewUploader(s3Client s3PutAPI, bucket, cdnDomain, region string) *Uploader {
	return &Uploader{
		s3Client:  s3Client,
		bucket:    bucket,
		cdnDomain: cdnDomain,
		region:    region,
	}
}

// NewUploaderFromAWSConfig loads the default AWS config and builds an
// uploader from it.
func NewUploaderFromAWSConfig(ctx context.Context, bucket, cdnDomain, region string) (*Uploader, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}
	return NewUploader(s3.NewFromConfig(awsCfg), bucket, cdnDomain, region), nil
}

// Upload reads, validates and stores one image, returning its hosted
// record. Files over the size limit or of unsupported types are
// rejected before anything touches S3.
func (u *Uploader) Upload(ctx context.Context, filename string, file io.Reader) (*UploadedImage, error) {
	maxBytes := int64(MaxUploadSizeMB*1024*1024) + 1
	data, err := io.ReadAll(io.LimitReader(file, maxBytes))
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}
	if len(data) > MaxUploadSizeMB*1024*1024 {
		return nil, fmt.Errorf("file size exceeds maximum of %d MB", MaxUploadSizeMB)
	}

	contentType := detectContentType(data)
	if !SupportedImageTypes[contentType] {
		return nil, fmt.Errorf("unsupported image type: %s", contentType)
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}

	imageID := uuid.New().String()
	now := time.Now()
	key := fmt.Sprintf("newsletters/images/%s/%s/%s%s",
		now.Format("2006"), now.Format("01"), imageID, getExtension(contentType))

	hash := sha256.Sum256(data)

	_, err = u.s3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:       aws.String(u.bucket),
		Key:          aws.String(key),
		Body:         bytes.NewReader(data),
		ContentType:  aws.String(contentType),
		CacheControl: aws.String("public, max-age=31536000"),
	})
	if err != nil {
		return nil, fmt.Errorf("uploading to S3: %w", err)
	}

	return &UploadedImage{
		ID:          imageID,
		Filename:    sanitizeFilename(filename),
		ContentType: contentType,
		Size:        int64(len(data)),
		Width:       cfg.Width,
		Height:      cfg.Height,
		S3Key:       key,
		URL:         u.buildURL(key),
		Checksum:    hex.EncodeToString(hash[:]),
		CreatedAt:   now,
	}, nil
}

func (u *Uploader) buildURL(key string) string {
	if u.cdnDomain != "" {
		return fmt.Sprintf("https://%s/%s", u.cdnDomain, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", u.bucket, u.region, key)
}

func detectContentType(data []byte) string {
	if len(data) >= 2 && data[0] == 0xFF && data[1] == 0xD8 {
		return "image/jpeg"
	}
	if len(data) >= 8 && data[0] == 0x89 && data[1] == 'P' && data[2] == 'N' && data[3] == 'G' {
		return "image/png"
	}
	if len(data) >= 6 && data[0] == 'G' && data[1] == 'I' && data[2] == 'F' {
		return "image/gif"
	}
	if len(data) >= 12 && data[0] == 'R' && data[1] == 'I' && data[2] == 'F' && data[3] == 'F' &&
		data[8] == 'W' && data[9] == 'E' && data[10] == 'B' && data[11] == 'P' {
		return "image/webp"
	}
	return "application/octet-stream"
}

func getExtension(contentType string) string {
	switch contentType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	default:
		return ".bin"
	}
}

func sanitizeFilename(filename string) string {
	filename = filepath.Base(filename)
	filename = strings.ReplaceAll(filename, "..", "")
	filename = strings.ReplaceAll(filename, "/", "")
	filename = strings.ReplaceAll(filename, "\\", "")
	if len(filename) > 200 {
		ext := filepath.Ext(filename)
		filename = filename[:200-len(ext)] + ext
	}
	return filename
}
