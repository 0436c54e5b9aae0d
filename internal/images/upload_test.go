package images

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeS3 struct {
	lastInput *s3.PutObjectInput
	body      []byte
}

func (f *fakeS3) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.lastInput = in
	f.body, _ = io.ReadAll(in.Body)
	return &s3.PutObjectOutput{}, nil
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))))
	return buf.Bytes()
}

func TestUploadStoresImageAndBuildsCDNURL(t *testing.T) {
	fake := &fakeS3{}
	u := NewUploader(fake, "newsletter-assets", "cdn.classkit.example", "us-east-1")

	img, err := u.Upload(context.Background(), "class-photo.png", bytes.NewReader(pngBytes(t, 40, 30)))
	require.NoError(t, err)

	assert.Equal(t, "image/png", img.ContentType)
	assert.Equal(t, 40, img.Width)
	assert.Equal(t, 30, img.Height)
	assert.Equal(t, "class-photo.png", img.Filename)
	assert.NotEmpty(t, img.Checksum)
	assert.Contains(t, img.URL, "https://cdn.classkit.example/")
	assert.Contains(t, img.URL, ".png")

	require.NotNil(t, fake.lastInput)
	assert.Equal(t, "newsletter-assets", *fake.lastInput.Bucket)
	assert.Equal(t, "image/png", *fake.lastInput.ContentType)
	assert.Len(t, fake.body, len(pngBytes(t, 40, 30)))
}

func TestUploadFallsBackToS3URLWithoutCDN(t *testing.T) {
	u := NewUploader(&fakeS3{}, "newsletter-assets", "", "us-west-2")

	img, err := u.Upload(context.Background(), "a.png", bytes.NewReader(pngBytes(t, 2, 2)))
	require.NoError(t, err)
	assert.Contains(t, img.URL, "newsletter-assets.s3.us-west-2.amazonaws.com")
}

func TestUploadRejectsUnsupportedType(t *testing.T) {
	u := NewUploader(&fakeS3{}, "bucket", "", "us-east-1")

	_, err := u.Upload(context.Background(), "notes.txt", bytes.NewReader([]byte("plain text")))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported image type")
}

func TestUploadSanitizesFilename(t *testing.T) {
	u := NewUploader(&fakeS3{}, "bucket", "", "us-east-1")

	img, err := u.Upload(context.Background(), "../../etc/passwd.png", bytes.NewReader(pngBytes(t, 2, 2)))
	require.NoError(t, err)
	assert.Equal(t, "passwd.png", img.Filename)
}

func TestDetectContentType(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want string
	}{
		{"jpeg", []byte{0xFF, 0xD8, 0xFF, 0xE0}, "image/jpeg"},
		{"png", []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}, "image/png"},
		{"gif", []byte("GIF89a"), "image/gif"},
		{"webp", []byte("RIFF????WEBP"), "image/webp"},
		{"unknown", []byte("hello"), "application/octet-stream"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, detectContentType(tt.data))
		})
	}
}
