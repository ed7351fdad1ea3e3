package storage

import (
	"bytes"
	"context"
	"ctchen222/pokedex/internal/apperr"
	"errors"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pixel() image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	img.Set(0, 0, color.RGBA{R: 255, G: 204, A: 255})
	return img
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, pixel()))
	return buf.Bytes()
}

func jpegBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, pixel(), nil))
	return buf.Bytes()
}

func gifBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, gif.Encode(&buf, pixel(), nil))
	return buf.Bytes()
}

func TestValidateImage_Accepts(t *testing.T) {
	cases := []struct {
		name, filename, declared string
		content                  []byte
	}{
		{"png", "photo.png", "image/png", pngBytes(t)},
		{"uppercase extension", "PHOTO.PNG", "image/png", pngBytes(t)},
		{"jpeg", "pikachu.jpg", "image/jpeg", jpegBytes(t)},
		{"jpg alias", "pikachu.jpeg", "image/jpg", jpegBytes(t)},
		{"gif", "anim.gif", "image/gif", gifBytes(t)},
		{"declared with params", "photo.png", "image/png; charset=binary", pngBytes(t)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.NoError(t, ValidateImage(tc.filename, tc.declared, tc.content))
		})
	}
}

func TestValidateImage_RejectsExeRegardlessOfType(t *testing.T) {
	for _, declared := range []string{"image/png", "application/octet-stream", ""} {
		err := ValidateImage("photo.exe", declared, pngBytes(t))

		require.Error(t, err)
		assert.True(t, errors.Is(err, apperr.ErrValidation))
		assert.Equal(t, "image", apperr.FieldOf(err))
		assert.Contains(t, err.Error(), "unsupported file extension")
	}
}

func TestValidateImage_RejectsDeclaredType(t *testing.T) {
	err := ValidateImage("photo.png", "text/plain", pngBytes(t))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported content type")
}

func TestValidateImage_RejectsSniffedContent(t *testing.T) {
	err := ValidateImage("photo.png", "image/png", []byte("MZ\x90\x00 definitely not an image"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "content is not a recognized image")

	err = ValidateImage("photo.png", "image/png", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "content is not a recognized image")
}

func TestObjectKey(t *testing.T) {
	assert.Equal(t, "images/25/pikachu.png", ObjectKey(25, "Pikachu.png"))
	assert.Equal(t, "images/25/my-pic--1-.jpg", ObjectKey(25, "../../My Pic (1).jpg"))
	assert.Equal(t, "images/7/image", ObjectKey(7, "..."))
}

type fakeS3 struct {
	puts    []*s3.PutObjectInput
	body    []byte
	putErr  error
	headErr error
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.putErr != nil {
		return nil, f.putErr
	}
	f.puts = append(f.puts, in)
	f.body, _ = io.ReadAll(in.Body)
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) HeadObject(context.Context, *s3.HeadObjectInput, ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	if f.headErr != nil {
		return nil, f.headErr
	}
	return &s3.HeadObjectOutput{}, nil
}

func TestS3Store_Store(t *testing.T) {
	fake := &fakeS3{}
	store := newS3Store(fake, "us-east-1", "")

	url, err := store.Store(context.Background(), "pokedex", "images/25/pikachu.png", "image/png", []byte("png"))

	require.NoError(t, err)
	assert.Equal(t, "https://pokedex.s3.us-east-1.amazonaws.com/images/25/pikachu.png", url)
	require.Len(t, fake.puts, 1)
	assert.Equal(t, "image/png", *fake.puts[0].ContentType)
	assert.Equal(t, []byte("png"), fake.body)
}

func TestS3Store_StoreCustomEndpoint(t *testing.T) {
	store := newS3Store(&fakeS3{}, "us-east-1", "http://localhost:9000")

	url, err := store.Store(context.Background(), "pokedex", "images/25/pikachu.png", "image/png", []byte("png"))

	require.NoError(t, err)
	assert.Equal(t, "http://localhost:9000/pokedex/images/25/pikachu.png", url)
}

func TestS3Store_StoreFailureIsStorageFault(t *testing.T) {
	store := newS3Store(&fakeS3{putErr: errors.New("access denied")}, "us-east-1", "")

	_, err := store.Store(context.Background(), "pokedex", "k", "image/png", []byte("png"))
	assert.ErrorIs(t, err, apperr.ErrStorage)

	_, err = store.Store(context.Background(), "", "k", "image/png", []byte("png"))
	assert.ErrorIs(t, err, apperr.ErrStorage)
}

func TestS3Store_Exists(t *testing.T) {
	ctx := context.Background()

	ok, err := newS3Store(&fakeS3{}, "us-east-1", "").Exists(ctx, "pokedex", "k")
	require.NoError(t, err)
	assert.True(t, ok)

	for _, notFound := range []error{
		&types.NotFound{},
		&types.NoSuchKey{},
		&smithy.GenericAPIError{Code: "NotFound"},
	} {
		ok, err := newS3Store(&fakeS3{headErr: notFound}, "us-east-1", "").Exists(ctx, "pokedex", "k")
		require.NoError(t, err)
		assert.False(t, ok)
	}

	_, err = newS3Store(&fakeS3{headErr: &smithy.GenericAPIError{Code: "AccessDenied"}}, "us-east-1", "").Exists(ctx, "pokedex", "k")
	assert.ErrorIs(t, err, apperr.ErrStorage)
}
