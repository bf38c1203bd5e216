package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dom/news-api/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeS3 struct {
	puts      []*s3.PutObjectInput
	deletes   []*s3.DeleteObjectInput
	putErr    error
	deleteErr error
	body      []byte
}

func (f *fakeS3) PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.puts = append(f.puts, in)
	if f.putErr != nil {
		return nil, f.putErr
	}
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.body = data
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.deletes = append(f.deletes, in)
	if f.deleteErr != nil {
		return nil, f.deleteErr
	}
	return &s3.DeleteObjectOutput{}, nil
}

func testConfig() *config.Config {
	return &config.Config{
		S3Bucket:   "news-images",
		S3Region:   "us-east-1",
		S3Endpoint: "http://127.0.0.1:9000/",
	}
}

func TestS3Store_Put(t *testing.T) {
	fake := &fakeS3{}
	store := newS3Store(fake, testConfig())

	obj, err := store.Put(context.Background(), "news/abc.png", bytes.NewReader([]byte("png-bytes")), 9, "image/png")
	require.NoError(t, err)

	assert.Equal(t, "news/abc.png", obj.Key)
	assert.Equal(t, "http://127.0.0.1:9000/news-images/news/abc.png", obj.URL)
	require.Len(t, fake.puts, 1)
	assert.Equal(t, "news-images", aws.ToString(fake.puts[0].Bucket))
	assert.Equal(t, "image/png", aws.ToString(fake.puts[0].ContentType))
	assert.Equal(t, int64(9), aws.ToInt64(fake.puts[0].ContentLength))
	assert.Equal(t, []byte("png-bytes"), fake.body)
}

func TestS3Store_PutUsesPublicURL(t *testing.T) {
	cfg := testConfig()
	cfg.S3PublicURL = "https://cdn.example.com/"
	store := newS3Store(&fakeS3{}, cfg)

	obj, err := store.Put(context.Background(), "news/x.jpg", bytes.NewReader(nil), 0, "image/jpeg")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/news/x.jpg", obj.URL)
}

func TestS3Store_Errors(t *testing.T) {
	boom := errors.New("boom")
	fake := &fakeS3{putErr: boom, deleteErr: boom}
	store := newS3Store(fake, testConfig())
	ctx := context.Background()

	_, err := store.Put(ctx, "k", bytes.NewReader(nil), 0, "image/png")
	assert.ErrorIs(t, err, boom)

	assert.ErrorIs(t, store.Delete(ctx, "k"), boom)

	_, err = store.Put(ctx, "", bytes.NewReader(nil), 0, "image/png")
	assert.ErrorIs(t, err, ErrEmptyKey)
	assert.ErrorIs(t, store.Delete(ctx, ""), ErrEmptyKey)
}

func TestS3Store_Delete(t *testing.T) {
	fake := &fakeS3{}
	store := newS3Store(fake, testConfig())

	require.NoError(t, store.Delete(context.Background(), "news/abc.png"))
	require.Len(t, fake.deletes, 1)
	assert.Equal(t, "news/abc.png", aws.ToString(fake.deletes[0].Key))
}

func TestNewS3Store_AppliesConfig(t *testing.T) {
	orig := loadDefaultAWSConfig
	t.Cleanup(func() { loadDefaultAWSConfig = orig })

	var region string
	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		var lo awsconfig.LoadOptions
		for _, fn := range optFns {
			require.NoError(t, fn(&lo))
		}
		region = lo.Region
		return aws.Config{Region: lo.Region}, nil
	}

	store, err := NewS3Store(context.Background(), testConfig())
	require.NoError(t, err)
	assert.Equal(t, "us-east-1", region)
	assert.Equal(t, "news-images", store.bucket)
}
