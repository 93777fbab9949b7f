package s3

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockClient struct {
	headErr   error
	createErr error
	putErr    error

	headCalls   int
	createCalls int
	puts        []putCall
}

type putCall struct {
	bucket      string
	key         string
	body        []byte
	contentType string
}

func (m *mockClient) HeadBucket(_ context.Context, _ *awss3.HeadBucketInput, _ ...func(*awss3.Options)) (*awss3.HeadBucketOutput, error) {
	m.headCalls++
	if m.headErr != nil {
		return nil, m.headErr
	}
	return &awss3.HeadBucketOutput{}, nil
}

func (m *mockClient) CreateBucket(_ context.Context, _ *awss3.CreateBucketInput, _ ...func(*awss3.Options)) (*awss3.CreateBucketOutput, error) {
	m.createCalls++
	if m.createErr != nil {
		return nil, m.createErr
	}
	return &awss3.CreateBucketOutput{}, nil
}

func (m *mockClient) PutObject(_ context.Context, params *awss3.PutObjectInput, _ ...func(*awss3.Options)) (*awss3.PutObjectOutput, error) {
	body, err := io.ReadAll(params.Body)
	if err != nil {
		return nil, err
	}
	m.puts = append(m.puts, putCall{
		bucket:      *params.Bucket,
		key:         *params.Key,
		body:        body,
		contentType: *params.ContentType,
	})
	if m.putErr != nil {
		return nil, m.putErr
	}
	return &awss3.PutObjectOutput{}, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestEnsureBucket_Exists(t *testing.T) {
	client := &mockClient{}
	g := NewGateway(client, "weather-archive", discardLogger())

	require.NoError(t, g.EnsureBucket(context.Background()))
	assert.Equal(t, 1, client.headCalls)
	assert.Zero(t, client.createCalls, "no create when the probe succeeds")
}

func TestEnsureBucket_CreatesOnProbeFailure(t *testing.T) {
	client := &mockClient{headErr: errors.New("NotFound: 404")}
	g := NewGateway(client, "weather-archive", discardLogger())

	require.NoError(t, g.EnsureBucket(context.Background()))
	assert.Equal(t, 1, client.createCalls)
}

func TestEnsureBucket_CreateFailure(t *testing.T) {
	client := &mockClient{
		headErr:   errors.New("Forbidden: 403"),
		createErr: errors.New("AccessDenied"),
	}
	g := NewGateway(client, "weather-archive", discardLogger())

	err := g.EnsureBucket(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "weather-archive")
}

func TestPut_PassesObjectThrough(t *testing.T) {
	client := &mockClient{}
	g := NewGateway(client, "weather-archive", discardLogger())

	err := g.Put(context.Background(), "weather-data/Seattle-20260314-092653.json", []byte(`{"temp":47.3}`), "application/json")
	require.NoError(t, err)

	require.Len(t, client.puts, 1)
	put := client.puts[0]
	assert.Equal(t, "weather-archive", put.bucket)
	assert.Equal(t, "weather-data/Seattle-20260314-092653.json", put.key)
	assert.JSONEq(t, `{"temp":47.3}`, string(put.body))
	assert.Equal(t, "application/json", put.contentType)
}

func TestPut_SingleAttemptFailure(t *testing.T) {
	client := &mockClient{putErr: errors.New("SlowDown")}
	g := NewGateway(client, "weather-archive", discardLogger())

	err := g.Put(context.Background(), "weather-data/Seattle-20260314-092653.json", []byte("{}"), "application/json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "weather-data/Seattle-20260314-092653.json")
	assert.Len(t, client.puts, 1, "exactly one attempt, no retry")
}
