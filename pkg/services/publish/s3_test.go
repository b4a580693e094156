package publish

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/de-tools/epic-report/pkg/services/config"
)

type mockS3 struct{ mock.Mock }

func (m *mockS3) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	body, _ := io.ReadAll(params.Body)
	args := m.Called(*params.Bucket, *params.Key, string(body))
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*s3.PutObjectOutput), args.Error(1)
}

func reportFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "jira_report_2024-06-01_09-00-00.xlsx")
	require.NoError(t, os.WriteFile(path, []byte("xlsx-bytes"), 0o600))
	return path
}

func TestPublisher_Publish(t *testing.T) {
	client := new(mockS3)
	client.On("PutObject", "reports", "weekly/jira_report_2024-06-01_09-00-00.xlsx", "xlsx-bytes").
		Return(&s3.PutObjectOutput{}, nil)

	location, err := NewPublisher(client, "reports", "/weekly/").Publish(context.Background(), reportFile(t))

	require.NoError(t, err)
	assert.Equal(t, "s3://reports/weekly/jira_report_2024-06-01_09-00-00.xlsx", location)
	client.AssertExpectations(t)
}

func TestPublisher_ObjectKeyWithoutPrefix(t *testing.T) {
	p := NewPublisher(new(mockS3), "reports", "")

	assert.Equal(t, "a.xlsx", p.ObjectKey("/tmp/out/a.xlsx"))
}

func TestPublisher_Failures(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := NewPublisher(new(mockS3), "reports", "").Publish(context.Background(), "/nonexistent.xlsx")
		assert.ErrorContains(t, err, "failed to open report")
	})

	t.Run("upload error", func(t *testing.T) {
		boom := errors.New("access denied")
		client := new(mockS3)
		client.On("PutObject", mock.Anything, mock.Anything, mock.Anything).Return(nil, boom)

		_, err := NewPublisher(client, "reports", "").Publish(context.Background(), reportFile(t))
		assert.ErrorIs(t, err, boom)
	})
}

func TestNewS3Publisher_RequiresBucket(t *testing.T) {
	_, err := NewS3Publisher(context.Background(), config.S3Settings{})

	assert.ErrorContains(t, err, "bucket is not configured")
}
