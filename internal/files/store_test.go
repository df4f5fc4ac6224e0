package files

import (
	"errors"
	"io"
	"strings"
	"testing"

	"hepflow/internal/util"

	"github.com/stretchr/testify/require"
)

func TestPutOpenRoundTrip(t *testing.T) {
	s, err := NewStore(t.TempDir())
	require.NoError(t, err)

	bucket, err := s.NewBucket()
	require.NoError(t, err)
	require.NotEmpty(t, bucket)

	info, err := s.Put(bucket, "fulltext.pdf", strings.NewReader("%PDF-1.4 content"))
	require.NoError(t, err)
	require.Equal(t, bucket, info.BucketID)
	require.Equal(t, "fulltext.pdf", info.Key)
	require.Equal(t, int64(len("%PDF-1.4 content")), info.Size)
	require.Equal(t, util.SHA256Hex([]byte("%PDF-1.4 content")), info.SHA256)

	rc, err := s.Open(bucket, "fulltext.pdf")
	require.NoError(t, err)
	defer rc.Close()
	b, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.Equal(t, "%PDF-1.4 content", string(b))
}

func TestPutReplacesExistingKey(t *testing.T) {
	s, err := NewStore(t.TempDir())
	require.NoError(t, err)
	bucket, err := s.NewBucket()
	require.NoError(t, err)

	_, err = s.Put(bucket, "fulltext.pdf", strings.NewReader("first"))
	require.NoError(t, err)
	_, err = s.Put(bucket, "fulltext.pdf", strings.NewReader("second"))
	require.NoError(t, err)

	rc, err := s.Open(bucket, "fulltext.pdf")
	require.NoError(t, err)
	defer rc.Close()
	b, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.Equal(t, "second", string(b))
}

func TestOpenMissingAttachment(t *testing.T) {
	s, err := NewStore(t.TempDir())
	require.NoError(t, err)
	bucket, err := s.NewBucket()
	require.NoError(t, err)

	_, err = s.Open(bucket, "absent.pdf")
	require.Error(t, err)
	require.True(t, errors.Is(err, util.ErrNoSuchAttachment))
	require.False(t, s.Exists(bucket, "absent.pdf"))
}

func TestPathIgnoresDirectoryComponents(t *testing.T) {
	s, err := NewStore(t.TempDir())
	require.NoError(t, err)
	bucket, err := s.NewBucket()
	require.NoError(t, err)

	_, err = s.Put(bucket, "../../escape.txt", strings.NewReader("x"))
	require.NoError(t, err)
	require.True(t, s.Exists(bucket, "escape.txt"))
}

func TestAPIPath(t *testing.T) {
	require.Equal(t, "/api/files/b1/fulltext.pdf", APIPath("b1", "fulltext.pdf"))
}
