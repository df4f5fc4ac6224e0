// Package files stores record attachments on disk, one directory per bucket,
// addressed as /api/files/<bucket>/<key> by the HTTP layer.
package files

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"hepflow/internal/util"

	"github.com/google/uuid"
)

type Store struct {
	root string
}

type Info struct {
	BucketID string `json:"bucket_id"`
	Key      string `json:"key"`
	Size     int64  `json:"size"`
	SHA256   string `json:"sha256"`
}

func NewStore(root string) (*Store, error) {
	if err := util.EnsureDir(root); err != nil {
		return nil, err
	}
	return &Store{root: root}, nil
}

// NewBucket allocates an empty bucket and returns its id.
func (s *Store) NewBucket() (string, error) {
	id := uuid.NewString()
	if err := util.EnsureDir(filepath.Join(s.root, id)); err != nil {
		return "", err
	}
	return id, nil
}

// Put writes the content under bucket/key, replacing any previous content for
// that key. The write is atomic so a concurrent Open never sees a partial file.
func (s *Store) Put(bucketID, key string, r io.Reader) (Info, error) {
	if bucketID == "" || key == "" {
		return Info{}, fmt.Errorf("put attachment: empty bucket or key")
	}
	h := sha256.New()
	path := s.path(bucketID, key)
	n, err := util.WriteFileAtomic(path, io.TeeReader(r, h))
	if err != nil {
		return Info{}, fmt.Errorf("put attachment %s/%s: %w", bucketID, key, err)
	}
	return Info{
		BucketID: bucketID,
		Key:      key,
		Size:     n,
		SHA256:   hex.EncodeToString(h.Sum(nil)),
	}, nil
}

func (s *Store) Open(bucketID, key string) (io.ReadCloser, error) {
	f, err := os.Open(s.path(bucketID, key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("open %s/%s: %w", bucketID, key, util.ErrNoSuchAttachment)
		}
		return nil, fmt.Errorf("open %s/%s: %w", bucketID, key, err)
	}
	return f, nil
}

func (s *Store) Exists(bucketID, key string) bool {
	_, err := os.Stat(s.path(bucketID, key))
	return err == nil
}

// Path returns the on-disk location of an attachment. Callers use it to hand
// the file to extractors that want a path rather than a reader.
func (s *Store) Path(bucketID, key string) (string, error) {
	p := s.path(bucketID, key)
	if _, err := os.Stat(p); err != nil {
		return "", fmt.Errorf("stat %s/%s: %w", bucketID, key, util.ErrNoSuchAttachment)
	}
	return p, nil
}

func (s *Store) path(bucketID, key string) string {
	return util.SafeJoin(util.SafeJoin(s.root, bucketID), key)
}

// APIPath is the retrieval URL recorded on documents entries.
func APIPath(bucketID, key string) string {
	return fmt.Sprintf("/api/files/%s/%s", bucketID, key)
}
