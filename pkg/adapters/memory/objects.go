package memory

import (
	"context"
	"sync"

	"github.com/aretw0/tally/pkg/domain"
)

// Objects implements ports.ObjectStorage in memory.
// It backs single-process deployments and tests.
type Objects struct {
	mu      sync.RWMutex
	objects map[string][]byte
}

// NewObjects creates an empty in-memory object storage.
func NewObjects() *Objects {
	return &Objects{objects: make(map[string][]byte)}
}

func objectKey(bucket, key string) string {
	return bucket + "/" + key
}

// GetObject returns a copy of the stored body.
func (o *Objects) GetObject(ctx context.Context, bucket, key string) ([]byte, error) {
	o.mu.RLock()
	defer o.mu.RUnlock()

	body, ok := o.objects[objectKey(bucket, key)]
	if !ok {
		return nil, domain.ErrReportNotFound
	}
	return append([]byte(nil), body...), nil
}

// PutObject stores a copy of body. The content type is not retained.
func (o *Objects) PutObject(ctx context.Context, bucket, key string, body []byte, contentType string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.objects[objectKey(bucket, key)] = append([]byte(nil), body...)
	return nil
}
