package local

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/furqan-y-khan/workify/internal/core/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingResolver struct {
	mu        sync.Mutex
	addresses []string
}

func (r *recordingResolver) Execute(_ context.Context, _ uuid.UUID, address string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.addresses = append(r.addresses, address)
	return nil
}

func TestEventPublisher_GeocodesInBackground(t *testing.T) {
	resolver := &recordingResolver{}
	pub := NewEventPublisher(resolver)

	ctx, cancel := context.WithCancel(context.Background())
	job := domain.Job{ID: uuid.New(), Location: domain.Location{PlaceName: "Denver"}}
	require.NoError(t, pub.PublishJobPosted(ctx, job))
	cancel()

	lat, lon := 1.0, 2.0
	resolved := domain.Job{ID: uuid.New(), Location: domain.Location{Latitude: &lat, Longitude: &lon}}
	require.NoError(t, pub.PublishJobPosted(context.Background(), resolved))

	require.NoError(t, pub.Close())
	assert.Equal(t, []string{"Denver"}, resolver.addresses)

	assert.NoError(t, pub.PublishApplicationSubmitted(context.Background(), domain.Application{ID: uuid.New()}))
}

func TestEventPublisher_RejectsJobsAfterClose(t *testing.T) {
	resolver := &recordingResolver{}
	pub := NewEventPublisher(resolver)
	require.NoError(t, pub.Close())

	job := domain.Job{ID: uuid.New(), Location: domain.Location{PlaceName: "Boise"}}
	assert.ErrorIs(t, pub.PublishJobPosted(context.Background(), job), ErrPublisherClosed)
	assert.Empty(t, resolver.addresses)
}

func TestEventPublisher_CloseDuringPublishes(t *testing.T) {
	resolver := &recordingResolver{}
	pub := NewEventPublisher(resolver)

	var wg sync.WaitGroup
	var accepted atomic.Int32
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			job := domain.Job{ID: uuid.New(), Location: domain.Location{PostalCode: "83702"}}
			if err := pub.PublishJobPosted(context.Background(), job); err == nil {
				accepted.Add(1)
			} else {
				assert.ErrorIs(t, err, ErrPublisherClosed)
			}
		}()
	}
	require.NoError(t, pub.Close())
	wg.Wait()

	// все принятые до Close задачи успели отработать
	resolver.mu.Lock()
	defer resolver.mu.Unlock()
	assert.Len(t, resolver.addresses, int(accepted.Load()))
}
