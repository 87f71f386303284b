package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/furqan-y-khan/workify/internal/adapters/logger"
	"github.com/furqan-y-khan/workify/internal/constants"
	"github.com/furqan-y-khan/workify/internal/contextkeys"
	"github.com/furqan-y-khan/workify/internal/contracts"
	"github.com/furqan-y-khan/workify/internal/core/domain"
	"github.com/furqan-y-khan/workify/internal/core/port"
	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturedPublish struct {
	routingKey string
	msg        amqp.Publishing
}

type fakeProducer struct {
	published []capturedPublish
	err       error
}

func (p *fakeProducer) Publish(_ context.Context, routingKey string, msg amqp.Publishing) error {
	p.published = append(p.published, capturedPublish{routingKey: routingKey, msg: msg})
	return p.err
}

type recordingResolver struct {
	calls []string
	err   error
}

func (r *recordingResolver) Execute(_ context.Context, jobID uuid.UUID, address string) error {
	r.calls = append(r.calls, jobID.String()+"|"+address)
	return r.err
}

func testLogger() port.LoggerPort {
	return logger_adapter.NewSlogAdapter(logger_adapter.SlogConfig{})
}

func sampleJob() domain.Job {
	return domain.Job{
		ID:          uuid.New(),
		PosterID:    uuid.New(),
		Title:       "Fix sink",
		Description: "Kitchen",
		Category:    "Plumbing",
		Location:    domain.Location{PlaceName: "Austin, TX", PostalCode: "78701"},
		CreatedAt:   time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC),
	}
}

func TestEventPublisher_PublishJobPosted(t *testing.T) {
	producer := &fakeProducer{}
	pub, err := NewEventPublisherAdapter(producer)
	require.NoError(t, err)

	ctx := contextkeys.ContextWithTraceID(context.Background(), "trace-1")
	require.NoError(t, pub.PublishJobPosted(ctx, sampleJob()))

	require.Len(t, producer.published, 1)
	got := producer.published[0]
	assert.Equal(t, constants.RoutingKeyJobPosted, got.routingKey)
	assert.Equal(t, "trace-1", got.msg.Headers[constants.HeaderTraceID])
	assert.Equal(t, contracts.JobPostedEvent, got.msg.Headers[constants.HeaderEventType])
	assert.Equal(t, amqp.Persistent, got.msg.DeliveryMode)

	var dto JobPostedDTO
	require.NoError(t, json.Unmarshal(got.msg.Body, &dto))
	assert.True(t, dto.NeedsGeocoding)
	assert.Equal(t, "Austin, TX, 78701", dto.Address)
}

func TestEventPublisher_PublishApplicationSubmitted(t *testing.T) {
	producer := &fakeProducer{err: errors.New("channel closed")}
	pub, _ := NewEventPublisherAdapter(producer)

	err := pub.PublishApplicationSubmitted(context.Background(), domain.Application{
		ID: uuid.New(), JobID: uuid.New(), ApplicantID: uuid.New(), CreatedAt: time.Now(),
	})
	assert.Error(t, err)
	require.Len(t, producer.published, 1)
	assert.Equal(t, constants.RoutingKeyApplicationSubmitted, producer.published[0].routingKey)

	_, err = NewEventPublisherAdapter(nil)
	assert.Error(t, err)
}

func jobPostedDelivery(t *testing.T, job domain.Job) amqp.Delivery {
	t.Helper()
	body, err := json.Marshal(toJobPostedDTO(job))
	require.NoError(t, err)
	return amqp.Delivery{
		Body: body,
		Headers: amqp.Table{
			constants.HeaderEventType:    contracts.JobPostedEvent,
			constants.HeaderEventVersion: contracts.VersionV1,
		},
	}
}

func TestJobPostedConsumer_HandleMessage(t *testing.T) {
	resolver := &recordingResolver{}
	adapter := &JobPostedConsumerAdapter{useCase: resolver, logger: testLogger()}
	job := sampleJob()

	require.NoError(t, adapter.handleMessage(context.Background(), jobPostedDelivery(t, job)))
	require.Len(t, resolver.calls, 1)
	assert.Equal(t, job.ID.String()+"|Austin, TX, 78701", resolver.calls[0])

	// вакансия уже с координатами
	lat, lon := 30.26, -97.74
	job.Location.Latitude, job.Location.Longitude = &lat, &lon
	require.NoError(t, adapter.handleMessage(context.Background(), jobPostedDelivery(t, job)))
	assert.Len(t, resolver.calls, 1)

	// битое сообщение не повторяется
	broken := amqp.Delivery{Body: []byte(`{"job_id": 1}`), Headers: amqp.Table{
		constants.HeaderEventType: contracts.JobPostedEvent, constants.HeaderEventVersion: contracts.VersionV1,
	}}
	assert.NoError(t, adapter.handleMessage(context.Background(), broken))
	assert.Len(t, resolver.calls, 1)
}

func TestJobPostedConsumer_TransientErrorIsReturned(t *testing.T) {
	resolver := &recordingResolver{err: errors.New("geocoder timeout")}
	adapter := &JobPostedConsumerAdapter{useCase: resolver, logger: testLogger()}

	assert.Error(t, adapter.handleMessage(context.Background(), jobPostedDelivery(t, sampleJob())))
}

func TestKvToFields(t *testing.T) {
	fields := kvToFields([]interface{}{"queue", "jobs", 7, "seven", "dangling"})
	assert.Equal(t, "jobs", fields["queue"])
	assert.Equal(t, "seven", fields["7"])
	assert.Equal(t, "dangling", fields["extra"])
	assert.Nil(t, kvToFields(nil))
}
