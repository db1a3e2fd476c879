package batch_test

import (
	"context"
	"time"

	domain "github.com/alirezamp/audio-batch-service/internal/domain/batch"
)

type fakeRepository struct {
	batches map[string]*domain.Batch

	createErr error
	lookupErr error
	imagesErr error
	notesErr  error
	resetErr  error
	listErr   error
	existsErr error
	updateErr error

	created        []*domain.Batch
	insertedImages []domain.Image
	insertedNotes  []domain.Note
	resetIDs       []string
	listCalled     bool
}

func newFakeRepository(batches ...*domain.Batch) *fakeRepository {
	byID := make(map[string]*domain.Batch, len(batches))
	for _, b := range batches {
		byID[b.ID] = b
	}
	return &fakeRepository{batches: byID}
}

func (f *fakeRepository) Create(ctx context.Context, b *domain.Batch) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, b)
	f.batches[b.ID] = b
	return nil
}

func (f *fakeRepository) GetByIDForUser(ctx context.Context, id, userID string) (*domain.Batch, error) {
	if f.lookupErr != nil {
		return nil, f.lookupErr
	}
	b, ok := f.batches[id]
	if !ok || b.UserID != userID {
		return nil, domain.ErrBatchNotFound
	}
	return b, nil
}

func (f *fakeRepository) GetByID(ctx context.Context, id string) (*domain.Batch, error) {
	if f.lookupErr != nil {
		return nil, f.lookupErr
	}
	b, ok := f.batches[id]
	if !ok {
		return nil, domain.ErrBatchNotFound
	}
	return b, nil
}

func (f *fakeRepository) ExistsByID(ctx context.Context, id string) (bool, error) {
	if f.existsErr != nil {
		return false, f.existsErr
	}
	_, ok := f.batches[id]
	return ok, nil
}

func (f *fakeRepository) UpdateStatus(ctx context.Context, id string, update domain.StatusUpdate) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	if b, ok := f.batches[id]; ok {
		b.Status = update.Status
	}
	return nil
}

func (f *fakeRepository) ResetForReprocess(ctx context.Context, id string) error {
	if f.resetErr != nil {
		return f.resetErr
	}
	f.resetIDs = append(f.resetIDs, id)
	if b, ok := f.batches[id]; ok {
		b.Status = domain.StatusUploaded
	}
	return nil
}

func (f *fakeRepository) List(ctx context.Context, userID string, filter domain.ListFilter, limit, offset int) ([]domain.Batch, int64, error) {
	f.listCalled = true
	if f.listErr != nil {
		return nil, 0, f.listErr
	}
	var out []domain.Batch
	for _, b := range f.batches {
		if b.UserID != userID {
			continue
		}
		if filter.Status != "" && b.Status != filter.Status {
			continue
		}
		out = append(out, *b)
	}
	return out, int64(len(out)), nil
}

func (f *fakeRepository) InsertImages(ctx context.Context, images []domain.Image) error {
	if f.imagesErr != nil {
		return f.imagesErr
	}
	f.insertedImages = append(f.insertedImages, images...)
	return nil
}

func (f *fakeRepository) InsertNotes(ctx context.Context, notes []domain.Note) error {
	if f.notesErr != nil {
		return f.notesErr
	}
	f.insertedNotes = append(f.insertedNotes, notes...)
	return nil
}

type fakeStorage struct {
	putErr      error
	failOnKey   string
	headErr     error
	headMissing bool
	presignErr  error

	puts     []string
	heads    []string
	presigns []string
}

func (f *fakeStorage) Put(ctx context.Context, key string, body []byte, contentType string) error {
	if f.putErr != nil && (f.failOnKey == "" || f.failOnKey == key) {
		return f.putErr
	}
	f.puts = append(f.puts, key)
	return nil
}

func (f *fakeStorage) Head(ctx context.Context, key string) (bool, error) {
	f.heads = append(f.heads, key)
	if f.headErr != nil {
		return false, f.headErr
	}
	return !f.headMissing, nil
}

func (f *fakeStorage) PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error) {
	if f.presignErr != nil {
		return "", f.presignErr
	}
	f.presigns = append(f.presigns, key)
	return "https://signed.example.com/" + key, nil
}

type sentJob struct {
	queueName string
	job       domain.ProcessingJob
}

type fakeQueue struct {
	sendErr error
	sent    []sentJob
}

func (f *fakeQueue) Send(ctx context.Context, queueName string, job domain.ProcessingJob) error {
	if f.sendErr != nil {
		return f.sendErr
	}
	f.sent = append(f.sent, sentJob{queueName: queueName, job: job})
	return nil
}

type fakePublisher struct {
	publishErr error
	topics     []string
	payloads   [][]byte
}

func (f *fakePublisher) Publish(ctx context.Context, topic string, payload []byte) error {
	if f.publishErr != nil {
		return f.publishErr
	}
	f.topics = append(f.topics, topic)
	f.payloads = append(f.payloads, payload)
	return nil
}
