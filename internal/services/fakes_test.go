package services

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"time"

	"seatshare/internal/models"
	"seatshare/internal/utils"
	"seatshare/pkg/mail"
	"seatshare/pkg/sms"
	"seatshare/pkg/storage"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type recordingNotifier struct {
	mu     sync.Mutex
	events []models.BookingEvent
}

func (n *recordingNotifier) Dispatch(ctx context.Context, event *models.BookingEvent) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, *event)
}

func (n *recordingNotifier) Wait() {}

func (n *recordingNotifier) Events() []models.BookingEvent {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]models.BookingEvent(nil), n.events...)
}

// stubUploads serves every proof and no thumbnails.
type stubUploads struct{}

func (u *stubUploads) StorePaymentProof(ctx context.Context, riderID primitive.ObjectID, upload *FileUpload) (string, error) {
	return "payments/" + riderID.Hex() + "/proof.png", nil
}

func (u *stubUploads) Discard(ctx context.Context, ref string) {}

func (u *stubUploads) URL(ctx context.Context, key string) (string, error) {
	if strings.HasSuffix(key, "_thumb.jpg") {
		return "", utils.NewNotFoundError("Payment proof")
	}
	return "https://files.example.com/" + key, nil
}

func (u *stubUploads) Open(ctx context.Context, key string) (*ProofFile, error) {
	return &ProofFile{
		Reader:      io.NopCloser(strings.NewReader("proof:" + key)),
		ContentType: utils.ContentTypeForKey(key),
	}, nil
}

// failingInventory wraps a real inventory and fails the chosen operation.
type failingInventory struct {
	InventoryService
	failReserve bool
	failRelease bool
}

var errInventoryDown = errors.New("inventory unavailable")

func (f *failingInventory) Reserve(ctx context.Context, rideID primitive.ObjectID, count int) (*models.Ride, error) {
	if f.failReserve {
		return nil, errInventoryDown
	}
	return f.InventoryService.Reserve(ctx, rideID, count)
}

func (f *failingInventory) Release(ctx context.Context, rideID primitive.ObjectID, count int) (*models.Ride, error) {
	if f.failRelease {
		return nil, errInventoryDown
	}
	return f.InventoryService.Release(ctx, rideID, count)
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []*mail.Message
	err  error
}

func (m *fakeMailer) Send(ctx context.Context, message *mail.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, message)
	return nil
}

type fakeSMS struct {
	mu   sync.Mutex
	sent []*sms.SMSRequest
}

func (f *fakeSMS) SendSMS(ctx context.Context, request *sms.SMSRequest) (*sms.SMSResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, request)
	return &sms.SMSResponse{MessageID: "SM1", Status: "queued"}, nil
}

type publishedEvent struct {
	routingKey string
	body       []byte
}

type fakePublisher struct {
	mu        sync.Mutex
	published []publishedEvent
}

func (p *fakePublisher) Publish(ctx context.Context, routingKey string, body []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.published = append(p.published, publishedEvent{routingKey: routingKey, body: body})
	return nil
}

type memoryStorage struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func newMemoryStorage() *memoryStorage {
	return &memoryStorage{objects: make(map[string][]byte)}
}

func (m *memoryStorage) Upload(ctx context.Context, request *storage.UploadRequest) (*storage.UploadResponse, error) {
	var buf bytes.Buffer
	n, err := io.Copy(&buf, request.Reader)
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[request.Key] = buf.Bytes()
	return &storage.UploadResponse{Key: request.Key, Size: n}, nil
}

func (m *memoryStorage) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.objects[key]; !ok {
		return storage.ErrNotFound
	}
	delete(m.objects, key)
	return nil
}

func (m *memoryStorage) GetURL(ctx context.Context, key string, expiration time.Duration) (string, error) {
	return "https://storage.example.com/" + key, nil
}

func (m *memoryStorage) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.objects[key]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (m *memoryStorage) FileExists(ctx context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.objects[key]
	return ok, nil
}
