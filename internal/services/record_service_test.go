package services

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"sort"
	"testing"
	"time"

	"weather-lookup/internal/models"
	"weather-lookup/internal/upstream"
	"weather-lookup/pkg/logging"
	"weather-lookup/pkg/metrics"
)

// One collector per test binary; promauto registers globally.
var testMetrics = metrics.NewCollector("test_services")

func newTestLogger() *logging.StructuredLogger {
	logger := logging.NewStructuredLogger("test", "test", logging.ErrorLevel)
	logger.SetOutput(io.Discard)
	return logger
}

// fakeRepository is an in-memory RecordRepository.
type fakeRepository struct {
	records map[int64]models.Record
	nextID  int64
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{records: make(map[int64]models.Record), nextID: 1}
}

func (f *fakeRepository) Create(ctx context.Context, record *models.Record) error {
	record.ID = f.nextID
	f.nextID++
	now := time.Now().UTC()
	record.CreatedAt = now
	record.UpdatedAt = now
	f.records[record.ID] = *record
	return nil
}

func (f *fakeRepository) List(ctx context.Context) ([]*models.Record, error) {
	ids := make([]int64, 0, len(f.records))
	for id := range f.records {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	out := make([]*models.Record, 0, len(ids))
	for _, id := range ids {
		r := f.records[id]
		out = append(out, &r)
	}
	return out, nil
}

func (f *fakeRepository) Get(ctx context.Context, id int64) (*models.Record, error) {
	r, ok := f.records[id]
	if !ok {
		return nil, &models.NotFoundError{Resource: "record", ID: "?"}
	}
	copied := r
	return &copied, nil
}

func (f *fakeRepository) Update(ctx context.Context, record *models.Record) error {
	if _, ok := f.records[record.ID]; !ok {
		return &models.NotFoundError{Resource: "record", ID: "?"}
	}
	record.UpdatedAt = time.Now().UTC()
	f.records[record.ID] = *record
	return nil
}

func (f *fakeRepository) Delete(ctx context.Context, id int64) error {
	if _, ok := f.records[id]; !ok {
		return &models.NotFoundError{Resource: "record", ID: "?"}
	}
	delete(f.records, id)
	return nil
}

func (f *fakeRepository) HealthCheck(ctx context.Context) error {
	return nil
}

// fakeResolver returns a fixed location and counts calls.
type fakeResolver struct {
	resolved models.ResolvedLocation
	err      error
	calls    int
}

func (f *fakeResolver) Resolve(ctx context.Context, query string) (*models.ResolvedLocation, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	loc := f.resolved
	return &loc, nil
}

func (f *fakeResolver) Search(ctx context.Context, query string) ([]models.ResolvedLocation, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []models.ResolvedLocation{f.resolved}, nil
}

// fakeRangeFetcher returns a fixed raw payload.
type fakeRangeFetcher struct {
	payload json.RawMessage
	err     error
	calls   int
}

func (f *fakeRangeFetcher) FetchDailyRange(ctx context.Context, lat, lon float64, start, end models.Date) (json.RawMessage, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.payload, nil
}

func newTestRecordService(repo *fakeRepository, resolver *fakeResolver, fetcher *fakeRangeFetcher) *RecordService {
	return NewRecordService(repo, resolver, fetcher, newTestLogger(), testMetrics)
}

var bostonResolved = models.ResolvedLocation{
	Name:      "Boston, Massachusetts, United States",
	Latitude:  42.3601,
	Longitude: -71.0589,
}

func TestRecordServiceCreate(t *testing.T) {
	repo := newFakeRepository()
	resolver := &fakeResolver{resolved: bostonResolved}
	fetcher := &fakeRangeFetcher{payload: json.RawMessage(`{"daily": {}}`)}
	service := newTestRecordService(repo, resolver, fetcher)

	record, err := service.Create(context.Background(), "Boston, MA", "2025-10-01", "2025-10-05")
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	if record.ID == 0 {
		t.Error("created record must have an id assigned")
	}
	if record.LocationQuery != "Boston, MA" {
		t.Errorf("location query = %q, want the original input kept", record.LocationQuery)
	}
	if record.ResolvedName != bostonResolved.Name {
		t.Errorf("resolved name = %q", record.ResolvedName)
	}
	if record.Latitude != bostonResolved.Latitude || record.Longitude != bostonResolved.Longitude {
		t.Errorf("coordinates = (%v, %v)", record.Latitude, record.Longitude)
	}
	if string(record.Data) != `{"daily": {}}` {
		t.Errorf("data = %s, want the fetched payload persisted", record.Data)
	}
	if fetcher.calls != 1 {
		t.Errorf("fetcher called %d times, want 1", fetcher.calls)
	}
}

func TestRecordServiceCreateInvalidRange(t *testing.T) {
	repo := newFakeRepository()
	resolver := &fakeResolver{resolved: bostonResolved}
	fetcher := &fakeRangeFetcher{}
	service := newTestRecordService(repo, resolver, fetcher)

	_, err := service.Create(context.Background(), "Boston, MA", "2025-10-05", "2025-10-01")
	var validationErr *models.ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("error = %v, want *models.ValidationError", err)
	}
	if resolver.calls != 0 {
		t.Error("range validation must happen before any resolution")
	}
	if len(repo.records) != 0 {
		t.Error("nothing should be persisted on validation failure")
	}
}

func TestRecordServiceCreateBadDate(t *testing.T) {
	service := newTestRecordService(newFakeRepository(), &fakeResolver{resolved: bostonResolved}, &fakeRangeFetcher{})

	_, err := service.Create(context.Background(), "Boston, MA", "10/01/2025", "2025-10-05")
	var validationErr *models.ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("error = %v, want *models.ValidationError", err)
	}
}

func TestRecordServiceCreateResolutionFailure(t *testing.T) {
	repo := newFakeRepository()
	resolver := &fakeResolver{err: &models.NotFoundError{Resource: "location", ID: "nowhere"}}
	service := newTestRecordService(repo, resolver, &fakeRangeFetcher{})

	_, err := service.Create(context.Background(), "nowhere", "2025-10-01", "2025-10-05")
	var notFound *models.NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("error = %v, want *models.NotFoundError", err)
	}
	if len(repo.records) != 0 {
		t.Error("nothing should be persisted when resolution fails")
	}
}

func TestRecordServiceUpdateMergedRangeValidation(t *testing.T) {
	repo := newFakeRepository()
	resolver := &fakeResolver{resolved: bostonResolved}
	fetcher := &fakeRangeFetcher{payload: json.RawMessage(`{}`)}
	service := newTestRecordService(repo, resolver, fetcher)

	record, err := service.Create(context.Background(), "Boston, MA", "2025-10-01", "2025-10-05")
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	// New start date lands after the stored end date.
	badStart := "2025-10-10"
	_, err = service.Update(context.Background(), record.ID, models.RecordPatch{StartDate: &badStart})
	var validationErr *models.ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("error = %v, want *models.ValidationError", err)
	}

	// The stored row is untouched.
	stored, err := service.Get(context.Background(), record.ID)
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if stored.StartDate.String() != "2025-10-01" || stored.EndDate.String() != "2025-10-05" {
		t.Errorf("stored range = (%s, %s), want unchanged", stored.StartDate, stored.EndDate)
	}
}

func TestRecordServiceUpdateSkipsResolveForSameLocation(t *testing.T) {
	repo := newFakeRepository()
	resolver := &fakeResolver{resolved: bostonResolved}
	fetcher := &fakeRangeFetcher{payload: json.RawMessage(`{}`)}
	service := newTestRecordService(repo, resolver, fetcher)

	record, err := service.Create(context.Background(), "Boston, MA", "2025-10-01", "2025-10-05")
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	callsAfterCreate := resolver.calls

	same := "Boston, MA"
	newEnd := "2025-10-07"
	updated, err := service.Update(context.Background(), record.ID, models.RecordPatch{Location: &same, EndDate: &newEnd})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}

	if resolver.calls != callsAfterCreate {
		t.Errorf("resolver called %d extra times for an unchanged location", resolver.calls-callsAfterCreate)
	}
	if updated.EndDate.String() != "2025-10-07" {
		t.Errorf("end date = %s, want 2025-10-07", updated.EndDate)
	}
}

func TestRecordServiceUpdateReResolvesChangedLocation(t *testing.T) {
	repo := newFakeRepository()
	resolver := &fakeResolver{resolved: bostonResolved}
	fetcher := &fakeRangeFetcher{payload: json.RawMessage(`{}`)}
	service := newTestRecordService(repo, resolver, fetcher)

	record, err := service.Create(context.Background(), "Boston, MA", "2025-10-01", "2025-10-05")
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	resolver.resolved = models.ResolvedLocation{Name: "Chicago, Illinois, United States", Latitude: 41.8781, Longitude: -87.6298}
	callsAfterCreate := resolver.calls

	chicago := "Chicago"
	updated, err := service.Update(context.Background(), record.ID, models.RecordPatch{Location: &chicago})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}

	if resolver.calls != callsAfterCreate+1 {
		t.Errorf("resolver calls = %d, want exactly one re-resolution", resolver.calls-callsAfterCreate)
	}
	if updated.LocationQuery != "Chicago" {
		t.Errorf("location query = %q", updated.LocationQuery)
	}
	if updated.ResolvedName != "Chicago, Illinois, United States" {
		t.Errorf("resolved name = %q", updated.ResolvedName)
	}
	if updated.Latitude != 41.8781 {
		t.Errorf("latitude = %v, want the re-resolved coordinate", updated.Latitude)
	}
}

func TestRecordServiceUpdateFetchFailureLeavesRowUntouched(t *testing.T) {
	repo := newFakeRepository()
	resolver := &fakeResolver{resolved: bostonResolved}
	fetcher := &fakeRangeFetcher{payload: json.RawMessage(`{}`)}
	service := newTestRecordService(repo, resolver, fetcher)

	record, err := service.Create(context.Background(), "Boston, MA", "2025-10-01", "2025-10-05")
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	fetcher.err = &upstream.UpstreamError{Provider: "open-meteo", StatusCode: 502}
	newEnd := "2025-10-07"
	_, err = service.Update(context.Background(), record.ID, models.RecordPatch{EndDate: &newEnd})
	var upstreamErr *upstream.UpstreamError
	if !errors.As(err, &upstreamErr) {
		t.Fatalf("error = %v, want *upstream.UpstreamError", err)
	}

	stored, err := service.Get(context.Background(), record.ID)
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if stored.EndDate.String() != "2025-10-05" {
		t.Errorf("stored end date = %s, want unchanged on fetch failure", stored.EndDate)
	}
}

func TestRecordServiceDelete(t *testing.T) {
	repo := newFakeRepository()
	service := newTestRecordService(repo, &fakeResolver{resolved: bostonResolved}, &fakeRangeFetcher{payload: json.RawMessage(`{}`)})

	record, err := service.Create(context.Background(), "Boston, MA", "2025-10-01", "2025-10-05")
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	if err := service.Delete(context.Background(), record.ID); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}

	_, err = service.Get(context.Background(), record.ID)
	var notFound *models.NotFoundError
	if !errors.As(err, &notFound) {
		t.Errorf("Get after Delete error = %v, want *models.NotFoundError", err)
	}

	err = service.Delete(context.Background(), record.ID)
	if !errors.As(err, &notFound) {
		t.Errorf("second Delete error = %v, want *models.NotFoundError", err)
	}
}

func TestRecordServiceList(t *testing.T) {
	repo := newFakeRepository()
	service := newTestRecordService(repo, &fakeResolver{resolved: bostonResolved}, &fakeRangeFetcher{payload: json.RawMessage(`{}`)})

	for i := 0; i < 3; i++ {
		if _, err := service.Create(context.Background(), "Boston, MA", "2025-10-01", "2025-10-05"); err != nil {
			t.Fatalf("Create returned error: %v", err)
		}
	}

	records, err := service.List(context.Background())
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("got %d records, want 3", len(records))
	}
	for i := 1; i < len(records); i++ {
		if records[i].ID <= records[i-1].ID {
			t.Errorf("records out of insertion order: %d before %d", records[i-1].ID, records[i].ID)
		}
	}
}
