package generator

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

// fakeStorage scripts the storage collaborator and records every interaction.
type fakeStorage struct {
	buckets    []string
	listErr    error
	createErr  error
	uploadErrs []error // consumed per attempt; nil entry means success

	listCalls   int
	created     []string
	uploads     int
	lastKey     string
	lastType    string
	lastData    []byte
	createdPub  bool
	publicCalls int
}

func (f *fakeStorage) ListBuckets(context.Context) ([]string, error) {
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.buckets, nil
}

func (f *fakeStorage) CreateBucket(_ context.Context, name string, public bool) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, name)
	f.createdPub = public
	f.buckets = append(f.buckets, name)
	return nil
}

func (f *fakeStorage) Upload(_ context.Context, _, key string, data []byte, contentType string) error {
	f.uploads++
	f.lastKey = key
	f.lastType = contentType
	f.lastData = data
	if f.uploads <= len(f.uploadErrs) {
		return f.uploadErrs[f.uploads-1]
	}
	return nil
}

func (f *fakeStorage) PublicURL(bucket, key string) string {
	f.publicCalls++
	return fmt.Sprintf("https://storage.test/%s/%s", bucket, key)
}

// sleepRecorder captures requested delays without waiting.
type sleepRecorder struct {
	delays []time.Duration
}

func (s *sleepRecorder) sleep(d time.Duration) {
	s.delays = append(s.delays, d)
}

func TestPublishRetriesThenSucceeds(t *testing.T) {
	transient := errors.New("connection reset")
	store := &fakeStorage{
		buckets:    []string{"app-builds"},
		uploadErrs: []error{transient, transient, nil},
	}
	rec := &sleepRecorder{}
	pub := &Publisher{Storage: store, Bucket: "app-builds", Sleep: rec.sleep}

	url, err := pub.Publish(context.Background(), []byte("archive"), "123-demo")
	if err != nil {
		t.Fatalf("Publish() error = %v", err)
	}
	if url != "https://storage.test/app-builds/123-demo.apk" {
		t.Fatalf("Publish() url = %q", url)
	}
	if store.uploads != 3 {
		t.Fatalf("upload called %d times, want 3", store.uploads)
	}
	if store.lastType != "application/vnd.android.package-archive" {
		t.Fatalf("content type = %q", store.lastType)
	}

	want := []time.Duration{1 * time.Second, 2 * time.Second}
	if len(rec.delays) != len(want) {
		t.Fatalf("slept %d times (%v), want %d", len(rec.delays), rec.delays, len(want))
	}
	for i := range want {
		if rec.delays[i] != want[i] {
			t.Fatalf("delay %d = %v, want %v", i, rec.delays[i], want[i])
		}
	}
}

func TestPublishExhaustsRetries(t *testing.T) {
	boom := errors.New("storage offline")
	store := &fakeStorage{
		buckets:    []string{"app-builds"},
		uploadErrs: []error{boom, boom, boom},
	}
	rec := &sleepRecorder{}
	pub := &Publisher{Storage: store, Bucket: "app-builds", Sleep: rec.sleep}

	_, err := pub.Publish(context.Background(), []byte("archive"), "123-demo")
	if err == nil {
		t.Fatal("Publish() succeeded, want error")
	}
	if kind := KindOf(err); kind != KindUploadExhausted {
		t.Fatalf("KindOf(err) = %q, want %q", kind, KindUploadExhausted)
	}
	if !errors.Is(err, boom) {
		t.Fatal("exhaustion error does not wrap the last upload error")
	}
	if store.uploads != 3 {
		t.Fatalf("upload called %d times, want 3", store.uploads)
	}
	// No sleep after the final attempt.
	if len(rec.delays) != 2 {
		t.Fatalf("slept %d times (%v), want 2", len(rec.delays), rec.delays)
	}
}

func TestPublishStopsEarlyOnFirstSuccess(t *testing.T) {
	store := &fakeStorage{buckets: []string{"app-builds"}}
	rec := &sleepRecorder{}
	pub := &Publisher{Storage: store, Bucket: "app-builds", Sleep: rec.sleep}

	if _, err := pub.Publish(context.Background(), []byte("archive"), "1-a"); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}
	if store.uploads != 1 {
		t.Fatalf("upload called %d times, want 1", store.uploads)
	}
	if len(rec.delays) != 0 {
		t.Fatalf("slept %v, want no delays", rec.delays)
	}
}

func TestPublishProvisionsMissingBucket(t *testing.T) {
	store := &fakeStorage{buckets: []string{"unrelated"}}
	pub := &Publisher{Storage: store, Bucket: "app-builds", Sleep: func(time.Duration) {}}

	if _, err := pub.Publish(context.Background(), []byte("archive"), "1-a"); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}
	if len(store.created) != 1 || store.created[0] != "app-builds" {
		t.Fatalf("created buckets = %v, want [app-builds]", store.created)
	}
	if !store.createdPub {
		t.Fatal("bucket was not created with public visibility")
	}
}

func TestPublishBucketCreationFailureIsFatal(t *testing.T) {
	store := &fakeStorage{createErr: errors.New("access denied")}
	pub := &Publisher{Storage: store, Bucket: "app-builds", Sleep: func(time.Duration) {}}

	_, err := pub.Publish(context.Background(), []byte("archive"), "1-a")
	if err == nil {
		t.Fatal("Publish() succeeded, want error")
	}
	if kind := KindOf(err); kind != KindStorageProvision {
		t.Fatalf("KindOf(err) = %q, want %q", kind, KindStorageProvision)
	}
	if store.uploads != 0 {
		t.Fatalf("upload called %d times after provisioning failure, want 0", store.uploads)
	}
}
