package ingest

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/kailas-cloud/schemedex/internal/domain"
	"github.com/kailas-cloud/schemedex/internal/domain/scheme"
)

type mockRepo struct {
	inserted []scheme.Record
	err      error
}

func (m *mockRepo) Insert(_ context.Context, rec scheme.Record) error {
	m.inserted = append(m.inserted, rec)
	return m.err
}

func candidate() scheme.Record {
	return scheme.Record{
		Slug:        "pm-kisan",
		Name:        "PM Kisan Samman Nidhi",
		Description: "Income support for farmer families.",
	}
}

func TestIngest_Inserted(t *testing.T) {
	repo := &mockRepo{}
	svc := New(repo, zap.NewNop())

	out, err := svc.Ingest(context.Background(), candidate())
	if err != nil {
		t.Fatalf("Ingest() error = %v", err)
	}
	if out != Inserted {
		t.Errorf("outcome = %v, want Inserted", out)
	}
	if len(repo.inserted) != 1 {
		t.Errorf("inserted %d records, want 1", len(repo.inserted))
	}
}

func TestIngest_DuplicateIsNotAnError(t *testing.T) {
	repo := &mockRepo{err: domain.ErrDuplicate}
	svc := New(repo, zap.NewNop())

	out, err := svc.Ingest(context.Background(), candidate())
	if err != nil {
		t.Fatalf("Ingest() error = %v, want nil for duplicate", err)
	}
	if out != DuplicateSkipped {
		t.Errorf("outcome = %v, want DuplicateSkipped", out)
	}
}

func TestIngest_StoreUnavailableSurfaces(t *testing.T) {
	repo := &mockRepo{err: domain.ErrStoreUnavailable}
	svc := New(repo, zap.NewNop())

	out, err := svc.Ingest(context.Background(), candidate())
	if out != Failed {
		t.Errorf("outcome = %v, want Failed", out)
	}
	if !errors.Is(err, domain.ErrStoreUnavailable) {
		t.Errorf("error = %v, want wrap of ErrStoreUnavailable", err)
	}
}

func TestIngest_InvalidCandidateSkipsStore(t *testing.T) {
	repo := &mockRepo{}
	svc := New(repo, zap.NewNop())

	rec := candidate()
	rec.Slug = ""
	out, err := svc.Ingest(context.Background(), rec)
	if out != Failed {
		t.Errorf("outcome = %v, want Failed", out)
	}
	if err == nil {
		t.Fatal("Ingest() error = nil, want validation error")
	}
	if len(repo.inserted) != 0 {
		t.Errorf("invalid candidate reached the store: %d inserts", len(repo.inserted))
	}
}

func TestOutcome_String(t *testing.T) {
	cases := map[Outcome]string{
		Inserted:         "inserted",
		DuplicateSkipped: "duplicate_skipped",
		Failed:           "failed",
	}
	for out, want := range cases {
		if got := out.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", out, got, want)
		}
	}
}
