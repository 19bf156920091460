//go:build !integration

package activity

import (
	"context"
	"errors"
	"testing"

	"marketSense/domain"
)

type fakeActivityRepo struct {
	saved []domain.ActivityRecord
}

func (f *fakeActivityRepo) Save(_ context.Context, record *domain.ActivityRecord) error {
	record.ID = uint(len(f.saved) + 1)
	f.saved = append(f.saved, *record)
	return nil
}

func (f *fakeActivityRepo) FindByIdentity(_ context.Context, identityKey string) ([]domain.ActivityRecord, error) {
	var out []domain.ActivityRecord
	for _, r := range f.saved {
		if r.IdentityKey == identityKey {
			out = append(out, r)
		}
	}
	return out, nil
}

type fakeListingRepo struct {
	listings map[uint64]domain.Listing
}

func (f *fakeListingRepo) FindByID(_ context.Context, id uint64) (domain.Listing, error) {
	l, ok := f.listings[id]
	if !ok {
		return domain.Listing{}, domain.ErrUnknownListing
	}
	return l, nil
}

type fakeUpdater struct {
	calls int
}

func (f *fakeUpdater) Update(_ context.Context, _ domain.Identity, _ domain.ActivityRecord) (domain.InterestProfile, error) {
	f.calls++
	return domain.NewInterestProfile(), nil
}

func newFixture() (*Service, *fakeActivityRepo, *fakeUpdater) {
	repo := &fakeActivityRepo{}
	listings := &fakeListingRepo{listings: map[uint64]domain.Listing{
		42: {
			ID:          42,
			OwnerID:     9,
			Title:       "MacBook Pro 14 inch",
			Description: "M1 Pro laptop, barely used",
			Category:    "Electronics",
			Brand:       "Apple",
			Price:       1450,
			IsActive:    true,
		},
	}}
	updater := &fakeUpdater{}
	return NewService(repo, listings, updater), repo, updater
}

func listingID(id uint64) *uint64 { return &id }

func TestRecord_Search(t *testing.T) {
	svc, repo, updater := newFixture()
	ident := domain.UserIdentity(1)

	record, err := svc.Record(context.Background(), ident, RecordInput{
		Kind:       domain.ActivitySearch,
		SearchText: "iphone 13 pro max",
	})
	if err != nil {
		t.Fatalf("Record: %v", err)
	}

	if record.IdentityKey != "user:1" {
		t.Fatalf("identity key = %q, want user:1", record.IdentityKey)
	}
	if len(record.Keywords) == 0 {
		t.Fatal("search record has no extracted keywords")
	}
	if record.Brand != "Apple" || record.Category != "Electronics" {
		t.Fatalf("annotation = (%q, %q), want (Apple, Electronics)", record.Brand, record.Category)
	}
	if len(repo.saved) != 1 {
		t.Fatalf("saved %d records, want 1", len(repo.saved))
	}
	if updater.calls != 1 {
		t.Fatalf("profile updated %d times, want 1", updater.calls)
	}
}

func TestRecord_ListingAnnotation(t *testing.T) {
	svc, _, _ := newFixture()

	record, err := svc.Record(context.Background(), domain.UserIdentity(1), RecordInput{
		Kind:      domain.ActivityView,
		ListingID: listingID(42),
	})
	if err != nil {
		t.Fatalf("Record: %v", err)
	}

	// catalog fields win over extracted guesses
	if record.Category != "Electronics" || record.Brand != "Apple" {
		t.Fatalf("annotation = (%q, %q), want catalog values", record.Category, record.Brand)
	}
	if record.ListingPrice == nil || *record.ListingPrice != 1450 {
		t.Fatalf("listing price not denormalized: %v", record.ListingPrice)
	}
}

func TestRecord_UnknownListing(t *testing.T) {
	svc, repo, _ := newFixture()

	_, err := svc.Record(context.Background(), domain.UserIdentity(1), RecordInput{
		Kind:      domain.ActivityClick,
		ListingID: listingID(999),
	})
	if !errors.Is(err, domain.ErrUnknownListing) {
		t.Fatalf("err = %v, want ErrUnknownListing", err)
	}
	if len(repo.saved) != 0 {
		t.Fatal("record persisted despite unknown listing")
	}
}

func TestRecord_Validation(t *testing.T) {
	svc, _, _ := newFixture()
	ident := domain.UserIdentity(1)
	negative := -2.0

	cases := []struct {
		name  string
		ident domain.Identity
		in    RecordInput
	}{
		{"zero identity", domain.Identity{}, RecordInput{Kind: domain.ActivitySearch, SearchText: "x y"}},
		{"unknown kind", ident, RecordInput{Kind: "purchase"}},
		{"search without text", ident, RecordInput{Kind: domain.ActivitySearch}},
		{"view without listing", ident, RecordInput{Kind: domain.ActivityView}},
		{"favorite with zero listing", ident, RecordInput{Kind: domain.ActivityFavorite, ListingID: listingID(0)}},
		{"negative duration", ident, RecordInput{Kind: domain.ActivityView, ListingID: listingID(42), Duration: &negative}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Record(context.Background(), tc.ident, tc.in)
			if !errors.Is(err, domain.ErrInvalidActivity) {
				t.Fatalf("err = %v, want ErrInvalidActivity", err)
			}
		})
	}
}

func TestRecord_DuplicatesTolerated(t *testing.T) {
	svc, repo, _ := newFixture()
	ident := domain.SessionIdentity("abc123")
	in := RecordInput{Kind: domain.ActivityView, ListingID: listingID(42)}

	for i := 0; i < 2; i++ {
		if _, err := svc.Record(context.Background(), ident, in); err != nil {
			t.Fatalf("duplicate record %d rejected: %v", i, err)
		}
	}
	if len(repo.saved) != 2 {
		t.Fatalf("saved %d records, want 2 (append-only, never deduped)", len(repo.saved))
	}
}

func TestHistory_ScopedToIdentity(t *testing.T) {
	svc, _, _ := newFixture()

	a := domain.UserIdentity(1)
	b := domain.SessionIdentity("tok")

	if _, err := svc.Record(context.Background(), a, RecordInput{Kind: domain.ActivityView, ListingID: listingID(42)}); err != nil {
		t.Fatalf("Record a: %v", err)
	}
	if _, err := svc.Record(context.Background(), b, RecordInput{Kind: domain.ActivitySearch, SearchText: "sofa bed"}); err != nil {
		t.Fatalf("Record b: %v", err)
	}

	history, err := svc.History(context.Background(), a)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(history) != 1 || history[0].IdentityKey != a.Key() {
		t.Fatalf("history leaked across identities: %+v", history)
	}
}
