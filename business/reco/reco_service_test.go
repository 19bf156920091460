//go:build !integration

package reco

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"marketSense/domain"
)

// ---- fakes ----

type fakeListingRepo struct {
	listings   []domain.Listing
	batchCalls int
}

func (f *fakeListingRepo) FindActive(_ context.Context) ([]domain.Listing, error) {
	var out []domain.Listing
	for _, l := range f.listings {
		if l.IsActive {
			out = append(out, l)
		}
	}
	return out, nil
}

func (f *fakeListingRepo) FindByID(_ context.Context, id uint64) (domain.Listing, error) {
	for _, l := range f.listings {
		if l.ID == id {
			return l, nil
		}
	}
	return domain.Listing{}, domain.ErrUnknownListing
}

func (f *fakeListingRepo) FindByIDs(_ context.Context, ids []uint64) (map[uint64]domain.Listing, error) {
	f.batchCalls++
	out := make(map[uint64]domain.Listing, len(ids))
	for _, id := range ids {
		for _, l := range f.listings {
			if l.ID == id {
				out[id] = l
			}
		}
	}
	return out, nil
}

func (f *fakeListingRepo) FindByCategoryOrBrand(_ context.Context, category, brand string) ([]domain.Listing, error) {
	var out []domain.Listing
	for _, l := range f.listings {
		if !l.IsActive {
			continue
		}
		if (category != "" && l.Category == category) || (brand != "" && l.Brand == brand) {
			out = append(out, l)
		}
	}
	return out, nil
}

type fakeActivityRepo struct {
	rows      []domain.ActivityRecord
	favorites map[string]map[uint64]bool
}

func (f *fakeActivityRepo) FindTargetedSince(_ context.Context, since time.Time) ([]domain.ActivityRecord, error) {
	var out []domain.ActivityRecord
	for _, r := range f.rows {
		if r.ListingID != nil && !r.CreatedAt.Before(since) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeActivityRepo) FindFavoritedListingIDs(_ context.Context, identityKey string) (map[uint64]bool, error) {
	return f.favorites[identityKey], nil
}

type fakeRecRepo struct {
	saved   []domain.RecommendationRecord
	matched bool
}

func (f *fakeRecRepo) SaveAll(_ context.Context, records []domain.RecommendationRecord) error {
	f.saved = append(f.saved, records...)
	return nil
}

func (f *fakeRecRepo) MarkClicked(_ context.Context, _ string, _ uint64, _ domain.Algorithm, _ time.Time) (bool, error) {
	return f.matched, nil
}

type fakeProfiles struct {
	profiles map[string]domain.InterestProfile
}

func (f *fakeProfiles) Get(_ context.Context, identity domain.Identity) (domain.InterestProfile, error) {
	if p, ok := f.profiles[identity.Key()]; ok {
		return p, nil
	}
	return domain.NewInterestProfile(), nil
}

// ---- fixtures ----

func targeted(kind domain.ActivityKind, listingID uint64, age time.Duration) domain.ActivityRecord {
	id := listingID
	return domain.ActivityRecord{
		Kind:      kind,
		ListingID: &id,
		CreatedAt: time.Now().Add(-age),
	}
}

func catalog() []domain.Listing {
	base := time.Now().Add(-30 * 24 * time.Hour)
	return []domain.Listing{
		{ID: 1, OwnerID: 100, Title: "Dell laptop for sale", Description: "gaming laptop", Category: "Electronics", Brand: "Dell", Price: 800, IsActive: true, CreatedAt: base},
		{ID: 2, OwnerID: 101, Title: "Dining table", Description: "solid wood table", Category: "Furniture", Price: 200, IsActive: true, CreatedAt: base},
		{ID: 3, OwnerID: 102, Title: "Lenovo laptop", Description: "thinkpad laptop", Category: "Electronics", Brand: "Lenovo", Price: 650, IsActive: true, CreatedAt: base.Add(time.Hour)},
		{ID: 4, OwnerID: 103, Title: "Broken laptop", Description: "for parts", Category: "Electronics", Brand: "Dell", Price: 90, IsActive: false, CreatedAt: base},
	}
}

func laptopProfile() domain.InterestProfile {
	p := domain.NewInterestProfile()
	p.Categories["Electronics"] = 10
	p.Keywords["laptop"] = 5
	p.Brands["Dell"] = 3
	return p
}

func newService(listings *fakeListingRepo, acts *fakeActivityRepo, recs *fakeRecRepo, profiles *fakeProfiles) *Service {
	return NewService(listings, acts, recs, profiles, DefaultConfig())
}

// ---- tests ----

func TestPersonalized_ProfileDrivesRanking(t *testing.T) {
	ident := domain.UserIdentity(1)
	svc := newService(
		&fakeListingRepo{listings: catalog()},
		&fakeActivityRepo{},
		&fakeRecRepo{},
		&fakeProfiles{profiles: map[string]domain.InterestProfile{ident.Key(): laptopProfile()}},
	)

	recs, err := svc.Personalized(context.Background(), ident, 10, 0)
	if err != nil {
		t.Fatalf("Personalized: %v", err)
	}
	if len(recs) == 0 {
		t.Fatal("empty feed for a profiled identity with an active catalog")
	}

	pos := make(map[uint64]int)
	for i, r := range recs {
		pos[r.ListingID] = i
	}
	if _, ok := pos[2]; ok {
		if pos[1] > pos[2] {
			t.Fatalf("laptop (id 1) ranked below table (id 2): %v", recs)
		}
	}
	if recs[0].ListingID != 1 {
		t.Fatalf("top listing = %d, want 1 (category and keyword match)", recs[0].ListingID)
	}
	for _, r := range recs {
		if r.ListingID == 4 {
			t.Fatal("inactive listing surfaced")
		}
	}
}

func TestPersonalized_ExcludesOwnedAndFavorited(t *testing.T) {
	ident := domain.UserIdentity(100) // owns listing 1
	svc := newService(
		&fakeListingRepo{listings: catalog()},
		&fakeActivityRepo{favorites: map[string]map[uint64]bool{
			ident.Key(): {3: true},
		}},
		&fakeRecRepo{},
		&fakeProfiles{profiles: map[string]domain.InterestProfile{ident.Key(): laptopProfile()}},
	)

	recs, err := svc.Personalized(context.Background(), ident, 10, 0)
	if err != nil {
		t.Fatalf("Personalized: %v", err)
	}
	for _, r := range recs {
		if r.ListingID == 1 {
			t.Fatal("identity's own listing surfaced")
		}
		if r.ListingID == 3 {
			t.Fatal("favorited listing surfaced")
		}
	}
}

func TestPersonalized_MinScoreFilters(t *testing.T) {
	ident := domain.UserIdentity(1)
	svc := newService(
		&fakeListingRepo{listings: catalog()},
		&fakeActivityRepo{},
		&fakeRecRepo{},
		&fakeProfiles{profiles: map[string]domain.InterestProfile{ident.Key(): laptopProfile()}},
	)

	recs, err := svc.Personalized(context.Background(), ident, 10, 0.5)
	if err != nil {
		t.Fatalf("Personalized: %v", err)
	}
	for _, r := range recs {
		if r.Score < 0.5 {
			t.Fatalf("listing %d below min_score: %v", r.ListingID, r.Score)
		}
		if r.ListingID == 2 {
			t.Fatal("unrelated furniture passed min_score 0.5")
		}
	}
}

func TestPersonalized_EmptyProfileFallsBackToTrending(t *testing.T) {
	ident := domain.SessionIdentity("fresh")
	listings := &fakeListingRepo{listings: catalog()}
	acts := &fakeActivityRepo{rows: []domain.ActivityRecord{
		targeted(domain.ActivityView, 2, time.Hour),
		targeted(domain.ActivityView, 2, 2*time.Hour),
		targeted(domain.ActivityClick, 3, time.Hour),
	}}
	profiles := &fakeProfiles{}

	svcA := newService(listings, acts, &fakeRecRepo{}, profiles)
	personalized, err := svcA.Personalized(context.Background(), ident, 10, 0)
	if err != nil {
		t.Fatalf("Personalized: %v", err)
	}

	svcB := newService(listings, acts, &fakeRecRepo{}, profiles)
	trending, err := svcB.Trending(context.Background(), ident, "", 10)
	if err != nil {
		t.Fatalf("Trending: %v", err)
	}

	if !reflect.DeepEqual(personalized, trending) {
		t.Fatalf("empty-profile personalized %v != trending %v", personalized, trending)
	}
}

func TestTrending_RanksByWindowActivity(t *testing.T) {
	acts := &fakeActivityRepo{rows: []domain.ActivityRecord{
		// listing 1: three views = weight 6
		targeted(domain.ActivityView, 1, time.Hour),
		targeted(domain.ActivityView, 1, 2*time.Hour),
		targeted(domain.ActivityView, 1, 3*time.Hour),
		// listing 2: one favorite = weight 5
		targeted(domain.ActivityFavorite, 2, time.Hour),
		// listing 3: one click = weight 3
		targeted(domain.ActivityClick, 3, time.Hour),
		// outside the 7-day window, must not count
		targeted(domain.ActivityFavorite, 3, 8*24*time.Hour),
		// stale reference, skipped without failing the batch
		targeted(domain.ActivityView, 99, time.Hour),
	}}
	svc := newService(&fakeListingRepo{listings: catalog()}, acts, &fakeRecRepo{}, &fakeProfiles{})

	recs, err := svc.Trending(context.Background(), domain.SessionIdentity("s"), "", 10)
	if err != nil {
		t.Fatalf("Trending: %v", err)
	}

	wantOrder := []uint64{1, 2, 3}
	if len(recs) != len(wantOrder) {
		t.Fatalf("got %d results, want %d: %v", len(recs), len(wantOrder), recs)
	}
	for i, want := range wantOrder {
		if recs[i].ListingID != want {
			t.Fatalf("position %d = listing %d, want %d", i, recs[i].ListingID, want)
		}
	}
	if recs[0].Score != 1.0 {
		t.Fatalf("top trending score = %v, want 1.0 (normalized by max)", recs[0].Score)
	}
}

func TestTrending_CategoryFilter(t *testing.T) {
	acts := &fakeActivityRepo{rows: []domain.ActivityRecord{
		// the Electronics listing is the heavier one overall
		targeted(domain.ActivityFavorite, 1, time.Hour),
		targeted(domain.ActivityView, 2, time.Hour),
	}}
	svc := newService(&fakeListingRepo{listings: catalog()}, acts, &fakeRecRepo{}, &fakeProfiles{})

	recs, err := svc.Trending(context.Background(), domain.SessionIdentity("s"), "Furniture", 10)
	if err != nil {
		t.Fatalf("Trending: %v", err)
	}
	if len(recs) != 1 || recs[0].ListingID != 2 {
		t.Fatalf("category filter result = %v, want only listing 2", recs)
	}
	// the heaviest in-category listing normalizes against its own set, not
	// against listings the filter removed
	if recs[0].Score != 1.0 {
		t.Fatalf("top in-category score = %v, want 1.0", recs[0].Score)
	}
}

func TestTrending_ResolvesListingsInOneBatch(t *testing.T) {
	acts := &fakeActivityRepo{rows: []domain.ActivityRecord{
		targeted(domain.ActivityView, 1, time.Hour),
		targeted(domain.ActivityView, 2, time.Hour),
		targeted(domain.ActivityClick, 3, time.Hour),
	}}
	listings := &fakeListingRepo{listings: catalog()}
	svc := newService(listings, acts, &fakeRecRepo{}, &fakeProfiles{})

	if _, err := svc.Trending(context.Background(), domain.SessionIdentity("s"), "", 10); err != nil {
		t.Fatalf("Trending: %v", err)
	}
	if listings.batchCalls != 1 {
		t.Fatalf("listings resolved in %d batch calls, want 1", listings.batchCalls)
	}
}

func TestTrending_EmptyWindow(t *testing.T) {
	svc := newService(&fakeListingRepo{listings: catalog()}, &fakeActivityRepo{}, &fakeRecRepo{}, &fakeProfiles{})

	recs, err := svc.Trending(context.Background(), domain.SessionIdentity("s"), "", 10)
	if err != nil {
		t.Fatalf("Trending: %v", err)
	}
	if len(recs) != 0 {
		t.Fatalf("cold catalog produced trending results: %v", recs)
	}
}

func TestSimilar_ExcludesReference(t *testing.T) {
	svc := newService(&fakeListingRepo{listings: catalog()}, &fakeActivityRepo{}, &fakeRecRepo{}, &fakeProfiles{})

	recs, err := svc.Similar(context.Background(), domain.UserIdentity(1), 1, 10)
	if err != nil {
		t.Fatalf("Similar: %v", err)
	}
	if len(recs) == 0 {
		t.Fatal("no similar listings for a category with peers")
	}
	for _, r := range recs {
		if r.ListingID == 1 {
			t.Fatal("reference listing recommended as similar to itself")
		}
	}
	if recs[0].ListingID != 3 {
		t.Fatalf("top similar = %d, want 3 (same category, close price)", recs[0].ListingID)
	}
}

func TestSimilar_UnknownReference(t *testing.T) {
	svc := newService(&fakeListingRepo{listings: catalog()}, &fakeActivityRepo{}, &fakeRecRepo{}, &fakeProfiles{})

	_, err := svc.Similar(context.Background(), domain.UserIdentity(1), 999, 10)
	if !errors.Is(err, domain.ErrUnknownListing) {
		t.Fatalf("err = %v, want ErrUnknownListing", err)
	}
}

func TestForYou_InterleavesAndDedupes(t *testing.T) {
	ident := domain.UserIdentity(1)
	acts := &fakeActivityRepo{rows: []domain.ActivityRecord{
		targeted(domain.ActivityView, 1, time.Hour),
		targeted(domain.ActivityView, 2, time.Hour),
		targeted(domain.ActivityClick, 3, time.Hour),
	}}
	recRepo := &fakeRecRepo{}
	svc := newService(
		&fakeListingRepo{listings: catalog()},
		acts,
		recRepo,
		&fakeProfiles{profiles: map[string]domain.InterestProfile{ident.Key(): laptopProfile()}},
	)

	feed, err := svc.ForYou(context.Background(), ident, 3)
	if err != nil {
		t.Fatalf("ForYou: %v", err)
	}
	if len(feed) > 3 {
		t.Fatalf("feed size %d exceeds limit", len(feed))
	}

	seen := make(map[uint64]struct{})
	for _, r := range feed {
		if _, dup := seen[r.ListingID]; dup {
			t.Fatalf("duplicate listing %d in feed", r.ListingID)
		}
		seen[r.ListingID] = struct{}{}
	}

	// only the blended feed is logged, not its sources
	for _, rec := range recRepo.saved {
		if rec.Algorithm != domain.AlgoForYou {
			t.Fatalf("source algorithm %q leaked into the shown log", rec.Algorithm)
		}
	}
}

func TestTrackClick_UnshownIsNoOp(t *testing.T) {
	svc := newService(&fakeListingRepo{listings: catalog()}, &fakeActivityRepo{}, &fakeRecRepo{matched: false}, &fakeProfiles{})

	if err := svc.TrackClick(context.Background(), domain.UserIdentity(1), 1, domain.AlgoPersonalized); err != nil {
		t.Fatalf("click on unshown recommendation errored: %v", err)
	}
}

func TestRecordShown_LogsShownRecommendations(t *testing.T) {
	ident := domain.UserIdentity(1)
	recRepo := &fakeRecRepo{}
	svc := newService(
		&fakeListingRepo{listings: catalog()},
		&fakeActivityRepo{},
		recRepo,
		&fakeProfiles{profiles: map[string]domain.InterestProfile{ident.Key(): laptopProfile()}},
	)

	recs, err := svc.Personalized(context.Background(), ident, 10, 0)
	if err != nil {
		t.Fatalf("Personalized: %v", err)
	}
	if len(recRepo.saved) != len(recs) {
		t.Fatalf("logged %d shown records, want %d", len(recRepo.saved), len(recs))
	}
	for _, rec := range recRepo.saved {
		if rec.Algorithm != domain.AlgoPersonalized || rec.IdentityKey != ident.Key() || rec.Clicked {
			t.Fatalf("malformed shown record: %+v", rec)
		}
	}
}
