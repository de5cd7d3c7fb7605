package services

import (
	"context"
	"time"

	. "cordpal/internal/models"
	"cordpal/internal/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Map-backed stand-ins for the repository interfaces, enough to drive the
// selection, streak and finalization paths without a database.

type fakeProfileRepo struct {
	profiles []*AotdProfile
	updates  int
}

func (f *fakeProfileRepo) GetByUserID(_ context.Context, _ *gorm.DB, userID uuid.UUID) (*AotdProfile, error) {
	for _, p := range f.profiles {
		if p.UserID == userID {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeProfileRepo) GetAll(_ context.Context, _ *gorm.DB) ([]*AotdProfile, error) {
	return f.profiles, nil
}

func (f *fakeProfileRepo) Create(_ context.Context, _ *gorm.DB, profile *AotdProfile) error {
	f.profiles = append(f.profiles, profile)
	return nil
}

func (f *fakeProfileRepo) Update(_ context.Context, _ *gorm.DB, profile *AotdProfile) error {
	f.updates++
	for i, p := range f.profiles {
		if p.ID == profile.ID {
			f.profiles[i] = profile
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (f *fakeProfileRepo) SetSelectionBlocked(_ context.Context, _ *gorm.DB, profileID uuid.UUID, blocked bool) error {
	for _, p := range f.profiles {
		if p.ID == profileID {
			p.SelectionBlocked = blocked
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (f *fakeProfileRepo) GetBlockedUserIDs(_ context.Context, _ *gorm.DB) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	for _, p := range f.profiles {
		if p.SelectionBlocked {
			ids = append(ids, p.UserID)
		}
	}
	return ids, nil
}

type fakePickRepo struct {
	picks []*DailyPick
}

func (f *fakePickRepo) GetByDate(_ context.Context, _ *gorm.DB, date time.Time) (*DailyPick, error) {
	for _, p := range f.picks {
		if utils.SameDay(p.Date, date) {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakePickRepo) GetMostRecentBefore(_ context.Context, _ *gorm.DB, date time.Time) (*DailyPick, error) {
	var best *DailyPick
	for _, p := range f.picks {
		if !p.Date.Before(date) {
			continue
		}
		if best == nil || p.Date.After(best.Date) {
			best = p
		}
	}
	if best == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return best, nil
}

func (f *fakePickRepo) GetLatestForAlbum(_ context.Context, _ *gorm.DB, albumID uuid.UUID) (*DailyPick, error) {
	var best *DailyPick
	for _, p := range f.picks {
		if p.AlbumID != albumID {
			continue
		}
		if best == nil || p.Date.After(best.Date) {
			best = p
		}
	}
	if best == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return best, nil
}

func (f *fakePickRepo) GetDatesForAlbum(_ context.Context, _ *gorm.DB, albumID uuid.UUID, upTo time.Time) ([]time.Time, error) {
	var dates []time.Time
	for _, p := range f.picks {
		if p.AlbumID == albumID && !p.Date.After(upTo) {
			dates = append(dates, p.Date)
		}
	}
	return dates, nil
}

func (f *fakePickRepo) Create(_ context.Context, _ *gorm.DB, pick *DailyPick) error {
	for _, p := range f.picks {
		if utils.SameDay(p.Date, pick.Date) {
			return gorm.ErrDuplicatedKey
		}
	}
	f.picks = append(f.picks, pick)
	return nil
}

func (f *fakePickRepo) Update(_ context.Context, _ *gorm.DB, pick *DailyPick) error {
	for i, p := range f.picks {
		if p.ID == pick.ID {
			f.picks[i] = pick
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (f *fakePickRepo) CountForAlbumSince(_ context.Context, _ *gorm.DB, albumID uuid.UUID, since time.Time) (int64, error) {
	var count int64
	for _, p := range f.picks {
		if p.AlbumID == albumID && !p.Date.Before(since) {
			count++
		}
	}
	return count, nil
}

func (f *fakePickRepo) CountForSubmitterSince(_ context.Context, _ *gorm.DB, userID uuid.UUID, since time.Time) (int64, error) {
	var count int64
	for _, p := range f.picks {
		if p.Album.SubmittedByID != nil && *p.Album.SubmittedByID == userID && !p.Date.Before(since) {
			count++
		}
	}
	return count, nil
}

type fakeAlbumRepo struct {
	albums       []*Album
	lastExcluded []uuid.UUID
}

func (f *fakeAlbumRepo) GetByID(_ context.Context, _ *gorm.DB, id uuid.UUID) (*Album, error) {
	for _, a := range f.albums {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeAlbumRepo) GetByMBID(_ context.Context, _ *gorm.DB, mbid string) (*Album, error) {
	for _, a := range f.albums {
		if a.MBID == mbid {
			return a, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeAlbumRepo) GetAll(_ context.Context, _ *gorm.DB) ([]*Album, error) {
	return f.albums, nil
}

func (f *fakeAlbumRepo) GetAllExcludingSubmitters(_ context.Context, _ *gorm.DB, userIDs []uuid.UUID) ([]*Album, error) {
	f.lastExcluded = userIDs
	excluded := make(map[uuid.UUID]bool, len(userIDs))
	for _, id := range userIDs {
		excluded[id] = true
	}

	var pool []*Album
	for _, a := range f.albums {
		if a.SubmittedByID != nil && excluded[*a.SubmittedByID] {
			continue
		}
		pool = append(pool, a)
	}
	return pool, nil
}

func (f *fakeAlbumRepo) Create(_ context.Context, _ *gorm.DB, album *Album) error {
	f.albums = append(f.albums, album)
	return nil
}

func (f *fakeAlbumRepo) CountBySubmitter(_ context.Context, _ *gorm.DB, userID uuid.UUID) (int64, error) {
	var count int64
	for _, a := range f.albums {
		if a.SubmittedByID != nil && *a.SubmittedByID == userID {
			count++
		}
	}
	return count, nil
}

type fakeOutageRepo struct {
	outages []*Outage
}

func (f *fakeOutageRepo) GetActiveForUser(_ context.Context, _ *gorm.DB, userID uuid.UUID, onDate time.Time) (*Outage, error) {
	for _, o := range f.outages {
		if o.UserID == userID && o.ActiveOn(onDate) {
			return o, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeOutageRepo) GetActiveUserIDs(_ context.Context, _ *gorm.DB, onDate time.Time) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	for _, o := range f.outages {
		if o.ActiveOn(onDate) {
			ids = append(ids, o.UserID)
		}
	}
	return ids, nil
}

func (f *fakeOutageRepo) Create(_ context.Context, _ *gorm.DB, outage *Outage) error {
	f.outages = append(f.outages, outage)
	return nil
}

type fakeReviewRepo struct {
	reviews []*Review
	history []*ReviewHistory
}

func (f *fakeReviewRepo) GetByID(_ context.Context, _ *gorm.DB, id uuid.UUID) (*Review, error) {
	for _, r := range f.reviews {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeReviewRepo) GetForAlbumDay(_ context.Context, _ *gorm.DB, albumID uuid.UUID, day time.Time) ([]*Review, error) {
	var matched []*Review
	for _, r := range f.reviews {
		if r.AlbumID == albumID && utils.SameDay(r.AotdDate, day) {
			matched = append(matched, r)
		}
	}
	return matched, nil
}

func (f *fakeReviewRepo) GetByAlbumUserDay(_ context.Context, _ *gorm.DB, albumID, userID uuid.UUID, day time.Time) (*Review, error) {
	for _, r := range f.reviews {
		if r.AlbumID == albumID && r.UserID == userID && utils.SameDay(r.AotdDate, day) {
			return r, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeReviewRepo) GetLatestByUser(_ context.Context, _ *gorm.DB, userID uuid.UUID) (*Review, error) {
	var best *Review
	for _, r := range f.reviews {
		if r.UserID != userID {
			continue
		}
		if best == nil || r.AotdDate.After(best.AotdDate) {
			best = r
		}
	}
	if best == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return best, nil
}

func (f *fakeReviewRepo) GetActiveReviewerIDs(_ context.Context, _ *gorm.DB, since time.Time) ([]uuid.UUID, error) {
	seen := make(map[uuid.UUID]bool)
	var ids []uuid.UUID
	for _, r := range f.reviews {
		if r.AotdDate.Before(since) || seen[r.UserID] {
			continue
		}
		seen[r.UserID] = true
		ids = append(ids, r.UserID)
	}
	return ids, nil
}

func (f *fakeReviewRepo) Create(_ context.Context, _ *gorm.DB, review *Review) error {
	f.reviews = append(f.reviews, review)
	return nil
}

func (f *fakeReviewRepo) Update(_ context.Context, _ *gorm.DB, review *Review) error {
	for i, r := range f.reviews {
		if r.ID == review.ID {
			f.reviews[i] = review
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (f *fakeReviewRepo) CreateHistory(_ context.Context, _ *gorm.DB, history *ReviewHistory) error {
	f.history = append(f.history, history)
	return nil
}

func (f *fakeReviewRepo) GetHistoryForReviewsOnDay(_ context.Context, _ *gorm.DB, reviewIDs []uuid.UUID, day time.Time) ([]*ReviewHistory, error) {
	wanted := make(map[uuid.UUID]bool, len(reviewIDs))
	for _, id := range reviewIDs {
		wanted[id] = true
	}

	var matched []*ReviewHistory
	for _, h := range f.history {
		if wanted[h.ReviewID] && utils.SameDay(h.AotdDate, day) {
			matched = append(matched, h)
		}
	}
	return matched, nil
}

func (f *fakeReviewRepo) GetHistoryForReview(_ context.Context, _ *gorm.DB, reviewID uuid.UUID) ([]*ReviewHistory, error) {
	var matched []*ReviewHistory
	for _, h := range f.history {
		if h.ReviewID == reviewID {
			matched = append(matched, h)
		}
	}
	return matched, nil
}

func (f *fakeReviewRepo) GetLatestHistoryBefore(_ context.Context, _ *gorm.DB, reviewID uuid.UUID, asOf time.Time) (*ReviewHistory, error) {
	var best *ReviewHistory
	for _, h := range f.history {
		if h.ReviewID != reviewID || h.LastUpdated.After(asOf) {
			continue
		}
		if best == nil || h.LastUpdated.After(best.LastUpdated) {
			best = h
		}
	}
	if best == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return best, nil
}
