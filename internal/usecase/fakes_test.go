package usecase

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"
	"time"

	"movie-discovery/internal/catalog"
	"movie-discovery/internal/data/entity"
	"movie-discovery/internal/data/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

// memStore is an in-memory stand-in for the Postgres schema. Transactions
// snapshot the whole store and restore it when the closure fails.
type memStore struct {
	mu   sync.Mutex
	txMu sync.Mutex

	users        map[uuid.UUID]entity.User
	sessions     map[uuid.UUID]entity.Session
	lists        map[entity.ListKind]map[itemKey]entity.LibraryItem
	history      map[itemKey]entity.WatchHistory
	reviews      map[uuid.UUID]entity.Review
	likes        map[likeKey]entity.ReviewLike
	achievements map[achievementKey]entity.Achievement
	streaks      map[uuid.UUID]entity.Streak
	balances     map[uuid.UUID]int
	transactions []entity.CreditTransaction
	codes        map[uuid.UUID]entity.RechargeCode
	redemptions  map[likeKey]entity.CodeRedemption

	// fail makes the named operation return the given error
	fail map[string]error
}

type itemKey struct {
	user  uuid.UUID
	movie int
	media entity.MediaType
}

type likeKey struct {
	a, b uuid.UUID
}

type achievementKey struct {
	user uuid.UUID
	kind entity.AchievementType
}

var errUnique = &pgconn.PgError{Code: "23505", Message: "duplicate key value violates unique constraint"}

func newMemStore() *memStore {
	return &memStore{
		users:    map[uuid.UUID]entity.User{},
		sessions: map[uuid.UUID]entity.Session{},
		lists: map[entity.ListKind]map[itemKey]entity.LibraryItem{
			entity.ListFavorites: {},
			entity.ListWatchlist: {},
		},
		history:      map[itemKey]entity.WatchHistory{},
		reviews:      map[uuid.UUID]entity.Review{},
		likes:        map[likeKey]entity.ReviewLike{},
		achievements: map[achievementKey]entity.Achievement{},
		streaks:      map[uuid.UUID]entity.Streak{},
		balances:     map[uuid.UUID]int{},
		codes:        map[uuid.UUID]entity.RechargeCode{},
		redemptions:  map[likeKey]entity.CodeRedemption{},
		fail:         map[string]error{},
	}
}

func (s *memStore) failure(op string) error {
	return s.fail[op]
}

func (s *memStore) snapshot() *memStore {
	s.mu.Lock()
	defer s.mu.Unlock()

	lists := map[entity.ListKind]map[itemKey]entity.LibraryItem{}
	for k, v := range s.lists {
		lists[k] = maps.Clone(v)
	}
	return &memStore{
		users:        maps.Clone(s.users),
		sessions:     maps.Clone(s.sessions),
		lists:        lists,
		history:      maps.Clone(s.history),
		reviews:      maps.Clone(s.reviews),
		likes:        maps.Clone(s.likes),
		achievements: maps.Clone(s.achievements),
		streaks:      maps.Clone(s.streaks),
		balances:     maps.Clone(s.balances),
		transactions: slices.Clone(s.transactions),
		codes:        maps.Clone(s.codes),
		redemptions:  maps.Clone(s.redemptions),
	}
}

func (s *memStore) restore(snap *memStore) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.users = snap.users
	s.sessions = snap.sessions
	s.lists = snap.lists
	s.history = snap.history
	s.reviews = snap.reviews
	s.likes = snap.likes
	s.achievements = snap.achievements
	s.streaks = snap.streaks
	s.balances = snap.balances
	s.transactions = snap.transactions
	s.codes = snap.codes
	s.redemptions = snap.redemptions
}

func newTestRepo() (*repository.Repository, *memStore) {
	store := newMemStore()
	repo := store.repository()
	repo.Tx = &memTransactor{store: store}
	return repo, store
}

func (s *memStore) repository() *repository.Repository {
	return &repository.Repository{
		User:         &memUsers{s},
		Session:      &memSessions{s},
		Favorite:     &memLibrary{s, entity.ListFavorites},
		Watchlist:    &memLibrary{s, entity.ListWatchlist},
		History:      &memHistory{s},
		Review:       &memReviews{s},
		ReviewLike:   &memLikes{s},
		Achievement:  &memAchievements{s},
		Streak:       &memStreaks{s},
		Credit:       &memCredits{s},
		RechargeCode: &memCodes{s},
		Redemption:   &memRedemptions{s},
	}
}

type memTransactor struct {
	store *memStore
}

func (t *memTransactor) WithinTx(ctx context.Context, fn func(tx *repository.Repository) error) error {
	t.store.txMu.Lock()
	defer t.store.txMu.Unlock()

	snap := t.store.snapshot()
	txRepo := t.store.repository()
	txRepo.Tx = nestedTx{txRepo}

	if err := fn(txRepo); err != nil {
		t.store.restore(snap)
		return err
	}
	return nil
}

type nestedTx struct {
	repo *repository.Repository
}

func (n nestedTx) WithinTx(ctx context.Context, fn func(tx *repository.Repository) error) error {
	return fn(n.repo)
}

func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return []T{}
	}
	end := min(offset+limit, len(items))
	return items[offset:end]
}

// ==================== USERS & SESSIONS ====================

type memUsers struct{ s *memStore }

func (r *memUsers) Create(ctx context.Context, user *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if strings.EqualFold(u.Email, user.Email) && u.DeletedAt == nil {
			return errUnique
		}
	}
	r.s.users[user.ID] = *user
	return nil
}

func (r *memUsers) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok || u.DeletedAt != nil {
		return nil, nil
	}
	return &u, nil
}

func (r *memUsers) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if strings.EqualFold(u.Email, email) && u.DeletedAt == nil {
			return &u, nil
		}
	}
	return nil, nil
}

func (r *memUsers) active() []*entity.User {
	var out []*entity.User
	for _, u := range r.s.users {
		if u.DeletedAt == nil {
			out = append(out, &u)
		}
	}
	slices.SortFunc(out, func(a, b *entity.User) int { return b.CreatedAt.Compare(a.CreatedAt) })
	return out
}

func (r *memUsers) FindAll(ctx context.Context, limit, offset int) ([]*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return page(r.active(), limit, offset), nil
}

func (r *memUsers) CountAll(ctx context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return int64(len(r.active())), nil
}

func (r *memUsers) update(id uuid.UUID, fn func(u *entity.User)) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok || u.DeletedAt != nil {
		return fmt.Errorf("user %s not found", id)
	}
	fn(&u)
	r.s.users[id] = u
	return nil
}

func (r *memUsers) UpdateProfile(ctx context.Context, id uuid.UUID, displayName string, avatarURL *string) error {
	return r.update(id, func(u *entity.User) {
		u.DisplayName = displayName
		u.AvatarURL = avatarURL
	})
}

func (r *memUsers) UpdatePreferences(ctx context.Context, id uuid.UUID, genreIDs []int, onboardingCompleted bool) error {
	return r.update(id, func(u *entity.User) {
		u.GenrePreferences = slices.Clone(genreIDs)
		u.OnboardingCompleted = u.OnboardingCompleted || onboardingCompleted
	})
}

func (r *memUsers) UpdateRole(ctx context.Context, id uuid.UUID, role entity.UserRole) error {
	return r.update(id, func(u *entity.User) { u.Role = role })
}

func (r *memUsers) MergePremiumBenefits(ctx context.Context, id uuid.UUID, benefits map[string]any) error {
	if err := r.s.failure("User.MergePremiumBenefits"); err != nil {
		return err
	}
	return r.update(id, func(u *entity.User) {
		merged := maps.Clone(u.PremiumBenefits)
		if merged == nil {
			merged = map[string]any{}
		}
		maps.Copy(merged, benefits)
		u.PremiumBenefits = merged
		u.IsPremium = true
	})
}

func (r *memUsers) Delete(ctx context.Context, id uuid.UUID) error {
	return r.update(id, func(u *entity.User) {
		now := time.Now()
		u.DeletedAt = &now
		u.IsActive = false
	})
}

type memSessions struct{ s *memStore }

func (r *memSessions) Create(ctx context.Context, session *entity.Session) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.sessions[session.Token] = *session
	return nil
}

func (r *memSessions) Resolve(ctx context.Context, token uuid.UUID) (*entity.Principal, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	sess, ok := r.s.sessions[token]
	if !ok || sess.RevokedAt != nil || !sess.ExpiresAt.After(time.Now()) {
		return nil, nil
	}
	u, ok := r.s.users[sess.UserID]
	if !ok || !u.IsActive || u.DeletedAt != nil {
		return nil, nil
	}
	return &entity.Principal{UserID: u.ID, Role: u.Role, Token: sess.Token, ExpiresAt: sess.ExpiresAt}, nil
}

func (r *memSessions) Revoke(ctx context.Context, token uuid.UUID) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	sess, ok := r.s.sessions[token]
	if !ok || sess.RevokedAt != nil {
		return false, nil
	}
	now := time.Now()
	sess.RevokedAt = &now
	r.s.sessions[token] = sess
	return true, nil
}

func (r *memSessions) RevokeForUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	now := time.Now()
	var n int64
	for token, sess := range r.s.sessions {
		if sess.UserID == userID && sess.RevokedAt == nil {
			sess.RevokedAt = &now
			r.s.sessions[token] = sess
			n++
		}
	}
	return n, nil
}

func (r *memSessions) Prune(ctx context.Context, retention time.Duration) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cutoff := time.Now().Add(-retention)
	var n int64
	for token, sess := range r.s.sessions {
		if sess.ExpiresAt.Before(cutoff) || (sess.RevokedAt != nil && sess.RevokedAt.Before(cutoff)) {
			delete(r.s.sessions, token)
			n++
		}
	}
	return n, nil
}

// ==================== LIBRARY ====================

type memLibrary struct {
	s    *memStore
	kind entity.ListKind
}

func (r *memLibrary) Toggle(ctx context.Context, item *entity.LibraryItem) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	key := itemKey{item.UserID, item.MovieID, item.MediaType}
	list := r.s.lists[r.kind]
	if _, ok := list[key]; ok {
		delete(list, key)
		return false, nil
	}
	list[key] = *item
	return true, nil
}

func (r *memLibrary) Exists(ctx context.Context, userID uuid.UUID, movieID int, mediaType entity.MediaType) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	_, ok := r.s.lists[r.kind][itemKey{userID, movieID, mediaType}]
	return ok, nil
}

func (r *memLibrary) items(userID uuid.UUID) []*entity.LibraryItem {
	var out []*entity.LibraryItem
	for _, item := range r.s.lists[r.kind] {
		if item.UserID == userID {
			out = append(out, &item)
		}
	}
	slices.SortFunc(out, func(a, b *entity.LibraryItem) int { return b.CreatedAt.Compare(a.CreatedAt) })
	return out
}

func (r *memLibrary) List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.LibraryItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return page(r.items(userID), limit, offset), nil
}

func (r *memLibrary) Count(ctx context.Context, userID uuid.UUID) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return int64(len(r.items(userID))), nil
}

func (r *memLibrary) Keys(ctx context.Context, userID uuid.UUID) ([]repository.TitleKey, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var keys []repository.TitleKey
	for k := range r.s.lists[r.kind] {
		if k.user == userID {
			keys = append(keys, repository.TitleKey{MovieID: k.movie, MediaType: k.media})
		}
	}
	return keys, nil
}

type memHistory struct{ s *memStore }

func (r *memHistory) Upsert(ctx context.Context, entry *entity.WatchHistory) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	key := itemKey{entry.UserID, entry.MovieID, entry.MediaType}
	if existing, ok := r.s.history[key]; ok {
		existing.WatchedAt = entry.WatchedAt
		existing.Title = entry.Title
		existing.PosterPath = entry.PosterPath
		r.s.history[key] = existing
		return nil
	}
	r.s.history[key] = *entry
	return nil
}

func (r *memHistory) entries(userID uuid.UUID) []*entity.WatchHistory {
	var out []*entity.WatchHistory
	for _, h := range r.s.history {
		if h.UserID == userID {
			out = append(out, &h)
		}
	}
	slices.SortFunc(out, func(a, b *entity.WatchHistory) int { return b.WatchedAt.Compare(a.WatchedAt) })
	return out
}

func (r *memHistory) List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.WatchHistory, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return page(r.entries(userID), limit, offset), nil
}

func (r *memHistory) Count(ctx context.Context, userID uuid.UUID) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return int64(len(r.entries(userID))), nil
}

func (r *memHistory) Clear(ctx context.Context, userID uuid.UUID) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for k := range r.s.history {
		if k.user == userID {
			delete(r.s.history, k)
			n++
		}
	}
	return n, nil
}

func (r *memHistory) Keys(ctx context.Context, userID uuid.UUID) ([]repository.TitleKey, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var keys []repository.TitleKey
	for k := range r.s.history {
		if k.user == userID {
			keys = append(keys, repository.TitleKey{MovieID: k.movie, MediaType: k.media})
		}
	}
	return keys, nil
}

// ==================== REVIEWS ====================

type memReviews struct{ s *memStore }

func (r *memReviews) Create(ctx context.Context, review *entity.Review) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.reviews {
		if existing.UserID == review.UserID && existing.MovieID == review.MovieID && existing.MediaType == review.MediaType {
			return errUnique
		}
	}
	r.s.reviews[review.ID] = *review
	return nil
}

func (r *memReviews) withAuthor(review entity.Review) *entity.Review {
	if u, ok := r.s.users[review.UserID]; ok {
		review.AuthorName = u.DisplayName
	}
	return &review
}

func (r *memReviews) FindByID(ctx context.Context, id uuid.UUID) (*entity.Review, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	review, ok := r.s.reviews[id]
	if !ok {
		return nil, nil
	}
	return r.withAuthor(review), nil
}

func (r *memReviews) FindByUserAndTitle(ctx context.Context, userID uuid.UUID, movieID int, mediaType entity.MediaType) (*entity.Review, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, review := range r.s.reviews {
		if review.UserID == userID && review.MovieID == movieID && review.MediaType == mediaType {
			return r.withAuthor(review), nil
		}
	}
	return nil, nil
}

func (r *memReviews) filter(keep func(entity.Review) bool) []*entity.Review {
	var out []*entity.Review
	for _, review := range r.s.reviews {
		if keep(review) {
			out = append(out, r.withAuthor(review))
		}
	}
	slices.SortFunc(out, func(a, b *entity.Review) int { return b.CreatedAt.Compare(a.CreatedAt) })
	return out
}

func titleFilter(movieID int, mediaType entity.MediaType) func(entity.Review) bool {
	return func(review entity.Review) bool {
		return review.MovieID == movieID && review.MediaType == mediaType && review.Status == entity.ReviewApproved
	}
}

func statusFilter(status entity.ReviewStatus) func(entity.Review) bool {
	return func(review entity.Review) bool {
		return status == "" || review.Status == status
	}
}

func (r *memReviews) ListByTitle(ctx context.Context, movieID int, mediaType entity.MediaType, limit, offset int) ([]*entity.Review, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return page(r.filter(titleFilter(movieID, mediaType)), limit, offset), nil
}

func (r *memReviews) CountByTitle(ctx context.Context, movieID int, mediaType entity.MediaType) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return int64(len(r.filter(titleFilter(movieID, mediaType)))), nil
}

func (r *memReviews) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Review, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return page(r.filter(func(review entity.Review) bool { return review.UserID == userID }), limit, offset), nil
}

func (r *memReviews) CountByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return int64(len(r.filter(func(review entity.Review) bool { return review.UserID == userID }))), nil
}

func (r *memReviews) ListByStatus(ctx context.Context, status entity.ReviewStatus, limit, offset int) ([]*entity.Review, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return page(r.filter(statusFilter(status)), limit, offset), nil
}

func (r *memReviews) CountByStatus(ctx context.Context, status entity.ReviewStatus) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return int64(len(r.filter(statusFilter(status)))), nil
}

func (r *memReviews) Update(ctx context.Context, review *entity.Review) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	existing, ok := r.s.reviews[review.ID]
	if !ok {
		return fmt.Errorf("review %s not found", review.ID)
	}
	existing.Rating = review.Rating
	existing.Content = review.Content
	existing.UpdatedAt = review.UpdatedAt
	r.s.reviews[review.ID] = existing
	return nil
}

func (r *memReviews) UpdateStatus(ctx context.Context, id uuid.UUID, status entity.ReviewStatus) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	existing, ok := r.s.reviews[id]
	if !ok {
		return fmt.Errorf("review %s not found", id)
	}
	existing.Status = status
	r.s.reviews[id] = existing
	return nil
}

func (r *memReviews) AdjustLikeCount(ctx context.Context, id uuid.UUID, delta int) (int, error) {
	if err := r.s.failure("Review.AdjustLikeCount"); err != nil {
		return 0, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	existing, ok := r.s.reviews[id]
	if !ok {
		return 0, fmt.Errorf("review %s not found", id)
	}
	existing.LikeCount = max(existing.LikeCount+delta, 0)
	r.s.reviews[id] = existing
	return existing.LikeCount, nil
}

func (r *memReviews) Delete(ctx context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.reviews[id]; !ok {
		return fmt.Errorf("review %s not found", id)
	}
	delete(r.s.reviews, id)
	for k := range r.s.likes {
		if k.b == id {
			delete(r.s.likes, k)
		}
	}
	return nil
}

func (r *memReviews) GetTitleStats(ctx context.Context, movieID int, mediaType entity.MediaType) (*entity.ReviewStats, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stats := &entity.ReviewStats{}
	sum := 0
	for _, review := range r.filter(titleFilter(movieID, mediaType)) {
		sum += review.Rating
		stats.Count++
	}
	if stats.Count > 0 {
		stats.Average = float64(sum) / float64(stats.Count)
	}
	return stats, nil
}

func (r *memReviews) CountGroupedByStatus(ctx context.Context) (map[entity.ReviewStatus]int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := map[entity.ReviewStatus]int64{}
	for _, review := range r.s.reviews {
		out[review.Status]++
	}
	return out, nil
}

type memLikes struct{ s *memStore }

func (r *memLikes) Create(ctx context.Context, like *entity.ReviewLike) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	key := likeKey{like.UserID, like.ReviewID}
	if _, ok := r.s.likes[key]; ok {
		return false, nil
	}
	r.s.likes[key] = *like
	return true, nil
}

func (r *memLikes) Delete(ctx context.Context, userID, reviewID uuid.UUID) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	key := likeKey{userID, reviewID}
	if _, ok := r.s.likes[key]; !ok {
		return false, nil
	}
	delete(r.s.likes, key)
	return true, nil
}

// ==================== GAMIFICATION ====================

type memAchievements struct{ s *memStore }

func (r *memAchievements) Unlock(ctx context.Context, a *entity.Achievement) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	key := achievementKey{a.UserID, a.Type}
	if _, ok := r.s.achievements[key]; ok {
		return false, nil
	}
	r.s.achievements[key] = *a
	return true, nil
}

func (r *memAchievements) ListByUser(ctx context.Context, userID uuid.UUID) ([]*entity.Achievement, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Achievement
	for _, a := range r.s.achievements {
		if a.UserID == userID {
			out = append(out, &a)
		}
	}
	slices.SortFunc(out, func(a, b *entity.Achievement) int { return strings.Compare(string(a.Type), string(b.Type)) })
	return out, nil
}

type memStreaks struct{ s *memStore }

func (r *memStreaks) FindByUser(ctx context.Context, userID uuid.UUID) (*entity.Streak, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	st, ok := r.s.streaks[userID]
	if !ok {
		return nil, nil
	}
	return &st, nil
}

func (r *memStreaks) FindByUserForUpdate(ctx context.Context, userID uuid.UUID) (*entity.Streak, error) {
	return r.FindByUser(ctx, userID)
}

func (r *memStreaks) Save(ctx context.Context, streak *entity.Streak) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.streaks[streak.UserID] = *streak
	return nil
}

// ==================== CREDITS ====================

type memCredits struct{ s *memStore }

func (r *memCredits) GetBalance(ctx context.Context, userID uuid.UUID) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.balances[userID], nil
}

func (r *memCredits) LockBalance(ctx context.Context, userID uuid.UUID) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.balances[userID]; !ok {
		r.s.balances[userID] = 0
	}
	return r.s.balances[userID], nil
}

func (r *memCredits) SetBalance(ctx context.Context, userID uuid.UUID, balance int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.balances[userID] = balance
	return nil
}

func (r *memCredits) CreateTransaction(ctx context.Context, tx *entity.CreditTransaction) error {
	if err := r.s.failure("Credit.CreateTransaction"); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.transactions = append(r.s.transactions, *tx)
	return nil
}

func (r *memCredits) userTransactions(userID uuid.UUID) []*entity.CreditTransaction {
	var out []*entity.CreditTransaction
	for i := len(r.s.transactions) - 1; i >= 0; i-- {
		if t := r.s.transactions[i]; t.UserID == userID {
			out = append(out, &t)
		}
	}
	return out
}

func (r *memCredits) ListTransactions(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.CreditTransaction, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return page(r.userTransactions(userID), limit, offset), nil
}

func (r *memCredits) CountTransactions(ctx context.Context, userID uuid.UUID) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return int64(len(r.userTransactions(userID))), nil
}

func (r *memCredits) SumIssued(ctx context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var sum int64
	for _, t := range r.s.transactions {
		if t.Type == entity.TransactionRedemption {
			sum += int64(t.Amount)
		}
	}
	return sum, nil
}

type memCodes struct{ s *memStore }

func (r *memCodes) Create(ctx context.Context, code *entity.RechargeCode) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, c := range r.s.codes {
		if c.Code == code.Code {
			return errUnique
		}
	}
	r.s.codes[code.ID] = *code
	return nil
}

func (r *memCodes) FindByCode(ctx context.Context, code string) (*entity.RechargeCode, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, c := range r.s.codes {
		if c.Code == code {
			return &c, nil
		}
	}
	return nil, nil
}

func (r *memCodes) FindByCodeForUpdate(ctx context.Context, code string) (*entity.RechargeCode, error) {
	return r.FindByCode(ctx, code)
}

func (r *memCodes) all() []*entity.RechargeCode {
	var out []*entity.RechargeCode
	for _, c := range r.s.codes {
		out = append(out, &c)
	}
	slices.SortFunc(out, func(a, b *entity.RechargeCode) int { return b.CreatedAt.Compare(a.CreatedAt) })
	return out
}

func (r *memCodes) FindAll(ctx context.Context, limit, offset int) ([]*entity.RechargeCode, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return page(r.all(), limit, offset), nil
}

func (r *memCodes) CountAll(ctx context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return int64(len(r.s.codes)), nil
}

func (r *memCodes) CountActive(ctx context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for _, c := range r.s.codes {
		if c.IsActive {
			n++
		}
	}
	return n, nil
}

func (r *memCodes) IncrementUses(ctx context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.codes[id]
	if !ok {
		return fmt.Errorf("recharge code %s not found", id)
	}
	c.CurrentUses++
	r.s.codes[id] = c
	return nil
}

func (r *memCodes) Deactivate(ctx context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.codes[id]
	if !ok {
		return fmt.Errorf("recharge code %s not found", id)
	}
	c.IsActive = false
	r.s.codes[id] = c
	return nil
}

type memRedemptions struct{ s *memStore }

func (r *memRedemptions) Exists(ctx context.Context, codeID, userID uuid.UUID) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	_, ok := r.s.redemptions[likeKey{codeID, userID}]
	return ok, nil
}

func (r *memRedemptions) Create(ctx context.Context, redemption *entity.CodeRedemption) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	key := likeKey{redemption.CodeID, redemption.UserID}
	if _, ok := r.s.redemptions[key]; ok {
		return errUnique
	}
	r.s.redemptions[key] = *redemption
	return nil
}

func (r *memRedemptions) CountAll(ctx context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return int64(len(r.s.redemptions)), nil
}

// ==================== CATALOG ====================

type fakeCatalog struct {
	mu       sync.Mutex
	discover map[int]*catalog.Page
	popular  map[int]*catalog.Page
	err      error
	purged   int64
	genreIDs []int
}

func (f *fakeCatalog) Trending(ctx context.Context, mediaType, window string, page int) (*catalog.Page, error) {
	return f.pageOrErr(f.popular, page)
}

func (f *fakeCatalog) List(ctx context.Context, mediaType, category string, page int) (*catalog.Page, error) {
	return f.pageOrErr(f.popular, page)
}

func (f *fakeCatalog) Genres(ctx context.Context, mediaType string) ([]catalog.Genre, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []catalog.Genre{{ID: 28, Name: "Action"}}, nil
}

func (f *fakeCatalog) Search(ctx context.Context, mediaType, query string, page int) (*catalog.Page, error) {
	return f.pageOrErr(f.popular, page)
}

func (f *fakeCatalog) Details(ctx context.Context, mediaType string, id int) (*catalog.Details, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &catalog.Details{ID: id}, nil
}

func (f *fakeCatalog) Videos(ctx context.Context, mediaType string, id int) ([]catalog.Video, error) {
	return nil, f.err
}

func (f *fakeCatalog) WatchProviders(ctx context.Context, mediaType string, id int) (map[string]catalog.RegionProviders, error) {
	return nil, f.err
}

func (f *fakeCatalog) Discover(ctx context.Context, mediaType string, genreIDs []int, sortBy string, page int) (*catalog.Page, error) {
	f.mu.Lock()
	f.genreIDs = genreIDs
	f.mu.Unlock()
	return f.pageOrErr(f.discover, page)
}

func (f *fakeCatalog) PurgeCache(ctx context.Context) (int64, error) {
	return f.purged, f.err
}

func (f *fakeCatalog) pageOrErr(pages map[int]*catalog.Page, page int) (*catalog.Page, error) {
	if f.err != nil {
		return nil, f.err
	}
	if p, ok := pages[page]; ok {
		return p, nil
	}
	return &catalog.Page{Page: page}, nil
}

func titlesPage(ids ...int) *catalog.Page {
	p := &catalog.Page{Page: 1}
	for _, id := range ids {
		p.Results = append(p.Results, catalog.Title{ID: id, Title: fmt.Sprintf("Title %d", id)})
	}
	return p
}
