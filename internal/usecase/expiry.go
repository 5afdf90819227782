package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"couponkeeper/internal/pkg/clock"
	"couponkeeper/internal/pkg/errs"
	"couponkeeper/internal/pkg/joblock"
	"couponkeeper/internal/pkg/mail"
	"couponkeeper/internal/usecase/readmodel"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

var ErrSweepAlreadyRunning = errors.New("daily expiry sweep is already running")

const sweepLockName = "daily-expiry"
const sweepLockTTL = 15 * time.Minute

// ExpiringCouponRepository is the slice of coupon persistence the sweep uses.
type ExpiringCouponRepository interface {
	BulkExpire(ctx context.Context, now time.Time) (int64, error)
	FindExpiringInWindow(ctx context.Context, groupIDs []uuid.UUID, from, to time.Time) ([]*readmodel.CouponRM, error)
}

type SweepResult struct {
	ExpiredUpdated int64 `json:"expiredUpdated"`
	EmailsSent     int64 `json:"emailsSent"`
}

type ExpiryUseCase interface {
	Run(ctx context.Context) (*SweepResult, error)
}

type expiryUseCaseImpl struct {
	couponRepo     ExpiringCouponRepository
	preferenceRepo PreferenceRepository
	groupRepo      GroupRepository
	mailer         mail.Mailer
	locker         joblock.Locker
	clock          clock.Clock
	concurrency    int
}

func NewExpiryUseCase(
	couponRepo ExpiringCouponRepository,
	preferenceRepo PreferenceRepository,
	groupRepo GroupRepository,
	mailer mail.Mailer,
	locker joblock.Locker,
	clock clock.Clock,
	concurrency int,
) ExpiryUseCase {
	if concurrency < 1 {
		concurrency = 1
	}
	return &expiryUseCaseImpl{
		couponRepo:     couponRepo,
		preferenceRepo: preferenceRepo,
		groupRepo:      groupRepo,
		mailer:         mailer,
		locker:         locker,
		clock:          clock,
		concurrency:    concurrency,
	}
}

// Run executes the daily sweep: one bulk conditional UPDATE moving overdue
// coupons to EXPIRED, then a digest email per user with expiring coupons in
// their configured day buckets. The expiry transition is idempotent; emails
// are best-effort, so overlapping runs are serialized by the job lock.
func (u *expiryUseCaseImpl) Run(ctx context.Context) (*SweepResult, error) {
	release, err := u.locker.Acquire(ctx, sweepLockName, sweepLockTTL)
	if err != nil {
		if errors.Is(err, joblock.ErrAlreadyLocked) {
			return nil, ErrSweepAlreadyRunning
		}
		return nil, errs.Wrap(err, "failed to acquire sweep lock")
	}
	defer release()

	now := u.clock.Now()

	expired, err := u.couponRepo.BulkExpire(ctx, now)
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	prefs, err := u.preferenceRepo.ListEnabled(ctx)
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	var sent atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(u.concurrency)
	for _, pref := range prefs {
		g.Go(func() error {
			if u.notifyUser(gctx, pref, now) {
				sent.Add(1)
			}
			return nil
		})
	}
	_ = g.Wait()

	slog.Info("daily expiry sweep finished", "expired", expired, "emails_sent", sent.Load())
	return &SweepResult{ExpiredUpdated: expired, EmailsSent: sent.Load()}, nil
}

// notifyUser builds and sends one digest for one user. Any failure is logged
// and skipped; a user's bad timezone or a dead mailbox never aborts the sweep.
func (u *expiryUseCaseImpl) notifyUser(ctx context.Context, pref *readmodel.EnabledPreferenceRM, now time.Time) bool {
	if !pref.EmailDigest {
		return false
	}

	groupIDs, err := u.groupRepo.ListActiveGroupIDs(ctx, pref.UserID)
	if err != nil {
		slog.Warn("sweep: failed to list user groups", "user_id", pref.UserID, "error", err)
		return false
	}
	if len(groupIDs) == 0 {
		return false
	}

	loc, err := time.LoadLocation(pref.Timezone)
	if err != nil {
		loc = time.UTC
	}

	// Union of day buckets, de-duplicated by coupon: a coupon landing in both
	// the 3-day and 7-day window appears once.
	byID := make(map[uuid.UUID]*readmodel.CouponRM)
	for _, days := range pref.DaysBefore {
		from, to := dayBucket(now, loc, days)
		coupons, err := u.couponRepo.FindExpiringInWindow(ctx, groupIDs, from, to)
		if err != nil {
			slog.Warn("sweep: failed to query expiring coupons",
				"user_id", pref.UserID, "days_before", days, "error", err)
			continue
		}
		for _, c := range coupons {
			byID[c.ID] = c
		}
	}
	if len(byID) == 0 {
		return false
	}

	subject, body := buildDigest(byID)
	if err := u.mailer.Send([]string{pref.Email}, subject, body); err != nil {
		slog.Warn("sweep: failed to send digest email", "user_id", pref.UserID, "error", err)
		return false
	}
	return true
}

// dayBucket returns the half-open interval covering the calendar day exactly
// daysBefore days from today, in the user's timezone.
func dayBucket(now time.Time, loc *time.Location, daysBefore int) (time.Time, time.Time) {
	local := now.In(loc)
	midnight := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	from := midnight.AddDate(0, 0, daysBefore)
	return from, from.AddDate(0, 0, 1)
}

func buildDigest(coupons map[uuid.UUID]*readmodel.CouponRM) (string, string) {
	items := make([]*readmodel.CouponRM, 0, len(coupons))
	for _, c := range coupons {
		items = append(items, c)
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].ExpiryDate.Equal(items[j].ExpiryDate) {
			return items[i].Title < items[j].Title
		}
		return items[i].ExpiryDate.Before(items[j].ExpiryDate)
	})

	var b strings.Builder
	b.WriteString("<p>The following coupons are about to expire:</p><ul>")
	for _, c := range items {
		fmt.Fprintf(&b, "<li><b>%s</b> expires %s, remaining %d.%02d %s</li>",
			c.Title, c.ExpiryDate.Format("2006-01-02"),
			c.RemainingAmountCents/100, c.RemainingAmountCents%100, c.Currency)
	}
	b.WriteString("</ul>")

	subject := fmt.Sprintf("%d coupon(s) expiring soon", len(items))
	return subject, b.String()
}
