// Package insights derives the read models served to dashboards: net
// worth, per-card credit status with pool-aware available credit, and
// due-date / utilization alerting. It never writes.
package insights

import (
	"context"
	"log/slog"
	"time"

	"github.com/aaveggupta/dhandiary/pkg/domain/account"
	"github.com/aaveggupta/dhandiary/pkg/domain/report"
	"github.com/aaveggupta/dhandiary/pkg/domain/schedule"
	"github.com/aaveggupta/dhandiary/pkg/dto"
	"github.com/aaveggupta/dhandiary/pkg/repository"
	accountsvc "github.com/aaveggupta/dhandiary/pkg/service/account"
	"github.com/google/uuid"
)

// DueSoonDays is the window within which an upcoming due date is
// surfaced on the dashboard.
const DueSoonDays = 7

// Service computes read-only aggregates over a user's accounts.
type Service struct {
	uow    repository.UnitOfWork
	logger *slog.Logger
	now    func() time.Time
}

// NewService creates an insights Service.
func NewService(uow repository.UnitOfWork, logger *slog.Logger) *Service {
	return &Service{uow: uow, logger: logger, now: time.Now}
}

// WithClock overrides the time source, for tests of due-date math.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// NetWorth returns the asset/liability partition across the user's
// active accounts.
func (s *Service) NetWorth(ctx context.Context, userID uuid.UUID) (*dto.NetWorthRead, error) {
	var accounts []*account.Account
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.AccountRepository()
		if err != nil {
			return err
		}
		accounts, err = repo.ListByUser(ctx, userID)
		return err
	})
	if err != nil {
		return nil, err
	}
	nw := report.CalculateNetWorth(accounts)
	return &dto.NetWorthRead{
		TotalAssets:      nw.TotalAssets,
		TotalLiabilities: nw.TotalLiabilities,
		NetWorth:         nw.NetWorth,
	}, nil
}

// CreditStatus returns the credit view of one account. For a pooled
// account, available credit and utilization come from the pool, read in
// the same snapshot as the account itself.
func (s *Service) CreditStatus(ctx context.Context, userID, accountID uuid.UUID) (*dto.CreditStatusRead, error) {
	var read *dto.CreditStatusRead
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		accRepo, err := uow.AccountRepository()
		if err != nil {
			return err
		}
		a, err := accRepo.Get(ctx, userID, accountID)
		if err != nil {
			return err
		}
		if !a.Type.IsCredit() {
			return account.ErrNotCreditAccount
		}
		read, err = s.creditStatus(ctx, uow, a)
		return err
	})
	if err != nil {
		return nil, err
	}
	return read, nil
}

// Dashboard assembles the home-screen read model in one unit of work,
// so every figure on it reflects the same snapshot.
func (s *Service) Dashboard(ctx context.Context, userID uuid.UUID) (*dto.DashboardRead, error) {
	var dash *dto.DashboardRead
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		accRepo, err := uow.AccountRepository()
		if err != nil {
			return err
		}
		accounts, err := accRepo.ListByUser(ctx, userID)
		if err != nil {
			return err
		}

		dash = &dto.DashboardRead{}
		nw := report.CalculateNetWorth(accounts)
		dash.NetWorth = dto.NetWorthRead{
			TotalAssets:      nw.TotalAssets,
			TotalLiabilities: nw.TotalLiabilities,
			NetWorth:         nw.NetWorth,
		}

		seenPools := map[uuid.UUID]bool{}
		for _, a := range accounts {
			if a.Archived {
				continue
			}
			dash.Accounts = append(dash.Accounts, accountsvc.MapAccountToRead(a))
			if !a.Type.IsCredit() {
				continue
			}
			status, err := s.creditStatus(ctx, uow, a)
			if err != nil {
				return err
			}
			dash.Credit = append(dash.Credit, status)
			if a.SharedLimitID != nil && !seenPools[*a.SharedLimitID] {
				seenPools[*a.SharedLimitID] = true
				pool, err := s.poolRead(ctx, uow, userID, *a.SharedLimitID)
				if err != nil {
					return err
				}
				dash.Pools = append(dash.Pools, pool)
			}
		}
		return nil
	})
	if err != nil {
		s.logger.Error("dashboard failed", "userID", userID, "error", err)
		return nil, err
	}
	return dash, nil
}

func (s *Service) creditStatus(ctx context.Context, uow repository.UnitOfWork, a *account.Account) (*dto.CreditStatusRead, error) {
	st := account.CreditCardStatus(a.Balance, a.CreditLimit)
	available := st.AvailableCredit
	utilization := st.Utilization

	if a.IsPooled() {
		pool, balances, err := s.poolSnapshot(ctx, uow, a.UserID, *a.SharedLimitID)
		if err != nil {
			return nil, err
		}
		available = account.AvailableCredit(a, pool.TotalLimit, balances)
		utilization = account.PoolStatus(pool.TotalLimit, balances).Utilization
	}

	threshold := a.AlertThreshold
	if !a.AlertEnabled {
		threshold = schedule.DefaultAlertThreshold
	}
	days := schedule.DaysUntilDue(a.DueDay, s.now())
	level := schedule.UtilizationStatus(utilization, threshold)

	return &dto.CreditStatusRead{
		AccountID:        a.ID,
		Name:             a.Name,
		Outstanding:      st.Outstanding,
		CreditBalance:    st.CreditBalance,
		HasCredit:        st.HasCredit,
		AvailableCredit:  available,
		Utilization:      utilization,
		UtilizationLevel: string(level),
		SharedLimitID:    a.SharedLimitID,
		DueDay:           a.DueDay,
		DaysUntilDue:     days,
		DueSoon:          days >= 0 && days <= DueSoonDays && st.Outstanding > 0,
	}, nil
}

func (s *Service) poolSnapshot(ctx context.Context, uow repository.UnitOfWork, userID, poolID uuid.UUID) (*account.SharedLimit, []float64, error) {
	limitRepo, err := uow.SharedLimitRepository()
	if err != nil {
		return nil, nil, err
	}
	pool, err := limitRepo.Get(ctx, userID, poolID)
	if err != nil {
		return nil, nil, err
	}
	accRepo, err := uow.AccountRepository()
	if err != nil {
		return nil, nil, err
	}
	members, err := accRepo.ListBySharedLimit(ctx, userID, poolID)
	if err != nil {
		return nil, nil, err
	}
	balances := make([]float64, 0, len(members))
	for _, m := range members {
		balances = append(balances, m.Balance)
	}
	return pool, balances, nil
}

func (s *Service) poolRead(ctx context.Context, uow repository.UnitOfWork, userID, poolID uuid.UUID) (*dto.SharedLimitRead, error) {
	pool, balances, err := s.poolSnapshot(ctx, uow, userID, poolID)
	if err != nil {
		return nil, err
	}
	accRepo, err := uow.AccountRepository()
	if err != nil {
		return nil, err
	}
	members, err := accRepo.ListBySharedLimit(ctx, userID, poolID)
	if err != nil {
		return nil, err
	}
	memberIDs := make([]uuid.UUID, 0, len(members))
	for _, m := range members {
		memberIDs = append(memberIDs, m.ID)
	}
	stats := account.PoolStatus(pool.TotalLimit, balances)
	return &dto.SharedLimitRead{
		ID:               pool.ID,
		Name:             pool.Name,
		TotalLimit:       pool.TotalLimit,
		Description:      pool.Description,
		MemberAccountIDs: memberIDs,
		TotalOutstanding: stats.TotalOutstanding,
		TotalCredits:     stats.TotalCredits,
		NetOutstanding:   stats.NetOutstanding,
		AvailableCredit:  stats.AvailableCredit,
		Utilization:      stats.Utilization,
		CreatedAt:        pool.CreatedAt,
	}, nil
}
