// Package account provides account, shared credit limit and category
// management. Balance mutations are deliberately absent: balances only
// change through the ledger service.
package account

import (
	"context"
	"log/slog"
	"time"

	"github.com/aaveggupta/dhandiary/pkg/domain/account"
	"github.com/aaveggupta/dhandiary/pkg/domain/category"
	"github.com/aaveggupta/dhandiary/pkg/dto"
	"github.com/aaveggupta/dhandiary/pkg/money"
	"github.com/aaveggupta/dhandiary/pkg/repository"
	"github.com/google/uuid"
)

// Service provides account management operations.
type Service struct {
	uow    repository.UnitOfWork
	logger *slog.Logger
}

// NewService creates an account Service.
func NewService(uow repository.UnitOfWork, logger *slog.Logger) *Service {
	return &Service{uow: uow, logger: logger}
}

// CreateAccount creates a new account for the user.
func (s *Service) CreateAccount(ctx context.Context, create dto.AccountCreate) (a *account.Account, err error) {
	logger := s.logger.With("op", "CreateAccount", "userID", create.UserID, "type", create.Type)

	builder := account.New().
		WithUserID(create.UserID).
		WithName(create.Name).
		WithType(account.Type(create.Type)).
		WithBalance(create.Balance).
		WithCurrency(create.Currency).
		WithCreditLimit(create.CreditLimit).
		WithBillingCycle(create.BillingDay, create.DueDay)
	if create.AlertEnabled {
		builder = builder.WithUtilizationAlert(create.AlertThreshold)
	}
	if create.SharedLimitID != nil {
		builder = builder.WithSharedLimit(*create.SharedLimitID)
	}

	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		a, err = builder.Build()
		if err != nil {
			return err
		}
		if a.SharedLimitID != nil {
			limitRepo, err := uow.SharedLimitRepository()
			if err != nil {
				return err
			}
			if _, err := limitRepo.Get(ctx, create.UserID, *a.SharedLimitID); err != nil {
				return err
			}
		}
		repo, err := uow.AccountRepository()
		if err != nil {
			return err
		}
		return repo.Create(ctx, a)
	})
	if err != nil {
		logger.Error("create failed", "error", err)
		return nil, err
	}
	logger.Info("account created", "accountID", a.ID)
	return a, nil
}

// GetAccount returns one account owned by the user.
func (s *Service) GetAccount(ctx context.Context, userID, id uuid.UUID) (*account.Account, error) {
	var a *account.Account
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.AccountRepository()
		if err != nil {
			return err
		}
		a, err = repo.Get(ctx, userID, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return a, nil
}

// ListAccounts returns all accounts owned by the user.
func (s *Service) ListAccounts(ctx context.Context, userID uuid.UUID) ([]*account.Account, error) {
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
	return accounts, nil
}

// UpdateAccount applies a partial metadata update. Linking to a shared
// credit limit requires a CREDIT account and an existing pool owned by
// the same user; while linked the account's own credit limit is ignored
// by all pool math but kept for when it unlinks.
func (s *Service) UpdateAccount(
	ctx context.Context,
	userID, id uuid.UUID,
	update dto.AccountUpdate,
) (a *account.Account, err error) {
	logger := s.logger.With("op", "UpdateAccount", "userID", userID, "accountID", id)

	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.AccountRepository()
		if err != nil {
			return err
		}
		a, err = repo.Get(ctx, userID, id)
		if err != nil {
			return err
		}

		if update.Name != nil {
			a.Name = *update.Name
		}
		if update.CreditLimit != nil {
			a.CreditLimit = money.RoundDefault(money.ToAmount(*update.CreditLimit))
		}
		if update.UnlinkShared {
			a.SharedLimitID = nil
		} else if update.SharedLimitID != nil {
			if !a.Type.IsCredit() {
				return account.ErrNotCreditAccount
			}
			limitRepo, err := uow.SharedLimitRepository()
			if err != nil {
				return err
			}
			if _, err := limitRepo.Get(ctx, userID, *update.SharedLimitID); err != nil {
				return err
			}
			a.SharedLimitID = update.SharedLimitID
		}
		if update.BillingDay != nil {
			a.BillingDay = *update.BillingDay
		}
		if update.DueDay != nil {
			a.DueDay = *update.DueDay
		}
		if update.AlertEnabled != nil {
			a.AlertEnabled = *update.AlertEnabled
		}
		if update.AlertThreshold != nil {
			a.AlertThreshold = *update.AlertThreshold
		}
		if update.Archived != nil {
			a.Archived = *update.Archived
		}
		a.UpdatedAt = time.Now()
		return repo.Update(ctx, a)
	})
	if err != nil {
		logger.Error("update failed", "error", err)
		return nil, err
	}
	logger.Info("account updated")
	return a, nil
}

// ArchiveAccount flags the account as archived, excluding it from net
// worth and dashboards. History is kept.
func (s *Service) ArchiveAccount(ctx context.Context, userID, id uuid.UUID) error {
	archived := true
	_, err := s.UpdateAccount(ctx, userID, id, dto.AccountUpdate{Archived: &archived})
	return err
}

// CreateSharedLimit creates a shared credit limit pool.
func (s *Service) CreateSharedLimit(ctx context.Context, create dto.SharedLimitCreate) (l *account.SharedLimit, err error) {
	l = &account.SharedLimit{
		ID:          uuid.New(),
		UserID:      create.UserID,
		Name:        create.Name,
		TotalLimit:  money.RoundDefault(money.ToAmount(create.TotalLimit)),
		Description: create.Description,
		CreatedAt:   time.Now(),
	}
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.SharedLimitRepository()
		if err != nil {
			return err
		}
		return repo.Create(ctx, l)
	})
	if err != nil {
		return nil, err
	}
	return l, nil
}

// UpdateSharedLimit applies a partial update to a pool.
func (s *Service) UpdateSharedLimit(
	ctx context.Context,
	userID, id uuid.UUID,
	update dto.SharedLimitUpdate,
) (l *account.SharedLimit, err error) {
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.SharedLimitRepository()
		if err != nil {
			return err
		}
		l, err = repo.Get(ctx, userID, id)
		if err != nil {
			return err
		}
		if update.Name != nil {
			l.Name = *update.Name
		}
		if update.TotalLimit != nil {
			l.TotalLimit = money.RoundDefault(money.ToAmount(*update.TotalLimit))
		}
		if update.Description != nil {
			l.Description = *update.Description
		}
		l.UpdatedAt = time.Now()
		return repo.Update(ctx, l)
	})
	if err != nil {
		return nil, err
	}
	return l, nil
}

// DeleteSharedLimit removes a pool after unlinking every member, which
// restores each member's own credit limit math.
func (s *Service) DeleteSharedLimit(ctx context.Context, userID, id uuid.UUID) error {
	return s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		limitRepo, err := uow.SharedLimitRepository()
		if err != nil {
			return err
		}
		l, err := limitRepo.Get(ctx, userID, id)
		if err != nil {
			return err
		}
		accRepo, err := uow.AccountRepository()
		if err != nil {
			return err
		}
		members, err := accRepo.ListBySharedLimit(ctx, userID, l.ID)
		if err != nil {
			return err
		}
		for _, m := range members {
			m.SharedLimitID = nil
			if err := accRepo.Update(ctx, m); err != nil {
				return err
			}
		}
		return limitRepo.Delete(ctx, l.ID)
	})
}

// GetSharedLimit returns a pool with its aggregates computed from the
// member balances read in the same snapshot.
func (s *Service) GetSharedLimit(ctx context.Context, userID, id uuid.UUID) (*dto.SharedLimitRead, error) {
	var read *dto.SharedLimitRead
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		var err error
		read, err = poolRead(ctx, uow, userID, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return read, nil
}

// poolRead assembles the pool read model from the given unit's session.
func poolRead(ctx context.Context, uow repository.UnitOfWork, userID, id uuid.UUID) (*dto.SharedLimitRead, error) {
	limitRepo, err := uow.SharedLimitRepository()
	if err != nil {
		return nil, err
	}
	l, err := limitRepo.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	accRepo, err := uow.AccountRepository()
	if err != nil {
		return nil, err
	}
	members, err := accRepo.ListBySharedLimit(ctx, userID, l.ID)
	if err != nil {
		return nil, err
	}
	balances := make([]float64, 0, len(members))
	memberIDs := make([]uuid.UUID, 0, len(members))
	for _, m := range members {
		balances = append(balances, m.Balance)
		memberIDs = append(memberIDs, m.ID)
	}
	stats := account.PoolStatus(l.TotalLimit, balances)
	return &dto.SharedLimitRead{
		ID:               l.ID,
		Name:             l.Name,
		TotalLimit:       l.TotalLimit,
		Description:      l.Description,
		MemberAccountIDs: memberIDs,
		TotalOutstanding: stats.TotalOutstanding,
		TotalCredits:     stats.TotalCredits,
		NetOutstanding:   stats.NetOutstanding,
		AvailableCredit:  stats.AvailableCredit,
		Utilization:      stats.Utilization,
		CreatedAt:        l.CreatedAt,
	}, nil
}

// ListSharedLimits returns every pool owned by the user, with aggregates.
func (s *Service) ListSharedLimits(ctx context.Context, userID uuid.UUID) ([]*dto.SharedLimitRead, error) {
	var reads []*dto.SharedLimitRead
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		limitRepo, err := uow.SharedLimitRepository()
		if err != nil {
			return err
		}
		limits, err := limitRepo.ListByUser(ctx, userID)
		if err != nil {
			return err
		}
		reads = make([]*dto.SharedLimitRead, 0, len(limits))
		for _, l := range limits {
			read, err := poolRead(ctx, uow, userID, l.ID)
			if err != nil {
				return err
			}
			reads = append(reads, read)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return reads, nil
}

// CreateCategory creates a transaction category.
func (s *Service) CreateCategory(ctx context.Context, userID uuid.UUID, name string, kind category.Kind, icon string) (c *category.Category, err error) {
	c = &category.Category{
		ID:        uuid.New(),
		UserID:    userID,
		Name:      name,
		Kind:      kind,
		Icon:      icon,
		CreatedAt: time.Now(),
	}
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.CategoryRepository()
		if err != nil {
			return err
		}
		return repo.Create(ctx, c)
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

// ListCategories returns the user's categories.
func (s *Service) ListCategories(ctx context.Context, userID uuid.UUID) ([]*category.Category, error) {
	var categories []*category.Category
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.CategoryRepository()
		if err != nil {
			return err
		}
		categories, err = repo.ListByUser(ctx, userID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return categories, nil
}

// MapAccountToRead maps a domain account to its read DTO.
func MapAccountToRead(a *account.Account) *dto.AccountRead {
	return &dto.AccountRead{
		ID:             a.ID,
		Name:           a.Name,
		Type:           string(a.Type),
		Balance:        a.Balance,
		Currency:       a.Currency,
		CreditLimit:    a.CreditLimit,
		SharedLimitID:  a.SharedLimitID,
		BillingDay:     a.BillingDay,
		DueDay:         a.DueDay,
		AlertEnabled:   a.AlertEnabled,
		AlertThreshold: a.AlertThreshold,
		Archived:       a.Archived,
		CreatedAt:      a.CreatedAt,
	}
}
