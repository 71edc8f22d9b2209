package users

import (
	"context"

	"github.com/google/uuid"

	"github.com/contentcreate/storefront-backend/pkg/db"
	"github.com/contentcreate/storefront-backend/pkg/enums"
	pkgerrors "github.com/contentcreate/storefront-backend/pkg/errors"
)

// Service exposes profile and seller-programme operations.
type Service interface {
	Profile(ctx context.Context, userID uuid.UUID) (*UserDTO, error)
	ApplyForSeller(ctx context.Context, userID uuid.UUID) (*UserDTO, error)
	SetSellerStatus(ctx context.Context, userID uuid.UUID, status enums.SellerStatus) (*UserDTO, error)
	List(ctx context.Context, limit, offset int) ([]UserDTO, error)
}

type service struct {
	repo *Repository
}

// NewService wires the users service.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "users repository is required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Profile(ctx context.Context, userID uuid.UUID) (*UserDTO, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load user")
	}
	return FromModel(user), nil
}

func (s *service) ApplyForSeller(ctx context.Context, userID uuid.UUID) (*UserDTO, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load user")
	}
	switch user.SellerStatus {
	case enums.SellerStatusPending, enums.SellerStatusApproved:
		return FromModel(user), nil
	case enums.SellerStatusSuspended:
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "seller account is suspended")
	}
	user.SellerStatus = enums.SellerStatusPending
	if err := s.repo.Save(ctx, user); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "save seller application")
	}
	return FromModel(user), nil
}

func (s *service) SetSellerStatus(ctx context.Context, userID uuid.UUID, status enums.SellerStatus) (*UserDTO, error) {
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid seller status")
	}
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load user")
	}
	user.SellerStatus = status
	user.IsSeller = status == enums.SellerStatusApproved
	if err := s.repo.Save(ctx, user); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "save seller status")
	}
	return FromModel(user), nil
}

func (s *service) List(ctx context.Context, limit, offset int) ([]UserDTO, error) {
	if limit <= 0 || limit > 100 {
		limit = 25
	}
	if offset < 0 {
		offset = 0
	}
	rows, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list users")
	}
	out := make([]UserDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out, nil
}
