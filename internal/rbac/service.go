package rbac

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/contentcreate/storefront-backend/pkg/db"
	"github.com/contentcreate/storefront-backend/pkg/db/models"
	"github.com/contentcreate/storefront-backend/pkg/enums"
	pkgerrors "github.com/contentcreate/storefront-backend/pkg/errors"
	"github.com/contentcreate/storefront-backend/pkg/logger"
)

// Role names installed by Bootstrap.
const (
	RoleSuperAdmin       = "super_admin"
	RoleCustomerSupport  = "customer_support"
	RoleFinanceManager   = "finance_manager"
	RoleProductModerator = "product_moderator"
	RoleSeller           = "seller"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service resolves effective permissions. The legacy scalar role on the
// user row and the assignment tables are both consulted, neither replaces
// the other.
type Service interface {
	HasPermission(ctx context.Context, userID uuid.UUID, permission string) (bool, error)
	HasRole(ctx context.Context, userID uuid.UUID, role string) (bool, error)
	IsAdmin(ctx context.Context, userID uuid.UUID) (bool, error)
	ActiveRoles(ctx context.Context, userID uuid.UUID) ([]models.Role, error)
	AssignRole(ctx context.Context, userID uuid.UUID, roleName string, assignedBy *uuid.UUID) error
	RevokeRole(ctx context.Context, userID uuid.UUID, roleName string) error
	Bootstrap(ctx context.Context) error
}

type service struct {
	repo Repository
	tx   txRunner
	logg *logger.Logger
}

// NewService wires the resolver.
func NewService(repo Repository, tx txRunner, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "rbac repository is required")
	}
	if tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "transaction runner is required")
	}
	if logg == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "logger is required")
	}
	return &service{repo: repo, tx: tx, logg: logg}, nil
}

func (s *service) HasPermission(ctx context.Context, userID uuid.UUID, permission string) (bool, error) {
	permission = strings.TrimSpace(permission)
	if permission == "" {
		return false, pkgerrors.New(pkgerrors.CodeValidation, "permission name is required")
	}

	assignments, err := s.repo.ListActiveAssignments(ctx, userID)
	if err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list role assignments")
	}
	for _, assignment := range assignments {
		if assignment.Role == nil {
			continue
		}
		for _, grant := range assignment.Role.Permissions {
			if grant.Name == permission {
				return true, nil
			}
		}
	}
	return false, nil
}

func (s *service) HasRole(ctx context.Context, userID uuid.UUID, role string) (bool, error) {
	role = strings.TrimSpace(role)
	if role == "" {
		return false, pkgerrors.New(pkgerrors.CodeValidation, "role name is required")
	}

	assignments, err := s.repo.ListActiveAssignments(ctx, userID)
	if err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list role assignments")
	}
	for _, assignment := range assignments {
		if assignment.Role != nil && assignment.Role.Name == role {
			return true, nil
		}
	}
	return false, nil
}

// IsAdmin checks both the legacy scalar role and the super_admin role
// assignment. Accounts created before the assignment tables existed only
// carry the scalar.
func (s *service) IsAdmin(ctx context.Context, userID uuid.UUID) (bool, error) {
	user, err := s.repo.FindUser(ctx, userID)
	if err != nil {
		if db.IsNotFound(err) {
			return false, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return false, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load user")
	}
	if user.Role == enums.LegacyRoleAdmin {
		return true, nil
	}
	return s.HasRole(ctx, userID, RoleSuperAdmin)
}

func (s *service) ActiveRoles(ctx context.Context, userID uuid.UUID) ([]models.Role, error) {
	assignments, err := s.repo.ListActiveAssignments(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list role assignments")
	}
	roles := make([]models.Role, 0, len(assignments))
	for _, assignment := range assignments {
		if assignment.Role != nil {
			roles = append(roles, *assignment.Role)
		}
	}
	return roles, nil
}

func (s *service) AssignRole(ctx context.Context, userID uuid.UUID, roleName string, assignedBy *uuid.UUID) error {
	role, err := s.repo.FindRoleByName(ctx, strings.TrimSpace(roleName))
	if err != nil {
		if db.IsNotFound(err) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "role not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load role")
	}
	if _, err := s.repo.FindUser(ctx, userID); err != nil {
		if db.IsNotFound(err) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load user")
	}

	existing, err := s.repo.FindAssignment(ctx, userID, role.ID)
	if err != nil && !db.IsNotFound(err) {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load assignment")
	}
	if existing != nil {
		if existing.IsActive {
			return nil
		}
		// revoked earlier, reactivate the same row
		existing.IsActive = true
		existing.AssignedBy = assignedBy
		if err := s.repo.SaveAssignment(ctx, existing); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reactivate assignment")
		}
		return nil
	}

	assignment := &models.RoleAssignment{
		UserID:     userID,
		RoleID:     role.ID,
		AssignedBy: assignedBy,
		IsActive:   true,
	}
	if err := s.repo.CreateAssignment(ctx, assignment); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create assignment")
	}
	return nil
}

// RevokeRole flips the assignment inactive. The row stays for audit.
func (s *service) RevokeRole(ctx context.Context, userID uuid.UUID, roleName string) error {
	role, err := s.repo.FindRoleByName(ctx, strings.TrimSpace(roleName))
	if err != nil {
		if db.IsNotFound(err) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "role not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load role")
	}
	assignment, err := s.repo.FindAssignment(ctx, userID, role.ID)
	if err != nil {
		if db.IsNotFound(err) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "role assignment not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load assignment")
	}
	if !assignment.IsActive {
		return nil
	}
	assignment.IsActive = false
	if err := s.repo.SaveAssignment(ctx, assignment); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "revoke assignment")
	}
	return nil
}

// permissionSpec is one resource/action pair installed at bootstrap.
type permissionSpec struct {
	resource string
	action   string
}

func (p permissionSpec) name() string {
	return p.resource + "_" + p.action
}

var bootstrapPermissions = []permissionSpec{
	{"product", "create"}, {"product", "read"}, {"product", "update"}, {"product", "delete"}, {"product", "approve"},
	{"inventory", "read"}, {"inventory", "adjust"},
	{"order", "read"}, {"order", "update"}, {"order", "cancel"},
	{"purchase_order", "create"}, {"purchase_order", "read"}, {"purchase_order", "update"}, {"purchase_order", "receive"}, {"purchase_order", "cancel"},
	{"supplier", "create"}, {"supplier", "read"}, {"supplier", "update"}, {"supplier", "delete"},
	{"promotion", "create"}, {"promotion", "read"}, {"promotion", "update"}, {"promotion", "delete"},
	{"slide", "create"}, {"slide", "read"}, {"slide", "update"}, {"slide", "delete"},
	{"user", "read"}, {"user", "update"},
	{"role", "assign"}, {"role", "revoke"},
}

var bootstrapRoles = map[string][]string{
	RoleSuperAdmin: nil, // nil means every permission
	RoleCustomerSupport: {
		"order_read", "order_update", "order_cancel", "user_read",
	},
	RoleFinanceManager: {
		"order_read", "purchase_order_create", "purchase_order_read",
		"purchase_order_update", "purchase_order_receive", "purchase_order_cancel",
		"supplier_create", "supplier_read", "supplier_update", "supplier_delete",
	},
	RoleProductModerator: {
		"product_read", "product_update", "product_approve",
		"promotion_create", "promotion_read", "promotion_update", "promotion_delete",
		"slide_create", "slide_read", "slide_update", "slide_delete",
	},
	RoleSeller: {
		"product_create", "product_read", "product_update", "inventory_read",
	},
}

// Bootstrap installs the permission matrix and the built-in roles.
// Everything is create-if-absent so rerunning it is a no-op.
func (s *service) Bootstrap(ctx context.Context) error {
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		allNames := make([]string, 0, len(bootstrapPermissions))
		for _, spec := range bootstrapPermissions {
			allNames = append(allNames, spec.name())
			description := spec.action + " " + strings.ReplaceAll(spec.resource, "_", " ")
			if err := repo.EnsurePermission(ctx, &models.Permission{
				Name:        spec.name(),
				Description: &description,
				Resource:    spec.resource,
				Action:      spec.action,
			}); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "install permission")
			}
		}

		for roleName, grants := range bootstrapRoles {
			if err := repo.EnsureRole(ctx, &models.Role{Name: roleName}); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "install role")
			}
			role, err := repo.FindRoleByName(ctx, roleName)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load installed role")
			}
			names := grants
			if names == nil {
				names = allNames
			}
			permissions, err := repo.FindPermissionsByName(ctx, names)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load grants")
			}
			if len(permissions) != len(names) {
				return pkgerrors.New(pkgerrors.CodeInternal, "bootstrap grant references unknown permission")
			}
			if err := repo.ReplaceRoleGrants(ctx, role, permissions); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "grant permissions")
			}
		}

		infoCtx := s.logg.WithFields(ctx, map[string]any{
			"permissions": len(bootstrapPermissions),
			"roles":       len(bootstrapRoles),
		})
		s.logg.Info(infoCtx, "rbac bootstrap complete")
		return nil
	})
}
