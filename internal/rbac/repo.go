package rbac

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/contentcreate/storefront-backend/pkg/db/models"
)

// Repository reads and writes the role and permission tables.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	FindUser(ctx context.Context, userID uuid.UUID) (*models.User, error)
	FindRoleByName(ctx context.Context, name string) (*models.Role, error)
	ListActiveAssignments(ctx context.Context, userID uuid.UUID) ([]models.RoleAssignment, error)
	FindAssignment(ctx context.Context, userID, roleID uuid.UUID) (*models.RoleAssignment, error)
	CreateAssignment(ctx context.Context, assignment *models.RoleAssignment) error
	SaveAssignment(ctx context.Context, assignment *models.RoleAssignment) error

	EnsurePermission(ctx context.Context, permission *models.Permission) error
	EnsureRole(ctx context.Context, role *models.Role) error
	ReplaceRoleGrants(ctx context.Context, role *models.Role, permissions []models.Permission) error
	FindPermissionsByName(ctx context.Context, names []string) ([]models.Permission, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a gorm-backed Repository.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	return &repository{db: tx}
}

func (r *repository) FindUser(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", userID).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *repository) FindRoleByName(ctx context.Context, name string) (*models.Role, error) {
	var role models.Role
	err := r.db.WithContext(ctx).
		Preload("Permissions").
		First(&role, "name = ?", name).Error
	if err != nil {
		return nil, err
	}
	return &role, nil
}

func (r *repository) ListActiveAssignments(ctx context.Context, userID uuid.UUID) ([]models.RoleAssignment, error) {
	var assignments []models.RoleAssignment
	err := r.db.WithContext(ctx).
		Preload("Role.Permissions").
		Where("user_id = ? AND is_active = ?", userID, true).
		Find(&assignments).Error
	if err != nil {
		return nil, err
	}
	return assignments, nil
}

func (r *repository) FindAssignment(ctx context.Context, userID, roleID uuid.UUID) (*models.RoleAssignment, error) {
	var assignment models.RoleAssignment
	err := r.db.WithContext(ctx).
		First(&assignment, "user_id = ? AND role_id = ?", userID, roleID).Error
	if err != nil {
		return nil, err
	}
	return &assignment, nil
}

func (r *repository) CreateAssignment(ctx context.Context, assignment *models.RoleAssignment) error {
	return r.db.WithContext(ctx).Create(assignment).Error
}

func (r *repository) SaveAssignment(ctx context.Context, assignment *models.RoleAssignment) error {
	return r.db.WithContext(ctx).Save(assignment).Error
}

func (r *repository) EnsurePermission(ctx context.Context, permission *models.Permission) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoNothing: true,
		}).
		Create(permission).Error
}

func (r *repository) EnsureRole(ctx context.Context, role *models.Role) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoNothing: true,
		}).
		Omit("Permissions").
		Create(role).Error
}

func (r *repository) ReplaceRoleGrants(ctx context.Context, role *models.Role, permissions []models.Permission) error {
	return r.db.WithContext(ctx).Model(role).Association("Permissions").Replace(permissions)
}

func (r *repository) FindPermissionsByName(ctx context.Context, names []string) ([]models.Permission, error) {
	var permissions []models.Permission
	err := r.db.WithContext(ctx).Where("name IN ?", names).Find(&permissions).Error
	if err != nil {
		return nil, err
	}
	return permissions, nil
}
