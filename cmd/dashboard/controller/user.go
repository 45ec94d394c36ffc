package controller

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/jinzhu/copier"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/gmboard/gmboard/model"
	"github.com/gmboard/gmboard/service/rbac"
	"github.com/gmboard/gmboard/service/singleton"
)

// List user
// @Summary List user
// @Security BearerAuth
// @Schemes
// @Description List user
// @Tags auth required
// @Produce json
// @Success 200 {object} model.CommonResponse[[]model.User]
// @Router /user [get]
func listUser(c *gin.Context) ([]*model.User, error) {
	var users []*model.User
	if err := singleton.DB.Order("id").Find(&users).Error; err != nil {
		return nil, newGormError("%v", err)
	}

	// 密码散列不进响应
	var out []*model.User
	if err := copier.Copy(&out, &users); err != nil {
		return nil, err
	}
	for _, u := range out {
		u.Password = ""
	}
	return out, nil
}

// Create user
// @Summary Create user
// @Security BearerAuth
// @Schemes
// @Description Create user
// @Tags auth required
// @Accept json
// @param request body model.UserForm true "User Request"
// @Produce json
// @Success 200 {object} model.CommonResponse[uint64]
// @Router /user [post]
func createUser(c *gin.Context) (uint64, error) {
	if _, err := requirePrivileged(c); err != nil {
		return 0, err
	}

	var uf model.UserForm
	if err := c.ShouldBindJSON(&uf); err != nil {
		return 0, err
	}
	if uf.Username == "" {
		return 0, errors.New("username can't be empty")
	}
	if len(uf.Password) < 6 {
		return 0, errors.New("password length must be greater than 6")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(uf.Password), bcrypt.DefaultCost)
	if err != nil {
		return 0, err
	}

	u := model.User{
		Username: uf.Username,
		Email:    uf.Email,
		Password: string(hash),
		Status:   uf.Status,
	}
	if u.Status == "" {
		u.Status = model.StatusActive
	}
	if err := singleton.DB.Create(&u).Error; err != nil {
		return 0, newGormError("%v", err)
	}
	return u.ID, nil
}

// Register
// @Summary Register a new account
// @Schemes
// @Description 开放注册，新账号没有任何角色，等管理员分配
// @Accept json
// @param request body model.RegisterRequest true "Register Request"
// @Produce json
// @Success 200 {object} model.CommonResponse[uint64]
// @Router /register [post]
func registerUser(c *gin.Context) (uint64, error) {
	var rr model.RegisterRequest
	if err := c.ShouldBindJSON(&rr); err != nil {
		return 0, err
	}
	if rr.Username == "" {
		return 0, errors.New("username can't be empty")
	}
	if len(rr.Password) < 6 {
		return 0, errors.New("password length must be greater than 6")
	}

	var count int64
	if err := singleton.DB.Model(&model.User{}).
		Where("username = ? OR email = ?", rr.Username, rr.Email).
		Count(&count).Error; err != nil {
		return 0, newGormError("%v", err)
	}
	if count > 0 {
		return 0, errors.New("username or email already taken")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(rr.Password), bcrypt.DefaultCost)
	if err != nil {
		return 0, err
	}

	u := model.User{
		Username: rr.Username,
		Email:    rr.Email,
		Password: string(hash),
		Status:   model.StatusActive,
	}
	if err := singleton.DB.Create(&u).Error; err != nil {
		return 0, newGormError("%v", err)
	}
	return u.ID, nil
}

// Get profile
// @Summary Get profile
// @Security BearerAuth
// @Schemes
// @Description 当前用户 + 角色 + 权限码
// @Tags auth required
// @Produce json
// @Success 200 {object} model.CommonResponse[model.Profile]
// @Router /profile [get]
func getProfile(c *gin.Context) (*model.Profile, error) {
	user, err := currentUser(c)
	if err != nil {
		return nil, err
	}

	role, err := rbac.UserRole(singleton.DB, user.ID)
	if err != nil {
		return nil, newGormError("%v", err)
	}
	perms, err := rbac.ResolvePermissions(singleton.DB, user.ID)
	if err != nil {
		return nil, newGormError("%v", err)
	}

	return &model.Profile{
		User:        *user,
		Role:        role,
		Permissions: perms,
	}, nil
}

// Update profile
// @Summary Update profile
// @Security BearerAuth
// @Schemes
// @Description 改用户名或密码，都要先验原密码
// @Tags auth required
// @Accept json
// @param request body model.ProfileForm true "Profile Form"
// @Produce json
// @Success 200 {object} model.CommonResponse[any]
// @Router /profile [post]
func updateProfile(c *gin.Context) (any, error) {
	user, err := currentUser(c)
	if err != nil {
		return nil, err
	}

	var pf model.ProfileForm
	if err := c.ShouldBindJSON(&pf); err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(pf.OriginalPassword)); err != nil {
		return nil, errors.New("incorrect original password")
	}

	if pf.NewUsername != "" {
		user.Username = pf.NewUsername
	}
	if pf.NewPassword != "" {
		if len(pf.NewPassword) < 6 {
			return nil, errors.New("password length must be greater than 6")
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(pf.NewPassword), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		user.Password = string(hash)
	}

	if err := singleton.DB.Save(user).Error; err != nil {
		return nil, newGormError("%v", err)
	}
	return nil, nil
}

// Batch delete users
// @Summary Batch delete users
// @Security BearerAuth
// @Schemes
// @Description Batch delete users
// @Tags auth required
// @Accept json
// @param request body []uint64 true "id list"
// @Produce json
// @Success 200 {object} model.CommonResponse[any]
// @Router /batch-delete/user [post]
func batchDeleteUser(c *gin.Context) (any, error) {
	admin, err := requirePrivileged(c)
	if err != nil {
		return nil, err
	}

	var ids []uint64
	if err := c.ShouldBindJSON(&ids); err != nil {
		return nil, err
	}
	for _, id := range ids {
		if id == admin.ID {
			return nil, errors.New("can't delete yourself")
		}
	}

	err = singleton.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Delete(&model.User{}, "id IN (?)", ids).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Delete(&model.UserRole{}, "user_id IN (?)", ids).Error; err != nil {
			return err
		}
		return tx.Unscoped().Delete(&model.StaffPermission{}, "user_id IN (?)", ids).Error
	})
	if err != nil {
		return nil, newGormError("%v", err)
	}
	return nil, nil
}
