package models

import (
	"context"
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"bitbucket.org/mmdatafocus/dashboard_backend/config"
	"bitbucket.org/mmdatafocus/dashboard_backend/utils"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type User struct {
	ID        uuid.UUID `gorm:"primary_key;size:36" json:"id"`
	Name      string    `gorm:"size:100;not null" json:"name" binding:"required"`
	Email     string    `gorm:"size:100;not null;unique" json:"email" binding:"required"`
	Password  string    `gorm:"size:255;not null" json:"password"`
	IsActive  *bool     `gorm:"not null;default:true" json:"is_active"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewUser struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// ErrCredentialsSignin marks an explicit credential mismatch, as opposed to
// an operational failure during sign-in.
var ErrCredentialsSignin = errors.New("CredentialsSignin")

type LoginInfo struct {
	Token string `json:"token"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (user *User) BeforeCreate(tx *gorm.DB) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	return nil
}

func (result *User) PrepareGive() {
	result.Password = ""
}

// SignIn checks the credentials and issues a session token.
// The token is stored in redis (Token:$token -> email) and added to the
// user's Tokens set so all sessions can be revoked together.
func SignIn(ctx context.Context, email string, password string) (*LoginInfo, error) {
	db := config.GetDB()
	email = strings.ToLower(strings.TrimSpace(email))

	user := User{}
	err := db.WithContext(ctx).Model(&User{}).Where("email = ?", email).Take(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCredentialsSignin
		}
		return nil, err
	}

	err = utils.ComparePassword(user.Password, password)
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, ErrCredentialsSignin
		}
		return nil, err
	}

	if user.IsActive != nil && !*user.IsActive {
		return nil, ErrCredentialsSignin
	}

	token := uuid.New()
	result := LoginInfo{
		Token: token.String(),
		Name:  user.Name,
		Email: user.Email,
	}

	tokenLifespan, err := strconv.Atoi(os.Getenv("TOKEN_HOUR_LIFESPAN"))
	if err != nil {
		tokenLifespan = 24
	}

	if err := config.AddRedisSet("Tokens:"+user.Email, token.String()); err != nil {
		return nil, err
	}
	if err := config.SetRedisValue("Token:"+token.String(), user.Email, time.Duration(tokenLifespan)*time.Hour); err != nil {
		return nil, err
	}

	return &result, nil
}

// destroy current session
func Logout(ctx context.Context) (bool, error) {
	token, ok := utils.GetTokenFromContext(ctx)
	if !ok || token == "" {
		return false, errors.New("token is required")
	}
	if err := config.RemoveRedisKey("Token:" + token); err != nil {
		return false, err
	}
	email, ok := utils.GetUsernameFromContext(ctx)
	if !ok || email == "" {
		return false, errors.New("user not found")
	}
	if err := config.RemoveRedisSetMember("Tokens:"+email, token); err != nil {
		return false, err
	}
	return true, nil
}

// LogoutAll revokes every session the current user holds. The Tokens:$email
// set tracks the live tokens; each one is deleted before it is dropped from
// the set. Returns the number of sessions revoked.
func LogoutAll(ctx context.Context) (int, error) {
	email, ok := utils.GetUsernameFromContext(ctx)
	if !ok || email == "" {
		return 0, errors.New("user not found")
	}

	tokens, err := config.GetRedisSetMembers("Tokens:" + email)
	if err != nil {
		return 0, err
	}
	for _, token := range tokens {
		if err := config.RemoveRedisKey("Token:" + token); err != nil {
			return 0, err
		}
		if err := config.RemoveRedisSetMember("Tokens:"+email, token); err != nil {
			return 0, err
		}
	}
	return len(tokens), nil
}

func CreateUser(ctx context.Context, input *NewUser) (*User, error) {
	db := config.GetDB()

	if !utils.IsValidEmail(input.Email) {
		return nil, errors.New("invalid email address")
	}

	var count int64
	err := db.WithContext(ctx).Model(&User{}).Where("email = ?", strings.ToLower(input.Email)).Count(&count).Error
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, errors.New("duplicate email")
	}

	hashedPassword, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := User{
		Name:     input.Name,
		Email:    strings.ToLower(input.Email),
		Password: string(hashedPassword),
		IsActive: utils.NewTrue(),
	}

	if err := db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, err
	}

	user.PrepareGive()
	return &user, nil
}
