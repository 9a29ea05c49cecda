package db

import (
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const maxSuperUserPasswordBytes = 72

// ErrSuperUserPasswordTooLong 表示管理员密码超出 bcrypt 的 72 字节上限。
var ErrSuperUserPasswordTooLong = errors.New("superuser password must be at most 72 bytes")

// User 定义了用户模型，以邮箱作为登录标识
type User struct {
	ID             uint   `gorm:"primaryKey"`
	Email          string `gorm:"size:254;uniqueIndex;not null"`
	FirstName      string `gorm:"size:150"`
	LastName       string `gorm:"size:150"`
	Password       string `gorm:"not null"`
	Bio            string
	ProfilePicture string
	IsStaff        bool `gorm:"default:false"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// OwnerKey 用户资源的所有者就是其本身。
func (u User) OwnerKey() uint {
	return u.ID
}

// FullName 返回 "名 姓" 形式的展示名称。
func (u User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// NormalizeEmail lowercases the domain part and trims whitespace.
func NormalizeEmail(email string) string {
	trimmed := strings.TrimSpace(email)
	at := strings.LastIndex(trimmed, "@")
	if at < 0 {
		return trimmed
	}
	return trimmed[:at] + strings.ToLower(trimmed[at:])
}

// EnsureSuperUser 存在性检查：若提供的邮箱与密码均非空且不存在对应账号，则创建一个 bcrypt 哈希的管理员。
func EnsureSuperUser(gdb *gorm.DB, email, password string) (bool, error) {
	trimmedEmail := NormalizeEmail(email)
	trimmedPassword := strings.TrimSpace(password)
	if trimmedEmail == "" || trimmedPassword == "" {
		return false, nil
	}
	if len(trimmedPassword) > maxSuperUserPasswordBytes {
		return false, ErrSuperUserPasswordTooLong
	}

	if gdb == nil {
		return false, errors.New("database not initialized")
	}

	var existing User
	if err := gdb.Where("email = ?", trimmedEmail).First(&existing).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return false, err
		}

		hashed, err := bcrypt.GenerateFromPassword([]byte(trimmedPassword), bcrypt.DefaultCost)
		if err != nil {
			return false, err
		}

		if err := gdb.Create(&User{Email: trimmedEmail, Password: string(hashed), IsStaff: true}).Error; err != nil {
			return false, err
		}
		return true, nil
	}

	return false, nil
}
