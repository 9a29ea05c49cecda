package service

import (
	"errors"
	"strings"

	"github.com/socialnet/internal/db"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	minPasswordLength = 5
	// bcrypt only accepts up to 72 bytes of input.
	maxPasswordBytes = 72
)

// UserService handles accounts and profiles.
type UserService struct {
	db *gorm.DB
}

// RegisterInput represents fields accepted when registering.
type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Bio       string
}

// UserUpdate carries optional profile changes; nil fields are left untouched.
type UserUpdate struct {
	Email     *string
	Password  *string
	FirstName *string
	LastName  *string
	Bio       *string
}

// UserFilter describes the user search query. All fragments match
// case-insensitively; Name matches either first or last name.
type UserFilter struct {
	Name      string
	FirstName string
	LastName  string
}

// NewUserService creates a UserService instance.
func NewUserService(gdb *gorm.DB) *UserService {
	return &UserService{db: gdb}
}

// Register creates an account with a bcrypt hashed password.
func (s *UserService) Register(input RegisterInput) (*db.User, error) {
	email := db.NormalizeEmail(input.Email)
	if email == "" {
		return nil, ErrEmailRequired
	}
	hashed, err := hashPassword(input.Password)
	if err != nil {
		return nil, err
	}
	if err := s.ensureEmailFree(email, 0); err != nil {
		return nil, err
	}

	user := db.User{
		Email:     email,
		Password:  hashed,
		FirstName: sanitizePlain(input.FirstName),
		LastName:  sanitizePlain(input.LastName),
		Bio:       sanitizePlain(input.Bio),
	}
	if err := s.db.Create(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// Authenticate checks credentials and returns the matching user.
func (s *UserService) Authenticate(email, password string) (*db.User, error) {
	var user db.User
	if err := s.db.Where("email = ?", db.NormalizeEmail(email)).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return &user, nil
}

// Get fetches a user by id.
func (s *UserService) Get(actor Actor, id uint) (*db.User, error) {
	if err := Authorize(actor, ActionRead, nil); err != nil {
		return nil, err
	}
	return s.find(id)
}

// Exists reports whether a user with id exists. Used to resolve identities.
func (s *UserService) Exists(id uint) (bool, error) {
	var count int64
	if err := s.db.Model(&db.User{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Search lists users ordered by email.
func (s *UserService) Search(actor Actor, filter UserFilter) ([]db.User, error) {
	if err := Authorize(actor, ActionRead, nil); err != nil {
		return nil, err
	}

	query := s.db.Model(&db.User{})
	if name := strings.TrimSpace(filter.Name); name != "" {
		like := containsPattern(name)
		query = query.Where("LOWER(users.first_name) LIKE ? OR LOWER(users.last_name) LIKE ?", like, like)
	}
	if first := strings.TrimSpace(filter.FirstName); first != "" {
		query = query.Where("LOWER(users.first_name) LIKE ?", containsPattern(first))
	}
	if last := strings.TrimSpace(filter.LastName); last != "" {
		query = query.Where("LOWER(users.last_name) LIKE ?", containsPattern(last))
	}

	var users []db.User
	if err := query.Order("users.email asc").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// Update applies profile changes. Only the user may update itself.
func (s *UserService) Update(actor Actor, id uint, update UserUpdate) (*db.User, error) {
	if err := Authorize(actor, ActionUpdate, nil); err != nil {
		return nil, err
	}
	user, err := s.find(id)
	if err != nil {
		return nil, err
	}
	if err := Authorize(actor, ActionUpdate, user); err != nil {
		return nil, err
	}

	if update.Email != nil {
		email := db.NormalizeEmail(*update.Email)
		if email == "" {
			return nil, ErrEmailRequired
		}
		if err := s.ensureEmailFree(email, user.ID); err != nil {
			return nil, err
		}
		user.Email = email
	}
	if update.Password != nil && *update.Password != "" {
		hashed, err := hashPassword(*update.Password)
		if err != nil {
			return nil, err
		}
		user.Password = hashed
	}
	if update.FirstName != nil {
		user.FirstName = sanitizePlain(*update.FirstName)
	}
	if update.LastName != nil {
		user.LastName = sanitizePlain(*update.LastName)
	}
	if update.Bio != nil {
		user.Bio = sanitizePlain(*update.Bio)
	}

	if err := s.db.Save(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// Delete removes the user together with everything it owns.
func (s *UserService) Delete(actor Actor, id uint) error {
	if err := Authorize(actor, ActionDelete, nil); err != nil {
		return err
	}
	user, err := s.find(id)
	if err != nil {
		return err
	}
	if err := Authorize(actor, ActionDelete, user); err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		var postIDs []uint
		if err := tx.Model(&db.Post{}).Where("user_id = ?", user.ID).Pluck("id", &postIDs).Error; err != nil {
			return err
		}
		if err := deletePostRows(tx, postIDs); err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", user.ID).Delete(&db.Commentary{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", user.ID).Delete(&db.PostLike{}).Error; err != nil {
			return err
		}
		if err := tx.Where("follower_id = ? OR followed_id = ?", user.ID, user.ID).Delete(&db.Follow{}).Error; err != nil {
			return err
		}
		return tx.Delete(&db.User{}, user.ID).Error
	})
}

// SetProfilePicture stores the reference returned by the image store.
func (s *UserService) SetProfilePicture(userID uint, reference string) (*db.User, error) {
	user, err := s.find(userID)
	if err != nil {
		return nil, err
	}
	if err := s.db.Model(user).Update("profile_picture", reference).Error; err != nil {
		return nil, err
	}
	user.ProfilePicture = reference
	return user, nil
}

// FollowedIDs returns ids of the users that userID follows, in follow order.
func (s *UserService) FollowedIDs(userID uint) ([]uint, error) {
	var ids []uint
	if err := s.db.Model(&db.Follow{}).
		Where("follower_id = ?", userID).
		Order("id asc").
		Pluck("followed_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (s *UserService) find(id uint) (*db.User, error) {
	var user db.User
	if err := s.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (s *UserService) ensureEmailFree(email string, exceptID uint) error {
	var count int64
	query := s.db.Model(&db.User{}).Where("email = ?", email)
	if exceptID != 0 {
		query = query.Where("id <> ?", exceptID)
	}
	if err := query.Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrEmailTaken
	}
	return nil
}

func hashPassword(password string) (string, error) {
	if len([]rune(password)) < minPasswordLength {
		return "", ErrPasswordTooShort
	}
	if len(password) > maxPasswordBytes {
		return "", ErrPasswordTooLong
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

func containsPattern(fragment string) string {
	return "%" + strings.ToLower(fragment) + "%"
}
