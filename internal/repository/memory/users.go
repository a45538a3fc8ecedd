package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/Kartik1014/Rentit/internal/models"
	"github.com/Kartik1014/Rentit/internal/repository"
	"github.com/Kartik1014/Rentit/internal/types"
)

type userRepository struct {
	s *Store
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	defer r.s.lock()()
	data := r.s.st.data

	if err := r.checkUnique(user); err != nil {
		return err
	}

	now := r.s.st.now()
	user.ID = data.next("users")
	user.CreatedAt = now
	user.UpdatedAt = now
	data.users[user.ID] = cloneUser(*user)
	return nil
}

func (r *userRepository) checkUnique(user *models.User) error {
	for id, existing := range r.s.st.data.users {
		if id == user.ID {
			continue
		}
		if existing.Email == user.Email || existing.Username == user.Username {
			return repository.ErrDuplicate
		}
		if user.ResetPasswordToken != nil && existing.ResetPasswordToken != nil &&
			*user.ResetPasswordToken == *existing.ResetPasswordToken {
			return repository.ErrDuplicate
		}
	}
	return nil
}

func (r *userRepository) FindByID(ctx context.Context, id uint) (*models.User, error) {
	defer r.s.lock()()
	user, ok := r.s.st.data.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	u := cloneUser(user)
	return &u, nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.find(func(u models.User) bool { return u.Email == email })
}

func (r *userRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.find(func(u models.User) bool { return u.Username == username })
}

func (r *userRepository) FindByResetToken(ctx context.Context, token string) (*models.User, error) {
	return r.find(func(u models.User) bool {
		return u.ResetPasswordToken != nil && *u.ResetPasswordToken == token
	})
}

func (r *userRepository) find(match func(models.User) bool) (*models.User, error) {
	defer r.s.lock()()
	for _, user := range r.s.st.data.users {
		if match(user) {
			u := cloneUser(user)
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *userRepository) Save(ctx context.Context, user *models.User) error {
	defer r.s.lock()()
	data := r.s.st.data

	existing, ok := data.users[user.ID]
	if !ok {
		return repository.ErrNotFound
	}
	if err := r.checkUnique(user); err != nil {
		return err
	}

	user.CreatedAt = existing.CreatedAt
	user.UpdatedAt = r.s.st.now()
	data.users[user.ID] = cloneUser(*user)
	return nil
}

// Delete mirrors the ON DELETE CASCADE foreign keys of the SQL schema.
func (r *userRepository) Delete(ctx context.Context, id uint) error {
	defer r.s.lock()()
	data := r.s.st.data

	if _, ok := data.users[id]; !ok {
		return repository.ErrNotFound
	}
	delete(data.users, id)

	for pid, p := range data.properties {
		if p.OwnerID == id {
			delete(data.properties, pid)
		}
	}
	for bid, b := range data.bookings {
		_, propertyAlive := data.properties[b.PropertyID]
		if b.TenantID == id || b.OwnerID == id || !propertyAlive {
			delete(data.bookings, bid)
		}
	}
	for rid, rv := range data.reviews {
		_, propertyAlive := data.properties[rv.PropertyID]
		if rv.TenantID == id || !propertyAlive {
			delete(data.reviews, rid)
		}
	}
	return nil
}

func (r *userRepository) List(ctx context.Context, page types.PageRequest) ([]models.User, int64, error) {
	defer r.s.lock()()

	users := make([]models.User, 0, len(r.s.st.data.users))
	for _, u := range r.s.st.data.users {
		users = append(users, cloneUser(u))
	}

	column := sortColumn(page, "created_at", "username", "email")
	sort.Slice(users, func(i, j int) bool {
		a, b := users[i], users[j]
		var cmp int
		switch column {
		case "username":
			cmp = strings.Compare(a.Username, b.Username)
		case "email":
			cmp = strings.Compare(a.Email, b.Email)
		default:
			cmp = compareTime(a.CreatedAt, b.CreatedAt)
		}
		return ordered(cmp, a.ID, b.ID, page.Desc)
	})

	return paginate(users, page), int64(len(users)), nil
}

func (r *userRepository) CountByRole(ctx context.Context) (map[models.Role]int64, error) {
	defer r.s.lock()()
	counts := map[models.Role]int64{}
	for _, u := range r.s.st.data.users {
		counts[u.Role]++
	}
	return counts, nil
}
