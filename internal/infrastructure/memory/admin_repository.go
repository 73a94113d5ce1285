package memory

import (
	"sort"

	"github.com/jhoicas/bodega-bot/internal/domain"
	"github.com/jhoicas/bodega-bot/internal/domain/entity"
	"github.com/jhoicas/bodega-bot/internal/domain/repository"
)

// AdminRepo implementa repository.AdminRepository sobre el Store.
type AdminRepo struct {
	s *Store
}

var _ repository.AdminRepository = (*AdminRepo)(nil)

func (r *AdminRepo) Create(admin *entity.Admin) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.admins[admin.ChatID]; ok {
		return domain.ErrDuplicate
	}
	c := *admin
	r.s.admins[admin.ChatID] = &c
	return nil
}

func (r *AdminRepo) Ensure(chatID int64, name *string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.admins[chatID]; ok {
		return nil
	}
	r.s.admins[chatID] = &entity.Admin{ChatID: chatID, Name: name}
	return nil
}

func (r *AdminRepo) Exists(chatID int64) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	_, ok := r.s.admins[chatID]
	return ok, nil
}

func (r *AdminRepo) List() ([]*entity.Admin, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	out := make([]*entity.Admin, 0, len(r.s.admins))
	for _, a := range r.s.admins {
		c := *a
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ChatID < out[j].ChatID })
	return out, nil
}

func (r *AdminRepo) Delete(chatID int64) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.admins[chatID]; !ok {
		return false, nil
	}
	delete(r.s.admins, chatID)
	return true, nil
}
