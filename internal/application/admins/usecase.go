// Package admins resuelve el control de acceso del bot: lista persistida de
// admins más el conjunto de superadmins que viene de configuración. Solo los
// superadmins pueden alterar la lista; quitar a un admin surte efecto en su
// siguiente mensaje porque el acceso se verifica en cada evento.
package admins

import (
	"time"

	"github.com/jhoicas/bodega-bot/internal/domain"
	"github.com/jhoicas/bodega-bot/internal/domain/entity"
	"github.com/jhoicas/bodega-bot/internal/domain/repository"
)

// UseCase gestiona la lista de admins.
type UseCase struct {
	repo        repository.AdminRepository
	superAdmins map[int64]struct{}
}

// NewUseCase construye el caso de uso con los superadmins de configuración.
func NewUseCase(repo repository.AdminRepository, superAdmins []int64) *UseCase {
	set := make(map[int64]struct{}, len(superAdmins))
	for _, id := range superAdmins {
		set[id] = struct{}{}
	}
	return &UseCase{repo: repo, superAdmins: set}
}

// IsAdmin indica si el chat ID tiene acceso al bot. Ante error de consulta se
// niega el acceso (fail closed) y el error se devuelve para log.
func (uc *UseCase) IsAdmin(chatID int64) (bool, error) {
	return uc.repo.Exists(chatID)
}

// IsSuperAdmin indica si el chat ID está en el conjunto de superadmins (configuración, no BD).
func (uc *UseCase) IsSuperAdmin(chatID int64) bool {
	_, ok := uc.superAdmins[chatID]
	return ok
}

// Add registra un admin nuevo; duplicado -> domain.ErrDuplicate.
func (uc *UseCase) Add(chatID int64, name *string) error {
	return uc.repo.Create(&entity.Admin{ChatID: chatID, Name: name, AddedAt: time.Now()})
}

// Remove quita un admin de la lista; inexistente -> domain.ErrNotFound.
func (uc *UseCase) Remove(chatID int64) error {
	ok, err := uc.repo.Delete(chatID)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrNotFound
	}
	return nil
}

// List devuelve la lista persistida de admins.
func (uc *UseCase) List() ([]*entity.Admin, error) {
	return uc.repo.List()
}

// EnsureSuperAdmins siembra los superadmins de configuración como filas de
// admin en el arranque (idempotente).
func (uc *UseCase) EnsureSuperAdmins() error {
	name := "superadmin"
	for id := range uc.superAdmins {
		if err := uc.repo.Ensure(id, &name); err != nil {
			return err
		}
	}
	return nil
}
