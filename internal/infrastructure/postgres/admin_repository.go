package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/bodega-bot/internal/domain"
	"github.com/jhoicas/bodega-bot/internal/domain/entity"
	"github.com/jhoicas/bodega-bot/internal/domain/repository"
)

var _ repository.AdminRepository = (*AdminRepo)(nil)

// AdminRepo implementación del puerto AdminRepository sobre PostgreSQL.
type AdminRepo struct {
	q Querier
}

// NewAdminRepository construye el adaptador de persistencia para admins.
func NewAdminRepository(q Querier) *AdminRepo {
	return &AdminRepo{q: q}
}

// Create registra un admin. Chat ID duplicado -> domain.ErrDuplicate.
func (r *AdminRepo) Create(admin *entity.Admin) error {
	query := `INSERT INTO admins (chat_id, name, added_at) VALUES ($1, $2, $3) RETURNING id`
	err := r.q.QueryRow(context.Background(), query,
		admin.ChatID, admin.Name, admin.AddedAt,
	).Scan(&admin.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert admin: %w", err)
	}
	return nil
}

// Ensure registra el admin si no existe; silencioso ante duplicados
// (se usa para sembrar superadmins en el arranque).
func (r *AdminRepo) Ensure(chatID int64, name *string) error {
	query := `INSERT INTO admins (chat_id, name, added_at) VALUES ($1, $2, $3)
		ON CONFLICT (chat_id) DO NOTHING`
	_, err := r.q.Exec(context.Background(), query, chatID, name, time.Now())
	if err != nil {
		return fmt.Errorf("ensure admin: %w", err)
	}
	return nil
}

// Exists verifica si el chat ID está en la lista de admins.
func (r *AdminRepo) Exists(chatID int64) (bool, error) {
	var one int
	err := r.q.QueryRow(context.Background(),
		`SELECT 1 FROM admins WHERE chat_id = $1 LIMIT 1`, chatID).Scan(&one)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("admin exists: %w", err)
	}
	return true, nil
}

// List lista los admins del más antiguo al más reciente.
func (r *AdminRepo) List() ([]*entity.Admin, error) {
	rows, err := r.q.Query(context.Background(),
		`SELECT id, chat_id, name, added_at FROM admins ORDER BY added_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("list admins: %w", err)
	}
	defer rows.Close()
	var list []*entity.Admin
	for rows.Next() {
		var a entity.Admin
		if err := rows.Scan(&a.ID, &a.ChatID, &a.Name, &a.AddedAt); err != nil {
			return nil, fmt.Errorf("scan admin: %w", err)
		}
		list = append(list, &a)
	}
	return list, rows.Err()
}

// Delete borra por chat ID. Devuelve false si no existía.
func (r *AdminRepo) Delete(chatID int64) (bool, error) {
	cmd, err := r.q.Exec(context.Background(), `DELETE FROM admins WHERE chat_id = $1`, chatID)
	if err != nil {
		return false, fmt.Errorf("delete admin: %w", err)
	}
	return cmd.RowsAffected() > 0, nil
}
