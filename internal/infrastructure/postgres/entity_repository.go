package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/entity-registry/internal/domain"
	"github.com/jhoicas/entity-registry/internal/domain/entity"
	"github.com/jhoicas/entity-registry/internal/domain/repository"
)

var _ repository.EntityRepository = (*EntityRepo)(nil)

const selectEntity = `
	SELECT id, name, pan, gst, phone, address, district, created_at
	FROM user_details`

// EntityRepo implementación del puerto EntityRepository sobre PostgreSQL
// (tablas user_details y managers).
type EntityRepo struct {
	pool *pgxpool.Pool
	tx   *TxRunner
}

// NewEntityRepository construye el adaptador de persistencia para entidades.
func NewEntityRepository(pool *pgxpool.Pool) *EntityRepo {
	return &EntityRepo{pool: pool, tx: NewTxRunner(pool)}
}

// Create inserta la entidad y sus encargados completos en una transacción.
func (r *EntityRepo) Create(ctx context.Context, in entity.EntityInput) (*entity.Entity, error) {
	var out *entity.Entity
	err := r.tx.Run(ctx, func(q Querier) error {
		query := `
			INSERT INTO user_details (name, pan, gst, phone, address, district)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id, created_at`
		var e entity.Entity
		if err := q.QueryRow(ctx, query, in.Name, in.PAN, in.GST, in.Phone, in.Address, in.District).
			Scan(&e.ID, &e.CreatedAt.Time); err != nil {
			return fmt.Errorf("insert user_details: %w", err)
		}
		created := entity.New(e.ID, in, e.CreatedAt.UTC())
		if err := insertManagers(ctx, q, created.ID, created.Managers); err != nil {
			return err
		}
		out = created
		return nil
	})
	if err != nil {
		return nil, storageError("create", err)
	}
	return out, nil
}

// List devuelve las entidades más recientes primero, con sus encargados en orden.
func (r *EntityRepo) List(ctx context.Context) ([]*entity.Entity, error) {
	rows, err := r.pool.Query(ctx, selectEntity+` ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, storageError("list", fmt.Errorf("list user_details: %w", err))
	}
	list, err := scanEntities(rows)
	if err != nil {
		return nil, storageError("list", err)
	}
	if len(list) == 0 {
		return list, nil
	}

	byID := make(map[int64]*entity.Entity, len(list))
	ids := make([]int64, 0, len(list))
	for _, e := range list {
		byID[e.ID] = e
		ids = append(ids, e.ID)
	}
	mrows, err := r.pool.Query(ctx, `
		SELECT user_detail_id, name, phone FROM managers
		WHERE user_detail_id = ANY($1) ORDER BY user_detail_id, position`, ids)
	if err != nil {
		return nil, storageError("list", fmt.Errorf("list managers: %w", err))
	}
	defer mrows.Close()
	for mrows.Next() {
		var id int64
		var m entity.Manager
		if err := mrows.Scan(&id, &m.Name, &m.Phone); err != nil {
			return nil, storageError("list", fmt.Errorf("scan manager: %w", err))
		}
		if e, ok := byID[id]; ok {
			e.Managers = append(e.Managers, m)
		}
	}
	if err := mrows.Err(); err != nil {
		return nil, storageError("list", err)
	}
	return list, nil
}

// GetByID obtiene una entidad por ID. Devuelve (nil, nil) si no existe.
func (r *EntityRepo) GetByID(ctx context.Context, id int64) (*entity.Entity, error) {
	e, err := getByID(ctx, r.pool, id, false)
	if err != nil {
		return nil, storageError("get", err)
	}
	return e, nil
}

// Update aplica el patch sobre la fila bloqueada. Si el patch trae encargados, se reemplazan.
func (r *EntityRepo) Update(ctx context.Context, id int64, patch entity.EntityPatch) error {
	err := r.tx.Run(ctx, func(q Querier) error {
		e, err := getByID(ctx, q, id, true)
		if err != nil {
			return err
		}
		if e == nil {
			return domain.ErrNotFound
		}
		e.Apply(patch)
		query := `
			UPDATE user_details SET name = $2, pan = $3, gst = $4, phone = $5, address = $6, district = $7
			WHERE id = $1`
		if _, err := q.Exec(ctx, query, id, e.Name, e.PAN, e.GST, e.Phone, e.Address, e.District); err != nil {
			return fmt.Errorf("update user_details: %w", err)
		}
		if patch.Managers == nil {
			return nil
		}
		if _, err := q.Exec(ctx, `DELETE FROM managers WHERE user_detail_id = $1`, id); err != nil {
			return fmt.Errorf("delete managers: %w", err)
		}
		return insertManagers(ctx, q, id, e.Managers)
	})
	return storageError("update", err)
}

// Delete elimina la entidad; los encargados caen en cascada. Un id inexistente no es error.
func (r *EntityRepo) Delete(ctx context.Context, id int64) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM user_details WHERE id = $1`, id); err != nil {
		return storageError("delete", fmt.Errorf("delete user_details: %w", err))
	}
	return nil
}

func getByID(ctx context.Context, q Querier, id int64, forUpdate bool) (*entity.Entity, error) {
	query := selectEntity + ` WHERE id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	e, err := scanEntity(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user_details: %w", err)
	}
	rows, err := q.Query(ctx, `SELECT name, phone FROM managers WHERE user_detail_id = $1 ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("get managers: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var m entity.Manager
		if err := rows.Scan(&m.Name, &m.Phone); err != nil {
			return nil, fmt.Errorf("scan manager: %w", err)
		}
		e.Managers = append(e.Managers, m)
	}
	return e, rows.Err()
}

func insertManagers(ctx context.Context, q Querier, id int64, managers []entity.Manager) error {
	for i, m := range managers {
		_, err := q.Exec(ctx,
			`INSERT INTO managers (user_detail_id, position, name, phone) VALUES ($1, $2, $3, $4)`,
			id, i, m.Name, m.Phone)
		if err != nil {
			return fmt.Errorf("insert manager %d: %w", i, err)
		}
	}
	return nil
}

func scanEntity(row pgx.Row) (*entity.Entity, error) {
	var e entity.Entity
	if err := row.Scan(&e.ID, &e.Name, &e.PAN, &e.GST, &e.Phone, &e.Address, &e.District, &e.CreatedAt.Time); err != nil {
		return nil, err
	}
	e.CreatedAt.Time = e.CreatedAt.UTC()
	e.Managers = []entity.Manager{}
	return &e, nil
}

func scanEntities(rows pgx.Rows) ([]*entity.Entity, error) {
	defer rows.Close()
	list := make([]*entity.Entity, 0)
	for rows.Next() {
		e, err := scanEntity(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user_details: %w", err)
		}
		list = append(list, e)
	}
	return list, rows.Err()
}
