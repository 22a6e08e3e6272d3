package postgres

import (
	"context"
	"fmt"
)

// schemaSQL crea las tablas del registro. Los encargados se borran en cascada con su entidad.
const schemaSQL = `
CREATE TABLE IF NOT EXISTS user_details (
	id         BIGSERIAL PRIMARY KEY,
	name       TEXT        NOT NULL,
	pan        TEXT        NOT NULL,
	gst        TEXT,
	phone      TEXT        NOT NULL,
	address    TEXT        NOT NULL,
	district   TEXT        NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS managers (
	id             BIGSERIAL PRIMARY KEY,
	user_detail_id BIGINT  NOT NULL REFERENCES user_details (id) ON DELETE CASCADE,
	position       INTEGER NOT NULL,
	name           TEXT    NOT NULL,
	phone          TEXT    NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_managers_user_detail ON managers (user_detail_id, position);
`

// EnsureSchema crea las tablas si no existen. Es idempotente.
func EnsureSchema(ctx context.Context, q Querier) error {
	if _, err := q.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("crear esquema: %w", err)
	}
	return nil
}
