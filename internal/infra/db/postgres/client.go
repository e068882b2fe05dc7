package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Connect opens a pool and waits for the first successful ping.
func Connect(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("postgres: parse config: %w", err)
	}
	cfg.MaxConnIdleTime = 5 * time.Minute

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	pool, err := pgxpool.NewWithConfig(connectCtx, cfg)
	if err != nil {
		return nil, fmt.Errorf("postgres: connect: %w", err)
	}
	if err := pool.Ping(connectCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres: ping: %w", err)
	}
	return pool, nil
}

const schema = `
CREATE TABLE IF NOT EXISTS imoveis (
	id            TEXT PRIMARY KEY,
	titulo        TEXT NOT NULL,
	descricao     TEXT NOT NULL,
	preco         DOUBLE PRECISION NOT NULL DEFAULT 0,
	valor_aluguel DOUBLE PRECISION NOT NULL DEFAULT 0,
	condominio    DOUBLE PRECISION NOT NULL DEFAULT 0,
	iptu          DOUBLE PRECISION NOT NULL DEFAULT 0,
	cidade        TEXT NOT NULL,
	bairro        TEXT NOT NULL,
	area_m2       DOUBLE PRECISION NOT NULL,
	quartos       INTEGER NOT NULL,
	suites        INTEGER NOT NULL DEFAULT 0,
	vagas         INTEGER NOT NULL DEFAULT 0,
	fotos         TEXT[] NOT NULL DEFAULT '{}',
	mobilado      BOOLEAN NOT NULL DEFAULT FALSE,
	aceita_pet    BOOLEAN NOT NULL DEFAULT FALSE,
	categoria     TEXT NOT NULL CHECK (categoria IN ('Venda', 'Aluguel')),
	preco_ativo   DOUBLE PRECISION GENERATED ALWAYS AS (
		CASE WHEN categoria = 'Aluguel' AND valor_aluguel > 0 THEN valor_aluguel ELSE preco END
	) STORED,
	created_at    TIMESTAMPTZ NOT NULL,
	updated_at    TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS imoveis_created_at_idx ON imoveis (created_at DESC, id);
CREATE INDEX IF NOT EXISTS imoveis_local_idx ON imoveis (cidade, bairro);
CREATE INDEX IF NOT EXISTS imoveis_categoria_preco_idx ON imoveis (categoria, preco_ativo);
`

// EnsureSchema creates the listings table when it does not exist yet.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("postgres: ensure schema: %w", err)
	}
	return nil
}
