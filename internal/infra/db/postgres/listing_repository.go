package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	domainlistings "imoveis/internal/domain/listings"
)

const listingColumns = `id, titulo, descricao, preco, valor_aluguel, condominio, iptu, cidade, bairro,
	area_m2, quartos, suites, vagas, fotos, mobilado, aceita_pet, categoria, created_at, updated_at`

type ListingRepository struct {
	pool *pgxpool.Pool
}

func NewListingRepository(pool *pgxpool.Pool) (*ListingRepository, error) {
	if pool == nil {
		return nil, errors.New("postgres: pool cannot be nil")
	}
	return &ListingRepository{pool: pool}, nil
}

func (r *ListingRepository) ByID(ctx context.Context, id domainlistings.ListingID) (*domainlistings.Listing, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+listingColumns+` FROM imoveis WHERE id = $1`, string(id))
	listing, err := scanListing(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("postgres: listing %s: %w", id, domainlistings.ErrNotFound)
		}
		return nil, fmt.Errorf("postgres: listing %s: %w", id, err)
	}
	return listing, nil
}

func (r *ListingRepository) Save(ctx context.Context, l *domainlistings.Listing) error {
	if l == nil {
		return errors.New("postgres: nil listing")
	}
	photos := l.Photos
	if photos == nil {
		photos = []string{}
	}
	query := `INSERT INTO imoveis (` + listingColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
		ON CONFLICT (id) DO UPDATE SET
			titulo = EXCLUDED.titulo, descricao = EXCLUDED.descricao, preco = EXCLUDED.preco,
			valor_aluguel = EXCLUDED.valor_aluguel, condominio = EXCLUDED.condominio, iptu = EXCLUDED.iptu,
			cidade = EXCLUDED.cidade, bairro = EXCLUDED.bairro, area_m2 = EXCLUDED.area_m2,
			quartos = EXCLUDED.quartos, suites = EXCLUDED.suites, vagas = EXCLUDED.vagas,
			fotos = EXCLUDED.fotos, mobilado = EXCLUDED.mobilado, aceita_pet = EXCLUDED.aceita_pet,
			categoria = EXCLUDED.categoria, updated_at = EXCLUDED.updated_at`
	_, err := r.pool.Exec(ctx, query,
		string(l.ID), l.Title, l.Description, l.SalePrice, l.RentPrice, l.CondoFee, l.PropertyTax,
		l.Location.City, l.Location.Neighborhood, l.AreaM2, l.Bedrooms, l.Suites, l.ParkingSpots,
		photos, l.Furnished, l.PetFriendly, string(l.Category), l.CreatedAt.UTC(), l.UpdatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("postgres: save listing %s: %w", l.ID, err)
	}
	return nil
}

func (r *ListingRepository) Delete(ctx context.Context, id domainlistings.ListingID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM imoveis WHERE id = $1`, string(id))
	if err != nil {
		return fmt.Errorf("postgres: delete listing %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("postgres: listing %s: %w", id, domainlistings.ErrNotFound)
	}
	return nil
}

func (r *ListingRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM imoveis`).Scan(&n); err != nil {
		return 0, fmt.Errorf("postgres: count listings: %w", err)
	}
	return n, nil
}

func (r *ListingRepository) Search(ctx context.Context, params domainlistings.SearchParams) (domainlistings.SearchResult, error) {
	params = params.Normalized()
	where, args := searchWhere(params)

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM imoveis`+where, args...).Scan(&total); err != nil {
		return domainlistings.SearchResult{}, fmt.Errorf("postgres: count search: %w", err)
	}

	query := `SELECT ` + listingColumns + ` FROM imoveis` + where + ` ORDER BY created_at DESC, id ASC`
	if !params.All {
		args = append(args, params.Limit, params.Offset)
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	}
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return domainlistings.SearchResult{}, fmt.Errorf("postgres: search: %w", err)
	}
	defer rows.Close()

	items := make([]*domainlistings.Listing, 0, params.Limit)
	for rows.Next() {
		listing, err := scanListing(rows)
		if err != nil {
			return domainlistings.SearchResult{}, fmt.Errorf("postgres: scan listing: %w", err)
		}
		items = append(items, listing)
	}
	if err := rows.Err(); err != nil {
		return domainlistings.SearchResult{}, fmt.Errorf("postgres: search rows: %w", err)
	}
	return domainlistings.SearchResult{Items: items, Total: total}, nil
}

// searchWhere builds the WHERE clause with positional arguments.
func searchWhere(p domainlistings.SearchParams) (string, []any) {
	var conds []string
	var args []any
	add := func(cond string, value any) {
		args = append(args, value)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	if p.City != "" {
		add("cidade = $%d", p.City)
	}
	if p.Neighborhood != "" {
		add("bairro = $%d", p.Neighborhood)
	}
	if p.Category != "" {
		add("categoria = $%d", string(p.Category))
	}
	if p.PriceMin > 0 {
		add("preco_ativo >= $%d", p.PriceMin)
	}
	if p.PriceMax > 0 {
		add("preco_ativo <= $%d", p.PriceMax)
	}
	if p.BedroomsMin > 0 {
		add("quartos >= $%d", p.BedroomsMin)
	}
	if p.AreaMin > 0 {
		add("area_m2 >= $%d", p.AreaMin)
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func scanListing(row pgx.Row) (*domainlistings.Listing, error) {
	var (
		l        domainlistings.Listing
		id       string
		category string
	)
	err := row.Scan(
		&id, &l.Title, &l.Description, &l.SalePrice, &l.RentPrice, &l.CondoFee, &l.PropertyTax,
		&l.Location.City, &l.Location.Neighborhood, &l.AreaM2, &l.Bedrooms, &l.Suites, &l.ParkingSpots,
		&l.Photos, &l.Furnished, &l.PetFriendly, &category, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	l.ID = domainlistings.ListingID(id)
	l.Category = domainlistings.Category(category)
	return &l, nil
}

var _ domainlistings.Repository = (*ListingRepository)(nil)
