package repository

import (
	"context"
	"ctchen222/pokedex/internal/api/models"
	"ctchen222/pokedex/internal/apperr"
	"ctchen222/pokedex/internal/db"
	"database/sql"
	"errors"
	"strings"

	"github.com/jmoiron/sqlx"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("repository")

const defaultListLimit = 10

const pokemonColumns = `id, name, height, weight, xp, image_url, pokemon_url, abilities, stats, types`

// PokemonRepository defines the persistence operations on pokemon records.
//
//go:generate mockgen -destination=../../mocks/mock_pokemon_repository.go -package=mocks ctchen222/pokedex/internal/api/repository PokemonRepository
type PokemonRepository interface {
	Exists(ctx context.Context, id int64) (bool, error)
	Create(ctx context.Context, p *models.Pokemon) error
	GetByID(ctx context.Context, id int64) (*models.Pokemon, error)
	List(ctx context.Context, filter models.PokemonFilter) ([]models.Pokemon, error)
	Update(ctx context.Context, id int64, patch models.PokemonPatch) (*models.Pokemon, error)
	Delete(ctx context.Context, id int64) (*models.Pokemon, error)
}

type sqlPokemonRepository struct {
	db *sqlx.DB
}

// NewPokemonRepository creates a new sqlx-backed PokemonRepository.
func NewPokemonRepository(db *sqlx.DB) PokemonRepository {
	return &sqlPokemonRepository{db: db}
}

func (r *sqlPokemonRepository) Exists(ctx context.Context, id int64) (bool, error) {
	ctx, span := tracer.Start(ctx, "PokemonRepository.Exists", trace.WithAttributes(attribute.Int64("pokemon.id", id)))
	defer span.End()

	exists, err := pokemonExists(ctx, r.db, id)
	if err != nil {
		return false, recordFault(span, apperr.Persistence(err, "failed to check pokemon"))
	}
	return exists, nil
}

// Create inserts p. A taken id is a Conflict and leaves the stored record as it was.
func (r *sqlPokemonRepository) Create(ctx context.Context, p *models.Pokemon) error {
	ctx, span := tracer.Start(ctx, "PokemonRepository.Create", trace.WithAttributes(attribute.Int64("pokemon.id", p.ID)))
	defer span.End()

	err := db.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		exists, err := pokemonExists(ctx, tx, p.ID)
		if err != nil {
			return apperr.Persistence(err, "failed to check pokemon")
		}
		if exists {
			return apperr.Conflict("pokemon with id %d already exists", p.ID)
		}

		query := `INSERT INTO pokemon (` + pokemonColumns + `, name_lower)
			VALUES (:id, :name, :height, :weight, :xp, :image_url, :pokemon_url, :abilities, :stats, :types, :name_lower)`
		if _, err := tx.NamedExecContext(ctx, query, newPokemonRow(p)); err != nil {
			if db.IsUniqueViolation(err) {
				return apperr.Conflict("pokemon with id %d already exists", p.ID)
			}
			return apperr.Persistence(err, "failed to create pokemon")
		}
		return nil
	})
	return recordFault(span, asPersistence(err, "failed to create pokemon"))
}

func (r *sqlPokemonRepository) GetByID(ctx context.Context, id int64) (*models.Pokemon, error) {
	ctx, span := tracer.Start(ctx, "PokemonRepository.GetByID", trace.WithAttributes(attribute.Int64("pokemon.id", id)))
	defer span.End()

	p, err := getPokemon(ctx, r.db, id)
	if err != nil {
		return nil, recordFault(span, err)
	}
	return p, nil
}

// List returns the records matching every set criterion of filter, ordered by id.
func (r *sqlPokemonRepository) List(ctx context.Context, filter models.PokemonFilter) ([]models.Pokemon, error) {
	ctx, span := tracer.Start(ctx, "PokemonRepository.List")
	defer span.End()

	var (
		conds []string
		args  []any
	)
	if filter.Name != "" {
		conds = append(conds, `name_lower LIKE ? ESCAPE '\'`)
		args = append(args, "%"+escapeLike(foldName(filter.Name))+"%")
	}
	if filter.MinHeight != nil {
		conds = append(conds, `height >= ?`)
		args = append(args, *filter.MinHeight)
	}
	if filter.MaxHeight != nil {
		conds = append(conds, `height <= ?`)
		args = append(args, *filter.MaxHeight)
	}
	if filter.MinWeight != nil {
		conds = append(conds, `weight >= ?`)
		args = append(args, *filter.MinWeight)
	}
	if filter.MaxWeight != nil {
		conds = append(conds, `weight <= ?`)
		args = append(args, *filter.MaxWeight)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}

	var sb strings.Builder
	sb.WriteString(`SELECT ` + pokemonColumns + ` FROM pokemon`)
	if len(conds) > 0 {
		sb.WriteString(` WHERE ` + strings.Join(conds, ` AND `))
	}
	sb.WriteString(` ORDER BY id LIMIT ? OFFSET ?`)
	args = append(args, limit, filter.Skip)

	pokemon := []models.Pokemon{}
	if err := r.db.SelectContext(ctx, &pokemon, r.db.Rebind(sb.String()), args...); err != nil {
		return nil, recordFault(span, apperr.Persistence(err, "failed to list pokemon"))
	}
	span.SetAttributes(attribute.Int("pokemon.count", len(pokemon)))
	return pokemon, nil
}

// Update loads the record, merges patch into it and writes it back in one
// transaction. The id column is never written.
func (r *sqlPokemonRepository) Update(ctx context.Context, id int64, patch models.PokemonPatch) (*models.Pokemon, error) {
	ctx, span := tracer.Start(ctx, "PokemonRepository.Update", trace.WithAttributes(attribute.Int64("pokemon.id", id)))
	defer span.End()

	var updated *models.Pokemon
	err := db.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		current, err := getPokemon(ctx, tx, id)
		if err != nil {
			return err
		}
		if patch.IsEmpty() {
			updated = current
			return nil
		}

		patch.Apply(current)
		query := `UPDATE pokemon SET
			name = :name, name_lower = :name_lower, height = :height, weight = :weight, xp = :xp,
			image_url = :image_url, pokemon_url = :pokemon_url,
			abilities = :abilities, stats = :stats, types = :types
			WHERE id = :id`
		if _, err := tx.NamedExecContext(ctx, query, newPokemonRow(current)); err != nil {
			return apperr.Persistence(err, "failed to update pokemon")
		}
		updated = current
		return nil
	})
	if err != nil {
		return nil, recordFault(span, asPersistence(err, "failed to update pokemon"))
	}
	return updated, nil
}

// Delete removes the record and returns it as it was.
func (r *sqlPokemonRepository) Delete(ctx context.Context, id int64) (*models.Pokemon, error) {
	ctx, span := tracer.Start(ctx, "PokemonRepository.Delete", trace.WithAttributes(attribute.Int64("pokemon.id", id)))
	defer span.End()

	var deleted *models.Pokemon
	err := db.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		current, err := getPokemon(ctx, tx, id)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM pokemon WHERE id = ?`), id); err != nil {
			return apperr.Persistence(err, "failed to delete pokemon")
		}
		deleted = current
		return nil
	})
	if err != nil {
		return nil, recordFault(span, asPersistence(err, "failed to delete pokemon"))
	}
	return deleted, nil
}

// pokemonRow is the written form of a record. name_lower is folded in Go so
// the name filter matches case-insensitively on every driver, not only for ASCII.
type pokemonRow struct {
	models.Pokemon
	NameLower string `db:"name_lower"`
}

func newPokemonRow(p *models.Pokemon) pokemonRow {
	return pokemonRow{Pokemon: *p, NameLower: foldName(p.Name)}
}

func foldName(name string) string {
	return strings.ToLower(name)
}

// queryer is satisfied by both *sqlx.DB and *sqlx.Tx.
type queryer interface {
	sqlx.QueryerContext
	Rebind(query string) string
}

func getPokemon(ctx context.Context, q queryer, id int64) (*models.Pokemon, error) {
	var p models.Pokemon
	query := q.Rebind(`SELECT ` + pokemonColumns + ` FROM pokemon WHERE id = ?`)
	if err := sqlx.GetContext(ctx, q, &p, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("pokemon %d not found", id)
		}
		return nil, apperr.Persistence(err, "failed to get pokemon")
	}
	return &p, nil
}

func pokemonExists(ctx context.Context, q queryer, id int64) (bool, error) {
	var exists bool
	query := q.Rebind(`SELECT EXISTS (SELECT 1 FROM pokemon WHERE id = ?)`)
	if err := sqlx.GetContext(ctx, q, &exists, query, id); err != nil {
		return false, err
	}
	return exists, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// asPersistence classifies errors that escaped the taxonomy, such as a
// failed begin or commit.
func asPersistence(err error, msg string) error {
	if err == nil || apperr.KindOf(err) != apperr.KindUnknown {
		return err
	}
	return apperr.Persistence(err, "%s", msg)
}

// recordFault marks span as failed for persistence faults and passes err through.
func recordFault(span trace.Span, err error) error {
	if err != nil && apperr.KindOf(err) == apperr.KindPersistence {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}
