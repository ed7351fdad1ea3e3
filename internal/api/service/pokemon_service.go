package service

import (
	"context"
	"ctchen222/pokedex/internal/api/models"
	"ctchen222/pokedex/internal/api/repository"
	"ctchen222/pokedex/internal/apperr"
	"ctchen222/pokedex/internal/storage"
	"fmt"
	"log/slog"
	"net/url"
	"path"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("service")

const maxListLimit = 100

// PokemonService applies the catalog rules on top of the repository.
//
//go:generate mockgen -destination=../../mocks/mock_pokemon_service.go -package=mocks ctchen222/pokedex/internal/api/service PokemonService
type PokemonService interface {
	Create(ctx context.Context, in models.PokemonCreate, image *models.ImageUpload) (*models.Pokemon, error)
	Get(ctx context.Context, id int64) (*models.Pokemon, error)
	List(ctx context.Context, filter models.PokemonFilter) ([]models.Pokemon, error)
	Update(ctx context.Context, id int64, patch models.PokemonPatch, image *models.ImageUpload) (*models.Pokemon, error)
	Delete(ctx context.Context, id int64) (*models.Pokemon, error)
}

type PokemonServiceConfig struct {
	Bucket string
	// PlaceholderTemplate has one %s for the name slug.
	PlaceholderTemplate string
}

type pokemonService struct {
	repo   repository.PokemonRepository
	images storage.ImageStore
	cfg    PokemonServiceConfig
}

func NewPokemonService(repo repository.PokemonRepository, images storage.ImageStore, cfg PokemonServiceConfig) PokemonService {
	return &pokemonService{repo: repo, images: images, cfg: cfg}
}

// Create validates any image, rejects a taken id, resolves the image URL
// (upload, then caller URL, then placeholder) and stores the record.
func (s *pokemonService) Create(ctx context.Context, in models.PokemonCreate, image *models.ImageUpload) (*models.Pokemon, error) {
	ctx, span := tracer.Start(ctx, "PokemonService.Create", trace.WithAttributes(
		attribute.Int64("pokemon.id", in.ID),
		attribute.Bool("pokemon.has_image", image != nil),
	))
	defer span.End()

	if image != nil {
		if err := storage.ValidateImage(image.Filename, image.ContentType, image.Content); err != nil {
			return nil, err
		}
	}

	exists, err := s.repo.Exists(ctx, in.ID)
	if err != nil {
		return nil, err
	}
	if exists {
		slog.DebugContext(ctx, "Pokemon id already taken", "pokemon_id", in.ID)
		return nil, apperr.Conflict("pokemon with id %d already exists", in.ID)
	}

	var imageURL string
	switch {
	case image != nil:
		imageURL, err = s.upload(ctx, in.ID, image)
		if err != nil {
			return nil, err
		}
	case in.ImageURL != "":
		imageURL = in.ImageURL
	default:
		imageURL = s.placeholderURL(in.Name)
	}

	p := in.ToPokemon(imageURL)
	if err := s.repo.Create(ctx, p); err != nil {
		if apperr.KindOf(err) == apperr.KindPersistence && image != nil {
			slog.WarnContext(ctx, "Uploaded image left unreferenced", "pokemon_id", in.ID, "image_url", imageURL)
		}
		return nil, err
	}

	slog.InfoContext(ctx, "Pokemon created", "pokemon_id", p.ID, "name", p.Name)
	return p, nil
}

func (s *pokemonService) Get(ctx context.Context, id int64) (*models.Pokemon, error) {
	ctx, span := tracer.Start(ctx, "PokemonService.Get", trace.WithAttributes(attribute.Int64("pokemon.id", id)))
	defer span.End()

	return s.repo.GetByID(ctx, id)
}

func (s *pokemonService) List(ctx context.Context, filter models.PokemonFilter) ([]models.Pokemon, error) {
	ctx, span := tracer.Start(ctx, "PokemonService.List", trace.WithAttributes(
		attribute.Int("pokemon.skip", filter.Skip),
		attribute.Int("pokemon.limit", filter.Limit),
	))
	defer span.End()

	if filter.Skip < 0 {
		return nil, apperr.Validation("skip", "must be at least 0")
	}
	if filter.Limit < 1 || filter.Limit > maxListLimit {
		return nil, apperr.Validation("limit", "must be between 1 and %d", maxListLimit)
	}
	return s.repo.List(ctx, filter)
}

// Update applies patch to an existing record. An image is validated and
// uploaded before anything is written; any failure leaves the record as it was.
func (s *pokemonService) Update(ctx context.Context, id int64, patch models.PokemonPatch, image *models.ImageUpload) (*models.Pokemon, error) {
	ctx, span := tracer.Start(ctx, "PokemonService.Update", trace.WithAttributes(
		attribute.Int64("pokemon.id", id),
		attribute.Bool("pokemon.has_image", image != nil),
	))
	defer span.End()

	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// Only a successful upload may replace the image URL.
	patch.ImageURL = nil
	if image != nil {
		if err := storage.ValidateImage(image.Filename, image.ContentType, image.Content); err != nil {
			return nil, err
		}
		imageURL, err := s.upload(ctx, id, image)
		if err != nil {
			return nil, err
		}
		patch.ImageURL = &imageURL
	}

	if patch.IsEmpty() {
		return current, nil
	}

	updated, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "Pokemon updated", "pokemon_id", id, "image_replaced", image != nil)
	return updated, nil
}

func (s *pokemonService) Delete(ctx context.Context, id int64) (*models.Pokemon, error) {
	ctx, span := tracer.Start(ctx, "PokemonService.Delete", trace.WithAttributes(attribute.Int64("pokemon.id", id)))
	defer span.End()

	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "Pokemon deleted", "pokemon_id", id)
	return deleted, nil
}

// upload stores image under images/{id}/. An existing object at the key is
// never overwritten; a uuid prefix is added instead.
func (s *pokemonService) upload(ctx context.Context, id int64, image *models.ImageUpload) (string, error) {
	key := storage.ObjectKey(id, image.Filename)

	taken, err := s.images.Exists(ctx, s.cfg.Bucket, key)
	if err != nil {
		return "", err
	}
	if taken {
		key = path.Join(path.Dir(key), uuid.NewString()+"-"+path.Base(key))
	}

	imageURL, err := s.images.Store(ctx, s.cfg.Bucket, key, image.ContentType, image.Content)
	if err != nil {
		slog.ErrorContext(ctx, "Image upload failed", "pokemon_id", id, "key", key, "error", err)
		return "", err
	}
	return imageURL, nil
}

func (s *pokemonService) placeholderURL(name string) string {
	return fmt.Sprintf(s.cfg.PlaceholderTemplate, Slug(name))
}

// Slug lower-cases name and joins its words with dashes, path-escaped.
func Slug(name string) string {
	return url.PathEscape(strings.Join(strings.Fields(strings.ToLower(name)), "-"))
}
