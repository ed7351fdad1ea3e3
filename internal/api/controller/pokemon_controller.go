package controller

import (
	"ctchen222/pokedex/internal/api/models"
	"ctchen222/pokedex/internal/api/response"
	"ctchen222/pokedex/internal/api/service"
	"ctchen222/pokedex/internal/apperr"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	imageField = "image"
	// formOverhead is the room left for the text fields of a multipart body.
	formOverhead = 1 << 20
)

// PokemonController serves the /pokemon routes.
type PokemonController struct {
	pokemonService service.PokemonService
	maxUploadBytes int64
}

func NewPokemonController(pokemonService service.PokemonService, maxUploadBytes int64) *PokemonController {
	return &PokemonController{
		pokemonService: pokemonService,
		maxUploadBytes: maxUploadBytes,
	}
}

// Create handles POST /pokemon/ with a multipart body and an optional image file.
func (pc *PokemonController) Create(c *gin.Context) {
	pc.limitBody(c)

	var form models.PokemonCreateForm
	if err := c.ShouldBind(&form); err != nil {
		bindingError(c, err)
		return
	}
	in, err := form.ToCreate()
	if err != nil {
		response.Error(c, err)
		return
	}
	image, err := pc.readImage(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	created, err := pc.pokemonService.Create(c.Request.Context(), in, image)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.CreatedResponse(c, created)
}

func (pc *PokemonController) Get(c *gin.Context) {
	id, ok := pokemonID(c)
	if !ok {
		return
	}

	pokemon, err := pc.pokemonService.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessResponse(c, pokemon)
}

// List handles GET /pokemon/ with paging and optional filters.
func (pc *PokemonController) List(c *gin.Context) {
	var query models.PokemonListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		bindingError(c, err)
		return
	}

	filter, err := query.ToFilter()
	if err != nil {
		response.Error(c, err)
		return
	}

	pokemon, err := pc.pokemonService.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessResponse(c, pokemon)
}

// Update handles PATCH /pokemon/{id}. Only the fields present in the body
// are changed; an image file replaces image_url.
func (pc *PokemonController) Update(c *gin.Context) {
	id, ok := pokemonID(c)
	if !ok {
		return
	}
	pc.limitBody(c)

	var form models.PokemonUpdateForm
	if err := c.ShouldBind(&form); err != nil {
		bindingError(c, err)
		return
	}
	patch, err := form.ToPatch()
	if err != nil {
		response.Error(c, err)
		return
	}
	image, err := pc.readImage(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	updated, err := pc.pokemonService.Update(c.Request.Context(), id, patch, image)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessResponse(c, updated)
}

func (pc *PokemonController) Delete(c *gin.Context) {
	id, ok := pokemonID(c)
	if !ok {
		return
	}

	if _, err := pc.pokemonService.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContentResponse(c)
}

func (pc *PokemonController) limitBody(c *gin.Context) {
	if pc.maxUploadBytes > 0 && c.Request.Body != nil {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, pc.maxUploadBytes+formOverhead)
	}
}

// readImage returns the uploaded image, or nil when the request carries none.
func (pc *PokemonController) readImage(c *gin.Context) (*models.ImageUpload, error) {
	header, err := c.FormFile(imageField)
	switch {
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
		return nil, nil
	case err != nil:
		return nil, apperr.Validation(imageField, "could not read uploaded file")
	case header.Filename == "":
		return nil, nil
	}
	if pc.maxUploadBytes > 0 && header.Size > pc.maxUploadBytes {
		return nil, apperr.Validation(imageField, "file exceeds %d bytes", pc.maxUploadBytes)
	}

	f, err := header.Open()
	if err != nil {
		return nil, apperr.Validation(imageField, "could not read uploaded file")
	}
	defer f.Close()

	content, err := io.ReadAll(f)
	if err != nil {
		return nil, apperr.Validation(imageField, "could not read uploaded file")
	}

	return &models.ImageUpload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Content:     content,
	}, nil
}

func pokemonID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, apperr.Validation("id", "must be an integer"))
		return 0, false
	}
	if id < 1 {
		response.Error(c, apperr.NotFound("pokemon %d not found", id))
		return 0, false
	}
	return id, true
}
