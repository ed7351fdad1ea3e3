package models

import (
	"bytes"
	"ctchen222/pokedex/internal/apperr"
	"ctchen222/pokedex/internal/validator"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// PokemonCreateForm is the multipart body of POST /pokemon/.
// abilities, stats and types arrive as JSON array strings.
type PokemonCreateForm struct {
	ID         int64  `form:"id" binding:"required,min=1"`
	Name       string `form:"name" binding:"required"`
	Height     *string `form:"height" binding:"required"`
	Weight     *string `form:"weight" binding:"required"`
	XP         *string `form:"xp" binding:"required"`
	ImageURL   string  `form:"image_url" binding:"omitempty,url"`
	PokemonURL string  `form:"pokemon_url" binding:"required,url"`
	Abilities  string  `form:"abilities" binding:"required"`
	Stats      string  `form:"stats" binding:"required"`
	Types      string  `form:"types" binding:"required"`
}

func (f *PokemonCreateForm) ToCreate() (PokemonCreate, error) {
	name := strings.TrimSpace(f.Name)
	if name == "" {
		return PokemonCreate{}, apperr.Validation("name", "must not be blank")
	}

	height, err := parseCount("height", f.Height)
	if err != nil {
		return PokemonCreate{}, err
	}
	weight, err := parseCount("weight", f.Weight)
	if err != nil {
		return PokemonCreate{}, err
	}
	xp, err := parseCount("xp", f.XP)
	if err != nil {
		return PokemonCreate{}, err
	}

	abilities, err := decodeAbilities(f.Abilities)
	if err != nil {
		return PokemonCreate{}, err
	}
	stats, err := decodeStats(f.Stats)
	if err != nil {
		return PokemonCreate{}, err
	}
	types, err := decodeTypes(f.Types)
	if err != nil {
		return PokemonCreate{}, err
	}

	return PokemonCreate{
		ID:         f.ID,
		Name:       name,
		Height:     height,
		Weight:     weight,
		XP:         xp,
		ImageURL:   f.ImageURL,
		PokemonURL: f.PokemonURL,
		Abilities:  abilities,
		Stats:      stats,
		Types:      types,
	}, nil
}

// PokemonUpdateForm is the body of PATCH /pokemon/{id}. Absent fields stay nil.
type PokemonUpdateForm struct {
	ID         *string `form:"id"`
	Name       *string `form:"name" binding:"omitnil,min=1"`
	Height     *string `form:"height"`
	Weight     *string `form:"weight"`
	XP         *string `form:"xp"`
	ImageURL   *string `form:"image_url"`
	PokemonURL *string `form:"pokemon_url" binding:"omitnil,url"`
	Abilities  *string `form:"abilities"`
	Stats      *string `form:"stats"`
	Types      *string `form:"types"`
}

func (f *PokemonUpdateForm) ToPatch() (PokemonPatch, error) {
	if f.ID != nil {
		return PokemonPatch{}, apperr.Validation("id", "id cannot be updated")
	}
	if f.ImageURL != nil {
		return PokemonPatch{}, apperr.Validation("image_url", "image_url can only be replaced by uploading an image")
	}

	patch := PokemonPatch{PokemonURL: f.PokemonURL}

	var err error
	if patch.Height, err = parseOptionalCount("height", f.Height); err != nil {
		return PokemonPatch{}, err
	}
	if patch.Weight, err = parseOptionalCount("weight", f.Weight); err != nil {
		return PokemonPatch{}, err
	}
	if patch.XP, err = parseOptionalCount("xp", f.XP); err != nil {
		return PokemonPatch{}, err
	}

	if f.Name != nil {
		name := strings.TrimSpace(*f.Name)
		if name == "" {
			return PokemonPatch{}, apperr.Validation("name", "must not be blank")
		}
		patch.Name = &name
	}
	if f.Abilities != nil {
		abilities, err := decodeAbilities(*f.Abilities)
		if err != nil {
			return PokemonPatch{}, err
		}
		patch.Abilities = &abilities
	}
	if f.Stats != nil {
		stats, err := decodeStats(*f.Stats)
		if err != nil {
			return PokemonPatch{}, err
		}
		patch.Stats = &stats
	}
	if f.Types != nil {
		types, err := decodeTypes(*f.Types)
		if err != nil {
			return PokemonPatch{}, err
		}
		patch.Types = &types
	}

	return patch, nil
}

// PokemonListQuery is the query string of GET /pokemon/.
type PokemonListQuery struct {
	Skip      int     `form:"skip,default=0" binding:"min=0"`
	Limit     int     `form:"limit,default=10" binding:"min=1,max=100"`
	Name      string  `form:"name"`
	MinHeight *string `form:"min_height"`
	MaxHeight *string `form:"max_height"`
	MinWeight *string `form:"min_weight"`
	MaxWeight *string `form:"max_weight"`
}

func (q *PokemonListQuery) ToFilter() (PokemonFilter, error) {
	f := PokemonFilter{
		Name:  strings.TrimSpace(q.Name),
		Skip:  q.Skip,
		Limit: q.Limit,
	}

	var err error
	if f.MinHeight, err = parseOptionalCount("min_height", q.MinHeight); err != nil {
		return PokemonFilter{}, err
	}
	if f.MaxHeight, err = parseOptionalCount("max_height", q.MaxHeight); err != nil {
		return PokemonFilter{}, err
	}
	if f.MinWeight, err = parseOptionalCount("min_weight", q.MinWeight); err != nil {
		return PokemonFilter{}, err
	}
	if f.MaxWeight, err = parseOptionalCount("max_weight", q.MaxWeight); err != nil {
		return PokemonFilter{}, err
	}
	return f, nil
}

// parseCount parses a present numeric form value. gin binds an empty value as
// zero, so numbers arrive as text and blanks are rejected here.
func parseCount(field string, raw *string) (int, error) {
	if raw == nil {
		return 0, apperr.Validation(field, "field is required")
	}
	n, err := strconv.Atoi(strings.TrimSpace(*raw))
	if err != nil {
		return 0, apperr.Validation(field, "must be an integer")
	}
	if n < 0 {
		return 0, apperr.Validation(field, "must be at least 0")
	}
	return n, nil
}

// parseOptionalCount is parseCount for a field that may be absent.
func parseOptionalCount(field string, raw *string) (*int, error) {
	if raw == nil {
		return nil, nil
	}
	n, err := parseCount(field, raw)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// Wire shapes of the nested entries. Pointers make every key mandatory.
type abilityInput struct {
	Name     *string `json:"name" binding:"required,min=1"`
	IsHidden *bool   `json:"is_hidden" binding:"required"`
}

type statInput struct {
	Name     *string `json:"name" binding:"required,min=1"`
	BaseStat *int    `json:"base_stat" binding:"required"`
}

type typeInput struct {
	Name *string `json:"name" binding:"required,min=1"`
}

// Named wrappers give validation errors a namespace like "stats[1].base_stat".
type abilitiesInput struct {
	Abilities []abilityInput `json:"abilities" binding:"dive"`
}

type statsInput struct {
	Stats []statInput `json:"stats" binding:"dive"`
}

type typesInput struct {
	Types []typeInput `json:"types" binding:"dive"`
}

func decodeAbilities(raw string) (Abilities, error) {
	var in abilitiesInput
	if err := decodeArray("abilities", raw, &in.Abilities); err != nil {
		return nil, err
	}
	if err := validateEntries(in); err != nil {
		return nil, err
	}

	out := make(Abilities, 0, len(in.Abilities))
	for _, a := range in.Abilities {
		out = append(out, Ability{Name: *a.Name, IsHidden: *a.IsHidden})
	}
	return out, nil
}

func decodeStats(raw string) (Stats, error) {
	var in statsInput
	if err := decodeArray("stats", raw, &in.Stats); err != nil {
		return nil, err
	}
	if err := validateEntries(in); err != nil {
		return nil, err
	}

	out := make(Stats, 0, len(in.Stats))
	for _, s := range in.Stats {
		out = append(out, Stat{Name: *s.Name, BaseStat: *s.BaseStat})
	}
	return out, nil
}

func decodeTypes(raw string) (PokemonTypes, error) {
	var in typesInput
	if err := decodeArray("types", raw, &in.Types); err != nil {
		return nil, err
	}
	if err := validateEntries(in); err != nil {
		return nil, err
	}

	out := make(PokemonTypes, 0, len(in.Types))
	for _, t := range in.Types {
		out = append(out, PokemonType{Name: *t.Name})
	}
	return out, nil
}

// decodeArray strictly decodes a JSON array, rejecting unknown keys, null and trailing data.
func decodeArray[T any](field, raw string, dst *[]T) error {
	raw = strings.TrimSpace(raw)
	if !strings.HasPrefix(raw, "[") {
		return apperr.Validation(field, "must be a JSON array")
	}

	dec := json.NewDecoder(bytes.NewReader([]byte(raw)))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return apperr.Validation(field, "malformed JSON: %s", describeJSONError(err))
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return apperr.Validation(field, "malformed JSON: unexpected data after array")
	}
	if *dst == nil {
		*dst = []T{}
	}
	return nil
}

func describeJSONError(err error) string {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return fmt.Sprintf("%s must be %s", typeErr.Field, typeErr.Type)
	}
	return err.Error()
}

func validateEntries(in any) error {
	err := validator.GetValidator().Struct(in)
	if err == nil {
		return nil
	}
	if fe, ok := validator.FirstError(err); ok {
		return apperr.Validation(fe.Field, "%s", fe.Message)
	}
	return apperr.Validation("", "%s", err.Error())
}
