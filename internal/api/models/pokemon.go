package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Pokemon is a catalog record. The id is chosen by the caller and never changes.
type Pokemon struct {
	ID         int64        `db:"id" json:"id"`
	Name       string       `db:"name" json:"name"`
	Height     int          `db:"height" json:"height"`
	Weight     int          `db:"weight" json:"weight"`
	XP         int          `db:"xp" json:"xp"`
	ImageURL   string       `db:"image_url" json:"image_url"`
	PokemonURL string       `db:"pokemon_url" json:"pokemon_url"`
	Abilities  Abilities    `db:"abilities" json:"abilities"`
	Stats      Stats        `db:"stats" json:"stats"`
	Types      PokemonTypes `db:"types" json:"types"`
}

type Ability struct {
	Name     string `json:"name"`
	IsHidden bool   `json:"is_hidden"`
}

type Stat struct {
	Name     string `json:"name"`
	BaseStat int    `json:"base_stat"`
}

type PokemonType struct {
	Name string `json:"name"`
}

// Abilities, Stats and PokemonTypes are stored as JSON documents.
type (
	Abilities    []Ability
	Stats        []Stat
	PokemonTypes []PokemonType
)

func (a Abilities) Value() (driver.Value, error)    { return jsonValue(a) }
func (a *Abilities) Scan(src any) error             { return jsonScan(src, a) }
func (s Stats) Value() (driver.Value, error)        { return jsonValue(s) }
func (s *Stats) Scan(src any) error                 { return jsonScan(src, s) }
func (t PokemonTypes) Value() (driver.Value, error) { return jsonValue(t) }
func (t *PokemonTypes) Scan(src any) error          { return jsonScan(src, t) }

func jsonValue[T any](seq []T) (driver.Value, error) {
	if seq == nil {
		seq = []T{}
	}
	b, err := json.Marshal(seq)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func jsonScan[S ~[]E, E any](src any, dst *S) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*dst = S{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into %T", src, dst)
	}

	var out S
	if err := json.Unmarshal(raw, &out); err != nil {
		return fmt.Errorf("failed to decode %T: %w", dst, err)
	}
	if out == nil {
		out = S{}
	}
	*dst = out
	return nil
}

// PokemonCreate is a validated create payload. An empty ImageURL means the
// service resolves one.
type PokemonCreate struct {
	ID         int64
	Name       string
	Height     int
	Weight     int
	XP         int
	ImageURL   string
	PokemonURL string
	Abilities  Abilities
	Stats      Stats
	Types      PokemonTypes
}

func (c PokemonCreate) ToPokemon(imageURL string) *Pokemon {
	return &Pokemon{
		ID:         c.ID,
		Name:       c.Name,
		Height:     c.Height,
		Weight:     c.Weight,
		XP:         c.XP,
		ImageURL:   imageURL,
		PokemonURL: c.PokemonURL,
		Abilities:  c.Abilities,
		Stats:      c.Stats,
		Types:      c.Types,
	}
}

// PokemonPatch holds the fields of a partial update. Nil fields are left untouched.
type PokemonPatch struct {
	Name       *string
	Height     *int
	Weight     *int
	XP         *int
	PokemonURL *string
	Abilities  *Abilities
	Stats      *Stats
	Types      *PokemonTypes
	// ImageURL is only set by the service after a successful upload.
	ImageURL *string
}

func (p PokemonPatch) IsEmpty() bool {
	return p.Name == nil && p.Height == nil && p.Weight == nil && p.XP == nil &&
		p.PokemonURL == nil && p.Abilities == nil && p.Stats == nil && p.Types == nil &&
		p.ImageURL == nil
}

// Apply merges the set fields of p into dst. The id is never touched.
func (p PokemonPatch) Apply(dst *Pokemon) {
	if p.Name != nil {
		dst.Name = *p.Name
	}
	if p.Height != nil {
		dst.Height = *p.Height
	}
	if p.Weight != nil {
		dst.Weight = *p.Weight
	}
	if p.XP != nil {
		dst.XP = *p.XP
	}
	if p.PokemonURL != nil {
		dst.PokemonURL = *p.PokemonURL
	}
	if p.Abilities != nil {
		dst.Abilities = *p.Abilities
	}
	if p.Stats != nil {
		dst.Stats = *p.Stats
	}
	if p.Types != nil {
		dst.Types = *p.Types
	}
	if p.ImageURL != nil {
		dst.ImageURL = *p.ImageURL
	}
}

// PokemonFilter narrows a listing. Every set criterion must hold.
type PokemonFilter struct {
	Name      string
	MinHeight *int
	MaxHeight *int
	MinWeight *int
	MaxWeight *int
	Skip      int
	Limit     int
}

// ImageUpload is an image file received with a create or update request.
type ImageUpload struct {
	Filename    string
	ContentType string
	Content     []byte
}
