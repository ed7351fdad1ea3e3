package models

import (
	"ctchen222/pokedex/internal/apperr"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int                   { return &v }
func strPtr(v string) *string             { return &v }
func abilitiesPtr(a Abilities) *Abilities { return &a }

func validCreateForm() *PokemonCreateForm {
	return &PokemonCreateForm{
		ID:         25,
		Name:       "Pikachu",
		Height:     strPtr("4"),
		Weight:     strPtr("60"),
		XP:         strPtr("112"),
		PokemonURL: "https://pokeapi.co/api/v2/pokemon/25/",
		Abilities:  `[{"name":"static","is_hidden":false},{"name":"lightning-rod","is_hidden":true}]`,
		Stats:      `[{"name":"hp","base_stat":35},{"name":"speed","base_stat":90}]`,
		Types:      `[{"name":"electric"}]`,
	}
}

func TestPokemonCreateForm_ToCreate(t *testing.T) {
	got, err := validCreateForm().ToCreate()
	require.NoError(t, err)

	assert.Equal(t, int64(25), got.ID)
	assert.Equal(t, "Pikachu", got.Name)
	assert.Equal(t, 4, got.Height)
	assert.Equal(t, Abilities{{Name: "static"}, {Name: "lightning-rod", IsHidden: true}}, got.Abilities)
	assert.Equal(t, Stats{{Name: "hp", BaseStat: 35}, {Name: "speed", BaseStat: 90}}, got.Stats)
	assert.Equal(t, PokemonTypes{{Name: "electric"}}, got.Types)
	assert.Empty(t, got.ImageURL)
}

func TestPokemonCreateForm_EmptySequencesAllowed(t *testing.T) {
	form := validCreateForm()
	form.Abilities, form.Stats, form.Types = "[]", " [] ", "[]"

	got, err := form.ToCreate()
	require.NoError(t, err)

	assert.NotNil(t, got.Abilities)
	assert.Empty(t, got.Abilities)
	assert.Empty(t, got.Stats)
	assert.Empty(t, got.Types)
}

func TestPokemonCreateForm_MalformedNestedJSON(t *testing.T) {
	cases := []struct {
		name      string
		mutate    func(f *PokemonCreateForm)
		wantField string
	}{
		{"abilities not json", func(f *PokemonCreateForm) { f.Abilities = `[{"name":` }, "abilities"},
		{"abilities null", func(f *PokemonCreateForm) { f.Abilities = `null` }, "abilities"},
		{"abilities object", func(f *PokemonCreateForm) { f.Abilities = `{"name":"static"}` }, "abilities"},
		{"ability missing is_hidden", func(f *PokemonCreateForm) { f.Abilities = `[{"name":"static"}]` }, "abilities[0].is_hidden"},
		{"ability unknown key", func(f *PokemonCreateForm) { f.Abilities = `[{"name":"static","is_hidden":false,"slot":1}]` }, "abilities"},
		{"stat missing base_stat", func(f *PokemonCreateForm) { f.Stats = `[{"name":"hp","base_stat":35},{"name":"attack"}]` }, "stats[1].base_stat"},
		{"stat wrong type", func(f *PokemonCreateForm) { f.Stats = `[{"name":"hp","base_stat":"high"}]` }, "stats"},
		{"type empty name", func(f *PokemonCreateForm) { f.Types = `[{"name":""}]` }, "types[0].name"},
		{"types trailing data", func(f *PokemonCreateForm) { f.Types = `[{"name":"electric"}] []` }, "types"},
		{"blank name", func(f *PokemonCreateForm) { f.Name = "   " }, "name"},
		{"empty height", func(f *PokemonCreateForm) { f.Height = strPtr("") }, "height"},
		{"missing weight", func(f *PokemonCreateForm) { f.Weight = nil }, "weight"},
		{"non-numeric xp", func(f *PokemonCreateForm) { f.XP = strPtr("lots") }, "xp"},
		{"negative height", func(f *PokemonCreateForm) { f.Height = strPtr("-1") }, "height"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			form := validCreateForm()
			tc.mutate(form)

			_, err := form.ToCreate()

			require.Error(t, err)
			assert.ErrorIs(t, err, apperr.ErrValidation)
			assert.Equal(t, tc.wantField, apperr.FieldOf(err))
		})
	}
}

func TestPokemonUpdateForm_ToPatch(t *testing.T) {
	form := &PokemonUpdateForm{
		Height: strPtr(" 5 "),
		Stats:  strPtr(`[{"name":"hp","base_stat":40}]`),
	}

	patch, err := form.ToPatch()
	require.NoError(t, err)

	require.NotNil(t, patch.Height)
	assert.Equal(t, 5, *patch.Height)
	require.NotNil(t, patch.Stats)
	assert.Equal(t, Stats{{Name: "hp", BaseStat: 40}}, *patch.Stats)
	assert.Nil(t, patch.Name)
	assert.Nil(t, patch.Abilities)
	assert.Nil(t, patch.ImageURL)
}

func TestPokemonUpdateForm_RejectsImmutableFields(t *testing.T) {
	_, err := (&PokemonUpdateForm{ID: strPtr("26")}).ToPatch()
	assert.ErrorIs(t, err, apperr.ErrValidation)
	assert.Contains(t, err.Error(), "id cannot be updated")

	_, err = (&PokemonUpdateForm{ImageURL: strPtr("https://example.com/x.png")}).ToPatch()
	assert.ErrorIs(t, err, apperr.ErrValidation)
	assert.Equal(t, "image_url", apperr.FieldOf(err))
}

func TestPokemonUpdateForm_BlankNumbersAreRejected(t *testing.T) {
	cases := []struct {
		form      *PokemonUpdateForm
		wantField string
	}{
		{&PokemonUpdateForm{Height: strPtr("")}, "height"},
		{&PokemonUpdateForm{Weight: strPtr("  ")}, "weight"},
		{&PokemonUpdateForm{XP: strPtr("12.5")}, "xp"},
		{&PokemonUpdateForm{Height: strPtr("-3")}, "height"},
	}

	for _, tc := range cases {
		_, err := tc.form.ToPatch()
		assert.ErrorIs(t, err, apperr.ErrValidation)
		assert.Equal(t, tc.wantField, apperr.FieldOf(err))
	}
}

func TestPokemonUpdateForm_Empty(t *testing.T) {
	patch, err := (&PokemonUpdateForm{}).ToPatch()
	require.NoError(t, err)
	assert.True(t, patch.IsEmpty())
}

func TestPokemonPatch_ApplyKeepsOmittedFields(t *testing.T) {
	original := Pokemon{
		ID:         25,
		Name:       "Pikachu",
		Height:     4,
		Weight:     60,
		XP:         112,
		ImageURL:   "https://img.pokemondb.net/artwork/pikachu.jpg",
		PokemonURL: "https://pokeapi.co/api/v2/pokemon/25/",
		Abilities:  Abilities{{Name: "static"}},
		Stats:      Stats{{Name: "hp", BaseStat: 35}},
		Types:      PokemonTypes{{Name: "electric"}},
	}

	patches := []PokemonPatch{
		{},
		{Name: strPtr("Raichu")},
		{Weight: intPtr(300), XP: intPtr(218)},
		{Abilities: abilitiesPtr(Abilities{})},
		{ImageURL: strPtr("https://bucket.s3.us-east-1.amazonaws.com/images/25/raichu.png")},
	}

	for _, p := range patches {
		got := original
		p.Apply(&got)

		assert.Equal(t, int64(25), got.ID)
		expectStr(t, p.Name, original.Name, got.Name)
		expectInt(t, p.Height, original.Height, got.Height)
		expectInt(t, p.Weight, original.Weight, got.Weight)
		expectInt(t, p.XP, original.XP, got.XP)
		expectStr(t, p.ImageURL, original.ImageURL, got.ImageURL)
		expectStr(t, p.PokemonURL, original.PokemonURL, got.PokemonURL)
		if p.Abilities != nil {
			assert.Equal(t, *p.Abilities, got.Abilities)
		} else {
			assert.Equal(t, original.Abilities, got.Abilities)
		}
		assert.Equal(t, original.Stats, got.Stats)
		assert.Equal(t, original.Types, got.Types)
	}
}

func expectInt(t *testing.T, set *int, before, after int) {
	t.Helper()
	if set != nil {
		assert.Equal(t, *set, after)
		return
	}
	assert.Equal(t, before, after)
}

func expectStr(t *testing.T, set *string, before, after string) {
	t.Helper()
	if set != nil {
		assert.Equal(t, *set, after)
		return
	}
	assert.Equal(t, before, after)
}

func TestJSONColumns_ValueAndScan(t *testing.T) {
	v, err := Abilities(nil).Value()
	require.NoError(t, err)
	assert.Equal(t, "[]", v)

	var stats Stats
	require.NoError(t, stats.Scan([]byte(`[{"name":"hp","base_stat":35}]`)))
	assert.Equal(t, Stats{{Name: "hp", BaseStat: 35}}, stats)

	var types PokemonTypes
	require.NoError(t, types.Scan(nil))
	assert.NotNil(t, types)

	assert.Error(t, types.Scan(42))
	assert.Error(t, types.Scan("not json"))
}

func TestPokemonListQuery_ToFilter(t *testing.T) {
	q := &PokemonListQuery{Skip: 5, Limit: 20, Name: " pika ", MinHeight: strPtr("3")}

	f, err := q.ToFilter()
	require.NoError(t, err)

	assert.Equal(t, "pika", f.Name)
	assert.Equal(t, 5, f.Skip)
	assert.Equal(t, 20, f.Limit)
	assert.Equal(t, 3, *f.MinHeight)
	assert.Nil(t, f.MaxHeight)
}

func TestPokemonListQuery_ToFilterRejectsBlankBounds(t *testing.T) {
	_, err := (&PokemonListQuery{Limit: 10, MaxWeight: strPtr("")}).ToFilter()
	assert.ErrorIs(t, err, apperr.ErrValidation)
	assert.Equal(t, "max_weight", apperr.FieldOf(err))
}
