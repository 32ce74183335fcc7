package helper

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"simpus_backend/internals/databases/dbtest"
)

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Ilmu Komputer":                 "ilmu-komputer",
		"Ilmu Pengetahuan & Matematika": "ilmu-pengetahuan-matematika",
		"  Café  Société ":              "cafe-societe",
		"!!!":                           "item",
	}
	for in, want := range cases {
		require.Equal(t, want, Slugify(in, 0), in)
	}
	require.Equal(t, "abc", Slugify("abc-def", 4))
}

type slugRow struct {
	ID   uint   `gorm:"primaryKey"`
	Slug string `gorm:"column:slug"`
}

func (slugRow) TableName() string { return "slug_rows" }

func TestEnsureUniqueSlugCI(t *testing.T) {
	db := dbtest.Open(t, &slugRow{})
	ctx := context.Background()

	got, err := EnsureUniqueSlugCI(ctx, db, "slug_rows", "slug", "sejarah", nil, 0)
	require.NoError(t, err)
	require.Equal(t, "sejarah", got)

	require.NoError(t, db.Create(&slugRow{Slug: "Sejarah"}).Error)
	require.NoError(t, db.Create(&slugRow{Slug: "sejarah-2"}).Error)

	got, err = EnsureUniqueSlugCI(ctx, db, "slug_rows", "slug", "sejarah", nil, 0)
	require.NoError(t, err)
	require.Equal(t, "sejarah-3", got)
}

func TestResolvePaging(t *testing.T) {
	app := fiber.New()
	var got Paging
	app.Get("/", func(c *fiber.Ctx) error {
		got = ResolvePaging(c, 20, 50)
		return nil
	})

	_, err := app.Test(httptest.NewRequest("GET", "/?page=3&per_page=500", nil))
	require.NoError(t, err)
	require.Equal(t, Paging{Page: 3, PerPage: 50, Offset: 100, Limit: 50}, got)

	_, err = app.Test(httptest.NewRequest("GET", "/?page=-1&limit=abc", nil))
	require.NoError(t, err)
	require.Equal(t, Paging{Page: 1, PerPage: 20, Offset: 0, Limit: 20}, got)
}

func TestBuildPagination(t *testing.T) {
	p := BuildPagination(41, Paging{Page: 2, PerPage: 20})
	require.Equal(t, 3, p.TotalPages)
	require.True(t, p.HasNext)
	require.True(t, p.HasPrev)

	empty := BuildPagination(0, Paging{Page: 1, PerPage: 20})
	require.Equal(t, 1, empty.TotalPages)
	require.False(t, empty.HasNext)
}
