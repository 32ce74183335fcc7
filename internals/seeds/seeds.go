// Package seeds mengisi data awal (status, kategori, akun per role, buku, pengaturan).
// Semua seeder idempoten: baris yang sudah ada berdasarkan kunci alaminya dilewati.
package seeds

import (
	"context"
	"embed"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

//go:embed data/*.yaml
var dataFS embed.FS

type Seeder struct {
	Name string
	Run  func(ctx context.Context, db *gorm.DB, log *zap.Logger) error
}

// All: urutan penting, books butuh categories.
func All() []Seeder {
	return []Seeder{
		{"statuses", SeedStatuses},
		{"categories", SeedCategories},
		{"users", SeedUsers},
		{"books", SeedBooks},
		{"settings", SeedSettings},
	}
}

// Run menjalankan seeder; only kosong berarti semua.
func Run(ctx context.Context, db *gorm.DB, only []string, log *zap.Logger) error {
	want := map[string]bool{}
	for _, o := range only {
		if o = strings.ToLower(strings.TrimSpace(o)); o != "" {
			want[o] = true
		}
	}
	known := map[string]bool{}
	for _, s := range All() {
		known[s.Name] = true
	}
	for name := range want {
		if !known[name] {
			return fmt.Errorf("seeder tidak dikenal: %s", name)
		}
	}

	for _, s := range All() {
		if len(want) > 0 && !want[s.Name] {
			continue
		}
		log.Info("[SEED] mulai", zap.String("seeder", s.Name))
		if err := s.Run(ctx, db, log); err != nil {
			return fmt.Errorf("seed %s: %w", s.Name, err)
		}
	}
	return nil
}

func load(name string, out any) error {
	raw, err := dataFS.ReadFile("data/" + name)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode %s: %w", name, err)
	}
	return nil
}
