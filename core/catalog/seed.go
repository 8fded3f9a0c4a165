package catalog

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jmoiron/sqlx"
	"gopkg.in/yaml.v3"

	"github.com/m3rciful/shopbot/core/logger"
	"log/slog"
)

const manifestName = "catalog.yaml"

// seedManifest mirrors the layout of content/catalog.yaml.
type seedManifest struct {
	Prompts []struct {
		State   int    `yaml:"state"`
		Message string `yaml:"message"`
	} `yaml:"prompts"`
	Categories []struct {
		Name        string `yaml:"name"`
		Description string `yaml:"description"`
		Goods       []struct {
			Name        string `yaml:"name"`
			Description string `yaml:"description"`
			Image       string `yaml:"image"`
		} `yaml:"goods"`
	} `yaml:"categories"`
}

// Seeder loads the static catalog manifest into the reference tables.
// Seeding runs once: a non-empty category table skips the whole pass.
type Seeder struct {
	db  *sqlx.DB
	dir string
}

// NewSeeder builds a seeder reading content from dir.
func NewSeeder(db *sqlx.DB, dir string) *Seeder {
	return &Seeder{db: db, dir: dir}
}

// Seed populates category, goods, and state_message from the manifest.
func (s *Seeder) Seed(ctx context.Context) error {
	start := time.Now()

	var existing int
	if err := s.db.GetContext(ctx, &existing, `SELECT COUNT(*) FROM category`); err != nil {
		return fmt.Errorf("seed: count categories: %w", err)
	}
	if existing > 0 {
		logger.SEED.Info("seed skipped",
			slog.String("event", "skip"),
			slog.Int("count", existing),
		)
		return nil
	}

	manifest, err := s.loadManifest()
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("seed: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var categories, goods int
	for _, cat := range manifest.Categories {
		var categoryID int64
		err := tx.QueryRowxContext(ctx,
			`INSERT INTO category (name, description) VALUES ($1, $2) RETURNING id`,
			cat.Name, cat.Description,
		).Scan(&categoryID)
		if err != nil {
			return fmt.Errorf("seed: insert category %q: %w", cat.Name, err)
		}
		categories++

		for _, item := range cat.Goods {
			image, err := s.readImage(item.Image)
			if err != nil {
				return err
			}
			_, err = tx.ExecContext(ctx,
				`INSERT INTO goods (name, description, image, category_id) VALUES ($1, $2, $3, $4)`,
				item.Name, item.Description, image, categoryID,
			)
			if err != nil {
				return fmt.Errorf("seed: insert goods %q: %w", item.Name, err)
			}
			goods++
		}
	}

	for _, p := range manifest.Prompts {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO state_message (state_id, message) VALUES ($1, $2)`,
			p.State, p.Message,
		)
		if err != nil {
			return fmt.Errorf("seed: insert prompt for step %d: %w", p.State, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed: commit: %w", err)
	}

	logger.SEED.Info("seed complete",
		slog.String("event", "summary"),
		slog.Int("categories", categories),
		slog.Int("goods", goods),
		slog.Int("prompts", len(manifest.Prompts)),
		slog.Duration("duration", logger.Took(start)),
	)
	return nil
}

func (s *Seeder) loadManifest() (*seedManifest, error) {
	path := filepath.Join(s.dir, manifestName)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("seed: read manifest %s: %w", path, err)
	}
	var manifest seedManifest
	if err := yaml.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("seed: parse manifest %s: %w", path, err)
	}
	return &manifest, nil
}

// readImage loads an optional product photo. A missing file is logged
// and treated as "no photo": the bot then replies with text only.
func (s *Seeder) readImage(name string) ([]byte, error) {
	if name == "" {
		return nil, nil
	}
	path := filepath.Join(s.dir, name)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			logger.SEED.Warn("image missing",
				slog.String("event", "image.skip"),
				slog.String("path", path),
			)
			return nil, nil
		}
		return nil, fmt.Errorf("seed: read image %s: %w", path, err)
	}
	return data, nil
}
