// Package catalog provides the embedded SQLite film catalog store.
// Films, genres and actors are read-mostly reference data; the agent
// queries them through the tool registry and never mutates them.
package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	sq "github.com/Masterminds/squirrel"
	_ "modernc.org/sqlite"
)

// ErrUnavailable indicates the catalog database cannot be reached.
var ErrUnavailable = errors.New("catalog store unavailable")

// schemaSQL defines the film catalog tables and their join relations.
const schemaSQL = `
CREATE TABLE IF NOT EXISTS films (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    title       TEXT NOT NULL,
    year        INTEGER NOT NULL,
    rating      REAL NOT NULL,
    description TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS genres (
    id   INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS actors (
    id   INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS film_genres (
    film_id  INTEGER NOT NULL REFERENCES films(id),
    genre_id INTEGER NOT NULL REFERENCES genres(id),
    PRIMARY KEY (film_id, genre_id)
);

CREATE TABLE IF NOT EXISTS film_actors (
    film_id  INTEGER NOT NULL REFERENCES films(id),
    actor_id INTEGER NOT NULL REFERENCES actors(id),
    PRIMARY KEY (film_id, actor_id)
);

CREATE INDEX IF NOT EXISTS idx_films_rating ON films(rating);
CREATE INDEX IF NOT EXISTS idx_film_genres_genre ON film_genres(genre_id);
CREATE INDEX IF NOT EXISTS idx_film_actors_actor ON film_actors(actor_id);
`

// Store wraps the catalog database connection.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

// Open opens (creating if necessary) the catalog database at path and
// initializes the schema.
func Open(path string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}

	dsn := fmt.Sprintf("file:%s?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open catalog db: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init catalog schema: %w", err)
	}

	logger.Debug("catalog store opened", "path", path)
	return &Store{db: db, logger: logger}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// builder returns the squirrel statement builder for the catalog dialect.
func builder() sq.StatementBuilderType {
	return sq.StatementBuilder.PlaceholderFormat(sq.Question)
}

// AllGenres returns all genre names in alphabetical order.
func (s *Store) AllGenres(ctx context.Context) ([]string, error) {
	query, args, err := builder().Select("name").From("genres").OrderBy("name ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build genres query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan genre: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// AddFilm inserts a film with its genre and actor links in one transaction.
// Genre and actor rows are created on demand and shared across films.
func (s *Store) AddFilm(ctx context.Context, title string, year int, rating float64, description string, genres, actors []string) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(
		"INSERT INTO films (title, year, rating, description) VALUES (?, ?, ?, ?)",
		title, year, rating, description,
	)
	if err != nil {
		return 0, fmt.Errorf("insert film: %w", err)
	}
	filmID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("film id: %w", err)
	}

	for _, g := range genres {
		if err := linkNamed(tx, "genres", "film_genres", "genre_id", filmID, g); err != nil {
			return 0, fmt.Errorf("link genre %q: %w", g, err)
		}
	}
	for _, a := range actors {
		if err := linkNamed(tx, "actors", "film_actors", "actor_id", filmID, a); err != nil {
			return 0, fmt.Errorf("link actor %q: %w", a, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit film: %w", err)
	}
	return filmID, nil
}

// linkNamed gets or creates a named row (genre/actor) and links it to a film.
func linkNamed(tx *sql.Tx, table, joinTable, joinCol string, filmID int64, name string) error {
	if _, err := tx.Exec("INSERT OR IGNORE INTO "+table+" (name) VALUES (?)", name); err != nil {
		return err
	}

	var id int64
	if err := tx.QueryRow("SELECT id FROM "+table+" WHERE name = ?", name).Scan(&id); err != nil {
		return err
	}

	_, err := tx.Exec(
		"INSERT OR IGNORE INTO "+joinTable+" (film_id, "+joinCol+") VALUES (?, ?)",
		filmID, id,
	)
	return err
}
