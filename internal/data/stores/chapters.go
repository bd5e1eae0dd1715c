// Package stores implements SQLite persistence for loom's projects,
// chapters, segments, translations, and translation batches.
package stores

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aldersky/loom/internal/data/db"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

// Project is one translation project.
type Project struct {
	ID             int64
	Name           string
	SourceLanguage string
	CreatedAt      time.Time
}

// Chapter is one unit of work within a project.
type Chapter struct {
	ID        int64
	ProjectID int64
	Title     string
	Seq       int
	CreatedAt time.Time
}

// ChapterStore persists projects and chapters.
type ChapterStore struct {
	db *db.DB
}

// NewChapterStore creates a chapter store.
func NewChapterStore(database *db.DB) *ChapterStore {
	return &ChapterStore{db: database}
}

// CreateProject inserts a project and returns it with its id.
func (s *ChapterStore) CreateProject(ctx context.Context, name, sourceLanguage string) (Project, error) {
	now := time.Now()
	res, err := s.db.Conn().ExecContext(ctx,
		`INSERT INTO projects (name, source_language, created_at) VALUES (?, ?, ?)`,
		name, sourceLanguage, now.UnixNano())
	if err != nil {
		return Project{}, fmt.Errorf("create project: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return Project{}, fmt.Errorf("create project id: %w", err)
	}

	return Project{ID: id, Name: name, SourceLanguage: sourceLanguage, CreatedAt: now}, nil
}

// DefaultProject returns the first project, creating one when the database
// is empty. Import uses it when no explicit project is given.
func (s *ChapterStore) DefaultProject(ctx context.Context) (Project, error) {
	row := s.db.Conn().QueryRowContext(ctx,
		`SELECT id, name, source_language, created_at FROM projects ORDER BY id LIMIT 1`)

	p, err := scanProject(row)
	if IsNotFoundError(err) {
		return s.CreateProject(ctx, "default", "")
	}
	if err != nil {
		return Project{}, fmt.Errorf("get default project: %w", err)
	}
	return p, nil
}

// CreateChapter inserts a chapter and returns it with its id.
func (s *ChapterStore) CreateChapter(ctx context.Context, projectID int64, title string, seq int) (Chapter, error) {
	now := time.Now()
	res, err := s.db.Conn().ExecContext(ctx,
		`INSERT INTO chapters (project_id, title, seq, created_at) VALUES (?, ?, ?, ?)`,
		projectID, title, seq, now.UnixNano())
	if err != nil {
		return Chapter{}, fmt.Errorf("create chapter: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return Chapter{}, fmt.Errorf("create chapter id: %w", err)
	}

	return Chapter{ID: id, ProjectID: projectID, Title: title, Seq: seq, CreatedAt: now}, nil
}

// GetChapter returns one chapter by id.
func (s *ChapterStore) GetChapter(ctx context.Context, id int64) (Chapter, error) {
	row := s.db.Conn().QueryRowContext(ctx,
		`SELECT id, project_id, title, seq, created_at FROM chapters WHERE id = ?`, id)

	ch, err := scanChapter(row)
	if IsNotFoundError(err) {
		return Chapter{}, ErrNotFound
	}
	if err != nil {
		return Chapter{}, fmt.Errorf("get chapter %d: %w", id, err)
	}
	return ch, nil
}

// ListChapters returns all chapters in project/seq order.
func (s *ChapterStore) ListChapters(ctx context.Context) ([]Chapter, error) {
	rows, err := s.db.Conn().QueryContext(ctx,
		`SELECT id, project_id, title, seq, created_at FROM chapters ORDER BY project_id, seq, id`)
	if err != nil {
		return nil, fmt.Errorf("list chapters: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	var chapters []Chapter
	for rows.Next() {
		ch, err := scanChapter(rows)
		if err != nil {
			return nil, fmt.Errorf("scan chapter: %w", err)
		}
		chapters = append(chapters, ch)
	}
	return chapters, rows.Err()
}

// FirstChapter returns the lowest-seq chapter, or ErrNotFound.
func (s *ChapterStore) FirstChapter(ctx context.Context) (Chapter, error) {
	row := s.db.Conn().QueryRowContext(ctx,
		`SELECT id, project_id, title, seq, created_at FROM chapters ORDER BY project_id, seq, id LIMIT 1`)

	ch, err := scanChapter(row)
	if IsNotFoundError(err) {
		return Chapter{}, ErrNotFound
	}
	if err != nil {
		return Chapter{}, fmt.Errorf("first chapter: %w", err)
	}
	return ch, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProject(r rowScanner) (Project, error) {
	var (
		p  Project
		ts int64
	)
	if err := r.Scan(&p.ID, &p.Name, &p.SourceLanguage, &ts); err != nil {
		return Project{}, err
	}
	p.CreatedAt = time.Unix(0, ts)
	return p, nil
}

func scanChapter(r rowScanner) (Chapter, error) {
	var (
		ch Chapter
		ts int64
	)
	if err := r.Scan(&ch.ID, &ch.ProjectID, &ch.Title, &ch.Seq, &ts); err != nil {
		return Chapter{}, err
	}
	ch.CreatedAt = time.Unix(0, ts)
	return ch, nil
}
