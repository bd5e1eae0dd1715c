package stores

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/aldersky/loom/internal/data/db"
)

// BatchRecord stores one pipeline run's chain-of-thought artifacts.
type BatchRecord struct {
	ID              int64
	ChapterID       int64
	TargetLanguage  string
	Summary         string
	CharacterEvents map[string]string
	ReviewFeedback  map[string]string
	SegmentIDs      []int64
	CreatedAt       time.Time
}

// RetranslationRequest is one queued guided re-translation. loom writes
// requests; the external pipeline consumes them and writes translations
// back.
type RetranslationRequest struct {
	ID             string
	ChapterID      int64
	TargetLanguage string
	Guidance       string
	SegmentIDs     []int64
	Status         string
	CreatedAt      time.Time
}

// Retranslation request status values.
const (
	RequestQueued = "queued"
	RequestDone   = "done"
)

// BatchStore persists translation batches and retranslation requests.
type BatchStore struct {
	db *db.DB
}

// NewBatchStore creates a batch store.
func NewBatchStore(database *db.DB) *BatchStore {
	return &BatchStore{db: database}
}

// CreateBatch inserts a batch record and returns it with its id.
func (s *BatchStore) CreateBatch(ctx context.Context, b BatchRecord) (BatchRecord, error) {
	events, err := json.Marshal(orEmptyMap(b.CharacterEvents))
	if err != nil {
		return BatchRecord{}, fmt.Errorf("marshal character events: %w", err)
	}
	feedback, err := json.Marshal(orEmptyMap(b.ReviewFeedback))
	if err != nil {
		return BatchRecord{}, fmt.Errorf("marshal review feedback: %w", err)
	}
	ids, err := json.Marshal(orEmptySlice(b.SegmentIDs))
	if err != nil {
		return BatchRecord{}, fmt.Errorf("marshal segment ids: %w", err)
	}

	b.CreatedAt = time.Now()
	res, err := s.db.Conn().ExecContext(ctx,
		`INSERT INTO translation_batches
		   (chapter_id, target_language, situation_summary, character_events, review_feedback, segment_ids, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		b.ChapterID, b.TargetLanguage, b.Summary, string(events), string(feedback), string(ids), b.CreatedAt.UnixNano())
	if err != nil {
		return BatchRecord{}, fmt.Errorf("create batch: %w", err)
	}

	b.ID, err = res.LastInsertId()
	if err != nil {
		return BatchRecord{}, fmt.Errorf("create batch id: %w", err)
	}
	return b, nil
}

// GetBatch returns one batch by id, or ErrNotFound.
func (s *BatchStore) GetBatch(ctx context.Context, id int64) (BatchRecord, error) {
	row := s.db.Conn().QueryRowContext(ctx,
		`SELECT id, chapter_id, target_language, situation_summary, character_events, review_feedback, segment_ids, created_at
		 FROM translation_batches WHERE id = ?`, id)

	var (
		b                     BatchRecord
		events, feedback, ids string
		ts                    int64
	)
	err := row.Scan(&b.ID, &b.ChapterID, &b.TargetLanguage, &b.Summary, &events, &feedback, &ids, &ts)
	if IsNotFoundError(err) {
		return BatchRecord{}, ErrNotFound
	}
	if err != nil {
		return BatchRecord{}, fmt.Errorf("get batch %d: %w", id, err)
	}

	if err := json.Unmarshal([]byte(events), &b.CharacterEvents); err != nil {
		return BatchRecord{}, fmt.Errorf("unmarshal character events for batch %d: %w", id, err)
	}
	if err := json.Unmarshal([]byte(feedback), &b.ReviewFeedback); err != nil {
		return BatchRecord{}, fmt.Errorf("unmarshal review feedback for batch %d: %w", id, err)
	}
	if err := json.Unmarshal([]byte(ids), &b.SegmentIDs); err != nil {
		return BatchRecord{}, fmt.Errorf("unmarshal segment ids for batch %d: %w", id, err)
	}

	b.CreatedAt = time.Unix(0, ts)
	return b, nil
}

// EnqueueRequest stores a retranslation request for the pipeline and
// returns its generated id.
func (s *BatchStore) EnqueueRequest(ctx context.Context, r RetranslationRequest) (RetranslationRequest, error) {
	ids, err := json.Marshal(orEmptySlice(r.SegmentIDs))
	if err != nil {
		return RetranslationRequest{}, fmt.Errorf("marshal segment ids: %w", err)
	}

	r.ID = uuid.NewString()
	r.Status = RequestQueued
	r.CreatedAt = time.Now()

	_, err = s.db.Conn().ExecContext(ctx,
		`INSERT INTO retranslation_requests (id, chapter_id, target_language, guidance, segment_ids, status, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.ChapterID, r.TargetLanguage, r.Guidance, string(ids), r.Status, r.CreatedAt.UnixNano())
	if err != nil {
		return RetranslationRequest{}, fmt.Errorf("enqueue retranslation request: %w", err)
	}
	return r, nil
}

// PendingRequests lists queued retranslation requests, oldest first.
func (s *BatchStore) PendingRequests(ctx context.Context) ([]RetranslationRequest, error) {
	rows, err := s.db.Conn().QueryContext(ctx,
		`SELECT id, chapter_id, target_language, guidance, segment_ids, status, created_at
		 FROM retranslation_requests WHERE status = ? ORDER BY created_at`, RequestQueued)
	if err != nil {
		return nil, fmt.Errorf("list pending requests: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	var out []RetranslationRequest
	for rows.Next() {
		var (
			r   RetranslationRequest
			ids string
			ts  int64
		)
		if err := rows.Scan(&r.ID, &r.ChapterID, &r.TargetLanguage, &r.Guidance, &ids, &r.Status, &ts); err != nil {
			return nil, fmt.Errorf("scan request: %w", err)
		}
		if err := json.Unmarshal([]byte(ids), &r.SegmentIDs); err != nil {
			return nil, fmt.Errorf("unmarshal segment ids for request %s: %w", r.ID, err)
		}
		r.CreatedAt = time.Unix(0, ts)
		out = append(out, r)
	}
	return out, rows.Err()
}

func orEmptyMap(m map[string]string) map[string]string {
	if m == nil {
		return map[string]string{}
	}
	return m
}

func orEmptySlice(s []int64) []int64 {
	if s == nil {
		return []int64{}
	}
	return s
}
