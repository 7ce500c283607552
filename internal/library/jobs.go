package library

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrNotFound reports a missing job.
var ErrNotFound = errors.New("job not found")

// StartJob inserts job with running status.
func (s *Store) StartJob(ctx context.Context, job Job) error {
	created := job.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	err := s.exec(ctx,
		`INSERT INTO jobs (id, medium, album, artist, track_count, joined, status, created_at)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		job.ID,
		job.Medium,
		nullableString(job.Album),
		nullableString(job.Artist),
		job.TrackCount,
		boolToInt(job.Joined),
		StatusRunning,
		created.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert job: %w", err)
	}
	return nil
}

// RecordFile inserts a produced file.
func (s *Store) RecordFile(ctx context.Context, file File) error {
	created := file.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	err := s.exec(ctx,
		`INSERT INTO files (job_id, path, tracks, title, frames, peak, gain, created_at)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		file.JobID,
		file.Path,
		joinInts(file.Tracks),
		nullableString(file.Title),
		file.Frames,
		file.Peak,
		nullableFloat(file.Gain),
		created.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert file: %w", err)
	}
	return nil
}

// FinishJob records the outcome of job id.
func (s *Store) FinishJob(ctx context.Context, id string, outcome Outcome) error {
	var affected int64
	err := retryOnBusy(ctx, func() error {
		res, err := s.db.ExecContext(ctx,
			`UPDATE jobs SET status = ?, error_message = ?, album_peak = ?, album_gain = ?, finished_at = ?
             WHERE id = ?`,
			outcome.Status,
			nullableString(outcome.Message),
			nullableFloat(outcome.AlbumPeak),
			nullableFloat(outcome.AlbumGain),
			time.Now().UTC().Format(time.RFC3339Nano),
			id,
		)
		if err != nil {
			return err
		}
		affected, err = res.RowsAffected()
		return err
	})
	if err != nil {
		return fmt.Errorf("update job: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

// ListJobs returns the most recent jobs first. limit <= 0 returns all.
func (s *Store) ListJobs(ctx context.Context, limit int) ([]Job, error) {
	query := `SELECT id, medium, album, artist, track_count, joined, status, error_message,
                     album_peak, album_gain, created_at, finished_at
              FROM jobs ORDER BY created_at DESC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	defer rows.Close()

	var jobs []Job
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}
	return jobs, rows.Err()
}

// GetJob returns job id.
func (s *Store) GetJob(ctx context.Context, id string) (Job, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, medium, album, artist, track_count, joined, status, error_message,
                album_peak, album_gain, created_at, finished_at
         FROM jobs WHERE id = ?`, id)
	job, err := scanJob(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Job{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return job, err
}

// Files returns the files recorded for job id in insertion order.
func (s *Store) Files(ctx context.Context, jobID string) ([]File, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, job_id, path, tracks, title, frames, peak, gain, created_at
         FROM files WHERE job_id = ? ORDER BY id`, jobID)
	if err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}
	defer rows.Close()

	var files []File
	for rows.Next() {
		var (
			f       File
			tracks  string
			title   sql.NullString
			gain    sql.NullFloat64
			created string
		)
		if err := rows.Scan(&f.ID, &f.JobID, &f.Path, &tracks, &title, &f.Frames, &f.Peak, &gain, &created); err != nil {
			return nil, fmt.Errorf("scan file: %w", err)
		}
		f.Tracks = splitInts(tracks)
		f.Title = title.String
		if gain.Valid {
			f.Gain = &gain.Float64
		}
		f.CreatedAt = parseTime(created)
		files = append(files, f)
	}
	return files, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanJob(row scanner) (Job, error) {
	var (
		job                  Job
		album, artist, errs  sql.NullString
		joined               int
		status               string
		albumPeak, albumGain sql.NullFloat64
		created              string
		finished             sql.NullString
	)
	if err := row.Scan(&job.ID, &job.Medium, &album, &artist, &job.TrackCount, &joined, &status, &errs,
		&albumPeak, &albumGain, &created, &finished); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Job{}, err
		}
		return Job{}, fmt.Errorf("scan job: %w", err)
	}
	job.Album = album.String
	job.Artist = artist.String
	job.Joined = joined != 0
	job.Status = Status(status)
	job.ErrorMessage = errs.String
	if albumPeak.Valid {
		job.AlbumPeak = &albumPeak.Float64
	}
	if albumGain.Valid {
		job.AlbumGain = &albumGain.Float64
	}
	job.CreatedAt = parseTime(created)
	if finished.Valid {
		t := parseTime(finished.String)
		job.FinishedAt = &t
	}
	return job, nil
}

func nullableString(value string) any {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return value
}

func nullableFloat(value *float64) any {
	if value == nil {
		return nil
	}
	return *value
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}

func joinInts(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ",")
}

func splitInts(value string) []int {
	if value == "" {
		return nil
	}
	var out []int
	for _, part := range strings.Split(value, ",") {
		if n, err := strconv.Atoi(strings.TrimSpace(part)); err == nil {
			out = append(out, n)
		}
	}
	return out
}

func parseTime(value string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}
	}
	return t
}
