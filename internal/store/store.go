// Package store handles SQLite persistence.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/chlorine05/GameAceSelection/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// timeLayout sorts lexically: UTC with a fixed nine-digit fraction.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

// Store wraps SQLite access for quiz history.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			log.Debug().Err(cerr).Msg("close after failed migration")
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS sessions (
			id INTEGER PRIMARY KEY,
			uuid TEXT NOT NULL UNIQUE,
			started_at TEXT NOT NULL,
			ended_at TEXT NOT NULL,
			mode TEXT NOT NULL,
			question_count INTEGER NOT NULL,
			solved INTEGER NOT NULL,
			correct INTEGER NOT NULL,
			wrong INTEGER NOT NULL,
			points INTEGER NOT NULL,
			stars INTEGER NOT NULL,
			best_streak INTEGER NOT NULL,
			avg_correct_ms INTEGER NOT NULL,
			duration_ms INTEGER NOT NULL,
			end_reason TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS answers (
			session_id INTEGER NOT NULL,
			seq INTEGER NOT NULL,
			prompt TEXT NOT NULL,
			expected INTEGER NOT NULL,
			given INTEGER,
			correct INTEGER NOT NULL,
			timed_out INTEGER NOT NULL,
			elapsed_ms INTEGER NOT NULL,
			PRIMARY KEY (session_id, seq)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_ended_at ON sessions(ended_at);`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_mode ON sessions(mode);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// InsertSession stores a finished session and its answers.
func (s *Store) InsertSession(ctx context.Context, rec model.SessionRecord) (id int64, err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				log.Debug().Err(rerr).Msg("rollback session insert")
			}
		}
	}()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO sessions (uuid, started_at, ended_at, mode, question_count, solved, correct, wrong, points, stars, best_streak, avg_correct_ms, duration_ms, end_reason)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.UUID,
		formatTime(rec.StartedAt),
		formatTime(rec.EndedAt),
		rec.Mode,
		rec.QuestionCount,
		rec.Solved,
		rec.Correct,
		rec.Wrong,
		rec.Points,
		rec.Stars,
		rec.BestStreak,
		rec.AvgCorrectMs,
		rec.DurationMs,
		rec.EndReason,
	)
	if err != nil {
		return 0, err
	}
	id, err = res.LastInsertId()
	if err != nil {
		return 0, err
	}

	if len(rec.Answers) > 0 {
		stmt, err := tx.PrepareContext(ctx,
			`INSERT INTO answers (session_id, seq, prompt, expected, given, correct, timed_out, elapsed_ms)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return 0, err
		}
		defer func() {
			if cerr := stmt.Close(); cerr != nil {
				log.Debug().Err(cerr).Msg("close answer statement")
			}
		}()
		for _, a := range rec.Answers {
			var given sql.NullInt64
			if a.Given != nil {
				given = sql.NullInt64{Int64: int64(*a.Given), Valid: true}
			}
			if _, err := stmt.ExecContext(ctx, id, a.Seq, a.Prompt, a.Expected, given, boolInt(a.Correct), boolInt(a.TimedOut), a.ElapsedMs); err != nil {
				return 0, err
			}
		}
	}

	if err = tx.Commit(); err != nil {
		return 0, err
	}
	return id, nil
}

// ListSessions returns session aggregates filtered by stats config, oldest first.
func (s *Store) ListSessions(ctx context.Context, cfg model.StatsConfig) ([]model.SessionAggregate, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if cfg.Mode != "" {
		clauses = append(clauses, "mode = ?")
		args = append(args, cfg.Mode)
	}
	if cfg.Since != nil {
		clauses = append(clauses, "ended_at >= ?")
		args = append(args, formatTime(*cfg.Since))
	}
	query := fmt.Sprintf(`SELECT id, uuid, ended_at, mode, solved, correct, wrong, points, stars, best_streak, avg_correct_ms, duration_ms, end_reason
		FROM sessions
		WHERE %s
		ORDER BY ended_at ASC, id ASC`, strings.Join(clauses, " AND "))
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer closeRows(rows)

	var sessions []model.SessionAggregate
	for rows.Next() {
		var agg model.SessionAggregate
		var endedAt string
		if err := rows.Scan(&agg.SessionID, &agg.UUID, &endedAt, &agg.Mode, &agg.Solved, &agg.Correct, &agg.Wrong,
			&agg.Points, &agg.Stars, &agg.BestStreak, &agg.AvgCorrectMs, &agg.DurationMs, &agg.EndReason); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(timeLayout, endedAt)
		if err != nil {
			return nil, err
		}
		agg.EndedAt = parsed
		sessions = append(sessions, agg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return sessions, nil
}

// ListAnswersForSessions returns the answers of the given sessions in
// session and answer order.
func (s *Store) ListAnswersForSessions(ctx context.Context, sessionIDs []int64) ([]model.SessionAnswer, error) {
	if len(sessionIDs) == 0 {
		return nil, nil
	}
	placeholders, args := idArgs(sessionIDs)
	query := fmt.Sprintf(`SELECT a.session_id, s.mode, a.seq, a.prompt, a.expected, a.given, a.correct, a.timed_out, a.elapsed_ms
		FROM answers a
		JOIN sessions s ON s.id = a.session_id
		WHERE a.session_id IN (%s)
		ORDER BY a.session_id ASC, a.seq ASC`, placeholders)
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer closeRows(rows)

	var result []model.SessionAnswer
	for rows.Next() {
		var a model.SessionAnswer
		var given sql.NullInt64
		var correct, timedOut int
		if err := rows.Scan(&a.SessionID, &a.Mode, &a.Seq, &a.Prompt, &a.Expected, &given, &correct, &timedOut, &a.ElapsedMs); err != nil {
			return nil, err
		}
		if given.Valid {
			v := int(given.Int64)
			a.Given = &v
		}
		a.Correct = correct != 0
		a.TimedOut = timedOut != 0
		result = append(result, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// ListModeAggregates aggregates the given sessions per mode.
func (s *Store) ListModeAggregates(ctx context.Context, sessionIDs []int64) ([]model.ModeAggregate, error) {
	if len(sessionIDs) == 0 {
		return nil, nil
	}
	placeholders, args := idArgs(sessionIDs)
	query := fmt.Sprintf(`SELECT mode, COUNT(*), SUM(solved), SUM(correct), SUM(wrong), SUM(points), MAX(points),
		COALESCE(SUM(avg_correct_ms * correct) * 1.0 / NULLIF(SUM(correct), 0), 0)
		FROM sessions
		WHERE id IN (%s)
		GROUP BY mode
		ORDER BY mode`, placeholders)
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer closeRows(rows)

	var result []model.ModeAggregate
	for rows.Next() {
		var agg model.ModeAggregate
		if err := rows.Scan(&agg.Mode, &agg.Sessions, &agg.Solved, &agg.Correct, &agg.Wrong, &agg.Points, &agg.BestPoints, &agg.AvgCorrectMs); err != nil {
			return nil, err
		}
		result = append(result, agg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// BestPoints returns the highest points scored in a mode, or 0.
func (s *Store) BestPoints(ctx context.Context, mode string) (int, error) {
	var best sql.NullInt64
	err := s.db.QueryRowContext(ctx, `SELECT MAX(points) FROM sessions WHERE mode = ?`, mode).Scan(&best)
	if err != nil {
		return 0, err
	}
	if !best.Valid {
		return 0, nil
	}
	return int(best.Int64), nil
}

func idArgs(ids []int64) (string, []any) {
	placeholders := make([]string, len(ids))
	args := make([]any, len(ids))
	for i, id := range ids {
		placeholders[i] = "?"
		args[i] = id
	}
	return strings.Join(placeholders, ","), args
}

func closeRows(rows *sql.Rows) {
	if cerr := rows.Close(); cerr != nil {
		log.Debug().Err(cerr).Msg("close rows")
	}
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
