package record

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmylchreest/palettecam/internal/capture"
	"github.com/jmylchreest/palettecam/internal/colour"
)

// SessionInfo describes one recorded capture session.
type SessionInfo struct {
	ID          int64     `json:"id"`
	Source      string    `json:"source"`
	Algorithm   string    `json:"algorithm"`
	SwatchCount int       `json:"swatchCount"`
	StartedAt   time.Time `json:"startedAt"`
	Snapshots   int       `json:"snapshots"`
}

// Store records capture session snapshots.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens or creates the recording database at path.
func Open(path string) (*Store, error) {
	database, err := openDB(path)
	if err != nil {
		return nil, err
	}
	return &Store{db: database, now: time.Now}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// StartSession registers a new session and returns its ID.
func (s *Store) StartSession(ctx context.Context, source string, algorithm colour.Algorithm, swatchCount int) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO sessions(source, algorithm, swatch_count, started_at) VALUES (?, ?, ?, ?)",
		source, string(algorithm), swatchCount, s.timestamp(),
	)
	if err != nil {
		return 0, fmt.Errorf("insert session: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("read session id: %w", err)
	}
	return id, nil
}

// Record stores a snapshot for the session. Recording the same frame twice
// replaces the earlier row.
func (s *Store) Record(ctx context.Context, sessionID int64, snap capture.Snapshot) error {
	colors, err := json.Marshal(colour.Result{Colors: snap.Colors}.ToHex())
	if err != nil {
		return fmt.Errorf("encode colours: %w", err)
	}

	indices := snap.ChosenIndices
	if indices == nil {
		indices = []int{}
	}
	chosen, err := json.Marshal(indices)
	if err != nil {
		return fmt.Errorf("encode chosen indices: %w", err)
	}

	var dominant sql.NullString
	if snap.HasDominant {
		dominant = sql.NullString{String: snap.Dominant.Hex(), Valid: true}
	}

	if _, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO snapshots(session_id, frame, colors, chosen_indices, dominant, recorded_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		sessionID, snap.Frame, string(colors), string(chosen), dominant, s.timestamp(),
	); err != nil {
		return fmt.Errorf("insert snapshot for frame %d: %w", snap.Frame, err)
	}
	return nil
}

// Sessions lists recorded sessions, newest first.
func (s *Store) Sessions(ctx context.Context) ([]SessionInfo, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT s.id, s.source, s.algorithm, s.swatch_count, s.started_at, COUNT(n.frame)
		FROM sessions s
		LEFT JOIN snapshots n ON n.session_id = s.id
		GROUP BY s.id
		ORDER BY s.id DESC`)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	var sessions []SessionInfo
	for rows.Next() {
		var (
			info    SessionInfo
			started string
		)
		if err := rows.Scan(&info.ID, &info.Source, &info.Algorithm, &info.SwatchCount, &started, &info.Snapshots); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		if info.StartedAt, err = time.Parse(time.RFC3339, started); err != nil {
			return nil, fmt.Errorf("parse start time of session %d: %w", info.ID, err)
		}
		sessions = append(sessions, info)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}
	return sessions, nil
}

// Snapshots returns the recorded snapshots of a session in frame order.
func (s *Store) Snapshots(ctx context.Context, sessionID int64) ([]capture.Snapshot, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT frame, colors, chosen_indices, dominant FROM snapshots WHERE session_id = ? ORDER BY frame",
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("query snapshots: %w", err)
	}
	defer rows.Close()

	var snapshots []capture.Snapshot
	for rows.Next() {
		var (
			snap     capture.Snapshot
			colors   string
			chosen   string
			dominant sql.NullString
		)
		if err := rows.Scan(&snap.Frame, &colors, &chosen, &dominant); err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		if snap.Colors, err = decodeColors(colors); err != nil {
			return nil, fmt.Errorf("frame %d: %w", snap.Frame, err)
		}
		if err := json.Unmarshal([]byte(chosen), &snap.ChosenIndices); err != nil {
			return nil, fmt.Errorf("frame %d: decode chosen indices: %w", snap.Frame, err)
		}
		if dominant.Valid {
			if snap.Dominant, err = colour.ParseHex(dominant.String); err != nil {
				return nil, fmt.Errorf("frame %d: %w", snap.Frame, err)
			}
			snap.HasDominant = true
		}
		snapshots = append(snapshots, snap)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate snapshots: %w", err)
	}
	return snapshots, nil
}

func (s *Store) timestamp() string {
	return s.now().UTC().Format(time.RFC3339)
}

func decodeColors(data string) ([]colour.RGB, error) {
	var hexes []string
	if err := json.Unmarshal([]byte(data), &hexes); err != nil {
		return nil, fmt.Errorf("decode colours: %w", err)
	}

	colors := make([]colour.RGB, len(hexes))
	for i, h := range hexes {
		c, err := colour.ParseHex(h)
		if err != nil {
			return nil, err
		}
		colors[i] = c
	}
	return colors, nil
}
