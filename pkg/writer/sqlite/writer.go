// Package sqlite provides a SQLite report sink for scoring and search runs
package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/ChrisMcGann/PepScore/pkg/core"
	"github.com/ChrisMcGann/PepScore/pkg/match"
	"github.com/ChrisMcGann/PepScore/pkg/score"
)

const (
	// Date format for HeaderTable (ISO 8601)
	headerDateFormat = "2006-01-02"
	// Timestamp format for RunTable
	runTimeFormat = time.RFC3339
	// schemaVersion is bumped whenever a table changes
	schemaVersion = 1
	// massDiffPrecision is the decimal places kept for MassDiff
	massDiffPrecision = 4
)

// Writer handles writing run results to SQLite database files
type Writer struct {
	db            *sql.DB
	outputPath    string
	runStmt       *sql.Stmt
	candidateStmt *sql.Stmt
	ionStmt       *sql.Stmt
	closed        bool
}

// NewWriter creates a new SQLite writer
func NewWriter(outputPath string) (*Writer, error) {
	db, err := sql.Open("sqlite3", outputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	w := &Writer{
		db:         db,
		outputPath: outputPath,
	}

	if err := w.createTables(); err != nil {
		db.Close()
		return nil, err
	}

	if err := w.prepareStatements(); err != nil {
		db.Close()
		return nil, err
	}

	return w, nil
}

// createTables creates the required database schema
func (w *Writer) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS RunTable (
		RunId TEXT PRIMARY KEY,
		Command TEXT,
		CreationDate TEXT,
		TargetMZ DOUBLE,
		Charge INTEGER,
		TargetMass DOUBLE,
		Margin DOUBLE,
		PeakCount INTEGER
	);

	CREATE TABLE IF NOT EXISTS CandidateTable (
		CandidateId INTEGER PRIMARY KEY AUTOINCREMENT,
		RunId TEXT REFERENCES RunTable(RunId),
		Sequence TEXT,
		Length INTEGER,
		Score INTEGER,
		BCount INTEGER,
		YCount INTEGER,
		NeutralMass DOUBLE,
		MassDiff DOUBLE,
		DoublyProtonatedMZ DOUBLE,
		Accepted BOOL
	);

	CREATE TABLE IF NOT EXISTS IonTable (
		RunId TEXT REFERENCES RunTable(RunId),
		Sequence TEXT,
		Position INTEGER,
		BMass DOUBLE,
		YMass DOUBLE,
		BSingle BOOL,
		BDouble BOOL,
		YSingle BOOL,
		YDouble BOOL
	);

	CREATE TABLE IF NOT EXISTS HeaderTable (
		version INTEGER NOT NULL DEFAULT 0,
		CreationDate TEXT,
		LastModifiedDate TEXT,
		Description TEXT
	);
	`

	_, err := w.db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}

	return nil
}

// prepareStatements prepares SQL statements for batch insertion
func (w *Writer) prepareStatements() error {
	var err error

	w.runStmt, err = w.db.Prepare(`
		INSERT INTO RunTable (
			RunId, Command, CreationDate, TargetMZ, Charge, TargetMass, Margin, PeakCount
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare run statement: %w", err)
	}

	w.candidateStmt, err = w.db.Prepare(`
		INSERT INTO CandidateTable (
			RunId, Sequence, Length, Score, BCount, YCount,
			NeutralMass, MassDiff, DoublyProtonatedMZ, Accepted
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare candidate statement: %w", err)
	}

	w.ionStmt, err = w.db.Prepare(`
		INSERT INTO IonTable (
			RunId, Sequence, Position, BMass, YMass, BSingle, BDouble, YSingle, YDouble
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare ion statement: %w", err)
	}

	return nil
}

// BeginRun records a run and returns its identifier
func (w *Writer) BeginRun(command string, spec *core.Spectrum, targetMass float64) (string, error) {
	runID := uuid.NewString()

	_, err := w.runStmt.Exec(
		runID,
		command,
		time.Now().UTC().Format(runTimeFormat),
		spec.TargetMZ,
		spec.Charge,
		targetMass,
		spec.Margin,
		len(spec.Peaks),
	)
	if err != nil {
		return "", fmt.Errorf("failed to insert run: %w", err)
	}

	return runID, nil
}

// WriteCandidate writes one scored peptide
func (w *Writer) WriteCandidate(runID string, p *core.Peptide, r score.Result) error {
	_, err := w.candidateStmt.Exec(
		runID,
		p.Sequence(),
		p.Len(),
		r.Score,
		r.BCount,
		r.YCount,
		p.NeutralMass(),
		core.RoundFloat(r.MassDiff, massDiffPrecision),
		p.ChargedMass(2)/2,
		r.Accepted,
	)
	if err != nil {
		return fmt.Errorf("failed to insert candidate %s: %w", p.Sequence(), err)
	}
	return nil
}

// WriteIonTable writes every row of an ion table inside one transaction
func (w *Writer) WriteIonTable(runID, sequence string, t match.Table) error {
	tx, err := w.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	stmt := tx.Stmt(w.ionStmt)
	for _, row := range t.Rows {
		_, err := stmt.Exec(
			runID,
			sequence,
			row.Position,
			row.B,
			row.Y,
			row.BSingle,
			row.BDouble,
			row.YSingle,
			row.YDouble,
		)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to insert ion row %d of %s: %w", row.Position, sequence, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit ion table: %w", err)
	}
	return nil
}

// Finalize writes the header table and closes the database. Calling it
// again is a no-op.
func (w *Writer) Finalize() error {
	if w.closed {
		return nil
	}
	w.closed = true

	now := time.Now().Format(headerDateFormat)
	_, err := w.db.Exec(`
		INSERT INTO HeaderTable (version, CreationDate, LastModifiedDate, Description)
		VALUES (?, ?, ?, ?)
	`, schemaVersion, now, now, "pepscore report")
	if err != nil {
		w.db.Close()
		return fmt.Errorf("failed to insert header: %w", err)
	}

	// Close prepared statements
	for _, stmt := range []*sql.Stmt{w.runStmt, w.candidateStmt, w.ionStmt} {
		if stmt != nil {
			stmt.Close()
		}
	}

	// Close database
	if err := w.db.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}

	return nil
}

// Close closes the database connection (alias for Finalize)
func (w *Writer) Close() error {
	return w.Finalize()
}
