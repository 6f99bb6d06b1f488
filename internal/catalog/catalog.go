// Package catalog stores the materials and texture references of decoded
// models in a SQLite database so a library can be queried without
// re-reading every file.
package catalog

import (
	"context"
	"database/sql"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/blake2b"
	_ "modernc.org/sqlite"

	"github.com/ernie/threeds/internal/scene"
)

const schema = `
CREATE TABLE IF NOT EXISTS models (
	hash       TEXT PRIMARY KEY,
	path       TEXT NOT NULL,
	size       INTEGER NOT NULL,
	scan_id    TEXT NOT NULL,
	scanned_at TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS materials (
	model_hash TEXT NOT NULL,
	position   INTEGER NOT NULL,
	name       TEXT NOT NULL,
	PRIMARY KEY (model_hash, position)
);
CREATE TABLE IF NOT EXISTS textures (
	model_hash        TEXT NOT NULL,
	material_position INTEGER NOT NULL,
	name              TEXT NOT NULL,
	resolved          TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS textures_model ON textures (model_hash);
CREATE INDEX IF NOT EXISTS models_path ON models (path);
`

// Catalog is a SQLite-backed material catalog.
type Catalog struct {
	db *sql.DB
}

// Open opens or creates the catalog at path and applies the schema.
func Open(path string) (*Catalog, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	// :memory: databases are per connection.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate catalog: %w", err)
	}
	return &Catalog{db: db}, nil
}

// Close closes the database.
func (c *Catalog) Close() error {
	return c.db.Close()
}

// NewScanID returns a fresh identifier for one catalog scan.
func NewScanID() string {
	return uuid.NewString()
}

// Hash returns the hex blake2b-256 digest used as a model's key.
func Hash(data []byte) string {
	sum := blake2b.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Record stores a decoded model. resolved maps texture map names to the
// paths they resolved to; names absent from it are stored as unresolved.
// Recording the same content again replaces the earlier rows.
func (c *Catalog) Record(ctx context.Context, scanID, path string, data []byte, root *scene.Root, resolved map[string]string) (string, error) {
	hash := Hash(data)

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	for _, q := range []string{
		`DELETE FROM textures WHERE model_hash = ?`,
		`DELETE FROM materials WHERE model_hash = ?`,
		`DELETE FROM models WHERE hash = ?`,
	} {
		if _, err := tx.ExecContext(ctx, q, hash); err != nil {
			return "", fmt.Errorf("clear model %s: %w", path, err)
		}
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO models (hash, path, size, scan_id, scanned_at) VALUES (?, ?, ?, ?, ?)`,
		hash, path, len(data), scanID, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return "", fmt.Errorf("insert model %s: %w", path, err)
	}

	for i, info := range scene.Summarize(root) {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO materials (model_hash, position, name) VALUES (?, ?, ?)`,
			hash, i, info.Name); err != nil {
			return "", fmt.Errorf("insert material %q: %w", info.Name, err)
		}
		for _, tex := range info.Textures {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO textures (model_hash, material_position, name, resolved) VALUES (?, ?, ?, ?)`,
				hash, i, tex, resolved[tex]); err != nil {
				return "", fmt.Errorf("insert texture %q: %w", tex, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}
	return hash, nil
}

// Model is one catalogued model.
type Model struct {
	Hash   string `json:"hash" yaml:"hash"`
	Path   string `json:"path" yaml:"path"`
	Size   int64  `json:"size" yaml:"size"`
	ScanID string `json:"scan_id" yaml:"scan_id"`
}

// Material is one catalogued material with its texture count.
type Material struct {
	Model    string `json:"model" yaml:"model"`
	Name     string `json:"name" yaml:"name"`
	Textures int    `json:"textures" yaml:"textures"`
}

// Texture is one texture map reference.
type Texture struct {
	Model    string `json:"model" yaml:"model"`
	Material string `json:"material" yaml:"material"`
	Name     string `json:"name" yaml:"name"`
	Resolved string `json:"resolved,omitempty" yaml:"resolved,omitempty"`
}

// Models lists catalogued models ordered by path.
func (c *Catalog) Models(ctx context.Context) ([]Model, error) {
	rows, err := c.db.QueryContext(ctx, `SELECT hash, path, size, scan_id FROM models ORDER BY path, hash`)
	if err != nil {
		return nil, fmt.Errorf("query models: %w", err)
	}
	defer rows.Close()

	var out []Model
	for rows.Next() {
		var m Model
		if err := rows.Scan(&m.Hash, &m.Path, &m.Size, &m.ScanID); err != nil {
			return nil, fmt.Errorf("scan model: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// Materials lists every material ordered by model path and file position.
func (c *Catalog) Materials(ctx context.Context) ([]Material, error) {
	rows, err := c.db.QueryContext(ctx, `
		SELECT m.path, mat.name, COUNT(t.name)
		FROM materials mat
		JOIN models m ON m.hash = mat.model_hash
		LEFT JOIN textures t ON t.model_hash = mat.model_hash AND t.material_position = mat.position
		GROUP BY mat.model_hash, mat.position
		ORDER BY m.path, mat.position`)
	if err != nil {
		return nil, fmt.Errorf("query materials: %w", err)
	}
	defer rows.Close()

	var out []Material
	for rows.Next() {
		var m Material
		if err := rows.Scan(&m.Model, &m.Name, &m.Textures); err != nil {
			return nil, fmt.Errorf("scan material: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// Textures lists texture references. With missingOnly, only references
// that did not resolve are returned.
func (c *Catalog) Textures(ctx context.Context, missingOnly bool) ([]Texture, error) {
	q := `
		SELECT m.path, mat.name, t.name, t.resolved
		FROM textures t
		JOIN models m ON m.hash = t.model_hash
		JOIN materials mat ON mat.model_hash = t.model_hash AND mat.position = t.material_position`
	if missingOnly {
		q += ` WHERE t.resolved = ''`
	}
	q += ` ORDER BY m.path, t.material_position, t.name`

	rows, err := c.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("query textures: %w", err)
	}
	defer rows.Close()

	var out []Texture
	for rows.Next() {
		var t Texture
		if err := rows.Scan(&t.Model, &t.Material, &t.Name, &t.Resolved); err != nil {
			return nil, fmt.Errorf("scan texture: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
