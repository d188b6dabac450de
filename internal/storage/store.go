// Package storage implements content.Store on top of sqlx for PostgreSQL and SQLite.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/m3rciful/servicebot/core/logger"
	"github.com/m3rciful/servicebot/internal/content"
)

// Store is a sqlx backed content.Store. Queries are written with '?' and rebound per driver.
type Store struct {
	db  *sqlx.DB
	now func() time.Time
}

var _ content.Store = (*Store)(nil)

// Option customises a Store.
type Option func(*Store)

// WithClock replaces the wall clock used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// New wraps an open database.
func New(db *sqlx.DB, opts ...Option) *Store {
	s := &Store{db: db, now: time.Now}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *Store) q(query string) string { return s.db.Rebind(query) }

func (s *Store) stamp() int64 { return s.now().UTC().Unix() }

func fromUnix(v int64) time.Time {
	if v == 0 {
		return time.Time{}
	}
	return time.Unix(v, 0).UTC()
}

// fail logs a storage error and wraps it with the operation name. sql.ErrNoRows becomes content.ErrNotFound.
func (s *Store) fail(ctx context.Context, op string, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return content.ErrNotFound
	}
	logger.Warn(ctx, logger.CompContent, "db.query",
		slog.String("status", "fail"),
		slog.String("op", op),
		logger.Err(err),
	)
	return fmt.Errorf("storage: %s: %w", op, err)
}

func (s *Store) execOne(ctx context.Context, op, query string, args ...any) error {
	res, err := s.db.ExecContext(ctx, s.q(query), args...)
	if err != nil {
		return s.fail(ctx, op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return s.fail(ctx, op, err)
	}
	if n == 0 {
		return content.ErrNotFound
	}
	return nil
}

func (s *Store) insertID(ctx context.Context, op, query string, args ...any) (int64, error) {
	var id int64
	if err := s.db.QueryRowxContext(ctx, s.q(query), args...).Scan(&id); err != nil {
		return 0, s.fail(ctx, op, err)
	}
	return id, nil
}

// Texts.

type textRow struct {
	Type      string `db:"type"`
	Content   string `db:"content"`
	UpdatedAt int64  `db:"updated_at"`
}

// GetText returns the text block stored under key.
func (s *Store) GetText(ctx context.Context, key content.TextKey) (content.Text, error) {
	var r textRow
	err := s.db.GetContext(ctx, &r, s.q(`SELECT type, content, updated_at FROM bot_texts WHERE type = ?`), string(key))
	if err != nil {
		return content.Text{}, s.fail(ctx, "get_text", err)
	}
	return content.Text{Key: content.TextKey(r.Type), Body: r.Content, UpdatedAt: fromUnix(r.UpdatedAt)}, nil
}

// PutText upserts the text block.
func (s *Store) PutText(ctx context.Context, key content.TextKey, body string) error {
	_, err := s.db.ExecContext(ctx, s.q(`
		INSERT INTO bot_texts (type, content, updated_at) VALUES (?, ?, ?)
		ON CONFLICT (type) DO UPDATE SET content = excluded.content, updated_at = excluded.updated_at`),
		string(key), body, s.stamp())
	if err != nil {
		return s.fail(ctx, "put_text", err)
	}
	return nil
}

// Images.

type imageRow struct {
	Type      string `db:"type"`
	FileID    string `db:"file_id"`
	UpdatedAt int64  `db:"updated_at"`
}

// GetImage returns the image stored under key.
func (s *Store) GetImage(ctx context.Context, key content.ImageKey) (content.Image, error) {
	var r imageRow
	err := s.db.GetContext(ctx, &r, s.q(`SELECT type, file_id, updated_at FROM bot_images WHERE type = ?`), string(key))
	if err != nil {
		return content.Image{}, s.fail(ctx, "get_image", err)
	}
	return content.Image{Key: content.ImageKey(r.Type), FileRef: r.FileID, UpdatedAt: fromUnix(r.UpdatedAt)}, nil
}

// PutImage upserts the image reference.
func (s *Store) PutImage(ctx context.Context, key content.ImageKey, fileRef string) error {
	_, err := s.db.ExecContext(ctx, s.q(`
		INSERT INTO bot_images (type, file_id, updated_at) VALUES (?, ?, ?)
		ON CONFLICT (type) DO UPDATE SET file_id = excluded.file_id, updated_at = excluded.updated_at`),
		string(key), fileRef, s.stamp())
	if err != nil {
		return s.fail(ctx, "put_image", err)
	}
	return nil
}

// DeleteImage removes the image stored under key.
func (s *Store) DeleteImage(ctx context.Context, key content.ImageKey) error {
	return s.execOne(ctx, "delete_image", `DELETE FROM bot_images WHERE type = ?`, string(key))
}

// Router files.

type routerFileRow struct {
	ID          int64  `db:"id"`
	Type        string `db:"type"`
	RouterName  string `db:"router_name"`
	FileID      string `db:"file_id"`
	Description string `db:"description"`
	FileName    string `db:"file_name"`
	Media       string `db:"media"`
	CreatedAt   int64  `db:"created_at"`
}

func (r routerFileRow) record() content.RouterFile {
	return content.RouterFile{
		ID:          r.ID,
		Connection:  content.Connection(r.Type),
		Name:        r.RouterName,
		FileRef:     r.FileID,
		Description: r.Description,
		FileName:    r.FileName,
		Media:       content.Media(r.Media),
		CreatedAt:   fromUnix(r.CreatedAt),
	}
}

const routerFileCols = `id, type, router_name, file_id, description, file_name, media, created_at`

// AddRouterFile inserts a router file and returns its id.
func (s *Store) AddRouterFile(ctx context.Context, f content.RouterFile) (int64, error) {
	media := f.Media
	if media == "" {
		media = content.MediaDocument
	}
	return s.insertID(ctx, "add_router_file", `
		INSERT INTO router_files (type, router_name, file_id, description, file_name, media, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?) RETURNING id`,
		string(f.Connection), f.Name, f.FileRef, f.Description, f.FileName, string(media), s.stamp())
}

// GetRouterFile loads a router file by id.
func (s *Store) GetRouterFile(ctx context.Context, id int64) (content.RouterFile, error) {
	var r routerFileRow
	if err := s.db.GetContext(ctx, &r, s.q(`SELECT `+routerFileCols+` FROM router_files WHERE id = ?`), id); err != nil {
		return content.RouterFile{}, s.fail(ctx, "get_router_file", err)
	}
	return r.record(), nil
}

// ListRouterFiles lists files for conn, or all files when conn is empty.
func (s *Store) ListRouterFiles(ctx context.Context, conn content.Connection) ([]content.RouterFile, error) {
	var rows []routerFileRow
	var err error
	if conn == "" {
		err = s.db.SelectContext(ctx, &rows, s.q(`SELECT `+routerFileCols+` FROM router_files ORDER BY type, id`))
	} else {
		err = s.db.SelectContext(ctx, &rows, s.q(`SELECT `+routerFileCols+` FROM router_files WHERE type = ? ORDER BY id`), string(conn))
	}
	if err != nil {
		return nil, s.fail(ctx, "list_router_files", err)
	}
	out := make([]content.RouterFile, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.record())
	}
	return out, nil
}

// DeleteRouterFile removes a router file.
func (s *Store) DeleteRouterFile(ctx context.Context, id int64) error {
	return s.execOne(ctx, "delete_router_file", `DELETE FROM router_files WHERE id = ?`, id)
}

// Packages.

type packageRow struct {
	ID        int64  `db:"id"`
	Name      string `db:"name"`
	Price     string `db:"price"`
	Speed     string `db:"speed"`
	Features  string `db:"features"`
	CreatedAt int64  `db:"created_at"`
}

func (r packageRow) record() (content.Package, error) {
	var features []string
	if r.Features != "" {
		if err := json.Unmarshal([]byte(r.Features), &features); err != nil {
			return content.Package{}, fmt.Errorf("package %d features: %w", r.ID, err)
		}
	}
	return content.Package{
		ID:        r.ID,
		Name:      r.Name,
		Price:     r.Price,
		Speed:     r.Speed,
		Features:  features,
		CreatedAt: fromUnix(r.CreatedAt),
	}, nil
}

const packageCols = `id, name, price, speed, features, created_at`

// AddPackage inserts a package and returns its id. Features are stored as a JSON array.
func (s *Store) AddPackage(ctx context.Context, p content.Package) (int64, error) {
	features := p.Features
	if features == nil {
		features = []string{}
	}
	raw, err := json.Marshal(features)
	if err != nil {
		return 0, fmt.Errorf("storage: encode features: %w", err)
	}
	return s.insertID(ctx, "add_package", `
		INSERT INTO packages (name, price, speed, features, created_at)
		VALUES (?, ?, ?, ?, ?) RETURNING id`,
		p.Name, p.Price, p.Speed, string(raw), s.stamp())
}

// GetPackage loads a package by id.
func (s *Store) GetPackage(ctx context.Context, id int64) (content.Package, error) {
	var r packageRow
	if err := s.db.GetContext(ctx, &r, s.q(`SELECT `+packageCols+` FROM packages WHERE id = ?`), id); err != nil {
		return content.Package{}, s.fail(ctx, "get_package", err)
	}
	p, err := r.record()
	if err != nil {
		return content.Package{}, s.fail(ctx, "get_package", err)
	}
	return p, nil
}

// ListPackages lists packages in creation order.
func (s *Store) ListPackages(ctx context.Context) ([]content.Package, error) {
	var rows []packageRow
	if err := s.db.SelectContext(ctx, &rows, s.q(`SELECT `+packageCols+` FROM packages ORDER BY id`)); err != nil {
		return nil, s.fail(ctx, "list_packages", err)
	}
	out := make([]content.Package, 0, len(rows))
	for _, r := range rows {
		p, err := r.record()
		if err != nil {
			return nil, s.fail(ctx, "list_packages", err)
		}
		out = append(out, p)
	}
	return out, nil
}

// DeletePackage removes a package.
func (s *Store) DeletePackage(ctx context.Context, id int64) error {
	return s.execOne(ctx, "delete_package", `DELETE FROM packages WHERE id = ?`, id)
}

// FAQ.

type faqRow struct {
	ID        int64  `db:"id"`
	Question  string `db:"question"`
	Answer    string `db:"answer"`
	CreatedAt int64  `db:"created_at"`
}

func (r faqRow) record() content.FAQItem {
	return content.FAQItem{ID: r.ID, Question: r.Question, Answer: r.Answer, CreatedAt: fromUnix(r.CreatedAt)}
}

// AddFAQ inserts a FAQ item and returns its id.
func (s *Store) AddFAQ(ctx context.Context, item content.FAQItem) (int64, error) {
	return s.insertID(ctx, "add_faq", `INSERT INTO faq (question, answer, created_at) VALUES (?, ?, ?) RETURNING id`,
		item.Question, item.Answer, s.stamp())
}

// GetFAQ loads a FAQ item by id.
func (s *Store) GetFAQ(ctx context.Context, id int64) (content.FAQItem, error) {
	var r faqRow
	if err := s.db.GetContext(ctx, &r, s.q(`SELECT id, question, answer, created_at FROM faq WHERE id = ?`), id); err != nil {
		return content.FAQItem{}, s.fail(ctx, "get_faq", err)
	}
	return r.record(), nil
}

// ListFAQ lists FAQ items in creation order.
func (s *Store) ListFAQ(ctx context.Context) ([]content.FAQItem, error) {
	var rows []faqRow
	if err := s.db.SelectContext(ctx, &rows, s.q(`SELECT id, question, answer, created_at FROM faq ORDER BY id`)); err != nil {
		return nil, s.fail(ctx, "list_faq", err)
	}
	out := make([]content.FAQItem, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.record())
	}
	return out, nil
}

// DeleteFAQ removes a FAQ item.
func (s *Store) DeleteFAQ(ctx context.Context, id int64) error {
	return s.execOne(ctx, "delete_faq", `DELETE FROM faq WHERE id = ?`, id)
}

// Admins.

type adminRow struct {
	UserID   int64  `db:"user_id"`
	Username string `db:"username"`
	AddedAt  int64  `db:"added_at"`
}

func (r adminRow) record() content.AdminEntry {
	return content.AdminEntry{UserID: r.UserID, DisplayName: r.Username, AddedAt: fromUnix(r.AddedAt)}
}

// AddAdmin inserts an admin; an existing user id yields content.ErrExists.
func (s *Store) AddAdmin(ctx context.Context, a content.AdminEntry) error {
	res, err := s.db.ExecContext(ctx, s.q(`
		INSERT INTO admins (user_id, username, added_at) VALUES (?, ?, ?)
		ON CONFLICT (user_id) DO NOTHING`),
		a.UserID, a.DisplayName, s.stamp())
	if err != nil {
		return s.fail(ctx, "add_admin", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return content.ErrExists
	}
	return nil
}

// GetAdmin loads an admin by user id.
func (s *Store) GetAdmin(ctx context.Context, userID int64) (content.AdminEntry, error) {
	var r adminRow
	if err := s.db.GetContext(ctx, &r, s.q(`SELECT user_id, username, added_at FROM admins WHERE user_id = ?`), userID); err != nil {
		return content.AdminEntry{}, s.fail(ctx, "get_admin", err)
	}
	return r.record(), nil
}

// ListAdmins lists admins in the order they were added.
func (s *Store) ListAdmins(ctx context.Context) ([]content.AdminEntry, error) {
	var rows []adminRow
	if err := s.db.SelectContext(ctx, &rows, s.q(`SELECT user_id, username, added_at FROM admins ORDER BY added_at, user_id`)); err != nil {
		return nil, s.fail(ctx, "list_admins", err)
	}
	out := make([]content.AdminEntry, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.record())
	}
	return out, nil
}

// DeleteAdmin removes an admin.
func (s *Store) DeleteAdmin(ctx context.Context, userID int64) error {
	return s.execOne(ctx, "delete_admin", `DELETE FROM admins WHERE user_id = ?`, userID)
}

// Usage statistics.

type userRow struct {
	UserID     int64  `db:"user_id"`
	Username   string `db:"username"`
	FirstName  string `db:"first_name"`
	LastName   string `db:"last_name"`
	UsageCount int64  `db:"usage_count"`
	FirstSeen  int64  `db:"first_seen"`
	LastSeen   int64  `db:"last_seen"`
}

// BumpUsage records an interaction of userID.
func (s *Store) BumpUsage(ctx context.Context, userID int64, p content.Profile) error {
	now := s.stamp()
	_, err := s.db.ExecContext(ctx, s.q(`
		INSERT INTO user_stats (user_id, username, first_name, last_name, usage_count, first_seen, last_seen)
		VALUES (?, ?, ?, ?, 1, ?, ?)
		ON CONFLICT (user_id) DO UPDATE SET
			username = excluded.username,
			first_name = excluded.first_name,
			last_name = excluded.last_name,
			usage_count = user_stats.usage_count + 1,
			last_seen = excluded.last_seen`),
		userID, p.Username, p.FirstName, p.LastName, now, now)
	if err != nil {
		return s.fail(ctx, "bump_usage", err)
	}
	return nil
}

// CountUsers returns the number of known users.
func (s *Store) CountUsers(ctx context.Context) (int, error) {
	var n int
	if err := s.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM user_stats`); err != nil {
		return 0, s.fail(ctx, "count_users", err)
	}
	return n, nil
}

// ListUsers returns users by most recent activity; limit <= 0 returns all.
func (s *Store) ListUsers(ctx context.Context, limit int) ([]content.UserStat, error) {
	query := `SELECT user_id, username, first_name, last_name, usage_count, first_seen, last_seen
		FROM user_stats ORDER BY last_seen DESC, user_id`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	var rows []userRow
	if err := s.db.SelectContext(ctx, &rows, s.q(query), args...); err != nil {
		return nil, s.fail(ctx, "list_users", err)
	}
	out := make([]content.UserStat, 0, len(rows))
	for _, r := range rows {
		out = append(out, content.UserStat{
			UserID:     r.UserID,
			Profile:    content.Profile{Username: r.Username, FirstName: r.FirstName, LastName: r.LastName},
			UsageCount: r.UsageCount,
			FirstSeen:  fromUnix(r.FirstSeen),
			LastSeen:   fromUnix(r.LastSeen),
		})
	}
	return out, nil
}

type statsRow struct {
	Users     int   `db:"users"`
	Usage     int64 `db:"usage"`
	ADSLFiles int   `db:"adsl_files"`
	FTTHFiles int   `db:"ftth_files"`
	Packages  int   `db:"packages"`
	FAQ       int   `db:"faq"`
	Admins    int   `db:"admins"`
	Images    int   `db:"images"`
	Texts     int   `db:"texts"`
}

// Stats aggregates catalogue and usage counters in one round trip.
func (s *Store) Stats(ctx context.Context) (content.Stats, error) {
	var r statsRow
	err := s.db.GetContext(ctx, &r, `SELECT
		(SELECT COUNT(*) FROM user_stats) AS users,
		(SELECT COALESCE(SUM(usage_count), 0) FROM user_stats) AS usage,
		(SELECT COUNT(*) FROM router_files WHERE type = 'adsl') AS adsl_files,
		(SELECT COUNT(*) FROM router_files WHERE type = 'ftth') AS ftth_files,
		(SELECT COUNT(*) FROM packages) AS packages,
		(SELECT COUNT(*) FROM faq) AS faq,
		(SELECT COUNT(*) FROM admins) AS admins,
		(SELECT COUNT(*) FROM bot_images) AS images,
		(SELECT COUNT(*) FROM bot_texts) AS texts`)
	if err != nil {
		return content.Stats{}, s.fail(ctx, "stats", err)
	}
	return content.Stats(r), nil
}

// Settings.

// GetSetting returns a stored setting value.
func (s *Store) GetSetting(ctx context.Context, key string) (string, error) {
	var v string
	if err := s.db.GetContext(ctx, &v, s.q(`SELECT value FROM bot_settings WHERE key = ?`), key); err != nil {
		return "", s.fail(ctx, "get_setting", err)
	}
	return v, nil
}

// PutSetting upserts a setting value.
func (s *Store) PutSetting(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, s.q(`
		INSERT INTO bot_settings (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`),
		key, value, s.stamp())
	if err != nil {
		return s.fail(ctx, "put_setting", err)
	}
	return nil
}
