package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/portapro/portapro-api/internal/model"
)

// ProjectRepo encapsulates all database queries for user-owned projects.
// Every lookup and mutation is scoped by the owner's user id; a project
// owned by someone else behaves exactly like a missing one.
type ProjectRepo struct {
	db *sql.DB
}

func NewProjectRepo(db *sql.DB) *ProjectRepo { return &ProjectRepo{db: db} }

// ProjectUpdate describes a partial project update. Nil fields stay
// untouched. URLs are appended to the existing list rather than replaced,
// matching the public API contract.
type ProjectUpdate struct {
	ProjectName   *string
	Category      *string
	DateAdded     *time.Time
	ToolsUsed     *[]string
	ProjectStatus *string
	URLs          []string
}

const projectColumns = "id, uid, user_id, project_name, category, date_added, tools_used, project_status, media, urls, created_at, updated_at"

type rowScanner interface{ Scan(dest ...any) error }

func scanProject(row rowScanner) (*model.Project, error) {
	var p model.Project
	var tools, urls string
	var media sql.NullString
	err := row.Scan(&p.ID, &p.UID, &p.UserID, &p.ProjectName, &p.Category, &p.DateAdded,
		&tools, &p.ProjectStatus, &media, &urls, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProjectNotFound
		}
		return nil, err
	}
	p.ToolsUsed = splitList(tools)
	p.URLs = splitList(urls)
	if media.Valid {
		if p.Media, err = decodeMedia(media.String); err != nil {
			return nil, err
		}
	}
	return &p, nil
}

// Create inserts a project and populates its ID and timestamps.
func (r *ProjectRepo) Create(ctx context.Context, p *model.Project) error {
	mediaJSON, err := encodeMedia(p.Media)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO projects (uid, user_id, project_name, category, date_added, tools_used, project_status, media, urls)
		 VALUES (?,?,?,?,?,?,?,NULLIF(?,''),?)`,
		p.UID, p.UserID, p.ProjectName, p.Category, p.DateAdded.Format("2006-01-02"),
		joinList(p.ToolsUsed), p.ProjectStatus, mediaJSON, joinList(p.URLs))
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = uint64(id)

	created, err := r.GetByUID(ctx, p.UserID, p.UID)
	if err != nil {
		return err
	}
	*p = *created
	return nil
}

// ListByUser returns all projects owned by the user, oldest first.
func (r *ProjectRepo) ListByUser(ctx context.Context, userID uint64) ([]*model.Project, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+projectColumns+" FROM projects WHERE user_id = ? ORDER BY id", userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// GetByUID fetches one project by its public uid, scoped to the owner.
func (r *ProjectRepo) GetByUID(ctx context.Context, userID uint64, uid string) (*model.Project, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+projectColumns+" FROM projects WHERE uid = ? AND user_id = ? LIMIT 1", uid, userID)
	return scanProject(row)
}

// Update merges the given fields into the project and returns the updated
// record. The read-merge-write is not transactional; concurrent updates to
// the same project race and the last write wins.
func (r *ProjectRepo) Update(ctx context.Context, userID uint64, uid string, upd ProjectUpdate) (*model.Project, error) {
	p, err := r.GetByUID(ctx, userID, uid)
	if err != nil {
		return nil, err
	}
	if upd.ProjectName != nil {
		p.ProjectName = *upd.ProjectName
	}
	if upd.Category != nil {
		p.Category = *upd.Category
	}
	if upd.DateAdded != nil {
		p.DateAdded = *upd.DateAdded
	}
	if upd.ToolsUsed != nil {
		p.ToolsUsed = *upd.ToolsUsed
	}
	if upd.ProjectStatus != nil {
		p.ProjectStatus = *upd.ProjectStatus
	}
	if len(upd.URLs) > 0 {
		p.URLs = append(p.URLs, upd.URLs...)
	}
	if err := r.save(ctx, p); err != nil {
		return nil, err
	}
	return r.GetByUID(ctx, userID, uid)
}

// AppendMedia adds uploaded attachments to the project's media list and
// returns the updated record.
func (r *ProjectRepo) AppendMedia(ctx context.Context, userID uint64, uid string, items []model.MediaItem) (*model.Project, error) {
	p, err := r.GetByUID(ctx, userID, uid)
	if err != nil {
		return nil, err
	}
	p.Media = append(p.Media, items...)
	if err := r.save(ctx, p); err != nil {
		return nil, err
	}
	return r.GetByUID(ctx, userID, uid)
}

// Delete removes a project owned by the user.
func (r *ProjectRepo) Delete(ctx context.Context, userID uint64, uid string) error {
	res, err := r.db.ExecContext(ctx,
		"DELETE FROM projects WHERE uid = ? AND user_id = ?", uid, userID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrProjectNotFound
	}
	return nil
}

func (r *ProjectRepo) save(ctx context.Context, p *model.Project) error {
	mediaJSON, err := encodeMedia(p.Media)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE projects
		 SET project_name = ?, category = ?, date_added = ?, tools_used = ?,
		     project_status = ?, media = NULLIF(?,''), urls = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND user_id = ?`,
		p.ProjectName, p.Category, p.DateAdded.Format("2006-01-02"), joinList(p.ToolsUsed),
		p.ProjectStatus, mediaJSON, joinList(p.URLs), p.ID, p.UserID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrProjectNotFound
	}
	return nil
}
