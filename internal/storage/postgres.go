package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"

	"github.com/flickit-platform/assessment-api/internal/models"
)

// PostgresRepository implements Repository using PostgreSQL
type PostgresRepository struct {
	db *sql.DB
}

// PostgresConfig holds PostgreSQL connection configuration
type PostgresConfig struct {
	DSN          string
	MaxOpenConns int
	MaxIdleConns int
	MaxLifetime  time.Duration
}

// NewPostgresRepository opens a connection pool and verifies it with a ping
func NewPostgresRepository(ctx context.Context, cfg PostgresConfig) (*PostgresRepository, error) {
	db, err := sql.Open("postgres", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	} else {
		db.SetMaxOpenConns(25)
	}

	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	} else {
		db.SetMaxIdleConns(5)
	}

	if cfg.MaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.MaxLifetime)
	} else {
		db.SetConnMaxLifetime(30 * time.Minute)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresRepository{db: db}, nil
}

// NewRepository wraps an already opened database handle
func NewRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Ping checks database connectivity
func (r *PostgresRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// HealthCheck is Ping under the name the health registry expects
func (r *PostgresRepository) HealthCheck(ctx context.Context) error {
	return r.Ping(ctx)
}

// Close closes the database connection pool
func (r *PostgresRepository) Close() error {
	return r.db.Close()
}

// --- Kits ---

const kitColumns = `id, code, title, summary, about, is_active, is_private, creation_time, last_modification_date, expert_group_id, kit_version_id`

func scanKit(row interface{ Scan(...any) error }) (*models.AssessmentKit, error) {
	var kit models.AssessmentKit
	var kitVersionID sql.NullInt64

	err := row.Scan(
		&kit.ID,
		&kit.Code,
		&kit.Title,
		&kit.Summary,
		&kit.About,
		&kit.IsActive,
		&kit.IsPrivate,
		&kit.CreationTime,
		&kit.LastModificationDate,
		&kit.ExpertGroupID,
		&kitVersionID,
	)
	if err != nil {
		return nil, err
	}

	kit.KitVersionID = kitVersionID.Int64
	return &kit, nil
}

// GetKit retrieves an assessment kit by ID
func (r *PostgresRepository) GetKit(ctx context.Context, id int64) (*models.AssessmentKit, error) {
	query := `SELECT ` + kitColumns + ` FROM assessment_kits WHERE id = $1`

	kit, err := scanKit(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("assessment kit %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get assessment kit: %w", err)
	}

	return kit, nil
}

// ListKits returns kits matching filters, most recently modified first
func (r *PostgresRepository) ListKits(ctx context.Context, filters models.KitListFilters) ([]*models.AssessmentKit, error) {
	query := `SELECT ` + kitColumns + ` FROM assessment_kits WHERE 1=1`
	args := make([]any, 0, 3)
	argNum := 1

	if filters.ExpertGroupID > 0 {
		query += fmt.Sprintf(" AND expert_group_id = $%d", argNum)
		args = append(args, filters.ExpertGroupID)
		argNum++
	}

	query += " ORDER BY last_modification_date DESC, id"

	if filters.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argNum)
		args = append(args, filters.Limit)
		argNum++
	}

	if filters.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", argNum)
		args = append(args, filters.Offset)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list assessment kits: %w", err)
	}
	defer rows.Close()

	var kits []*models.AssessmentKit
	for rows.Next() {
		kit, err := scanKit(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan assessment kit: %w", err)
		}
		kits = append(kits, kit)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating assessment kits: %w", err)
	}

	return kits, nil
}

// KitTags returns the tags attached to a kit
func (r *PostgresRepository) KitTags(ctx context.Context, kitID int64) ([]models.Tag, error) {
	query := `
		SELECT t.id, t.code, t.title
		FROM kit_tags t
		JOIN assessment_kit_tags kt ON kt.tag_id = t.id
		WHERE kt.assessment_kit_id = $1
		ORDER BY t.id
	`

	rows, err := r.db.QueryContext(ctx, query, kitID)
	if err != nil {
		return nil, fmt.Errorf("failed to get kit tags: %w", err)
	}
	defer rows.Close()

	tags := make([]models.Tag, 0)
	for rows.Next() {
		var tag models.Tag
		if err := rows.Scan(&tag.ID, &tag.Code, &tag.Title); err != nil {
			return nil, fmt.Errorf("failed to scan kit tag: %w", err)
		}
		tags = append(tags, tag)
	}

	return tags, rows.Err()
}

// CountKitLikes returns the number of users who liked a kit
func (r *PostgresRepository) CountKitLikes(ctx context.Context, kitID int64) (int, error) {
	return r.count(ctx, "kit likes",
		`SELECT COUNT(*) FROM assessment_kit_likes WHERE assessment_kit_id = $1`, kitID)
}

// --- Expert groups ---

// GetExpertGroup retrieves an expert group by ID
func (r *PostgresRepository) GetExpertGroup(ctx context.Context, id int64) (*models.ExpertGroup, error) {
	query := `SELECT id, name, bio, about, picture, website FROM expert_groups WHERE id = $1`

	var group models.ExpertGroup
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&group.ID,
		&group.Name,
		&group.Bio,
		&group.About,
		&group.Picture,
		&group.Website,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("expert group %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get expert group: %w", err)
	}

	return &group, nil
}

// IsCoordinator reports whether the user coordinates the expert group
func (r *PostgresRepository) IsCoordinator(ctx context.Context, expertGroupID, userID int64) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM expert_group_coordinators
			WHERE expert_group_id = $1 AND user_id = $2
		)
	`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, expertGroupID, userID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check coordinator: %w", err)
	}

	return exists, nil
}

// --- Kit version contents ---

// ListSubjects returns the subjects of a kit version ordered by index
func (r *PostgresRepository) ListSubjects(ctx context.Context, kitVersionID int64) ([]models.AssessmentSubject, error) {
	query := `
		SELECT id, code, title, description, "index", kit_version_id
		FROM assessment_subjects
		WHERE kit_version_id = $1
		ORDER BY "index"
	`

	rows, err := r.db.QueryContext(ctx, query, kitVersionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list subjects: %w", err)
	}
	defer rows.Close()

	subjects := make([]models.AssessmentSubject, 0)
	for rows.Next() {
		var s models.AssessmentSubject
		if err := rows.Scan(&s.ID, &s.Code, &s.Title, &s.Description, &s.Index, &s.KitVersionID); err != nil {
			return nil, fmt.Errorf("failed to scan subject: %w", err)
		}
		subjects = append(subjects, s)
	}

	return subjects, rows.Err()
}

// SubjectAttributes loads the quality attributes of many subjects in one query,
// keyed by subject ID
func (r *PostgresRepository) SubjectAttributes(ctx context.Context, subjectIDs []int64) (map[int64][]models.QualityAttribute, error) {
	result := make(map[int64][]models.QualityAttribute, len(subjectIDs))
	if len(subjectIDs) == 0 {
		return result, nil
	}

	query := `
		SELECT sqa.assessment_subject_id, qa.id, qa.code, qa.title, qa.description, qa."index", qa.kit_version_id
		FROM subject_quality_attributes sqa
		JOIN quality_attributes qa ON qa.id = sqa.quality_attribute_id
		WHERE sqa.assessment_subject_id = ANY($1)
		ORDER BY qa."index", qa.id
	`

	rows, err := r.db.QueryContext(ctx, query, pq.Array(subjectIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to get subject attributes: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var subjectID int64
		var qa models.QualityAttribute
		if err := rows.Scan(&subjectID, &qa.ID, &qa.Code, &qa.Title, &qa.Description, &qa.Index, &qa.KitVersionID); err != nil {
			return nil, fmt.Errorf("failed to scan quality attribute: %w", err)
		}
		result[subjectID] = append(result[subjectID], qa)
	}

	return result, rows.Err()
}

// ListQuestionnaires returns the questionnaires of a kit version ordered by index
func (r *PostgresRepository) ListQuestionnaires(ctx context.Context, kitVersionID int64) ([]models.Questionnaire, error) {
	query := `
		SELECT id, code, title, description, "index", kit_version_id
		FROM questionnaires
		WHERE kit_version_id = $1
		ORDER BY "index"
	`

	rows, err := r.db.QueryContext(ctx, query, kitVersionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list questionnaires: %w", err)
	}
	defer rows.Close()

	questionnaires := make([]models.Questionnaire, 0)
	for rows.Next() {
		var q models.Questionnaire
		if err := rows.Scan(&q.ID, &q.Code, &q.Title, &q.Description, &q.Index, &q.KitVersionID); err != nil {
			return nil, fmt.Errorf("failed to scan questionnaire: %w", err)
		}
		questionnaires = append(questionnaires, q)
	}

	return questionnaires, rows.Err()
}

// ListMaturityLevels returns the maturity levels of a kit version ordered by value
func (r *PostgresRepository) ListMaturityLevels(ctx context.Context, kitVersionID int64) ([]models.MaturityLevel, error) {
	query := `
		SELECT id, code, title, value, kit_version_id
		FROM maturity_levels
		WHERE kit_version_id = $1
		ORDER BY value
	`

	rows, err := r.db.QueryContext(ctx, query, kitVersionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list maturity levels: %w", err)
	}
	defer rows.Close()

	levels := make([]models.MaturityLevel, 0)
	for rows.Next() {
		var ml models.MaturityLevel
		if err := rows.Scan(&ml.ID, &ml.Code, &ml.Title, &ml.Value, &ml.KitVersionID); err != nil {
			return nil, fmt.Errorf("failed to scan maturity level: %w", err)
		}
		levels = append(levels, ml)
	}

	return levels, rows.Err()
}

// ListLevelCompetences returns every competence of a kit version's levels with
// the title of the competence's target level resolved
func (r *PostgresRepository) ListLevelCompetences(ctx context.Context, kitVersionID int64) ([]models.LevelCompetence, error) {
	query := `
		SELECT lc.id, lc.maturity_level_id, lc.maturity_level_competence_id, target.title, lc.value
		FROM level_competences lc
		JOIN maturity_levels ml ON ml.id = lc.maturity_level_id
		JOIN maturity_levels target ON target.id = lc.maturity_level_competence_id
		WHERE ml.kit_version_id = $1
		ORDER BY lc.id
	`

	rows, err := r.db.QueryContext(ctx, query, kitVersionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list level competences: %w", err)
	}
	defer rows.Close()

	competences := make([]models.LevelCompetence, 0)
	for rows.Next() {
		var lc models.LevelCompetence
		if err := rows.Scan(&lc.ID, &lc.MaturityLevelID, &lc.TargetLevelID, &lc.TargetTitle, &lc.Value); err != nil {
			return nil, fmt.Errorf("failed to scan level competence: %w", err)
		}
		competences = append(competences, lc)
	}

	return competences, rows.Err()
}

// CountQuestionnaires counts the questionnaires of a kit version
func (r *PostgresRepository) CountQuestionnaires(ctx context.Context, kitVersionID int64) (int, error) {
	return r.count(ctx, "questionnaires",
		`SELECT COUNT(*) FROM questionnaires WHERE kit_version_id = $1`, kitVersionID)
}

// CountMaturityLevels counts the maturity levels of a kit version
func (r *PostgresRepository) CountMaturityLevels(ctx context.Context, kitVersionID int64) (int, error) {
	return r.count(ctx, "maturity levels",
		`SELECT COUNT(*) FROM maturity_levels WHERE kit_version_id = $1`, kitVersionID)
}

// CountQuestions counts the questions of all questionnaires in a kit version
func (r *PostgresRepository) CountQuestions(ctx context.Context, kitVersionID int64) (int, error) {
	return r.count(ctx, "questions", `
		SELECT COUNT(q.id)
		FROM questions q
		JOIN questionnaires qn ON qn.id = q.questionnaire_id
		WHERE qn.kit_version_id = $1
	`, kitVersionID)
}

// CountAttributes counts the distinct quality attributes linked to the
// subjects of a kit version
func (r *PostgresRepository) CountAttributes(ctx context.Context, kitVersionID int64) (int, error) {
	return r.count(ctx, "attributes", `
		SELECT COUNT(DISTINCT sqa.quality_attribute_id)
		FROM subject_quality_attributes sqa
		JOIN assessment_subjects s ON s.id = sqa.assessment_subject_id
		WHERE s.kit_version_id = $1
	`, kitVersionID)
}

// --- Spaces and users ---

// GetSpace retrieves a space by ID
func (r *PostgresRepository) GetSpace(ctx context.Context, id int64) (*models.Space, error) {
	query := `SELECT id, code, title, owner_id, last_modification_date FROM spaces WHERE id = $1`

	var space models.Space
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&space.ID,
		&space.Code,
		&space.Title,
		&space.OwnerID,
		&space.LastModificationDate,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("space %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get space: %w", err)
	}

	return &space, nil
}

// ListSpacesForUser returns the spaces the user is a member of
func (r *PostgresRepository) ListSpacesForUser(ctx context.Context, userID int64, limit, offset int) ([]*models.Space, error) {
	query := `
		SELECT s.id, s.code, s.title, s.owner_id, s.last_modification_date
		FROM spaces s
		JOIN space_members m ON m.space_id = s.id
		WHERE m.user_id = $1
		ORDER BY s.last_modification_date DESC, s.id
	`
	args := []any{userID}
	argNum := 2

	if limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argNum)
		args = append(args, limit)
		argNum++
	}

	if offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", argNum)
		args = append(args, offset)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list spaces: %w", err)
	}
	defer rows.Close()

	var spaces []*models.Space
	for rows.Next() {
		var space models.Space
		if err := rows.Scan(&space.ID, &space.Code, &space.Title, &space.OwnerID, &space.LastModificationDate); err != nil {
			return nil, fmt.Errorf("failed to scan space: %w", err)
		}
		spaces = append(spaces, &space)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating spaces: %w", err)
	}

	return spaces, nil
}

// CountSpaceMembers counts the member users of a space
func (r *PostgresRepository) CountSpaceMembers(ctx context.Context, spaceID int64) (int, error) {
	return r.count(ctx, "space members",
		`SELECT COUNT(*) FROM space_members WHERE space_id = $1`, spaceID)
}

// GetUser retrieves a user by ID
func (r *PostgresRepository) GetUser(ctx context.Context, id int64) (*models.User, error) {
	user, err := r.getUser(ctx, "id", id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("user %d: %w", id, ErrNotFound)
	}
	return user, nil
}

// FindUserByEmail looks a user up by email, case-insensitively. It returns
// nil without an error when no account uses the address.
func (r *PostgresRepository) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getUser(ctx, "LOWER(email)", strings.ToLower(email))
}

func (r *PostgresRepository) getUser(ctx context.Context, field string, value any) (*models.User, error) {
	query := fmt.Sprintf(`SELECT id, email, display_name, is_active FROM users WHERE %s = $1`, field)

	var user models.User
	err := r.db.QueryRowContext(ctx, query, value).Scan(
		&user.ID,
		&user.Email,
		&user.DisplayName,
		&user.IsActive,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &user, nil
}

func (r *PostgresRepository) count(ctx context.Context, what, query string, args ...any) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", what, err)
	}
	return n, nil
}
