package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dailydiet/backend/internal/models"
)

// PostgresStore handles user and meal CRUD against PostgreSQL.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// ── Users ────────────────────────────────────────────────────────────

func (s *PostgresStore) CreateUser(ctx context.Context, id, name, email, sessionID string) (*models.User, error) {
	var u models.User
	err := s.pool.QueryRow(ctx,
		`INSERT INTO users (user_id, name, email, session_id)
		 VALUES ($1, $2, $3, $4)
		 RETURNING user_id, name, email, session_id, created_at`,
		id, name, email, sessionID,
	).Scan(&u.ID, &u.Name, &u.Email, &u.SessionID, &u.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return &u, nil
}

// ListUsersBySession returns every user registered under the session.
func (s *PostgresStore) ListUsersBySession(ctx context.Context, sessionID string) ([]models.User, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT user_id, name, email, session_id, created_at
		 FROM users WHERE session_id = $1
		 ORDER BY created_at, user_id`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.SessionID, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// GetUser fetches the user matching both id and session. A miss is not an
// error: callers get (nil, nil) and surface an empty result.
func (s *PostgresStore) GetUser(ctx context.Context, userID, sessionID string) (*models.User, error) {
	var u models.User
	err := s.pool.QueryRow(ctx,
		`SELECT user_id, name, email, session_id, created_at
		 FROM users WHERE user_id = $1 AND session_id = $2`,
		userID, sessionID,
	).Scan(&u.ID, &u.Name, &u.Email, &u.SessionID, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &u, nil
}

// ── Meals ────────────────────────────────────────────────────────────

func (s *PostgresStore) InsertMeal(ctx context.Context, m *models.Meal) error {
	err := s.pool.QueryRow(ctx,
		`INSERT INTO meals (meal_id, user_id, session_id, name, description, date, fulfil_diet)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING created_at`,
		m.ID, m.UserID, m.SessionID, m.Name, m.Description, m.Date, m.FulfilDiet,
	).Scan(&m.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert meal: %w", err)
	}
	return nil
}

// ListMealsByUser returns the user's meals for the session in creation
// order, which the streak scan depends on.
func (s *PostgresStore) ListMealsByUser(ctx context.Context, userID, sessionID string) ([]models.Meal, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT meal_id, user_id, session_id, name, description, date, fulfil_diet, photo_key, created_at
		 FROM meals WHERE user_id = $1 AND session_id = $2
		 ORDER BY created_at, meal_id`, userID, sessionID)
	if err != nil {
		return nil, fmt.Errorf("list meals: %w", err)
	}
	defer rows.Close()

	var meals []models.Meal
	for rows.Next() {
		var m models.Meal
		if err := rows.Scan(&m.ID, &m.UserID, &m.SessionID, &m.Name, &m.Description,
			&m.Date, &m.FulfilDiet, &m.PhotoKey, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan meal: %w", err)
		}
		meals = append(meals, m)
	}
	return meals, rows.Err()
}

// GetMeal fetches a meal by id alone so handlers can tell a missing row
// from one owned by somebody else. (nil, nil) means no such meal.
func (s *PostgresStore) GetMeal(ctx context.Context, mealID string) (*models.Meal, error) {
	var m models.Meal
	err := s.pool.QueryRow(ctx,
		`SELECT meal_id, user_id, session_id, name, description, date, fulfil_diet, photo_key, created_at
		 FROM meals WHERE meal_id = $1`, mealID,
	).Scan(&m.ID, &m.UserID, &m.SessionID, &m.Name, &m.Description,
		&m.Date, &m.FulfilDiet, &m.PhotoKey, &m.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get meal: %w", err)
	}
	return &m, nil
}

// UpdateMeal replaces the mutable fields of the row matching the full
// (meal, user, session) triple and reports how many rows matched.
func (s *PostgresStore) UpdateMeal(ctx context.Context, m *models.Meal) (int64, error) {
	tag, err := s.pool.Exec(ctx,
		`UPDATE meals SET name = $1, description = $2, date = $3, fulfil_diet = $4
		 WHERE meal_id = $5 AND user_id = $6 AND session_id = $7`,
		m.Name, m.Description, m.Date, m.FulfilDiet, m.ID, m.UserID, m.SessionID)
	if err != nil {
		return 0, fmt.Errorf("update meal: %w", err)
	}
	return tag.RowsAffected(), nil
}

// DeleteMeal removes the matching row. Deleting a row that does not exist
// is not an error.
func (s *PostgresStore) DeleteMeal(ctx context.Context, mealID, userID, sessionID string) error {
	_, err := s.pool.Exec(ctx,
		`DELETE FROM meals WHERE meal_id = $1 AND user_id = $2 AND session_id = $3`,
		mealID, userID, sessionID)
	if err != nil {
		return fmt.Errorf("delete meal: %w", err)
	}
	return nil
}

// SetMealPhoto records the object key of an uploaded photo.
func (s *PostgresStore) SetMealPhoto(ctx context.Context, mealID, key string) error {
	_, err := s.pool.Exec(ctx,
		`UPDATE meals SET photo_key = $1 WHERE meal_id = $2`, key, mealID)
	if err != nil {
		return fmt.Errorf("set meal photo: %w", err)
	}
	return nil
}
