package postgres

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"sewasaathi-backend/internal/domain"
	"sewasaathi-backend/internal/logger"
	"sewasaathi-backend/internal/repository"
)

type notificationRepository struct {
	db DBTX
}

func NewNotificationRepository(db DBTX) repository.NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(ctx context.Context, n *domain.Notification) (bool, error) {
	logger.EnterMethod("notificationRepository.Create", "userID", n.UserID, "type", n.Type, "dedupKey", n.DedupKey)

	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	var dedupKey sql.NullString
	if n.DedupKey != "" {
		dedupKey = sql.NullString{String: n.DedupKey, Valid: true}
	}

	query := `INSERT INTO notifications (id, type, message, user_id, send_date, is_read, dedup_key)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)
	          ON CONFLICT (dedup_key) DO NOTHING`
	logger.DatabaseCall("INSERT", "notifications", "userID", n.UserID)
	result, err := r.db.ExecContext(ctx, query, n.ID, n.Type, n.Message, n.UserID, n.SendDate, n.IsRead, dedupKey)
	if err != nil {
		logger.DatabaseResult("INSERT", 0, err, "userID", n.UserID)
		logger.ExitMethodWithError("notificationRepository.Create", err, "userID", n.UserID)
		return false, err
	}
	rows, err := result.RowsAffected()
	logger.DatabaseResult("INSERT", rows, err, "notificationID", n.ID)
	if err != nil {
		return false, err
	}

	logger.ExitMethod("notificationRepository.Create", "notificationID", n.ID, "created", rows == 1)
	return rows == 1, nil
}

const notificationSelect = `SELECT id, type, message, user_id, send_date, is_read, COALESCE(dedup_key, '') FROM notifications`

func scanNotification(row scanner) (*domain.Notification, error) {
	n := &domain.Notification{}
	if err := row.Scan(&n.ID, &n.Type, &n.Message, &n.UserID, &n.SendDate, &n.IsRead, &n.DedupKey); err != nil {
		return nil, err
	}
	return n, nil
}

func (r *notificationRepository) GetByID(ctx context.Context, id string) (*domain.Notification, error) {
	n, err := scanNotification(r.db.QueryRowContext(ctx, notificationSelect+` WHERE id = $1`, id))
	if err != nil {
		return nil, lookupErr(err, "notification", id)
	}
	return n, nil
}

func (r *notificationRepository) SetRead(ctx context.Context, id string, read bool) error {
	logger.DatabaseCall("UPDATE", "notifications", "notificationID", id, "read", read)
	result, err := r.db.ExecContext(ctx, `UPDATE notifications SET is_read = $1 WHERE id = $2`, read, id)
	if err != nil {
		logger.DatabaseResult("UPDATE", 0, err)
		return err
	}
	n, err := result.RowsAffected()
	logger.DatabaseResult("UPDATE", n, err)
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.NewError(domain.KindNotFound, "notification %s not found", id)
	}
	return nil
}

func (r *notificationRepository) ListByUser(ctx context.Context, userID string) ([]domain.Notification, error) {
	rows, err := r.db.QueryContext(ctx, notificationSelect+` WHERE user_id = $1 ORDER BY send_date DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notes []domain.Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, err
		}
		notes = append(notes, *n)
	}
	return notes, rows.Err()
}
