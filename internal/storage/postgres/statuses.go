package postgres

import (
	"context"

	"github.com/bernardito-luis/eurodelivery/internal/domain/model"
)

type statusRepository struct {
	storage *Storage
}

func (r *statusRepository) List(ctx context.Context) ([]model.StatusInfo, error) {
	const query = `SELECT id, name, description FROM purchase_order_status ORDER BY id`
	rows, err := r.storage.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]model.StatusInfo, 0, len(model.Statuses()))
	for rows.Next() {
		var info model.StatusInfo
		if err := rows.Scan(&info.ID, &info.Name, &info.Description); err != nil {
			return nil, err
		}
		result = append(result, info)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

type statusLogRepository struct {
	storage *Storage
}

func (r *statusLogRepository) ListByOrder(ctx context.Context, orderID int64) ([]model.StatusLog, error) {
	const query = `SELECT id, purchase_order_id, status_id, created_at
                   FROM status_log WHERE purchase_order_id=$1 ORDER BY created_at, id`
	rows, err := r.storage.pool.Query(ctx, query, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.StatusLog
	for rows.Next() {
		var l model.StatusLog
		if err := rows.Scan(&l.ID, &l.OrderID, &l.Status, &l.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
