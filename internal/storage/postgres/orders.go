package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	domainErrors "github.com/bernardito-luis/eurodelivery/internal/domain/errors"
	"github.com/bernardito-luis/eurodelivery/internal/domain/model"
	"github.com/bernardito-luis/eurodelivery/internal/domain/repository"
)

type orderRepository struct {
	storage *Storage
}

const orderColumns = `id, user_id, status_id, shipping_cost, fee, coupon, discount, user_comment, admin_comment, created_at`

func scanOrder(row pgx.Row) (model.PurchaseOrder, error) {
	var o model.PurchaseOrder
	err := row.Scan(&o.ID, &o.UserID, &o.Status, &o.ShippingCost, &o.Fee, &o.Coupon, &o.Discount, &o.UserComment, &o.AdminComment, &o.CreatedAt)
	return o, err
}

func (r *orderRepository) Create(ctx context.Context, order model.PurchaseOrder, products []model.Product) (*model.PurchaseOrder, error) {
	const insertOrder = `INSERT INTO purchase_order (user_id, status_id, shipping_cost, fee, coupon, discount, user_comment)
                         VALUES ($1, $2, $3, $4, $5, $6, $7)
                         RETURNING id, created_at`

	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, insertOrder,
			order.UserID, order.Status, order.ShippingCost, order.Fee, order.Coupon, order.Discount, order.UserComment,
		).Scan(&order.ID, &order.CreatedAt)
		if err != nil {
			return fmt.Errorf("insert order: %w", err)
		}

		for i := range products {
			products[i].OrderID = &order.ID
			if _, err := insertProduct(ctx, tx, products[i]); err != nil {
				return err
			}
		}

		if _, err := insertStatusLog(ctx, tx, order.ID, order.Status); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) GetByID(ctx context.Context, id int64) (*model.PurchaseOrder, error) {
	const query = `SELECT ` + orderColumns + ` FROM purchase_order WHERE id=$1`
	order, err := scanOrder(r.storage.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) ListByUser(ctx context.Context, userID int64, statuses []model.Status) ([]model.PurchaseOrder, error) {
	const query = `SELECT ` + orderColumns + `
                   FROM purchase_order
                   WHERE user_id=$1 AND status_id = ANY($2)
                   ORDER BY created_at DESC, id DESC`
	ids := make([]int16, 0, len(statuses))
	for _, st := range statuses {
		ids = append(ids, int16(st))
	}

	rows, err := r.storage.pool.Query(ctx, query, userID, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.PurchaseOrder
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// TransitionStatus reads the persisted status without row locks; concurrent
// transitions on one order race and the last writer wins.
func (r *orderRepository) TransitionStatus(ctx context.Context, orderID int64, status model.Status, onChange repository.TransitionFunc) (*model.StatusTransition, error) {
	const selectCurrent = `SELECT o.status_id, o.user_id, u.email
                           FROM purchase_order o JOIN users u ON u.id = o.user_id
                           WHERE o.id=$1`
	const updateStatus = `UPDATE purchase_order SET status_id=$1 WHERE id=$2`

	var transition *model.StatusTransition
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		t := model.StatusTransition{OrderID: orderID, To: status}
		if err := tx.QueryRow(ctx, selectCurrent, orderID).Scan(&t.From, &t.OwnerID, &t.OwnerEmail); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domainErrors.ErrNotFound
			}
			return fmt.Errorf("read order status: %w", err)
		}
		if t.From == status {
			return nil
		}

		if _, err := tx.Exec(ctx, updateStatus, status, orderID); err != nil {
			return fmt.Errorf("update order status: %w", err)
		}
		entry, err := insertStatusLog(ctx, tx, orderID, status)
		if err != nil {
			return err
		}
		t.Log = entry

		if onChange != nil {
			if err := onChange(ctx, t, &outboxWriter{tx: tx}); err != nil {
				return err
			}
		}
		transition = &t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return transition, nil
}

func (r *orderRepository) UpdateAdminComment(ctx context.Context, orderID int64, comment string) error {
	const query = `UPDATE purchase_order SET admin_comment=$1 WHERE id=$2`
	tag, err := r.storage.pool.Exec(ctx, query, comment, orderID)
	if err != nil {
		return fmt.Errorf("update admin comment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

func insertStatusLog(ctx context.Context, tx pgx.Tx, orderID int64, status model.Status) (model.StatusLog, error) {
	const query = `INSERT INTO status_log (purchase_order_id, status_id) VALUES ($1, $2) RETURNING id, created_at`
	entry := model.StatusLog{OrderID: orderID, Status: status}
	if err := tx.QueryRow(ctx, query, orderID, status).Scan(&entry.ID, &entry.CreatedAt); err != nil {
		return model.StatusLog{}, fmt.Errorf("insert status log: %w", err)
	}
	return entry, nil
}
