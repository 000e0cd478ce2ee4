package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	domainErrors "github.com/bernardito-luis/eurodelivery/internal/domain/errors"
	"github.com/bernardito-luis/eurodelivery/internal/domain/model"
)

type productRepository struct {
	storage *Storage
}

type rowQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const productColumns = `id, purchase_order_id, user_id, shop_link, product_link, vendor_code, name, color, size,
                        quantity, price, discount_code, discount_in_shop, note`

func insertProduct(ctx context.Context, q rowQuerier, p model.Product) (model.Product, error) {
	const query = `INSERT INTO product (purchase_order_id, user_id, shop_link, product_link, vendor_code, name, color, size,
                                        quantity, price, discount_code, discount_in_shop, note)
                   VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
                   RETURNING id`
	err := q.QueryRow(ctx, query,
		p.OrderID, p.UserID, p.ShopLink, p.ProductLink, p.VendorCode, p.Name, p.Color, p.Size,
		p.Quantity, p.Price, p.DiscountCode, p.DiscountInShop, p.Note,
	).Scan(&p.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation {
			return model.Product{}, domainErrors.ErrNotFound
		}
		return model.Product{}, fmt.Errorf("insert product: %w", err)
	}
	return p, nil
}

func scanProduct(row pgx.Row) (model.Product, error) {
	var p model.Product
	err := row.Scan(&p.ID, &p.OrderID, &p.UserID, &p.ShopLink, &p.ProductLink, &p.VendorCode, &p.Name, &p.Color, &p.Size,
		&p.Quantity, &p.Price, &p.DiscountCode, &p.DiscountInShop, &p.Note)
	return p, err
}

func (r *productRepository) Create(ctx context.Context, product model.Product) (*model.Product, error) {
	p, err := insertProduct(ctx, r.storage.pool, product)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *productRepository) ListByOrder(ctx context.Context, orderID int64) ([]model.Product, error) {
	grouped, err := r.ListByOrders(ctx, []int64{orderID})
	if err != nil {
		return nil, err
	}
	return grouped[orderID], nil
}

func (r *productRepository) ListByOrders(ctx context.Context, orderIDs []int64) (map[int64][]model.Product, error) {
	const query = `SELECT ` + productColumns + `
                   FROM product WHERE purchase_order_id = ANY($1) ORDER BY id`
	result := make(map[int64][]model.Product, len(orderIDs))
	if len(orderIDs) == 0 {
		return result, nil
	}

	rows, err := r.storage.pool.Query(ctx, query, orderIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		if p.OrderID != nil {
			result[*p.OrderID] = append(result[*p.OrderID], p)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
