package store

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/ariefcatur/go-eshop-core.git/internal/catalog"
	"github.com/ariefcatur/go-eshop-core.git/internal/money"
)

type ProductRepo struct {
	db DB
}

func (r ProductRepo) ByID(ctx context.Context, id string) (*catalog.Product, error) {
	return r.one(ctx, `WHERE id=$1`, id)
}

func (r ProductRepo) BySKU(ctx context.Context, sku string) (*catalog.Product, error) {
	return r.one(ctx, `WHERE sku=$1`, sku)
}

func (r ProductRepo) one(ctx context.Context, where string, arg any) (*catalog.Product, error) {
	var (
		p           catalog.Product
		skuRaw      string
		amountRaw   string
		currencyRaw string
	)
	err := r.db.QueryRow(ctx, `
		SELECT id, name, sku, price_amount::text, price_currency, manufactured_from, shipped_from
		FROM products `+where, arg).
		Scan(&p.ID, &p.Name, &skuRaw, &amountRaw, &currencyRaw, &p.ManufacturedFrom, &p.ShippedFrom)
	if err != nil {
		return nil, fmt.Errorf("load product: %w", err)
	}
	if p.SKU, err = catalog.NewSKU(skuRaw); err != nil {
		return nil, err
	}
	amount, err := decimal.NewFromString(amountRaw)
	if err != nil {
		return nil, fmt.Errorf("parse product price %q: %w", amountRaw, err)
	}
	p.Price = money.Money{Amount: amount, Currency: currencyRaw}
	return &p, nil
}

func (r ProductRepo) InsertOp(p *catalog.Product) WriteOp {
	return func(ctx context.Context, q Querier) error {
		_, err := q.Exec(ctx, `
			INSERT INTO products(id, name, sku, price_amount, price_currency, manufactured_from, shipped_from)
			VALUES ($1,$2,$3,$4::numeric,$5,$6,$7)`,
			p.ID, p.Name, p.SKU.Value(), p.Price.Amount.StringFixed(2), p.Price.Currency,
			p.ManufacturedFrom, p.ShippedFrom)
		return err
	}
}

func (r ProductRepo) UpdatePriceOp(p *catalog.Product) WriteOp {
	return func(ctx context.Context, q Querier) error {
		_, err := q.Exec(ctx, `UPDATE products SET price_amount=$2::numeric, price_currency=$3 WHERE id=$1`,
			p.ID, p.Price.Amount.StringFixed(2), p.Price.Currency)
		return err
	}
}
