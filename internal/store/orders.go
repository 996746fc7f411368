package store

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/ariefcatur/go-eshop-core.git/internal/money"
	"github.com/ariefcatur/go-eshop-core.git/internal/orders"
)

type OrderRepo struct {
	db DB
}

func (r OrderRepo) ByID(ctx context.Context, id string) (*orders.Order, error) {
	var (
		o            orders.Order
		statusRaw    string
		trackingRaw  string
		cardMasked   *string
		cardType     *string
		totalAmount  string
		totalCur     string
	)
	err := r.db.QueryRow(ctx, `
		SELECT id, customer_id, status, tracking_number, purchase_date, estimated_delivery,
		       shipping_address_id, billing_address_id, card_masked, card_type,
		       total_amount::text, total_currency
		FROM orders WHERE id=$1`, id).
		Scan(&o.ID, &o.CustomerID, &statusRaw, &trackingRaw, &o.PurchaseDate, &o.EstimatedDelivery,
			&o.ShippingAddressID, &o.BillingAddressID, &cardMasked, &cardType,
			&totalAmount, &totalCur)
	if err != nil {
		return nil, fmt.Errorf("load order %s: %w", id, err)
	}
	status, ok := orders.ParseStatus(statusRaw)
	if !ok {
		return nil, fmt.Errorf("order %s has unknown status %q", id, statusRaw)
	}
	o.Status = status
	if o.TrackingNumber, err = orders.NewTrackingNumber(trackingRaw); err != nil {
		return nil, err
	}
	if cardMasked != nil {
		card := orders.PaymentCard{MaskedValue: *cardMasked}
		if cardType != nil {
			card.CardType = *cardType
		}
		o.PaymentCard = &card
	}
	amount, err := decimal.NewFromString(totalAmount)
	if err != nil {
		return nil, fmt.Errorf("parse order total %q: %w", totalAmount, err)
	}
	o.Total = money.Money{Amount: amount, Currency: totalCur}

	if o.Items, err = r.items(ctx, id); err != nil {
		return nil, err
	}
	return &o, nil
}

func (r OrderRepo) items(ctx context.Context, orderID string) ([]*orders.OrderItem, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, order_id, product_id, quantity,
		       unit_amount::text, unit_currency, total_amount::text, total_currency
		FROM order_items WHERE order_id=$1 ORDER BY id`, orderID)
	if err != nil {
		return nil, fmt.Errorf("load order items %s: %w", orderID, err)
	}
	defer rows.Close()

	var out []*orders.OrderItem
	for rows.Next() {
		var (
			it                 orders.OrderItem
			unitRaw, unitCur   string
			totalRaw, totalCur string
		)
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.Quantity,
			&unitRaw, &unitCur, &totalRaw, &totalCur); err != nil {
			return nil, err
		}
		unit, err := decimal.NewFromString(unitRaw)
		if err != nil {
			return nil, err
		}
		total, err := decimal.NewFromString(totalRaw)
		if err != nil {
			return nil, err
		}
		it.UnitPrice = money.Money{Amount: unit, Currency: unitCur}
		it.TotalPrice = money.Money{Amount: total, Currency: totalCur}
		out = append(out, &it)
	}
	return out, rows.Err()
}

// InsertOp persists the order and all its items.
func (r OrderRepo) InsertOp(o *orders.Order) WriteOp {
	return func(ctx context.Context, q Querier) error {
		var cardMasked, cardType any
		if o.PaymentCard != nil {
			cardMasked = o.PaymentCard.MaskedValue
			cardType = nullIfEmpty(o.PaymentCard.CardType)
		}
		_, err := q.Exec(ctx, `
			INSERT INTO orders(id, customer_id, status, tracking_number, purchase_date, estimated_delivery,
			                   shipping_address_id, billing_address_id, card_masked, card_type,
			                   total_amount, total_currency)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11::numeric,$12)`,
			o.ID, o.CustomerID, o.Status, o.TrackingNumber.Value(), o.PurchaseDate, o.EstimatedDelivery,
			o.ShippingAddressID, o.BillingAddressID, cardMasked, cardType,
			o.Total.Amount.StringFixed(2), o.Total.Currency)
		if err != nil {
			return err
		}
		for _, it := range o.Items {
			_, err := q.Exec(ctx, `
				INSERT INTO order_items(id, order_id, product_id, quantity,
				                        unit_amount, unit_currency, total_amount, total_currency)
				VALUES ($1,$2,$3,$4,$5::numeric,$6,$7::numeric,$8)`,
				it.ID, it.OrderID, it.ProductID, it.Quantity,
				it.UnitPrice.Amount.StringFixed(2), it.UnitPrice.Currency,
				it.TotalPrice.Amount.StringFixed(2), it.TotalPrice.Currency)
			if err != nil {
				return err
			}
		}
		return nil
	}
}

func (r OrderRepo) UpdateOp(o *orders.Order) WriteOp {
	return func(ctx context.Context, q Querier) error {
		_, err := q.Exec(ctx, `
			UPDATE orders SET status=$2, total_amount=$3::numeric, total_currency=$4 WHERE id=$1`,
			o.ID, o.Status, o.Total.Amount.StringFixed(2), o.Total.Currency)
		return err
	}
}
