package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

const schema = `
CREATE TABLE IF NOT EXISTS customers (
	id                          uuid PRIMARY KEY,
	first_name                  text NOT NULL,
	last_name                   text NOT NULL,
	email                       text NOT NULL UNIQUE,
	phone                       text NOT NULL,
	default_shipping_address_id uuid,
	default_billing_address_id  uuid,
	created_at                  timestamptz NOT NULL
);

CREATE TABLE IF NOT EXISTS addresses (
	id          uuid PRIMARY KEY,
	customer_id uuid NOT NULL REFERENCES customers(id),
	line1       text NOT NULL,
	city        text NOT NULL,
	country     text NOT NULL,
	type        text NOT NULL
);

CREATE TABLE IF NOT EXISTS products (
	id                uuid PRIMARY KEY,
	name              text NOT NULL,
	sku               text NOT NULL UNIQUE,
	price_amount      numeric(12,2) NOT NULL,
	price_currency    text NOT NULL,
	manufactured_from text NOT NULL,
	shipped_from      text NOT NULL
);

CREATE TABLE IF NOT EXISTS orders (
	id                  uuid PRIMARY KEY,
	customer_id         uuid NOT NULL REFERENCES customers(id),
	status              text NOT NULL,
	tracking_number     text NOT NULL,
	purchase_date       timestamptz NOT NULL,
	estimated_delivery  timestamptz NOT NULL,
	shipping_address_id uuid NOT NULL REFERENCES addresses(id),
	billing_address_id  uuid NOT NULL REFERENCES addresses(id),
	card_masked         text,
	card_type           text,
	total_amount        numeric(12,2) NOT NULL,
	total_currency      text NOT NULL
);

CREATE TABLE IF NOT EXISTS order_items (
	id             uuid PRIMARY KEY,
	order_id       uuid NOT NULL REFERENCES orders(id),
	product_id     uuid NOT NULL REFERENCES products(id),
	quantity       int NOT NULL CHECK (quantity > 0),
	unit_amount    numeric(12,2) NOT NULL,
	unit_currency  text NOT NULL,
	total_amount   numeric(12,2) NOT NULL,
	total_currency text NOT NULL
);

CREATE TABLE IF NOT EXISTS user_accounts (
	id            uuid PRIMARY KEY,
	email         text NOT NULL UNIQUE,
	role          text NOT NULL,
	customer_id   uuid REFERENCES customers(id),
	created_at    timestamptz NOT NULL,
	last_login_at timestamptz
);

CREATE TABLE IF NOT EXISTS refresh_tokens (
	id         uuid PRIMARY KEY,
	account_id uuid NOT NULL REFERENCES user_accounts(id),
	token      text NOT NULL UNIQUE,
	expires_at timestamptz NOT NULL,
	created_at timestamptz NOT NULL,
	is_revoked boolean NOT NULL DEFAULT false,
	revoked_at timestamptz
);

CREATE TABLE IF NOT EXISTS import_ledger (
	checksum    text PRIMARY KEY,
	imported_at timestamptz NOT NULL
);

CREATE TABLE IF NOT EXISTS activity_logs (
	id          uuid PRIMARY KEY,
	entity_type text NOT NULL,
	entity_id   text NOT NULL,
	action      text NOT NULL,
	user_id     text,
	user_email  text,
	details     text,
	at          timestamptz NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_refresh_tokens_account ON refresh_tokens(account_id);
CREATE INDEX IF NOT EXISTS idx_orders_customer ON orders(customer_id);
CREATE INDEX IF NOT EXISTS idx_order_items_order ON order_items(order_id);
`

// EnsureSchema bootstraps the tables; every statement is idempotent.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, schema)
	return err
}
