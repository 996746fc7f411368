package importer

import (
	"context"
	"crypto/sha256"
	"encoding/csv"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/ariefcatur/go-eshop-core.git/internal/auth"
	"github.com/ariefcatur/go-eshop-core.git/internal/catalog"
	"github.com/ariefcatur/go-eshop-core.git/internal/customers"
	"github.com/ariefcatur/go-eshop-core.git/internal/domain"
	"github.com/ariefcatur/go-eshop-core.git/internal/logger"
	"github.com/ariefcatur/go-eshop-core.git/internal/orders"
	"github.com/ariefcatur/go-eshop-core.git/internal/store"
)

// Store is the slice of the persistence gateway the importer touches.
type Store interface {
	LedgerContains(ctx context.Context, checksum string) (bool, error)
	LedgerInsertOp(checksum string, importedAt time.Time) store.WriteOp
	AccountByEmail(ctx context.Context, email string) (*auth.UserAccount, error)
	IsNotFound(err error) bool
	CustomerInsertOp(c *customers.Customer) store.WriteOp
	AddressInsertOp(a *customers.Address) store.WriteOp
	ProductInsertOp(p *catalog.Product) store.WriteOp
	OrderInsertOp(o *orders.Order) store.WriteOp
	AccountInsertOp(a *auth.UserAccount) store.WriteOp
}

// Coordinator mirrors app.Coordinator; the importer drives its own unit of
// work outside the interactive request path.
type Coordinator interface {
	Begin(ctx context.Context) error
	Stage(src domain.EventSource, op store.WriteOp)
	SaveChanges(ctx context.Context) (int, error)
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// Importer turns the flat dataset into a consistent multi-aggregate graph,
// once per dataset version.
type Importer struct {
	Store      Store
	UoW        func() Coordinator
	AdminEmail string
	Log        *logger.Logger
}

// ImportIfNeeded runs the full import unless the dataset's checksum is
// already in the ledger. The bulk insert and the ledger write share one
// transaction, so a crash mid-import leaves no ledger row and no partial
// data; the retry re-runs cleanly.
func (im *Importer) ImportIfNeeded(ctx context.Context, datasetPath string) error {
	if _, err := os.Stat(datasetPath); err != nil {
		im.Log.Warn("dataset not found, skipping import", "path", datasetPath)
		return nil
	}

	checksum, err := fileChecksum(datasetPath)
	if err != nil {
		return fmt.Errorf("import: %w", err)
	}
	done, err := im.Store.LedgerContains(ctx, checksum)
	if err != nil {
		return fmt.Errorf("import: %w", err)
	}
	if done {
		im.Log.Info("dataset already imported, skipping", "checksum", checksum)
		return im.seedAdmin(ctx)
	}

	im.Log.Info("starting data import", "path", datasetPath)

	records, err := im.readRecords(datasetPath)
	if err != nil {
		return fmt.Errorf("import: %w", err)
	}
	im.Log.Info("dataset parsed", "records", len(records))

	graph := im.transform(records)

	if err := im.persist(ctx, graph, checksum); err != nil {
		return fmt.Errorf("import: %w", err)
	}
	im.Log.Info("data import completed",
		"customers", len(graph.customers), "products", len(graph.products), "orders", len(graph.orders))

	return im.seedAdmin(ctx)
}

func fileChecksum(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// readRecords parses the CSV. A malformed row is logged and skipped; it
// never aborts the batch.
func (im *Importer) readRecords(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	var records []Record
	line := 0
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			im.Log.Warn("failed to read row", "line", line, "error", err)
			continue
		}
		if line == 1 {
			continue // header
		}
		rec, err := parseRow(row)
		if err != nil {
			im.Log.Warn("failed to parse row", "line", line, "error", err)
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

type graph struct {
	customers []*customers.Customer
	accounts  []*auth.UserAccount
	addresses []*customers.Address
	products  []*catalog.Product
	orders    []*orders.Order
}

// transform dedups against in-memory maps and builds one Order per row
// referencing the deduplicated entities: O(distinct entities) inserts
// instead of O(rows).
func (im *Importer) transform(records []Record) *graph {
	g := &graph{}
	customerByEmail := map[string]*customers.Customer{}
	accountByEmail := map[string]*auth.UserAccount{}
	addressByKey := map[string]*customers.Address{}
	productBySKU := map[string]*catalog.Product{}

	for i, rec := range records {
		customer, err := im.getOrCreateCustomer(rec, customerByEmail, accountByEmail, g)
		if err != nil {
			im.Log.Warn("failed to import record", "row", i+1, "email", rec.Email, "error", err)
			continue
		}
		shipping := getOrCreateAddress(customer, rec.ShippingAddress, rec.ShippingCity, rec.ShippingCountry,
			customers.AddressShipping, addressByKey, g)
		billing := getOrCreateAddress(customer, rec.BillingAddress, rec.BillingCity, rec.BillingCountry,
			customers.AddressBilling, addressByKey, g)
		product := getOrCreateProduct(rec, productBySKU, g)

		order, err := buildOrder(rec, customer, shipping, billing, product)
		if err != nil {
			im.Log.Warn("failed to import record", "row", i+1, "email", rec.Email, "error", err)
			continue
		}
		g.orders = append(g.orders, order)
	}
	return g
}

func (im *Importer) getOrCreateCustomer(rec Record,
	customerByEmail map[string]*customers.Customer,
	accountByEmail map[string]*auth.UserAccount,
	g *graph) (*customers.Customer, error) {

	email, err := customers.NewEmail(rec.Email)
	if err != nil {
		return nil, err
	}
	if c, ok := customerByEmail[email.Value()]; ok {
		return c, nil
	}
	phone, err := customers.NewPhone(rec.Phone)
	if err != nil {
		return nil, err
	}

	customer := customers.NewCustomer(rec.FirstName, rec.LastName, email, phone)
	account := auth.NewUserAccount(email, auth.RoleUser, customer.ID)

	customerByEmail[email.Value()] = customer
	accountByEmail[email.Value()] = account
	g.customers = append(g.customers, customer)
	g.accounts = append(g.accounts, account)
	return customer, nil
}

func getOrCreateAddress(customer *customers.Customer, line1, city, country string,
	typ customers.AddressType, addressByKey map[string]*customers.Address, g *graph) *customers.Address {

	key := customers.AddressDedupKey(customer.ID, line1, city, country)
	if a, ok := addressByKey[key]; ok {
		return a
	}
	a := customers.NewAddress(customer.ID, line1, city, country, typ)
	addressByKey[key] = a
	g.addresses = append(g.addresses, a)
	return a
}

func getOrCreateProduct(rec Record, productBySKU map[string]*catalog.Product, g *graph) *catalog.Product {
	sku := catalog.GenerateSKU(rec.ItemName, rec.ManufacturedFrom)
	if p, ok := productBySKU[sku.Value()]; ok {
		return p
	}
	p := catalog.NewProduct(rec.ItemName, rec.PricePerItem, sku, rec.ManufacturedFrom, rec.ShippedFrom)
	productBySKU[sku.Value()] = p
	g.products = append(g.products, p)
	return p
}

func buildOrder(rec Record, customer *customers.Customer,
	shipping, billing *customers.Address, product *catalog.Product) (*orders.Order, error) {

	var tracking orders.TrackingNumber
	var err error
	if rec.TrackingNumber == "" {
		tracking, err = orders.GenerateTrackingNumber(rec.ShippingCountry)
	} else {
		tracking, err = orders.NewTrackingNumber(rec.TrackingNumber)
	}
	if err != nil {
		return nil, err
	}

	est := parseDate(rec.EstimatedDelivery)
	order := orders.NewOrder(customer.ID, tracking, shipping.ID, billing.ID,
		parseDate(rec.PurchaseDate), orders.MaskCard(rec.CardNumber, rec.CardType), &est)

	item, err := orders.NewOrderItem(order.ID, product.ID, rec.ItemAmount, product.Price)
	if err != nil {
		return nil, err
	}
	if err := order.AddItem(item); err != nil {
		return nil, err
	}
	return order, nil
}

// persist bulk-inserts the accumulated collections plus the ledger entry in
// one transaction.
func (im *Importer) persist(ctx context.Context, g *graph, checksum string) error {
	uow := im.UoW()
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	for _, c := range g.customers {
		uow.Stage(c, im.Store.CustomerInsertOp(c))
	}
	for _, a := range g.accounts {
		uow.Stage(a, im.Store.AccountInsertOp(a))
	}
	for _, a := range g.addresses {
		uow.Stage(nil, im.Store.AddressInsertOp(a))
	}
	for _, p := range g.products {
		uow.Stage(nil, im.Store.ProductInsertOp(p))
	}
	for _, o := range g.orders {
		uow.Stage(o, im.Store.OrderInsertOp(o))
	}
	uow.Stage(nil, im.Store.LedgerInsertOp(checksum, time.Now().UTC()))

	if _, err := uow.SaveChanges(ctx); err != nil {
		_ = uow.Rollback(ctx)
		return err
	}
	return uow.Commit(ctx)
}

// seedAdmin creates exactly one admin account for the configured email if
// none exists. Single-process-at-startup assumption; no concurrent-seeder
// guard.
func (im *Importer) seedAdmin(ctx context.Context) error {
	if im.AdminEmail == "" {
		return nil
	}
	email, err := customers.NewEmail(im.AdminEmail)
	if err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}

	existing, err := im.Store.AccountByEmail(ctx, email.Value())
	if err != nil && !im.Store.IsNotFound(err) {
		return fmt.Errorf("seed admin: %w", err)
	}
	if existing != nil {
		im.Log.Info("admin account already exists", "email", email.Value())
		return nil
	}

	admin := auth.NewUserAccount(email, auth.RoleAdmin, "")
	uow := im.UoW()
	uow.Stage(admin, im.Store.AccountInsertOp(admin))
	if _, err := uow.SaveChanges(ctx); err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	im.Log.Info("seeded admin account", "email", email.Value())
	return nil
}
