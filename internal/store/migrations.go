package store

// migration represents a single schema migration.
type migration struct {
	Version int
	Name    string
	SQL     string
}

// migrations is the ordered list of all schema migrations.
var migrations = []migration{
	{
		Version: 1,
		Name:    "create customers and inventory",
		SQL: `
			CREATE TABLE customers (
				id            TEXT PRIMARY KEY,
				name          TEXT NOT NULL,
				phone         TEXT NOT NULL DEFAULT '',
				whatsapp_id   TEXT NOT NULL DEFAULT '',
				address       TEXT NOT NULL DEFAULT '',
				gst_number    TEXT NOT NULL DEFAULT '',
				total_credit  REAL NOT NULL DEFAULT 0,
				credit_limit  REAL NOT NULL DEFAULT 50000,
				is_bulk_buyer INTEGER NOT NULL DEFAULT 0,
				created_at    TEXT NOT NULL DEFAULT (datetime('now')),
				updated_at    TEXT NOT NULL DEFAULT (datetime('now'))
			);

			CREATE INDEX idx_customers_name ON customers (name COLLATE NOCASE);
			CREATE INDEX idx_customers_phone ON customers (phone);

			CREATE TABLE inventory (
				id              TEXT PRIMARY KEY,
				name            TEXT NOT NULL,
				fabric_type     TEXT NOT NULL,
				color           TEXT NOT NULL,
				width           INTEGER NOT NULL DEFAULT 44,
				grade           TEXT NOT NULL DEFAULT '',
				hsn_code        TEXT NOT NULL DEFAULT '',
				quantity        REAL NOT NULL DEFAULT 0,
				unit            TEXT NOT NULL DEFAULT 'meter',
				rate_per_unit   REAL NOT NULL DEFAULT 0,
				gst_rate        REAL NOT NULL DEFAULT 5,
				reorder_level   REAL NOT NULL DEFAULT 0,
				wastage_percent REAL NOT NULL DEFAULT 0,
				created_at      TEXT NOT NULL DEFAULT (datetime('now')),
				updated_at      TEXT NOT NULL DEFAULT (datetime('now'))
			);

			CREATE INDEX idx_inventory_variant ON inventory (fabric_type, color, width);
		`,
	},
	{
		Version: 2,
		Name:    "create invoices",
		SQL: `
			CREATE TABLE invoices (
				id               TEXT PRIMARY KEY,
				invoice_number   TEXT NOT NULL,
				type             TEXT NOT NULL DEFAULT 'pucca',
				customer_id      TEXT NOT NULL DEFAULT '',
				customer_name    TEXT NOT NULL,
				customer_phone   TEXT NOT NULL DEFAULT '',
				customer_gst     TEXT NOT NULL DEFAULT '',
				customer_address TEXT NOT NULL DEFAULT '',
				subtotal         REAL NOT NULL,
				total_cgst       REAL NOT NULL DEFAULT 0,
				total_sgst       REAL NOT NULL DEFAULT 0,
				total_igst       REAL NOT NULL DEFAULT 0,
				grand_total      REAL NOT NULL,
				payment_status   TEXT NOT NULL DEFAULT 'pending',
				amount_paid      REAL NOT NULL DEFAULT 0,
				balance_due      REAL NOT NULL,
				is_inter_state   INTEGER NOT NULL DEFAULT 0,
				place_of_supply  TEXT NOT NULL DEFAULT '',
				created_at       TEXT NOT NULL,
				due_date         TEXT NOT NULL
			);

			CREATE UNIQUE INDEX idx_invoices_number ON invoices (invoice_number);
			CREATE INDEX idx_invoices_customer ON invoices (customer_id);
			CREATE INDEX idx_invoices_status ON invoices (payment_status, due_date);

			CREATE TABLE invoice_items (
				id             INTEGER PRIMARY KEY AUTOINCREMENT,
				invoice_id     TEXT NOT NULL REFERENCES invoices(id) ON DELETE CASCADE,
				item_id        TEXT NOT NULL DEFAULT '',
				name           TEXT NOT NULL,
				fabric_type    TEXT NOT NULL DEFAULT '',
				color          TEXT NOT NULL DEFAULT '',
				width          INTEGER NOT NULL DEFAULT 0,
				hsn_code       TEXT NOT NULL DEFAULT '',
				quantity       REAL NOT NULL,
				unit           TEXT NOT NULL DEFAULT 'meter',
				rate           REAL NOT NULL,
				gst_rate       REAL NOT NULL,
				taxable_amount REAL NOT NULL,
				cgst_amount    REAL NOT NULL DEFAULT 0,
				sgst_amount    REAL NOT NULL DEFAULT 0,
				igst_amount    REAL NOT NULL DEFAULT 0,
				total_amount   REAL NOT NULL
			);

			CREATE INDEX idx_invoice_items_invoice ON invoice_items (invoice_id, id);
		`,
	},
	{
		Version: 3,
		Name:    "create udhaar ledger and hitl requests",
		SQL: `
			CREATE TABLE udhaar_transactions (
				id             TEXT PRIMARY KEY,
				customer_id    TEXT NOT NULL,
				customer_name  TEXT NOT NULL DEFAULT '',
				invoice_id     TEXT NOT NULL DEFAULT '',
				amount         REAL NOT NULL,
				type           TEXT NOT NULL,
				payment_method TEXT NOT NULL DEFAULT '',
				balance_after  REAL NOT NULL,
				notes          TEXT NOT NULL DEFAULT '',
				created_at     TEXT NOT NULL DEFAULT (datetime('now'))
			);

			CREATE INDEX idx_udhaar_customer ON udhaar_transactions (customer_id, created_at);

			CREATE TABLE hitl_requests (
				id            TEXT PRIMARY KEY,
				type          TEXT NOT NULL,
				customer_id   TEXT NOT NULL DEFAULT '',
				customer_name TEXT NOT NULL DEFAULT '',
				amount        REAL NOT NULL DEFAULT 0,
				invoice_id    TEXT NOT NULL DEFAULT '',
				notes         TEXT NOT NULL DEFAULT '',
				status        TEXT NOT NULL DEFAULT 'pending',
				requested_at  TEXT NOT NULL DEFAULT (datetime('now')),
				responded_at  TEXT
			);

			CREATE INDEX idx_hitl_status ON hitl_requests (status, requested_at);
		`,
	},
	{
		Version: 4,
		Name:    "create sessions and counters",
		SQL: `
			CREATE TABLE sessions (
				id             TEXT PRIMARY KEY,
				endpoint_id    TEXT NOT NULL,
				customer_id    TEXT NOT NULL DEFAULT '',
				current_intent TEXT NOT NULL DEFAULT '',
				context        TEXT NOT NULL DEFAULT '{}',
				pending        TEXT,
				messages       TEXT NOT NULL DEFAULT '[]',
				last_activity  TEXT NOT NULL,
				created_at     TEXT NOT NULL
			);

			CREATE UNIQUE INDEX idx_sessions_endpoint ON sessions (endpoint_id);

			CREATE TABLE counters (
				name  TEXT PRIMARY KEY,
				value INTEGER NOT NULL DEFAULT 0
			);
		`,
	},
}
