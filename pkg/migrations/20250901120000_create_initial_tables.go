package migrations

import (
	"context"

	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

func init() {
	up := func(_ context.Context, db *bun.DB) error {
		_, err := db.Exec(`
			CREATE TABLE users (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				username TEXT NOT NULL UNIQUE COLLATE NOCASE,
				password_hash TEXT NOT NULL
			)
`)
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = db.Exec(`
			CREATE TABLE locations (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				name TEXT NOT NULL,
				description TEXT
			)
`)
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = db.Exec(`CREATE UNIQUE INDEX ux_locations_name ON locations (name COLLATE NOCASE)`)
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = db.Exec(`
			CREATE TABLE quantity_units (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				name TEXT NOT NULL,
				name_plural TEXT,
				description TEXT
			)
`)
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = db.Exec(`CREATE UNIQUE INDEX ux_quantity_units_name ON quantity_units (name COLLATE NOCASE)`)
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = db.Exec(`
			CREATE TABLE product_groups (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				name TEXT NOT NULL,
				description TEXT
			)
`)
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = db.Exec(`
			CREATE TABLE contacts (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				first_name TEXT NOT NULL,
				last_name TEXT,
				company TEXT,
				notes TEXT
			)
`)
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = db.Exec(`
			CREATE TABLE contact_addresses (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				contact_id INTEGER REFERENCES contacts (id) ON DELETE CASCADE NOT NULL,
				label TEXT NOT NULL,
				street TEXT NOT NULL,
				city TEXT NOT NULL,
				zip_code TEXT,
				country TEXT
			)
`)
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = db.Exec(`
			CREATE TABLE contact_phones (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				contact_id INTEGER REFERENCES contacts (id) ON DELETE CASCADE NOT NULL,
				label TEXT NOT NULL,
				number TEXT NOT NULL
			)
`)
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = db.Exec(`
			CREATE TABLE contact_emails (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				contact_id INTEGER REFERENCES contacts (id) ON DELETE CASCADE NOT NULL,
				label TEXT NOT NULL,
				address TEXT NOT NULL
			)
`)
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = db.Exec(`
			CREATE TABLE products (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				name TEXT NOT NULL,
				description TEXT,
				location_id INTEGER REFERENCES locations (id),
				quantity_unit_id INTEGER REFERENCES quantity_units (id),
				product_group_id INTEGER REFERENCES product_groups (id),
				min_stock_amount REAL NOT NULL DEFAULT 0
			)
`)
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = db.Exec(`CREATE UNIQUE INDEX ux_products_name ON products (name COLLATE NOCASE)`)
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = db.Exec(`CREATE INDEX ix_products_location_id ON products (location_id)`)
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = db.Exec(`
			CREATE TABLE product_barcodes (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				product_id INTEGER REFERENCES products (id) ON DELETE CASCADE NOT NULL,
				barcode TEXT NOT NULL,
				note TEXT
			)
`)
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = db.Exec(`
			CREATE TABLE equipment (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				name TEXT NOT NULL,
				description TEXT,
				purchased_at TIMESTAMPTZ,
				warranty_info TEXT
			)
`)
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = db.Exec(`
			CREATE TABLE vehicles (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				name TEXT NOT NULL,
				license_plate TEXT,
				make TEXT,
				model TEXT
			)
`)
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = db.Exec(`
			CREATE TABLE vehicle_services (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				vehicle_id INTEGER REFERENCES vehicles (id) ON DELETE CASCADE NOT NULL,
				name TEXT NOT NULL,
				interval_days INTEGER,
				last_done_at TIMESTAMPTZ
			)
`)
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = db.Exec(`
			CREATE TABLE recipes (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				name TEXT NOT NULL,
				description TEXT,
				servings INTEGER NOT NULL DEFAULT 1
			)
`)
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = db.Exec(`
			CREATE TABLE recipe_steps (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				recipe_id INTEGER REFERENCES recipes (id) ON DELETE CASCADE NOT NULL,
				sort_order INTEGER NOT NULL DEFAULT 0,
				instruction TEXT NOT NULL
			)
`)
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = db.Exec(`
			CREATE TABLE recipe_ingredients (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				recipe_id INTEGER REFERENCES recipes (id) ON DELETE CASCADE NOT NULL,
				product_id INTEGER REFERENCES products (id) NOT NULL,
				amount REAL NOT NULL DEFAULT 0,
				note TEXT
			)
`)
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = db.Exec(`
			CREATE TABLE chores (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				name TEXT NOT NULL,
				description TEXT,
				period_type TEXT NOT NULL,
				period_days INTEGER
			)
`)
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = db.Exec(`
			CREATE TABLE chore_logs (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				chore_id INTEGER REFERENCES chores (id) ON DELETE CASCADE NOT NULL,
				done_at TIMESTAMPTZ NOT NULL,
				done_by TEXT
			)
`)
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = db.Exec(`CREATE INDEX ix_chore_logs_chore_id ON chore_logs (chore_id)`)
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = db.Exec(`
			CREATE TABLE todo_items (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				description TEXT NOT NULL,
				due_at TIMESTAMPTZ,
				done BOOLEAN NOT NULL DEFAULT FALSE
			)
`)
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = db.Exec(`
			CREATE TABLE shopping_list_items (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				note TEXT NOT NULL DEFAULT '',
				amount REAL NOT NULL DEFAULT 1,
				product_id INTEGER REFERENCES products (id)
			)
`)
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = db.Exec(`
			CREATE TABLE storage_bins (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				name TEXT NOT NULL,
				location_id INTEGER REFERENCES locations (id)
			)
`)
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = db.Exec(`
			CREATE TABLE home_profiles (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				name TEXT NOT NULL,
				address TEXT,
				moved_in_at TIMESTAMPTZ
			)
`)
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = db.Exec(`
			CREATE TABLE home_utilities (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				home_profile_id INTEGER REFERENCES home_profiles (id) ON DELETE CASCADE NOT NULL,
				name TEXT NOT NULL,
				provider TEXT,
				account_number TEXT
			)
`)
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = db.Exec(`
			CREATE TABLE calendar_events (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				title TEXT NOT NULL,
				description TEXT,
				starts_at TIMESTAMPTZ NOT NULL,
				ends_at TIMESTAMPTZ
			)
`)
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = db.Exec(`
			CREATE TABLE stock_entries (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				product_id INTEGER REFERENCES products (id) NOT NULL,
				location_id INTEGER REFERENCES locations (id),
				amount REAL NOT NULL DEFAULT 0,
				best_before_date TIMESTAMPTZ
			)
`)
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = db.Exec(`CREATE INDEX ix_stock_entries_product_id ON stock_entries (product_id)`)
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = db.Exec(`
			CREATE TABLE transfer_sessions (
				id TEXT PRIMARY KEY,
				status TEXT NOT NULL,
				current_category TEXT,
				include_history BOOLEAN NOT NULL DEFAULT FALSE,
				cloud_account_email TEXT,
				cloud_refresh_token TEXT,
				started_at TIMESTAMPTZ NOT NULL,
				completed_at TIMESTAMPTZ
			)
`)
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = db.Exec(`CREATE INDEX ix_transfer_sessions_status ON transfer_sessions (status)`)
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = db.Exec(`
			CREATE TABLE transfer_item_logs (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				session_id TEXT REFERENCES transfer_sessions (id) NOT NULL,
				category TEXT NOT NULL,
				source_id INTEGER NOT NULL,
				remote_id TEXT,
				name TEXT NOT NULL,
				status TEXT NOT NULL,
				error_message TEXT,
				transferred_at TIMESTAMPTZ NOT NULL
			)
`)
		if err != nil {
			return errors.WithStack(err)
		}
		// The idempotence guard: one attempt per item per session.
		_, err = db.Exec(`CREATE UNIQUE INDEX ux_transfer_item_logs_session_category_source ON transfer_item_logs (session_id, category, source_id)`)
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = db.Exec(`CREATE INDEX ix_transfer_item_logs_session_id ON transfer_item_logs (session_id)`)
		if err != nil {
			return errors.WithStack(err)
		}
		return nil
	}

	down := func(_ context.Context, db *bun.DB) error {
		tables := []string{
			"transfer_item_logs", "transfer_sessions", "stock_entries",
			"calendar_events", "home_utilities", "home_profiles", "storage_bins",
			"shopping_list_items", "todo_items", "chore_logs", "chores",
			"recipe_ingredients", "recipe_steps", "recipes", "vehicle_services",
			"vehicles", "equipment", "product_barcodes", "products",
			"contact_emails", "contact_phones", "contact_addresses", "contacts",
			"product_groups", "quantity_units", "locations", "users",
		}
		for _, table := range tables {
			_, err := db.Exec("DROP TABLE IF EXISTS " + table)
			if err != nil {
				return errors.WithStack(err)
			}
		}
		return nil
	}

	Migrations.MustRegister(up, down)
}
