package migrations

import (
	"fmt"
	"log"

	"github.com/jmoiron/sqlx"
)

// SchemaVersion is bumped whenever the collection layout changes.
const SchemaVersion = 2

// Run creates the clinic schema. Statements are idempotent so Run is safe to
// call on every startup and after a store reset.
func Run(db *sqlx.DB) {
	schema := []string{
		`CREATE TABLE IF NOT EXISTS patients (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            name TEXT NOT NULL,
            age INTEGER NOT NULL,
            contact TEXT NOT NULL,
            address TEXT,
            created_at DATETIME DEFAULT CURRENT_TIMESTAMP
        );`,
		`CREATE TABLE IF NOT EXISTS appointments (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            patient_id INTEGER NOT NULL,
            appointment_date TEXT NOT NULL,
            fees REAL NOT NULL,
            payment_method TEXT NOT NULL,
            created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
            FOREIGN KEY(patient_id) REFERENCES patients(id)
        );`,
		`CREATE TABLE IF NOT EXISTS prescriptions (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            patient_id INTEGER NOT NULL,
            medicines TEXT NOT NULL,
            date TEXT NOT NULL,
            notes TEXT,
            FOREIGN KEY(patient_id) REFERENCES patients(id)
        );`,
		`CREATE TABLE IF NOT EXISTS medical_records (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            patient_id INTEGER NOT NULL,
            scan_url TEXT,
            date TEXT NOT NULL,
            description TEXT NOT NULL,
            FOREIGN KEY(patient_id) REFERENCES patients(id)
        );`,
		`CREATE TABLE IF NOT EXISTS medicines (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            name TEXT NOT NULL,
            category TEXT,
            type TEXT,
            stock INTEGER NOT NULL DEFAULT 0,
            price REAL NOT NULL DEFAULT 0,
            expiry_date TEXT NOT NULL,
            created_at DATETIME DEFAULT CURRENT_TIMESTAMP
        );`,
		`CREATE TABLE IF NOT EXISTS bills (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            patient_id INTEGER NOT NULL,
            patient_name TEXT,
            total REAL NOT NULL,
            date TEXT NOT NULL,
            status TEXT NOT NULL DEFAULT 'Pending',
            FOREIGN KEY(patient_id) REFERENCES patients(id)
        );`,
		`CREATE TABLE IF NOT EXISTS bill_items (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            bill_id INTEGER NOT NULL,
            medicine_id INTEGER NOT NULL,
            name TEXT NOT NULL,
            quantity INTEGER NOT NULL,
            price REAL NOT NULL,
            FOREIGN KEY(bill_id) REFERENCES bills(id),
            FOREIGN KEY(medicine_id) REFERENCES medicines(id)
        );`,
		`CREATE TABLE IF NOT EXISTS sessions (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            token TEXT NOT NULL UNIQUE,
            username TEXT NOT NULL,
            role TEXT NOT NULL,
            created_at DATETIME DEFAULT CURRENT_TIMESTAMP
        );`,
		`CREATE INDEX IF NOT EXISTS idx_patients_name ON patients(name);`,
		`CREATE INDEX IF NOT EXISTS idx_patients_age ON patients(age);`,
		`CREATE INDEX IF NOT EXISTS idx_patients_contact ON patients(contact);`,
		`CREATE INDEX IF NOT EXISTS idx_patients_address ON patients(address);`,
		`CREATE INDEX IF NOT EXISTS idx_patients_created ON patients(created_at);`,
		`CREATE INDEX IF NOT EXISTS idx_appointments_patient ON appointments(patient_id);`,
		`CREATE INDEX IF NOT EXISTS idx_appointments_date ON appointments(appointment_date);`,
		`CREATE INDEX IF NOT EXISTS idx_appointments_fees ON appointments(fees);`,
		`CREATE INDEX IF NOT EXISTS idx_appointments_payment ON appointments(payment_method);`,
		`CREATE INDEX IF NOT EXISTS idx_appointments_created ON appointments(created_at);`,
		`CREATE INDEX IF NOT EXISTS idx_prescriptions_patient ON prescriptions(patient_id);`,
		`CREATE INDEX IF NOT EXISTS idx_prescriptions_date ON prescriptions(date);`,
		`CREATE INDEX IF NOT EXISTS idx_records_patient ON medical_records(patient_id);`,
		`CREATE INDEX IF NOT EXISTS idx_records_date ON medical_records(date);`,
		`CREATE INDEX IF NOT EXISTS idx_medicines_name ON medicines(name);`,
		`CREATE INDEX IF NOT EXISTS idx_medicines_category ON medicines(category);`,
		`CREATE INDEX IF NOT EXISTS idx_medicines_type ON medicines(type);`,
		`CREATE INDEX IF NOT EXISTS idx_medicines_stock ON medicines(stock);`,
		`CREATE INDEX IF NOT EXISTS idx_medicines_price ON medicines(price);`,
		`CREATE INDEX IF NOT EXISTS idx_medicines_expiry ON medicines(expiry_date);`,
		`CREATE INDEX IF NOT EXISTS idx_medicines_created ON medicines(created_at);`,
		`CREATE INDEX IF NOT EXISTS idx_bills_patient ON bills(patient_id);`,
		`CREATE INDEX IF NOT EXISTS idx_bills_total ON bills(total);`,
		`CREATE INDEX IF NOT EXISTS idx_bills_date ON bills(date);`,
		`CREATE INDEX IF NOT EXISTS idx_bills_status ON bills(status);`,
		`CREATE INDEX IF NOT EXISTS idx_bill_items_bill ON bill_items(bill_id);`,
	}

	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			log.Fatalf("migration failed: %v", err)
		}
	}

	if _, err := db.Exec(fmt.Sprintf(`PRAGMA user_version = %d`, SchemaVersion)); err != nil {
		log.Fatalf("migration failed: %v", err)
	}
}

// Tables lists every collection in creation order. Reset walks it in reverse.
func Tables() []string {
	return []string{
		"patients",
		"appointments",
		"prescriptions",
		"medical_records",
		"medicines",
		"bills",
		"bill_items",
		"sessions",
	}
}
