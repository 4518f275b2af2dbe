package seed

import (
	"encoding/csv"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/jmoiron/sqlx"
)

// LoadMedicines ingests the catalog CSV (name, category, type, stock, price,
// expiry_date) into the medicines collection. The seed only runs against an
// empty inventory so it never clobbers user data.
func LoadMedicines(db *sqlx.DB, csvPath string) {
	var existing int64
	if err := db.Get(&existing, `SELECT COUNT(*) FROM medicines`); err != nil {
		log.Printf("unable to inspect medicine inventory: %v", err)
		return
	}
	if existing > 0 {
		return
	}

	file, err := os.Open(csvPath)
	if err != nil {
		log.Printf("unable to load medicine catalog %s: %v", csvPath, err)
		return
	}
	defer file.Close()

	reader := csv.NewReader(file)
	// Skip header
	if _, err := reader.Read(); err != nil {
		log.Printf("unable to read medicine header: %v", err)
		return
	}

	tx, err := db.Beginx()
	if err != nil {
		log.Printf("unable to start medicine transaction: %v", err)
		return
	}
	stmt, err := tx.Preparex(`INSERT INTO medicines (name, category, type, stock, price, expiry_date, created_at) VALUES (?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)`)
	if err != nil {
		log.Printf("unable to prepare medicine insert: %v", err)
		_ = tx.Rollback()
		return
	}
	defer stmt.Close()

	rows := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Printf("unable to read medicine row: %v", err)
			continue
		}
		if len(record) < 6 {
			continue
		}
		name := strings.TrimSpace(record[0])
		category := strings.TrimSpace(record[1])
		medType := strings.TrimSpace(record[2])
		stock, _ := strconv.ParseInt(strings.TrimSpace(record[3]), 10, 64)
		price, _ := strconv.ParseFloat(strings.TrimSpace(record[4]), 64)
		expiry := strings.TrimSpace(record[5])

		if name == "" || expiry == "" {
			continue
		}

		if _, err := stmt.Exec(name, category, medType, stock, price, expiry); err != nil {
			log.Printf("unable to insert medicine %s: %v", name, err)
		} else {
			rows++
		}
	}

	if err := tx.Commit(); err != nil {
		log.Printf("unable to commit medicine seed: %v", err)
	} else if rows > 0 {
		log.Printf("seeded medicine catalog with %d rows", rows)
	}
}
