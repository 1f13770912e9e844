package planner

import (
	"context"
	"database/sql"

	"github.com/ngmaloney/tidepool-terminal/internal/database"
)

// TableProvisioner builds one local table on first run
type TableProvisioner interface {
	Provision(ctx context.Context, db *sql.DB, progress chan<- string) error
}

// DataProvisioner builds every local lookup table the planner reads
type DataProvisioner struct {
	db     *sql.DB
	tables map[string]TableProvisioner
	order  []string
}

// NewDataProvisioner creates an empty provisioner over db
func NewDataProvisioner(db *sql.DB) *DataProvisioner {
	return &DataProvisioner{db: db, tables: map[string]TableProvisioner{}}
}

// Add registers p as the builder of table. Tables are built in the order added.
func (d *DataProvisioner) Add(table string, p TableProvisioner) *DataProvisioner {
	if _, ok := d.tables[table]; !ok {
		d.order = append(d.order, table)
	}
	d.tables[table] = p
	return d
}

// NeedsProvisioning reports whether any registered table is missing
func (d *DataProvisioner) NeedsProvisioning() (bool, error) {
	for _, table := range d.order {
		exists, err := database.TableExists(d.db, table)
		if err != nil {
			return false, err
		}
		if !exists {
			return true, nil
		}
	}
	return false, nil
}

// Provision builds every missing table in order, stopping at the first failure
func (d *DataProvisioner) Provision(ctx context.Context, progress chan<- string) error {
	for _, table := range d.order {
		if err := d.tables[table].Provision(ctx, d.db, progress); err != nil {
			return err
		}
	}
	return nil
}
