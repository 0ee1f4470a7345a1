package db

import (
	"database/sql"
	"errors"
	"fmt"
)

// Persisted variable names
const (
	VarHiddenTags     = "HiddenTags"
	VarHiddenTools    = "HiddenTools"
	VarHiddenLegacy   = "HiddenLegacy"
	VarHiddenFirmware = "HiddenFirmware"
)

// HiddenVars lists every hidden-identifier variable.
var HiddenVars = []string{VarHiddenTags, VarHiddenTools, VarHiddenLegacy, VarHiddenFirmware}

// ReadVar returns the stored value; a missing variable reads as "".
func (d *DB) ReadVar(name string) (string, error) {
	var value string
	err := d.conn.QueryRow("SELECT value FROM state_vars WHERE name = ?", name).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", name, err)
	}
	return value, nil
}

// WriteVar stores value under name. An empty value deletes the variable.
func (d *DB) WriteVar(name, value string) error {
	var err error
	if value == "" {
		_, err = d.conn.Exec("DELETE FROM state_vars WHERE name = ?", name)
	} else {
		_, err = d.conn.Exec(`
			INSERT INTO state_vars (name, value) VALUES (?, ?)
			ON CONFLICT(name) DO UPDATE SET
				value = excluded.value,
				updated_at = CURRENT_TIMESTAMP
		`, name, value)
	}
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	return nil
}
