package database

import (
	"database/sql"
	"fmt"
	"log"
	"strings"

	sq "github.com/Masterminds/squirrel"
)

var qb = sq.StatementBuilder.PlaceholderFormat(sq.Question)

// DeceasedRecord is a deceased row joined with its grave and sector for
// display. GraveStatus is only populated by the single-record lookup.
type DeceasedRecord struct {
	ID          int64   `json:"id"`
	FirstName   string  `json:"first_name"`
	LastName    string  `json:"last_name"`
	DateOfBirth *string `json:"date_of_birth"`
	DateOfDeath string  `json:"date_of_death"`
	Details     string  `json:"details"`
	PhotoURL    string  `json:"photo_url"`
	GraveID     int64   `json:"grave_id"`
	GraveNumber string  `json:"grave_number"`
	SectorName  string  `json:"sector_name"`
	GraveStatus string  `json:"status,omitempty"`
}

// GraveRecord is a grave row, optionally joined with its sector name.
type GraveRecord struct {
	ID              int64  `json:"id"`
	SectorID        int64  `json:"sector_id"`
	GraveNumber     string `json:"grave_number"`
	Status          string `json:"status"`
	Details         string `json:"details"`
	ContactPersonID *int64 `json:"contact_person_id"`
	SectorName      string `json:"sector_name,omitempty"`
}

// GraveSummary is the short grave projection used in contact-person views.
type GraveSummary struct {
	ID          int64  `json:"id"`
	GraveNumber string `json:"grave_number"`
	SectorID    int64  `json:"sector_id"`
	SectorName  string `json:"sector_name"`
}

// ContactPerson is the public profile of a grave's contact person.
type ContactPerson struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
}

// GraveContactInfo combines a grave summary with its contact person, if any.
type GraveContactInfo struct {
	Grave         GraveSummary   `json:"grave"`
	ContactPerson *ContactPerson `json:"contact_person"`
}

const deceasedJoinColumns = "d.id, d.first_name, d.last_name, d.date_of_birth, d.date_of_death, d.details, d.photo_url, d.grave_id, g.grave_number, s.name AS sector_name"

func scanDeceasedRows(rows *sql.Rows) ([]DeceasedRecord, error) {
	records := []DeceasedRecord{}
	for rows.Next() {
		var rec DeceasedRecord
		var dob, details, photoURL sql.NullString
		err := rows.Scan(&rec.ID, &rec.FirstName, &rec.LastName, &dob, &rec.DateOfDeath,
			&details, &photoURL, &rec.GraveID, &rec.GraveNumber, &rec.SectorName)
		if err != nil {
			log.Printf("Error scanning deceased row: %v", err)
			continue
		}
		if dob.Valid {
			rec.DateOfBirth = &dob.String
		}
		rec.Details = details.String
		rec.PhotoURL = photoURL.String
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return records, fmt.Errorf("error iterating deceased rows: %w", err)
	}
	return records, nil
}

// ListDeceased returns every deceased record joined with grave number and
// sector name. The listing is unbounded; a single cemetery stays small.
func ListDeceased(db *sql.DB) ([]DeceasedRecord, error) {
	queryBuilder := qb.Select(deceasedJoinColumns).
		From("deceased d").
		Join("graves g ON d.grave_id = g.id").
		Join("sectors s ON g.sector_id = s.id").
		OrderBy("d.last_name ASC", "d.first_name ASC")
	sqlStr, args, err := queryBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build SQL for ListDeceased: %w", err)
	}
	rows, err := db.Query(sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to execute ListDeceased query: %w", err)
	}
	defer rows.Close()
	return scanDeceasedRows(rows)
}

// SearchDeceased performs a case-insensitive substring match against first
// or last name. An empty query matches all rows.
func SearchDeceased(db *sql.DB, query string) ([]DeceasedRecord, error) {
	pattern := "%" + strings.ToLower(query) + "%"
	queryBuilder := qb.Select(deceasedJoinColumns).
		From("deceased d").
		Join("graves g ON d.grave_id = g.id").
		Join("sectors s ON g.sector_id = s.id").
		Where(sq.Or{
			sq.Like{"LOWER(d.first_name)": pattern},
			sq.Like{"LOWER(d.last_name)": pattern},
		}).
		OrderBy("d.last_name ASC", "d.first_name ASC")
	sqlStr, args, err := queryBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build SQL for SearchDeceased: %w", err)
	}
	rows, err := db.Query(sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to execute SearchDeceased query for %q: %w", query, err)
	}
	defer rows.Close()
	return scanDeceasedRows(rows)
}

// GetDeceasedByID returns a single deceased record with its grave and sector
// context, including the grave's current status.
func GetDeceasedByID(db *sql.DB, id int64) (DeceasedRecord, error) {
	queryBuilder := qb.Select(deceasedJoinColumns + ", g.status").
		From("deceased d").
		Join("graves g ON d.grave_id = g.id").
		Join("sectors s ON g.sector_id = s.id").
		Where(sq.Eq{"d.id": id}).
		Limit(1)
	sqlStr, args, err := queryBuilder.ToSql()
	if err != nil {
		return DeceasedRecord{}, fmt.Errorf("failed to build SQL for GetDeceasedByID: %w", err)
	}
	var rec DeceasedRecord
	var dob, details, photoURL sql.NullString
	err = db.QueryRow(sqlStr, args...).Scan(&rec.ID, &rec.FirstName, &rec.LastName, &dob,
		&rec.DateOfDeath, &details, &photoURL, &rec.GraveID, &rec.GraveNumber, &rec.SectorName, &rec.GraveStatus)
	if err != nil {
		if err == sql.ErrNoRows {
			return DeceasedRecord{}, sql.ErrNoRows
		}
		return DeceasedRecord{}, fmt.Errorf("failed to query or scan deceased with ID %d: %w", id, err)
	}
	if dob.Valid {
		rec.DateOfBirth = &dob.String
	}
	rec.Details = details.String
	rec.PhotoURL = photoURL.String
	return rec, nil
}

func scanGraveRows(rows *sql.Rows, withSectorName bool) ([]GraveRecord, error) {
	graves := []GraveRecord{}
	for rows.Next() {
		var g GraveRecord
		var details sql.NullString
		var contactPersonID sql.NullInt64
		var err error
		if withSectorName {
			err = rows.Scan(&g.ID, &g.SectorID, &g.GraveNumber, &g.Status, &details, &contactPersonID, &g.SectorName)
		} else {
			err = rows.Scan(&g.ID, &g.SectorID, &g.GraveNumber, &g.Status, &details, &contactPersonID)
		}
		if err != nil {
			log.Printf("Error scanning grave row: %v", err)
			continue
		}
		g.Details = details.String
		if contactPersonID.Valid {
			g.ContactPersonID = &contactPersonID.Int64
		}
		graves = append(graves, g)
	}
	if err := rows.Err(); err != nil {
		return graves, fmt.Errorf("error iterating grave rows: %w", err)
	}
	return graves, nil
}

// SearchGraves finds graves by exact grave number within a named sector.
func SearchGraves(db *sql.DB, graveNumber, sectorName string) ([]GraveRecord, error) {
	queryBuilder := qb.Select("g.id", "g.sector_id", "g.grave_number", "g.status", "g.details", "g.contact_person_id").
		From("graves g").
		Join("sectors s ON g.sector_id = s.id").
		Where(sq.Eq{"g.grave_number": graveNumber, "s.name": sectorName})
	sqlStr, args, err := queryBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build SQL for SearchGraves: %w", err)
	}
	rows, err := db.Query(sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to execute SearchGraves query: %w", err)
	}
	defer rows.Close()
	return scanGraveRows(rows, false)
}

// ListGravesByContactPerson returns all graves for which the given user is
// the contact person, each joined with its sector name.
func ListGravesByContactPerson(db *sql.DB, userID int64) ([]GraveRecord, error) {
	queryBuilder := qb.Select("g.id", "g.sector_id", "g.grave_number", "g.status", "g.details", "g.contact_person_id", "s.name AS sector_name").
		From("graves g").
		Join("sectors s ON g.sector_id = s.id").
		Where(sq.Eq{"g.contact_person_id": userID}).
		OrderBy("s.name ASC", "g.grave_number ASC")
	sqlStr, args, err := queryBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build SQL for ListGravesByContactPerson: %w", err)
	}
	rows, err := db.Query(sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to execute ListGravesByContactPerson query for user %d: %w", userID, err)
	}
	defer rows.Close()
	return scanGraveRows(rows, true)
}

// GetGraveContactInfo returns the grave/sector summary and the contact
// person's profile (nil when no contact person is assigned).
// Returns sql.ErrNoRows when the grave does not exist.
func GetGraveContactInfo(db *sql.DB, graveID int64) (GraveContactInfo, error) {
	queryBuilder := qb.Select("g.id", "g.grave_number", "g.sector_id", "s.name AS sector_name",
		"u.id", "u.username", "u.email", "u.first_name", "u.last_name", "u.phone").
		From("graves g").
		LeftJoin("users u ON g.contact_person_id = u.id").
		Join("sectors s ON g.sector_id = s.id").
		Where(sq.Eq{"g.id": graveID}).
		Limit(1)
	sqlStr, args, err := queryBuilder.ToSql()
	if err != nil {
		return GraveContactInfo{}, fmt.Errorf("failed to build SQL for GetGraveContactInfo: %w", err)
	}

	var info GraveContactInfo
	var userID sql.NullInt64
	var username, email, firstName, lastName, phone sql.NullString
	err = db.QueryRow(sqlStr, args...).Scan(&info.Grave.ID, &info.Grave.GraveNumber, &info.Grave.SectorID,
		&info.Grave.SectorName, &userID, &username, &email, &firstName, &lastName, &phone)
	if err != nil {
		if err == sql.ErrNoRows {
			return GraveContactInfo{}, sql.ErrNoRows
		}
		return GraveContactInfo{}, fmt.Errorf("failed to query or scan contact info for grave %d: %w", graveID, err)
	}

	if userID.Valid {
		info.ContactPerson = &ContactPerson{
			ID:        userID.Int64,
			Username:  username.String,
			Email:     email.String,
			FirstName: firstName.String,
			LastName:  lastName.String,
			Phone:     phone.String,
		}
	}
	return info, nil
}
