package models

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"time"

	go_sqlite "github.com/glebarez/go-sqlite"
	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

type ContextKey string

const (
	DBContextURL ContextKey = "fincontrol-backend-url"
)

// Connect opens the SQLite database and configures the connection pool.
func Connect(dsn string) error {
	db, err := open(sqlite.Open(fmt.Sprintf("%s?_pragma=foreign_keys(1)", dsn)))
	if err != nil {
		return err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database object: %w", err)
	}

	// Get new connections after one hour
	sqlDB.SetConnMaxLifetime(time.Hour)

	// This is done to prevent SQLITE_BUSY errors.
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetMaxOpenConns(1)

	DB = db
	return nil
}

// ConnectPostgres opens a PostgreSQL database with the given DSN.
func ConnectPostgres(dsn string) error {
	db, err := open(postgres.Open(dsn))
	if err != nil {
		return err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database object: %w", err)
	}
	sqlDB.SetConnMaxLifetime(time.Hour)

	DB = db
	return nil
}

func open(dialector gorm.Dialector) (*gorm.DB, error) {
	config := &gorm.Config{
		Logger: newLogger(log.Logger),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	}

	db, err := gorm.Open(dialector, config)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	err = migrate(db)
	if err != nil {
		return nil, err
	}

	err = registerCallbacks(db)
	if err != nil {
		return nil, err
	}

	return db, nil
}

func registerCallbacks(db *gorm.DB) error {
	if err := db.Callback().Query().After("*").Register("fincontrol:after_query", queryCallback); err != nil {
		return err
	}

	if err := db.Callback().Query().After("*").Register("fincontrol:after_query_general", generalCallback); err != nil {
		return err
	}

	if err := db.Callback().Create().After("*").Register("fincontrol:after_create", createUpdateCallback); err != nil {
		return err
	}

	if err := db.Callback().Create().After("*").Register("fincontrol:after_create_general", generalCallback); err != nil {
		return err
	}

	if err := db.Callback().Update().After("*").Register("fincontrol:after_update", createUpdateCallback); err != nil {
		return err
	}

	if err := db.Callback().Update().After("*").Register("fincontrol:after_update_general", generalCallback); err != nil {
		return err
	}

	return db.Callback().Delete().After("*").Register("fincontrol:after_delete_general", generalCallback)
}

// queryCallback replaces the generic "no record" error with a more user
// friendly one
func queryCallback(db *gorm.DB) {
	if errors.Is(db.Error, gorm.ErrRecordNotFound) {
		// Use the table name as information about the type of resource
		// and replace "_" with "[space]"
		name := strings.ReplaceAll(db.Statement.Table, "_", " ")

		// Replace pluralized "ies" with "y"
		match := regexp.MustCompile("ies$")
		name = match.ReplaceAllString(name, "y")

		// Remove plural "s"
		name = strings.TrimRight(name, "s")

		db.Error = fmt.Errorf("%w %s matching your query", ErrResourceNotFound, name)
	}
}

// uniqueViolations maps unique constraints to user friendly errors.
// SQLite reports the columns, PostgreSQL the index name.
var uniqueViolations = []struct {
	match []string
	err   error
}{
	{[]string{"categories.owner_id, categories.name", "idx_category_owner_name"}, ErrCategoryNameNotUnique},
	{[]string{"transactions.owner_id, transactions.salary_month", "idx_transaction_owner_salary_month"}, ErrSalaryAlreadyBooked},
	{[]string{"users.email", "idx_user_email"}, ErrEmailTaken},
}

// createUpdateCallback inspects errors returned by the database for create
// and update calls and replaces them with user friendly ones
func createUpdateCallback(db *gorm.DB) {
	if db.Error == nil {
		return
	}

	msg := db.Error.Error()
	if !strings.Contains(msg, "UNIQUE constraint failed") && !strings.Contains(msg, "duplicate key value") {
		return
	}

	for _, v := range uniqueViolations {
		for _, m := range v.match {
			if strings.Contains(msg, m) {
				db.Error = v.err
				return
			}
		}
	}
}

// generalCallback handles unspecified errors.
//
// For these errors, we cannot provide the user with a helpful message.
// Instead, the error is logged and we return a general message to users.
func generalCallback(db *gorm.DB) {
	if db.Error == nil {
		return
	}

	// "sql: database is closed" is hard-coded in the sql module
	if db.Error.Error() == "sql: database is closed" || reflect.TypeOf(db.Error) == reflect.TypeOf(&go_sqlite.Error{}) {
		log.Error().Msgf("%T: %v", db.Error, db.Error.Error())
		db.Error = ErrGeneral

		return
	}
}

// migrate migrates all models to the schema defined in the code.
func migrate(db *gorm.DB) (err error) {
	err = db.AutoMigrate(User{}, Session{}, Transaction{}, Category{}, Settings{})
	if err != nil {
		return fmt.Errorf("error during DB migration: %w", err)
	}

	return nil
}
