package store

import "errors"

var (
	// ErrObjectNotFound is returned when no row matches the given object
	// id for the requesting user. Rows owned by other users are reported
	// the same way.
	ErrObjectNotFound = errors.New("object is not found")
	// ErrVersionConflict is returned when a compare-and-swap write loses
	// to a concurrent writer.
	ErrVersionConflict = errors.New("version conflict")
	// ErrMalformedIdentifier is returned when an object id cannot be
	// parsed for the object type's id kind.
	ErrMalformedIdentifier = errors.New("malformed object identifier")
	// ErrObjectAlreadyExists names a create colliding with an existing
	// primary key. Batches report it as a per-operation result message
	// rather than failing the whole request.
	ErrObjectAlreadyExists = errors.New("object already exists")

	ErrEmailAlreadyExists = errors.New("user with given email already exists")
	ErrNoUserWasFound     = errors.New("no user was found")

	ErrExecutingQuery         = errors.New("error executing query")
	ErrScanningRow            = errors.New("error scanning row")
	ErrScanningRows           = errors.New("error scanning rows")
	ErrBeginningTransaction   = errors.New("error beginning transaction")
	ErrCommittingTransaction  = errors.New("error committing transaction")
	ErrPreparingQuery         = errors.New("error preparing query")
	ErrConnectingToDatabase   = errors.New("error connecting to database")
	ErrUnsupportedDriver      = errors.New("unsupported database driver")
	ErrApplyingMigrations     = errors.New("error applying migrations")
	ErrClassifierInvalidError = errors.New("error is not a postgres error")
)
