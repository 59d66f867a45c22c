package ports

import "context"

// Collection names used across the application. The document store itself is
// schemaless; these constants are the single source of collection naming.
const (
	CollectionAccounts      = "accounts"
	CollectionCredentials   = "credentials"
	CollectionRooms         = "rooms"
	CollectionAllocations   = "roomAllocations"
	CollectionAnnouncements = "announcements"
	CollectionComplaints    = "complaints"
	CollectionPayments      = "payments"
)

// FilterOp is a predicate operator for document queries.
type FilterOp string

const (
	OpEqual        FilterOp = "=="
	OpNotEqual     FilterOp = "!="
	OpGreater      FilterOp = ">"
	OpGreaterEqual FilterOp = ">="
	OpLess         FilterOp = "<"
	OpLessEqual    FilterOp = "<="
)

// Filter is an equality or range predicate on a named document field.
// Field may be a dotted path into nested objects (e.g. "profile.rollNo").
type Filter struct {
	Field string
	Op    FilterOp
	Value any
}

// Where is shorthand for an equality filter.
func Where(field string, value any) Filter {
	return Filter{Field: field, Op: OpEqual, Value: value}
}

// WhereOp builds a filter with an explicit operator.
func WhereOp(field string, op FilterOp, value any) Filter {
	return Filter{Field: field, Op: op, Value: value}
}

// OrderDir is a sort direction.
type OrderDir string

const (
	Ascending  OrderDir = "asc"
	Descending OrderDir = "desc"
)

// Query describes a document query: conjunctive filters, optional single-field
// ordering, optional limit. There are no joins.
type Query struct {
	Filters []Filter
	OrderBy string
	Dir     OrderDir
	Limit   int
}

// Document is a stored document with its id and raw JSON fields.
type Document struct {
	ID     string
	Fields []byte // JSON object
}

// DocumentStore is the external key-document store the application persists
// into. Implementations must apply query filters store-side; callers rely on
// that for self-scoping guarantees.
type DocumentStore interface {
	// Get returns the document with the given id, or a not-found error.
	Get(ctx context.Context, collection, id string) (Document, error)

	// Query returns documents matching q, in q's order when set.
	Query(ctx context.Context, collection string, q Query) ([]Document, error)

	// Create stores fields under the given id. Empty id means the store
	// assigns one. Duplicate ids fail with a conflict error.
	Create(ctx context.Context, collection, id string, fields any) (string, error)

	// Update merges partial fields into an existing document. Missing
	// documents fail with a not-found error.
	Update(ctx context.Context, collection, id string, partial map[string]any) error

	// Delete removes a document. Deleting a missing document is a no-op.
	Delete(ctx context.Context, collection, id string) error
}
