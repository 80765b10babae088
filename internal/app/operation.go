package app

// Operation statuses recorded in the journal.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Operation tracks one CLI invocation. It is created in memory with ID=0;
// only commands that change the workspace persist it to the journal.
type Operation struct {
	ID         int64
	Operation  string
	Parameters string
	Status     string
}

// NewOperation creates an in-memory operation that succeeds unless told
// otherwise.
func NewOperation(operation string) *Operation {
	return &Operation{
		Operation: operation,
		Status:    StatusSuccess,
	}
}

// Persisted reports whether the operation has been written to the journal.
func (op *Operation) Persisted() bool {
	return op.ID != 0
}

// Track marks the operation failed when err is non-nil and returns err.
func (op *Operation) Track(err error) error {
	if err != nil {
		op.Status = StatusError
	}
	return err
}
