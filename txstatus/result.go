package txstatus

import "fmt"

// Status enumerates the Result variants.
type Status uint8

const (
	StatusPending Status = iota + 1
	StatusConfirmed
	StatusReverted
	StatusNotFound
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusConfirmed:
		return "confirmed"
	case StatusReverted:
		return "reverted"
	case StatusNotFound:
		return "not_found"
	case StatusFailed:
		return "failed"
	default:
		return fmt.Sprintf("status(%d)", uint8(s))
	}
}

// Result is the chain independent outcome of a status resolution. It is one of Pending,
// Confirmed, Reverted, NotFound or Failed.
//
// Confirmed, Reverted and Failed are terminal: resolving the same request again yields the same
// variant. Pending and NotFound may change on a later resolution.
type Result interface {
	Status() Status
	// Terminal reports whether the outcome can no longer change.
	Terminal() bool

	isResult()
}

// Pending means the transaction is not yet included, or is not visible yet but may still land.
type Pending struct{}

// Confirmed means the transaction was included and executed successfully.
type Confirmed struct {
	BlockHeight uint64
	// Fee is the fee paid, formatted in the chain's display unit (e.g. "0.00001" SOL).
	Fee string
}

// Reverted means the transaction was included but its execution failed.
type Reverted struct {
	Reason string
}

// NotFound means the chain has progressed past the point where the transaction would
// reasonably have appeared.
type NotFound struct{}

// Failed means the chain's answer could not be turned into one of the other outcomes.
type Failed struct {
	Err Classification
}

func (Pending) Status() Status   { return StatusPending }
func (Confirmed) Status() Status { return StatusConfirmed }
func (Reverted) Status() Status  { return StatusReverted }
func (NotFound) Status() Status  { return StatusNotFound }
func (Failed) Status() Status    { return StatusFailed }

func (Pending) Terminal() bool   { return false }
func (Confirmed) Terminal() bool { return true }
func (Reverted) Terminal() bool  { return true }
func (NotFound) Terminal() bool  { return false }
func (Failed) Terminal() bool    { return true }

func (Pending) isResult()   {}
func (Confirmed) isResult() {}
func (Reverted) isResult()  {}
func (NotFound) isResult()  {}
func (Failed) isResult()    {}

func (Pending) String() string { return "pending" }

func (c Confirmed) String() string {
	return fmt.Sprintf("confirmed (block %d, fee %s)", c.BlockHeight, c.Fee)
}

func (r Reverted) String() string {
	if r.Reason == "" {
		return "reverted"
	}

	return "reverted: " + r.Reason
}

func (NotFound) String() string { return "not_found" }

func (f Failed) String() string { return "failed: " + f.Err.String() }
