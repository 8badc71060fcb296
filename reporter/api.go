package reporter

import "context"

type (
	// Outcome distinguishes the three results of querying the transport's
	// last-error store. "No error stored" and "the store could not be
	// queried" are different facts and must never be conflated.
	Outcome int

	Report struct {
		Outcome     Outcome
		Code        int
		Description string
	}

	Client interface {
		// Last queries the transport for its most recently recorded error.
		Last(ctx context.Context) Report
	}
)

const (
	// OutcomeNoError means the query succeeded and nothing is stored.
	OutcomeNoError Outcome = iota

	// OutcomeStored means the query succeeded and Code/Description carry
	// the recorded failure.
	OutcomeStored

	// OutcomeUnavailable means the query itself failed; nothing can be
	// said about prior failures.
	OutcomeUnavailable
)

func (o Outcome) String() string {
	switch o {
	case OutcomeNoError:
		return "NoError"
	case OutcomeStored:
		return "Stored"
	case OutcomeUnavailable:
		return "Unavailable"
	}

	return "Unknown"
}
