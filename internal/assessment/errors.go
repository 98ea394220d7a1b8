package assessment

import "errors"

var (
	// ErrSetupFailure means the question set could not be loaded or was empty.
	ErrSetupFailure = errors.New("question set unavailable")
	// ErrAdjudicationFailure means a delegated verdict could not be obtained. Resubmit.
	ErrAdjudicationFailure = errors.New("answer check failed")
	// ErrEmissionFailure means the terminal result could not be delivered to the sink.
	ErrEmissionFailure = errors.New("result submission failed")
	// ErrNoQuestions is wrapped in ErrSetupFailure when the source returned nothing.
	ErrNoQuestions = errors.New("no questions returned")
)
