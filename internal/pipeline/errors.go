package pipeline

import "fmt"

// Kind classifies a pipeline failure into a fixed taxonomy. An HTTP
// transport layer, if one is wired up, maps each Kind to a status code.
type Kind string

// Error kinds.
const (
	KindCloneFailed         Kind = "CloneFailed"
	KindTimeout             Kind = "Timeout"
	KindNoSolutionOrProject Kind = "NoSolutionOrProject"
	KindLimitsExceeded      Kind = "LimitsExceeded"
	KindNoSuitableProjects  Kind = "NoSuitableProjects"
	KindMissingSdk          Kind = "MissingSdk"
	KindBuildFailed         Kind = "BuildFailed"
	KindInternalError       Kind = "InternalError"
)

// Error is the typed error every pipeline stage returns on failure. Stages
// short-circuit the pipeline by returning one of these instead of a plain
// error; interior helpers may still return plain errors that the stage
// wraps via one of the New* constructors below.
type Error struct {
	Kind    Kind
	Message string

	// DetectedLanguages and FoundFiles are populated by Triage on
	// NoSolutionOrProject.
	DetectedLanguages []string
	FoundFiles        []string

	// TargetTag is populated by the parser stage on MissingSdk.
	TargetTag string

	// Remediation is populated on BuildFailed with a suggested next step.
	Remediation string

	cause error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.cause)
	}

	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// NewCloneFailed builds a CloneFailed error from the underlying transport reason.
func NewCloneFailed(reason string, cause error) *Error {
	return &Error{Kind: KindCloneFailed, Message: reason, cause: cause}
}

// NewTimeout builds a Timeout error for the named budget.
func NewTimeout(budget string) *Error {
	return &Error{Kind: KindTimeout, Message: "exceeded " + budget + " budget"}
}

// NewNoSolutionOrProject builds a NoSolutionOrProject error carrying language evidence.
func NewNoSolutionOrProject(detectedLanguages, foundFiles []string) *Error {
	return &Error{
		Kind:              KindNoSolutionOrProject,
		Message:           "no .sln or .csproj manifest found",
		DetectedLanguages: detectedLanguages,
		FoundFiles:        foundFiles,
	}
}

// NewLimitsExceeded builds a LimitsExceeded error describing which limit tripped.
func NewLimitsExceeded(message string) *Error {
	return &Error{Kind: KindLimitsExceeded, Message: message}
}

// NewNoSuitableProjects builds a NoSuitableProjects error.
func NewNoSuitableProjects() *Error {
	return &Error{Kind: KindNoSuitableProjects, Message: "every candidate project was filtered out"}
}

// NewMissingSdk builds a MissingSdk error carrying the inferred target platform tag.
func NewMissingSdk(targetTag string, cause error) *Error {
	return &Error{Kind: KindMissingSdk, Message: "unresolved framework/SDK reference", TargetTag: targetTag, cause: cause}
}

// NewBuildFailed builds a BuildFailed error carrying a remediation hint.
func NewBuildFailed(remediation string, cause error) *Error {
	return &Error{Kind: KindBuildFailed, Message: "no project produced a compilation", Remediation: remediation, cause: cause}
}

// NewInternalError wraps an unclassified failure.
func NewInternalError(cause error) *Error {
	return &Error{Kind: KindInternalError, Message: "internal error", cause: cause}
}
