// internal/domain/homework/homework.go
package homework

// Status is the review state reported by the status API for a homework.
type Status string

const (
	StatusApproved  Status = "approved"
	StatusReviewing Status = "reviewing"
	StatusRejected  Status = "rejected"
)

// Verdicts maps every recognised status to the sentence sent to the student.
var Verdicts = map[Status]string{
	StatusApproved:  "Work reviewed: the reviewer liked everything. Hooray!",
	StatusReviewing: "Work has been taken up for review.",
	StatusRejected:  "Work reviewed: the reviewer has comments.",
}

// Homework is one submitted work item. Other fields returned by the API are ignored.
type Homework struct {
	Name   string
	Status Status
}

// Verdict returns the human message for s and whether s is a known status.
func (s Status) Verdict() (string, bool) {
	v, ok := Verdicts[s]
	return v, ok
}
