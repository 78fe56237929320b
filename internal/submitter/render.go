package submitter

import (
	"fmt"
	"io"

	"github.com/danmuck/chainctl/internal/protocol"
)

// RenderResult prints a query outcome in the scheduler's report format.
func RenderResult(w io.Writer, jobID uint32, r protocol.QueryResult) error {
	var err error
	switch r.Status {
	case protocol.StatusNotFound:
		_, err = fmt.Fprintf(w, "No job with ID %d found on scheduler...\n", jobID)
	case protocol.StatusInProgress:
		_, err = fmt.Fprintf(w, "Job ID %d is still being computed, please try again later...\n", jobID)
	case protocol.StatusDone:
		if len(r.Items) != len(r.Answers) {
			return fmt.Errorf("%w: %d items, %d answers", protocol.ErrInvalidLength, len(r.Items), len(r.Answers))
		}
		n := len(r.Items)
		if _, err = fmt.Fprintf(w, "SUCCESS\nJob ID %d has %d of %d completed\n", jobID, n, n); err != nil {
			return err
		}
		for i := range r.Items {
			if _, err = fmt.Fprintf(w, "Item: %d ---> Answer: %d\n", r.Items[i], r.Answers[i]); err != nil {
				return err
			}
		}
	default:
		return fmt.Errorf("%w: %d", protocol.ErrUnknownStatus, uint32(r.Status))
	}
	return err
}
