// Package page holds offset pagination math for message search.
package page

import (
	"fmt"
	"math"

	"github.com/kailas-cloud/msgsearch/internal/domain"
)

// DefaultSize is the fixed number of messages per page.
const DefaultSize = 100

// DefaultMaxResultWindow is the deepest offset+size the partitions accept.
const DefaultMaxResultWindow = 1_000_000

// Window is a 1-based page of fixed size.
type Window struct {
	number int
	size   int
}

// New creates a page window. size must be positive; number must be >= 1 and
// small enough that number*size does not overflow. Page number errors are
// *domain.ValidationError.
func New(number, size int) (Window, error) {
	if size <= 0 {
		return Window{}, fmt.Errorf("page size must be positive, got %d", size)
	}
	if number < 1 {
		return Window{}, domain.NewValidationError("page", fmt.Sprintf("must be >= 1, got %d", number))
	}
	if number > math.MaxInt/size {
		return Window{}, domain.NewValidationError("page", fmt.Sprintf("too large: %d", number))
	}
	return Window{number: number, size: size}, nil
}

// Number returns the 1-based page number.
func (w Window) Number() int { return w.number }

// Size returns the page size.
func (w Window) Size() int { return w.size }

// From returns the zero-based offset of the first hit on this page.
func (w Window) From() int { return (w.number - 1) * w.size }

// End returns the offset just past the last hit on this page.
func (w Window) End() int { return w.number * w.size }

// CheckWithin rejects pages that reach past maxWindow hits.
func (w Window) CheckWithin(maxWindow int) error {
	if w.End() > maxWindow {
		return domain.NewValidationError("page", fmt.Sprintf("must be <= %d", maxWindow/w.size))
	}
	return nil
}

// HasMore reports whether hits exist beyond this page.
func (w Window) HasMore(total int) bool { return w.From()+w.size < total }
