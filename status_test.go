package linguacrawl_test

import (
	"testing"

	"github.com/fwojciec/linguacrawl"
	"github.com/stretchr/testify/assert"
)

func TestStatus_Validate(t *testing.T) {
	t.Parallel()

	t.Run("accepts a snapshot without classes", func(t *testing.T) {
		t.Parallel()

		s := &linguacrawl.Status{
			Processed: []string{"https://example.com/a"},
			Pending:   []string{"https://example.com/b"},
			Attempts:  3,
		}

		assert.NoError(t, s.Validate())
		assert.Equal(t, linguacrawl.ClassUnknown, s.PendingClass(0))
	})

	t.Run("rejects nil", func(t *testing.T) {
		t.Parallel()

		var s *linguacrawl.Status
		assert.Equal(t, linguacrawl.ECORRUPT, linguacrawl.ErrorCode(s.Validate()))
	})

	t.Run("rejects mismatched classes", func(t *testing.T) {
		t.Parallel()

		s := &linguacrawl.Status{
			Pending:        []string{"https://example.com/a", "https://example.com/b"},
			PendingClasses: []linguacrawl.PriorityClass{linguacrawl.ClassTarget},
		}

		assert.Equal(t, linguacrawl.ECORRUPT, linguacrawl.ErrorCode(s.Validate()))
	})

	t.Run("rejects unknown classes", func(t *testing.T) {
		t.Parallel()

		s := &linguacrawl.Status{
			Pending:        []string{"https://example.com/a"},
			PendingClasses: []linguacrawl.PriorityClass{7},
		}

		assert.Equal(t, linguacrawl.ECORRUPT, linguacrawl.ErrorCode(s.Validate()))
	})

	t.Run("rejects invalid urls", func(t *testing.T) {
		t.Parallel()

		s := &linguacrawl.Status{Processed: []string{"not a url"}}

		assert.Equal(t, linguacrawl.ECORRUPT, linguacrawl.ErrorCode(s.Validate()))
	})

	t.Run("rejects negative attempts", func(t *testing.T) {
		t.Parallel()

		s := &linguacrawl.Status{Attempts: -1}

		assert.Equal(t, linguacrawl.ECORRUPT, linguacrawl.ErrorCode(s.Validate()))
	})
}
