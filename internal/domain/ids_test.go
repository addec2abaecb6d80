package domain_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/suministros-api/internal/domain"
)

func TestValidID(t *testing.T) {
	assert.True(t, domain.ValidID(uuid.NewString()))
	for _, id := range []string{"", "abc", "nope", "1", "00000000-0000-0000-0000-00000000000Z"} {
		assert.False(t, domain.ValidID(id), id)
	}
}
