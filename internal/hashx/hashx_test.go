package hashx

import (
	"fmt"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDerive_Deterministic(t *testing.T) {
	a := Derive("BQACAgQAAxkBAAIB")
	b := Derive("BQACAgQAAxkBAAIB")
	assert.Equal(t, a, b)
}

func TestDerive_Format(t *testing.T) {
	id := Derive("some-file-reference")
	require.Len(t, id, IDLength)
	assert.Regexp(t, regexp.MustCompile(`^[0-9a-f]+$`), id)
}

func TestDerive_DistinctInputsNoCollisions(t *testing.T) {
	const n = 10000
	seen := make(map[string]string, n)
	for i := 0; i < n; i++ {
		ref := fmt.Sprintf("synthetic-file-ref-%d", i)
		id := Derive(ref)
		if prev, ok := seen[id]; ok {
			t.Fatalf("collision between %q and %q on id %q", prev, ref, id)
		}
		seen[id] = ref
	}
}

func TestDerive_EmptyReference(t *testing.T) {
	assert.Len(t, Derive(""), IDLength)
}
