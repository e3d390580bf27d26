package diag

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProcessProbe_ReportsOwnMemory(t *testing.T) {
	rss, err := NewProcessProbe().RSS()
	require.NoError(t, err)
	assert.Greater(t, rss, uint64(0))
}

func TestStaticProbe(t *testing.T) {
	rss, err := StaticProbe(2048).RSS()
	require.NoError(t, err)
	assert.Equal(t, uint64(2048), rss)
}

func TestFormatBytes(t *testing.T) {
	assert.Equal(t, "0B", FormatBytes(0))
	assert.Equal(t, "1KiB", FormatBytes(1024))
	assert.Equal(t, "1.5MiB", FormatBytes(3<<19))
}
