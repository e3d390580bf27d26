package table

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCompare_NaturalOrder(t *testing.T) {
	early := time.Unix(1_700_000_000, 0)
	late := early.Add(time.Hour)

	cases := []struct {
		name string
		a, b Cell
		want int
	}{
		{"strings", String("alice"), String("bob"), -1},
		{"strings equal", String("x"), String("x"), 0},
		{"ints numeric not lexicographic", Int(10), Int(9), 1},
		{"negative ints", Int(-3), Int(2), -1},
		{"instants", Time(early), Time(late), -1},
		{"unset before instant", Unset(), Time(early), -1},
		{"instant after unset", Time(early), Unset(), 1},
		{"unset equals unset", Unset(), Unset(), 0},
		{"mixed kinds order by kind", String("zzz"), Int(0), -1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Compare(tc.a, tc.b))
		})
	}
}

func TestCell_String(t *testing.T) {
	at := time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)

	assert.Equal(t, "N/A", Unset().String())
	assert.Equal(t, at.Local().Format(TimeLayout), Time(at).String())
	assert.Equal(t, "42", Int(42).String())
	assert.Equal(t, "normal", String("normal").String())
	assert.Equal(t, "", Cell{}.String())
}

func TestCell_Accessors(t *testing.T) {
	assert.True(t, Unset().IsUnset())
	assert.False(t, Time(time.Now()).IsUnset())
	assert.False(t, String("").IsUnset())
	assert.True(t, Unset().Instant().IsZero())
	assert.Equal(t, KindInt, Int(1).Kind())
	assert.Equal(t, int64(7), Int(7).Int64())
	assert.Equal(t, "qos", String("qos").Text())
	assert.Equal(t, "time", KindTime.String())
}
