package cache

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type label string

func (l label) String() string { return "label-" + string(l) }

func TestKey(t *testing.T) {
	id := uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")
	at := time.Date(2024, 1, 2, 3, 4, 5, 0, time.FixedZone("x", 3600))

	assert.Equal(t, "orders:42", Key("orders", 42))
	assert.Equal(t, "orders:list:-7:true:1.5", Key("orders", "list", int16(-7), true, 1.5))
	assert.Equal(t, "u:"+id.String(), Key("u", id))
	assert.Equal(t, "t:2024-01-02T02:04:05Z", Key("t", at))
	assert.Equal(t, "s:label-a", Key("s", label("a")))
	assert.Equal(t, "a:b", Key("", "a", "b"))
	assert.Equal(t, "p", Key("p"))
	assert.Equal(t, "p:", Key("p", nil))
	assert.Equal(t, "p:[1 2]", Key("p", []int{1, 2}))
}

func TestKeyDigestsLongParts(t *testing.T) {
	long := strings.Repeat("x", MaxPartLen+1)
	k := Key("q", long, "tail")
	parts := strings.Split(k, ":")
	assert.Len(t, parts, 3)
	assert.Len(t, parts[1], 32)
	assert.Equal(t, "tail", parts[2])
	assert.Equal(t, k, Key("q", long, "tail"))
	assert.NotEqual(t, k, Key("q", long+"y", "tail"))

	exact := strings.Repeat("x", MaxPartLen)
	assert.Equal(t, "q:"+exact, Key("q", exact))
}

type Order struct{}

func TestTags(t *testing.T) {
	tag := TagFor[Order]()
	assert.Equal(t, tag, TagFor[*Order]())
	assert.Equal(t, tag, TagOf(&Order{}))
	assert.Equal(t, tag, TagOf(Order{}))
	assert.Contains(t, tag, "order")
	assert.NotContains(t, tag, "/")
	assert.Equal(t, "", TagOf(nil))
	assert.NotEqual(t, tag, TagFor[label]())
}
