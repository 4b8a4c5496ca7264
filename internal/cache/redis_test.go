package cache

import (
	"strings"
	"testing"
	"time"
)

func TestBuildKey(t *testing.T) {
	a := buildKey("a happy story")
	b := buildKey("a happy story")
	c := buildKey("a sad story")

	if a != b {
		t.Errorf("same text should give the same key: %s vs %s", a, b)
	}
	if a == c {
		t.Errorf("different texts should give different keys: %s", a)
	}
	if !strings.HasPrefix(a, keyPrefix) {
		t.Errorf("key %s is missing prefix %s", a, keyPrefix)
	}
	if len(a) != len(keyPrefix)+16 {
		t.Errorf("expected a 16 digit hash suffix, got %s", a)
	}
}

func TestNewCacheDefaultTTL(t *testing.T) {
	c := NewCache(nil, 0)
	if c.ttl != defaultTTL {
		t.Errorf("expected default ttl %v, got %v", defaultTTL, c.ttl)
	}

	c = NewCache(nil, time.Minute)
	if c.ttl != time.Minute {
		t.Errorf("expected 1m ttl, got %v", c.ttl)
	}
}
