package test

import (
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"
)

const asciiLetters = "abcdefghijklmnopqrstuvwxyz0123456789"

var (
	rngMu sync.Mutex
	rng   = rand.New(rand.NewSource(time.Now().UnixNano()))
)

// RandomString returns a lowercase alphanumeric string of length n.
func RandomString(n int) string {
	if n <= 0 {
		n = 1
	}
	var b strings.Builder
	b.Grow(n)
	rngMu.Lock()
	defer rngMu.Unlock()
	for i := 0; i < n; i++ {
		b.WriteByte(asciiLetters[rng.Intn(len(asciiLetters))])
	}
	return b.String()
}

// RandomEmail returns a unique-looking address in the example.com domain.
func RandomEmail() string {
	return fmt.Sprintf("%s@example.com", RandomString(10))
}
