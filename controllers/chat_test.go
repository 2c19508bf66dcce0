package controllers

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestChatTitleKeepsShortMessages(t *testing.T) {
	assert.Equal(t, "what is NFS-e?", chatTitle("what is NFS-e?"))
	assert.Equal(t, "trimmed", chatTitle("  trimmed\n"))
}

func TestChatTitleBlankFallsBack(t *testing.T) {
	assert.Equal(t, "New Chat", chatTitle("   "))
}

func TestChatTitleTruncatesOnRuneBoundary(t *testing.T) {
	// 1 ASCII char plus 60 two-byte runes is 121 bytes but only 61 runes; a
	// byte-indexed cut would land mid-rune and yield invalid UTF-8.
	msg := "x" + strings.Repeat("é", 60)
	got := chatTitle(msg)
	assert.Equal(t, msg, got)
	assert.True(t, utf8.ValidString(got))

	long := strings.Repeat("ção ", 50)
	got = chatTitle(long)
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, 80, utf8.RuneCountInString(got))
}

func TestChatTitleExactLimitUntouched(t *testing.T) {
	msg := strings.Repeat("a", 80)
	assert.Equal(t, msg, chatTitle(msg))
}
