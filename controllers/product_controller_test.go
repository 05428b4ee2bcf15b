package controllers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseImageURLList(t *testing.T) {
	assert.Equal(t, []string{}, parseImageURLList(""))
	assert.Equal(t, []string{"https://a/1.jpg"}, parseImageURLList("https://a/1.jpg"))
	assert.Equal(t, []string{"https://a/1.jpg", "https://a/2.jpg"},
		parseImageURLList(`["https://a/1.jpg","https://a/2.jpg"]`))
	// broken JSON falls back to the raw value
	assert.Equal(t, []string{"[broken"}, parseImageURLList("[broken"))
}

func TestParseBoolDefault(t *testing.T) {
	assert.True(t, parseBoolDefault("true", false))
	assert.False(t, parseBoolDefault("false", true))
	assert.True(t, parseBoolDefault("", true))
	assert.True(t, parseBoolDefault("not-a-bool", true))
}
