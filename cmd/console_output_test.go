package cmd

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestConsoleWriter(t *testing.T) {
	out := new(bytes.Buffer)
	writer := NewConsoleWriter(out)
	writer.Debug = false
	logger := zerolog.New(writer)

	logger.Info().Str("project", "pleiades").Msg("building pleiades")
	logger.Info().Str("project", "pleiades").Bool("command", true).Msg("cargo build")
	logger.Error().Str("project", "api").Msg("build(api) exited with status 1")

	output := out.String()
	assert.Contains(t, output, "pleiades: building pleiades")
	assert.Contains(t, output, "pleiades: $ cargo build")
	assert.Contains(t, output, "api: Error: build(api) exited with status 1")
	assert.Equal(t, 3, bytes.Count(out.Bytes(), []byte("\n")))
}

func TestConsoleWriterRejectsInvalidEvents(t *testing.T) {
	writer := NewConsoleWriter(new(bytes.Buffer))

	_, err := writer.Write([]byte("not json"))
	assert.Error(t, err)
}
