package prompt

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAsk_ReadsLinesInOrder(t *testing.T) {
	var out bytes.Buffer
	p := New(strings.NewReader("beach trip\r\n\nlast"), &out)

	first, err := p.Ask("File name:")
	require.NoError(t, err)
	assert.Equal(t, "beach trip", first)

	second, err := p.Ask("File name:")
	require.NoError(t, err)
	assert.Empty(t, second, "an empty line is a valid empty answer")

	third, err := p.Ask("Write the date:")
	require.NoError(t, err)
	assert.Equal(t, "last", third, "final line without newline is returned")

	_, err = p.Ask("File name:")
	assert.ErrorIs(t, err, ErrInputClosed)
}

func TestAsk_PadsQuestion(t *testing.T) {
	var out bytes.Buffer
	p := New(strings.NewReader("x\n"), &out)

	_, err := p.Ask("File name:")
	require.NoError(t, err)

	assert.Equal(t, "File name:         ", out.String())
	assert.Len(t, out.String(), DefaultWidth)
}

func TestAsk_LongQuestionNotTruncated(t *testing.T) {
	var out bytes.Buffer
	p := New(strings.NewReader("x\n"), &out)

	question := "A question that is longer than the width:"
	_, err := p.Ask(question)
	require.NoError(t, err)

	assert.Equal(t, question+" ", out.String())
}

func TestAsk_KeepsInnerWhitespace(t *testing.T) {
	p := New(strings.NewReader("  padded  \n"), &bytes.Buffer{})

	answer, err := p.Ask("File name:")
	require.NoError(t, err)
	assert.Equal(t, "  padded  ", answer)
}
