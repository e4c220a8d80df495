package outbuf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// collect records every transmitted buffer without completing the
// transmission, mimicking an asynchronous transport.
type collect struct {
	sent [][]byte
}

func (c *collect) transmit(p []byte) error {
	cp := make([]byte, len(p))
	copy(cp, p)
	c.sent = append(c.sent, cp)
	return nil
}

func TestPutAndFlush(t *testing.T) {
	var c collect
	b := New(64, c.transmit)

	require.NoError(t, b.PutString("hello "))
	require.NoError(t, b.Put([]byte("world")))
	require.NoError(t, b.PutByte('!'))
	assert.Equal(t, 12, b.Stored())

	err := b.Flush()
	assert.ErrorIs(t, err, ErrTransmitInProgress)
	require.Len(t, c.sent, 1)
	assert.Equal(t, "hello world!", string(c.sent[0]))
	assert.Equal(t, 0, b.Stored())

	b.TxComplete()
	assert.NoError(t, b.Flush())
}

func TestFlushEmptyIsClean(t *testing.T) {
	var c collect
	b := New(64, c.transmit)

	assert.NoError(t, b.Flush())
	assert.Empty(t, c.sent)
}

func TestSecondFlushWhileInFlight(t *testing.T) {
	var c collect
	b := New(64, c.transmit)

	require.NoError(t, b.PutString("first"))
	assert.ErrorIs(t, b.Flush(), ErrTransmitInProgress)

	// More output lands in the alternate buffer while the first
	// transmission is outstanding; it must not be handed over yet.
	require.NoError(t, b.PutString("second"))
	assert.ErrorIs(t, b.Flush(), ErrTransmitInProgress)
	assert.Len(t, c.sent, 1)
	assert.Equal(t, 6, b.Stored())

	b.TxComplete()
	assert.ErrorIs(t, b.Flush(), ErrTransmitInProgress)
	require.Len(t, c.sent, 2)
	assert.Equal(t, "second", string(c.sent[1]))

	b.TxComplete()
	assert.NoError(t, b.Flush())
}

func TestPingPongAlternates(t *testing.T) {
	var c collect
	b := New(64, c.transmit)

	for i := 0; i < 4; i++ {
		require.NoError(t, b.PutByte(byte('a' + i)))
		b.Flush()
		b.TxComplete()
	}
	require.Len(t, c.sent, 4)
	assert.Equal(t, "a", string(c.sent[0]))
	assert.Equal(t, "d", string(c.sent[3]))
}

func TestOverflow(t *testing.T) {
	var c collect
	b := New(8, c.transmit)

	require.NoError(t, b.PutString("1234567"))
	assert.ErrorIs(t, b.PutByte('x'), ErrBufferFull)
	assert.ErrorIs(t, b.PutString("ab"), ErrBufferFull)
	assert.Equal(t, 7, b.Stored(), "failed append must not store anything")
}

func TestWriter(t *testing.T) {
	var c collect
	b := New(64, c.transmit)

	n, err := b.Write([]byte("via io.Writer"))
	require.NoError(t, err)
	assert.Equal(t, 13, n)
	assert.Equal(t, 13, b.Stored())
}
