package status

import (
	"bytes"
	"fmt"
	"testing"

	"edshell/internal/log"

	"github.com/stretchr/testify/assert"
)

func TestBar(t *testing.T) {
	bar := NewBar()
	bar.SetMessage("saved main.c", Message)
	bar.SetMessage("Ln 3, Col 7", Position)
	bar.SetMessage(" 110%", Zoom)

	assert.Equal(t, "saved main.c", bar.Text(Message))
	assert.Equal(t, "Ln 3, Col 7", bar.Text(Position))
	assert.Equal(t, " 110%", bar.Text(Zoom))
	assert.Equal(t, "", bar.Text(Encoding))

	bar.SetMessage("ignored", Channel(42))
	assert.Equal(t, "", bar.Text(Channel(42)))

	bar.Clear()
	assert.Equal(t, "", bar.Text(Message))
}

func TestChannelString(t *testing.T) {
	assert.Equal(t, "position", Position.String())
	assert.Equal(t, "unknown", Channel(9).String())
}

func TestLogged(t *testing.T) {
	var buf bytes.Buffer
	log.Configure(log.WithOutput(&buf))
	defer log.Configure()
	log.SetDebug(true)
	defer log.SetDebug(false)

	bar := NewBar()
	n := WithLogging(bar)
	n.SetMessage("hello", Message)

	assert.Equal(t, "hello", bar.Text(Message))
	assert.Contains(t, buf.String(), `status: "hello"`)
	assert.Contains(t, buf.String(), "channel=message")

	// A nil target only logs
	WithLogging(nil).SetMessage("x", Zoom)
}

func TestOutput(t *testing.T) {
	out := NewOutput(3)
	out.Append("one\ntwo\n")
	out.Appendf("three %d", 3)
	assert.Equal(t, []string{"one", "two", "three 3"}, out.Lines())

	out.Append("four")
	assert.Equal(t, []string{"two", "three 3", "four"}, out.Lines())
	assert.Equal(t, []string{"four"}, out.Tail(1))
	assert.Len(t, out.Tail(10), 3)
	assert.Empty(t, out.Tail(0))
	assert.Empty(t, out.Tail(-2))

	out.Clear()
	assert.Equal(t, 0, out.Len())

	big := NewOutput(0)
	for i := 0; i < DefaultOutputLines+5; i++ {
		big.Append(fmt.Sprint(i))
	}
	assert.Equal(t, DefaultOutputLines, big.Len())
}
