package sse

import (
	"bufio"
	"bytes"
	"io"
	"strings"
)

// Event is a single server-sent event.
type Event struct {
	Type string
	ID   string
	Data string
}

// Decoder reads server-sent events off a wire stream.
type Decoder struct {
	r *bufio.Reader
}

func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{r: bufio.NewReader(r)}
}

var (
	eventField = []byte("event:")
	dataField  = []byte("data:")
	idField    = []byte("id:")
	retryField = []byte("retry:")
	space      = []byte{' '}
)

func buildEvent(t, id string, data *strings.Builder) Event {
	return Event{
		Type: t,
		ID:   id,
		Data: data.String(),
	}
}

// Next returns the next complete event from the stream. It returns
// io.ErrUnexpectedEOF if the stream ends mid-event.
func (d *Decoder) Next() (Event, error) {
	var t, id string
	var data strings.Builder
	for {
		line, err := d.r.ReadBytes('\n')
		if err == io.EOF {
			return buildEvent(t, id, &data), io.ErrUnexpectedEOF
		}
		if err != nil {
			return buildEvent(t, id, &data), err
		}

		switch {
		case line[0] == '\n':
			// a blank line finishes the event
			return buildEvent(t, id, &data), nil
		case bytes.HasPrefix(line, eventField):
			t = string(bytes.TrimPrefix(line[len(eventField):len(line)-1], space))
		case bytes.HasPrefix(line, dataField):
			// strings.Builder.Write never returns an error
			data.Write(bytes.TrimPrefix(line[len(dataField):], space))
		case bytes.HasPrefix(line, idField):
			id = string(bytes.TrimPrefix(line[len(idField):len(line)-1], space))
		case bytes.HasPrefix(line, retryField):
			// reconnect timing is the streamer's concern
		default:
			// ignore the line
		}
	}
}
