package video

import (
	"bytes"
	"io"
	"sync"
)

var (
	soiMarker = []byte{0xFF, 0xD8}
	eoiMarker = []byte{0xFF, 0xD9}
)

// maxPendingBytes bounds the partial-frame buffer when an end marker never
// shows up in a corrupt stream.
const maxPendingBytes = 4 << 20

// Splitter consumes a raw MJPEG byte stream and keeps the most recent
// complete JPEG frame.
type Splitter struct {
	src io.Reader

	mu    sync.Mutex
	frame []byte
}

func NewSplitter(src io.Reader) *Splitter {
	s := &Splitter{src: src}

	go s.run()

	return s
}

func (s *Splitter) run() {
	buf := make([]byte, 16384)
	var pending []byte

	for {
		n, err := s.src.Read(buf)

		if n > 0 {
			pending = s.scan(append(pending, buf[:n]...))

			if len(pending) > maxPendingBytes {
				pending = nil
			}
		}

		if err != nil {
			return
		}
	}
}

// scan extracts every complete SOI..EOI frame from data and returns the
// unconsumed tail, which starts at a partial frame if one is in flight.
func (s *Splitter) scan(data []byte) []byte {
	for {
		start := bytes.Index(data, soiMarker)

		if start == -1 {
			return nil
		}

		end := bytes.Index(data[start+2:], eoiMarker)

		if end == -1 {
			return data[start:]
		}

		frameEnd := start + 2 + end + 2
		frame := make([]byte, frameEnd-start)
		copy(frame, data[start:frameEnd])
		s.setFrame(frame)

		data = data[frameEnd:]
	}
}

func (s *Splitter) setFrame(frame []byte) {
	s.mu.Lock()
	s.frame = frame
	s.mu.Unlock()
}

// Frame returns the latest complete frame, or nil if none has arrived yet.
// The returned slice is never mutated after publication.
func (s *Splitter) Frame() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frame
}
